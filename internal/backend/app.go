// Package backend implements finald, a default backend that answers every request
// it has no route for with the final handler's 404, and renders error pages for
// reverse proxies under /errors/{code}.
package backend

import (
	"context"

	"go.uber.org/fx"
)

// App wraps an fx.App for lifecycle management.
type App struct {
	app *fx.App
}

// FxOptions returns the dependency graph of the backend followed by extra options.
func FxOptions(extra ...fx.Option) []fx.Option {
	opts := []fx.Option{
		fx.NopLogger,
		fx.Provide(ParseEnv),
		fx.Provide(NewLogger),
		fx.Provide(NewTracerProvider),
		fx.Provide(NewPropagator),
		fx.Provide(NewFinal),
		fx.Provide(NewMux),
		fx.Provide(NewServer),
		fx.Invoke(startServerHook),
	}

	return append(opts, extra...)
}

// NewApp creates the backend application.
func NewApp(extra ...fx.Option) *App {
	return &App{app: fx.New(FxOptions(extra...)...)}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() {
	a.app.Run()
}

// Err returns the error of building the dependency graph, if any.
func (a *App) Err() error {
	return a.app.Err()
}

// Start starts the application and stops it once ctx is done.
func (a *App) Start(ctx context.Context) error {
	if err := a.app.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), a.app.StopTimeout())
	defer cancel()

	return a.app.Stop(stopCtx)
}
