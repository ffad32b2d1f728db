package backend

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/advdv/finalhandler"
	"github.com/advdv/finalhandler/internal/reqlog"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewFinal creates the final handler from the environment. Errors are also logged
// through the onerror callback, at debug level since the access log covers them.
func NewFinal(env Environment, logger *zap.Logger) (*finalhandler.Final, error) {
	opts := append(env.Config.Options(),
		finalhandler.WithLogger(finalhandler.NewZapLogger(logger)),
		finalhandler.WithOnError(func(err error, r *http.Request, _ http.ResponseWriter) {
			logger.Debug("responded with error",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Error(err))
		}),
	)

	final, err := finalhandler.New(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to configure final handler")
	}

	return final, nil
}

// MuxParams holds the dependencies of the backend's router.
type MuxParams struct {
	fx.In

	Env    Environment
	Logger *zap.Logger
	Final  *finalhandler.Final
}

// NewMux creates the router: the health endpoint, the error pages under /errors and
// the final handler for everything else.
func NewMux(params MuxParams) *finalhandler.ServeMux {
	mux := finalhandler.NewServeMuxWith(
		params.Env.BufferLimit,
		finalhandler.NewZapLogger(params.Logger),
		http.NewServeMux(),
		params.Final,
	)

	mux.Use(reqlog.Middleware(params.Logger))
	mux.HandleFunc("GET "+params.Env.HealthPath, serveHealth)
	mux.Mount("GET /errors", finalhandler.HandlerFunc(serveErrorPage))

	return mux
}

func serveHealth(_ context.Context, w finalhandler.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, err := fmt.Fprintln(w, "ok")

	return err
}

// serveErrorPage renders the error page for the status in the path, e.g. /errors/503.
// Reverse proxies use it to replace the bodies of upstream errors.
func serveErrorPage(_ context.Context, _ finalhandler.ResponseWriter, r *http.Request) error {
	raw := strings.Trim(r.URL.Path, "/")

	code, err := strconv.Atoi(raw)
	if err != nil || code < 400 || code >= 600 {
		return finalhandler.NewError(finalhandler.CodeNotFound, errors.Newf("no error page for %q", raw))
	}

	return finalhandler.NewError(finalhandler.Code(code), errors.New(finalhandler.StatusText(code)))
}

// ServerParams holds the dependencies for creating an HTTP server.
type ServerParams struct {
	fx.In

	Env        Environment
	Mux        *finalhandler.ServeMux
	TracerProv trace.TracerProvider
	Propagator propagation.TextMapPropagator
}

// NewServer creates the HTTP server with tracing around the router. The health path
// is not traced.
func NewServer(params ServerParams) *http.Server {
	handler := withTracing(params.TracerProv, params.Propagator, params.Env.ServiceName, params.Env.HealthPath)(params.Mux)

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", params.Env.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// startServerHook registers lifecycle hooks for the HTTP server.
func startServerHook(lc fx.Lifecycle, server *http.Server, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			logger.Info("starting server", zap.String("addr", server.Addr))
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server error", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping server")
			return server.Shutdown(ctx)
		},
	})
}
