// Package reqlog implements request scoped logging as middleware.
package reqlog

import (
	"context"
	"net/http"
	"time"

	"github.com/advdv/finalhandler"
	"go.uber.org/zap"
)

// ctxKey type scopes middleware values.
type ctxKey string

// Middleware adds a logger with the request's method and path to the context, and logs
// one line per request once the response is decided. The status of failed requests is
// the one the final handler picked.
func Middleware(logs *zap.Logger) finalhandler.Middleware {
	return func(next finalhandler.BareHandler) finalhandler.BareHandler {
		return finalhandler.BareHandlerFunc(func(w finalhandler.ResponseWriter, r *http.Request) error {
			logs := logs.With(zap.String("method", r.Method), zap.String("path", r.URL.Path))
			r = r.WithContext(context.WithValue(r.Context(), ctxKey("zap"), logs))

			start := time.Now()
			err := next.ServeBareBHTTP(w, r)

			fields := []zap.Field{zap.Duration("duration", time.Since(start))}
			if sink, ok := w.(finalhandler.Sink); ok {
				fields = append(fields, zap.Int("status", statusOf(sink, err)))
			}

			if err != nil {
				logs.Info("request failed", append(fields, zap.Error(err))...)
			} else {
				logs.Info("request served", fields...)
			}

			return err
		})
	}
}

// statusOf is the status the response will go out with. Errors have not been
// answered yet at this point, so their status is the one the final handler picks.
func statusOf(sink finalhandler.Sink, err error) int {
	current := sink.StatusCode()
	if err == nil {
		if current == 0 {
			return http.StatusOK
		}

		return current
	}

	return finalhandler.ErrorStatus(current, err)
}

// Log returns the logger of the request context, or a no-op logger outside of a request.
func Log(ctx context.Context) *zap.Logger {
	if v, ok := ctx.Value(ctxKey("zap")).(*zap.Logger); ok {
		return v
	}

	return zap.NewNop()
}
