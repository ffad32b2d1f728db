package backend

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// NewHTTPTransport creates an HTTP RoundTripper instrumented with OpenTelemetry tracing.
func NewHTTPTransport(tp trace.TracerProvider, prop propagation.TextMapPropagator) http.RoundTripper {
	return otelhttp.NewTransport(http.DefaultTransport,
		otelhttp.WithTracerProvider(tp),
		otelhttp.WithPropagators(prop),
	)
}

// CheckHealth asks the server on the local port for its health endpoint, as done by
// container health checks. It fails unless the server answers 200.
func CheckHealth(ctx context.Context, env Environment, rt http.RoundTripper) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var body string
	if err := requests.
		URL("http://127.0.0.1:" + strconv.Itoa(env.Port)).
		Path(env.HealthPath).
		Transport(rt).
		ToString(&body).
		Fetch(ctx); err != nil {
		return errors.Wrap(err, "health check failed")
	}

	return nil
}
