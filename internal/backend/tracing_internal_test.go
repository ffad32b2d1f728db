package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/fx/fxtest"
)

func TestNewTracerProvider(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		tp, err := NewTracerProvider(fxtest.NewLifecycle(t), Environment{OtelExporter: "none"})
		require.NoError(t, err)
		require.IsType(t, noop.TracerProvider{}, tp)
	})

	t.Run("stdout", func(t *testing.T) {
		lc := fxtest.NewLifecycle(t)
		tp, err := NewTracerProvider(lc, Environment{OtelExporter: "stdout", ServiceName: "test"})
		require.NoError(t, err)
		require.IsType(t, &sdktrace.TracerProvider{}, tp)

		lc.RequireStart()
		lc.RequireStop()
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := NewTracerProvider(fxtest.NewLifecycle(t), Environment{OtelExporter: "xray"})
		require.EqualError(t, err, `unsupported FINALD_OTEL_EXPORTER: "xray" (supported: stdout, none)`)
	})
}

func TestWithTracing(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	var sawSpan bool
	hdlr := withTracing(tp, NewPropagator(), "test", "/healthz")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawSpan = trace.SpanFromContext(r.Context()).SpanContext().IsValid()
		w.WriteHeader(http.StatusNotFound)
	}))

	hdlr.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.False(t, sawSpan)
	require.Empty(t, exp.GetSpans())

	hdlr.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.True(t, sawSpan)

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	require.Equal(t, "GET /missing", spans[0].Name)
}
