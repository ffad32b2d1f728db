package backend_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/advdv/finalhandler/internal/backend"
	"github.com/carlmjohnson/requests"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestServer(t *testing.T, env backend.Environment) (*httptest.Server, *observer.ObservedLogs) {
	t.Helper()

	core, obs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	final, err := backend.NewFinal(env, logger)
	require.NoError(t, err)

	srv := httptest.NewServer(backend.NewMux(backend.MuxParams{Env: env, Logger: logger, Final: final}))
	t.Cleanup(srv.Close)

	return srv, obs
}

func testEnv() backend.Environment {
	return backend.Environment{HealthPath: "/healthz", BufferLimit: -1, ServiceName: "test"}
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, testEnv())

	var body string
	err := requests.URL(srv.URL).Path("/healthz").ToString(&body).Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ok\n", body)
}

func TestNotFound(t *testing.T) {
	srv, obs := newTestServer(t, testEnv())
	ctx := context.Background()

	t.Run("text", func(t *testing.T) {
		var body string
		hdr := http.Header{}
		err := requests.URL(srv.URL).Path("/some/where").
			Accept("text/plain").
			CheckStatus(http.StatusNotFound).
			CopyHeaders(hdr).
			ToString(&body).
			Fetch(ctx)
		require.NoError(t, err)
		require.Equal(t, "Cannot GET /some/where\n", body)
		require.Equal(t, "nosniff", hdr.Get("X-Content-Type-Options"))
		require.Equal(t, "default-src 'none'", hdr.Get("Content-Security-Policy"))
	})

	t.Run("html", func(t *testing.T) {
		var body string
		err := requests.URL(srv.URL).Path("/some/where").
			Accept("text/html").
			CheckStatus(http.StatusNotFound).
			ToString(&body).
			Fetch(ctx)
		require.NoError(t, err)
		require.Contains(t, body, "<title>Not Found</title>")
		require.Contains(t, body, "<pre>Cannot GET /some/where</pre>")
	})

	t.Run("request body is drained", func(t *testing.T) {
		var body string
		err := requests.URL(srv.URL).Path("/upload").
			Accept("text/plain").
			BodyReader(strings.NewReader(strings.Repeat("x", 1<<16))).
			CheckStatus(http.StatusNotFound).
			ToString(&body).
			Fetch(ctx)
		require.NoError(t, err)
		require.Equal(t, "Cannot POST /upload\n", body)
	})

	require.NotZero(t, obs.FilterMessage("request served").FilterField(zap.Int("status", http.StatusNotFound)).Len())
}

func TestErrorPages(t *testing.T) {
	srv, _ := newTestServer(t, testEnv())
	ctx := context.Background()

	for _, tt := range []struct {
		path     string
		status   int
		expected string
	}{
		{"/errors/503", http.StatusServiceUnavailable, "Service Unavailable\n"},
		{"/errors/418", http.StatusTeapot, "I'm a teapot\n"},
		{"/errors/499", 499, "499\n"},
		{"/errors/302", http.StatusNotFound, "Not Found\n"},
		{"/errors/abc", http.StatusNotFound, "Not Found\n"},
		{"/errors", http.StatusNotFound, "Not Found\n"},
	} {
		t.Run(tt.path, func(t *testing.T) {
			var body string
			err := requests.URL(srv.URL).Path(tt.path).
				Accept("text/plain").
				CheckStatus(tt.status).
				ToString(&body).
				Fetch(ctx)
			require.NoError(t, err)
			require.Equal(t, tt.expected, body)
		})
	}
}

func TestErrorPagesWithMessage(t *testing.T) {
	env := testEnv()
	env.Message = true
	srv, _ := newTestServer(t, env)

	var body string
	err := requests.URL(srv.URL).Path("/errors/abc").
		Accept("text/plain").
		CheckStatus(http.StatusNotFound).
		ToString(&body).
		Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, `no error page for "abc"`+"\n", body)
}

func TestErrorPageHead(t *testing.T) {
	srv, _ := newTestServer(t, testEnv())

	hdr := http.Header{}
	err := requests.URL(srv.URL).Path("/errors/502").
		Head().
		Accept("text/plain").
		CheckStatus(http.StatusBadGateway).
		CopyHeaders(hdr).
		Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, "12", hdr.Get("Content-Length"))
}
