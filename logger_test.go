package finalhandler_test

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/advdv/finalhandler"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger(t *testing.T) {
	core, obs := observer.New(zapcore.DebugLevel)
	logs := finalhandler.NewZapLogger(zap.New(core))

	logs.LogUnhandledServeError(errors.New("foo"))
	logs.LogAbortedResponse(httptest.NewRequest(http.MethodPost, "/bar", nil), errors.New("bar"))

	entries := obs.All()
	require.Len(t, entries, 2)

	require.Equal(t, "finalhandler", entries[0].LoggerName)
	require.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	require.Equal(t, "unhandled server error", entries[0].Message)

	require.Equal(t, zapcore.WarnLevel, entries[1].Level)
	require.Equal(t, "POST", entries[1].ContextMap()["method"])
	require.Equal(t, "/bar", entries[1].ContextMap()["path"])
	require.Equal(t, "bar", entries[1].ContextMap()["cause"])
}

func TestZapLoggerAbortedResponse(t *testing.T) {
	core, obs := observer.New(zapcore.DebugLevel)
	final := newFinal(t, finalhandler.WithLogger(finalhandler.NewZapLogger(zap.New(core))))

	var events []string
	sink := &eventSink{header: http.Header{}, events: &events, written: true, status: http.StatusOK}

	final.Respond(sink, httptest.NewRequest(http.MethodGet, "/stream", nil), errors.New("stream broke"))

	require.Equal(t, []string{"abort"}, events)
	require.Equal(t, 1, obs.FilterMessage("header already sent, aborting connection").Len())
}

func TestStdLogger(t *testing.T) {
	var buf bytes.Buffer
	logs := finalhandler.NewStdLogger(log.New(&buf, "", 0))

	logs.LogTransmitError(errors.New("broken pipe"))
	require.Equal(t, "finalhandler: error while transmitting response: broken pipe\n", buf.String())
}
