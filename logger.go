package finalhandler

import (
	"log"
	"net/http"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
)

// Logger can be implemented to get informed about important states.
type Logger interface {
	LogUnhandledServeError(err error)
	LogImplicitFlushError(err error)
	LogAbortedResponse(r *http.Request, err error)
	LogTransmitError(err error)
}

type stdLogger struct{ *log.Logger }

func (l stdLogger) LogUnhandledServeError(err error) {
	l.Logger.Printf("finalhandler: unhandled server error: %s", err)
}

func (l stdLogger) LogImplicitFlushError(err error) {
	l.Logger.Printf("finalhandler: error while flushing implicitly: %s", err)
}

func (l stdLogger) LogAbortedResponse(r *http.Request, err error) {
	l.Logger.Printf("finalhandler: header already sent, aborting %s %s: %v", r.Method, r.URL.Path, err)
}

func (l stdLogger) LogTransmitError(err error) {
	l.Logger.Printf("finalhandler: error while transmitting response: %s", err)
}

// NewStdLogger returns a [Logger] that prints to l, or to the standard logger when l is nil.
func NewStdLogger(l *log.Logger) Logger {
	if l == nil {
		l = log.Default()
	}

	return stdLogger{l}
}

type zapLogger struct{ *zap.Logger }

func (l zapLogger) LogUnhandledServeError(err error) {
	l.Logger.Error("unhandled server error", zap.Error(err))
}

func (l zapLogger) LogImplicitFlushError(err error) {
	l.Logger.Error("error while flushing implicitly", zap.Error(err))
}

func (l zapLogger) LogAbortedResponse(r *http.Request, err error) {
	l.Logger.Warn("header already sent, aborting connection",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.NamedError("cause", err))
}

func (l zapLogger) LogTransmitError(err error) {
	l.Logger.Error("error while transmitting response", zap.Error(err))
}

// NewZapLogger returns a [Logger] that logs through a child of l named "finalhandler".
func NewZapLogger(l *zap.Logger) Logger {
	return zapLogger{l.Named("finalhandler")}
}

// TestLogger logs to a testing.TB and counts the calls per kind of event.
type TestLogger struct {
	tb testing.TB

	NumLogUnhandledServeError int64
	NumLogImplicitFlushError  int64
	NumLogAbortedResponse     int64
	NumLogTransmitError       int64
}

// NewTestLogger returns a [TestLogger] that logs to tb.
func NewTestLogger(tb testing.TB) *TestLogger {
	return &TestLogger{tb: tb}
}

func (l *TestLogger) LogUnhandledServeError(err error) {
	atomic.AddInt64(&l.NumLogUnhandledServeError, 1)
	l.tb.Logf("finalhandler: unhandled server error: %s", err)
}

func (l *TestLogger) LogImplicitFlushError(err error) {
	atomic.AddInt64(&l.NumLogImplicitFlushError, 1)
	l.tb.Logf("finalhandler: error while flushing implicitly: %s", err)
}

func (l *TestLogger) LogAbortedResponse(r *http.Request, err error) {
	atomic.AddInt64(&l.NumLogAbortedResponse, 1)
	l.tb.Logf("finalhandler: header already sent, aborting %s %s: %v", r.Method, r.URL.Path, err)
}

func (l *TestLogger) LogTransmitError(err error) {
	atomic.AddInt64(&l.NumLogTransmitError, 1)
	l.tb.Logf("finalhandler: error while transmitting response: %s", err)
}

var (
	_ Logger = &TestLogger{}
	_ Logger = stdLogger{}
	_ Logger = zapLogger{}
)
