package finalhandler

import (
	"context"
	"log"
	"net/http"
	"sync"
)

// ServeMux is an HTTP multiplexer with buffered responses and error handling. Errors
// returned by handlers, and requests that match no route, are answered by its final handler.
type ServeMux struct {
	logs         Logger
	bufLimit     int
	final        *Final
	mux          *http.ServeMux
	fallback     http.Handler
	fallbackOnce sync.Once
	middlewares  struct {
		captured bool
		buffered []Middleware
	}
}

// NewServeMux creates a new ServeMux with default settings.
func NewServeMux() *ServeMux {
	logs := NewStdLogger(log.Default())
	return NewServeMuxWith(-1, logs, http.NewServeMux(), Must(WithLogger(logs)))
}

// NewServeMuxWith creates a ServeMux with custom settings.
func NewServeMuxWith(bufLimit int, logger Logger, baseMux *http.ServeMux, final *Final) *ServeMux {
	return &ServeMux{
		bufLimit: bufLimit,
		logs:     logger,
		final:    final,
		mux:      baseMux,
	}
}

// Use allows providing of middleware.
func (m *ServeMux) Use(mw ...Middleware) {
	m.ensureNoUseAfterHandle()
	m.middlewares.buffered = append(m.middlewares.buffered, mw...)
}

// HandleFunc handles the request given the pattern using a function.
func (m *ServeMux) HandleFunc(pattern string, handler HandlerFunc) {
	m.Handle(pattern, handler)
}

// HandleStd registers a standard library [http.Handler] for the given pattern. Middleware
// registered via [ServeMux.Use] is applied. The handler owns its error responses: what it
// writes is sent as-is and the final handler is not involved.
func (m *ServeMux) HandleStd(pattern string, handler http.Handler) {
	m.Handle(pattern, HandlerFunc(func(_ context.Context, w ResponseWriter, r *http.Request) error {
		handler.ServeHTTP(w, r)
		return nil
	}))
}

// Handle handles the request given a handler.
func (m *ServeMux) Handle(pattern string, handler Handler) {
	m.middlewares.captured = true
	m.mux.Handle(pattern, ToStd(
		Wrap(handler, m.middlewares.buffered...),
		m.bufLimit,
		m.logs,
		m.final,
	))
}

// ServeHTTP makes the server mux implement the http.Handler interface. Requests for which
// the underlying mux has no route, including those with a method no route allows, are
// passed through the middleware to the final handler.
func (m *ServeMux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, pattern := m.mux.Handler(r); pattern == "" {
		m.notFound().ServeHTTP(w, r)
		return
	}

	m.mux.ServeHTTP(w, r)
}

func (m *ServeMux) notFound() http.Handler {
	m.fallbackOnce.Do(func() {
		m.middlewares.captured = true
		m.fallback = ToStd(wrapBare(BareHandlerFunc(func(w ResponseWriter, r *http.Request) error {
			m.final.Respond(w, r, nil)
			return nil
		}), m.middlewares.buffered...), m.bufLimit, m.logs, m.final)
	})

	return m.fallback
}

func (m *ServeMux) ensureNoUseAfterHandle() {
	if m.middlewares.captured {
		panic("finalhandler: cannot call Use() after calling Handle")
	}
}
