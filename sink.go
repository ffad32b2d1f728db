package finalhandler

import (
	"io"
	"net/http"

	"github.com/felixge/httpsnoop"
)

// Sink is the narrow view the final handler has of a response: what status it
// carries so far, whether the header already went out and a way to tear the
// connection down when it cannot be answered anymore.
type Sink interface {
	http.ResponseWriter

	// StatusCode returns the status written so far, or 0 when none was.
	StatusCode() int
	// HeaderWritten reports whether the header has been committed to the client.
	HeaderWritten() bool
	// Abort closes the underlying connection without completing the response.
	Abort()
}

// Track returns w as a [Sink]. Writers that already implement Sink are returned
// as-is; others are wrapped so that WriteHeader, Write, ReadFrom and Flush calls made
// through the wrapper are observed. Track should be applied before anything writes
// to the response, a writer that was used before it was wrapped reports no status.
func Track(w http.ResponseWriter) Sink {
	if s, ok := w.(Sink); ok {
		return s
	}

	t := &tracker{orig: w}
	t.ResponseWriter = httpsnoop.Wrap(w, httpsnoop.Hooks{
		WriteHeader: func(next httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
			return func(code int) {
				t.commit(code)
				next(code)
			}
		},
		Write: func(next httpsnoop.WriteFunc) httpsnoop.WriteFunc {
			return func(b []byte) (int, error) {
				t.commit(http.StatusOK)
				return next(b)
			}
		},
		ReadFrom: func(next httpsnoop.ReadFromFunc) httpsnoop.ReadFromFunc {
			return func(src io.Reader) (int64, error) {
				t.commit(http.StatusOK)
				return next(src)
			}
		},
		Flush: func(next httpsnoop.FlushFunc) httpsnoop.FlushFunc {
			return func() {
				t.commit(http.StatusOK)
				next()
			}
		},
	})

	return t
}

type tracker struct {
	http.ResponseWriter
	orig    http.ResponseWriter
	status  int
	written bool
}

func (t *tracker) commit(code int) {
	if t.written {
		return
	}

	// informational responses other than 101 leave the final header to come
	if code >= 100 && code < 200 && code != http.StatusSwitchingProtocols {
		return
	}

	t.status, t.written = code, true
}

func (t *tracker) StatusCode() int             { return t.status }
func (t *tracker) HeaderWritten() bool         { return t.written }
func (t *tracker) Abort()                      { abort(t.orig) }
func (t *tracker) Unwrap() http.ResponseWriter { return t.ResponseWriter }

// abort hijacks and closes the connection behind w. Where the connection cannot be
// hijacked (HTTP/2, recorders) it panics with [http.ErrAbortHandler], which the
// standard library server turns into a silent abort of the response.
func abort(w http.ResponseWriter) {
	conn, _, err := http.NewResponseController(w).Hijack()
	if err != nil {
		panic(http.ErrAbortHandler)
	}

	_ = conn.Close()
}
