package finalhandler

import (
	"bytes"
	"net/http"
	"sync"

	"github.com/cockroachdb/errors"
)

// ErrBufferFull is returned when the write limit of a buffered response is exceeded.
var ErrBufferFull = errors.New("finalhandler: response buffer is full")

var bufPool = sync.Pool{New: func() any { return new(bytes.Buffer) }}

// ResponseBuffer is the buffered [ResponseWriter]. Status, headers and body are held
// until they are flushed, so the response can be reset and replaced up to that point.
type ResponseBuffer struct {
	resp        http.ResponseWriter
	header      http.Header
	buf         *bytes.Buffer
	limit       int
	status      int
	wroteHeader bool
	flushed     bool
	aborted     bool
}

// NewResponseWriter returns a buffered writer for resp. A negative limit disables the
// write limit.
func NewResponseWriter(resp http.ResponseWriter, limit int) ResponseWriter {
	return newBufferResponse(resp, limit)
}

func newBufferResponse(resp http.ResponseWriter, limit int) *ResponseBuffer {
	buf, _ := bufPool.Get().(*bytes.Buffer)
	buf.Reset()

	return &ResponseBuffer{
		resp:   resp,
		header: http.Header{},
		buf:    buf,
		limit:  limit,
	}
}

// Header returns the buffered header. Changes after the first flush are not sent.
func (w *ResponseBuffer) Header() http.Header { return w.header }

// Write buffers b, or fails with [ErrBufferFull] if that would exceed the limit.
func (w *ResponseBuffer) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}

	if w.limit >= 0 && w.buf.Len()+len(b) > w.limit {
		return 0, ErrBufferFull
	}

	return w.buf.Write(b)
}

// WriteHeader records the status code, only the first call has effect.
func (w *ResponseBuffer) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}

	w.status, w.wroteHeader = statusCode, true
}

// StatusCode returns the buffered status, 0 when none was written.
func (w *ResponseBuffer) StatusCode() int { return w.status }

// HeaderWritten reports whether the buffer was flushed to the underlying writer.
func (w *ResponseBuffer) HeaderWritten() bool { return w.flushed }

// Abort closes the connection of the underlying writer.
func (w *ResponseBuffer) Abort() {
	w.aborted = true
	abort(w.resp)
}

// Unwrap returns the underlying writer, for [http.ResponseController].
func (w *ResponseBuffer) Unwrap() http.ResponseWriter { return w.resp }

// Reset discards the buffered status, headers and body. It panics once the buffer
// has been flushed, the response is on its way by then.
func (w *ResponseBuffer) Reset() {
	if w.flushed {
		panic("finalhandler: cannot reset response, already flushed")
	}

	w.buf.Reset()
	w.header = http.Header{}
	w.status, w.wroteHeader = 0, false
}

// FlushBuffer writes the header, on the first call, and the buffered body to the
// underlying writer.
func (w *ResponseBuffer) FlushBuffer() error {
	if !w.flushed {
		dst := w.resp.Header()
		for k, v := range w.header {
			dst[k] = v
		}

		status := w.status
		if status == 0 {
			status = http.StatusOK
		}

		w.resp.WriteHeader(status)
		w.flushed = true
	}

	if w.buf.Len() < 1 {
		return nil
	}

	_, err := w.resp.Write(w.buf.Bytes())
	w.buf.Reset()
	if err != nil {
		return errors.Wrap(err, "failed to write buffered body")
	}

	return nil
}

// FlushError flushes the buffer and then the underlying writer. It is called by
// [http.ResponseController.Flush].
func (w *ResponseBuffer) FlushError() error {
	if err := w.FlushBuffer(); err != nil {
		return err
	}

	if err := http.NewResponseController(w.resp).Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return errors.Wrap(err, "failed to flush underlying writer")
	}

	return nil
}

// Free returns the buffer to the pool. The writer must not be used afterwards.
func (w *ResponseBuffer) Free() {
	if w.buf == nil {
		return
	}

	bufPool.Put(w.buf)
	w.buf = nil
}

var (
	_ ResponseWriter = &ResponseBuffer{}
	_ Sink           = &ResponseBuffer{}
)
