package finalhandler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/cockroachdb/errors"
)

// Transmit writes the status and body as the complete response to r. When the request
// body has not been read to the end it is first detached from r and drained, so the
// response never starts while the client is still sending. Draining is not bounded in
// time: a client that never finishes its body keeps the response from being written.
//
// A failing drain does not prevent the response, its error is returned together with
// any write error.
func Transmit(w http.ResponseWriter, r *http.Request, status int, body Body) error {
	var drainErr error
	if r.Body != nil && r.Body != http.NoBody {
		drainErr = drain(r)
	}

	hdr := w.Header()
	hdr.Del("Content-Encoding")
	hdr.Del("Content-Language")
	hdr.Del("Content-Range")
	hdr.Set("Content-Security-Policy", "default-src 'none'")
	hdr.Set("X-Content-Type-Options", "nosniff")
	hdr.Set("Content-Type", body.ContentType)
	hdr.Set("Content-Length", strconv.Itoa(len(body.Bytes)))
	w.WriteHeader(status)

	if r.Method == http.MethodHead {
		return drainErr
	}

	if _, err := w.Write(body.Bytes); err != nil {
		return errors.CombineErrors(drainErr, errors.Wrap(err, "write body"))
	}

	return drainErr
}

func drain(r *http.Request) error {
	body := r.Body
	r.Body = http.NoBody

	defer body.Close()

	if _, err := io.Copy(io.Discard, body); err != nil {
		return errors.Wrap(err, "drain request body")
	}

	return nil
}
