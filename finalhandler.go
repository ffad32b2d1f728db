package finalhandler

import (
	"net/http"
)

// Final responds to requests that nothing else in a handler chain has answered:
// with a 404 when there is no error, or with an error response derived from the
// error otherwise. A Final is safe for concurrent use.
type Final struct {
	opts *options
}

// Responder is the final handler bound to one request and its response. It is
// invoked with the error that ended the chain, or nil when no handler responded.
type Responder func(err error)

// New validates the options and returns the configured final handler. Invalid
// options are reported here, never while responding.
func New(opts ...Option) (*Final, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	return &Final{opts: o}, nil
}

// Must is like [New] but panics on invalid options.
func Must(opts ...Option) *Final {
	f, err := New(opts...)
	if err != nil {
		panic(err.Error())
	}

	return f
}

// For binds the final handler to the request and response. The handler must write
// through the returned [Sink], otherwise the responder cannot tell that the header was
// already sent and answers a second time instead of aborting.
func (f *Final) For(w http.ResponseWriter, r *http.Request) (Sink, Responder) {
	sink := Track(w)
	return sink, func(err error) { f.Respond(sink, r, err) }
}

// ServeHTTP responds with 404, making Final usable as the not found handler of a router.
func (f *Final) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.Respond(w, r, nil)
}

// Respond writes the final response for r. A nil err produces a 404 naming the
// method and request target. Otherwise the status and message are derived from err
// and the onerror callback, if any, is scheduled.
//
// When the response header was already committed nothing is written, the
// connection is aborted instead. See [Sink] for how the state of w is observed.
func (f *Final) Respond(w http.ResponseWriter, r *http.Request, err error) {
	sink := Track(w)

	var (
		status int
		msg    string
		hdr    http.Header
	)

	if err == nil {
		status = http.StatusNotFound
		msg = notFoundMessage(r)
	} else {
		d := Inspect(err)
		status = resolveStatus(sink.StatusCode(), d)
		msg = f.errorMessage(err, d, status)

		if validStatus(d.Status) {
			hdr = d.Header
		}

		if f.opts.onError != nil {
			onError := f.opts.onError
			f.opts.scheduler.Schedule(func() { onError(err, r, w) })
		}
	}

	if sink.HeaderWritten() {
		f.opts.logs.LogAbortedResponse(r, err)
		sink.Abort()

		return
	}

	body := TextBody(status, msg)
	if f.opts.negotiator.Negotiate(r, preferred) == "html" {
		body = HTMLBody(status, msg)
	}

	// output a buffering writer holds belongs to a handler that did not finish, headers
	// set before anything was written (e.g. by middleware) are kept for a plain 404
	if rw, ok := sink.(interface{ Reset() }); ok && (err != nil || sink.StatusCode() != 0) {
		rw.Reset()
	}

	for k, vs := range hdr {
		for _, v := range vs {
			sink.Header().Add(k, v)
		}
	}

	if err := Transmit(sink, r, status, body); err != nil {
		f.opts.logs.LogTransmitError(err)
	}
}
