package finalhandler

import (
	"net/http"
	"strings"
)

func validStatus(code int) bool { return code >= 400 && code < 600 }

// resolveStatus picks the response status for an error. The current status of the
// response is kept when it already signals an error, a valid status on the error
// itself always takes precedence.
func resolveStatus(current int, d Details) int {
	status := http.StatusInternalServerError
	if validStatus(current) {
		status = current
	}

	if validStatus(d.Status) {
		status = d.Status
	}

	return status
}

// ErrorStatus is the status the final handler responds to err with, given the status
// the response carries so far (0 for none).
func ErrorStatus(current int, err error) int {
	return resolveStatus(current, Inspect(err))
}

// DefaultMessage is the [MessageFunc] behind [WithDefaultMessage]. It exposes the
// error's message only when the error itself carries a 4xx or 5xx status, errors
// without one are unexpected and their message may not be fit for clients.
func DefaultMessage(err error, _ int) string {
	d := Inspect(err)
	if !validStatus(d.Status) {
		return ""
	}

	return d.Message
}

func notFoundMessage(r *http.Request) string {
	target := r.RequestURI
	if target == "" {
		target = r.URL.RequestURI()
	}

	return "Cannot " + r.Method + " " + target
}

func (f *Final) errorMessage(err error, d Details, status int) string {
	if f.opts.stacktrace {
		return f.stackMessage(err, d, status)
	}

	if f.opts.message != nil {
		if msg := f.opts.message(err, status); msg != "" {
			return msg
		}
	}

	return StatusText(status)
}

// stackMessage renders the stack of err. With a message function configured, the
// first line, which holds the raw error message, is replaced by the derived one.
func (f *Final) stackMessage(err error, d Details, status int) string {
	stack := d.Stack
	if stack == "" {
		stack = err.Error()
	}

	if f.opts.message == nil {
		return stack
	}

	msg := f.opts.message(err, status)
	if msg == "" {
		msg = StatusText(status)
	}

	if d.Name != "" {
		msg = d.Name + ": " + msg
	}

	if _, rest, ok := strings.Cut(stack, "\n"); ok {
		return msg + "\n" + rest
	}

	return msg
}
