package finalhandler

import (
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
)

// Code is an error code that mirrors the http status codes. It can be used to create errors to pass around across
// middleware layers so the final handler can pick the response status.
type Code int

const (
	CodeUnknown                      Code = 0
	CodeBadRequest                   Code = http.StatusBadRequest                   // RFC 9110, 15.5.1
	CodeUnauthorized                 Code = http.StatusUnauthorized                 // RFC 9110, 15.5.2
	CodePaymentRequired              Code = http.StatusPaymentRequired              // RFC 9110, 15.5.3
	CodeForbidden                    Code = http.StatusForbidden                    // RFC 9110, 15.5.4
	CodeNotFound                     Code = http.StatusNotFound                     // RFC 9110, 15.5.5
	CodeMethodNotAllowed             Code = http.StatusMethodNotAllowed             // RFC 9110, 15.5.6
	CodeNotAcceptable                Code = http.StatusNotAcceptable                // RFC 9110, 15.5.7
	CodeProxyAuthRequired            Code = http.StatusProxyAuthRequired            // RFC 9110, 15.5.8
	CodeRequestTimeout               Code = http.StatusRequestTimeout               // RFC 9110, 15.5.9
	CodeConflict                     Code = http.StatusConflict                     // RFC 9110, 15.5.10
	CodeGone                         Code = http.StatusGone                         // RFC 9110, 15.5.11
	CodeLengthRequired               Code = http.StatusLengthRequired               // RFC 9110, 15.5.12
	CodePreconditionFailed           Code = http.StatusPreconditionFailed           // RFC 9110, 15.5.13
	CodeRequestEntityTooLarge        Code = http.StatusRequestEntityTooLarge        // RFC 9110, 15.5.14
	CodeRequestURITooLong            Code = http.StatusRequestURITooLong            // RFC 9110, 15.5.15
	CodeUnsupportedMediaType         Code = http.StatusUnsupportedMediaType         // RFC 9110, 15.5.16
	CodeRequestedRangeNotSatisfiable Code = http.StatusRequestedRangeNotSatisfiable // RFC 9110, 15.5.17
	CodeExpectationFailed            Code = http.StatusExpectationFailed            // RFC 9110, 15.5.18
	CodeTeapot                       Code = http.StatusTeapot                       // RFC 9110, 15.5.19 (Unused)
	CodeMisdirectedRequest           Code = http.StatusMisdirectedRequest           // RFC 9110, 15.5.20
	CodeUnprocessableEntity          Code = http.StatusUnprocessableEntity          // RFC 9110, 15.5.21
	CodeLocked                       Code = http.StatusLocked                       // RFC 4918, 11.3
	CodeFailedDependency             Code = http.StatusFailedDependency             // RFC 4918, 11.4
	CodeTooEarly                     Code = http.StatusTooEarly                     // RFC 8470, 5.2.
	CodeUpgradeRequired              Code = http.StatusUpgradeRequired              // RFC 9110, 15.5.22
	CodePreconditionRequired         Code = http.StatusPreconditionRequired         // RFC 6585, 3
	CodeTooManyRequests              Code = http.StatusTooManyRequests              // RFC 6585, 4
	CodeRequestHeaderFieldsTooLarge  Code = http.StatusRequestHeaderFieldsTooLarge  // RFC 6585, 5
	CodeUnavailableForLegalReasons   Code = http.StatusUnavailableForLegalReasons   // RFC 7725, 3

	CodeInternalServerError           Code = http.StatusInternalServerError           // RFC 9110, 15.6.1
	CodeNotImplemented                Code = http.StatusNotImplemented                // RFC 9110, 15.6.2
	CodeBadGateway                    Code = http.StatusBadGateway                    // RFC 9110, 15.6.3
	CodeServiceUnavailable            Code = http.StatusServiceUnavailable            // RFC 9110, 15.6.4
	CodeGatewayTimeout                Code = http.StatusGatewayTimeout                // RFC 9110, 15.6.5
	CodeHTTPVersionNotSupported       Code = http.StatusHTTPVersionNotSupported       // RFC 9110, 15.6.6
	CodeVariantAlsoNegotiates         Code = http.StatusVariantAlsoNegotiates         // RFC 2295, 8.1
	CodeInsufficientStorage           Code = http.StatusInsufficientStorage           // RFC 4918, 11.5
	CodeLoopDetected                  Code = http.StatusLoopDetected                  // RFC 5842, 7.2
	CodeNotExtended                   Code = http.StatusNotExtended                   // RFC 2774, 7
	CodeNetworkAuthenticationRequired Code = http.StatusNetworkAuthenticationRequired // RFC 6585, 6
)

// Error describes an http error. It exposes its code to the final handler through StatusCode.
type Error struct {
	code   Code
	err    error
	header http.Header
}

// NewError inits a new error given the error code.
func NewError(c Code, underlying error) *Error {
	return &Error{code: c, err: underlying}
}

// WithHeader returns a copy of e that asks the final handler to send the header
// with the error response. It is only honored for codes in the 4xx and 5xx range.
func (e *Error) WithHeader(key, value string) *Error {
	cp := *e
	cp.header = e.header.Clone()
	if cp.header == nil {
		cp.header = http.Header{}
	}

	cp.header.Add(key, value)

	return &cp
}

func (e *Error) Code() Code                    { return e.code }
func (e *Error) StatusCode() int               { return int(e.code) }
func (e *Error) Headers() http.Header          { return e.header }
func (e *Error) Unwrap() error                 { return e.err }
func (e *Error) Format(s fmt.State, verb rune) { errors.FormatError(e, s, verb) }

// Message returns the message of the underlying error, or the status text without one.
func (e *Error) Message() string {
	if e.err == nil {
		return statusName(e.code)
	}

	return e.err.Error()
}

func (e *Error) Error() string {
	if e.err == nil {
		return statusName(e.code)
	}

	return fmt.Sprintf("%s: %s", statusName(e.code), e.err.Error())
}

// Name returns the error's kind, derived from its status text. E.g. NotFoundError.
func (e *Error) Name() string {
	name := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, statusName(e.code))
	if strings.HasSuffix(name, "Error") {
		return name
	}

	return name + "Error"
}

// SafeFormatError lets the verbose (%+v) rendering show the stack of the underlying error.
func (e *Error) SafeFormatError(p errors.Printer) (next error) {
	p.Printf("%s", statusName(e.code))

	return e.err
}

// CodeOf returns the error's status code if it is or wraps an [*Error] and
// [CodeUnknown] otherwise.
func CodeOf(err error) Code {
	var herr *Error
	if errors.As(err, &herr) {
		return herr.Code()
	}

	return CodeUnknown
}

func statusName(c Code) string {
	status := http.StatusText(int(c))
	if status == "" {
		status = "Unknown"
	}

	return status
}

// Details is what the final handler could learn about an error of unknown shape. Each
// field is filled in only when some error in the chain provides it.
type Details struct {
	Status  int         // 0 when no error in the chain reports a status
	Message string      // Message() of the first error that has one, else Error()
	Stack   string      // Stack() when provided, else the verbose rendering if it adds detail
	Name    string      // Name() when provided
	Header  http.Header // Headers() when provided
}

type (
	statusCoder interface{ StatusCode() int }
	messager    interface{ Message() string }
	stacker     interface{ Stack() string }
	namer       interface{ Name() string }
	headerer    interface{ Headers() http.Header }
)

// Inspect extracts details from err by checking the capabilities of the errors in its
// chain. It never assumes a concrete type and returns the zero Details for a nil error.
func Inspect(err error) (d Details) {
	if err == nil {
		return d
	}

	d.Message = err.Error()

	var sc statusCoder
	if errors.As(err, &sc) {
		d.Status = sc.StatusCode()
	}

	var m messager
	if errors.As(err, &m) {
		d.Message = m.Message()
	}

	var n namer
	if errors.As(err, &n) {
		d.Name = n.Name()
	}

	var h headerer
	if errors.As(err, &h) {
		d.Header = h.Headers()
	}

	var st stacker
	if errors.As(err, &st) {
		d.Stack = st.Stack()
	} else if verbose := fmt.Sprintf("%+v", err); verbose != err.Error() {
		d.Stack = verbose
	}

	return d
}
