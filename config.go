package finalhandler

import (
	"log"
	"net/http"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
)

var (
	// ErrInvalidMessage is returned by [New] when the message option is not a usable function.
	ErrInvalidMessage = errors.New("finalhandler: message option must be a non-nil function")
	// ErrInvalidOption is returned by [New] when a callback or collaborator option is nil.
	ErrInvalidOption = errors.New("finalhandler: invalid option")
)

// MessageFunc derives the message shown to the client for err, given the resolved
// status. Returning "" means the status text is shown instead.
type MessageFunc func(err error, status int) string

// OnErrorFunc is informed about every error the final handler responds to. It runs
// as a detached task, possibly after the response is complete, so it must not use w
// to write.
type OnErrorFunc func(err error, r *http.Request, w http.ResponseWriter)

// Scheduler runs tasks detached from the caller.
type Scheduler interface {
	Schedule(task func())
}

// SchedulerFunc allows a function to be used as a [Scheduler].
type SchedulerFunc func(task func())

// Schedule implements [Scheduler].
func (f SchedulerFunc) Schedule(task func()) { f(task) }

// goScheduler starts each task on its own goroutine. Panics in tasks are not recovered.
type goScheduler struct{}

func (goScheduler) Schedule(task func()) { go task() }

// Option configures the final handler.
type Option func(*options)

type options struct {
	message    MessageFunc
	stacktrace bool
	onError    OnErrorFunc
	negotiator Negotiator
	scheduler  Scheduler
	logs       Logger
	err        error
}

// invalid records the first configuration error.
func (o *options) invalid(err error) {
	if o.err == nil {
		o.err = err
	}
}

// WithMessage derives the client visible message of errors with fn.
func WithMessage(fn MessageFunc) Option {
	return func(o *options) {
		if fn == nil {
			o.invalid(ErrInvalidMessage)
			return
		}

		o.message = fn
	}
}

// WithDefaultMessage shows the message of errors that carry a 4xx or 5xx status. See
// [DefaultMessage].
func WithDefaultMessage() Option {
	return WithMessage(DefaultMessage)
}

// WithStacktrace shows the error's stack trace instead of a single line message.
func WithStacktrace(enabled bool) Option {
	return func(o *options) { o.stacktrace = enabled }
}

// WithOnError calls fn for every error the final handler responds to.
func WithOnError(fn OnErrorFunc) Option {
	return func(o *options) {
		if fn == nil {
			o.invalid(errors.Wrap(ErrInvalidOption, "onerror callback is nil"))
			return
		}

		o.onError = fn
	}
}

// WithNegotiator replaces the default Accept header negotiation.
func WithNegotiator(n Negotiator) Option {
	return func(o *options) {
		if n == nil {
			o.invalid(errors.Wrap(ErrInvalidOption, "negotiator is nil"))
			return
		}

		o.negotiator = n
	}
}

// WithScheduler replaces how the onerror callback is run. By default every call gets
// its own goroutine.
func WithScheduler(s Scheduler) Option {
	return func(o *options) {
		if s == nil {
			o.invalid(errors.Wrap(ErrInvalidOption, "scheduler is nil"))
			return
		}

		o.scheduler = s
	}
}

// WithLogger sets the logger that is told about aborted responses and write failures.
func WithLogger(l Logger) Option {
	return func(o *options) {
		if l == nil {
			o.invalid(errors.Wrap(ErrInvalidOption, "logger is nil"))
			return
		}

		o.logs = l
	}
}

func newOptions(opts ...Option) (*options, error) {
	o := &options{
		negotiator: NewAcceptNegotiator(),
		scheduler:  goScheduler{},
		logs:       NewStdLogger(log.Default()),
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.err != nil {
		return nil, o.err
	}

	return o, nil
}

// Config is the environment facing configuration of the final handler.
type Config struct {
	Message    bool `env:"FINALHANDLER_MESSAGE" envDefault:"false"`
	Stacktrace bool `env:"FINALHANDLER_STACKTRACE" envDefault:"false"`
}

// ParseConfig reads the [Config] from environment variables. Values that are not booleans
// are reported as an error.
func ParseConfig() (cfg Config, err error) {
	if err := env.Parse(&cfg); err != nil {
		return cfg, errors.Wrap(err, "failed to parse environment")
	}

	return cfg, nil
}

// Options turns the configuration into options for [New].
func (c Config) Options() []Option {
	opts := []Option{WithStacktrace(c.Stacktrace)}
	if c.Message {
		opts = append(opts, WithDefaultMessage())
	}

	return opts
}
