package backend

import (
	"github.com/advdv/finalhandler"
	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"
)

// Environment configures the default backend. The embedded [finalhandler.Config]
// reads FINALHANDLER_MESSAGE and FINALHANDLER_STACKTRACE.
type Environment struct {
	finalhandler.Config

	Port         int           `env:"FINALD_PORT" envDefault:"8080"`
	ServiceName  string        `env:"FINALD_SERVICE_NAME" envDefault:"finald"`
	HealthPath   string        `env:"FINALD_HEALTH_PATH" envDefault:"/healthz"`
	LogLevel     zapcore.Level `env:"FINALD_LOG_LEVEL" envDefault:"info"`
	OtelExporter string        `env:"FINALD_OTEL_EXPORTER" envDefault:"none"`
	BufferLimit  int           `env:"FINALD_BUFFER_LIMIT" envDefault:"1048576"`
}

// ParseEnv parses the environment variables into an [Environment].
func ParseEnv() (e Environment, err error) {
	if err := env.Parse(&e); err != nil {
		return e, errors.Wrap(err, "failed to parse environment")
	}

	if e.HealthPath == "" || e.HealthPath[0] != '/' {
		return e, errors.Newf("FINALD_HEALTH_PATH must start with a slash, got %q", e.HealthPath)
	}

	return e, nil
}
