package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options selects the level and encoding of the service logger. Format is
// "json" or "console"; when empty, the local environment logs to the console.
type Options struct {
	Environment string
	Level       string
	Format      string
	Output      io.Writer
}

func New(opts Options) (zerolog.Logger, error) {
	parsedLevel, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("parse LOG_LEVEL=%q: %w", opts.Level, err)
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "json"
		if strings.EqualFold(strings.TrimSpace(opts.Environment), "local") {
			format = "console"
		}
	}

	var writer io.Writer
	switch format {
	case "json":
		writer = out
	case "console":
		writer = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	default:
		return zerolog.Logger{}, fmt.Errorf("LOG_FORMAT must be json or console, got %q", opts.Format)
	}

	logger := zerolog.New(writer).
		Level(parsedLevel).
		With().
		Timestamp().
		Str("service", "polyglot").
		Logger()

	return logger, nil
}
