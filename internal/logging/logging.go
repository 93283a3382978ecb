// Package logging configures the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config selects level and output format
type Config struct {
	Level  string
	Format string
	Out    io.Writer
}

// Setup installs the global logger and returns it. Format "json" writes one
// JSON object per line; anything else uses the console writer.
func Setup(cfg Config) (zerolog.Logger, error) {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}

	level := zerolog.InfoLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	var logger zerolog.Logger
	switch strings.ToLower(cfg.Format) {
	case "json":
		logger = zerolog.New(out)
	case "", "console":
		logger = zerolog.New(zerolog.ConsoleWriter{Out: out})
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q (console, json)", cfg.Format)
	}

	logger = logger.Level(level).With().Timestamp().Logger()
	log.Logger = logger
	return logger, nil
}
