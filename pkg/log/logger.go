// Package log wraps zerolog construction so every component logs through
// the same root logger: console output in dev, JSON elsewhere.
package log

import (
	"os"

	"github.com/rs/zerolog"
)

// New builds the root logger for the given environment. Components derive
// their own loggers via With().Str("component", ...).
func New(env string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	var logger zerolog.Logger
	if env == "dev" || env == "local" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	return logger.With().Timestamp().Logger()
}
