// Package logging provides structured logging for rollcall using zerolog.
// Console output is used when stderr is a terminal and JSON otherwise.
//
// The resolver and the facade take their logger from the context:
//
//	ctx := logging.WithPeriod(logging.WithLogger(ctx, &logger), "01.2568")
//	logging.FromContext(ctx).Debug().Int("rows", 212).Msg("Resolving period")
package logging

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var defaultLogger = NewLoggerFromConfig(&Config{
	Level:  os.Getenv("LOG_LEVEL"),
	Format: os.Getenv("LOG_FORMAT"),
})

// Default returns the logger used when a context carries none.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the default logger and zerolog's global one.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// Info starts an info event on the default logger.
func Info() *zerolog.Event {
	return defaultLogger.Info()
}

// Warn starts a warning event on the default logger.
func Warn() *zerolog.Event {
	return defaultLogger.Warn()
}

func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
