package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

func New() zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}

	return zerolog.New(output).
		With().
		Timestamp().
		Caller().
		Logger().
		Level(zerolog.InfoLevel)
}

// NewWithConfig builds the service logger. Unknown levels fall back to info.
func NewWithConfig(level string, pretty, noColor bool) zerolog.Logger {
	return newLogger(os.Stdout, level, pretty, noColor)
}

func newLogger(out io.Writer, level string, pretty, noColor bool) zerolog.Logger {
	var log zerolog.Logger

	if pretty {
		output := zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    noColor,
		}
		log = zerolog.New(output).With().Timestamp().Logger()
	} else {
		log = zerolog.New(out).With().Timestamp().Str("service", "eco-gamify").Logger()
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	return log.Level(lvl)
}
