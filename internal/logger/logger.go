package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup initializes the global zerolog logger based on environment configuration.
//   - level: log level string (trace, debug, info, warn, error, fatal, panic)
//   - format: "json" for production, "pretty" for human-readable dev output
//   - ring: optional buffer that receives a plain copy of every line for the
//     administrative log endpoint; nil disables the copy
//
// Returns the configured logger instance.
func Setup(level, format string, ring *RingBuffer) zerolog.Logger {
	var writer io.Writer

	if format == "pretty" {
		writer = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	} else {
		writer = os.Stdout
	}

	if ring != nil {
		// The ring always gets the compact, uncoloured rendering.
		writer = zerolog.MultiLevelWriter(writer, zerolog.ConsoleWriter{
			Out:        ring,
			NoColor:    true,
			TimeFormat: time.DateTime,
		})
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(lvl)

	log := zerolog.New(writer).
		With().
		Timestamp().
		Caller().
		Logger()

	return log
}
