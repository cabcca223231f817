package logger

import (
	"io"
	"os"
	"time"

	"github.com/anoma/transferd/walletClient/config"
	"github.com/rs/zerolog"
)

// Init builds the process logger from the log_* fields of cfg.
func Init(cfg config.Config) zerolog.Logger {
	return New(os.Stdout, cfg.LogLevel, cfg.LogFormat, cfg.LogSampler)
}

// New creates a zerolog logger writing to out.
// Supports console/json format, level filtering, and optional sampling.
func New(out io.Writer, logLevel int, logFormat string, logSampler bool) zerolog.Logger {
	writer := out
	if logFormat != "json" {
		writer = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	logger := zerolog.New(writer).
		Level(zerolog.Level(logLevel)).
		With().
		Timestamp().
		Logger()

	if logSampler {
		logger = logger.Sample(&zerolog.BasicSampler{N: 5})
	}
	return logger
}
