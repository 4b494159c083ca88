package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Env   string // development -> console; anything else -> JSON
	Level string // trace, debug, info, warn, error
}

// New builds the process logger and installs it as the zerolog global.
func New(cfg Config) zerolog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

func NewWithWriter(cfg Config, out io.Writer) zerolog.Logger {
	w := out
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	zl := zerolog.New(w).Level(ParseLevel(cfg.Level)).With().Timestamp().Logger()
	log.Logger = zl
	zerolog.DefaultContextLogger = &zl
	return zl
}

func ParseLevel(s string) zerolog.Level {
	switch s {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
