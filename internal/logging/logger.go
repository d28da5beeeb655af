// Package logging builds zerolog loggers for the CLI. Records go to stdout;
// logs go to the writer given here, normally stderr.
package logging

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// Level represents logging levels
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format selects the log encoding.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// Config holds logger configuration
type Config struct {
	Level  Level  `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
	Format Format `koanf:"format" validate:"omitempty,oneof=console json"`
	// NoColor disables ANSI colors in console output.
	NoColor bool `koanf:"-"`
}

// DefaultConfig returns info-level console logging.
func DefaultConfig() Config {
	return Config{Level: LevelInfo, Format: FormatConsole}
}

// ParseLevel maps a level name to a zerolog level. Unknown names map to info.
func ParseLevel(s string) zerolog.Level {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// New returns a logger writing to w. The level applies to this logger only;
// the zerolog global level is left alone.
func New(cfg Config, w io.Writer) zerolog.Logger {
	out := w
	if cfg.Format != FormatJSON {
		out = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: "15:04:05",
			NoColor:    cfg.NoColor,
		}
	}

	return zerolog.New(out).
		Level(ParseLevel(string(cfg.Level))).
		With().
		Timestamp().
		Logger()
}
