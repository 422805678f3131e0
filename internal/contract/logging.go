package contract

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLogLevel keeps the CLI quiet unless something degrades.
const DefaultLogLevel = "warn"

// ParseLogLevel maps a config string onto a zerolog level.
func ParseLogLevel(s string) (zerolog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return zerolog.WarnLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: must be trace, debug, info, warn, error or disabled", s)
	}
	return lvl, nil
}

// NewLogger builds the process logger. Console output is used for humans, JSON otherwise.
func NewLogger(level zerolog.Level, w io.Writer, console bool) zerolog.Logger {
	if console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
