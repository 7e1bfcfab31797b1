// Package logger builds the diagnostic zerolog logger. Diagnostics go to
// stderr so they never mix with command output on stdout.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Format selects how log lines are written.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

type Options struct {
	Level   string
	Format  Format
	NoColor bool
	Out     io.Writer
}

// ParseLevel parses a level name, case-insensitively. Empty means warn.
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zerolog.WarnLevel, nil
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.WarnLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	if level == zerolog.NoLevel {
		return zerolog.WarnLevel, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// New returns a logger configured by opts.
func New(opts Options) (zerolog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), err
	}
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	if opts.Format != FormatJSON {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    opts.NoColor,
		}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}
