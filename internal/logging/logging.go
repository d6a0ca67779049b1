// Package logging builds the structured logger shared by all components.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/phuslu/log"
)

// Config selects the log level and output format.
type Config struct {
	Level  string `yaml:"level"`  // trace, debug, info, warn, error (default info)
	Format string `yaml:"format"` // console or json (default console)
}

// New creates a logger writing to stderr.
func New(cfg Config) *log.Logger {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter creates a logger writing to w.
func NewWithWriter(cfg Config, w io.Writer) *log.Logger {
	level := log.ParseLevel(strings.ToLower(cfg.Level))
	if cfg.Level == "" {
		level = log.InfoLevel
	}

	var writer log.Writer
	if strings.EqualFold(cfg.Format, "json") {
		writer = &log.IOWriter{Writer: w}
	} else {
		writer = &log.ConsoleWriter{
			Writer:         w,
			ColorOutput:    w == os.Stderr,
			QuoteString:    true,
			EndWithMessage: true,
		}
	}

	return &log.Logger{
		Level:      level,
		TimeFormat: "2006-01-02T15:04:05Z07:00",
		Writer:     writer,
	}
}

// NewSilent returns a logger that discards everything.
func NewSilent() *log.Logger {
	return &log.Logger{
		Level:  log.PanicLevel,
		Writer: &log.IOWriter{Writer: io.Discard},
	}
}
