package mpoly

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

var logger atomic.Pointer[zerolog.Logger]

func init() {
	nop := zerolog.Nop()
	logger.Store(&nop)
}

// SetLogger replaces the package logger. The default discards everything.
func SetLogger(l zerolog.Logger) {
	logger.Store(&l)
}

// Logger returns the package logger.
func Logger() *zerolog.Logger {
	return logger.Load()
}

// NewLogger builds a console logger writing to w at the given level.
// Unknown levels fall back to warn.
func NewLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.WarnLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}).
		Level(lvl).
		With().
		Timestamp().
		Str("component", "mpoly").
		Logger()
}

// traceHeap observes the peak heap size of every merge. Tests hook it to
// check the size bounds.
var traceHeap = func(op string, peak int) {}
