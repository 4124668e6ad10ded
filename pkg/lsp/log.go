package lsp

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/spf13/pflag"
)

// GlobalAtomicLeveler controls the level of every logger created by
// NewLogger. It is set from the --log-level flag and from the logLevel
// workspace setting.
var GlobalAtomicLeveler = &AtomicLeveler{}

// AtomicLeveler is a slog.Leveler that can be changed while loggers using it
// are in flight. It doubles as a pflag.Value.
type AtomicLeveler struct {
	level atomic.Int32
}

func (a *AtomicLeveler) SetLevel(level slog.Level) {
	a.level.Store(int32(level))
}

// Level implements slog.Leveler.
func (a *AtomicLeveler) Level() slog.Level {
	return slog.Level(a.level.Load())
}

func (a *AtomicLeveler) String() string {
	return strings.ToLower(a.Level().String())
}

func (a *AtomicLeveler) Set(value string) error {
	level, ok := ParseLogLevel(value)
	if !ok {
		return fmt.Errorf("invalid log level %q (expected debug, info, warn or error)", value)
	}
	a.SetLevel(level)
	return nil
}

func (a *AtomicLeveler) Type() string {
	return "level"
}

var (
	_ slog.Leveler = (*AtomicLeveler)(nil)
	_ pflag.Value  = (*AtomicLeveler)(nil)
)

func ParseLogLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "err", "error":
		return slog.LevelError, true
	default:
		return 0, false
	}
}

// NewLogger returns a text logger writing to w. The language server speaks
// over stdio, so w is normally stderr.
func NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: GlobalAtomicLeveler,
	}))
}
