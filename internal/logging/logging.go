// Package logging is a small leveled logger: ANSI-colored lines to
// stderr, gated by level, with a package-level mute switch for warnings.
// Every non-fatal skip — a suspended clause, an abandoned path, a dropped
// SkipCriterion — logs here, naming the trial and match path, without
// being fatal.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/starkandwayne/goutils/ansi"
)

// Level orders the logger's verbosity, most to least quiet.
type Level int

const (
	LevelWarn Level = iota
	LevelInfo
	LevelDebug
)

// Logger writes leveled, ANSI-colored lines to an output stream. The zero
// value is not usable; use New.
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	level  Level
	silent bool
}

// New creates a Logger writing to out at the given level. Color is
// enabled globally (via ansi.Color) when out is a real terminal, matching
// the CLI's own startup check.
func New(out *os.File, level Level) *Logger {
	ansi.Color(isatty.IsTerminal(out.Fd()))
	return &Logger{out: out, level: level}
}

// SilenceWarnings mutes/unmutes Warn output, for a caller that wants to suppress
// expected, repetitive warnings (e.g. during bulk re-runs).
func (l *Logger) SilenceWarnings(silent bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.silent = silent
}

func (l *Logger) write(min Level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.level < min {
		return
	}
	fmt.Fprintln(l.out, ansi.Sprintf(format, args...))
}

// Debugf logs a debug-level line; shown only when --debug raised the
// logger to LevelDebug (SPEC_FULL.md §9).
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.write(LevelDebug, "@K{debug:} "+format, args...)
}

// Infof logs an info-level line, e.g. a trial or clause skipped for a
// routine, expected reason.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.write(LevelInfo, "@c{info:} "+format, args...)
}

// Warnf logs a warning-level line, e.g. an abandoned query path. Muted
// when SilenceWarnings(true) has been called.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.mu.Lock()
	silent := l.silent
	l.mu.Unlock()
	if silent {
		return
	}
	l.write(LevelWarn, "@Y{warning:} "+format, args...)
}
