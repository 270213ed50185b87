// Package logging writes bandfit's leveled, prefixed diagnostic lines.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Prefix starts every log line.
const Prefix = "[bandfit]"

// Logger writes "[bandfit] LEVEL message" lines. Level tags are colored
// when the writer is a terminal. A nil *Logger discards everything.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	verbose bool

	info, warn, errs, debug lipgloss.Style
}

// New creates a logger writing to out (stderr when nil). Debug lines are
// only written when verbose is set.
func New(out io.Writer, verbose bool) *Logger {
	if out == nil {
		out = os.Stderr
	}
	r := lipgloss.NewRenderer(out)
	return &Logger{
		out:     out,
		verbose: verbose,
		info:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#81A1C1")),
		warn:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#EBCB8B")),
		errs:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#BF616A")),
		debug:   r.NewStyle().Foreground(lipgloss.Color("#7A8291")),
	}
}

// Verbose reports whether debug output is enabled.
func (l *Logger) Verbose() bool {
	return l != nil && l.verbose
}

func (l *Logger) line(style lipgloss.Style, level, format string, args ...any) {
	if l == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintf(l.out, "%s %s %s\n", Prefix, style.Render(level), msg)
}

// Infof logs at INFO level.
func (l *Logger) Infof(format string, args ...any) {
	if l == nil {
		return
	}
	l.line(l.info, "INFO", format, args...)
}

// Warnf logs at WARN level.
func (l *Logger) Warnf(format string, args ...any) {
	if l == nil {
		return
	}
	l.line(l.warn, "WARN", format, args...)
}

// Errorf logs at ERROR level.
func (l *Logger) Errorf(format string, args ...any) {
	if l == nil {
		return
	}
	l.line(l.errs, "ERROR", format, args...)
}

// Debugf logs at DEBUG level, only when verbose.
func (l *Logger) Debugf(format string, args ...any) {
	if !l.Verbose() {
		return
	}
	l.line(l.debug, "DEBUG", format, args...)
}
