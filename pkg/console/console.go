// Package console prints run progress and results for people watching a
// terminal. Diagnostic detail goes to pkg/logging instead.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Level represents the console verbosity level
type Level int

const (
	// LevelQuiet shows only errors, warnings and the final result
	LevelQuiet Level = iota
	// LevelNormal shows progress lines (default)
	LevelNormal
	// LevelVerbose also shows timing and diagnostic detail
	LevelVerbose
)

// ParseLevel converts a verbosity name to a Level. Unknown names map to LevelNormal.
func ParseLevel(name string) Level {
	switch name {
	case "quiet":
		return LevelQuiet
	case "verbose":
		return LevelVerbose
	default:
		return LevelNormal
	}
}

type palette struct {
	reset     string
	cyan      string
	salmon    string
	yellow    string
	gray      string
	boldGreen string
	boldRed   string
	boldWhite string
}

var ansi = palette{
	reset:     "\033[0m",
	cyan:      "\033[36m",
	salmon:    "\033[38;5;217m",
	yellow:    "\033[33m",
	gray:      "\033[90m",
	boldGreen: "\033[1;32m",
	boldRed:   "\033[1;31m",
	boldWhite: "\033[1;37m",
}

// Printer writes coloured progress output.
type Printer struct {
	level     Level
	writer    io.Writer
	colors    palette
	startTime time.Time
}

// Option configures a Printer.
type Option func(*Printer)

// WithWriter sends output to w instead of stdout.
func WithWriter(w io.Writer) Option {
	return func(p *Printer) {
		p.writer = w
	}
}

// WithoutColor disables ANSI escapes.
func WithoutColor() Option {
	return func(p *Printer) {
		p.colors = palette{}
	}
}

// New creates a printer at the given level.
func New(level Level, opts ...Option) *Printer {
	p := &Printer{
		level:     level,
		writer:    os.Stdout,
		colors:    ansi,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Header prints a banner line.
func (p *Printer) Header(message string) {
	if p.level < LevelNormal {
		return
	}
	rule := strings.Repeat("=", 50)
	fmt.Fprintf(p.writer, "%s%s\n  %s\n%s%s\n", p.colors.boldWhite, rule, message, rule, p.colors.reset)
}

// Field prints an aligned "name: value" line.
func (p *Printer) Field(name, value string) {
	if p.level < LevelNormal {
		return
	}
	fmt.Fprintf(p.writer, "%s%-12s%s %s\n", p.colors.gray, name+":", p.colors.reset, value)
}

// Progress prints one step of a running operation. It matches the
// signature reconcile.WithProgress expects.
func (p *Printer) Progress(message string) {
	if p.level < LevelNormal {
		return
	}
	fmt.Fprintf(p.writer, "%s%s%s\n", p.colors.salmon, message, p.colors.reset)
}

// Result prints a multi-line result block. It is shown at every level.
func (p *Printer) Result(text string) {
	fmt.Fprintln(p.writer)
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintf(p.writer, "%s%s%s\n", p.colors.boldGreen, line, p.colors.reset)
	}
}

// Warningf prints a warning message
func (p *Printer) Warningf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(p.writer, "%s⚠ Warning: %s%s\n", p.colors.yellow, msg, p.colors.reset)
}

// Errorf prints an error message
func (p *Printer) Errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(p.writer, "%s✗ Error: %s%s\n", p.colors.boldRed, msg, p.colors.reset)
}

// Verbosef prints detailed information (only in verbose mode)
func (p *Printer) Verbosef(format string, args ...interface{}) {
	if p.level < LevelVerbose {
		return
	}
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(p.writer, "%s→ %s%s\n", p.colors.gray, msg, p.colors.reset)
}

// Elapsed prints the time since the printer was created (verbose only).
func (p *Printer) Elapsed() {
	p.Verbosef("finished in %s", time.Since(p.startTime).Round(time.Millisecond))
}
