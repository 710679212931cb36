// Package ui defines the notification and busy-indicator surfaces the
// data layer reports through. Rendering itself lives in internal/render;
// this package only carries signals to whatever front end is attached.
package ui

import (
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"
)

// Notifier is the non-blocking notification surface. Failures are
// surfaced here and never treated as fatal; the caller's view keeps its
// prior data.
type Notifier interface {
	Successf(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Confirm asks the user to approve a destructive operation. Tests and
// non-interactive callers substitute their own.
type Confirm func(prompt string) bool

// Loading is the process-wide busy indicator. Start acquires it and
// returns the matching release; callers defer the release so every exit
// path (success, handled failure, panic) turns the indicator off.
type Loading interface {
	Start() (stop func())
}

// NopLoading satisfies Loading without any visible effect.
type NopLoading struct{}

func (NopLoading) Start() func() { return func() {} }

// Spinner is a nesting-aware Loading that writes marker lines to w.
// Concurrent acquisitions share one visible indicator.
type Spinner struct {
	mu    sync.Mutex
	w     io.Writer
	depth int64
}

func NewSpinner(w io.Writer) *Spinner { return &Spinner{w: w} }

func (s *Spinner) Start() func() {
	if atomic.AddInt64(&s.depth, 1) == 1 {
		s.print("...")
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			if atomic.AddInt64(&s.depth, -1) == 0 {
				s.print("")
			}
		})
	}
}

func (s *Spinner) print(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg != "" {
		fmt.Fprintln(s.w, msg)
	}
}

// Active reports whether the indicator is currently held. Used by tests
// to assert the indicator is released on every exit path.
func (s *Spinner) Active() bool { return atomic.LoadInt64(&s.depth) > 0 }

// ConsoleNotifier prints toast-style lines with a status glyph.
type ConsoleNotifier struct {
	W io.Writer
}

func (n ConsoleNotifier) Successf(format string, args ...any) { n.emit("✓", format, args...) }
func (n ConsoleNotifier) Warnf(format string, args ...any)    { n.emit("!", format, args...) }
func (n ConsoleNotifier) Errorf(format string, args ...any)   { n.emit("✕", format, args...) }

func (n ConsoleNotifier) emit(glyph, format string, args ...any) {
	fmt.Fprintf(n.W, "%s %s\n", glyph, fmt.Sprintf(format, args...))
}

// LogNotifier routes notifications to the standard logger. Used when no
// interactive surface is attached.
type LogNotifier struct{}

func (LogNotifier) Successf(format string, args ...any) { log.Printf("ok: "+format, args...) }
func (LogNotifier) Warnf(format string, args ...any)    { log.Printf("warn: "+format, args...) }
func (LogNotifier) Errorf(format string, args ...any)   { log.Printf("error: "+format, args...) }
