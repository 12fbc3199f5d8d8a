// Package diag routes component diagnostics during tests.
//
// The sink replaces the console-like channel an app writes to. Chatty levels
// (trace, debug, info) are recorded but never emitted. Warnings always pass
// through. Errors pass through unless their rendered text contains one of the
// suppressed substrings, which covers framework lifecycle noise that fires
// when components run outside their normal host.
package diag

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	charmlog "github.com/charmbracelet/log"
)

// Level names a diagnostic severity.
type Level string

const (
	TraceLevel Level = "trace"
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// ParseLevel maps a config string onto a Level, defaulting to debug so the
// pass-through levels are never filtered by accident.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return TraceLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return DebugLevel
	}
}

func (l Level) charm() charmlog.Level {
	switch l {
	case TraceLevel, DebugLevel:
		return charmlog.DebugLevel
	case InfoLevel:
		return charmlog.InfoLevel
	case WarnLevel:
		return charmlog.WarnLevel
	case ErrorLevel:
		return charmlog.ErrorLevel
	default:
		return charmlog.DebugLevel
	}
}

// DefaultSuppressed are the framework warnings every test would otherwise
// drown in: lifecycle callbacks firing outside a mounted component, and
// server/client markup mismatches from rendering without a real host page.
func DefaultSuppressed() []string {
	return []string{"lifecycle_outside_component", "hydration_mismatch"}
}

// Entry is one recorded diagnostic that did not reach the real channel.
type Entry struct {
	Level   Level
	Message string
	Args    []any
}

// Sink is the diagnostic channel override. All methods are safe for
// concurrent use.
type Sink struct {
	mu         sync.Mutex
	out        *charmlog.Logger
	suppress   []string
	muted      []Entry
	suppressed []Entry
}

// Option configures a Sink.
type Option func(*Sink)

// WithOutput directs pass-through diagnostics at w instead of stderr.
func WithOutput(w io.Writer) Option {
	return func(s *Sink) {
		s.out = newLogger(w, DebugLevel)
	}
}

// WithLogger uses an already-configured logger for pass-through output.
func WithLogger(l *charmlog.Logger) Option {
	return func(s *Sink) {
		s.out = l
	}
}

// WithLevel sets the verbosity of the pass-through logger.
func WithLevel(level Level) Option {
	return func(s *Sink) {
		s.out.SetLevel(level.charm())
	}
}

// WithSuppressed replaces the suppressed-substring list.
func WithSuppressed(patterns []string) Option {
	return func(s *Sink) {
		s.suppress = append([]string(nil), patterns...)
	}
}

func newLogger(w io.Writer, level Level) *charmlog.Logger {
	return charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: false,
		Level:           level.charm(),
	})
}

// New returns a sink with the default suppressed patterns, emitting
// pass-through diagnostics to stderr.
func New(opts ...Option) *Sink {
	s := &Sink{
		out:      newLogger(os.Stderr, DebugLevel),
		suppress: DefaultSuppressed(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Trace records the entry without emitting it.
func (s *Sink) Trace(msg string, args ...any) { s.mute(TraceLevel, msg, args) }

// Debug records the entry without emitting it.
func (s *Sink) Debug(msg string, args ...any) { s.mute(DebugLevel, msg, args) }

// Info records the entry without emitting it.
func (s *Sink) Info(msg string, args ...any) { s.mute(InfoLevel, msg, args) }

func (s *Sink) mute(level Level, msg string, args []any) {
	s.mu.Lock()
	s.muted = append(s.muted, Entry{Level: level, Message: msg, Args: args})
	s.mu.Unlock()
}

// Warn always reaches the underlying channel, arguments in order.
func (s *Sink) Warn(msg string, args ...any) {
	s.mu.Lock()
	out := s.out
	s.mu.Unlock()
	out.Warn(msg, args...)
}

// Error reaches the underlying channel unless the rendered text contains a
// suppressed substring; suppressed entries are recorded instead.
func (s *Sink) Error(msg string, args ...any) {
	text := renderText(msg, args)
	s.mu.Lock()
	for _, pattern := range s.suppress {
		if pattern != "" && strings.Contains(text, pattern) {
			s.suppressed = append(s.suppressed, Entry{Level: ErrorLevel, Message: msg, Args: args})
			s.mu.Unlock()
			return
		}
	}
	out := s.out
	s.mu.Unlock()
	out.Error(msg, args...)
}

func renderText(msg string, args []any) string {
	if len(args) == 0 {
		return msg
	}
	parts := make([]string, 0, 1+len(args))
	parts = append(parts, msg)
	for _, a := range args {
		parts = append(parts, fmt.Sprint(a))
	}
	return strings.Join(parts, " ")
}

// SetSuppressed replaces the suppressed-substring list at runtime.
func (s *Sink) SetSuppressed(patterns []string) {
	s.mu.Lock()
	s.suppress = append([]string(nil), patterns...)
	s.mu.Unlock()
}

// Suppress appends patterns to the suppressed-substring list.
func (s *Sink) Suppress(patterns ...string) {
	s.mu.Lock()
	s.suppress = append(s.suppress, patterns...)
	s.mu.Unlock()
}

// SuppressedPatterns returns a copy of the active suppression list.
func (s *Sink) SuppressedPatterns() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.suppress...)
}

// Muted returns the entries recorded at trace, debug and info.
func (s *Sink) Muted() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.muted...)
}

// Suppressed returns the error entries dropped by the suppression list.
func (s *Sink) Suppressed() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.suppressed...)
}

// Reset clears all recorded entries. The suppression list is kept; it is
// configuration, not per-test state.
func (s *Sink) Reset() {
	s.mu.Lock()
	s.muted = nil
	s.suppressed = nil
	s.mu.Unlock()
}
