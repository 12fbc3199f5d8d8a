// Package lifecycle sequences the phases of a test session.
//
// Hooks are Go functions registered by name on a phase and run in
// registration order. The environment installs its own reset as a
// built-in hook; suites append their own around it.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Phase represents when a hook runs.
type Phase string

const (
	// Startup runs once before any test. Failure aborts the session.
	Startup Phase = "startup"
	// BeforeEach runs before every test. Failure is reported but the
	// remaining hooks still run.
	BeforeEach Phase = "before-each"
	// AfterEach runs after every test. Failure is reported but the
	// remaining hooks still run.
	AfterEach Phase = "after-each"
)

// Func is a single hook body.
type Func func(ctx context.Context) error

// Hook pairs a name with its body.
type Hook struct {
	Name string
	Run  Func
}

// Result records one hook execution.
type Result struct {
	Phase    Phase
	Name     string
	Err      error
	Duration time.Duration
}

// Runner keeps ordered named hooks per phase and records every
// execution. All methods are safe for concurrent use.
type Runner struct {
	mu      sync.Mutex
	hooks   map[Phase][]Hook
	results []Result
}

// NewRunner returns a runner with no hooks registered.
func NewRunner() *Runner {
	return &Runner{hooks: make(map[Phase][]Hook)}
}

// Register appends a named hook to phase.
func (r *Runner) Register(phase Phase, name string, fn Func) {
	r.mu.Lock()
	r.hooks[phase] = append(r.hooks[phase], Hook{Name: name, Run: fn})
	r.mu.Unlock()
}

// Hooks returns the hooks registered for phase, in execution order.
func (r *Runner) Hooks(phase Phase) []Hook {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Hook(nil), r.hooks[phase]...)
}

// Run executes the hooks for phase in registration order.
//
// Startup stops at the first failing hook and returns its error; the
// remaining hooks do not run. The per-test phases run every hook and
// return the joined errors, so one misbehaving hook cannot starve the
// cleanup that follows it.
func (r *Runner) Run(ctx context.Context, phase Phase) error {
	hooks := r.Hooks(phase)
	var errs []error
	for _, h := range hooks {
		start := time.Now()
		err := h.Run(ctx)
		r.record(Result{Phase: phase, Name: h.Name, Err: err, Duration: time.Since(start)})
		if err == nil {
			continue
		}
		wrapped := fmt.Errorf("%s hook %q: %w", phase, h.Name, err)
		if phase == Startup {
			return wrapped
		}
		errs = append(errs, wrapped)
	}
	return errors.Join(errs...)
}

func (r *Runner) record(res Result) {
	r.mu.Lock()
	r.results = append(r.results, res)
	r.mu.Unlock()
}

// Results returns a copy of every recorded execution.
func (r *Runner) Results() []Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Result(nil), r.results...)
}

// ClearResults drops the recorded executions, keeping registrations.
func (r *Runner) ClearResults() {
	r.mu.Lock()
	r.results = nil
	r.mu.Unlock()
}
