// Package calllog records invocations made against environment stubs.
//
// Every stub in the harness owns a Log. Operations append to it, tests
// assert against it, and the environment clears it between tests so that
// no test can observe calls recorded by a predecessor.
package calllog

import (
	"sync"
	"time"
)

// Call is a single recorded invocation.
type Call struct {
	// Op is the operation name, e.g. "invoke" or "setItem".
	Op string `json:"op"`
	// Args are the arguments the operation was called with, in order.
	Args []any `json:"args,omitempty"`
	// At is the time the call was recorded.
	At time.Time `json:"at"`
}

// Log is an append-only history of stub invocations.
// All methods are safe for concurrent use.
type Log struct {
	mu    sync.Mutex
	calls []Call
}

// New returns an empty call log.
func New() *Log {
	return &Log{}
}

// Record appends a call for op and returns the recorded entry.
func (l *Log) Record(op string, args ...any) Call {
	c := Call{Op: op, Args: args, At: time.Now()}
	l.mu.Lock()
	l.calls = append(l.calls, c)
	l.mu.Unlock()
	return c
}

// Calls returns a copy of the full history in recording order.
func (l *Log) Calls() []Call {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Call, len(l.calls))
	copy(out, l.calls)
	return out
}

// CallsTo returns the recorded calls for a single operation.
func (l *Log) CallsTo(op string) []Call {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Call
	for _, c := range l.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Count returns how many times op was called.
func (l *Log) Count(op string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, c := range l.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Total returns the number of recorded calls across all operations.
func (l *Log) Total() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.calls)
}

// Last returns the most recent call, if any.
func (l *Log) Last() (Call, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.calls) == 0 {
		return Call{}, false
	}
	return l.calls[len(l.calls)-1], true
}

// Reset clears the history. Resetting an empty log is a no-op, so the
// operation is idempotent.
func (l *Log) Reset() {
	l.mu.Lock()
	l.calls = nil
	l.mu.Unlock()
}

// Snapshot groups the history by operation name, preserving per-op order.
// The dev server uses it for the call inspection endpoint.
func (l *Log) Snapshot() map[string][]Call {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string][]Call)
	for _, c := range l.calls {
		out[c.Op] = append(out[c.Op], c)
	}
	return out
}
