// Package bridge models the native invocation channel between frontend
// code and its host shell.
//
// Components call Invoke with a command name and arguments; the host
// routes the command to a native handler and resolves with a JSON reply.
// The Stub stands in for the host during tests: it records every
// invocation and resolves with empty success unless a test programs a
// reply or an error for a specific command.
package bridge

import (
	"context"
	"fmt"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/emittiv/mockshell/pkg/calllog"
)

// Invoker is the invocation channel a component sees.
type Invoker interface {
	Invoke(ctx context.Context, command string, args any) (json.RawMessage, error)
}

// CallbackID identifies a registered bridge callback.
type CallbackID uint64

// Callback receives the raw payload the host passes back.
type Callback func(payload json.RawMessage)

// Stub is a recording Invoker that never reaches a real host.
// All methods are safe for concurrent use.
type Stub struct {
	mu        sync.Mutex
	log       *calllog.Log
	replies   map[string]json.RawMessage
	errs      map[string]error
	callbacks map[CallbackID]Callback
	nextID    CallbackID
}

// NewStub returns a stub that resolves every command with empty success.
func NewStub() *Stub {
	return &Stub{
		log:       calllog.New(),
		replies:   make(map[string]json.RawMessage),
		errs:      make(map[string]error),
		callbacks: make(map[CallbackID]Callback),
	}
}

// Invoke records the command and its marshaled arguments, then resolves
// with the programmed reply for the command, the programmed error, or the
// default empty success (JSON null).
func (s *Stub) Invoke(ctx context.Context, command string, args any) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("marshaling args for %s: %w", command, err)
	}
	s.log.Record(command, string(data))

	s.mu.Lock()
	reply, hasReply := s.replies[command]
	forced := s.errs[command]
	s.mu.Unlock()

	if forced != nil {
		return nil, forced
	}
	if hasReply {
		out := make(json.RawMessage, len(reply))
		copy(out, reply)
		return out, nil
	}
	return json.RawMessage("null"), nil
}

// Respond programs a canned reply for one command. The value is marshaled
// once, at programming time.
func (s *Stub) Respond(command string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling reply for %s: %w", command, err)
	}
	s.mu.Lock()
	s.replies[command] = data
	delete(s.errs, command)
	s.mu.Unlock()
	return nil
}

// Err forces an error for one command. A nil err clears it.
func (s *Stub) Err(command string, err error) {
	s.mu.Lock()
	if err == nil {
		delete(s.errs, command)
	} else {
		s.errs[command] = err
		delete(s.replies, command)
	}
	s.mu.Unlock()
}

// RegisterCallback stores fn and returns a fresh ID. IDs increase
// monotonically for the life of the stub; registration is recorded.
func (s *Stub) RegisterCallback(fn Callback) CallbackID {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.callbacks[id] = fn
	s.mu.Unlock()
	s.log.Record("registerCallback", uint64(id))
	return id
}

// UnregisterCallback drops the callback for id, if present.
func (s *Stub) UnregisterCallback(id CallbackID) {
	s.mu.Lock()
	delete(s.callbacks, id)
	s.mu.Unlock()
	s.log.Record("unregisterCallback", uint64(id))
}

// Fire invokes the registered callback with payload, reporting whether a
// callback was registered under id. Tests use it to simulate the host
// pushing data back.
func (s *Stub) Fire(id CallbackID, payload json.RawMessage) bool {
	s.mu.Lock()
	fn, ok := s.callbacks[id]
	s.mu.Unlock()
	if !ok {
		return false
	}
	fn(payload)
	return true
}

// Log exposes the recorded invocation history.
func (s *Stub) Log() *calllog.Log {
	return s.log
}

// Reset clears the recorded history and all programmed replies, errors
// and callbacks. The ID sequence keeps counting so stale IDs from before
// the reset can never collide with new registrations.
func (s *Stub) Reset() {
	s.log.Reset()
	s.mu.Lock()
	s.replies = make(map[string]json.RawMessage)
	s.errs = make(map[string]error)
	s.callbacks = make(map[CallbackID]Callback)
	s.mu.Unlock()
}
