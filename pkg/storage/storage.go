// Package storage models the key-value persistence a page would reach
// through local storage.
//
// Three implementations cover the harness's needs: Stub is the recording
// no-op installed by default (reads always miss, writes go nowhere),
// Memory actually holds values for tests that need persistence to work,
// and SQLite backs the dev server with a file so state survives restarts.
package storage

import (
	"context"
	"sync"

	"github.com/emittiv/mockshell/pkg/calllog"
)

// Store is the persistence capability a component sees.
type Store interface {
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Len(ctx context.Context) (int, error)
	Keys(ctx context.Context) ([]string, error)
}

// Stub implements Store as a recording no-op. Writes are recorded and
// discarded; reads record and always miss. A component that persists
// state during a test therefore leaves nothing behind.
type Stub struct {
	log *calllog.Log
}

var _ Store = (*Stub)(nil)

// NewStub returns the recording no-op store.
func NewStub() *Stub {
	return &Stub{log: calllog.New()}
}

// GetItem records the read and misses.
func (s *Stub) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.log.Record("getItem", key)
	return "", false, nil
}

// SetItem records the write and discards it.
func (s *Stub) SetItem(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.log.Record("setItem", key, value)
	return nil
}

// RemoveItem records the removal.
func (s *Stub) RemoveItem(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.log.Record("removeItem", key)
	return nil
}

// Clear records the call.
func (s *Stub) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.log.Record("clear")
	return nil
}

// Len records the call and reports empty.
func (s *Stub) Len(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.log.Record("length")
	return 0, nil
}

// Keys records the call and reports none.
func (s *Stub) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.log.Record("keys")
	return nil, nil
}

// Log exposes the recorded access history.
func (s *Stub) Log() *calllog.Log {
	return s.log
}

// Reset clears the history. There is no stored state to clear.
func (s *Stub) Reset() {
	s.log.Reset()
}

// Memory is a functional in-memory Store for tests that need storage to
// actually hold values.
type Memory struct {
	mu    sync.RWMutex
	items map[string]string
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]string)}
}

// GetItem returns the stored value for key.
func (m *Memory) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok, nil
}

// SetItem stores value under key.
func (m *Memory) SetItem(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.items[key] = value
	m.mu.Unlock()
	return nil
}

// RemoveItem drops key.
func (m *Memory) RemoveItem(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
	return nil
}

// Clear drops everything.
func (m *Memory) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.items = make(map[string]string)
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored keys.
func (m *Memory) Len(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items), nil
}

// Keys returns the stored keys in unspecified order.
func (m *Memory) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	return keys, nil
}
