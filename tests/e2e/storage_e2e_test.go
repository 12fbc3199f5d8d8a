package e2e

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/emittiv/mockshell/pkg/hostenv"
	"github.com/emittiv/mockshell/pkg/storage"
)

// TestPersistentStorage runs a private environment with the SQLite
// store, the shape the dev server takes with --state: writes survive a
// full environment teardown and reopen.
func TestPersistentStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	open := func() (*hostenv.Environment, *storage.SQLite) {
		t.Helper()
		store, err := storage.OpenSQLite(path)
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		e := hostenv.New(
			hostenv.WithStore(store),
			hostenv.WithDiagOutput(io.Discard),
		)
		if err := e.Initialize(); err != nil {
			t.Fatalf("initialize: %v", err)
		}
		return e, store
	}

	first, store1 := open()
	val, ok := first.Lookup(hostenv.AliasStorage)
	if !ok {
		t.Fatal("localStorage capability missing")
	}
	st, ok := val.(storage.Store)
	if !ok {
		t.Fatalf("localStorage capability is %T, want storage.Store", val)
	}
	if err := st.SetItem(ctx, "proposal-draft", `{"project":"projects:test-0"}`); err != nil {
		t.Fatalf("setItem: %v", err)
	}
	first.Close()
	if err := store1.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	second, store2 := open()
	defer second.Close()
	defer store2.Close()

	got, okv, err := second.Store().GetItem(ctx, "proposal-draft")
	if err != nil {
		t.Fatalf("getItem: %v", err)
	}
	if !okv || got != `{"project":"projects:test-0"}` {
		t.Errorf("persisted value = %q (found %v), want the saved draft", got, okv)
	}
}

// TestEphemeralStubStorage verifies the default store never retains
// anything, which keeps plain test sessions hermetic.
func TestEphemeralStubStorage(t *testing.T) {
	e := bindTest(t)
	ctx := context.Background()

	if err := e.Store().SetItem(ctx, "theme", "dark"); err != nil {
		t.Fatalf("setItem: %v", err)
	}
	if _, found, err := e.Store().GetItem(ctx, "theme"); err != nil || found {
		t.Errorf("stub store returned a hit (err %v), want a miss", err)
	}
}
