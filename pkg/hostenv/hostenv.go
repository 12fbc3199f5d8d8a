// Package hostenv assembles the stubbed browser and desktop-shell
// surfaces into one environment a test session can initialize, hand to
// components under test, and reset between tests.
//
// The environment never installs itself into package-level state.
// Components receive their capabilities through Lookup or through the
// window's capability registry, so two environments in one process
// stay fully isolated from each other.
package hostenv

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/emittiv/mockshell/pkg/bridge"
	"github.com/emittiv/mockshell/pkg/config"
	"github.com/emittiv/mockshell/pkg/diag"
	"github.com/emittiv/mockshell/pkg/dialog"
	"github.com/emittiv/mockshell/pkg/dom"
	"github.com/emittiv/mockshell/pkg/fixtures"
	"github.com/emittiv/mockshell/pkg/lifecycle"
	"github.com/emittiv/mockshell/pkg/socket"
	"github.com/emittiv/mockshell/pkg/storage"
	"github.com/emittiv/mockshell/pkg/surreal"
)

// Aliases accepted by Lookup. They mirror the import specifiers and
// globals the frontend resolves at runtime, so component code and test
// code can ask for a capability by the same name.
const (
	AliasSurreal   = "surrealdb"
	AliasSurrealJS = "surrealdb.js"
	AliasBridge    = "@tauri-apps/api/core"
	AliasDialog    = "@tauri-apps/plugin-dialog"
	AliasSocket    = "WebSocket"
	AliasStorage   = "localStorage"
	AliasWindow    = "window"
	AliasDocument  = "document"
	AliasConsole   = "console"
)

// Environment owns the window, document and every stubbed capability
// for one test session. Construct with New, wire with Initialize, and
// call Reset between tests.
type Environment struct {
	mu sync.Mutex

	cfg      config.Config
	window   *dom.Window
	document *dom.Document
	bridge   *bridge.Stub
	dialog   *dialog.Stub
	db       *surreal.Stub
	dialer   socket.Dialer
	store    storage.Store
	sink     *diag.Sink
	runner   *lifecycle.Runner
	set      *fixtures.Set

	diagOut     io.Writer
	initialized bool
	restoreLog  func()
}

// Option customizes an Environment before Initialize wires it.
type Option func(*Environment)

// WithConfig replaces the default configuration.
func WithConfig(cfg config.Config) Option {
	return func(e *Environment) { e.cfg = cfg }
}

// WithWindow reuses an existing window instead of creating one.
func WithWindow(w *dom.Window) Option {
	return func(e *Environment) { e.window = w }
}

// WithDocument reuses an existing document instead of creating one.
func WithDocument(d *dom.Document) Option {
	return func(e *Environment) { e.document = d }
}

// WithFixtures seeds the database and bridge stubs from the given set
// during Initialize, and again on every Reset so each test starts from
// the same baseline.
func WithFixtures(set *fixtures.Set) Option {
	return func(e *Environment) { e.set = set }
}

// WithDialer replaces the stub socket dialer, for sessions that need
// real websocket traffic.
func WithDialer(d socket.Dialer) Option {
	return func(e *Environment) { e.dialer = d }
}

// WithStore replaces the stub storage backend.
func WithStore(s storage.Store) Option {
	return func(e *Environment) { e.store = s }
}

// WithDiagOutput redirects pass-through warnings and errors, usually to
// a buffer the test can inspect.
func WithDiagOutput(w io.Writer) Option {
	return func(e *Environment) { e.diagOut = w }
}

// New builds an Environment from the default configuration plus any
// options. Nothing is wired until Initialize runs.
func New(opts ...Option) *Environment {
	e := &Environment{
		cfg:    config.DefaultConfig(),
		bridge: bridge.NewStub(),
		dialog: dialog.NewStub(),
		db:     surreal.NewStub(),
		runner: lifecycle.NewRunner(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.window == nil {
		e.window = dom.NewWindow()
	}
	if e.document == nil {
		e.document = e.window.Document
	} else {
		e.window.Document = e.document
	}
	if e.dialer == nil {
		e.dialer = socket.NewStubDialer()
	}
	if e.store == nil {
		e.store = storage.NewStub()
	}

	var sinkOpts []diag.Option
	if e.diagOut != nil {
		sinkOpts = append(sinkOpts, diag.WithOutput(e.diagOut))
	}
	sinkOpts = append(sinkOpts,
		diag.WithLevel(diag.ParseLevel(e.cfg.Diag.Level)),
		diag.WithSuppressed(e.cfg.Diag.Suppress),
	)
	e.sink = diag.New(sinkOpts...)
	return e
}

// Initialize wires the environment: loads the fixture set named by the
// configuration when no in-memory set was supplied, applies fixtures,
// attaches every capability to the window, installs the built-in reset
// hooks, captures the standard library logger, and runs the startup
// phase. Calling it again on an initialized environment is a no-op.
func (e *Environment) Initialize() error {
	e.mu.Lock()
	if e.initialized {
		e.mu.Unlock()
		return nil
	}

	if e.set == nil && e.cfg.Fixtures != "" {
		set, err := fixtures.Load(e.cfg.Fixtures)
		if err != nil {
			e.mu.Unlock()
			return fmt.Errorf("loading fixtures: %w", err)
		}
		e.set = set
	}
	if e.set != nil {
		if err := e.set.Apply(e.db, e.bridge); err != nil {
			e.mu.Unlock()
			return fmt.Errorf("applying fixtures: %w", err)
		}
	}

	e.window.Attach(AliasSurreal, e.db)
	e.window.Attach(AliasSurrealJS, e.db)
	e.window.Attach(AliasBridge, e.bridge)
	e.window.Attach(AliasDialog, e.dialog)
	e.window.Attach(AliasSocket, e.dialer)
	e.window.Attach(AliasStorage, e.store)
	e.window.Attach(AliasConsole, e.sink)

	e.runner.Register(lifecycle.BeforeEach, "stub-reset", func(context.Context) error {
		return e.Reset()
	})
	e.runner.Register(lifecycle.AfterEach, "stub-reset", func(context.Context) error {
		return e.Reset()
	})

	e.restoreLog = e.sink.CaptureStandard()
	e.initialized = true
	// Startup hooks run unlocked so they can use the environment,
	// including Reset.
	e.mu.Unlock()

	return e.runner.Run(context.Background(), lifecycle.Startup)
}

// Reset returns every stub to its post-Initialize baseline: call
// records dropped, programmed replies and answers cleared, the document
// body emptied, captured diagnostics discarded, and the fixture set
// reapplied when one is configured. Resetting twice leaves the same
// state as resetting once.
func (e *Environment) Reset() error {
	e.mu.Lock()
	set := e.set
	e.mu.Unlock()

	e.bridge.Reset()
	e.dialog.Reset()
	e.db.Reset()
	if r, ok := e.dialer.(interface{ Reset() }); ok {
		r.Reset()
	}
	if r, ok := e.store.(interface{ Reset() }); ok {
		r.Reset()
	}
	e.document.ClearBody()
	e.sink.Reset()

	if set != nil {
		if err := set.Apply(e.db, e.bridge); err != nil {
			return fmt.Errorf("reapplying fixtures: %w", err)
		}
	}
	return nil
}

// ReplaceFixtures swaps the fixture set and resets so the new baseline
// applies immediately. The dev server uses it for hot reload.
func (e *Environment) ReplaceFixtures(set *fixtures.Set) error {
	e.mu.Lock()
	e.set = set
	e.mu.Unlock()
	return e.Reset()
}

// Close releases what Initialize captured, currently the standard
// library logger redirection. Injected stores stay open; their owner
// closes them.
func (e *Environment) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.restoreLog != nil {
		e.restoreLog()
		e.restoreLog = nil
	}
	e.initialized = false
}

// Lookup resolves a capability by the alias the frontend would use for
// it. The second result is false for aliases the environment does not
// provide.
func (e *Environment) Lookup(alias string) (any, bool) {
	switch alias {
	case AliasSurreal, AliasSurrealJS:
		return e.db, true
	case AliasBridge:
		return e.bridge, true
	case AliasDialog:
		return e.dialog, true
	case AliasSocket:
		return e.dialer, true
	case AliasStorage:
		return e.store, true
	case AliasWindow:
		return e.window, true
	case AliasDocument:
		return e.document, true
	case AliasConsole:
		return e.sink, true
	}
	return nil, false
}

// Config returns the configuration the environment was built with.
func (e *Environment) Config() config.Config { return e.cfg }

// Window returns the session window.
func (e *Environment) Window() *dom.Window { return e.window }

// Document returns the session document.
func (e *Environment) Document() *dom.Document { return e.document }

// Bridge returns the command-bridge stub.
func (e *Environment) Bridge() *bridge.Stub { return e.bridge }

// Dialog returns the dialog stub.
func (e *Environment) Dialog() *dialog.Stub { return e.dialog }

// DB returns the database stub.
func (e *Environment) DB() *surreal.Stub { return e.db }

// Dialer returns the socket dialer, stubbed unless WithDialer replaced it.
func (e *Environment) Dialer() socket.Dialer { return e.dialer }

// Store returns the storage backend, stubbed unless WithStore replaced it.
func (e *Environment) Store() storage.Store { return e.store }

// Sink returns the diagnostics sink.
func (e *Environment) Sink() *diag.Sink { return e.sink }

// Hooks returns the lifecycle runner so callers can register their own
// phase hooks alongside the built-in reset.
func (e *Environment) Hooks() *lifecycle.Runner { return e.runner }
