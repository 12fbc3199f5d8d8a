package hostenv

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/emittiv/mockshell/pkg/lifecycle"
)

// ForTesting builds and initializes an Environment for one test,
// running the before-each phase now and deferring the after-each phase
// and teardown through t.Cleanup. Initialization failure fails the
// test immediately.
func ForTesting(t *testing.T, opts ...Option) *Environment {
	t.Helper()
	e := New(opts...)
	if err := e.Initialize(); err != nil {
		t.Fatalf("initializing environment: %v", err)
	}
	t.Cleanup(e.Close)
	e.BindTest(t)
	return e
}

// BindTest runs the before-each phase for an already initialized
// environment and schedules the after-each phase via t.Cleanup. Use it
// with a shared environment created once in TestMain.
func (e *Environment) BindTest(t *testing.T) {
	t.Helper()
	if err := e.runner.Run(context.Background(), lifecycle.BeforeEach); err != nil {
		t.Fatalf("before-each hooks: %v", err)
	}
	t.Cleanup(func() {
		if err := e.runner.Run(context.Background(), lifecycle.AfterEach); err != nil {
			t.Errorf("after-each hooks: %v", err)
		}
	})
}

// Run initializes env, runs the test binary, and tears the environment
// down afterwards. Intended for TestMain:
//
//	var env *hostenv.Environment
//
//	func TestMain(m *testing.M) {
//		env = hostenv.New()
//		os.Exit(hostenv.Run(m, env))
//	}
//
// A startup failure is reported on stderr and the binary exits
// non-zero without running any tests.
func Run(m *testing.M, env *Environment) int {
	if err := env.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "environment startup: %v\n", err)
		return 1
	}
	defer env.Close()
	return m.Run()
}
