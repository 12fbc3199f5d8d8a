package lifecycle

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestHooksRunInRegistrationOrder(t *testing.T) {
	r := NewRunner()
	var order []string

	r.Register(BeforeEach, "first", func(context.Context) error {
		order = append(order, "first")
		return nil
	})
	r.Register(BeforeEach, "second", func(context.Context) error {
		order = append(order, "second")
		return nil
	})
	r.Register(BeforeEach, "third", func(context.Context) error {
		order = append(order, "third")
		return nil
	})

	if err := r.Run(context.Background(), BeforeEach); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.Join(order, ",") != "first,second,third" {
		t.Errorf("unexpected order: %v", order)
	}
}

func TestStartupAbortsOnFirstFailure(t *testing.T) {
	r := NewRunner()
	boom := errors.New("db placeholder missing")
	var ran []string

	r.Register(Startup, "ok", func(context.Context) error {
		ran = append(ran, "ok")
		return nil
	})
	r.Register(Startup, "broken", func(context.Context) error {
		ran = append(ran, "broken")
		return boom
	})
	r.Register(Startup, "never", func(context.Context) error {
		ran = append(ran, "never")
		return nil
	})

	err := r.Run(context.Background(), Startup)
	if !errors.Is(err, boom) {
		t.Fatalf("expected startup failure, got %v", err)
	}
	if !strings.Contains(err.Error(), `"broken"`) {
		t.Errorf("expected failing hook named in error, got %q", err)
	}
	if strings.Join(ran, ",") != "ok,broken" {
		t.Errorf("expected run to stop at the failure, ran: %v", ran)
	}
}

func TestPerTestPhasesRunEveryHook(t *testing.T) {
	r := NewRunner()
	first := errors.New("reset failed")
	second := errors.New("teardown failed")
	var ran []string

	r.Register(AfterEach, "fail-a", func(context.Context) error {
		ran = append(ran, "fail-a")
		return first
	})
	r.Register(AfterEach, "still-runs", func(context.Context) error {
		ran = append(ran, "still-runs")
		return nil
	})
	r.Register(AfterEach, "fail-b", func(context.Context) error {
		ran = append(ran, "fail-b")
		return second
	})

	err := r.Run(context.Background(), AfterEach)
	if len(ran) != 3 {
		t.Fatalf("expected all hooks to run, ran %v", ran)
	}
	if !errors.Is(err, first) || !errors.Is(err, second) {
		t.Errorf("expected both failures joined, got %v", err)
	}
}

func TestResultsRecorded(t *testing.T) {
	r := NewRunner()
	r.Register(BeforeEach, "reset", func(context.Context) error { return nil })
	r.Register(AfterEach, "verify", func(context.Context) error { return errors.New("left over state") })

	_ = r.Run(context.Background(), BeforeEach)
	_ = r.Run(context.Background(), AfterEach)

	results := r.Results()
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Phase != BeforeEach || results[0].Name != "reset" || results[0].Err != nil {
		t.Errorf("unexpected first result: %+v", results[0])
	}
	if results[1].Phase != AfterEach || results[1].Err == nil {
		t.Errorf("unexpected second result: %+v", results[1])
	}

	r.ClearResults()
	if len(r.Results()) != 0 {
		t.Error("expected results cleared")
	}
	// Registrations survive.
	if len(r.Hooks(BeforeEach)) != 1 {
		t.Error("expected registrations to survive ClearResults")
	}
}

func TestEmptyPhaseSucceeds(t *testing.T) {
	r := NewRunner()
	if err := r.Run(context.Background(), Startup); err != nil {
		t.Fatalf("expected empty phase to succeed, got %v", err)
	}
}

func TestContextReachesHooks(t *testing.T) {
	r := NewRunner()
	type key struct{}
	var got any

	r.Register(BeforeEach, "observe", func(ctx context.Context) error {
		got = ctx.Value(key{})
		return nil
	})

	ctx := context.WithValue(context.Background(), key{}, "marker")
	if err := r.Run(ctx, BeforeEach); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != "marker" {
		t.Errorf("expected context value to reach hook, got %v", got)
	}
}
