package diag

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestChattyLevelsAreMuted(t *testing.T) {
	var buf bytes.Buffer
	s := New(WithOutput(&buf))

	s.Trace("trace msg")
	s.Debug("debug msg", "k", 1)
	s.Info("info msg")

	if buf.Len() != 0 {
		t.Fatalf("expected no emitted output, got %q", buf.String())
	}

	muted := s.Muted()
	if len(muted) != 3 {
		t.Fatalf("expected 3 muted entries, got %d", len(muted))
	}
	if muted[0].Level != TraceLevel || muted[1].Level != DebugLevel || muted[2].Level != InfoLevel {
		t.Errorf("unexpected muted levels: %+v", muted)
	}
	if muted[1].Message != "debug msg" || len(muted[1].Args) != 2 {
		t.Errorf("muted entry lost its payload: %+v", muted[1])
	}
}

func TestWarnPassesThrough(t *testing.T) {
	var buf bytes.Buffer
	s := New(WithOutput(&buf))

	s.Warn("deprecated call", "component", "FeeForm")

	out := buf.String()
	if !strings.Contains(out, "deprecated call") {
		t.Fatalf("expected warning in output, got %q", out)
	}
	if !strings.Contains(out, "FeeForm") {
		t.Errorf("expected warn args forwarded, got %q", out)
	}
	if len(s.Muted()) != 0 {
		t.Error("warnings must not be recorded as muted")
	}
}

func TestErrorPassesThroughByDefault(t *testing.T) {
	var buf bytes.Buffer
	s := New(WithOutput(&buf))

	s.Error("query failed", "table", "projects")

	out := buf.String()
	if !strings.Contains(out, "query failed") || !strings.Contains(out, "projects") {
		t.Fatalf("expected error in output, got %q", out)
	}
	if len(s.Suppressed()) != 0 {
		t.Error("unsuppressed error must not be recorded as suppressed")
	}
}

func TestErrorSuppressionDefaults(t *testing.T) {
	var buf bytes.Buffer
	s := New(WithOutput(&buf))

	s.Error("lifecycle_outside_component: onMount called outside component initialization")
	s.Error("detected hydration_mismatch while mounting")

	if buf.Len() != 0 {
		t.Fatalf("expected suppressed errors to emit nothing, got %q", buf.String())
	}
	suppressed := s.Suppressed()
	if len(suppressed) != 2 {
		t.Fatalf("expected 2 suppressed entries, got %d", len(suppressed))
	}
	if suppressed[0].Level != ErrorLevel {
		t.Errorf("suppressed entries keep their level, got %v", suppressed[0].Level)
	}
}

func TestErrorSuppressionMatchesArgs(t *testing.T) {
	var buf bytes.Buffer
	s := New(WithOutput(&buf))

	// The suppressed substring appears in an argument, not the message.
	s.Error("component error", "cause", "hydration_mismatch")

	if buf.Len() != 0 {
		t.Fatalf("expected suppression to consider rendered args, got %q", buf.String())
	}
	if len(s.Suppressed()) != 1 {
		t.Fatalf("expected 1 suppressed entry, got %d", len(s.Suppressed()))
	}
}

func TestConfigurableSuppression(t *testing.T) {
	var buf bytes.Buffer
	s := New(WithOutput(&buf), WithSuppressed([]string{"noisy_plugin"}))

	// Defaults are replaced, so the lifecycle warning now passes.
	s.Error("lifecycle_outside_component fired")
	if !strings.Contains(buf.String(), "lifecycle_outside_component") {
		t.Fatalf("expected replaced list to let default pattern through, got %q", buf.String())
	}

	buf.Reset()
	s.Error("noisy_plugin exploded again")
	if buf.Len() != 0 {
		t.Fatalf("expected configured pattern to suppress, got %q", buf.String())
	}

	s.Suppress("another_pattern")
	got := s.SuppressedPatterns()
	if len(got) != 2 || got[0] != "noisy_plugin" || got[1] != "another_pattern" {
		t.Errorf("unexpected pattern list: %v", got)
	}
}

func TestResetClearsRecordedEntries(t *testing.T) {
	var buf bytes.Buffer
	s := New(WithOutput(&buf))

	s.Info("chatter")
	s.Error("hydration_mismatch during mount")
	if len(s.Muted()) != 1 || len(s.Suppressed()) != 1 {
		t.Fatalf("setup failed: muted=%d suppressed=%d", len(s.Muted()), len(s.Suppressed()))
	}

	s.Reset()
	if len(s.Muted()) != 0 || len(s.Suppressed()) != 0 {
		t.Error("expected reset to clear recorded entries")
	}

	// Suppression config survives reset.
	s.Error("hydration_mismatch again")
	if buf.Len() != 0 {
		t.Errorf("expected suppression list to survive reset, got %q", buf.String())
	}
}

func TestCaptureStandard(t *testing.T) {
	var buf bytes.Buffer
	s := New(WithOutput(&buf))

	restore := s.CaptureStandard()
	log.Printf("stray log from %s", "helper")
	restore()

	if buf.Len() != 0 {
		t.Fatalf("captured stdlib log must not be emitted, got %q", buf.String())
	}
	muted := s.Muted()
	if len(muted) != 1 {
		t.Fatalf("expected 1 captured entry, got %d", len(muted))
	}
	if muted[0].Message != "stray log from helper" {
		t.Errorf("unexpected captured message: %q", muted[0].Message)
	}

	// After restore, the sink stops seeing stdlib output.
	var after bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&after)
	defer log.SetOutput(prev)
	log.Print("back to normal")
	if len(s.Muted()) != 1 {
		t.Error("expected no further captures after restore")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"trace":   TraceLevel,
		"debug":   DebugLevel,
		"info":    InfoLevel,
		"warn":    WarnLevel,
		"Warning": WarnLevel,
		"ERROR":   ErrorLevel,
		"":        DebugLevel,
		"bogus":   DebugLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
