package bridge

import (
	"context"
	"errors"
	"testing"

	json "github.com/goccy/go-json"
)

func TestInvokeDefaultsToEmptySuccess(t *testing.T) {
	s := NewStub()

	reply, err := s.Invoke(context.Background(), CmdHealthCheck, nil)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if string(reply) != "null" {
		t.Errorf("expected null reply, got %s", reply)
	}
}

func TestInvokeRecordsCommandAndArgs(t *testing.T) {
	s := NewStub()

	args := map[string]any{"id": "project:abc", "name": "Harbor Tower"}
	if _, err := s.Invoke(context.Background(), CmdCreateProject, args); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if _, err := s.Invoke(context.Background(), CmdGetProjects, nil); err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	calls := s.Log().CallsTo(CmdCreateProject)
	if len(calls) != 1 {
		t.Fatalf("expected 1 create_project call, got %d", len(calls))
	}
	recorded, ok := calls[0].Args[0].(string)
	if !ok {
		t.Fatalf("expected marshaled args as string, got %T", calls[0].Args[0])
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(recorded), &decoded); err != nil {
		t.Fatalf("recorded args are not valid JSON: %v", err)
	}
	if decoded["name"] != "Harbor Tower" {
		t.Errorf("recorded args lost data: %v", decoded)
	}
	if got := s.Log().Total(); got != 2 {
		t.Errorf("expected 2 recorded invocations, got %d", got)
	}
}

func TestProgrammedReply(t *testing.T) {
	s := NewStub()

	projects := []map[string]any{{"id": "project:one", "name": "One"}}
	if err := s.Respond(CmdGetProjects, projects); err != nil {
		t.Fatalf("Respond: %v", err)
	}

	reply, err := s.Invoke(context.Background(), CmdGetProjects, nil)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal(reply, &decoded); err != nil {
		t.Fatalf("Unmarshal reply: %v", err)
	}
	if len(decoded) != 1 || decoded[0]["name"] != "One" {
		t.Errorf("unexpected reply: %v", decoded)
	}

	// Other commands stay on the default.
	other, err := s.Invoke(context.Background(), CmdGetCompanies, nil)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if string(other) != "null" {
		t.Errorf("expected untouched command to reply null, got %s", other)
	}
}

func TestProgrammedError(t *testing.T) {
	s := NewStub()

	boom := errors.New("connection refused")
	s.Err(CmdCheckDBConnection, boom)

	_, err := s.Invoke(context.Background(), CmdCheckDBConnection, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected programmed error, got %v", err)
	}
	// The failed invocation is still recorded.
	if got := s.Log().Count(CmdCheckDBConnection); got != 1 {
		t.Errorf("expected failed invoke recorded, got %d calls", got)
	}

	s.Err(CmdCheckDBConnection, nil)
	if _, err := s.Invoke(context.Background(), CmdCheckDBConnection, nil); err != nil {
		t.Errorf("expected cleared error, got %v", err)
	}
}

func TestInvokeHonorsContext(t *testing.T) {
	s := NewStub()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Invoke(ctx, CmdHealthCheck, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if got := s.Log().Total(); got != 0 {
		t.Errorf("cancelled invoke must not be recorded, got %d", got)
	}
}

func TestCallbackIDsIncrease(t *testing.T) {
	s := NewStub()

	var got json.RawMessage
	first := s.RegisterCallback(func(p json.RawMessage) { got = p })
	second := s.RegisterCallback(func(json.RawMessage) {})

	if second <= first {
		t.Fatalf("expected increasing IDs, got %d then %d", first, second)
	}

	if !s.Fire(first, json.RawMessage(`{"ok":true}`)) {
		t.Fatal("expected Fire to find the callback")
	}
	if string(got) != `{"ok":true}` {
		t.Errorf("callback received %s", got)
	}
	if s.Fire(999, nil) {
		t.Error("expected Fire to miss an unknown ID")
	}

	s.UnregisterCallback(first)
	if s.Fire(first, nil) {
		t.Error("expected unregistered callback to be gone")
	}
}

func TestResetClearsStateButNotIDSequence(t *testing.T) {
	s := NewStub()

	if err := s.Respond(CmdGetStats, map[string]int{"projects": 3}); err != nil {
		t.Fatalf("Respond: %v", err)
	}
	s.Err(CmdGetDBInfo, errors.New("down"))
	before := s.RegisterCallback(func(json.RawMessage) {})
	if _, err := s.Invoke(context.Background(), CmdGetStats, nil); err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	s.Reset()

	if got := s.Log().Total(); got != 0 {
		t.Errorf("expected empty log after reset, got %d", got)
	}
	reply, err := s.Invoke(context.Background(), CmdGetStats, nil)
	if err != nil {
		t.Fatalf("Invoke after reset: %v", err)
	}
	if string(reply) != "null" {
		t.Errorf("expected programmed reply cleared, got %s", reply)
	}
	if _, err := s.Invoke(context.Background(), CmdGetDBInfo, nil); err != nil {
		t.Errorf("expected programmed error cleared, got %v", err)
	}
	if s.Fire(before, nil) {
		t.Error("expected callbacks cleared by reset")
	}

	after := s.RegisterCallback(func(json.RawMessage) {})
	if after <= before {
		t.Errorf("expected ID sequence to survive reset: before=%d after=%d", before, after)
	}
}

func TestCommandsListMatchesConstants(t *testing.T) {
	cmds := Commands()
	if len(cmds) != 13 {
		t.Fatalf("expected 13 registered commands, got %d", len(cmds))
	}
	if cmds[0] != CmdCheckDBConnection || cmds[len(cmds)-1] != CmdGetDBInfo {
		t.Errorf("unexpected command ordering: %v", cmds)
	}
	seen := make(map[string]bool, len(cmds))
	for _, c := range cmds {
		if seen[c] {
			t.Errorf("duplicate command %q", c)
		}
		seen[c] = true
	}
}
