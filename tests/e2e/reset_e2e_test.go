package e2e

import (
	"net/http"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/emittiv/mockshell/internal/shellserve"
	"github.com/emittiv/mockshell/pkg/bridge"
)

// TestResetOverHTTP drives the dev-server reset control the way a
// frontend test runner would: record traffic, reset, verify the call
// log is empty while the fixture programming is back in place.
func TestResetOverHTTP(t *testing.T) {
	bindTest(t)
	s := startServer(t)
	ws := dialSession(t, s)

	invoke(t, ws, bridge.CmdGetProjects, nil)
	invoke(t, ws, bridge.CmdGetContacts, nil)

	resp, err := http.Post("http://"+s.Addr()+"/reset", "application/json", nil)
	if err != nil {
		t.Fatalf("post /reset: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reset status = %d, want 200", resp.StatusCode)
	}

	// the call history is gone
	callsResp, err := http.Get("http://" + s.Addr() + "/calls")
	if err != nil {
		t.Fatalf("get /calls: %v", err)
	}
	defer callsResp.Body.Close()
	var snap shellserve.CallsSnapshot
	if err := json.NewDecoder(callsResp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(snap.Bridge) != 0 {
		t.Errorf("bridge calls after reset = %v, want none", snap.Bridge)
	}

	// the fixture reply survives because reset reapplies the set
	probe := invoke(t, ws, bridge.CmdHealthCheck, nil)
	if string(probe.Result) != `"ok"` {
		t.Errorf("health_check after reset = %s, want the fixture reply", probe.Result)
	}
}

func TestCallsSnapshotShape(t *testing.T) {
	bindTest(t)
	s := startServer(t)
	ws := dialSession(t, s)

	invoke(t, ws, bridge.CmdGetCompanies, nil)

	resp, err := http.Get("http://" + s.Addr() + "/calls")
	if err != nil {
		t.Fatalf("get /calls: %v", err)
	}
	defer resp.Body.Close()

	var snap shellserve.CallsSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	calls := snap.Bridge[bridge.CmdGetCompanies]
	if len(calls) != 1 {
		t.Fatalf("get_companies calls = %d, want 1", len(calls))
	}
	if calls[0].Op != bridge.CmdGetCompanies {
		t.Errorf("op = %q, want %q", calls[0].Op, bridge.CmdGetCompanies)
	}
	if calls[0].At.IsZero() {
		t.Error("call timestamp missing")
	}
}
