package main

import (
	"testing"

	"github.com/emittiv/mockshell/pkg/config"
)

func TestApplyOverrides(t *testing.T) {
	base := config.DefaultConfig()

	tests := []struct {
		name         string
		addr         string
		fixtures     string
		state        string
		wantAddr     string
		wantFixtures string
		wantState    string
	}{
		{"no flags keep config", "", "", "", base.Server.Addr, base.Fixtures, base.Server.StatePath},
		{"addr only", "127.0.0.1:9000", "", "", "127.0.0.1:9000", base.Fixtures, base.Server.StatePath},
		{"fixtures only", "", "fx.yaml", "", base.Server.Addr, "fx.yaml", base.Server.StatePath},
		{"state only", "", "", "state.db", base.Server.Addr, base.Fixtures, "state.db"},
		{"all flags", ":0", "a.yaml", "b.db", ":0", "a.yaml", "b.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := applyOverrides(base, tt.addr, tt.fixtures, tt.state)
			if got.Server.Addr != tt.wantAddr {
				t.Errorf("addr = %q, want %q", got.Server.Addr, tt.wantAddr)
			}
			if got.Fixtures != tt.wantFixtures {
				t.Errorf("fixtures = %q, want %q", got.Fixtures, tt.wantFixtures)
			}
			if got.Server.StatePath != tt.wantState {
				t.Errorf("state = %q, want %q", got.Server.StatePath, tt.wantState)
			}
		})
	}
}

func TestApplyOverridesDoesNotMutateInput(t *testing.T) {
	base := config.DefaultConfig()
	before := base.Server.Addr

	_ = applyOverrides(base, ":1", "x.yaml", "x.db")

	if base.Server.Addr != before {
		t.Error("expected the input config to be left alone")
	}
}
