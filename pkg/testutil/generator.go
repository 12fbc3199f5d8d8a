// Package testutil provides assertions and fixture generators for
// environment tests. All generators produce deterministic output for
// reproducible tests.
package testutil

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/emittiv/mockshell/pkg/fixtures"
	"github.com/emittiv/mockshell/pkg/surreal"
)

// The four tables the proposal app reads and writes.
const (
	TableProjects  = "projects"
	TableCompanies = "companies"
	TableContacts  = "contacts"
	TableProposals = "proposals"
)

// GeneratorConfig controls record generation.
type GeneratorConfig struct {
	Seed     int64     // Random seed for determinism (0 = use current time)
	IDPrefix string    // Prefix for record keys (default: "test")
	BaseTime time.Time // Base time for timestamps (default: fixed time)
	Tables   []string  // Tables to populate (nil = all four app tables)
}

// DefaultGeneratorConfig returns a config suitable for most tests.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:     42, // Deterministic
		IDPrefix: "test",
		BaseTime: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		Tables:   []string{TableProjects, TableCompanies, TableContacts, TableProposals},
	}
}

// Generator creates deterministic table records and fixture sets.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// NewGenerator creates a Generator with the given config.
func NewGenerator(cfg GeneratorConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = "test"
	}
	if cfg.BaseTime.IsZero() {
		cfg.BaseTime = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	}
	if len(cfg.Tables) == 0 {
		cfg.Tables = []string{TableProjects, TableCompanies, TableContacts, TableProposals}
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// NewDefaultGenerator creates a Generator with default config.
func NewDefaultGenerator() *Generator {
	return NewGenerator(DefaultGeneratorConfig())
}

var (
	projectNames   = []string{"Harbor Bridge", "Depot Renovation", "Canal House", "North Quay", "Atrium Extension", "Mill Conversion"}
	companyNames   = []string{"Vermeer Bouw", "Ketelaar BV", "Nieuwhof Groep", "Stadswerk", "Linde & Zonen"}
	contactNames   = []string{"J. Prins", "M. de Wit", "A. Smit", "R. van Dam", "E. Mulder", "K. Bos"}
	projectStates  = []string{"planned", "active", "on_hold", "done"}
	proposalStates = []string{"draft", "sent", "accepted", "declined"}
)

// RecordID returns the deterministic key for the index-th generated
// record of a table. Format: "{table}:{prefix}-{index}".
func (g *Generator) RecordID(table string, index int) string {
	return fmt.Sprintf("%s:%s-%d", table, g.cfg.IDPrefix, index)
}

// Records generates n records for the given table. Fields are shaped on
// the table's app schema; unknown tables get a bare name field.
func (g *Generator) Records(table string, n int) []surreal.Record {
	recs := make([]surreal.Record, n)
	for i := 0; i < n; i++ {
		recs[i] = surreal.Record{
			ID:   g.RecordID(table, i),
			Data: g.recordData(table, i),
		}
	}
	return recs
}

func (g *Generator) recordData(table string, i int) map[string]any {
	created := g.cfg.BaseTime.Add(time.Duration(i) * 24 * time.Hour).Format(time.RFC3339)
	switch table {
	case TableProjects:
		return map[string]any{
			"name":       pick(g.rng, projectNames),
			"status":     pick(g.rng, projectStates),
			"created_at": created,
		}
	case TableCompanies:
		return map[string]any{
			"name":       pick(g.rng, companyNames),
			"kvk":        fmt.Sprintf("%08d", g.rng.Intn(100000000)),
			"created_at": created,
		}
	case TableContacts:
		return map[string]any{
			"name":       pick(g.rng, contactNames),
			"email":      fmt.Sprintf("%s-%d@example.test", g.cfg.IDPrefix, i),
			"company":    g.RecordID(TableCompanies, i),
			"created_at": created,
		}
	case TableProposals:
		return map[string]any{
			"project":    g.RecordID(TableProjects, i),
			"amount":     float64(g.rng.Intn(90000)+10000) / 100,
			"currency":   "EUR",
			"status":     pick(g.rng, proposalStates),
			"created_at": created,
		}
	default:
		return map[string]any{
			"name":       fmt.Sprintf("%s record %d", table, i),
			"created_at": created,
		}
	}
}

// Set generates a full fixture set with perTable records in every
// configured table.
func (g *Generator) Set(perTable int) *fixtures.Set {
	set := &fixtures.Set{
		Values: fixtures.Defaults(),
		Tables: make(map[string][]surreal.Record, len(g.cfg.Tables)),
	}
	for _, table := range g.cfg.Tables {
		set.Tables[table] = g.Records(table, perTable)
	}
	return set
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.Intn(len(items))]
}
