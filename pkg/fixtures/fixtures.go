// Package fixtures provides the canned values stubs resolve with and
// yaml-loadable fixture sets for the dev server.
//
// A fixture set seeds database tables, query batches and bridge replies
// in one file, so a frontend session against the dev server sees stable
// data without a database running anywhere.
package fixtures

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/emittiv/mockshell/pkg/surreal"
)

// Values are the placeholders every stub hands out.
type Values struct {
	Token    string `yaml:"token,omitempty"`
	RecordID string `yaml:"record_id,omitempty"`
}

// Defaults returns the canned values tests can rely on.
func Defaults() Values {
	return Values{
		Token:    surreal.StubToken,
		RecordID: surreal.StubRecordID,
	}
}

// Seeder accepts table rows and query batches. *surreal.Stub implements it.
type Seeder interface {
	Seed(table string, records []surreal.Record)
	SeedQuery(sql string, batches []surreal.QueryResult)
}

// Responder accepts programmed command replies. *bridge.Stub implements it.
type Responder interface {
	Respond(command string, value any) error
}

// Set is one loadable fixture file. The inline values echo the canned
// placeholders for readers of the file; stubs always resolve with the
// constants regardless of what a file declares.
type Set struct {
	Values  Values                           `yaml:",inline"`
	Tables  map[string][]surreal.Record      `yaml:"tables,omitempty"`
	Queries map[string][]surreal.QueryResult `yaml:"queries,omitempty"`
	Replies map[string]any                   `yaml:"replies,omitempty"`
}

// Load reads and parses a fixture file. Unlike config, a missing fixture
// file is an error: the caller asked for it by path.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixtures: %w", err)
	}
	return Parse(data)
}

// Parse decodes a fixture set from yaml.
func Parse(data []byte) (*Set, error) {
	var s Set
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing fixtures: %w", err)
	}
	return &s, nil
}

// Apply installs the set onto the given stubs. Nil targets are skipped so
// a set can carry only tables or only replies.
func (s *Set) Apply(db Seeder, br Responder) error {
	if db != nil {
		for table, records := range s.Tables {
			db.Seed(table, records)
		}
		for sql, batches := range s.Queries {
			db.SeedQuery(sql, batches)
		}
	}
	if br != nil {
		for command, value := range s.Replies {
			if err := br.Respond(command, value); err != nil {
				return fmt.Errorf("programming reply for %s: %w", command, err)
			}
		}
	}
	return nil
}

// TableNames lists the seeded tables in unspecified order.
func (s *Set) TableNames() []string {
	names := make([]string, 0, len(s.Tables))
	for name := range s.Tables {
		names = append(names, name)
	}
	return names
}
