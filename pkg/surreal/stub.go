package surreal

import (
	"context"
	"sync"

	"github.com/emittiv/mockshell/pkg/calllog"
)

// Stub implements Client without a database. Every operation succeeds,
// every operation is recorded, and results are deterministic: sign-in
// yields StubToken, selects yield whatever was seeded (nothing by
// default), creates and updates yield a record with StubRecordID, and
// queries yield one empty OK batch unless seeded.
type Stub struct {
	mu        sync.Mutex
	log       *calllog.Log
	url       string
	namespace string
	database  string
	tables    map[string][]Record
	queries   map[string][]QueryResult
}

var _ Client = (*Stub)(nil)

// NewStub returns a stub with nothing seeded.
func NewStub() *Stub {
	return &Stub{
		log:     calllog.New(),
		tables:  make(map[string][]Record),
		queries: make(map[string][]QueryResult),
	}
}

// Connect records the target URL and succeeds.
func (s *Stub) Connect(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.log.Record("connect", url)
	s.mu.Lock()
	s.url = url
	s.mu.Unlock()
	return nil
}

// Signin records the scope and username and yields the canned token.
// The password is deliberately not recorded.
func (s *Stub) Signin(ctx context.Context, creds Credentials) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.log.Record("signin", creds.Namespace, creds.Database, creds.Username)
	return StubToken, nil
}

// Use records and remembers the selected namespace and database.
func (s *Stub) Use(ctx context.Context, namespace, database string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.log.Record("use", namespace, database)
	s.mu.Lock()
	s.namespace = namespace
	s.database = database
	s.mu.Unlock()
	return nil
}

// Select yields the seeded records for table, or none.
func (s *Stub) Select(ctx context.Context, table string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.log.Record("select", table)
	s.mu.Lock()
	defer s.mu.Unlock()
	seeded := s.tables[table]
	if len(seeded) == 0 {
		return nil, nil
	}
	return append([]Record(nil), seeded...), nil
}

// Create yields a record carrying the canned identifier and the data it
// was given.
func (s *Stub) Create(ctx context.Context, table string, data map[string]any) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	s.log.Record("create", table, data)
	return Record{ID: StubRecordID, Data: cloneData(data)}, nil
}

// Update yields a record carrying the canned identifier and the merged
// data it was given.
func (s *Stub) Update(ctx context.Context, thing string, data map[string]any) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	s.log.Record("update", thing, data)
	return Record{ID: StubRecordID, Data: cloneData(data)}, nil
}

// Delete records the target and succeeds.
func (s *Stub) Delete(ctx context.Context, thing string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.log.Record("delete", thing)
	return nil
}

// Query yields the seeded batches for the exact statement text, or one
// empty OK batch.
func (s *Stub) Query(ctx context.Context, sql string, vars map[string]any) ([]QueryResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.log.Record("query", sql, vars)
	s.mu.Lock()
	defer s.mu.Unlock()
	if seeded, ok := s.queries[sql]; ok {
		return append([]QueryResult(nil), seeded...), nil
	}
	return []QueryResult{{Status: "OK", Time: "0ms"}}, nil
}

// Close records and succeeds. The stub stays usable after Close.
func (s *Stub) Close() error {
	s.log.Record("close")
	return nil
}

// Seed replaces the select results for table.
func (s *Stub) Seed(table string, records []Record) {
	s.mu.Lock()
	s.tables[table] = append([]Record(nil), records...)
	s.mu.Unlock()
}

// SeedQuery replaces the batches returned for the exact statement text.
func (s *Stub) SeedQuery(sql string, batches []QueryResult) {
	s.mu.Lock()
	s.queries[sql] = append([]QueryResult(nil), batches...)
	s.mu.Unlock()
}

// URL returns the last connected URL.
func (s *Stub) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url
}

// Session returns the namespace and database selected by Use.
func (s *Stub) Session() (namespace, database string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.namespace, s.database
}

// Log exposes the recorded operation history.
func (s *Stub) Log() *calllog.Log {
	return s.log
}

// Reset clears the history, the seeds and the remembered session.
func (s *Stub) Reset() {
	s.log.Reset()
	s.mu.Lock()
	s.url = ""
	s.namespace = ""
	s.database = ""
	s.tables = make(map[string][]Record)
	s.queries = make(map[string][]QueryResult)
	s.mu.Unlock()
}

func cloneData(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
