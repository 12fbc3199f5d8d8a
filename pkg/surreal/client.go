// Package surreal defines the database client capability and its test stub.
//
// The interface is shaped on the driver surface the app uses: connect,
// root sign-in, namespace selection, table-level CRUD and raw queries.
// Tests get the Stub, which resolves every operation deterministically
// and records it; nothing ever reaches a real database.
package surreal

import "context"

// Defaults for the development database session. Overridable through
// configuration; the environment variables mirror the host shell's.
const (
	DefaultURL       = "ws://localhost:8000"
	DefaultNamespace = "emittiv"
	DefaultDatabase  = "projects"
)

// Stub placeholders every test can rely on.
const (
	StubToken    = "mock-jwt"
	StubRecordID = "mock-id"
)

// Credentials identify a sign-in scope. Namespace and Database narrow the
// scope; empty values mean a root sign-in.
type Credentials struct {
	Namespace string
	Database  string
	Username  string
	Password  string
}

// Record is one row of a table.
type Record struct {
	ID   string         `json:"id"`
	Data map[string]any `json:"data,omitempty"`
}

// QueryResult is one batch of a multi-statement query response.
type QueryResult struct {
	Status string   `json:"status"`
	Time   string   `json:"time"`
	Result []Record `json:"result"`
}

// Client is the database capability a component sees.
type Client interface {
	Connect(ctx context.Context, url string) error
	Signin(ctx context.Context, creds Credentials) (token string, err error)
	Use(ctx context.Context, namespace, database string) error
	Select(ctx context.Context, table string) ([]Record, error)
	Create(ctx context.Context, table string, data map[string]any) (Record, error)
	Update(ctx context.Context, thing string, data map[string]any) (Record, error)
	Delete(ctx context.Context, thing string) error
	Query(ctx context.Context, sql string, vars map[string]any) ([]QueryResult, error)
	Close() error
}
