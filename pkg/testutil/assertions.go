package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/emittiv/mockshell/pkg/calllog"
	"github.com/emittiv/mockshell/pkg/diag"
	"github.com/emittiv/mockshell/pkg/dom"
)

// AssertCalled verifies that at least one call to op was recorded.
func AssertCalled(t *testing.T, log *calllog.Log, op string) {
	t.Helper()
	if log.Count(op) == 0 {
		t.Errorf("expected a call to %q, got none (ops seen: %v)", op, opsSeen(log))
	}
}

// AssertNotCalled verifies that no call to op was recorded.
func AssertNotCalled(t *testing.T, log *calllog.Log, op string) {
	t.Helper()
	if n := log.Count(op); n != 0 {
		t.Errorf("expected no calls to %q, got %d", op, n)
	}
}

// AssertCallCount verifies the expected number of calls to op.
func AssertCallCount(t *testing.T, log *calllog.Log, op string, expected int) {
	t.Helper()
	if n := log.Count(op); n != expected {
		t.Errorf("expected %d calls to %q, got %d", expected, op, n)
	}
}

// AssertTotalCalls verifies the expected number of recorded calls across
// all operations.
func AssertTotalCalls(t *testing.T, log *calllog.Log, expected int) {
	t.Helper()
	if n := log.Total(); n != expected {
		t.Errorf("expected %d total calls, got %d (ops seen: %v)", expected, n, opsSeen(log))
	}
}

// AssertCallOrder verifies that the given operations were recorded in the
// given relative order. Other calls may be interleaved between them.
func AssertCallOrder(t *testing.T, log *calllog.Log, ops ...string) {
	t.Helper()
	calls := log.Calls()
	next := 0
	for _, c := range calls {
		if next < len(ops) && c.Op == ops[next] {
			next++
		}
	}
	if next != len(ops) {
		t.Errorf("expected call order %v, missing %q (ops seen: %v)", ops, ops[next], opsSeen(log))
	}
}

func opsSeen(log *calllog.Log) []string {
	calls := log.Calls()
	ops := make([]string, len(calls))
	for i, c := range calls {
		ops[i] = c.Op
	}
	return ops
}

// AssertBodyEmpty verifies the document body holds no nodes.
func AssertBodyEmpty(t *testing.T, doc *dom.Document) {
	t.Helper()
	if !doc.BodyEmpty() {
		html, _ := doc.BodyHTML()
		t.Errorf("expected an empty body, got %q", html)
	}
}

// AssertBodyContains verifies the rendered body markup contains substr.
func AssertBodyContains(t *testing.T, doc *dom.Document, substr string) {
	t.Helper()
	html, err := doc.BodyHTML()
	if err != nil {
		t.Fatalf("failed to render body: %v", err)
	}
	if !strings.Contains(html, substr) {
		t.Errorf("expected body to contain %q, got %q", substr, html)
	}
}

// AssertSuppressed verifies that some suppressed diagnostic contains
// substr in its rendered text.
func AssertSuppressed(t *testing.T, sink *diag.Sink, substr string) {
	t.Helper()
	for _, e := range sink.Suppressed() {
		if strings.Contains(e.Message, substr) || strings.Contains(fmt.Sprint(e.Args...), substr) {
			return
		}
	}
	t.Errorf("expected a suppressed diagnostic containing %q, got %d suppressed entries", substr, len(sink.Suppressed()))
}

// AssertNothingSuppressed verifies that no diagnostics were suppressed.
func AssertNothingSuppressed(t *testing.T, sink *diag.Sink) {
	t.Helper()
	if entries := sink.Suppressed(); len(entries) != 0 {
		t.Errorf("expected no suppressed diagnostics, got %d (first: %q)", len(entries), entries[0].Message)
	}
}

// AssertJSONEqual compares two values after JSON round-tripping.
// Useful for comparing structs that may have different Go representations
// but equivalent JSON forms.
func AssertJSONEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()

	expectedJSON, err := json.Marshal(expected)
	if err != nil {
		t.Fatalf("failed to marshal expected: %v", err)
	}

	actualJSON, err := json.Marshal(actual)
	if err != nil {
		t.Fatalf("failed to marshal actual: %v", err)
	}

	if string(expectedJSON) != string(actualJSON) {
		t.Errorf("JSON mismatch:\nexpected: %s\nactual:   %s", expectedJSON, actualJSON)
	}
}

// Golden file helpers

// GoldenFile handles golden file comparisons.
type GoldenFile struct {
	t      *testing.T
	dir    string
	name   string
	update bool
}

// NewGoldenFile creates a golden file helper.
// If GENERATE_GOLDEN env var is set, golden files will be updated.
func NewGoldenFile(t *testing.T, dir, name string) *GoldenFile {
	t.Helper()
	return &GoldenFile{
		t:      t,
		dir:    dir,
		name:   name,
		update: os.Getenv("GENERATE_GOLDEN") != "",
	}
}

// Path returns the full path to the golden file.
func (g *GoldenFile) Path() string {
	return filepath.Join(g.dir, g.name)
}

// Assert compares actual content against the golden file.
// If GENERATE_GOLDEN is set, updates the golden file instead.
func (g *GoldenFile) Assert(actual string) {
	g.t.Helper()

	path := g.Path()

	if g.update {
		// Update golden file
		if err := os.MkdirAll(g.dir, 0755); err != nil {
			g.t.Fatalf("failed to create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0644); err != nil {
			g.t.Fatalf("failed to write golden file: %v", err)
		}
		g.t.Logf("updated golden file: %s", path)
		return
	}

	// Compare against golden file
	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			g.t.Fatalf("golden file does not exist: %s\nRun with GENERATE_GOLDEN=1 to create it", path)
		}
		g.t.Fatalf("failed to read golden file: %v", err)
	}

	if string(expected) != actual {
		// Find first difference for helpful error message
		expectedLines := strings.Split(string(expected), "\n")
		actualLines := strings.Split(actual, "\n")

		for i := 0; i < len(expectedLines) || i < len(actualLines); i++ {
			var expLine, actLine string
			if i < len(expectedLines) {
				expLine = expectedLines[i]
			}
			if i < len(actualLines) {
				actLine = actualLines[i]
			}
			if expLine != actLine {
				g.t.Errorf("golden file mismatch at line %d:\nexpected: %s\nactual:   %s",
					i+1, expLine, actLine)
				return
			}
		}
		g.t.Errorf("golden file mismatch (length differs)")
	}
}

// AssertJSON compares actual value as JSON against the golden file.
func (g *GoldenFile) AssertJSON(actual interface{}) {
	g.t.Helper()

	data, err := json.MarshalIndent(actual, "", "  ")
	if err != nil {
		g.t.Fatalf("failed to marshal actual value: %v", err)
	}

	g.Assert(string(data))
}

// TempDir helpers

// WriteFixturesFile writes a fixtures.yaml with the given content into
// dir and returns its path.
func WriteFixturesFile(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, "fixtures.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixtures file: %v", err)
	}
	return path
}

// WriteConfigFile writes a config.yaml with the given content into dir
// and returns its path.
func WriteConfigFile(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}
