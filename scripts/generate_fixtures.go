// +build ignore

// generate_fixtures.go creates standard fixture datasets for the dev server.
// Usage: go run scripts/generate_fixtures.go
//
// Creates:
//   tests/testdata/fixtures/small.yaml   (3 records per table)
//   tests/testdata/fixtures/medium.yaml  (25 records per table)
//   tests/testdata/fixtures/large.yaml   (200 records per table)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/emittiv/mockshell/pkg/bridge"
	"github.com/emittiv/mockshell/pkg/fixtures"
	"github.com/emittiv/mockshell/pkg/surreal"
	"github.com/emittiv/mockshell/pkg/testutil"
)

type datasetSpec struct {
	name string
	size int
	desc string
}

var datasets = []datasetSpec{
	{"small", 3, "3 records per table - smoke runs"},
	{"medium", 25, "25 records per table - demo sessions"},
	{"large", 200, "200 records per table - list rendering under load"},
}

func main() {
	outputDir := "tests/testdata/fixtures"
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for _, ds := range datasets {
		fmt.Printf("Generating %s dataset (%s)...\n", ds.name, ds.desc)

		cfg := testutil.DefaultGeneratorConfig()
		cfg.Seed = int64(ds.size) // Reproducible per-size
		gen := testutil.NewGenerator(cfg)

		set := gen.Set(ds.size)
		addCannedResponses(set)

		data, err := yaml.Marshal(set)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to marshal %s: %v\n", ds.name, err)
			os.Exit(1)
		}

		outputPath := filepath.Join(outputDir, ds.name+".yaml")
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", outputPath, err)
			os.Exit(1)
		}

		fmt.Printf("  Written %s (%d bytes, %d tables)\n", outputPath, len(data), len(set.Tables))
	}

	fmt.Println("\nDone! Fixture datasets created in", outputDir)
}

// addCannedResponses fills the queries and replies sections so each file
// exercises the whole schema, not just table seeds.
func addCannedResponses(set *fixtures.Set) {
	open := set.Tables[testutil.TableProjects]
	if len(open) > 1 {
		open = open[:1]
	}
	set.Queries = map[string][]surreal.QueryResult{
		"SELECT * FROM projects WHERE status = $status": {
			{Status: "OK", Time: "0ms", Result: open},
		},
	}
	set.Replies = map[string]any{
		bridge.CmdHealthCheck: "ok",
	}
}
