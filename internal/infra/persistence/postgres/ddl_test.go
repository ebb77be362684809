package postgres

import (
	"strings"
	"testing"

	"github.com/scrose/mle-api/pkg/schema"
)

func TestBootstrapDDLCoversRegistry(t *testing.T) {
	registry := schema.MustDefault()
	stmts := BootstrapDDL(registry)

	joined := strings.Join(stmts, "\n")
	if !strings.Contains(joined, "CREATE TABLE IF NOT EXISTS nodes") {
		t.Fatalf("nodes table missing from DDL")
	}
	if !strings.Contains(joined, "CREATE TABLE IF NOT EXISTS comparison_indices") {
		t.Fatalf("comparison table missing from DDL")
	}
	for _, typ := range registry.Types() {
		if !strings.Contains(joined, "CREATE TABLE IF NOT EXISTS "+string(typ)) {
			t.Fatalf("attribute table for %s missing from DDL", typ)
		}
	}
	for _, stmt := range stmts {
		if !strings.HasPrefix(stmt, "CREATE TABLE IF NOT EXISTS") && !strings.HasPrefix(stmt, "CREATE INDEX IF NOT EXISTS") {
			t.Fatalf("non-idempotent bootstrap statement: %s", stmt)
		}
	}
}
