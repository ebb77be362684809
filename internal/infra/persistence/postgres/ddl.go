package postgres

import (
	"fmt"

	"github.com/scrose/mle-api/pkg/schema"
)

// BootstrapDDL returns the idempotent statements that create the nodes table,
// the comparison index, and one attribute table per registered entity type.
// Table names come from the closed registry set, never from request input.
func BootstrapDDL(registry *schema.Registry) []string {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS nodes (
	id BIGSERIAL PRIMARY KEY,
	type TEXT NOT NULL,
	owner_id BIGINT REFERENCES nodes(id),
	owner_type TEXT,
	fs_path TEXT NOT NULL DEFAULT '',
	has_dependents BOOLEAN NOT NULL DEFAULT FALSE,
	status TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS nodes_owner_id_idx ON nodes(owner_id)`,
		`CREATE TABLE IF NOT EXISTS comparison_indices (
	id BIGSERIAL PRIMARY KEY,
	historic_captures BIGINT NOT NULL REFERENCES nodes(id),
	modern_captures BIGINT NOT NULL REFERENCES nodes(id)
)`,
		`CREATE INDEX IF NOT EXISTS comparison_historic_idx ON comparison_indices(historic_captures)`,
		`CREATE INDEX IF NOT EXISTS comparison_modern_idx ON comparison_indices(modern_captures)`,
	}
	for _, t := range registry.Types() {
		stmts = append(stmts, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	nodes_id BIGINT PRIMARY KEY REFERENCES nodes(id) ON DELETE CASCADE,
	attrs JSONB NOT NULL DEFAULT '{}'
)`, t))
	}
	return stmts
}
