// Package queries is the query-building collaborator for the relational
// backends. Every logical operation maps to a Statement holding SQL text and
// positional arguments; no other package constructs SQL.
//
// Entity attribute rows are stored per-type as a JSONB document keyed by the
// node id, so the statements here stay identical across entity types. The
// type values interpolated into table names come from the closed registry
// set, never from request input.
package queries

import (
	"encoding/json"
	"fmt"

	"github.com/scrose/mle-api/pkg/nodes"
	"github.com/scrose/mle-api/pkg/schema"
)

// Statement is one executable query with its bound parameters.
type Statement struct {
	SQL  string
	Args []any
}

// SelectNode fetches a node row by id.
func SelectNode(id int64) Statement {
	return Statement{
		SQL: `SELECT id, type, owner_id, owner_type, fs_path, has_dependents, status, created_at, updated_at
FROM nodes WHERE id = $1`,
		Args: []any{id},
	}
}

// SelectNodesByOwner lists direct dependents of an owner node.
func SelectNodesByOwner(ownerID int64) Statement {
	return Statement{
		SQL: `SELECT id, type, owner_id, owner_type, fs_path, has_dependents, status, created_at, updated_at
FROM nodes WHERE owner_id = $1 ORDER BY id`,
		Args: []any{ownerID},
	}
}

// InsertNode inserts a node row and returns the generated id.
func InsertNode(n nodes.Node) Statement {
	return Statement{
		SQL: `INSERT INTO nodes (type, owner_id, owner_type, fs_path, has_dependents, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		Args: []any{string(n.Type), n.OwnerID, nullableType(n.OwnerType), n.FSPath,
			n.HasDependents, string(n.Status), n.CreatedAt, n.UpdatedAt},
	}
}

// UpdateNode rewrites the mutable columns of a node row.
func UpdateNode(n nodes.Node) Statement {
	return Statement{
		SQL: `UPDATE nodes SET owner_id = $1, owner_type = $2, fs_path = $3, has_dependents = $4, status = $5, updated_at = $6
WHERE id = $7`,
		Args: []any{n.OwnerID, nullableType(n.OwnerType), n.FSPath,
			n.HasDependents, string(n.Status), n.UpdatedAt, n.ID},
	}
}

// DeleteNode removes a node row.
func DeleteNode(id int64) Statement {
	return Statement{SQL: `DELETE FROM nodes WHERE id = $1`, Args: []any{id}}
}

// SelectEntity fetches the attribute document for a node of type t.
func SelectEntity(t schema.Type, id int64) Statement {
	return Statement{
		SQL:  fmt.Sprintf(`SELECT attrs FROM %s WHERE nodes_id = $1`, t),
		Args: []any{id},
	}
}

// InsertEntity stores the attribute document for a new node of type t.
func InsertEntity(t schema.Type, id int64, data map[string]any) (Statement, error) {
	doc, err := json.Marshal(data)
	if err != nil {
		return Statement{}, fmt.Errorf("encode %s attributes: %w", t, err)
	}
	return Statement{
		SQL:  fmt.Sprintf(`INSERT INTO %s (nodes_id, attrs) VALUES ($1, $2)`, t),
		Args: []any{id, doc},
	}, nil
}

// UpdateEntity replaces the attribute document for an existing node.
func UpdateEntity(t schema.Type, id int64, data map[string]any) (Statement, error) {
	doc, err := json.Marshal(data)
	if err != nil {
		return Statement{}, fmt.Errorf("encode %s attributes: %w", t, err)
	}
	return Statement{
		SQL:  fmt.Sprintf(`UPDATE %s SET attrs = $2 WHERE nodes_id = $1`, t),
		Args: []any{id, doc},
	}, nil
}

// DeleteEntity removes the attribute row for a node of type t.
func DeleteEntity(t schema.Type, id int64) Statement {
	return Statement{
		SQL:  fmt.Sprintf(`DELETE FROM %s WHERE nodes_id = $1`, t),
		Args: []any{id},
	}
}

// SelectComparisons lists comparisons anchored at captureID on either side.
func SelectComparisons(captureID int64) Statement {
	return Statement{
		SQL: `SELECT id, historic_captures, modern_captures FROM comparison_indices
WHERE historic_captures = $1 OR modern_captures = $1 ORDER BY id`,
		Args: []any{captureID},
	}
}

// InsertComparison pairs a historic capture with a modern capture.
func InsertComparison(c nodes.Comparison) Statement {
	return Statement{
		SQL: `INSERT INTO comparison_indices (historic_captures, modern_captures)
VALUES ($1, $2) RETURNING id`,
		Args: []any{c.HistoricCaptures, c.ModernCaptures},
	}
}

// DeleteComparisons clears every comparison anchored at captureID.
func DeleteComparisons(captureID int64) Statement {
	return Statement{
		SQL:  `DELETE FROM comparison_indices WHERE historic_captures = $1 OR modern_captures = $1`,
		Args: []any{captureID},
	}
}

func nullableType(t schema.Type) any {
	if t == "" {
		return nil
	}
	return string(t)
}
