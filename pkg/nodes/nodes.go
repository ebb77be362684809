// Package nodes defines the tree-position records, comparison associations,
// typed error taxonomy, and persistence contracts shared by the entity
// engine layers.
package nodes

import (
	"time"

	"github.com/scrose/mle-api/pkg/schema"
)

// Status tracks a node's workflow state. The set of meaningful statuses is
// entity-type dependent; captures use the full range.
type Status string

// Capture workflow statuses.
const (
	StatusUnsorted   Status = "unsorted"
	StatusSorted     Status = "sorted"
	StatusGrouped    Status = "grouped"
	StatusLocated    Status = "located"
	StatusMissing    Status = "missing"
	StatusMasterable Status = "masterable"
	StatusMastered   Status = "mastered"
)

// Movable reports whether a node in this status may be reparented. Only
// statuses that denote a capture not yet locked into a finalized state
// qualify.
func (s Status) Movable() bool {
	switch s {
	case StatusUnsorted, StatusSorted, StatusMissing:
		return true
	}
	return false
}

// Node is the persisted tree-position record shared by every entity type.
// Type-specific attributes live in the entity row keyed by the node id.
type Node struct {
	ID            int64       `json:"id"`
	Type          schema.Type `json:"type"`
	OwnerID       *int64      `json:"owner_id"`
	OwnerType     schema.Type `json:"owner_type,omitempty"`
	FSPath        string      `json:"fs_path"`
	HasDependents bool        `json:"has_dependents"`
	Status        Status      `json:"status,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// NodeView pairs a node with the entity-type schema used to interpret its
// attribute row.
type NodeView struct {
	Node   Node          `json:"node"`
	Schema schema.Schema `json:"schema"`
}

// Path is the ordered ancestor chain from the tree root down to, but not
// including, a node. It is derived from owner links and never stored.
type Path []NodeView

// Comparison associates one historic capture with one modern capture for
// side-by-side review. A capture anchoring at least one comparison cannot
// be moved or deleted until the set is cleared.
type Comparison struct {
	ID               int64 `json:"id"`
	HistoricCaptures int64 `json:"historic_captures"`
	ModernCaptures   int64 `json:"modern_captures"`
}

// Anchors reports whether the comparison is anchored at the given capture
// node id on either side.
func (c Comparison) Anchors(id int64) bool {
	return c.HistoricCaptures == id || c.ModernCaptures == id
}

// Counterpart returns the id paired opposite the given anchor id.
func (c Comparison) Counterpart(anchor int64) int64 {
	if c.HistoricCaptures == anchor {
		return c.ModernCaptures
	}
	return c.HistoricCaptures
}
