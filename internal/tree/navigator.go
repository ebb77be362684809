// Package tree resolves node positions in the archive tree: typed lookups,
// owner-chain paths, dependent listings, and the owner/dependent
// relatability check consulted before any reparenting.
package tree

import (
	"context"

	"github.com/scrose/mle-api/pkg/nodes"
	"github.com/scrose/mle-api/pkg/schema"
)

// Navigator answers tree-position queries against a store view. It holds no
// state beyond the registry and is safe for concurrent use.
type Navigator struct {
	registry *schema.Registry
}

// NewNavigator constructs a navigator over the given registry.
func NewNavigator(registry *schema.Registry) *Navigator {
	return &Navigator{registry: registry}
}

// Get resolves a node plus its entity-type schema. It returns ErrNotFound
// when the row is absent or when the stored type differs from expected: ids
// are not type-namespaced, so the double-check prevents serving a record of
// the wrong type.
func (nav *Navigator) Get(ctx context.Context, view nodes.View, id int64, expected schema.Type) (nodes.NodeView, error) {
	n, ok, err := view.SelectNode(ctx, id)
	if err != nil {
		return nodes.NodeView{}, nodes.ErrDatabase{Op: "select node", Err: err}
	}
	if !ok || n.Type != expected {
		return nodes.NodeView{}, nodes.ErrNotFound{Type: expected, ID: id}
	}
	s, err := nav.registry.Describe(n.Type)
	if err != nil {
		return nodes.NodeView{}, err
	}
	return nodes.NodeView{Node: n, Schema: s}, nil
}

// GetPath walks owner links upward and returns the ancestor chain ordered
// root-first, excluding the node itself. The walk is bounded by the
// registry's maximum depth: exceeding it means the owner links form a cycle
// or an over-deep chain, which is reported as a data-integrity error rather
// than looping forever.
func (nav *Navigator) GetPath(ctx context.Context, view nodes.View, node nodes.Node) (nodes.Path, error) {
	var ancestors nodes.Path
	current := node
	for depth := 0; current.OwnerID != nil; depth++ {
		if depth >= nav.registry.MaxDepth() {
			return nil, nodes.ErrSchemaMismatch{
				Type:   node.Type,
				Reason: "owner chain exceeds maximum tree depth",
			}
		}
		owner, ok, err := view.SelectNode(ctx, *current.OwnerID)
		if err != nil {
			return nil, nodes.ErrDatabase{Op: "select owner", Err: err}
		}
		if !ok {
			return nil, nodes.ErrNotFound{Type: current.OwnerType, ID: *current.OwnerID}
		}
		s, err := nav.registry.Describe(owner.Type)
		if err != nil {
			return nil, err
		}
		// Prepend so the result reads root-first.
		ancestors = append(nodes.Path{{Node: owner, Schema: s}}, ancestors...)
		current = owner
	}
	return ancestors, nil
}

// SelectByOwner lists the direct dependents of ownerID with their schemas
// attached. Dependents whose type is unregistered are reported as a schema
// mismatch rather than skipped.
func (nav *Navigator) SelectByOwner(ctx context.Context, view nodes.View, ownerID int64) ([]nodes.NodeView, error) {
	children, err := view.SelectByOwner(ctx, ownerID)
	if err != nil {
		return nil, nodes.ErrDatabase{Op: "select dependents", Err: err}
	}
	out := make([]nodes.NodeView, 0, len(children))
	for _, child := range children {
		s, err := nav.registry.Describe(child.Type)
		if err != nil {
			return nil, nodes.ErrSchemaMismatch{Type: child.Type, Reason: "dependent has unregistered type"}
		}
		out = append(out, nodes.NodeView{Node: child, Schema: s})
	}
	return out, nil
}

// IsRelatable reports whether the candidate owner's type is on the owner
// allow-list for the node's type. This is the single source of truth for
// legal tree shape.
func (nav *Navigator) IsRelatable(ctx context.Context, view nodes.View, nodeID, candidateOwnerID int64) (bool, error) {
	n, ok, err := view.SelectNode(ctx, nodeID)
	if err != nil {
		return false, nodes.ErrDatabase{Op: "select node", Err: err}
	}
	if !ok {
		return false, nodes.ErrNotFound{ID: nodeID}
	}
	owner, ok, err := view.SelectNode(ctx, candidateOwnerID)
	if err != nil {
		return false, nodes.ErrDatabase{Op: "select candidate owner", Err: err}
	}
	if !ok {
		return false, nodes.ErrNotFound{ID: candidateOwnerID}
	}
	s, err := nav.registry.Describe(n.Type)
	if err != nil {
		return false, err
	}
	return s.AllowsOwner(owner.Type), nil
}
