// Package comparisons tracks the comparison sets pairing historic captures
// with modern captures. An active set anchors its captures in place: the
// integrity engine consults this service before allowing move or delete.
package comparisons

import (
	"context"

	"github.com/scrose/mle-api/pkg/nodes"
	"github.com/scrose/mle-api/pkg/schema"
)

// Service evaluates and mutates comparison associations. Mutations always
// run inside the caller's transaction so constraint state commits or rolls
// back with the operation that changed it.
type Service struct{}

// NewService constructs the comparison constraint service.
func NewService() *Service {
	return &Service{}
}

// GetComparisons returns comparisons anchored at node. Non-capture nodes
// never participate and yield an empty list without touching the store.
func (s *Service) GetComparisons(ctx context.Context, view nodes.View, node nodes.Node) ([]nodes.Comparison, error) {
	if !schema.IsCapture(node.Type) {
		return nil, nil
	}
	out, err := view.SelectComparisons(ctx, node.ID)
	if err != nil {
		return nil, nodes.ErrDatabase{Op: "select comparisons", Err: err}
	}
	return out, nil
}

// DeleteComparisons removes every association anchored at node within the
// caller's transaction.
func (s *Service) DeleteComparisons(ctx context.Context, tx nodes.Tx, node nodes.Node) error {
	if !schema.IsCapture(node.Type) {
		return nil
	}
	if err := tx.DeleteComparisons(ctx, node.ID); err != nil {
		return nodes.ErrDatabase{Op: "delete comparisons", Err: err}
	}
	return nil
}

// UpdateComparisons replaces the comparison set anchored at node with the
// given counterparts. Counterparts are type-filtered: a historic anchor
// pairs only with modern captures and vice versa; mismatched entries are
// dropped silently since submitted counterpart lists routinely mix node
// references.
func (s *Service) UpdateComparisons(ctx context.Context, tx nodes.Tx, node nodes.Node, counterparts []nodes.Node) error {
	if !schema.IsCapture(node.Type) {
		return nodes.ErrInvalidRequest{Reason: "comparisons require a capture anchor"}
	}
	if err := tx.DeleteComparisons(ctx, node.ID); err != nil {
		return nodes.ErrDatabase{Op: "delete comparisons", Err: err}
	}
	counterpartType := schema.TypeModernCaptures
	if node.Type == schema.TypeModernCaptures {
		counterpartType = schema.TypeHistoricCaptures
	}
	for _, c := range counterparts {
		if c.Type != counterpartType {
			continue
		}
		pair := nodes.Comparison{}
		if node.Type == schema.TypeHistoricCaptures {
			pair.HistoricCaptures = node.ID
			pair.ModernCaptures = c.ID
		} else {
			pair.HistoricCaptures = c.ID
			pair.ModernCaptures = node.ID
		}
		if _, err := tx.InsertComparison(ctx, pair); err != nil {
			return nodes.ErrDatabase{Op: "insert comparison", Err: err}
		}
	}
	return nil
}
