package nodes

import (
	"context"

	"github.com/scrose/mle-api/pkg/schema"
)

// View provides the read operations available both inside and outside a
// transaction.
type View interface {
	// SelectNode returns the node row for id; the boolean is false when the
	// row is absent.
	SelectNode(ctx context.Context, id int64) (Node, bool, error)
	// SelectByOwner lists the direct dependents of ownerID.
	SelectByOwner(ctx context.Context, ownerID int64) ([]Node, error)
	// SelectEntity returns the attribute row for a node of type t.
	SelectEntity(ctx context.Context, t schema.Type, id int64) (map[string]any, bool, error)
	// SelectComparisons returns comparisons anchored at captureID on either
	// side.
	SelectComparisons(ctx context.Context, captureID int64) ([]Comparison, error)
}

// Tx exposes the mutations a persistence implementation must support within
// one atomic scope. All mutations either commit together or roll back
// together.
type Tx interface {
	View
	InsertNode(ctx context.Context, n Node) (Node, error)
	UpdateNode(ctx context.Context, n Node) error
	DeleteNode(ctx context.Context, id int64) error
	InsertEntity(ctx context.Context, t schema.Type, id int64, data map[string]any) error
	UpdateEntity(ctx context.Context, t schema.Type, id int64, data map[string]any) error
	DeleteEntity(ctx context.Context, t schema.Type, id int64) error
	InsertComparison(ctx context.Context, c Comparison) (Comparison, error)
	DeleteComparisons(ctx context.Context, captureID int64) error
}

// Store is the minimal abstraction over durable backends. RunInTransaction
// must roll back on any error from fn and release the underlying connection
// on every exit path.
type Store interface {
	RunInTransaction(ctx context.Context, fn func(Tx) error) error
	ReadView(ctx context.Context, fn func(View) error) error
	Close() error
}
