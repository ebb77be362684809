// Package memory provides an in-memory implementation of the node store
// used for tests and ephemeral environments. Transactions stage against a
// cloned state that replaces the live state only on success, so a failed
// transaction leaves no trace.
package memory

import (
	"context"
	"sync"

	"github.com/scrose/mle-api/pkg/nodes"
	"github.com/scrose/mle-api/pkg/schema"
)

// Compile-time contract assertion.
var _ nodes.Store = (*Store)(nil)

type state struct {
	nodes       map[int64]nodes.Node
	entities    map[schema.Type]map[int64]map[string]any
	comparisons map[int64]nodes.Comparison
	nodeSeq     int64
	cmpSeq      int64
}

func newState() *state {
	return &state{
		nodes:       make(map[int64]nodes.Node),
		entities:    make(map[schema.Type]map[int64]map[string]any),
		comparisons: make(map[int64]nodes.Comparison),
	}
}

func (s *state) clone() *state {
	c := &state{
		nodes:       make(map[int64]nodes.Node, len(s.nodes)),
		entities:    make(map[schema.Type]map[int64]map[string]any, len(s.entities)),
		comparisons: make(map[int64]nodes.Comparison, len(s.comparisons)),
		nodeSeq:     s.nodeSeq,
		cmpSeq:      s.cmpSeq,
	}
	for id, n := range s.nodes {
		c.nodes[id] = cloneNode(n)
	}
	for t, rows := range s.entities {
		bucket := make(map[int64]map[string]any, len(rows))
		for id, row := range rows {
			bucket[id] = cloneRow(row)
		}
		c.entities[t] = bucket
	}
	for id, cmp := range s.comparisons {
		c.comparisons[id] = cmp
	}
	return c
}

func cloneNode(n nodes.Node) nodes.Node {
	if n.OwnerID != nil {
		owner := *n.OwnerID
		n.OwnerID = &owner
	}
	return n
}

func cloneRow(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

// Store keeps the full node tree in process memory.
type Store struct {
	mu    sync.RWMutex
	state *state
}

// NewStore constructs an empty in-memory store.
func NewStore() *Store {
	return &Store{state: newState()}
}

// RunInTransaction stages fn against a cloned state and swaps it in only
// when fn succeeds.
func (s *Store) RunInTransaction(ctx context.Context, fn func(nodes.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	staged := s.state.clone()
	if err := fn(&tx{state: staged}); err != nil {
		return err
	}
	s.state = staged
	return nil
}

// ReadView runs fn against a read-only view of the current state.
func (s *Store) ReadView(ctx context.Context, fn func(nodes.View) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&tx{state: s.state, readOnly: true})
}

// Close releases nothing; it exists to satisfy the store contract.
func (s *Store) Close() error { return nil }
