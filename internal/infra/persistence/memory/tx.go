package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/scrose/mle-api/pkg/nodes"
	"github.com/scrose/mle-api/pkg/schema"
)

var _ nodes.Tx = (*tx)(nil)

type tx struct {
	state    *state
	readOnly bool
}

func (t *tx) SelectNode(_ context.Context, id int64) (nodes.Node, bool, error) {
	n, ok := t.state.nodes[id]
	if !ok {
		return nodes.Node{}, false, nil
	}
	return cloneNode(n), true, nil
}

func (t *tx) SelectByOwner(_ context.Context, ownerID int64) ([]nodes.Node, error) {
	var out []nodes.Node
	for _, n := range t.state.nodes {
		if n.OwnerID != nil && *n.OwnerID == ownerID {
			out = append(out, cloneNode(n))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *tx) SelectEntity(_ context.Context, typ schema.Type, id int64) (map[string]any, bool, error) {
	rows, ok := t.state.entities[typ]
	if !ok {
		return nil, false, nil
	}
	row, ok := rows[id]
	if !ok {
		return nil, false, nil
	}
	return cloneRow(row), true, nil
}

func (t *tx) SelectComparisons(_ context.Context, captureID int64) ([]nodes.Comparison, error) {
	var out []nodes.Comparison
	for _, c := range t.state.comparisons {
		if c.Anchors(captureID) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *tx) InsertNode(_ context.Context, n nodes.Node) (nodes.Node, error) {
	if err := t.writable("insert node"); err != nil {
		return nodes.Node{}, err
	}
	t.state.nodeSeq++
	n.ID = t.state.nodeSeq
	now := time.Now().UTC()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	n.UpdatedAt = now
	t.state.nodes[n.ID] = cloneNode(n)
	return n, nil
}

func (t *tx) UpdateNode(_ context.Context, n nodes.Node) error {
	if err := t.writable("update node"); err != nil {
		return err
	}
	if _, ok := t.state.nodes[n.ID]; !ok {
		return nodes.ErrNotFound{Type: n.Type, ID: n.ID}
	}
	n.UpdatedAt = time.Now().UTC()
	t.state.nodes[n.ID] = cloneNode(n)
	return nil
}

func (t *tx) DeleteNode(_ context.Context, id int64) error {
	if err := t.writable("delete node"); err != nil {
		return err
	}
	delete(t.state.nodes, id)
	return nil
}

func (t *tx) InsertEntity(_ context.Context, typ schema.Type, id int64, data map[string]any) error {
	if err := t.writable("insert entity"); err != nil {
		return err
	}
	rows, ok := t.state.entities[typ]
	if !ok {
		rows = make(map[int64]map[string]any)
		t.state.entities[typ] = rows
	}
	rows[id] = cloneRow(data)
	return nil
}

func (t *tx) UpdateEntity(_ context.Context, typ schema.Type, id int64, data map[string]any) error {
	if err := t.writable("update entity"); err != nil {
		return err
	}
	rows, ok := t.state.entities[typ]
	if !ok || rows[id] == nil {
		return nodes.ErrNotFound{Type: typ, ID: id}
	}
	rows[id] = cloneRow(data)
	return nil
}

func (t *tx) DeleteEntity(_ context.Context, typ schema.Type, id int64) error {
	if err := t.writable("delete entity"); err != nil {
		return err
	}
	if rows, ok := t.state.entities[typ]; ok {
		delete(rows, id)
	}
	return nil
}

func (t *tx) InsertComparison(_ context.Context, c nodes.Comparison) (nodes.Comparison, error) {
	if err := t.writable("insert comparison"); err != nil {
		return nodes.Comparison{}, err
	}
	t.state.cmpSeq++
	c.ID = t.state.cmpSeq
	t.state.comparisons[c.ID] = c
	return c, nil
}

func (t *tx) DeleteComparisons(_ context.Context, captureID int64) error {
	if err := t.writable("delete comparisons"); err != nil {
		return err
	}
	for id, c := range t.state.comparisons {
		if c.Anchors(captureID) {
			delete(t.state.comparisons, id)
		}
	}
	return nil
}

func (t *tx) writable(op string) error {
	if t.readOnly {
		return fmt.Errorf("%s: read-only view", op)
	}
	return nil
}
