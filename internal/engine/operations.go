package engine

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/scrose/mle-api/internal/importer"
	"github.com/scrose/mle-api/internal/jobs"
	"github.com/scrose/mle-api/pkg/nodes"
	"github.com/scrose/mle-api/pkg/schema"
)

// CreateRequest describes a new entity to insert under an owner. OwnerID is
// nil only for root entity types. Files, when present, are ingested through
// the configured importer before the transactional window opens.
type CreateRequest struct {
	Type    schema.Type
	OwnerID *int64
	Data    map[string]any
	Files   []importer.Upload
}

// Create validates the owner relation, derives the filesystem path from the
// owner's path and the entity label, and inserts the node and its attribute
// row in one transaction.
func (e *Engine) Create(ctx context.Context, req CreateRequest) (nodes.Node, error) {
	var created nodes.Node
	err := e.run(ctx, "create", func(o *op) error {
		sch, err := e.registry.Describe(req.Type)
		if err != nil {
			return err
		}
		if !sch.IsRoot && req.OwnerID == nil {
			return nodes.ErrInvalidRequest{Reason: fmt.Sprintf("entity type %s requires an owner", req.Type)}
		}
		if sch.IsRoot && req.OwnerID != nil {
			return nodes.ErrInvalidRequest{Reason: fmt.Sprintf("root entity type %s cannot have an owner", req.Type)}
		}

		// File ingestion runs fully before the transaction so no store
		// connection is held across file I/O.
		var imported importer.Result
		if len(req.Files) > 0 {
			if e.files == nil {
				return nodes.ErrInvalidRequest{Reason: "file uploads are not configured"}
			}
			if req.OwnerID == nil {
				return nodes.ErrInvalidRequest{Reason: "file uploads require an owner"}
			}
			owner, err := e.readNode(ctx, *req.OwnerID)
			if err != nil {
				return err
			}
			imported, err = e.files.Import(ctx, owner, req.Type, req.Files)
			if err != nil {
				return err
			}
		}

		ctor, err := e.factory.New(req.Type)
		if err != nil {
			return err
		}

		err = e.store.RunInTransaction(ctx, func(tx nodes.Tx) error {
			var owner nodes.Node
			base := sch.FilesystemRoot
			if req.OwnerID != nil {
				got, ok, err := tx.SelectNode(ctx, *req.OwnerID)
				if err != nil {
					return nodes.ErrDatabase{Op: "select owner", Err: err}
				}
				if !ok {
					return nodes.ErrNotFound{ID: *req.OwnerID}
				}
				owner = got
				if !sch.AllowsOwner(owner.Type) {
					return nodes.ErrInvalidMove{
						OwnerID: owner.ID,
						Reason:  fmt.Sprintf("%s may not own %s", owner.Type, req.Type),
					}
				}
				base = owner.FSPath
			}

			inst := ctor(req.Data)
			for k, v := range imported.Metadata {
				inst.AddAttribute(k, schema.SemanticDefault, v)
			}

			o.applied = true
			n := nodes.Node{Type: req.Type, OwnerID: req.OwnerID, Status: defaultStatus(req.Type)}
			if req.OwnerID != nil {
				n.OwnerType = owner.Type
			}
			n, err := tx.InsertNode(ctx, n)
			if err != nil {
				return nodes.ErrDatabase{Op: "insert node", Err: err}
			}
			n.FSPath = path.Join(base, slugify(inst.Label(), fmt.Sprintf("%s_%d", req.Type, n.ID)))
			if err := tx.UpdateNode(ctx, n); err != nil {
				return nodes.ErrDatabase{Op: "set node path", Err: err}
			}
			inst.SetValue(sch.KeyAttribute, n.ID)
			if err := tx.InsertEntity(ctx, req.Type, n.ID, inst.GetData()); err != nil {
				return nodes.ErrDatabase{Op: "insert entity", Err: err}
			}
			if req.OwnerID != nil && !owner.HasDependents {
				owner.HasDependents = true
				if err := tx.UpdateNode(ctx, owner); err != nil {
					return nodes.ErrDatabase{Op: "flag owner dependents", Err: err}
				}
			}
			created = n
			return nil
		})
		if err != nil {
			return err
		}

		// Image jobs are enqueued only after the commit; the queue never
		// sees a node that might roll back, and the engine never waits.
		if e.queue != nil {
			for _, fd := range imported.Files {
				job := jobs.ImageJob{NodeID: created.ID, Type: created.Type, Key: fd.Key}
				if _, qerr := e.queue.Enqueue(ctx, job); qerr != nil {
					e.log.Warn("image job enqueue failed", "node", created.ID, "key", fd.Key, "error", qerr)
				}
			}
		}
		return nil
	})
	return created, err
}

// Record is the read-side projection of one node: its view, attribute data,
// ancestor path, and dependents expanded to the type's depth class.
type Record struct {
	View       nodes.NodeView `json:"view"`
	Data       map[string]any `json:"data"`
	Path       nodes.Path     `json:"path,omitempty"`
	Dependents []Record       `json:"dependents,omitempty"`
}

// Read resolves a node, its attribute row, its ancestor path, and its
// dependent subtree down to the entity type's configured depth class.
func (e *Engine) Read(ctx context.Context, id int64, t schema.Type) (Record, error) {
	var rec Record
	err := e.run(ctx, "read", func(o *op) error {
		return e.store.ReadView(ctx, func(view nodes.View) error {
			nv, err := e.nav.Get(ctx, view, id, t)
			if err != nil {
				return err
			}
			data, ok, err := view.SelectEntity(ctx, t, id)
			if err != nil {
				return nodes.ErrDatabase{Op: "select entity", Err: err}
			}
			if !ok {
				return nodes.ErrSchemaMismatch{Type: t, Reason: "node has no attribute row"}
			}
			p, err := e.nav.GetPath(ctx, view, nv.Node)
			if err != nil {
				return err
			}
			deps, err := e.expand(ctx, view, nv.Node, e.registry.DepthOf(t))
			if err != nil {
				return err
			}
			rec = Record{View: nv, Data: data, Path: p, Dependents: deps}
			return nil
		})
	})
	return rec, err
}

func (e *Engine) expand(ctx context.Context, view nodes.View, parent nodes.Node, depth int) ([]Record, error) {
	if depth <= 0 {
		return nil, nil
	}
	children, err := e.nav.SelectByOwner(ctx, view, parent.ID)
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(children))
	for _, child := range children {
		data, _, err := view.SelectEntity(ctx, child.Node.Type, child.Node.ID)
		if err != nil {
			return nil, nodes.ErrDatabase{Op: "select entity", Err: err}
		}
		sub, err := e.expand(ctx, view, child.Node, depth-1)
		if err != nil {
			return nil, err
		}
		out = append(out, Record{View: child, Data: data, Dependents: sub})
	}
	return out, nil
}

// UpdateRequest carries merged attribute data for an existing node. A nil
// Counterparts slice leaves the comparison set untouched; a non-nil slice
// (possibly empty) replaces it.
type UpdateRequest struct {
	ID           int64
	Type         schema.Type
	Data         map[string]any
	Status       nodes.Status
	Counterparts []int64
}

// Update merges sanitized incoming data into a fresh entity instance and
// persists it. Capture types recompute their comparison set from the
// submitted counterpart list.
func (e *Engine) Update(ctx context.Context, req UpdateRequest) (nodes.Node, error) {
	var updated nodes.Node
	err := e.run(ctx, "update", func(o *op) error {
		ctor, err := e.factory.New(req.Type)
		if err != nil {
			return err
		}
		if req.Counterparts != nil && !schema.IsCapture(req.Type) {
			return nodes.ErrInvalidRequest{Reason: "comparison counterparts require a capture type"}
		}
		return e.store.RunInTransaction(ctx, func(tx nodes.Tx) error {
			nv, err := e.nav.Get(ctx, tx, req.ID, req.Type)
			if err != nil {
				return err
			}
			existing, ok, err := tx.SelectEntity(ctx, req.Type, req.ID)
			if err != nil {
				return nodes.ErrDatabase{Op: "select entity", Err: err}
			}
			if !ok {
				return nodes.ErrSchemaMismatch{Type: req.Type, Reason: "node has no attribute row"}
			}
			// Resolve counterparts before the first mutation so a bad list
			// rejects instead of rolling back.
			var counterparts []nodes.Node
			if req.Counterparts != nil {
				counterparts = make([]nodes.Node, 0, len(req.Counterparts))
				for _, cid := range req.Counterparts {
					cn, ok, err := tx.SelectNode(ctx, cid)
					if err != nil {
						return nodes.ErrDatabase{Op: "select counterpart", Err: err}
					}
					if !ok {
						return nodes.ErrNotFound{ID: cid}
					}
					counterparts = append(counterparts, cn)
				}
			}

			inst := ctor(existing)
			inst.SetData(req.Data)
			inst.SetValue(nv.Schema.KeyAttribute, req.ID)

			o.applied = true
			if err := tx.UpdateEntity(ctx, req.Type, req.ID, inst.GetData()); err != nil {
				return nodes.ErrDatabase{Op: "update entity", Err: err}
			}
			node := nv.Node
			if req.Status != "" && req.Status != node.Status {
				node.Status = req.Status
				if err := tx.UpdateNode(ctx, node); err != nil {
					return nodes.ErrDatabase{Op: "update node status", Err: err}
				}
			}
			if req.Counterparts != nil {
				if err := e.cmp.UpdateComparisons(ctx, tx, node, counterparts); err != nil {
					return err
				}
			}
			updated = node
			return nil
		})
	})
	return updated, err
}

// MoveRequest reparents a node under a new owner.
type MoveRequest struct {
	ID      int64
	Type    schema.Type
	OwnerID int64
}

// Move reparents a node and its dependent subtree under a new owner,
// recomputing filesystem paths. The comparison check runs before the
// relatability check so an anchored capture is always reported as
// comparison-restricted, whatever the target.
func (e *Engine) Move(ctx context.Context, req MoveRequest) (nodes.Node, error) {
	var moved nodes.Node
	err := e.run(ctx, "move", func(o *op) error {
		return e.store.RunInTransaction(ctx, func(tx nodes.Tx) error {
			nv, err := e.nav.Get(ctx, tx, req.ID, req.Type)
			if err != nil {
				return err
			}
			node := nv.Node
			owner, ok, err := tx.SelectNode(ctx, req.OwnerID)
			if err != nil {
				return nodes.ErrDatabase{Op: "select owner", Err: err}
			}
			if !ok {
				return nodes.ErrNotFound{ID: req.OwnerID}
			}
			cmps, err := e.cmp.GetComparisons(ctx, tx, node)
			if err != nil {
				return err
			}
			if len(cmps) > 0 {
				return nodes.ErrRestrictedByComparisons{NodeID: node.ID, Count: len(cmps)}
			}
			relatable, err := e.nav.IsRelatable(ctx, tx, node.ID, owner.ID)
			if err != nil {
				return err
			}
			if !relatable {
				return nodes.ErrInvalidMove{
					NodeID:  node.ID,
					OwnerID: owner.ID,
					Reason:  fmt.Sprintf("%s may not own %s", owner.Type, node.Type),
				}
			}
			// Nodes without workflow status (non-captures) are always
			// movable; statused nodes must not be locked into a finalized
			// state.
			if node.Status != "" && !node.Status.Movable() {
				return nodes.ErrInvalidMove{
					NodeID:  node.ID,
					OwnerID: owner.ID,
					Reason:  fmt.Sprintf("status %s does not permit moving", node.Status),
				}
			}

			o.applied = true
			previousOwner := node.OwnerID
			node.OwnerID = &owner.ID
			node.OwnerType = owner.Type
			node.FSPath = path.Join(owner.FSPath, pathSegment(node))
			if err := tx.UpdateNode(ctx, node); err != nil {
				return nodes.ErrDatabase{Op: "reparent node", Err: err}
			}
			if err := e.recomputePaths(ctx, tx, node, 0); err != nil {
				return err
			}
			if !owner.HasDependents {
				owner.HasDependents = true
				if err := tx.UpdateNode(ctx, owner); err != nil {
					return nodes.ErrDatabase{Op: "flag owner dependents", Err: err}
				}
			}
			if previousOwner != nil && *previousOwner != owner.ID {
				if err := e.refreshDependentsFlag(ctx, tx, *previousOwner); err != nil {
					return err
				}
			}
			moved = node
			return nil
		})
	})
	return moved, err
}

// DeleteRequest removes a node and its attribute row.
type DeleteRequest struct {
	ID   int64
	Type schema.Type
}

// Delete removes a node together with its entity row. Nodes with dependents
// are refused: dependents must be deleted explicitly first. An anchored
// comparison set blocks deletion the same way it blocks moves.
func (e *Engine) Delete(ctx context.Context, req DeleteRequest) error {
	return e.run(ctx, "delete", func(o *op) error {
		return e.store.RunInTransaction(ctx, func(tx nodes.Tx) error {
			nv, err := e.nav.Get(ctx, tx, req.ID, req.Type)
			if err != nil {
				return err
			}
			node := nv.Node
			deps, err := tx.SelectByOwner(ctx, node.ID)
			if err != nil {
				return nodes.ErrDatabase{Op: "select dependents", Err: err}
			}
			if node.HasDependents || len(deps) > 0 {
				return nodes.ErrForeignKeyViolation{NodeID: node.ID}
			}
			cmps, err := e.cmp.GetComparisons(ctx, tx, node)
			if err != nil {
				return err
			}
			if len(cmps) > 0 {
				return nodes.ErrRestrictedByComparisons{NodeID: node.ID, Count: len(cmps)}
			}

			o.applied = true
			if err := tx.DeleteEntity(ctx, req.Type, node.ID); err != nil {
				return nodes.ErrDatabase{Op: "delete entity", Err: err}
			}
			if err := tx.DeleteNode(ctx, node.ID); err != nil {
				return nodes.ErrDatabase{Op: "delete node", Err: err}
			}
			if node.OwnerID != nil {
				if err := e.refreshDependentsFlag(ctx, tx, *node.OwnerID); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

// ClearComparisons explicitly empties the comparison set anchored at a
// capture, unlocking it for move and delete.
func (e *Engine) ClearComparisons(ctx context.Context, id int64, t schema.Type) error {
	return e.run(ctx, "clear_comparisons", func(o *op) error {
		if !schema.IsCapture(t) {
			return nodes.ErrInvalidRequest{Reason: "comparisons require a capture type"}
		}
		return e.store.RunInTransaction(ctx, func(tx nodes.Tx) error {
			nv, err := e.nav.Get(ctx, tx, id, t)
			if err != nil {
				return err
			}
			o.applied = true
			return e.cmp.DeleteComparisons(ctx, tx, nv.Node)
		})
	})
}

// recomputePaths rewrites the filesystem paths of the dependent subtree
// after a reparent. The recursion is bounded by the registry's maximum
// depth; exceeding it indicates cyclic owner links.
func (e *Engine) recomputePaths(ctx context.Context, tx nodes.Tx, parent nodes.Node, depth int) error {
	if depth >= e.registry.MaxDepth() {
		return nodes.ErrSchemaMismatch{Type: parent.Type, Reason: "dependent chain exceeds maximum tree depth"}
	}
	children, err := tx.SelectByOwner(ctx, parent.ID)
	if err != nil {
		return nodes.ErrDatabase{Op: "select dependents", Err: err}
	}
	for _, child := range children {
		child.FSPath = path.Join(parent.FSPath, pathSegment(child))
		if err := tx.UpdateNode(ctx, child); err != nil {
			return nodes.ErrDatabase{Op: "update dependent path", Err: err}
		}
		if err := e.recomputePaths(ctx, tx, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// refreshDependentsFlag clears HasDependents on an owner that lost its last
// dependent.
func (e *Engine) refreshDependentsFlag(ctx context.Context, tx nodes.Tx, ownerID int64) error {
	remaining, err := tx.SelectByOwner(ctx, ownerID)
	if err != nil {
		return nodes.ErrDatabase{Op: "select remaining dependents", Err: err}
	}
	if len(remaining) > 0 {
		return nil
	}
	owner, ok, err := tx.SelectNode(ctx, ownerID)
	if err != nil {
		return nodes.ErrDatabase{Op: "select owner", Err: err}
	}
	if !ok || !owner.HasDependents {
		return nil
	}
	owner.HasDependents = false
	if err := tx.UpdateNode(ctx, owner); err != nil {
		return nodes.ErrDatabase{Op: "clear owner dependents", Err: err}
	}
	return nil
}

func (e *Engine) readNode(ctx context.Context, id int64) (nodes.Node, error) {
	var out nodes.Node
	err := e.store.ReadView(ctx, func(view nodes.View) error {
		n, ok, err := view.SelectNode(ctx, id)
		if err != nil {
			return nodes.ErrDatabase{Op: "select node", Err: err}
		}
		if !ok {
			return nodes.ErrNotFound{ID: id}
		}
		out = n
		return nil
	})
	return out, err
}

// defaultStatus seeds new capture nodes as unsorted; other types carry no
// workflow status.
func defaultStatus(t schema.Type) nodes.Status {
	if schema.IsCapture(t) {
		return nodes.StatusUnsorted
	}
	return ""
}

// pathSegment returns the node's own segment of its filesystem path,
// falling back to a type/id slug for nodes that never had one.
func pathSegment(n nodes.Node) string {
	if n.FSPath != "" {
		return path.Base(n.FSPath)
	}
	return fmt.Sprintf("%s_%d", n.Type, n.ID)
}

var slugStripPattern = regexp.MustCompile(`[^a-z0-9_-]+`)

// slugify turns an entity label into a filesystem-safe segment.
func slugify(label any, fallback string) string {
	s, _ := label.(string)
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = slugStripPattern.ReplaceAllString(s, "")
	s = strings.Trim(s, "_-")
	if s == "" {
		if n, ok := label.(int64); ok {
			return fmt.Sprintf("%d", n)
		}
		return fallback
	}
	return s
}
