package nodes

import (
	"errors"
	"fmt"

	"github.com/scrose/mle-api/pkg/schema"
)

// Kind names an error category surfaced to boundary layers, which map each
// kind to a stable message and HTTP-equivalent status. The engine only
// guarantees the kind, never message text.
type Kind string

// Error kinds produced by the entity engine.
const (
	KindUnknownEntityType       Kind = "unknown_entity_type"
	KindNotFound                Kind = "not_found"
	KindInvalidRequest          Kind = "invalid_request"
	KindInvalidMove             Kind = "invalid_move"
	KindRestrictedByComparisons Kind = "restricted_by_comparisons"
	KindForeignKeyViolation     Kind = "foreign_key_violation"
	KindSchemaMismatch          Kind = "schema_mismatch"
	KindDatabaseError           Kind = "database_error"
)

// KindError is implemented by all typed engine errors.
type KindError interface {
	error
	Kind() Kind
}

// KindOf classifies err, unwrapping as needed. Unclassified non-nil errors
// report KindDatabaseError since anything else escaping the engine is a
// transport or transaction failure.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var ke KindError
	if errors.As(err, &ke) {
		return ke.Kind()
	}
	var unknown schema.UnknownTypeError
	if errors.As(err, &unknown) {
		return KindUnknownEntityType
	}
	return KindDatabaseError
}

// ErrNotFound reports a missing node or a stored type that does not match
// the type the caller expected. Ids are not type-namespaced, so both cases
// are indistinguishable to callers.
type ErrNotFound struct {
	Type schema.Type
	ID   int64
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s node %d not found", e.Type, e.ID)
}

// Kind implements KindError.
func (e ErrNotFound) Kind() Kind { return KindNotFound }

// ErrInvalidRequest reports malformed operation parameters detected before
// any store access.
type ErrInvalidRequest struct {
	Reason string
}

func (e ErrInvalidRequest) Error() string {
	return fmt.Sprintf("invalid request: %s", e.Reason)
}

// Kind implements KindError.
func (e ErrInvalidRequest) Kind() Kind { return KindInvalidRequest }

// ErrInvalidMove reports an illegal tree shape or a node status outside the
// movable set.
type ErrInvalidMove struct {
	NodeID  int64
	OwnerID int64
	Reason  string
}

func (e ErrInvalidMove) Error() string {
	return fmt.Sprintf("cannot move node %d to owner %d: %s", e.NodeID, e.OwnerID, e.Reason)
}

// Kind implements KindError.
func (e ErrInvalidMove) Kind() Kind { return KindInvalidMove }

// ErrRestrictedByComparisons blocks move/delete of a capture anchoring an
// active comparison set.
type ErrRestrictedByComparisons struct {
	NodeID int64
	Count  int
}

func (e ErrRestrictedByComparisons) Error() string {
	return fmt.Sprintf("node %d anchors %d active comparison(s)", e.NodeID, e.Count)
}

// Kind implements KindError.
func (e ErrRestrictedByComparisons) Kind() Kind { return KindRestrictedByComparisons }

// ErrForeignKeyViolation blocks delete of a node with dependents; dependents
// must be deleted explicitly first.
type ErrForeignKeyViolation struct {
	NodeID int64
}

func (e ErrForeignKeyViolation) Error() string {
	return fmt.Sprintf("node %d has dependent nodes", e.NodeID)
}

// Kind implements KindError.
func (e ErrForeignKeyViolation) Kind() Kind { return KindForeignKeyViolation }

// ErrSchemaMismatch reports persisted data that does not fit the current
// schema, including owner chains longer than the registry's maximum depth.
type ErrSchemaMismatch struct {
	Type   schema.Type
	Reason string
}

func (e ErrSchemaMismatch) Error() string {
	return fmt.Sprintf("schema mismatch for %s: %s", e.Type, e.Reason)
}

// Kind implements KindError.
func (e ErrSchemaMismatch) Kind() Kind { return KindSchemaMismatch }

// ErrDatabase wraps a transport or transaction failure.
type ErrDatabase struct {
	Op  string
	Err error
}

func (e ErrDatabase) Error() string {
	return fmt.Sprintf("database error during %s: %v", e.Op, e.Err)
}

func (e ErrDatabase) Unwrap() error { return e.Err }

// Kind implements KindError.
func (e ErrDatabase) Kind() Kind { return KindDatabaseError }
