package nodes

import (
	"errors"
	"fmt"
	"testing"

	"github.com/scrose/mle-api/pkg/schema"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want Kind
	}{
		{nil, ""},
		{ErrNotFound{Type: schema.TypeStations, ID: 7}, KindNotFound},
		{ErrInvalidRequest{Reason: "missing owner"}, KindInvalidRequest},
		{ErrInvalidMove{NodeID: 1, OwnerID: 2, Reason: "owner type"}, KindInvalidMove},
		{ErrRestrictedByComparisons{NodeID: 1, Count: 2}, KindRestrictedByComparisons},
		{ErrForeignKeyViolation{NodeID: 1}, KindForeignKeyViolation},
		{ErrSchemaMismatch{Type: schema.TypeStations, Reason: "depth"}, KindSchemaMismatch},
		{ErrDatabase{Op: "insert", Err: errors.New("boom")}, KindDatabaseError},
		{schema.UnknownTypeError{Type: "widgets"}, KindUnknownEntityType},
		{errors.New("plain"), KindDatabaseError},
	}
	for _, tc := range cases {
		if got := KindOf(tc.err); got != tc.want {
			t.Fatalf("KindOf(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("operation failed: %w", ErrNotFound{Type: schema.TypeStations, ID: 9})
	if got := KindOf(err); got != KindNotFound {
		t.Fatalf("wrapped KindOf = %q, want %q", got, KindNotFound)
	}
	inner := ErrDatabase{Op: "move", Err: ErrInvalidMove{NodeID: 1}}
	if got := KindOf(inner); got != KindDatabaseError {
		t.Fatalf("outer kind must win, got %q", got)
	}
}

func TestStatusMovable(t *testing.T) {
	movable := []Status{StatusUnsorted, StatusSorted, StatusMissing}
	for _, s := range movable {
		if !s.Movable() {
			t.Fatalf("status %s should be movable", s)
		}
	}
	locked := []Status{StatusGrouped, StatusLocated, StatusMasterable, StatusMastered}
	for _, s := range locked {
		if s.Movable() {
			t.Fatalf("status %s should not be movable", s)
		}
	}
}

func TestComparisonAnchors(t *testing.T) {
	c := Comparison{ID: 1, HistoricCaptures: 10, ModernCaptures: 20}
	if !c.Anchors(10) || !c.Anchors(20) {
		t.Fatalf("comparison should anchor both sides")
	}
	if c.Anchors(30) {
		t.Fatalf("comparison should not anchor unrelated id")
	}
	if got := c.Counterpart(10); got != 20 {
		t.Fatalf("counterpart of 10 = %d", got)
	}
	if got := c.Counterpart(20); got != 10 {
		t.Fatalf("counterpart of 20 = %d", got)
	}
}
