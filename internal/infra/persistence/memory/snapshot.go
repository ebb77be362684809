package memory

import (
	"github.com/scrose/mle-api/pkg/nodes"
	"github.com/scrose/mle-api/pkg/schema"
)

// Snapshot captures a point-in-time clone of the store state for durable
// backends that persist the tree as a document.
type Snapshot struct {
	Nodes       map[int64]nodes.Node                     `json:"nodes"`
	Entities    map[schema.Type]map[int64]map[string]any `json:"entities"`
	Comparisons map[int64]nodes.Comparison               `json:"comparisons"`
	NodeSeq     int64                                    `json:"node_seq"`
	CmpSeq      int64                                    `json:"cmp_seq"`
}

// ExportState returns a deep copy of the current state.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state.clone()
	return Snapshot{
		Nodes:       st.nodes,
		Entities:    st.entities,
		Comparisons: st.comparisons,
		NodeSeq:     st.nodeSeq,
		CmpSeq:      st.cmpSeq,
	}
}

// ImportState replaces the store state with the snapshot contents. Nil maps
// are tolerated so partially populated snapshots load cleanly.
func (s *Store) ImportState(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := newState()
	for id, n := range snap.Nodes {
		st.nodes[id] = cloneNode(n)
		if id > st.nodeSeq {
			st.nodeSeq = id
		}
	}
	for t, rows := range snap.Entities {
		bucket := make(map[int64]map[string]any, len(rows))
		for id, row := range rows {
			bucket[id] = cloneRow(row)
		}
		st.entities[t] = bucket
	}
	for id, c := range snap.Comparisons {
		st.comparisons[id] = c
		if id > st.cmpSeq {
			st.cmpSeq = id
		}
	}
	if snap.NodeSeq > st.nodeSeq {
		st.nodeSeq = snap.NodeSeq
	}
	if snap.CmpSeq > st.cmpSeq {
		st.cmpSeq = snap.CmpSeq
	}
	s.state = st
}
