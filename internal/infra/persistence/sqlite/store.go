// Package sqlite provides a single-file durable store. It reuses the
// in-memory store for transaction semantics and snapshots the full state to
// a SQLite table as JSON blobs after every successful transaction.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/scrose/mle-api/internal/infra/persistence/memory"
	"github.com/scrose/mle-api/pkg/nodes"
)

var _ nodes.Store = (*Store)(nil)

// Store persists the in-memory node state as JSON snapshot buckets.
type Store struct {
	*memory.Store
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// NewStore opens (or creates) the database file at path and hydrates the
// in-memory store from any existing snapshot.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = "explorer.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create state table: %w", err)
	}
	s := &Store{Store: memory.NewStore(), db: db, path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

const (
	bucketNodes       = "nodes"
	bucketEntities    = "entities"
	bucketComparisons = "comparisons"
	bucketSequences   = "sequences"
)

type sequences struct {
	NodeSeq int64 `json:"node_seq"`
	CmpSeq  int64 `json:"cmp_seq"`
}

func (s *Store) load() error {
	rows, err := s.db.Query(`SELECT bucket, payload FROM state`)
	if err != nil {
		return fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snapshot memory.Snapshot
	var loaded bool
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return fmt.Errorf("scan state: %w", err)
		}
		if len(payload) == 0 {
			continue
		}
		loaded = true
		switch bucket {
		case bucketNodes:
			if err := json.Unmarshal(payload, &snapshot.Nodes); err != nil {
				return fmt.Errorf("decode nodes: %w", err)
			}
		case bucketEntities:
			if err := json.Unmarshal(payload, &snapshot.Entities); err != nil {
				return fmt.Errorf("decode entities: %w", err)
			}
		case bucketComparisons:
			if err := json.Unmarshal(payload, &snapshot.Comparisons); err != nil {
				return fmt.Errorf("decode comparisons: %w", err)
			}
		case bucketSequences:
			var seq sequences
			if err := json.Unmarshal(payload, &seq); err != nil {
				return fmt.Errorf("decode sequences: %w", err)
			}
			snapshot.NodeSeq = seq.NodeSeq
			snapshot.CmpSeq = seq.CmpSeq
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate state: %w", err)
	}
	if loaded {
		s.ImportState(snapshot)
	}
	return nil
}

func (s *Store) persist() (retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.ExportState()
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	buckets := []struct {
		name  string
		value any
	}{
		{bucketNodes, snapshot.Nodes},
		{bucketEntities, snapshot.Entities},
		{bucketComparisons, snapshot.Comparisons},
		{bucketSequences, sequences{NodeSeq: snapshot.NodeSeq, CmpSeq: snapshot.CmpSeq}},
	}
	for _, b := range buckets {
		data, err := json.Marshal(b.value)
		if err != nil {
			retErr = fmt.Errorf("encode %s: %w", b.name, err)
			return retErr
		}
		if _, err := tx.Exec(`INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`, b.name, data); err != nil {
			retErr = fmt.Errorf("upsert %s: %w", b.name, err)
			return retErr
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// RunInTransaction applies fn in memory, then snapshots state to SQLite if
// successful.
func (s *Store) RunInTransaction(ctx context.Context, fn func(nodes.Tx) error) error {
	if err := s.Store.RunInTransaction(ctx, fn); err != nil {
		return err
	}
	return s.persist()
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }
