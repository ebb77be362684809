// Package postgres provides the Postgres-backed node store. It executes the
// statements built by the queries package over database/sql and applies the
// bootstrap DDL on startup.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"github.com/scrose/mle-api/internal/queries"
	"github.com/scrose/mle-api/pkg/nodes"
	"github.com/scrose/mle-api/pkg/schema"
)

var _ nodes.Store = (*Store)(nil)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/explorer?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store executes node and entity statements against Postgres.
type Store struct {
	db       *sql.DB
	registry *schema.Registry
}

// NewStore opens a Postgres-backed store using the provided DSN (falls back
// to defaultDSN) and applies the bootstrap DDL for the registry's types.
func NewStore(dsn string, registry *schema.Registry) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	for _, stmt := range BootstrapDDL(registry) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("execute ddl: %w", err)
		}
	}
	return &Store{db: db, registry: registry}, nil
}

// RunInTransaction runs fn inside one database transaction, rolling back on
// any error from fn.
func (s *Store) RunInTransaction(ctx context.Context, fn func(nodes.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&sqlTx{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

// ReadView runs fn against the live database outside a transaction.
func (s *Store) ReadView(ctx context.Context, fn func(nodes.View) error) error {
	return fn(&sqlTx{q: s.db, readOnly: true})
}

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore
// function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type sqlTx struct {
	q        queryer
	readOnly bool
}

var _ nodes.Tx = (*sqlTx)(nil)

func (t *sqlTx) SelectNode(ctx context.Context, id int64) (nodes.Node, bool, error) {
	stmt := queries.SelectNode(id)
	n, err := scanNode(t.q.QueryRowContext(ctx, stmt.SQL, stmt.Args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nodes.Node{}, false, nil
	}
	if err != nil {
		return nodes.Node{}, false, fmt.Errorf("select node %d: %w", id, err)
	}
	return n, true, nil
}

func (t *sqlTx) SelectByOwner(ctx context.Context, ownerID int64) ([]nodes.Node, error) {
	stmt := queries.SelectNodesByOwner(ownerID)
	rows, err := t.q.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, fmt.Errorf("select dependents of %d: %w", ownerID, err)
	}
	defer func() { _ = rows.Close() }()
	var out []nodes.Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (t *sqlTx) SelectEntity(ctx context.Context, typ schema.Type, id int64) (map[string]any, bool, error) {
	stmt := queries.SelectEntity(typ, id)
	var doc []byte
	err := t.q.QueryRowContext(ctx, stmt.SQL, stmt.Args...).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select %s %d: %w", typ, id, err)
	}
	data := map[string]any{}
	if len(doc) > 0 {
		if err := json.Unmarshal(doc, &data); err != nil {
			return nil, false, fmt.Errorf("decode %s %d: %w", typ, id, err)
		}
	}
	return data, true, nil
}

func (t *sqlTx) SelectComparisons(ctx context.Context, captureID int64) ([]nodes.Comparison, error) {
	stmt := queries.SelectComparisons(captureID)
	rows, err := t.q.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, fmt.Errorf("select comparisons for %d: %w", captureID, err)
	}
	defer func() { _ = rows.Close() }()
	var out []nodes.Comparison
	for rows.Next() {
		var c nodes.Comparison
		if err := rows.Scan(&c.ID, &c.HistoricCaptures, &c.ModernCaptures); err != nil {
			return nil, fmt.Errorf("scan comparison: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (t *sqlTx) InsertNode(ctx context.Context, n nodes.Node) (nodes.Node, error) {
	if err := t.writable(); err != nil {
		return nodes.Node{}, err
	}
	now := time.Now().UTC()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	n.UpdatedAt = now
	stmt := queries.InsertNode(n)
	if err := t.q.QueryRowContext(ctx, stmt.SQL, stmt.Args...).Scan(&n.ID); err != nil {
		return nodes.Node{}, fmt.Errorf("insert node: %w", err)
	}
	return n, nil
}

func (t *sqlTx) UpdateNode(ctx context.Context, n nodes.Node) error {
	if err := t.writable(); err != nil {
		return err
	}
	n.UpdatedAt = time.Now().UTC()
	stmt := queries.UpdateNode(n)
	res, err := t.q.ExecContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return fmt.Errorf("update node %d: %w", n.ID, err)
	}
	return requireRow(res, nodes.ErrNotFound{Type: n.Type, ID: n.ID})
}

func (t *sqlTx) DeleteNode(ctx context.Context, id int64) error {
	if err := t.writable(); err != nil {
		return err
	}
	stmt := queries.DeleteNode(id)
	_, err := t.q.ExecContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return fmt.Errorf("delete node %d: %w", id, err)
	}
	return nil
}

func (t *sqlTx) InsertEntity(ctx context.Context, typ schema.Type, id int64, data map[string]any) error {
	if err := t.writable(); err != nil {
		return err
	}
	stmt, err := queries.InsertEntity(typ, id, data)
	if err != nil {
		return err
	}
	if _, err := t.q.ExecContext(ctx, stmt.SQL, stmt.Args...); err != nil {
		return fmt.Errorf("insert %s %d: %w", typ, id, err)
	}
	return nil
}

func (t *sqlTx) UpdateEntity(ctx context.Context, typ schema.Type, id int64, data map[string]any) error {
	if err := t.writable(); err != nil {
		return err
	}
	stmt, err := queries.UpdateEntity(typ, id, data)
	if err != nil {
		return err
	}
	res, err := t.q.ExecContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return fmt.Errorf("update %s %d: %w", typ, id, err)
	}
	return requireRow(res, nodes.ErrNotFound{Type: typ, ID: id})
}

func (t *sqlTx) DeleteEntity(ctx context.Context, typ schema.Type, id int64) error {
	if err := t.writable(); err != nil {
		return err
	}
	stmt := queries.DeleteEntity(typ, id)
	if _, err := t.q.ExecContext(ctx, stmt.SQL, stmt.Args...); err != nil {
		return fmt.Errorf("delete %s %d: %w", typ, id, err)
	}
	return nil
}

func (t *sqlTx) InsertComparison(ctx context.Context, c nodes.Comparison) (nodes.Comparison, error) {
	if err := t.writable(); err != nil {
		return nodes.Comparison{}, err
	}
	stmt := queries.InsertComparison(c)
	if err := t.q.QueryRowContext(ctx, stmt.SQL, stmt.Args...).Scan(&c.ID); err != nil {
		return nodes.Comparison{}, fmt.Errorf("insert comparison: %w", err)
	}
	return c, nil
}

func (t *sqlTx) DeleteComparisons(ctx context.Context, captureID int64) error {
	if err := t.writable(); err != nil {
		return err
	}
	stmt := queries.DeleteComparisons(captureID)
	if _, err := t.q.ExecContext(ctx, stmt.SQL, stmt.Args...); err != nil {
		return fmt.Errorf("delete comparisons for %d: %w", captureID, err)
	}
	return nil
}

func (t *sqlTx) writable() error {
	if t.readOnly {
		return fmt.Errorf("mutation outside transaction")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNode(row rowScanner) (nodes.Node, error) {
	var (
		n         nodes.Node
		ownerID   sql.NullInt64
		ownerType sql.NullString
		status    sql.NullString
	)
	err := row.Scan(&n.ID, &n.Type, &ownerID, &ownerType, &n.FSPath,
		&n.HasDependents, &status, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nodes.Node{}, err
	}
	if ownerID.Valid {
		n.OwnerID = &ownerID.Int64
	}
	if ownerType.Valid {
		n.OwnerType = schema.Type(ownerType.String)
	}
	if status.Valid {
		n.Status = nodes.Status(status.String)
	}
	return n, nil
}

func requireRow(res sql.Result, missing error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return missing
	}
	return nil
}
