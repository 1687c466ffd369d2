package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	interfaces "github.com/sheikh-saqib/personal-finance-tracker/internal/interfaces" // interface Store
	"github.com/sheikh-saqib/personal-finance-tracker/internal/storage"
)

// PostgresStore implements interfaces.Store on top of database/sql and lib/pq.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db: db,
	}
}

// Open connects to dsn with the lib/pq driver and verifies the connection.
func Open(ctx context.Context, dsn string, maxOpenConns int) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(maxOpenConns / 2)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

type txKey struct{}

// querier is the subset of *sql.DB and *sql.Tx the store needs.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func txFrom(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return tx, ok
}

// conn returns the transaction carried by ctx, or the pool.
func (p *PostgresStore) conn(ctx context.Context) querier {
	if tx, ok := txFrom(ctx); ok {
		return tx
	}
	return p.db
}

// forUpdate returns the row-lock suffix for reads made inside a unit of work.
func forUpdate(ctx context.Context) string {
	if _, ok := txFrom(ctx); ok {
		return " FOR UPDATE"
	}
	return ""
}

// WithinTx implements interfaces.TxManager.
func (p *PostgresStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := txFrom(ctx); ok {
		return fn(ctx)
	}

	dbTx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			dbTx.Rollback()
			panic(r)
		}
		if err != nil {
			dbTx.Rollback()
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, dbTx)); err != nil {
		return err
	}
	return dbTx.Commit()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	return err
}

// foreignKeyViolation is the SQLSTATE raised when a RESTRICT reference blocks a delete.
const foreignKeyViolation = "23503"

func referenced(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
		return storage.ErrReferenced
	}
	return err
}

// expectOne maps a zero-row write to storage.ErrNotFound.
func expectOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

var _ interfaces.Store = (*PostgresStore)(nil)
