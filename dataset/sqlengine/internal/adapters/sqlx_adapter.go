package adapters

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// SQLXAdapter implements DBAdapter for sqlx.DB
type SQLXAdapter struct {
	db *sqlx.DB
}

// NewSQLXAdapter creates a new SQLX adapter
func NewSQLXAdapter(db *sqlx.DB) *SQLXAdapter {
	return &SQLXAdapter{db: db}
}

// Query executes a query using the sqlx.DB and returns wrapped rows.
func (s *SQLXAdapter) Query(ctx context.Context, query string, args ...any) (DBRows, error) {
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &sqlxRows{rows: rows}, nil
}

// Exec executes a query using the sqlx.DB and returns wrapped result.
func (s *SQLXAdapter) Exec(ctx context.Context, query string, args ...any) (DBResult, error) {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &stdResult{result: result}, nil
}

// Begin starts a transaction on the sqlx.DB.
func (s *SQLXAdapter) Begin(ctx context.Context) (DBTx, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqlxTx{tx: tx}, nil
}

// Ping verifies the connection.
func (s *SQLXAdapter) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database handle.
func (s *SQLXAdapter) Close() error {
	return s.db.Close()
}

// DriverName returns the driver the sqlx.DB was opened with.
func (s *SQLXAdapter) DriverName() string {
	return s.db.DriverName()
}

// sqlxRows wraps sqlx.Rows to implement the DBRows interface.
type sqlxRows struct {
	rows *sqlx.Rows
}

func (s *sqlxRows) Next() bool {
	return s.rows.Next()
}

func (s *sqlxRows) Columns() ([]string, error) {
	return s.rows.Columns()
}

// Values returns the current row using sqlx's slice scan.
func (s *sqlxRows) Values() ([]any, error) {
	return s.rows.SliceScan()
}

func (s *sqlxRows) Err() error {
	return s.rows.Err()
}

func (s *sqlxRows) Close() error {
	return s.rows.Close()
}

// sqlxTx wraps sqlx.Tx to implement the DBTx interface.
type sqlxTx struct {
	tx *sqlx.Tx
}

func (s *sqlxTx) Query(ctx context.Context, query string, args ...any) (DBRows, error) {
	rows, err := s.tx.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &sqlxRows{rows: rows}, nil
}

func (s *sqlxTx) Exec(ctx context.Context, query string, args ...any) (DBResult, error) {
	result, err := s.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &stdResult{result: result}, nil
}

func (s *sqlxTx) Commit(_ context.Context) error {
	return s.tx.Commit()
}

func (s *sqlxTx) Rollback(_ context.Context) error {
	return s.tx.Rollback()
}
