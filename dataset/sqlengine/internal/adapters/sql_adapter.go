package adapters

import (
	"context"
	"database/sql"
)

// SQLAdapter implements DBAdapter for sql.DB
type SQLAdapter struct {
	db         *sql.DB
	driverName string
}

// NewSQLAdapter creates a new SQL adapter for a handle opened with driverName
func NewSQLAdapter(db *sql.DB, driverName string) *SQLAdapter {
	return &SQLAdapter{db: db, driverName: driverName}
}

func (s *SQLAdapter) Query(ctx context.Context, query string, args ...any) (DBRows, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &stdRows{rows: rows}, nil
}

func (s *SQLAdapter) Exec(ctx context.Context, query string, args ...any) (DBResult, error) {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &stdResult{result: result}, nil
}

func (s *SQLAdapter) Begin(ctx context.Context) (DBTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &stdTx{tx: tx}, nil
}

func (s *SQLAdapter) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLAdapter) Close() error {
	return s.db.Close()
}

func (s *SQLAdapter) DriverName() string {
	return s.driverName
}
