package adapters

import (
	"context"
	"database/sql"
)

// stdRows wraps standard library sql.Rows to implement DBRows interface.
type stdRows struct {
	rows *sql.Rows
}

// Next advances to the next row.
func (s *stdRows) Next() bool {
	return s.rows.Next()
}

// Columns returns the column names of the result set.
func (s *stdRows) Columns() ([]string, error) {
	return s.rows.Columns()
}

// Values scans the current row into generic values.
func (s *stdRows) Values() ([]any, error) {
	columns, err := s.rows.Columns()
	if err != nil {
		return nil, err
	}

	values := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	if err := s.rows.Scan(dest...); err != nil {
		return nil, err
	}

	return values, nil
}

// Err returns the error, if any, that was encountered during iteration.
func (s *stdRows) Err() error {
	return s.rows.Err()
}

// Close closes the rows iterator.
func (s *stdRows) Close() error {
	return s.rows.Close()
}

// stdResult wraps standard library sql.Result to implement DBResult interface.
type stdResult struct {
	result sql.Result
}

// RowsAffected returns the number of rows affected by the command.
func (s *stdResult) RowsAffected() (int64, error) {
	return s.result.RowsAffected()
}

// LastInsertId returns the id generated by the command, if the driver supports it.
func (s *stdResult) LastInsertId() (int64, error) {
	return s.result.LastInsertId()
}

// stdTx wraps standard library sql.Tx to implement DBTx interface.
type stdTx struct {
	tx *sql.Tx
}

// Query executes a query inside the transaction and returns wrapped rows.
func (s *stdTx) Query(ctx context.Context, query string, args ...any) (DBRows, error) {
	rows, err := s.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return &stdRows{rows: rows}, nil
}

// Exec executes a command inside the transaction and returns wrapped result.
func (s *stdTx) Exec(ctx context.Context, query string, args ...any) (DBResult, error) {
	result, err := s.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return &stdResult{result: result}, nil
}

// Commit commits the transaction.
func (s *stdTx) Commit(_ context.Context) error {
	return s.tx.Commit()
}

// Rollback aborts the transaction.
func (s *stdTx) Rollback(_ context.Context) error {
	return s.tx.Rollback()
}
