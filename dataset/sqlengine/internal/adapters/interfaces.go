package adapters

import "context"

// DBQuerier defines the query and exec operations shared by connections and transactions.
type DBQuerier interface {
	Query(ctx context.Context, query string, args ...any) (DBRows, error)
	Exec(ctx context.Context, query string, args ...any) (DBResult, error)
}

// DBAdapter defines the interface for database operations needed by the engine.
type DBAdapter interface {
	DBQuerier
	Begin(ctx context.Context) (DBTx, error)
	Ping(ctx context.Context) error
	Close() error
	DriverName() string
}

// DBTx defines the interface for an active transaction.
type DBTx interface {
	DBQuerier
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// DBRows defines the interface for query result rows.
type DBRows interface {
	Next() bool
	Columns() ([]string, error)
	Values() ([]any, error)
	Err() error
	Close() error
}

// DBResult defines the interface for execution results.
type DBResult interface {
	RowsAffected() (int64, error)
	LastInsertId() (int64, error)
}
