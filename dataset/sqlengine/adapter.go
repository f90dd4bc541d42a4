package sqlengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/ActivismeBe/geo-dataset/dataset"
	"github.com/ActivismeBe/geo-dataset/dataset/sqlengine/internal/adapters"
)

const (
	logMsgSQLExecuted          = "executed sql for: "
	logMsgOperation            = "sqlengine operation: "
	logMsgDBQueryFailed        = "database query execution failed"
	logMsgDBExecFailed         = "database statement execution failed"
	logMsgBindFailed           = "binding statement parameters failed"
	logMsgScanRowFailed        = "failed to scan database row"
	logMsgCloseRowsFailed      = "failed to close database rows"
	logMsgRowsAffectedFailed   = "failed to get rows affected count"
	logMsgTransactionFailed    = "transaction operation failed"
	logMsgTransactionBegun     = "transaction begun"
	logMsgTransactionCommitted = "transaction committed"
	logMsgTransactionRolled    = "transaction rolled back"
	logAttrError               = "error"
	logAttrQuery               = "query"
	logAttrDurationMS          = "duration_ms"
	logAttrRowCount            = "row_count"
	logActionQuery             = "query"
	logActionExec              = "exec"

	// DialectMySQL is the goqu dialect name for MySQL connections.
	DialectMySQL = "mysql"

	// DialectPostgres is the goqu dialect name for PostgreSQL connections (lib/pq and pgx).
	DialectPostgres = "postgres"

	// DialectSQLite is the goqu dialect name for SQLite connections.
	DialectSQLite = "sqlite3"
)

// Adapter is an open database connection with prepare/bind/execute/fetch semantics.
type Adapter struct {
	db         adapters.DBAdapter
	tx         adapters.DBTx
	lastResult adapters.DBResult
	bindType   int
	dialect    string
	logger     Logger
}

// NewAdapterFromPGXPool creates a new Adapter using a pgx Pool with optional configuration.
func NewAdapterFromPGXPool(pool *pgxpool.Pool, options ...Option) (*Adapter, error) {
	if pool == nil {
		return nil, dataset.ErrNilDatabaseConnection
	}

	return newAdapter(adapters.NewPGXAdapter(pool), options...)
}

// NewAdapterFromSQLDB creates a new Adapter using a sql.DB opened with driverName.
func NewAdapterFromSQLDB(db *sql.DB, driverName string, options ...Option) (*Adapter, error) {
	if db == nil {
		return nil, dataset.ErrNilDatabaseConnection
	}

	return newAdapter(adapters.NewSQLAdapter(db, driverName), options...)
}

// NewAdapterFromSQLX creates a new Adapter using a sqlx.DB with optional configuration.
func NewAdapterFromSQLX(db *sqlx.DB, options ...Option) (*Adapter, error) {
	if db == nil {
		return nil, dataset.ErrNilDatabaseConnection
	}

	return newAdapter(adapters.NewSQLXAdapter(db), options...)
}

func newAdapter(db adapters.DBAdapter, options ...Option) (*Adapter, error) {
	a := &Adapter{
		db:       db,
		bindType: sqlx.BindType(db.DriverName()),
		dialect:  dialectFor(db.DriverName()),
	}

	for _, option := range options {
		if err := option(a); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// dialectFor maps a database/sql driver name to the matching goqu dialect.
func dialectFor(driverName string) string {
	switch driverName {
	case "postgres", adapters.PGXDriverName:
		return DialectPostgres
	case "mysql":
		return DialectMySQL
	case "sqlite3":
		return DialectSQLite
	default:
		return driverName
	}
}

// Dialect returns the goqu dialect name matching the connection's driver.
func (a *Adapter) Dialect() string {
	return a.dialect
}

// Ping verifies the connection is alive.
func (a *Adapter) Ping(ctx context.Context) error {
	if err := a.db.Ping(ctx); err != nil {
		return WrapDriverError(err)
	}

	return nil
}

// Close rolls back a still active transaction and closes the connection.
func (a *Adapter) Close() error {
	if a.tx != nil {
		if rollbackErr := a.tx.Rollback(context.Background()); rollbackErr != nil {
			a.logWarning(logMsgTransactionFailed, rollbackErr)
		}

		a.tx = nil
	}

	return a.db.Close()
}

// Prepare stores the SQL template for later binding and execution.
func (a *Adapter) Prepare(query string) (*Statement, error) {
	if query == "" {
		return nil, dataset.ErrEmptyQuery
	}

	return &Statement{
		adapter: a,
		query:   query,
		params:  make(map[string]boundParam),
	}, nil
}

// LastInsertID returns the id generated by the last executed statement.
func (a *Adapter) LastInsertID() (int64, error) {
	if a.lastResult == nil {
		return 0, nil
	}

	id, err := a.lastResult.LastInsertId()
	if err != nil {
		if errors.Is(err, dataset.ErrLastInsertIDUnsupported) {
			return 0, err
		}

		return 0, WrapDriverError(err)
	}

	return id, nil
}

// BeginTransaction starts a transaction; statements run inside it until Commit or Rollback.
func (a *Adapter) BeginTransaction(ctx context.Context) error {
	if a.tx != nil {
		return dataset.ErrTransactionAlreadyActive
	}

	tx, err := a.db.Begin(ctx)
	if err != nil {
		a.logError(logMsgTransactionFailed, err)
		return WrapDriverError(err)
	}

	a.tx = tx
	a.logOperation(logMsgTransactionBegun)

	return nil
}

// Commit commits the active transaction.
func (a *Adapter) Commit(ctx context.Context) error {
	if a.tx == nil {
		return dataset.ErrNoActiveTransaction
	}

	tx := a.tx
	a.tx = nil

	if err := tx.Commit(ctx); err != nil {
		a.logError(logMsgTransactionFailed, err)
		return WrapDriverError(err)
	}

	a.logOperation(logMsgTransactionCommitted)

	return nil
}

// Rollback aborts the active transaction.
func (a *Adapter) Rollback(ctx context.Context) error {
	if a.tx == nil {
		return dataset.ErrNoActiveTransaction
	}

	tx := a.tx
	a.tx = nil

	if err := tx.Rollback(ctx); err != nil {
		a.logError(logMsgTransactionFailed, err)
		return WrapDriverError(err)
	}

	a.logOperation(logMsgTransactionRolled)

	return nil
}

// InTransaction reports whether a transaction is active.
func (a *Adapter) InTransaction() bool {
	return a.tx != nil
}

// querier returns the active transaction, or the connection when there is none.
func (a *Adapter) querier() adapters.DBQuerier {
	if a.tx != nil {
		return a.tx
	}

	return a.db
}

// query runs sqlQuery and logs it with its duration.
func (a *Adapter) query(ctx context.Context, sqlQuery string, args []any) (adapters.DBRows, error) {
	start := time.Now()
	rows, err := a.querier().Query(ctx, sqlQuery, args...)
	a.logQueryWithDuration(sqlQuery, logActionQuery, time.Since(start))

	if err != nil {
		a.logError(logMsgDBQueryFailed, err, logAttrQuery, sqlQuery)
		return nil, errors.Join(dataset.ErrExecutingStatementFailed, WrapDriverError(err))
	}

	return rows, nil
}

// exec runs sqlQuery as a command and logs it with its duration.
func (a *Adapter) exec(ctx context.Context, sqlQuery string, args []any) (adapters.DBResult, error) {
	start := time.Now()
	result, err := a.querier().Exec(ctx, sqlQuery, args...)
	a.logQueryWithDuration(sqlQuery, logActionExec, time.Since(start))

	if err != nil {
		a.logError(logMsgDBExecFailed, err, logAttrQuery, sqlQuery)
		return nil, errors.Join(dataset.ErrExecutingStatementFailed, WrapDriverError(err))
	}

	a.lastResult = result

	return result, nil
}

// closeRows safely closes database rows and logs any errors.
func (a *Adapter) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		a.logWarning(logMsgCloseRowsFailed, closeErr)
	}
}
