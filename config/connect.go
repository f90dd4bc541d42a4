package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // mysql driver
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite driver

	"github.com/ActivismeBe/geo-dataset/dataset"
	"github.com/ActivismeBe/geo-dataset/dataset/sqlengine"
)

// A single export runs one query, so the pools stay small.
const (
	defaultMaxOpenConnections = 4
	defaultMaxIdleConnections = 1
	defaultMaxConnLifetime    = time.Hour
	defaultMaxConnIdleTime    = time.Minute * 5
	defaultConnectTimeout     = time.Second * 10
)

// Connect opens the database cfg describes, verifies it with a ping and wraps it in an Adapter.
// Failures are returned as dataset.ErrConnectingFailed joined with a *dataset.DatabaseError.
func Connect(ctx context.Context, cfg Config, options ...sqlengine.Option) (*sqlengine.Adapter, error) {
	adapter, openErr := open(ctx, cfg, options...)
	if openErr != nil {
		return nil, errors.Join(dataset.ErrConnectingFailed, sqlengine.WrapDriverError(openErr))
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultConnectTimeout)
	defer cancel()

	if pingErr := adapter.Ping(pingCtx); pingErr != nil {
		_ = adapter.Close() // the ping error is the one worth reporting
		return nil, errors.Join(dataset.ErrConnectingFailed, pingErr)
	}

	return adapter, nil
}

func open(ctx context.Context, cfg Config, options ...sqlengine.Option) (*sqlengine.Adapter, error) {
	switch cfg.Driver {
	case DriverMySQL:
		return openSQLX(DriverMySQL, MySQLDSN(cfg), defaultMaxOpenConnections, options...)
	case DriverPostgres:
		return openSQLDB(DriverPostgres, PostgresDSN(cfg), options...)
	case DriverSQLite:
		// sqlite3 serializes writers
		return openSQLX(DriverSQLite, cfg.Name, 1, options...)
	case DriverPGX:
		return openPGXPool(ctx, cfg, options...)
	default:
		return nil, fmt.Errorf("%w, got %q", ErrUnsupportedDriver, cfg.Driver)
	}
}

func openSQLX(driverName, dsn string, maxOpen int, options ...sqlengine.Option) (*sqlengine.Adapter, error) {
	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(defaultMaxIdleConnections)
	db.SetConnMaxLifetime(defaultMaxConnLifetime)
	db.SetConnMaxIdleTime(defaultMaxConnIdleTime)

	adapter, err := sqlengine.NewAdapterFromSQLX(db, options...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return adapter, nil
}

func openSQLDB(driverName, dsn string, options ...sqlengine.Option) (*sqlengine.Adapter, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(defaultMaxOpenConnections)
	db.SetMaxIdleConns(defaultMaxIdleConnections)
	db.SetConnMaxLifetime(defaultMaxConnLifetime)
	db.SetConnMaxIdleTime(defaultMaxConnIdleTime)

	adapter, err := sqlengine.NewAdapterFromSQLDB(db, driverName, options...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return adapter, nil
}

func openPGXPool(ctx context.Context, cfg Config, options ...sqlengine.Option) (*sqlengine.Adapter, error) {
	poolConfig, err := pgxpool.ParseConfig(PostgresDSN(cfg))
	if err != nil {
		return nil, err
	}

	poolConfig.MaxConns = defaultMaxOpenConnections
	poolConfig.MaxConnLifetime = defaultMaxConnLifetime
	poolConfig.MaxConnIdleTime = defaultMaxConnIdleTime
	poolConfig.ConnConfig.ConnectTimeout = defaultConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}

	adapter, err := sqlengine.NewAdapterFromPGXPool(pool, options...)
	if err != nil {
		pool.Close()
		return nil, err
	}

	return adapter, nil
}
