package helper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	"github.com/stretchr/testify/require"

	"github.com/ActivismeBe/geo-dataset/dataset/sqlengine"
)

// Environment variables selecting the Postgres test database.
const (
	EnvPostgresDSN = "TEST_POSTGRES_DSN"
	EnvAdapterType = "ADAPTER_TYPE"
)

// Adapter type values of ADAPTER_TYPE.
const (
	AdapterTypePGXPool = "pgxpool"
	AdapterTypeSQLDB   = "sqldb"
	AdapterTypeSQLX    = "sqlx"
)

const (
	createPostgresProvincesTable = `CREATE TABLE provinces (
		id INTEGER PRIMARY KEY,
		province_name_nl VARCHAR(255) NOT NULL,
		province_name_fr VARCHAR(255) NOT NULL,
		province_name_de VARCHAR(255) NOT NULL
	)`

	createPostgresCitiesTable = `CREATE TABLE cities (
		id SERIAL PRIMARY KEY,
		province_id INTEGER NOT NULL REFERENCES provinces (id),
		postal_code VARCHAR(10) NOT NULL,
		city_name VARCHAR(255) NOT NULL,
		lat_num DECIMAL(10, 7),
		lng_num DECIMAL(10, 7)
	)`

	dropPostgresTables = `DROP TABLE IF EXISTS cities, provinces`
)

// OpenPostgresAdapter connects to the database named by TEST_POSTGRES_DSN through the adapter type
// named by ADAPTER_TYPE (pgxpool by default) and recreates the cities schema with Brabant.
// The test is skipped when TEST_POSTGRES_DSN is not set.
func OpenPostgresAdapter(t testing.TB, options ...sqlengine.Option) *sqlengine.Adapter {
	t.Helper()

	dsn := os.Getenv(EnvPostgresDSN)
	if dsn == "" {
		t.Skipf("%s is not set", EnvPostgresDSN)
	}

	adapter := openPostgres(t, dsn, strings.ToLower(os.Getenv(EnvAdapterType)), options...)
	t.Cleanup(func() {
		execPostgres(t, adapter, dropPostgresTables)
		_ = adapter.Close() // makes no sense to handle this
	})

	execPostgres(t, adapter, dropPostgresTables)
	CreateCitySchema(t, adapter)
	GivenProvince(t, adapter, Brabant)

	return adapter
}

func openPostgres(t testing.TB, dsn, adapterType string, options ...sqlengine.Option) *sqlengine.Adapter {
	t.Helper()

	switch adapterType {
	case AdapterTypePGXPool, "":
		pool, err := pgxpool.New(context.Background(), dsn)
		require.NoError(t, err, "error connecting to DB pool in test setup")

		adapter, err := sqlengine.NewAdapterFromPGXPool(pool, options...)
		require.NoError(t, err)

		return adapter

	case AdapterTypeSQLDB:
		db, err := sql.Open("postgres", dsn)
		require.NoError(t, err, "error opening DB in test setup")

		adapter, err := sqlengine.NewAdapterFromSQLDB(db, "postgres", options...)
		require.NoError(t, err)

		return adapter

	case AdapterTypeSQLX:
		db, err := sqlx.Open("postgres", dsn)
		require.NoError(t, err, "error opening DB in test setup")

		adapter, err := sqlengine.NewAdapterFromSQLX(db, options...)
		require.NoError(t, err)

		return adapter

	default: // neither one of the known types nor empty
		panic(fmt.Sprintf("unsupported adapter type from env: %s", adapterType))
	}
}

func execPostgres(t testing.TB, adapter *sqlengine.Adapter, query string) {
	t.Helper()

	stmt, err := adapter.Prepare(query)
	require.NoError(t, err)
	require.NoError(t, stmt.Execute(context.Background()), "error resetting the cities schema")
}
