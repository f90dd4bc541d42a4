package helper

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite driver
	"github.com/stretchr/testify/require"

	"github.com/ActivismeBe/geo-dataset/dataset/sqlengine"
)

const (
	createSQLiteProvincesTable = `CREATE TABLE provinces (
		id INTEGER PRIMARY KEY,
		province_name_nl TEXT NOT NULL,
		province_name_fr TEXT NOT NULL,
		province_name_de TEXT NOT NULL
	)`

	createSQLiteCitiesTable = `CREATE TABLE cities (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		province_id INTEGER NOT NULL REFERENCES provinces (id),
		postal_code TEXT NOT NULL,
		city_name TEXT NOT NULL,
		lat_num REAL,
		lng_num REAL
	)`
)

// OpenSQLiteAdapter opens an empty in-memory SQLite database wrapped in an Adapter.
// The adapter is closed when the test finishes.
func OpenSQLiteAdapter(t testing.TB, options ...sqlengine.Option) *sqlengine.Adapter {
	t.Helper()

	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err, "error opening sqlite in test setup")

	// every pooled connection would otherwise see its own empty in-memory database
	db.SetMaxOpenConns(1)

	adapter, err := sqlengine.NewAdapterFromSQLX(db, options...)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = adapter.Close() // makes no sense to handle this
	})

	return adapter
}

// OpenSeededSQLiteAdapter opens an in-memory SQLite database with the cities schema and Brabant.
func OpenSeededSQLiteAdapter(t testing.TB, options ...sqlengine.Option) *sqlengine.Adapter {
	t.Helper()

	adapter := OpenSQLiteAdapter(t, options...)
	CreateCitySchema(t, adapter)
	GivenProvince(t, adapter, Brabant)

	return adapter
}
