package sqlengine_test

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ActivismeBe/geo-dataset/dataset"
	"github.com/ActivismeBe/geo-dataset/dataset/sqlengine"
	. "github.com/ActivismeBe/geo-dataset/testutil/helper" //nolint:revive
)

func Test_FactoryFunctions_ShouldFail_WithNilDatabaseConnection(t *testing.T) {
	testCases := []struct {
		name        string
		factoryFunc func() (*sqlengine.Adapter, error)
	}{
		{
			name: "NewAdapterFromPGXPool with nil",
			factoryFunc: func() (*sqlengine.Adapter, error) {
				return sqlengine.NewAdapterFromPGXPool(nil)
			},
		},
		{
			name: "NewAdapterFromSQLDB with nil",
			factoryFunc: func() (*sqlengine.Adapter, error) {
				return sqlengine.NewAdapterFromSQLDB(nil, "mysql")
			},
		},
		{
			name: "NewAdapterFromSQLX with nil",
			factoryFunc: func() (*sqlengine.Adapter, error) {
				return sqlengine.NewAdapterFromSQLX(nil)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := tc.factoryFunc()

			// assert
			assert.ErrorIs(t, err, dataset.ErrNilDatabaseConnection)
		})
	}
}

func Test_FactoryFunctions_Dialect_FollowsDriver(t *testing.T) {
	testCases := []struct {
		driverName string
		want       string
	}{
		{driverName: "mysql", want: sqlengine.DialectMySQL},
		{driverName: "postgres", want: sqlengine.DialectPostgres},
		{driverName: "sqlite3", want: sqlengine.DialectSQLite},
	}

	for _, tc := range testCases {
		t.Run(tc.driverName, func(t *testing.T) {
			// sql.Open does not connect, so an unused handle is enough to inspect the dialect
			db, err := sql.Open("sqlite3", ":memory:")
			require.NoError(t, err)
			defer func() { _ = db.Close() }()

			adapter, err := sqlengine.NewAdapterFromSQLDB(db, tc.driverName)
			require.NoError(t, err)

			assert.Equal(t, tc.want, adapter.Dialect())
		})
	}
}

func Test_Adapter_Prepare_ShouldFail_WithEmptyQuery(t *testing.T) {
	adapter := OpenSQLiteAdapter(t)

	_, err := adapter.Prepare("")

	assert.ErrorIs(t, err, dataset.ErrEmptyQuery)
}

func Test_Adapter_Ping(t *testing.T) {
	adapter := OpenSQLiteAdapter(t)

	assert.NoError(t, adapter.Ping(context.Background()))
}

func Test_Statement_FetchAll_ReturnsRowsInQueryOrder(t *testing.T) {
	// setup
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	adapter := OpenSeededSQLiteAdapter(t)

	// arrange
	GivenCity(t, adapter, Brabant.ID, dataset.CityRecord{PostalCode: "3000", CityName: "Leuven", Latitude: 50.8798, Longitude: 4.7005})
	GivenCity(t, adapter, Brabant.ID, dataset.CityRecord{PostalCode: "1800", CityName: "Vilvoorde", Latitude: 50.9281, Longitude: 4.4245})
	GivenCity(t, adapter, Brabant.ID, dataset.CityRecord{PostalCode: "3300", CityName: "Tienen", Latitude: 50.8077, Longitude: 4.9381})

	stmt, err := adapter.Prepare("SELECT city_name, postal_code FROM cities WHERE province_id = :province ORDER BY city_name ASC")
	require.NoError(t, err)
	stmt.Bind(":province", Brabant.ID)

	// act
	rows, err := stmt.FetchAll(ctx)

	// assert
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, int64(3), stmt.RowCount())
	assert.Equal(t, []string{"city_name", "postal_code"}, rows[0].Columns())

	names := make([]any, 0, len(rows))
	for _, row := range rows {
		name, ok := row.Get("city_name")
		require.True(t, ok)
		names = append(names, name)
	}
	assert.Equal(t, []any{"Leuven", "Tienen", "Vilvoorde"}, names)
	assert.Equal(t, map[string]any{"city_name": "Leuven", "postal_code": "3000"}, rows[0].Map())
}

func Test_Statement_FetchAll_ReturnsEmptySlice_WhenNothingMatches(t *testing.T) {
	adapter := OpenSeededSQLiteAdapter(t)

	stmt, err := adapter.Prepare("SELECT id FROM cities")
	require.NoError(t, err)

	rows, err := stmt.FetchAll(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
	assert.Equal(t, int64(0), stmt.RowCount())
}

func Test_Statement_FetchOne(t *testing.T) {
	// setup
	ctx := context.Background()
	adapter := OpenSeededSQLiteAdapter(t)
	gent := GivenCity(t, adapter, Brabant.ID, dataset.CityRecord{PostalCode: "9000", CityName: "Gent", Latitude: 51.05, Longitude: 3.7167})

	stmt, err := adapter.Prepare("SELECT id, city_name FROM cities WHERE id = :id")
	require.NoError(t, err)

	// act
	stmt.Bind("id", gent.ID)
	row, found, err := stmt.FetchOne(ctx)

	// assert
	require.NoError(t, err)
	assert.True(t, found)
	name, _ := row.Get("city_name")
	assert.Equal(t, "Gent", name)

	// act: rebinding replaces the previous value
	stmt.Bind("id", gent.ID+100)
	_, found, err = stmt.FetchOne(ctx)

	// assert
	require.NoError(t, err)
	assert.False(t, found)
}

func Test_Statement_Execute_ReportsRowCountAndLastInsertID(t *testing.T) {
	// setup
	ctx := context.Background()
	adapter := OpenSeededSQLiteAdapter(t)

	// arrange
	first := GivenCity(t, adapter, Brabant.ID, dataset.CityRecord{PostalCode: "3000", CityName: "Leuven"})
	second := GivenCity(t, adapter, Brabant.ID, dataset.CityRecord{PostalCode: "3001", CityName: "Heverlee"})

	// assert ids are generated in order
	assert.Equal(t, first.ID+1, second.ID)

	// act
	stmt, err := adapter.Prepare("UPDATE cities SET postal_code = :postal_code WHERE province_id = :province")
	require.NoError(t, err)
	stmt.Bind("postal_code", "3000")
	stmt.Bind("province", Brabant.ID)
	require.NoError(t, stmt.Execute(ctx))

	// assert
	assert.Equal(t, int64(2), stmt.RowCount())
}

func Test_Statement_BindTyped_NullOverridesValue(t *testing.T) {
	// setup
	ctx := context.Background()
	adapter := OpenSeededSQLiteAdapter(t)
	city := GivenCity(t, adapter, Brabant.ID, dataset.CityRecord{PostalCode: "3000", CityName: "Leuven", Latitude: 50.8798, Longitude: 4.7005})

	// act
	update, err := adapter.Prepare("UPDATE cities SET lat_num = :lat WHERE id = :id")
	require.NoError(t, err)
	update.BindTyped("lat", 50.8798, sqlengine.ParamNull)
	update.Bind("id", city.ID)
	require.NoError(t, update.Execute(ctx))

	// assert
	query, err := adapter.Prepare("SELECT lat_num FROM cities WHERE id = :id")
	require.NoError(t, err)
	query.Bind("id", city.ID)
	row, found, err := query.FetchOne(ctx)
	require.NoError(t, err)
	require.True(t, found)
	lat, _ := row.Get("lat_num")
	assert.Nil(t, lat)

	typ, ok := update.ParamType("lat")
	assert.True(t, ok)
	assert.Equal(t, sqlengine.ParamNull, typ)
}

func Test_Statement_ShouldFail_WithUnboundPlaceholder(t *testing.T) {
	adapter := OpenSeededSQLiteAdapter(t)

	stmt, err := adapter.Prepare("SELECT id FROM cities WHERE id = :id")
	require.NoError(t, err)

	_, err = stmt.FetchAll(context.Background())

	assert.ErrorIs(t, err, dataset.ErrBindingParamFailed)
}

func Test_Statement_ShouldFail_WithUncoercibleValue(t *testing.T) {
	adapter := OpenSeededSQLiteAdapter(t)

	stmt, err := adapter.Prepare("SELECT id FROM cities WHERE id = :id")
	require.NoError(t, err)
	stmt.BindTyped("id", "not-a-number", sqlengine.ParamInt)

	_, err = stmt.FetchAll(context.Background())

	assert.ErrorIs(t, err, dataset.ErrBindingParamFailed)
}

func Test_Statement_ShouldFail_WithUnknownTable(t *testing.T) {
	// setup
	testHandler := NewLogHandlerSpy(false)
	adapter := OpenSQLiteAdapter(t, sqlengine.WithLogger(slog.New(testHandler)))

	stmt, err := adapter.Prepare("SELECT id FROM missing_table")
	require.NoError(t, err)

	// act
	_, err = stmt.FetchAll(context.Background())

	// assert
	assert.ErrorIs(t, err, dataset.ErrExecutingStatementFailed)
	var dbErr *dataset.DatabaseError
	assert.ErrorAs(t, err, &dbErr)
	assert.False(t, dbErr.Normalized)
	assert.True(t, testHandler.HasErrorLogWithMessage("database query execution failed").Assert())
}

func Test_Statement_DebugDumpParams(t *testing.T) {
	adapter := OpenSQLiteAdapter(t)

	stmt, err := adapter.Prepare("SELECT :a, :b")
	require.NoError(t, err)
	stmt.Bind("a", 5)
	stmt.Bind("b", "x")

	dump := stmt.DebugDumpParams()

	assert.Contains(t, dump, "SQL: [13] SELECT :a, :b")
	assert.Contains(t, dump, "Params: 2")
	assert.Contains(t, dump, "Key: :a\nparamno=0\nparam_type=int\nvalue=5")
	assert.Contains(t, dump, "Key: :b\nparamno=1\nparam_type=string\nvalue=x")
}

func Test_Adapter_Transactions(t *testing.T) {
	// setup
	ctx := context.Background()
	adapter := OpenSeededSQLiteAdapter(t)

	countCities := func() int64 {
		stmt, err := adapter.Prepare("SELECT id FROM cities")
		require.NoError(t, err)
		_, err = stmt.FetchAll(ctx)
		require.NoError(t, err)
		return stmt.RowCount()
	}

	// rollback discards the insert
	require.NoError(t, adapter.BeginTransaction(ctx))
	assert.True(t, adapter.InTransaction())
	assert.ErrorIs(t, adapter.BeginTransaction(ctx), dataset.ErrTransactionAlreadyActive)
	GivenCity(t, adapter, Brabant.ID, dataset.CityRecord{PostalCode: "1000", CityName: "Brussel"})
	assert.Equal(t, int64(1), countCities())
	require.NoError(t, adapter.Rollback(ctx))
	assert.False(t, adapter.InTransaction())
	assert.Equal(t, int64(0), countCities())

	// commit keeps the insert
	require.NoError(t, adapter.BeginTransaction(ctx))
	GivenCity(t, adapter, Brabant.ID, dataset.CityRecord{PostalCode: "1000", CityName: "Brussel"})
	require.NoError(t, adapter.Commit(ctx))
	assert.Equal(t, int64(1), countCities())

	// nothing left to finish
	assert.ErrorIs(t, adapter.Commit(ctx), dataset.ErrNoActiveTransaction)
	assert.ErrorIs(t, adapter.Rollback(ctx), dataset.ErrNoActiveTransaction)
}

func Test_Adapter_LastInsertID_WithoutExecution(t *testing.T) {
	adapter := OpenSQLiteAdapter(t)

	id, err := adapter.LastInsertID()

	assert.NoError(t, err)
	assert.Equal(t, int64(0), id)
}

func Test_Adapter_WithLogger_LogsStatements(t *testing.T) {
	// setup
	testHandler := NewLogHandlerSpy(false)
	adapter := OpenSeededSQLiteAdapter(t, sqlengine.WithLogger(slog.New(testHandler)))
	GivenCity(t, adapter, Brabant.ID, dataset.CityRecord{PostalCode: "3000", CityName: "Leuven"})

	stmt, err := adapter.Prepare("SELECT id FROM cities")
	require.NoError(t, err)

	// act
	_, err = stmt.FetchAll(context.Background())

	// assert
	require.NoError(t, err)
	assert.True(t, testHandler.HasDebugLogWithMessage("executed sql for: exec").WithDurationMS().Assert())
	assert.True(t, testHandler.HasDebugLogWithMessage("executed sql for: query").WithDurationMS().Assert())
	assert.True(t, testHandler.HasInfoLogWithMessage("sqlengine operation: query").WithIntAttr("row_count", 1).Assert())
}

func Test_Adapter_Close_RollsBackActiveTransaction(t *testing.T) {
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	adapter, err := sqlengine.NewAdapterFromSQLX(db)
	require.NoError(t, err)
	require.NoError(t, adapter.BeginTransaction(context.Background()))

	assert.NoError(t, adapter.Close())
	assert.False(t, adapter.InTransaction())
}
