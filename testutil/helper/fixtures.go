package helper

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"

	"github.com/ActivismeBe/geo-dataset/dataset"
	"github.com/ActivismeBe/geo-dataset/dataset/sqlengine"
)

const (
	insertProvince = `INSERT INTO provinces (id, province_name_nl, province_name_fr, province_name_de)
		VALUES (:id, :nl, :fr, :de)`

	insertCity = `INSERT INTO cities (province_id, postal_code, city_name, lat_num, lng_num)
		VALUES (:province_id, :postal_code, :city_name, :lat, :lng)`
)

// Province is a seeded province row.
type Province struct {
	ID     int64
	NameNL string
	NameFR string
	NameDE string
}

// Brabant is the province every fixture city belongs to unless stated otherwise.
var Brabant = Province{ID: 1, NameNL: "Vlaams-Brabant", NameFR: "Brabant flamand", NameDE: "Flämisch-Brabant"}

// CreateCitySchema creates the provinces and cities tables in the adapter's dialect.
func CreateCitySchema(t testing.TB, adapter *sqlengine.Adapter) {
	t.Helper()

	ddls := []string{createSQLiteProvincesTable, createSQLiteCitiesTable}
	if adapter.Dialect() == sqlengine.DialectPostgres {
		ddls = []string{createPostgresProvincesTable, createPostgresCitiesTable}
	}

	for _, ddl := range ddls {
		stmt, err := adapter.Prepare(ddl)
		require.NoError(t, err)
		require.NoError(t, stmt.Execute(context.Background()))
	}
}

// GivenProvince inserts a province.
func GivenProvince(t testing.TB, adapter *sqlengine.Adapter, province Province) {
	t.Helper()

	stmt, err := adapter.Prepare(insertProvince)
	require.NoError(t, err)

	stmt.Bind("id", province.ID)
	stmt.Bind("nl", province.NameNL)
	stmt.Bind("fr", province.NameFR)
	stmt.Bind("de", province.NameDE)

	require.NoError(t, stmt.Execute(context.Background()))
}

// GivenCity inserts a city into provinceID and returns it with its generated id.
// Postgres reports the id through RETURNING, the other dialects through LastInsertID.
func GivenCity(t testing.TB, adapter *sqlengine.Adapter, provinceID int64, city dataset.CityRecord) dataset.CityRecord {
	t.Helper()

	returning := adapter.Dialect() == sqlengine.DialectPostgres

	query := insertCity
	if returning {
		query += " RETURNING id"
	}

	stmt, err := adapter.Prepare(query)
	require.NoError(t, err)

	stmt.Bind("province_id", provinceID)
	stmt.Bind("postal_code", city.PostalCode)
	stmt.Bind("city_name", city.CityName)
	stmt.Bind("lat", city.Latitude)
	stmt.Bind("lng", city.Longitude)

	if returning {
		row, found, fetchErr := stmt.FetchOne(context.Background())
		require.NoError(t, fetchErr)
		require.True(t, found)

		value, _ := row.Get("id")
		switch id := value.(type) {
		case int32:
			city.ID = int64(id)
		case int64:
			city.ID = id
		default:
			require.Failf(t, "unexpected id type", "%T", value)
		}

		return city
	}

	require.NoError(t, stmt.Execute(context.Background()))

	id, err := adapter.LastInsertID()
	require.NoError(t, err)

	city.ID = id

	return city
}

// CityFaker generates plausible Belgian cities.
type CityFaker struct {
	*gofakeit.Faker
}

// NewCityFaker creates a deterministic faker for seed.
func NewCityFaker(seed uint64) *CityFaker {
	return &CityFaker{Faker: gofakeit.New(seed)}
}

// City returns a city inside the Belgian bounding box with a four digit postal code.
func (f *CityFaker) City() dataset.CityRecord {
	return dataset.CityRecord{
		PostalCode: f.Numerify("####"),
		CityName:   f.Faker.City(),
		Latitude:   f.Float64Range(49.5, 51.5),
		Longitude:  f.Float64Range(2.5, 6.4),
	}
}
