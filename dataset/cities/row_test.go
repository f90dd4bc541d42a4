package cities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ActivismeBe/geo-dataset/dataset"
	"github.com/ActivismeBe/geo-dataset/dataset/cities"
	"github.com/ActivismeBe/geo-dataset/dataset/sqlengine"
)

var cityColumns = []string{
	"id", "postal_code", "city_name", "lat_num", "lng_num",
	"province_name_nl", "province_name_fr", "province_name_de",
}

func Test_CityRecordFromRow_AcceptsDriverValueShapes(t *testing.T) {
	testCases := []struct {
		name   string
		values []any
	}{
		{
			name:   "native numbers",
			values: []any{int64(7), "1000", "Brussel", 50.8503, 4.3517, "Brussel", "Bruxelles", "Brüssel"},
		},
		{
			name:   "text protocol",
			values: []any{[]byte("7"), []byte("1000"), []byte("Brussel"), []byte("50.8503"), []byte("4.3517"), []byte("Brussel"), []byte("Bruxelles"), []byte("Brüssel")},
		},
		{
			name:   "int32 id and integer postal code",
			values: []any{int32(7), int64(1000), "Brussel", "50.8503", "4.3517", "Brussel", "Bruxelles", "Brüssel"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			city, err := cities.CityRecordFromRow(sqlengine.NewRow(cityColumns, tc.values))

			// assert
			require.NoError(t, err)
			assert.Equal(t, dataset.CityRecord{
				ID:             7,
				PostalCode:     "1000",
				CityName:       "Brussel",
				Latitude:       50.8503,
				Longitude:      4.3517,
				ProvinceNameNL: "Brussel",
				ProvinceNameFR: "Bruxelles",
				ProvinceNameDE: "Brüssel",
			}, city)
		})
	}
}

func Test_CityRecordFromRow_ShouldFail_WithMalformedValues(t *testing.T) {
	testCases := []struct {
		name   string
		values []any
	}{
		{name: "null id", values: []any{nil, "1000", "Brussel", 50.8503, 4.3517, "", "", ""}},
		{name: "fractional id", values: []any{7.5, "1000", "Brussel", 50.8503, 4.3517, "", "", ""}},
		{name: "null latitude", values: []any{int64(7), "1000", "Brussel", nil, 4.3517, "", "", ""}},
		{name: "text longitude", values: []any{int64(7), "1000", "Brussel", 50.8503, "east", "", "", ""}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := cities.CityRecordFromRow(sqlengine.NewRow(cityColumns, tc.values))

			assert.ErrorIs(t, err, dataset.ErrMalformedCityRow)
		})
	}
}

func Test_CityRecordFromRow_ShouldFail_WithMissingColumn(t *testing.T) {
	row := sqlengine.NewRow([]string{"id", "city_name"}, []any{int64(1), "Gent"})

	_, err := cities.CityRecordFromRow(row)

	assert.ErrorIs(t, err, dataset.ErrMalformedCityRow)
}
