package cities_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ActivismeBe/geo-dataset/dataset"
	"github.com/ActivismeBe/geo-dataset/dataset/cities"
	. "github.com/ActivismeBe/geo-dataset/testutil/helper" //nolint:revive
)

func Test_NewExporter_ShouldFail_WithNilAdapter(t *testing.T) {
	_, err := cities.NewExporter(nil)

	assert.ErrorIs(t, err, dataset.ErrNilDatabaseConnection)
}

func Test_NewExporter_ShouldFail_WithEmptyOutputPath(t *testing.T) {
	adapter := OpenSQLiteAdapter(t)

	_, err := cities.NewExporter(adapter, cities.WithOutputPath(""))

	assert.ErrorIs(t, err, cities.ErrEmptyOutputPath)
}

func Test_NewExporter_DefaultOutputPath(t *testing.T) {
	adapter := OpenSQLiteAdapter(t)

	exporter, err := cities.NewExporter(adapter)

	require.NoError(t, err)
	assert.Equal(t, "dataset/json/belgian-cities.json", exporter.OutputPath())
}

func Test_Exporter_Collect_OrdersByCityNameWithLongitudeFirst(t *testing.T) {
	// setup
	ctx := context.Background()
	adapter := OpenSeededSQLiteAdapter(t)

	// arrange
	leuven := GivenCity(t, adapter, Brabant.ID, dataset.CityRecord{PostalCode: "3000", CityName: "Leuven", Latitude: 50.8798, Longitude: 4.7005})
	aarschot := GivenCity(t, adapter, Brabant.ID, dataset.CityRecord{PostalCode: "3200", CityName: "Aarschot", Latitude: 50.9870, Longitude: 4.8365})

	exporter, err := cities.NewExporter(adapter)
	require.NoError(t, err)

	// act
	fc, err := exporter.Collect(ctx)

	// assert
	require.NoError(t, err)
	require.Equal(t, 2, fc.Len())

	first := fc.Features[0]
	assert.Equal(t, aarschot.ID, first.ID)
	assert.Equal(t, dataset.TypeFeature, first.Type)
	assert.Equal(t, dataset.TypePoint, first.Geometry.Type)
	assert.Equal(t, [2]float64{4.8365, 50.9870}, first.Geometry.Coordinates)
	assert.Equal(t, "Aarschot", first.Properties.Name)
	assert.Equal(t, dataset.NewScalar("3200"), first.Properties.PostalCode)

	assert.Equal(t, leuven.ID, fc.Features[1].ID)
	assert.Equal(t, 4.7005, fc.Features[1].Geometry.Longitude())
	assert.Equal(t, 50.8798, fc.Features[1].Geometry.Latitude())
}

func Test_Exporter_Collect_FakedCities(t *testing.T) {
	// setup
	ctx := context.Background()
	adapter := OpenSeededSQLiteAdapter(t)
	faker := NewCityFaker(42)

	// arrange
	names := make([]string, 0, 25)
	for range 25 {
		city := GivenCity(t, adapter, Brabant.ID, faker.City())
		names = append(names, city.CityName)
	}
	sort.Strings(names)

	exporter, err := cities.NewExporter(adapter)
	require.NoError(t, err)

	// act
	fc, err := exporter.Collect(ctx)

	// assert
	require.NoError(t, err)
	require.Equal(t, len(names), fc.Len())

	for i, feature := range fc.Features {
		assert.Equal(t, names[i], feature.Properties.Name)
		assert.True(t, feature.Properties.PostalCode.IsNumeric())
		assert.InDelta(t, 4.45, feature.Geometry.Longitude(), 1.95)
		assert.InDelta(t, 50.5, feature.Geometry.Latitude(), 1.0)
	}
}

func Test_Exporter_Run_WritesDatasetFile(t *testing.T) {
	// setup
	ctx := context.Background()
	testHandler := NewLogHandlerSpy(false)
	adapter := OpenSeededSQLiteAdapter(t)
	outputPath := filepath.Join(t.TempDir(), "dataset", "json", "belgian-cities.json")
	stdout := &bytes.Buffer{}

	// arrange
	gent := GivenCity(t, adapter, Brabant.ID, dataset.CityRecord{PostalCode: "9000", CityName: "Gent", Latitude: 51.05, Longitude: 3.7167})

	exporter, err := cities.NewExporter(
		adapter,
		cities.WithOutputPath(outputPath),
		cities.WithStdout(stdout),
		cities.WithLogger(slog.New(testHandler)),
	)
	require.NoError(t, err)

	// act
	err = exporter.Run(ctx)

	// assert
	require.NoError(t, err)
	assert.Equal(t, "The data has been converted to a json file.\n", stdout.String())

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"type":"FeatureCollection","features":[
			{"id":`+strconv.FormatInt(gent.ID, 10)+`,"type":"Feature",
			 "geometry":{"type":"Point","coordinates":[3.7167,51.05]},
			 "properties":{"name":"Gent","postal_code":9000}}
		]}`,
		string(data),
	)

	fc, err := dataset.DecodeFeatureCollection(data)
	require.NoError(t, err)
	assert.Equal(t, 1, fc.Len())

	assert.True(t, testHandler.HasInfoLogWithMessage("cities export finished").
		WithAttr("run_id").
		WithIntAttr("feature_count", 1).
		Assert())
	assert.True(t, testHandler.HasInfoLogWithMessage("cities export finished").WithDurationMS().Assert())
}

func Test_Exporter_Run_WritesEmptyCollection(t *testing.T) {
	// setup
	adapter := OpenSeededSQLiteAdapter(t)
	outputPath := filepath.Join(t.TempDir(), "belgian-cities.json")

	exporter, err := cities.NewExporter(adapter, cities.WithOutputPath(outputPath), cities.WithStdout(&bytes.Buffer{}))
	require.NoError(t, err)

	// act
	require.NoError(t, exporter.Run(context.Background()))

	// assert
	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"FeatureCollection","features":[]}`, string(data))
}

func Test_Exporter_Run_ReplacesExistingFile(t *testing.T) {
	// setup
	adapter := OpenSeededSQLiteAdapter(t)
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "belgian-cities.json")
	require.NoError(t, os.WriteFile(outputPath, []byte("stale"), 0o600))

	exporter, err := cities.NewExporter(adapter, cities.WithOutputPath(outputPath), cities.WithStdout(&bytes.Buffer{}))
	require.NoError(t, err)

	// act
	require.NoError(t, exporter.Run(context.Background()))

	// assert
	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"FeatureCollection","features":[]}`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary file must be left behind")
}

func Test_Exporter_Run_ShouldFail_WhenOutputIsNotWritable(t *testing.T) {
	// setup
	adapter := OpenSeededSQLiteAdapter(t)
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))
	stdout := &bytes.Buffer{}

	exporter, err := cities.NewExporter(
		adapter,
		cities.WithOutputPath(filepath.Join(blocker, "belgian-cities.json")),
		cities.WithStdout(stdout),
	)
	require.NoError(t, err)

	// act
	err = exporter.Run(context.Background())

	// assert
	assert.ErrorIs(t, err, dataset.ErrWritingDatasetFailed)
	assert.Empty(t, stdout.String())
}

func Test_Exporter_Run_ShouldFail_WhenTablesAreMissing(t *testing.T) {
	// setup
	testHandler := NewLogHandlerSpy(false)
	adapter := OpenSQLiteAdapter(t)
	outputPath := filepath.Join(t.TempDir(), "belgian-cities.json")

	exporter, err := cities.NewExporter(adapter, cities.WithOutputPath(outputPath), cities.WithLogger(slog.New(testHandler)))
	require.NoError(t, err)

	// act
	err = exporter.Run(context.Background())

	// assert
	assert.ErrorIs(t, err, dataset.ErrQueryingCitiesFailed)
	assert.ErrorIs(t, err, dataset.ErrExecutingStatementFailed)
	assert.True(t, testHandler.HasErrorLogWithMessage("querying cities failed").WithAttr("run_id").Assert())
	assert.NoFileExists(t, outputPath)
}

func Test_Exporter_Run_ShouldFail_WithMalformedRow(t *testing.T) {
	// setup
	ctx := context.Background()
	adapter := OpenSeededSQLiteAdapter(t)
	outputPath := filepath.Join(t.TempDir(), "belgian-cities.json")
	city := GivenCity(t, adapter, Brabant.ID, dataset.CityRecord{PostalCode: "1000", CityName: "Brussel", Latitude: 50.85, Longitude: 4.35})

	stmt, err := adapter.Prepare("UPDATE cities SET lng_num = :lng WHERE id = :id")
	require.NoError(t, err)
	stmt.Bind("lng", nil)
	stmt.Bind("id", city.ID)
	require.NoError(t, stmt.Execute(ctx))

	exporter, err := cities.NewExporter(adapter, cities.WithOutputPath(outputPath))
	require.NoError(t, err)

	// act
	err = exporter.Run(ctx)

	// assert
	assert.ErrorIs(t, err, dataset.ErrMalformedCityRow)
	assert.NoFileExists(t, outputPath)
}
