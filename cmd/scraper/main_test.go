package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ActivismeBe/geo-dataset/config"
	"github.com/ActivismeBe/geo-dataset/dataset"
	"github.com/ActivismeBe/geo-dataset/dataset/cities"
	"github.com/ActivismeBe/geo-dataset/testutil/helper"
)

func givenSQLiteDatabase(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "geo.db")
	adapter, err := config.Connect(context.Background(), config.Config{Driver: config.DriverSQLite, Name: path})
	require.NoError(t, err)
	defer func() { _ = adapter.Close() }()

	helper.CreateCitySchema(t, adapter)
	helper.GivenProvince(t, adapter, helper.Brabant)
	helper.GivenCity(t, adapter, helper.Brabant.ID, dataset.CityRecord{PostalCode: "3000", CityName: "Leuven", Latitude: 50.8798, Longitude: 4.7005})
	helper.GivenCity(t, adapter, helper.Brabant.ID, dataset.CityRecord{PostalCode: "1500", CityName: "Halle", Latitude: 50.7339, Longitude: 4.2345})

	return path
}

func useSQLiteEnv(t *testing.T, dbPath string) {
	t.Helper()

	for _, key := range []string{config.EnvHost, config.EnvUser, config.EnvPassword, config.EnvPort, config.EnvSchema} {
		t.Setenv(key, "")
	}
	t.Setenv(config.EnvDriver, config.DriverSQLite)
	t.Setenv(config.EnvName, dbPath)
}

func Test_Run_ScrapeCities(t *testing.T) {
	// arrange
	useSQLiteEnv(t, givenSQLiteDatabase(t))
	outputPath := filepath.Join(t.TempDir(), "json", "belgian-cities.json")
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	// act
	code := run(context.Background(), []string{
		"--env-file", filepath.Join(t.TempDir(), ".env"),
		"--output", outputPath,
		"scrape:cities",
	}, stdout, stderr)

	// assert
	require.Equal(t, exitOK, code, stderr.String())
	assert.Equal(t, cities.SuccessMessage+"\n", stdout.String())

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)

	fc, err := dataset.DecodeFeatureCollection(data)
	require.NoError(t, err)
	require.Equal(t, 2, fc.Len())
	assert.Equal(t, "Halle", fc.Features[0].Properties.Name)
	assert.Equal(t, [2]float64{4.2345, 50.7339}, fc.Features[0].Geometry.Coordinates)
	assert.Equal(t, "Leuven", fc.Features[1].Properties.Name)
}

func Test_Run_ScrapeCities_ShouldFail_WithInvalidConfig(t *testing.T) {
	// arrange
	t.Setenv(config.EnvDriver, "oracle")
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	// act
	code := run(context.Background(), []string{"--env-file", "", "scrape:cities"}, stdout, stderr)

	// assert
	assert.Equal(t, exitError, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "command failed")
	assert.Contains(t, stderr.String(), "DB_DRIVER must be one of")
}

func Test_Run_List(t *testing.T) {
	for _, args := range [][]string{{"list"}, {}} {
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

		code := run(context.Background(), args, stdout, stderr)

		assert.Equal(t, exitOK, code)
		assert.Contains(t, stdout.String(), "scrape:cities")
		assert.Contains(t, stdout.String(), "list")
	}
}

func Test_Run_ShouldFail_WithUnknownCommand(t *testing.T) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	code := run(context.Background(), []string{"scrape:villages"}, stdout, stderr)

	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr.String(), "Unknown command 'scrape:villages'")
	assert.Contains(t, stderr.String(), "Usage: scraper [flags] <command>")
	assert.Empty(t, stdout.String())
}

func Test_Run_ShouldFail_WithUnknownFlag(t *testing.T) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	code := run(context.Background(), []string{"--bogus", "list"}, stdout, stderr)

	assert.Equal(t, exitUsage, code)
}
