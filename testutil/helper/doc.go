// Package helper provides testing utilities for the dataset exporter.
//
// This package contains shared testing infrastructure including a slog handler spy
// for capturing and validating log output during tests, an in-memory SQLite
// database seeded with Belgian provinces and cities for adapter and exporter tests,
// and an opt-in Postgres database (TEST_POSTGRES_DSN) reached through the adapter
// type named by ADAPTER_TYPE.
package helper
