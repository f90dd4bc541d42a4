// Package adapters provide database adapter implementations for the SQL engine.
//
// This package implements the adapter pattern to support multiple database libraries:
// pgx.Pool, sql.DB, and sqlx.DB. All adapters provide equivalent functionality through
// a common DBAdapter interface, allowing the engine to work with any supported
// connection type and driver (MySQL, PostgreSQL, SQLite).
//
// The adapters handle the specifics of each database library while presenting a
// unified interface for query execution, transactions and result handling.
package adapters
