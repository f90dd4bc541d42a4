// Package config loads the database settings of the scraper and opens the connection.
//
// Settings come from an optional YAML file, an optional dotenv file and the process environment,
// in increasing order of precedence. Connect turns them into a sqlengine.Adapter for the selected
// driver: mysql (the default), postgres through lib/pq, pgx through a pgx pool, or sqlite3.
package config
