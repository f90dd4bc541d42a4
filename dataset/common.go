package dataset

import "errors"

var (
	// ErrNilDatabaseConnection is returned when a nil database handle is supplied to an adapter factory.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrConnectingFailed is returned when the database connection cannot be opened or verified.
	ErrConnectingFailed = errors.New("connecting to the database failed")

	// ErrEmptyQuery is returned when an empty SQL template is prepared.
	ErrEmptyQuery = errors.New("query must not be empty")

	// ErrBindingParamFailed is returned when a bound parameter cannot be coerced or a placeholder is unbound.
	ErrBindingParamFailed = errors.New("binding query parameters failed")

	// ErrExecutingStatementFailed is returned when a prepared statement fails to execute.
	ErrExecutingStatementFailed = errors.New("executing statement failed")

	// ErrScanningDBRowFailed is returned when a result row cannot be read.
	ErrScanningDBRowFailed = errors.New("scanning db row failed")

	// ErrLastInsertIDUnsupported is returned when the underlying driver cannot report the last inserted id.
	ErrLastInsertIDUnsupported = errors.New("last insert id is not supported by this driver")

	// ErrTransactionAlreadyActive is returned when a transaction is begun while another one is active.
	ErrTransactionAlreadyActive = errors.New("a transaction is already active")

	// ErrNoActiveTransaction is returned when committing or rolling back without an active transaction.
	ErrNoActiveTransaction = errors.New("no active transaction")

	// ErrBuildingQueryFailed is returned when the cities query cannot be built for the connection's dialect.
	ErrBuildingQueryFailed = errors.New("building query failed")

	// ErrQueryingCitiesFailed is returned when the cities query cannot be built, prepared or run.
	ErrQueryingCitiesFailed = errors.New("querying cities failed")

	// ErrMalformedCityRow is returned when a result row misses a numeric id or coordinate.
	ErrMalformedCityRow = errors.New("malformed city row")

	// ErrWritingDatasetFailed is returned when the encoded dataset cannot be written to disk.
	ErrWritingDatasetFailed = errors.New("writing dataset file failed")

	// ErrEncodingDatasetFailed is returned when the feature collection cannot be encoded.
	ErrEncodingDatasetFailed = errors.New("encoding dataset failed")
)
