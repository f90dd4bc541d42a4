// Package sqlengine provides the database adapter used by the dataset exporter.
//
// An Adapter wraps one open database handle (pgx pool, sql.DB or sqlx.DB) and exposes the
// classic prepare / bind / execute / fetch cycle:
//
//	stmt, err := adapter.Prepare("SELECT id, city_name FROM cities WHERE province_id = :province")
//	if err != nil {
//		// handle error
//	}
//
//	stmt.Bind("province", 3)
//	rows, err := stmt.FetchAll(ctx)
//
// Placeholders use the :name form for every driver; they are rewritten into the driver's own
// bind style on execution. Literal colons in a template must be doubled ("::").
//
// Parameter types are inferred from the bound value (see InferParamType) unless given
// explicitly with BindTyped.
//
// Driver errors are returned as *dataset.DatabaseError so callers get a normalized
// code and message where the driver provides one.
//
// An Adapter and its statements are not safe for concurrent use.
package sqlengine
