package sqlengine

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/ActivismeBe/geo-dataset/dataset"
)

// mysqlGeneralSQLState is reported by MySQL for errors that carry no specific SQL state.
const mysqlGeneralSQLState = "HY000"

// WrapDriverError converts a driver error into a *dataset.DatabaseError.
// Errors of the MySQL, pgx and lib/pq drivers are rendered as "SQLSTATE[<state>] [<code>] <text>"
// before normalizing; any other error is normalized from its own message.
func WrapDriverError(err error) error {
	if err == nil {
		return nil
	}

	var dbErr *dataset.DatabaseError
	if errors.As(err, &dbErr) {
		return err
	}

	return dataset.NewDatabaseError(RenderSQLState(err), err)
}

// RenderSQLState returns the SQLSTATE form of a known driver error, or err.Error() otherwise.
func RenderSQLState(err error) string {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		state := string(mysqlErr.SQLState[:])
		if mysqlErr.SQLState == [5]byte{} {
			state = mysqlGeneralSQLState
		}

		return fmt.Sprintf("SQLSTATE[%s] [%d] %s", state, mysqlErr.Number, mysqlErr.Message)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Sprintf("SQLSTATE[%s] [%s] %s", pgErr.Code, pgErr.Code, pgErr.Message)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Sprintf("SQLSTATE[%s] [%s] %s", pqErr.Code, pqErr.Code, pqErr.Message)
	}

	return err.Error()
}
