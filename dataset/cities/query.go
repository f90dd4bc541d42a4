package cities

import (
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"    // dialect import
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect import
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/ActivismeBe/geo-dataset/dataset"
	"github.com/ActivismeBe/geo-dataset/dataset/sqlengine"
)

const (
	tableCities    = "cities"
	tableProvinces = "provinces"
	aliasCities    = "t1"
	aliasProvinces = "t2"

	colID             = "id"
	colProvinceID     = "province_id"
	colPostalCode     = "postal_code"
	colCityName       = "city_name"
	colLatitude       = "lat_num"
	colLongitude      = "lng_num"
	colProvinceNameNL = "province_name_nl"
	colProvinceNameFR = "province_name_fr"
	colProvinceNameDE = "province_name_de"
)

var errUnsupportedDialect = errors.New("unsupported dialect")

// BuildQuery renders the cities/provinces join ordered by city name for dialect.
// When schema is not empty both tables are qualified with it.
func BuildQuery(dialect, schema string) (string, error) {
	switch dialect {
	case sqlengine.DialectMySQL, sqlengine.DialectPostgres, sqlengine.DialectSQLite:
	default:
		return "", errors.Join(dataset.ErrBuildingQueryFailed, fmt.Errorf("%w: %q", errUnsupportedDialect, dialect))
	}

	selectStmt := goqu.Dialect(dialect).
		From(table(tableCities, schema).As(aliasCities)).
		InnerJoin(
			table(tableProvinces, schema).As(aliasProvinces),
			goqu.On(goqu.T(aliasCities).Col(colProvinceID).Eq(goqu.T(aliasProvinces).Col(colID))),
		).
		Select(
			goqu.T(aliasCities).Col(colID),
			goqu.T(aliasCities).Col(colPostalCode),
			goqu.T(aliasCities).Col(colCityName),
			goqu.T(aliasCities).Col(colLatitude),
			goqu.T(aliasCities).Col(colLongitude),
			goqu.T(aliasProvinces).Col(colProvinceNameNL),
			goqu.T(aliasProvinces).Col(colProvinceNameFR),
			goqu.T(aliasProvinces).Col(colProvinceNameDE),
		).
		Order(goqu.T(aliasCities).Col(colCityName).Asc())

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(dataset.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func table(name, schema string) exp.IdentifierExpression {
	if schema == "" {
		return goqu.T(name)
	}

	return goqu.S(schema).Table(name)
}
