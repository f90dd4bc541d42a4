package cities

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ActivismeBe/geo-dataset/dataset"
	"github.com/ActivismeBe/geo-dataset/dataset/sqlengine"
)

// CityRecordFromRow maps one row of the cities query to a CityRecord.
// Drivers report numbers as integers, floats or text depending on the column type and protocol,
// so id and coordinates accept all of them; NULL or non-numeric values are rejected.
func CityRecordFromRow(row sqlengine.Row) (dataset.CityRecord, error) {
	id, err := intColumn(row, colID)
	if err != nil {
		return dataset.CityRecord{}, err
	}

	latitude, err := floatColumn(row, colLatitude)
	if err != nil {
		return dataset.CityRecord{}, err
	}

	longitude, err := floatColumn(row, colLongitude)
	if err != nil {
		return dataset.CityRecord{}, err
	}

	return dataset.CityRecord{
		ID:             id,
		PostalCode:     textColumn(row, colPostalCode),
		CityName:       textColumn(row, colCityName),
		Latitude:       latitude,
		Longitude:      longitude,
		ProvinceNameNL: textColumn(row, colProvinceNameNL),
		ProvinceNameFR: textColumn(row, colProvinceNameFR),
		ProvinceNameDE: textColumn(row, colProvinceNameDE),
	}, nil
}

func intColumn(row sqlengine.Row, name string) (int64, error) {
	value, ok := row.Get(name)
	if !ok || value == nil {
		return 0, malformed(name, value)
	}

	switch v := value.(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int:
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, malformed(name, value)
		}
		return int64(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, malformed(name, value)
		}
		return int64(v), nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, malformed(name, value)
		}
		return i, nil
	default:
		return 0, malformed(name, value)
	}
}

func floatColumn(row sqlengine.Row, name string) (float64, error) {
	value, ok := row.Get(name)
	if !ok || value == nil {
		return 0, malformed(name, value)
	}

	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, malformed(name, value)
		}
		return f, nil
	default:
		return 0, malformed(name, value)
	}
}

// textColumn renders a column as text; NULL becomes the empty string.
func textColumn(row sqlengine.Row, name string) string {
	value, _ := row.Get(name)

	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func malformed(name string, value any) error {
	return errors.Join(dataset.ErrMalformedCityRow, fmt.Errorf("column %s has value %#v", name, value))
}
