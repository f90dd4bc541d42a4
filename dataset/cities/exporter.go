package cities

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/ActivismeBe/geo-dataset/dataset"
	"github.com/ActivismeBe/geo-dataset/dataset/sqlengine"
)

// SuccessMessage is printed once the dataset file has been written.
const SuccessMessage = "The data has been converted to a json file."

const (
	logMsgExportStarted  = "cities export started"
	logMsgExportFinished = "cities export finished"
	logMsgQueryFailed    = "querying cities failed"
	logMsgMalformedRow   = "skipping export, malformed city row"
	logMsgWriteFailed    = "writing dataset failed"
	logAttrRunID         = "run_id"
	logAttrOutputPath    = "output_path"
	logAttrFeatureCount  = "feature_count"
	logAttrDurationMS    = "duration_ms"
	logAttrError         = "error"
)

// ErrEmptyOutputPath is returned by WithOutputPath for an empty path.
var ErrEmptyOutputPath = errors.New("output path must not be empty")

// Exporter reads every city with its province and writes them as a GeoJSON FeatureCollection.
type Exporter struct {
	adapter    *sqlengine.Adapter
	schema     string
	outputPath string
	logger     Logger
	stdout     io.Writer
}

// NewExporter creates an Exporter reading through adapter.
func NewExporter(adapter *sqlengine.Adapter, options ...Option) (*Exporter, error) {
	if adapter == nil {
		return nil, dataset.ErrNilDatabaseConnection
	}

	e := &Exporter{
		adapter:    adapter,
		outputPath: DefaultOutputPath,
		stdout:     os.Stdout,
	}

	for _, option := range options {
		if err := option(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// OutputPath returns the file the dataset is written to.
func (e *Exporter) OutputPath() string {
	return e.outputPath
}

// Collect runs the cities query and maps each row to a Feature, keeping the query's city name order.
func (e *Exporter) Collect(ctx context.Context) (dataset.FeatureCollection, error) {
	sqlQuery, buildErr := BuildQuery(e.adapter.Dialect(), e.schema)
	if buildErr != nil {
		return dataset.FeatureCollection{}, errors.Join(dataset.ErrQueryingCitiesFailed, buildErr)
	}

	stmt, prepareErr := e.adapter.Prepare(sqlQuery)
	if prepareErr != nil {
		return dataset.FeatureCollection{}, errors.Join(dataset.ErrQueryingCitiesFailed, prepareErr)
	}

	rows, fetchErr := stmt.FetchAll(ctx)
	if fetchErr != nil {
		return dataset.FeatureCollection{}, errors.Join(dataset.ErrQueryingCitiesFailed, fetchErr)
	}

	fc := dataset.NewFeatureCollection()
	for _, row := range rows {
		city, mapErr := CityRecordFromRow(row)
		if mapErr != nil {
			return dataset.FeatureCollection{}, mapErr
		}

		fc.Add(city.ToFeature())
	}

	return fc, nil
}

// Run collects the cities, writes the encoded collection to the output path and prints SuccessMessage.
func (e *Exporter) Run(ctx context.Context) error {
	start := time.Now()
	runID := uuid.New().String()

	e.logInfo(logMsgExportStarted, logAttrRunID, runID, logAttrOutputPath, e.outputPath)

	fc, collectErr := e.Collect(ctx)
	if collectErr != nil {
		msg := logMsgQueryFailed
		if errors.Is(collectErr, dataset.ErrMalformedCityRow) {
			msg = logMsgMalformedRow
		}
		e.logError(msg, collectErr, logAttrRunID, runID)

		return collectErr
	}

	data, encodeErr := dataset.EncodeFeatureCollection(fc)
	if encodeErr != nil {
		e.logError(logMsgWriteFailed, encodeErr, logAttrRunID, runID)
		return encodeErr
	}

	if writeErr := writeFileAtomically(e.outputPath, data); writeErr != nil {
		e.logError(logMsgWriteFailed, writeErr, logAttrRunID, runID)
		return errors.Join(dataset.ErrWritingDatasetFailed, writeErr)
	}

	e.logInfo(
		logMsgExportFinished,
		logAttrRunID, runID,
		logAttrOutputPath, e.outputPath,
		logAttrFeatureCount, fc.Len(),
		logAttrDurationMS, toMilliseconds(time.Since(start)),
	)

	if _, err := fmt.Fprintln(e.stdout, SuccessMessage); err != nil {
		return err
	}

	return nil
}

func (e *Exporter) logInfo(message string, args ...any) {
	if e.logger != nil {
		e.logger.Info(message, args...)
	}
}

func (e *Exporter) logError(message string, err error, args ...any) {
	if e.logger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		e.logger.Error(message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
