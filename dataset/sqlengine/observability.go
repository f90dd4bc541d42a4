package sqlengine

import (
	"math"
	"time"
)

// logQueryWithDuration logs SQL statements with execution time at debug level if the logger is configured.
func (a *Adapter) logQueryWithDuration(sqlQuery string, action string, duration time.Duration) {
	if a.logger != nil {
		a.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs operational information at info level if the logger is configured.
func (a *Adapter) logOperation(action string, args ...any) {
	if a.logger != nil {
		a.logger.Info(logMsgOperation+action, args...)
	}
}

// logWarning logs non-critical failures at warn level if the logger is configured.
func (a *Adapter) logWarning(message string, err error) {
	if a.logger != nil {
		a.logger.Warn(message, logAttrError, err.Error())
	}
}

// logError logs error information at the error level if the logger is configured.
func (a *Adapter) logError(message string, err error, args ...any) {
	if a.logger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		a.logger.Error(message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
