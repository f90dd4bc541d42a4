package dataset

import (
	"regexp"
	"strings"
)

const (
	sqlStateMarker = "SQLSTATE["

	// sqlStateDriverSpecific is the SQL state for which the driver specific code is reported instead.
	sqlStateDriverSpecific = "HT000"
)

var sqlStatePattern = regexp.MustCompile(`SQLSTATE\[(\w+)\] \[(\w+)\] (.*)`)

// NormalizedError is the code/message pair extracted from a raw database error message.
type NormalizedError struct {
	Code    string
	Message string
}

// NormalizeErrorMessage extracts the code and message from a raw database error message
// of the shape "SQLSTATE[<state>] [<code>] <text>".
//
// The SQL state is reported as the code, except for HT000 where the driver specific code wins.
// It returns false when the message carries no SQLSTATE marker or does not match the shape,
// in which case the returned NormalizedError is empty.
func NormalizeErrorMessage(raw string) (NormalizedError, bool) {
	if !strings.Contains(raw, sqlStateMarker) {
		return NormalizedError{}, false
	}

	matches := sqlStatePattern.FindStringSubmatch(raw)
	if matches == nil {
		return NormalizedError{}, false
	}

	code := matches[1]
	if code == sqlStateDriverSpecific {
		code = matches[2]
	}

	return NormalizedError{Code: code, Message: matches[3]}, true
}

// DatabaseError is a database failure with its normalized code and message.
// Code and Message are empty when the raw message could not be normalized.
type DatabaseError struct {
	Code       string
	Message    string
	Normalized bool
	Err        error
}

// NewDatabaseError builds a DatabaseError from the raw message rendered for err.
func NewDatabaseError(raw string, err error) *DatabaseError {
	dbErr := &DatabaseError{Err: err}

	if normalized, ok := NormalizeErrorMessage(raw); ok {
		dbErr.Code = normalized.Code
		dbErr.Message = normalized.Message
		dbErr.Normalized = true
	}

	return dbErr
}

func (e *DatabaseError) Error() string {
	if e.Normalized {
		return "database error " + e.Code + ": " + e.Message
	}

	if e.Err != nil {
		return e.Err.Error()
	}

	return "database error"
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}
