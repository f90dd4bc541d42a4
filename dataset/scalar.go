package dataset

import (
	"bytes"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// ErrInvalidScalarJSON is returned when a Scalar is decoded from something other than a JSON string or number.
var ErrInvalidScalarJSON = errors.New("scalar json must be a string or a number")

var numericPattern = regexp.MustCompile(`^\s*[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?\s*$`)

// Scalar is a loosely typed column value that is encoded as a JSON number when its text is numeric
// and as a JSON string otherwise. Numeric text is kept in canonical form, "01000" becomes 1000.
type Scalar struct {
	text    string
	numeric bool
}

// NewScalar applies the numeric check to text.
func NewScalar(text string) Scalar {
	if canonical, ok := canonicalNumber(text); ok {
		return Scalar{text: canonical, numeric: true}
	}

	return Scalar{text: text}
}

// NewNumericScalar builds a numeric Scalar from an integer.
func NewNumericScalar(value int64) Scalar {
	return Scalar{text: strconv.FormatInt(value, 10), numeric: true}
}

// String returns the scalar text, canonical for numeric values.
func (s Scalar) String() string {
	return s.text
}

// IsNumeric reports whether the scalar is encoded as a JSON number.
func (s Scalar) IsNumeric() bool {
	return s.numeric
}

// MarshalJSON implements json.Marshaler.
func (s Scalar) MarshalJSON() ([]byte, error) {
	if s.numeric {
		return []byte(s.text), nil
	}

	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(s.text)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)

	if len(trimmed) > 0 && trimmed[0] == '"' {
		var text string
		if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(trimmed, &text); err != nil {
			return errors.Join(ErrInvalidScalarJSON, err)
		}

		*s = Scalar{text: text}

		return nil
	}

	if _, err := strconv.ParseFloat(string(trimmed), 64); err != nil {
		return errors.Join(ErrInvalidScalarJSON, err)
	}

	*s = Scalar{text: string(trimmed), numeric: true}

	return nil
}

// canonicalNumber returns the canonical JSON number text for numeric input.
func canonicalNumber(text string) (string, bool) {
	if !numericPattern.MatchString(text) {
		return "", false
	}

	trimmed := strings.TrimSpace(text)

	if !strings.ContainsAny(trimmed, ".eE") {
		if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return strconv.FormatInt(i, 10), true
		}
	}

	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsInf(f, 0) {
		return "", false
	}

	return formatFloat(f), true
}

// formatFloat renders f the way encoding/json does.
func formatFloat(f float64) string {
	if f == 0 {
		return "0"
	}

	abs := math.Abs(f)
	if abs < 1e-6 || abs >= 1e21 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		// e-07 becomes e-7
		if n := len(s); n >= 4 && s[n-4] == 'e' && s[n-3] == '-' && s[n-2] == '0' {
			s = s[:n-2] + s[n-1:]
		}

		return s
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}
