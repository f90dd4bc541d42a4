package sqlengine

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// ParamType is the type a parameter is bound with.
type ParamType int

const (
	// ParamString binds the value as text.
	ParamString ParamType = iota

	// ParamInt binds the value as a 64-bit integer.
	ParamInt

	// ParamBool binds the value as a boolean.
	ParamBool

	// ParamNull binds SQL NULL regardless of the value.
	ParamNull
)

var (
	errNotAnInteger = errors.New("value is not an integer")
	errNotABoolean  = errors.New("value is not a boolean")
)

// String returns the lowercase type name.
func (t ParamType) String() string {
	switch t {
	case ParamInt:
		return "int"
	case ParamBool:
		return "bool"
	case ParamNull:
		return "null"
	default:
		return "string"
	}
}

// InferParamType derives the bind type from the runtime shape of value:
// integers bind as ParamInt, booleans as ParamBool, nil as ParamNull and anything else as ParamString.
// Non-nil pointers are inspected through their element.
func InferParamType(value any) ParamType {
	rv, isNil := indirect(value)
	if isNil {
		return ParamNull
	}

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return ParamInt
	case reflect.Bool:
		return ParamBool
	default:
		return ParamString
	}
}

// coerceParam converts value into the driver value for typ.
func coerceParam(value any, typ ParamType) (any, error) {
	if typ == ParamNull {
		return nil, nil
	}

	rv, isNil := indirect(value)
	if isNil {
		return nil, nil
	}

	switch typ {
	case ParamInt:
		return coerceInt(rv)
	case ParamBool:
		return coerceBool(rv)
	default:
		return coerceString(rv), nil
	}
}

func coerceInt(rv reflect.Value) (int64, error) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d overflows int64", errNotAnInteger, u)
		}
		return int64(u), nil
	case reflect.Bool:
		if rv.Bool() {
			return 1, nil
		}
		return 0, nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
			return 0, fmt.Errorf("%w: %v", errNotAnInteger, f)
		}
		return int64(f), nil
	case reflect.String:
		i, err := strconv.ParseInt(strings.TrimSpace(rv.String()), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", errNotAnInteger, rv.String())
		}
		return i, nil
	default:
		return 0, fmt.Errorf("%w: %s", errNotAnInteger, rv.Type())
	}
}

func coerceBool(rv reflect.Value) (bool, error) {
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0, nil
	case reflect.String:
		b, err := strconv.ParseBool(strings.TrimSpace(rv.String()))
		if err != nil {
			return false, fmt.Errorf("%w: %q", errNotABoolean, rv.String())
		}
		return b, nil
	default:
		return false, fmt.Errorf("%w: %s", errNotABoolean, rv.Type())
	}
}

func coerceString(rv reflect.Value) string {
	switch v := rv.Interface().(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return v.String()
	}

	switch rv.Kind() {
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
	case reflect.String:
		return rv.String()
	default:
		return fmt.Sprint(rv.Interface())
	}
}

// indirect dereferences pointers and reports whether the value is nil.
func indirect(value any) (reflect.Value, bool) {
	if value == nil {
		return reflect.Value{}, true
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return reflect.Value{}, true
		}
		rv = rv.Elem()
	}

	return rv, false
}
