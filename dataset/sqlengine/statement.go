package sqlengine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ActivismeBe/geo-dataset/dataset"
)

type boundParam struct {
	value any
	typ   ParamType
}

// Statement is a SQL template with :name placeholders and its current bindings.
// It executes on the connection of the Adapter that prepared it, or inside its active transaction.
type Statement struct {
	adapter   *Adapter
	query     string
	params    map[string]boundParam
	bindOrder []string
	rowCount  int64
}

// Bind attaches value to the placeholder name, inferring the type with InferParamType.
// The leading colon of name is optional.
func (s *Statement) Bind(name string, value any) {
	s.BindTyped(name, value, InferParamType(value))
}

// BindTyped attaches value to the placeholder name with an explicit type.
// Rebinding a name replaces its previous value.
func (s *Statement) BindTyped(name string, value any, typ ParamType) {
	name = strings.TrimPrefix(name, ":")

	if _, exists := s.params[name]; !exists {
		s.bindOrder = append(s.bindOrder, name)
	}

	s.params[name] = boundParam{value: value, typ: typ}
}

// ParamType returns the type name is bound with.
func (s *Statement) ParamType(name string) (ParamType, bool) {
	p, ok := s.params[strings.TrimPrefix(name, ":")]
	return p.typ, ok
}

// Query returns the SQL template.
func (s *Statement) Query() string {
	return s.query
}

// RowCount returns the rows affected by the last Execute, or the rows returned by the last fetch.
func (s *Statement) RowCount() int64 {
	return s.rowCount
}

// Execute runs the statement as a command.
func (s *Statement) Execute(ctx context.Context) error {
	sqlQuery, args, compileErr := s.compile()
	if compileErr != nil {
		return compileErr
	}

	result, execErr := s.adapter.exec(ctx, sqlQuery, args)
	if execErr != nil {
		return execErr
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		s.adapter.logWarning(logMsgRowsAffectedFailed, rowsAffectedErr)
	}

	s.rowCount = rowsAffected

	return nil
}

// FetchOne executes the statement and returns its first row.
// The boolean is false when the result set is empty.
func (s *Statement) FetchOne(ctx context.Context) (Row, bool, error) {
	rows, err := s.fetch(ctx, 1)
	if err != nil {
		return Row{}, false, err
	}

	if len(rows) == 0 {
		return Row{}, false, nil
	}

	return rows[0], true, nil
}

// FetchAll executes the statement and returns every row in result order.
func (s *Statement) FetchAll(ctx context.Context) ([]Row, error) {
	return s.fetch(ctx, 0)
}

// fetch reads up to limit rows, all rows when limit is 0.
func (s *Statement) fetch(ctx context.Context, limit int) ([]Row, error) {
	sqlQuery, args, compileErr := s.compile()
	if compileErr != nil {
		return nil, compileErr
	}

	rows, queryErr := s.adapter.query(ctx, sqlQuery, args)
	if queryErr != nil {
		return nil, queryErr
	}
	defer s.adapter.closeRows(rows)

	columns, columnsErr := rows.Columns()
	if columnsErr != nil {
		s.adapter.logError(logMsgScanRowFailed, columnsErr)
		return nil, errors.Join(dataset.ErrScanningDBRowFailed, WrapDriverError(columnsErr))
	}

	result := make([]Row, 0)
	for rows.Next() {
		values, scanErr := rows.Values()
		if scanErr != nil {
			s.adapter.logError(logMsgScanRowFailed, scanErr)
			return nil, errors.Join(dataset.ErrScanningDBRowFailed, WrapDriverError(scanErr))
		}

		result = append(result, newRow(columns, values))

		if limit > 0 && len(result) == limit {
			break
		}
	}

	if iterErr := rows.Err(); iterErr != nil {
		s.adapter.logError(logMsgScanRowFailed, iterErr)
		return nil, errors.Join(dataset.ErrScanningDBRowFailed, WrapDriverError(iterErr))
	}

	s.rowCount = int64(len(result))
	s.adapter.logOperation(logActionQuery, logAttrRowCount, len(result))

	return result, nil
}

// compile coerces the bound values and rewrites :name placeholders into the driver's bind style.
func (s *Statement) compile() (string, []any, error) {
	named := make(map[string]any, len(s.params))

	for name, param := range s.params {
		value, err := coerceParam(param.value, param.typ)
		if err != nil {
			bindErr := fmt.Errorf("parameter %q as %s: %w", name, param.typ, err)
			s.adapter.logError(logMsgBindFailed, bindErr)
			return "", nil, errors.Join(dataset.ErrBindingParamFailed, bindErr)
		}

		named[name] = value
	}

	positional, args, err := sqlx.Named(s.query, named)
	if err != nil {
		s.adapter.logError(logMsgBindFailed, err)
		return "", nil, errors.Join(dataset.ErrBindingParamFailed, err)
	}

	return sqlx.Rebind(s.adapter.bindType, positional), args, nil
}

// DebugDumpParams describes the template and the bound parameters in bind order.
func (s *Statement) DebugDumpParams() string {
	var b strings.Builder

	fmt.Fprintf(&b, "SQL: [%d] %s\n", len(s.query), s.query)
	fmt.Fprintf(&b, "Params: %d\n", len(s.bindOrder))

	for i, name := range s.bindOrder {
		param := s.params[name]
		fmt.Fprintf(&b, "Key: :%s\nparamno=%d\nparam_type=%s\nvalue=%v\n", name, i, param.typ, param.value)
	}

	return b.String()
}
