package sqlengine

// Row is one result row as an ordered field-name-to-value mapping.
type Row struct {
	columns []string
	values  []any
}

// newRow copies byte slices into strings so a Row stays valid after the driver reuses its buffers.
func newRow(columns []string, values []any) Row {
	copied := make([]any, len(values))
	for i, value := range values {
		if b, ok := value.([]byte); ok {
			copied[i] = string(b)
			continue
		}
		copied[i] = value
	}

	return Row{columns: columns, values: copied}
}

// NewRow builds a Row from parallel column and value slices.
func NewRow(columns []string, values []any) Row {
	return newRow(columns, values)
}

// Columns returns the field names in result order.
func (r Row) Columns() []string {
	return r.columns
}

// Values returns the field values in result order.
func (r Row) Values() []any {
	return r.values
}

// Len returns the number of fields.
func (r Row) Len() int {
	return len(r.columns)
}

// Get returns the value of the first field called name.
func (r Row) Get(name string) (any, bool) {
	for i, column := range r.columns {
		if column == name {
			return r.values[i], true
		}
	}

	return nil, false
}

// Map returns the row as a map; duplicate field names keep the last value.
func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r.columns))
	for i, column := range r.columns {
		m[column] = r.values[i]
	}

	return m
}
