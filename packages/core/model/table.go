package model

// ExamplesTable holds the parameter rows driving repeated execution of a
// scenario. A table with zero rows means the scenario is not parameterised.
type ExamplesTable struct {
	headers []string
	rows    []map[string]string
}

// NewExamplesTable builds a table from a header and row values. Each row must
// have one value per header; short rows are padded with empty strings.
func NewExamplesTable(headers []string, rows ...[]string) ExamplesTable {
	t := ExamplesTable{headers: append([]string(nil), headers...)}
	for _, values := range rows {
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(values) {
				row[h] = values[i]
			} else {
				row[h] = ""
			}
		}
		t.rows = append(t.rows, row)
	}
	return t
}

// Headers returns the parameter names in declaration order.
func (t ExamplesTable) Headers() []string {
	return append([]string(nil), t.headers...)
}

// RowCount returns the number of parameter rows.
func (t ExamplesTable) RowCount() int {
	return len(t.rows)
}

// Row returns a copy of the i-th row as a name-to-value mapping.
func (t ExamplesTable) Row(i int) map[string]string {
	out := make(map[string]string, len(t.rows[i]))
	for k, v := range t.rows[i] {
		out[k] = v
	}
	return out
}

// Rows returns copies of all rows in order.
func (t ExamplesTable) Rows() []map[string]string {
	out := make([]map[string]string, 0, len(t.rows))
	for i := range t.rows {
		out = append(out, t.Row(i))
	}
	return out
}
