package regressor

import (
	"fmt"
)

// Column is one named regressor sampled at every volume.
type Column struct {
	Name   string    `json:"name"   yaml:"name"`
	Values []float64 `json:"values" yaml:"values"`
}

// Table is a dense regressor table. Column order is significant and is
// preserved from the underlying source.
type Table struct {
	Columns []Column `json:"columns" yaml:"columns"`
}

// Rows returns the number of samples per column.
func (t *Table) Rows() int {
	if t == nil || len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Values)
}

// Names returns the column names in table order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, len(t.Columns))
	for i := range t.Columns {
		names[i] = t.Columns[i].Name
	}
	return names
}

// Validate checks that column names are unique and non-empty and that every
// column has the same number of samples.
func (t *Table) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: table is nil", ErrMalformedTable)
	}
	seen := make(map[string]struct{}, len(t.Columns))
	rows := t.Rows()
	for i := range t.Columns {
		col := &t.Columns[i]
		if col.Name == "" {
			return fmt.Errorf("%w: column %d has no name", ErrMalformedTable, i)
		}
		if _, dup := seen[col.Name]; dup {
			return fmt.Errorf("%w: duplicate column %q", ErrMalformedTable, col.Name)
		}
		seen[col.Name] = struct{}{}
		if len(col.Values) != rows {
			return fmt.Errorf(
				"%w: column %q has %d samples, expected %d",
				ErrMalformedTable, col.Name, len(col.Values), rows,
			)
		}
	}
	return nil
}
