package inference

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Table is the per-period inference output of the model: a date axis plus
// numeric columns whose names vary between model versions. Missing cells are
// invalid NullDecimals. The zero value is an empty table ready for AddColumn.
type Table struct {
	Dates   []time.Time
	Columns []string

	values map[string][]decimal.NullDecimal
}

// NewTable returns an empty table over the given date axis.
func NewTable(dates []time.Time) *Table {
	return &Table{
		Dates:  dates,
		values: make(map[string][]decimal.NullDecimal),
	}
}

// AddColumn appends a column. The first column of a given name wins; later
// duplicates are ignored.
func (t *Table) AddColumn(name string, vals []decimal.NullDecimal) error {
	if len(vals) != len(t.Dates) {
		return fmt.Errorf("column %q has %d values, want %d", name, len(vals), len(t.Dates))
	}

	if _, ok := t.values[name]; ok {
		return nil
	}

	if t.values == nil {
		t.values = make(map[string][]decimal.NullDecimal)
	}

	t.Columns = append(t.Columns, name)
	t.values[name] = vals

	return nil
}

// Has reports whether the table carries a column with this exact name.
func (t *Table) Has(name string) bool {
	_, ok := t.values[name]
	return ok
}

// Column returns the values of a column, or nil when it is absent.
func (t *Table) Column(name string) []decimal.NullDecimal {
	return t.values[name]
}

// Len is the number of rows.
func (t *Table) Len() int {
	return len(t.Dates)
}

// Null is the missing-value marker.
var Null = decimal.NullDecimal{}

// Value wraps d as a present value.
func Value(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
