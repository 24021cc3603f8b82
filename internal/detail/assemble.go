package detail

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/impactreport/internal/inference"
	"github.com/MrJamesThe3rd/impactreport/internal/period"
)

// DateLayout is how dates are written in the detail report.
const DateLayout = "2006/01/02"

// Row is one day of the canonical detail report. Values is indexed by Field;
// the FieldDate slot is unused in favour of Date.
type Row struct {
	Date   time.Time
	Values [NumFields]decimal.NullDecimal
}

// Get returns the value of f.
func (r Row) Get(f Field) decimal.NullDecimal {
	return r.Values[f]
}

// Record renders the row as CSV cells in canonical order. Nulls are empty cells.
func (r Row) Record() []string {
	out := make([]string, NumFields)
	out[FieldDate] = r.Date.Format(DateLayout)

	for f := FieldObserved; f < NumFields; f++ {
		if v := r.Values[f]; v.Valid {
			out[f] = v.Decimal.String()
		}
	}

	return out
}

// Assemble builds the detail report from an inference table.
//
// Observed values are derived as predicted + effect rather than read from the
// table, because the model leaves its own observed column empty in the
// intervention window. Cumulative fields are nulled outside [PostStart,
// PostEnd]. Fields with no matching raw column are null throughout.
func Assemble(t *inference.Table, p period.Period) []Row {
	if t == nil || t.Len() == 0 {
		return nil
	}

	mapping := Reconcile(t.Columns)

	rows := make([]Row, t.Len())
	for i, d := range t.Dates {
		rows[i].Date = d
	}

	for f, col := range mapping {
		vals := t.Column(col)
		for i := range rows {
			rows[i].Values[f] = vals[i]
		}
	}

	for i := range rows {
		r := &rows[i]
		r.Values[FieldObserved] = sum(r.Values[FieldPredicted], r.Values[FieldEffect])

		if p.InPost(r.Date) {
			continue
		}

		for f := FieldCumObserved; f < NumFields; f++ {
			r.Values[f] = inference.Null
		}
	}

	return rows
}

// Unresolved lists the reconcilable fields no raw column was found for.
func Unresolved(columns []string) []Field {
	m := Reconcile(columns)

	var missing []Field

	for _, f := range Fields() {
		if len(f.Candidates()) == 0 {
			continue
		}

		if _, ok := m.Resolved(f); !ok {
			missing = append(missing, f)
		}
	}

	return missing
}

func sum(a, b decimal.NullDecimal) decimal.NullDecimal {
	if !a.Valid || !b.Valid {
		return inference.Null
	}

	return inference.Value(a.Decimal.Add(b.Decimal))
}
