package inference

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Split is a table serialized the way pandas DataFrame.to_json(orient="split")
// writes it. Index entries are epoch milliseconds or date strings; NaN cells
// are null.
type Split struct {
	Columns []string          `json:"columns"`
	Index   []json.RawMessage `json:"index"`
	Data    [][]*json.Number  `json:"data"`
}

// FromSplit converts a split-orient payload into a Table.
func FromSplit(s Split) (*Table, error) {
	if len(s.Data) != len(s.Index) {
		return nil, fmt.Errorf("split payload has %d index entries but %d rows", len(s.Index), len(s.Data))
	}

	dates := make([]time.Time, len(s.Index))

	for i, raw := range s.Index {
		d, err := parseIndex(raw)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}

		dates[i] = d
	}

	t := NewTable(dates)

	for col, name := range s.Columns {
		vals := make([]decimal.NullDecimal, len(s.Data))

		for i, row := range s.Data {
			if col >= len(row) || row[col] == nil {
				vals[i] = Null
				continue
			}

			vals[i] = ParseValue(row[col].String())
		}

		if err := t.AddColumn(name, vals); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func parseIndex(raw json.RawMessage) (time.Time, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		d, ok := ParseTime(s)
		if !ok {
			return time.Time{}, fmt.Errorf("unrecognised date %q", s)
		}

		return d, nil
	}

	var ms int64
	if err := json.Unmarshal(raw, &ms); err != nil {
		return time.Time{}, fmt.Errorf("index is neither a date string nor epoch milliseconds: %s", raw)
	}

	return time.UnixMilli(ms).UTC(), nil
}
