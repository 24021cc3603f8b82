package inference

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/impactreport/internal/encoding"
)

// dateColumns are header names recognised as the date axis. pandas writes an
// empty header for an unnamed index.
var dateColumns = []string{"index", "date", "日付", ""}

var dateLayouts = []string{
	time.DateOnly,
	"2006/01/02",
	time.DateTime,
	"2006/01/02 15:04:05",
	time.RFC3339,
}

// ReadCSV reads an inference table exported by the model. The date axis is the
// column named index, date or 日付, else the first column. Rows whose date does
// not parse (footers, notes) are skipped.
func ReadCSV(r io.Reader) (*Table, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	raw, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read inferences: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(string(raw)))
	reader.Comma = sniffDelimiter(string(raw))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("inference csv has no header")
	}

	header := rows[0]
	dateIdx := dateColumnIndex(header)

	var (
		dates []time.Time
		data  [][]string
	)

	for _, row := range rows[1:] {
		d, ok := ParseTime(cellValue(row, dateIdx))
		if !ok {
			continue
		}

		dates = append(dates, d)
		data = append(data, row)
	}

	t := NewTable(dates)

	for col, name := range header {
		if col == dateIdx {
			continue
		}

		vals := make([]decimal.NullDecimal, len(data))
		for i, row := range data {
			vals[i] = ParseValue(cellValue(row, col))
		}

		if err := t.AddColumn(strings.TrimSpace(name), vals); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func dateColumnIndex(header []string) int {
	for _, want := range dateColumns {
		for i, name := range header {
			if strings.EqualFold(strings.TrimSpace(name), want) {
				return i
			}
		}
	}

	return 0
}

// sniffDelimiter picks the most frequent of ',', ';' and tab on the first line.
func sniffDelimiter(s string) rune {
	first, _, _ := strings.Cut(s, "\n")

	best, bestCount := ',', strings.Count(first, ",")
	for _, c := range []rune{';', '\t'} {
		if n := strings.Count(first, string(c)); n > bestCount {
			best, bestCount = c, n
		}
	}

	return best
}

// ParseTime parses a date cell in any of the layouts the model emits.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// ParseValue parses a numeric cell. Empty cells and NaN markers are null, as
// is anything unparsable.
func ParseValue(s string) decimal.NullDecimal {
	switch strings.ToLower(s) {
	case "", "nan", "na", "null", "none":
		return Null
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Null
	}

	return Value(d)
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
