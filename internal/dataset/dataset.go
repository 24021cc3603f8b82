package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/impactreport/internal/encoding"
	"github.com/MrJamesThe3rd/impactreport/internal/inference"
)

var (
	ErrNotFound = errors.New("dataset not found")
	ErrEmpty    = errors.New("dataset has no dated rows")
)

// dateColumns are the header names recognised as the date axis, in order.
var dateColumns = []string{"ymd", "date", "日付"}

// Point is one dated observation. Values follow Series.Columns.
type Point struct {
	Date   time.Time
	Values []decimal.NullDecimal
}

// Series is the input the model is fitted on. The first column is the
// response; any further columns are covariates.
type Series struct {
	Subject string
	Columns []string
	Points  []Point
}

// Range returns the earliest and latest dates in the series.
func (s *Series) Range() (earliest, latest time.Time, ok bool) {
	if s == nil || len(s.Points) == 0 {
		return time.Time{}, time.Time{}, false
	}

	earliest, latest = s.Points[0].Date, s.Points[0].Date

	for _, p := range s.Points[1:] {
		if p.Date.Before(earliest) {
			earliest = p.Date
		}

		if p.Date.After(latest) {
			latest = p.Date
		}
	}

	return earliest, latest, true
}

// ReadCSV reads a dataset with a date column (ymd, date or 日付, else the first
// column) followed by numeric columns. Any charset the detector recognises is
// accepted. Rows with an unparsable date are skipped.
func ReadCSV(r io.Reader, subject string) (*Series, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}

		return nil, fmt.Errorf("reading header: %w", err)
	}

	dateIdx := dateColumnIndex(header)

	s := &Series{Subject: subject}

	var valueIdx []int

	for i, name := range header {
		if i == dateIdx {
			continue
		}

		s.Columns = append(s.Columns, strings.TrimSpace(name))
		valueIdx = append(valueIdx, i)
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		if dateIdx >= len(row) {
			continue
		}

		d, ok := inference.ParseTime(strings.TrimSpace(row[dateIdx]))
		if !ok {
			continue
		}

		p := Point{Date: d, Values: make([]decimal.NullDecimal, len(valueIdx))}

		for j, idx := range valueIdx {
			if idx < len(row) {
				p.Values[j] = inference.ParseValue(strings.TrimSpace(row[idx]))
			}
		}

		s.Points = append(s.Points, p)
	}

	if len(s.Points) == 0 {
		return nil, ErrEmpty
	}

	return s, nil
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
