package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/impactreport/internal/dataset"
)

// Store reads analysis inputs from a long-format observations table:
//
//	observations(subject TEXT, date DATE, metric TEXT, value NUMERIC)
//
// It never writes.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Subjects lists the subjects that have at least one observation.
func (s *Store) Subjects(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT subject FROM observations ORDER BY subject`)
	if err != nil {
		return nil, fmt.Errorf("listing subjects: %w", err)
	}
	defer rows.Close()

	var subjects []string

	for rows.Next() {
		var subject string
		if err := rows.Scan(&subject); err != nil {
			return nil, fmt.Errorf("scanning subject: %w", err)
		}

		subjects = append(subjects, subject)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating subjects: %w", err)
	}

	return subjects, nil
}

// Range returns the first and last observation dates of a subject.
func (s *Store) Range(ctx context.Context, subject string) (earliest, latest time.Time, err error) {
	query := `SELECT MIN(date), MAX(date) FROM observations WHERE subject = $1`

	var lo, hi sql.NullTime
	if err := s.db.QueryRowContext(ctx, query, subject).Scan(&lo, &hi); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("getting range: %w", err)
	}

	if !lo.Valid || !hi.Valid {
		return time.Time{}, time.Time{}, dataset.ErrNotFound
	}

	return lo.Time, hi.Time, nil
}

// Load pivots a subject's observations into a Series. Metrics become columns
// in order of first appearance; a metric missing on a date is null.
func (s *Store) Load(ctx context.Context, subject string) (*dataset.Series, error) {
	query := `
		SELECT date, metric, value
		FROM observations
		WHERE subject = $1
		ORDER BY date, metric`

	rows, err := s.db.QueryContext(ctx, query, subject)
	if err != nil {
		return nil, fmt.Errorf("loading observations: %w", err)
	}
	defer rows.Close()

	type cell struct {
		date   time.Time
		metric string
		value  decimal.NullDecimal
	}

	var (
		cells   []cell
		columns []string
		index   = make(map[string]int)
	)

	for rows.Next() {
		var c cell
		if err := rows.Scan(&c.date, &c.metric, &c.value); err != nil {
			return nil, fmt.Errorf("scanning observation: %w", err)
		}

		if _, ok := index[c.metric]; !ok {
			index[c.metric] = len(columns)
			columns = append(columns, c.metric)
		}

		cells = append(cells, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating observations: %w", err)
	}

	if len(cells) == 0 {
		return nil, dataset.ErrNotFound
	}

	series := &dataset.Series{Subject: subject, Columns: columns}

	for _, c := range cells {
		n := len(series.Points)
		if n == 0 || !series.Points[n-1].Date.Equal(c.date) {
			series.Points = append(series.Points, dataset.Point{
				Date:   c.date,
				Values: make([]decimal.NullDecimal, len(columns)),
			})
			n++
		}

		series.Points[n-1].Values[index[c.metric]] = c.value
	}

	return series, nil
}
