package chart_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/impactreport/internal/chart"
	"github.com/MrJamesThe3rd/impactreport/internal/inference"
	"github.com/MrJamesThe3rd/impactreport/internal/period"
)

var window = period.Period{
	PreStart:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	PreEnd:    time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
	PostStart: time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC),
	PostEnd:   time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC),
}

// inferences builds a 30-day table whose first `warmup` rows have no
// prediction.
func inferences(t *testing.T, warmup int) *inference.Table {
	t.Helper()

	var b strings.Builder
	b.WriteString("date,preds,preds_lower,preds_upper,point_effects,point_effects_lower,point_effects_upper,post_cum_effects,post_cum_effects_lower,post_cum_effects_upper\n")

	for i := range 30 {
		d := window.PreStart.AddDate(0, 0, i).Format(time.DateOnly)
		if i < warmup {
			fmt.Fprintf(&b, "%s,,,,,,,,,\n", d)
			continue
		}

		eff := 0
		cum := 0

		if i >= 20 {
			eff = 5
			cum = 5 * (i - 19)
		}

		fmt.Fprintf(&b, "%s,%d,%d,%d,%d,%d,%d,%d,%d,%d\n",
			d, 100+i, 95+i, 105+i, eff, eff-3, eff+3, cum, cum-4, cum+4)
	}

	tbl, err := inference.ReadCSV(strings.NewReader(b.String()))
	require.NoError(t, err)

	return tbl
}

func TestFromInferences(t *testing.T) {
	type testCase struct {
		name      string
		warmup    int
		wantNotes []string
	}

	tests := []testCase{
		{
			name:   "NoWarmup",
			warmup: 0,
		},
		{
			name:      "WarmupRowsAreReported",
			warmup:    3,
			wantNotes: []string{"Note: 3 observations were removed due to approximate diffuse initialization of the model."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := chart.FromInferences(inferences(t, tt.warmup), window, chart.Options{})
			require.NoError(t, err)

			var notes []string
			for _, a := range p.Annotations() {
				notes = append(notes, a.Text())
			}

			assert.Equal(t, tt.wantNotes, notes)

			var buf bytes.Buffer
			require.NoError(t, p.Save(&buf))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
		})
	}
}

func TestFromInferences_NoData(t *testing.T) {
	_, err := chart.FromInferences(inferences(t, 30), window, chart.Options{})
	assert.ErrorIs(t, err, chart.ErrNoData)

	_, err = chart.FromInferences(inference.NewTable(nil), window, chart.Options{})
	assert.ErrorIs(t, err, chart.ErrNoData)
}

func TestHideMatching(t *testing.T) {
	p, err := chart.FromInferences(inferences(t, 2), window, chart.Options{})
	require.NoError(t, err)

	p.AddNote("Source: weekly sales")
	p.AddNote("12 observations were removed")

	hidden := chart.HideMatching(p, "Note:", "observations were removed")
	assert.Equal(t, 2, hidden)

	var visible []string
	for _, a := range p.Annotations() {
		if a.Visible() {
			visible = append(visible, a.Text())
		}
	}

	assert.Equal(t, []string{"Source: weekly sales"}, visible)

	// Already hidden notes are not counted twice.
	assert.Zero(t, chart.HideMatching(p, "Note:"))

	var buf bytes.Buffer
	require.NoError(t, p.Save(&buf))
	assert.NotZero(t, buf.Len())
}

func TestNote(t *testing.T) {
	n := chart.NewNote("hello")
	assert.True(t, n.Visible())
	assert.Equal(t, "hello", n.Text())

	n.Hide()
	assert.False(t, n.Visible())
}
