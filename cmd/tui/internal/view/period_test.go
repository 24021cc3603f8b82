package view_test

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/impactreport/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/impactreport/internal/locale"
	"github.com/MrJamesThe3rd/impactreport/internal/period"
)

func date(d int) *time.Time {
	t := time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestPeriodPicker(t *testing.T) {
	type testCase struct {
		name      string
		defaults  period.Overrides
		wantView  []string
		wantValid bool
	}

	tests := []testCase{
		{
			name:      "Valid",
			defaults:  period.Overrides{PreStart: date(1), PreEnd: date(20), PostStart: date(21), PostEnd: date(30)},
			wantView:  []string{"Pre-period 20 days, intervention 10 days"},
			wantValid: true,
		},
		{
			name:     "Overlapping",
			defaults: period.Overrides{PreStart: date(1), PreEnd: date(20), PostStart: date(20), PostEnd: date(30)},
			wantView: []string{"must be after the pre-period end date"},
		},
		{
			name:     "Incomplete",
			defaults: period.Overrides{PreEnd: date(20)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := view.NewPeriodPicker(locale.EN, tt.defaults)

			for _, s := range tt.wantView {
				assert.Contains(t, m.View(), s)
			}

			m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

			if !tt.wantValid {
				assert.Nil(t, cmd)
				assert.Contains(t, m.View(), "Error:")

				return
			}

			require.NotNil(t, cmd)

			msg, ok := cmd().(view.PeriodSelectedMsg)
			require.True(t, ok)
			assert.Equal(t, *date(21), msg.Period.PostStart)
			assert.Equal(t, *date(30), msg.Period.PostEnd)
		})
	}
}
