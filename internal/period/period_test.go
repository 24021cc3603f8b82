package period_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/impactreport/internal/locale"
	"github.com/MrJamesThe3rd/impactreport/internal/period"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func TestValidate(t *testing.T) {
	type args struct {
		preEnd    *time.Time
		postStart *time.Time
	}

	type testCase struct {
		name   string
		args   args
		wantOK bool
	}

	tests := []testCase{
		{
			name:   "PostAfterPre",
			args:   args{preEnd: ptr(date(2024, 1, 31)), postStart: ptr(date(2024, 2, 1))},
			wantOK: true,
		},
		{
			name:   "SameDay",
			args:   args{preEnd: ptr(date(2024, 1, 31)), postStart: ptr(date(2024, 1, 31))},
			wantOK: false,
		},
		{
			name:   "PostBeforePre",
			args:   args{preEnd: ptr(date(2024, 1, 31)), postStart: ptr(date(2024, 1, 10))},
			wantOK: false,
		},
		{
			name:   "MissingPreEnd",
			args:   args{postStart: ptr(date(2024, 1, 10))},
			wantOK: true,
		},
		{
			name:   "BothMissing",
			args:   args{},
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, msg := period.Validate(tt.args.preEnd, tt.args.postStart, locale.JA)
			assert.Equal(t, tt.wantOK, ok)

			if tt.wantOK {
				assert.Empty(t, msg)
				return
			}

			assert.Contains(t, msg, period.FormatDate(*tt.args.preEnd))
			assert.Contains(t, msg, period.FormatDate(*tt.args.postStart))
		})
	}
}

func TestValidate_EnglishMessage(t *testing.T) {
	ok, msg := period.Validate(ptr(date(2024, 1, 31)), ptr(date(2024, 1, 15)), locale.EN)
	require.False(t, ok)
	assert.Equal(t,
		"Invalid analysis period: the intervention start date (2024-01-15) must be after the pre-period end date (2024-01-31).",
		msg)
}

func TestValidate_IgnoresTimeOfDay(t *testing.T) {
	preEnd := time.Date(2024, 1, 31, 8, 0, 0, 0, time.UTC)
	postStart := time.Date(2024, 1, 31, 20, 0, 0, 0, time.UTC)

	ok, _ := period.Validate(&preEnd, &postStart, locale.JA)
	assert.False(t, ok)
}

func TestDays(t *testing.T) {
	pre, post, ok := period.Days(
		ptr(date(2024, 1, 1)), ptr(date(2024, 1, 31)),
		ptr(date(2024, 2, 1)), ptr(date(2024, 2, 29)),
	)
	require.True(t, ok)
	assert.Equal(t, 31, pre)
	assert.Equal(t, 29, post)

	pre, post, ok = period.Days(nil, ptr(date(2024, 1, 31)), ptr(date(2024, 2, 1)), ptr(date(2024, 2, 29)))
	assert.False(t, ok)
	assert.Zero(t, pre)
	assert.Zero(t, post)
}

func TestNew(t *testing.T) {
	p, err := period.New(date(2024, 1, 1), date(2024, 1, 31), date(2024, 2, 1), date(2024, 2, 28))
	require.NoError(t, err)
	assert.Equal(t, date(2024, 2, 1), p.PostStart)

	_, err = period.New(date(2024, 1, 1), date(2024, 1, 31), date(2024, 1, 31), date(2024, 2, 28))
	assert.True(t, errors.Is(err, period.ErrInvalidPeriod))

	_, err = period.New(date(2024, 1, 31), date(2024, 1, 1), date(2024, 2, 1), date(2024, 2, 28))
	assert.ErrorIs(t, err, period.ErrInvalidPeriod)

	_, err = period.New(date(2024, 1, 1), date(2024, 1, 31), date(2024, 2, 10), date(2024, 2, 1))
	assert.ErrorIs(t, err, period.ErrInvalidPeriod)
}

func TestInPost(t *testing.T) {
	p := period.Period{PostStart: date(2024, 2, 1), PostEnd: date(2024, 2, 28)}

	assert.False(t, p.InPost(date(2024, 1, 15)))
	assert.True(t, p.InPost(date(2024, 2, 1)))
	assert.True(t, p.InPost(time.Date(2024, 2, 28, 12, 0, 0, 0, time.UTC)))
	assert.True(t, p.InPost(time.Date(2024, 2, 28, 23, 0, 0, 0, time.UTC)))
	assert.False(t, p.InPost(date(2024, 2, 29)))
}

func TestDefaults(t *testing.T) {
	earliest, latest := date(2023, 1, 1), date(2023, 12, 31)

	p := period.Defaults(earliest, latest, period.Overrides{})
	assert.Equal(t, period.Period{PreStart: earliest, PreEnd: latest, PostStart: earliest, PostEnd: latest}, p)

	p = period.Defaults(earliest, latest, period.Overrides{
		PreEnd:    ptr(date(2023, 6, 30)),
		PostStart: ptr(date(2023, 7, 1)),
	})
	assert.Equal(t, date(2023, 6, 30), p.PreEnd)
	assert.Equal(t, date(2023, 7, 1), p.PostStart)
	assert.Equal(t, latest, p.PostEnd)
}

func TestParseDate(t *testing.T) {
	d, err := period.ParseDate("2024/02/10")
	require.NoError(t, err)
	assert.Equal(t, date(2024, 2, 10), d)

	d, err = period.ParseDate(" 2024-02-10 ")
	require.NoError(t, err)
	assert.Equal(t, date(2024, 2, 10), d)

	_, err = period.ParseDate("10-02-2024")
	assert.Error(t, err)

	opt, err := period.ParseOptional("")
	require.NoError(t, err)
	assert.Nil(t, opt)
}
