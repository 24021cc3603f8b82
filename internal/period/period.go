package period

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/impactreport/internal/locale"
)

var ErrInvalidPeriod = errors.New("invalid period")

// Period holds the pre-intervention and intervention windows of an analysis.
// All four boundaries are calendar dates at UTC midnight.
type Period struct {
	PreStart  time.Time
	PreEnd    time.Time
	PostStart time.Time
	PostEnd   time.Time
}

// New builds a Period and checks PreStart <= PreEnd < PostStart <= PostEnd.
func New(preStart, preEnd, postStart, postEnd time.Time) (Period, error) {
	p := Period{
		PreStart:  Day(preStart),
		PreEnd:    Day(preEnd),
		PostStart: Day(postStart),
		PostEnd:   Day(postEnd),
	}

	switch {
	case p.PreEnd.Before(p.PreStart):
		return Period{}, fmt.Errorf("%w: pre-period end %s is before its start %s",
			ErrInvalidPeriod, FormatDate(p.PreEnd), FormatDate(p.PreStart))
	case !p.PostStart.After(p.PreEnd):
		return Period{}, fmt.Errorf("%w: intervention start %s is not after pre-period end %s",
			ErrInvalidPeriod, FormatDate(p.PostStart), FormatDate(p.PreEnd))
	case p.PostEnd.Before(p.PostStart):
		return Period{}, fmt.Errorf("%w: intervention end %s is before its start %s",
			ErrInvalidPeriod, FormatDate(p.PostEnd), FormatDate(p.PostStart))
	}

	return p, nil
}

// InPost reports whether t falls inside the intervention window, inclusive on
// both ends and compared at day granularity.
func (p Period) InPost(t time.Time) bool {
	d := Day(t)
	return !d.Before(p.PostStart) && !d.After(p.PostEnd)
}

// Validate checks that the intervention starts strictly after the pre-period
// ends. Missing dates are not an error here; callers must not run the model
// when ok is false.
func Validate(preEnd, postStart *time.Time, loc locale.Locale) (bool, string) {
	if preEnd == nil || postStart == nil {
		return true, ""
	}

	if !Day(*postStart).After(Day(*preEnd)) {
		return false, loc.T(locale.PeriodOrderError, FormatDate(*postStart), FormatDate(*preEnd))
	}

	return true, ""
}

// Days returns the inclusive day counts of both windows. ok is false when any
// boundary is missing.
func Days(preStart, preEnd, postStart, postEnd *time.Time) (preDays, postDays int, ok bool) {
	if preStart == nil || preEnd == nil || postStart == nil || postEnd == nil {
		return 0, 0, false
	}

	return daysBetween(*preStart, *preEnd) + 1, daysBetween(*postStart, *postEnd) + 1, true
}

func daysBetween(from, to time.Time) int {
	return int(Day(to).Sub(Day(from)).Hours() / 24)
}

// Overrides carries caller-supplied boundaries; nil fields fall back to the
// dataset-derived defaults.
type Overrides struct {
	PreStart  *time.Time
	PreEnd    *time.Time
	PostStart *time.Time
	PostEnd   *time.Time
}

// Defaults derives a starting Period from the earliest and latest observed
// dates of a dataset. Without overrides both windows span the whole dataset,
// which Validate rejects until the caller moves the boundaries apart.
func Defaults(earliest, latest time.Time, o Overrides) Period {
	pick := func(override *time.Time, fallback time.Time) time.Time {
		if override != nil {
			return Day(*override)
		}

		return Day(fallback)
	}

	return Period{
		PreStart:  pick(o.PreStart, earliest),
		PreEnd:    pick(o.PreEnd, latest),
		PostStart: pick(o.PostStart, earliest),
		PostEnd:   pick(o.PostEnd, latest),
	}
}

// Day truncates t to its calendar date at UTC midnight.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// ParseDate accepts YYYY-MM-DD and YYYY/MM/DD.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	for _, layout := range []string{time.DateOnly, "2006/01/02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date %q (YYYY-MM-DD)", s)
}

// ParseOptional parses s, treating an empty string as an absent date.
func ParseOptional(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	t, err := ParseDate(s)
	if err != nil {
		return nil, err
	}

	return &t, nil
}
