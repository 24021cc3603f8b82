package summary

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/MrJamesThe3rd/impactreport/internal/locale"
)

// Row is one metric of the summary table.
type Row struct {
	Label      string
	Average    string
	Cumulative string
}

// Builder turns the model's text summary into a labeled table.
type Builder struct {
	logger *slog.Logger
	loc    locale.Locale
}

// NewBuilder returns a Builder rendering labels in loc. A nil logger discards
// diagnostics.
func NewBuilder(logger *slog.Logger, loc locale.Locale) *Builder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Builder{logger: logger, loc: loc}
}

// Labels returns the positional metric labels for a confidence level.
func Labels(loc locale.Locale, confidencePercent int) []string {
	return []string{
		loc.T(locale.MetricObserved),
		loc.T(locale.MetricPredicted),
		loc.T(locale.MetricPredictedCI, confidencePercent),
		loc.T(locale.MetricAbsEffect),
		loc.T(locale.MetricAbsEffectCI, confidencePercent),
		loc.T(locale.MetricRelEffect),
		loc.T(locale.MetricRelEffectCI, confidencePercent),
	}
}

// Build parses raw into summary rows. The first non-blank line is a banner and
// is discarded. Relative-effect metrics have no separate cumulative magnitude,
// so their cumulative cell always carries the same-as-left marker. Malformed
// lines and label mismatches degrade the table; they never fail it.
func (b *Builder) Build(raw string, confidencePercent int) []Row {
	lines := nonBlankLines(raw)
	sameAsLeft := b.loc.T(locale.SameAsLeft)

	var rows []Row

	if len(lines) > 1 {
		for _, line := range lines[1:] {
			res := ParseLine(line)
			if res.Kind != LineRow {
				continue
			}

			row := res.Row
			if isRelativeEffect(row) {
				b.logger.Debug("relative effect row", "metric", row.Label, "average", row.Average)
				row.Cumulative = sameAsLeft
			}

			rows = append(rows, row)
		}
	}

	b.assignLabels(rows, confidencePercent)

	for i := range rows {
		if locale.MentionsRelativeEffect(rows[i].Label) {
			rows[i].Cumulative = sameAsLeft
		}
	}

	if pRaw, ok := findPValue(lines); ok {
		if p, err := strconv.ParseFloat(pRaw, 64); err == nil {
			rows = append(rows, Row{
				Label:      b.loc.T(locale.PValueLabel),
				Average:    fmt.Sprintf("%.4f", p),
				Cumulative: sameAsLeft,
			})
		} else {
			b.logger.Warn("unparsable p-value", "value", pRaw, "error", err)
		}
	}

	return rows
}

// assignLabels replaces parsed metric names with the canonical labels by
// position. Rows beyond the label list get numbered placeholders.
func (b *Builder) assignLabels(rows []Row, confidencePercent int) {
	labels := Labels(b.loc, confidencePercent)

	if len(rows) > len(labels) {
		b.logger.Warn("summary has more rows than labels",
			"rows", len(rows), "labels", len(labels))
	}

	for i := range rows {
		if i < len(labels) {
			rows[i].Label = labels[i]
			continue
		}

		rows[i].Label = b.loc.T(locale.RowFallback, i+1)
	}
}

func isRelativeEffect(r Row) bool {
	if locale.MentionsRelativeEffect(r.Label) {
		return true
	}

	lower := strings.ToLower(r.Label)
	if strings.Contains(lower, "relative") && strings.Contains(lower, "effect") {
		return true
	}

	return strings.Contains(r.Average, "%") && strings.Contains(r.Cumulative, "%")
}

func nonBlankLines(raw string) []string {
	var lines []string

	for _, l := range strings.Split(raw, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}

	return lines
}

// Report splits the model's narrative report into paragraphs.
func Report(text string) []string {
	var (
		paragraphs []string
		current    []string
	)

	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}

		current = append(current, line)
	}

	flush()

	return paragraphs
}
