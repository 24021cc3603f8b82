package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/MrJamesThe3rd/impactreport/internal/detail"
	enc "github.com/MrJamesThe3rd/impactreport/internal/encoding"
	"github.com/MrJamesThe3rd/impactreport/internal/locale"
	"github.com/MrJamesThe3rd/impactreport/internal/period"
	"github.com/MrJamesThe3rd/impactreport/internal/summary"
)

// SummaryCSV encodes the summary table below a metadata block naming the
// subject, the analysed range and the confidence level.
func SummaryCSV(rows []summary.Row, meta Metadata, loc locale.Locale) (Artifact, error) {
	var buf bytes.Buffer

	w := csv.NewWriter(&buf)

	span := period.FormatDate(meta.Period.PreStart) + loc.T(locale.RangeSeparator) + period.FormatDate(meta.Period.PostEnd)

	records := [][]string{
		{loc.T(locale.MetaItem), loc.T(locale.MetaValue)},
		{loc.T(locale.MetaSubject), meta.Subject},
		{loc.T(locale.MetaPeriod), span},
		{loc.T(locale.MetaConfidence), fmt.Sprintf("%d%%", meta.ConfidencePercent)},
	}
	if err := w.WriteAll(records); err != nil {
		return Artifact{}, fmt.Errorf("writing metadata: %w", err)
	}

	buf.WriteString("\n")

	records = make([][]string, 0, len(rows)+1)
	records = append(records, []string{
		loc.T(locale.ColumnMetric), loc.T(locale.ColumnAverage), loc.T(locale.ColumnCumulative),
	})

	for _, r := range rows {
		records = append(records, []string{r.Label, r.Average, r.Cumulative})
	}

	if err := w.WriteAll(records); err != nil {
		return Artifact{}, fmt.Errorf("writing summary rows: %w", err)
	}

	payload, err := enc.WithBOM(buf.Bytes())
	if err != nil {
		return Artifact{}, err
	}

	return Artifact{
		Filename:    filename("summary", meta.Subject, meta.Period.PreStart, meta.Period.PostEnd, "csv"),
		ContentType: ContentTypeCSV,
		Payload:     payload,
	}, nil
}

// DetailCSV encodes the detail report with two header lines, human labels then
// machine keys, and a footer noting that cumulative columns only cover the
// intervention window.
func DetailCSV(rows []detail.Row, subject string, p period.Period, loc locale.Locale) (Artifact, error) {
	var buf bytes.Buffer

	w := csv.NewWriter(&buf)

	labels, keys := detail.Headers(loc)

	records := make([][]string, 0, len(rows)+2)
	records = append(records, labels, keys)

	for _, r := range rows {
		records = append(records, r.Record())
	}

	if err := w.WriteAll(records); err != nil {
		return Artifact{}, fmt.Errorf("writing detail rows: %w", err)
	}

	buf.WriteString("\n" + loc.T(locale.DetailFooter) + "\n")

	payload, err := enc.WithBOM(buf.Bytes())
	if err != nil {
		return Artifact{}, err
	}

	return Artifact{
		Filename:    filename("detail", subject, p.PostStart, p.PostEnd, "csv"),
		ContentType: ContentTypeCSV,
		Payload:     payload,
	}, nil
}
