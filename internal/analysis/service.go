package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/impactreport/internal/chart"
	"github.com/MrJamesThe3rd/impactreport/internal/dataset"
	"github.com/MrJamesThe3rd/impactreport/internal/detail"
	"github.com/MrJamesThe3rd/impactreport/internal/export"
	"github.com/MrJamesThe3rd/impactreport/internal/locale"
	"github.com/MrJamesThe3rd/impactreport/internal/model"
	"github.com/MrJamesThe3rd/impactreport/internal/period"
	"github.com/MrJamesThe3rd/impactreport/internal/summary"
)

// ValidationError is a user-correctable problem with the requested analysis.
// The model is never run when one is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Input describes one analysis request.
type Input struct {
	Subject string
	// Series is the data to fit. Its date range supplies any boundary not
	// given in Overrides; without a series all four must be set.
	Series    *dataset.Series
	Overrides period.Overrides
	Params    model.ParamsInput
	Locale    locale.Locale
}

// Report is the finished, export-ready result of an analysis.
type Report struct {
	ID         uuid.UUID
	Subject    string
	Locale     locale.Locale
	Period     period.Period
	Confidence int
	Summary    []summary.Row
	Narrative  []string
	Detail     []detail.Row
	// Chart is nil when the inference table had nothing to plot.
	Chart chart.Chart
}

// Service runs the model behind the period gate and shapes its output into a
// Report.
type Service struct {
	runner model.Runner
	logger *slog.Logger
}

// NewService creates a Service. A nil logger discards diagnostics.
func NewService(runner model.Runner, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Service{runner: runner, logger: logger}
}

// ResolvePeriod derives the analysis period from the series range and the
// overrides, then validates it. The returned error is a *ValidationError.
func ResolvePeriod(in Input) (period.Period, error) {
	o := in.Overrides

	var p period.Period

	if earliest, latest, ok := in.Series.Range(); ok {
		p = period.Defaults(earliest, latest, o)
	} else {
		if o.PreStart == nil || o.PreEnd == nil || o.PostStart == nil || o.PostEnd == nil {
			return period.Period{}, &ValidationError{Message: "analysis period is incomplete: all four dates are required without a dataset"}
		}

		p = period.Defaults(*o.PreStart, *o.PostEnd, o)
	}

	if ok, msg := period.Validate(&p.PreEnd, &p.PostStart, in.Locale); !ok {
		return period.Period{}, &ValidationError{Message: msg}
	}

	valid, err := period.New(p.PreStart, p.PreEnd, p.PostStart, p.PostEnd)
	if err != nil {
		return period.Period{}, &ValidationError{Message: err.Error()}
	}

	return valid, nil
}

// Run validates the period, fits the model and builds the report.
func (s *Service) Run(ctx context.Context, in Input) (*Report, error) {
	p, err := ResolvePeriod(in)
	if err != nil {
		return nil, err
	}

	subject := in.Subject
	if subject == "" && in.Series != nil {
		subject = in.Series.Subject
	}

	params := model.BuildParams(in.Params)

	res, err := s.runner.Run(ctx, model.Request{Series: in.Series, Period: p, Params: params})
	if err != nil {
		return nil, fmt.Errorf("running model: %w", err)
	}

	return s.Build(subject, p, params.ConfidencePercent(), res, in.Locale), nil
}

// Build shapes a model result into a Report without running anything.
func (s *Service) Build(subject string, p period.Period, confidence int, res model.Result, loc locale.Locale) *Report {
	logger := s.logger.With("subject", subject)

	r := &Report{
		ID:         uuid.New(),
		Subject:    subject,
		Locale:     loc,
		Period:     p,
		Confidence: confidence,
		Summary:    summary.NewBuilder(logger, loc).Build(res.Summary(), confidence),
		Narrative:  summary.Report(res.Report()),
	}

	table := res.Inferences()
	r.Detail = detail.Assemble(table, p)

	if table != nil {
		if missing := detail.Unresolved(table.Columns); len(missing) > 0 {
			keys := make([]string, len(missing))
			for i, f := range missing {
				keys[i] = f.Key()
			}

			logger.Debug("detail fields without a source column", "fields", keys)
		}
	}

	plot, err := chart.FromInferences(table, p, chart.Options{Locale: loc})

	switch {
	case errors.Is(err, chart.ErrNoData):
		logger.Warn("no chart rendered", "reason", err)
	case err != nil:
		logger.Error("failed to render chart", "error", err)
	default:
		r.Chart = plot
	}

	return r
}

// Export encodes every artifact of the report.
func (s *Service) Export(r *Report, loc locale.Locale) ([]export.Artifact, error) {
	meta := export.Metadata{Subject: r.Subject, Period: r.Period, ConfidencePercent: r.Confidence}

	summaryCSV, err := export.SummaryCSV(r.Summary, meta, loc)
	if err != nil {
		return nil, fmt.Errorf("encoding summary: %w", err)
	}

	detailCSV, err := export.DetailCSV(r.Detail, r.Subject, r.Period, loc)
	if err != nil {
		return nil, fmt.Errorf("encoding detail: %w", err)
	}

	detailXLSX, err := export.DetailXLSX(r.Detail, r.Subject, r.Period, loc)
	if err != nil {
		return nil, fmt.Errorf("encoding detail workbook: %w", err)
	}

	artifacts := []export.Artifact{summaryCSV, detailCSV, detailXLSX}

	if r.Chart != nil {
		pdf, err := export.ChartPDF(r.Chart, r.Subject, r.Period)
		if err != nil {
			return nil, fmt.Errorf("encoding chart: %w", err)
		}

		artifacts = append(artifacts, pdf)
	}

	return artifacts, nil
}
