package model

import (
	"context"
	"errors"

	"github.com/MrJamesThe3rd/impactreport/internal/dataset"
	"github.com/MrJamesThe3rd/impactreport/internal/inference"
	"github.com/MrJamesThe3rd/impactreport/internal/period"
)

//go:generate mockgen -source=model.go -destination=runner_mock.go -package=model

var ErrUnavailable = errors.New("model service unavailable")

// Result is what a fitted causal impact model exposes to the report.
type Result interface {
	// Summary is the fixed-width text table of averages and cumulatives.
	Summary() string
	// Report is the narrative interpretation of the summary.
	Report() string
	// Inferences is the per-date prediction table.
	Inferences() *inference.Table
}

// Request is one model fit.
type Request struct {
	Series *dataset.Series
	Period period.Period
	Params Params
}

// Runner fits the model. Implementations must not be called with a period
// that failed validation.
type Runner interface {
	Run(ctx context.Context, req Request) (Result, error)
}
