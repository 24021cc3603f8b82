package model

import (
	"context"
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/impactreport/internal/inference"
)

// StaticResult is a Result whose parts were produced earlier, either by a
// remote run or by files the model wrote out.
type StaticResult struct {
	SummaryText string
	ReportText  string
	Table       *inference.Table
}

func (r *StaticResult) Summary() string              { return r.SummaryText }
func (r *StaticResult) Report() string               { return r.ReportText }
func (r *StaticResult) Inferences() *inference.Table { return r.Table }

// LoadStatic reads a saved model run. report may be nil.
func LoadStatic(summary, report, inferences io.Reader) (*StaticResult, error) {
	s, err := io.ReadAll(summary)
	if err != nil {
		return nil, fmt.Errorf("reading summary: %w", err)
	}

	res := &StaticResult{SummaryText: string(s)}

	if report != nil {
		r, err := io.ReadAll(report)
		if err != nil {
			return nil, fmt.Errorf("reading report: %w", err)
		}

		res.ReportText = string(r)
	}

	res.Table, err = inference.ReadCSV(inferences)
	if err != nil {
		return nil, fmt.Errorf("reading inferences: %w", err)
	}

	return res, nil
}

// Static is a Runner that always returns the same result, for replaying a
// saved run through the report pipeline.
type Static struct {
	Result Result
}

func (s Static) Run(_ context.Context, _ Request) (Result, error) {
	return s.Result, nil
}
