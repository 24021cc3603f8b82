package commands

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/impactreport/internal/analysis"
	"github.com/MrJamesThe3rd/impactreport/internal/export"
	"github.com/MrJamesThe3rd/impactreport/internal/locale"
	"github.com/MrJamesThe3rd/impactreport/internal/model"
	"github.com/MrJamesThe3rd/impactreport/internal/period"
)

// periodFlags are the four boundaries shared by every command that needs an
// analysis period.
type periodFlags struct {
	preStart  string
	preEnd    string
	postStart string
	postEnd   string
}

func (f *periodFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.preStart, "pre-start", "", "Pre-period start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.preEnd, "pre-end", "", "Pre-period end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.postStart, "post-start", "", "Intervention start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.postEnd, "post-end", "", "Intervention end date (YYYY-MM-DD)")
}

func (f *periodFlags) overrides() (period.Overrides, error) {
	var o [4]*time.Time

	for i, s := range []string{f.preStart, f.preEnd, f.postStart, f.postEnd} {
		d, err := period.ParseOptional(s)
		if err != nil {
			return period.Overrides{}, err
		}

		o[i] = d
	}

	return period.Overrides{PreStart: o[0], PreEnd: o[1], PostStart: o[2], PostEnd: o[3]}, nil
}

// outputFlags control where and how artifacts are written.
type outputFlags struct {
	dir    string
	bundle bool
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.dir, "out", "o", ".", "Directory to write the artifacts to")
	cmd.Flags().BoolVar(&f.bundle, "zip", false, "Write a single zip archive instead of separate files")
}

func (f *outputFlags) write(cmd *cobra.Command, r *analysis.Report, artifacts []export.Artifact) error {
	if f.bundle {
		b, err := export.Bundle(export.BundleName(r.Subject, r.Period), artifacts...)
		if err != nil {
			return fmt.Errorf("bundling artifacts: %w", err)
		}

		artifacts = []export.Artifact{b}
	}

	paths, err := export.WriteDir(f.dir, artifacts...)
	if err != nil {
		return err
	}

	for _, p := range paths {
		cmd.Println(p)
	}

	return nil
}

type ExportCmd struct {
	summaryPath    string
	reportPath     string
	inferencesPath string
	subject        string
	alpha          string
	locale         string
	period         periodFlags
	output         outputFlags
	logger         *slog.Logger
}

// NewExportCmd encodes artifacts from output the model has already written to
// disk.
func NewExportCmd(logger *slog.Logger, defaultLocale string) *cobra.Command {
	ec := &ExportCmd{logger: logger}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export report artifacts from saved model output",
		RunE:  ec.run,
	}

	cmd.Flags().StringVar(&ec.summaryPath, "summary", "", "Path to the model's summary text")
	cmd.Flags().StringVar(&ec.reportPath, "report", "", "Path to the model's narrative report")
	cmd.Flags().StringVar(&ec.inferencesPath, "inferences", "", "Path to the inferences CSV")
	cmd.Flags().StringVar(&ec.subject, "subject", "", "Subject name used in filenames and metadata")
	cmd.Flags().StringVar(&ec.alpha, "alpha", "0.05", "Significance level (0.05) or confidence percentage (95)")
	cmd.Flags().StringVar(&ec.locale, "locale", defaultLocale, "Output language (ja or en)")
	ec.period.register(cmd)
	ec.output.register(cmd)

	_ = cmd.MarkFlagRequired("summary")
	_ = cmd.MarkFlagRequired("inferences")
	_ = cmd.MarkFlagRequired("pre-start")
	_ = cmd.MarkFlagRequired("pre-end")
	_ = cmd.MarkFlagRequired("post-start")
	_ = cmd.MarkFlagRequired("post-end")

	return cmd
}

func (ec *ExportCmd) run(cmd *cobra.Command, _ []string) error {
	loc := locale.Parse(ec.locale)

	alpha, err := model.ParseAlpha(ec.alpha)
	if err != nil {
		return err
	}

	o, err := ec.period.overrides()
	if err != nil {
		return err
	}

	res, err := ec.load()
	if err != nil {
		return err
	}

	params := model.DefaultParamsInput()
	params.Alpha = alpha

	svc := analysis.NewService(model.Static{Result: res}, ec.logger)

	r, err := svc.Run(cmd.Context(), analysis.Input{
		Subject:   ec.subject,
		Overrides: o,
		Params:    params,
		Locale:    loc,
	})
	if err != nil {
		return err
	}

	artifacts, err := svc.Export(r, loc)
	if err != nil {
		return fmt.Errorf("exporting report: %w", err)
	}

	return ec.output.write(cmd, r, artifacts)
}

func (ec *ExportCmd) load() (*model.StaticResult, error) {
	summaryFile, err := os.Open(ec.summaryPath)
	if err != nil {
		return nil, fmt.Errorf("opening summary: %w", err)
	}
	defer summaryFile.Close()

	inferencesFile, err := os.Open(ec.inferencesPath)
	if err != nil {
		return nil, fmt.Errorf("opening inferences: %w", err)
	}
	defer inferencesFile.Close()

	var reportFile *os.File

	if ec.reportPath != "" {
		reportFile, err = os.Open(ec.reportPath)
		if err != nil {
			return nil, fmt.Errorf("opening report: %w", err)
		}
		defer reportFile.Close()
	}

	if reportFile == nil {
		return model.LoadStatic(summaryFile, nil, inferencesFile)
	}

	return model.LoadStatic(summaryFile, reportFile, inferencesFile)
}
