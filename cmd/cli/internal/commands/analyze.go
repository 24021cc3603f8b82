package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/impactreport/internal/analysis"
	"github.com/MrJamesThe3rd/impactreport/internal/config"
	"github.com/MrJamesThe3rd/impactreport/internal/database"
	"github.com/MrJamesThe3rd/impactreport/internal/dataset"
	"github.com/MrJamesThe3rd/impactreport/internal/dataset/store"
	"github.com/MrJamesThe3rd/impactreport/internal/locale"
	"github.com/MrJamesThe3rd/impactreport/internal/model"
)

type AnalyzeCmd struct {
	datasetPath  string
	subject      string
	alpha        string
	seasonality  string
	customPeriod int
	priorLevelSD float64
	standardize  bool
	niter        int
	period       periodFlags
	output       outputFlags
	cfg          *config.Config
	logger       *slog.Logger
}

// NewAnalyzeCmd fits the model on a dataset and writes every artifact.
func NewAnalyzeCmd(cfg *config.Config, logger *slog.Logger) *cobra.Command {
	defaults := model.DefaultParamsInput()

	ac := &AnalyzeCmd{cfg: cfg, logger: logger}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the causal-impact model on a dataset and export the report",
		RunE:  ac.run,
	}

	cmd.Flags().StringVar(&ac.datasetPath, "dataset", "", "Path to the dataset CSV (omit to load --subject from the database)")
	cmd.Flags().StringVar(&ac.subject, "subject", "", "Subject name")
	cmd.Flags().StringVar(&ac.alpha, "alpha", fmt.Sprint(cfg.Report.Alpha), "Significance level (0.05) or confidence percentage (95)")
	cmd.Flags().StringVar(&ac.seasonality, "seasonality", "", "Seasonality (weekly, dekad, monthly, quarterly, yearly, custom)")
	cmd.Flags().IntVar(&ac.customPeriod, "seasonality-period", 0, "Period in days for custom seasonality")
	cmd.Flags().Float64Var(&ac.priorLevelSD, "prior-level-sd", defaults.PriorLevelSD, "Prior standard deviation of the local level")
	cmd.Flags().BoolVar(&ac.standardize, "standardize", defaults.Standardize, "Standardize the data before fitting")
	cmd.Flags().IntVar(&ac.niter, "niter", defaults.NIter, "Number of MCMC iterations")
	ac.period.register(cmd)
	ac.output.register(cmd)

	return cmd
}

func (ac *AnalyzeCmd) run(cmd *cobra.Command, _ []string) error {
	if ac.cfg.Model.URL == "" {
		return errors.New("MODEL_URL is not set")
	}

	loc := locale.Parse(ac.cfg.Report.Locale)

	params, err := ac.params()
	if err != nil {
		return err
	}

	o, err := ac.period.overrides()
	if err != nil {
		return err
	}

	series, err := ac.series(cmd)
	if err != nil {
		return err
	}

	runner := model.NewClient(ac.cfg.Model.URL, ac.cfg.Model.Token, ac.cfg.Model.Timeout)
	svc := analysis.NewService(runner, ac.logger)

	r, err := svc.Run(cmd.Context(), analysis.Input{
		Subject:   ac.subject,
		Series:    series,
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

	ac.logger.Info("analysis complete", "id", r.ID, "subject", r.Subject, "artifacts", len(artifacts))

	return ac.output.write(cmd, r, artifacts)
}

func (ac *AnalyzeCmd) params() (model.ParamsInput, error) {
	p := model.DefaultParamsInput()
	p.PriorLevelSD = ac.priorLevelSD
	p.Standardize = ac.standardize
	p.NIter = ac.niter

	alpha, err := model.ParseAlpha(ac.alpha)
	if err != nil {
		return p, err
	}

	p.Alpha = alpha

	if ac.seasonality != "" {
		s, err := model.ParseSeasonality(ac.seasonality)
		if err != nil {
			return p, err
		}

		p.Seasonal = true
		p.Seasonality = s
	}

	if ac.customPeriod > 0 {
		n := ac.customPeriod
		p.CustomPeriod = &n
	}

	return p, nil
}

func (ac *AnalyzeCmd) series(cmd *cobra.Command) (*dataset.Series, error) {
	if ac.datasetPath != "" {
		f, err := os.Open(ac.datasetPath)
		if err != nil {
			return nil, fmt.Errorf("opening dataset: %w", err)
		}
		defer f.Close()

		return dataset.ReadCSV(f, ac.subject)
	}

	if ac.subject == "" {
		return nil, errors.New("either --dataset or --subject is required")
	}

	if !ac.cfg.DB.Enabled {
		return nil, errors.New("loading a subject requires DB_ENABLED=true")
	}

	db, err := database.New(ac.cfg.ConnectionString())
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return store.New(db).Load(cmd.Context(), ac.subject)
}
