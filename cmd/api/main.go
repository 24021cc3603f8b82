package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/impactreport/internal/analysis"
	"github.com/MrJamesThe3rd/impactreport/internal/config"
	"github.com/MrJamesThe3rd/impactreport/internal/database"
	"github.com/MrJamesThe3rd/impactreport/internal/dataset/store"
	reportHttp "github.com/MrJamesThe3rd/impactreport/internal/http"
	analysisHandler "github.com/MrJamesThe3rd/impactreport/internal/http/analysis"
	periodHandler "github.com/MrJamesThe3rd/impactreport/internal/http/period"
	reportHandler "github.com/MrJamesThe3rd/impactreport/internal/http/report"
	"github.com/MrJamesThe3rd/impactreport/internal/locale"
	"github.com/MrJamesThe3rd/impactreport/internal/model"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	loc := locale.Parse(cfg.Report.Locale)

	var loader analysisHandler.SeriesLoader

	if cfg.DB.Enabled {
		db, err := database.New(cfg.ConnectionString())
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		loader = store.New(db)
	}

	var analysesH *analysisHandler.Handler

	if cfg.Model.URL != "" {
		runner := model.NewClient(cfg.Model.URL, cfg.Model.Token, cfg.Model.Timeout)
		svc := analysis.NewService(runner, slog.Default())
		analysesH = analysisHandler.NewHandler(svc, loader, loc, cfg.Report.Alpha, cfg.Server.MaxUploadSize)
	} else {
		slog.Warn("MODEL_URL not set, analyses endpoint disabled")
	}

	var (
		periodsH = periodHandler.NewHandler(loc)
		reportsH = reportHandler.NewHandler(loc, cfg.Server.MaxUploadSize)
	)

	router := reportHttp.New(reportHttp.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		JWTSecret:      []byte(cfg.Auth.JWTSecret),
		Timeout:        cfg.Server.Timeout,
	}, periodsH, reportsH, analysesH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "name", cfg.App.Name, "port", port, "locale", loc)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
