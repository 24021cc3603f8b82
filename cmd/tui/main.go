package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/impactreport/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/impactreport/internal/analysis"
	"github.com/MrJamesThe3rd/impactreport/internal/config"
	"github.com/MrJamesThe3rd/impactreport/internal/locale"
	reportModel "github.com/MrJamesThe3rd/impactreport/internal/model"
)

type model struct {
	svc    *analysis.Service
	loc    locale.Locale
	alpha  float64
	report *analysis.Report

	currentView View

	loadView   view.LoadModel
	reportView view.ReportModel
	exportView view.ExportModel
}

type View int

const (
	ViewMenu   View = 0
	ViewLoad   View = 1
	ViewReport View = 2
	ViewExport View = 3
)

func initialModel(cfg *config.Config, logger *slog.Logger) model {
	loc := locale.Parse(cfg.Report.Locale)
	svc := analysis.NewService(reportModel.Static{}, logger)

	return model{
		svc:         svc,
		loc:         loc,
		alpha:       cfg.Report.Alpha,
		currentView: ViewMenu,
		loadView:    view.NewLoadModel(svc, loc, cfg.Report.Alpha),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewLoad
				m.loadView = view.NewLoadModel(m.svc, m.loc, m.alpha)

				return m, m.loadView.Init()
			case "2":
				if m.report == nil {
					return m, nil
				}

				m.currentView = ViewReport

				return m, m.reportView.Init()
			case "3":
				if m.report == nil {
					return m, nil
				}

				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.svc, m.report)

				return m, m.exportView.Init()
			}
		}
	case view.ReportReadyMsg:
		m.report = msg.Report
		m.reportView = view.NewReportModel(msg.Report)
		m.currentView = ViewReport

		return m, nil
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewLoad:
		var newModel tea.Model
		newModel, cmd = m.loadView.Update(msg)
		m.loadView = newModel.(view.LoadModel)
	case ViewReport:
		var newModel tea.Model
		newModel, cmd = m.reportView.Update(msg)
		m.reportView = newModel.(view.ReportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		loaded := "(no report loaded)"
		if m.report != nil {
			loaded = fmt.Sprintf("(loaded: %s)", m.report.Subject)
		}

		return lipgloss.NewStyle().Padding(2).Render(
			"Impact Report TUI\n\n" +
				"1. Load Report\n" +
				"2. View Report " + loaded + "\n" +
				"3. Export Report\n\n" +
				"q. Quit",
		)
	case ViewLoad:
		return m.loadView.View()
	case ViewReport:
		return m.reportView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Diagnostics are dropped unless LOG_FILE is set; the terminal is the UI's.
	var logOut io.Writer = io.Discard

	if cfg.Log.File != "" {
		f, err := tea.LogToFile(cfg.Log.File, "")
		if err != nil {
			slog.Error("failed to open log file", "error", err)
			os.Exit(1)
		}
		defer f.Close()

		logOut = f
	}

	logger := slog.New(slog.NewTextHandler(logOut, nil))

	p := tea.NewProgram(initialModel(cfg, logger))
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
