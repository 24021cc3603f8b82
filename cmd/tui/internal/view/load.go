package view

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/impactreport/internal/analysis"
	"github.com/MrJamesThe3rd/impactreport/internal/locale"
	"github.com/MrJamesThe3rd/impactreport/internal/model"
	"github.com/MrJamesThe3rd/impactreport/internal/period"
)

type loadState int

const (
	loadStateFilePick loadState = iota
	loadStateDetails
	loadStatePeriod
	loadStateLoading
	loadStateResult
)

// loadFields are the form bindings. They live behind a pointer so the form
// keeps writing to the same values as the model is copied between updates.
type loadFields struct {
	summaryPath string
	reportPath  string
	subject     string
	alpha       string
	locale      string
}

// LoadModel builds a report from model output saved on disk: the inferences
// CSV is picked first, then the summary and report texts and the period.
type LoadModel struct {
	CommonModel
	svc *analysis.Service

	state          loadState
	filePicker     filepicker.Model
	inferencesPath string
	fields         *loadFields
	form           *huh.Form
	periodPicker   PeriodPicker

	status string
	err    error
}

func NewLoadModel(svc *analysis.Service, defaultLocale locale.Locale, defaultAlpha float64) LoadModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return LoadModel{
		svc:        svc,
		filePicker: fp,
		fields: &loadFields{
			alpha:  fmt.Sprint(defaultAlpha),
			locale: string(defaultLocale),
		},
	}
}

func (m LoadModel) Title() string { return "Load Report" }

func (m LoadModel) ShortHelp() string {
	switch m.state {
	case loadStateFilePick:
		return "Esc: back | Enter: select inferences CSV"
	case loadStateLoading:
		return "Loading..."
	}

	return "Esc: back | Enter: confirm"
}

func (m LoadModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m LoadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

	case PeriodSelectedMsg:
		m.state = loadStateLoading
		m.status = "Building report..."

		return m, m.loadCmd(msg.Period)

	case loadResultMsg:
		if msg.err != nil {
			m.state = loadStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		return m, func() tea.Msg { return ReportReadyMsg{Report: msg.report} }
	}

	switch m.state {
	case loadStateFilePick:
		return m.updateFilePick(msg)
	case loadStateDetails:
		return m.updateDetails(msg)
	case loadStatePeriod:
		var cmd tea.Cmd
		m.periodPicker, cmd = m.periodPicker.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m LoadModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case loadStateDetails:
		m.state = loadStateFilePick
		return m, nil
	case loadStatePeriod:
		m.state = loadStateDetails
		m.form = m.buildDetailsForm()

		return m, m.form.Init()
	case loadStateResult:
		m.state = loadStateFilePick
		m.err = nil
		m.status = ""

		return m, nil
	}

	return m, Back
}

func (m LoadModel) updateFilePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.inferencesPath = path
		m.state = loadStateDetails
		m.form = m.buildDetailsForm()

		return m, m.form.Init()
	}

	return m, cmd
}

func (m LoadModel) updateDetails(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = loadStatePeriod
	m.periodPicker = NewPeriodPicker(locale.Parse(m.fields.locale), period.Overrides{})

	return m, m.periodPicker.Init()
}

func (m LoadModel) buildDetailsForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("summary").
				Title("Summary text file").
				Placeholder("./summary.txt").
				Value(&m.fields.summaryPath).
				Validate(fileExists),

			huh.NewInput().
				Key("report").
				Title("Narrative report file").
				Description("Optional").
				Value(&m.fields.reportPath).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}

					return fileExists(s)
				}),

			huh.NewInput().
				Key("subject").
				Title("Subject").
				Value(&m.fields.subject),

			huh.NewInput().
				Key("alpha").
				Title("Significance level").
				Description("0.05 or 95").
				Value(&m.fields.alpha).
				Validate(func(s string) error {
					_, err := model.ParseAlpha(s)
					return err
				}),

			huh.NewSelect[string]().
				Key("locale").
				Title("Language").
				Options(
					huh.NewOption("日本語", string(locale.JA)),
					huh.NewOption("English", string(locale.EN)),
				).
				Value(&m.fields.locale),
		),
	).WithWidth(60).WithShowHelp(false)
}

func fileExists(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("path is required")
	}

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot read %s", path)
	}

	return nil
}

func (m LoadModel) View() string {
	switch m.state {
	case loadStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select inferences CSV:\n\n%s", m.filePicker.View()),
		)
	case loadStateDetails:
		return lipgloss.NewStyle().Padding(1).Render(
			mutedStyle.Render(m.inferencesPath) + "\n\n" + m.form.View(),
		)
	case loadStatePeriod:
		return lipgloss.NewStyle().Padding(1).Render(m.periodPicker.View())
	case loadStateLoading:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case loadStateResult:
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(m.status) + "\n\n(Esc to go back)")
	}

	return ""
}

type loadResultMsg struct {
	report *analysis.Report
	err    error
}

func (m LoadModel) loadCmd(p period.Period) tea.Cmd {
	fields := *m.fields
	inferencesPath := m.inferencesPath
	svc := m.svc

	return func() tea.Msg {
		res, err := readSaved(fields.summaryPath, fields.reportPath, inferencesPath)
		if err != nil {
			return loadResultMsg{err: err}
		}

		alpha, err := model.ParseAlpha(fields.alpha)
		if err != nil {
			return loadResultMsg{err: err}
		}

		r := svc.Build(fields.subject, p, model.ConfidencePercent(alpha), res, locale.Parse(fields.locale))

		return loadResultMsg{report: r}
	}
}

func readSaved(summaryPath, reportPath, inferencesPath string) (*model.StaticResult, error) {
	summaryFile, err := os.Open(summaryPath)
	if err != nil {
		return nil, fmt.Errorf("opening summary: %w", err)
	}
	defer summaryFile.Close()

	inferencesFile, err := os.Open(inferencesPath)
	if err != nil {
		return nil, fmt.Errorf("opening inferences: %w", err)
	}
	defer inferencesFile.Close()

	if strings.TrimSpace(reportPath) == "" {
		return model.LoadStatic(summaryFile, nil, inferencesFile)
	}

	reportFile, err := os.Open(reportPath)
	if err != nil {
		return nil, fmt.Errorf("opening report: %w", err)
	}
	defer reportFile.Close()

	return model.LoadStatic(summaryFile, reportFile, inferencesFile)
}
