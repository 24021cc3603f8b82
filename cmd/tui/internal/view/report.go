package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/impactreport/internal/analysis"
	"github.com/MrJamesThe3rd/impactreport/internal/chart"
	"github.com/MrJamesThe3rd/impactreport/internal/detail"
	"github.com/MrJamesThe3rd/impactreport/internal/locale"
	"github.com/MrJamesThe3rd/impactreport/internal/period"
)

type reportTab int

const (
	reportTabSummary reportTab = iota
	reportTabDetail
	reportTabNarrative
)

// detailColumns is the subset of detail fields that fits a terminal.
var detailColumns = []detail.Field{
	detail.FieldObserved,
	detail.FieldPredicted,
	detail.FieldEffect,
	detail.FieldCumEffect,
}

// ReportModel browses a built report.
type ReportModel struct {
	CommonModel
	report *analysis.Report

	tab     reportTab
	summary table.Model
	detail  table.Model
}

func NewReportModel(r *analysis.Report) ReportModel {
	loc := r.Locale

	summaryTable := newTable([]table.Column{
		{Title: loc.T(locale.ColumnMetric), Width: 28},
		{Title: loc.T(locale.ColumnAverage), Width: 22},
		{Title: loc.T(locale.ColumnCumulative), Width: 22},
	})

	rows := make([]table.Row, 0, len(r.Summary))
	for _, row := range r.Summary {
		rows = append(rows, table.Row{row.Label, row.Average, row.Cumulative})
	}

	summaryTable.SetRows(rows)

	columns := []table.Column{{Title: detail.FieldDate.Label(loc), Width: 12}}
	for _, f := range detailColumns {
		columns = append(columns, table.Column{Title: f.Label(loc), Width: 16})
	}

	detailTable := newTable(columns)

	rows = make([]table.Row, 0, len(r.Detail))
	for _, row := range r.Detail {
		cells := table.Row{row.Date.Format(detail.DateLayout)}

		for _, f := range detailColumns {
			cell := ""
			if v := row.Get(f); v.Valid {
				cell = v.Decimal.StringFixed(2)
			}

			cells = append(cells, cell)
		}

		rows = append(rows, cells)
	}

	detailTable.SetRows(rows)

	return ReportModel{
		report:  r,
		summary: summaryTable,
		detail:  detailTable,
	}
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func (m ReportModel) Title() string { return "Report" }

func (m ReportModel) ShortHelp() string {
	return "Esc: back | Tab: summary/detail/narrative"
}

func (m ReportModel) Init() tea.Cmd {
	return nil
}

func (m ReportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.summary.SetHeight(min(len(m.report.Summary)+1, msg.Height-12))
		m.detail.SetHeight(msg.Height - 12)

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "tab":
			m.tab = (m.tab + 1) % 3
			return m, nil
		}
	}

	var cmd tea.Cmd

	switch m.tab {
	case reportTabSummary:
		m.summary, cmd = m.summary.Update(msg)
	case reportTabDetail:
		m.detail, cmd = m.detail.Update(msg)
	}

	return m, cmd
}

func (m ReportModel) View() string {
	r := m.report

	subject := r.Subject
	if subject == "" {
		subject = "-"
	}

	header := fmt.Sprintf("%s | %s%s%s | %d%%",
		activeStyle(subject),
		period.FormatDate(r.Period.PreStart), r.Locale.T(locale.RangeSeparator), period.FormatDate(r.Period.PostEnd),
		r.Confidence,
	)

	tabs := []string{"Summary", "Detail", "Narrative"}
	for i := range tabs {
		if reportTab(i) == m.tab {
			tabs[i] = activeStyle("[" + tabs[i] + "]")
		}
	}

	var body string

	switch m.tab {
	case reportTabSummary:
		body = bordered(m.summary.View())
	case reportTabDetail:
		body = bordered(m.detail.View())
	case reportTabNarrative:
		body = lipgloss.NewStyle().Width(80).Render(strings.Join(r.Narrative, "\n\n"))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		strings.Join(tabs, "  "),
		"",
		body,
	)

	if notes := chartNotes(r.Chart); notes != "" {
		content += "\n\n" + mutedStyle.Render(notes)
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func chartNotes(c chart.Chart) string {
	if c == nil {
		return "No chart: the inference table had nothing to plot."
	}

	var notes []string

	for _, a := range c.Annotations() {
		if a.Visible() {
			notes = append(notes, a.Text())
		}
	}

	return strings.Join(notes, "\n")
}

func bordered(s string) string {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(s)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}
