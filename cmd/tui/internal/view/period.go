package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/impactreport/internal/analysis"
	"github.com/MrJamesThe3rd/impactreport/internal/locale"
	"github.com/MrJamesThe3rd/impactreport/internal/period"
)

// PeriodSelectedMsg is emitted when the user has confirmed a valid period.
type PeriodSelectedMsg struct {
	Period period.Period
}

const (
	inputPreStart = iota
	inputPreEnd
	inputPostStart
	inputPostEnd
	numPeriodInputs
)

// PeriodPicker collects the four analysis boundaries and shows the validation
// message and window lengths as the user types.
type PeriodPicker struct {
	inputs     [numPeriodInputs]textinput.Model
	focusIndex int
	loc        locale.Locale

	message string
	days    string
	err     error
}

// NewPeriodPicker creates a picker. Empty defaults leave the input blank.
func NewPeriodPicker(loc locale.Locale, defaults period.Overrides) PeriodPicker {
	prompts := [numPeriodInputs]string{
		"Pre-period start:  ",
		"Pre-period end:    ",
		"Intervention start: ",
		"Intervention end:   ",
	}
	values := [numPeriodInputs]*time.Time{defaults.PreStart, defaults.PreEnd, defaults.PostStart, defaults.PostEnd}

	m := PeriodPicker{loc: loc}

	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = "YYYY-MM-DD"
		ti.CharLimit = 10
		ti.Width = 12
		ti.Prompt = prompts[i]

		if values[i] != nil {
			ti.SetValue(period.FormatDate(*values[i]))
		}

		m.inputs[i] = ti
	}

	m.inputs[0].Focus()
	m.refresh()

	return m
}

func (m PeriodPicker) Init() tea.Cmd {
	return textinput.Blink
}

func (m PeriodPicker) Update(msg tea.Msg) (PeriodPicker, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "tab", "down":
			return m.focus((m.focusIndex + 1) % numPeriodInputs)
		case "shift+tab", "up":
			return m.focus((m.focusIndex + numPeriodInputs - 1) % numPeriodInputs)
		case "enter":
			return m.confirm()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)
	m.refresh()

	return m, cmd
}

func (m PeriodPicker) focus(i int) (PeriodPicker, tea.Cmd) {
	m.inputs[m.focusIndex].Blur()
	m.focusIndex = i
	m.inputs[m.focusIndex].Focus()

	return m, textinput.Blink
}

func (m PeriodPicker) overrides() (period.Overrides, error) {
	var o [numPeriodInputs]*time.Time

	for i, in := range m.inputs {
		d, err := period.ParseOptional(in.Value())
		if err != nil {
			return period.Overrides{}, err
		}

		o[i] = d
	}

	return period.Overrides{PreStart: o[0], PreEnd: o[1], PostStart: o[2], PostEnd: o[3]}, nil
}

// refresh recomputes the live validation message. Partially typed dates are
// ignored until they parse.
func (m *PeriodPicker) refresh() {
	m.message, m.days = "", ""

	o, err := m.overrides()
	if err != nil {
		return
	}

	if ok, msg := period.Validate(o.PreEnd, o.PostStart, m.loc); !ok {
		m.message = msg
	}

	if pre, post, ok := period.Days(o.PreStart, o.PreEnd, o.PostStart, o.PostEnd); ok {
		m.days = fmt.Sprintf("Pre-period %d days, intervention %d days", pre, post)
	}
}

func (m PeriodPicker) confirm() (PeriodPicker, tea.Cmd) {
	o, err := m.overrides()
	if err != nil {
		m.err = err
		return m, nil
	}

	p, err := analysis.ResolvePeriod(analysis.Input{Overrides: o, Locale: m.loc})
	if err != nil {
		m.err = err
		return m, nil
	}

	m.err = nil

	return m, func() tea.Msg {
		return PeriodSelectedMsg{Period: p}
	}
}

func (m PeriodPicker) View() string {
	var b strings.Builder

	b.WriteString("Analysis Period:\n\n")

	for _, in := range m.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}

	if m.days != "" {
		b.WriteString("\n" + mutedStyle.Render(m.days))
	}

	if m.message != "" {
		b.WriteString("\n" + errorStyle.Render(m.message))
	}

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	b.WriteString("\n\n(Enter to confirm, Tab to switch, Esc to back)")

	return b.String()
}
