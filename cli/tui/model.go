package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pithecene-io/formstate/cli/render"
)

// StateMsg carries one store notification into the program.
type StateMsg struct {
	View render.StateView
}

// DoneMsg reports that the operation returned.
type DoneMsg struct {
	Err error
}

// maxLog bounds the action log shown under the state box.
const maxLog = 8

// SubmissionModel is a Bubble Tea model that follows one store while an
// operation runs.
type SubmissionModel struct {
	title    string
	view     render.StateView
	log      []string
	spinner  spinner.Model
	done     bool
	err      error
	quitting bool
	cancel   func()
}

// NewSubmissionModel creates a model titled title. cancel, when non-nil,
// is called if the user quits before the operation returns.
func NewSubmissionModel(title string, initial render.StateView, cancel func()) SubmissionModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = WarningStyle
	return SubmissionModel{
		title:   title,
		view:    initial,
		spinner: sp,
		cancel:  cancel,
	}
}

// Init implements tea.Model.
func (m SubmissionModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m SubmissionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StateMsg:
		m.view = msg.View
		if msg.View.Action != "" {
			m.log = append(m.log, msg.View.Action)
			if len(m.log) > maxLog {
				m.log = m.log[len(m.log)-maxLog:]
			}
		}
		return m, nil

	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			if !m.done && m.cancel != nil {
				m.cancel()
			}
			m.quitting = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// Done reports whether the operation has returned.
func (m SubmissionModel) Done() bool {
	return m.done
}

// Err returns the operation error, if any.
func (m SubmissionModel) Err() error {
	return m.err
}

// View implements tea.Model.
func (m SubmissionModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	title := m.title
	if !m.done {
		title = m.spinner.View() + " " + title
	}
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n")

	v := m.view
	rows := [][2]string{
		{"Phase", v.Phase},
		{"Form", v.FormID},
		{"Submission", v.ID},
		{"URL", v.URL},
		{"Active", fmt.Sprint(v.IsActive)},
		{"Invalid", fmt.Sprint(v.IsInvalid)},
	}
	for _, row := range rows {
		value := ValueStyle.Render(row[1])
		if row[0] == "Phase" {
			value = PhaseStyle(row[1]).Render(row[1])
		}
		fmt.Fprintf(&b, "%s %s\n", LabelStyle.Render(row[0]+":"), value)
	}
	if v.Error != "" {
		fmt.Fprintf(&b, "%s %s\n", LabelStyle.Render("Error:"), ErrorStyle.Render(v.Error))
	}

	if len(v.Submission) > 0 {
		b.WriteString("\n")
		keys := make([]string, 0, len(v.Submission))
		for k := range v.Submission {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "  %s %v\n", LabelStyle.Render(k+":"), v.Submission[k])
		}
	}

	if len(m.log) > 0 {
		b.WriteString("\n")
		for _, a := range m.log {
			b.WriteString(MutedStyle.Render("• "+a) + "\n")
		}
	}

	help := "Press q or Ctrl+C to cancel"
	if m.done {
		help = "Press q or Ctrl+C to quit"
	}
	return BoxStyle.Render(b.String()) + "\n" + HelpStyle.Render(help)
}

// keyMap defines key bindings.
type keyMap struct {
	Quit key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
