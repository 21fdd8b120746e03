package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"tmxedit/internal/domain"
)

type openModel struct {
	title   string
	events  <-chan domain.ParseEvent
	spinner spinner.Model
	prog    progress.Model
	width   int
	percent int
	doc     *domain.Document
	err     error
	done    bool
}

type eventMsg struct{ ev domain.ParseEvent }
type doneMsg struct{}

func newOpenModel(title string, events <-chan domain.ParseEvent) *openModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	return &openModel{title: title, events: events, spinner: sp, prog: prog, width: 80}
}

func (m *openModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *openModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.apply(msg.ev)
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *openModel) apply(ev domain.ParseEvent) tea.Cmd {
	switch e := ev.(type) {
	case domain.Progress:
		m.percent = e.Percent
		return m.prog.SetPercent(float64(e.Percent) / 100)
	case domain.Done:
		m.doc = e.Document
		m.percent = 100
		return m.prog.SetPercent(1)
	case domain.Failed:
		m.err = e.Err
		if m.err == nil {
			m.err = errors.New(e.Message)
		}
	}
	return nil
}

func (m *openModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	name := truncate(m.title, max(m.width-16, 20))

	var b strings.Builder
	switch {
	case m.err != nil:
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render("failed: " + name))
	case m.done && m.doc != nil:
		b.WriteString(titleStyle.Render(fmt.Sprintf("opened: %s (%d units)", name, m.doc.UnitCount())))
	default:
		b.WriteString(titleStyle.Render(fmt.Sprintf("%s opening %s %3d%%", m.spinner.View(), name, m.percent)))
	}
	b.WriteString("\n")
	if m.done && m.err == nil {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *openModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg{ev: ev}
	}
}

func (m *openModel) result() (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.doc == nil {
		return nil, domain.ErrNoDocument
	}
	return m.doc, nil
}

// RunOpen renders an animated progress bar for events until the channel
// closes, then returns the opened document or the failure.
func RunOpen(title string, events <-chan domain.ParseEvent, out io.Writer) (*domain.Document, error) {
	model := newOpenModel(title, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithInput(nil))
	if _, err := program.Run(); err != nil {
		for range events {
		}
		return nil, err
	}
	return model.result()
}

// PrintOpen is the plain-text variant of RunOpen for output that is not a
// terminal. It prints one line per ten percent.
func PrintOpen(title string, events <-chan domain.ParseEvent, out io.Writer) (*domain.Document, error) {
	m := newOpenModel(title, events)
	last := -1
	for ev := range events {
		m.apply(ev)
		if p, ok := ev.(domain.Progress); ok && p.Percent/10 != last {
			last = p.Percent / 10
			fmt.Fprintf(out, "opening %s: %d%%\n", title, p.Percent)
		}
	}
	m.done = true
	return m.result()
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
