// Package tui is the interactive tracker: a task list with live timers.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/meluron/taskflow/internal/app"
	"github.com/meluron/taskflow/internal/duration"
	"github.com/meluron/taskflow/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			MarginBottom(1)

	runningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	exceededStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7DC6F"))
	doneStyle   = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("#626262"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")).MarginTop(1)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
)

const helpText = "↑/↓ select • space/enter start/stop • r reset • q quit"

// Tracker is the bubbletea model. All App calls happen inside Update, which
// bubbletea runs on a single goroutine.
type Tracker struct {
	app    *app.App
	sched  *Scheduler
	cursor int
	err    error
}

// NewTracker returns a tracker over a. The cursor starts on the running task,
// else on the selected one. sched must be the Scheduler a's timers use.
func NewTracker(a *app.App, sched *Scheduler) Tracker {
	m := Tracker{app: a, sched: sched}
	focus := a.Timers.Active()
	if focus == nil {
		focus = a.List.Selected()
	}
	for i, t := range a.List.Tasks {
		if t == focus {
			m.cursor = i
		}
	}
	return m
}

func (m Tracker) Init() tea.Cmd {
	return m.sched.Drain()
}

func (m Tracker) current() *model.Task {
	if m.cursor < 0 || m.cursor >= len(m.app.List.Tasks) {
		return nil
	}
	return m.app.List.Tasks[m.cursor]
}

func (m Tracker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "ctrl+z":
			m.err = m.app.Hide()
			return m, tea.Suspend
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.app.List.Tasks)-1 {
				m.cursor++
			}
		case " ", "enter":
			if t := m.current(); t != nil {
				_, m.err = m.app.ToggleTimer(t.ID)
			}
		case "r":
			if t := m.current(); t != nil {
				_, m.err = m.app.ResetTimer(t.ID)
			}
		}
	case tickMsg:
		cmd = m.sched.handle(msg)
	}
	return m, tea.Batch(cmd, m.sched.Drain())
}

func (m Tracker) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("TaskFlow"))
	b.WriteString("\n")

	if len(m.app.List.Tasks) == 0 {
		b.WriteString("No tasks yet. Add one with `taskflow task add <text>`.\n")
	}
	for i, t := range m.app.List.Tasks {
		b.WriteString(m.row(i, t))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(errStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(helpText))
	return b.String()
}

func (m Tracker) row(i int, t *model.Task) string {
	pointer := "  "
	if i == m.cursor {
		pointer = cursorStyle.Render("> ")
	}

	state := m.app.State(t)
	clock := duration.FormatHMS(state.ElapsedSeconds)
	icon := "■"
	switch t.TimeStatus() {
	case model.TimeStatusRunning:
		icon = "▶"
		clock = runningStyle.Render(clock)
	case model.TimeStatusExceeded:
		clock = exceededStyle.Render(clock)
	}

	text := t.Text
	if t.Completed {
		text = doneStyle.Render(text)
	}
	line := fmt.Sprintf("%s%s %s  %s / %s", pointer, icon, clock, text,
		duration.FormatExpected(int(t.ExpectedDurationMinutes)))
	if n := len(t.Subtasks); n > 0 {
		done := 0
		for _, s := range t.Subtasks {
			if s.Completed {
				done++
			}
		}
		line += fmt.Sprintf("  [%d/%d]", done, n)
	}
	return line
}
