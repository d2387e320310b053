package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type tickMsg struct {
	id int
	at time.Time
}

type registration struct {
	period time.Duration
	fn     func()
}

// Scheduler runs recurring callbacks on the bubbletea event loop. Each
// registration re-arms its own tea.Tick after every delivery; a tick that
// arrives after its registration was cancelled is dropped.
type Scheduler struct {
	next    int
	active  map[int]registration
	pending []tea.Cmd
}

func NewScheduler() *Scheduler {
	return &Scheduler{active: map[int]registration{}}
}

// Every registers fn. The first tick is queued and goes out with the next
// Drain.
func (s *Scheduler) Every(d time.Duration, fn func()) (cancel func()) {
	s.next++
	id := s.next
	s.active[id] = registration{period: d, fn: fn}
	s.pending = append(s.pending, tick(id, d))
	return func() { delete(s.active, id) }
}

// Drain returns the ticks queued since the last call.
func (s *Scheduler) Drain() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}

func (s *Scheduler) handle(msg tickMsg) tea.Cmd {
	reg, ok := s.active[msg.id]
	if !ok {
		return nil
	}
	reg.fn()
	if _, ok := s.active[msg.id]; !ok {
		return nil
	}
	return tick(msg.id, reg.period)
}

func tick(id int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg{id: id, at: t}
	})
}
