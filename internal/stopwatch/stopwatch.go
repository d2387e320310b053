// Package stopwatch runs the per-task timers.
//
// A Manager holds the only reference to the running timer, so at most one
// task runs at a time. Elapsed time is always derived from the wall-clock
// distance to the session start and never accumulated tick by tick; a late
// or skipped tick therefore only delays the display, it never loses time.
//
// A Manager is not safe for concurrent use. All calls, including the tick
// callbacks delivered by the Scheduler, must come from one event loop.
package stopwatch

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/meluron/taskflow/internal/model"
)

// DefaultTickPeriod is how often a running timer refreshes its task.
const DefaultTickPeriod = time.Second

// Scheduler registers recurring callbacks on the caller's event loop.
type Scheduler interface {
	// Every arranges for fn to run every d until cancel is called. After
	// cancel returns, fn must not be invoked again.
	Every(d time.Duration, fn func()) (cancel func())
}

// Recorder receives finished sessions.
type Recorder interface {
	Record(taskName string, seconds int) (model.TimeLogEntry, bool, error)
}

type run struct {
	task        *model.Task
	start       time.Time
	baseElapsed int
	session     int
	cancel      func()
}

// Manager starts and stops task timers.
type Manager struct {
	rec    Recorder
	sched  Scheduler
	now    func() time.Time
	period time.Duration
	active *run

	// OnTick, when set, runs after every tick with the running task and its
	// session length in seconds.
	OnTick func(task *model.Task, sessionSeconds int)
}

// New returns a Manager. sched may be nil, in which case no ticks are
// registered and elapsed time is only refreshed by Tick and Stop. A zero
// period uses DefaultTickPeriod.
func New(rec Recorder, sched Scheduler, now func() time.Time, period time.Duration) *Manager {
	if now == nil {
		now = time.Now
	}
	if period <= 0 {
		period = DefaultTickPeriod
	}
	return &Manager{rec: rec, sched: sched, now: now, period: period}
}

// Active returns the running task, or nil.
func (m *Manager) Active() *model.Task {
	if m.active == nil {
		return nil
	}
	return m.active.task
}

// Start runs task's timer, stopping any other running timer first. Starting
// the task that is already running does nothing. An error from flushing the
// previous session is returned, but task is started regardless.
func (m *Manager) Start(task *model.Task) error {
	if m.active != nil && m.active.task == task {
		return nil
	}
	var flushErr error
	if m.active != nil {
		_, _, flushErr = m.Stop(m.active.task)
	}

	r := &run{
		task:        task,
		start:       m.now(),
		baseElapsed: int(task.ElapsedSeconds),
	}
	task.IsRunning = true
	m.active = r
	if m.sched != nil {
		r.cancel = m.sched.Every(m.period, m.Tick)
	}
	slog.Debug("timer started", "task", task.Text)
	return flushErr
}

// Tick recomputes the running task's elapsed time from the wall clock.
func (m *Manager) Tick() {
	r := m.active
	if r == nil {
		return
	}
	m.observe(r)
	if m.OnTick != nil {
		m.OnTick(r.task, r.session)
	}
}

func (m *Manager) observe(r *run) {
	session := int(m.now().Sub(r.start) / time.Second)
	if session < 0 {
		session = 0
	}
	r.session = session
	r.task.ElapsedSeconds = model.FlexInt(r.baseElapsed + session)
}

// Stop halts task's timer and logs the session if it lasted at least one
// second. Stopping a task that is not running does nothing. The timer is
// stopped even when writing the log entry fails.
func (m *Manager) Stop(task *model.Task) (model.TimeLogEntry, bool, error) {
	r := m.active
	if r == nil || r.task != task {
		task.IsRunning = false
		return model.TimeLogEntry{}, false, nil
	}

	if r.cancel != nil {
		r.cancel()
	}
	m.observe(r)
	m.active = nil
	task.IsRunning = false

	session := r.session
	slog.Debug("timer stopped", "task", task.Text, "session_seconds", session)
	if session <= 0 || m.rec == nil {
		return model.TimeLogEntry{}, false, nil
	}
	entry, ok, err := m.rec.Record(task.Text, session)
	if err != nil {
		return entry, false, fmt.Errorf("failed to log session for %q: %w", task.Text, err)
	}
	return entry, ok, nil
}

// Toggle starts task if it is stopped and stops it if it runs.
func (m *Manager) Toggle(task *model.Task) error {
	if m.active != nil && m.active.task == task {
		_, _, err := m.Stop(task)
		return err
	}
	return m.Start(task)
}

// StopAll force-stops whatever is running, flushing its session. It is the
// shutdown path.
func (m *Manager) StopAll() error {
	if m.active == nil {
		return nil
	}
	_, _, err := m.Stop(m.active.task)
	return err
}

// Forget stops task if it runs so no tick can touch it after it is removed.
func (m *Manager) Forget(task *model.Task) error {
	_, _, err := m.Stop(task)
	return err
}

// Restore brings a freshly loaded task into a consistent stopped state. A
// task saved while running is never resumed, since the gap since the save
// is unknown; only its cumulative elapsed time is kept.
func (m *Manager) Restore(task *model.Task) {
	if task.IsRunning {
		slog.Info("timer was running at last save, restoring as stopped",
			"task", task.Text, "elapsed_seconds", int(task.ElapsedSeconds))
		task.IsRunning = false
	}
	if task.ElapsedSeconds < 0 {
		task.ElapsedSeconds = 0
	}
}

// Reset stops task if needed and zeroes its elapsed time.
func (m *Manager) Reset(task *model.Task) error {
	_, _, err := m.Stop(task)
	task.ElapsedSeconds = 0
	return err
}

// ResetAll resets every task. The first flush error is returned after all
// tasks have been reset.
func (m *Manager) ResetAll(tasks []*model.Task) error {
	var firstErr error
	for _, t := range tasks {
		if err := m.Reset(t); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// State returns a snapshot of task's timer.
func (m *Manager) State(task *model.Task) model.StopwatchState {
	r := m.active
	if r == nil || r.task != task {
		return model.StopwatchState{ElapsedSeconds: int(task.ElapsedSeconds)}
	}
	m.observe(r)
	start := r.start
	return model.StopwatchState{
		ElapsedSeconds:        int(task.ElapsedSeconds),
		Running:               true,
		SessionStart:          &start,
		SessionElapsedSeconds: r.session,
	}
}
