// Package app wires the task list, the timers, the time-log ledger and
// persistence into one session. Every UI event maps to one App method; each
// method runs to completion and saves before returning.
package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/meluron/taskflow/internal/model"
	"github.com/meluron/taskflow/internal/persist"
	"github.com/meluron/taskflow/internal/report"
	"github.com/meluron/taskflow/internal/stopwatch"
	"github.com/meluron/taskflow/internal/storage"
	"github.com/meluron/taskflow/internal/tasks"
	"github.com/meluron/taskflow/internal/timelog"
)

// Confirmation prompts for destructive bulk operations.
const (
	PromptResetTimers = "Are you sure you want to reset all task timers to 0? This cannot be undone."
	PromptClearLogs   = "Are you sure you want to clear all time logs? This cannot be undone."
	PromptClearTasks  = "Are you sure you want to clear all tasks? Time logs will be preserved."
)

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Options tune a session. Zero values pick the defaults.
type Options struct {
	Now        func() time.Time
	Scheduler  stopwatch.Scheduler
	TickPeriod time.Duration
	SaveEvery  int
}

// App is one running session over a store.
type App struct {
	List   *tasks.List
	Timers *stopwatch.Manager
	Logs   *timelog.Store
	Note   string

	bridge   *persist.Bridge
	throttle *persist.Throttle
	now      func() time.Time
}

// Open loads the session: expired logs are pruned, tasks are loaded and any
// timer saved as running is restored as stopped.
func Open(kv storage.Store, opts Options) (*App, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	logs := timelog.New(kv, now)
	kept, err := logs.PruneExpired()
	if err != nil {
		return nil, fmt.Errorf("failed to clean up time logs: %w", err)
	}
	slog.Info("time logs cleaned up", "retention_days", timelog.RetentionDays, "kept", kept)

	bridge := persist.NewBridge(kv)
	snap, err := bridge.Load()
	if err != nil {
		return nil, err
	}

	a := &App{
		Logs:     logs,
		Note:     snap.Note,
		bridge:   bridge,
		throttle: persist.NewThrottle(opts.SaveEvery),
		now:      now,
	}
	a.Timers = stopwatch.New(logs, opts.Scheduler, now, opts.TickPeriod)
	a.Timers.OnTick = a.onTick
	for _, t := range snap.Tasks {
		a.Timers.Restore(t)
	}
	a.List = tasks.NewList(snap.Tasks, snap.SelectedTaskID, now)
	return a, nil
}

// Save persists the full task state. A failure is logged and returned; the
// in-memory state is left as it is.
func (a *App) Save() error {
	if err := a.bridge.Save(a.List.Tasks, a.List.SelectedID, a.Note); err != nil {
		slog.Error("failed to save state", "error", err)
		return err
	}
	return nil
}

func (a *App) onTick(_ *model.Task, sessionSeconds int) {
	if a.throttle.Due(sessionSeconds) {
		a.Save()
	}
}

// change applies fn and saves. fn's error wins over the save error.
func (a *App) change(fn func() error) error {
	if err := fn(); err != nil {
		return err
	}
	return a.Save()
}

// AddTask appends a task.
func (a *App) AddTask(text string, expectedMinutes int) (*model.Task, error) {
	var t *model.Task
	err := a.change(func() (err error) {
		t, err = a.List.Add(text, expectedMinutes)
		return err
	})
	return t, err
}

// DeleteTask stops the task's timer, logging its session, and removes it.
// Past log entries for the task are kept.
func (a *App) DeleteTask(ref string) (*model.Task, error) {
	t, _, err := a.List.Find(ref)
	if err != nil {
		return nil, err
	}
	flushErr := a.Timers.Forget(t)
	if _, err := a.List.Remove(t.ID); err != nil {
		return nil, err
	}
	if err := a.Save(); err != nil {
		return t, err
	}
	return t, flushErr
}

// RenameTask changes a task's text.
func (a *App) RenameTask(ref, text string) (*model.Task, error) {
	var t *model.Task
	err := a.change(func() (err error) {
		t, err = a.List.Rename(ref, text)
		return err
	})
	return t, err
}

// ToggleCompleted flips a task's completion.
func (a *App) ToggleCompleted(ref string) (*model.Task, error) {
	var t *model.Task
	err := a.change(func() (err error) {
		t, err = a.List.ToggleCompleted(ref)
		return err
	})
	return t, err
}

// SetExpected sets a task's expected duration in minutes.
func (a *App) SetExpected(ref string, minutes int) (*model.Task, error) {
	var t *model.Task
	err := a.change(func() (err error) {
		t, err = a.List.SetExpected(ref, minutes)
		return err
	})
	return t, err
}

// MoveTask reorders a task to a 1-based position.
func (a *App) MoveTask(ref string, pos int) error {
	return a.change(func() error { return a.List.Move(ref, pos) })
}

// SelectTask makes a task current.
func (a *App) SelectTask(ref string) (*model.Task, error) {
	var t *model.Task
	err := a.change(func() (err error) {
		t, err = a.List.Select(ref)
		return err
	})
	return t, err
}

// AddSubtask adds a subtask to the selected task.
func (a *App) AddSubtask(text string) error {
	return a.change(func() error { return a.List.AddSubtask(text) })
}

// ToggleSubtask flips a subtask of the selected task.
func (a *App) ToggleSubtask(n int) error {
	return a.change(func() error { return a.List.ToggleSubtask(n) })
}

// RemoveSubtask deletes a subtask of the selected task.
func (a *App) RemoveSubtask(n int) error {
	return a.change(func() error { return a.List.RemoveSubtask(n) })
}

// MoveSubtask reorders a subtask of the selected task.
func (a *App) MoveSubtask(from, to int) error {
	return a.change(func() error { return a.List.MoveSubtask(from, to) })
}

// SetNote replaces the free-text note.
func (a *App) SetNote(note string) error {
	a.Note = note
	if err := a.bridge.SaveNote(note); err != nil {
		slog.Error("failed to save note", "error", err)
		return err
	}
	return nil
}

// ToggleTimer starts the task's timer, or stops it when it runs. Starting
// stops any other running timer first.
func (a *App) ToggleTimer(ref string) (*model.Task, error) {
	t, _, err := a.List.Find(ref)
	if err != nil {
		return nil, err
	}
	if a.Timers.Active() == t {
		return t, a.StopTimer(ref)
	}
	return t, a.StartTimer(ref)
}

// StartTimer starts the task's timer.
func (a *App) StartTimer(ref string) error {
	t, _, err := a.List.Find(ref)
	if err != nil {
		return err
	}
	a.throttle.Reset()
	flushErr := a.Timers.Start(t)
	if err := a.Save(); err != nil {
		return err
	}
	return flushErr
}

// StopTimer stops the task's timer and logs the session.
func (a *App) StopTimer(ref string) error {
	t, _, err := a.List.Find(ref)
	if err != nil {
		return err
	}
	_, _, flushErr := a.Timers.Stop(t)
	if err := a.Save(); err != nil {
		return err
	}
	return flushErr
}

// ResetTimer zeroes one task's timer, stopping it first if it runs.
func (a *App) ResetTimer(ref string) (*model.Task, error) {
	t, _, err := a.List.Find(ref)
	if err != nil {
		return nil, err
	}
	flushErr := a.Timers.Reset(t)
	if err := a.Save(); err != nil {
		return t, err
	}
	return t, flushErr
}

// ResetAllTimers zeroes every timer after confirmation. It reports whether
// the reset happened.
func (a *App) ResetAllTimers(c Confirmer) (bool, error) {
	if !c.Confirm(PromptResetTimers) {
		return false, nil
	}
	flushErr := a.Timers.ResetAll(a.List.Tasks)
	if err := a.Save(); err != nil {
		return true, err
	}
	return true, flushErr
}

// ClearLogs deletes the whole ledger after confirmation. Tasks keep their
// elapsed time.
func (a *App) ClearLogs(c Confirmer) (bool, error) {
	if !c.Confirm(PromptClearLogs) {
		return false, nil
	}
	return true, a.Logs.ClearAll()
}

// ClearTasks removes every task after confirmation. A running timer is
// stopped and its session logged first; the ledger is kept.
func (a *App) ClearTasks(c Confirmer) (bool, error) {
	if !c.Confirm(PromptClearTasks) {
		return false, nil
	}
	flushErr := a.Timers.StopAll()
	a.List.Clear()
	if err := a.bridge.ClearTasks(); err != nil {
		return true, err
	}
	return true, flushErr
}

// State returns the timer state of the task.
func (a *App) State(t *model.Task) model.StopwatchState {
	return a.Timers.State(t)
}

// Report builds the 7-day report from the ledger.
func (a *App) Report() (report.Report, error) {
	entries, err := a.Logs.Entries()
	if err != nil {
		return report.Report{}, err
	}
	return report.Build(entries, a.now()), nil
}

// Hide handles the window going out of view: running timers are stopped and
// logged so no session silently spans the time away.
func (a *App) Hide() error {
	flushErr := a.Timers.StopAll()
	if err := a.Save(); err != nil {
		return err
	}
	return flushErr
}

// Unload is the shutdown path. Every timer is stopped and logged, and the
// final save writes all timers as stopped.
func (a *App) Unload() error {
	a.bridge.MarkUnloading()
	flushErr := a.Timers.StopAll()
	if err := a.Save(); err != nil {
		return err
	}
	return flushErr
}
