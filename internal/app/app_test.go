package app

import (
	"errors"
	"testing"
	"time"

	"github.com/meluron/taskflow/internal/duration"
	"github.com/meluron/taskflow/internal/persist"
	"github.com/meluron/taskflow/internal/storage"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

var (
	yes = ConfirmFunc(func(string) bool { return true })
	no  = ConfirmFunc(func(string) bool { return false })
)

func open(t *testing.T, kv storage.Store, c *clock) *App {
	t.Helper()
	a, err := Open(kv, Options{Now: c.now})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return a
}

func newClock() *clock {
	return &clock{t: time.Date(2024, 8, 15, 10, 0, 0, 0, time.Local)}
}

func TestOpenRestoresRunningTaskAsStopped(t *testing.T) {
	kv := storage.NewMemory()
	storage.Set(kv, storage.KeyTasks, []byte(`[{"taskId":"task-1","text":"write","elapsedTime":300,"isRunning":true}]`))

	a := open(t, kv, newClock())

	task := a.List.Tasks[0]
	if task.IsRunning || a.Timers.Active() != nil {
		t.Error("Expected task restored as stopped")
	}
	if got := duration.FormatHMS(a.State(task).ElapsedSeconds); got != "00:05:00" {
		t.Errorf("Expected 00:05:00, got %s", got)
	}
}

func TestStartStopLogsSession(t *testing.T) {
	c := newClock()
	kv := storage.NewMemory()
	a := open(t, kv, c)
	a.AddTask("write", 0)

	if err := a.StartTimer("1"); err != nil {
		t.Fatalf("StartTimer failed: %v", err)
	}
	c.advance(125 * time.Second)
	if err := a.StopTimer("1"); err != nil {
		t.Fatalf("StopTimer failed: %v", err)
	}

	if a.List.Tasks[0].ElapsedSeconds != 125 {
		t.Errorf("Expected 125 elapsed, got %d", a.List.Tasks[0].ElapsedSeconds)
	}
	entries, _ := a.Logs.Entries()
	if len(entries) != 1 || entries[0].DurationSeconds != 125 || entries[0].TaskName != "write" {
		t.Errorf("Unexpected log %+v", entries)
	}
	if entries[0].Date != "2024-08-15" {
		t.Errorf("Expected log dated 2024-08-15, got %s", entries[0].Date)
	}
}

func TestToggleSwitchesTasks(t *testing.T) {
	c := newClock()
	a := open(t, storage.NewMemory(), c)
	a.AddTask("a", 0)
	a.AddTask("b", 0)

	a.ToggleTimer("1")
	c.advance(10 * time.Second)
	a.ToggleTimer("2")

	if a.Timers.Active() != a.List.Tasks[1] {
		t.Fatal("Expected b to be the running task")
	}
	if a.List.Tasks[0].IsRunning {
		t.Error("Expected a stopped when b started")
	}
	entries, _ := a.Logs.Entries()
	if len(entries) != 1 || entries[0].TaskName != "a" || entries[0].DurationSeconds != 10 {
		t.Errorf("Unexpected log %+v", entries)
	}

	c.advance(5 * time.Second)
	a.ToggleTimer("2")
	if a.Timers.Active() != nil {
		t.Error("Expected toggle to stop b")
	}
}

func TestTicksSaveEveryThirtySeconds(t *testing.T) {
	c := newClock()
	kv := storage.NewMemory()
	a := open(t, kv, c)
	a.AddTask("a", 0)
	a.StartTimer("1")

	c.advance(29 * time.Second)
	a.Timers.Tick()
	snap, _ := persist.NewBridge(kv).Load()
	if snap.Tasks[0].ElapsedSeconds != 0 {
		t.Errorf("Expected no save before 30s, got %d", snap.Tasks[0].ElapsedSeconds)
	}

	c.advance(1 * time.Second)
	a.Timers.Tick()
	snap, _ = persist.NewBridge(kv).Load()
	if snap.Tasks[0].ElapsedSeconds != 30 || !snap.Tasks[0].IsRunning {
		t.Errorf("Expected running save at 30s, got %+v", snap.Tasks[0])
	}
}

func TestUnloadStopsAndSavesStopped(t *testing.T) {
	c := newClock()
	kv := storage.NewMemory()
	a := open(t, kv, c)
	a.AddTask("a", 0)
	a.StartTimer("1")
	c.advance(42 * time.Second)

	if err := a.Unload(); err != nil {
		t.Fatalf("Unload failed: %v", err)
	}

	snap, _ := persist.NewBridge(kv).Load()
	if snap.Tasks[0].IsRunning || snap.Tasks[0].ElapsedSeconds != 42 {
		t.Errorf("Expected stopped task with 42s, got %+v", snap.Tasks[0])
	}
	entries, _ := a.Logs.Entries()
	if len(entries) != 1 || entries[0].DurationSeconds != 42 {
		t.Errorf("Expected session flushed to the log, got %+v", entries)
	}

	reopened := open(t, kv, c)
	if reopened.List.Tasks[0].ElapsedSeconds != 42 {
		t.Errorf("Expected 42 after reload, got %d", reopened.List.Tasks[0].ElapsedSeconds)
	}
}

func TestHideStopsAndLogsRunningTimer(t *testing.T) {
	c := newClock()
	kv := storage.NewMemory()
	a := open(t, kv, c)
	a.AddTask("a", 0)
	a.StartTimer("1")
	c.advance(20 * time.Second)

	if err := a.Hide(); err != nil {
		t.Fatalf("Hide failed: %v", err)
	}

	if a.Timers.Active() != nil {
		t.Error("Expected no active timer after Hide")
	}
	entries, _ := a.Logs.Entries()
	if len(entries) != 1 || entries[0].DurationSeconds != 20 {
		t.Errorf("Expected one 20s entry, got %+v", entries)
	}
	snap, _ := persist.NewBridge(kv).Load()
	if snap.Tasks[0].IsRunning || snap.Tasks[0].ElapsedSeconds != 20 {
		t.Errorf("Expected saved task stopped at 20s, got %+v", snap.Tasks[0])
	}

	// hiding again with nothing running logs nothing new
	if err := a.Hide(); err != nil {
		t.Fatalf("second Hide failed: %v", err)
	}
	if entries, _ := a.Logs.Entries(); len(entries) != 1 {
		t.Errorf("Expected still one entry, got %d", len(entries))
	}
}

func TestSaveFailureKeepsMemory(t *testing.T) {
	kv := storage.NewMemory()
	a := open(t, kv, newClock())
	kv.FailWrites = true

	task, err := a.AddTask("a", 0)
	if !errors.Is(err, storage.ErrInjected) {
		t.Errorf("Expected injected failure, got %v", err)
	}
	if task == nil || len(a.List.Tasks) != 1 {
		t.Error("Expected task kept in memory after a failed save")
	}
}

func TestConfirmations(t *testing.T) {
	c := newClock()
	a := open(t, storage.NewMemory(), c)
	a.AddTask("a", 0)
	a.StartTimer("1")
	c.advance(40 * time.Second)

	if done, _ := a.ResetAllTimers(no); done || a.Timers.Active() == nil {
		t.Error("Declined reset must change nothing")
	}
	if done, _ := a.ClearTasks(no); done || len(a.List.Tasks) != 1 {
		t.Error("Declined clear must change nothing")
	}

	done, err := a.ResetAllTimers(yes)
	if !done || err != nil {
		t.Fatalf("ResetAllTimers failed: %v", err)
	}
	if a.List.Tasks[0].ElapsedSeconds != 0 || a.Timers.Active() != nil {
		t.Errorf("Expected zeroed stopped timer, got %+v", a.List.Tasks[0])
	}
	entries, _ := a.Logs.Entries()
	if len(entries) != 1 || entries[0].DurationSeconds != 40 {
		t.Errorf("Expected running session logged before reset, got %+v", entries)
	}

	if done, _ := a.ClearLogs(no); done {
		t.Error("Declined log clear must change nothing")
	}
	if done, err := a.ClearLogs(yes); !done || err != nil {
		t.Fatalf("ClearLogs failed: %v", err)
	}
	if entries, _ := a.Logs.Entries(); len(entries) != 0 {
		t.Errorf("Expected empty ledger, got %+v", entries)
	}
}

func TestDeleteRunningTaskKeepsLogs(t *testing.T) {
	c := newClock()
	a := open(t, storage.NewMemory(), c)
	a.AddTask("a", 0)
	a.AddTask("b", 0)
	a.StartTimer("1")
	c.advance(7 * time.Second)

	removed, err := a.DeleteTask("1")
	if err != nil || removed.Text != "a" {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	if a.Timers.Active() != nil || len(a.List.Tasks) != 1 {
		t.Error("Expected timer stopped and task removed")
	}
	entries, _ := a.Logs.Entries()
	if len(entries) != 1 || entries[0].TaskName != "a" {
		t.Errorf("Expected log for deleted task kept, got %+v", entries)
	}
}

func TestClearTasksKeepsLogsAndNote(t *testing.T) {
	c := newClock()
	kv := storage.NewMemory()
	a := open(t, kv, c)
	a.AddTask("a", 0)
	a.SetNote("focus")
	a.StartTimer("1")
	c.advance(3 * time.Second)

	if done, err := a.ClearTasks(yes); !done || err != nil {
		t.Fatalf("ClearTasks failed: %v", err)
	}

	reopened := open(t, kv, c)
	if len(reopened.List.Tasks) != 0 {
		t.Errorf("Expected no tasks, got %d", len(reopened.List.Tasks))
	}
	if reopened.Note != "focus" {
		t.Errorf("Expected note kept, got %q", reopened.Note)
	}
	if entries, _ := reopened.Logs.Entries(); len(entries) != 1 {
		t.Errorf("Expected ledger kept, got %+v", entries)
	}
}

func TestReportCoversLoggedSessions(t *testing.T) {
	c := newClock()
	a := open(t, storage.NewMemory(), c)
	a.AddTask("a", 0)
	a.StartTimer("1")
	c.advance(90 * time.Second)
	a.StopTimer("1")

	r, err := a.Report()
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if r.WeeklyTotalSeconds != 90 || len(r.Days) != 1 {
		t.Errorf("Unexpected report %+v", r)
	}
}
