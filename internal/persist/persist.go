// Package persist saves and loads the task list, the selection and the note.
package persist

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/meluron/taskflow/internal/model"
	"github.com/meluron/taskflow/internal/storage"
)

// DefaultSaveEvery is the throttle interval, in session seconds, for saves
// made while a timer runs.
const DefaultSaveEvery = 30

// Snapshot is the state restored by Load.
type Snapshot struct {
	Tasks          []*model.Task
	SelectedTaskID string
	Note           string
}

// Bridge maps the in-memory model onto storage keys.
type Bridge struct {
	kv        storage.Store
	unloading bool
}

// NewBridge returns a Bridge over kv.
func NewBridge(kv storage.Store) *Bridge {
	return &Bridge{kv: kv}
}

// MarkUnloading makes every later Save write all timers as stopped, whatever
// their live state, so an interrupted exit never persists a running timer.
func (b *Bridge) MarkUnloading() { b.unloading = true }

// Unloading reports whether MarkUnloading was called.
func (b *Bridge) Unloading() bool { return b.unloading }

// Save writes tasks, selection and note as one unit.
func (b *Bridge) Save(tasks []*model.Task, selectedTaskID, note string) error {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		c := *t
		if c.Subtasks == nil {
			c.Subtasks = []model.Subtask{}
		}
		if b.unloading {
			c.IsRunning = false
		}
		out = append(out, c)
	}
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}
	err = b.kv.SetMany(map[string][]byte{
		storage.KeyTasks:          data,
		storage.KeySelectedTaskID: []byte(selectedTaskID),
		storage.KeyNote:           []byte(note),
	})
	if err != nil {
		return fmt.Errorf("failed to save tasks: %w", err)
	}
	return nil
}

// SaveNote writes only the note.
func (b *Bridge) SaveNote(note string) error {
	if err := storage.Set(b.kv, storage.KeyNote, []byte(note)); err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}
	return nil
}

// Load reads the saved state. Missing or malformed tasks read as an empty
// list. Tasks come back exactly as saved, including a stale running flag;
// callers must pass each one through the stopwatch manager's Restore.
func (b *Bridge) Load() (Snapshot, error) {
	var snap Snapshot

	raw, ok, err := b.kv.Get(storage.KeyTasks)
	if err != nil {
		return snap, fmt.Errorf("failed to read tasks: %w", err)
	}
	snap.Tasks = []*model.Task{}
	if ok && len(raw) > 0 {
		var tasks []*model.Task
		if err := json.Unmarshal(raw, &tasks); err != nil {
			slog.Warn("saved tasks are not valid JSON, starting with an empty list", "error", err)
		} else {
			for _, t := range tasks {
				if t != nil {
					snap.Tasks = append(snap.Tasks, t)
				}
			}
		}
	}

	if v, ok, err := b.kv.Get(storage.KeySelectedTaskID); err != nil {
		return snap, fmt.Errorf("failed to read selection: %w", err)
	} else if ok {
		snap.SelectedTaskID = string(v)
	}

	if v, ok, err := b.kv.Get(storage.KeyNote); err != nil {
		return snap, fmt.Errorf("failed to read note: %w", err)
	} else if ok {
		snap.Note = string(v)
	}
	return snap, nil
}

// ClearTasks removes the task list and selection. Logs and note stay.
func (b *Bridge) ClearTasks() error {
	if err := b.kv.Delete(storage.KeyTasks, storage.KeySelectedTaskID); err != nil {
		return fmt.Errorf("failed to clear tasks: %w", err)
	}
	return nil
}

// Throttle limits saves during a run to one per interval of session seconds.
// Session seconds, not ticks, drive it, so missed ticks cannot postpone a
// save past the interval.
type Throttle struct {
	every     int
	lastSaved int
}

// NewThrottle returns a Throttle firing every n session seconds. n ≤ 0 uses
// DefaultSaveEvery.
func NewThrottle(n int) *Throttle {
	if n <= 0 {
		n = DefaultSaveEvery
	}
	return &Throttle{every: n}
}

// Reset starts counting for a new session.
func (t *Throttle) Reset() { t.lastSaved = 0 }

// Due reports whether a save is due at sessionSeconds and, if so, records it.
func (t *Throttle) Due(sessionSeconds int) bool {
	if sessionSeconds < t.lastSaved {
		t.lastSaved = 0
	}
	if sessionSeconds-t.lastSaved < t.every {
		return false
	}
	t.lastSaved = sessionSeconds - sessionSeconds%t.every
	return true
}
