// Package timelog is the append-only ledger of completed timer sessions.
//
// The ledger lives under a single storage key and only ever holds the trailing
// RetentionDays calendar days, today included. Retention is re-applied on
// every write and once at process start.
package timelog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/meluron/taskflow/internal/model"
	"github.com/meluron/taskflow/internal/storage"
)

// RetentionDays is the size of the rolling window, inclusive of today.
const RetentionDays = 7

// Store reads and writes the ledger. It keeps no copy of its own; every call
// reads the backing store, so the store stays the single source of truth.
type Store struct {
	kv    storage.Store
	now   func() time.Time
	newID func() string
}

// New returns a ledger over kv. now supplies the wall clock; nil means time.Now.
func New(kv storage.Store, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{kv: kv, now: now, newID: uuid.NewString}
}

// Today returns the local calendar day of t.
func Today(t time.Time) string {
	return t.Format(model.DateLayout)
}

// WindowStart returns the oldest day still inside the retention window
// ending on the calendar day of t.
func WindowStart(t time.Time) string {
	y, m, d := t.Date()
	return time.Date(y, m, d-(RetentionDays-1), 0, 0, 0, 0, t.Location()).Format(model.DateLayout)
}

// EntryDate returns the calendar day an entry belongs to. Entries without a
// valid YYYY-MM-DD date fall back to their timestamp's day in loc. The second
// result is false when neither field can place the entry.
func EntryDate(e model.TimeLogEntry, loc *time.Location) (string, bool) {
	if _, err := time.Parse(model.DateLayout, e.Date); err == nil {
		return e.Date, true
	}
	if e.Timestamp == "" {
		return "", false
	}
	if ts, err := time.Parse(time.RFC3339Nano, e.Timestamp); err == nil {
		return ts.In(loc).Format(model.DateLayout), true
	}
	if len(e.Timestamp) >= len(model.DateLayout) {
		prefix := e.Timestamp[:len(model.DateLayout)]
		if _, err := time.Parse(model.DateLayout, prefix); err == nil {
			return prefix, true
		}
	}
	return "", false
}

// Retain normalizes dates and keeps the entries inside the window that ends
// on the calendar day of now. Entries that cannot be dated, and entries
// without a positive duration, are dropped.
func Retain(entries []model.TimeLogEntry, now time.Time) []model.TimeLogEntry {
	cutoff := WindowStart(now)
	kept := make([]model.TimeLogEntry, 0, len(entries))
	for _, e := range entries {
		date, ok := EntryDate(e, now.Location())
		if !ok || e.DurationSeconds <= 0 {
			continue
		}
		e.Date = date
		if date >= cutoff {
			kept = append(kept, e)
		}
	}
	return kept
}

// Entries returns the persisted ledger with dates normalized. Malformed data
// reads as an empty ledger.
func (s *Store) Entries() ([]model.TimeLogEntry, error) {
	raw, ok, err := s.kv.Get(storage.KeyTimeLogs)
	if err != nil {
		return nil, fmt.Errorf("failed to read time logs: %w", err)
	}
	if !ok || len(raw) == 0 {
		return []model.TimeLogEntry{}, nil
	}
	var entries []model.TimeLogEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		slog.Warn("time logs are not valid JSON, treating as empty", "error", err)
		return []model.TimeLogEntry{}, nil
	}
	loc := s.now().Location()
	for i := range entries {
		if date, ok := EntryDate(entries[i], loc); ok {
			entries[i].Date = date
		}
	}
	return entries, nil
}

// Record appends a session for taskName. Non-positive durations are ignored
// and report false.
func (s *Store) Record(taskName string, seconds int) (model.TimeLogEntry, bool, error) {
	if seconds <= 0 {
		return model.TimeLogEntry{}, false, nil
	}
	now := s.now()
	entry := model.TimeLogEntry{
		ID:              s.newID(),
		Date:            Today(now),
		Timestamp:       now.UTC().Format(time.RFC3339),
		TaskName:        taskName,
		DurationSeconds: seconds,
	}
	if err := s.Append(entry); err != nil {
		return entry, false, err
	}
	return entry, true, nil
}

// Append adds entry to the ledger, prunes expired entries and persists.
func (s *Store) Append(entry model.TimeLogEntry) error {
	if entry.DurationSeconds <= 0 {
		return nil
	}
	if entry.ID == "" {
		entry.ID = s.newID()
	}
	entries, err := s.Entries()
	if err != nil {
		return err
	}
	entries = append(entries, entry)
	return s.save(Retain(entries, s.now()))
}

// PruneExpired drops entries outside the window, persists the result and
// returns how many entries were kept. Calling it repeatedly is harmless.
func (s *Store) PruneExpired() (int, error) {
	entries, err := s.Entries()
	if err != nil {
		return 0, err
	}
	kept := Retain(entries, s.now())
	if err := s.save(kept); err != nil {
		return 0, err
	}
	return len(kept), nil
}

// ClearAll removes every entry. It does not touch tasks.
func (s *Store) ClearAll() error {
	if err := s.kv.Delete(storage.KeyTimeLogs); err != nil {
		return fmt.Errorf("failed to clear time logs: %w", err)
	}
	return nil
}

func (s *Store) save(entries []model.TimeLogEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode time logs: %w", err)
	}
	if err := storage.Set(s.kv, storage.KeyTimeLogs, data); err != nil {
		return fmt.Errorf("failed to save time logs: %w", err)
	}
	return nil
}
