// Package model defines the core data structures for TaskFlow.
package model

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Time status values, used to colour a task's clock.
const (
	TimeStatusNormal   = "normal"
	TimeStatusRunning  = "running"
	TimeStatusExceeded = "exceeded"
)

// DateLayout is the calendar-day format used for log dates and storage keys.
const DateLayout = "2006-01-02"

// FlexInt is an integer that also accepts numeric strings when decoded.
// Older stores wrote some counters as strings ("0" after a bulk reset).
type FlexInt int

// UnmarshalJSON accepts 12, "12", "" and null. Anything non-numeric decodes as 0.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		if i, err := n.Int64(); err == nil {
			*f = FlexInt(i)
			return nil
		}
		if fl, err := n.Float64(); err == nil {
			*f = FlexInt(int64(fl))
			return nil
		}
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			*f = FlexInt(i)
			return nil
		}
	}
	*f = 0
	return nil
}

// Subtask is an ordered checklist item of a task. It has no identity beyond
// its position and text.
type Subtask struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Task represents a single work item with its stopwatch counters.
type Task struct {
	ID                      string    `json:"taskId"`
	Text                    string    `json:"text"`
	Completed               bool      `json:"completed"`
	ExpectedDurationMinutes FlexInt   `json:"expectedDuration"`
	Subtasks                []Subtask `json:"subtasks"`
	ElapsedSeconds          FlexInt   `json:"elapsedTime"`
	IsRunning               bool      `json:"isRunning"`
}

// TimeStatus reports whether the task is running, over its expected
// duration, or neither.
func (t *Task) TimeStatus() string {
	if t.IsRunning {
		return TimeStatusRunning
	}
	expected := int(t.ExpectedDurationMinutes) * 60
	if expected > 0 && int(t.ElapsedSeconds) > expected {
		return TimeStatusExceeded
	}
	return TimeStatusNormal
}

// StopwatchState is the per-task timer state. When Running is false,
// SessionStart is nil and SessionElapsedSeconds is 0.
type StopwatchState struct {
	ElapsedSeconds        int
	Running               bool
	SessionStart          *time.Time
	SessionElapsedSeconds int
}

// TimeLogEntry is one completed timer session. TaskName is a snapshot taken
// when the session stopped, not a reference to the task.
type TimeLogEntry struct {
	ID              string `json:"id"`
	Date            string `json:"date"`
	Timestamp       string `json:"timestamp"`
	TaskName        string `json:"taskName"`
	DurationSeconds int    `json:"duration"`
}
