// Package tasks maintains the ordered task list, its subtasks and the
// current selection.
package tasks

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/meluron/taskflow/internal/model"
)

var (
	ErrNotFound    = errors.New("task not found")
	ErrNoSelection = errors.New("no task selected")
	ErrEmptyText   = errors.New("text must not be empty")
	ErrOutOfRange  = errors.New("position out of range")
)

// List is the ordered task list. Order is user controlled and persisted.
type List struct {
	Tasks      []*model.Task
	SelectedID string

	now func() time.Time
}

// NewList wraps loaded tasks. A selection that no longer matches a task is
// dropped.
func NewList(tasks []*model.Task, selectedID string, now func() time.Time) *List {
	if now == nil {
		now = time.Now
	}
	l := &List{Tasks: tasks, now: now}
	if l.Tasks == nil {
		l.Tasks = []*model.Task{}
	}
	if _, _, err := l.byID(selectedID); err == nil {
		l.SelectedID = selectedID
	}
	return l
}

func (l *List) newID() string {
	ms := l.now().UnixMilli()
	for {
		id := "task-" + strconv.FormatInt(ms, 10)
		if _, _, err := l.byID(id); err != nil {
			return id
		}
		ms++
	}
}

// Add appends a task.
func (l *List) Add(text string, expectedMinutes int) (*model.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	if expectedMinutes < 0 {
		return nil, fmt.Errorf("expected duration must not be negative: %d", expectedMinutes)
	}
	t := &model.Task{
		ID:                      l.newID(),
		Text:                    text,
		ExpectedDurationMinutes: model.FlexInt(expectedMinutes),
		Subtasks:                []model.Subtask{},
	}
	l.Tasks = append(l.Tasks, t)
	return t, nil
}

func (l *List) byID(id string) (*model.Task, int, error) {
	if id == "" {
		return nil, -1, ErrNotFound
	}
	for i, t := range l.Tasks {
		if t.ID == id {
			return t, i, nil
		}
	}
	return nil, -1, ErrNotFound
}

// Find resolves ref, either a task id or a 1-based position.
func (l *List) Find(ref string) (*model.Task, int, error) {
	if t, i, err := l.byID(ref); err == nil {
		return t, i, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(ref))
	if err != nil || n < 1 || n > len(l.Tasks) {
		return nil, -1, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	return l.Tasks[n-1], n - 1, nil
}

// Remove deletes the task. Its time logs are not touched. Callers must stop
// its timer first.
func (l *List) Remove(ref string) (*model.Task, error) {
	t, i, err := l.Find(ref)
	if err != nil {
		return nil, err
	}
	l.Tasks = append(l.Tasks[:i], l.Tasks[i+1:]...)
	if l.SelectedID == t.ID {
		l.SelectedID = ""
	}
	return t, nil
}

// Rename changes the task text. Existing log entries keep the old name.
func (l *List) Rename(ref, text string) (*model.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	t, _, err := l.Find(ref)
	if err != nil {
		return nil, err
	}
	t.Text = text
	return t, nil
}

// ToggleCompleted flips the completion flag.
func (l *List) ToggleCompleted(ref string) (*model.Task, error) {
	t, _, err := l.Find(ref)
	if err != nil {
		return nil, err
	}
	t.Completed = !t.Completed
	return t, nil
}

// SetExpected sets the expected duration in minutes. Zero clears it.
func (l *List) SetExpected(ref string, minutes int) (*model.Task, error) {
	if minutes < 0 {
		return nil, fmt.Errorf("expected duration must not be negative: %d", minutes)
	}
	t, _, err := l.Find(ref)
	if err != nil {
		return nil, err
	}
	t.ExpectedDurationMinutes = model.FlexInt(minutes)
	return t, nil
}

// Move places the task at 1-based position pos.
func (l *List) Move(ref string, pos int) error {
	t, i, err := l.Find(ref)
	if err != nil {
		return err
	}
	if pos < 1 || pos > len(l.Tasks) {
		return fmt.Errorf("%w: %d", ErrOutOfRange, pos)
	}
	l.Tasks = append(l.Tasks[:i], l.Tasks[i+1:]...)
	l.Tasks = insert(l.Tasks, pos-1, t)
	return nil
}

// Select makes the task current.
func (l *List) Select(ref string) (*model.Task, error) {
	t, _, err := l.Find(ref)
	if err != nil {
		return nil, err
	}
	l.SelectedID = t.ID
	return t, nil
}

// Selected returns the current task, or nil.
func (l *List) Selected() *model.Task {
	t, _, err := l.byID(l.SelectedID)
	if err != nil {
		return nil
	}
	return t
}

// Clear removes every task and the selection.
func (l *List) Clear() {
	l.Tasks = []*model.Task{}
	l.SelectedID = ""
}

func (l *List) selectedOrErr() (*model.Task, error) {
	t := l.Selected()
	if t == nil {
		return nil, ErrNoSelection
	}
	return t, nil
}

// AddSubtask appends a subtask to the selected task.
func (l *List) AddSubtask(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyText
	}
	t, err := l.selectedOrErr()
	if err != nil {
		return err
	}
	t.Subtasks = append(t.Subtasks, model.Subtask{Text: text})
	return nil
}

func subtaskIndex(t *model.Task, n int) (int, error) {
	if n < 1 || n > len(t.Subtasks) {
		return 0, fmt.Errorf("%w: subtask %d", ErrOutOfRange, n)
	}
	return n - 1, nil
}

// ToggleSubtask flips completion of the selected task's nth subtask (1-based).
func (l *List) ToggleSubtask(n int) error {
	t, err := l.selectedOrErr()
	if err != nil {
		return err
	}
	i, err := subtaskIndex(t, n)
	if err != nil {
		return err
	}
	t.Subtasks[i].Completed = !t.Subtasks[i].Completed
	return nil
}

// RemoveSubtask deletes the selected task's nth subtask (1-based).
func (l *List) RemoveSubtask(n int) error {
	t, err := l.selectedOrErr()
	if err != nil {
		return err
	}
	i, err := subtaskIndex(t, n)
	if err != nil {
		return err
	}
	t.Subtasks = append(t.Subtasks[:i], t.Subtasks[i+1:]...)
	return nil
}

// MoveSubtask moves the selected task's subtask from one 1-based position to
// another.
func (l *List) MoveSubtask(from, to int) error {
	t, err := l.selectedOrErr()
	if err != nil {
		return err
	}
	i, err := subtaskIndex(t, from)
	if err != nil {
		return err
	}
	j, err := subtaskIndex(t, to)
	if err != nil {
		return err
	}
	s := t.Subtasks[i]
	t.Subtasks = append(t.Subtasks[:i], t.Subtasks[i+1:]...)
	t.Subtasks = insert(t.Subtasks, j, s)
	return nil
}

func insert[T any](s []T, i int, v T) []T {
	s = append(s, v)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}
