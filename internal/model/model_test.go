package model

import (
	"encoding/json"
	"testing"
)

func TestTaskDecodesLegacyCounters(t *testing.T) {
	tests := []struct {
		name            string
		input           string
		expectedElapsed int
		expectedMinutes int
	}{
		{"numbers", `{"elapsedTime": 300, "expectedDuration": 45}`, 300, 45},
		{"strings", `{"elapsedTime": "0", "expectedDuration": "30"}`, 0, 30},
		{"empty string", `{"elapsedTime": "", "expectedDuration": ""}`, 0, 0},
		{"garbage", `{"elapsedTime": "abc", "expectedDuration": true}`, 0, 0},
		{"missing", `{}`, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var task Task
			if err := json.Unmarshal([]byte(tt.input), &task); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if int(task.ElapsedSeconds) != tt.expectedElapsed {
				t.Errorf("Expected elapsed %d, got %d", tt.expectedElapsed, task.ElapsedSeconds)
			}
			if int(task.ExpectedDurationMinutes) != tt.expectedMinutes {
				t.Errorf("Expected minutes %d, got %d", tt.expectedMinutes, task.ExpectedDurationMinutes)
			}
		})
	}
}

func TestTimeStatus(t *testing.T) {
	tests := []struct {
		name     string
		task     Task
		expected string
	}{
		{"running wins", Task{IsRunning: true, ExpectedDurationMinutes: 1, ElapsedSeconds: 600}, TimeStatusRunning},
		{"exceeded", Task{ExpectedDurationMinutes: 1, ElapsedSeconds: 61}, TimeStatusExceeded},
		{"exactly on budget", Task{ExpectedDurationMinutes: 1, ElapsedSeconds: 60}, TimeStatusNormal},
		{"no estimate", Task{ElapsedSeconds: 6000}, TimeStatusNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.TimeStatus(); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}
