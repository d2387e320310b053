package report

import (
	"math/rand"
	"testing"
	"time"

	"github.com/meluron/taskflow/internal/model"
)

var today = time.Date(2024, 8, 15, 18, 0, 0, 0, time.UTC)

func day(offset int) string {
	return today.AddDate(0, 0, -offset).Format(model.DateLayout)
}

func TestGroupByDate(t *testing.T) {
	entries := []model.TimeLogEntry{
		{Date: day(0), TaskName: "Write report", DurationSeconds: 125},
		{Date: day(0), TaskName: "Review", DurationSeconds: 60},
		{Date: day(0), TaskName: "Write report", DurationSeconds: 15},
		{Date: day(2), TaskName: "Review", DurationSeconds: 30},
		{TaskName: "undatable", DurationSeconds: 999},
		{Date: day(2), TaskName: "empty", DurationSeconds: 0},
		{Date: day(2), TaskName: "negative", DurationSeconds: -40},
	}

	grouped := GroupByDate(entries, time.UTC)

	if len(grouped) != 2 {
		t.Fatalf("Expected 2 days, got %d", len(grouped))
	}
	d0 := grouped[day(0)]
	if d0.TotalSeconds != 200 || d0.PerTask["Write report"] != 140 || d0.PerTask["Review"] != 60 {
		t.Errorf("Unexpected summary for today: %+v", d0)
	}
	if d2 := grouped[day(2)]; d2.TotalSeconds != 30 || len(d2.PerTask) != 1 {
		t.Errorf("Unexpected summary for day-2: %+v", grouped[day(2)])
	}
}

func TestWeeklyTotalMatchesWindowedSum(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		var entries []model.TimeLogEntry
		expected := 0
		for i := 0; i < 20; i++ {
			offset := rng.Intn(12) - 2 // includes future dates and expired ones
			secs := rng.Intn(3600) + 1
			entries = append(entries, model.TimeLogEntry{Date: day(offset), TaskName: "t", DurationSeconds: secs})
			if offset >= 0 && offset <= 6 {
				expected += secs
			}
		}
		if got := WeeklyTotal(GroupByDate(entries, today.Location()), today); got != expected {
			t.Fatalf("trial %d: expected %d, got %d", trial, expected, got)
		}
	}
}

func TestDailySeries(t *testing.T) {
	grouped := GroupByDate([]model.TimeLogEntry{
		{Date: day(6), TaskName: "a", DurationSeconds: 10},
		{Date: day(3), TaskName: "a", DurationSeconds: 20},
		{Date: day(0), TaskName: "a", DurationSeconds: 30},
		{Date: day(9), TaskName: "old", DurationSeconds: 40},
	}, today.Location())

	series := DailySeries(grouped, today)

	if len(series) != 7 {
		t.Fatalf("Expected 7 points, got %d", len(series))
	}
	expected := []int{10, 0, 0, 20, 0, 0, 30}
	for i, p := range series {
		if p.Date != day(6-i) {
			t.Errorf("point %d: expected date %s, got %s", i, day(6-i), p.Date)
		}
		if p.Seconds != expected[i] {
			t.Errorf("point %d: expected %d seconds, got %d", i, expected[i], p.Seconds)
		}
	}
}

func TestBreakdownSortedByDuration(t *testing.T) {
	d := &DaySummary{PerTask: map[string]int{"b": 60, "a": 60, "c": 600, "d": 5}}

	got := d.Breakdown()
	names := []string{got[0].Name, got[1].Name, got[2].Name, got[3].Name}
	want := []string{"c", "a", "b", "d"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Expected order %v, got %v", want, names)
		}
	}
}

func TestBuild(t *testing.T) {
	r := Build([]model.TimeLogEntry{
		{Date: day(1), TaskName: "a", DurationSeconds: 100},
		{Date: day(0), TaskName: "b", DurationSeconds: 50},
	}, today)

	if r.From != "2024-08-09" || r.To != "2024-08-15" {
		t.Errorf("Unexpected window %s..%s", r.From, r.To)
	}
	if r.WeeklyTotalSeconds != 150 {
		t.Errorf("Expected total 150, got %d", r.WeeklyTotalSeconds)
	}
	if len(r.Days) != 2 || r.Days[0].Date != day(0) {
		t.Errorf("Expected newest day first, got %+v", r.Days)
	}
}

func TestGroupByDateUsesLocation(t *testing.T) {
	// 23:30 UTC is already the next day five hours east.
	entries := []model.TimeLogEntry{{Timestamp: "2024-08-14T23:30:00Z", TaskName: "late", DurationSeconds: 60}}

	if _, ok := GroupByDate(entries, time.UTC)["2024-08-14"]; !ok {
		t.Error("Expected entry on 2024-08-14 in UTC")
	}
	east := time.FixedZone("UTC+5", 5*60*60)
	if _, ok := GroupByDate(entries, east)["2024-08-15"]; !ok {
		t.Error("Expected entry on 2024-08-15 in UTC+5")
	}
}

func TestBuildListsOnlyWindowedDays(t *testing.T) {
	r := Build([]model.TimeLogEntry{
		{Date: day(0), TaskName: "today", DurationSeconds: 10},
		{Date: day(-5), TaskName: "future", DurationSeconds: 50},
		{Date: day(8), TaskName: "expired", DurationSeconds: 30},
		{Date: "garbage", TaskName: "undatable", DurationSeconds: 70},
		{Date: "garbage", Timestamp: "2024-08-13T08:00:00Z", TaskName: "redated", DurationSeconds: 20},
	}, today)

	if len(r.Days) != 2 {
		t.Fatalf("Expected 2 days, got %+v", r.Days)
	}
	if r.Days[0].Date != day(0) || r.Days[1].Date != day(2) {
		t.Errorf("Unexpected days %s, %s", r.Days[0].Date, r.Days[1].Date)
	}
	sum := 0
	for _, d := range r.Days {
		sum += d.TotalSeconds
	}
	if r.WeeklyTotalSeconds != 30 || sum != r.WeeklyTotalSeconds {
		t.Errorf("Expected days to add up to total 30, got days=%d total=%d", sum, r.WeeklyTotalSeconds)
	}
}
