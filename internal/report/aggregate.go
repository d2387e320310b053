// Package report rolls the time-log ledger into daily and weekly summaries
// and renders them.
package report

import (
	"sort"
	"time"

	"github.com/meluron/taskflow/internal/model"
	"github.com/meluron/taskflow/internal/timelog"
)

// DaySummary is the logged time of one calendar day.
type DaySummary struct {
	TotalSeconds int            `json:"totalSeconds" yaml:"total_seconds"`
	PerTask      map[string]int `json:"perTask" yaml:"per_task"`
}

// Grouped maps a YYYY-MM-DD date to its summary.
type Grouped map[string]*DaySummary

// TaskDuration is one task's share of a day.
type TaskDuration struct {
	Name    string `json:"taskName" yaml:"task_name"`
	Seconds int    `json:"seconds" yaml:"seconds"`
}

// Point is one bar of the daily chart.
type Point struct {
	Date    string `json:"date" yaml:"date"`
	Seconds int    `json:"seconds" yaml:"seconds"`
}

// GroupByDate sums entries per day and, within a day, per task name.
// Timestamps are placed on calendar days in loc. Entries that cannot be
// dated, or that carry no positive duration, are skipped.
func GroupByDate(entries []model.TimeLogEntry, loc *time.Location) Grouped {
	grouped := Grouped{}
	for _, e := range entries {
		date, ok := timelog.EntryDate(e, loc)
		if !ok || e.DurationSeconds <= 0 {
			continue
		}
		day, exists := grouped[date]
		if !exists {
			day = &DaySummary{PerTask: map[string]int{}}
			grouped[date] = day
		}
		day.TotalSeconds += e.DurationSeconds
		day.PerTask[e.TaskName] += e.DurationSeconds
	}
	return grouped
}

// WeeklyTotal sums the days inside the retention window ending on today's
// calendar day. Days outside the window are ignored.
func WeeklyTotal(grouped Grouped, today time.Time) int {
	start := timelog.WindowStart(today)
	end := timelog.Today(today)
	total := 0
	for date, day := range grouped {
		if date >= start && date <= end {
			total += day.TotalSeconds
		}
	}
	return total
}

// DailySeries returns one point per day of the window, oldest first, with
// zero for days without entries.
func DailySeries(grouped Grouped, today time.Time) []Point {
	y, m, d := today.Date()
	series := make([]Point, 0, timelog.RetentionDays)
	for i := timelog.RetentionDays - 1; i >= 0; i-- {
		date := time.Date(y, m, d-i, 0, 0, 0, 0, today.Location()).Format(model.DateLayout)
		p := Point{Date: date}
		if day, ok := grouped[date]; ok {
			p.Seconds = day.TotalSeconds
		}
		series = append(series, p)
	}
	return series
}

// Breakdown lists the day's tasks by descending time, ties by name.
func (d *DaySummary) Breakdown() []TaskDuration {
	tasks := make([]TaskDuration, 0, len(d.PerTask))
	for name, secs := range d.PerTask {
		tasks = append(tasks, TaskDuration{Name: name, Seconds: secs})
	}
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].Seconds != tasks[j].Seconds {
			return tasks[i].Seconds > tasks[j].Seconds
		}
		return tasks[i].Name < tasks[j].Name
	})
	return tasks
}

// Day is one rendered day of the report.
type Day struct {
	Date         string         `json:"date" yaml:"date"`
	TotalSeconds int            `json:"totalSeconds" yaml:"total_seconds"`
	Tasks        []TaskDuration `json:"tasks" yaml:"tasks"`
}

// Report is everything a renderer needs.
type Report struct {
	From               string  `json:"from" yaml:"from"`
	To                 string  `json:"to" yaml:"to"`
	WeeklyTotalSeconds int     `json:"weeklyTotalSeconds" yaml:"weekly_total_seconds"`
	Series             []Point `json:"series" yaml:"series"`
	Days               []Day   `json:"days" yaml:"days"`
}

// Build aggregates entries as of now. Only days inside the window are
// listed, newest first, so the day sections always add up to the total.
func Build(entries []model.TimeLogEntry, now time.Time) Report {
	grouped := GroupByDate(entries, now.Location())
	from, to := timelog.WindowStart(now), timelog.Today(now)

	dates := make([]string, 0, len(grouped))
	for date := range grouped {
		if date >= from && date <= to {
			dates = append(dates, date)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	days := make([]Day, 0, len(dates))
	for _, date := range dates {
		day := grouped[date]
		days = append(days, Day{Date: date, TotalSeconds: day.TotalSeconds, Tasks: day.Breakdown()})
	}

	return Report{
		From:               from,
		To:                 to,
		WeeklyTotalSeconds: WeeklyTotal(grouped, now),
		Series:             DailySeries(grouped, now),
		Days:               days,
	}
}
