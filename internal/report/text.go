package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/meluron/taskflow/internal/duration"
	"github.com/meluron/taskflow/internal/model"
)

// Section headers for text output.
const (
	TextHeaderSummary = "Last 7 days"
	TextHeaderChart   = "Daily time"
	TextHeaderDays    = "Daily logs"
	TextNoData        = "No time logged yet. Start a timer on any task to begin tracking your time."
)

const chartWidth = 30

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	totalStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

// Formats accepted by Write.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Write renders r to out in the given format.
func Write(out io.Writer, r Report, format string) error {
	switch format {
	case FormatText, "":
		PrintText(out, r)
		return nil
	case FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown report format %q, use text, json or yaml", format)
	}
}

// PrintText writes the full human-readable report.
func PrintText(out io.Writer, r Report) {
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Time Report (%s to %s)", r.From, r.To)))
	PrintSummary(out, r)
	PrintChart(out, r.Series)
	PrintDays(out, r.Days)
}

// PrintSummary prints the weekly total.
func PrintSummary(out io.Writer, r Report) {
	fmt.Fprintf(out, "\n%s: %s\n", TextHeaderSummary, totalStyle.Render(duration.FormatHMS(r.WeeklyTotalSeconds)))
}

// PrintChart draws the daily series as horizontal bars scaled to the
// busiest day.
func PrintChart(out io.Writer, series []Point) {
	fmt.Fprintf(out, "\n%s\n", TextHeaderChart)
	peak := 0
	for _, p := range series {
		if p.Seconds > peak {
			peak = p.Seconds
		}
	}
	for _, p := range series {
		filled := 0
		if peak > 0 {
			filled = p.Seconds * chartWidth / peak
		}
		if p.Seconds > 0 && filled == 0 {
			filled = 1
		}
		bar := barStyle.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", chartWidth-filled))
		fmt.Fprintf(out, "    %-6s %s %s\n", ChartLabel(p.Date), bar, duration.Human(p.Seconds))
	}
}

// PrintDays lists each day with its per-task breakdown.
func PrintDays(out io.Writer, days []Day) {
	fmt.Fprintf(out, "\n%s\n", TextHeaderDays)
	if len(days) == 0 {
		fmt.Fprintf(out, "    %s\n", TextNoData)
		return
	}
	for _, day := range days {
		fmt.Fprintf(out, "    • %s  %s\n", LongDate(day.Date), totalStyle.Render(duration.FormatHMS(day.TotalSeconds)))
		for _, task := range day.Tasks {
			fmt.Fprintf(out, "        ◦ %s  %s\n", task.Name, duration.FormatHMS(task.Seconds))
		}
	}
}

// ChartLabel formats a date as "Aug 5". Unparseable input is returned as is.
func ChartLabel(date string) string {
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Jan 2")
}

// LongDate formats a date as "Thursday, August 15, 2024".
func LongDate(date string) string {
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Monday, January 2, 2006")
}
