package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/meluron/taskflow/internal/model"
)

func sampleReport() Report {
	return Build([]model.TimeLogEntry{
		{Date: day(0), TaskName: "Write report", DurationSeconds: 125},
		{Date: day(0), TaskName: "Review", DurationSeconds: 3600},
		{Date: day(3), TaskName: "Review", DurationSeconds: 60},
	}, today)
}

func TestPrintText(t *testing.T) {
	var b bytes.Buffer
	if err := Write(&b, sampleReport(), FormatText); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	output := b.String()

	for _, want := range []string{
		"Time Report (2024-08-09 to 2024-08-15)",
		TextHeaderSummary,
		"01:03:05",
		"Aug 15",
		"Aug 9",
		"Thursday, August 15, 2024",
		"◦ Review  01:00:00",
		"◦ Write report  00:02:05",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Report missing %q\n%s", want, output)
		}
	}
	if strings.Index(output, "Review  01:00:00") > strings.Index(output, "Write report  00:02:05") {
		t.Error("Expected longest task listed first")
	}
}

func TestPrintTextEmpty(t *testing.T) {
	var b bytes.Buffer
	PrintText(&b, Build(nil, today))
	if !strings.Contains(b.String(), TextNoData) {
		t.Errorf("Expected empty-state message, got:\n%s", b.String())
	}
}

func TestStructuredFormats(t *testing.T) {
	r := sampleReport()

	t.Run("json", func(t *testing.T) {
		var b bytes.Buffer
		if err := Write(&b, r, FormatJSON); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		var decoded Report
		if err := json.Unmarshal(b.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.WeeklyTotalSeconds != 3785 || len(decoded.Series) != 7 {
			t.Errorf("Unexpected decoded report %+v", decoded)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var b bytes.Buffer
		if err := Write(&b, r, FormatYAML); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if !strings.Contains(b.String(), "weekly_total_seconds: 3785") {
			t.Errorf("Unexpected YAML:\n%s", b.String())
		}
		var decoded Report
		if err := yaml.Unmarshal(b.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid YAML: %v", err)
		}
		if len(decoded.Days) != 2 {
			t.Errorf("Expected 2 days, got %d", len(decoded.Days))
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if err := Write(&bytes.Buffer{}, r, "csv"); err == nil {
			t.Error("Expected error for unknown format")
		}
	})
}

func TestWritePDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")
	if err := WritePDF(path, sampleReport()); err != nil {
		t.Fatalf("WritePDF failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read PDF: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("Expected a PDF file")
	}
}
