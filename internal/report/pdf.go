package report

import (
	"fmt"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"

	"github.com/meluron/taskflow/internal/duration"
)

var tableProps = props.TableList{
	HeaderProp: props.TableListContent{
		Size:      10,
		GridSizes: []uint{8, 4},
	},
	ContentProp: props.TableListContent{
		Size:      10,
		GridSizes: []uint{8, 4},
	},
	Align:                consts.Left,
	AlternatedBackground: &color.Color{Red: 240, Green: 240, Blue: 240},
	HeaderContentSpace:   1,
	Line:                 false,
}

// WritePDF exports the report to a PDF file at path.
func WritePDF(path string, r Report) error {
	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 10, 20)

	m.RegisterHeader(func() {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text("Time Report", props.Text{
					Top:   3,
					Style: consts.Bold,
					Align: consts.Center,
					Size:  16,
				})
			})
		})
		m.Row(8, func() {
			m.Col(12, func() {
				m.Text(fmt.Sprintf("%s - %s", r.From, r.To), props.Text{
					Align: consts.Center,
					Size:  11,
				})
			})
		})
	})

	m.Row(12, func() {
		m.Col(12, func() {
			m.Text(fmt.Sprintf("%s: %s", TextHeaderSummary, duration.FormatHMS(r.WeeklyTotalSeconds)), props.Text{
				Top:   4,
				Style: consts.Bold,
				Size:  13,
			})
		})
	})

	series := make([][]string, 0, len(r.Series))
	for _, p := range r.Series {
		series = append(series, []string{ChartLabel(p.Date), duration.FormatHMS(p.Seconds)})
	}
	m.TableList([]string{"Day", "Logged"}, series, tableProps)

	for _, day := range r.Days {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text(fmt.Sprintf("%s  (%s)", LongDate(day.Date), duration.FormatHMS(day.TotalSeconds)), props.Text{
					Top:   5,
					Style: consts.Bold,
					Size:  12,
				})
			})
		})
		rows := make([][]string, 0, len(day.Tasks))
		for _, task := range day.Tasks {
			rows = append(rows, []string{task.Name, duration.FormatHMS(task.Seconds)})
		}
		m.TableList([]string{"Task", "Time"}, rows, tableProps)
	}

	if len(r.Days) == 0 {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text(TextNoData, props.Text{Top: 5, Size: 10})
			})
		})
	}

	if err := m.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write PDF '%s': %w", path, err)
	}
	return nil
}
