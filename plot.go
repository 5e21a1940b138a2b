package forecaster

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// missing is rendered by echarts as a gap in the line
const missing = "-"

// LineTSeries generates an echart multi-line chart over a shared monthly time axis. Every series in
// y must have the same length as t. NaN values leave a gap.
func LineTSeries(title, subtitle string, seriesName []string, t []time.Time, y [][]float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title:    title,
				Subtitle: subtitle,
			},
		),
	)

	xAxis := make([]string, 0, len(t))
	for _, tPnt := range t {
		xAxis = append(xAxis, tPnt.Format("2006-01"))
	}
	line = line.SetXAxis(xAxis)

	for i, series := range seriesName {
		lineData := make([]opts.LineData, 0, len(y[i]))
		for _, v := range y[i] {
			if math.IsNaN(v) {
				lineData = append(lineData, opts.LineData{Value: missing})
				continue
			}
			lineData = append(lineData, opts.LineData{Value: v})
		}
		line = line.AddSeries(series, lineData)
	}
	return line
}

// Chart builds the combined line chart of every column of the table
func (t *Table) Chart() *charts.Line {
	info, _ := t.target.Info()
	y := make([][]float64, 0, len(t.columns))
	for c := range t.columns {
		y = append(y, t.values[c])
	}
	return LineTSeries(
		fmt.Sprintf("%s Forecast", info.Title),
		fmt.Sprintf("%s, history through %s", info.Unit, t.historyEnd.Format("2006-01")),
		t.columns,
		t.dates,
		y,
	)
}

// Plot renders the combined chart as a standalone html page
func (t *Table) Plot(w io.Writer) error {
	page := components.NewPage()
	info, _ := t.target.Info()
	page.PageTitle = fmt.Sprintf("%s Forecast", info.Title)
	page.AddCharts(t.Chart())
	return page.Render(w)
}
