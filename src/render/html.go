package render

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"slices"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/iafilius/PopulationPyramid/src/pyramid"
)

// stackName groups both series on one diverging stack.
const stackName = "population"

// absFormatter makes axis labels show magnitudes.
const absFormatter = "function (value) { return Math.abs(value); }"

// Bar builds the go-echarts horizontal stacked bar chart for m.
func Bar(m pyramid.ChartModel, o pyramid.Options) *charts.Bar {
	height := o.Height
	if height <= 0 {
		height = DefaultHeight
	}
	step := o.StepSize
	if step <= 0 {
		step = DefaultStep
	}
	lo, hi := Bounds(m, step)

	xAxis := opts.XAxis{
		Name:      o.XAxisTitle,
		Type:      "value",
		Min:         lo,
		Max:         hi,
		MinInterval: step,
		SplitLine:   &opts.SplitLine{Show: opts.Bool(true)},
	}
	if o.AbsTicks {
		xAxis.AxisLabel = &opts.AxisLabel{Formatter: string(opts.FuncOpts(absFormatter))}
	}
	if n := int(math.Round((hi - lo) / step)); n > 0 && n <= 20 {
		xAxis.SplitNumber = n
		xAxis.MaxInterval = step
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: o.Title,
			Width:     "100%",
			Height:    strconv.Itoa(height) + "px",
		}),
		charts.WithTitleOpts(opts.Title{Title: o.Title, Left: "center"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(o.ShowLegend), Top: "bottom"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(xAxis),
		charts.WithYAxisOpts(opts.YAxis{Name: o.YAxisTitle, Type: "category"}),
	)
	// echarts draws the first category at the bottom; reverse so the first
	// age group sits on top as in the raster chart.
	if o.Horizontal {
		m = reversed(m)
	}
	bar.SetXAxis(m.Labels)
	for _, s := range m.Series() {
		seriesOpts := []charts.SeriesOpts{
			charts.WithItemStyleOpts(opts.ItemStyle{Color: cssColor(s.Color)}),
		}
		if o.Stacked {
			seriesOpts = append(seriesOpts, charts.WithBarChartOpts(opts.BarChart{Stack: stackName}))
		}
		bar.AddSeries(s.Name, barItems(s.Values, o.Missing), seriesOpts...)
	}
	if o.Horizontal {
		bar.XYReversal()
	}
	return bar
}

// HTML writes a standalone page with the chart for m.
func HTML(w io.Writer, m pyramid.ChartModel, o pyramid.Options) error {
	if err := Bar(m, o).Render(w); err != nil {
		return fmt.Errorf("render pyramid html: %w", err)
	}
	return nil
}

func reversed(m pyramid.ChartModel) pyramid.ChartModel {
	out := m.Clone()
	slices.Reverse(out.Labels)
	slices.Reverse(out.Male.Values)
	slices.Reverse(out.Female.Values)
	return out
}

// barItems maps values to chart items; echarts reads "-" as a missing point.
func barItems(vals []float64, p pyramid.MissingPolicy) []opts.BarData {
	items := make([]opts.BarData, len(vals))
	for i, v := range vals {
		rv, ok := p.Resolve(v)
		if !ok || math.IsInf(rv, 0) {
			items[i] = opts.BarData{Value: "-"}
			continue
		}
		items[i] = opts.BarData{Value: rv}
	}
	return items
}

func cssColor(c color.NRGBA) string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B,
		strconv.FormatFloat(math.Round(float64(c.A)/255*100)/100, 'f', -1, 64))
}
