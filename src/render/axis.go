package render

import (
	"math"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/gonum/floats"

	"github.com/iafilius/PopulationPyramid/src/pyramid"
)

// DefaultStep is the tick spacing used when Options.StepSize is unset.
const DefaultStep = 0.5

// Bounds returns a zero-centred value axis [-M, M] covering both series,
// with M a whole number of steps and at least one step.
func Bounds(m pyramid.ChartModel, step float64) (float64, float64) {
	if step <= 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		step = DefaultStep
	}
	extent := 0.0
	if male := finite(m.Male.Values); len(male) > 0 {
		extent = math.Max(extent, math.Abs(floats.Min(male)))
	}
	if female := finite(m.Female.Values); len(female) > 0 {
		extent = math.Max(extent, math.Abs(floats.Max(female)))
	}
	top := math.Ceil(round6(extent/step)) * step
	if top < step {
		top = step
	}
	return -top, top
}

// Ticks returns ticks every step between min and max, always including zero.
// When more than maxTicks would fit, only every k-th step is kept so the
// labels stay readable. Labels show the absolute value.
func Ticks(min, max, step float64, maxTicks int) []chart.Tick {
	if step <= 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		step = DefaultStep
	}
	if math.IsNaN(min) || math.IsNaN(max) || max < min {
		return nil
	}
	n := math.Floor(round6((max-min)/step)) + 1
	stride := step
	if maxTicks > 1 && n > float64(maxTicks) {
		stride = step * math.Ceil(n/float64(maxTicks))
	}
	var neg []chart.Tick
	for v := -stride; v >= min-stride*1e-9; v -= stride {
		neg = append(neg, chart.Tick{Value: round6(v), Label: AbsLabel(v)})
	}
	ticks := make([]chart.Tick, 0, len(neg)+int(max/stride)+2)
	for i := len(neg) - 1; i >= 0; i-- {
		ticks = append(ticks, neg[i])
	}
	for v := 0.0; v <= max+stride*1e-9; v += stride {
		if v < min-stride*1e-9 {
			continue
		}
		ticks = append(ticks, chart.Tick{Value: round6(v), Label: AbsLabel(v)})
	}
	return ticks
}

// AbsLabel formats the magnitude of v, so -1.5 and 1.5 both read "1.5".
func AbsLabel(v float64) string {
	return strconv.FormatFloat(math.Abs(round6(v)), 'f', -1, 64)
}

// round6 rounds to 6 decimal places to keep repeated step additions tidy.
func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }

func finite(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
