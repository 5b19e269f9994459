package pyramid

import (
	"math"

	"github.com/montanaflynn/stats"
)

// Summary aggregates a loaded model for status lines and the JSON endpoint.
type Summary struct {
	Groups      int     `json:"groups"`
	MaleTotal   float64 `json:"male_total"`
	FemaleTotal float64 `json:"female_total"`
	Missing     int     `json:"missing"` // NaN or infinite values
	Largest     float64 `json:"largest"`
}

// Summarize totals the finite magnitudes of both series.
func Summarize(m ChartModel) Summary {
	male, missM := finiteAbs(m.Male.Values)
	female, missF := finiteAbs(m.Female.Values)
	s := Summary{Groups: m.Len(), Missing: missM + missF}
	// stats reports NaN plus an error for empty input; zero is the right total then
	if len(male) > 0 {
		s.MaleTotal, _ = stats.Sum(male)
	}
	if len(female) > 0 {
		s.FemaleTotal, _ = stats.Sum(female)
	}
	if all := append(append(stats.Float64Data{}, male...), female...); len(all) > 0 {
		s.Largest, _ = all.Max()
	}
	return s
}

func finiteAbs(vals []float64) (stats.Float64Data, int) {
	out := make(stats.Float64Data, 0, len(vals))
	missing := 0
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			missing++
			continue
		}
		out = append(out, math.Abs(v))
	}
	return out, missing
}
