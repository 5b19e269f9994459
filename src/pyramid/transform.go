package pyramid

import "math"

// Transform maps parsed rows to a ChartModel: Age labels verbatim, Male
// values forced to the negative side and Female values to the positive side.
// It never fails; unparseable numbers become NaN.
func Transform(rows []RawRow) ChartModel {
	m := ChartModel{
		Labels: make([]string, len(rows)),
		Male:   Series{Name: MaleName, Values: make([]float64, len(rows)), Color: MaleColor},
		Female: Series{Name: FemaleName, Values: make([]float64, len(rows)), Color: FemaleColor},
	}
	for i, row := range rows {
		m.Labels[i] = row.Age
		m.Male.Values[i] = -math.Abs(ParseNumber(row.Male))
		m.Female.Values[i] = math.Abs(ParseNumber(row.Female))
	}
	return m
}

// Resolve returns v adjusted for the missing-value policy and whether it
// should be drawn at all.
func (p MissingPolicy) Resolve(v float64) (float64, bool) {
	if !math.IsNaN(v) {
		return v, true
	}
	if p == MissingZero {
		return 0, true
	}
	return 0, false
}
