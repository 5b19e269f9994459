// Package pyramid turns an Age/Male/Female CSV table into the label and series
// structure drawn as a population pyramid.
package pyramid

import "image/color"

// RawRow is one CSV record with the three columns of interest kept as text.
type RawRow struct {
	Age    string
	Male   string
	Female string
}

// Series is one named, colored run of values aligned to ChartModel.Labels.
type Series struct {
	Name   string
	Values []float64
	Color  color.NRGBA
}

// ChartModel is the label sequence plus the Male and Female series.
// Labels, Male.Values and Female.Values always have the same length.
type ChartModel struct {
	Labels []string
	Male   Series
	Female Series
}

// Series names as shown in the legend.
const (
	MaleName   = "Male"
	FemaleName = "Female"
)

var (
	// MaleColor and FemaleColor are used once data is loaded.
	MaleColor   = color.NRGBA{R: 54, G: 22, B: 135, A: 153}
	FemaleColor = color.NRGBA{R: 255, G: 99, B: 32, A: 153}

	// placeholder palette of the empty model
	emptyMaleColor   = color.NRGBA{R: 54, G: 162, B: 235, A: 153}
	emptyFemaleColor = color.NRGBA{R: 255, G: 99, B: 132, A: 153}
)

// EmptyModel returns the model shown before anything is loaded.
func EmptyModel() ChartModel {
	return ChartModel{
		Labels: []string{},
		Male:   Series{Name: MaleName, Values: []float64{}, Color: emptyMaleColor},
		Female: Series{Name: FemaleName, Values: []float64{}, Color: emptyFemaleColor},
	}
}

// Len returns the number of age groups.
func (m ChartModel) Len() int { return len(m.Labels) }

// IsEmpty reports whether the model has no rows.
func (m ChartModel) IsEmpty() bool { return len(m.Labels) == 0 }

// Series returns Male then Female, the draw and legend order.
func (m ChartModel) Series() []Series { return []Series{m.Male, m.Female} }

// Clone returns a deep copy so callers cannot mutate a held model.
func (m ChartModel) Clone() ChartModel {
	out := ChartModel{
		Labels: append([]string{}, m.Labels...),
		Male:   m.Male,
		Female: m.Female,
	}
	out.Male.Values = append([]float64{}, m.Male.Values...)
	out.Female.Values = append([]float64{}, m.Female.Values...)
	return out
}
