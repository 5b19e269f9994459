package pyramid

// MissingPolicy decides how a value that failed numeric parsing is drawn.
type MissingPolicy string

const (
	// MissingOmit leaves the bar out.
	MissingOmit MissingPolicy = "omit"
	// MissingZero draws the bar with zero length.
	MissingZero MissingPolicy = "zero"
)

// ParseMissingPolicy maps a config value to a policy, defaulting to MissingOmit.
func ParseMissingPolicy(s string) MissingPolicy {
	if MissingPolicy(s) == MissingZero {
		return MissingZero
	}
	return MissingOmit
}

// Options is the static chart configuration handed to every renderer.
type Options struct {
	Title       string
	XAxisTitle  string
	YAxisTitle  string
	Horizontal  bool
	Stacked     bool
	AbsTicks    bool
	StepSize    float64
	ShowLegend  bool
	BeginAtZero bool
	// Height in pixels; width follows the available space.
	Height  int
	Missing MissingPolicy
}

// DefaultOptions returns the population pyramid configuration.
func DefaultOptions() Options {
	return Options{
		Title:       "Population Distribution by Age Group",
		XAxisTitle:  "Percentage of Population (%)",
		YAxisTitle:  "Age Group",
		Horizontal:  true,
		Stacked:     true,
		AbsTicks:    true,
		StepSize:    0.5,
		ShowLegend:  true,
		BeginAtZero: true,
		Height:      500,
		Missing:     MissingOmit,
	}
}
