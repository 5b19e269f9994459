package uihelpers

// Chart sizing bounds.
const (
	MinChartWidth      = 480
	DefaultChartHeight = 500
)

// ComputeChartDimensions applies the width clamp used for the pyramid and
// keeps the height fixed. Input: desired raw width (e.g., canvas width) and
// the configured height (non-positive selects the default).
func ComputeChartDimensions(rawW, fixedH int) (int, int) {
	w := rawW
	if w < MinChartWidth {
		w = MinChartWidth
	}
	h := fixedH
	if h <= 0 {
		h = DefaultChartHeight
	}
	return w, h
}
