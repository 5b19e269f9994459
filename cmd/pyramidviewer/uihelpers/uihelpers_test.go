package uihelpers

import "testing"

func TestComputeChartDimensions(t *testing.T) {
	cases := []struct {
		rawW, fixedH int
		wantW, wantH int
	}{
		{1200, 500, 1200, 500},
		{200, 500, MinChartWidth, 500},
		{900, 0, 900, DefaultChartHeight},
		{900, -1, 900, DefaultChartHeight},
		{900, 640, 900, 640},
	}
	for _, tc := range cases {
		w, h := ComputeChartDimensions(tc.rawW, tc.fixedH)
		if w != tc.wantW || h != tc.wantH {
			t.Fatalf("ComputeChartDimensions(%d,%d) = %dx%d, want %dx%d", tc.rawW, tc.fixedH, w, h, tc.wantW, tc.wantH)
		}
	}
}
