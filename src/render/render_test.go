package render

import (
	"bytes"
	"image"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iafilius/PopulationPyramid/src/pyramid"
)

func TestMain(m *testing.M) {
	if err := Initialize(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func referenceModel() pyramid.ChartModel {
	return pyramid.Transform(pyramid.ParseString("Age,Male,Female\n0-9,10,9\n10-19,-8,8.5\n").Rows)
}

func TestInitializeIdempotent(t *testing.T) {
	require.NoError(t, Initialize())
	f1, err := defaultFont()
	require.NoError(t, err)
	require.NoError(t, Initialize())
	f2, _ := defaultFont()
	assert.Same(t, f1, f2)
}

func TestRenderBeforeInitialize(t *testing.T) {
	saved := runtime.font.Swap(nil)
	defer runtime.font.Store(saved)
	_, err := PNG(referenceModel(), pyramid.DefaultOptions(), 400, 300)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestBounds(t *testing.T) {
	lo, hi := Bounds(referenceModel(), 0.5)
	assert.Equal(t, -10.0, lo)
	assert.Equal(t, 10.0, hi)

	lo, hi = Bounds(pyramid.EmptyModel(), 0.5)
	assert.Equal(t, -0.5, lo)
	assert.Equal(t, 0.5, hi)

	m := pyramid.Transform(pyramid.ParseString("Age,Male,Female\na,1.2,9.2\nb,x,\n").Rows)
	lo, hi = Bounds(m, 0.5)
	assert.Equal(t, -9.5, lo)
	assert.Equal(t, 9.5, hi)

	lo, hi = Bounds(referenceModel(), 0)
	assert.Equal(t, -10.0, lo, "non-positive step falls back to the default")
	assert.Equal(t, 10.0, hi)
}

func TestTicksStepAndAbsLabels(t *testing.T) {
	ticks := Ticks(-1, 1, 0.5, 0)
	require.Len(t, ticks, 5)
	wantV := []float64{-1, -0.5, 0, 0.5, 1}
	wantL := []string{"1", "0.5", "0", "0.5", "1"}
	for i, tk := range ticks {
		assert.Equal(t, wantV[i], tk.Value)
		assert.Equal(t, wantL[i], tk.Label)
	}
}

func TestTicksThinnedWhenCrowded(t *testing.T) {
	ticks := Ticks(-100, 100, 0.5, 10)
	require.NotEmpty(t, ticks)
	assert.LessOrEqual(t, len(ticks), 11)
	hasZero := false
	for i, tk := range ticks {
		assert.GreaterOrEqual(t, tk.Value, -100.0)
		assert.LessOrEqual(t, tk.Value, 100.0)
		assert.False(t, strings.HasPrefix(tk.Label, "-"), "label %q", tk.Label)
		if tk.Value == 0 {
			hasZero = true
		}
		if i > 0 {
			assert.Greater(t, tk.Value, ticks[i-1].Value)
			// still a multiple of the configured step
			assert.InDelta(t, 0, math.Mod(tk.Value, 0.5), 1e-9)
		}
	}
	assert.True(t, hasZero)
}

func TestAbsLabel(t *testing.T) {
	assert.Equal(t, "1.5", AbsLabel(-1.5))
	assert.Equal(t, "0", AbsLabel(math.Copysign(0, -1)))
	assert.Equal(t, "0.3", AbsLabel(0.1+0.2))
}

// blend returns c at alpha a composited over white.
func blend(r, g, b uint8, a float64) [3]float64 {
	mix := func(v uint8) float64 { return a*float64(v) + (1-a)*255 }
	return [3]float64{mix(r), mix(g), mix(b)}
}

func containsColor(img image.Image, want [3]float64) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if math.Abs(float64(r>>8)-want[0]) <= 4 &&
				math.Abs(float64(g>>8)-want[1]) <= 4 &&
				math.Abs(float64(bl>>8)-want[2]) <= 4 {
				return true
			}
		}
	}
	return false
}

func TestPNGDrawsBothSides(t *testing.T) {
	o := pyramid.DefaultOptions()
	// legend swatches share the bar colours; hide them so only bars can match
	o.ShowLegend = false
	img, err := PNG(referenceModel(), o, 640, 0)
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())
	assert.Equal(t, 500, img.Bounds().Dy(), "height follows the options")

	male := blend(pyramid.MaleColor.R, pyramid.MaleColor.G, pyramid.MaleColor.B, 0.6)
	female := blend(pyramid.FemaleColor.R, pyramid.FemaleColor.G, pyramid.FemaleColor.B, 0.6)
	assert.True(t, containsColor(img, male), "male bars missing")
	assert.True(t, containsColor(img, female), "female bars missing")
}

func TestPNGEmptyModel(t *testing.T) {
	img, err := PNG(pyramid.EmptyModel(), pyramid.DefaultOptions(), 0, 300)
	require.NoError(t, err)
	assert.Equal(t, DefaultWidth, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())
	male := blend(pyramid.MaleColor.R, pyramid.MaleColor.G, pyramid.MaleColor.B, 0.6)
	assert.False(t, containsColor(img, male))
}

func TestPNGMissingValuesDoNotFail(t *testing.T) {
	m := pyramid.Transform(pyramid.ParseString("Age,Male,Female\n0-9,,\n10-19,Infinity,2\n").Rows)
	for _, p := range []pyramid.MissingPolicy{pyramid.MissingOmit, pyramid.MissingZero} {
		o := pyramid.DefaultOptions()
		o.Missing = p
		var buf bytes.Buffer
		require.NoError(t, WritePNG(&buf, m, o, 320, 240))
		assert.NotZero(t, buf.Len())
	}
}

func TestHTML(t *testing.T) {
	m := pyramid.Transform(pyramid.ParseString("Age,Male,Female\n0-9,10,9\n10-19,-8,\n").Rows)
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, m, pyramid.DefaultOptions()))
	out := buf.String()

	assert.Contains(t, out, "Population Distribution by Age Group")
	assert.Contains(t, out, "Percentage of Population (%)")
	assert.Contains(t, out, "Age Group")
	assert.Contains(t, out, "Math.abs")
	assert.Contains(t, out, "rgba(54, 22, 135, 0.6)")
	assert.Contains(t, out, "rgba(255, 99, 32, 0.6)")
	assert.Contains(t, out, `"-"`)
	assert.Less(t, strings.Index(out, `"10-19"`), strings.Index(out, `"0-9"`), "first age group renders on top")
}

func TestHTMLAxisUsesStep(t *testing.T) {
	m := pyramid.Transform(pyramid.ParseString("Age,Male,Female\n0-9,2,1.5\n").Rows)
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, m, pyramid.DefaultOptions()))
	out := buf.String()
	assert.Contains(t, out, `"minInterval":0.5`)
	assert.Contains(t, out, `"maxInterval":0.5`)

	// wide ranges keep the minimum step even without a split count
	wide := pyramid.Transform(pyramid.ParseString("Age,Male,Female\n0-9,40,35\n").Rows)
	buf.Reset()
	require.NoError(t, HTML(&buf, wide, pyramid.DefaultOptions()))
	assert.Contains(t, buf.String(), `"minInterval":0.5`)
	assert.NotContains(t, buf.String(), `"maxInterval"`)
}

func TestCSSColor(t *testing.T) {
	assert.Equal(t, "rgba(54, 22, 135, 0.6)", cssColor(pyramid.MaleColor))
}
