package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/iafilius/PopulationPyramid/src/pyramid"
)

// Default raster size when the caller passes non-positive dimensions.
const (
	DefaultWidth  = 900
	DefaultHeight = 500
)

const (
	padding       = 16
	titleFontSize = 14.0
	fontSize      = 10.0
	// share of a category band covered by its bar
	barFill = 0.72
	// minimum horizontal pixels per tick label
	tickSpacingPx = 44
)

var (
	colorBackground = drawing.ColorWhite
	colorText       = drawing.Color{R: 102, G: 102, B: 102, A: 255}
	colorTitle      = drawing.Color{R: 51, G: 51, B: 51, A: 255}
	colorGrid       = drawing.Color{R: 0, G: 0, B: 0, A: 26}
	colorZero       = drawing.Color{R: 0, G: 0, B: 0, A: 64}
)

// layout holds the pixel boxes computed for one render.
type layout struct {
	width, height int
	titleBaseline int
	legendTop     int
	plot          chart.Box
	labelWidth    int
	textHeight    int
}

// PNG draws m as a population pyramid and returns the decoded image.
func PNG(m pyramid.ChartModel, opts pyramid.Options, width, height int) (image.Image, error) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, m, opts, width, height); err != nil {
		return nil, err
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode pyramid png: %w", err)
	}
	return img, nil
}

// WritePNG draws m and writes PNG bytes to w.
func WritePNG(w io.Writer, m pyramid.ChartModel, opts pyramid.Options, width, height int) error {
	font, err := defaultFont()
	if err != nil {
		return err
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = opts.Height
		if height <= 0 {
			height = DefaultHeight
		}
	}
	r, err := chart.PNG(width, height)
	if err != nil {
		return fmt.Errorf("create png renderer: %w", err)
	}
	r.SetFont(font)

	step := opts.StepSize
	if step <= 0 {
		step = DefaultStep
	}
	lo, hi := Bounds(m, step)
	l := computeLayout(r, m, opts, width, height)
	xr := &chart.ContinuousRange{Min: lo, Max: hi, Domain: l.plot.Width()}
	ticks := Ticks(lo, hi, step, l.plot.Width()/tickSpacingPx)

	fillRect(r, 0, 0, width, height, colorBackground)
	drawTitle(r, opts, l)
	if opts.ShowLegend {
		drawLegend(r, m, l)
	}
	drawGrid(r, l, xr, ticks, opts)
	drawBars(r, m, opts, l, xr, lo, hi)
	drawCategoryLabels(r, m, l)
	drawAxisTitles(r, opts, l)

	if err := r.Save(w); err != nil {
		return fmt.Errorf("encode pyramid png: %w", err)
	}
	return nil
}

func computeLayout(r chart.Renderer, m pyramid.ChartModel, opts pyramid.Options, width, height int) layout {
	l := layout{width: width, height: height}
	r.SetFontSize(fontSize)
	l.textHeight = r.MeasureText("0-9").Height()
	for _, lab := range m.Labels {
		if w := r.MeasureText(lab).Width(); w > l.labelWidth {
			l.labelWidth = w
		}
	}
	top := padding
	if opts.Title != "" {
		r.SetFontSize(titleFontSize)
		top += r.MeasureText(opts.Title).Height()
		l.titleBaseline = top
		top += 8
	}
	if opts.ShowLegend {
		l.legendTop = top
		top += l.textHeight + 10
	}
	left := padding + 6 + l.labelWidth
	if opts.YAxisTitle != "" {
		left += l.textHeight + 8
	}
	bottom := height - padding - l.textHeight - 6
	if opts.XAxisTitle != "" {
		bottom -= l.textHeight + 8
	}
	l.plot = chart.Box{Top: top, Left: left, Right: width - padding, Bottom: bottom}
	if l.plot.Bottom <= l.plot.Top {
		l.plot.Bottom = l.plot.Top + 1
	}
	if l.plot.Right <= l.plot.Left {
		l.plot.Right = l.plot.Left + 1
	}
	return l
}

func drawTitle(r chart.Renderer, opts pyramid.Options, l layout) {
	if opts.Title == "" {
		return
	}
	r.SetFontSize(titleFontSize)
	r.SetFontColor(colorTitle)
	tw := r.MeasureText(opts.Title).Width()
	r.Text(opts.Title, (l.width-tw)/2, l.titleBaseline)
}

func drawLegend(r chart.Renderer, m pyramid.ChartModel, l layout) {
	const swatchW, gap = 32, 14
	r.SetFontSize(fontSize)
	total := 0
	for i, s := range m.Series() {
		if i > 0 {
			total += gap
		}
		total += swatchW + 6 + r.MeasureText(s.Name).Width()
	}
	x := (l.width - total) / 2
	for _, s := range m.Series() {
		fillRect(r, x, l.legendTop, x+swatchW, l.legendTop+l.textHeight, toDrawing(s.Color))
		x += swatchW + 6
		r.SetFontSize(fontSize)
		r.SetFontColor(colorText)
		r.Text(s.Name, x, l.legendTop+l.textHeight)
		x += r.MeasureText(s.Name).Width() + gap
	}
}

func drawGrid(r chart.Renderer, l layout, xr *chart.ContinuousRange, ticks []chart.Tick, opts pyramid.Options) {
	r.SetFontSize(fontSize)
	for _, t := range ticks {
		x := l.plot.Left + xr.Translate(t.Value)
		c := colorGrid
		if t.Value == 0 {
			c = colorZero
		}
		strokeLine(r, x, l.plot.Top, x, l.plot.Bottom, c)
		label := t.Label
		if !opts.AbsTicks {
			label = chart.FloatValueFormatter(t.Value)
		}
		tw := r.MeasureText(label).Width()
		r.SetFontColor(colorText)
		r.Text(label, x-tw/2, l.plot.Bottom+6+l.textHeight)
	}
	strokeLine(r, l.plot.Left, l.plot.Bottom, l.plot.Right, l.plot.Bottom, colorZero)
}

func drawBars(r chart.Renderer, m pyramid.ChartModel, opts pyramid.Options, l layout, xr *chart.ContinuousRange, lo, hi float64) {
	n := m.Len()
	if n == 0 {
		return
	}
	band := float64(l.plot.Height()) / float64(n)
	barH := band * barFill
	x0 := l.plot.Left + xr.Translate(0)
	for i := 0; i < n; i++ {
		top := l.plot.Top + int(math.Round(float64(i)*band+(band-barH)/2))
		bottom := top + int(math.Max(1, math.Round(barH)))
		for _, s := range m.Series() {
			if i >= len(s.Values) {
				continue
			}
			v, ok := opts.Missing.Resolve(s.Values[i])
			if !ok {
				continue
			}
			v = math.Max(lo, math.Min(hi, v))
			x := l.plot.Left + xr.Translate(v)
			if x == x0 {
				continue
			}
			fillRect(r, min(x, x0), top, max(x, x0), bottom, toDrawing(s.Color))
		}
	}
}

// drawCategoryLabels writes age groups top-down, first row at the top.
func drawCategoryLabels(r chart.Renderer, m pyramid.ChartModel, l layout) {
	n := m.Len()
	if n == 0 {
		return
	}
	band := float64(l.plot.Height()) / float64(n)
	r.SetFontSize(fontSize)
	r.SetFontColor(colorText)
	for i, lab := range m.Labels {
		tw := r.MeasureText(lab).Width()
		cy := l.plot.Top + int(math.Round(float64(i)*band+band/2))
		r.Text(lab, l.plot.Left-6-tw, cy+l.textHeight/2)
	}
}

func drawAxisTitles(r chart.Renderer, opts pyramid.Options, l layout) {
	r.SetFontSize(fontSize)
	r.SetFontColor(colorText)
	if opts.XAxisTitle != "" {
		tw := r.MeasureText(opts.XAxisTitle).Width()
		r.Text(opts.XAxisTitle, l.plot.Left+(l.plot.Width()-tw)/2, l.height-padding)
	}
	if opts.YAxisTitle != "" {
		tw := r.MeasureText(opts.YAxisTitle).Width()
		r.SetTextRotation(1.5 * math.Pi)
		r.Text(opts.YAxisTitle, padding+l.textHeight, l.plot.Top+(l.plot.Height()+tw)/2)
		r.ClearTextRotation()
	}
}

func fillRect(r chart.Renderer, x0, y0, x1, y1 int, c drawing.Color) {
	r.SetFillColor(c)
	r.MoveTo(x0, y0)
	r.LineTo(x1, y0)
	r.LineTo(x1, y1)
	r.LineTo(x0, y1)
	r.Close()
	r.Fill()
}

func strokeLine(r chart.Renderer, x0, y0, x1, y1 int, c drawing.Color) {
	r.SetStrokeColor(c)
	r.SetStrokeWidth(1)
	r.MoveTo(x0, y0)
	r.LineTo(x1, y1)
	r.Stroke()
}

func toDrawing(c color.NRGBA) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
