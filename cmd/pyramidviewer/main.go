package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/iafilius/PopulationPyramid/cmd/pyramidviewer/uihelpers"
	"github.com/iafilius/PopulationPyramid/src/config"
	"github.com/iafilius/PopulationPyramid/src/export"
	"github.com/iafilius/PopulationPyramid/src/logging"
	"github.com/iafilius/PopulationPyramid/src/pyramid"
	"github.com/iafilius/PopulationPyramid/src/render"
	"github.com/iafilius/PopulationPyramid/src/source"
	"github.com/iafilius/PopulationPyramid/src/view"
)

type uiState struct {
	app    fyne.App
	window fyne.Window
	cfg    config.Config

	// current view; replaced as a whole when another file is opened
	view        *view.Container
	unsubscribe func()

	// widgets
	chartCanvas *canvas.Image
	statusLabel *widget.Label
	sourceLabel *widget.Label
}

// dark theme wrapper
type darkTheme struct{}

func (d *darkTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}
func (d *darkTheme) Font(style fyne.TextStyle) fyne.Resource { return theme.DefaultTheme().Font(style) }
func (d *darkTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}
func (d *darkTheme) Size(name fyne.ThemeSizeName) float32 { return theme.DefaultTheme().Size(name) }

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	var dark bool
	var screenshotDir string
	cfg.RegisterFlags(flag.CommandLine)
	flag.BoolVar(&dark, "dark", false, "Use the dark theme")
	flag.StringVar(&screenshotDir, "screenshot", "", "Render pyramid.png/.html/.xlsx into this directory and exit (no window)")
	flag.Parse()
	cfg.Apply()

	if err := render.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "chart runtime: %v\n", err)
		os.Exit(1)
	}

	if screenshotDir != "" {
		if err := RunScreenshotsMode(cfg, screenshotDir); err != nil {
			fmt.Fprintf(os.Stderr, "screenshot: %v\n", err)
			os.Exit(1)
		}
		return
	}

	a := app.NewWithID("com.pyramid.viewer")
	if dark {
		a.Settings().SetTheme(&darkTheme{})
	}
	w := a.NewWindow("Population Pyramid")
	w.Resize(fyne.NewSize(
		float32(a.Preferences().IntWithFallback("windowWidth", 1000)),
		float32(cfg.Height+120),
	))

	state := newUIState(a, w, cfg)
	w.SetContent(buildContent(state))
	buildMenus(state)
	attachView(state, source.Resolve(cfg.Source, ""))

	// Redraw on window resize so the chart keeps the full width
	done := make(chan struct{})
	w.SetOnClosed(func() {
		savePrefs(state)
		if state.view != nil {
			state.view.Teardown()
		}
		close(done)
	})
	go watchResize(state, done)

	// the one load per view starts when the window is first shown
	a.Lifecycle().SetOnStarted(func() {
		if state.view != nil {
			state.view.Show(context.Background())
		}
	})
	w.ShowAndRun()
}

func newUIState(a fyne.App, w fyne.Window, cfg config.Config) *uiState {
	state := &uiState{app: a, window: w, cfg: cfg}
	state.chartCanvas = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 100, 60)))
	state.chartCanvas.FillMode = canvas.ImageFillContain
	state.statusLabel = widget.NewLabel("")
	state.sourceLabel = widget.NewLabel("")
	return state
}

func buildContent(state *uiState) fyne.CanvasObject {
	_, h := chartSize(state)
	state.chartCanvas.SetMinSize(fyne.NewSize(480, float32(h)))
	top := container.NewHBox(widget.NewLabel("Source:"), state.sourceLabel)
	return container.NewBorder(top, state.statusLabel, nil, nil, state.chartCanvas)
}

// attachView swaps in a container for src, tearing down the previous one.
// The new container is not shown; callers decide when the load starts.
func attachView(state *uiState, src source.Source) {
	if state.unsubscribe != nil {
		state.unsubscribe()
	}
	if state.view != nil {
		state.view.Teardown()
	}
	c := view.New(src, view.WithOptions(state.cfg.Options()))
	state.view = c
	state.unsubscribe = c.OnModelReplaced(func(pyramid.ChartModel) {
		fyne.Do(func() {
			if state.view == c {
				redrawChart(state)
			}
		})
	})
	state.sourceLabel.SetText(truncatePath(src.Name(), 60))
	redrawChart(state)
}

// openSource replaces the view with one for path and loads it immediately.
func openSource(state *uiState, path string) {
	attachView(state, source.Resolve(path, ""))
	addRecentFile(state, path)
	buildMenus(state)
	state.view.Show(context.Background())
}

func watchResize(state *uiState, done <-chan struct{}) {
	prevW := 0
	t := time.NewTicker(300 * time.Millisecond)
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		case <-t.C:
			c := state.window.Canvas()
			if c == nil {
				continue
			}
			curW := int(c.Size().Width)
			if curW != prevW {
				prevW = curW
				fyne.Do(func() { redrawChart(state) })
			}
		}
	}
}

// redrawChart renders the current model into the chart canvas.
func redrawChart(state *uiState) {
	if state == nil || state.view == nil || state.chartCanvas == nil {
		return
	}
	img := renderChart(state)
	state.chartCanvas.Image = img
	cw, ch := chartSize(state)
	state.chartCanvas.SetMinSize(fyne.NewSize(float32(cw)/2, float32(ch)))
	state.chartCanvas.Refresh()
	if state.statusLabel != nil {
		state.statusLabel.SetText(statusText(state.view))
	}
}

func renderChart(state *uiState) image.Image {
	cw, ch := chartSize(state)
	m := state.view.CurrentModel()
	img, err := render.PNG(m, state.view.Options(), cw, ch)
	if err != nil {
		// blank fallback so the UI visibly updates even on render errors
		logging.Warnf("[viewer] pyramid render error: %v; showing blank fallback", err)
		return blank(cw, ch)
	}
	if state.view.State() == view.StateEmpty {
		return drawHint(img, "Waiting for data from "+truncatePath(state.view.Source().Name(), 60)+" ...")
	}
	return img
}

func statusText(c *view.Container) string {
	if c.State() == view.StateEmpty {
		if err := c.Err(); err != nil {
			return "No data: " + err.Error()
		}
		return "No data loaded"
	}
	s := pyramid.Summarize(c.CurrentModel())
	txt := fmt.Sprintf("%d age groups | Male %.1f | Female %.1f", s.Groups, s.MaleTotal, s.FemaleTotal)
	if s.Missing > 0 {
		txt += fmt.Sprintf(" | %d missing values", s.Missing)
	}
	return txt
}

// chartSize uses the window width with a fixed height from the options.
func chartSize(state *uiState) (int, int) {
	if state == nil {
		return uihelpers.ComputeChartDimensions(1000, 0)
	}
	h := state.cfg.Options().Height
	if state.window == nil || state.window.Canvas() == nil {
		return uihelpers.ComputeChartDimensions(1000, h)
	}
	sz := state.window.Canvas().Size()
	// leave a small margin for padding
	return uihelpers.ComputeChartDimensions(int(sz.Width*0.98)-12, h)
}

// menus and dialogs
func buildMenus(state *uiState) {
	if state == nil || state.window == nil || state.app == nil {
		return
	}
	var items []*fyne.MenuItem
	for _, f := range recentFiles(state) {
		f := f
		items = append(items, fyne.NewMenuItem(truncatePath(f, 60), func() { openSource(state, f) }))
	}
	clearRecent := fyne.NewMenuItem("Clear Recent", func() { clearRecentFiles(state); buildMenus(state) })
	recentMenu := fyne.NewMenu("Open Recent", append(items, clearRecent)...)
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open…", func() { openFileDialog(state) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PNG…", func() { exportPNG(state) }),
		fyne.NewMenuItem("Export HTML…", func() { exportHTML(state) }),
		fyne.NewMenuItem("Export XLSX…", func() { exportXLSX(state) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { state.window.Close() }),
	)
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu, recentMenu))

	canv := state.window.Canvas()
	if canv != nil {
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { openFileDialog(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { openFileDialog(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { state.window.Close() })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { state.window.Close() })
	}
}

// file open dialog
func openFileDialog(state *uiState) {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		path := rc.URI().Path()
		rc.Close()
		openSource(state, path)
	}, state.window)
	d.Show()
}

func exportPNG(state *uiState) {
	saveExport(state, "population_pyramid.png", func(w io.Writer) error {
		if state.chartCanvas == nil || state.chartCanvas.Image == nil {
			return fmt.Errorf("no chart to export")
		}
		return png.Encode(w, state.chartCanvas.Image)
	})
}

func exportHTML(state *uiState) {
	saveExport(state, "population_pyramid.html", func(w io.Writer) error {
		return render.HTML(w, state.view.CurrentModel(), state.view.Options())
	})
}

func exportXLSX(state *uiState) {
	saveExport(state, "population_pyramid.xlsx", func(w io.Writer) error {
		return export.WriteXLSX(w, state.view.CurrentModel(), state.view.Options())
	})
}

func saveExport(state *uiState, defaultName string, write func(io.Writer) error) {
	if state == nil || state.window == nil || state.view == nil {
		return
	}
	if state.view.State() == view.StateEmpty {
		dialog.ShowInformation("Export", "No data loaded yet.", state.window)
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if err := write(wc); err != nil {
			dialog.ShowError(err, state.window)
		}
	}, state.window)
	fs.SetFileName(defaultName)
	fs.Show()
}

func blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255}), image.Point{}, draw.Src)
	return img
}

// drawHint draws a small hint string onto the provided image near the bottom-left.
func drawHint(img image.Image, text string) image.Image {
	if img == nil || strings.TrimSpace(text) == "" {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	pad := 6
	face := basicfont.Face7x13
	textCol := image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	dr := &font.Drawer{Dst: rgba, Src: textCol, Face: face}
	tw := dr.MeasureString(text).Ceil()
	x := b.Min.X + 8
	y := b.Max.Y - 6
	// semi-opaque dark background for readability on the white chart
	bg := image.NewUniform(color.RGBA{R: 0, G: 0, B: 0, A: 200})
	rect := image.Rect(x-pad, y-face.Metrics().Ascent.Ceil()-pad, x+tw+pad, y+pad/2)
	draw.Draw(rgba, rect, bg, image.Point{}, draw.Over)
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
	return rgba
}

// recent files helpers
func recentFiles(state *uiState) []string {
	raw := state.app.Preferences().StringWithFallback("recentFiles", "")
	if raw == "" {
		return nil
	}
	out := []string{}
	for _, p := range strings.Split(raw, "\n") {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}

func addRecentFile(state *uiState, path string) {
	if state == nil || state.app == nil {
		return
	}
	filtered := []string{path}
	for _, f := range recentFiles(state) {
		if f != path && len(filtered) < 10 {
			filtered = append(filtered, f)
		}
	}
	state.app.Preferences().SetString("recentFiles", strings.Join(filtered, "\n"))
}

func clearRecentFiles(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	state.app.Preferences().SetString("recentFiles", "")
}

func savePrefs(state *uiState) {
	if state == nil || state.app == nil || state.window == nil || state.window.Canvas() == nil {
		return
	}
	state.app.Preferences().SetInt("windowWidth", int(state.window.Canvas().Size().Width))
}

// truncatePath shortens p to about n bytes, keeping the file name.
func truncatePath(p string, n int) string {
	if len(p) <= n {
		return p
	}
	base := filepath.Base(p)
	left := n - len(base) - 4
	if left <= 0 {
		return "..." + base
	}
	dir := filepath.Dir(p)
	if len(dir) > left {
		dir = dir[:left]
	}
	return dir + "/..." + base
}
