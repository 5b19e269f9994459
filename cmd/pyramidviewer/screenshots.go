package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/iafilius/PopulationPyramid/src/config"
	"github.com/iafilius/PopulationPyramid/src/export"
	"github.com/iafilius/PopulationPyramid/src/pyramid"
	"github.com/iafilius/PopulationPyramid/src/render"
	"github.com/iafilius/PopulationPyramid/src/source"
	"github.com/iafilius/PopulationPyramid/src/view"
)

// screenshotWidth is the raster width used without a window.
const screenshotWidth = 1100

// RunScreenshotsMode loads the configured source and writes the pyramid as
// PNG, HTML and XLSX under outDir. It runs headlessly without creating a UI
// window. A failed load still writes the empty chart and returns the error.
func RunScreenshotsMode(cfg config.Config, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}
	c := view.New(source.Resolve(cfg.Source, ""), view.WithOptions(cfg.Options()))
	defer c.Teardown()
	c.Show(context.Background())
	<-c.Done()
	loadErr := c.Err()

	m, opts := c.CurrentModel(), c.Options()
	toRender := []struct {
		name string
		fn   func(io.Writer, pyramid.ChartModel, pyramid.Options) error
	}{
		{"pyramid.png", func(w io.Writer, m pyramid.ChartModel, o pyramid.Options) error {
			return render.WritePNG(w, m, o, screenshotWidth, o.Height)
		}},
		{"pyramid.html", render.HTML},
		{"pyramid.xlsx", export.WriteXLSX},
	}
	for _, item := range toRender {
		var buf bytes.Buffer
		if err := item.fn(&buf, m, opts); err != nil {
			return fmt.Errorf("render %s: %w", item.name, err)
		}
		outPath := filepath.Join(outDir, item.name)
		if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", outPath, err)
		}
	}
	if loadErr != nil {
		return fmt.Errorf("load %s: %w", cfg.Source, loadErr)
	}
	return nil
}
