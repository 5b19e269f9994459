// Package render draws a pyramid.ChartModel as a raster image (go-chart) or
// as an interactive HTML page (go-echarts).
package render

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/golang/freetype/truetype"
	chart "github.com/wcharczuk/go-chart/v2"
)

// ErrNotInitialized is returned by renderers used before Initialize.
var ErrNotInitialized = errors.New("chart runtime not initialized")

var runtime struct {
	once sync.Once
	font atomic.Pointer[truetype.Font]
	err  error
}

// Initialize prepares the shared chart resources. Call it once at startup;
// later calls return the first result.
func Initialize() error {
	runtime.once.Do(func() {
		f, err := chart.GetDefaultFont()
		if err != nil {
			runtime.err = fmt.Errorf("load chart font: %w", err)
			return
		}
		runtime.font.Store(f)
	})
	return runtime.err
}

func defaultFont() (*truetype.Font, error) {
	f := runtime.font.Load()
	if f == nil {
		return nil, ErrNotInitialized
	}
	return f, nil
}
