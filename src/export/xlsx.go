// Package export writes a loaded pyramid to a spreadsheet with a native
// stacked bar chart.
package export

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/iafilius/PopulationPyramid/src/pyramid"
)

// SheetName is the worksheet holding the table and chart.
const SheetName = "Population"

// WriteXLSX writes m as an Age/Male/Female table plus a horizontal stacked
// bar chart configured like the on-screen pyramid.
func WriteXLSX(w io.Writer, m pyramid.ChartModel, o pyramid.Options) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &[]interface{}{pyramid.ColumnAge, pyramid.ColumnMale, pyramid.ColumnFemale}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, label := range m.Labels {
		row := []interface{}{label, cellValue(m.Male.Values, i, o.Missing), cellValue(m.Female.Values, i, o.Missing)}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if m.Len() > 0 {
		if err := f.AddChart(SheetName, "E2", pyramidChart(m, o)); err != nil {
			return fmt.Errorf("add chart: %w", err)
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func pyramidChart(m pyramid.ChartModel, o pyramid.Options) *excelize.Chart {
	last := m.Len() + 1
	categories := fmt.Sprintf("%s!$A$2:$A$%d", SheetName, last)
	series := make([]excelize.ChartSeries, 0, 2)
	for i, s := range m.Series() {
		col := string(rune('B' + i))
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$1", SheetName, col),
			Categories: categories,
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", SheetName, col, col, last),
			Fill:       excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{hexColor(s.Color)}},
		})
	}
	legend := excelize.ChartLegend{Position: "bottom"}
	if !o.ShowLegend {
		legend.Position = "none"
	}
	height := uint(o.Height)
	if height == 0 {
		height = 500
	}
	return &excelize.Chart{
		Type:   excelize.BarStacked,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: o.Title}},
		Legend: legend,
		XAxis: excelize.ChartAxis{
			Title:        []excelize.RichTextRun{{Text: o.YAxisTitle}},
			ReverseOrder: true,
		},
		YAxis: excelize.ChartAxis{
			Title:          []excelize.RichTextRun{{Text: o.XAxisTitle}},
			MajorUnit:      o.StepSize,
			MajorGridLines: true,
			// positive;negative sections without a minus sign show magnitudes
			NumFmt: excelize.ChartNumFmt{CustomNumFmt: "0.0;0.0"},
		},
		Dimension: excelize.ChartDimension{Width: 720, Height: height},
	}
}

func cellValue(vals []float64, i int, p pyramid.MissingPolicy) interface{} {
	if i >= len(vals) {
		return nil
	}
	v, ok := p.Resolve(vals[i])
	if !ok || math.IsInf(v, 0) {
		return nil
	}
	return v
}

func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}
