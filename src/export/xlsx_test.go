package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/iafilius/PopulationPyramid/src/pyramid"
)

func TestWriteXLSX(t *testing.T) {
	m := pyramid.Transform(pyramid.ParseString("Age,Male,Female\n0-9,10,9\n10-19,-8,8.5\n20-29,,1\n").Rows)
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, m, pyramid.DefaultOptions()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Age", "Male", "Female"}, rows[0])
	assert.Equal(t, []string{"0-9", "-10", "9"}, rows[1])
	assert.Equal(t, []string{"10-19", "-8", "8.5"}, rows[2])
	assert.Equal(t, "", cell(t, f, "B4"))
	assert.Equal(t, "1", cell(t, f, "C4"))
}

func TestWriteXLSXZeroPolicyAndEmpty(t *testing.T) {
	m := pyramid.Transform(pyramid.ParseString("Age,Male,Female\n0-9,n/a,2\n").Rows)
	o := pyramid.DefaultOptions()
	o.Missing = pyramid.MissingZero
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, m, o))
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, "0", cell(t, f, "B2"))
	f.Close()

	buf.Reset()
	require.NoError(t, WriteXLSX(&buf, pyramid.EmptyModel(), pyramid.DefaultOptions()))
	f, err = excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestHexColor(t *testing.T) {
	assert.Equal(t, "361687", hexColor(pyramid.MaleColor))
	assert.Equal(t, "FF6320", hexColor(pyramid.FemaleColor))
}

func cell(t *testing.T, f *excelize.File, ref string) string {
	t.Helper()
	v, err := f.GetCellValue(SheetName, ref)
	require.NoError(t, err)
	return v
}
