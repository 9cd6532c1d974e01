// Package report renders scan caches for inspection: delay field heat maps
// as PNG and steering grid charts as HTML.
package report

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/soundcath/beamformer/internal/beamform"
	"github.com/soundcath/beamformer/internal/geometry"
)

// fieldGrid lays a delay field out on the physical element grid, one
// column per element along X and one row per element along Y.
type fieldGrid struct {
	field  beamform.DelayField
	layout geometry.Layout
	cells  []int // element index at row*cols+col
}

func newFieldGrid(field beamform.DelayField, layout geometry.Layout) *fieldGrid {
	g := &fieldGrid{field: field, layout: layout}
	g.cells = make([]int, layout.Elements())
	for i := range g.cells {
		col, row := layout.Cell(layout.Element(i))
		g.cells[row*layout.Columns()+col] = i
	}
	return g
}

func (g *fieldGrid) Dims() (c, r int) { return g.layout.Columns(), g.layout.Rows() }

func (g *fieldGrid) element(c, r int) int { return g.cells[r*g.layout.Columns()+c] }

func (g *fieldGrid) Z(c, r int) float64 { return float64(g.field[g.element(c, r)]) }

// X and Y are in millimetres from the array centre.
func (g *fieldGrid) X(c int) float64 {
	return g.layout.Position(g.layout.Element(g.element(c, 0))).X * 1e3
}

func (g *fieldGrid) Y(r int) float64 {
	return g.layout.Position(g.layout.Element(g.element(0, r))).Y * 1e3
}

func (g *fieldGrid) Min() float64 { return 0 }

func (g *fieldGrid) Max() float64 {
	if m := g.field.Max(); m > 0 {
		return float64(m)
	}
	return 1
}

// HeatMap plot dimensions; the element grid is four times taller than wide.
const (
	heatMapWidth  = 4 * vg.Inch
	heatMapHeight = 12 * vg.Inch
)

// DelayHeatMap writes a PNG heat map of field over the element grid of layout.
func DelayHeatMap(w io.Writer, field beamform.DelayField, layout geometry.Layout, title string) error {
	grid := newFieldGrid(field, layout)

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "X (mm)"
	p.Y.Label.Text = "Y (mm)"

	hm := plotter.NewHeatMap(grid, palette.Heat(64, 1))
	hm.NaN = color.Transparent
	hm.Rasterized = true
	p.Add(hm)

	wt, err := p.WriterTo(heatMapWidth, heatMapHeight, "png")
	if err != nil {
		return fmt.Errorf("render heat map: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// SaveDelayHeatMap writes DelayHeatMap output to path, creating its directory.
func SaveDelayHeatMap(path string, field beamform.DelayField, layout geometry.Layout, title string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := DelayHeatMap(f, field, layout, title); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
