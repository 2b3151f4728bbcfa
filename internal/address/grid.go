package address

import "github.com/ai-agents-2030/AppAgent/internal/model"

// Grid divides a Width x Height screen into Rows x Cols cells numbered
// row-major from 1.
type Grid struct {
	Rows   int `yaml:"rows"   json:"rows"`
	Cols   int `yaml:"cols"   json:"cols"`
	Width  int `yaml:"width"  json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Cells is the number of addressable areas.
func (g Grid) Cells() int { return g.Rows * g.Cols }

// CellSize returns the integer width and height of one cell.
func (g Grid) CellSize() (w, h int) {
	return g.Width / g.Cols, g.Height / g.Rows
}

// Point maps an area and subarea to pixels. The caller guarantees
// Rows, Cols >= 1 and 1 <= area <= Cells().
func (g Grid) Point(area int, sub Subarea) model.Point {
	area--
	row, col := area/g.Cols, area%g.Cols
	cw, ch := g.CellSize()
	x0, y0 := col*cw, row*ch
	fx, fy := sub.fractions()
	return model.Point{X: x0 + cw*fx/4, Y: y0 + ch*fy/4}
}

// Resolve is Point with range validation.
func (g Grid) Resolve(area int, sub Subarea) (model.Point, error) {
	if g.Rows < 1 || g.Cols < 1 || area < 1 || area > g.Cells() {
		return model.Point{}, &Error{Kind: "area", Value: area, Max: g.Cells()}
	}
	return g.Point(area, sub), nil
}
