// Package annotate draws the overlays the model sees: numeric tags on
// catalog elements, or a numbered coarse grid.
package annotate

import (
	"fmt"
	"image"
	"image/color"
	"strconv"

	"github.com/disintegration/imaging"

	"github.com/ai-agents-2030/AppAgent/internal/address"
	"github.com/ai-agents-2030/AppAgent/internal/model"
)

var (
	lightFG   = color.RGBA{R: 255, G: 250, B: 250, A: 255}
	darkFG    = color.RGBA{R: 10, G: 10, B: 10, A: 255}
	boxColor  = color.RGBA{R: 255, G: 0, B: 0, A: 160}
	gridColor = color.RGBA{R: 255, G: 116, B: 113, A: 255}
)

// DrawLabels tags each catalog element with its 1-based index. Light labels
// on dark boxes by default; dark mode inverts them.
func DrawLabels(img image.Image, c model.Catalog, dark bool) *image.RGBA {
	rgba := toRGBA(img)
	fg, bg := lightFG, darkFG
	if dark {
		fg, bg = darkFG, lightFG
	}
	for i, el := range c {
		r := image.Rect(el.BBox[0].X, el.BBox[0].Y, el.BBox[1].X, el.BBox[1].Y)
		drawRectangle(rgba, r, 2, boxColor)
		center := el.Center()
		drawLabel(rgba, strconv.Itoa(i+1), center.X, center.Y, fg, bg)
	}
	return rgba
}

// DrawGrid overlays the grid address.Layout picks for the image size and
// numbers every cell row-major from 1.
func DrawGrid(img image.Image) (*image.RGBA, address.Grid) {
	rgba := toRGBA(img)
	w, h := rgba.Bounds().Dx(), rgba.Bounds().Dy()
	rows, cols := address.Layout(w, h)
	g := address.Grid{Rows: rows, Cols: cols, Width: w, Height: h}
	cw, ch := g.CellSize()

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			x0, y0 := col*cw, row*ch
			drawRectangle(rgba, image.Rect(x0, y0, x0+cw, y0+ch), 2, gridColor)
			label := strconv.Itoa(row*cols + col + 1)
			drawTextWithOutline(rgba, label, x0+6, y0+4, gridColor, color.Black)
		}
	}
	return rgba, g
}

// Labels reads src, tags the catalog and writes dst.
func Labels(src, dst string, c model.Catalog, dark bool) error {
	img, err := imaging.Open(src)
	if err != nil {
		return fmt.Errorf("open screenshot: %w", err)
	}
	if err := imaging.Save(DrawLabels(img, c, dark), dst); err != nil {
		return fmt.Errorf("save labeled screenshot: %w", err)
	}
	return nil
}

// Grid reads src, overlays the grid and writes dst. It returns the grid
// geometry so callers can resolve areas against the same layout.
func Grid(src, dst string) (address.Grid, error) {
	img, err := imaging.Open(src)
	if err != nil {
		return address.Grid{}, fmt.Errorf("open screenshot: %w", err)
	}
	out, g := DrawGrid(img)
	if err := imaging.Save(out, dst); err != nil {
		return address.Grid{}, fmt.Errorf("save grid screenshot: %w", err)
	}
	return g, nil
}
