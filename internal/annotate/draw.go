package annotate

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// basicfont.Face7x13 glyph cell.
const (
	glyphW = 7
	glyphH = 13
)

// toRGBA copies any image into a drawable RGBA with origin (0,0).
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// drawRectangle draws a rectangle outline of the given thickness, clamped to
// the image.
func drawRectangle(img *image.RGBA, r image.Rectangle, thickness int, c color.Color) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	src := image.NewUniform(c)
	t := thickness
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t),
		image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+t, r.Max.Y),
		image.Rect(r.Max.X-t, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(img, e.Intersect(r), src, image.Point{}, draw.Over)
	}
}

// drawLabel draws text centered on (x, y) over a filled box.
func drawLabel(img *image.RGBA, text string, x, y int, fg, bg color.Color) {
	w := len(text)*glyphW + 6
	h := glyphH + 4
	box := image.Rect(x-w/2, y-h/2, x-w/2+w, y-h/2+h).Intersect(img.Bounds())
	draw.Draw(img, box, image.NewUniform(bg), image.Point{}, draw.Over)
	drawText(img, text, x-len(text)*glyphW/2, y+glyphH/2-3, fg)
}

// drawTextWithOutline draws text with its top-left corner near (x, y) and a
// one pixel outline for contrast on busy backgrounds.
func drawTextWithOutline(img *image.RGBA, text string, x, y int, fg, outline color.Color) {
	baseline := y + glyphH - 3
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx != 0 || dy != 0 {
				drawText(img, text, x+dx, baseline+dy, outline)
			}
		}
	}
	drawText(img, text, x, baseline, fg)
}

func drawText(img *image.RGBA, text string, x, baseline int, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(text)
}
