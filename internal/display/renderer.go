package display

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Shades used when drawing
const (
	Black uint8 = 0
	Dim   uint8 = 64
	Gray  uint8 = 128
	Light uint8 = 192
	White uint8 = 255
)

// Renderer renders text and graphics to a grayscale image
type Renderer struct {
	width  int
	height int
	img    *image.Gray
	face   font.Face
}

// NewRenderer creates a new renderer
func NewRenderer(width, height int) *Renderer {
	return &Renderer{
		width:  width,
		height: height,
		img:    image.NewGray(image.Rect(0, 0, width, height)),
		face:   basicfont.Face7x13,
	}
}

// Clear clears the image to black
func (r *Renderer) Clear() {
	draw.Draw(r.img, r.img.Bounds(), image.Black, image.Point{}, draw.Src)
}

// DrawText draws text with its baseline at y
func (r *Renderer) DrawText(x, y int, text string) {
	d := &font.Drawer{
		Dst:  r.img,
		Src:  image.White,
		Face: r.face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// LineHeight returns the font's line height in pixels
func (r *Renderer) LineHeight() int {
	return r.face.Metrics().Height.Ceil()
}

// DrawRect draws a rectangle outline
func (r *Renderer) DrawRect(x, y, width, height int, shade uint8) {
	for i := x; i < x+width; i++ {
		r.SetPixel(i, y, shade)
		r.SetPixel(i, y+height-1, shade)
	}
	for i := y; i < y+height; i++ {
		r.SetPixel(x, i, shade)
		r.SetPixel(x+width-1, i, shade)
	}
}

// FillRect draws a filled rectangle
func (r *Renderer) FillRect(x, y, width, height int, shade uint8) {
	draw.Draw(r.img, image.Rect(x, y, x+width, y+height), image.NewUniform(color.Gray{Y: shade}), image.Point{}, draw.Src)
}

// DrawLine draws a straight line between two points
func (r *Renderer) DrawLine(x0, y0, x1, y1 int, shade uint8) {
	dx, sx := abs(x1-x0), sign(x1-x0)
	dy, sy := -abs(y1-y0), sign(y1-y0)
	e := dx + dy

	for {
		r.SetPixel(x0, y0, shade)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// SetPixel sets a single pixel. Points outside the image are ignored.
func (r *Renderer) SetPixel(x, y int, shade uint8) {
	r.img.SetGray(x, y, color.Gray{Y: shade})
}

// Pixel returns the shade at a point
func (r *Renderer) Pixel(x, y int) uint8 {
	return r.img.GrayAt(x, y).Y
}

// EncodePNG writes the image as PNG
func (r *Renderer) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, r.img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// Width returns the renderer width
func (r *Renderer) Width() int {
	return r.width
}

// Height returns the renderer height
func (r *Renderer) Height() int {
	return r.height
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
