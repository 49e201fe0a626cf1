package stickerkit

import (
	"fmt"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// Color is an opaque 8-bit RGB triple.
type Color struct {
	R, G, B uint8
}

func (c Color) String() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// Colorful converts c to a go-colorful color with channels in [0,1].
func (c Color) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

func (c Color) Hex() string {
	return c.Colorful().Hex()
}

func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseColor reads a "#rrggbb" hex string.
func ParseColor(hex string) (Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, errors.Wrapf(err, "invalid color %q", hex)
	}
	r, g, b := c.Clamped().RGB255()
	return Color{R: r, G: g, B: b}, nil
}

// distanceSquared is the squared Euclidean RGB distance between a pixel and c.
func (c Color) distanceSquared(r, g, b uint8) int {
	dr := int(r) - int(c.R)
	dg := int(g) - int(c.G)
	db := int(b) - int(c.B)
	return dr*dr + dg*dg + db*db
}

// Region is an axis-aligned rectangle in source pixel coordinates.
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

func (r Region) Area() int {
	return r.Width * r.Height
}

func (r Region) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// RegionFromRect is the inverse of Region.Rect.
func RegionFromRect(rect image.Rectangle) Region {
	return Region{X: rect.Min.X, Y: rect.Min.Y, Width: rect.Dx(), Height: rect.Dy()}
}

// Mask is a row-major foreground bitmap, 1 = foreground.
type Mask struct {
	W, H int
	Bits []uint8 // len = W*H
}

func (m Mask) At(x, y int) uint8 {
	return m.Bits[labelOffset(m.W, x, y)]
}

// Result is the output of one segmentation call. It holds no reference to
// the source image; callers edit their own copy when merging or deleting.
type Result struct {
	Stickers   []*image.NRGBA
	Regions    []Region
	Background *Color
}

func (r *Result) Len() int {
	return len(r.Regions)
}

func pixOffset(stride, x, y int) int {
	return y*stride + x*4
}

func labelOffset(w, x, y int) int {
	return y*w + x
}
