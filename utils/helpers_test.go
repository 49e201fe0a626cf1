package utils

import (
	"image"
	"image/color"

	"github.com/setanarut/stickerkit"
)

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	red   = color.NRGBA{R: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
)

func paint(img *image.NRGBA, r stickerkit.Region, c color.NRGBA) {
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

// testSheet is a 160x100 white sheet with three blobs.
func testSheet() (*image.NRGBA, []stickerkit.Region) {
	img := image.NewNRGBA(image.Rect(0, 0, 160, 100))
	paint(img, stickerkit.Region{Width: 160, Height: 100}, white)
	regions := []stickerkit.Region{
		{X: 10, Y: 10, Width: 30, Height: 20},
		{X: 100, Y: 10, Width: 20, Height: 40},
		{X: 20, Y: 60, Width: 50, Height: 30},
	}
	paint(img, regions[0], red)
	paint(img, regions[1], blue)
	paint(img, regions[2], red)
	return img, regions
}
