package stickerkit

import (
	"image"
	"image/color"
)

var (
	opaqueWhite = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	opaqueRed   = color.NRGBA{R: 255, A: 255}
	opaqueGreen = color.NRGBA{G: 200, A: 255}
	opaqueBlue  = color.NRGBA{B: 255, A: 255}
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	fill(img, Region{0, 0, w, h}, c)
	return img
}

func fill(img *image.NRGBA, r Region, c color.NRGBA) {
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

// maskFrom marks every pixel that differs from bg.
func maskFrom(img *image.NRGBA, bg color.NRGBA) Mask {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	m := Mask{W: w, H: h, Bits: make([]uint8, w*h)}
	for y := range h {
		for x := range w {
			if img.NRGBAAt(x, y) != bg {
				m.Bits[labelOffset(w, x, y)] = 1
			}
		}
	}
	return m
}

// sheet is a 200x120 white sheet with three blobs.
func sheet() (*image.NRGBA, []Region) {
	img := solid(200, 120, opaqueWhite)
	regions := []Region{
		{X: 10, Y: 10, Width: 40, Height: 30},
		{X: 120, Y: 15, Width: 25, Height: 50},
		{X: 30, Y: 70, Width: 60, Height: 40},
	}
	fill(img, regions[0], opaqueRed)
	fill(img, regions[1], opaqueGreen)
	fill(img, regions[2], opaqueBlue)
	return img, regions
}
