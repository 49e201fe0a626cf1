package stickerkit

import (
	"image"
)

// alphaForegroundMin is the alpha value a pixel must exceed to count as foreground.
const alphaForegroundMin = 128

// HasAlpha reports whether any pixel is not fully opaque.
func HasAlpha(img *image.NRGBA) bool {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	for y := range h {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for i := 3; i < len(row); i += 4 {
			if row[i] < 255 {
				return true
			}
		}
	}
	return false
}

// Binarize marks foreground pixels. Images with transparency are split on
// alpha; opaque images on distance to bg. A nil bg on an opaque image is
// detected with DetectBackground.
func Binarize(img *image.NRGBA, bg *Color, opt Options) Mask {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	mask := Mask{W: w, H: h, Bits: make([]uint8, w*h)}
	if HasAlpha(img) {
		for y := range h {
			for x := range w {
				if img.Pix[pixOffset(img.Stride, x, y)+3] > alphaForegroundMin {
					mask.Bits[labelOffset(w, x, y)] = 1
				}
			}
		}
		return mask
	}

	if bg == nil {
		c := DetectBackground(img, opt)
		bg = &c
	}
	t2 := opt.ColorThreshold * opt.ColorThreshold
	for y := range h {
		for x := range w {
			off := pixOffset(img.Stride, x, y)
			d2 := bg.distanceSquared(img.Pix[off], img.Pix[off+1], img.Pix[off+2])
			if float64(d2) > t2 {
				mask.Bits[labelOffset(w, x, y)] = 1
			}
		}
	}
	return mask
}
