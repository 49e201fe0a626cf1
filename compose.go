package stickerkit

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

func checkRegion(img *image.NRGBA, r Region) error {
	if r.Width < 1 || r.Height < 1 {
		return errors.Wrapf(ErrRegionOutOfBounds, "region %v is empty", r)
	}
	if !sourceRect(img, r).In(img.Rect) {
		return errors.Wrapf(ErrRegionOutOfBounds, "region %v outside %dx%d image", r, img.Rect.Dx(), img.Rect.Dy())
	}
	return nil
}

// sourceRect places r, which is relative to the top-left of img, in img's
// own coordinate space.
func sourceRect(img *image.NRGBA, r Region) image.Rectangle {
	return r.Rect().Add(img.Rect.Min)
}

// Crop copies region r of img into a new buffer without resampling.
// Regions are relative to the top-left of img, as returned by Label.
func Crop(img *image.NRGBA, r Region, opt Options) (*image.NRGBA, error) {
	if err := checkRegion(img, r); err != nil {
		return nil, err
	}
	if err := checkSize(r.Width, r.Height, opt); err != nil {
		return nil, err
	}
	return imaging.Crop(img, sourceRect(img, r)), nil
}

// SynthesizeTransparency clears the alpha of every pixel within threshold of
// bg, inclusive. It mutates img and is only applied to buffers this package
// allocated.
func SynthesizeTransparency(img *image.NRGBA, bg Color, threshold float64) {
	t2 := threshold * threshold
	w, h := img.Rect.Dx(), img.Rect.Dy()
	for y := range h {
		for x := range w {
			off := pixOffset(img.Stride, x, y)
			d2 := bg.distanceSquared(img.Pix[off], img.Pix[off+1], img.Pix[off+2])
			if float64(d2) <= t2 {
				img.Pix[off+3] = 0
			}
		}
	}
}

// UnionRegion is the smallest region containing every input region.
func UnionRegion(regions []Region) (Region, error) {
	if len(regions) == 0 {
		return Region{}, errors.Wrap(ErrEmptyInput, "no regions to merge")
	}
	u := regions[0].Rect()
	for _, r := range regions[1:] {
		u = u.Union(r.Rect())
	}
	return RegionFromRect(u), nil
}

// Merge assembles regions of img into one buffer covering their union.
// Each region is copied to its true offset; parts of the union covered by no
// region stay transparent, and later regions overwrite earlier ones where
// they overlap. With a known bg the result gets the transparency pass.
func Merge(img *image.NRGBA, regions []Region, bg *Color, opt Options) (*image.NRGBA, Region, error) {
	union, err := UnionRegion(regions)
	if err != nil {
		return nil, Region{}, err
	}
	for _, r := range regions {
		if err := checkRegion(img, r); err != nil {
			return nil, Region{}, err
		}
	}
	canvas, err := newCanvas(union.Width, union.Height, opt)
	if err != nil {
		return nil, Region{}, err
	}
	for _, r := range regions {
		piece := imaging.Crop(img, sourceRect(img, r))
		canvas = imaging.Paste(canvas, piece, image.Pt(r.X-union.X, r.Y-union.Y))
	}
	if bg != nil {
		SynthesizeTransparency(canvas, *bg, opt.ColorThreshold)
	}
	return canvas, union, nil
}
