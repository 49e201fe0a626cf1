package stickerkit

import (
	"image"

	"github.com/pkg/errors"
)

var (
	// ErrEmptyInput is returned for zero-area buffers and empty region lists.
	ErrEmptyInput = errors.New("empty input")
	// ErrAllocation is returned when an output buffer cannot be created.
	ErrAllocation = errors.New("cannot allocate output buffer")
	// ErrRegionOutOfBounds is returned when a region does not lie inside its source.
	ErrRegionOutOfBounds = errors.New("region out of bounds")
)

// checkSize rejects output sizes this package refuses to allocate.
// MaxPixels <= 0 means no limit.
func checkSize(w, h int, opt Options) error {
	if w <= 0 || h <= 0 {
		return errors.Wrapf(ErrAllocation, "invalid size %dx%d", w, h)
	}
	if opt.MaxPixels > 0 && w > opt.MaxPixels/h {
		return errors.Wrapf(ErrAllocation, "%dx%d exceeds %d pixels", w, h, opt.MaxPixels)
	}
	return nil
}

// newCanvas allocates a fully transparent w x h buffer.
func newCanvas(w, h int, opt Options) (*image.NRGBA, error) {
	if err := checkSize(w, h, opt); err != nil {
		return nil, err
	}
	return image.NewNRGBA(image.Rect(0, 0, w, h)), nil
}
