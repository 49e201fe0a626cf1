package stickerkit

import (
	"context"
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Normalize centers img on a transparent square canvas and rescales it to
// OutputSide x OutputSide.
func Normalize(img image.Image, opt Options) (*image.NRGBA, error) {
	return Resize(img, opt.OutputSide, opt.OutputSide, opt)
}

// Resize pads img to a square, centered, then rescales the square to
// width x height with the configured filter. Alpha is preserved.
func Resize(img image.Image, width, height int, opt Options) (*image.NRGBA, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, errors.Wrapf(ErrEmptyInput, "cannot resize %dx%d image", w, h)
	}
	if err := checkSize(width, height, opt); err != nil {
		return nil, err
	}
	side := max(w, h)
	canvas, err := newCanvas(side, side, opt)
	if err != nil {
		return nil, err
	}
	// Odd padding rounds toward the top-left.
	canvas = imaging.Paste(canvas, img, image.Pt((side-w)/2, (side-h)/2))
	return imaging.Resize(canvas, width, height, opt.filter()), nil
}

// NormalizeAll normalizes independent images on up to opt.Workers goroutines.
// The output is index-aligned with imgs. A failing image is logged and left
// nil without stopping the others; the per-image errors are combined.
func NormalizeAll(ctx context.Context, imgs []image.Image, opt Options, logger *zap.Logger) ([]*image.NRGBA, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	out := make([]*image.NRGBA, len(imgs))
	errs := make([]error, len(imgs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opt.workers())
	for i, img := range imgs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var n *image.NRGBA
			err := errors.Wrap(ErrEmptyInput, "nil image")
			if img != nil {
				n, err = Normalize(img, opt)
			}
			if err != nil {
				errs[i] = errors.Wrapf(err, "image %d", i)
				logger.Warn("skipping image", zap.Int("index", i), zap.Error(err))
				return nil
			}
			out[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, multierr.Combine(errs...)
}
