package stickerkit

import (
	"context"
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Splitter runs one segmentation of a sprite sheet. Each stage leaves its
// output in an exported field so callers can inspect intermediate results;
// a Splitter is not reused across images. Setting Background before Split
// overrides detection for opaque images.
type Splitter struct {
	InputImage image.Image
	Pix        *image.NRGBA
	HasAlpha   bool
	Background *Color
	Mask       Mask
	Components []Component
	Regions    []Region
	Crops      []*image.NRGBA
	Stickers   []*image.NRGBA

	// Mean and standard deviation of the fill rate over every component,
	// accepted or not.
	FillMean float64
	FillStd  float64

	logger *zap.Logger
}

func NewSplitter(input image.Image, logger *zap.Logger) *Splitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Splitter{
		InputImage: input,
		logger:     logger,
	}
}

// Split runs every stage. Finding no stickers is not an error.
func (s *Splitter) Split(ctx context.Context, opt Options) error {
	if err := s.makeNRGBA(); err != nil {
		return err
	}
	s.binarize(opt)
	if err := s.label(ctx, opt); err != nil {
		return err
	}
	if err := s.crop(opt); err != nil {
		return err
	}
	return s.normalize(opt)
}

// Result detaches the outputs from the splitter.
func (s *Splitter) Result() *Result {
	res := &Result{
		Stickers: append([]*image.NRGBA(nil), s.Stickers...),
		Regions:  append([]Region(nil), s.Regions...),
	}
	if s.Background != nil {
		bg := *s.Background
		res.Background = &bg
	}
	return res
}

// Segment extracts and normalizes every sticker of img.
func Segment(ctx context.Context, img image.Image, opt Options, logger *zap.Logger) (*Result, error) {
	s := NewSplitter(img, logger)
	if err := s.Split(ctx, opt); err != nil {
		return nil, err
	}
	return s.Result(), nil
}

// ToNRGBA returns img as a non-premultiplied buffer with origin (0,0).
// An *image.NRGBA already at the origin is returned as is.
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	return imaging.Clone(img)
}

// ============ INPUT ============

func (s *Splitter) makeNRGBA() error {
	if s.InputImage == nil {
		return errors.Wrap(ErrEmptyInput, "no input image")
	}
	b := s.InputImage.Bounds()
	if b.Empty() {
		return errors.Wrapf(ErrEmptyInput, "cannot split %dx%d image", b.Dx(), b.Dy())
	}
	s.Pix = ToNRGBA(s.InputImage)
	return nil
}

// ============ BINARIZE ============

func (s *Splitter) binarize(opt Options) {
	s.HasAlpha = HasAlpha(s.Pix)
	switch {
	case s.HasAlpha:
		s.Background = nil
	case s.Background == nil:
		bg := DetectBackground(s.Pix, opt)
		s.Background = &bg
		s.logger.Debug("detected background",
			zap.String("color", bg.Hex()),
			zap.String("method", string(opt.BackgroundMethod)))
	}
	s.Mask = Binarize(s.Pix, s.Background, opt)
}

// ============ LABEL ============

func (s *Splitter) label(ctx context.Context, opt Options) error {
	comps, err := FindComponents(ctx, s.Mask)
	if err != nil {
		return err
	}
	s.Components = comps
	s.Regions = FilterComponents(comps, s.Mask.W, s.Mask.H, opt)

	s.FillMean, s.FillStd = FillStats(comps)
	s.logger.Debug("labeled components",
		zap.Int("components", len(comps)),
		zap.Int("regions", len(s.Regions)),
		zap.Float64("fill_mean", s.FillMean),
		zap.Float64("fill_std", s.FillStd))
	if len(s.Regions) == 0 {
		s.logger.Info("no stickers found")
	}
	return nil
}

// ============ CROP + NORMALIZE ============

func (s *Splitter) crop(opt Options) error {
	s.Crops = make([]*image.NRGBA, len(s.Regions))
	for i, r := range s.Regions {
		c, err := Crop(s.Pix, r, opt)
		if err != nil {
			return errors.Wrapf(err, "sticker %d", i)
		}
		if !s.HasAlpha && s.Background != nil {
			SynthesizeTransparency(c, *s.Background, opt.ColorThreshold)
		}
		s.Crops[i] = c
	}
	return nil
}

func (s *Splitter) normalize(opt Options) error {
	s.Stickers = make([]*image.NRGBA, len(s.Crops))
	for i, c := range s.Crops {
		n, err := Normalize(c, opt)
		if err != nil {
			return errors.Wrapf(err, "sticker %d", i)
		}
		s.Stickers[i] = n
	}
	return nil
}

// MergeSticker merges regions of a previously split sheet and normalizes the
// result, returning the new sticker and its union region.
func MergeSticker(img image.Image, regions []Region, bg *Color, opt Options) (*image.NRGBA, Region, error) {
	merged, union, err := Merge(ToNRGBA(img), regions, bg, opt)
	if err != nil {
		return nil, Region{}, err
	}
	sticker, err := Normalize(merged, opt)
	if err != nil {
		return nil, Region{}, err
	}
	return sticker, union, nil
}
