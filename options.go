package stickerkit

import (
	"runtime"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

type BackgroundMethod string

const (
	// BackgroundHistogram picks the most frequent quantized color on a sample grid.
	BackgroundHistogram BackgroundMethod = "histogram"
	// BackgroundDominant uses github.com/cenkalti/dominantcolor.
	BackgroundDominant BackgroundMethod = "dominant"
	// BackgroundKMeans picks the center of the most populated k-means cluster.
	// Cluster seeding is random, so results may differ between runs.
	BackgroundKMeans BackgroundMethod = "kmeans"
)

type Options struct {
	// Euclidean RGB distance at or below which a pixel counts as background.
	// Binarization uses a strict > for foreground, transparency uses <=.
	ColorThreshold float64 `mapstructure:"color_threshold"`
	// Components narrower or shorter than this are dropped.
	MinRegionSide int `mapstructure:"min_region_side"`
	// Components must cover strictly more than this fraction of their bounding box.
	MinFillRate float64 `mapstructure:"min_fill_rate"`
	// Regions larger than this fraction of the image area are treated as background.
	MaxRegionAreaFraction float64 `mapstructure:"max_region_area_fraction"`
	// Edge length of normalized stickers.
	OutputSide int `mapstructure:"output_side"`
	// Roughly SampleBudget x SampleBudget pixels are sampled for background detection.
	SampleBudget int `mapstructure:"sample_budget"`
	// Per-channel quantization step for the background histogram.
	QuantizationStep int `mapstructure:"quantization_step"`
	// Background detection strategy for opaque images.
	BackgroundMethod BackgroundMethod `mapstructure:"background_method"`
	// One of lanczos, catmullrom, linear, box, nearest.
	ResampleFilter string `mapstructure:"resample_filter"`
	// Upper bound on pixels of any buffer this package allocates. <= 0 disables the check.
	MaxPixels int `mapstructure:"max_pixels"`
	// Goroutines used by NormalizeAll.
	Workers int `mapstructure:"workers"`
}

func DefaultOptions() Options {
	return Options{
		ColorThreshold:        25,
		MinRegionSide:         10,
		MinFillRate:           0.1,
		MaxRegionAreaFraction: 0.9,
		OutputSide:            240,
		SampleBudget:          100,
		QuantizationStep:      8,
		BackgroundMethod:      BackgroundHistogram,
		ResampleFilter:        "lanczos",
		MaxPixels:             1 << 28,
		Workers:               runtime.NumCPU(),
	}
}

func (o Options) Validate() error {
	switch {
	case o.ColorThreshold < 0:
		return errors.Errorf("color_threshold must be >= 0, got %v", o.ColorThreshold)
	case o.MinRegionSide < 1:
		return errors.Errorf("min_region_side must be >= 1, got %d", o.MinRegionSide)
	case o.MinFillRate < 0 || o.MinFillRate >= 1:
		return errors.Errorf("min_fill_rate must be in [0,1), got %v", o.MinFillRate)
	case o.MaxRegionAreaFraction <= 0 || o.MaxRegionAreaFraction > 1:
		return errors.Errorf("max_region_area_fraction must be in (0,1], got %v", o.MaxRegionAreaFraction)
	case o.OutputSide < 1:
		return errors.Errorf("output_side must be >= 1, got %d", o.OutputSide)
	case o.SampleBudget < 1:
		return errors.Errorf("sample_budget must be >= 1, got %d", o.SampleBudget)
	case o.QuantizationStep < 1 || o.QuantizationStep > 256:
		return errors.Errorf("quantization_step must be in [1,256], got %d", o.QuantizationStep)
	case o.Workers < 0:
		return errors.Errorf("workers must be >= 0, got %d", o.Workers)
	}
	switch o.BackgroundMethod {
	case BackgroundHistogram, BackgroundDominant, BackgroundKMeans:
	default:
		return errors.Errorf("unknown background_method %q", o.BackgroundMethod)
	}
	if _, ok := resampleFilters[o.ResampleFilter]; !ok {
		return errors.Errorf("unknown resample_filter %q", o.ResampleFilter)
	}
	return nil
}

var resampleFilters = map[string]imaging.ResampleFilter{
	"lanczos":    imaging.Lanczos,
	"catmullrom": imaging.CatmullRom,
	"linear":     imaging.Linear,
	"box":        imaging.Box,
	"nearest":    imaging.NearestNeighbor,
}

func (o Options) filter() imaging.ResampleFilter {
	if f, ok := resampleFilters[o.ResampleFilter]; ok {
		return f
	}
	return imaging.Lanczos
}

func (o Options) workers() int {
	if o.Workers <= 0 {
		return 1
	}
	return o.Workers
}
