package stickerkit

import (
	"image"
	"math"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"gonum.org/v1/gonum/floats"
)

var white = Color{R: 255, G: 255, B: 255}

// DetectBackground estimates the dominant background color of an opaque image.
// It returns white for an empty image.
func DetectBackground(img *image.NRGBA, opt Options) Color {
	switch opt.BackgroundMethod {
	case BackgroundDominant:
		return dominantBackground(img)
	case BackgroundKMeans:
		if c, ok := kmeansBackground(img, opt); ok {
			return c
		}
	}
	return histogramBackground(img, opt)
}

// sampleStep keeps the sample grid near SampleBudget^2 points.
func sampleStep(w, h, budget int) int {
	if budget <= 0 {
		budget = 1
	}
	return max(1, int(math.Floor(math.Sqrt(float64(w*h))/float64(budget))))
}

func quantize(v uint8, step int) uint8 {
	if step <= 1 {
		return v
	}
	return uint8(int(v) / step * step)
}

// histogramBackground returns the most frequent quantized color. Ties go to
// the color seen first in row-major scan order.
func histogramBackground(img *image.NRGBA, opt Options) Color {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w <= 0 || h <= 0 {
		return white
	}
	step := sampleStep(w, h, opt.SampleBudget)
	q := opt.QuantizationStep

	index := make(map[Color]int)
	var seen []Color
	var counts []float64
	for y := 0; y < h; y += step {
		for x := 0; x < w; x += step {
			off := pixOffset(img.Stride, x, y)
			c := Color{
				R: quantize(img.Pix[off], q),
				G: quantize(img.Pix[off+1], q),
				B: quantize(img.Pix[off+2], q),
			}
			i, ok := index[c]
			if !ok {
				i = len(seen)
				index[c] = i
				seen = append(seen, c)
				counts = append(counts, 0)
			}
			counts[i]++
		}
	}
	if len(counts) == 0 {
		return white
	}
	return seen[floats.MaxIdx(counts)]
}

func dominantBackground(img *image.NRGBA) Color {
	if img.Rect.Empty() {
		return white
	}
	c := dominantcolor.Find(img)
	return Color{R: c.R, G: c.G, B: c.B}
}

// kmeansBackground partitions a subsample of the image and returns the
// center of the most populated cluster.
func kmeansBackground(img *image.NRGBA, opt Options) (Color, bool) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w <= 0 || h <= 0 {
		return Color{}, false
	}
	step := sampleStep(w, h, opt.SampleBudget)
	dataset := make(clusters.Observations, 0, (w/step+1)*(h/step+1))
	distinct := make(map[Color]struct{})
	for y := 0; y < h; y += step {
		for x := 0; x < w; x += step {
			off := pixOffset(img.Stride, x, y)
			c := Color{R: img.Pix[off], G: img.Pix[off+1], B: img.Pix[off+2]}
			distinct[c] = struct{}{}
			dataset = append(dataset, clusters.Coordinates{
				float64(c.R) / 255.0,
				float64(c.G) / 255.0,
				float64(c.B) / 255.0,
			})
		}
	}
	// Seeding needs at least k distinct points.
	k := min(4, len(distinct))
	switch k {
	case 0:
		return Color{}, false
	case 1:
		for c := range distinct {
			return c, true
		}
	}
	km := kmeans.New()
	cc, err := km.Partition(dataset, k)
	if err != nil || len(cc) == 0 {
		return Color{}, false
	}
	largest := slices.MaxFunc(cc, func(a, b clusters.Cluster) int {
		return len(a.Observations) - len(b.Observations)
	})
	if len(largest.Center) < 3 {
		return Color{}, false
	}
	r, g, b := colorful.Color{
		R: largest.Center[0],
		G: largest.Center[1],
		B: largest.Center[2],
	}.Clamped().RGB255()
	return Color{R: r, G: g, B: b}, true
}
