package stickerkit

import (
	"context"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// Component is one 4-connected foreground blob.
type Component struct {
	Region
	Pixels int
}

// FillRate is the fraction of the bounding box covered by the blob.
func (c Component) FillRate() float64 {
	return float64(c.Pixels) / float64(c.Area())
}

var (
	dx4 = [4]int{0, 1, 0, -1}
	dy4 = [4]int{-1, 0, 1, 0}
)

// Label finds the sticker regions in mask, in discovery order.
func Label(mask Mask, opt Options) ([]Region, error) {
	return LabelContext(context.Background(), mask, opt)
}

// LabelContext is Label with a cancellation check between component seeds.
func LabelContext(ctx context.Context, mask Mask, opt Options) ([]Region, error) {
	comps, err := FindComponents(ctx, mask)
	if err != nil {
		return nil, err
	}
	return FilterComponents(comps, mask.W, mask.H, opt), nil
}

// FindComponents runs a breadth-first flood fill from every unvisited
// foreground pixel in row-major order and returns every blob unfiltered.
func FindComponents(ctx context.Context, mask Mask) ([]Component, error) {
	w, h := mask.W, mask.H
	if w <= 0 || h <= 0 {
		return nil, errors.Wrapf(ErrEmptyInput, "cannot label %dx%d mask", w, h)
	}
	if len(mask.Bits) != w*h {
		return nil, errors.Errorf("mask has %d bits, want %d", len(mask.Bits), w*h)
	}

	visited := make([]bool, w*h)
	var comps []Component
	queue := make([]int, 0, 64)
	for y := range h {
		for x := range w {
			start := labelOffset(w, x, y)
			if mask.Bits[start] != 1 || visited[start] {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			visited[start] = true
			queue = append(queue[:0], start)
			minX, maxX, minY, maxY := x, x, y, y
			for c := 0; c < len(queue); c++ {
				cur := queue[c]
				cx := cur % w
				cy := cur / w
				minX = min(minX, cx)
				maxX = max(maxX, cx)
				minY = min(minY, cy)
				maxY = max(maxY, cy)
				for k := range 4 {
					nx, ny := cx+dx4[k], cy+dy4[k]
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					nIdx := labelOffset(w, nx, ny)
					if mask.Bits[nIdx] == 1 && !visited[nIdx] {
						visited[nIdx] = true
						queue = append(queue, nIdx)
					}
				}
			}
			comps = append(comps, Component{
				Region: Region{X: minX, Y: minY, Width: maxX - minX + 1, Height: maxY - minY + 1},
				Pixels: len(queue),
			})
		}
	}
	return comps, nil
}

// Accepted reports whether a component is large and dense enough to be a sticker.
func (c Component) Accepted(opt Options) bool {
	return c.Width >= opt.MinRegionSide &&
		c.Height >= opt.MinRegionSide &&
		c.FillRate() > opt.MinFillRate
}

// FilterComponents drops small or sparse components, then applies the
// whole-image rule: a lone region covering more than MaxRegionAreaFraction
// of the image means segmentation failed and nothing is returned; among
// several regions only the oversized ones are dropped.
func FilterComponents(comps []Component, w, h int, opt Options) []Region {
	regions := make([]Region, 0, len(comps))
	for _, c := range comps {
		if c.Accepted(opt) {
			regions = append(regions, c.Region)
		}
	}
	return FilterRegions(regions, w, h, opt)
}

// FilterRegions applies the whole-image rule of FilterComponents.
func FilterRegions(regions []Region, w, h int, opt Options) []Region {
	limit := float64(w*h) * opt.MaxRegionAreaFraction
	if len(regions) == 1 && float64(regions[0].Area()) > limit {
		return []Region{}
	}
	out := make([]Region, 0, len(regions))
	for _, r := range regions {
		if float64(r.Area()) <= limit {
			out = append(out, r)
		}
	}
	return out
}

// FillStats returns the mean and standard deviation of component fill rates.
func FillStats(comps []Component) (mean, std float64) {
	if len(comps) == 0 {
		return 0, 0
	}
	if len(comps) == 1 {
		return comps[0].FillRate(), 0
	}
	rates := make([]float64, len(comps))
	for i, c := range comps {
		rates[i] = c.FillRate()
	}
	return stat.MeanStdDev(rates, nil)
}
