package utils

import (
	"context"
	"image"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/setanarut/stickerkit"
)

// NormalizeFiles decodes and normalizes every input. Items that fail to
// decode or normalize are skipped; the rest keep their input order and are
// renamed to <base>.png. The returned error combines every skipped item.
func NormalizeFiles(ctx context.Context, inputs []Blob, opt stickerkit.Options, logger *zap.Logger) ([]Blob, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var errs error
	imgs := make([]image.Image, 0, len(inputs))
	names := make([]string, 0, len(inputs))
	for _, in := range inputs {
		img, err := Decode(in.Name, in.Data)
		if err != nil {
			logger.Warn("skipping undecodable image", zap.String("name", in.Name), zap.Error(err))
			errs = multierr.Append(errs, err)
			continue
		}
		imgs = append(imgs, img)
		names = append(names, pngName(in.Name))
	}

	normalized, err := stickerkit.NormalizeAll(ctx, imgs, opt, logger)
	if normalized == nil && err != nil {
		return nil, multierr.Append(errs, err)
	}
	errs = multierr.Append(errs, err)

	out := make([]Blob, 0, len(normalized))
	for i, n := range normalized {
		if n == nil {
			continue
		}
		data, err := EncodePNG(n)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		out = append(out, Blob{Name: names[i], Data: data})
	}
	return out, errs
}

func pngName(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".png"
}
