package utils

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/setanarut/stickerkit"
)

// EnvPrefix prefixes environment overrides, e.g. STICKERKIT_OUTPUT_SIDE.
const EnvPrefix = "STICKERKIT"

// LoadOptions reads options from a YAML, JSON or TOML file on top of
// stickerkit.DefaultOptions. Environment variables override the file.
// An empty path loads defaults and environment only.
func LoadOptions(path string) (stickerkit.Options, error) {
	v := viper.New()
	setDefaults(v, stickerkit.DefaultOptions())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return stickerkit.Options{}, errors.Wrapf(err, "read config %s", path)
		}
	}

	var opt stickerkit.Options
	if err := v.Unmarshal(&opt); err != nil {
		return stickerkit.Options{}, errors.Wrap(err, "unmarshal config")
	}
	if err := opt.Validate(); err != nil {
		return stickerkit.Options{}, err
	}
	return opt, nil
}

func setDefaults(v *viper.Viper, opt stickerkit.Options) {
	v.SetDefault("color_threshold", opt.ColorThreshold)
	v.SetDefault("min_region_side", opt.MinRegionSide)
	v.SetDefault("min_fill_rate", opt.MinFillRate)
	v.SetDefault("max_region_area_fraction", opt.MaxRegionAreaFraction)
	v.SetDefault("output_side", opt.OutputSide)
	v.SetDefault("sample_budget", opt.SampleBudget)
	v.SetDefault("quantization_step", opt.QuantizationStep)
	v.SetDefault("background_method", string(opt.BackgroundMethod))
	v.SetDefault("resample_filter", opt.ResampleFilter)
	v.SetDefault("max_pixels", opt.MaxPixels)
	v.SetDefault("workers", opt.Workers)
}
