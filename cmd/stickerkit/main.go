// Package main is a command line front end for stickerkit.
package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/setanarut/stickerkit"
	"github.com/setanarut/stickerkit/utils"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "stickerkit",
		Usage: "split sprite sheets into normalized stickers",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "YAML/JSON/TOML options file"},
			&cli.StringFlag{Name: "log-mode", Value: "debug", Usage: "debug or release"},
		},
		Commands: []*cli.Command{
			{
				Name:      "split",
				Usage:     "extract every sticker of a sheet",
				ArgsUsage: "<sheet>",
				Flags: []cli.Flag{
					outFlag(),
					&cli.StringFlag{Name: "background", Usage: "override background color, #rrggbb"},
					&cli.BoolFlag{Name: "zip", Usage: "also write " + utils.ArchiveName},
				},
				Action: withEnv(splitAction),
			},
			{
				Name:      "merge",
				Usage:     "merge stickers that were split apart",
				ArgsUsage: "<sheet>",
				Flags:     []cli.Flag{outFlag(), selectFlag(), &cli.BoolFlag{Name: "zip"}},
				Action:    withEnv(mergeAction),
			},
			{
				Name:      "delete",
				Usage:     "drop stickers from a split",
				ArgsUsage: "<sheet>",
				Flags:     []cli.Flag{outFlag(), selectFlag(), &cli.BoolFlag{Name: "zip"}},
				Action:    withEnv(deleteAction),
			},
			{
				Name:      "normalize",
				Usage:     "pad and rescale arbitrary images",
				ArgsUsage: "<image>...",
				Flags:     []cli.Flag{outFlag()},
				Action:    withEnv(normalizeAction),
			},
			{
				Name:      "resize",
				Usage:     "pad an image to a square and rescale it to a fixed size",
				ArgsUsage: "<image>",
				Flags: []cli.Flag{
					outFlag(),
					&cli.IntFlag{Name: "width", Value: 240},
					&cli.IntFlag{Name: "height", Value: 240},
				},
				Action: withEnv(resizeAction),
			},
		},
	}
}

func outFlag() cli.Flag {
	return &cli.StringFlag{Name: "out", Value: "stickers", Usage: "output directory"}
}

func selectFlag() cli.Flag {
	return &cli.StringFlag{Name: "select", Required: true, Usage: "comma separated sticker numbers, from 1"}
}

type env struct {
	opt    stickerkit.Options
	logger *zap.Logger
}

func withEnv(action func(*cli.Context, env) error) cli.ActionFunc {
	return func(c *cli.Context) (err error) {
		logger, err := utils.NewLogger(c.String("log-mode"))
		if err != nil {
			return err
		}
		defer func() {
			_ = logger.Sync()
		}()
		opt, err := utils.LoadOptions(c.String("config"))
		if err != nil {
			return err
		}
		return action(c, env{opt: opt, logger: logger})
	}
}

func firstArg(c *cli.Context) (string, error) {
	if c.NArg() < 1 {
		return "", errors.Errorf("%s: missing %s", c.Command.Name, c.Command.ArgsUsage)
	}
	return c.Args().First(), nil
}

func splitAction(c *cli.Context, e env) error {
	path, err := firstArg(c)
	if err != nil {
		return err
	}
	sheet, err := utils.ReadImage(path)
	if err != nil {
		return err
	}

	s := stickerkit.NewSplitter(sheet, e.logger)
	if hex := c.String("background"); hex != "" {
		bg, err := stickerkit.ParseColor(hex)
		if err != nil {
			return err
		}
		s.Background = &bg
	}
	if err := s.Split(c.Context, e.opt); err != nil {
		return err
	}
	res := s.Result()
	if res.Len() == 0 {
		e.logger.Warn("no stickers extracted", zap.String("sheet", path))
	}

	m := utils.NewManifest(path, res)
	return writeOutputs(c, e, m, res.Stickers)
}

func mergeAction(c *cli.Context, e env) error {
	return editManifest(c, e, func(m *utils.Manifest, indices []int) error {
		merged, err := m.Merge(indices)
		if err != nil {
			return err
		}
		e.logger.Info("merged stickers",
			zap.Ints("selected", indices),
			zap.Stringer("region", merged.Region))
		return nil
	})
}

func deleteAction(c *cli.Context, e env) error {
	return editManifest(c, e, func(m *utils.Manifest, indices []int) error {
		return m.Delete(indices)
	})
}

// editManifest applies edit to the manifest in the output directory and
// re-renders every sticker from the sheet.
func editManifest(c *cli.Context, e env, edit func(*utils.Manifest, []int) error) error {
	path, err := firstArg(c)
	if err != nil {
		return err
	}
	indices, err := parseSelection(c.String("select"))
	if err != nil {
		return err
	}
	m, err := utils.ReadManifest(filepath.Join(c.String("out"), utils.ManifestName))
	if err != nil {
		return err
	}
	if err := edit(m, indices); err != nil {
		return err
	}

	sheet, err := utils.ReadImage(path)
	if err != nil {
		return err
	}
	stickers, err := m.Render(sheet, e.opt)
	if err != nil {
		return err
	}
	return writeOutputs(c, e, m, stickers)
}

func writeOutputs(c *cli.Context, e env, m *utils.Manifest, stickers []*image.NRGBA) error {
	dir := c.String("out")
	blobs, err := utils.EncodeStickers(stickers)
	if err != nil {
		return err
	}
	if err := utils.SaveBlobs(blobs, dir); err != nil {
		return err
	}
	if err := utils.PruneStickers(dir, blobs); err != nil {
		return err
	}
	if err := utils.WriteManifest(m, filepath.Join(dir, utils.ManifestName)); err != nil {
		return err
	}
	if c.Bool("zip") {
		if err := utils.SaveArchive(blobs, filepath.Join(dir, utils.ArchiveName)); err != nil {
			return err
		}
	}
	e.logger.Info("wrote stickers", zap.Int("count", len(blobs)), zap.String("dir", dir))
	return nil
}

// parseSelection turns "1,3" into zero-based indices.
func parseSelection(s string) ([]int, error) {
	var out []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid sticker number %q", field)
		}
		if n < 1 {
			return nil, errors.Errorf("sticker numbers start at 1, got %d", n)
		}
		out = append(out, n-1)
	}
	if len(out) == 0 {
		return nil, errors.Wrap(stickerkit.ErrEmptyInput, "no stickers selected")
	}
	return out, nil
}

func normalizeAction(c *cli.Context, e env) error {
	if c.NArg() < 1 {
		return errors.New("normalize: missing <image>...")
	}
	var readErrs error
	inputs := make([]utils.Blob, 0, c.NArg())
	for _, path := range c.Args().Slice() {
		data, err := os.ReadFile(path)
		if err != nil {
			e.logger.Warn("skipping unreadable file", zap.String("path", path), zap.Error(err))
			readErrs = multierr.Append(readErrs, err)
			continue
		}
		inputs = append(inputs, utils.Blob{Name: path, Data: data})
	}

	out, err := utils.NormalizeFiles(c.Context, inputs, e.opt, e.logger)
	if err := utils.SaveBlobs(out, c.String("out")); err != nil {
		return err
	}
	e.logger.Info("normalized images", zap.Int("count", len(out)), zap.Int("inputs", c.NArg()))
	return multierr.Combine(readErrs, err)
}

func resizeAction(c *cli.Context, e env) error {
	path, err := firstArg(c)
	if err != nil {
		return err
	}
	img, err := utils.ReadImage(path)
	if err != nil {
		return err
	}
	resized, err := stickerkit.Resize(img, c.Int("width"), c.Int("height"), e.opt)
	if err != nil {
		return err
	}
	dir := c.String("out")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	name := fmt.Sprintf("%s_%dx%d.png",
		strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), c.Int("width"), c.Int("height"))
	return utils.SaveImage(resized, filepath.Join(dir, name))
}
