package main

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/setanarut/stickerkit"
	"github.com/setanarut/stickerkit/utils"
)

func TestParseSelection(t *testing.T) {
	got, err := parseSelection("1, 3,,2")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldResemble, []int{0, 2, 1})

	_, err = parseSelection(" , ")
	test.That(t, errors.Is(err, stickerkit.ErrEmptyInput), test.ShouldBeTrue)

	_, err = parseSelection("0")
	test.That(t, err, test.ShouldNotBeNil)

	_, err = parseSelection("one")
	test.That(t, err, test.ShouldNotBeNil)
}

func writeSheet(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 120, 80))
	for y := range 80 {
		for x := range 120 {
			c := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			switch {
			case x >= 5 && x < 25 && y >= 5 && y < 25:
				c = color.NRGBA{R: 255, A: 255}
			case x >= 60 && x < 90 && y >= 10 && y < 30:
				c = color.NRGBA{G: 255, A: 255}
			case x >= 20 && x < 50 && y >= 45 && y < 75:
				c = color.NRGBA{B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	path := filepath.Join(dir, "sheet.png")
	test.That(t, utils.SaveImage(img, path), test.ShouldBeNil)
	return path
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	return newApp().Run(append([]string{"stickerkit", "--log-mode", "release"}, args...))
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestSplitMergeDelete(t *testing.T) {
	dir := t.TempDir()
	sheet := writeSheet(t, dir)
	out := filepath.Join(dir, "out")

	test.That(t, run(t, "split", "--out", out, "--zip", sheet), test.ShouldBeNil)
	for i := range 3 {
		test.That(t, exists(filepath.Join(out, utils.StickerName(i))), test.ShouldBeTrue)
	}
	test.That(t, exists(filepath.Join(out, utils.ArchiveName)), test.ShouldBeTrue)
	m, err := utils.ReadManifest(filepath.Join(out, utils.ManifestName))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.Entries, test.ShouldHaveLength, 3)

	test.That(t, run(t, "merge", "--out", out, "--select", "1,3", sheet), test.ShouldBeNil)
	m, err = utils.ReadManifest(filepath.Join(out, utils.ManifestName))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.Entries, test.ShouldHaveLength, 2)
	test.That(t, m.Entries[1].Parts, test.ShouldHaveLength, 2)
	test.That(t, exists(filepath.Join(out, utils.StickerName(2))), test.ShouldBeFalse)

	test.That(t, run(t, "delete", "--out", out, "--select", "1", sheet), test.ShouldBeNil)
	m, err = utils.ReadManifest(filepath.Join(out, utils.ManifestName))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.Entries, test.ShouldHaveLength, 1)
	test.That(t, exists(filepath.Join(out, utils.StickerName(1))), test.ShouldBeFalse)

	test.That(t, run(t, "delete", "--out", out, "--select", "4", sheet), test.ShouldNotBeNil)
}

func TestSplitRemovesStaleStickers(t *testing.T) {
	dir := t.TempDir()
	sheet := writeSheet(t, dir)
	out := filepath.Join(dir, "out")
	test.That(t, run(t, "split", "--out", out, sheet), test.ShouldBeNil)
	test.That(t, exists(filepath.Join(out, utils.StickerName(2))), test.ShouldBeTrue)

	single := image.NewNRGBA(image.Rect(0, 0, 60, 60))
	for y := range 60 {
		for x := range 60 {
			c := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			if x >= 10 && x < 40 && y >= 10 && y < 40 {
				c = color.NRGBA{R: 255, A: 255}
			}
			single.SetNRGBA(x, y, c)
		}
	}
	singlePath := filepath.Join(dir, "single.png")
	test.That(t, utils.SaveImage(single, singlePath), test.ShouldBeNil)

	test.That(t, run(t, "split", "--out", out, singlePath), test.ShouldBeNil)
	test.That(t, exists(filepath.Join(out, utils.StickerName(0))), test.ShouldBeTrue)
	test.That(t, exists(filepath.Join(out, utils.StickerName(1))), test.ShouldBeFalse)
	test.That(t, exists(filepath.Join(out, utils.StickerName(2))), test.ShouldBeFalse)
}

func TestSplitBackgroundFlag(t *testing.T) {
	dir := t.TempDir()
	sheet := writeSheet(t, dir)
	out := filepath.Join(dir, "out")

	test.That(t, run(t, "split", "--out", out, "--background", "#ffffff", sheet), test.ShouldBeNil)
	m, err := utils.ReadManifest(filepath.Join(out, utils.ManifestName))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, *m.Background, test.ShouldResemble, stickerkit.Color{R: 255, G: 255, B: 255})

	test.That(t, run(t, "split", "--out", out, "--background", "white", sheet), test.ShouldNotBeNil)
	test.That(t, run(t, "split", "--out", out), test.ShouldNotBeNil)
}

func TestNormalizeAndResize(t *testing.T) {
	dir := t.TempDir()
	sheet := writeSheet(t, dir)
	out := filepath.Join(dir, "out")

	test.That(t, run(t, "normalize", "--out", out, sheet), test.ShouldBeNil)
	img, err := utils.ReadImage(filepath.Join(out, "sheet.png"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, img.Rect, test.ShouldResemble, image.Rect(0, 0, 240, 240))

	test.That(t, run(t, "resize", "--out", out, "--width", "64", "--height", "32", sheet), test.ShouldBeNil)
	img, err = utils.ReadImage(filepath.Join(out, "sheet_64x32.png"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, img.Rect, test.ShouldResemble, image.Rect(0, 0, 64, 32))

	err = run(t, "normalize", "--out", out, sheet, filepath.Join(dir, "missing.png"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, exists(filepath.Join(out, "sheet.png")), test.ShouldBeTrue)
}
