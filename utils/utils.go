package utils

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/setanarut/stickerkit"
)

// DecodeError reports bytes that could not be decoded as an image.
type DecodeError struct {
	Name string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Name, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decode turns PNG, JPEG, GIF, BMP, TIFF or WebP bytes into a buffer.
func Decode(name string, data []byte) (*image.NRGBA, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Name: name, Err: err}
	}
	return stickerkit.ToNRGBA(img), nil
}

func ReadImage(path string) (*image.NRGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(filepath.Base(path), data)
}

// EncodePNG serializes img as an alpha-preserving PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(err, "encode png")
	}
	return buf.Bytes(), nil
}

func SaveImage(img image.Image, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// StickerName is the suggested file name of the i-th sticker, counting from zero.
func StickerName(i int) string {
	return fmt.Sprintf("sticker_%d.png", i+1)
}

// Blob is one named, encoded output.
type Blob struct {
	Name string
	Data []byte
}

// EncodeStickers encodes stickers in order under their suggested names.
func EncodeStickers(stickers []*image.NRGBA) ([]Blob, error) {
	out := make([]Blob, 0, len(stickers))
	for i, s := range stickers {
		data, err := EncodePNG(s)
		if err != nil {
			return nil, errors.Wrapf(err, "sticker %d", i+1)
		}
		out = append(out, Blob{Name: StickerName(i), Data: data})
	}
	return out, nil
}

// SaveBlobs writes every blob into dir.
func SaveBlobs(blobs []Blob, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, b := range blobs {
		if err := os.WriteFile(filepath.Join(dir, b.Name), b.Data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// PruneStickers removes sticker files in dir that keep does not name, so that
// a re-run with fewer stickers leaves no stale outputs behind.
func PruneStickers(dir string, keep []Blob) error {
	paths, err := filepath.Glob(filepath.Join(dir, "sticker_*.png"))
	if err != nil {
		return err
	}
	kept := lo.Map(keep, func(b Blob, _ int) string { return b.Name })
	for _, path := range paths {
		if lo.Contains(kept, filepath.Base(path)) {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}
