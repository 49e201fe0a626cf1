package utils

import (
	"context"
	"image"
	"testing"

	"github.com/pkg/errors"
	"go.uber.org/zap/zaptest"
	"go.viam.com/test"

	"github.com/setanarut/stickerkit"
)

func TestNormalizeFiles(t *testing.T) {
	wide := image.NewNRGBA(image.Rect(0, 0, 60, 20))
	paint(wide, stickerkit.Region{Width: 60, Height: 20}, red)
	data, err := EncodePNG(wide)
	test.That(t, err, test.ShouldBeNil)

	inputs := []Blob{
		{Name: "in/wide.bmp", Data: data},
		{Name: "broken.png", Data: []byte{0x89, 'P', 'N', 'G'}},
		{Name: "copy", Data: data},
	}
	opt := stickerkit.DefaultOptions()
	opt.OutputSide = 64
	out, err := NormalizeFiles(context.Background(), inputs, opt, zaptest.NewLogger(t))
	test.That(t, err, test.ShouldNotBeNil)

	var de *DecodeError
	test.That(t, errors.As(err, &de), test.ShouldBeTrue)
	test.That(t, de.Name, test.ShouldEqual, "broken.png")

	test.That(t, out, test.ShouldHaveLength, 2)
	test.That(t, out[0].Name, test.ShouldEqual, "wide.png")
	test.That(t, out[1].Name, test.ShouldEqual, "copy.png")

	img, err := Decode(out[0].Name, out[0].Data)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, img.Rect, test.ShouldResemble, image.Rect(0, 0, 64, 64))
	test.That(t, img.NRGBAAt(32, 1).A, test.ShouldEqual, uint8(0))
}

func TestNormalizeFilesEmpty(t *testing.T) {
	out, err := NormalizeFiles(context.Background(), nil, stickerkit.DefaultOptions(), nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldBeEmpty)
}
