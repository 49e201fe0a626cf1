package utils

import (
	"io"
	"os"

	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// ArchiveName is the default file name of a sticker archive.
const ArchiveName = "stickers.zip"

// WriteArchive writes blobs as zip entries, in order. PNG data is already
// compressed, so entries are stored.
func WriteArchive(w io.Writer, blobs []Blob) (err error) {
	zw := zip.NewWriter(w)
	defer func() {
		err = multierr.Combine(err, zw.Close())
	}()
	for _, b := range blobs {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: b.Name, Method: zip.Store})
		if err != nil {
			return errors.Wrapf(err, "create %s", b.Name)
		}
		if _, err := fw.Write(b.Data); err != nil {
			return errors.Wrapf(err, "write %s", b.Name)
		}
	}
	return nil
}

func SaveArchive(blobs []Blob, filename string) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	return WriteArchive(f, blobs)
}
