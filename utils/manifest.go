package utils

import (
	"encoding/json"
	"image"
	"os"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/setanarut/stickerkit"
)

// ManifestName is the default file name of a split manifest.
const ManifestName = "regions.json"

// Entry is one sticker of a sheet: the regions it was assembled from and
// their union.
type Entry struct {
	Region stickerkit.Region   `json:"region"`
	Parts  []stickerkit.Region `json:"parts"`
}

// Manifest records where each sticker of a sheet came from, so that
// stickers can be merged or deleted after the split without re-labeling.
type Manifest struct {
	Source     string            `json:"source"`
	Background *stickerkit.Color `json:"background,omitempty"`
	Entries    []Entry           `json:"stickers"`
}

func NewManifest(source string, res *stickerkit.Result) *Manifest {
	m := &Manifest{Source: source, Background: res.Background}
	m.Entries = lo.Map(res.Regions, func(r stickerkit.Region, _ int) Entry {
		return Entry{Region: r, Parts: []stickerkit.Region{r}}
	})
	return m
}

func (m *Manifest) checkIndices(indices []int) error {
	if len(indices) == 0 {
		return errors.Wrap(stickerkit.ErrEmptyInput, "no stickers selected")
	}
	for _, i := range indices {
		if i < 0 || i >= len(m.Entries) {
			return errors.Errorf("sticker index %d out of range [0,%d)", i, len(m.Entries))
		}
	}
	return nil
}

// Merge replaces two or more selected entries with one entry made of all
// their parts, appended at the end.
func (m *Manifest) Merge(indices []int) (Entry, error) {
	if err := m.checkIndices(indices); err != nil {
		return Entry{}, err
	}
	indices = lo.Uniq(indices)
	if len(indices) < 2 {
		return Entry{}, errors.Errorf("merge needs at least two stickers, got %d", len(indices))
	}
	parts := lo.FlatMap(indices, func(i int, _ int) []stickerkit.Region {
		return m.Entries[i].Parts
	})
	union, err := stickerkit.UnionRegion(parts)
	if err != nil {
		return Entry{}, err
	}
	merged := Entry{Region: union, Parts: parts}
	m.Entries = append(m.without(indices), merged)
	return merged, nil
}

// Delete drops the selected entries.
func (m *Manifest) Delete(indices []int) error {
	if err := m.checkIndices(indices); err != nil {
		return err
	}
	m.Entries = m.without(indices)
	return nil
}

func (m *Manifest) without(indices []int) []Entry {
	return lo.Filter(m.Entries, func(_ Entry, i int) bool {
		return !lo.Contains(indices, i)
	})
}

// Render rebuilds every sticker from the source sheet.
func (m *Manifest) Render(sheet image.Image, opt stickerkit.Options) ([]*image.NRGBA, error) {
	pix := stickerkit.ToNRGBA(sheet)
	out := make([]*image.NRGBA, len(m.Entries))
	for i, e := range m.Entries {
		sticker, _, err := stickerkit.MergeSticker(pix, e.Parts, m.Background, opt)
		if err != nil {
			return nil, errors.Wrapf(err, "sticker %d", i+1)
		}
		out[i] = sticker
	}
	return out, nil
}

func WriteManifest(m *Manifest, filename string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}

func ReadManifest(filename string) (*Manifest, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "parse manifest %s", filename)
	}
	return &m, nil
}
