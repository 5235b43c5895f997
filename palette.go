package ledanim

import (
	"image/color"

	"github.com/karlmutch/errors"
)

// MaxPaletteEntries is the capacity of a color table, the header stores the
// entry count minus one in a single byte
const MaxPaletteEntries = 256

// Palette is the color table used by the indexed encodings. It is loaded once
// from the stream header and is read-only afterward
type Palette struct {
	entries uint8 // Number of entries in the table, minus 1
	loaded  bool
	colors  [MaxPaletteEntries]color.RGBA
}

// loadColorTable reads the count byte followed by count RGB triples, replacing
// anything previously held by the table
func (p *Palette) loadColorTable(r *streamReader) (err errors.Error) {
	*p = Palette{}

	entries, err := r.readByte()
	if err != nil {
		return err.With("section", "color table count")
	}
	for idx := 0; idx <= int(entries); idx++ {
		if p.colors[idx], err = r.readRGB(); err != nil {
			return err.With("section", "color table").With("entry", idx)
		}
	}
	p.entries = entries
	p.loaded = true
	return nil
}

// Len is the number of colors loaded, 0 when the animation is not indexed
func (p *Palette) Len() int {
	if !p.loaded {
		return 0
	}
	return int(p.entries) + 1
}

// Color looks up a palette index. Indices past the loaded entries resolve to
// the zeroed table slots, black
func (p *Palette) Color(idx uint8) color.RGBA {
	return p.colors[idx]
}

// Colors returns a copy of the loaded entries in index order
func (p *Palette) Colors() (colors []color.RGBA) {
	colors = make([]color.RGBA, p.Len())
	copy(colors, p.colors[:])
	return colors
}
