package pack

import (
	"image/color"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	"github.com/TeamNorCal/ledanim"
)

// Quantize builds a palette holding every distinct color used by the frames,
// in order of first use, and the frames expressed as indexes into it.  Frames
// using more than 256 distinct colors cannot be indexed
func Quantize(frames [][]color.RGBA) (palette []color.RGBA, indices [][]uint8, err errors.Error) {
	if _, err = checkColors(frames); err != nil {
		return nil, nil, err
	}

	lookup := map[color.RGBA]uint8{}
	indices = make([][]uint8, len(frames))
	for i, frame := range frames {
		indices[i] = make([]uint8, len(frame))
		for led, c := range frame {
			c.A = 0xFF
			idx, isPresent := lookup[c]
			if !isPresent {
				if len(palette) == ledanim.MaxPaletteEntries {
					return nil, nil, errors.New("too many colors for a palette").
						With("limit", ledanim.MaxPaletteEntries).
						With("frame", i).
						With("stack", stack.Trace().TrimRuntime())
				}
				idx = uint8(len(palette))
				lookup[c] = idx
				palette = append(palette, c)
			}
			indices[i][led] = idx
		}
	}
	return palette, indices, nil
}

// appendHeader writes the color table, the entry count minus one followed by
// the RGB triples
func appendHeader(data []byte, palette []color.RGBA) ([]byte, errors.Error) {
	if len(palette) == 0 || len(palette) > ledanim.MaxPaletteEntries {
		return nil, errors.New("palette size out of range").With("entries", len(palette)).With("stack", stack.Trace().TrimRuntime())
	}
	data = append(data, uint8(len(palette)-1))
	for _, c := range palette {
		data = append(data, c.R, c.G, c.B)
	}
	return data, nil
}

func checkIndices(palette []color.RGBA, frames [][]uint8) (ledCount int, err errors.Error) {
	if ledCount, err = checkFrames(len(frames), func(i int) int { return len(frames[i]) }); err != nil {
		return 0, err
	}
	for i, frame := range frames {
		for led, idx := range frame {
			if int(idx) >= len(palette) {
				return 0, errors.New("palette index out of range").
					With("frame", i).
					With("led", led).
					With("index", idx).
					With("entries", len(palette)).
					With("stack", stack.Trace().TrimRuntime())
			}
		}
	}
	return ledCount, nil
}

// Indexed stores the palette header followed by one palette index per LED
func Indexed(palette []color.RGBA, frames [][]uint8) (data []byte, err errors.Error) {
	ledCount, err := checkIndices(palette, frames)
	if err != nil {
		return nil, err
	}
	if data, err = appendHeader(make([]byte, 0, 1+len(palette)*3+len(frames)*ledCount), palette); err != nil {
		return nil, err
	}
	for _, frame := range frames {
		data = append(data, frame...)
	}
	return data, nil
}

// IndexedRLE stores the palette header followed by runs of LEDs sharing the
// same palette index, each as a run length byte followed by the index
func IndexedRLE(palette []color.RGBA, frames [][]uint8) (data []byte, err errors.Error) {
	if _, err = checkIndices(palette, frames); err != nil {
		return nil, err
	}
	if data, err = appendHeader(nil, palette); err != nil {
		return nil, err
	}
	for _, frame := range frames {
		data = appendRuns(data, frame, func(data []byte, idx uint8) []byte {
			return append(data, idx)
		})
	}
	return data, nil
}
