package ledanim

// This file contains the encoding tags used to describe how the frames of an
// animation have been laid out within the byte stream supplied at init time

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"
)

// Encoding identifies the layout of the frame records within an encoded stream.
// The values match the tags used by existing animation data and must not be
// renumbered
type Encoding uint8

const (
	RGB24      Encoding = 0 // 3 bytes per LED, uncompressed
	RGB565RLE  Encoding = 1 // (run, 16 bit color) pairs
	Indexed    Encoding = 2 // 1 palette index per LED
	IndexedRLE Encoding = 3 // (run, palette index) pairs
	RGB565     Encoding = 4 // 2 bytes per LED, uncompressed
)

var encodingNames = map[Encoding]string{
	RGB24:      "rgb24",
	RGB565RLE:  "rgb565-rle",
	Indexed:    "indexed",
	IndexedRLE: "indexed-rle",
	RGB565:     "rgb565",
}

func (enc Encoding) String() string {
	if name, isPresent := encodingNames[enc]; isPresent {
		return name
	}
	return fmt.Sprintf("encoding(%d)", uint8(enc))
}

// Valid is true for the five known encodings
func (enc Encoding) Valid() bool {
	_, isPresent := encodingNames[enc]
	return isPresent
}

// BytesPerLED is the number of bytes a single LED occupies within a frame
// record, or within a run pair for the run-length encodings
func (enc Encoding) BytesPerLED() int {
	switch enc {
	case RGB24:
		return 3
	case RGB565, RGB565RLE:
		return 2
	case Indexed, IndexedRLE:
		return 1
	}
	return 0
}

// Paletted is true when the stream starts with a color table header
func (enc Encoding) Paletted() bool {
	return enc == Indexed || enc == IndexedRLE
}

// RunLength is true for the encodings whose frame records are variable length
func (enc Encoding) RunLength() bool {
	return enc == RGB565RLE || enc == IndexedRLE
}

// Expanded is true for the encodings that are decoded into the scratch buffer
// before being pushed to a sink
func (enc Encoding) Expanded() bool {
	return enc.RunLength() || enc.Paletted()
}

// ParseEncoding accepts the names produced by String, case insensitive, with
// underscores treated as dashes
func ParseEncoding(name string) (enc Encoding, err errors.Error) {
	name = strings.Replace(strings.ToLower(strings.TrimSpace(name)), "_", "-", -1)
	for enc, known := range encodingNames {
		if known == name {
			return enc, nil
		}
	}
	return 0, errors.New("unknown encoding").With("encoding", name).With("stack", stack.Trace().TrimRuntime())
}

// UnpackRGB565 expands a packed 5-6-5 value into 8 bit channels
func UnpackRGB565(v uint16) color.RGBA {
	return color.RGBA{
		R: uint8((v>>11)&0x1F) << 3,
		G: uint8((v>>5)&0x3F) << 2,
		B: uint8(v&0x1F) << 3,
		A: 0xFF,
	}
}

// PackRGB565 truncates an 8 bit per channel color to 5-6-5
func PackRGB565(c color.RGBA) uint16 {
	return uint16(c.R>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.B>>3)
}
