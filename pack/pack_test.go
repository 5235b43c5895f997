package pack

import (
	"image/color"
	"reflect"
	"testing"

	"github.com/karlmutch/errors"

	"github.com/TeamNorCal/ledanim"
)

var (
	red   = color.RGBA{R: 0xF8, A: 0xFF}
	green = color.RGBA{G: 0xFC, A: 0xFF}
	blue  = color.RGBA{B: 0xF8, A: 0xFF}
)

func solid(c color.RGBA, ledCount int) (frame []color.RGBA) {
	frame = make([]color.RGBA, ledCount)
	for i := range frame {
		frame[i] = c
	}
	return frame
}

func TestRGB565Layout(t *testing.T) {
	data, err := RGB565([][]color.RGBA{{red, green, blue}})
	if err != nil {
		t.Fatal(err)
	}
	if expected := []byte{0x00, 0xF8, 0xE0, 0x07, 0x1F, 0x00}; !reflect.DeepEqual(data, expected) {
		t.Errorf("packed as %v, expected %v", data, expected)
	}
}

func TestRunsAreCapped(t *testing.T) {
	data, err := RGB565RLE([][]color.RGBA{solid(red, 300)})
	if err != nil {
		t.Fatal(err)
	}
	if expected := []byte{255, 0x00, 0xF8, 45, 0x00, 0xF8}; !reflect.DeepEqual(data, expected) {
		t.Errorf("packed as %v, expected %v", data, expected)
	}
}

func TestIndexedRLELayout(t *testing.T) {
	data, err := IndexedRLE([]color.RGBA{red, green}, [][]uint8{{0, 0, 1}, {1, 1, 1}})
	if err != nil {
		t.Fatal(err)
	}
	expected := []byte{
		1, 0xF8, 0, 0, 0, 0xFC, 0,
		2, 0, 1, 1,
		3, 1,
	}
	if !reflect.DeepEqual(data, expected) {
		t.Errorf("packed as %v, expected %v", data, expected)
	}
}

func TestQuantize(t *testing.T) {
	palette, indices, err := Quantize([][]color.RGBA{{blue, red, blue}, {green, green, red}})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(palette, []color.RGBA{blue, red, green}) {
		t.Errorf("unexpected palette %v", palette)
	}
	if !reflect.DeepEqual(indices, [][]uint8{{0, 1, 0}, {2, 2, 1}}) {
		t.Errorf("unexpected indices %v", indices)
	}

	many := make([]color.RGBA, ledanim.MaxPaletteEntries+1)
	for i := range many {
		many[i] = color.RGBA{R: uint8(i), G: uint8(i >> 8), A: 0xFF}
	}
	if _, _, err = Quantize([][]color.RGBA{many}); err == nil {
		t.Error("more than 256 colors were quantized")
	}
	if _, _, err = Quantize([][]color.RGBA{many[:ledanim.MaxPaletteEntries]}); err != nil {
		t.Errorf("256 colors could not be quantized: %v", err)
	}
}

func TestPackErrors(t *testing.T) {
	tests := []struct {
		name string
		pack func() ([]byte, errors.Error)
	}{
		{"no frames", func() ([]byte, errors.Error) { return RGB24(nil) }},
		{"empty frame", func() ([]byte, errors.Error) { return RGB565([][]color.RGBA{{}}) }},
		{"ragged frames", func() ([]byte, errors.Error) { return RGB565RLE([][]color.RGBA{{red}, {red, red}}) }},
		{"index out of range", func() ([]byte, errors.Error) { return Indexed([]color.RGBA{red}, [][]uint8{{0, 1}}) }},
		{"empty palette", func() ([]byte, errors.Error) { return IndexedRLE(nil, [][]uint8{{0}}) }},
		{"unknown encoding", func() ([]byte, errors.Error) { return Encode(ledanim.Encoding(7), [][]color.RGBA{{red}}) }},
	}
	for _, tc := range tests {
		if _, err := tc.pack(); err == nil {
			t.Errorf("%s: expected an error", tc.name)
		}
	}
}
