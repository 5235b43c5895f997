package ledanim

import (
	"image/color"
	"testing"
)

func TestStreamReader(t *testing.T) {
	r := newStreamReader([]byte{0x34, 0x12, 1, 2, 3, 9}, 0)

	v, err := r.readUint16()
	if err != nil || v != 0x1234 {
		t.Fatalf("expected little endian 0x1234, got 0x%04x (%v)", v, err)
	}
	c, err := r.readRGB()
	if err != nil || c != (color.RGBA{R: 1, G: 2, B: 3, A: 0xFF}) {
		t.Fatalf("unexpected color %v (%v)", c, err)
	}
	if _, err = r.readUint16(); err == nil {
		t.Fatal("read past the end of the stream")
	}
	if r.pos != 5 {
		t.Errorf("failed read moved the position to %d", r.pos)
	}
	if b, err := r.readByte(); err != nil || b != 9 {
		t.Errorf("expected final byte 9, got %d (%v)", b, err)
	}
	if _, err = r.next(1); err == nil {
		t.Error("read from an exhausted stream")
	}
}

func TestCursorAdvance(t *testing.T) {
	c := cursor{}
	c.rewind(4)

	c.advance(10, 3, 4)
	c.advance(16, 3, 4)
	if c.index != 2 || c.pos != 16 || c.wrapped {
		t.Fatalf("unexpected cursor %+v", c)
	}
	c.advance(22, 3, 4)
	if c.index != 0 || c.pos != 4 || !c.wrapped || c.loops != 1 {
		t.Fatalf("cursor did not wrap, %+v", c)
	}
	c.advance(10, 3, 4)
	if c.wrapped || c.loops != 1 {
		t.Errorf("wrap not cleared, %+v", c)
	}

	c.seek(2, 16)
	c.rewind(4)
	if c != (cursor{pos: 4}) {
		t.Errorf("rewind left %+v", c)
	}
}

func TestSkipRuns(t *testing.T) {
	tests := []struct {
		name      string
		data      []byte
		colorSize int
		ledCount  int
		end       int
		overshoot int
		fails     bool
	}{
		{"exact", []byte{3, 1, 2, 0xFF}, 1, 5, 4, 0, false},
		{"zero length run", []byte{0, 7, 5, 1, 0xFF}, 1, 5, 4, 0, false},
		{"overshoot", []byte{4, 1, 4, 2}, 1, 5, 4, 3, false},
		{"wide colors", []byte{2, 0, 0, 1, 0, 0}, 2, 3, 6, 0, false},
		{"truncated", []byte{2, 0, 0, 1, 0}, 2, 3, 0, 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newStreamReader(tc.data, 0)
			overshoot, err := skipRuns(r, tc.ledCount, tc.colorSize)
			if tc.fails {
				if err == nil {
					t.Fatal("expected the scan to fail")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if r.pos != tc.end || overshoot != tc.overshoot {
				t.Errorf("scan ended at %d with overshoot %d, expected %d and %d", r.pos, overshoot, tc.end, tc.overshoot)
			}
		})
	}
}

func TestExpandRunsMatchesSkip(t *testing.T) {
	data := []byte{
		1, 0x00, 0x00, // 1 x black
		0, 0xFF, 0xFF, // empty run
		3, 0x00, 0xF8, // 3 x red
		2, 0x1F, 0x00, // 2 x blue
	}
	scratch := make([]color.RGBA, 6)

	r := newStreamReader(data, 0)
	overshoot, err := rgb565RLEDecoder{}.expand(r, nil, scratch)
	if err != nil || overshoot != 0 {
		t.Fatalf("expand failed, overshoot %d (%v)", overshoot, err)
	}

	skip := newStreamReader(data, 0)
	if _, err = (rgb565RLEDecoder{}).skipRecord(skip, len(scratch)); err != nil {
		t.Fatal(err)
	}
	if r.pos != skip.pos || r.pos != len(data) {
		t.Errorf("expand ended at %d, skip at %d, expected both at %d", r.pos, skip.pos, len(data))
	}

	black := color.RGBA{A: 0xFF}
	red := color.RGBA{R: 0xF8, A: 0xFF}
	blue := color.RGBA{B: 0xF8, A: 0xFF}
	expected := []color.RGBA{black, red, red, red, blue, blue}
	for i := range expected {
		if scratch[i] != expected[i] {
			t.Errorf("LED %d expanded to %v, expected %v", i, scratch[i], expected[i])
		}
	}
}

func TestRGB565(t *testing.T) {
	tests := []struct {
		packed uint16
		c      color.RGBA
	}{
		{0x0000, color.RGBA{A: 0xFF}},
		{0xF800, color.RGBA{R: 0xF8, A: 0xFF}},
		{0x07E0, color.RGBA{G: 0xFC, A: 0xFF}},
		{0x001F, color.RGBA{B: 0xF8, A: 0xFF}},
		{0xFFFF, color.RGBA{R: 0xF8, G: 0xFC, B: 0xF8, A: 0xFF}},
	}
	for _, tc := range tests {
		if got := UnpackRGB565(tc.packed); got != tc.c {
			t.Errorf("0x%04x unpacked as %v, expected %v", tc.packed, got, tc.c)
		}
		if got := PackRGB565(tc.c); got != tc.packed {
			t.Errorf("%v packed as 0x%04x, expected 0x%04x", tc.c, got, tc.packed)
		}
	}
	if got := PackRGB565(color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF}); got != 0xFFFF {
		t.Errorf("low bits not discarded, got 0x%04x", got)
	}
}

func TestEncodings(t *testing.T) {
	tests := []struct {
		name     string
		enc      Encoding
		bytes    int
		paletted bool
		rle      bool
	}{
		{"rgb24", RGB24, 3, false, false},
		{"RGB565", RGB565, 2, false, false},
		{"rgb565_rle", RGB565RLE, 2, false, true},
		{" indexed ", Indexed, 1, true, false},
		{"Indexed-RLE", IndexedRLE, 1, true, true},
	}
	for _, tc := range tests {
		enc, err := ParseEncoding(tc.name)
		if err != nil {
			t.Errorf("%q not parsed: %v", tc.name, err)
			continue
		}
		if enc != tc.enc || enc.BytesPerLED() != tc.bytes || enc.Paletted() != tc.paletted || enc.RunLength() != tc.rle {
			t.Errorf("%q parsed as %s with unexpected properties", tc.name, enc)
		}
		if !enc.Valid() || enc.Expanded() != (tc.paletted || tc.rle) {
			t.Errorf("%s has unexpected properties", enc)
		}
	}

	if _, err := ParseEncoding("rgb48"); err == nil {
		t.Error("unknown encoding name accepted")
	}
	if Encoding(5).Valid() || Encoding(5).BytesPerLED() != 0 {
		t.Error("unknown encoding treated as valid")
	}
}
