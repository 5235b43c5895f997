package ledanim

// This file contains a bounds checked reader over the borrowed, read-only
// byte stream holding an animation

import (
	"encoding/binary"
	"image/color"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"
)

type streamReader struct {
	data []byte
	pos  int
}

func newStreamReader(data []byte, pos int) *streamReader {
	return &streamReader{data: data, pos: pos}
}

func (r *streamReader) remaining() int {
	return len(r.data) - r.pos
}

func (r *streamReader) truncated(want int) errors.Error {
	return errors.New("animation stream truncated").
		With("position", r.pos).
		With("wanted", want).
		With("available", r.remaining()).
		With("stack", stack.Trace().TrimRuntime())
}

// next returns the following n bytes without copying them
func (r *streamReader) next(n int) (b []byte, err errors.Error) {
	if n < 0 || r.remaining() < n {
		return nil, r.truncated(n)
	}
	b = r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *streamReader) readByte() (b uint8, err errors.Error) {
	if r.remaining() < 1 {
		return 0, r.truncated(1)
	}
	b = r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *streamReader) readUint16() (v uint16, err errors.Error) {
	if r.remaining() < 2 {
		return 0, r.truncated(2)
	}
	v = binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *streamReader) readRGB() (c color.RGBA, err errors.Error) {
	b, err := r.next(3)
	if err != nil {
		return c, err
	}
	return color.RGBA{R: b[0], G: b[1], B: b[2], A: 0xFF}, nil
}

func (r *streamReader) skip(n int) errors.Error {
	_, err := r.next(n)
	return err
}
