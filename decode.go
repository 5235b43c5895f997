package ledanim

// This file contains the five frame decoders, one per encoding.
//
// The uncompressed RGB forms are copied straight through to a sink.  The run
// length and palette forms are expanded into the animations scratch buffer
// first, the animation then pushes that buffer to the sink

import (
	"image/color"

	"github.com/karlmutch/errors"
)

// frameDecoder is implemented only by the decoders in this file, one per
// Encoding, and is selected once when an animation is initialized
type frameDecoder interface {
	// skipRecord moves r past one frame record without decoding it
	skipRecord(r *streamReader, ledCount int) (overshoot int, err errors.Error)
}

// directDecoder is a frameDecoder whose records are written to the sink as
// they are read
type directDecoder interface {
	frameDecoder
	emit(r *streamReader, ledCount int, sink Sink) errors.Error
}

// expandingDecoder is a frameDecoder whose records are expanded into a scratch
// buffer of ledCount pixels
type expandingDecoder interface {
	frameDecoder
	expand(r *streamReader, palette *Palette, scratch []color.RGBA) (overshoot int, err errors.Error)
}

func decoderFor(enc Encoding) frameDecoder {
	switch enc {
	case RGB24:
		return rgb24Decoder{}
	case RGB565:
		return rgb565Decoder{}
	case RGB565RLE:
		return rgb565RLEDecoder{}
	case Indexed:
		return indexedDecoder{}
	case IndexedRLE:
		return indexedRLEDecoder{}
	}
	return nil
}

// fixedRecord skips a record of a known size, used by the uncompressed forms
func fixedRecord(r *streamReader, ledCount int, enc Encoding) (overshoot int, err errors.Error) {
	return 0, r.skip(ledCount * enc.BytesPerLED())
}

type rgb24Decoder struct{}

func (rgb24Decoder) skipRecord(r *streamReader, ledCount int) (int, errors.Error) {
	return fixedRecord(r, ledCount, RGB24)
}

func (rgb24Decoder) emit(r *streamReader, ledCount int, sink Sink) errors.Error {
	record, err := r.next(ledCount * 3)
	if err != nil {
		return err
	}
	for led := 0; led < ledCount; led++ {
		sink.SetPixel(led, color.RGBA{R: record[led*3], G: record[led*3+1], B: record[led*3+2], A: 0xFF})
	}
	return nil
}

type rgb565Decoder struct{}

func (rgb565Decoder) skipRecord(r *streamReader, ledCount int) (int, errors.Error) {
	return fixedRecord(r, ledCount, RGB565)
}

func (rgb565Decoder) emit(r *streamReader, ledCount int, sink Sink) errors.Error {
	record, err := r.next(ledCount * 2)
	if err != nil {
		return err
	}
	for led := 0; led < ledCount; led++ {
		sink.SetPixel(led, UnpackRGB565(uint16(record[led*2])|uint16(record[led*2+1])<<8))
	}
	return nil
}

type indexedDecoder struct{}

func (indexedDecoder) skipRecord(r *streamReader, ledCount int) (int, errors.Error) {
	return fixedRecord(r, ledCount, Indexed)
}

func (indexedDecoder) expand(r *streamReader, palette *Palette, scratch []color.RGBA) (int, errors.Error) {
	record, err := r.next(len(scratch))
	if err != nil {
		return 0, err
	}
	for led, idx := range record {
		scratch[led] = palette.Color(idx)
	}
	return 0, nil
}

type rgb565RLEDecoder struct{}

func (rgb565RLEDecoder) skipRecord(r *streamReader, ledCount int) (int, errors.Error) {
	return skipRuns(r, ledCount, 2)
}

func (rgb565RLEDecoder) expand(r *streamReader, _ *Palette, scratch []color.RGBA) (int, errors.Error) {
	return expandRuns(r, scratch, func(r *streamReader) (color.RGBA, errors.Error) {
		v, err := r.readUint16()
		return UnpackRGB565(v), err
	})
}

type indexedRLEDecoder struct{}

func (indexedRLEDecoder) skipRecord(r *streamReader, ledCount int) (int, errors.Error) {
	return skipRuns(r, ledCount, 1)
}

func (indexedRLEDecoder) expand(r *streamReader, palette *Palette, scratch []color.RGBA) (int, errors.Error) {
	return expandRuns(r, scratch, func(r *streamReader) (color.RGBA, errors.Error) {
		idx, err := r.readByte()
		return palette.Color(idx), err
	})
}

// expandRuns consumes (run length, color) pairs until the scratch buffer has
// been filled. A run reaching past the end of the buffer is clamped, the
// pixels it would have written past the end are returned as the overshoot
func expandRuns(r *streamReader, scratch []color.RGBA, readColor func(r *streamReader) (color.RGBA, errors.Error)) (overshoot int, err errors.Error) {
	written := 0
	for written < len(scratch) {
		run, err := r.readByte()
		if err != nil {
			return 0, err.With("led", written)
		}
		c, err := readColor(r)
		if err != nil {
			return 0, err.With("led", written)
		}

		n := int(run)
		if written+n > len(scratch) {
			overshoot = written + n - len(scratch)
			n = len(scratch) - written
		}
		fill := scratch[written : written+n]
		for i := range fill {
			fill[i] = c
		}
		written += n
	}
	return overshoot, nil
}

// skipRuns walks the same pairs as expandRuns without producing any pixels
func skipRuns(r *streamReader, ledCount int, colorSize int) (overshoot int, err errors.Error) {
	written := 0
	for written < ledCount {
		run, err := r.readByte()
		if err != nil {
			return 0, err.With("led", written)
		}
		if err = r.skip(colorSize); err != nil {
			return 0, err.With("led", written)
		}
		written += int(run)
	}
	if written > ledCount {
		overshoot = written - ledCount
	}
	return overshoot, nil
}
