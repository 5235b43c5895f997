// Package pack lays out frames of LED colors using the encodings understood by
// ledanim, producing the byte streams that an ledanim.Animation plays back.
package pack

import (
	"encoding/binary"
	"image/color"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	"github.com/TeamNorCal/ledanim"
)

const maxRun = 255

// Encode lays out frames of colors using any of the encodings.  The palette
// encodings derive their palette from the colors used within the frames
func Encode(enc ledanim.Encoding, frames [][]color.RGBA) (data []byte, err errors.Error) {
	switch enc {
	case ledanim.RGB24:
		return RGB24(frames)
	case ledanim.RGB565:
		return RGB565(frames)
	case ledanim.RGB565RLE:
		return RGB565RLE(frames)
	case ledanim.Indexed, ledanim.IndexedRLE:
		palette, indices, err := Quantize(frames)
		if err != nil {
			return nil, err
		}
		if enc == ledanim.Indexed {
			return Indexed(palette, indices)
		}
		return IndexedRLE(palette, indices)
	}
	return nil, errors.New("unknown encoding").With("encoding", enc.String()).With("stack", stack.Trace().TrimRuntime())
}

// checkFrames verifies there is at least one frame, and that every frame has
// the same, non zero, number of LEDs
func checkFrames(count int, size func(i int) int) (ledCount int, err errors.Error) {
	if count == 0 || count > 0xFFFF {
		return 0, errors.New("frame count out of range").With("frames", count).With("stack", stack.Trace().TrimRuntime())
	}
	ledCount = size(0)
	if ledCount == 0 || ledCount > 0xFFFF {
		return 0, errors.New("LED count out of range").With("leds", ledCount).With("stack", stack.Trace().TrimRuntime())
	}
	for i := 1; i < count; i++ {
		if size(i) != ledCount {
			return 0, errors.New("frames differ in size").
				With("frame", i).
				With("leds", size(i)).
				With("expected", ledCount).
				With("stack", stack.Trace().TrimRuntime())
		}
	}
	return ledCount, nil
}

func checkColors(frames [][]color.RGBA) (ledCount int, err errors.Error) {
	return checkFrames(len(frames), func(i int) int { return len(frames[i]) })
}

// RGB24 stores 3 bytes per LED
func RGB24(frames [][]color.RGBA) (data []byte, err errors.Error) {
	ledCount, err := checkColors(frames)
	if err != nil {
		return nil, err
	}
	data = make([]byte, 0, len(frames)*ledCount*3)
	for _, frame := range frames {
		for _, c := range frame {
			data = append(data, c.R, c.G, c.B)
		}
	}
	return data, nil
}

// RGB565 stores each LED as a little endian 5-6-5 value, the low bits of each
// channel are lost
func RGB565(frames [][]color.RGBA) (data []byte, err errors.Error) {
	ledCount, err := checkColors(frames)
	if err != nil {
		return nil, err
	}
	data = make([]byte, 0, len(frames)*ledCount*2)
	for _, frame := range frames {
		for _, c := range frame {
			data = binary.LittleEndian.AppendUint16(data, ledanim.PackRGB565(c))
		}
	}
	return data, nil
}

// RGB565RLE stores runs of LEDs sharing the same 5-6-5 value as a run length
// byte followed by the little endian value
func RGB565RLE(frames [][]color.RGBA) (data []byte, err errors.Error) {
	if _, err = checkColors(frames); err != nil {
		return nil, err
	}
	for _, frame := range frames {
		values := make([]uint16, len(frame))
		for i, c := range frame {
			values[i] = ledanim.PackRGB565(c)
		}
		data = appendRuns(data, values, func(data []byte, v uint16) []byte {
			return binary.LittleEndian.AppendUint16(data, v)
		})
	}
	return data, nil
}

// appendRuns splits values into runs of no more than maxRun identical values,
// writing each as a count followed by the value
func appendRuns[T comparable](data []byte, values []T, appendValue func([]byte, T) []byte) []byte {
	for start := 0; start < len(values); {
		end := start + 1
		for end < len(values) && end-start < maxRun && values[end] == values[start] {
			end++
		}
		data = append(data, byte(end-start))
		data = appendValue(data, values[start])
		start = end
	}
	return data
}
