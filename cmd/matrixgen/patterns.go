package main

// This file contains the generators for the demonstration animations.  Each
// generator quantizes its colors to a small number of levels so that every
// pattern can also be stored using the palette encodings

import (
	"image/color"
	"math"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	"github.com/lucasb-eyer/go-colorful"
)

const levels = 64

type generator func(ledCount int, frameCount int) [][]color.RGBA

var generators = map[string]generator{
	"rainbow": rainbow,
	"enl":     gradient("#0A3306", "#36FF1F"), // Enlightened green
	"res":     gradient("#00066B", "#000FFF"), // Resistance blue
}

func rgba(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

func makeFrames(ledCount int, frameCount int) (frames [][]color.RGBA) {
	frames = make([][]color.RGBA, frameCount)
	for i := range frames {
		frames[i] = make([]color.RGBA, ledCount)
	}
	return frames
}

// rainbow scrolls a band of hues along the strand, one step per frame
func rainbow(ledCount int, frameCount int) (frames [][]color.RGBA) {
	frames = makeFrames(ledCount, frameCount)

	hues := [levels]color.RGBA{}
	for i := range hues {
		hues[i] = rgba(colorful.Hsv(float64(i)*360.0/levels, 1.0, 1.0))
	}

	for frame := range frames {
		for led := range frames[frame] {
			frames[frame][led] = hues[(led*levels/ledCount+frame)%levels]
		}
	}
	return frames
}

// gradient pulses between two colors, the pulse traveling along the strand
func gradient(from string, to string) generator {
	c1, _ := colorful.Hex(from)
	c2, _ := colorful.Hex(to)

	blend := [levels]color.RGBA{}
	for i := range blend {
		blend[i] = rgba(c1.BlendLab(c2, float64(i)/float64(levels-1)))
	}

	return func(ledCount int, frameCount int) (frames [][]color.RGBA) {
		frames = makeFrames(ledCount, frameCount)
		for frame := range frames {
			for led := range frames[frame] {
				phase := 2.0 * math.Pi * (float64(frame)/float64(frameCount) + float64(led)/float64(ledCount))
				level := int(math.Round((math.Sin(phase) + 1.0) / 2.0 * (levels - 1)))
				frames[frame][led] = blend[level]
			}
		}
		return frames
	}
}

func generate(pattern string, ledCount int, frameCount int) (frames [][]color.RGBA, err errors.Error) {
	gen, isPresent := generators[pattern]
	if !isPresent {
		return nil, errors.New("unknown pattern").With("pattern", pattern).With("stack", stack.Trace().TrimRuntime())
	}
	if ledCount < 1 || ledCount > math.MaxUint16 || frameCount < 1 || frameCount > math.MaxUint16 {
		return nil, errors.New("LED and frame counts must be between 1 and 65535").
			With("leds", ledCount).
			With("frames", frameCount).
			With("stack", stack.Trace().TrimRuntime())
	}
	return gen(ledCount, frameCount), nil
}
