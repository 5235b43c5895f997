package model

// This module defines an in memory display that animations can be drawn into,
// used when previewing animations and when checking decoded output

import (
	"image/color"
)

// Frame is a display held entirely in memory.  Pixels is the working buffer
// being drawn into, Shown is a copy of the buffer as it was at the last Show
type Frame struct {
	Pixels []color.RGBA
	Shown  []color.RGBA
	Shows  int
}

// NewFrame creates a display of ledCount pixels, all black
func NewFrame(ledCount int) (frame *Frame) {
	return &Frame{
		Pixels: make([]color.RGBA, ledCount),
		Shown:  make([]color.RGBA, ledCount),
	}
}

// SetPixel ignores indexes outside of the display
func (frame *Frame) SetPixel(index int, c color.RGBA) {
	if index < 0 || index >= len(frame.Pixels) {
		return
	}
	frame.Pixels[index] = c
}

func (frame *Frame) Show() error {
	copy(frame.Shown, frame.Pixels)
	frame.Shows++
	return nil
}

// Snapshot returns a copy of the last shown frame
func (frame *Frame) Snapshot() (pixels []color.RGBA) {
	pixels = make([]color.RGBA, len(frame.Shown))
	copy(pixels, frame.Shown)
	return pixels
}
