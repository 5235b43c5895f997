package ledanim

import (
	"image/color"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"
)

// Fanout relays frames to a number of sinks, for example a fadecandy board and
// a terminal preview of the same animation
type Fanout []Sink

// SetPixel sets the pixel on every sink
func (sinks Fanout) SetPixel(index int, c color.RGBA) {
	for _, sink := range sinks {
		sink.SetPixel(index, c)
	}
}

// Show presents the frame on every sink, including those following one that
// failed.  The first failure is returned
func (sinks Fanout) Show() error {
	var first errors.Error
	for i, sink := range sinks {
		if errGo := sink.Show(); errGo != nil && first == nil {
			first = errors.Wrap(errGo).With("sink", i).With("stack", stack.Trace().TrimRuntime())
		}
	}
	if first == nil {
		return nil
	}
	return first
}
