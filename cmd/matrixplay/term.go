package main

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	"github.com/TeamNorCal/ledanim/model"
)

var (
	errV io.Writer = os.Stderr
)

// termSink draws frames as rows of 24 bit color cells on a terminal, two
// character cells per LED
type termSink struct {
	out    io.Writer
	width  int
	frame  *model.Frame
	buf    bytes.Buffer
	redraw bool
}

func newTermSink(out io.Writer, ledCount int, width int) (sink *termSink) {
	if width < 1 {
		width = 1
	}
	return &termSink{
		out:   out,
		width: width,
		frame: model.NewFrame(ledCount),
	}
}

func (sink *termSink) SetPixel(index int, c color.RGBA) {
	sink.frame.SetPixel(index, c)
}

func (sink *termSink) Show() error {
	if errGo := sink.frame.Show(); errGo != nil {
		return errors.Wrap(errGo).With("stack", stack.Trace().TrimRuntime())
	}

	sink.buf.Reset()
	if !sink.redraw {
		// Clear once, later frames overwrite the first in place
		sink.buf.WriteString("\x1b[2J")
		sink.redraw = true
	}
	sink.buf.WriteString("\x1b[H")
	for i, c := range sink.frame.Shown {
		fmt.Fprintf(&sink.buf, "\x1b[48;2;%d;%d;%dm  ", c.R, c.G, c.B)
		if (i+1)%sink.width == 0 || i == len(sink.frame.Shown)-1 {
			sink.buf.WriteString("\x1b[0m\n")
		}
	}

	if _, errGo := sink.out.Write(sink.buf.Bytes()); errGo != nil {
		return errors.Wrap(errGo).With("stack", stack.Trace().TrimRuntime())
	}
	return nil
}

// msgWatch prints errors until errorC is closed, those already buffered when
// it closes are still printed
func msgWatch(errorC <-chan errors.Error) {
	for err := range errorC {
		if errV != nil && err != nil {
			fmt.Fprintln(errV, err.Error())
		}
	}
}
