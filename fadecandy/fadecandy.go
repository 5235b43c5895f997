// Package fadecandy displays animation frames on LED strands attached to a
// fadecandy board, or any other Open Pixel Control server.
package fadecandy

import (
	"image/color"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	"github.com/kellydunn/go-opc"
)

// Sender delivers OPC messages to a server, it is satisfied by *opc.Client
type Sender interface {
	Send(m *opc.Message) error
}

// Sink is an ledanim.Sink that sends each frame as a single OPC set pixel
// colors message.  A frame identical to the one last sent is not resent,
// the fadecandy continues to display it
type Sink struct {
	sender  Sender
	server  string
	channel uint8

	msg    *opc.Message
	pixels []byte // RGB copy of the message contents, used to detect change

	last    uint64
	sent    uint64
	skipped uint64
}

// MaxLEDs is the largest strand whose pixels fit within the 16 bit length
// of a single OPC message
const MaxLEDs = math.MaxUint16 / 3

// Connect opens a TCP connection to the OPC server, for example the fcserver
// process managing a fadecandy board on "localhost:7890"
func Connect(server string, channel uint8, ledCount int) (sink *Sink, err errors.Error) {
	if sink, err = NewSink(nil, channel, ledCount); err != nil {
		return nil, err.With("url", server)
	}

	oc := opc.NewClient()
	if errGo := oc.Connect("tcp", server); errGo != nil {
		return nil, errors.Wrap(errGo).With("url", server).With("stack", stack.Trace().TrimRuntime())
	}
	sink.sender = oc
	sink.server = server
	return sink, nil
}

// NewSink creates a sink for ledCount pixels on the given OPC channel, channel
// 0 is broadcast to all channels
func NewSink(sender Sender, channel uint8, ledCount int) (sink *Sink, err errors.Error) {
	if ledCount < 1 || ledCount > MaxLEDs {
		return nil, errors.New("LED count does not fit within an OPC message").
			With("leds", ledCount).
			With("limit", MaxLEDs).
			With("stack", stack.Trace().TrimRuntime())
	}
	length := uint16(ledCount * 3)

	m := opc.NewMessage(channel)
	m.SetLength(length)

	return &Sink{
		sender:  sender,
		channel: channel,
		msg:     m,
		pixels:  make([]byte, length),
	}, nil
}

// SetPixel ignores indexes outside of the strand
func (sink *Sink) SetPixel(index int, c color.RGBA) {
	if index < 0 || index*3 >= len(sink.pixels) {
		return
	}
	sink.msg.SetPixelColor(index, c.R, c.G, c.B)
	copy(sink.pixels[index*3:], []byte{c.R, c.G, c.B})
}

// Show sends the frame unless it matches the last frame sent
func (sink *Sink) Show() error {
	hash := xxhash.Sum64(sink.pixels)
	if sink.sent != 0 && hash == sink.last {
		sink.skipped++
		return nil
	}

	if errGo := sink.sender.Send(sink.msg); errGo != nil {
		return errors.Wrap(errGo).With("url", sink.server).With("channel", sink.channel).With("stack", stack.Trace().TrimRuntime())
	}
	sink.last = hash
	sink.sent++
	return nil
}

// Sent is the number of frames sent to the server
func (sink *Sink) Sent() uint64 { return sink.sent }

// Skipped is the number of frames not sent as they repeated the previous one
func (sink *Sink) Skipped() uint64 { return sink.skipped }
