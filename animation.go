package ledanim

// This file contains the animation controller.
//
// An animation is initialized with a borrowed, read-only byte stream holding
// a header (for the palette encodings) followed by one record per frame.  Each
// call to Draw decodes the record under the cursor, pushes a complete frame to
// a sink and then moves the cursor to the next record, wrapping back to the
// first frame once all of them have been played.  Timing between frames is
// left to the caller, see the player package

import (
	"image/color"
	"time"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	logxi "github.com/mgutz/logxi/v1"
)

var (
	logger = logxi.New("ledanim")
)

// Config holds the values supplied when an animation is initialized, they
// remain fixed until the next Init
type Config struct {
	LEDCount   uint16   // Number of LEDs in the matrix
	FrameCount uint16   // Number of frames in this animation
	FrameDelay uint16   // Milliseconds to wait between frames
	Encoding   Encoding // Layout of the frame records
}

// Delay is the FrameDelay as a duration
func (cfg Config) Delay() time.Duration {
	return time.Duration(cfg.FrameDelay) * time.Millisecond
}

func (cfg Config) validate(paletteSupport bool) (err errors.Error) {
	switch {
	case cfg.LEDCount == 0:
		err = errors.New("LED count must be greater than zero")
	case cfg.FrameCount == 0:
		err = errors.New("frame count must be greater than zero")
	case !cfg.Encoding.Valid():
		err = errors.New("unknown encoding")
	case cfg.Encoding.Paletted() && !paletteSupport:
		err = errors.New("palette encodings are not enabled for this animation")
	default:
		return nil
	}
	return err.With("config", cfg).With("stack", stack.Trace().TrimRuntime())
}

// Option adjusts the capabilities of an Animation when it is created
type Option func(*Animation)

// WithPaletteSupport controls whether the Indexed and IndexedRLE encodings are
// accepted by Init, they are accepted by default
func WithPaletteSupport(enabled bool) Option {
	return func(a *Animation) {
		a.paletteSupport = enabled
	}
}

// Animation plays an encoded animation, one frame per Draw.  It is not safe
// for use by multiple goroutines at the same time
type Animation struct {
	cfg            Config
	paletteSupport bool
	initialized    bool

	data      []byte // Borrowed from the caller, never modified
	dataStart int    // Offset of the first frame record, past any header

	palette Palette
	decoder frameDecoder
	offsets []int // Start of each frame record, run length encodings only
	cursor  cursor

	// scratch holds the most recently expanded frame for the run length and
	// palette encodings, its contents are overwritten by the next frame
	scratch       []color.RGBA
	warm          bool // scratch holds the frame under the cursor
	warmEnd       int  // Position following the record held in scratch
	warmOvershoot int  // LEDs dropped from the record held in scratch
}

// New creates an animation that has not yet been initialized, Init must be
// called before the animation can be drawn
func New(opts ...Option) (a *Animation) {
	a = &Animation{
		paletteSupport: true,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewAnimation creates and initializes an animation
func NewAnimation(frameCount uint16, data []byte, encoding Encoding, ledCount uint16, frameDelay uint16, opts ...Option) (a *Animation, err errors.Error) {
	a = New(opts...)
	if err = a.Init(frameCount, data, encoding, ledCount, frameDelay); err != nil {
		return nil, err
	}
	return a, nil
}

// Init replaces the animation being played with a new one.
//
// frameData is the encoded stream, its format depends upon the encoding.  The
// slice is retained, without copying, until the next Init and must not be
// modified by the caller during that time
func (a *Animation) Init(frameCount uint16, frameData []byte, encoding Encoding, ledCount uint16, frameDelay uint16) (err errors.Error) {
	return a.InitConfig(Config{
		LEDCount:   ledCount,
		FrameCount: frameCount,
		FrameDelay: frameDelay,
		Encoding:   encoding,
	}, frameData)
}

// InitConfig is Init taking the values as a Config.  On failure the animation
// is left uninitialized, nothing of any prior animation is retained
func (a *Animation) InitConfig(cfg Config, frameData []byte) (err errors.Error) {

	scratch := a.scratch
	*a = Animation{
		paletteSupport: a.paletteSupport,
	}

	if err = cfg.validate(a.paletteSupport); err != nil {
		return err
	}

	r := newStreamReader(frameData, 0)
	palette := Palette{}
	if cfg.Encoding.Paletted() {
		if err = palette.loadColorTable(r); err != nil {
			return err.With("encoding", cfg.Encoding.String())
		}
	}

	decoder := decoderFor(cfg.Encoding)
	offsets, overshoots, err := scanRecords(decoder, cfg, frameData, r.pos)
	if err != nil {
		return err.With("encoding", cfg.Encoding.String())
	}

	if cfg.Encoding.Expanded() {
		if cap(scratch) >= int(cfg.LEDCount) {
			scratch = scratch[:cfg.LEDCount]
			for i := range scratch {
				scratch[i] = color.RGBA{}
			}
		} else {
			scratch = make([]color.RGBA, cfg.LEDCount)
		}
	} else {
		scratch = nil
	}

	a.cfg = cfg
	a.data = frameData
	a.dataStart = r.pos
	a.palette = palette
	a.decoder = decoder
	a.offsets = offsets
	a.scratch = scratch
	a.initialized = true

	a.Reset()

	logger.Debug("animation initialized", "encoding", cfg.Encoding.String(), "leds", cfg.LEDCount,
		"frames", cfg.FrameCount, "delay", cfg.FrameDelay, "palette", a.palette.Len(), "dataStart", a.dataStart)
	if overshoots != 0 {
		logger.Warn("animation contains frames whose runs overshoot the LED count",
			"encoding", cfg.Encoding.String(), "frames", overshoots)
	}
	return nil
}

// scanRecords checks that the stream holds frameCount complete records.  For
// the run length encodings it also returns where each record starts, so that
// frames can be sought directly
func scanRecords(decoder frameDecoder, cfg Config, data []byte, start int) (offsets []int, overshoots int, err errors.Error) {
	r := newStreamReader(data, start)

	if !cfg.Encoding.RunLength() {
		// Sized in int64 as the largest streams overflow a 32 bit int
		size := int64(cfg.FrameCount) * int64(cfg.LEDCount) * int64(cfg.Encoding.BytesPerLED())
		if size > int64(r.remaining()) {
			return nil, 0, errors.New("animation stream truncated").
				With("frames", cfg.FrameCount).
				With("leds", cfg.LEDCount).
				With("wanted", size).
				With("available", r.remaining()).
				With("stack", stack.Trace().TrimRuntime())
		}
		if err = r.skip(int(size)); err != nil {
			return nil, 0, err.With("frames", cfg.FrameCount)
		}
		return nil, 0, nil
	}

	offsets = make([]int, cfg.FrameCount)
	for frame := range offsets {
		offsets[frame] = r.pos
		overshoot, err := decoder.skipRecord(r, int(cfg.LEDCount))
		if err != nil {
			return nil, 0, err.With("frame", frame)
		}
		if overshoot != 0 {
			overshoots++
		}
	}
	return offsets, overshoots, nil
}

// Reset rewinds the animation to its first frame
func (a *Animation) Reset() {
	a.cursor.rewind(a.dataStart)
	a.warm = false
}

func (a *Animation) notInitialized() errors.Error {
	return errors.New("animation has not been initialized").With("stack", stack.Trace().TrimRuntime())
}

// Draw decodes the current frame into sink, then moves on to the next frame.
//
// Frames whose runs extend past the LED count are clamped, drawn and the
// animation advanced, the returned error reports the discarded pixels.  If the
// sink fails to show the frame the animation is not advanced and the same
// frame will be drawn again by the next call
func (a *Animation) Draw(sink Sink) (err errors.Error) {
	if !a.initialized {
		return a.notInitialized()
	}

	frame := a.cursor.index
	next := a.cursor.pos
	overshoot := 0

	switch decoder := a.decoder.(type) {
	case directDecoder:
		r := newStreamReader(a.data, a.cursor.pos)
		if err = decoder.emit(r, int(a.cfg.LEDCount), sink); err != nil {
			return err.With("frame", frame)
		}
		next = r.pos
	case expandingDecoder:
		if err = a.decompress(decoder); err != nil {
			return err
		}
		for led, c := range a.scratch {
			sink.SetPixel(led, c)
		}
		next = a.warmEnd
		overshoot = a.warmOvershoot
	}

	if errGo := sink.Show(); errGo != nil {
		return errors.Wrap(errGo).With("frame", frame).With("stack", stack.Trace().TrimRuntime())
	}

	a.warm = false
	a.cursor.advance(next, a.cfg.FrameCount, a.dataStart)

	if overshoot != 0 {
		err = a.overshot(frame, overshoot)
		logger.Warn(err.Error())
		return err
	}
	return nil
}

func (a *Animation) overshot(frame uint16, overshoot int) errors.Error {
	return errors.New("frame runs overshoot the LED count, excess pixels dropped").
		With("frame", frame).
		With("dropped", overshoot).
		With("leds", a.cfg.LEDCount).
		With("stack", stack.Trace().TrimRuntime())
}

// Decompress expands the current frame into the scratch buffer ahead of the
// Draw that will display it.  The encodings that are copied directly to the
// sink have nothing to prepare
func (a *Animation) Decompress() (err errors.Error) {
	if !a.initialized {
		return a.notInitialized()
	}
	decoder, isExpanding := a.decoder.(expandingDecoder)
	if !isExpanding {
		return nil
	}
	if err = a.decompress(decoder); err != nil {
		return err
	}
	if a.warmOvershoot != 0 {
		return a.overshot(a.cursor.index, a.warmOvershoot)
	}
	return nil
}

func (a *Animation) decompress(decoder expandingDecoder) (err errors.Error) {
	if a.warm {
		return nil
	}
	r := newStreamReader(a.data, a.cursor.pos)
	overshoot, err := decoder.expand(r, &a.palette, a.scratch)
	if err != nil {
		return err.With("frame", a.cursor.index)
	}
	a.warm = true
	a.warmEnd = r.pos
	a.warmOvershoot = overshoot
	return nil
}

// SetFrameIndex moves the animation to the given frame, which will be the
// next one drawn.  Indexes outside the animation are rejected
func (a *Animation) SetFrameIndex(frameIndex uint16) (err errors.Error) {
	if !a.initialized {
		return a.notInitialized()
	}
	if frameIndex >= a.cfg.FrameCount {
		return errors.New("frame index out of range").
			With("frame", frameIndex).
			With("frames", a.cfg.FrameCount).
			With("stack", stack.Trace().TrimRuntime())
	}
	a.cursor.seek(frameIndex, a.frameOffset(frameIndex))
	a.warm = false
	return nil
}

func (a *Animation) frameOffset(frameIndex uint16) int {
	if a.offsets != nil {
		return a.offsets[frameIndex]
	}
	return a.dataStart + int(frameIndex)*int(a.cfg.LEDCount)*a.cfg.Encoding.BytesPerLED()
}

func (a *Animation) LEDCount() uint16   { return a.cfg.LEDCount }
func (a *Animation) FrameCount() uint16 { return a.cfg.FrameCount }
func (a *Animation) FrameDelay() uint16 { return a.cfg.FrameDelay }
func (a *Animation) FrameIndex() uint16 { return a.cursor.index }
func (a *Animation) Encoding() Encoding { return a.cfg.Encoding }
func (a *Animation) Config() Config     { return a.cfg }

// Delay is the time the caller should wait between calls to Draw
func (a *Animation) Delay() time.Duration { return a.cfg.Delay() }

// Position is the offset within the stream of the next record to be decoded
func (a *Animation) Position() int { return a.cursor.pos }

// DataStart is the offset of the first frame record, following any header
func (a *Animation) DataStart() int { return a.dataStart }

// Wrapped reports whether the last Draw played the final frame and returned
// the animation to its start
func (a *Animation) Wrapped() bool { return a.cursor.wrapped }

// Loops is the number of times the animation has been played through since it
// was initialized or reset
func (a *Animation) Loops() uint64 { return a.cursor.loops }

// Palette is the color table loaded from the stream header, empty for the non
// palette encodings
func (a *Animation) Palette() *Palette { return &a.palette }

// Scratch returns the buffer holding the most recently expanded frame.  The
// contents are replaced as later frames are decoded and should be copied if
// they need to be kept
func (a *Animation) Scratch() []color.RGBA { return a.scratch }
