// Package player provides the timing loop that repeatedly draws an animation
// to a display, waiting the animations frame delay between frames.
package player

import (
	"bytes"
	"time"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	logxi "github.com/mgutz/logxi/v1"

	"github.com/TeamNorCal/ledanim"
	"github.com/TeamNorCal/ledanim/assets"
	"github.com/TeamNorCal/ledanim/model"
)

var (
	logger = logxi.New("player")
)

// MinDelay is used in place of frame delays shorter than it, including
// animations with no delay at all
const MinDelay = time.Millisecond

// Player owns a single animation and the state needed to play it
type Player struct {
	anim *ledanim.Animation
	name string
	hash []byte // Fingerprint of the entry and stream last loaded
}

// New creates a player, the options are applied to the animation it owns
func New(opts ...ledanim.Option) (p *Player) {
	return &Player{
		anim: ledanim.New(opts...),
	}
}

// Animation gives access to the animation being played, for example to seek
func (p *Player) Animation() *ledanim.Animation {
	return p.anim
}

// Load prepares the animation described by entry, using the stream data.
// Reloading the animation that is already loaded rewinds it rather than
// initializing it again
func (p *Player) Load(entry *model.Entry, data []byte) (err errors.Error) {
	keyed := *entry
	keyed.Checksum = assets.Checksum(data)
	hash := keyed.Hash()

	if p.hash != nil && bytes.Equal(hash, p.hash) {
		logger.Debug("animation already loaded, rewinding", "name", entry.Name)
		p.anim.Reset()
		return nil
	}

	p.hash = nil
	p.name = ""

	cfg, err := entry.Config()
	if err != nil {
		return err
	}
	if err = p.anim.InitConfig(cfg, data); err != nil {
		return err.With("name", entry.Name)
	}

	p.hash = hash
	p.name = entry.Name
	logger.Debug("animation loaded", "name", entry.Name, "encoding", cfg.Encoding.String(), "frames", cfg.FrameCount)
	return nil
}

// Run draws the animation to sink until it has been played loops times, or
// forever when loops is 0, or until quitC is closed.  Errors are offered to
// errorC briefly, when they cannot be delivered they are logged
func (p *Player) Run(sink ledanim.Sink, loops uint64, errorC chan<- errors.Error, quitC <-chan struct{}) {

	if p.anim.FrameCount() == 0 {
		p.report(errors.New("no animation loaded").With("stack", stack.Trace().TrimRuntime()), errorC)
		return
	}

	delay := p.anim.Delay()
	if delay < MinDelay {
		delay = MinDelay
	}
	tick := time.NewTicker(delay)
	defer tick.Stop()

	startLoops := p.anim.Loops()

	for {
		if err := p.anim.Draw(sink); err != nil {
			p.report(err.With("name", p.name), errorC)
		}

		if loops != 0 && p.anim.Loops()-startLoops >= loops {
			return
		}

		select {
		case <-tick.C:
		case <-quitC:
			return
		}
	}
}

func (p *Player) report(err errors.Error, errorC chan<- errors.Error) {
	select {
	case errorC <- err:
	case <-time.After(20 * time.Millisecond):
		logger.Warn(err.Error())
	}
}
