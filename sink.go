package ledanim

import (
	"image/color"
)

// Sink is the display an animation draws into.  Each Draw sets the color of
// every LED in the animation, in index order, and then calls Show once to
// present the frame
type Sink interface {
	SetPixel(index int, c color.RGBA)
	Show() error
}
