package ledanim

// cursor tracks the frame being played and where its record starts within the
// encoded stream. pos always addresses the first byte of the record for index
type cursor struct {
	index   uint16
	pos     int
	wrapped bool   // Did the most recent advance return to frame 0
	loops   uint64 // Number of times playback has wrapped since the last rewind
}

func (c *cursor) rewind(start int) {
	*c = cursor{pos: start}
}

// seek moves to an arbitrary frame whose record begins at pos
func (c *cursor) seek(index uint16, pos int) {
	c.index = index
	c.pos = pos
	c.wrapped = false
}

// advance moves past a record ending at next, wrapping back to the start of
// the data once frameCount frames have been consumed
func (c *cursor) advance(next int, frameCount uint16, start int) {
	c.index++
	c.pos = next
	c.wrapped = false
	if c.index >= frameCount {
		c.index = 0
		c.pos = start
		c.wrapped = true
		c.loops++
	}
}
