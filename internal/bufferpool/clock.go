package bufferpool

// clockEvictor implements allocBuf: find a frame that is valid=false
// and ready to receive a new page, evicting a victim if necessary. It
// operates directly on the manager's descriptor table and Page Index;
// it has no state of its own beyond the clock hand.
type clockEvictor struct {
	desc  []frameDescriptor
	index *pageIndex
	hand  int

	// writeBack persists bufPool[frameID]'s current bytes to the file
	// named by the victim's descriptor. Only the victim's own page is
	// written, never the rest of its file.
	writeBack func(file string, frameID int) error
}

func newClockEvictor(desc []frameDescriptor, index *pageIndex, writeBack func(file string, frameID int) error) *clockEvictor {
	return &clockEvictor{
		desc:      desc,
		index:     index,
		hand:      len(desc) - 1, // first advance lands on frame 0
		writeBack: writeBack,
	}
}

// allocBuf returns the id of a frame ready for a new occupant. On
// success the frame is invalid and unreferenced by the index; the
// clock hand is left pointing at it so the next search resumes just
// past it.
func (c *clockEvictor) allocBuf() (int, error) {
	n := len(c.desc)
	if n == 0 {
		return 0, ErrBufferExceeded
	}

	// One pass clears reference bits, a second finds an unpinned
	// victim; 2N advances is always enough for either outcome.
	for i := 0; i < 2*n; i++ {
		c.hand = (c.hand + 1) % n
		d := &c.desc[c.hand]

		switch {
		case !d.valid:
			return c.hand, nil

		case d.refbit:
			d.refbit = false

		case d.pinCnt > 0:
			// Pinned and already past its second chance: skip.

		case !d.dirty:
			c.index.remove(d.file, d.pageNo)
			d.clear()
			return c.hand, nil

		default: // pinCnt == 0 && dirty
			if err := c.writeBack(d.file, c.hand); err != nil {
				return 0, err
			}
			d.dirty = false
			c.index.remove(d.file, d.pageNo)
			d.clear()
			return c.hand, nil
		}
	}

	return 0, ErrBufferExceeded
}
