package pipeline

import "fmsynth/audio"

// A fixed pool of reusable audio buffers and a cursor over them.
// The cursor is only ever touched by the production loop goroutine;
// slot reuse safety comes from the gate's permit accounting, not
// from any per slot locking.
type Pool struct {
	slots  []*audio.Buffer
	cursor int
}

// Number of slots in the pool
func (p *Pool) Size() int {
	return len(p.slots)
}

// The slot the cursor currently points at
func (p *Pool) Current() *audio.Buffer {
	return p.slots[p.cursor]
}

// Current cursor position
func (p *Pool) Cursor() int {
	return p.cursor
}

// The slot at a fixed index
func (p *Pool) Slot(i int) *audio.Buffer {
	return p.slots[i]
}

// Move the cursor to the next slot, wrapping at the pool size. Only
// called after the current slot has been handed to the sink.
func (p *Pool) Advance() {
	p.cursor = (p.cursor + 1) % len(p.slots)
}

// Construct a pool of count buffers of the given shape
func NewPool(count, frames, channels int) *Pool {
	slots := make([]*audio.Buffer, count)
	for i := range slots {
		slots[i] = audio.NewBuffer(frames, channels)
	}
	return &Pool{slots: slots}
}
