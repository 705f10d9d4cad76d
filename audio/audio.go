package audio

import "errors"

const (
	CHANNELS          = 2
	SAMPLE_RATE       = 44100
	FRAMES_PER_BUFFER = 1024
)

var (
	// The output device or session could not be started
	ErrDeviceUnavailable = errors.New("audio device unavailable")
	// The sink refused a scheduled buffer, the caller should treat
	// the buffer as released
	ErrHandoffRejected = errors.New("buffer handoff rejected")
)

// A sink plays filled buffers on an output device. Buffers are lent
// to the sink for the duration of one play cycle; the completion
// callback passed to ScheduleBuffer is invoked exactly once per
// scheduled buffer from the sinks own goroutine, including when Stop
// is called with buffers still outstanding. Stop is idempotent and
// safe to call from any goroutine.
type Sink interface {
	Start() error
	Stop() error
	IsPlaying() bool
	ScheduleBuffer(b *Buffer, onComplete func()) error
}

// A fixed capacity buffer of interleaved sample frames. Allocated
// once per pool slot and refilled in place, never reallocated while
// playback is in progress.
type Buffer struct {
	samples  []int16 // Interleaved samples, capacity * channels
	channels int
	valid    int // Frames actually filled, <= capacity
}

// All interleaved samples backing the buffer
func (b *Buffer) Samples() []int16 {
	return b.samples
}

// Interleaved samples of the filled frames only
func (b *Buffer) Valid() []int16 {
	return b.samples[:b.valid*b.channels]
}

// Number of frames filled
func (b *Buffer) ValidFrames() int {
	return b.valid
}

// Set the number of filled frames
func (b *Buffer) SetValidFrames(n int) {
	if n > b.Capacity() {
		n = b.Capacity()
	}
	b.valid = n
}

// Frame capacity of the buffer
func (b *Buffer) Capacity() int {
	return len(b.samples) / b.channels
}

// Channels per frame
func (b *Buffer) Channels() int {
	return b.channels
}

// Construct a new buffer holding the given number of frames
func NewBuffer(frames, channels int) *Buffer {
	return &Buffer{
		samples:  make([]int16, frames*channels),
		channels: channels,
	}
}
