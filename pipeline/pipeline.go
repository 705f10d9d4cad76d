// Buffer production pipeline
//
// Keeps a playback sink continuously fed with filled buffers from a
// fixed pool while the gate bounds how many are in flight. One
// pipeline serves one voice and its production loop runs on a
// dedicated goroutine.

package pipeline

import (
	"errors"
	"sync"
	"time"

	"fmsynth/audio"
	"fmsynth/fm"
	"fmsynth/logger"
)

// The buffer pool could not be sized or allocated
var ErrAllocation = errors.New("buffer pool allocation failed")

// Headroom applied when converting unit range samples to 16bit PCM
const amplitudeScale = 0.5 * 32767

type Pipeline struct {
	pool    *Pool
	gate    *Gate
	timeout time.Duration // Bounded gate wait, zero waits forever
}

// Run the production loop until the stop channel fires, the sink
// stops playing, or a handoff fails. Each iteration acquires a
// permit, fills the cursor slot from the oscillator, hands it to the
// sink with a release callback and advances the cursor. Any permit
// held when the loop exits is released, a permit is never leaked.
func (p *Pipeline) Run(osc *fm.Oscillator, gains []float64, sink audio.Sink, stopC <-chan bool) error {
	logger.Debug("start production loop")
	defer logger.Debug("exit production loop")
	for {
		select {
		case <-stopC:
			return nil
		default:
		}
		if !sink.IsPlaying() {
			return nil
		}
		if err := p.gate.Acquire(p.timeout, stopC); err != nil {
			if err == errStopped {
				return nil
			}
			// Bounded wait expired, a stalled sink is holding
			// every permit
			logger.WithError(err).Error("gate acquire timeout, stopping production")
			return err
		}
		buf := p.pool.Current()
		p.fill(osc, gains, buf)
		release := p.releaseOnce()
		if err := sink.ScheduleBuffer(buf, release); err != nil {
			// The sink never took the buffer, release the held
			// permit ourselves and terminate cleanly
			release()
			logger.WithError(err).Warn("buffer handoff rejected, stopping production")
			return err
		}
		p.pool.Advance()
	}
}

// Fill every frame of a buffer with consecutive oscillator samples,
// duplicating the mono source across channels scaled by the per
// channel gains
func (p *Pipeline) fill(osc *fm.Oscillator, gains []float64, buf *audio.Buffer) {
	samples := buf.Samples()
	channels := buf.Channels()
	frames := buf.Capacity()
	for f := 0; f < frames; f++ {
		s := osc.Next()
		for c := 0; c < channels; c++ {
			gain := 1.0
			if c < len(gains) {
				gain = gains[c]
			}
			samples[f*channels+c] = int16(s * gain * amplitudeScale)
		}
	}
	buf.SetValidFrames(frames)
}

// A release callback for one handoff. The sink contract is exactly
// once but the wrapper guarantees a misbehaving sink cannot release
// the same permit twice.
func (p *Pipeline) releaseOnce() func() {
	once := &sync.Once{}
	return func() {
		once.Do(p.gate.Release)
	}
}

// The pipeline's buffer pool
func (p *Pipeline) Pool() *Pool {
	return p.pool
}

// The pipeline's permit gate
func (p *Pipeline) Gate() *Gate {
	return p.gate
}

// Channels per frame of the pooled buffers
func (p *Pipeline) Channels() int {
	return p.pool.slots[0].Channels()
}

// Construct a pipeline from an existing pool and gate. The pool size
// and gate capacity must agree, a mismatch means permits exist for
// slots that were never allocated.
func NewWith(pool *Pool, gate *Gate, timeout time.Duration) (*Pipeline, error) {
	if pool.Size() < 1 {
		return nil, ErrAllocation
	}
	if pool.Size() != gate.Capacity() {
		logger.WithFields(logger.F{
			"pool": pool.Size(),
			"gate": gate.Capacity(),
		}).Error("pool size and gate capacity mismatch")
		return nil, ErrAllocation
	}
	return &Pipeline{
		pool:    pool,
		gate:    gate,
		timeout: timeout,
	}, nil
}

// Construct a pipeline from configuration, allocating the pool and
// gate with the configured in flight capacity
func New(c Configurer, frames, channels int) (*Pipeline, error) {
	count := c.BufferCount()
	if count < 1 || frames < 1 || channels < 1 {
		return nil, ErrAllocation
	}
	return NewWith(NewPool(count, frames, channels), NewGate(count), c.AcquireTimeout())
}
