// Oto Sink
//
// Unlike the push model backends oto pulls PCM from an io.Reader on
// its own goroutine, so scheduled buffers are queued on a reader and
// completion callbacks fire as the player consumes them.

//go:build cgo
// +build cgo

package audio

import (
	"io"
	"sync"
	"sync/atomic"

	"fmsynth/logger"

	"github.com/ebitengine/oto/v3"
)

// Register the backend
func init() {
	backends["oto"] = func(c Configurer) (Sink, error) {
		return NewOto(c)
	}
}

// An io.Reader feeding the oto player from the scheduled buffer
// queue. Produces silence while no buffer is queued so the player
// never starves.
type otoReader struct {
	lock   *sync.Mutex
	queue  []handoff
	offset int // Byte offset into the head buffer
	closed bool
}

// Append a scheduled buffer to the queue
func (r *otoReader) schedule(b *Buffer, onComplete func()) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.closed {
		return ErrHandoffRejected
	}
	r.queue = append(r.queue, handoff{b, onComplete})
	return nil
}

// Fire completion callbacks for everything still queued and refuse
// further scheduling
func (r *otoReader) close() {
	r.lock.Lock()
	queue := r.queue
	r.queue = nil
	r.offset = 0
	r.closed = true
	r.lock.Unlock()
	for _, h := range queue {
		h.onComplete()
	}
}

// Copy queued samples to the player as little endian 16bit PCM,
// padding with silence when the queue runs dry
func (r *otoReader) Read(p []byte) (int, error) {
	r.lock.Lock()
	n := 0
	for len(r.queue) > 0 && n < len(p) {
		h := r.queue[0]
		samples := h.buffer.Valid()
		for n < len(p) && r.offset < len(samples)*2 {
			s := samples[r.offset/2]
			if r.offset%2 == 0 {
				p[n] = byte(s)
			} else {
				p[n] = byte(s >> 8)
			}
			n++
			r.offset++
		}
		if r.offset == len(samples)*2 {
			// Head buffer fully consumed, release it
			r.queue = r.queue[1:]
			r.offset = 0
			r.lock.Unlock()
			h.onComplete()
			r.lock.Lock()
		}
	}
	closed := r.closed
	r.lock.Unlock()
	if closed {
		return n, io.EOF
	}
	// Silence while the producer is behind
	for ; n < len(p); n++ {
		p[n] = 0
	}
	return n, nil
}

// Plays scheduled buffers through an oto player
type Oto struct {
	context  *oto.Context
	player   *oto.Player
	reader   *otoReader
	playing  int32
	stopOnce *sync.Once
}

// Starts the oto player reading from the scheduled buffer queue
func (o *Oto) Start() error {
	logger.Debug("start oto player")
	o.player = o.context.NewPlayer(o.reader)
	o.player.Play()
	atomic.StoreInt32(&o.playing, 1)
	routeChanged("oto", RouteOpened)
	return nil
}

// Whether the sink is accepting buffers
func (o *Oto) IsPlaying() bool {
	return atomic.LoadInt32(&o.playing) == 1
}

// Queue a filled buffer for playback, onComplete fires once the
// player has consumed it
func (o *Oto) ScheduleBuffer(b *Buffer, onComplete func()) error {
	if !o.IsPlaying() {
		return ErrHandoffRejected
	}
	return o.reader.schedule(b, onComplete)
}

// Stop the player, outstanding completion callbacks fire before
// this returns. Safe to call more than once.
func (o *Oto) Stop() error {
	o.stopOnce.Do(func() {
		logger.Debug("stop oto player")
		defer logger.Info("stopped oto player")
		atomic.StoreInt32(&o.playing, 0)
		o.reader.close()
		if o.player != nil {
			if err := o.player.Close(); err != nil {
				logger.WithError(err).Warn("oto player close error")
			}
		}
		routeChanged("oto", RouteClosed)
	})
	return nil
}

// Construct a new oto sink
func NewOto(c Configurer) (*Oto, error) {
	context, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   c.SampleRate(),
		ChannelCount: c.Channels(),
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		logger.WithError(err).Error("failed to create oto context")
		return nil, ErrDeviceUnavailable
	}
	<-ready
	return &Oto{
		context:  context,
		reader:   &otoReader{lock: &sync.Mutex{}},
		stopOnce: &sync.Once{},
	}, nil
}
