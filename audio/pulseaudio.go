//go:build pulseaudio
// +build pulseaudio

package audio

import (
	"bytes"
	"encoding/binary"
	"sync"

	"fmsynth/logger"

	pulse "github.com/mesilliac/pulse-simple"
)

// Register the backend
func init() {
	backends["pulse"] = func(c Configurer) (Sink, error) {
		return NewPulse(c)
	}
}

// Plays scheduled buffers on a pulseaudio playback stream
type Pulse struct {
	spec     pulse.SampleSpec
	stream   *pulse.Stream
	sched    *scheduler
	stopOnce *sync.Once
}

// Opens the playback stream and starts the scheduler goroutine
func (p *Pulse) Start() error {
	logger.Debug("open pulseaudio stream")
	stream, err := pulse.Playback("fmsynth", "fmsynth", &p.spec)
	if err != nil {
		logger.WithError(err).Error("failed to open pulseaudio stream")
		return ErrDeviceUnavailable
	}
	p.stream = stream
	p.sched.start(p.write)
	routeChanged("pulse", RouteOpened)
	return nil
}

// Writes one scheduled buffer to the stream
func (p *Pulse) write(samples []int16) error {
	buf := new(bytes.Buffer)
	for _, s := range samples {
		_ = binary.Write(buf, binary.LittleEndian, s)
	}
	_, err := p.stream.Write(buf.Bytes())
	return err
}

// Whether the sink is accepting buffers
func (p *Pulse) IsPlaying() bool {
	return p.sched.isPlaying()
}

// Queue a filled buffer for playback, onComplete fires once the
// stream has consumed it
func (p *Pulse) ScheduleBuffer(b *Buffer, onComplete func()) error {
	return p.sched.schedule(b, onComplete)
}

// Stop the stream, outstanding completion callbacks fire before
// this returns. Safe to call more than once.
func (p *Pulse) Stop() error {
	p.stopOnce.Do(func() {
		logger.Debug("stop pulseaudio stream")
		defer logger.Info("stopped pulseaudio stream")
		p.sched.stop()
		if p.stream != nil {
			defer p.stream.Free()
			defer p.stream.Drain()
		}
		routeChanged("pulse", RouteClosed)
	})
	return nil
}

// Construct a new pulseaudio sink
func NewPulse(c Configurer) (*Pulse, error) {
	return &Pulse{
		spec: pulse.SampleSpec{
			pulse.SAMPLE_S16LE,
			uint32(c.SampleRate()),
			uint8(c.Channels()),
		},
		sched:    newScheduler(),
		stopOnce: &sync.Once{},
	}, nil
}
