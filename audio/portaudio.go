// Port Audio Sink

//go:build cgo
// +build cgo

package audio

import (
	"sync"

	"fmsynth/logger"

	"github.com/gordonklaus/portaudio"
)

// Register the backend
func init() {
	backends["portaudio"] = func(c Configurer) (Sink, error) {
		return NewPortAudio(c)
	}
}

// Plays scheduled buffers on the default portaudio output device
type PortAudio struct {
	// Portaudio
	params portaudio.StreamParameters
	stream *portaudio.Stream
	frames []int16 // Device side frame buffer
	// Orchestration
	sched    *scheduler
	stopOnce *sync.Once
}

// Opens and starts the output stream and the scheduler goroutine
func (pa *PortAudio) Start() error {
	logger.Debug("open portaudio stream")
	stream, err := portaudio.OpenStream(pa.params, &pa.frames)
	if err != nil {
		logger.WithError(err).Error("failed to open portaudio stream")
		return ErrDeviceUnavailable
	}
	if err := stream.Start(); err != nil {
		logger.WithError(err).Error("failed to start portaudio stream")
		stream.Close()
		return ErrDeviceUnavailable
	}
	pa.stream = stream
	pa.sched.start(pa.write)
	routeChanged("portaudio", RouteOpened)
	return nil
}

// Writes one scheduled buffer to the device, padding the device
// frame buffer with silence when the buffer is short
func (pa *PortAudio) write(samples []int16) error {
	n := copy(pa.frames, samples)
	for i := n; i < len(pa.frames); i++ {
		pa.frames[i] = 0
	}
	return pa.stream.Write()
}

// Whether the sink is accepting buffers
func (pa *PortAudio) IsPlaying() bool {
	return pa.sched.isPlaying()
}

// Queue a filled buffer for playback, onComplete fires once the
// device has consumed it
func (pa *PortAudio) ScheduleBuffer(b *Buffer, onComplete func()) error {
	return pa.sched.schedule(b, onComplete)
}

// Stop the stream, outstanding completion callbacks fire before
// this returns. Safe to call more than once.
func (pa *PortAudio) Stop() error {
	pa.stopOnce.Do(func() {
		logger.Debug("stop portaudio stream")
		defer logger.Info("stopped portaudio stream")
		pa.sched.stop()
		if pa.stream != nil {
			if err := pa.stream.Stop(); err != nil {
				logger.WithError(err).Warn("portaudio stream stop error")
			}
			pa.stream.Close()
		}
		portaudio.Terminate()
		routeChanged("portaudio", RouteClosed)
	})
	return nil
}

// Construct a new port audio sink
func NewPortAudio(c Configurer) (*PortAudio, error) {
	portaudio.Initialize()
	host, err := portaudio.DefaultHostApi()
	if err != nil {
		return nil, ErrDeviceUnavailable
	}
	device := host.DefaultOutputDevice
	params := portaudio.HighLatencyParameters(nil, device)
	params.Output.Channels = c.Channels()
	params.SampleRate = float64(c.SampleRate())
	params.FramesPerBuffer = c.FramesPerBuffer()
	pa := &PortAudio{
		params:   params,
		frames:   make([]int16, c.FramesPerBuffer()*c.Channels()),
		sched:    newScheduler(),
		stopOnce: &sync.Once{},
	}
	return pa, nil
}
