package audio

import (
	"sync"
	"sync/atomic"

	"fmsynth/logger"
)

// Available sink constructors by backend name, populated by each
// backend file at init time
var backends = map[string]func(Configurer) (Sink, error){}

// A buffer lent to a sink together with its completion callback
type handoff struct {
	buffer     *Buffer
	onComplete func()
}

// Writes scheduled buffers to a device in order on a dedicated
// goroutine, invoking each completion callback exactly once after
// the device has consumed the buffer. Shared by the push model
// backends (portaudio, pulseaudio).
type scheduler struct {
	write   func([]int16) error
	playing int32
	queueC  chan handoff
	closeC  chan bool
	once    *sync.Once
	wg      *sync.WaitGroup
}

// Device write goroutine
func (s *scheduler) run() {
	logger.Debug("start sink scheduler")
	defer logger.Debug("exit sink scheduler")
	defer s.wg.Done()
	for {
		select {
		case <-s.closeC:
			return
		case h := <-s.queueC:
			if err := s.write(h.buffer.Valid()); err != nil {
				logger.WithError(err).Warn("sink write error")
			}
			// The buffer is consumed whether or not the write
			// succeeded, the completion must still fire
			h.onComplete()
		}
	}
}

// Start the scheduler writing to the given device write function
func (s *scheduler) start(write func([]int16) error) {
	s.write = write
	atomic.StoreInt32(&s.playing, 1)
	s.wg.Add(1)
	go s.run()
}

// Whether the scheduler is accepting buffers
func (s *scheduler) isPlaying() bool {
	return atomic.LoadInt32(&s.playing) == 1
}

// Queue a buffer for the device write goroutine. Returns
// ErrHandoffRejected once the scheduler has stopped, in which case
// the completion callback is not invoked and the caller keeps
// ownership of the buffer.
func (s *scheduler) schedule(b *Buffer, onComplete func()) error {
	if !s.isPlaying() {
		return ErrHandoffRejected
	}
	select {
	case s.queueC <- handoff{b, onComplete}:
		return nil
	case <-s.closeC:
		return ErrHandoffRejected
	}
}

// Stop the scheduler, waiting for the write goroutine to exit and
// firing completion callbacks for any buffers left in the queue so
// no handoff goes unreleased. Safe to call more than once.
func (s *scheduler) stop() {
	s.once.Do(func() {
		atomic.StoreInt32(&s.playing, 0)
		close(s.closeC)
		s.wg.Wait()
		for {
			select {
			case h := <-s.queueC:
				h.onComplete()
			default:
				return
			}
		}
	})
}

// Construct a new scheduler
func newScheduler() *scheduler {
	return &scheduler{
		queueC: make(chan handoff),
		closeC: make(chan bool),
		once:   &sync.Once{},
		wg:     &sync.WaitGroup{},
	}
}
