// Synthesizer voice lifecycle
//
// A voice composes one oscillator, one buffer pipeline and one
// playback sink into an independently controllable tone. Voices move
// Created -> Playing -> Stopped and never play again once stopped.

package voice

import (
	"errors"
	"sync"

	"fmsynth/audio"
	"fmsynth/fm"
	"fmsynth/logger"
	"fmsynth/pipeline"

	"github.com/rs/xid"
)

var (
	// Play was called on a voice that is not in the Created state
	ErrNotCreated = errors.New("voice already played")
)

// Voice playback state
type State int

const (
	Created State = iota
	Playing
	Stopped
)

// Human readable state name
func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Playing:
		return "playing"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

type Voice struct {
	// Unexported Fields
	id     string
	params fm.Params
	osc    *fm.Oscillator
	pipe   *pipeline.Pipeline
	sink   audio.Sink
	pan    float64 // Stereo position, 0 hard left 1 hard right
	// State, guarded by lock
	lock    *sync.Mutex
	state   State
	started bool // Whether the production loop was launched
	// Orchestration
	stopC  chan bool
	doneC  chan bool
	routeC chan audio.RouteEvent
}

// Returns the voice ID
func (v *Voice) ID() string {
	return v.id
}

// Returns the voice parameters
func (v *Voice) Params() fm.Params {
	return v.params
}

// Returns the stereo pan position assigned at creation
func (v *Voice) Pan() float64 {
	return v.pan
}

// Current playback state
func (v *Voice) State() State {
	v.lock.Lock()
	defer v.lock.Unlock()
	return v.state
}

// Closed once the production loop has exited and the sink has been
// stopped, after which teardown is safe
func (v *Voice) Done() <-chan bool {
	return (<-chan bool)(v.doneC)
}

// Goroutine logging route change events while the voice plays.
// The events are informational only, no corrective action is taken.
func (v *Voice) watchRoutes() {
	for event := range v.routeC {
		logger.WithFields(logger.F{
			"voice":   v.id,
			"backend": event.Backend,
			"change":  event.Change,
		}).Info("audio route changed")
	}
}

// Production loop goroutine
func (v *Voice) produce() {
	defer close(v.doneC)
	err := v.pipe.Run(v.osc, Gains(v.pan, v.pipe.Channels()), v.sink, v.stopC)
	if err != nil {
		logger.WithError(err).WithField("voice", v.id).Warn("production loop terminated")
	}
	// The loop exited, either cooperatively or because the sink
	// went away, either way the voice is now stopped
	v.stop()
}

// Start the sink and launch the production loop. Fails with
// audio.ErrDeviceUnavailable if the device cannot be started, in
// which case no buffer is ever scheduled.
func (v *Voice) Play() error {
	v.lock.Lock()
	defer v.lock.Unlock()
	if v.state != Created {
		return ErrNotCreated
	}
	logger.WithFields(logger.F{
		"voice":     v.id,
		"carrier":   v.params.CarrierHz,
		"modulator": v.params.ModulatorHz,
		"amplitude": v.params.ModulatorAmplitude,
		"pan":       v.pan,
	}).Info("play voice")
	audio.Notify(v.routeC)
	go v.watchRoutes()
	if err := v.sink.Start(); err != nil {
		v.state = Stopped
		audio.Unnotify(v.routeC)
		close(v.routeC)
		close(v.stopC)
		close(v.doneC)
		return err
	}
	v.state = Playing
	v.started = true
	go v.produce()
	return nil
}

// Stop the voice. Idempotent, safe to call before Play, after Play,
// more than once and from any goroutine. The production loop observes
// the stop on its next iteration boundary and exits cooperatively.
func (v *Voice) Stop() {
	v.stop()
}

func (v *Voice) stop() {
	v.lock.Lock()
	defer v.lock.Unlock()
	if v.state == Stopped {
		return
	}
	logger.WithField("voice", v.id).Debug("stop voice")
	defer logger.WithField("voice", v.id).Info("stopped voice")
	wasPlaying := v.state == Playing
	v.state = Stopped
	close(v.stopC)
	if wasPlaying {
		// Stopping the sink fires every outstanding completion
		// callback before returning so no permit is leaked and no
		// callback can land on a torn down voice
		v.sink.Stop()
		audio.Unnotify(v.routeC)
		close(v.routeC)
	}
	if !v.started {
		close(v.doneC)
	}
}

// Construct a new voice. The pan position is supplied by the caller
// so randomness stays injectable.
func New(params fm.Params, sink audio.Sink, pipe *pipeline.Pipeline, pan float64) *Voice {
	return &Voice{
		id:     xid.New().String(),
		params: params,
		osc:    fm.NewOscillator(params),
		pipe:   pipe,
		sink:   sink,
		pan:    pan,
		lock:   &sync.Mutex{},
		state:  Created,
		stopC:  make(chan bool),
		doneC:  make(chan bool),
		routeC: make(chan audio.RouteEvent, 4),
	}
}
