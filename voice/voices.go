// Owning collection of active voices

package voice

import (
	"math/rand"
	"sync"
	"time"

	"fmsynth/audio"
	"fmsynth/fm"
	"fmsynth/logger"
	"fmsynth/pipeline"
)

// Sink constructor, a package variable so tests can swap in a fake
var NewSinkFunc = func() (audio.Sink, error) {
	return audio.NewSink(audio.NewConfig())
}

// Pipeline constructor, sized from the audio and pipeline config
var NewPipelineFunc = func() (*pipeline.Pipeline, error) {
	c := audio.NewConfig()
	return pipeline.New(pipeline.NewConfig(), c.FramesPerBuffer(), c.Channels())
}

// An ordered collection of voices. The collection owns the voices it
// creates, callers stop and release them through it.
type Voices struct {
	lock   *sync.Mutex
	voices []*Voice
	rnd    *rand.Rand
}

// Compose and start a new voice. The voice is only added to the
// collection once it is playing.
func (vs *Voices) Play(params fm.Params) (*Voice, error) {
	sink, err := NewSinkFunc()
	if err != nil {
		return nil, err
	}
	pipe, err := NewPipelineFunc()
	if err != nil {
		return nil, err
	}
	vs.lock.Lock()
	pan := RandomPan(vs.rnd)
	vs.lock.Unlock()
	v := New(params, sink, pipe, pan)
	if err := v.Play(); err != nil {
		return nil, err
	}
	vs.lock.Lock()
	vs.voices = append(vs.voices, v)
	vs.lock.Unlock()
	return v, nil
}

// Get a voice by id
func (vs *Voices) Get(id string) *Voice {
	vs.lock.Lock()
	defer vs.lock.Unlock()
	for _, v := range vs.voices {
		if v.ID() == id {
			return v
		}
	}
	return nil
}

// Stop a voice by id, reporting whether it was found
func (vs *Voices) Stop(id string) bool {
	v := vs.Get(id)
	if v == nil {
		return false
	}
	v.Stop()
	<-v.Done()
	return true
}

// Number of voices currently held, stopped or not
func (vs *Voices) Len() int {
	vs.lock.Lock()
	defer vs.lock.Unlock()
	return len(vs.voices)
}

// Stop every voice, wait for all production loops to exit and clear
// the collection. Guards against teardown while playing by forcing
// the stop first.
func (vs *Voices) StopAll() {
	vs.lock.Lock()
	voices := vs.voices
	vs.voices = nil
	vs.lock.Unlock()
	logger.WithField("voices", len(voices)).Debug("stop all voices")
	for _, v := range voices {
		v.Stop()
	}
	for _, v := range voices {
		<-v.Done()
	}
}

// Construct a voice collection with a seeded pan source
func NewVoices(seed int64) *Voices {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Voices{
		lock: &sync.Mutex{},
		rnd:  rand.New(rand.NewSource(seed)),
	}
}
