package voice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fmsynth/audio"
	"fmsynth/pipeline"
)

// Swap the constructor seams for the duration of a test
func fakeFactories(t *testing.T, sinks *[]*fakeSink) {
	origSink := NewSinkFunc
	origPipe := NewPipelineFunc
	NewSinkFunc = func() (audio.Sink, error) {
		sink := &fakeSink{}
		*sinks = append(*sinks, sink)
		return sink, nil
	}
	NewPipelineFunc = func() (*pipeline.Pipeline, error) {
		return pipeline.NewWith(
			pipeline.NewPool(2, 64, 2),
			pipeline.NewGate(2),
			0)
	}
	t.Cleanup(func() {
		NewSinkFunc = origSink
		NewPipelineFunc = origPipe
	})
}

func TestVoicesPlayAndGet(t *testing.T) {
	var sinks []*fakeSink
	fakeFactories(t, &sinks)
	voices := NewVoices(1)
	v, err := voices.Play(testParams())
	require.NoError(t, err)
	defer voices.StopAll()
	assert.Equal(t, 1, voices.Len())
	assert.Equal(t, Playing, v.State())
	assert.Same(t, v, voices.Get(v.ID()))
	assert.Nil(t, voices.Get("no-such-voice"))
}

func TestVoicesStopByID(t *testing.T) {
	var sinks []*fakeSink
	fakeFactories(t, &sinks)
	voices := NewVoices(1)
	v, err := voices.Play(testParams())
	require.NoError(t, err)
	assert.True(t, voices.Stop(v.ID()))
	assert.Equal(t, Stopped, v.State())
	assert.False(t, voices.Stop(v.ID()+"x"))
}

func TestVoicesStopAll(t *testing.T) {
	var sinks []*fakeSink
	fakeFactories(t, &sinks)
	voices := NewVoices(1)
	started := []*Voice{}
	for i := 0; i < 3; i++ {
		v, err := voices.Play(testParams())
		require.NoError(t, err)
		started = append(started, v)
	}
	assert.Equal(t, 3, voices.Len())
	voices.StopAll()
	assert.Equal(t, 0, voices.Len())
	for _, v := range started {
		assert.Equal(t, Stopped, v.State())
		select {
		case <-v.Done():
		case <-time.After(time.Second):
			require.Fail(t, "voice not done after StopAll")
		}
	}
	for _, sink := range sinks {
		assert.Equal(t, 1, sink.stops)
	}
}

func TestVoicesPlaySinkFailure(t *testing.T) {
	var sinks []*fakeSink
	fakeFactories(t, &sinks)
	voices := NewVoices(1)
	sinkErr := audio.ErrDeviceUnavailable
	NewSinkFunc = func() (audio.Sink, error) {
		return &fakeSink{startErr: sinkErr}, nil
	}
	_, err := voices.Play(testParams())
	assert.Equal(t, sinkErr, err)
	// Failed voices are never added to the collection
	assert.Equal(t, 0, voices.Len())
}

func TestVoicesPanWithinRange(t *testing.T) {
	var sinks []*fakeSink
	fakeFactories(t, &sinks)
	voices := NewVoices(42)
	defer voices.StopAll()
	for i := 0; i < 5; i++ {
		v, err := voices.Play(testParams())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v.Pan(), 0.0)
		assert.LessOrEqual(t, v.Pan(), 1.0)
	}
}
