package voice

import (
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fmsynth/audio"
	"fmsynth/fm"
	"fmsynth/pipeline"
)

// Fake sink for driving voices without an audio device
type fakeSink struct {
	lock      sync.Mutex
	startErr  error
	playing   int32
	scheduled int
	starts    int
	stops     int
	pending   []func()
	hold      bool // Hold completions until Stop
}

func (f *fakeSink) Start() error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.starts++
	if f.startErr != nil {
		return f.startErr
	}
	atomic.StoreInt32(&f.playing, 1)
	return nil
}

func (f *fakeSink) Stop() error {
	atomic.StoreInt32(&f.playing, 0)
	f.lock.Lock()
	f.stops++
	pending := f.pending
	f.pending = nil
	f.lock.Unlock()
	for _, onComplete := range pending {
		onComplete()
	}
	return nil
}

func (f *fakeSink) IsPlaying() bool {
	return atomic.LoadInt32(&f.playing) == 1
}

func (f *fakeSink) ScheduleBuffer(b *audio.Buffer, onComplete func()) error {
	if !f.IsPlaying() {
		return audio.ErrHandoffRejected
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	f.scheduled++
	if f.hold {
		f.pending = append(f.pending, onComplete)
		return nil
	}
	go onComplete()
	return nil
}

func (f *fakeSink) scheduledCount() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.scheduled
}

func testPipeline(t *testing.T) *pipeline.Pipeline {
	pipe, err := pipeline.NewWith(
		pipeline.NewPool(2, 64, 2),
		pipeline.NewGate(2),
		0)
	require.NoError(t, err)
	return pipe
}

func testParams() fm.Params {
	return fm.Params{
		CarrierHz:          440,
		ModulatorHz:        679,
		ModulatorAmplitude: 0.8,
		SampleRate:         44100,
	}
}

func TestVoiceLifecycle(t *testing.T) {
	sink := &fakeSink{}
	v := New(testParams(), sink, testPipeline(t), 0.5)
	assert.NotEmpty(t, v.ID())
	assert.Equal(t, Created, v.State())
	require.NoError(t, v.Play())
	assert.Equal(t, Playing, v.State())
	// Buffers flow while playing
	require.Eventually(t, func() bool {
		return sink.scheduledCount() > 4
	}, time.Second, time.Millisecond)
	v.Stop()
	assert.Equal(t, Stopped, v.State())
	select {
	case <-v.Done():
	case <-time.After(time.Second):
		require.Fail(t, "production loop did not exit")
	}
	assert.Equal(t, 1, sink.stops)
}

func TestVoicePlayTwice(t *testing.T) {
	sink := &fakeSink{}
	v := New(testParams(), sink, testPipeline(t), 0.5)
	require.NoError(t, v.Play())
	defer v.Stop()
	assert.Equal(t, ErrNotCreated, v.Play())
}

func TestVoiceStopBeforePlay(t *testing.T) {
	sink := &fakeSink{}
	v := New(testParams(), sink, testPipeline(t), 0.5)
	v.Stop()
	assert.Equal(t, Stopped, v.State())
	select {
	case <-v.Done():
	case <-time.After(time.Second):
		require.Fail(t, "done not closed for a never played voice")
	}
	// Stopped is terminal, play is refused and the sink untouched
	assert.Equal(t, ErrNotCreated, v.Play())
	assert.Equal(t, 0, sink.starts)
	assert.Equal(t, 0, sink.stops)
}

func TestVoiceStopIdempotent(t *testing.T) {
	sink := &fakeSink{}
	v := New(testParams(), sink, testPipeline(t), 0.5)
	require.NoError(t, v.Play())
	v.Stop()
	v.Stop()
	v.Stop()
	<-v.Done()
	assert.Equal(t, 1, sink.stops)
}

func TestVoiceDeviceUnavailable(t *testing.T) {
	sink := &fakeSink{startErr: audio.ErrDeviceUnavailable}
	v := New(testParams(), sink, testPipeline(t), 0.5)
	err := v.Play()
	assert.Equal(t, audio.ErrDeviceUnavailable, err)
	assert.Equal(t, Stopped, v.State())
	// Nothing was ever scheduled and done is closed
	assert.Equal(t, 0, sink.scheduledCount())
	select {
	case <-v.Done():
	case <-time.After(time.Second):
		require.Fail(t, "done not closed after failed play")
	}
}

func TestVoiceStopDrainsHeldCompletions(t *testing.T) {
	sink := &fakeSink{hold: true}
	v := New(testParams(), sink, testPipeline(t), 0.5)
	require.NoError(t, v.Play())
	// With completions held both permits end up in flight
	require.Eventually(t, func() bool {
		return sink.scheduledCount() == 2
	}, time.Second, time.Millisecond)
	v.Stop()
	select {
	case <-v.Done():
	case <-time.After(time.Second):
		require.Fail(t, "production loop stuck on a held permit")
	}
}

func TestGains(t *testing.T) {
	tt := []struct {
		position float64
		channels int
		left     float64
		right    float64
	}{
		{0, 2, 1, 0},
		{1, 2, 0, 1},
		{0.5, 2, math.Cos(math.Pi / 4), math.Sin(math.Pi / 4)},
		{-2, 2, 1, 0},  // Clamped left
		{1.5, 2, 0, 1}, // Clamped right
	}
	for _, tc := range tt {
		gains := Gains(tc.position, tc.channels)
		require.Len(t, gains, tc.channels)
		assert.InDelta(t, tc.left, gains[0], 1e-9)
		assert.InDelta(t, tc.right, gains[1], 1e-9)
	}
}

func TestGainsMono(t *testing.T) {
	gains := Gains(0.3, 1)
	require.Len(t, gains, 1)
	assert.Equal(t, float64(1), gains[0])
}

func TestGainsEqualPower(t *testing.T) {
	for _, position := range []float64{0, 0.25, 0.5, 0.75, 1} {
		gains := Gains(position, 2)
		power := gains[0]*gains[0] + gains[1]*gains[1]
		assert.InDelta(t, 1.0, power, 1e-9)
	}
}
