package audio

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A device write function recording everything written
type fakeDevice struct {
	lock   sync.Mutex
	writes [][]int16
	err    error
	blockC chan bool // When set, writes block until closed
}

func (d *fakeDevice) write(samples []int16) error {
	if d.blockC != nil {
		<-d.blockC
	}
	d.lock.Lock()
	defer d.lock.Unlock()
	buf := make([]int16, len(samples))
	copy(buf, samples)
	d.writes = append(d.writes, buf)
	return d.err
}

func (d *fakeDevice) count() int {
	d.lock.Lock()
	defer d.lock.Unlock()
	return len(d.writes)
}

func filled(frames, channels int, value int16) *Buffer {
	b := NewBuffer(frames, channels)
	samples := b.Samples()
	for i := range samples {
		samples[i] = value
	}
	b.SetValidFrames(frames)
	return b
}

func TestSchedulerWritesInOrder(t *testing.T) {
	device := &fakeDevice{}
	s := newScheduler()
	s.start(device.write)
	var completions int32
	done := make(chan bool)
	count := 4
	for i := 0; i < count; i++ {
		i := i
		require.NoError(t, s.schedule(filled(4, 1, int16(i)), func() {
			completions++
			if i == count-1 {
				close(done)
			}
		}))
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("completions never fired")
	}
	s.stop()
	require.Equal(t, count, device.count())
	for i, write := range device.writes {
		assert.Equal(t, []int16{int16(i), int16(i), int16(i), int16(i)}, write)
	}
	assert.Equal(t, int32(count), completions)
}

func TestSchedulerCompletesOnWriteError(t *testing.T) {
	device := &fakeDevice{err: errors.New("device gone")}
	s := newScheduler()
	s.start(device.write)
	completedC := make(chan bool, 1)
	require.NoError(t, s.schedule(filled(4, 1, 1), func() {
		completedC <- true
	}))
	select {
	case <-completedC:
	case <-time.After(time.Second):
		t.Fatal("completion did not fire on write error")
	}
	s.stop()
}

func TestSchedulerRejectsAfterStop(t *testing.T) {
	device := &fakeDevice{}
	s := newScheduler()
	s.start(device.write)
	assert.True(t, s.isPlaying())
	s.stop()
	assert.False(t, s.isPlaying())
	err := s.schedule(filled(4, 1, 1), func() {
		t.Fatal("completion fired for a rejected handoff")
	})
	assert.Equal(t, ErrHandoffRejected, err)
}

func TestSchedulerStopIdempotent(t *testing.T) {
	device := &fakeDevice{}
	s := newScheduler()
	s.start(device.write)
	s.stop()
	s.stop()
	assert.False(t, s.isPlaying())
}

func TestSchedulerStopUnblocksProducer(t *testing.T) {
	// A producer parked handing a buffer to a stalled device either
	// gets the rejection or its completion, never a deadlock
	device := &fakeDevice{blockC: make(chan bool)}
	s := newScheduler()
	s.start(device.write)
	var lock sync.Mutex
	released := 0
	release := func() {
		lock.Lock()
		released++
		lock.Unlock()
	}
	// First handoff reaches the blocked device write
	require.NoError(t, s.schedule(filled(4, 1, 1), release))
	resultC := make(chan error, 1)
	go func() {
		// Second handoff parks waiting for the runner
		err := s.schedule(filled(4, 1, 2), release)
		if err != nil {
			release() // Caller keeps ownership on rejection
		}
		resultC <- err
	}()
	time.Sleep(20 * time.Millisecond)
	close(device.blockC)
	s.stop()
	select {
	case <-resultC:
	case <-time.After(time.Second):
		t.Fatal("producer deadlocked on stop")
	}
	// Exactly one release per handoff either way
	lock.Lock()
	defer lock.Unlock()
	assert.Equal(t, 2, released)
}
