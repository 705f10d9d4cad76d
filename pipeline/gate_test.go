package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateCapacity(t *testing.T) {
	tt := []struct {
		name     string
		capacity int
	}{
		{"one", 1},
		{"two", 2},
		{"eight", 8},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			gate := NewGate(tc.capacity)
			assert.Equal(t, tc.capacity, gate.Capacity())
			assert.Equal(t, tc.capacity, gate.Free())
		})
	}
}

func TestGateAcquireRelease(t *testing.T) {
	gate := NewGate(2)
	stopC := make(chan bool)
	require.NoError(t, gate.Acquire(0, stopC))
	require.NoError(t, gate.Acquire(0, stopC))
	assert.Equal(t, 0, gate.Free())
	gate.Release()
	assert.Equal(t, 1, gate.Free())
	gate.Release()
	assert.Equal(t, 2, gate.Free())
}

func TestGateAcquireBlocksWhenExhausted(t *testing.T) {
	gate := NewGate(1)
	stopC := make(chan bool)
	require.NoError(t, gate.Acquire(0, stopC))
	acquiredC := make(chan error, 1)
	go func() {
		acquiredC <- gate.Acquire(0, stopC)
	}()
	select {
	case <-acquiredC:
		t.Fatal("acquire did not block with no permits free")
	case <-time.After(50 * time.Millisecond):
	}
	gate.Release()
	select {
	case err := <-acquiredC:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("acquire did not resume after release")
	}
}

func TestGateAcquireStop(t *testing.T) {
	gate := NewGate(1)
	stopC := make(chan bool)
	require.NoError(t, gate.Acquire(0, stopC))
	acquiredC := make(chan error, 1)
	go func() {
		acquiredC <- gate.Acquire(0, stopC)
	}()
	close(stopC)
	select {
	case err := <-acquiredC:
		assert.Equal(t, errStopped, err)
	case <-time.After(time.Second):
		t.Fatal("acquire did not observe stop")
	}
}

func TestGateAcquireTimeout(t *testing.T) {
	gate := NewGate(1)
	stopC := make(chan bool)
	require.NoError(t, gate.Acquire(0, stopC))
	err := gate.Acquire(10*time.Millisecond, stopC)
	assert.Equal(t, ErrAcquireTimeout, err)
}

func TestGateReleaseNeverBlocks(t *testing.T) {
	gate := NewGate(1)
	// Releasing beyond capacity is a caller bug but must not block
	// or grow the permit pool
	gate.Release()
	gate.Release()
	assert.Equal(t, 1, gate.Free())
}
