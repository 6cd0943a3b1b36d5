package buffer_test

import (
	"testing"

	"codeberg.org/mutker/scopectl/internal/buffer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsZeroFilled(t *testing.T) {
	r := buffer.New(8)

	snapshot := r.Snapshot()
	require.Len(t, snapshot, 8, "window length must equal capacity before any push")
	for i, v := range snapshot {
		assert.Zero(t, v, "expected zero at index %d", i)
	}
}

func TestPushKeepsLengthConstant(t *testing.T) {
	const capacity = 16
	r := buffer.New(capacity)

	for i := 0; i < capacity*3+5; i++ {
		r.Push(float64(i))
		assert.Len(t, r.Snapshot(), capacity)
	}
}

func TestSnapshotTrailingEntriesMatchPushes(t *testing.T) {
	const capacity = 8
	r := buffer.New(capacity)

	r.Push(1.5)
	r.Push(2.5)
	r.Push(3.5)

	snapshot := r.Snapshot()
	require.Len(t, snapshot, capacity)

	// Leading entries are still the zero pre-fill
	for i := 0; i < capacity-3; i++ {
		assert.Zero(t, snapshot[i])
	}
	assert.Equal(t, []float64{1.5, 2.5, 3.5}, snapshot[capacity-3:])
}

func TestSnapshotReflectsLastCapacityPushes(t *testing.T) {
	const capacity = 4
	r := buffer.New(capacity)

	for i := 1; i <= 10; i++ {
		r.Push(float64(i))
	}

	assert.Equal(t, []float64{7, 8, 9, 10}, r.Snapshot(), "window must hold the last capacity pushes in arrival order")
}

func TestSnapshotDoesNotMutateState(t *testing.T) {
	r := buffer.New(4)
	r.Push(1)
	r.Push(2)

	first := r.Snapshot()
	second := r.Snapshot()
	assert.Equal(t, first, second)

	// Mutating a snapshot must not leak into the ring
	first[0] = 99
	assert.Equal(t, second, r.Snapshot())
}

func TestCopySnapshot(t *testing.T) {
	const capacity = 4
	r := buffer.New(capacity)
	for i := 1; i <= 6; i++ {
		r.Push(float64(i))
	}

	dst := make([]float64, capacity)
	r.CopySnapshot(dst)
	assert.Equal(t, []float64{3, 4, 5, 6}, dst)
}

func TestNewPanicsOnInvalidCapacity(t *testing.T) {
	assert.Panics(t, func() { buffer.New(0) })
	assert.Panics(t, func() { buffer.New(-1) })
}
