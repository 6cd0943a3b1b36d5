// Package buffer holds the rolling window of the most recent calibrated
// samples. The window is a fixed-capacity ring: it is zero-filled at
// construction, its length never changes, and each push overwrites the
// logically oldest sample.
package buffer

// Ring is a fixed-capacity, sample-ordered window. The zero value is not
// usable; construct with New.
type Ring struct {
	samples []float64
	cursor  int // index of the next write, i.e. the logically oldest sample
}

// New returns a zero-filled Ring of the given capacity.
// Capacity must be positive.
func New(capacity int) *Ring {
	if capacity <= 0 {
		panic("buffer: capacity must be positive")
	}
	return &Ring{samples: make([]float64, capacity)}
}

// Capacity returns the fixed window length.
func (r *Ring) Capacity() int {
	return len(r.samples)
}

// Push overwrites the logically oldest sample with v. It never fails and
// never changes the window length.
func (r *Ring) Push(v float64) {
	r.samples[r.cursor] = v
	r.cursor++
	if r.cursor == len(r.samples) {
		r.cursor = 0
	}
}

// Snapshot returns a copy of the window ordered oldest to newest. Display
// and spectral estimation both read the same snapshot so they observe a
// consistent window.
func (r *Ring) Snapshot() []float64 {
	dst := make([]float64, len(r.samples))
	r.CopySnapshot(dst)
	return dst
}

// CopySnapshot fills dst with the window ordered oldest to newest, avoiding
// an allocation per acquisition cycle. dst must have length Capacity.
func (r *Ring) CopySnapshot(dst []float64) {
	n := copy(dst, r.samples[r.cursor:])
	copy(dst[n:], r.samples[:r.cursor])
}
