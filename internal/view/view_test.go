package view_test

import (
	"testing"

	"codeberg.org/mutker/scopectl/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultState(t *testing.T) {
	s := view.NewState()

	assert.InDelta(t, 1.0, s.VerticalScale, 1e-12)
	assert.InDelta(t, 1.0, s.HorizontalScale, 1e-12)
	assert.False(t, s.Paused)
	assert.False(t, s.Absolute)
}

func TestScaleCommands(t *testing.T) {
	s := view.NewState()

	s = s.Apply(view.IncreaseVertical, nil)
	assert.InDelta(t, 2.0, s.VerticalScale, 1e-12)

	s = s.Apply(view.DecreaseHorizontal, nil)
	assert.InDelta(t, 0.5, s.HorizontalScale, 1e-12)

	// Scales stay strictly positive under repeated halving
	for i := 0; i < 50; i++ {
		s = s.Apply(view.DecreaseVertical, nil)
	}
	assert.Positive(t, s.VerticalScale)
}

func TestScaleRoundTrip(t *testing.T) {
	s := view.NewState()
	original := s.VerticalScale

	s = s.Apply(view.IncreaseVertical, nil)
	s = s.Apply(view.DecreaseVertical, nil)
	assert.InDelta(t, original, s.VerticalScale, 1e-12, "increase then decrease must restore the scale")

	original = s.HorizontalScale
	s = s.Apply(view.DecreaseHorizontal, nil)
	s = s.Apply(view.IncreaseHorizontal, nil)
	assert.InDelta(t, original, s.HorizontalScale, 1e-12)
}

func TestTogglePauseIdempotentPair(t *testing.T) {
	s := view.NewState()

	s = s.Apply(view.TogglePause, nil)
	assert.True(t, s.Paused)

	s = s.Apply(view.TogglePause, nil)
	assert.False(t, s.Paused, "toggling twice must restore the original pause state")
}

func TestAutoScalePadding(t *testing.T) {
	s := view.NewState()
	window := []float64{0.5, 1.0, 2.0, 1.5, 0.7}

	s = s.Apply(view.AutoScale, window)

	require.True(t, s.Absolute)
	// amplitude 1.5, padding 0.3
	assert.InDelta(t, 0.2, s.VerticalRange.Min, 1e-12)
	assert.InDelta(t, 2.3, s.VerticalRange.Max, 1e-12)
	assert.Equal(t, len(window), s.HorizontalSpan)
}

func TestAutoScaleFlatWindowFloor(t *testing.T) {
	s := view.NewState()
	window := []float64{1.65, 1.65, 1.65, 1.65}

	s = s.Apply(view.AutoScale, window)

	require.True(t, s.Absolute)
	assert.Less(t, s.VerticalRange.Min, 1.65)
	assert.Greater(t, s.VerticalRange.Max, 1.65)
	assert.InDelta(t, s.VerticalRange.Max-1.65, 1.65-s.VerticalRange.Min, 1e-12, "floor padding is symmetric")
}

func TestAutoScaleEmptySnapshotIsNoop(t *testing.T) {
	s := view.NewState()
	got := s.Apply(view.AutoScale, nil)
	assert.Equal(t, s, got)
}

func TestManualScaleClearsAbsoluteOverride(t *testing.T) {
	s := view.NewState()
	s = s.Apply(view.AutoScale, []float64{0, 1})
	require.True(t, s.Absolute)

	s = s.Apply(view.IncreaseVertical, nil)
	assert.False(t, s.Absolute, "a manual scale command returns the view to multiplicative mode")
}

func TestAutoScaleDoesNotTouchPause(t *testing.T) {
	s := view.NewState()
	s = s.Apply(view.TogglePause, nil)
	s = s.Apply(view.AutoScale, []float64{0, 1, 2})
	assert.True(t, s.Paused)
}

func TestCommandNames(t *testing.T) {
	for _, cmd := range []view.Command{
		view.IncreaseVertical, view.DecreaseVertical,
		view.IncreaseHorizontal, view.DecreaseHorizontal,
		view.AutoScale, view.TogglePause,
	} {
		parsed, ok := view.ParseCommand(cmd.String())
		require.True(t, ok, "command %q must round-trip", cmd)
		assert.Equal(t, cmd, parsed)
	}

	_, ok := view.ParseCommand("bogus")
	assert.False(t, ok)
}
