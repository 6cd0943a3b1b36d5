package scope

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"codeberg.org/mutker/scopectl/internal/logger"
	"codeberg.org/mutker/scopectl/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource replays queued chunks, then reports idle.
type fakeSource struct {
	chunks [][]byte
}

func (s *fakeSource) ReadAvailable() ([]byte, error) {
	if len(s.chunks) == 0 {
		return nil, nil
	}
	chunk := s.chunks[0]
	s.chunks = s.chunks[1:]
	return chunk, nil
}

func (s *fakeSource) Close() error {
	return nil
}

// renderCall captures one Render invocation.
type renderCall struct {
	snapshot []float64
	dominant float64
	state    view.State
}

type fakeSink struct {
	calls []renderCall
}

func (s *fakeSink) Render(snapshot []float64, dominantHz float64, state view.State) {
	copied := make([]float64, len(snapshot))
	copy(copied, snapshot)
	s.calls = append(s.calls, renderCall{snapshot: copied, dominant: dominantHz, state: state})
}

func testConfig(capacity int) Config {
	return Config{
		VRef:       3.3,
		MaxCode:    4095,
		Capacity:   capacity,
		SampleRate: 100000,
		Interval:   time.Millisecond,
	}
}

func newTestLoop(capacity int, source *fakeSource, sink *fakeSink) (*Loop, chan view.Command) {
	logger.Init(false, false, true)
	commands := make(chan view.Command, CommandBacklog)
	return New(testConfig(capacity), source, sink, commands), commands
}

func TestCycleIngestsAndRenders(t *testing.T) {
	source := &fakeSource{chunks: [][]byte{[]byte("1024\n2048\n")}}
	sink := &fakeSink{}
	l, _ := newTestLoop(8, source, sink)

	l.cycle(context.Background())

	require.Len(t, sink.calls, 1, "one render per non-paused cycle")
	call := sink.calls[0]
	require.Len(t, call.snapshot, 8)
	assert.InDelta(t, 1024*3.3/4096, call.snapshot[6], 1e-12)
	assert.InDelta(t, 2048*3.3/4096, call.snapshot[7], 1e-12)
}

func TestCycleSkipsMalformedLines(t *testing.T) {
	source := &fakeSource{chunks: [][]byte{[]byte("123\nabc\n456\n")}}
	sink := &fakeSink{}
	l, _ := newTestLoop(4, source, sink)

	ingested, decodeErrors := l.drain()
	assert.Equal(t, 2, ingested)
	assert.Equal(t, 1, decodeErrors)
}

func TestCycleIdleSourceStillRenders(t *testing.T) {
	source := &fakeSource{}
	sink := &fakeSink{}
	l, _ := newTestLoop(4, source, sink)

	l.cycle(context.Background())
	l.cycle(context.Background())

	assert.Len(t, sink.calls, 2, "zero pending bytes is a normal cycle, not an error")
}

func TestPausedCycleDrainsWithoutRendering(t *testing.T) {
	source := &fakeSource{chunks: [][]byte{[]byte("100\n200\n300\n400\n")}}
	sink := &fakeSink{}
	l, _ := newTestLoop(4, source, sink)

	l.apply(view.TogglePause)
	l.cycle(context.Background())

	assert.Empty(t, sink.calls, "paused cycles must not render")

	// The window still advanced while paused
	l.apply(view.TogglePause)
	l.cycle(context.Background())
	require.Len(t, sink.calls, 1)
	assert.InDelta(t, 400*3.3/4096, sink.calls[0].snapshot[3], 1e-12)
}

func TestDrainConsumesAllPendingChunks(t *testing.T) {
	source := &fakeSource{chunks: [][]byte{
		[]byte("1\n"),
		[]byte("2\n"),
		[]byte("3\n"),
	}}
	l, _ := newTestLoop(4, source, &fakeSink{})

	ingested, _ := l.drain()
	assert.Equal(t, 3, ingested)
	assert.Empty(t, source.chunks)
}

func TestDrainIsBounded(t *testing.T) {
	chunks := make([][]byte, maxDrainReads*2)
	for i := range chunks {
		chunks[i] = []byte(fmt.Sprintf("%d\n", i))
	}
	source := &fakeSource{chunks: chunks}
	l, _ := newTestLoop(4, source, &fakeSink{})

	ingested, _ := l.drain()
	assert.Equal(t, maxDrainReads, ingested, "a flooding source must not starve the cycle")
}

func TestApplyCommands(t *testing.T) {
	l, _ := newTestLoop(4, &fakeSource{}, &fakeSink{})

	l.apply(view.IncreaseVertical)
	assert.InDelta(t, 2.0, l.State().VerticalScale, 1e-12)

	l.apply(view.DecreaseVertical)
	assert.InDelta(t, 1.0, l.State().VerticalScale, 1e-12)

	l.apply(view.TogglePause)
	assert.True(t, l.State().Paused)
	l.apply(view.TogglePause)
	assert.False(t, l.State().Paused)
}

func TestAutoScaleUsesCurrentWindow(t *testing.T) {
	source := &fakeSource{chunks: [][]byte{[]byte("0\n4095\n")}}
	l, _ := newTestLoop(2, source, &fakeSink{})

	l.drain()
	l.apply(view.AutoScale)

	state := l.State()
	require.True(t, state.Absolute)
	max := 4095 * 3.3 / 4096.0
	padding := 0.2 * max
	assert.InDelta(t, -padding, state.VerticalRange.Min, 1e-9)
	assert.InDelta(t, max+padding, state.VerticalRange.Max, 1e-9)
	assert.Equal(t, 2, state.HorizontalSpan)
}

func TestRenderReportsDominantFrequency(t *testing.T) {
	const (
		capacity = 256
		rate     = 100000.0
		freq     = 12500.0 // on-bin for 256 samples at 100 kHz
	)

	var payload []byte
	for i := 0; i < capacity; i++ {
		v := math.Sin(2 * math.Pi * freq * float64(i) / rate)
		code := int(2048 + 1000*v)
		payload = append(payload, []byte(fmt.Sprintf("%d\n", code))...)
	}

	cfg := testConfig(capacity)
	cfg.SampleRate = rate
	logger.Init(false, false, true)
	sink := &fakeSink{}
	l := New(cfg, &fakeSource{chunks: [][]byte{payload}}, sink, make(chan view.Command))

	l.cycle(context.Background())

	require.Len(t, sink.calls, 1)
	binWidth := rate / capacity
	assert.InDelta(t, freq, sink.calls[0].dominant, binWidth)
}

func TestRunStopsOnCancel(t *testing.T) {
	l, _ := newTestLoop(4, &fakeSource{}, &fakeSink{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop on cancellation")
	}
}

func TestRunRejectsInvalidInterval(t *testing.T) {
	cfg := testConfig(4)
	cfg.Interval = 0
	logger.Init(false, false, true)
	l := New(cfg, &fakeSource{}, &fakeSink{}, make(chan view.Command))

	assert.Error(t, l.Run(context.Background()))
}

func TestCommandsAppliedDuringRun(t *testing.T) {
	l, commands := newTestLoop(4, &fakeSource{}, &fakeSink{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	commands <- view.TogglePause

	// Wait for the loop to take the command off the channel; the apply
	// completes before the loop re-enters its select.
	require.Eventually(t, func() bool {
		return len(commands) == 0
	}, time.Second, time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.True(t, l.State().Paused)
}
