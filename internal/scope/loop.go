// Package scope drives the acquisition pipeline: it pulls bytes from the
// sample source, decodes and calibrates them into the rolling window, and
// pushes spectral estimates and view state to the display sink once per
// cycle. One loop owns the source, the window, and the view state; user
// commands are applied between cycles on the same goroutine, so no locking
// is involved.
package scope

import (
	"context"
	"time"

	"codeberg.org/mutker/scopectl/internal/acquire"
	"codeberg.org/mutker/scopectl/internal/buffer"
	"codeberg.org/mutker/scopectl/internal/errors"
	"codeberg.org/mutker/scopectl/internal/logger"
	"codeberg.org/mutker/scopectl/internal/serial"
	"codeberg.org/mutker/scopectl/internal/spectrum"
	"codeberg.org/mutker/scopectl/internal/telemetry"
	"codeberg.org/mutker/scopectl/internal/view"
)

const (
	// Upper bound on source reads per cycle so a flooding device cannot
	// starve the ticker.
	maxDrainReads = 64
)

// CommandBacklog is the recommended buffer size for the command channel
// shared between the display sink and the loop.
const CommandBacklog = 16

// Sink consumes render updates. Render is called once per non-paused cycle
// and must return promptly; the snapshot slice is reused and only valid for
// the duration of the call.
type Sink interface {
	Render(snapshot []float64, dominantHz float64, state view.State)
}

// Config holds the fixed acquisition parameters.
type Config struct {
	VRef       float64
	MaxCode    int
	Capacity   int
	SampleRate float64
	Interval   time.Duration
	Telemetry  telemetry.Collector // optional
}

// Loop is the acquisition orchestrator.
type Loop struct {
	cfg       Config
	source    serial.Source
	sink      Sink
	decoder   *acquire.Decoder
	calibrate acquire.Calibrator
	ring      *buffer.Ring
	estimator *spectrum.Estimator
	state     view.State
	commands  <-chan view.Command
	snapshot  []float64
	dominant  float64
}

// New wires the pipeline together. User commands arriving on the commands
// channel are applied between acquisition cycles.
func New(cfg Config, source serial.Source, sink Sink, commands <-chan view.Command) *Loop {
	return &Loop{
		cfg:       cfg,
		source:    source,
		sink:      sink,
		decoder:   acquire.NewDecoder(),
		calibrate: acquire.NewCalibrator(cfg.VRef, cfg.MaxCode),
		ring:      buffer.New(cfg.Capacity),
		estimator: spectrum.New(cfg.Capacity, cfg.SampleRate),
		state:     view.NewState(),
		commands:  commands,
		snapshot:  make([]float64, cfg.Capacity),
	}
}

// State returns the current view state.
func (l *Loop) State() view.State {
	return l.state
}

// Run drives acquisition cycles at the configured cadence until ctx is
// cancelled. Cancellation is the clean shutdown path and returns nil; the
// caller owns and releases the sample source.
func (l *Loop) Run(ctx context.Context) error {
	if l.cfg.Interval <= 0 {
		return errors.New().New(errors.ErrInvalidInterval)
	}

	ticker := time.NewTicker(l.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-l.commands:
			l.apply(cmd)
		case <-ticker.C:
			l.cycle(ctx)
		}
	}
}

// apply executes a view transition against the current window snapshot.
func (l *Loop) apply(cmd view.Command) {
	l.ring.CopySnapshot(l.snapshot)
	l.state = l.state.Apply(cmd, l.snapshot)
	logger.Debug().Str("command", cmd.String()).Bool("paused", l.state.Paused).Msg("Applied view command")
}

// cycle runs one acquisition pass: drain the source into the window, then
// estimate and render unless paused. The source is drained even while
// paused so the transport never builds an unbounded backlog.
func (l *Loop) cycle(ctx context.Context) {
	ingested, decodeErrors := l.drain()

	if !l.state.Paused {
		l.ring.CopySnapshot(l.snapshot)
		l.dominant = l.estimator.Dominant(l.snapshot)
		l.sink.Render(l.snapshot, l.dominant, l.state)
	}

	if l.cfg.Telemetry != nil {
		snapshot := &telemetry.Snapshot{
			Timestamp:       time.Now(),
			SamplesIngested: ingested,
			DecodeErrors:    decodeErrors,
			DominantHz:      l.dominant,
			Paused:          l.state.Paused,
		}
		if err := l.cfg.Telemetry.Record(ctx, snapshot); err != nil {
			logger.Warn().Err(err).Msg("Failed to record telemetry")
		}
	}
}

// drain pulls every byte currently pending on the source through the
// decode and calibrate steps into the window. Zero pending bytes is the
// normal idle outcome. Decode failures are reported per line and skipped;
// read errors are logged and retried on the next cycle, never fatal.
func (l *Loop) drain() (ingested, decodeErrors int) {
	for i := 0; i < maxDrainReads; i++ {
		chunk, err := l.source.ReadAvailable()
		if err != nil {
			logger.Warn().Err(err).Msg("Sample source read failed")
			break
		}
		if len(chunk) == 0 {
			break
		}

		codes, events := l.decoder.Decode(chunk)
		for _, event := range events {
			decodeErrors++
			logger.Warn().
				Str("error_code", string(event.Code())).
				Interface("input", event.GetData()).
				Msg("Discarded undecodable input")
		}
		for _, code := range codes {
			l.ring.Push(l.calibrate.Voltage(code))
			ingested++
		}
	}

	return ingested, decodeErrors
}
