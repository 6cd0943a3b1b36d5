package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/mutker/scopectl/internal/config"
	"codeberg.org/mutker/scopectl/internal/display"
	"codeberg.org/mutker/scopectl/internal/logger"
	"codeberg.org/mutker/scopectl/internal/pid"
	"codeberg.org/mutker/scopectl/internal/scope"
	"codeberg.org/mutker/scopectl/internal/serial"
	"codeberg.org/mutker/scopectl/internal/telemetry"
	"codeberg.org/mutker/scopectl/internal/view"
)

const shutdownTimeout = 5 * time.Second

var (
	cfg    *config.Config
	source *serial.Port
)

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel == "debug", cfg.LogLevel == "info", logger.IsService())
	logger.Debug().Msg("Config loaded")

	if err := pid.Write(); err != nil {
		logger.Fatal().Err(err).Msg("failed to write PID file")
	}

	source, err = serial.Open(serial.Config{
		Device: cfg.Device,
		Baud:   cfg.Baud,
	})
	if err != nil {
		pid.Remove()
		logger.Fatal().Err(err).Msg("failed to open sample source")
	}
}

func main() {
	var collector telemetry.Collector
	if cfg.Telemetry {
		var err error
		collector, err = telemetry.NewService(telemetry.Config{DBPath: cfg.TelemetryDB})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize telemetry")
		}
	}

	commands := make(chan view.Command, scope.CommandBacklog)
	sink := display.NewServer(cfg.Listen, commands)
	if err := sink.Start(); err != nil {
		logger.Fatal().Err(err).Msg("failed to start display sink")
	}

	loop := scope.New(scope.Config{
		VRef:       cfg.VRef,
		MaxCode:    cfg.MaxCode,
		Capacity:   cfg.Capacity,
		SampleRate: cfg.SampleRate,
		Interval:   time.Duration(cfg.Interval) * time.Millisecond,
		Telemetry:  collector,
	}, source, sink, commands)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if err := loop.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("error in main loop")
	}

	cleanup(sink, collector)
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}

func cleanup(sink *display.Server, collector telemetry.Collector) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := sink.Stop(ctx); err != nil {
		logger.Error().Err(err).Msg("failed to stop display sink")
	}
	if collector != nil {
		if err := collector.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close telemetry")
		}
	}
	if err := source.Close(); err != nil {
		logger.Error().Err(err).Msg("failed to close sample source")
	}
	if err := pid.Remove(); err != nil {
		logger.Error().Err(err).Msg("failed to remove PID file")
	}
	logger.Info().Msg("Exiting...")
}
