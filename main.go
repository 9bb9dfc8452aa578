package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/llehouerou/ripple/internal/bus"
	"github.com/llehouerou/ripple/internal/config"
	"github.com/llehouerou/ripple/internal/equalizer"
	"github.com/llehouerou/ripple/internal/errmsg"
	"github.com/llehouerou/ripple/internal/library"
	"github.com/llehouerou/ripple/internal/player"
	"github.com/llehouerou/ripple/internal/spectrum"
	"github.com/llehouerou/ripple/internal/stderr"
	"github.com/llehouerou/ripple/internal/ui"
)

func main() {
	if err := run(); err != nil {
		stderr.WriteOriginal(fmt.Sprintf("Error: %v\n", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}

	logger, closeLog, err := openLogger(cfg.LogFile)
	if err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpLogOpen, cfg.LogFile, err))
	}
	defer closeLog()

	// ALSA and friends write to fd 2, which would corrupt the TUI
	if err := stderr.Start(logger); err != nil {
		logger.Warn("stderr capture unavailable", "err", err)
	}
	defer stderr.Stop()

	tracks, err := library.Scan(cfg.MusicDir, logger)
	if err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpLibraryScan, cfg.MusicDir, err))
	}

	b := bus.New(bus.Config{
		Volume:   cfg.Volume,
		Gains:    cfg.Equalizer.Gains(),
		BarCount: cfg.Spectrum.Bars,
	})
	eq := equalizer.New(equalizer.Config{
		SampleRate: float64(cfg.Audio.SampleRate),
		Q:          cfg.Equalizer.Q,
		Freqs:      cfg.Equalizer.Freqs(),
	})
	ring := spectrum.NewRing(2 * cfg.Spectrum.Window)

	engine := player.NewEngine(player.SpeakerSink(), b, eq, ring, player.Config{
		SampleRate:       cfg.Audio.SampleRate,
		Buffer:           cfg.Audio.Buffer,
		PositionInterval: cfg.Audio.PositionInterval,
	}, logger)
	engine.SetTracks(tracks)
	if err := engine.Open(); err != nil {
		// reported on the transport line; the UI stays usable
		logger.Error(errmsg.Format(errmsg.OpDeviceOpen, err))
	}

	analyzer := spectrum.New(ring, b, spectrum.Config{
		Window:   cfg.Spectrum.Window,
		Interval: cfg.Spectrum.Interval,
		Decay:    cfg.Spectrum.Decay,
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return engine.Run(gctx) })
	g.Go(func() error { return analyzer.Run(gctx) })

	model := ui.New(b, tracks, ui.Options{
		SeekStep:   cfg.SeekStep,
		VolumeStep: cfg.VolumeStep,
	})
	_, uiErr := tea.NewProgram(model, tea.WithAltScreen()).Run()

	cancel()
	if err := waitWithin(g, cfg.ShutdownGrace); err != nil {
		logger.Warn("shutdown", "err", err)
	}
	logger.Info("exit")
	return uiErr
}

// waitWithin waits for g, giving up after grace.
func waitWithin(g *errgroup.Group, grace time.Duration) error {
	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case err := <-done:
		return err
	case <-time.After(grace):
		return fmt.Errorf("workers still running after %s", grace)
	}
}

// openLogger returns a text logger writing to path, or a discarding one when
// path is empty.
func openLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { _ = f.Close() }, nil
}
