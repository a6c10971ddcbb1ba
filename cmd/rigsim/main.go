// Package main is the entry point for the rig simulator: it replays a
// scripted input timeline against one character, or drives it from the
// terminal with -interactive or from an SDL window with -window.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-rig/internal/config"
	"github.com/Faultbox/midgard-rig/internal/game"
	"github.com/Faultbox/midgard-rig/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// The terminal UI owns stdout, so interactive runs log to file only
	logCfg := logger.DefaultFileConfig(cfg.Logging.LogFile)
	if err := logger.InitWithFileConfig(cfg.Logging.Level, logCfg, !cfg.Simulation.Interactive); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Midgard Rig Simulator ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	g, err := game.New(cfg)
	if err != nil {
		logger.Error("failed to create scene", zap.Error(err))
		os.Exit(1)
	}
	defer g.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Window.Enabled {
		if err := runWindowed(ctx, g, cfg); err != nil {
			logger.Error("windowed session failed", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	if cfg.Simulation.Interactive {
		if err := runInteractive(ctx, g, cfg); err != nil {
			logger.Error("interactive session failed", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	report, err := g.RunScript(ctx, cfg.Simulation.Script, cfg.Simulation.Duration)
	if err != nil {
		logger.Error("script failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("script finished",
		zap.Int("frames", report.Frames),
		zap.Strings("clips", report.Clips),
		zap.String("final_clip", report.Final.ActiveClip),
		zap.Float32("x", report.Final.Position.X),
		zap.Float32("z", report.Final.Position.Z),
		zap.Float32("heading", report.Final.Heading))
}
