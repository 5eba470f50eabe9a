// Package main is the interactive scene viewer: a textured light sphere
// and OBJ/glTF models under one point light.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/config"
	"github.com/Faultbox/sceneview/internal/engine/gpu/opengl"
	"github.com/Faultbox/sceneview/internal/engine/input"
	"github.com/Faultbox/sceneview/internal/engine/window"
	"github.com/Faultbox/sceneview/internal/logger"
	"github.com/Faultbox/sceneview/internal/viewer"
)

const windowTitle = "SceneView"

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, config.SnapshotPath()); err != nil {
		logger.Error("viewer failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, snapshot string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	win, err := window.New(window.Config{
		Title:      windowTitle,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen && snapshot == "",
		VSync:      cfg.Graphics.VSync,
		Hidden:     snapshot != "",
	})
	if err != nil {
		return err
	}
	defer win.Close()

	if err := opengl.Init(); err != nil {
		return err
	}

	// Render at drawable resolution on high-DPI displays.
	dw, dh := win.DrawableSize()
	cfg.Graphics.Width, cfg.Graphics.Height = int(dw), int(dh)

	v, err := viewer.New(ctx, opengl.New(), cfg)
	if err != nil {
		return err
	}
	defer v.Close()

	if snapshot != "" {
		return v.Snapshot(snapshot)
	}

	logger.Info("controls: drag to orbit, wheel to zoom, arrows and PageUp/PageDown move the light, F12 screenshot, R reset camera, Esc quit")

	var frameBudget time.Duration
	if cfg.Graphics.FPSLimit > 0 {
		frameBudget = time.Second / time.Duration(cfg.Graphics.FPSLimit)
	}

	in := input.New()
	for ctx.Err() == nil {
		start := time.Now()

		if win.PollEvents(in) || in.IsKeyPressed(input.KeyEscape) {
			break
		}
		v.HandleInput(in)

		if err := v.Frame(); err != nil {
			return err
		}
		win.SwapBuffers()

		if frameBudget > 0 {
			if rest := frameBudget - time.Since(start); rest > 0 {
				time.Sleep(rest)
			}
		}
	}

	logger.Info("viewer exiting")
	return nil
}
