// Package main is the scene inspector: the viewer scene rendered into an
// ImGui panel with light sliders, per-object visibility and model loading.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/Faultbox/sceneview/internal/config"
	"github.com/Faultbox/sceneview/internal/engine/ui"
	"github.com/Faultbox/sceneview/internal/logger"
)

func init() {
	runtime.LockOSThread()
}

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

	backend, err := ui.NewBackend("SceneView Inspector", int32(cfg.Graphics.Width)+320, int32(cfg.Graphics.Height)+80)
	if err != nil {
		fmt.Fprintf(os.Stderr, "UI error: %v\n", err)
		os.Exit(1)
	}

	app := NewApp(cfg, backend)
	defer app.Close()

	backend.Run(app.render)
}
