// Package renderer owns per-frame pipeline state: viewport, clear and the
// depth, culling and blending switches.
package renderer

import (
	"image"

	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/engine/gpu"
	"github.com/Faultbox/sceneview/internal/engine/texture"
	"github.com/Faultbox/sceneview/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width         int32
	Height        int32
	ClearColor    [4]float32
	DepthTest     bool
	CullBackFaces bool
	Blending      bool
}

// Renderer prepares each frame before the scene draws into it.
type Renderer struct {
	config Config
	dev    gpu.Frame
}

// New applies cfg to dev and returns the renderer.
// It must be called after the GL context is current.
func New(dev gpu.Frame, cfg Config) *Renderer {
	r := &Renderer{config: cfg, dev: dev}

	dev.SetDepthTest(cfg.DepthTest)
	dev.SetCullBackFaces(cfg.CullBackFaces)
	dev.SetBlending(cfg.Blending)
	c := cfg.ClearColor
	dev.ClearColor(c[0], c[1], c[2], c[3])
	dev.Viewport(cfg.Width, cfg.Height)

	logger.Debug("renderer ready",
		zap.Int32("width", cfg.Width),
		zap.Int32("height", cfg.Height),
		zap.Bool("depth_test", cfg.DepthTest),
		zap.Bool("cull_back_faces", cfg.CullBackFaces),
	)
	return r
}

// Resize updates the viewport. Non-positive sizes, as reported for a
// minimized window, are ignored.
func (r *Renderer) Resize(width, height int32) {
	if width <= 0 || height <= 0 {
		return
	}
	r.config.Width = width
	r.config.Height = height
	r.dev.Viewport(width, height)
	logger.Debug("renderer resized",
		zap.Int32("width", width),
		zap.Int32("height", height),
	)
}

// Size returns the viewport size.
func (r *Renderer) Size() (int32, int32) {
	return r.config.Width, r.config.Height
}

// Begin clears the color and depth buffers for a new frame.
func (r *Renderer) Begin() {
	r.dev.Clear()
}

// Capture reads the current viewport back as a top-down image.
func (r *Renderer) Capture() *image.RGBA {
	w, h := r.config.Width, r.config.Height
	img := &image.RGBA{
		Pix:    r.dev.ReadPixels(w, h),
		Stride: int(w) * 4,
		Rect:   image.Rect(0, 0, int(w), int(h)),
	}
	texture.FlipVertical(img)
	return img
}
