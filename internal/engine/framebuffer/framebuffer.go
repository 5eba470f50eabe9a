// Package framebuffer provides offscreen render targets for snapshots and
// the inspector viewport.
package framebuffer

import (
	"fmt"
	"image"

	"github.com/Faultbox/sceneview/internal/engine/gpu"
	"github.com/Faultbox/sceneview/internal/engine/texture"
)

// Device is the subset of gpu.Device a framebuffer needs.
type Device interface {
	gpu.Frame
	gpu.RenderTargets
}

// Framebuffer is an offscreen color and depth target.
type Framebuffer struct {
	dev    Device
	target gpu.RenderTarget
	width  int32
	height int32
}

// New creates a framebuffer. Sizes below one pixel are raised to one.
func New(dev Device, width, height int32) (*Framebuffer, error) {
	width, height = max(width, 1), max(height, 1)
	t, err := dev.CreateRenderTarget(width, height)
	if err != nil {
		return nil, fmt.Errorf("creating framebuffer: %w", err)
	}
	return &Framebuffer{dev: dev, target: t, width: width, height: height}, nil
}

// Bind makes the framebuffer the render target and returns a function
// that restores the window target with the given viewport.
func (fb *Framebuffer) Bind(windowWidth, windowHeight int32) (restore func()) {
	fb.dev.BindRenderTarget(fb.target.FBO)
	fb.dev.Viewport(fb.width, fb.height)
	return func() {
		fb.dev.BindRenderTarget(0)
		fb.dev.Viewport(windowWidth, windowHeight)
	}
}

// ColorTexture returns the color attachment texture.
func (fb *Framebuffer) ColorTexture() uint32 {
	return fb.target.Color
}

// Size returns the framebuffer dimensions.
func (fb *Framebuffer) Size() (width, height int32) {
	return fb.width, fb.height
}

// Resize reallocates the attachments when the size changes.
func (fb *Framebuffer) Resize(width, height int32) {
	width, height = max(width, 1), max(height, 1)
	if width == fb.width && height == fb.height {
		return
	}
	fb.width, fb.height = width, height
	fb.dev.ResizeRenderTarget(fb.target, width, height)
}

// Image reads the color attachment back as a top-down image.
func (fb *Framebuffer) Image() *image.RGBA {
	fb.dev.BindRenderTarget(fb.target.FBO)
	pixels := fb.dev.ReadPixels(fb.width, fb.height)
	fb.dev.BindRenderTarget(0)

	img := &image.RGBA{
		Pix:    pixels,
		Stride: int(fb.width) * 4,
		Rect:   image.Rect(0, 0, int(fb.width), int(fb.height)),
	}
	texture.FlipVertical(img)
	return img
}

// Destroy releases the GPU resources.
func (fb *Framebuffer) Destroy() {
	if fb.target.FBO == 0 {
		return
	}
	fb.dev.DeleteRenderTarget(fb.target)
	fb.target = gpu.RenderTarget{}
}
