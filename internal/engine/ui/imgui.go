// Package ui wraps the Dear ImGui SDL backend used by the inspector.
package ui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/sceneview/internal/engine/gpu/opengl"
)

// Backend owns the ImGui window and its GL context.
type Backend struct {
	backend backend.Backend[sdlbackend.SDLWindowFlags]
}

// NewBackend creates the window and loads GL function pointers.
func NewBackend(title string, width, height int32) (*Backend, error) {
	b := &Backend{}

	var err error
	b.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	b.backend.SetBgColor(imgui.NewVec4(0.1, 0.1, 0.12, 1.0))
	b.backend.CreateWindow(title, int(width), int(height))

	if err := opengl.Init(); err != nil {
		return nil, err
	}
	return b, nil
}

// Run blocks in the backend's frame loop, calling renderFunc between
// NewFrame and Render.
func (b *Backend) Run(renderFunc func()) {
	b.backend.Run(renderFunc)
}

// SetWindowTitle updates the window title.
func (b *Backend) SetWindowTitle(title string) {
	b.backend.SetWindowTitle(title)
}

// SetShouldClose asks the frame loop to stop.
func (b *Backend) SetShouldClose() {
	b.backend.SetShouldClose(true)
}

// DrawableSize returns the window framebuffer size in pixels.
func DrawableSize() (int32, int32) {
	io := imgui.CurrentIO()
	size, scale := io.DisplaySize(), io.DisplayFramebufferScale()
	return int32(size.X * scale.X), int32(size.Y * scale.Y)
}

// Viewport returns the main viewport work area below the menu bar.
func Viewport() (posX, posY, width, height float32) {
	viewport := imgui.MainViewport()
	workPos := viewport.WorkPos()
	workSize := viewport.WorkSize()
	return workPos.X, workPos.Y, workSize.X, workSize.Y
}

// Image draws a GL texture rendered bottom-up, such as a framebuffer
// color attachment.
func Image(texID uint32, width, height float32) {
	ref := imgui.NewTextureRefTextureID(imgui.TextureID(texID))
	imgui.ImageWithBgV(
		*ref,
		imgui.NewVec2(width, height),
		imgui.NewVec2(0, 1),
		imgui.NewVec2(1, 0),
		imgui.NewVec4(0, 0, 0, 1),
		imgui.NewVec4(1, 1, 1, 1),
	)
}

// IsKeyPressed checks if a key was pressed this frame.
func IsKeyPressed(key imgui.Key) bool {
	return imgui.IsKeyChordPressed(imgui.KeyChord(key))
}
