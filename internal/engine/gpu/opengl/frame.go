package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/engine/gpu"
	"github.com/Faultbox/sceneview/internal/logger"
)

// Init loads the GL function pointers for the current context and logs
// the driver in use.
func Init() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)
	return nil
}

func (Device) Viewport(width, height int32) {
	gl.Viewport(0, 0, width, height)
}

func (Device) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (Device) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func toggle(capability uint32, enabled bool) {
	if enabled {
		gl.Enable(capability)
	} else {
		gl.Disable(capability)
	}
}

func (Device) SetDepthTest(enabled bool) {
	toggle(gl.DEPTH_TEST, enabled)
	gl.DepthFunc(gl.LESS)
}

func (Device) SetCullBackFaces(enabled bool) {
	toggle(gl.CULL_FACE, enabled)
	gl.CullFace(gl.BACK)
}

// SetBlending toggles standard alpha blending.
func (Device) SetBlending(enabled bool) {
	toggle(gl.BLEND, enabled)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
}

func (Device) ReadPixels(width, height int32) []byte {
	pixels := make([]byte, int(width)*int(height)*4)
	if len(pixels) == 0 {
		return pixels
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, width, height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}

// CreateRenderTarget builds a framebuffer with an RGBA8 color texture and a
// 24-bit depth renderbuffer.
func (d Device) CreateRenderTarget(width, height int32) (gpu.RenderTarget, error) {
	var t gpu.RenderTarget
	gl.GenFramebuffers(1, &t.FBO)
	if t.FBO == 0 {
		return t, fmt.Errorf("framebuffer: %w", gpu.ErrResourceCreation)
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.FBO)
	defer gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	gl.GenTextures(1, &t.Color)
	gl.GenRenderbuffers(1, &t.Depth)
	if t.Color == 0 || t.Depth == 0 {
		d.DeleteRenderTarget(t)
		return gpu.RenderTarget{}, fmt.Errorf("framebuffer attachments: %w", gpu.ErrResourceCreation)
	}
	allocate(t, width, height)

	gl.BindTexture(gl.TEXTURE_2D, t.Color)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.Color, 0)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, t.Depth)

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		d.DeleteRenderTarget(t)
		return gpu.RenderTarget{}, fmt.Errorf("framebuffer incomplete 0x%x: %w", status, gpu.ErrResourceCreation)
	}
	return t, nil
}

func allocate(t gpu.RenderTarget, width, height int32) {
	gl.BindTexture(gl.TEXTURE_2D, t.Color)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.BindRenderbuffer(gl.RENDERBUFFER, t.Depth)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, width, height)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
}

func (Device) ResizeRenderTarget(t gpu.RenderTarget, width, height int32) {
	allocate(t, width, height)
}

func (Device) BindRenderTarget(fbo uint32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
}

func (Device) DeleteRenderTarget(t gpu.RenderTarget) {
	if t.FBO != 0 {
		gl.DeleteFramebuffers(1, &t.FBO)
	}
	if t.Color != 0 {
		gl.DeleteTextures(1, &t.Color)
	}
	if t.Depth != 0 {
		gl.DeleteRenderbuffers(1, &t.Depth)
	}
}
