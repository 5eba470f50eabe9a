package gpu

// Frame sets pipeline state for a whole frame.
type Frame interface {
	Viewport(width, height int32)
	ClearColor(r, g, b, a float32)
	// Clear clears the color and depth buffers of the bound target.
	Clear()
	SetDepthTest(enabled bool)
	SetCullBackFaces(enabled bool)
	SetBlending(enabled bool)
	// ReadPixels returns the bound target's RGBA8 pixels, bottom row first.
	ReadPixels(width, height int32) []byte
}

// RenderTarget is an offscreen color texture with a depth attachment.
type RenderTarget struct {
	FBO   uint32
	Color uint32
	Depth uint32
}

// RenderTargets manages offscreen targets. Target 0 is the window.
type RenderTargets interface {
	CreateRenderTarget(width, height int32) (RenderTarget, error)
	ResizeRenderTarget(t RenderTarget, width, height int32)
	BindRenderTarget(fbo uint32)
	DeleteRenderTarget(t RenderTarget)
}
