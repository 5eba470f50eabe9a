package gputest

import "github.com/Faultbox/sceneview/internal/engine/gpu"

// Frame and render target operation names.
const (
	OpViewport           = "Viewport"
	OpClearColor         = "ClearColor"
	OpClear              = "Clear"
	OpDepthTest          = "SetDepthTest"
	OpCullBackFaces      = "SetCullBackFaces"
	OpBlending           = "SetBlending"
	OpReadPixels         = "ReadPixels"
	OpCreateRenderTarget = "CreateRenderTarget"
	OpResizeRenderTarget = "ResizeRenderTarget"
	OpBindRenderTarget   = "BindRenderTarget"
	OpDeleteRenderTarget = "DeleteRenderTarget"
)

// FrameState is the pipeline state set through gpu.Frame.
type FrameState struct {
	Viewport     [2]int32
	ClearColor   [4]float32
	DepthTest    bool
	CullBack     bool
	Blending     bool
	RenderTarget uint32
}

// State returns the current frame state.
func (r *Recorder) State() FrameState {
	return r.state
}

func (r *Recorder) Viewport(width, height int32) {
	r.record(Call{Op: OpViewport, Value: [2]int32{width, height}})
	r.state.Viewport = [2]int32{width, height}
}

func (r *Recorder) ClearColor(cr, cg, cb, ca float32) {
	r.record(Call{Op: OpClearColor, Value: [4]float32{cr, cg, cb, ca}})
	r.state.ClearColor = [4]float32{cr, cg, cb, ca}
}

func (r *Recorder) Clear() {
	r.record(Call{Op: OpClear, Handle: r.state.RenderTarget})
}

func (r *Recorder) SetDepthTest(enabled bool) {
	r.record(Call{Op: OpDepthTest, Value: enabled})
	r.state.DepthTest = enabled
}

func (r *Recorder) SetCullBackFaces(enabled bool) {
	r.record(Call{Op: OpCullBackFaces, Value: enabled})
	r.state.CullBack = enabled
}

func (r *Recorder) SetBlending(enabled bool) {
	r.record(Call{Op: OpBlending, Value: enabled})
	r.state.Blending = enabled
}

// ReadPixels returns Pixels when set, or a buffer filled with the clear color.
func (r *Recorder) ReadPixels(width, height int32) []byte {
	r.record(Call{Op: OpReadPixels, Handle: r.state.RenderTarget, Value: [2]int32{width, height}})
	n := int(width) * int(height) * 4
	if r.Pixels != nil {
		return append([]byte(nil), r.Pixels[:n]...)
	}
	out := make([]byte, n)
	for i := 0; i < n; i += 4 {
		for c := 0; c < 4; c++ {
			out[i+c] = byte(r.state.ClearColor[c] * 255)
		}
	}
	return out
}

func (r *Recorder) CreateRenderTarget(width, height int32) (gpu.RenderTarget, error) {
	fbo, err := r.create(OpCreateRenderTarget)
	if err != nil {
		return gpu.RenderTarget{}, err
	}
	r.nextHandle += 2
	t := gpu.RenderTarget{FBO: fbo, Color: fbo + 1, Depth: fbo + 2}
	r.Targets[t.FBO] = [2]int32{width, height}
	return t, nil
}

func (r *Recorder) ResizeRenderTarget(t gpu.RenderTarget, width, height int32) {
	r.record(Call{Op: OpResizeRenderTarget, Handle: t.FBO, Value: [2]int32{width, height}})
	r.Targets[t.FBO] = [2]int32{width, height}
}

func (r *Recorder) BindRenderTarget(fbo uint32) {
	r.record(Call{Op: OpBindRenderTarget, Handle: fbo})
	r.state.RenderTarget = fbo
}

func (r *Recorder) DeleteRenderTarget(t gpu.RenderTarget) {
	r.record(Call{Op: OpDeleteRenderTarget, Handle: t.FBO})
	delete(r.Targets, t.FBO)
}
