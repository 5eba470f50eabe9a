package viewer

import (
	"github.com/Faultbox/sceneview/internal/engine/input"
	"github.com/Faultbox/sceneview/pkg/math"
)

// HandleInput applies one frame of input. Dragging with the left button
// turns the camera, the wheel zooms, held arrow and page keys move the
// light by one step per frame, F12 takes a screenshot and R resets the
// camera.
func (v *Viewer) HandleInput(in *input.Input) {
	for _, e := range in.Events() {
		switch e.Type {
		case input.EventWindowResize:
			v.Resize(e.Width, e.Height)
		case input.EventMouseMove:
			if in.ButtonDown(input.ButtonLeft) {
				v.Scene.Camera.HandleDrag(e.DX, e.DY)
			}
		case input.EventMouseWheel:
			v.Scene.Camera.HandleZoom(e.Wheel)
		}
	}

	if in.IsKeyPressed(input.KeyF12) {
		v.RequestScreenshot()
	}
	if in.IsKeyPressed(input.KeyR) {
		v.Scene.Camera = NewCamera(v.cfg.Camera)
	}

	if d := lightDelta(in, v.cfg.Light.Step); d != (math.Vec3{}) {
		v.Scene.MoveLight(d)
	}
}

func lightDelta(in *input.Input, step float32) math.Vec3 {
	axis := func(neg, pos input.Key) float32 {
		var a float32
		if in.KeyHeld(pos) {
			a += step
		}
		if in.KeyHeld(neg) {
			a -= step
		}
		return a
	}
	return math.Vec3{
		X: axis(input.KeyLeft, input.KeyRight),
		Y: axis(input.KeyPageDown, input.KeyPageUp),
		Z: axis(input.KeyUp, input.KeyDown),
	}
}
