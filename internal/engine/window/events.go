package window

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/sceneview/internal/engine/input"
)

var keymap = map[sdl.Scancode]input.Key{
	sdl.SCANCODE_LEFT:     input.KeyLeft,
	sdl.SCANCODE_RIGHT:    input.KeyRight,
	sdl.SCANCODE_UP:       input.KeyUp,
	sdl.SCANCODE_DOWN:     input.KeyDown,
	sdl.SCANCODE_PAGEUP:   input.KeyPageUp,
	sdl.SCANCODE_PAGEDOWN: input.KeyPageDown,
	sdl.SCANCODE_F12:      input.KeyF12,
	sdl.SCANCODE_ESCAPE:   input.KeyEscape,
	sdl.SCANCODE_R:        input.KeyR,
}

// PollEvents drains the SDL queue into in. Resize events carry the
// drawable size in pixels. It returns true when the window should close.
func (w *Window) PollEvents(in *input.Input) bool {
	in.Begin()
	quit := false

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			in.Push(input.Event{Type: input.EventQuit})
			quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				dw, dh := w.DrawableSize()
				in.Push(input.Event{Type: input.EventWindowResize, Width: dw, Height: dh})
			}

		case *sdl.KeyboardEvent:
			k, ok := keymap[e.Keysym.Scancode]
			if !ok {
				continue
			}
			switch e.Type {
			case sdl.KEYDOWN:
				in.Push(input.Event{Type: input.EventKeyDown, Key: k})
			case sdl.KEYUP:
				in.Push(input.Event{Type: input.EventKeyUp, Key: k})
			}

		case *sdl.MouseMotionEvent:
			in.Push(input.Event{
				Type:   input.EventMouseMove,
				MouseX: e.X,
				MouseY: e.Y,
				DX:     float32(e.XRel),
				DY:     float32(e.YRel),
			})

		case *sdl.MouseButtonEvent:
			t := input.EventMouseDown
			if e.Type == sdl.MOUSEBUTTONUP {
				t = input.EventMouseUp
			}
			in.Push(input.Event{Type: t, MouseX: e.X, MouseY: e.Y, Button: e.Button})

		case *sdl.MouseWheelEvent:
			y := float32(e.Y)
			if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
				y = -y
			}
			in.Push(input.Event{Type: input.EventMouseWheel, Wheel: y})
		}
	}

	return quit
}
