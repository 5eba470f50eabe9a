// Package input holds window-system independent input events and the
// per-frame state derived from them.
package input

// EventType identifies an input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Key is a keyboard key the viewer reacts to.
type Key int

const (
	KeyUnknown Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyPageUp
	KeyPageDown
	KeyF12
	KeyEscape
	KeyR
)

// Mouse buttons.
const (
	ButtonLeft   uint8 = 1
	ButtonMiddle uint8 = 2
	ButtonRight  uint8 = 3
)

// Event is one translated input event.
type Event struct {
	Type   EventType
	Key    Key
	Width  int32
	Height int32
	MouseX int32
	MouseY int32
	// DX and DY are the relative motion of a mouse move.
	DX, DY float32
	// Wheel is the vertical scroll amount, positive away from the user.
	Wheel  float32
	Button uint8
}

// Input collects the events of one frame and tracks held buttons.
type Input struct {
	events  []Event
	buttons map[uint8]bool
	keys    map[Key]bool
}

// New creates an input handler.
func New() *Input {
	return &Input{
		events:  make([]Event, 0, 16),
		buttons: make(map[uint8]bool),
		keys:    make(map[Key]bool),
	}
}

// Begin drops the previous frame's events.
func (i *Input) Begin() {
	i.events = i.events[:0]
}

// Push records an event and updates held state.
func (i *Input) Push(e Event) {
	switch e.Type {
	case EventMouseDown:
		i.buttons[e.Button] = true
	case EventMouseUp:
		i.buttons[e.Button] = false
	case EventKeyDown:
		i.keys[e.Key] = true
	case EventKeyUp:
		i.keys[e.Key] = false
	}
	i.events = append(i.events, e)
}

// Events returns the events pushed since Begin.
func (i *Input) Events() []Event {
	return i.events
}

// ButtonDown reports whether a mouse button is held.
func (i *Input) ButtonDown(button uint8) bool {
	return i.buttons[button]
}

// KeyHeld reports whether a key is held.
func (i *Input) KeyHeld(k Key) bool {
	return i.keys[k]
}

// IsKeyPressed reports whether k went down this frame.
func (i *Input) IsKeyPressed(k Key) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == k {
			return true
		}
	}
	return false
}

// QuitRequested reports whether a quit event arrived this frame.
func (i *Input) QuitRequested() bool {
	for _, e := range i.events {
		if e.Type == EventQuit {
			return true
		}
	}
	return false
}
