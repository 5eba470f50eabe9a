package input

import "testing"

func TestHeldState(t *testing.T) {
	in := New()
	in.Begin()
	in.Push(Event{Type: EventMouseDown, Button: ButtonLeft})
	in.Push(Event{Type: EventKeyDown, Key: KeyLeft})

	if !in.ButtonDown(ButtonLeft) {
		t.Error("left button should be held")
	}
	if in.ButtonDown(ButtonRight) {
		t.Error("right button should not be held")
	}
	if !in.IsKeyPressed(KeyLeft) || !in.KeyHeld(KeyLeft) {
		t.Error("left key should be pressed and held")
	}

	// Held state survives the next frame; presses do not.
	in.Begin()
	if in.IsKeyPressed(KeyLeft) {
		t.Error("press should not carry over")
	}
	if !in.KeyHeld(KeyLeft) || !in.ButtonDown(ButtonLeft) {
		t.Error("held state should carry over")
	}

	in.Push(Event{Type: EventMouseUp, Button: ButtonLeft})
	in.Push(Event{Type: EventKeyUp, Key: KeyLeft})
	if in.ButtonDown(ButtonLeft) || in.KeyHeld(KeyLeft) {
		t.Error("release should clear held state")
	}
	if len(in.Events()) != 2 {
		t.Errorf("expected 2 events, got %d", len(in.Events()))
	}
}

func TestQuitRequested(t *testing.T) {
	in := New()
	in.Begin()
	if in.QuitRequested() {
		t.Error("unexpected quit")
	}
	in.Push(Event{Type: EventQuit})
	if !in.QuitRequested() {
		t.Error("expected quit")
	}
}
