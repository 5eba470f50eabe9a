package renderer

import (
	"testing"

	"github.com/Faultbox/sceneview/internal/engine/gpu/gputest"
)

func TestNewAppliesState(t *testing.T) {
	rec := gputest.NewRecorder(nil, nil)
	New(rec, Config{
		Width:         640,
		Height:        480,
		ClearColor:    [4]float32{0.1, 0.2, 0.3, 1},
		DepthTest:     true,
		CullBackFaces: true,
		Blending:      true,
	})

	st := rec.State()
	if st.Viewport != [2]int32{640, 480} {
		t.Errorf("viewport = %v", st.Viewport)
	}
	if st.ClearColor != [4]float32{0.1, 0.2, 0.3, 1} {
		t.Errorf("clear color = %v", st.ClearColor)
	}
	if !st.DepthTest || !st.CullBack || !st.Blending {
		t.Errorf("expected depth, cull and blend enabled: %+v", st)
	}
}

func TestResize(t *testing.T) {
	rec := gputest.NewRecorder(nil, nil)
	r := New(rec, Config{Width: 640, Height: 480})

	r.Resize(0, 100)
	if w, h := r.Size(); w != 640 || h != 480 {
		t.Errorf("minimized resize changed size to %dx%d", w, h)
	}

	r.Resize(800, 600)
	if rec.State().Viewport != [2]int32{800, 600} {
		t.Errorf("viewport = %v, want 800x600", rec.State().Viewport)
	}
}

func TestBeginClears(t *testing.T) {
	rec := gputest.NewRecorder(nil, nil)
	r := New(rec, Config{Width: 1, Height: 1})
	r.Begin()
	if n := rec.Count(gputest.OpClear); n != 1 {
		t.Errorf("expected 1 clear, got %d", n)
	}
}

func TestCaptureFlipsRows(t *testing.T) {
	rec := gputest.NewRecorder(nil, nil)
	r := New(rec, Config{Width: 1, Height: 2})

	// Bottom row red, top row blue, as GL returns them.
	rec.Pixels = []byte{255, 0, 0, 255, 0, 0, 255, 255}

	img := r.Capture()
	if img.Bounds().Dx() != 1 || img.Bounds().Dy() != 2 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	if got := img.RGBAAt(0, 0); got.B != 255 || got.R != 0 {
		t.Errorf("top pixel = %v, want blue", got)
	}
	if got := img.RGBAAt(0, 1); got.R != 255 || got.B != 0 {
		t.Errorf("bottom pixel = %v, want red", got)
	}
}
