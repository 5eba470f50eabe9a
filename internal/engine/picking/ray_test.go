package picking

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/sceneview/pkg/math"
)

func approx(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-4
}

func unitBox() AABB {
	return NewAABB(math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1})
}

func TestIntersectAABB(t *testing.T) {
	tests := []struct {
		name    string
		ray     Ray
		wantHit bool
		wantT   float32
	}{
		{"hit from front", Ray{Origin: math.Vec3{Z: 5}, Direction: math.Vec3{Z: -1}}, true, 4},
		{"miss beside", Ray{Origin: math.Vec3{X: 3, Z: 5}, Direction: math.Vec3{Z: -1}}, false, 0},
		{"behind origin", Ray{Origin: math.Vec3{Z: 5}, Direction: math.Vec3{Z: 1}}, false, 0},
		{"inside", Ray{Origin: math.Vec3{}, Direction: math.Vec3{X: 1}}, true, 1},
		{"parallel outside slab", Ray{Origin: math.Vec3{Y: 2, Z: 5}, Direction: math.Vec3{Z: -1}}, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := tt.ray.IntersectAABB(unitBox())
			if hit != tt.wantHit {
				t.Fatalf("hit = %v, want %v", hit, tt.wantHit)
			}
			if hit && !approx(got, tt.wantT) {
				t.Errorf("t = %f, want %f", got, tt.wantT)
			}
		})
	}
}

func TestNewAABBOrdersCorners(t *testing.T) {
	box := NewAABB(math.Vec3{X: 1, Y: -2, Z: 3}, math.Vec3{X: -1, Y: 2, Z: -3})
	if box.Min != (math.Vec3{X: -1, Y: -2, Z: -3}) || box.Max != (math.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("unexpected box %+v", box)
	}
}

func TestBoundsOf(t *testing.T) {
	box := BoundsOf([]float32{0, 0, 0, 2, -1, 0, 1, 3, -4})
	if box.Min != (math.Vec3{X: 0, Y: -1, Z: -4}) || box.Max != (math.Vec3{X: 2, Y: 3, Z: 0}) {
		t.Errorf("unexpected box %+v", box)
	}
	if empty := BoundsOf(nil); empty != (AABB{}) {
		t.Errorf("empty bounds = %+v", empty)
	}
}

func TestTransform(t *testing.T) {
	box := unitBox().Transform(math.Translate(5, 0, 0).Mul(math.Scale(2, 1, 1)))
	if !approx(box.Min.X, 3) || !approx(box.Max.X, 7) {
		t.Errorf("x range %f..%f, want 3..7", box.Min.X, box.Max.X)
	}
	if !approx(box.Min.Y, -1) || !approx(box.Max.Y, 1) {
		t.Errorf("y range %f..%f, want -1..1", box.Min.Y, box.Max.Y)
	}
}

func TestScreenToRay(t *testing.T) {
	view := math.LookAt(math.Vec3{Z: 10}, math.Vec3{}, math.Vec3{Y: 1})
	proj := math.Perspective(math.Radians(45), 1, 0.1, 100)
	inv := proj.Mul(view).Inverse()

	// The center pixel looks straight down -Z at the origin.
	r := ScreenToRay(50, 50, 100, 100, inv)
	if !approx(r.Direction.X, 0) || !approx(r.Direction.Y, 0) || !approx(r.Direction.Z, -1) {
		t.Errorf("direction = %+v, want (0, 0, -1)", r.Direction)
	}
	if _, hit := r.IntersectAABB(unitBox()); !hit {
		t.Error("center ray should hit the box at the origin")
	}

	// A corner pixel misses it.
	r = ScreenToRay(0, 0, 100, 100, inv)
	if _, hit := r.IntersectAABB(unitBox()); hit {
		t.Error("corner ray should miss the box")
	}
	if r.Direction.X >= 0 || r.Direction.Y <= 0 {
		t.Errorf("top-left ray should point left and up, got %+v", r.Direction)
	}
}
