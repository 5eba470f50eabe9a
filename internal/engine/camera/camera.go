// Package camera provides camera implementations for 3D rendering.
package camera

import (
	gomath "math"

	"github.com/Faultbox/sceneview/pkg/math"
)

// Camera produces a view matrix and reacts to pointer input.
type Camera interface {
	ViewMatrix() math.Mat4
	Position() math.Vec3
	HandleDrag(deltaX, deltaY float32)
	HandleZoom(delta float32)
}

var (
	_ Camera = (*TurntableCamera)(nil)
	_ Camera = (*OrbitCamera)(nil)
)

// TurntableCamera looks at the scene from a fixed offset and rotates the
// world around its origin. Rotations are in degrees.
type TurntableCamera struct {
	Offset    math.Vec3
	RotationX float32 // Pitch (degrees)
	RotationY float32 // Yaw (degrees)

	MinDistance float32
	MaxDistance float32

	DragSensitivity float32 // degrees per pixel
	ZoomSensitivity float32
}

// NewTurntableCamera creates a turntable camera 10 units back and 2 units
// above the origin.
func NewTurntableCamera() *TurntableCamera {
	return &TurntableCamera{
		Offset:          math.Vec3{X: 0, Y: -2, Z: -10},
		MinDistance:     1,
		MaxDistance:     100,
		DragSensitivity: 0.2,
		ZoomSensitivity: 0.1,
	}
}

// ViewMatrix returns translate(offset) * rotX(-pitch) * rotY(-yaw).
func (c *TurntableCamera) ViewMatrix() math.Mat4 {
	return math.TranslateVec(c.Offset).
		Mul(math.RotateX(-math.Radians(c.RotationX))).
		Mul(math.RotateY(-math.Radians(c.RotationY)))
}

// Position returns the eye position in world space.
func (c *TurntableCamera) Position() math.Vec3 {
	inv := c.ViewMatrix().Inverse()
	return math.Vec3{X: inv[12], Y: inv[13], Z: inv[14]}
}

// HandleDrag rotates by the mouse delta in pixels.
func (c *TurntableCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationX += deltaY * c.DragSensitivity
	c.RotationY += deltaX * c.DragSensitivity
}

// HandleZoom moves the eye along the view axis. Positive delta zooms in.
func (c *TurntableCamera) HandleZoom(delta float32) {
	dist := -c.Offset.Z
	dist -= delta * dist * c.ZoomSensitivity
	dist = float32(gomath.Max(float64(c.MinDistance), gomath.Min(float64(c.MaxDistance), float64(dist))))
	c.Offset.Z = -dist
}

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates
	Distance  float32
	RotationX float32 // Pitch (radians)
	RotationY float32 // Yaw (radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates an orbit camera framing the default scene.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        10,
		RotationX:       0.2,
		MinDistance:     1,
		MaxDistance:     100,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	sinX, cosX := gomath.Sincos(float64(c.RotationX))
	sinY, cosY := gomath.Sincos(float64(c.RotationY))

	return c.Center.Add(math.Vec3{
		X: c.Distance * float32(cosX*sinY),
		Y: c.Distance * float32(sinX),
		Z: c.Distance * float32(cosX*cosY),
	})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3{X: 0, Y: 1, Z: 0})
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity

	if c.RotationX < c.MinPitch {
		c.RotationX = c.MinPitch
	}
	if c.RotationX > c.MaxPitch {
		c.RotationX = c.MaxPitch
	}
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// HandleMovement pans the center point. forward and right follow the
// current yaw; up moves along world Y.
func (c *OrbitCamera) HandleMovement(forward, right, up float32) {
	speed := c.Distance * 0.01
	sinY, cosY := gomath.Sincos(float64(c.RotationY))

	c.Center.X += (-float32(sinY)*forward + float32(cosY)*right) * speed
	c.Center.Z += (-float32(cosY)*forward - float32(sinY)*right) * speed
	c.Center.Y += up * speed
}
