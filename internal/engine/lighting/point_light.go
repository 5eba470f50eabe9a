// Package lighting provides the scene's single point light.
package lighting

import (
	"github.com/Faultbox/sceneview/pkg/math"
)

// Bounds is the box a light may be moved within.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// DefaultBounds returns the slider range of the light controls.
func DefaultBounds() Bounds {
	return Bounds{
		Min: math.Vec3{X: -10, Y: 1, Z: -10},
		Max: math.Vec3{X: 10, Y: 10, Z: 10},
	}
}

// PointLight is an omnidirectional light source.
type PointLight struct {
	Position  math.Vec3
	Color     math.Vec3
	Intensity float32
	Bounds    Bounds
}

// NewPointLight returns a white, unit intensity light at position,
// constrained to DefaultBounds.
func NewPointLight(position math.Vec3) *PointLight {
	l := &PointLight{
		Color:     math.Vec3{X: 1, Y: 1, Z: 1},
		Intensity: 1,
		Bounds:    DefaultBounds(),
	}
	l.SetPosition(position)
	return l
}

// SetPosition moves the light, clamped to its bounds, and returns the
// position actually applied.
func (l *PointLight) SetPosition(p math.Vec3) math.Vec3 {
	l.Position = p.Clamp(l.Bounds.Min, l.Bounds.Max)
	return l.Position
}

// Move offsets the light by delta.
func (l *PointLight) Move(delta math.Vec3) math.Vec3 {
	return l.SetPosition(l.Position.Add(delta))
}
