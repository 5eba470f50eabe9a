// Package scene places drawable objects under one camera and one point
// light and draws them every frame.
package scene

import (
	"github.com/Faultbox/sceneview/internal/engine/camera"
	"github.com/Faultbox/sceneview/internal/engine/lighting"
	"github.com/Faultbox/sceneview/internal/engine/picking"
	"github.com/Faultbox/sceneview/internal/engine/texture"
	"github.com/Faultbox/sceneview/pkg/math"
)

// Config contains scene configuration options.
type Config struct {
	Width  int32
	Height int32

	FovY float32 // degrees
	Near float32
	Far  float32

	// LightAsCameraPosition fills the camera position uniform with the
	// light position instead of the eye position.
	LightAsCameraPosition bool
}

// DefaultConfig returns a default scene configuration.
func DefaultConfig() Config {
	return Config{
		Width:  960,
		Height: 540,
		FovY:   45,
		Near:   0.1,
		Far:    100,
	}
}

// Scene owns the objects, the camera and the light.
type Scene struct {
	config Config

	Camera camera.Camera
	Light  *lighting.PointLight

	objects   []*Object
	followers []*Object
	loader    *texture.Loader
}

// New creates an empty scene. loader may be nil when no object loads
// textures.
func New(cfg Config, cam camera.Camera, light *lighting.PointLight, loader *texture.Loader) *Scene {
	return &Scene{
		config: cfg,
		Camera: cam,
		Light:  light,
		loader: loader,
	}
}

// Add appends obj to the draw list. Objects draw in insertion order.
func (s *Scene) Add(obj *Object) {
	s.objects = append(s.objects, obj)
}

// AddFollower adds obj and keeps it translated to the light position.
func (s *Scene) AddFollower(obj *Object) {
	s.Add(obj)
	s.followers = append(s.followers, obj)
	obj.Model = math.TranslateVec(s.Light.Position)
}

// Objects returns the draw list.
func (s *Scene) Objects() []*Object {
	return s.objects
}

// Find returns the first object with the given name.
func (s *Scene) Find(name string) *Object {
	for _, o := range s.objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// SetLightPosition moves the light within its bounds and re-anchors every
// follower on it.
func (s *Scene) SetLightPosition(p math.Vec3) math.Vec3 {
	applied := s.Light.SetPosition(p)
	s.syncFollowers()
	return applied
}

// MoveLight offsets the light by delta.
func (s *Scene) MoveLight(delta math.Vec3) math.Vec3 {
	return s.SetLightPosition(s.Light.Position.Add(delta))
}

func (s *Scene) syncFollowers() {
	for _, o := range s.followers {
		o.Model = math.TranslateVec(s.Light.Position)
	}
}

// Pick returns the nearest visible object whose bounds the ray through
// screen pixel (x, y) hits, or nil.
func (s *Scene) Pick(x, y float32) *Object {
	invViewProj := s.Projection().Mul(s.Camera.ViewMatrix()).Inverse()
	ray := picking.ScreenToRay(x, y, float32(s.config.Width), float32(s.config.Height), invViewProj)

	var (
		picked  *Object
		nearest float32
	)
	for _, o := range s.objects {
		if !o.Visible {
			continue
		}
		t, hit := ray.IntersectAABB(o.Bounds())
		if hit && (picked == nil || t < nearest) {
			picked, nearest = o, t
		}
	}
	return picked
}

// Resize updates the projection aspect ratio.
func (s *Scene) Resize(width, height int32) {
	if width <= 0 || height <= 0 {
		return
	}
	s.config.Width = width
	s.config.Height = height
}

// Size returns the current viewport size.
func (s *Scene) Size() (int32, int32) {
	return s.config.Width, s.config.Height
}

// Projection returns the perspective projection for the current size.
func (s *Scene) Projection() math.Mat4 {
	aspect := float32(s.config.Width) / float32(s.config.Height)
	return math.Perspective(math.Radians(s.config.FovY), aspect, s.config.Near, s.config.Far)
}

// FrameContext computes the shared per-frame draw state.
func (s *Scene) FrameContext() FrameContext {
	fc := FrameContext{
		View:           s.Camera.ViewMatrix(),
		Projection:     s.Projection(),
		LightPosition:  s.Light.Position,
		LightColor:     s.Light.Color,
		LightIntensity: s.Light.Intensity,
		CameraPosition: s.Camera.Position(),
	}
	if s.config.LightAsCameraPosition {
		fc.CameraPosition = s.Light.Position
	}
	return fc
}

// Render publishes finished texture loads and draws every object.
// It stops at the first draw error.
func (s *Scene) Render() error {
	if s.loader != nil {
		s.loader.Poll()
	}
	fc := s.FrameContext()
	for _, o := range s.objects {
		if err := o.Draw(fc); err != nil {
			return err
		}
	}
	return nil
}

// Destroy releases every object.
func (s *Scene) Destroy() {
	for _, o := range s.objects {
		o.Release()
	}
	s.objects = nil
	s.followers = nil
}
