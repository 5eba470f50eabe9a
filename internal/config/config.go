// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/sceneview/pkg/math"
)

// Camera modes.
const (
	CameraTurntable = "turntable"
	CameraOrbit     = "orbit"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Camera   CameraConfig   `yaml:"camera"`
	Light    LightConfig    `yaml:"light"`
	Scene    SceneConfig    `yaml:"scene"`
	Render   RenderConfig   `yaml:"render"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// Vec3 is a YAML-friendly three component vector, written as [x, y, z].
type Vec3 [3]float32

// Vec converts v to a math vector.
func (v Vec3) Vec() math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// CameraConfig holds camera and projection settings.
type CameraConfig struct {
	Mode            string  `yaml:"mode"`
	Offset          Vec3    `yaml:"offset"`
	DragSensitivity float32 `yaml:"drag_sensitivity"` // degrees per pixel
	ZoomSensitivity float32 `yaml:"zoom_sensitivity"`
	FOV             float32 `yaml:"fov"` // degrees
	Near            float32 `yaml:"near"`
	Far             float32 `yaml:"far"`
}

// LightConfig holds the point light and its slider range.
type LightConfig struct {
	Position  Vec3    `yaml:"position"`
	Color     Vec3    `yaml:"color"`
	Intensity float32 `yaml:"intensity"`
	Min       Vec3    `yaml:"min"`
	Max       Vec3    `yaml:"max"`
	Step      float32 `yaml:"step"`
}

// SceneConfig lists what the viewer loads.
type SceneConfig struct {
	AssetRoot string         `yaml:"asset_root"`
	Sphere    SphereConfig   `yaml:"sphere"`
	Objects   []ObjectConfig `yaml:"objects"`
}

// SphereConfig describes the textured light sphere.
type SphereConfig struct {
	Texture        string  `yaml:"texture"`
	Radius         float32 `yaml:"radius"`
	LatitudeBands  int     `yaml:"latitude_bands"`
	LongitudeBands int     `yaml:"longitude_bands"`
	Position       Vec3    `yaml:"position"`
	FollowLight    bool    `yaml:"follow_light"`
}

// ObjectConfig places one mesh file in the scene.
type ObjectConfig struct {
	Name     string `yaml:"name"`
	Path     string `yaml:"path"`
	Position Vec3   `yaml:"position"`
}

// RenderConfig holds GL state and output settings.
type RenderConfig struct {
	ClearColor            Vec3   `yaml:"clear_color"`
	CullBackFaces         bool   `yaml:"cull_back_faces"`
	DepthTest             bool   `yaml:"depth_test"`
	LightAsCameraPosition bool   `yaml:"light_as_camera_position"`
	ScreenshotDir         string `yaml:"screenshot_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      960,
			Height:     540,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		Camera: CameraConfig{
			Mode:            CameraTurntable,
			Offset:          Vec3{0, -2, -10},
			DragSensitivity: 0.2,
			ZoomSensitivity: 0.1,
			FOV:             45,
			Near:            0.1,
			Far:             100,
		},
		Light: LightConfig{
			Position:  Vec3{0, 3, 0},
			Color:     Vec3{1, 1, 1},
			Intensity: 1,
			Min:       Vec3{-10, 1, -10},
			Max:       Vec3{10, 10, 10},
			Step:      0.1,
		},
		Scene: SceneConfig{
			AssetRoot: "assets",
			Sphere: SphereConfig{
				Texture:        "textures/sun.png",
				Radius:         0.2,
				LatitudeBands:  30,
				LongitudeBands: 30,
				Position:       Vec3{0, 2, 0},
				FollowLight:    true,
			},
			Objects: []ObjectConfig{
				{Name: "cube", Path: "models/cube.obj"},
				{Name: "car", Path: "models/car.obj", Position: Vec3{0, 0.1, 0}},
				{Name: "lamppost", Path: "models/lamppost.obj", Position: Vec3{-0.5, 0, 0}},
			},
		},
		Render: RenderConfig{
			ClearColor:    Vec3{0, 0, 0},
			CullBackFaces: true,
			DepthTest:     true,
			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports settings the viewer cannot start with.
func (c *Config) Validate() error {
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Graphics.Width, c.Graphics.Height)
	}
	if c.Camera.Mode != CameraTurntable && c.Camera.Mode != CameraOrbit {
		return fmt.Errorf("%w: camera mode %q", ErrInvalid, c.Camera.Mode)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("%w: clip planes %v..%v", ErrInvalid, c.Camera.Near, c.Camera.Far)
	}
	for i := range c.Light.Min {
		if c.Light.Min[i] > c.Light.Max[i] {
			return fmt.Errorf("%w: light bounds %v..%v", ErrInvalid, c.Light.Min, c.Light.Max)
		}
	}
	s := c.Scene.Sphere
	if s.Radius <= 0 || s.LatitudeBands < 1 || s.LongitudeBands < 1 {
		return fmt.Errorf("%w: sphere radius %v, bands %dx%d", ErrInvalid, s.Radius, s.LatitudeBands, s.LongitudeBands)
	}
	names := make(map[string]bool, len(c.Scene.Objects))
	for _, o := range c.Scene.Objects {
		if o.Name == "" || o.Path == "" {
			return fmt.Errorf("%w: object needs a name and a path", ErrInvalid)
		}
		if names[o.Name] {
			return fmt.Errorf("%w: duplicate object %q", ErrInvalid, o.Name)
		}
		names[o.Name] = true
	}
	return nil
}
