// Package viewer builds the scene described by the configuration and
// drives it from input, one frame at a time.
package viewer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/assets"
	"github.com/Faultbox/sceneview/internal/config"
	"github.com/Faultbox/sceneview/internal/engine/camera"
	"github.com/Faultbox/sceneview/internal/engine/debug"
	"github.com/Faultbox/sceneview/internal/engine/gpu"
	"github.com/Faultbox/sceneview/internal/engine/lighting"
	"github.com/Faultbox/sceneview/internal/engine/renderer"
	"github.com/Faultbox/sceneview/internal/engine/scene"
	"github.com/Faultbox/sceneview/internal/engine/scene/shaders"
	"github.com/Faultbox/sceneview/internal/engine/shader"
	"github.com/Faultbox/sceneview/internal/engine/texture"
	"github.com/Faultbox/sceneview/internal/logger"
	"github.com/Faultbox/sceneview/pkg/math"
)

// SphereName is the object name of the textured light sphere.
const SphereName = "sun"

// Viewer owns everything drawn in one window.
type Viewer struct {
	cfg *config.Config
	dev gpu.Device

	Assets   *assets.Manager
	Loader   *texture.Loader
	Renderer *renderer.Renderer
	Scene    *scene.Scene
	Sphere   *scene.Object

	phong    *shader.Program
	textured *shader.Program

	shots          *debug.ScreenshotCapture
	capturePending bool
	lastCapture    string
}

// New compiles the scene programs, creates the light sphere and loads
// every configured object. Objects that fail to load are logged and left
// out; failures of the programs or the sphere are returned.
func New(ctx context.Context, dev gpu.Device, cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		cfg:    cfg,
		dev:    dev,
		Assets: assets.NewManager(cfg.Scene.AssetRoot),
		shots:  debug.NewScreenshotCapture(cfg.Render.ScreenshotDir, "sceneview"),
	}
	v.Loader = texture.NewLoader(dev, v.Assets)

	w, h := int32(cfg.Graphics.Width), int32(cfg.Graphics.Height)
	c := cfg.Render.ClearColor
	v.Renderer = renderer.New(dev, renderer.Config{
		Width:         w,
		Height:        h,
		ClearColor:    [4]float32{c[0], c[1], c[2], 1},
		DepthTest:     cfg.Render.DepthTest,
		CullBackFaces: cfg.Render.CullBackFaces,
		Blending:      true,
	})

	var err error
	if v.phong, err = shader.Build(dev, "phong", shaders.PhongVertexShader, shaders.PhongFragmentShader); err != nil {
		v.Close()
		return nil, err
	}
	if v.textured, err = shader.Build(dev, "textured", shaders.TexturedVertexShader, shaders.TexturedFragmentShader); err != nil {
		v.Close()
		return nil, err
	}

	v.Scene = scene.New(scene.Config{
		Width:                 w,
		Height:                h,
		FovY:                  cfg.Camera.FOV,
		Near:                  cfg.Camera.Near,
		Far:                   cfg.Camera.Far,
		LightAsCameraPosition: cfg.Render.LightAsCameraPosition,
	}, NewCamera(cfg.Camera), NewLight(cfg.Light), v.Loader)

	if err := v.addSphere(ctx); err != nil {
		v.Close()
		return nil, err
	}

	for _, oc := range cfg.Scene.Objects {
		if _, err := v.LoadModel(ctx, oc.Name, oc.Path, oc.Position.Vec()); err != nil {
			logger.Error("object skipped", zap.String("name", oc.Name), zap.String("path", oc.Path), zap.Error(err))
		}
	}

	logger.Info("scene ready",
		zap.Int("objects", len(v.Scene.Objects())),
		zap.String("assets", cfg.Scene.AssetRoot),
	)
	return v, nil
}

func (v *Viewer) addSphere(ctx context.Context) error {
	sc := v.cfg.Scene.Sphere
	sphere, err := scene.NewTexturedSphere(ctx, v.dev, v.textured, v.Loader, scene.SphereOptions{
		Name:           SphereName,
		TexturePath:    sc.Texture,
		Radius:         sc.Radius,
		LatitudeBands:  sc.LatitudeBands,
		LongitudeBands: sc.LongitudeBands,
		Model:          math.TranslateVec(sc.Position.Vec()),
	})
	if err != nil {
		return fmt.Errorf("light sphere: %w", err)
	}

	v.Sphere = sphere
	if sc.FollowLight {
		v.Scene.AddFollower(sphere)
	} else {
		v.Scene.Add(sphere)
	}
	return nil
}

// NewCamera builds the camera selected by cfg.Mode.
func NewCamera(cfg config.CameraConfig) camera.Camera {
	if cfg.Mode == config.CameraOrbit {
		c := camera.NewOrbitCamera()
		c.Distance = cfg.Offset.Vec().Length()
		if cfg.ZoomSensitivity > 0 {
			c.ZoomSensitivity = cfg.ZoomSensitivity
		}
		return c
	}

	c := camera.NewTurntableCamera()
	c.Offset = cfg.Offset.Vec()
	if cfg.DragSensitivity > 0 {
		c.DragSensitivity = cfg.DragSensitivity
	}
	if cfg.ZoomSensitivity > 0 {
		c.ZoomSensitivity = cfg.ZoomSensitivity
	}
	return c
}

// NewLight builds the point light, clamped to the configured bounds.
func NewLight(cfg config.LightConfig) *lighting.PointLight {
	l := &lighting.PointLight{
		Color:     cfg.Color.Vec(),
		Intensity: cfg.Intensity,
		Bounds:    lighting.Bounds{Min: cfg.Min.Vec(), Max: cfg.Max.Vec()},
	}
	l.SetPosition(cfg.Position.Vec())
	return l
}

// LoadModel loads a mesh file and adds it to the scene at position.
func (v *Viewer) LoadModel(ctx context.Context, name, path string, position math.Vec3) (*scene.Object, error) {
	data, err := v.Assets.LoadMesh(ctx, path)
	if err != nil {
		return nil, err
	}
	obj, err := scene.NewMeshObject(v.dev, v.phong, name, data, math.TranslateVec(position))
	if err != nil {
		return nil, err
	}
	v.Scene.Add(obj)
	return obj, nil
}

// Resize adapts the viewport and projection to a new window size.
func (v *Viewer) Resize(width, height int32) {
	v.Renderer.Resize(width, height)
	v.Scene.Resize(width, height)
}

// RequestScreenshot saves the next rendered frame.
func (v *Viewer) RequestScreenshot() {
	v.capturePending = true
}

// LastScreenshot returns the path of the most recent screenshot.
func (v *Viewer) LastScreenshot() string {
	return v.lastCapture
}

// Frame clears the target and draws the scene. A requested screenshot is
// taken after the draw.
func (v *Viewer) Frame() error {
	v.Renderer.Begin()
	if err := v.Scene.Render(); err != nil {
		return err
	}

	if v.capturePending {
		v.capturePending = false
		path, err := v.shots.Capture(v.Renderer.Capture())
		if err != nil {
			logger.Error("screenshot failed", zap.Error(err))
		} else {
			v.lastCapture = path
		}
	}
	return nil
}

// Snapshot waits for pending textures, renders one frame and writes it
// to path as PNG.
func (v *Viewer) Snapshot(path string) error {
	v.Loader.Wait()
	if err := v.Frame(); err != nil {
		return err
	}
	if err := debug.WritePNG(path, v.Renderer.Capture()); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	logger.Info("snapshot written", zap.String("path", path))
	return nil
}

// Close releases every GPU resource the viewer created.
func (v *Viewer) Close() {
	if v.Scene != nil {
		v.Scene.Destroy()
	}
	if v.Loader != nil {
		v.Loader.Close()
	}
	if v.phong != nil {
		v.phong.Delete()
	}
	if v.textured != nil {
		v.textured.Delete()
	}
	v.Assets.Close()
}
