package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/config"
	"github.com/Faultbox/sceneview/internal/engine/framebuffer"
	"github.com/Faultbox/sceneview/internal/engine/gpu/opengl"
	"github.com/Faultbox/sceneview/internal/engine/scene"
	"github.com/Faultbox/sceneview/internal/engine/ui"
	"github.com/Faultbox/sceneview/internal/logger"
	"github.com/Faultbox/sceneview/internal/viewer"
	"github.com/Faultbox/sceneview/pkg/math"
)

const panelWidth = 300

// App holds the inspector state. It is created once the GL context exists.
type App struct {
	cfg     *config.Config
	backend *ui.Backend
	ctx     context.Context
	cancel  context.CancelFunc

	viewer *viewer.Viewer
	fb     *framebuffer.Framebuffer
	err    error

	light        [3]float32
	selected     *scene.Object
	lastMousePos imgui.Vec2
	status       string

	mu          sync.Mutex
	pendingPath string
}

// NewApp builds the viewer scene on the backend's GL context.
func NewApp(cfg *config.Config, backend *ui.Backend) *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{cfg: cfg, backend: backend, ctx: ctx, cancel: cancel}

	dev := opengl.New()
	v, err := viewer.New(ctx, dev, cfg)
	if err != nil {
		logger.Error("scene setup failed", zap.Error(err))
		app.err = err
		return app
	}
	app.viewer = v
	app.light = v.Scene.Light.Position.Array()

	app.fb, err = framebuffer.New(dev, int32(cfg.Graphics.Width), int32(cfg.Graphics.Height))
	if err != nil {
		logger.Error("viewport framebuffer failed", zap.Error(err))
		app.err = err
	}
	return app
}

// Close releases the scene and the framebuffer.
func (app *App) Close() {
	app.cancel()
	if app.fb != nil {
		app.fb.Destroy()
	}
	if app.viewer != nil {
		app.viewer.Close()
	}
}

// openModelDialog picks a model file off the UI thread; the load itself
// happens in render on the GL thread.
func (app *App) openModelDialog() {
	go func() {
		filename, err := dialog.File().
			Filter("Models", "obj", "gltf", "glb").
			Filter("All Files", "*").
			Title("Open Model").
			Load()
		if err != nil {
			if err != dialog.ErrCancelled {
				logger.Error("file dialog failed", zap.Error(err))
			}
			return
		}
		app.mu.Lock()
		app.pendingPath = filename
		app.mu.Unlock()
	}()
}

func (app *App) takePending() string {
	app.mu.Lock()
	defer app.mu.Unlock()
	p := app.pendingPath
	app.pendingPath = ""
	return p
}

func (app *App) loadModel(path string) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if _, err := app.viewer.LoadModel(app.ctx, name, abs, math.Vec3{}); err != nil {
		logger.Error("model load failed", zap.String("path", path), zap.Error(err))
		app.status = fmt.Sprintf("Failed to load %s: %v", filepath.Base(path), err)
		return
	}
	app.status = "Loaded " + filepath.Base(path)
	app.backend.SetWindowTitle("SceneView Inspector - " + filepath.Base(path))
}

func (app *App) render() {
	if app.err != nil {
		imgui.Begin("Error")
		imgui.Text(app.err.Error())
		imgui.End()
		return
	}

	if p := app.takePending(); p != "" {
		app.loadModel(p)
	}

	app.renderMenu()

	x, y, w, h := ui.Viewport()
	imgui.SetNextWindowPosV(imgui.NewVec2(x, y), imgui.CondAlways, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(panelWidth, h), imgui.CondAlways)
	if imgui.BeginV("Controls", nil, imgui.WindowFlagsNoMove|imgui.WindowFlagsNoResize|imgui.WindowFlagsNoCollapse) {
		app.renderLightControls()
		imgui.Separator()
		app.renderObjectList()
		if app.status != "" {
			imgui.Separator()
			imgui.TextWrapped(app.status)
		}
	}
	imgui.End()

	imgui.SetNextWindowPosV(imgui.NewVec2(x+panelWidth, y), imgui.CondAlways, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(w-panelWidth, h), imgui.CondAlways)
	if imgui.BeginV("Viewport", nil, imgui.WindowFlagsNoMove|imgui.WindowFlagsNoResize|imgui.WindowFlagsNoCollapse|imgui.WindowFlagsNoScrollbar) {
		app.renderViewport()
	}
	imgui.End()
}

func (app *App) renderMenu() {
	if !imgui.BeginMainMenuBar() {
		return
	}
	if imgui.BeginMenu("File") {
		if imgui.MenuItemBool("Open model...") {
			app.openModelDialog()
		}
		if imgui.MenuItemBool("Screenshot") {
			app.viewer.RequestScreenshot()
		}
		imgui.Separator()
		if imgui.MenuItemBool("Exit") {
			app.backend.SetShouldClose()
		}
		imgui.EndMenu()
	}
	imgui.EndMainMenuBar()
}

func (app *App) renderLightControls() {
	imgui.Text("Light")
	b := app.viewer.Scene.Light.Bounds
	lo, hi := b.Min.Array(), b.Max.Array()

	changed := false
	for i, label := range []string{"X", "Y", "Z"} {
		if imgui.SliderFloatV(label, &app.light[i], lo[i], hi[i], "%.2f", imgui.SliderFlagsNone) {
			changed = true
		}
	}
	if changed {
		p := app.viewer.Scene.SetLightPosition(math.Vec3{X: app.light[0], Y: app.light[1], Z: app.light[2]})
		app.light = p.Array()
	}
}

func (app *App) renderObjectList() {
	imgui.Text("Objects")
	for i, o := range app.viewer.Scene.Objects() {
		visible := o.Visible
		if imgui.Checkbox(fmt.Sprintf("%s##obj%d", o.Name, i), &visible) {
			o.Visible = visible
		}
		imgui.SameLine()
		if o == app.selected {
			imgui.TextColored(imgui.NewVec4(1, 0.8, 0, 1), fmt.Sprintf("%s, %d indices", o.Kind, o.IndexCount()))
		} else {
			imgui.TextDisabled(fmt.Sprintf("%s, %d indices", o.Kind, o.IndexCount()))
		}
	}

	if app.selected != nil {
		b := app.selected.Bounds()
		imgui.Spacing()
		imgui.Text("Selected: " + app.selected.Name)
		imgui.TextDisabled(fmt.Sprintf("min (%.2f, %.2f, %.2f)", b.Min.X, b.Min.Y, b.Min.Z))
		imgui.TextDisabled(fmt.Sprintf("max (%.2f, %.2f, %.2f)", b.Max.X, b.Max.Y, b.Max.Z))
	}
}

func (app *App) renderViewport() {
	avail := imgui.ContentRegionAvail()
	w, h := int32(avail.X), int32(avail.Y)
	if w < 1 || h < 1 {
		return
	}
	app.fb.Resize(w, h)
	app.viewer.Resize(w, h)

	restore := app.fb.Bind(ui.DrawableSize())
	err := app.viewer.Frame()
	restore()
	if err != nil {
		logger.Frame().Error("frame failed", zap.Error(err))
	}

	ui.Image(app.fb.ColorTexture(), avail.X, avail.Y)

	if imgui.IsItemHovered() {
		mousePos := imgui.MousePos()
		if imgui.IsMouseDragging(imgui.MouseButtonLeft) {
			app.viewer.Scene.Camera.HandleDrag(mousePos.X-app.lastMousePos.X, mousePos.Y-app.lastMousePos.Y)
		}
		app.lastMousePos = mousePos

		if wheel := imgui.CurrentIO().MouseWheel(); wheel != 0 {
			app.viewer.Scene.Camera.HandleZoom(wheel)
		}

		// Click selects the object under the cursor
		if imgui.IsItemClicked() {
			origin := imgui.ItemRectMin()
			app.selected = app.viewer.Scene.Pick(mousePos.X-origin.X, mousePos.Y-origin.Y)
		}
	}
	if ui.IsKeyPressed(imgui.KeyF12) {
		app.viewer.RequestScreenshot()
	}
}
