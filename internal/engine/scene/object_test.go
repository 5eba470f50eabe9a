package scene

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/Faultbox/sceneview/internal/engine/geometry"
	"github.com/Faultbox/sceneview/internal/engine/gpu/gputest"
	"github.com/Faultbox/sceneview/internal/engine/material"
	"github.com/Faultbox/sceneview/internal/engine/mesh"
	"github.com/Faultbox/sceneview/internal/engine/shader"
	"github.com/Faultbox/sceneview/internal/engine/texture"
	"github.com/Faultbox/sceneview/pkg/math"
)

var (
	testAttribs  = []string{geometry.AttribPosition, geometry.AttribNormal, geometry.AttribUV}
	testUniforms = []string{
		UniformModel, UniformView, UniformProjection, UniformNormal,
		UniformCameraPosition, UniformLightPosition, UniformLightColor, UniformLightIntensity,
		UniformTexture,
		material.UniformShininess, material.UniformAmbient, material.UniformDiffuse,
		material.UniformSpecular, material.UniformEmissive, material.UniformDensity,
		material.UniformTransparency,
	}
)

func newTestProgram(t *testing.T) (*gputest.Recorder, *shader.Program) {
	t.Helper()
	rec := gputest.NewRecorder(testAttribs, testUniforms)
	prog, err := shader.Build(rec, "test", "vs", "fs")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return rec, prog
}

func referenceMaterial() material.Material {
	return material.Material{
		Name:              "ref",
		ShininessConstant: 32,
		AmbientColor:      math.Vec3{X: 0.1, Y: 0.1, Z: 0.1},
		DiffuseColor:      math.Vec3{X: 0.8, Y: 0.8, Z: 0.8},
		SpecularColor:     math.Vec3{X: 1, Y: 1, Z: 1},
		EmissiveColor:     math.Vec3{},
		Density:           1,
		Transparency:      1,
	}
}

// quad is two triangles in one group using the reference material.
func quad() *mesh.Data {
	indices := []uint16{0, 1, 2, 0, 2, 3}
	return &mesh.Data{
		Positions: []float32{-1, -1, 0, 1, -1, 0, 1, 1, 0, -1, 1, 0},
		Normals:   []float32{0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1},
		UVs:       []float32{0, 0, 1, 0, 1, 1, 0, 1},
		Indices:   indices,
		Groups:    []mesh.Group{{Material: "ref", Indices: indices}},
		Materials: material.Table{"ref": referenceMaterial()},
	}
}

func identityFrame() FrameContext {
	return FrameContext{
		View:           math.Identity(),
		Projection:     math.Identity(),
		LightPosition:  math.Vec3{X: 0, Y: 3, Z: 0},
		LightColor:     math.Vec3{X: 1, Y: 1, Z: 1},
		LightIntensity: 1,
		CameraPosition: math.Vec3{X: 0, Y: 2, Z: 10},
	}
}

func TestMeshObjectEndToEnd(t *testing.T) {
	rec, prog := newTestProgram(t)
	obj, err := NewMeshObject(rec, prog, "quad", quad(), math.Identity())
	if err != nil {
		t.Fatalf("NewMeshObject failed: %v", err)
	}

	rec.Reset()
	if err := obj.Draw(identityFrame()); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}

	if len(rec.Draws) != 1 {
		t.Fatalf("expected 1 draw, got %d", len(rec.Draws))
	}
	if d := rec.Draws[0]; d.Count != 6 || d.Program != prog.ID || d.VertexArray == 0 {
		t.Errorf("unexpected draw %+v", d)
	}

	ref := referenceMaterial()
	want := map[string]any{
		material.UniformShininess:    ref.ShininessConstant,
		material.UniformAmbient:      ref.AmbientColor,
		material.UniformDiffuse:      ref.DiffuseColor,
		material.UniformSpecular:     ref.SpecularColor,
		material.UniformEmissive:     ref.EmissiveColor,
		material.UniformDensity:      ref.Density,
		material.UniformTransparency: ref.Transparency,
		UniformModel:                 math.Identity(),
		UniformView:                  math.Identity(),
		UniformProjection:            math.Identity(),
		UniformNormal:                math.Identity3(),
		UniformLightColor:            math.Vec3{X: 1, Y: 1, Z: 1},
		UniformLightIntensity:        float32(1),
		UniformLightPosition:         math.Vec3{X: 0, Y: 3, Z: 0},
		UniformCameraPosition:        math.Vec3{X: 0, Y: 2, Z: 10},
	}
	for name, w := range want {
		got, ok := rec.Uniform(name)
		if !ok {
			t.Errorf("%s not uploaded", name)
			continue
		}
		if got != w {
			t.Errorf("%s = %v, want %v", name, got, w)
		}
	}

	if rec.BoundVertexArray() != 0 || rec.BoundProgram() != 0 {
		t.Error("mesh draw must unbind vertex array and program")
	}
}

func TestMeshObjectGroupCounts(t *testing.T) {
	data := &mesh.Data{
		Positions: []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0, 0, 0, 1},
		Indices:   []uint16{0, 1, 2, 0, 2, 3, 0, 3, 4},
		Groups: []mesh.Group{
			{Material: "body", Indices: []uint16{0, 1, 2, 0, 2, 3}},
			{Material: "glass", Indices: []uint16{0, 3, 4}},
		},
		Materials: material.Table{
			"body":  {Name: "body", ShininessConstant: 8},
			"glass": {Name: "glass", ShininessConstant: 96},
		},
	}

	rec, prog := newTestProgram(t)
	obj, err := NewMeshObject(rec, prog, "car", data, math.Identity())
	if err != nil {
		t.Fatalf("NewMeshObject failed: %v", err)
	}

	rec.Reset()
	if err := obj.Draw(identityFrame()); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}

	if len(rec.Draws) != 2 {
		t.Fatalf("expected one draw per group, got %d", len(rec.Draws))
	}
	total := 0
	for _, d := range rec.Draws {
		total += int(d.Count)
	}
	if total != len(data.Indices) {
		t.Errorf("draw counts sum to %d, want %d", total, len(data.Indices))
	}
	if rec.Draws[0].ElementBuffer == rec.Draws[1].ElementBuffer {
		t.Error("groups should draw from their own index buffers")
	}
	if got := rec.ElementData[rec.Draws[1].ElementBuffer]; len(got) != 3 || got[2] != 4 {
		t.Errorf("second group buffer holds %v", got)
	}

	// Materials are applied in group order.
	shininess := rec.UniformUploads(material.UniformShininess)
	if len(shininess) != 2 || shininess[0] != float32(8) || shininess[1] != float32(96) {
		t.Errorf("shininess uploads = %v, want [8 96]", shininess)
	}
}

func TestMeshObjectCachesIndexBuffers(t *testing.T) {
	rec, prog := newTestProgram(t)
	obj, err := NewMeshObject(rec, prog, "quad", quad(), math.Identity())
	if err != nil {
		t.Fatalf("NewMeshObject failed: %v", err)
	}

	rec.Reset()
	for i := 0; i < 3; i++ {
		if err := obj.Draw(identityFrame()); err != nil {
			t.Fatalf("Draw failed: %v", err)
		}
	}
	if n := rec.Count(gputest.OpCreateBuffer) + rec.Count(gputest.OpElementBufferData); n != 0 {
		t.Errorf("draw created or uploaded %d buffers", n)
	}
	if len(rec.Draws) != 3 {
		t.Errorf("expected 3 draws, got %d", len(rec.Draws))
	}
}

func TestMeshObjectUnknownMaterial(t *testing.T) {
	rec, prog := newTestProgram(t)
	data := quad()
	data.Groups[0].Material = "chrome"

	_, err := NewMeshObject(rec, prog, "quad", data, math.Identity())
	var cfgErr *material.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if cfgErr.Name != "chrome" || cfgErr.Group != 0 || cfgErr.Object != "quad" {
		t.Errorf("unexpected error fields %+v", cfgErr)
	}
	if rec.Count(gputest.OpCreateVertexArray) != 0 {
		t.Error("no GPU objects should be created for a misconfigured mesh")
	}
}

func TestMeshObjectDrawUnknownMaterial(t *testing.T) {
	rec, prog := newTestProgram(t)
	obj, err := NewMeshObject(rec, prog, "quad", quad(), math.Identity())
	if err != nil {
		t.Fatalf("NewMeshObject failed: %v", err)
	}
	obj.Materials = material.Table{}

	rec.Reset()
	err = obj.Draw(identityFrame())
	if !errors.Is(err, material.ErrUnknownMaterial) {
		t.Fatalf("expected ErrUnknownMaterial, got %v", err)
	}
	if len(rec.Draws) != 0 {
		t.Error("no draw should be issued for an unresolved group")
	}
	if rec.BoundVertexArray() != 0 || rec.BoundProgram() != 0 {
		t.Error("failed draw must still unbind state")
	}
}

func TestMeshObjectInvalidData(t *testing.T) {
	rec, prog := newTestProgram(t)

	tests := []struct {
		name   string
		modify func(d *mesh.Data)
		want   error
	}{
		{"index out of range", func(d *mesh.Data) { d.Indices[0] = 9 }, mesh.ErrIndexOutOfRange},
		{"no groups", func(d *mesh.Data) { d.Groups = nil }, mesh.ErrNoGroups},
		{"ragged normals", func(d *mesh.Data) { d.Normals = d.Normals[:3] }, mesh.ErrNormalCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := quad()
			tt.modify(d)
			if _, err := NewMeshObject(rec, prog, "quad", d, math.Identity()); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestMeshObjectNormalMatrix(t *testing.T) {
	rec, prog := newTestProgram(t)
	model := math.Translate(1, 2, 3).Mul(math.Scale(2, 1, 0.5))
	obj, err := NewMeshObject(rec, prog, "quad", quad(), model)
	if err != nil {
		t.Fatalf("NewMeshObject failed: %v", err)
	}

	if err := obj.Draw(identityFrame()); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	got, _ := rec.Uniform(UniformNormal)
	if got != math.NormalMatrix(model) {
		t.Errorf("normal matrix = %v, want %v", got, math.NormalMatrix(model))
	}
}

func TestHiddenObjectSkipsDraw(t *testing.T) {
	rec, prog := newTestProgram(t)
	obj, err := NewMeshObject(rec, prog, "quad", quad(), math.Identity())
	if err != nil {
		t.Fatalf("NewMeshObject failed: %v", err)
	}
	obj.Visible = false

	rec.Reset()
	if err := obj.Draw(identityFrame()); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if len(rec.Calls) != 0 {
		t.Errorf("hidden object issued %d calls", len(rec.Calls))
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func newSphere(t *testing.T, rec *gputest.Recorder, prog *shader.Program, data []byte) (*Object, *texture.Loader) {
	t.Helper()
	loader := texture.NewLoader(rec, texture.FetchFunc(func(ctx context.Context, path string) ([]byte, error) {
		return data, nil
	}))
	obj, err := NewTexturedSphere(context.Background(), rec, prog, loader, SphereOptions{
		Name:           "sun",
		TexturePath:    "textures/sun.png",
		Radius:         0.2,
		LatitudeBands:  30,
		LongitudeBands: 30,
		Model:          math.Translate(0, 2, 0),
	})
	if err != nil {
		t.Fatalf("NewTexturedSphere failed: %v", err)
	}
	return obj, loader
}

func TestTexturedSphereSkipsUntilLoaded(t *testing.T) {
	rec, prog := newTestProgram(t)
	obj, loader := newSphere(t, rec, prog, pngBytes(t))

	if obj.Kind != KindTexturedSphere {
		t.Errorf("expected sphere kind, got %v", obj.Kind)
	}
	if obj.IndexCount() != 30*30*6 {
		t.Errorf("expected %d indices, got %d", 30*30*6, obj.IndexCount())
	}

	loader.Wait()
	rec.Reset()
	if err := obj.Draw(identityFrame()); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if len(rec.Calls) != 0 {
		t.Fatalf("draw before publish issued %d calls", len(rec.Calls))
	}

	loader.Poll()
	rec.Reset()
	if err := obj.Draw(identityFrame()); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}

	if n := rec.Count(gputest.OpBindTexture); n != 1 {
		t.Errorf("expected 1 texture bind, got %d", n)
	}
	if len(rec.Draws) != 1 {
		t.Fatalf("expected 1 draw, got %d", len(rec.Draws))
	}
	d := rec.Draws[0]
	if d.Count != 30*30*6 {
		t.Errorf("draw count = %d, want %d", d.Count, 30*30*6)
	}
	if d.Textures[0] != obj.Texture().ID {
		t.Errorf("unit 0 holds %d, want %d", d.Textures[0], obj.Texture().ID)
	}
	if v, _ := rec.Uniform(UniformTexture); v != int32(0) {
		t.Errorf("u_texture = %v, want 0", v)
	}
	if v, _ := rec.Uniform(UniformModel); v != math.Translate(0, 2, 0) {
		t.Errorf("u_modelMatrix = %v", v)
	}
	if _, ok := rec.Uniform(UniformLightPosition); ok {
		t.Error("sphere must not upload light uniforms")
	}
	if _, ok := rec.Uniform(material.UniformShininess); ok {
		t.Error("sphere must not upload material uniforms")
	}

	if rec.BoundVertexArray() != 0 {
		t.Error("sphere draw must unbind its vertex array")
	}
	if rec.BoundProgram() != prog.ID {
		t.Error("sphere draw leaves its program bound")
	}
}

func TestTexturedSphereFailedLoadStaysHidden(t *testing.T) {
	rec, prog := newTestProgram(t)
	obj, loader := newSphere(t, rec, prog, []byte("not a png"))

	loader.Wait()
	loader.Poll()
	rec.Reset()
	for i := 0; i < 3; i++ {
		if err := obj.Draw(identityFrame()); err != nil {
			t.Fatalf("Draw failed: %v", err)
		}
	}
	if len(rec.Calls) != 0 {
		t.Errorf("sphere with failed texture issued %d calls", len(rec.Calls))
	}
}

func TestTexturedSphereInvalid(t *testing.T) {
	rec, prog := newTestProgram(t)
	loader := texture.NewLoader(rec, texture.FetchFunc(func(ctx context.Context, path string) ([]byte, error) {
		return nil, nil
	}))

	_, err := NewTexturedSphere(context.Background(), rec, prog, loader, SphereOptions{
		Name: "sun", Radius: 1, LatitudeBands: 300, LongitudeBands: 300,
	})
	if !errors.Is(err, mesh.ErrTooManyVertices) {
		t.Errorf("expected ErrTooManyVertices, got %v", err)
	}
}

func TestKindString(t *testing.T) {
	if KindStandardMesh.String() != "mesh" || KindTexturedSphere.String() != "textured-sphere" {
		t.Error("unexpected kind names")
	}
	if Kind(7).String() != "Kind(7)" {
		t.Errorf("unexpected name for unknown kind: %s", Kind(7))
	}
}
