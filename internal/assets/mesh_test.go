package assets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/sceneview/internal/engine/material"
	"github.com/Faultbox/sceneview/pkg/formats"
	"github.com/Faultbox/sceneview/pkg/math"
)

const quadOBJ = `mtllib quad.mtl
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
usemtl paint
f 1//1 2//1 3//1
usemtl chrome
f 1//1 3//1 4//1
`

const quadMTL = `newmtl paint
Ka 0.1 0 0
Kd 0.9 0 0
Ks 0.5 0.5 0.5
Ns 64
newmtl chrome
Kd 0.8 0.8 0.8
d 0.5
`

func TestLoadMeshOBJ(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "models/quad.obj", quadOBJ)
	writeFile(t, dir, "models/quad.mtl", quadMTL)

	d, err := NewManager(dir).LoadMesh(context.Background(), "models/quad.obj")
	if err != nil {
		t.Fatalf("LoadMesh failed: %v", err)
	}

	if d.VertexCount() != 4 {
		t.Errorf("expected 4 vertices, got %d", d.VertexCount())
	}
	if len(d.Groups) != 2 || d.Groups[0].Material != "paint" || d.Groups[1].Material != "chrome" {
		t.Fatalf("unexpected groups %+v", d.Groups)
	}

	paint, ok := d.Materials["paint"]
	if !ok {
		t.Fatal("paint not in material table")
	}
	if paint.DiffuseColor != (math.Vec3{X: 0.9}) || paint.ShininessConstant != 64 {
		t.Errorf("unexpected paint %+v", paint)
	}
	if d.Materials["chrome"].Transparency != 0.5 {
		t.Errorf("chrome transparency = %f, want 0.5", d.Materials["chrome"].Transparency)
	}
	if _, ok := d.Materials[formats.OBJDefaultMaterial]; ok {
		t.Error("default material added although no group uses it")
	}
}

func TestLoadMeshOBJDefaultMaterial(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tri.obj", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")

	d, err := NewManager(dir).LoadMesh(context.Background(), "tri.obj")
	if err != nil {
		t.Fatalf("LoadMesh failed: %v", err)
	}
	def, ok := d.Materials[formats.OBJDefaultMaterial]
	if !ok {
		t.Fatal("expected default material")
	}
	if def.DiffuseColor != material.Default().DiffuseColor {
		t.Errorf("unexpected default material %+v", def)
	}
}

func TestLoadMeshOBJMissingLibrary(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "quad.obj", quadOBJ)

	_, err := NewManager(dir).LoadMesh(context.Background(), "quad.obj")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing mtl, got %v", err)
	}
}

func TestLoadMeshOBJOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/models/quad.obj":
			w.Write([]byte(quadOBJ))
		case "/models/quad.mtl":
			w.Write([]byte(quadMTL))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	d, err := NewManager(srv.URL).LoadMesh(context.Background(), "models/quad.obj")
	if err != nil {
		t.Fatalf("LoadMesh failed: %v", err)
	}
	if len(d.Materials) != 2 {
		t.Errorf("expected 2 materials, got %d", len(d.Materials))
	}
}

func TestLoadMeshUnsupported(t *testing.T) {
	_, err := NewManager(t.TempDir()).LoadMesh(context.Background(), "model.fbx")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoadMeshInvalidOBJ(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.obj", "v 0 0 0\nf 1 2 3\n")
	_, err := NewManager(dir).LoadMesh(context.Background(), "bad.obj")
	if !errors.Is(err, formats.ErrOBJVertexIndex) {
		t.Errorf("expected ErrOBJVertexIndex, got %v", err)
	}
}

func TestLoadMeshGLTF(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Materials = append(doc.Materials, &gltf.Material{
		Name: "glass",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float32{0, 0, 1, 0.25},
		},
	})
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Primitives: []*gltf.Primitive{
			{
				Attributes: map[string]uint32{
					gltf.POSITION: modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}),
				},
				Material: gltf.Index(0),
			},
			{
				Attributes: map[string]uint32{
					gltf.POSITION: modeler.WritePosition(doc, [][3]float32{{0, 0, 1}, {1, 0, 1}, {0, 1, 1}}),
				},
			},
		},
	})

	dir := t.TempDir()
	if err := gltf.SaveBinary(doc, filepath.Join(dir, "tri.glb")); err != nil {
		t.Fatalf("SaveBinary failed: %v", err)
	}

	d, err := NewManager(dir).LoadMesh(context.Background(), "tri.glb")
	if err != nil {
		t.Fatalf("LoadMesh failed: %v", err)
	}
	if len(d.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(d.Groups))
	}

	glass := d.Materials["glass"]
	if glass.Transparency != 0.25 {
		t.Errorf("glass transparency = %f, want 0.25", glass.Transparency)
	}
	if glass.DiffuseColor.Z <= 0 || glass.DiffuseColor.X != 0 {
		t.Errorf("glass diffuse = %+v, want blue", glass.DiffuseColor)
	}
	if _, ok := d.Materials[formats.GLTFDefaultMaterial]; !ok {
		t.Error("expected default material for the unassigned primitive")
	}

	// Same document over HTTP goes through the decoder.
	raw, err := os.ReadFile(filepath.Join(dir, "tri.glb"))
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(raw)
	}))
	defer srv.Close()

	remote, err := NewManager(srv.URL).LoadMesh(context.Background(), "tri.glb")
	if err != nil {
		t.Fatalf("remote LoadMesh failed: %v", err)
	}
	if remote.VertexCount() != d.VertexCount() {
		t.Errorf("remote has %d vertices, local %d", remote.VertexCount(), d.VertexCount())
	}
}

func TestRoughnessToShininess(t *testing.T) {
	if s := roughnessToShininess(0); s != 256 {
		t.Errorf("roughness 0 = %f, want 256", s)
	}
	if s := roughnessToShininess(1); s != 1 {
		t.Errorf("roughness 1 = %f, want 1", s)
	}
	if a, b := roughnessToShininess(0.3), roughnessToShininess(0.6); a <= b {
		t.Errorf("shininess should fall with roughness: %f <= %f", a, b)
	}
}
