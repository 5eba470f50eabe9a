package assets

import (
	"bytes"
	"context"
	gomath "math"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/engine/material"
	"github.com/Faultbox/sceneview/internal/engine/mesh"
	"github.com/Faultbox/sceneview/internal/logger"
	"github.com/Faultbox/sceneview/pkg/formats"
	"github.com/Faultbox/sceneview/pkg/math"
)

// ErrUnsupportedFormat is returned for model files that are not OBJ or glTF.
var ErrUnsupportedFormat = errors.New("unsupported model format")

// LoadMesh reads a model file and returns validated mesh data with its
// material table. OBJ material libraries are resolved next to the OBJ.
func (m *Manager) LoadMesh(ctx context.Context, p string) (*mesh.Data, error) {
	var (
		d   *mesh.Data
		err error
	)
	switch strings.ToLower(path.Ext(p)) {
	case ".obj":
		d, err = m.loadOBJ(ctx, p)
	case ".gltf", ".glb":
		d, err = m.loadGLTF(ctx, p)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%s", p)
	}
	if err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, errors.Wrapf(err, "model %s", p)
	}

	logger.Info("model loaded",
		zap.String("path", p),
		zap.Int("vertices", d.VertexCount()),
		zap.Int("groups", len(d.Groups)),
		zap.Int("materials", len(d.Materials)))
	return d, nil
}

func (m *Manager) loadOBJ(ctx context.Context, p string) (*mesh.Data, error) {
	data, err := m.Fetch(ctx, p)
	if err != nil {
		return nil, err
	}
	obj, err := formats.ParseOBJ(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", p)
	}

	d := &mesh.Data{
		Positions: obj.Positions,
		Normals:   obj.Normals,
		UVs:       obj.UVs,
		Indices:   obj.Indices,
		Materials: make(material.Table),
	}
	for _, g := range obj.Groups {
		d.Groups = append(d.Groups, mesh.Group{Material: g.Material, Indices: g.Indices})
	}

	dir := path.Dir(filepath.ToSlash(p))
	for _, lib := range obj.MaterialLibs {
		libPath := path.Join(dir, lib)
		raw, err := m.Fetch(ctx, libPath)
		if err != nil {
			return nil, errors.Wrapf(err, "material library of %s", p)
		}
		mats, err := formats.ParseMTL(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s", libPath)
		}
		for _, mt := range mats {
			d.Materials[mt.Name] = fromMTL(mt)
		}
	}

	addDefault(d, formats.OBJDefaultMaterial)
	return d, nil
}

func (m *Manager) loadGLTF(ctx context.Context, p string) (*mesh.Data, error) {
	var (
		g   *formats.GLTFMesh
		err error
	)
	src := m.Resolve(p)
	if isURL(src) {
		// Remote documents must be self-contained (.glb or embedded buffers).
		raw, ferr := m.Fetch(ctx, p)
		if ferr != nil {
			return nil, ferr
		}
		doc := new(gltf.Document)
		if err := gltf.NewDecoder(bytes.NewReader(raw)).Decode(doc); err != nil {
			return nil, errors.Wrapf(err, "decode %s", p)
		}
		g, err = formats.DecodeGLTF(doc)
	} else {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		g, err = formats.LoadGLTF(src)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "model %s", p)
	}

	d := &mesh.Data{
		Positions: g.Positions,
		Normals:   g.Normals,
		UVs:       g.UVs,
		Indices:   g.Indices,
		Materials: make(material.Table),
	}
	for _, grp := range g.Groups {
		d.Groups = append(d.Groups, mesh.Group{Material: grp.Material, Indices: grp.Indices})
	}
	for _, mt := range g.Materials {
		d.Materials[mt.Name] = fromGLTF(mt)
	}
	addDefault(d, formats.GLTFDefaultMaterial)
	return d, nil
}

// addDefault defines name as the default material when a group uses it
// and no library declared it.
func addDefault(d *mesh.Data, name string) {
	if _, ok := d.Materials[name]; ok {
		return
	}
	for _, g := range d.Groups {
		if g.Material == name {
			def := material.Default()
			def.Name = name
			d.Materials[name] = def
			return
		}
	}
}

func vec3(c [3]float32) math.Vec3 {
	return math.Vec3{X: c[0], Y: c[1], Z: c[2]}
}

func fromMTL(m *formats.MTLMaterial) material.Material {
	return material.Material{
		Name:              m.Name,
		AmbientColor:      vec3(m.Ambient),
		DiffuseColor:      vec3(m.Diffuse),
		SpecularColor:     vec3(m.Specular),
		EmissiveColor:     vec3(m.Emissive),
		ShininessConstant: m.Shininess,
		Density:           m.Density,
		Transparency:      m.Transparency,
	}
}

// fromGLTF approximates a metallic-roughness material with Phong terms.
func fromGLTF(m formats.GLTFMaterial) material.Material {
	base := math.Vec3{X: m.BaseColor[0], Y: m.BaseColor[1], Z: m.BaseColor[2]}
	specular := 0.04 + (1-0.04)*m.Metallic*(1-m.Roughness)
	return material.Material{
		Name:              m.Name,
		AmbientColor:      base.Scale(0.1),
		DiffuseColor:      base.Scale(1 - m.Metallic*0.5),
		SpecularColor:     math.Vec3{X: specular, Y: specular, Z: specular},
		EmissiveColor:     vec3(m.Emissive),
		ShininessConstant: roughnessToShininess(m.Roughness),
		Density:           1,
		Transparency:      m.BaseColor[3],
	}
}

// roughnessToShininess maps roughness to a Blinn-Phong exponent in [1, 256].
func roughnessToShininess(r float32) float32 {
	a := float64(r * r)
	if a < 1e-4 {
		return 256
	}
	s := 2/(a*a) - 2
	return float32(gomath.Max(1, gomath.Min(256, s)))
}
