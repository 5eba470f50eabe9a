package formats

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// glTF import errors.
var (
	ErrGLTFNoPositions    = errors.New("gltf primitive has no POSITION attribute")
	ErrGLTFNoTriangles    = errors.New("gltf document has no triangle primitives")
	ErrGLTFTooManyVertex  = errors.New("gltf mesh exceeds 65535 vertices")
	ErrGLTFAttributeCount = errors.New("gltf attribute count does not match positions")
)

// GLTFMaterial is the subset of a glTF PBR material the viewer shades with.
type GLTFMaterial struct {
	Name      string
	BaseColor [4]float32
	Emissive  [3]float32
	Roughness float32
	Metallic  float32
}

// GLTFMesh is every triangle primitive of a document merged into one
// vertex stream, with one group per primitive.
type GLTFMesh struct {
	Positions []float32
	Normals   []float32 // empty when no primitive has normals
	UVs       []float32 // empty when no primitive has TEXCOORD_0
	Indices   []uint16
	Groups    []OBJGroup
	Materials []GLTFMaterial
}

// GLTFDefaultMaterial names primitives without a material.
const GLTFDefaultMaterial = "default"

// LoadGLTF opens a .gltf or .glb file and merges its meshes.
func LoadGLTF(path string) (*GLTFMesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	m, err := DecodeGLTF(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return m, nil
}

type gltfPrimitive struct {
	positions [][3]float32
	normals   [][3]float32
	uvs       [][2]float32
	indices   []uint32
	material  string
}

// DecodeGLTF merges the triangle primitives of doc. Points and lines are
// skipped.
func DecodeGLTF(doc *gltf.Document) (*GLTFMesh, error) {
	out := &GLTFMesh{}
	for i, mat := range doc.Materials {
		out.Materials = append(out.Materials, convertGLTFMaterial(i, mat))
	}

	var prims []gltfPrimitive
	hasNormals, hasUVs := false, false
	total := 0
	for mi, m := range doc.Meshes {
		for pi, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			p, err := readGLTFPrimitive(doc, prim, out.Materials)
			if err != nil {
				return nil, errors.Wrapf(err, "mesh %d primitive %d", mi, pi)
			}
			total += len(p.positions)
			if total > 65535 {
				return nil, errors.WithStack(ErrGLTFTooManyVertex)
			}
			hasNormals = hasNormals || p.normals != nil
			hasUVs = hasUVs || p.uvs != nil
			prims = append(prims, p)
		}
	}
	if len(prims) == 0 {
		return nil, errors.WithStack(ErrGLTFNoTriangles)
	}

	for _, p := range prims {
		base := uint16(len(out.Positions) / 3)
		for i, pos := range p.positions {
			out.Positions = append(out.Positions, pos[0], pos[1], pos[2])
			if hasNormals {
				var n [3]float32
				if p.normals != nil {
					n = p.normals[i]
				}
				out.Normals = append(out.Normals, n[0], n[1], n[2])
			}
			if hasUVs {
				var t [2]float32
				if p.uvs != nil {
					t = p.uvs[i]
				}
				out.UVs = append(out.UVs, t[0], t[1])
			}
		}

		g := OBJGroup{Material: p.material, Indices: make([]uint16, 0, len(p.indices))}
		for _, idx := range p.indices {
			g.Indices = append(g.Indices, base+uint16(idx))
		}
		out.Indices = append(out.Indices, g.Indices...)
		out.Groups = append(out.Groups, g)
	}
	return out, nil
}

func readGLTFPrimitive(doc *gltf.Document, prim *gltf.Primitive, materials []GLTFMaterial) (gltfPrimitive, error) {
	var p gltfPrimitive

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return p, errors.WithStack(ErrGLTFNoPositions)
	}
	var err error
	if p.positions, err = modeler.ReadPosition(doc, doc.Accessors[posIdx], nil); err != nil {
		return p, errors.Wrap(err, "read positions")
	}
	n := len(p.positions)

	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if p.normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return p, errors.Wrap(err, "read normals")
		}
		if len(p.normals) != n {
			return p, errors.Wrapf(ErrGLTFAttributeCount, "%d normals for %d positions", len(p.normals), n)
		}
	}
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if p.uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return p, errors.Wrap(err, "read uvs")
		}
		if len(p.uvs) != n {
			return p, errors.Wrapf(ErrGLTFAttributeCount, "%d uvs for %d positions", len(p.uvs), n)
		}
	}

	if prim.Indices != nil {
		if p.indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
			return p, errors.Wrap(err, "read indices")
		}
	} else {
		p.indices = make([]uint32, n)
		for i := range p.indices {
			p.indices[i] = uint32(i)
		}
	}
	for _, idx := range p.indices {
		if int(idx) >= n {
			return p, errors.Errorf("index %d out of range for %d vertices", idx, n)
		}
	}

	p.material = GLTFDefaultMaterial
	if prim.Material != nil && int(*prim.Material) < len(materials) {
		p.material = materials[*prim.Material].Name
	}
	return p, nil
}

func convertGLTFMaterial(i int, mat *gltf.Material) GLTFMaterial {
	m := GLTFMaterial{
		Name:      mat.Name,
		BaseColor: [4]float32{1, 1, 1, 1},
		Emissive:  mat.EmissiveFactor,
		Roughness: 1,
		Metallic:  1,
	}
	if m.Name == "" {
		m.Name = fmt.Sprintf("material_%d", i)
	}
	if pbr := mat.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			m.BaseColor = *pbr.BaseColorFactor
		}
		if pbr.RoughnessFactor != nil {
			m.Roughness = *pbr.RoughnessFactor
		}
		if pbr.MetallicFactor != nil {
			m.Metallic = *pbr.MetallicFactor
		}
	}
	return m
}
