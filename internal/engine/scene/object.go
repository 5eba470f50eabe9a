package scene

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/engine/geometry"
	"github.com/Faultbox/sceneview/internal/engine/gpu"
	"github.com/Faultbox/sceneview/internal/engine/material"
	"github.com/Faultbox/sceneview/internal/engine/mesh"
	"github.com/Faultbox/sceneview/internal/engine/picking"
	"github.com/Faultbox/sceneview/internal/engine/shader"
	"github.com/Faultbox/sceneview/internal/engine/texture"
	"github.com/Faultbox/sceneview/internal/logger"
	"github.com/Faultbox/sceneview/pkg/math"
)

// Uniform names shared by the scene programs.
const (
	UniformModel          = "u_modelMatrix"
	UniformView           = "u_viewMatrix"
	UniformProjection     = "u_projectionMatrix"
	UniformNormal         = "u_normalMatrix"
	UniformCameraPosition = "u_cameraWorldSpacePosition"
	UniformLightPosition  = "u_lightPosition"
	UniformLightColor     = "u_lightColor"
	UniformLightIntensity = "u_lightIntensity"
	UniformTexture        = "u_texture"
)

// Object errors.
var (
	ErrNilProgram = errors.New("nil shader program")
)

// Kind selects the draw protocol of an Object.
type Kind int

const (
	// KindStandardMesh draws lit geometry, one draw per material group.
	KindStandardMesh Kind = iota
	// KindTexturedSphere draws its whole index buffer with one texture.
	KindTexturedSphere
)

func (k Kind) String() string {
	switch k {
	case KindStandardMesh:
		return "mesh"
	case KindTexturedSphere:
		return "textured-sphere"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// FrameContext is the per-frame state shared by every draw.
type FrameContext struct {
	View           math.Mat4
	Projection     math.Mat4
	LightPosition  math.Vec3
	LightColor     math.Vec3
	LightIntensity float32
	CameraPosition math.Vec3
}

type group struct {
	mesh.Group
	buffer uint32
}

type locations struct {
	model          int32
	view           int32
	projection     int32
	normal         int32
	cameraPosition int32
	lightPosition  int32
	lightColor     int32
	lightIntensity int32
	texture        int32
	material       material.Locations
}

func lookupLocations(p *shader.Program) locations {
	return locations{
		model:          p.Uniform(UniformModel),
		view:           p.Uniform(UniformView),
		projection:     p.Uniform(UniformProjection),
		normal:         p.Uniform(UniformNormal),
		cameraPosition: p.Uniform(UniformCameraPosition),
		lightPosition:  p.Uniform(UniformLightPosition),
		lightColor:     p.Uniform(UniformLightColor),
		lightIntensity: p.Uniform(UniformLightIntensity),
		texture:        p.Uniform(UniformTexture),
		material:       material.LookupLocations(p),
	}
}

// Object is a drawable placed in the scene. Model is the only field meant
// to change after construction.
type Object struct {
	Name    string
	Kind    Kind
	Model   math.Mat4
	Visible bool

	// Materials is consulted on every draw.
	Materials material.Table

	dev      gpu.Device
	program  *shader.Program
	geometry *geometry.Buffer
	groups   []group
	texture  *texture.Slot
	loc      locations
	bounds   picking.AABB
}

// NewMeshObject uploads data and returns a standard mesh object.
// Every group's material is resolved up front; an unknown name is a
// *material.ConfigurationError.
func NewMeshObject(dev gpu.Device, prog *shader.Program, name string, data *mesh.Data, model math.Mat4) (*Object, error) {
	if prog == nil {
		return nil, ErrNilProgram
	}
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("object %s: %w", name, err)
	}
	if len(data.Groups) == 0 {
		return nil, fmt.Errorf("object %s: %w", name, mesh.ErrNoGroups)
	}
	for i, g := range data.Groups {
		if _, err := data.Materials.Resolve(name, i, g.Material); err != nil {
			return nil, err
		}
	}

	o, err := newObject(dev, prog, name, KindStandardMesh, data, model)
	if err != nil {
		return nil, err
	}
	o.Materials = data.Materials

	o.groups = make([]group, 0, len(data.Groups))
	for _, g := range data.Groups {
		buf, err := o.geometry.IndexBuffer(g.Indices)
		if err != nil {
			o.Release()
			return nil, fmt.Errorf("object %s group %s: %w", name, g.Material, err)
		}
		o.groups = append(o.groups, group{Group: g, buffer: buf})
	}

	logger.Debug("mesh object created",
		zap.String("name", name),
		zap.Int("vertices", data.VertexCount()),
		zap.Int("groups", len(o.groups)))
	return o, nil
}

// SphereOptions configures a textured sphere.
type SphereOptions struct {
	Name           string
	TexturePath    string
	Radius         float32
	LatitudeBands  int
	LongitudeBands int
	Model          math.Mat4
}

// NewTexturedSphere generates a UV sphere and starts loading its texture.
// The sphere draws nothing until the texture has been published.
func NewTexturedSphere(ctx context.Context, dev gpu.Device, prog *shader.Program, loader *texture.Loader, opts SphereOptions) (*Object, error) {
	if prog == nil {
		return nil, ErrNilProgram
	}
	data, err := mesh.Sphere(opts.Radius, opts.LatitudeBands, opts.LongitudeBands)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", opts.Name, err)
	}

	o, err := newObject(dev, prog, opts.Name, KindTexturedSphere, data, opts.Model)
	if err != nil {
		return nil, err
	}

	slot, err := loader.Load(ctx, opts.TexturePath)
	if err != nil {
		o.Release()
		return nil, fmt.Errorf("object %s texture: %w", opts.Name, err)
	}
	o.texture = slot
	return o, nil
}

func newObject(dev gpu.Device, prog *shader.Program, name string, kind Kind, data *mesh.Data, model math.Mat4) (*Object, error) {
	buf, err := geometry.New(dev, geometry.Arrays{
		Positions: data.Positions,
		Normals:   data.Normals,
		UVs:       data.UVs,
		Indices:   data.Indices,
	}, geometry.LookupAttribs(prog))
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", name, err)
	}
	return &Object{
		Name:     name,
		Kind:     kind,
		Model:    model,
		Visible:  true,
		dev:      dev,
		program:  prog,
		geometry: buf,
		loc:      lookupLocations(prog),
		bounds:   picking.BoundsOf(data.Positions),
	}, nil
}

// Texture returns the sphere's texture, or nil while it is loading or for
// mesh objects.
func (o *Object) Texture() *texture.Texture {
	if o.texture == nil {
		return nil
	}
	return o.texture.Get()
}

// IndexCount returns the number of indices in the object's geometry.
func (o *Object) IndexCount() int32 {
	return o.geometry.IndexCount
}

// Bounds returns the object's world-space bounding box.
func (o *Object) Bounds() picking.AABB {
	return o.bounds.Transform(o.Model)
}

// Draw issues the object's draw calls for one frame.
func (o *Object) Draw(fc FrameContext) error {
	if !o.Visible {
		return nil
	}
	switch o.Kind {
	case KindStandardMesh:
		return o.drawMesh(fc)
	case KindTexturedSphere:
		o.drawSphere(fc)
		return nil
	default:
		return fmt.Errorf("object %s: unknown kind %v", o.Name, o.Kind)
	}
}

func (o *Object) uploadMatrices(fc FrameContext) {
	o.dev.UniformMatrix4(o.loc.model, o.Model)
	o.dev.UniformMatrix4(o.loc.view, fc.View)
	o.dev.UniformMatrix4(o.loc.projection, fc.Projection)
	o.dev.UniformMatrix3(o.loc.normal, math.NormalMatrix(o.Model))
}

func (o *Object) drawMesh(fc FrameContext) error {
	o.dev.UseProgram(o.program.ID)
	o.geometry.Bind()
	defer func() {
		o.geometry.Unbind()
		o.dev.UseProgram(0)
	}()

	o.uploadMatrices(fc)
	o.dev.Uniform3f(o.loc.cameraPosition, fc.CameraPosition)
	o.dev.Uniform3f(o.loc.lightPosition, fc.LightPosition)
	o.dev.Uniform3f(o.loc.lightColor, fc.LightColor)
	o.dev.Uniform1f(o.loc.lightIntensity, fc.LightIntensity)

	for i, g := range o.groups {
		m, err := o.Materials.Resolve(o.Name, i, g.Material)
		if err != nil {
			return err
		}
		m.Apply(o.dev, o.loc.material)
		o.dev.BindElementBuffer(g.buffer)
		o.dev.DrawTriangles(int32(len(g.Indices)))
	}
	return nil
}

// drawSphere leaves the program bound; the next object's draw replaces it.
func (o *Object) drawSphere(fc FrameContext) {
	tex := o.Texture()
	if tex == nil {
		logger.Frame().Debug("texture not loaded yet", zap.String("object", o.Name))
		return
	}

	o.dev.UseProgram(o.program.ID)
	o.geometry.Bind()
	o.uploadMatrices(fc)
	o.dev.BindTexture(0, tex.ID)
	o.dev.Uniform1i(o.loc.texture, 0)
	o.dev.DrawTriangles(o.geometry.IndexCount)
	o.geometry.Unbind()
}

// Release deletes the object's GPU buffers. The shared program and the
// texture are left alone.
func (o *Object) Release() {
	if o.geometry != nil {
		o.geometry.Release()
		o.geometry = nil
	}
	o.groups = nil
}
