package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// OBJ format errors.
var (
	ErrOBJVertexIndex    = errors.New("obj face references a missing vertex")
	ErrOBJFaceTooSmall   = errors.New("obj face has fewer than 3 vertices")
	ErrOBJTooManyVertex  = errors.New("obj mesh exceeds 65535 unique vertices")
	ErrOBJMalformedValue = errors.New("malformed obj value")
)

// OBJDefaultMaterial names faces that appear before any usemtl.
const OBJDefaultMaterial = "default"

// OBJGroup is a run of triangles drawn with one material.
type OBJGroup struct {
	Material string
	Indices  []uint16
}

// OBJ is a parsed Wavefront OBJ file with its v/vt/vn triplets merged into
// one indexed vertex stream.
type OBJ struct {
	Positions []float32
	Normals   []float32 // empty when the file has no vn references
	UVs       []float32 // empty when the file has no vt references
	Indices   []uint16
	Groups    []OBJGroup

	MaterialLibs []string
	Objects      []string // o and g names in file order
}

// VertexCount returns the number of unified vertices.
func (o *OBJ) VertexCount() int {
	return len(o.Positions) / 3
}

type objRef struct {
	v, vt, vn int // zero-based, -1 when absent
}

type objBuilder struct {
	positions [][3]float32
	uvs       [][2]float32
	normals   [][3]float32

	refs    []objRef
	lookup  map[objRef]uint16
	hasUV   bool
	hasNorm bool

	out *OBJ
	cur int // index into out.Groups, -1 before the first group
}

// LoadOBJ reads and parses an OBJ file from disk.
func LoadOBJ(path string) (*OBJ, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseOBJ(data)
}

// ParseOBJ parses OBJ text. Polygons are fan triangulated and faces are
// grouped by their usemtl material in file order.
func ParseOBJ(data []byte) (*OBJ, error) {
	b := &objBuilder{
		lookup: make(map[objRef]uint16),
		out:    &OBJ{},
		cur:    -1,
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if err := b.statement(fields); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return b.finish(), nil
}

func (b *objBuilder) statement(fields []string) error {
	switch fields[0] {
	case "v":
		p, err := parseFloats(fields[1:], 3)
		if err != nil {
			return err
		}
		b.positions = append(b.positions, [3]float32{p[0], p[1], p[2]})
	case "vt":
		p, err := parseFloats(fields[1:], 2)
		if err != nil {
			return err
		}
		b.uvs = append(b.uvs, [2]float32{p[0], p[1]})
	case "vn":
		p, err := parseFloats(fields[1:], 3)
		if err != nil {
			return err
		}
		b.normals = append(b.normals, [3]float32{p[0], p[1], p[2]})
	case "f":
		return b.face(fields[1:])
	case "usemtl":
		name := OBJDefaultMaterial
		if len(fields) > 1 {
			name = fields[1]
		}
		b.useMaterial(name)
	case "mtllib":
		b.out.MaterialLibs = append(b.out.MaterialLibs, fields[1:]...)
	case "o", "g":
		if len(fields) > 1 {
			b.out.Objects = append(b.out.Objects, strings.Join(fields[1:], " "))
		}
	}
	// s, l, p and unknown statements are ignored.
	return nil
}

func (b *objBuilder) useMaterial(name string) {
	if b.cur >= 0 && b.out.Groups[b.cur].Material == name {
		return
	}
	b.out.Groups = append(b.out.Groups, OBJGroup{Material: name})
	b.cur = len(b.out.Groups) - 1
}

func (b *objBuilder) face(verts []string) error {
	if len(verts) < 3 {
		return ErrOBJFaceTooSmall
	}
	idx := make([]uint16, len(verts))
	for i, v := range verts {
		ref, err := b.parseRef(v)
		if err != nil {
			return err
		}
		if idx[i], err = b.vertex(ref); err != nil {
			return err
		}
	}

	if b.cur < 0 {
		b.useMaterial(OBJDefaultMaterial)
	}
	g := &b.out.Groups[b.cur]
	for i := 1; i+1 < len(idx); i++ {
		tri := []uint16{idx[0], idx[i], idx[i+1]}
		b.out.Indices = append(b.out.Indices, tri...)
		g.Indices = append(g.Indices, tri...)
	}
	return nil
}

// parseRef parses v, v/vt, v//vn or v/vt/vn. Negative indices count back
// from the most recent element.
func (b *objBuilder) parseRef(s string) (objRef, error) {
	parts := strings.Split(s, "/")
	ref := objRef{v: -1, vt: -1, vn: -1}

	var err error
	if ref.v, err = resolveIndex(parts[0], len(b.positions)); err != nil {
		return ref, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if ref.vt, err = resolveIndex(parts[1], len(b.uvs)); err != nil {
			return ref, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if ref.vn, err = resolveIndex(parts[2], len(b.normals)); err != nil {
			return ref, err
		}
	}
	return ref, nil
}

func resolveIndex(s string, count int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: index %q", ErrOBJMalformedValue, s)
	}
	switch {
	case n > 0 && n <= count:
		return n - 1, nil
	case n < 0 && -n <= count:
		return count + n, nil
	default:
		return 0, fmt.Errorf("%w: %d of %d", ErrOBJVertexIndex, n, count)
	}
}

func (b *objBuilder) vertex(ref objRef) (uint16, error) {
	if i, ok := b.lookup[ref]; ok {
		return i, nil
	}
	if len(b.refs) >= 65535 {
		return 0, ErrOBJTooManyVertex
	}
	i := uint16(len(b.refs))
	b.refs = append(b.refs, ref)
	b.lookup[ref] = i
	b.hasUV = b.hasUV || ref.vt >= 0
	b.hasNorm = b.hasNorm || ref.vn >= 0
	return i, nil
}

func (b *objBuilder) finish() *OBJ {
	o := b.out
	o.Positions = make([]float32, 0, len(b.refs)*3)
	if b.hasNorm {
		o.Normals = make([]float32, 0, len(b.refs)*3)
	}
	if b.hasUV {
		o.UVs = make([]float32, 0, len(b.refs)*2)
	}

	for _, r := range b.refs {
		p := b.positions[r.v]
		o.Positions = append(o.Positions, p[0], p[1], p[2])
		if b.hasNorm {
			var n [3]float32
			if r.vn >= 0 {
				n = b.normals[r.vn]
			}
			o.Normals = append(o.Normals, n[0], n[1], n[2])
		}
		if b.hasUV {
			var t [2]float32
			if r.vt >= 0 {
				t = b.uvs[r.vt]
			}
			o.UVs = append(o.UVs, t[0], t[1])
		}
	}

	// usemtl lines with no faces after them leave empty groups.
	groups := o.Groups[:0]
	for _, g := range o.Groups {
		if len(g.Indices) > 0 {
			groups = append(groups, g)
		}
	}
	o.Groups = groups
	return o
}

// parseFloats parses at least n numbers from fields; extra components
// such as a vertex w are ignored.
func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("%w: want %d components, got %d", ErrOBJMalformedValue, n, len(fields))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrOBJMalformedValue, fields[i])
		}
		out[i] = float32(f)
	}
	return out, nil
}
