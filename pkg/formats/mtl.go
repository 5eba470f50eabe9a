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

// MTL format errors.
var (
	ErrMTLNoMaterial = errors.New("mtl statement before newmtl")
	ErrMTLMalformed  = errors.New("malformed mtl value")
)

// MTLMaterial is one newmtl block.
type MTLMaterial struct {
	Name         string
	Ambient      [3]float32 // Ka
	Diffuse      [3]float32 // Kd
	Specular     [3]float32 // Ks
	Emissive     [3]float32 // Ke
	Shininess    float32    // Ns
	Density      float32    // Ni
	Transparency float32    // d, or 1-Tr; 1 is opaque
	DiffuseMap   string     // map_Kd
}

func newMTLMaterial(name string) *MTLMaterial {
	return &MTLMaterial{
		Name:         name,
		Ambient:      [3]float32{0.2, 0.2, 0.2},
		Diffuse:      [3]float32{0.8, 0.8, 0.8},
		Specular:     [3]float32{1, 1, 1},
		Shininess:    0,
		Density:      1,
		Transparency: 1,
	}
}

// LoadMTL reads and parses an MTL file from disk.
func LoadMTL(path string) ([]*MTLMaterial, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseMTL(data)
}

// ParseMTL parses a material library. Materials are returned in file
// order; a repeated name replaces the earlier block.
func ParseMTL(data []byte) ([]*MTLMaterial, error) {
	var (
		materials []*MTLMaterial
		byName    = make(map[string]int)
		cur       *MTLMaterial
	)

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

		if fields[0] == "newmtl" {
			if len(fields) < 2 {
				return nil, fmt.Errorf("line %d: %w: newmtl without a name", lineNo, ErrMTLMalformed)
			}
			cur = newMTLMaterial(strings.Join(fields[1:], " "))
			if i, ok := byName[cur.Name]; ok {
				materials[i] = cur
			} else {
				byName[cur.Name] = len(materials)
				materials = append(materials, cur)
			}
			continue
		}

		if !mtlKnown(fields[0]) {
			continue
		}
		if cur == nil {
			return nil, fmt.Errorf("line %d: %w: %s", lineNo, ErrMTLNoMaterial, fields[0])
		}
		if err := cur.set(fields); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return materials, nil
}

func mtlKnown(key string) bool {
	switch key {
	case "Ka", "Kd", "Ks", "Ke", "Ns", "Ni", "d", "Tr", "map_Kd":
		return true
	}
	return false
}

func (m *MTLMaterial) set(fields []string) error {
	var err error
	switch fields[0] {
	case "Ka":
		m.Ambient, err = mtlColor(fields[1:])
	case "Kd":
		m.Diffuse, err = mtlColor(fields[1:])
	case "Ks":
		m.Specular, err = mtlColor(fields[1:])
	case "Ke":
		m.Emissive, err = mtlColor(fields[1:])
	case "Ns":
		m.Shininess, err = mtlScalar(fields[1:])
	case "Ni":
		m.Density, err = mtlScalar(fields[1:])
	case "d":
		m.Transparency, err = mtlScalar(fields[1:])
	case "Tr":
		var tr float32
		tr, err = mtlScalar(fields[1:])
		m.Transparency = 1 - tr
	case "map_Kd":
		// Options may precede the file name.
		if len(fields) > 1 {
			m.DiffuseMap = fields[len(fields)-1]
		}
	}
	if err != nil {
		return fmt.Errorf("%s: %w", fields[0], err)
	}
	return nil
}

// mtlColor parses r [g b]. A single value is used for all channels.
func mtlColor(fields []string) ([3]float32, error) {
	if len(fields) == 0 {
		return [3]float32{}, ErrMTLMalformed
	}
	if len(fields) < 3 {
		v, err := mtlScalar(fields)
		return [3]float32{v, v, v}, err
	}
	var c [3]float32
	for i := range c {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return c, fmt.Errorf("%w: %q", ErrMTLMalformed, fields[i])
		}
		c[i] = float32(f)
	}
	return c, nil
}

func mtlScalar(fields []string) (float32, error) {
	if len(fields) == 0 {
		return 0, ErrMTLMalformed
	}
	f, err := strconv.ParseFloat(fields[0], 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMTLMalformed, fields[0])
	}
	return float32(f), nil
}
