package scene

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cond-render/core"
	"cond-render/math"
)

// LoadOBJ loads geometry from a Wavefront OBJ file. Materials are ignored;
// vertices get a white color.
func LoadOBJ(path string) (*Mesh, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ParseOBJ(file, name)
}

// ParseOBJ reads OBJ geometry from r. Faces with more than three corners
// are fan-triangulated. Identical position/uv/normal triples are shared.
func ParseOBJ(r io.Reader, name string) (*Mesh, error) {
	var positions []math.Vec3
	var normals []math.Vec3
	var uvs []math.Vec2

	var data core.MeshData
	vertexMap := make(map[string]uint32)

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			positions = append(positions, v)

		case "vn":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			normals = append(normals, v)

		case "vt":
			v, err := parseVec2(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			uvs = append(uvs, v)

		case "f":
			corners := fields[1:]
			if len(corners) < 3 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNum)
			}

			indices := make([]uint32, len(corners))
			for i, corner := range corners {
				idx, err := resolveOBJVertex(corner, positions, uvs, normals, vertexMap, &data)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNum, err)
				}
				indices[i] = idx
			}

			for i := 1; i+1 < len(indices); i++ {
				data.Indices = append(data.Indices, indices[0], indices[i], indices[i+1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(data.Vertices) == 0 {
		return nil, fmt.Errorf("OBJ contains no geometry")
	}

	return CreateMeshFromData(name, data), nil
}

// resolveOBJVertex turns a "pos/uv/normal" face corner into a vertex index,
// reusing an existing vertex when the same triple was seen before.
func resolveOBJVertex(corner string, positions []math.Vec3, uvs []math.Vec2, normals []math.Vec3, vertexMap map[string]uint32, data *core.MeshData) (uint32, error) {
	if idx, ok := vertexMap[corner]; ok {
		return idx, nil
	}

	parts := strings.Split(corner, "/")

	vertex := core.Vertex{Color: core.ColorWhite}

	posIdx, err := objIndex(parts[0], len(positions))
	if err != nil {
		return 0, err
	}
	vertex.Position = positions[posIdx]

	if len(parts) > 1 && parts[1] != "" {
		uvIdx, err := objIndex(parts[1], len(uvs))
		if err != nil {
			return 0, err
		}
		vertex.UV = uvs[uvIdx]
	}

	if len(parts) > 2 && parts[2] != "" {
		normIdx, err := objIndex(parts[2], len(normals))
		if err != nil {
			return 0, err
		}
		vertex.Normal = normals[normIdx]
	}

	idx := uint32(len(data.Vertices))
	data.Vertices = append(data.Vertices, vertex)
	vertexMap[corner] = idx
	return idx, nil
}

// objIndex converts a 1-based (or negative, counting from the end) OBJ
// index to a 0-based slice index.
func objIndex(s string, length int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q: %w", s, err)
	}
	if i < 0 {
		i += length
	} else {
		i--
	}
	if i < 0 || i >= length {
		return 0, fmt.Errorf("index %q out of range", s)
	}
	return i, nil
}

func parseVec3(fields []string) (math.Vec3, error) {
	if len(fields) < 3 {
		return math.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(fields))
	}
	var v [3]float32
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return math.Vec3{}, err
		}
		v[i] = float32(f)
	}
	return math.NewVec3(v[0], v[1], v[2]), nil
}

func parseVec2(fields []string) (math.Vec2, error) {
	if len(fields) < 2 {
		return math.Vec2{}, fmt.Errorf("expected 2 components, got %d", len(fields))
	}
	var v [2]float32
	for i := 0; i < 2; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return math.Vec2{}, err
		}
		v[i] = float32(f)
	}
	return math.NewVec2(v[0], v[1]), nil
}
