package scene

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"cond-render/core"
	"cond-render/math"
)

// LoadGLTF opens a .glb or .gltf file and merges all mesh primitives into
// a single mesh. Materials and textures are ignored; vertices get a white
// color.
func LoadGLTF(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}

	var data core.MeshData
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			if err := appendGLTFPrimitive(doc, *prim, &data); err != nil {
				return nil, fmt.Errorf("gltf: mesh %d prim %d: %w", mi, pi, err)
			}
		}
	}

	if len(data.Vertices) == 0 {
		return nil, fmt.Errorf("gltf %q contains no geometry", path)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return CreateMeshFromData(name, data), nil
}

func appendGLTFPrimitive(doc *gltf.Document, prim gltf.Primitive, data *core.MeshData) error {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	var uvs [][2]float32

	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, _ = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
	}
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, _ = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
	}

	base := uint32(len(data.Vertices))
	for i, p := range positions {
		v := core.Vertex{
			Position: math.NewVec3(p[0], p[1], p[2]),
			Normal:   math.Vec3Up,
			Color:    core.ColorWhite,
		}
		if i < len(normals) {
			v.Normal = math.NewVec3(normals[i][0], normals[i][1], normals[i][2])
		}
		if i < len(uvs) {
			v.UV = math.NewVec2(uvs[i][0], uvs[i][1])
		}
		data.Vertices = append(data.Vertices, v)
	}

	if prim.Indices == nil {
		// Non-indexed primitive: emit a trivial index list.
		for i := range positions {
			data.Indices = append(data.Indices, base+uint32(i))
		}
		return nil
	}

	indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
	if err != nil {
		return fmt.Errorf("indices: %w", err)
	}
	for _, idx := range indices {
		data.Indices = append(data.Indices, base+idx)
	}
	return nil
}
