package scene

import (
	"fmt"
	"path/filepath"
	"strings"
	"unsafe"

	"cond-render/core"
	"cond-render/vulkan"
)

// Mesh holds geometry on the CPU and, after Upload, the GPU buffers it
// renders from.
type Mesh struct {
	Name     string
	Vertices []core.Vertex
	Indices  []uint32

	VertexBuffer *vulkan.Buffer
	IndexBuffer  *vulkan.Buffer
}

func CreateMeshFromData(name string, data core.MeshData) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: data.Vertices,
		Indices:  data.Indices,
	}
}

// Upload creates the vertex and index buffers and copies the mesh data in.
func (m *Mesh) Upload(device *vulkan.Device) error {
	if len(m.Vertices) == 0 || len(m.Indices) == 0 {
		return fmt.Errorf("mesh %q has no geometry to upload", m.Name)
	}

	vertexSize := uint64(len(m.Vertices)) * uint64(unsafe.Sizeof(core.Vertex{}))
	vb, err := vulkan.NewHostBuffer(device, vertexSize, vulkan.BufferUsageVertex)
	if err != nil {
		return fmt.Errorf("failed to create vertex buffer: %w", err)
	}
	vb.CopyData(unsafe.Pointer(&m.Vertices[0]), vertexSize)
	m.VertexBuffer = vb

	indexSize := uint64(len(m.Indices)) * 4
	ib, err := vulkan.NewHostBuffer(device, indexSize, vulkan.BufferUsageIndex)
	if err != nil {
		vb.Destroy(device)
		m.VertexBuffer = nil
		return fmt.Errorf("failed to create index buffer: %w", err)
	}
	ib.CopyData(unsafe.Pointer(&m.Indices[0]), indexSize)
	m.IndexBuffer = ib

	return nil
}

func (m *Mesh) IndexCount() uint32 {
	return uint32(len(m.Indices))
}

func (m *Mesh) Destroy(device *vulkan.Device) {
	if m.VertexBuffer != nil {
		m.VertexBuffer.Destroy(device)
		m.VertexBuffer = nil
	}
	if m.IndexBuffer != nil {
		m.IndexBuffer.Destroy(device)
		m.IndexBuffer = nil
	}
}

// LoadModel loads a mesh from an OBJ or glTF file based on the extension.
func LoadModel(path string) (*Mesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return LoadOBJ(path)
	case ".gltf", ".glb":
		return LoadGLTF(path)
	default:
		return nil, fmt.Errorf("unsupported model format: %s", path)
	}
}
