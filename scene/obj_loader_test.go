package scene

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quadOBJ = `
# two triangles sharing an edge
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1
f 1/1/1 3/3/1 4/4/1
`

func TestParseOBJQuad(t *testing.T) {
	mesh, err := ParseOBJ(strings.NewReader(quadOBJ), "quad")
	require.NoError(t, err)

	// Shared corners dedup to four vertices.
	assert.Len(t, mesh.Vertices, 4)
	assert.Len(t, mesh.Indices, 6)
	assert.Equal(t, "quad", mesh.Name)

	for _, v := range mesh.Vertices {
		assert.Equal(t, float32(1), v.Normal.Z)
	}
}

func TestParseOBJFanTriangulation(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`
	mesh, err := ParseOBJ(strings.NewReader(src), "fan")
	require.NoError(t, err)

	assert.Len(t, mesh.Vertices, 4)
	require.Len(t, mesh.Indices, 6)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, mesh.Indices)
}

func TestParseOBJNegativeIndices(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`
	mesh, err := ParseOBJ(strings.NewReader(src), "neg")
	require.NoError(t, err)
	assert.Len(t, mesh.Indices, 3)
}

func TestParseOBJErrors(t *testing.T) {
	_, err := ParseOBJ(strings.NewReader("v 0 0 0\nf 1 2 9"), "bad")
	assert.Error(t, err)

	_, err = ParseOBJ(strings.NewReader("# nothing here"), "empty")
	assert.Error(t, err)
}
