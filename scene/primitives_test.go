package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCube(t *testing.T) {
	cube := CreateCube(0.5)

	// 6 faces, 4 vertices and 2 triangles each.
	require.Len(t, cube.Vertices, 24)
	require.Len(t, cube.Indices, 36)

	for _, v := range cube.Vertices {
		assert.InDelta(t, 0.5, abs(v.Position.X), 1e-6)
		assert.InDelta(t, 0.5, abs(v.Position.Y), 1e-6)
		assert.InDelta(t, 0.5, abs(v.Position.Z), 1e-6)
		assert.InDelta(t, 1.0, v.Normal.Length(), 1e-6)
	}

	for _, idx := range cube.Indices {
		assert.Less(t, int(idx), len(cube.Vertices))
	}
}

func TestCreateCubeFaceNormals(t *testing.T) {
	cube := CreateCube(1.0)

	// Every vertex lies on the face its normal points out of.
	for _, v := range cube.Vertices {
		assert.InDelta(t, 1.0, v.Position.Dot(v.Normal), 1e-6)
	}
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
