package renderer

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

// The uniform structs are uploaded byte-for-byte into buffer slots the
// shaders read as std140 blocks, so their sizes are part of the GPU
// interface.
func TestUniformStructSizes(t *testing.T) {
	assert.Equal(t, uintptr(64), unsafe.Sizeof(CameraData{}))
	assert.Equal(t, uintptr(64), unsafe.Sizeof(ModelData{}))
	assert.Equal(t, uintptr(4), unsafe.Sizeof(DispatchData{}))
	assert.Equal(t, uintptr(4), unsafe.Sizeof(ConditionData{}))
}
