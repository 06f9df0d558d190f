package vulkan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlignUp(t *testing.T) {
	assert.Equal(t, uint64(0), AlignUp(0, 256))
	assert.Equal(t, uint64(256), AlignUp(1, 256))
	assert.Equal(t, uint64(256), AlignUp(256, 256))
	assert.Equal(t, uint64(512), AlignUp(257, 256))
	assert.Equal(t, uint64(64), AlignUp(64, 16))
	assert.Equal(t, uint64(80), AlignUp(65, 16))
}

func TestAlignUpZeroAlignment(t *testing.T) {
	assert.Equal(t, uint64(123), AlignUp(123, 0))
}

func TestFrameDataOffsets(t *testing.T) {
	fd := &FrameData{
		SlotSize:    4,
		AlignedSize: AlignUp(4, 256),
		Count:       3,
	}

	assert.Equal(t, uint64(0), fd.OffsetFor(0))
	assert.Equal(t, uint64(256), fd.OffsetFor(1))
	assert.Equal(t, uint64(512), fd.OffsetFor(2))
}

func TestFrameDataOffsetsAlreadyAligned(t *testing.T) {
	fd := &FrameData{
		SlotSize:    64,
		AlignedSize: AlignUp(64, 64),
		Count:       2,
	}

	assert.Equal(t, uint64(64), fd.AlignedSize)
	assert.Equal(t, uint64(64), fd.OffsetFor(1))
}
