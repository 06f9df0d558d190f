package vulkan

import (
	"fmt"
	"unsafe"
)

// FrameData is one logical buffer replicated per frame in flight: a single
// VkBuffer holding count slots, each padded to the device offset alignment.
// The CPU writes the slot for the image being prepared while the GPU still
// reads the slots of frames in flight.
type FrameData struct {
	Buffer      *Buffer
	SlotSize    uint64
	AlignedSize uint64
	Count       int
}

// AlignUp rounds value up to the next multiple of alignment.
// A zero alignment leaves the value unchanged.
func AlignUp(value, alignment uint64) uint64 {
	if alignment == 0 {
		return value
	}
	return (value + alignment - 1) / alignment * alignment
}

func NewFrameData(device *Device, slotSize uint64, count int, usage BufferUsage, alignment uint64) (*FrameData, error) {
	if count <= 0 {
		return nil, fmt.Errorf("frame data needs at least one slot, got %d", count)
	}

	alignedSize := AlignUp(slotSize, alignment)
	buffer, err := NewHostBuffer(device, alignedSize*uint64(count), usage)
	if err != nil {
		return nil, err
	}

	return &FrameData{
		Buffer:      buffer,
		SlotSize:    slotSize,
		AlignedSize: alignedSize,
		Count:       count,
	}, nil
}

func (fd *FrameData) OffsetFor(slot int) uint64 {
	return fd.AlignedSize * uint64(slot)
}

func (fd *FrameData) WriteSlot(slot int, data unsafe.Pointer, size uint64) {
	fd.Buffer.CopyDataAt(fd.OffsetFor(slot), data, size)
}

func (fd *FrameData) Destroy(device *Device) {
	fd.Buffer.Destroy(device)
}
