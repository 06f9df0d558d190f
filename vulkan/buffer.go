package vulkan

/*
#include <vulkan/vulkan.h>
#include <string.h>
*/
import "C"
import (
	"fmt"
	"unsafe"
)

type Buffer struct {
	Handle     C.VkBuffer
	Memory     C.VkDeviceMemory
	Size       uint64
	MappedData unsafe.Pointer
}

// BufferUsage is the package-level view of VkBufferUsageFlags so callers
// outside this package can request buffers without touching cgo types.
type BufferUsage uint32

const (
	BufferUsageVertex BufferUsage = 1 << iota
	BufferUsageIndex
	BufferUsageUniform
	BufferUsageStorage
	BufferUsageUniformTexel
	BufferUsageConditional
)

func (u BufferUsage) toVk() C.VkBufferUsageFlags {
	var flags C.VkBufferUsageFlags
	if u&BufferUsageVertex != 0 {
		flags |= C.VK_BUFFER_USAGE_VERTEX_BUFFER_BIT
	}
	if u&BufferUsageIndex != 0 {
		flags |= C.VK_BUFFER_USAGE_INDEX_BUFFER_BIT
	}
	if u&BufferUsageUniform != 0 {
		flags |= C.VK_BUFFER_USAGE_UNIFORM_BUFFER_BIT
	}
	if u&BufferUsageStorage != 0 {
		flags |= C.VK_BUFFER_USAGE_STORAGE_BUFFER_BIT
	}
	if u&BufferUsageUniformTexel != 0 {
		flags |= C.VK_BUFFER_USAGE_UNIFORM_TEXEL_BUFFER_BIT
	}
	if u&BufferUsageConditional != 0 {
		flags |= C.VK_BUFFER_USAGE_CONDITIONAL_RENDERING_BIT_EXT
	}
	return flags
}

func createBuffer(device *Device, size uint64, usage C.VkBufferUsageFlags, properties C.VkMemoryPropertyFlags) (*Buffer, error) {
	bufferInfo := C.VkBufferCreateInfo{
		sType:       C.VK_STRUCTURE_TYPE_BUFFER_CREATE_INFO,
		size:        C.VkDeviceSize(size),
		usage:       usage,
		sharingMode: C.VK_SHARING_MODE_EXCLUSIVE,
	}

	buffer := &Buffer{Size: size}

	result := C.vkCreateBuffer(device.Device, &bufferInfo, nil, &buffer.Handle)
	if result != C.VK_SUCCESS {
		return nil, fmt.Errorf("failed to create buffer: %d", result)
	}

	var memRequirements C.VkMemoryRequirements
	C.vkGetBufferMemoryRequirements(device.Device, buffer.Handle, &memRequirements)

	memType, err := device.FindMemoryType(uint32(memRequirements.memoryTypeBits), properties)
	if err != nil {
		return nil, err
	}

	allocInfo := C.VkMemoryAllocateInfo{
		sType:           C.VK_STRUCTURE_TYPE_MEMORY_ALLOCATE_INFO,
		allocationSize:  memRequirements.size,
		memoryTypeIndex: C.uint32_t(memType),
	}

	result = C.vkAllocateMemory(device.Device, &allocInfo, nil, &buffer.Memory)
	if result != C.VK_SUCCESS {
		return nil, fmt.Errorf("failed to allocate buffer memory: %d", result)
	}

	result = C.vkBindBufferMemory(device.Device, buffer.Handle, buffer.Memory, 0)
	if result != C.VK_SUCCESS {
		return nil, fmt.Errorf("failed to bind buffer memory: %d", result)
	}

	return buffer, nil
}

// NewHostBuffer creates a host-visible, host-coherent buffer and leaves it
// persistently mapped. All demo buffers live in host memory since every
// one of them is rewritten by the CPU each frame.
func NewHostBuffer(device *Device, size uint64, usage BufferUsage) (*Buffer, error) {
	buffer, err := createBuffer(device, size, usage.toVk(),
		C.VK_MEMORY_PROPERTY_HOST_VISIBLE_BIT|C.VK_MEMORY_PROPERTY_HOST_COHERENT_BIT)
	if err != nil {
		return nil, err
	}
	if err := buffer.Map(device); err != nil {
		buffer.Destroy(device)
		return nil, err
	}
	return buffer, nil
}

func (b *Buffer) Map(device *Device) error {
	result := C.vkMapMemory(device.Device, b.Memory, 0, C.VkDeviceSize(b.Size), 0, &b.MappedData)
	if result != C.VK_SUCCESS {
		return fmt.Errorf("failed to map buffer memory: %d", result)
	}
	return nil
}

func (b *Buffer) Unmap(device *Device) {
	if b.MappedData != nil {
		C.vkUnmapMemory(device.Device, b.Memory)
		b.MappedData = nil
	}
}

func (b *Buffer) CopyData(data unsafe.Pointer, size uint64) {
	b.CopyDataAt(0, data, size)
}

func (b *Buffer) CopyDataAt(offset uint64, data unsafe.Pointer, size uint64) {
	if b.MappedData != nil {
		C.memcpy(unsafe.Add(b.MappedData, int(offset)), data, C.size_t(size))
	}
}

func (b *Buffer) Destroy(device *Device) {
	b.Unmap(device)
	if b.Handle != nil {
		C.vkDestroyBuffer(device.Device, b.Handle, nil)
	}
	if b.Memory != nil {
		C.vkFreeMemory(device.Device, b.Memory, nil)
	}
}

// BufferView is a uniform texel view of a buffer range. The demo uses one
// R32_SFLOAT texel per view so the fragment shader can texelFetch the value
// the compute stage wrote.
type BufferView struct {
	Handle C.VkBufferView
}

func NewTexelBufferView(device *Device, buffer *Buffer, offset, size uint64) (*BufferView, error) {
	viewInfo := C.VkBufferViewCreateInfo{
		sType:  C.VK_STRUCTURE_TYPE_BUFFER_VIEW_CREATE_INFO,
		buffer: buffer.Handle,
		format: C.VK_FORMAT_R32_SFLOAT,
		offset: C.VkDeviceSize(offset),
		_range: C.VkDeviceSize(size),
	}

	view := &BufferView{}
	result := C.vkCreateBufferView(device.Device, &viewInfo, nil, &view.Handle)
	if result != C.VK_SUCCESS {
		return nil, fmt.Errorf("failed to create buffer view: %d", result)
	}
	return view, nil
}

func (v *BufferView) Destroy(device *Device) {
	if v.Handle != nil {
		C.vkDestroyBufferView(device.Device, v.Handle, nil)
	}
}
