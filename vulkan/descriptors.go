package vulkan

/*
#include <vulkan/vulkan.h>
*/
import "C"
import (
	"fmt"
)

// DescriptorType mirrors the VkDescriptorType values the demo binds so
// packages outside this one can describe layouts without cgo types.
type DescriptorType int

const (
	DescriptorUniformBuffer DescriptorType = iota
	DescriptorStorageBuffer
	DescriptorUniformTexelBuffer
)

func (t DescriptorType) toVk() C.VkDescriptorType {
	switch t {
	case DescriptorStorageBuffer:
		return C.VK_DESCRIPTOR_TYPE_STORAGE_BUFFER
	case DescriptorUniformTexelBuffer:
		return C.VK_DESCRIPTOR_TYPE_UNIFORM_TEXEL_BUFFER
	default:
		return C.VK_DESCRIPTOR_TYPE_UNIFORM_BUFFER
	}
}

type ShaderStages uint32

const (
	StageVertex ShaderStages = 1 << iota
	StageFragment
	StageCompute
)

func (s ShaderStages) toVk() C.VkShaderStageFlags {
	var flags C.VkShaderStageFlags
	if s&StageVertex != 0 {
		flags |= C.VK_SHADER_STAGE_VERTEX_BIT
	}
	if s&StageFragment != 0 {
		flags |= C.VK_SHADER_STAGE_FRAGMENT_BIT
	}
	if s&StageCompute != 0 {
		flags |= C.VK_SHADER_STAGE_COMPUTE_BIT
	}
	return flags
}

type DescriptorBinding struct {
	Binding uint32
	Type    DescriptorType
	Stages  ShaderStages
}

type DescriptorSetLayout struct {
	Handle C.VkDescriptorSetLayout
}

type DescriptorPool struct {
	Handle C.VkDescriptorPool
}

type DescriptorSet struct {
	Handle C.VkDescriptorSet
}

type PoolSize struct {
	Type  DescriptorType
	Count uint32
}

func CreateDescriptorSetLayout(device *Device, bindings []DescriptorBinding) (DescriptorSetLayout, error) {
	vkBindings := make([]C.VkDescriptorSetLayoutBinding, len(bindings))
	for i, b := range bindings {
		vkBindings[i] = C.VkDescriptorSetLayoutBinding{
			binding:         C.uint32_t(b.Binding),
			descriptorType:  b.Type.toVk(),
			descriptorCount: 1,
			stageFlags:      b.Stages.toVk(),
		}
	}

	layoutInfo := C.VkDescriptorSetLayoutCreateInfo{
		sType:        C.VK_STRUCTURE_TYPE_DESCRIPTOR_SET_LAYOUT_CREATE_INFO,
		bindingCount: C.uint32_t(len(vkBindings)),
		pBindings:    &vkBindings[0],
	}

	var layout C.VkDescriptorSetLayout
	result := C.vkCreateDescriptorSetLayout(device.Device, &layoutInfo, nil, &layout)
	if result != C.VK_SUCCESS {
		return DescriptorSetLayout{}, fmt.Errorf("failed to create descriptor set layout: %d", result)
	}

	return DescriptorSetLayout{Handle: layout}, nil
}

func (l DescriptorSetLayout) Destroy(device *Device) {
	if l.Handle != nil {
		C.vkDestroyDescriptorSetLayout(device.Device, l.Handle, nil)
	}
}

func CreateDescriptorPool(device *Device, poolSizes []PoolSize, maxSets uint32) (*DescriptorPool, error) {
	vkSizes := make([]C.VkDescriptorPoolSize, len(poolSizes))
	for i, s := range poolSizes {
		vkSizes[i] = C.VkDescriptorPoolSize{
			_type:           s.Type.toVk(),
			descriptorCount: C.uint32_t(s.Count),
		}
	}

	poolInfo := C.VkDescriptorPoolCreateInfo{
		sType:         C.VK_STRUCTURE_TYPE_DESCRIPTOR_POOL_CREATE_INFO,
		poolSizeCount: C.uint32_t(len(vkSizes)),
		pPoolSizes:    &vkSizes[0],
		maxSets:       C.uint32_t(maxSets),
	}

	pool := &DescriptorPool{}
	result := C.vkCreateDescriptorPool(device.Device, &poolInfo, nil, &pool.Handle)
	if result != C.VK_SUCCESS {
		return nil, fmt.Errorf("failed to create descriptor pool: %d", result)
	}

	return pool, nil
}

func (p *DescriptorPool) Destroy(device *Device) {
	C.vkDestroyDescriptorPool(device.Device, p.Handle, nil)
}

// AllocateDescriptorSets allocates count sets sharing one layout.
func (p *DescriptorPool) AllocateDescriptorSets(device *Device, layout DescriptorSetLayout, count int) ([]DescriptorSet, error) {
	layouts := make([]C.VkDescriptorSetLayout, count)
	for i := range layouts {
		layouts[i] = layout.Handle
	}

	allocInfo := C.VkDescriptorSetAllocateInfo{
		sType:              C.VK_STRUCTURE_TYPE_DESCRIPTOR_SET_ALLOCATE_INFO,
		descriptorPool:     p.Handle,
		descriptorSetCount: C.uint32_t(count),
		pSetLayouts:        &layouts[0],
	}

	handles := make([]C.VkDescriptorSet, count)
	result := C.vkAllocateDescriptorSets(device.Device, &allocInfo, &handles[0])
	if result != C.VK_SUCCESS {
		return nil, fmt.Errorf("failed to allocate descriptor sets: %d", result)
	}

	sets := make([]DescriptorSet, count)
	for i := range sets {
		sets[i].Handle = handles[i]
	}

	return sets, nil
}

// UpdateDescriptorSetBuffer points a buffer descriptor at one slot of a
// per-frame buffer.
func UpdateDescriptorSetBuffer(device *Device, set DescriptorSet, binding uint32, descType DescriptorType, fd *FrameData, slot int) {
	bufferInfo := C.VkDescriptorBufferInfo{
		buffer: fd.Buffer.Handle,
		offset: C.VkDeviceSize(fd.OffsetFor(slot)),
		_range: C.VkDeviceSize(fd.SlotSize),
	}

	descriptorWrite := C.VkWriteDescriptorSet{
		sType:           C.VK_STRUCTURE_TYPE_WRITE_DESCRIPTOR_SET,
		dstSet:          set.Handle,
		dstBinding:      C.uint32_t(binding),
		dstArrayElement: 0,
		descriptorType:  descType.toVk(),
		descriptorCount: 1,
		pBufferInfo:     &bufferInfo,
	}

	C.vkUpdateDescriptorSets(device.Device, 1, &descriptorWrite, 0, nil)
}

func UpdateDescriptorSetTexelBuffer(device *Device, set DescriptorSet, binding uint32, view *BufferView) {
	descriptorWrite := C.VkWriteDescriptorSet{
		sType:            C.VK_STRUCTURE_TYPE_WRITE_DESCRIPTOR_SET,
		dstSet:           set.Handle,
		dstBinding:       C.uint32_t(binding),
		dstArrayElement:  0,
		descriptorType:   C.VK_DESCRIPTOR_TYPE_UNIFORM_TEXEL_BUFFER,
		descriptorCount:  1,
		pTexelBufferView: &view.Handle,
	}

	C.vkUpdateDescriptorSets(device.Device, 1, &descriptorWrite, 0, nil)
}
