package vulkan

/*
#include <vulkan/vulkan.h>

void cmdBeginRenderPassClear(VkCommandBuffer cb, VkRenderPass renderPass, VkFramebuffer framebuffer, uint32_t width, uint32_t height, float r, float g, float b, float a) {
    VkClearValue clearValue;
    clearValue.color.float32[0] = r;
    clearValue.color.float32[1] = g;
    clearValue.color.float32[2] = b;
    clearValue.color.float32[3] = a;

    VkRenderPassBeginInfo beginInfo = {0};
    beginInfo.sType = VK_STRUCTURE_TYPE_RENDER_PASS_BEGIN_INFO;
    beginInfo.renderPass = renderPass;
    beginInfo.framebuffer = framebuffer;
    beginInfo.renderArea.extent.width = width;
    beginInfo.renderArea.extent.height = height;
    beginInfo.clearValueCount = 1;
    beginInfo.pClearValues = &clearValue;

    vkCmdBeginRenderPass(cb, &beginInfo, VK_SUBPASS_CONTENTS_INLINE);
}

void cmdClearColorAttachment(VkCommandBuffer cb, uint32_t width, uint32_t height, float r, float g, float b, float a) {
    VkClearAttachment attachment = {0};
    attachment.aspectMask = VK_IMAGE_ASPECT_COLOR_BIT;
    attachment.colorAttachment = 0;
    attachment.clearValue.color.float32[0] = r;
    attachment.clearValue.color.float32[1] = g;
    attachment.clearValue.color.float32[2] = b;
    attachment.clearValue.color.float32[3] = a;

    VkClearRect rect = {0};
    rect.rect.extent.width = width;
    rect.rect.extent.height = height;
    rect.baseArrayLayer = 0;
    rect.layerCount = 1;

    vkCmdClearAttachments(cb, 1, &attachment, 1, &rect);
}

void cmdBufferBarrier(VkCommandBuffer cb, VkPipelineStageFlags srcStage, VkPipelineStageFlags dstStage, VkAccessFlags srcAccess, VkAccessFlags dstAccess, VkBuffer buffer, VkDeviceSize offset, VkDeviceSize size) {
    VkBufferMemoryBarrier barrier = {0};
    barrier.sType = VK_STRUCTURE_TYPE_BUFFER_MEMORY_BARRIER;
    barrier.srcAccessMask = srcAccess;
    barrier.dstAccessMask = dstAccess;
    barrier.srcQueueFamilyIndex = VK_QUEUE_FAMILY_IGNORED;
    barrier.dstQueueFamilyIndex = VK_QUEUE_FAMILY_IGNORED;
    barrier.buffer = buffer;
    barrier.offset = offset;
    barrier.size = size;

    vkCmdPipelineBarrier(cb, srcStage, dstStage, 0, 0, NULL, 1, &barrier, 0, NULL);
}
*/
import "C"
import (
	"fmt"

	"cond-render/core"
)

type CommandBuffer struct {
	Handle C.VkCommandBuffer
}

func AllocateCommandBuffers(device *Device, pool C.VkCommandPool, count uint32) ([]CommandBuffer, error) {
	allocInfo := C.VkCommandBufferAllocateInfo{
		sType:              C.VK_STRUCTURE_TYPE_COMMAND_BUFFER_ALLOCATE_INFO,
		commandPool:        pool,
		level:              C.VK_COMMAND_BUFFER_LEVEL_PRIMARY,
		commandBufferCount: C.uint32_t(count),
	}

	buffers := make([]CommandBuffer, count)
	handles := make([]C.VkCommandBuffer, count)

	result := C.vkAllocateCommandBuffers(device.Device, &allocInfo, &handles[0])
	if result != C.VK_SUCCESS {
		return nil, fmt.Errorf("failed to allocate command buffers: %d", result)
	}

	for i := range buffers {
		buffers[i].Handle = handles[i]
	}

	return buffers, nil
}

func FreeCommandBuffers(device *Device, pool C.VkCommandPool, buffers []CommandBuffer) {
	handles := make([]C.VkCommandBuffer, len(buffers))
	for i, buf := range buffers {
		handles[i] = buf.Handle
	}
	C.vkFreeCommandBuffers(device.Device, pool, C.uint32_t(len(handles)), &handles[0])
}

func (cb *CommandBuffer) Begin(oneTime bool) error {
	beginInfo := C.VkCommandBufferBeginInfo{
		sType: C.VK_STRUCTURE_TYPE_COMMAND_BUFFER_BEGIN_INFO,
	}

	if oneTime {
		beginInfo.flags = C.VK_COMMAND_BUFFER_USAGE_ONE_TIME_SUBMIT_BIT
	}

	result := C.vkBeginCommandBuffer(cb.Handle, &beginInfo)
	if result != C.VK_SUCCESS {
		return fmt.Errorf("failed to begin recording command buffer: %d", result)
	}
	return nil
}

func (cb *CommandBuffer) End() error {
	result := C.vkEndCommandBuffer(cb.Handle)
	if result != C.VK_SUCCESS {
		return fmt.Errorf("failed to end recording command buffer: %d", result)
	}
	return nil
}

func (cb *CommandBuffer) Reset() error {
	result := C.vkResetCommandBuffer(cb.Handle, 0)
	if result != C.VK_SUCCESS {
		return fmt.Errorf("failed to reset command buffer: %d", result)
	}
	return nil
}

// BeginRenderPassClear starts a render pass on the given framebuffer,
// clearing the color attachment to the given color.
func (cb *CommandBuffer) BeginRenderPassClear(renderPass C.VkRenderPass, framebuffer C.VkFramebuffer, width, height uint32, clearColor core.Color) {
	C.cmdBeginRenderPassClear(cb.Handle, renderPass, framebuffer,
		C.uint32_t(width), C.uint32_t(height),
		C.float(clearColor.R), C.float(clearColor.G), C.float(clearColor.B), C.float(clearColor.A))
}

func (cb *CommandBuffer) EndRenderPass() {
	C.vkCmdEndRenderPass(cb.Handle)
}

func (cb *CommandBuffer) BindPipeline(pipeline *Pipeline) {
	C.vkCmdBindPipeline(cb.Handle, C.VK_PIPELINE_BIND_POINT_GRAPHICS, pipeline.Handle)
}

func (cb *CommandBuffer) BindComputePipeline(pipeline *ComputePipeline) {
	C.vkCmdBindPipeline(cb.Handle, C.VK_PIPELINE_BIND_POINT_COMPUTE, pipeline.Handle)
}

func (cb *CommandBuffer) BindVertexBuffer(buffer *Buffer) {
	offset := C.VkDeviceSize(0)
	C.vkCmdBindVertexBuffers(cb.Handle, 0, 1, &buffer.Handle, &offset)
}

func (cb *CommandBuffer) BindIndexBuffer(buffer *Buffer) {
	C.vkCmdBindIndexBuffer(cb.Handle, buffer.Handle, 0, C.VK_INDEX_TYPE_UINT32)
}

func (cb *CommandBuffer) BindDescriptorSet(pipeline *Pipeline, set DescriptorSet) {
	C.vkCmdBindDescriptorSets(cb.Handle, C.VK_PIPELINE_BIND_POINT_GRAPHICS, pipeline.Layout, 0, 1, &set.Handle, 0, nil)
}

func (cb *CommandBuffer) BindComputeDescriptorSet(pipeline *ComputePipeline, set DescriptorSet) {
	C.vkCmdBindDescriptorSets(cb.Handle, C.VK_PIPELINE_BIND_POINT_COMPUTE, pipeline.Layout, 0, 1, &set.Handle, 0, nil)
}

func (cb *CommandBuffer) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	C.vkCmdDraw(cb.Handle, C.uint32_t(vertexCount), C.uint32_t(instanceCount), C.uint32_t(firstVertex), C.uint32_t(firstInstance))
}

func (cb *CommandBuffer) DrawIndexed(indexCount, instanceCount uint32) {
	C.vkCmdDrawIndexed(cb.Handle, C.uint32_t(indexCount), C.uint32_t(instanceCount), 0, 0, 0)
}

func (cb *CommandBuffer) Dispatch(x, y, z uint32) {
	C.vkCmdDispatch(cb.Handle, C.uint32_t(x), C.uint32_t(y), C.uint32_t(z))
}

// ClearColorAttachment clears the color attachment inside the render pass
// with vkCmdClearAttachments, so the clear obeys conditional rendering.
func (cb *CommandBuffer) ClearColorAttachment(color core.Color, width, height uint32) {
	C.cmdClearColorAttachment(cb.Handle, C.uint32_t(width), C.uint32_t(height),
		C.float(color.R), C.float(color.G), C.float(color.B), C.float(color.A))
}

// HostToComputeBarrier makes the host write of a frame-data slot available
// to compute shader reads and writes.
func (cb *CommandBuffer) HostToComputeBarrier(fd *FrameData, slot int) {
	C.cmdBufferBarrier(cb.Handle,
		C.VK_PIPELINE_STAGE_HOST_BIT,
		C.VK_PIPELINE_STAGE_COMPUTE_SHADER_BIT,
		C.VK_ACCESS_HOST_WRITE_BIT,
		C.VK_ACCESS_SHADER_READ_BIT|C.VK_ACCESS_SHADER_WRITE_BIT,
		fd.Buffer.Handle,
		C.VkDeviceSize(fd.OffsetFor(slot)),
		C.VkDeviceSize(fd.SlotSize))
}

// ComputeToFragmentBarrier makes the compute shader write of a frame-data
// slot visible to fragment shader reads.
func (cb *CommandBuffer) ComputeToFragmentBarrier(fd *FrameData, slot int) {
	C.cmdBufferBarrier(cb.Handle,
		C.VK_PIPELINE_STAGE_COMPUTE_SHADER_BIT,
		C.VK_PIPELINE_STAGE_FRAGMENT_SHADER_BIT,
		C.VK_ACCESS_SHADER_READ_BIT|C.VK_ACCESS_SHADER_WRITE_BIT,
		C.VK_ACCESS_SHADER_READ_BIT,
		fd.Buffer.Handle,
		C.VkDeviceSize(fd.OffsetFor(slot)),
		C.VkDeviceSize(fd.SlotSize))
}
