package vulkan

/*
#include <vulkan/vulkan.h>

static PFN_vkCmdBeginConditionalRenderingEXT pfnCmdBeginConditionalRendering = NULL;
static PFN_vkCmdEndConditionalRenderingEXT pfnCmdEndConditionalRendering = NULL;

int loadConditionalRenderingProcs(VkDevice device) {
    pfnCmdBeginConditionalRendering = (PFN_vkCmdBeginConditionalRenderingEXT)vkGetDeviceProcAddr(device, "vkCmdBeginConditionalRenderingEXT");
    pfnCmdEndConditionalRendering = (PFN_vkCmdEndConditionalRenderingEXT)vkGetDeviceProcAddr(device, "vkCmdEndConditionalRenderingEXT");
    return pfnCmdBeginConditionalRendering != NULL && pfnCmdEndConditionalRendering != NULL;
}

void CmdBeginConditionalRendering(VkCommandBuffer commandBuffer, VkBuffer buffer, VkDeviceSize offset, VkConditionalRenderingFlagsEXT flags) {
    VkConditionalRenderingBeginInfoEXT beginInfo = {0};
    beginInfo.sType = VK_STRUCTURE_TYPE_CONDITIONAL_RENDERING_BEGIN_INFO_EXT;
    beginInfo.buffer = buffer;
    beginInfo.offset = offset;
    beginInfo.flags = flags;
    pfnCmdBeginConditionalRendering(commandBuffer, &beginInfo);
}

void CmdEndConditionalRendering(VkCommandBuffer commandBuffer) {
    pfnCmdEndConditionalRendering(commandBuffer);
}
*/
import "C"
import "fmt"

// loadConditionalRenderingCommands resolves the VK_EXT_conditional_rendering
// entry points. They are device-level commands, so this runs once right
// after vkCreateDevice.
func loadConditionalRenderingCommands(device C.VkDevice) error {
	if C.loadConditionalRenderingProcs(device) == 0 {
		return fmt.Errorf("failed to load conditional rendering commands")
	}
	return nil
}

// BeginConditionalRendering opens a conditional block gated by the 32-bit
// value in the given frame-data slot: zero skips the commands, non-zero
// executes them. The inverted flag flips the test.
func (cb *CommandBuffer) BeginConditionalRendering(fd *FrameData, slot int, inverted bool) {
	var flags C.VkConditionalRenderingFlagsEXT
	if inverted {
		flags = C.VK_CONDITIONAL_RENDERING_INVERTED_BIT_EXT
	}
	C.CmdBeginConditionalRendering(cb.Handle, fd.Buffer.Handle, C.VkDeviceSize(fd.OffsetFor(slot)), flags)
}

func (cb *CommandBuffer) EndConditionalRendering() {
	C.CmdEndConditionalRendering(cb.Handle)
}
