package vulkan

/*
#include <vulkan/vulkan.h>
#include <stdlib.h>
#include <string.h>

VkShaderModule createShaderModule(VkDevice device, const uint32_t* code, size_t size) {
    VkShaderModuleCreateInfo createInfo = {0};
    createInfo.sType = VK_STRUCTURE_TYPE_SHADER_MODULE_CREATE_INFO;
    createInfo.codeSize = size;
    createInfo.pCode = code;

    VkShaderModule shaderModule;
    if (vkCreateShaderModule(device, &createInfo, NULL, &shaderModule) != VK_SUCCESS) {
        return NULL;
    }
    return shaderModule;
}
*/
import "C"
import (
	"fmt"
	"unsafe"

	"cond-render/core"
)

type Pipeline struct {
	Handle              C.VkPipeline
	Layout              C.VkPipelineLayout
	RenderPass          C.VkRenderPass
	VertexShader        C.VkShaderModule
	FragShader          C.VkShaderModule
	DescriptorSetLayout C.VkDescriptorSetLayout
}

// ComputePipeline is a single-stage compute pipeline with its layout.
type ComputePipeline struct {
	Handle              C.VkPipeline
	Layout              C.VkPipelineLayout
	Shader              C.VkShaderModule
	DescriptorSetLayout C.VkDescriptorSetLayout
}

type VertexInputDescription struct {
	BindingDescriptions   []C.VkVertexInputBindingDescription
	AttributeDescriptions []C.VkVertexInputAttributeDescription
}

// MeshVertexDescription describes core.Vertex as the single vertex binding:
// position, normal, uv, and color at locations 0 through 3.
func MeshVertexDescription() VertexInputDescription {
	var v core.Vertex
	stride := uint32(unsafe.Sizeof(v))

	return VertexInputDescription{
		BindingDescriptions: []C.VkVertexInputBindingDescription{
			{
				binding:   0,
				stride:    C.uint32_t(stride),
				inputRate: C.VK_VERTEX_INPUT_RATE_VERTEX,
			},
		},
		AttributeDescriptions: []C.VkVertexInputAttributeDescription{
			{location: 0, binding: 0, format: C.VK_FORMAT_R32G32B32_SFLOAT, offset: C.uint32_t(unsafe.Offsetof(v.Position))},
			{location: 1, binding: 0, format: C.VK_FORMAT_R32G32B32_SFLOAT, offset: C.uint32_t(unsafe.Offsetof(v.Normal))},
			{location: 2, binding: 0, format: C.VK_FORMAT_R32G32_SFLOAT, offset: C.uint32_t(unsafe.Offsetof(v.UV))},
			{location: 3, binding: 0, format: C.VK_FORMAT_R32G32B32A32_SFLOAT, offset: C.uint32_t(unsafe.Offsetof(v.Color))},
		},
	}
}

type PipelineConfig struct {
	VertexShaderCode    []uint32
	FragmentShaderCode  []uint32
	VertexDescription   VertexInputDescription
	Topology            C.VkPrimitiveTopology
	PolygonMode         C.VkPolygonMode
	CullMode            C.VkCullModeFlags
	FrontFace           C.VkFrontFace
	ViewportWidth       float32
	ViewportHeight      float32
	RenderPass          C.VkRenderPass
	DescriptorSetLayout C.VkDescriptorSetLayout
}

func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Topology:    C.VK_PRIMITIVE_TOPOLOGY_TRIANGLE_LIST,
		PolygonMode: C.VK_POLYGON_MODE_FILL,
		CullMode:    C.VK_CULL_MODE_NONE,
		FrontFace:   C.VK_FRONT_FACE_COUNTER_CLOCKWISE,
	}
}

func CreateGraphicsPipeline(device *Device, config PipelineConfig) (*Pipeline, error) {
	p := &Pipeline{RenderPass: config.RenderPass}

	if len(config.VertexShaderCode) > 0 {
		p.VertexShader = C.createShaderModule(device.Device, (*C.uint32_t)(unsafe.Pointer(&config.VertexShaderCode[0])), C.size_t(len(config.VertexShaderCode)*4))
		if p.VertexShader == nil {
			return nil, fmt.Errorf("failed to create vertex shader module")
		}
	}

	if len(config.FragmentShaderCode) > 0 {
		p.FragShader = C.createShaderModule(device.Device, (*C.uint32_t)(unsafe.Pointer(&config.FragmentShaderCode[0])), C.size_t(len(config.FragmentShaderCode)*4))
		if p.FragShader == nil {
			return nil, fmt.Errorf("failed to create fragment shader module")
		}
	}

	shaderStages := []C.VkPipelineShaderStageCreateInfo{
		{
			sType:  C.VK_STRUCTURE_TYPE_PIPELINE_SHADER_STAGE_CREATE_INFO,
			stage:  C.VK_SHADER_STAGE_VERTEX_BIT,
			module: p.VertexShader,
			pName:  C.CString("main"),
		},
		{
			sType:  C.VK_STRUCTURE_TYPE_PIPELINE_SHADER_STAGE_CREATE_INFO,
			stage:  C.VK_SHADER_STAGE_FRAGMENT_BIT,
			module: p.FragShader,
			pName:  C.CString("main"),
		},
	}
	defer C.free(unsafe.Pointer(shaderStages[0].pName))
	defer C.free(unsafe.Pointer(shaderStages[1].pName))

	var vertexInputInfo C.VkPipelineVertexInputStateCreateInfo
	if len(config.VertexDescription.BindingDescriptions) > 0 {
		vertexInputInfo = C.VkPipelineVertexInputStateCreateInfo{
			sType:                           C.VK_STRUCTURE_TYPE_PIPELINE_VERTEX_INPUT_STATE_CREATE_INFO,
			vertexBindingDescriptionCount:   C.uint32_t(len(config.VertexDescription.BindingDescriptions)),
			pVertexBindingDescriptions:      &config.VertexDescription.BindingDescriptions[0],
			vertexAttributeDescriptionCount: C.uint32_t(len(config.VertexDescription.AttributeDescriptions)),
			pVertexAttributeDescriptions:    &config.VertexDescription.AttributeDescriptions[0],
		}
	} else {
		vertexInputInfo = C.VkPipelineVertexInputStateCreateInfo{
			sType: C.VK_STRUCTURE_TYPE_PIPELINE_VERTEX_INPUT_STATE_CREATE_INFO,
		}
	}

	inputAssembly := C.VkPipelineInputAssemblyStateCreateInfo{
		sType:    C.VK_STRUCTURE_TYPE_PIPELINE_INPUT_ASSEMBLY_STATE_CREATE_INFO,
		topology: config.Topology,
	}

	viewport := C.VkViewport{
		x:        0,
		y:        0,
		width:    C.float(config.ViewportWidth),
		height:   C.float(config.ViewportHeight),
		minDepth: 0,
		maxDepth: 1,
	}

	scissor := C.VkRect2D{
		offset: C.VkOffset2D{x: 0, y: 0},
		extent: C.VkExtent2D{width: C.uint32_t(config.ViewportWidth), height: C.uint32_t(config.ViewportHeight)},
	}

	viewportState := C.VkPipelineViewportStateCreateInfo{
		sType:         C.VK_STRUCTURE_TYPE_PIPELINE_VIEWPORT_STATE_CREATE_INFO,
		viewportCount: 1,
		pViewports:    &viewport,
		scissorCount:  1,
		pScissors:     &scissor,
	}

	rasterizer := C.VkPipelineRasterizationStateCreateInfo{
		sType:                   C.VK_STRUCTURE_TYPE_PIPELINE_RASTERIZATION_STATE_CREATE_INFO,
		depthClampEnable:        C.VK_FALSE,
		rasterizerDiscardEnable: C.VK_FALSE,
		polygonMode:             config.PolygonMode,
		cullMode:                config.CullMode,
		frontFace:               config.FrontFace,
		depthBiasEnable:         C.VK_FALSE,
		lineWidth:               1.0,
	}

	multisampling := C.VkPipelineMultisampleStateCreateInfo{
		sType:                C.VK_STRUCTURE_TYPE_PIPELINE_MULTISAMPLE_STATE_CREATE_INFO,
		rasterizationSamples: C.VK_SAMPLE_COUNT_1_BIT,
	}

	// The demo renders without a depth attachment and with opaque output,
	// so depth test and blending stay off.
	depthStencil := C.VkPipelineDepthStencilStateCreateInfo{
		sType:            C.VK_STRUCTURE_TYPE_PIPELINE_DEPTH_STENCIL_STATE_CREATE_INFO,
		depthTestEnable:  C.VK_FALSE,
		depthWriteEnable: C.VK_FALSE,
	}

	colorBlendAttachment := C.VkPipelineColorBlendAttachmentState{
		colorWriteMask: C.VK_COLOR_COMPONENT_R_BIT | C.VK_COLOR_COMPONENT_G_BIT | C.VK_COLOR_COMPONENT_B_BIT | C.VK_COLOR_COMPONENT_A_BIT,
	}

	colorBlending := C.VkPipelineColorBlendStateCreateInfo{
		sType:           C.VK_STRUCTURE_TYPE_PIPELINE_COLOR_BLEND_STATE_CREATE_INFO,
		logicOpEnable:   C.VK_FALSE,
		attachmentCount: 1,
		pAttachments:    &colorBlendAttachment,
	}

	layoutInfo := C.VkPipelineLayoutCreateInfo{
		sType: C.VK_STRUCTURE_TYPE_PIPELINE_LAYOUT_CREATE_INFO,
	}

	if config.DescriptorSetLayout != nil {
		p.DescriptorSetLayout = config.DescriptorSetLayout
		layoutInfo.setLayoutCount = 1
		layoutInfo.pSetLayouts = &p.DescriptorSetLayout
	}

	result := C.vkCreatePipelineLayout(device.Device, &layoutInfo, nil, &p.Layout)
	if result != C.VK_SUCCESS {
		return nil, fmt.Errorf("failed to create pipeline layout: %d", result)
	}

	pipelineInfo := C.VkGraphicsPipelineCreateInfo{
		sType:               C.VK_STRUCTURE_TYPE_GRAPHICS_PIPELINE_CREATE_INFO,
		stageCount:          2,
		pStages:             &shaderStages[0],
		pVertexInputState:   &vertexInputInfo,
		pInputAssemblyState: &inputAssembly,
		pViewportState:      &viewportState,
		pRasterizationState: &rasterizer,
		pMultisampleState:   &multisampling,
		pDepthStencilState:  &depthStencil,
		pColorBlendState:    &colorBlending,
		layout:              p.Layout,
		renderPass:          p.RenderPass,
		subpass:             0,
	}

	result = C.vkCreateGraphicsPipelines(device.Device, nil, 1, &pipelineInfo, nil, &p.Handle)
	if result != C.VK_SUCCESS {
		return nil, fmt.Errorf("failed to create graphics pipeline: %d", result)
	}

	return p, nil
}

func (p *Pipeline) Destroy(device *Device) {
	if p.Handle != nil {
		C.vkDestroyPipeline(device.Device, p.Handle, nil)
	}
	if p.Layout != nil {
		C.vkDestroyPipelineLayout(device.Device, p.Layout, nil)
	}
	if p.VertexShader != nil {
		C.vkDestroyShaderModule(device.Device, p.VertexShader, nil)
	}
	if p.FragShader != nil {
		C.vkDestroyShaderModule(device.Device, p.FragShader, nil)
	}
}

func CreateComputePipeline(device *Device, shaderCode []uint32, layout DescriptorSetLayout) (*ComputePipeline, error) {
	p := &ComputePipeline{DescriptorSetLayout: layout.Handle}

	p.Shader = C.createShaderModule(device.Device, (*C.uint32_t)(unsafe.Pointer(&shaderCode[0])), C.size_t(len(shaderCode)*4))
	if p.Shader == nil {
		return nil, fmt.Errorf("failed to create compute shader module")
	}

	entryPoint := C.CString("main")
	defer C.free(unsafe.Pointer(entryPoint))

	layoutInfo := C.VkPipelineLayoutCreateInfo{
		sType:          C.VK_STRUCTURE_TYPE_PIPELINE_LAYOUT_CREATE_INFO,
		setLayoutCount: 1,
		pSetLayouts:    &p.DescriptorSetLayout,
	}

	result := C.vkCreatePipelineLayout(device.Device, &layoutInfo, nil, &p.Layout)
	if result != C.VK_SUCCESS {
		return nil, fmt.Errorf("failed to create compute pipeline layout: %d", result)
	}

	pipelineInfo := C.VkComputePipelineCreateInfo{
		sType: C.VK_STRUCTURE_TYPE_COMPUTE_PIPELINE_CREATE_INFO,
		stage: C.VkPipelineShaderStageCreateInfo{
			sType:  C.VK_STRUCTURE_TYPE_PIPELINE_SHADER_STAGE_CREATE_INFO,
			stage:  C.VK_SHADER_STAGE_COMPUTE_BIT,
			module: p.Shader,
			pName:  entryPoint,
		},
		layout: p.Layout,
	}

	result = C.vkCreateComputePipelines(device.Device, nil, 1, &pipelineInfo, nil, &p.Handle)
	if result != C.VK_SUCCESS {
		return nil, fmt.Errorf("failed to create compute pipeline: %d", result)
	}

	return p, nil
}

func (p *ComputePipeline) Destroy(device *Device) {
	if p.Handle != nil {
		C.vkDestroyPipeline(device.Device, p.Handle, nil)
	}
	if p.Layout != nil {
		C.vkDestroyPipelineLayout(device.Device, p.Layout, nil)
	}
	if p.Shader != nil {
		C.vkDestroyShaderModule(device.Device, p.Shader, nil)
	}
}

func CreateRenderPass(device *Device, swapchainFormat C.VkFormat) (C.VkRenderPass, error) {
	colorAttach := (*C.VkAttachmentDescription)(C.malloc(C.size_t(unsafe.Sizeof(C.VkAttachmentDescription{}))))
	defer C.free(unsafe.Pointer(colorAttach))
	C.memset(unsafe.Pointer(colorAttach), 0, C.size_t(unsafe.Sizeof(C.VkAttachmentDescription{})))
	colorAttach.format = swapchainFormat
	colorAttach.samples = C.VK_SAMPLE_COUNT_1_BIT
	colorAttach.loadOp = C.VK_ATTACHMENT_LOAD_OP_CLEAR
	colorAttach.storeOp = C.VK_ATTACHMENT_STORE_OP_STORE
	colorAttach.stencilLoadOp = C.VK_ATTACHMENT_LOAD_OP_DONT_CARE
	colorAttach.stencilStoreOp = C.VK_ATTACHMENT_STORE_OP_DONT_CARE
	colorAttach.initialLayout = C.VK_IMAGE_LAYOUT_UNDEFINED
	colorAttach.finalLayout = C.VK_IMAGE_LAYOUT_PRESENT_SRC_KHR

	colorAttachRef := (*C.VkAttachmentReference)(C.malloc(C.size_t(unsafe.Sizeof(C.VkAttachmentReference{}))))
	defer C.free(unsafe.Pointer(colorAttachRef))
	colorAttachRef.attachment = 0
	colorAttachRef.layout = C.VK_IMAGE_LAYOUT_COLOR_ATTACHMENT_OPTIMAL

	subpass := (*C.VkSubpassDescription)(C.malloc(C.size_t(unsafe.Sizeof(C.VkSubpassDescription{}))))
	defer C.free(unsafe.Pointer(subpass))
	C.memset(unsafe.Pointer(subpass), 0, C.size_t(unsafe.Sizeof(C.VkSubpassDescription{})))
	subpass.pipelineBindPoint = C.VK_PIPELINE_BIND_POINT_GRAPHICS
	subpass.colorAttachmentCount = 1
	subpass.pColorAttachments = colorAttachRef

	dependency := (*C.VkSubpassDependency)(C.malloc(C.size_t(unsafe.Sizeof(C.VkSubpassDependency{}))))
	defer C.free(unsafe.Pointer(dependency))
	dependency.srcSubpass = C.VK_SUBPASS_EXTERNAL
	dependency.dstSubpass = 0
	dependency.srcStageMask = C.VK_PIPELINE_STAGE_COLOR_ATTACHMENT_OUTPUT_BIT
	dependency.srcAccessMask = 0
	dependency.dstStageMask = C.VK_PIPELINE_STAGE_COLOR_ATTACHMENT_OUTPUT_BIT
	dependency.dstAccessMask = C.VK_ACCESS_COLOR_ATTACHMENT_WRITE_BIT

	renderPassInfo := (*C.VkRenderPassCreateInfo)(C.malloc(C.size_t(unsafe.Sizeof(C.VkRenderPassCreateInfo{}))))
	defer C.free(unsafe.Pointer(renderPassInfo))
	C.memset(unsafe.Pointer(renderPassInfo), 0, C.size_t(unsafe.Sizeof(C.VkRenderPassCreateInfo{})))
	renderPassInfo.sType = C.VK_STRUCTURE_TYPE_RENDER_PASS_CREATE_INFO
	renderPassInfo.attachmentCount = 1
	renderPassInfo.pAttachments = colorAttach
	renderPassInfo.subpassCount = 1
	renderPassInfo.pSubpasses = subpass
	renderPassInfo.dependencyCount = 1
	renderPassInfo.pDependencies = dependency

	var renderPass C.VkRenderPass
	result := C.vkCreateRenderPass(device.Device, renderPassInfo, nil, &renderPass)
	if result != C.VK_SUCCESS {
		return nil, fmt.Errorf("failed to create render pass: %d", result)
	}

	return renderPass, nil
}

func DestroyRenderPass(device *Device, renderPass C.VkRenderPass) {
	C.vkDestroyRenderPass(device.Device, renderPass, nil)
}
