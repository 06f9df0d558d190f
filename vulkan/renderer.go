package vulkan

/*
#include <vulkan/vulkan.h>
*/
import "C"
import (
	"fmt"
	"unsafe"

	"cond-render/core"
)

const MaxFramesInFlight = 2

// Renderer owns the Vulkan bring-up: instance, surface, device, swapchain,
// render pass, one prerecorded command buffer per swapchain image, and the
// frames-in-flight synchronization objects.
type Renderer struct {
	Instance   *Instance
	Surface    C.VkSurfaceKHR
	Device     *Device
	SwapChain  *SwapChain
	RenderPass C.VkRenderPass

	CommandBuffers []CommandBuffer
	ImageAvailable []*Semaphore
	RenderFinished []*Semaphore
	InFlightFences []*Fence
	ImagesInFlight []*Fence
	CurrentFrame   uint32

	vsync bool
}

type RendererConfig struct {
	EnableValidation bool
	VSync            bool
}

func DefaultRendererConfig() RendererConfig {
	return RendererConfig{
		EnableValidation: true,
		VSync:            true,
	}
}

func NewRenderer(window *core.Window, config RendererConfig) (*Renderer, error) {
	r := &Renderer{vsync: config.VSync}

	instanceConfig := DefaultInstanceConfig()
	instanceConfig.EnableValidation = config.EnableValidation
	instanceConfig.RequiredExtensions = window.GetRequiredInstanceExtensions()

	instance, err := NewInstance(instanceConfig)
	if err != nil {
		return nil, err
	}
	r.Instance = instance

	if err := r.createSurface(window); err != nil {
		return nil, err
	}

	device, err := PickPhysicalDevice(instance, r.Surface)
	if err != nil {
		return nil, err
	}
	r.Device = device

	if err := device.CreateLogicalDevice(r.Surface); err != nil {
		return nil, err
	}

	width, height := window.GetFramebufferSize()
	swapConfig := SwapChainConfig{
		Width:  uint32(width),
		Height: uint32(height),
		VSync:  config.VSync,
	}

	swapChain, err := CreateSwapChain(device, r.Surface, swapConfig)
	if err != nil {
		return nil, err
	}
	r.SwapChain = swapChain

	renderPass, err := CreateRenderPass(device, swapChain.Format)
	if err != nil {
		return nil, err
	}
	r.RenderPass = renderPass

	if err := swapChain.CreateFramebuffers(device, renderPass); err != nil {
		return nil, err
	}

	// One command buffer per swapchain image: each is recorded once against
	// that image's frame-data slots and resubmitted every frame.
	r.CommandBuffers, err = AllocateCommandBuffers(device, device.CommandPool, swapChain.ImageCount)
	if err != nil {
		return nil, err
	}

	r.ImageAvailable = make([]*Semaphore, MaxFramesInFlight)
	r.RenderFinished = make([]*Semaphore, MaxFramesInFlight)
	r.InFlightFences = make([]*Fence, MaxFramesInFlight)

	for i := 0; i < MaxFramesInFlight; i++ {
		r.ImageAvailable[i], err = CreateSemaphore(device)
		if err != nil {
			return nil, err
		}
		r.RenderFinished[i], err = CreateSemaphore(device)
		if err != nil {
			return nil, err
		}
		r.InFlightFences[i], err = CreateFence(device, true)
		if err != nil {
			return nil, err
		}
	}

	r.ImagesInFlight = make([]*Fence, swapChain.ImageCount)

	return r, nil
}

func (r *Renderer) createSurface(window *core.Window) error {
	surface, err := window.CreateWindowSurface(uintptr(unsafe.Pointer(r.Instance.Handle)))
	if err != nil {
		return fmt.Errorf("failed to create window surface: %w", err)
	}
	r.Surface = C.VkSurfaceKHR(unsafe.Pointer(surface))
	return nil
}

func (r *Renderer) ImageCount() int {
	return int(r.SwapChain.ImageCount)
}

func (r *Renderer) Extent() (uint32, uint32) {
	return uint32(r.SwapChain.Extent.width), uint32(r.SwapChain.Extent.height)
}

func (r *Renderer) AspectRatio() float32 {
	w, h := r.Extent()
	if h == 0 {
		return 1
	}
	return float32(w) / float32(h)
}

func (r *Renderer) CommandBufferAt(imageIndex int) *CommandBuffer {
	return &r.CommandBuffers[imageIndex]
}

// BeginRenderPass starts the swapchain render pass on the given image,
// clearing the attachment to the given color.
func (r *Renderer) BeginRenderPass(cb *CommandBuffer, imageIndex int, clearColor core.Color) {
	width, height := r.Extent()
	cb.BeginRenderPassClear(r.RenderPass, r.SwapChain.Framebuffers[imageIndex], width, height, clearColor)
}

// CreateMeshPipeline builds the graphics pipeline drawing core.Vertex
// meshes into the swapchain render pass at the current extent.
func (r *Renderer) CreateMeshPipeline(vertexShader, fragmentShader []uint32, layout DescriptorSetLayout) (*Pipeline, error) {
	config := DefaultPipelineConfig()
	config.VertexShaderCode = vertexShader
	config.FragmentShaderCode = fragmentShader
	config.VertexDescription = MeshVertexDescription()
	config.ViewportWidth = float32(r.SwapChain.Extent.width)
	config.ViewportHeight = float32(r.SwapChain.Extent.height)
	config.RenderPass = r.RenderPass
	config.DescriptorSetLayout = layout.Handle

	return CreateGraphicsPipeline(r.Device, config)
}

// BeginFrame waits for the current in-flight frame and acquires the next
// swapchain image, returning its index. Returns ErrOutOfDate when the
// swapchain must be recreated.
func (r *Renderer) BeginFrame() (int, error) {
	if err := r.InFlightFences[r.CurrentFrame].Wait(r.Device, ^uint64(0)); err != nil {
		return 0, err
	}

	imageIndex, err := r.SwapChain.AcquireNextImage(r.Device, r.ImageAvailable[r.CurrentFrame].Handle, ^uint64(0))
	if err != nil {
		return int(imageIndex), err
	}

	// A prior frame may still be rendering to this image.
	if r.ImagesInFlight[imageIndex] != nil {
		if err := r.ImagesInFlight[imageIndex].Wait(r.Device, ^uint64(0)); err != nil {
			return 0, err
		}
	}
	r.ImagesInFlight[imageIndex] = r.InFlightFences[r.CurrentFrame]

	return int(imageIndex), nil
}

// SubmitAndPresent submits the image's prerecorded command buffer and
// queues the image for presentation.
func (r *Renderer) SubmitAndPresent(imageIndex int) error {
	if err := r.InFlightFences[r.CurrentFrame].Reset(r.Device); err != nil {
		return err
	}

	err := SubmitQueue(
		r.Device.GraphicsQueue,
		[]CommandBuffer{r.CommandBuffers[imageIndex]},
		[]C.VkSemaphore{r.ImageAvailable[r.CurrentFrame].Handle},
		[]C.VkSemaphore{r.RenderFinished[r.CurrentFrame].Handle},
		r.InFlightFences[r.CurrentFrame],
	)
	if err != nil {
		return err
	}

	err = PresentQueue(
		r.Device.PresentQueue,
		[]C.VkSwapchainKHR{r.SwapChain.Handle},
		[]uint32{uint32(imageIndex)},
		[]C.VkSemaphore{r.RenderFinished[r.CurrentFrame].Handle},
	)

	r.CurrentFrame = (r.CurrentFrame + 1) % MaxFramesInFlight

	return err
}

// Resize recreates the swapchain, framebuffers, and command buffers for
// the new extent. The caller re-records the command buffers afterwards.
func (r *Renderer) Resize(width, height uint32) error {
	r.Device.WaitIdle()

	r.SwapChain.Destroy(r.Device)

	swapConfig := SwapChainConfig{
		Width:  width,
		Height: height,
		VSync:  r.vsync,
	}

	swapChain, err := CreateSwapChain(r.Device, r.Surface, swapConfig)
	if err != nil {
		return fmt.Errorf("failed to recreate swapchain: %w", err)
	}
	r.SwapChain = swapChain

	if err := swapChain.CreateFramebuffers(r.Device, r.RenderPass); err != nil {
		return err
	}

	FreeCommandBuffers(r.Device, r.Device.CommandPool, r.CommandBuffers)
	r.CommandBuffers, err = AllocateCommandBuffers(r.Device, r.Device.CommandPool, swapChain.ImageCount)
	if err != nil {
		return err
	}

	r.ImagesInFlight = make([]*Fence, swapChain.ImageCount)

	return nil
}

func (r *Renderer) WaitIdle() {
	r.Device.WaitIdle()
}

func (r *Renderer) Destroy() {
	r.Device.WaitIdle()

	for i := 0; i < MaxFramesInFlight; i++ {
		r.ImageAvailable[i].Destroy(r.Device)
		r.RenderFinished[i].Destroy(r.Device)
		r.InFlightFences[i].Destroy(r.Device)
	}

	DestroyRenderPass(r.Device, r.RenderPass)
	r.SwapChain.Destroy(r.Device)
	C.vkDestroySurfaceKHR(r.Instance.Handle, r.Surface, nil)
	r.Device.Destroy()
	r.Instance.Destroy()
}
