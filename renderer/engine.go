package renderer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unsafe"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"cond-render/core"
	"cond-render/math"
	"cond-render/scene"
	"cond-render/vulkan"
)

// Per-frame uniform slot contents. Layouts match the shader blocks in
// shaders.go.
type CameraData struct {
	Projection math.Mat4
}

type ModelData struct {
	Transform math.Mat4
}

type DispatchData struct {
	Value float32
}

type ConditionData struct {
	Condition uint32
}

type EngineConfig struct {
	ModelPath        string
	EnableValidation bool
	VSync            bool
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		EnableValidation: true,
		VSync:            true,
	}
}

// Engine ties the demo together: per-frame buffer slots for camera, model,
// scratch, and condition data; a compute pipeline that writes the scratch
// value; a graphics pipeline drawing the cube; and one command buffer per
// swapchain image recorded once with both conditional branches.
type Engine struct {
	window *core.Window
	log    *zap.Logger

	vk *vulkan.Renderer

	graphicsLayout vulkan.DescriptorSetLayout
	computeLayout  vulkan.DescriptorSetLayout
	pool           *vulkan.DescriptorPool

	cubePipeline    *vulkan.Pipeline
	computePipeline *vulkan.ComputePipeline

	cameraData    *vulkan.FrameData
	modelData     *vulkan.FrameData
	scratchData   *vulkan.FrameData
	conditionData *vulkan.FrameData

	graphicsSets []vulkan.DescriptorSet
	computeSets  []vulkan.DescriptorSet
	scratchViews []*vulkan.BufferView

	mesh *scene.Mesh

	camera   CameraData
	model    ModelData
	rotation math.Mat4
	Schedule *ConditionSchedule
	resized  bool

	vertCode []uint32
	fragCode []uint32
	compCode []uint32
}

const (
	cameraDistance = 4.0
	nearPlane      = 0.1
	farPlane       = 100.0
)

func NewEngine(window *core.Window, logger *zap.Logger, config EngineConfig) (*Engine, error) {
	e := &Engine{
		window:   window,
		log:      logger,
		rotation: math.Mat4Identity(),
		Schedule: NewConditionSchedule(),
	}

	rendererConfig := vulkan.DefaultRendererConfig()
	rendererConfig.EnableValidation = config.EnableValidation
	rendererConfig.VSync = config.VSync

	vk, err := vulkan.NewRenderer(window, rendererConfig)
	if err != nil {
		return nil, err
	}
	e.vk = vk

	e.log.Info("selected GPU",
		zap.String("name", vk.Device.GetGPUName()),
		zap.String("type", vk.Device.GetDeviceType()))

	if err := e.compileShaders(); err != nil {
		e.vk.Destroy()
		return nil, err
	}

	e.graphicsLayout, err = vulkan.CreateDescriptorSetLayout(vk.Device, []vulkan.DescriptorBinding{
		{Binding: 0, Type: vulkan.DescriptorUniformBuffer, Stages: vulkan.StageVertex},
		{Binding: 1, Type: vulkan.DescriptorUniformBuffer, Stages: vulkan.StageVertex},
		{Binding: 2, Type: vulkan.DescriptorUniformTexelBuffer, Stages: vulkan.StageFragment},
	})
	if err != nil {
		return nil, err
	}

	e.computeLayout, err = vulkan.CreateDescriptorSetLayout(vk.Device, []vulkan.DescriptorBinding{
		{Binding: 0, Type: vulkan.DescriptorStorageBuffer, Stages: vulkan.StageCompute},
	})
	if err != nil {
		return nil, err
	}

	e.cubePipeline, err = vk.CreateMeshPipeline(e.vertCode, e.fragCode, e.graphicsLayout)
	if err != nil {
		return nil, err
	}

	e.computePipeline, err = vulkan.CreateComputePipeline(vk.Device, e.compCode, e.computeLayout)
	if err != nil {
		return nil, err
	}

	e.mesh, err = loadMesh(config.ModelPath)
	if err != nil {
		return nil, err
	}
	if err := e.mesh.Upload(vk.Device); err != nil {
		return nil, err
	}
	e.log.Info("mesh ready",
		zap.String("name", e.mesh.Name),
		zap.Int("vertices", len(e.mesh.Vertices)),
		zap.Int("indices", len(e.mesh.Indices)))

	if err := e.createFrameResources(); err != nil {
		return nil, err
	}

	e.updateProjection()
	e.model.Transform = math.Translation(math.NewVec3(0, 0, -cameraDistance))

	for i := 0; i < e.vk.ImageCount(); i++ {
		if err := e.recordCommands(i); err != nil {
			return nil, err
		}
	}

	// GLFW invokes this during PollEvents on the main thread, so the flag
	// needs no locking against Render.
	window.SetResizeCallback(func(width, height int) {
		e.resized = true
	})

	return e, nil
}

func loadMesh(path string) (*scene.Mesh, error) {
	if path == "" {
		return scene.CreateCube(1.0), nil
	}
	return scene.LoadModel(path)
}

func (e *Engine) compileShaders() error {
	dir, err := os.MkdirTemp("", "cond-render-shaders")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	e.vertCode, err = CompileShaderGLSL(CubeVertexShaderGLSL, "vert", filepath.Join(dir, "cube_vert.spv"))
	if err != nil {
		return fmt.Errorf("vertex shader: %w", err)
	}
	e.fragCode, err = CompileShaderGLSL(CubeFragmentShaderGLSL, "frag", filepath.Join(dir, "cube_frag.spv"))
	if err != nil {
		return fmt.Errorf("fragment shader: %w", err)
	}
	e.compCode, err = CompileShaderGLSL(ScratchComputeShaderGLSL, "comp", filepath.Join(dir, "scratch_comp.spv"))
	if err != nil {
		return fmt.Errorf("compute shader: %w", err)
	}
	return nil
}

// createFrameResources builds the per-swapchain-image buffer slots,
// descriptor sets, and scratch texel views.
func (e *Engine) createFrameResources() error {
	device := e.vk.Device
	count := e.vk.ImageCount()
	aligns := device.Alignments()

	var err error
	e.cameraData, err = vulkan.NewFrameData(device, uint64(unsafe.Sizeof(CameraData{})), count, vulkan.BufferUsageUniform, aligns.Uniform)
	if err != nil {
		return err
	}
	e.modelData, err = vulkan.NewFrameData(device, uint64(unsafe.Sizeof(ModelData{})), count, vulkan.BufferUsageUniform, aligns.Uniform)
	if err != nil {
		return err
	}

	// The scratch slot is written by the compute stage through a storage
	// binding and read by the fragment stage through a texel view, so it
	// honors the stricter of the two alignments.
	scratchAlign := aligns.Storage
	if aligns.Texel > scratchAlign {
		scratchAlign = aligns.Texel
	}
	e.scratchData, err = vulkan.NewFrameData(device, uint64(unsafe.Sizeof(DispatchData{})), count, vulkan.BufferUsageStorage|vulkan.BufferUsageUniformTexel, scratchAlign)
	if err != nil {
		return err
	}

	// Condition values only need the 4-byte offset alignment the
	// conditional rendering extension requires.
	e.conditionData, err = vulkan.NewFrameData(device, uint64(unsafe.Sizeof(ConditionData{})), count, vulkan.BufferUsageConditional, 4)
	if err != nil {
		return err
	}

	e.pool, err = vulkan.CreateDescriptorPool(device, []vulkan.PoolSize{
		{Type: vulkan.DescriptorUniformBuffer, Count: uint32(2 * count)},
		{Type: vulkan.DescriptorUniformTexelBuffer, Count: uint32(count)},
		{Type: vulkan.DescriptorStorageBuffer, Count: uint32(count)},
	}, uint32(2*count))
	if err != nil {
		return err
	}

	e.graphicsSets, err = e.pool.AllocateDescriptorSets(device, e.graphicsLayout, count)
	if err != nil {
		return err
	}
	e.computeSets, err = e.pool.AllocateDescriptorSets(device, e.computeLayout, count)
	if err != nil {
		return err
	}

	e.scratchViews = make([]*vulkan.BufferView, count)
	for i := 0; i < count; i++ {
		e.scratchViews[i], err = vulkan.NewTexelBufferView(device, e.scratchData.Buffer, e.scratchData.OffsetFor(i), e.scratchData.SlotSize)
		if err != nil {
			return err
		}

		vulkan.UpdateDescriptorSetBuffer(device, e.graphicsSets[i], 0, vulkan.DescriptorUniformBuffer, e.cameraData, i)
		vulkan.UpdateDescriptorSetBuffer(device, e.graphicsSets[i], 1, vulkan.DescriptorUniformBuffer, e.modelData, i)
		vulkan.UpdateDescriptorSetTexelBuffer(device, e.graphicsSets[i], 2, e.scratchViews[i])
		vulkan.UpdateDescriptorSetBuffer(device, e.computeSets[i], 0, vulkan.DescriptorStorageBuffer, e.scratchData, i)
	}

	return nil
}

func (e *Engine) destroyFrameResources() {
	device := e.vk.Device

	for _, view := range e.scratchViews {
		view.Destroy(device)
	}
	e.scratchViews = nil

	if e.pool != nil {
		e.pool.Destroy(device)
		e.pool = nil
	}

	for _, fd := range []*vulkan.FrameData{e.cameraData, e.modelData, e.scratchData, e.conditionData} {
		if fd != nil {
			fd.Destroy(device)
		}
	}
	e.cameraData, e.modelData, e.scratchData, e.conditionData = nil, nil, nil, nil
}

func (e *Engine) updateProjection() {
	// Flip Y after projecting: clip space points down, the world points up.
	e.camera.Projection = math.Perspective(math32.Pi/2, e.vk.AspectRatio(), nearPlane, farPlane).
		Mul(math.Scale(math.NewVec3(1, -1, 1)))
}

// recordCommands records the full frame for one swapchain image:
//
//	host -> compute barrier on the scratch slot
//	conditional { dispatch writing 1.0 into scratch }
//	compute -> fragment barrier on the scratch slot
//	render pass:
//	  conditional          { clear cyan, draw two instances }
//	  conditional inverted { clear magenta, draw one instance }
func (e *Engine) recordCommands(imageIndex int) error {
	cb := e.vk.CommandBufferAt(imageIndex)

	if err := cb.Reset(); err != nil {
		return err
	}
	if err := cb.Begin(false); err != nil {
		return err
	}

	cb.HostToComputeBarrier(e.scratchData, imageIndex)

	cb.BeginConditionalRendering(e.conditionData, imageIndex, false)
	cb.BindComputePipeline(e.computePipeline)
	cb.BindComputeDescriptorSet(e.computePipeline, e.computeSets[imageIndex])
	cb.Dispatch(1, 1, 1)
	cb.EndConditionalRendering()

	cb.ComputeToFragmentBarrier(e.scratchData, imageIndex)

	e.vk.BeginRenderPass(cb, imageIndex, core.ColorBlack)

	cb.BindPipeline(e.cubePipeline)
	cb.BindDescriptorSet(e.cubePipeline, e.graphicsSets[imageIndex])
	cb.BindVertexBuffer(e.mesh.VertexBuffer)
	cb.BindIndexBuffer(e.mesh.IndexBuffer)

	width, height := e.vk.Extent()
	indexCount := uint32(len(e.mesh.Indices))

	cb.BeginConditionalRendering(e.conditionData, imageIndex, false)
	cb.ClearColorAttachment(core.ColorCyan, width, height)
	cb.DrawIndexed(indexCount, 2)
	cb.EndConditionalRendering()

	cb.BeginConditionalRendering(e.conditionData, imageIndex, true)
	cb.ClearColorAttachment(core.ColorMagenta, width, height)
	cb.DrawIndexed(indexCount, 1)
	cb.EndConditionalRendering()

	cb.EndRenderPass()

	return cb.End()
}

// Update advances the animation and the condition schedule by dt seconds.
func (e *Engine) Update(dt float32) {
	e.rotation = e.rotation.
		Mul(math.RotationX(math32.Pi * dt)).
		Mul(math.RotationY(math32.Pi * dt * 0.5))
	e.model.Transform = e.rotation.Mul(math.Translation(math.NewVec3(0, 0, -cameraDistance)))

	e.Schedule.Advance()
}

// Render writes the acquired image's buffer slots and submits its
// prerecorded command buffer.
func (e *Engine) Render() error {
	// Recreate proactively on a window resize rather than waiting for the
	// driver to report the swapchain out of date.
	if e.resized {
		e.resized = false
		return e.recreateSwapChain()
	}

	imageIndex, err := e.vk.BeginFrame()
	if errors.Is(err, vulkan.ErrOutOfDate) {
		return e.recreateSwapChain()
	}
	if err != nil {
		return err
	}

	// The in-flight fence for this image has signaled, so the GPU is done
	// with these slots.
	e.cameraData.WriteSlot(imageIndex, unsafe.Pointer(&e.camera), uint64(unsafe.Sizeof(e.camera)))
	e.modelData.WriteSlot(imageIndex, unsafe.Pointer(&e.model), uint64(unsafe.Sizeof(e.model)))

	scratch := DispatchData{Value: 0}
	e.scratchData.WriteSlot(imageIndex, unsafe.Pointer(&scratch), uint64(unsafe.Sizeof(scratch)))

	condition := ConditionData{}
	if e.Schedule.Visible() {
		condition.Condition = 1
	}
	e.conditionData.WriteSlot(imageIndex, unsafe.Pointer(&condition), uint64(unsafe.Sizeof(condition)))

	err = e.vk.SubmitAndPresent(imageIndex)
	if errors.Is(err, vulkan.ErrOutOfDate) {
		return e.recreateSwapChain()
	}
	return err
}

func (e *Engine) recreateSwapChain() error {
	width, height := e.window.GetFramebufferSize()
	if width == 0 || height == 0 {
		// Minimized; skip until the window has an extent again.
		return nil
	}

	oldCount := e.vk.ImageCount()
	if err := e.vk.Resize(uint32(width), uint32(height)); err != nil {
		return err
	}

	e.cubePipeline.Destroy(e.vk.Device)
	var err error
	e.cubePipeline, err = e.vk.CreateMeshPipeline(e.vertCode, e.fragCode, e.graphicsLayout)
	if err != nil {
		return err
	}

	if e.vk.ImageCount() != oldCount {
		e.destroyFrameResources()
		if err := e.createFrameResources(); err != nil {
			return err
		}
	}

	e.updateProjection()

	for i := 0; i < e.vk.ImageCount(); i++ {
		if err := e.recordCommands(i); err != nil {
			return err
		}
	}

	e.log.Info("swapchain recreated", zap.Int("width", width), zap.Int("height", height))
	return nil
}

func (e *Engine) Destroy() {
	e.vk.WaitIdle()

	e.destroyFrameResources()
	e.mesh.Destroy(e.vk.Device)
	e.computePipeline.Destroy(e.vk.Device)
	e.cubePipeline.Destroy(e.vk.Device)
	e.computeLayout.Destroy(e.vk.Device)
	e.graphicsLayout.Destroy(e.vk.Device)
	e.vk.Destroy()
}
