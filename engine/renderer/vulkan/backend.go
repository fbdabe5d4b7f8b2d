package vulkan

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/deferred/engine/core"
	"github.com/spaghettifunk/deferred/engine/renderer/buffers"
	"github.com/spaghettifunk/deferred/engine/renderer/frame"
	"github.com/spaghettifunk/deferred/engine/renderer/graph"
	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
)

const validationLayer = "VK_LAYER_KHRONOS_validation"

// Window is the part of the platform layer the backend needs.
type Window interface {
	GetRequiredExtensionNames() []string
	CreateSurface(instance interface{}) (uintptr, error)
	FramebufferSize() (uint32, uint32)
}

// ShaderSource resolves shader stage names like `geom.vert` to SPIR-V.
type ShaderSource interface {
	LoadAsset(name string, resourceType metadata.ResourceType, params interface{}) (*metadata.Resource, error)
}

type Options struct {
	FramesInFlight int
	Validation     bool
	VSync          bool
	Skybox         bool
	ClearColor     [4]float32
	CubemapSize    uint32
}

// frameResources are the uniform buffers and descriptor sets of one frame
// slot. They are written by the prepare hook after the slot fence is waited.
type frameResources struct {
	mvp    *buffers.HostCoherentBuffer
	lights *buffers.HostCoherentBuffer
	skybox *buffers.HostCoherentBuffer

	mvpSet     vk.DescriptorSet
	gbufferSet vk.DescriptorSet
	lightsSet  vk.DescriptorSet
	skyboxSet  vk.DescriptorSet
}

type sceneBuffers struct {
	vertices   *buffers.DeviceLocalBuffer
	indices    *buffers.DeviceLocalBuffer
	indexCount uint32

	quad            *buffers.DeviceLocalBuffer
	quadVertexCount uint32

	cubeVertices   *buffers.DeviceLocalBuffer
	cubeIndices    *buffers.DeviceLocalBuffer
	cubeIndexCount uint32
}

type VulkanRenderer struct {
	window  Window
	shaders ShaderSource
	opts    Options

	context       *VulkanContext
	allocator     *VulkanAllocator
	queue         *VulkanQueue
	sync          *VulkanSync
	surfaceFormat vk.SurfaceFormat

	descriptors    *VulkanDescriptors
	renderpasses   map[string]*VulkanRenderPass
	pipelines      map[string]*VulkanPipeline
	arena          *SwapchainArena
	gbufferSampler vk.Sampler
	frames         []*frameResources

	scene       *sceneBuffers
	environment *EnvironmentCubemap
	bakeSet     vk.DescriptorSet

	plan         *graph.Plan
	recorder     *VulkanRecorder
	orchestrator *frame.Orchestrator
	packet       *metadata.FramePacket
}

func New(window Window, shaders ShaderSource, opts Options) *VulkanRenderer {
	if opts.FramesInFlight == 0 {
		opts.FramesInFlight = frame.DefaultFramesInFlight
	}
	if opts.CubemapSize == 0 {
		opts.CubemapSize = metadata.DefaultCubemapSize
	}
	return &VulkanRenderer{
		window:       window,
		shaders:      shaders,
		opts:         opts,
		context:      &VulkanContext{Allocator: nil},
		renderpasses: make(map[string]*VulkanRenderPass),
		pipelines:    make(map[string]*VulkanPipeline),
	}
}

func (vr *VulkanRenderer) Initialize(appName string, appWidth, appHeight uint32) error {
	procAddr := glfw.GetVulkanGetInstanceProcAddress()
	if procAddr == nil {
		err := errors.New("GetInstanceProcAddress is nil")
		core.LogError("%s", err)
		return err
	}
	vk.SetGetInstanceProcAddr(procAddr)
	if err := vk.Init(); err != nil {
		core.LogError("failed to initialize vk: %s", err)
		return err
	}

	vr.context.FramebufferWidth = appWidth
	vr.context.FramebufferHeight = appHeight

	if err := vr.createInstance(appName); err != nil {
		return err
	}
	if vr.opts.Validation {
		if err := vr.createDebugCallback(); err != nil {
			return err
		}
	}

	core.LogDebug("Creating Vulkan surface...")
	surface, err := vr.window.CreateSurface(vr.context.Instance)
	if err != nil {
		core.LogError("%s", err)
		return err
	}
	vr.context.Surface = vk.SurfaceFromPointer(surface)
	core.LogDebug("Vulkan surface created.")

	if err := DeviceCreate(vr.context); err != nil {
		return err
	}
	vr.allocator = NewVulkanAllocator(vr.context)
	vr.queue = NewGraphicsQueue(vr.context)
	vr.sync = NewVulkanSync(vr.context)

	// The surface format is chosen once, every rebuild reuses it so the
	// render passes stay compatible.
	support, err := DeviceQuerySwapchainSupport(vr.context.Device.PhysicalDevice, vr.context.Surface)
	if err != nil {
		return err
	}
	if len(support.Formats) == 0 {
		return fmt.Errorf("%w: surface reports no formats", core.ErrNoSuitableDevice)
	}
	vr.surfaceFormat = ChooseSurfaceFormat(support.Formats)

	if vr.descriptors, err = NewDescriptors(vr.context, uint32(vr.opts.FramesInFlight)); err != nil {
		return err
	}
	if err := vr.createRenderPasses(); err != nil {
		return err
	}
	if vr.gbufferSampler, err = NewSampler(vr.context, vk.SamplerAddressModeClampToEdge); err != nil {
		return err
	}
	if err := vr.createFrameResources(); err != nil {
		return err
	}

	vr.arena = NewSwapchainArena(vr.context, vr.window.FramebufferSize, vr.surfaceFormat, vr.opts.VSync, vr.renderpasses, vr.writeGBufferSets)
	if err := vr.arena.Rebuild(); err != nil {
		return err
	}

	if err := vr.createPipelines(); err != nil {
		return err
	}

	g, err := graph.NewDeferredGraph(vr.opts.Skybox)
	if err != nil {
		return err
	}
	if vr.plan, err = g.Compile(); err != nil {
		return err
	}
	if vr.recorder, err = NewVulkanRecorder(vr, vr.plan, vr.opts.FramesInFlight); err != nil {
		return err
	}
	vr.orchestrator, err = frame.New(frame.Options{
		FramesInFlight: vr.opts.FramesInFlight,
		Plan:           vr.plan,
		Device:         vr.context.Device,
		Queue:          vr.queue,
		Sync:           vr.sync,
		Recorder:       vr.recorder,
		Arena:          vr.arena,
		Prepare:        vr.prepare,
	})
	if err != nil {
		return err
	}

	core.LogInfo("Vulkan renderer initialized successfully.")
	return nil
}

func (vr *VulkanRenderer) createInstance(appName string) error {
	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         uint32(vk.MakeVersion(1, 0, 0)),
		ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
		PApplicationName:   VulkanSafeString(appName),
		PEngineName:        VulkanSafeString("Deferred Engine"),
	}
	createInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}

	requiredExtensions := []string{"VK_KHR_surface"}
	requiredExtensions = append(requiredExtensions, vr.window.GetRequiredExtensionNames()...)
	if runtime.GOOS == "darwin" {
		requiredExtensions = append(requiredExtensions,
			"VK_KHR_portability_enumeration",
			"VK_KHR_get_physical_device_properties2",
		)
		createInfo.Flags |= 1 // VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT_KHR
	}
	if vr.opts.Validation {
		requiredExtensions = append(requiredExtensions, vk.ExtDebugReportExtensionName)
	}
	core.LogDebug("Required extensions: %v", requiredExtensions)
	createInfo.EnabledExtensionCount = uint32(len(requiredExtensions))
	createInfo.PpEnabledExtensionNames = VulkanSafeStrings(requiredExtensions)

	var layers []string
	if vr.opts.Validation {
		if err := checkValidationLayer(validationLayer); err != nil {
			return err
		}
		layers = []string{validationLayer}
	}
	createInfo.EnabledLayerCount = uint32(len(layers))
	createInfo.PpEnabledLayerNames = VulkanSafeStrings(layers)

	if res := vk.CreateInstance(&createInfo, vr.context.Allocator, &vr.context.Instance); res != vk.Success {
		return vulkanError(res, "failed in creating the Vulkan Instance")
	}
	if err := vk.InitInstance(vr.context.Instance); err != nil {
		core.LogError("%s", err)
		return err
	}
	core.LogInfo("Vulkan Instance created.")
	return nil
}

func checkValidationLayer(name string) error {
	core.LogInfo("Validation layers enabled. Enumerating...")
	var count uint32
	if res := vk.EnumerateInstanceLayerProperties(&count, nil); res != vk.Success {
		return vulkanError(res, "failed to enumerate instance layers")
	}
	available := make([]vk.LayerProperties, count)
	if res := vk.EnumerateInstanceLayerProperties(&count, available); res != vk.Success {
		return vulkanError(res, "failed to enumerate instance layers")
	}
	for i := range available {
		available[i].Deref()
		if vk.ToString(available[i].LayerName[:]) == name {
			core.LogInfo("Found validation layer %s.", name)
			return nil
		}
	}
	err := fmt.Errorf("%w: %s", core.ErrValidationLayerMissing, name)
	core.LogError("%s", err)
	return err
}

func (vr *VulkanRenderer) createDebugCallback() error {
	core.LogDebug("Creating Vulkan debugger...")
	debugCreateInfo := vk.DebugReportCallbackCreateInfo{
		SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit | vk.DebugReportPerformanceWarningBit),
		PfnCallback: dbgCallbackFunc,
	}
	var dbg vk.DebugReportCallback
	if res := vk.CreateDebugReportCallback(vr.context.Instance, &debugCreateInfo, nil, &dbg); res != vk.Success {
		return vulkanError(res, "vk.CreateDebugReportCallback failed")
	}
	vr.context.debugMessenger = dbg
	core.LogDebug("Vulkan debugger created.")
	return nil
}

func (vr *VulkanRenderer) createRenderPasses() error {
	descriptions := []*metadata.RenderPassDescription{
		metadata.GeometryPass(),
		metadata.LightingPass(!vr.opts.Skybox, vr.opts.ClearColor),
	}
	if vr.opts.Skybox {
		descriptions = append(descriptions, metadata.SkyboxPass(), metadata.CubemapBakePass())
	}
	resolver := formatResolver{
		swapchain: vr.surfaceFormat.Format,
		depth:     vr.context.Device.DepthFormat,
	}
	for _, desc := range descriptions {
		rp, err := NewRenderPass(vr.context, desc, resolver)
		if err != nil {
			return err
		}
		vr.renderpasses[desc.Name] = rp
	}
	return nil
}

func (vr *VulkanRenderer) pipelineDescriptions() []*metadata.PipelineDescription {
	descriptions := []*metadata.PipelineDescription{
		metadata.GeometryPipeline(),
		metadata.LightingPipeline(),
	}
	if vr.opts.Skybox {
		descriptions = append(descriptions,
			metadata.SkyboxPipeline(),
			metadata.CubemapBakePipeline(vr.opts.CubemapSize),
		)
	}
	return descriptions
}

func (vr *VulkanRenderer) createPipelines() error {
	for _, desc := range vr.pipelineDescriptions() {
		pipeline, err := vr.loadPipeline(desc)
		if err != nil {
			return err
		}
		vr.pipelines[desc.Name] = pipeline
	}
	return nil
}

// loadPipeline compiles the stages of desc into a pipeline. The shader
// modules are only needed during creation.
func (vr *VulkanRenderer) loadPipeline(desc *metadata.PipelineDescription) (*VulkanPipeline, error) {
	rp, ok := vr.renderpasses[desc.RenderPass]
	if !ok {
		return nil, fmt.Errorf("pipeline `%s` targets unknown render pass `%s`", desc.Name, desc.RenderPass)
	}
	setLayouts, err := vr.descriptors.LayoutsFor(desc.SetLayouts)
	if err != nil {
		return nil, err
	}

	stages := make([]*VulkanShaderStage, 0, len(desc.Stages))
	defer func() {
		for _, s := range stages {
			s.Destroy(vr.context)
		}
	}()
	for _, stageDesc := range desc.Stages {
		res, err := vr.shaders.LoadAsset(stageDesc.Name, metadata.ResourceTypeShader, nil)
		if err != nil {
			return nil, err
		}
		code, ok := res.Data.(*metadata.ShaderData)
		if !ok {
			return nil, fmt.Errorf("%w: `%s` did not load as SPIR-V", core.ErrInvalidShaderBinary, stageDesc.Name)
		}
		stage, err := NewShaderStage(vr.context, stageDesc, code)
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}
	return NewGraphicsPipeline(vr.context, desc, rp, setLayouts, stages)
}

func (vr *VulkanRenderer) createFrameResources() error {
	for i := 0; i < vr.opts.FramesInFlight; i++ {
		res := &frameResources{
			mvp:    buffers.NewHostCoherentBuffer(vr.allocator, metadata.BufferUsageUniform),
			lights: buffers.NewHostCoherentBuffer(vr.allocator, metadata.BufferUsageUniform),
		}
		vr.frames = append(vr.frames, res)

		// Fill once at the final size so the descriptor writes below stay valid.
		var uniforms metadata.GeneralRenderUniforms
		if err := res.mvp.Fill(uniforms.Bytes(), uint64(len(uniforms.Bytes()))); err != nil {
			return err
		}
		var lights metadata.Lights
		if err := res.lights.Fill(lights.Bytes(), uint64(len(lights.Bytes()))); err != nil {
			return err
		}

		var err error
		if res.mvpSet, err = vr.descriptors.Allocate(vr.context, metadata.SetLayoutMVP); err != nil {
			return err
		}
		if res.gbufferSet, err = vr.descriptors.Allocate(vr.context, metadata.SetLayoutGBuffer); err != nil {
			return err
		}
		if res.lightsSet, err = vr.descriptors.Allocate(vr.context, metadata.SetLayoutLights); err != nil {
			return err
		}
		WriteUniformBuffer(vr.context, res.mvpSet, 0, handle(res.mvp), res.mvp.Size())
		WriteUniformBuffer(vr.context, res.lightsSet, 0, handle(res.lights), res.lights.Size())

		if vr.opts.Skybox {
			res.skybox = buffers.NewHostCoherentBuffer(vr.allocator, metadata.BufferUsageUniform)
			var sky metadata.SkyboxUniforms
			if err := res.skybox.Fill(sky.Bytes(), uint64(len(sky.Bytes()))); err != nil {
				return err
			}
			if res.skyboxSet, err = vr.descriptors.Allocate(vr.context, metadata.SetLayoutSkybox); err != nil {
				return err
			}
			WriteUniformBuffer(vr.context, res.skyboxSet, 0, handle(res.skybox), res.skybox.Size())
		}
	}
	return nil
}

// writeGBufferSets points every slot's G-buffer set at the targets of the
// current arena generation.
func (vr *VulkanRenderer) writeGBufferSets(a *SwapchainArena) error {
	gbuffer := a.GBuffer()
	for _, res := range vr.frames {
		WriteImageSampler(vr.context, res.gbufferSet, metadata.GBufferBindingPosition, gbuffer.Position.View, vr.gbufferSampler)
		WriteImageSampler(vr.context, res.gbufferSet, metadata.GBufferBindingNormal, gbuffer.Normal.View, vr.gbufferSampler)
	}
	return nil
}

// LoadScene uploads the mesh and the fixed helper geometry, then bakes the
// environment cubemap when the skybox is enabled.
func (vr *VulkanRenderer) LoadScene(scene *metadata.SceneData) error {
	if scene == nil || scene.Mesh == nil || len(scene.Mesh.Indices) == 0 {
		return fmt.Errorf("%w: scene has no mesh", core.ErrMalformedMesh)
	}
	if err := vr.context.Device.WaitIdle(); err != nil {
		return err
	}
	vr.destroyScene()

	s := &sceneBuffers{
		vertices:     buffers.NewDeviceLocalBuffer(vr.allocator, metadata.BufferUsageVertex),
		indices:      buffers.NewDeviceLocalBuffer(vr.allocator, metadata.BufferUsageIndex),
		quad:         buffers.NewDeviceLocalBuffer(vr.allocator, metadata.BufferUsageVertex),
		cubeVertices: buffers.NewDeviceLocalBuffer(vr.allocator, metadata.BufferUsageVertex),
		cubeIndices:  buffers.NewDeviceLocalBuffer(vr.allocator, metadata.BufferUsageIndex),
	}
	vr.scene = s

	if err := fillAll(s.vertices, scene.Mesh.VertexBytes()); err != nil {
		return err
	}
	if err := fillAll(s.indices, scene.Mesh.IndexBytes()); err != nil {
		return err
	}
	s.indexCount = uint32(len(scene.Mesh.Indices))

	quad := metadata.ScreenQuad()
	if err := fillAll(s.quad, metadata.VerticesBytes(quad)); err != nil {
		return err
	}
	s.quadVertexCount = uint32(len(quad))

	cube := metadata.UnitCube()
	if err := fillAll(s.cubeVertices, cube.VertexBytes()); err != nil {
		return err
	}
	if err := fillAll(s.cubeIndices, cube.IndexBytes()); err != nil {
		return err
	}
	s.cubeIndexCount = uint32(len(cube.Indices))
	core.LogInfo("Scene mesh `%s` uploaded, %d vertices and %d indices.", scene.Mesh.Name, len(scene.Mesh.Vertices), s.indexCount)

	if vr.opts.Skybox {
		if scene.Environment == nil {
			return fmt.Errorf("%w: the skybox needs an environment image", core.ErrUnknownAsset)
		}
		env, err := NewEnvironmentCubemap(vr.context, vr.allocator, vr.renderpasses[metadata.RenderPassCubemapBake], scene.Environment, vr.opts.CubemapSize)
		if err != nil {
			return err
		}
		vr.environment = env

		if vr.bakeSet == nullDescriptorSet {
			if vr.bakeSet, err = vr.descriptors.Allocate(vr.context, metadata.SetLayoutBake); err != nil {
				return err
			}
		}
		WriteImageSampler(vr.context, vr.bakeSet, 0, env.Equirect.Image.View, env.Equirect.Sampler)
		for _, res := range vr.frames {
			WriteImageSampler(vr.context, res.skyboxSet, 1, env.Cube.View, env.Sampler)
		}
	}
	return vr.orchestrator.Bake()
}

func fillAll(b buffers.UploadBuffer, data []byte) error {
	return b.Fill(data, uint64(len(data)))
}

// DrawFrame hands the packet to the prepare hook and runs one frame.
func (vr *VulkanRenderer) DrawFrame(packet *metadata.FramePacket) error {
	if vr.scene == nil {
		return errors.New("cannot draw a frame before a scene is loaded")
	}
	vr.packet = packet
	return vr.orchestrator.DrawFrame()
}

func (vr *VulkanRenderer) prepare(f *frame.Frame, image uint32) error {
	if vr.packet == nil {
		return nil
	}
	res := vr.frames[f.Index]
	uniforms := vr.packet.Uniforms.Bytes()
	if err := res.mvp.Fill(uniforms, uint64(len(uniforms))); err != nil {
		return err
	}
	lights := vr.packet.Lights.Bytes()
	if err := res.lights.Fill(lights, uint64(len(lights))); err != nil {
		return err
	}
	if res.skybox != nil {
		sky := vr.packet.Skybox.Bytes()
		if err := res.skybox.Fill(sky, uint64(len(sky))); err != nil {
			return err
		}
	}
	return nil
}

// Resized schedules a swapchain rebuild for the next frame.
func (vr *VulkanRenderer) Resized(width, height uint32) error {
	if vr.orchestrator == nil {
		return nil
	}
	vr.orchestrator.Resize()
	core.LogInfo("Vulkan renderer backend->resized: w/h: %d/%d", width, height)
	return nil
}

// ReloadShaders recreates every pipeline from the current SPIR-V files. A
// pipeline that fails to build keeps its previous version.
func (vr *VulkanRenderer) ReloadShaders() error {
	if err := vr.context.Device.WaitIdle(); err != nil {
		return err
	}
	var errs []error
	for _, desc := range vr.pipelineDescriptions() {
		pipeline, err := vr.loadPipeline(desc)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if old, ok := vr.pipelines[desc.Name]; ok {
			old.Destroy(vr.context)
		}
		vr.pipelines[desc.Name] = pipeline
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	core.LogInfo("Shaders reloaded, %d pipelines rebuilt.", len(vr.pipelines))
	return nil
}

// FramesDrawn is the number of presented frames.
func (vr *VulkanRenderer) FramesDrawn() uint64 {
	if vr.orchestrator == nil {
		return 0
	}
	return vr.orchestrator.FramesDrawn()
}

func (vr *VulkanRenderer) destroyScene() {
	if vr.environment != nil {
		vr.environment.Destroy(vr.context)
		vr.environment = nil
	}
	if vr.scene == nil {
		return
	}
	for _, b := range []*buffers.DeviceLocalBuffer{
		vr.scene.vertices, vr.scene.indices, vr.scene.quad, vr.scene.cubeVertices, vr.scene.cubeIndices,
	} {
		b.Destroy()
	}
	vr.scene = nil
}

// Shutdown destroys everything in the opposite order of creation.
func (vr *VulkanRenderer) Shutdown() error {
	if vr.context.Device != nil {
		if err := vr.context.Device.WaitIdle(); err != nil {
			core.LogWarn("device wait idle failed during shutdown: %s", err)
		}
	}
	if vr.orchestrator != nil {
		vr.orchestrator.Destroy()
		vr.orchestrator = nil
	}
	if vr.recorder != nil {
		vr.recorder.Destroy()
		vr.recorder = nil
	}
	vr.destroyScene()
	for name, pipeline := range vr.pipelines {
		pipeline.Destroy(vr.context)
		delete(vr.pipelines, name)
	}
	if vr.arena != nil {
		vr.arena.Destroy()
		vr.arena = nil
	}
	for _, res := range vr.frames {
		res.mvp.Destroy()
		res.lights.Destroy()
		if res.skybox != nil {
			res.skybox.Destroy()
		}
	}
	vr.frames = nil
	if vr.context.Device != nil && vr.context.Device.LogicalDevice != nil {
		DestroySampler(vr.context, vr.gbufferSampler)
		vr.gbufferSampler = vk.NullSampler
	}
	for name, rp := range vr.renderpasses {
		rp.Destroy(vr.context)
		delete(vr.renderpasses, name)
	}
	if vr.descriptors != nil {
		vr.descriptors.Destroy(vr.context)
		vr.descriptors = nil
	}

	core.LogDebug("Destroying Vulkan device...")
	DeviceDestroy(vr.context)

	core.LogDebug("Destroying Vulkan surface...")
	if vr.context.Surface != vk.NullSurface {
		vk.DestroySurface(vr.context.Instance, vr.context.Surface, vr.context.Allocator)
		vr.context.Surface = vk.NullSurface
	}
	if vr.context.debugMessenger != vk.NullDebugReportCallback {
		core.LogDebug("Destroying Vulkan debugger...")
		vk.DestroyDebugReportCallback(vr.context.Instance, vr.context.debugMessenger, vr.context.Allocator)
		vr.context.debugMessenger = vk.NullDebugReportCallback
	}
	if vr.context.Instance != nil {
		core.LogDebug("Destroying Vulkan instance...")
		vk.DestroyInstance(vr.context.Instance, vr.context.Allocator)
		vr.context.Instance = nil
	}
	return nil
}

func dbgCallbackFunc(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType, object uint64, location uint64, messageCode int32, pLayerPrefix string, pMessage string, pUserData unsafe.Pointer) vk.Bool32 {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		core.LogError("ERROR: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		core.LogWarn("WARNING: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		core.LogWarn("PERFORMANCE WARNING: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportDebugBit) != 0:
		core.LogDebug("DEBUG: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	default:
		core.LogInfo("INFORMATION: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	}
	return vk.Bool32(vk.False)
}
