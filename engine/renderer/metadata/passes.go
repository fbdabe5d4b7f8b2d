package metadata

// Render pass and attachment names shared by the pass presets, the frame
// graph and the backend.
const (
	RenderPassCubemapBake = "cubemap_bake"
	RenderPassGeometry    = "geometry"
	RenderPassLighting    = "lighting"
	RenderPassSkybox      = "skybox"

	AttachmentPosition  = "gbuffer.position"
	AttachmentNormal    = "gbuffer.normal"
	AttachmentDepth     = "gbuffer.depth"
	AttachmentSwapchain = "swapchain"
	AttachmentCubeFace  = "cubemap.face"
)

const (
	GBufferFormat = FormatR16G16B16A16Sfloat
	CubemapFormat = FormatR8G8B8A8Unorm
)

var DefaultClearColor = [4]float32{0.15, 0.05, 0.05, 1.0}

// GeometryPass writes world space position, normal and depth into the G-buffer.
func GeometryPass() *RenderPassDescription {
	gbuffer := AttachmentDescription{
		Format:        GBufferFormat,
		Load:          LoadOpClear,
		Store:         StoreOpStore,
		StencilLoad:   LoadOpDontCare,
		StencilStore:  StoreOpDontCare,
		InitialLayout: ImageLayoutUndefined,
		FinalLayout:   ImageLayoutShaderReadOnly,
	}
	position := gbuffer
	position.Name = AttachmentPosition
	normal := gbuffer
	normal.Name = AttachmentNormal

	return &RenderPassDescription{
		Name: RenderPassGeometry,
		Attachments: []AttachmentDescription{
			position,
			normal,
			{
				Name:          AttachmentDepth,
				Format:        FormatDepth,
				Load:          LoadOpClear,
				Store:         StoreOpStore,
				StencilLoad:   LoadOpDontCare,
				StencilStore:  StoreOpDontCare,
				InitialLayout: ImageLayoutUndefined,
				FinalLayout:   ImageLayoutDepthStencilReadOnly,
				Clear:         ClearValue{Depth: 1.0},
			},
		},
		Subpass: SubpassDescription{Color: []int{0, 1}, Depth: 2},
		Dependencies: []SubpassDependency{
			{
				// previous frame sampled the G-buffer and tested against its depth
				Src:       SubpassExternal,
				Dst:       0,
				SrcStage:  PipelineStageFragmentShader | PipelineStageEarlyFragmentTests | PipelineStageLateFragmentTests,
				DstStage:  PipelineStageColorAttachmentOutput | PipelineStageEarlyFragmentTests | PipelineStageLateFragmentTests,
				SrcAccess: AccessShaderRead | AccessDepthStencilAttachmentRead,
				DstAccess: AccessColorAttachmentWrite | AccessDepthStencilAttachmentRead | AccessDepthStencilAttachmentWrite,
			},
			{
				// make the G-buffer visible to the lighting and skybox passes
				Src:       0,
				Dst:       SubpassExternal,
				SrcStage:  PipelineStageColorAttachmentOutput | PipelineStageLateFragmentTests,
				DstStage:  PipelineStageFragmentShader | PipelineStageEarlyFragmentTests,
				SrcAccess: AccessColorAttachmentWrite | AccessDepthStencilAttachmentWrite,
				DstAccess: AccessShaderRead | AccessDepthStencilAttachmentRead,
			},
		},
	}
}

// LightingPass shades a full-screen quad into the swapchain image. When
// presents is false a skybox pass follows and the image stays attachable.
func LightingPass(presents bool, clear [4]float32) *RenderPassDescription {
	final := ImageLayoutPresentSrc
	if !presents {
		final = ImageLayoutColorAttachment
	}
	desc := &RenderPassDescription{
		Name: RenderPassLighting,
		Attachments: []AttachmentDescription{
			{
				Name:          AttachmentSwapchain,
				Format:        FormatSwapchain,
				Load:          LoadOpClear,
				Store:         StoreOpStore,
				StencilLoad:   LoadOpDontCare,
				StencilStore:  StoreOpDontCare,
				InitialLayout: ImageLayoutUndefined,
				FinalLayout:   final,
				Clear:         ClearValue{Color: clear},
			},
		},
		Subpass: SubpassDescription{Color: []int{0}, Depth: NoAttachment},
		Dependencies: []SubpassDependency{
			{
				// the acquire semaphore wait happens at colour output
				Src:       SubpassExternal,
				Dst:       0,
				SrcStage:  PipelineStageColorAttachmentOutput,
				DstStage:  PipelineStageColorAttachmentOutput,
				SrcAccess: AccessNone,
				DstAccess: AccessColorAttachmentWrite,
			},
		},
	}
	if !presents {
		desc.Dependencies = append(desc.Dependencies, SubpassDependency{
			Src:       0,
			Dst:       SubpassExternal,
			SrcStage:  PipelineStageColorAttachmentOutput,
			DstStage:  PipelineStageColorAttachmentOutput,
			SrcAccess: AccessColorAttachmentWrite,
			DstAccess: AccessColorAttachmentRead | AccessColorAttachmentWrite,
		})
	}
	return desc
}

// SkyboxPass draws the environment behind the lit scene. The colour is loaded
// and the G-buffer depth is only tested, never written.
func SkyboxPass() *RenderPassDescription {
	return &RenderPassDescription{
		Name: RenderPassSkybox,
		Attachments: []AttachmentDescription{
			{
				Name:          AttachmentSwapchain,
				Format:        FormatSwapchain,
				Load:          LoadOpLoad,
				Store:         StoreOpStore,
				StencilLoad:   LoadOpDontCare,
				StencilStore:  StoreOpDontCare,
				InitialLayout: ImageLayoutColorAttachment,
				FinalLayout:   ImageLayoutPresentSrc,
			},
			{
				Name:          AttachmentDepth,
				Format:        FormatDepth,
				Load:          LoadOpLoad,
				Store:         StoreOpDontCare,
				StencilLoad:   LoadOpDontCare,
				StencilStore:  StoreOpDontCare,
				InitialLayout: ImageLayoutDepthStencilReadOnly,
				FinalLayout:   ImageLayoutDepthStencilReadOnly,
			},
		},
		Subpass: SubpassDescription{Color: []int{0}, Depth: 1, DepthReadOnly: true},
		Dependencies: []SubpassDependency{
			{
				Src:       SubpassExternal,
				Dst:       0,
				SrcStage:  PipelineStageColorAttachmentOutput | PipelineStageLateFragmentTests,
				DstStage:  PipelineStageColorAttachmentOutput | PipelineStageEarlyFragmentTests,
				SrcAccess: AccessColorAttachmentWrite | AccessDepthStencilAttachmentWrite,
				DstAccess: AccessColorAttachmentRead | AccessColorAttachmentWrite | AccessDepthStencilAttachmentRead,
			},
		},
	}
}

// CubemapBakePass renders one face of the environment cubemap per use.
func CubemapBakePass() *RenderPassDescription {
	return &RenderPassDescription{
		Name: RenderPassCubemapBake,
		Attachments: []AttachmentDescription{
			{
				Name:          AttachmentCubeFace,
				Format:        CubemapFormat,
				Load:          LoadOpClear,
				Store:         StoreOpStore,
				StencilLoad:   LoadOpDontCare,
				StencilStore:  StoreOpDontCare,
				InitialLayout: ImageLayoutUndefined,
				FinalLayout:   ImageLayoutShaderReadOnly,
				Clear:         ClearValue{Color: [4]float32{0, 0, 0, 1}},
			},
		},
		Subpass: SubpassDescription{Color: []int{0}, Depth: NoAttachment},
		Dependencies: []SubpassDependency{
			{
				Src:       0,
				Dst:       SubpassExternal,
				SrcStage:  PipelineStageColorAttachmentOutput,
				DstStage:  PipelineStageFragmentShader,
				SrcAccess: AccessColorAttachmentWrite,
				DstAccess: AccessShaderRead,
			},
		},
	}
}
