package metadata

const (
	PipelineGeometry    = "geometry"
	PipelineLighting    = "lighting"
	PipelineSkybox      = "skybox"
	PipelineCubemapBake = "cubemap_bake"
)

// GeometryPipeline rasterizes the mesh into the two G-buffer targets.
func GeometryPipeline() *PipelineDescription {
	return NewPipelineDescription(PipelineGeometry, RenderPassGeometry,
		WithShaderProgram("geom"),
		WithVertexLayout(MeshVertexLayout()),
		WithCullMode(CullModeNone),
		WithDepthStencil(true, true, CompareOpLessOrEqual),
		WithBlendAttachments(
			BlendAttachment{WriteMask: ColorWriteRGB},
			BlendAttachment{WriteMask: ColorWriteRGB},
		),
		WithSetLayouts(SetLayoutMVP),
	)
}

// LightingPipeline draws the full-screen quad that resolves the G-buffer.
func LightingPipeline() *PipelineDescription {
	return NewPipelineDescription(PipelineLighting, RenderPassLighting,
		WithShaderProgram("lighting"),
		WithVertexLayout(MeshVertexLayout()),
		WithTopology(TopologyTriangleStrip),
		WithCullMode(CullModeNone),
		WithSetLayouts(SetLayoutGBuffer, SetLayoutLights),
	)
}

// SkyboxPipeline draws the inside of a unit cube behind every lit pixel.
func SkyboxPipeline() *PipelineDescription {
	return NewPipelineDescription(PipelineSkybox, RenderPassSkybox,
		WithShaderProgram("skybox"),
		WithVertexLayout(MeshVertexLayout()),
		WithCullMode(CullModeNone),
		WithDepthStencil(true, false, CompareOpLessOrEqual),
		WithSetLayouts(SetLayoutSkybox),
	)
}

// CubemapBakePipeline projects the equirectangular environment onto one face.
func CubemapBakePipeline(faceSize uint32) *PipelineDescription {
	return NewPipelineDescription(PipelineCubemapBake, RenderPassCubemapBake,
		WithShaderProgram("cubemap"),
		WithVertexLayout(MeshVertexLayout()),
		WithCullMode(CullModeNone),
		WithFixedViewport(faceSize, faceSize),
		WithSetLayouts(SetLayoutBake),
		WithPushConstants(PushConstantRange{
			Stages: ShaderStageVertex,
			Offset: 0,
			Size:   CubemapPushConstantSize,
		}),
	)
}
