package graph

import "github.com/spaghettifunk/deferred/engine/renderer/metadata"

// Resource names of the deferred frame.
const (
	ResourceVertexData  = "mesh.vertices"
	ResourceUniforms    = "uniforms"
	ResourceEquirect    = "environment.equirect"
	ResourceCubemap     = "environment.cubemap"
	ResourceGBufferPos  = metadata.AttachmentPosition
	ResourceGBufferNorm = metadata.AttachmentNormal
	ResourceDepth       = metadata.AttachmentDepth
	ResourceSwapchain   = metadata.AttachmentSwapchain
)

// Submission groups of the deferred frame.
const (
	SubmissionBake     = "bake"
	SubmissionGeometry = "geometry"
	SubmissionLighting = "lighting"
)

// NewDeferredGraph builds geometry -> lighting (-> skybox). With a skybox the
// environment cubemap is baked once before the first frame.
func NewDeferredGraph(withSkybox bool) (*Graph, error) {
	g := New()
	resources := []Resource{
		{Name: ResourceVertexData, Kind: ResourceKindBuffer, External: true},
		{Name: ResourceUniforms, Kind: ResourceKindBuffer, External: true},
		{Name: ResourceGBufferPos, Kind: ResourceKindImage, Lifetime: LifetimeSwapchain},
		{Name: ResourceGBufferNorm, Kind: ResourceKindImage, Lifetime: LifetimeSwapchain},
		{Name: ResourceDepth, Kind: ResourceKindImage, Lifetime: LifetimeSwapchain},
		{Name: ResourceSwapchain, Kind: ResourceKindSwapchain, Lifetime: LifetimeSwapchain},
	}
	if withSkybox {
		resources = append(resources,
			Resource{Name: ResourceEquirect, Kind: ResourceKindImage, External: true},
			Resource{Name: ResourceCubemap, Kind: ResourceKindImage},
		)
	}
	for _, r := range resources {
		if err := g.AddResource(r); err != nil {
			return nil, err
		}
	}

	passes := []Pass{
		{
			Name:       metadata.RenderPassGeometry,
			Submission: SubmissionGeometry,
			RenderPass: metadata.RenderPassGeometry,
			Pipeline:   metadata.PipelineGeometry,
			Reads:      []string{ResourceVertexData, ResourceUniforms},
			Writes:     []string{ResourceGBufferPos, ResourceGBufferNorm, ResourceDepth},
		},
		{
			Name:       metadata.RenderPassLighting,
			Submission: SubmissionLighting,
			RenderPass: metadata.RenderPassLighting,
			Pipeline:   metadata.PipelineLighting,
			Reads:      []string{ResourceGBufferPos, ResourceGBufferNorm, ResourceUniforms},
			Writes:     []string{ResourceSwapchain},
		},
	}
	if withSkybox {
		passes = append([]Pass{{
			Name:       metadata.RenderPassCubemapBake,
			Schedule:   ScheduleOnce,
			Submission: SubmissionBake,
			RenderPass: metadata.RenderPassCubemapBake,
			Pipeline:   metadata.PipelineCubemapBake,
			Reads:      []string{ResourceEquirect},
			Writes:     []string{ResourceCubemap},
		}}, passes...)
		passes = append(passes, Pass{
			Name:       metadata.RenderPassSkybox,
			Submission: SubmissionLighting,
			RenderPass: metadata.RenderPassSkybox,
			Pipeline:   metadata.PipelineSkybox,
			Reads:      []string{ResourceCubemap, ResourceDepth, ResourceUniforms},
			Writes:     []string{ResourceSwapchain},
		})
	}
	for _, p := range passes {
		if err := g.AddPass(p); err != nil {
			return nil, err
		}
	}
	return g, nil
}
