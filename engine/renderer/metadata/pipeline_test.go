package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipelineDescriptionDefaults(t *testing.T) {
	p := NewPipelineDescription("test", "pass")
	assert.Equal(t, TopologyTriangleList, p.Topology)
	assert.Equal(t, CullModeBack, p.Rasterizer.CullMode)
	assert.Equal(t, FrontFaceCounterClockwise, p.Rasterizer.FrontFace)
	assert.Equal(t, uint32(1), p.Multisample.Samples)
	assert.True(t, p.Viewport.Dynamic)
	assert.False(t, p.DepthStencil.TestEnable)
	assert.Len(t, p.Blend, 1)
}

func TestPipelineOptionsCompose(t *testing.T) {
	p := NewPipelineDescription("test", "pass",
		WithCullMode(CullModeFront),
		WithPolygonMode(PolygonModeLine),
		WithFixedViewport(64, 32),
		WithMultisample(4),
		WithDepthStencil(true, false, CompareOpLess),
	)
	assert.Equal(t, CullModeFront, p.Rasterizer.CullMode)
	assert.Equal(t, PolygonModeLine, p.Rasterizer.PolygonMode)
	assert.Equal(t, float32(1), p.Rasterizer.LineWidth)
	assert.Equal(t, ViewportState{Width: 64, Height: 32}, p.Viewport)
	assert.Equal(t, uint32(4), p.Multisample.Samples)
	assert.Equal(t, DepthStencilState{TestEnable: true, CompareOp: CompareOpLess}, p.DepthStencil)
}

func TestPipelinePresets(t *testing.T) {
	geom := GeometryPipeline()
	assert.Equal(t, RenderPassGeometry, geom.RenderPass)
	assert.Len(t, geom.Blend, len(GeometryPass().Subpass.Color))
	assert.True(t, geom.DepthStencil.WriteEnable)
	assert.Equal(t, "geom.vert", geom.Stages[0].Name)
	assert.Equal(t, "geom.frag", geom.Stages[1].Name)

	light := LightingPipeline()
	assert.Equal(t, TopologyTriangleStrip, light.Topology)
	assert.Equal(t, []string{SetLayoutGBuffer, SetLayoutLights}, light.SetLayouts)

	sky := SkyboxPipeline()
	assert.True(t, sky.DepthStencil.TestEnable)
	assert.False(t, sky.DepthStencil.WriteEnable)

	bake := CubemapBakePipeline(256)
	assert.False(t, bake.Viewport.Dynamic)
	assert.Equal(t, uint32(256), bake.Viewport.Width)
	assert.LessOrEqual(t, bake.PushConstants[0].Size, MaxPushConstantSize)
}

func TestPipelineSetLayoutsExist(t *testing.T) {
	known := map[string]bool{}
	for _, l := range DescriptorSetLayouts() {
		known[l.Name] = true
	}
	for _, p := range []*PipelineDescription{GeometryPipeline(), LightingPipeline(), SkyboxPipeline(), CubemapBakePipeline(DefaultCubemapSize)} {
		for _, name := range p.SetLayouts {
			assert.True(t, known[name], "%s uses unknown set layout %s", p.Name, name)
		}
	}
}
