package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/deferred/engine/renderer/frame"
	"github.com/spaghettifunk/deferred/engine/renderer/graph"
	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
)

// VulkanRecorder records the passes of one submission into the command
// buffer owned by the submission and frame slot. Buffers are re-recorded
// every frame once the slot fence has been waited.
type VulkanRecorder struct {
	renderer       *VulkanRenderer
	commandBuffers map[string][]*VulkanCommandBuffer
}

var _ frame.Recorder = (*VulkanRecorder)(nil)

func NewVulkanRecorder(r *VulkanRenderer, plan *graph.Plan, framesInFlight int) (*VulkanRecorder, error) {
	rec := &VulkanRecorder{
		renderer:       r,
		commandBuffers: make(map[string][]*VulkanCommandBuffer),
	}
	pool := r.context.Device.GraphicsCommandPool
	submissions := append(append([]graph.Submission{}, plan.OnceSubmissions...), plan.Submissions...)
	for _, sub := range submissions {
		count := framesInFlight
		if len(sub.Passes) > 0 && sub.Passes[0].Schedule == graph.ScheduleOnce {
			count = 1
		}
		cbs, err := NewVulkanCommandBuffers(r.context, pool, count)
		if err != nil {
			rec.Destroy()
			return nil, err
		}
		rec.commandBuffers[sub.Name] = cbs
	}
	return rec, nil
}

func (rec *VulkanRecorder) Record(sub graph.Submission, f *frame.Frame, image uint32) (frame.CommandBuffer, error) {
	cbs, ok := rec.commandBuffers[sub.Name]
	if !ok {
		return nil, fmt.Errorf("no command buffers for submission `%s`", sub.Name)
	}
	cb := cbs[f.Index%len(cbs)]
	if err := cb.Reset(); err != nil {
		return nil, err
	}
	if err := cb.Begin(false, false, false); err != nil {
		return nil, err
	}
	for _, pass := range sub.Passes {
		if err := rec.recordPass(cb, pass, f.Index, image); err != nil {
			return nil, err
		}
	}
	if err := cb.End(); err != nil {
		return nil, err
	}
	return cb, nil
}

func (rec *VulkanRecorder) recordPass(cb *VulkanCommandBuffer, pass *graph.Pass, slot int, image uint32) error {
	r := rec.renderer
	rp, ok := r.renderpasses[pass.RenderPass]
	if !ok {
		return fmt.Errorf("pass `%s` uses unknown render pass `%s`", pass.Name, pass.RenderPass)
	}
	pipeline, ok := r.pipelines[pass.Pipeline]
	if !ok {
		return fmt.Errorf("pass `%s` uses unknown pipeline `%s`", pass.Name, pass.Pipeline)
	}
	scene := r.scene
	if scene == nil {
		return fmt.Errorf("pass `%s` recorded before a scene was loaded", pass.Name)
	}
	resources := r.frames[slot]

	switch pass.RenderPass {
	case metadata.RenderPassGeometry:
		rp.Begin(cb, r.arena.GeometryFramebuffer())
		pipeline.Bind(cb)
		rec.setViewport(cb)
		vk.CmdBindDescriptorSets(cb.Handle, vk.PipelineBindPointGraphics, pipeline.PipelineLayout, 0, 1,
			[]vk.DescriptorSet{resources.mvpSet}, 0, nil)
		drawIndexed(cb, handle(scene.vertices), handle(scene.indices), scene.indexCount)
		rp.End(cb)

	case metadata.RenderPassLighting:
		rp.Begin(cb, r.arena.LightingFramebuffer(image))
		pipeline.Bind(cb)
		rec.setViewport(cb)
		vk.CmdBindDescriptorSets(cb.Handle, vk.PipelineBindPointGraphics, pipeline.PipelineLayout, 0, 2,
			[]vk.DescriptorSet{resources.gbufferSet, resources.lightsSet}, 0, nil)
		vk.CmdBindVertexBuffers(cb.Handle, 0, 1, []vk.Buffer{handle(scene.quad)}, []vk.DeviceSize{0})
		vk.CmdDraw(cb.Handle, scene.quadVertexCount, 1, 0, 0)
		rp.End(cb)

	case metadata.RenderPassSkybox:
		rp.Begin(cb, r.arena.SkyboxFramebuffer(image))
		pipeline.Bind(cb)
		rec.setViewport(cb)
		vk.CmdBindDescriptorSets(cb.Handle, vk.PipelineBindPointGraphics, pipeline.PipelineLayout, 0, 1,
			[]vk.DescriptorSet{resources.skyboxSet}, 0, nil)
		drawIndexed(cb, handle(scene.cubeVertices), handle(scene.cubeIndices), scene.cubeIndexCount)
		rp.End(cb)

	case metadata.RenderPassCubemapBake:
		env := r.environment
		if env == nil {
			return fmt.Errorf("pass `%s` needs an environment image", pass.Name)
		}
		for face := 0; face < metadata.CubemapFaceCount; face++ {
			rp.Begin(cb, env.Framebuffers[face])
			pipeline.Bind(cb)
			vk.CmdBindDescriptorSets(cb.Handle, vk.PipelineBindPointGraphics, pipeline.PipelineLayout, 0, 1,
				[]vk.DescriptorSet{r.bakeSet}, 0, nil)
			constants := metadata.CubemapPushConstantsFor(face)
			data := constants.Bytes()
			vk.CmdPushConstants(cb.Handle, pipeline.PipelineLayout, vk.ShaderStageFlags(vk.ShaderStageVertexBit),
				0, uint32(len(data)), unsafe.Pointer(&data[0]))
			drawIndexed(cb, handle(scene.cubeVertices), handle(scene.cubeIndices), scene.cubeIndexCount)
			rp.End(cb)
		}

	default:
		return fmt.Errorf("no recording for render pass `%s`", pass.RenderPass)
	}
	return nil
}

// setViewport covers the whole swapchain extent. The camera projection
// already flips Y for Vulkan's clip space.
func (rec *VulkanRecorder) setViewport(cb *VulkanCommandBuffer) {
	extent := rec.renderer.arena.Extent()
	viewport := vk.Viewport{
		X:        0.0,
		Y:        0.0,
		Width:    float32(extent.Width),
		Height:   float32(extent.Height),
		MinDepth: 0.0,
		MaxDepth: 1.0,
	}
	scissor := vk.Rect2D{
		Offset: vk.Offset2D{X: 0, Y: 0},
		Extent: extent,
	}
	vk.CmdSetViewport(cb.Handle, 0, 1, []vk.Viewport{viewport})
	vk.CmdSetScissor(cb.Handle, 0, 1, []vk.Rect2D{scissor})
}

func drawIndexed(cb *VulkanCommandBuffer, vertices, indices vk.Buffer, count uint32) {
	vk.CmdBindVertexBuffers(cb.Handle, 0, 1, []vk.Buffer{vertices}, []vk.DeviceSize{0})
	vk.CmdBindIndexBuffer(cb.Handle, indices, 0, vk.IndexTypeUint32)
	vk.CmdDrawIndexed(cb.Handle, count, 1, 0, 0, 0)
}

func (rec *VulkanRecorder) Destroy() {
	pool := rec.renderer.context.Device.GraphicsCommandPool
	for name, cbs := range rec.commandBuffers {
		for _, cb := range cbs {
			cb.Free(rec.renderer.context, pool)
		}
		delete(rec.commandBuffers, name)
	}
}
