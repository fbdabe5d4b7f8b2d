package vulkan

import (
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/deferred/engine/core"
	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
)

type VulkanRenderPass struct {
	Handle      vk.RenderPass
	Description *metadata.RenderPassDescription
	// Formats are the resolved attachment formats in attachment order.
	Formats     []vk.Format
	ClearValues []vk.ClearValue
}

// NewRenderPass turns a render pass description into a single subpass
// Vulkan render pass. Placeholder formats are resolved against the
// swapchain and the device depth format.
func NewRenderPass(context *VulkanContext, desc *metadata.RenderPassDescription, formats formatResolver) (*VulkanRenderPass, error) {
	if err := desc.Validate(); err != nil {
		core.LogError("%s", err)
		return nil, err
	}

	rp := &VulkanRenderPass{
		Description: desc,
		Formats:     make([]vk.Format, len(desc.Attachments)),
		ClearValues: make([]vk.ClearValue, len(desc.Attachments)),
	}

	attachments := make([]vk.AttachmentDescription, len(desc.Attachments))
	for i, a := range desc.Attachments {
		format := formats.resolve(a.Format)
		rp.Formats[i] = format
		attachments[i] = vk.AttachmentDescription{
			Format:         format,
			Samples:        vk.SampleCount1Bit,
			LoadOp:         vkLoadOp(a.Load),
			StoreOp:        vkStoreOp(a.Store),
			StencilLoadOp:  vkLoadOp(a.StencilLoad),
			StencilStoreOp: vkStoreOp(a.StencilStore),
			InitialLayout:  vkImageLayout(a.InitialLayout),
			FinalLayout:    vkImageLayout(a.FinalLayout),
		}
		if a.Format.IsDepth() {
			rp.ClearValues[i] = vk.NewClearDepthStencil(a.Clear.Depth, a.Clear.Stencil)
		} else {
			rp.ClearValues[i] = vk.NewClearValue(a.Clear.Color[:])
		}
	}

	colorRefs := make([]vk.AttachmentReference, len(desc.Subpass.Color))
	for i, c := range desc.Subpass.Color {
		colorRefs[i] = vk.AttachmentReference{
			Attachment: uint32(c),
			Layout:     vkImageLayout(desc.SubpassLayout(c)),
		}
	}
	subpass := vk.SubpassDescription{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: uint32(len(colorRefs)),
		PColorAttachments:    colorRefs,
	}
	if d := desc.Subpass.Depth; d != metadata.NoAttachment {
		subpass.PDepthStencilAttachment = &vk.AttachmentReference{
			Attachment: uint32(d),
			Layout:     vkImageLayout(desc.SubpassLayout(d)),
		}
	}

	dependencies := make([]vk.SubpassDependency, len(desc.Dependencies))
	for i, dep := range desc.Dependencies {
		dependencies[i] = vk.SubpassDependency{
			SrcSubpass:    subpassIndex(dep.Src),
			DstSubpass:    subpassIndex(dep.Dst),
			SrcStageMask:  vkPipelineStage(dep.SrcStage),
			DstStageMask:  vkPipelineStage(dep.DstStage),
			SrcAccessMask: vkAccess(dep.SrcAccess),
			DstAccessMask: vkAccess(dep.DstAccess),
		}
		if dep.ByRegion {
			dependencies[i].DependencyFlags = vk.DependencyFlags(vk.DependencyByRegionBit)
		}
	}

	createInfo := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: uint32(len(dependencies)),
		PDependencies:   dependencies,
	}

	err := lockPool.SafeCall(RenderpassManagement, func() error {
		var handle vk.RenderPass
		if res := vk.CreateRenderPass(context.Device.LogicalDevice, &createInfo, context.Allocator, &handle); res != vk.Success {
			return vulkanError(res, "failed to create render pass `%s`", desc.Name)
		}
		rp.Handle = handle
		return nil
	})
	if err != nil {
		return nil, err
	}
	core.LogDebug("Render pass `%s` created with %d attachments.", desc.Name, len(attachments))
	return rp, nil
}

func subpassIndex(i int) uint32 {
	if i == metadata.SubpassExternal {
		return vk.SubpassExternal
	}
	return uint32(i)
}

func (rp *VulkanRenderPass) Begin(cb *VulkanCommandBuffer, fb *VulkanFramebuffer) {
	beginInfo := vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  rp.Handle,
		Framebuffer: fb.Handle,
		RenderArea: vk.Rect2D{
			Offset: vk.Offset2D{X: 0, Y: 0},
			Extent: vk.Extent2D{Width: fb.Width, Height: fb.Height},
		},
		ClearValueCount: uint32(len(rp.ClearValues)),
		PClearValues:    rp.ClearValues,
	}
	vk.CmdBeginRenderPass(cb.Handle, &beginInfo, vk.SubpassContentsInline)
	cb.State = COMMAND_BUFFER_STATE_IN_RENDER_PASS
}

func (rp *VulkanRenderPass) End(cb *VulkanCommandBuffer) {
	vk.CmdEndRenderPass(cb.Handle)
	cb.State = COMMAND_BUFFER_STATE_RECORDING
}

func (rp *VulkanRenderPass) Destroy(context *VulkanContext) {
	_ = lockPool.SafeCall(RenderpassManagement, func() error {
		if rp.Handle != vk.NullRenderPass {
			vk.DestroyRenderPass(context.Device.LogicalDevice, rp.Handle, context.Allocator)
			rp.Handle = vk.NullRenderPass
		}
		return nil
	})
}
