package vulkan

import (
	vk "github.com/goki/vulkan"
)

type VulkanFramebuffer struct {
	Handle      vk.Framebuffer
	Width       uint32
	Height      uint32
	Attachments []vk.ImageView
	Renderpass  *VulkanRenderPass
}

func FramebufferCreate(context *VulkanContext, renderpass *VulkanRenderPass, width, height uint32, attachments []vk.ImageView) (*VulkanFramebuffer, error) {
	fb := &VulkanFramebuffer{
		Width:       width,
		Height:      height,
		Attachments: append([]vk.ImageView(nil), attachments...),
		Renderpass:  renderpass,
	}

	createInfo := vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      renderpass.Handle,
		AttachmentCount: uint32(len(fb.Attachments)),
		PAttachments:    fb.Attachments,
		Width:           width,
		Height:          height,
		Layers:          1,
	}

	var handle vk.Framebuffer
	if res := vk.CreateFramebuffer(context.Device.LogicalDevice, &createInfo, context.Allocator, &handle); res != vk.Success {
		return nil, vulkanError(res, "failed to create %dx%d framebuffer for `%s`", width, height, renderpass.Description.Name)
	}
	fb.Handle = handle
	return fb, nil
}

func (fb *VulkanFramebuffer) Destroy(context *VulkanContext) {
	if fb.Handle != vk.NullFramebuffer {
		vk.DestroyFramebuffer(context.Device.LogicalDevice, fb.Handle, context.Allocator)
		fb.Handle = vk.NullFramebuffer
	}
	fb.Attachments = nil
}
