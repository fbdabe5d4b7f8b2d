package vulkan

import (
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
)

// GBuffer holds the targets written by the geometry pass. There is a single
// G-buffer shared by every frame in flight, the external dependencies of the
// geometry pass order a frame's writes after the previous frame's reads.
type GBuffer struct {
	Position *VulkanImage
	Normal   *VulkanImage
	Depth    *VulkanImage
}

func NewGBuffer(context *VulkanContext, width, height uint32) (*GBuffer, error) {
	g := &GBuffer{}
	colorUsage := vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit | vk.ImageUsageSampledBit)

	var err error
	if g.Position, err = ImageCreate(context, ImageConfig{
		Width:  width,
		Height: height,
		Format: metadata.GBufferFormat,
		Usage:  colorUsage,
		Aspect: metadata.ImageAspectColor,
	}); err != nil {
		g.Destroy(context)
		return nil, err
	}
	if g.Normal, err = ImageCreate(context, ImageConfig{
		Width:  width,
		Height: height,
		Format: metadata.GBufferFormat,
		Usage:  colorUsage,
		Aspect: metadata.ImageAspectColor,
	}); err != nil {
		g.Destroy(context)
		return nil, err
	}

	depthFormat := metadataFormat(context.Device.DepthFormat)
	aspect := metadata.ImageAspectDepth
	if depthFormat.HasStencil() {
		aspect |= metadata.ImageAspectStencil
	}
	if g.Depth, err = ImageCreate(context, ImageConfig{
		Width:    width,
		Height:   height,
		Format:   depthFormat,
		VkFormat: context.Device.DepthFormat,
		Usage:    vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit),
		Aspect:   aspect,
	}); err != nil {
		g.Destroy(context)
		return nil, err
	}
	return g, nil
}

// GeometryAttachments returns the views in the attachment order of the
// geometry pass.
func (g *GBuffer) GeometryAttachments() []vk.ImageView {
	return []vk.ImageView{g.Position.View, g.Normal.View, g.Depth.View}
}

func (g *GBuffer) Destroy(context *VulkanContext) {
	for _, img := range []*VulkanImage{g.Position, g.Normal, g.Depth} {
		if img != nil {
			img.Destroy(context)
		}
	}
	g.Position, g.Normal, g.Depth = nil, nil, nil
}
