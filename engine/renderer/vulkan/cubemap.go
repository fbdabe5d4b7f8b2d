package vulkan

import (
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/deferred/engine/core"
	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
)

// EnvironmentCubemap is the equirectangular environment and the cubemap it
// is baked into, one framebuffer per face.
type EnvironmentCubemap struct {
	Equirect     *VulkanTexture
	Cube         *VulkanImage
	Sampler      vk.Sampler
	Framebuffers [metadata.CubemapFaceCount]*VulkanFramebuffer
	Size         uint32
}

func NewEnvironmentCubemap(
	context *VulkanContext,
	allocator *VulkanAllocator,
	bakePass *VulkanRenderPass,
	equirect *metadata.ImageData,
	size uint32,
) (*EnvironmentCubemap, error) {
	if size == 0 {
		size = metadata.DefaultCubemapSize
	}
	env := &EnvironmentCubemap{Size: size}

	var err error
	if env.Equirect, err = NewTextureFromImageData(context, allocator, equirect); err != nil {
		return nil, err
	}

	if env.Cube, err = ImageCreate(context, ImageConfig{
		Width:      size,
		Height:     size,
		Layers:     metadata.CubemapFaceCount,
		Cube:       true,
		Format:     metadata.CubemapFormat,
		Usage:      vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit | vk.ImageUsageSampledBit),
		Aspect:     metadata.ImageAspectColor,
		LayerViews: true,
	}); err != nil {
		env.Destroy(context)
		return nil, err
	}

	if env.Sampler, err = NewSampler(context, vk.SamplerAddressModeClampToEdge); err != nil {
		env.Destroy(context)
		return nil, err
	}

	for face := 0; face < metadata.CubemapFaceCount; face++ {
		fb, err := FramebufferCreate(context, bakePass, size, size, []vk.ImageView{env.Cube.LayerViews[face]})
		if err != nil {
			env.Destroy(context)
			return nil, err
		}
		env.Framebuffers[face] = fb
	}

	core.LogInfo("Environment cubemap created, %d pixels per face.", size)
	return env, nil
}

func (env *EnvironmentCubemap) Destroy(context *VulkanContext) {
	for i, fb := range env.Framebuffers {
		if fb != nil {
			fb.Destroy(context)
			env.Framebuffers[i] = nil
		}
	}
	DestroySampler(context, env.Sampler)
	env.Sampler = vk.NullSampler
	if env.Cube != nil {
		env.Cube.Destroy(context)
		env.Cube = nil
	}
	if env.Equirect != nil {
		env.Equirect.Destroy(context)
		env.Equirect = nil
	}
}
