package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/deferred/engine/core"
	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
)

const maxSamplerAnisotropy float32 = 16.0

// NewSampler creates a linear sampler. Anisotropic filtering is used when
// the device enabled it, capped at 16 and the device limit.
func NewSampler(context *VulkanContext, addressMode vk.SamplerAddressMode) (vk.Sampler, error) {
	createInfo := vk.SamplerCreateInfo{
		SType:                   vk.StructureTypeSamplerCreateInfo,
		MagFilter:               vk.FilterLinear,
		MinFilter:               vk.FilterLinear,
		AddressModeU:            addressMode,
		AddressModeV:            addressMode,
		AddressModeW:            addressMode,
		AnisotropyEnable:        vk.False,
		MaxAnisotropy:           1.0,
		BorderColor:             vk.BorderColorIntOpaqueBlack,
		UnnormalizedCoordinates: vk.False,
		CompareEnable:           vk.False,
		CompareOp:               vk.CompareOpAlways,
		MipmapMode:              vk.SamplerMipmapModeLinear,
		MipLodBias:              0.0,
		MinLod:                  0.0,
		MaxLod:                  0.0,
	}
	if context.Device.Features.SamplerAnisotropy == vk.True {
		createInfo.AnisotropyEnable = vk.True
		createInfo.MaxAnisotropy = min(maxSamplerAnisotropy, context.Device.MaxSamplerAnisotropy)
	}

	var sampler vk.Sampler
	err := lockPool.SafeCall(SamplerManagement, func() error {
		if res := vk.CreateSampler(context.Device.LogicalDevice, &createInfo, context.Allocator, &sampler); res != vk.Success {
			return vulkanError(res, "failed to create sampler")
		}
		return nil
	})
	return sampler, err
}

func DestroySampler(context *VulkanContext, sampler vk.Sampler) {
	if sampler == vk.NullSampler {
		return
	}
	_ = lockPool.SafeCall(SamplerManagement, func() error {
		vk.DestroySampler(context.Device.LogicalDevice, sampler, context.Allocator)
		return nil
	})
}

// VulkanTexture is a sampled image together with its sampler.
type VulkanTexture struct {
	Image   *VulkanImage
	Sampler vk.Sampler
}

// NewTextureFromImageData uploads RGBA8 pixels through a staging buffer and
// leaves the image in the shader read-only layout.
func NewTextureFromImageData(context *VulkanContext, allocator *VulkanAllocator, data *metadata.ImageData) (*VulkanTexture, error) {
	if data == nil || data.Width == 0 || data.Height == 0 {
		return nil, fmt.Errorf("%w: texture has no pixels", core.ErrUnknownAsset)
	}
	size := uint64(data.Width) * uint64(data.Height) * 4
	if uint64(len(data.Pixels)) < size {
		return nil, fmt.Errorf("%w: %d pixel bytes for a %dx%d RGBA image", core.ErrShortFill, len(data.Pixels), data.Width, data.Height)
	}

	staging, err := allocator.createBuffer(size, metadata.BufferUsageTransferSrc, metadata.MemoryLocalityHostCoherent)
	if err != nil {
		return nil, err
	}
	defer allocator.DestroyBuffer(staging)
	if err := allocator.Upload(staging, data.Pixels[:size]); err != nil {
		return nil, err
	}

	image, err := ImageCreate(context, ImageConfig{
		Width:  data.Width,
		Height: data.Height,
		Format: metadata.FormatR8G8B8A8Unorm,
		Usage:  vk.ImageUsageFlags(vk.ImageUsageTransferDstBit | vk.ImageUsageSampledBit),
		Aspect: metadata.ImageAspectColor,
	})
	if err != nil {
		return nil, err
	}

	err = SingleUse(context, func(cb *VulkanCommandBuffer) error {
		if err := image.TransitionLayout(cb, metadata.ImageLayoutUndefined, metadata.ImageLayoutTransferDst); err != nil {
			return err
		}
		image.CopyFromBuffer(cb, staging)
		return image.TransitionLayout(cb, metadata.ImageLayoutTransferDst, metadata.ImageLayoutShaderReadOnly)
	})
	if err != nil {
		image.Destroy(context)
		return nil, err
	}

	sampler, err := NewSampler(context, vk.SamplerAddressModeRepeat)
	if err != nil {
		image.Destroy(context)
		return nil, err
	}
	core.LogDebug("Texture uploaded, %dx%d.", data.Width, data.Height)
	return &VulkanTexture{Image: image, Sampler: sampler}, nil
}

func (t *VulkanTexture) Destroy(context *VulkanContext) {
	DestroySampler(context, t.Sampler)
	t.Sampler = vk.NullSampler
	if t.Image != nil {
		t.Image.Destroy(context)
		t.Image = nil
	}
}
