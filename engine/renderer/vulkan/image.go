package vulkan

import (
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
)

type ImageConfig struct {
	Width  uint32
	Height uint32
	// Layers defaults to one. Cube images need six.
	Layers uint32
	Cube   bool
	Format metadata.Format
	// VkFormat overrides Format for placeholder formats already resolved.
	VkFormat vk.Format
	Usage    vk.ImageUsageFlags
	Aspect   metadata.ImageAspect
	// LayerViews creates one 2D view per layer, used as render targets.
	LayerViews bool
}

type VulkanImage struct {
	Handle     vk.Image
	Memory     vk.DeviceMemory
	View       vk.ImageView
	LayerViews []vk.ImageView
	Width      uint32
	Height     uint32
	Layers     uint32
	Format     metadata.Format
	VkFormat   vk.Format
	Aspect     metadata.ImageAspect
}

// ImageCreate creates an optimally tiled device local image, binds its
// memory and creates the views.
func ImageCreate(context *VulkanContext, cfg ImageConfig) (*VulkanImage, error) {
	if cfg.Layers == 0 {
		cfg.Layers = 1
	}
	if cfg.VkFormat == vk.FormatUndefined {
		cfg.VkFormat = vkFormat(cfg.Format)
	}
	if cfg.Aspect == 0 {
		cfg.Aspect = metadata.ImageAspectColor
	}
	img := &VulkanImage{
		Width:    cfg.Width,
		Height:   cfg.Height,
		Layers:   cfg.Layers,
		Format:   cfg.Format,
		VkFormat: cfg.VkFormat,
		Aspect:   cfg.Aspect,
	}
	device := context.Device.LogicalDevice

	err := lockPool.SafeCall(ImageManagement, func() error {
		createInfo := vk.ImageCreateInfo{
			SType:     vk.StructureTypeImageCreateInfo,
			ImageType: vk.ImageType2d,
			Extent: vk.Extent3D{
				Width:  cfg.Width,
				Height: cfg.Height,
				Depth:  1,
			},
			MipLevels:     1,
			ArrayLayers:   cfg.Layers,
			Format:        cfg.VkFormat,
			Tiling:        vk.ImageTilingOptimal,
			InitialLayout: vk.ImageLayoutUndefined,
			Usage:         cfg.Usage,
			Samples:       vk.SampleCount1Bit,
			SharingMode:   vk.SharingModeExclusive,
		}
		if cfg.Cube {
			createInfo.Flags = vk.ImageCreateFlags(vk.ImageCreateCubeCompatibleBit)
		}
		var handle vk.Image
		if res := vk.CreateImage(device, &createInfo, context.Allocator, &handle); res != vk.Success {
			return vulkanError(res, "failed to create %dx%d image", cfg.Width, cfg.Height)
		}
		img.Handle = handle

		var requirements vk.MemoryRequirements
		vk.GetImageMemoryRequirements(device, handle, &requirements)
		requirements.Deref()

		memory, err := context.allocate(requirements, metadata.MemoryLocalityDeviceLocal.Properties())
		if err != nil {
			return err
		}
		img.Memory = memory
		if res := vk.BindImageMemory(device, handle, memory, 0); res != vk.Success {
			return vulkanError(res, "failed to bind image memory")
		}
		return nil
	})
	if err != nil {
		img.Destroy(context)
		return nil, err
	}

	viewType := vk.ImageViewType2d
	if cfg.Cube {
		viewType = vk.ImageViewTypeCube
	} else if cfg.Layers > 1 {
		viewType = vk.ImageViewType2dArray
	}
	if img.View, err = img.createView(context, viewType, 0, cfg.Layers); err != nil {
		img.Destroy(context)
		return nil, err
	}
	if cfg.LayerViews {
		for layer := uint32(0); layer < cfg.Layers; layer++ {
			view, err := img.createView(context, vk.ImageViewType2d, layer, 1)
			if err != nil {
				img.Destroy(context)
				return nil, err
			}
			img.LayerViews = append(img.LayerViews, view)
		}
	}
	return img, nil
}

func (img *VulkanImage) createView(context *VulkanContext, viewType vk.ImageViewType, baseLayer, layerCount uint32) (vk.ImageView, error) {
	return createImageView(context, img.Handle, img.VkFormat, viewType, vkAspect(img.Aspect), baseLayer, layerCount)
}

func createImageView(context *VulkanContext, image vk.Image, format vk.Format, viewType vk.ImageViewType, aspect vk.ImageAspectFlags, baseLayer, layerCount uint32) (vk.ImageView, error) {
	viewCreateInfo := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    image,
		ViewType: viewType,
		Format:   format,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     aspect,
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: baseLayer,
			LayerCount:     layerCount,
		},
	}
	var view vk.ImageView
	if res := vk.CreateImageView(context.Device.LogicalDevice, &viewCreateInfo, context.Allocator, &view); res != vk.Success {
		return vk.NullImageView, vulkanError(res, "failed to create image view")
	}
	return view, nil
}

// TransitionLayout records a pipeline barrier moving every layer of the
// image from oldLayout to newLayout.
func (img *VulkanImage) TransitionLayout(cb *VulkanCommandBuffer, oldLayout, newLayout metadata.ImageLayout) error {
	b, err := metadata.LayoutTransition(oldLayout, newLayout, img.Format)
	if err != nil {
		return err
	}
	barrier := vk.ImageMemoryBarrier{
		SType:               vk.StructureTypeImageMemoryBarrier,
		OldLayout:           vkImageLayout(b.OldLayout),
		NewLayout:           vkImageLayout(b.NewLayout),
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               img.Handle,
		SrcAccessMask:       vkAccess(b.SrcAccess),
		DstAccessMask:       vkAccess(b.DstAccess),
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     vkAspect(b.Aspect),
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     img.Layers,
		},
	}
	vk.CmdPipelineBarrier(cb.Handle,
		vkPipelineStage(b.SrcStage), vkPipelineStage(b.DstStage),
		0, 0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{barrier})
	return nil
}

// CopyFromBuffer copies tightly packed pixels into layer 0. The image must
// be in the transfer destination layout.
func (img *VulkanImage) CopyFromBuffer(cb *VulkanCommandBuffer, buffer *VulkanBuffer) {
	region := vk.BufferImageCopy{
		BufferOffset:      0,
		BufferRowLength:   0,
		BufferImageHeight: 0,
		ImageSubresource: vk.ImageSubresourceLayers{
			AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
			MipLevel:       0,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
		ImageExtent: vk.Extent3D{
			Width:  img.Width,
			Height: img.Height,
			Depth:  1,
		},
	}
	vk.CmdCopyBufferToImage(cb.Handle, buffer.Handle, img.Handle, vk.ImageLayoutTransferDstOptimal, 1, []vk.BufferImageCopy{region})
}

func (img *VulkanImage) Destroy(context *VulkanContext) {
	device := context.Device.LogicalDevice
	_ = lockPool.SafeCall(ImageManagement, func() error {
		for _, view := range img.LayerViews {
			vk.DestroyImageView(device, view, context.Allocator)
		}
		img.LayerViews = nil
		if img.View != vk.NullImageView {
			vk.DestroyImageView(device, img.View, context.Allocator)
			img.View = vk.NullImageView
		}
		if img.Memory != vk.NullDeviceMemory {
			vk.FreeMemory(device, img.Memory, context.Allocator)
			img.Memory = vk.NullDeviceMemory
		}
		if img.Handle != vk.NullImage {
			vk.DestroyImage(device, img.Handle, context.Allocator)
			img.Handle = vk.NullImage
		}
		return nil
	})
}
