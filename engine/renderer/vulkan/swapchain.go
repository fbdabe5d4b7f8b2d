package vulkan

import (
	"fmt"
	"math"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/deferred/engine/core"
	"github.com/spaghettifunk/deferred/engine/renderer/frame"
)

type VulkanSwapchain struct {
	Handle      vk.Swapchain
	ImageFormat vk.SurfaceFormat
	PresentMode vk.PresentMode
	Extent      vk.Extent2D
	Images      []vk.Image
	Views       []vk.ImageView

	context *VulkanContext
}

// ChooseSurfaceFormat prefers B8G8R8A8_UNORM with the sRGB non-linear
// colour space and falls back to the first reported format.
func ChooseSurfaceFormat(formats []vk.SurfaceFormat) vk.SurfaceFormat {
	for _, format := range formats {
		if format.Format == vk.FormatB8g8r8a8Unorm && format.ColorSpace == vk.ColorSpaceSrgbNonlinear {
			return format
		}
	}
	return formats[0]
}

// ChoosePresentMode prefers mailbox, then immediate. FIFO is always
// available and is forced when vsync is requested.
func ChoosePresentMode(modes []vk.PresentMode, vsync bool) vk.PresentMode {
	if vsync {
		return vk.PresentModeFifo
	}
	for _, preferred := range []vk.PresentMode{vk.PresentModeMailbox, vk.PresentModeImmediate} {
		for _, mode := range modes {
			if mode == preferred {
				return mode
			}
		}
	}
	return vk.PresentModeFifo
}

func presentModeName(mode vk.PresentMode) string {
	switch mode {
	case vk.PresentModeMailbox:
		return "mailbox"
	case vk.PresentModeImmediate:
		return "immediate"
	case vk.PresentModeFifo:
		return "fifo"
	}
	return "other"
}

// SwapchainCreate builds a swapchain for the surface at the given size. The
// old swapchain, if any, is handed to the driver for resource reuse and
// must be destroyed by the caller afterwards.
func SwapchainCreate(context *VulkanContext, format vk.SurfaceFormat, width, height uint32, vsync bool, old vk.Swapchain) (*VulkanSwapchain, error) {
	support, err := DeviceQuerySwapchainSupport(context.Device.PhysicalDevice, context.Surface)
	if err != nil {
		return nil, err
	}
	context.Device.SwapchainSupport = support
	capabilities := support.Capabilities

	extent := vk.Extent2D{Width: width, Height: height}
	if capabilities.CurrentExtent.Width != math.MaxUint32 {
		extent = capabilities.CurrentExtent
	}
	extent.Width = core.Clamp(extent.Width, capabilities.MinImageExtent.Width, capabilities.MaxImageExtent.Width)
	extent.Height = core.Clamp(extent.Height, capabilities.MinImageExtent.Height, capabilities.MaxImageExtent.Height)
	if extent.Width == 0 || extent.Height == 0 {
		return nil, core.ErrSwapchainBooting
	}

	imageCount := capabilities.MinImageCount + 1
	if capabilities.MaxImageCount > 0 && imageCount > capabilities.MaxImageCount {
		imageCount = capabilities.MaxImageCount
	}

	swapchain := &VulkanSwapchain{
		ImageFormat: format,
		PresentMode: ChoosePresentMode(support.PresentModes, vsync),
		Extent:      extent,
		context:     context,
	}

	createInfo := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          context.Surface,
		MinImageCount:    imageCount,
		ImageFormat:      format.Format,
		ImageColorSpace:  format.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		PreTransform:     capabilities.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		PresentMode:      swapchain.PresentMode,
		Clipped:          vk.True,
		OldSwapchain:     old,
	}
	if context.Device.GraphicsQueueIndex != context.Device.PresentQueueIndex {
		createInfo.ImageSharingMode = vk.SharingModeConcurrent
		createInfo.QueueFamilyIndexCount = 2
		createInfo.PQueueFamilyIndices = []uint32{
			context.Device.GraphicsQueueIndex,
			context.Device.PresentQueueIndex,
		}
	} else {
		createInfo.ImageSharingMode = vk.SharingModeExclusive
	}

	device := context.Device.LogicalDevice
	err = lockPool.SafeCall(SwapchainManagement, func() error {
		var handle vk.Swapchain
		if res := vk.CreateSwapchain(device, &createInfo, context.Allocator, &handle); res != vk.Success {
			return vulkanError(res, "failed to create swapchain")
		}
		swapchain.Handle = handle

		var count uint32
		if res := vk.GetSwapchainImages(device, handle, &count, nil); res != vk.Success {
			return vulkanError(res, "failed to get swapchain images")
		}
		swapchain.Images = make([]vk.Image, count)
		if res := vk.GetSwapchainImages(device, handle, &count, swapchain.Images); res != vk.Success {
			return vulkanError(res, "failed to get swapchain images")
		}
		return nil
	})
	if err != nil {
		swapchain.Destroy()
		return nil, err
	}

	swapchain.Views = make([]vk.ImageView, 0, len(swapchain.Images))
	for _, image := range swapchain.Images {
		view, err := createImageView(context, image, format.Format, vk.ImageViewType2d, vk.ImageAspectFlags(vk.ImageAspectColorBit), 0, 1)
		if err != nil {
			swapchain.Destroy()
			return nil, err
		}
		swapchain.Views = append(swapchain.Views, view)
	}

	core.LogInfo("Swapchain created with %d images at %dx%d, present mode %s.",
		len(swapchain.Images), extent.Width, extent.Height, presentModeName(swapchain.PresentMode))
	return swapchain, nil
}

func (vs *VulkanSwapchain) ImageCount() uint32 {
	return uint32(len(vs.Images))
}

// AcquireNextImage blocks without timeout until an image is available.
func (vs *VulkanSwapchain) AcquireNextImage(signal frame.Semaphore) (uint32, error) {
	semaphore := vk.NullSemaphore
	if s, ok := signal.(*VulkanSemaphore); ok {
		semaphore = s.Handle
	}
	var index uint32
	res := vk.AcquireNextImage(vs.context.Device.LogicalDevice, vs.Handle, math.MaxUint64, semaphore, vk.NullFence, &index)
	switch res {
	case vk.Success, vk.Suboptimal:
		// A suboptimal image is still presentable. Present reports it.
		return index, nil
	case vk.ErrorOutOfDate:
		return 0, fmt.Errorf("acquire: %w", core.ErrSwapchainOutOfDate)
	}
	return 0, vulkanError(res, "failed to acquire swapchain image")
}

func (vs *VulkanSwapchain) Present(image uint32, wait frame.Semaphore) error {
	presentInfo := vk.PresentInfo{
		SType:          vk.StructureTypePresentInfo,
		SwapchainCount: 1,
		PSwapchains:    []vk.Swapchain{vs.Handle},
		PImageIndices:  []uint32{image},
	}
	if s, ok := wait.(*VulkanSemaphore); ok {
		presentInfo.WaitSemaphoreCount = 1
		presentInfo.PWaitSemaphores = []vk.Semaphore{s.Handle}
	}

	var res vk.Result
	_ = lockPool.SafeQueueCall(vs.context.Device.PresentQueueIndex, func() error {
		res = vk.QueuePresent(vs.context.Device.PresentQueue, &presentInfo)
		return nil
	})
	switch res {
	case vk.Success:
		return nil
	case vk.ErrorOutOfDate, vk.Suboptimal:
		return fmt.Errorf("present: %w", core.ErrSwapchainOutOfDate)
	}
	return vulkanError(res, "failed to present swapchain image")
}

func (vs *VulkanSwapchain) Destroy() {
	device := vs.context.Device.LogicalDevice
	_ = lockPool.SafeCall(SwapchainManagement, func() error {
		// Only the views are owned here, the images belong to the swapchain.
		for _, view := range vs.Views {
			vk.DestroyImageView(device, view, vs.context.Allocator)
		}
		vs.Views = nil
		vs.Images = nil
		if vs.Handle != vk.NullSwapchain {
			vk.DestroySwapchain(device, vs.Handle, vs.context.Allocator)
			vs.Handle = vk.NullSwapchain
		}
		return nil
	})
}
