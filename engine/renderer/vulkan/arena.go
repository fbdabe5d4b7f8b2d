package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/google/uuid"
	"github.com/spaghettifunk/deferred/engine/core"
	"github.com/spaghettifunk/deferred/engine/renderer/frame"
	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
)

// SwapchainArena owns everything sized by the swapchain extent: the
// swapchain, the G-buffer and the framebuffers of the per-frame passes. A
// rebuild replaces the whole set, nothing from an older generation survives.
type SwapchainArena struct {
	context      *VulkanContext
	size         func() (uint32, uint32)
	format       vk.SurfaceFormat
	vsync        bool
	renderpasses map[string]*VulkanRenderPass

	swapchain *VulkanSwapchain
	gbuffer   *GBuffer

	geometryFramebuffer  *VulkanFramebuffer
	lightingFramebuffers []*VulkanFramebuffer
	skyboxFramebuffers   []*VulkanFramebuffer

	ID         uuid.UUID
	Generation uint64

	// onRebuild runs after a successful rebuild, before the arena is used.
	onRebuild func(a *SwapchainArena) error
}

var _ frame.Arena = (*SwapchainArena)(nil)

func NewSwapchainArena(
	context *VulkanContext,
	size func() (uint32, uint32),
	format vk.SurfaceFormat,
	vsync bool,
	renderpasses map[string]*VulkanRenderPass,
	onRebuild func(a *SwapchainArena) error,
) *SwapchainArena {
	return &SwapchainArena{
		context:      context,
		size:         size,
		format:       format,
		vsync:        vsync,
		renderpasses: renderpasses,
		onRebuild:    onRebuild,
	}
}

// Rebuild creates the next generation and releases the previous one. The
// caller guarantees the device is idle.
func (a *SwapchainArena) Rebuild() error {
	width, height := a.size()
	if width == 0 || height == 0 {
		return core.ErrSwapchainBooting
	}

	old := vk.NullSwapchain
	if a.swapchain != nil {
		old = a.swapchain.Handle
	}
	swapchain, err := SwapchainCreate(a.context, a.format, width, height, a.vsync, old)
	if err != nil {
		return err
	}
	a.release()
	a.swapchain = swapchain

	extent := swapchain.Extent
	a.context.FramebufferWidth = extent.Width
	a.context.FramebufferHeight = extent.Height

	if a.gbuffer, err = NewGBuffer(a.context, extent.Width, extent.Height); err != nil {
		return err
	}

	geometry, ok := a.renderpasses[metadata.RenderPassGeometry]
	if !ok {
		return fmt.Errorf("render pass `%s` is missing", metadata.RenderPassGeometry)
	}
	if a.geometryFramebuffer, err = FramebufferCreate(a.context, geometry, extent.Width, extent.Height, a.gbuffer.GeometryAttachments()); err != nil {
		return err
	}

	lighting, ok := a.renderpasses[metadata.RenderPassLighting]
	if !ok {
		return fmt.Errorf("render pass `%s` is missing", metadata.RenderPassLighting)
	}
	skybox, withSkybox := a.renderpasses[metadata.RenderPassSkybox]
	for _, view := range swapchain.Views {
		fb, err := FramebufferCreate(a.context, lighting, extent.Width, extent.Height, []vk.ImageView{view})
		if err != nil {
			return err
		}
		a.lightingFramebuffers = append(a.lightingFramebuffers, fb)

		if withSkybox {
			fb, err := FramebufferCreate(a.context, skybox, extent.Width, extent.Height, []vk.ImageView{view, a.gbuffer.Depth.View})
			if err != nil {
				return err
			}
			a.skyboxFramebuffers = append(a.skyboxFramebuffers, fb)
		}
	}

	a.Generation++
	a.ID = uuid.New()
	if a.onRebuild != nil {
		if err := a.onRebuild(a); err != nil {
			return err
		}
	}
	core.LogInfo("Swapchain arena %s ready, generation %d at %dx%d.", a.ID, a.Generation, extent.Width, extent.Height)
	return nil
}

// release destroys every resource of the current generation. The swapchain
// handle itself is destroyed last since it may have just been retired.
func (a *SwapchainArena) release() {
	for _, fb := range a.skyboxFramebuffers {
		fb.Destroy(a.context)
	}
	a.skyboxFramebuffers = nil
	for _, fb := range a.lightingFramebuffers {
		fb.Destroy(a.context)
	}
	a.lightingFramebuffers = nil
	if a.geometryFramebuffer != nil {
		a.geometryFramebuffer.Destroy(a.context)
		a.geometryFramebuffer = nil
	}
	if a.gbuffer != nil {
		a.gbuffer.Destroy(a.context)
		a.gbuffer = nil
	}
	if a.swapchain != nil {
		a.swapchain.Destroy()
		a.swapchain = nil
	}
}

func (a *SwapchainArena) Swapchain() frame.Swapchain {
	if a.swapchain == nil {
		return nil
	}
	return a.swapchain
}

func (a *SwapchainArena) Extent() vk.Extent2D {
	if a.swapchain == nil {
		return vk.Extent2D{}
	}
	return a.swapchain.Extent
}

func (a *SwapchainArena) GBuffer() *GBuffer {
	return a.gbuffer
}

func (a *SwapchainArena) GeometryFramebuffer() *VulkanFramebuffer {
	return a.geometryFramebuffer
}

func (a *SwapchainArena) LightingFramebuffer(image uint32) *VulkanFramebuffer {
	return a.lightingFramebuffers[image]
}

func (a *SwapchainArena) SkyboxFramebuffer(image uint32) *VulkanFramebuffer {
	return a.skyboxFramebuffers[image]
}

func (a *SwapchainArena) Destroy() {
	a.release()
}
