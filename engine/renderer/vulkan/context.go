package vulkan

import (
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/deferred/engine/core"
	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
)

var lockPool = NewVulkanLockPool()

// VulkanContext holds the objects that live as long as the renderer: the
// instance, the surface and the device.
type VulkanContext struct {
	Instance  vk.Instance
	Allocator *vk.AllocationCallbacks
	Surface   vk.Surface

	debugMessenger vk.DebugReportCallback

	Device *VulkanDevice

	// The framebuffer's current size, updated from the resize event.
	FramebufferWidth  uint32
	FramebufferHeight uint32
}

// MemoryTypes copies the device memory type table into the renderer
// agnostic form used by metadata.FindMemoryType.
func (vc *VulkanContext) MemoryTypes() []metadata.MemoryType {
	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(vc.Device.PhysicalDevice, &memoryProperties)
	memoryProperties.Deref()

	types := make([]metadata.MemoryType, memoryProperties.MemoryTypeCount)
	for i := range types {
		memoryProperties.MemoryTypes[i].Deref()
		types[i] = metadata.MemoryType{
			PropertyFlags: metadata.MemoryProperty(memoryProperties.MemoryTypes[i].PropertyFlags),
			HeapIndex:     memoryProperties.MemoryTypes[i].HeapIndex,
		}
	}
	return types
}

func (vc *VulkanContext) FindMemoryIndex(typeFilter uint32, required metadata.MemoryProperty) (uint32, error) {
	index, err := metadata.FindMemoryType(vc.MemoryTypes(), typeFilter, required)
	if err != nil {
		core.LogWarn("Unable to find suitable memory type!")
		return 0, err
	}
	return index, nil
}

// allocate selects a memory type for the requirements and allocates it.
func (vc *VulkanContext) allocate(requirements vk.MemoryRequirements, required metadata.MemoryProperty) (vk.DeviceMemory, error) {
	index, err := vc.FindMemoryIndex(requirements.MemoryTypeBits, required)
	if err != nil {
		return nil, err
	}
	allocateInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  requirements.Size,
		MemoryTypeIndex: index,
	}
	var memory vk.DeviceMemory
	if res := vk.AllocateMemory(vc.Device.LogicalDevice, &allocateInfo, vc.Allocator, &memory); res != vk.Success {
		return nil, vulkanError(res, "failed to allocate %d bytes of device memory", requirements.Size)
	}
	return memory, nil
}
