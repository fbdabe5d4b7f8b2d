package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/deferred/engine/core"
	"github.com/spaghettifunk/deferred/engine/renderer/buffers"
	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
)

type VulkanBuffer struct {
	Handle   vk.Buffer
	Memory   vk.DeviceMemory
	Usage    metadata.BufferUsage
	Locality metadata.MemoryLocality
	size     uint64
}

func (b *VulkanBuffer) Size() uint64 {
	return b.size
}

// VulkanAllocator creates buffers bound to their own allocation. It is the
// Vulkan side of buffers.Allocator.
type VulkanAllocator struct {
	context *VulkanContext
}

func NewVulkanAllocator(context *VulkanContext) *VulkanAllocator {
	return &VulkanAllocator{context: context}
}

func (a *VulkanAllocator) CreateBuffer(size uint64, usage metadata.BufferUsage, locality metadata.MemoryLocality) (buffers.Buffer, error) {
	return a.createBuffer(size, usage, locality)
}

func (a *VulkanAllocator) createBuffer(size uint64, usage metadata.BufferUsage, locality metadata.MemoryLocality) (*VulkanBuffer, error) {
	device := a.context.Device.LogicalDevice
	buffer := &VulkanBuffer{Usage: usage, Locality: locality, size: size}

	err := lockPool.SafeCall(BufferManagement, func() error {
		createInfo := vk.BufferCreateInfo{
			SType:       vk.StructureTypeBufferCreateInfo,
			Size:        vk.DeviceSize(size),
			Usage:       vk.BufferUsageFlags(usage),
			SharingMode: vk.SharingModeExclusive,
		}
		var handle vk.Buffer
		if res := vk.CreateBuffer(device, &createInfo, a.context.Allocator, &handle); res != vk.Success {
			return vulkanError(res, "failed to create %s buffer of %d bytes", locality, size)
		}
		buffer.Handle = handle

		var requirements vk.MemoryRequirements
		vk.GetBufferMemoryRequirements(device, handle, &requirements)
		requirements.Deref()

		memory, err := a.context.allocate(requirements, locality.Properties())
		if err != nil {
			vk.DestroyBuffer(device, handle, a.context.Allocator)
			return err
		}
		buffer.Memory = memory

		if res := vk.BindBufferMemory(device, handle, memory, 0); res != vk.Success {
			vk.FreeMemory(device, memory, a.context.Allocator)
			vk.DestroyBuffer(device, handle, a.context.Allocator)
			return vulkanError(res, "failed to bind buffer memory")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return buffer, nil
}

func (a *VulkanAllocator) DestroyBuffer(b buffers.Buffer) {
	vb, ok := b.(*VulkanBuffer)
	if !ok || vb == nil {
		return
	}
	device := a.context.Device.LogicalDevice
	_ = lockPool.SafeCall(BufferManagement, func() error {
		if vb.Handle != vk.NullBuffer {
			vk.DestroyBuffer(device, vb.Handle, a.context.Allocator)
			vb.Handle = vk.NullBuffer
		}
		if vb.Memory != vk.NullDeviceMemory {
			vk.FreeMemory(device, vb.Memory, a.context.Allocator)
			vb.Memory = vk.NullDeviceMemory
		}
		return nil
	})
	vb.size = 0
}

func (a *VulkanAllocator) Upload(b buffers.Buffer, data []byte) error {
	vb, ok := b.(*VulkanBuffer)
	if !ok {
		return fmt.Errorf("%w: upload target is not a Vulkan buffer", core.ErrUnknown)
	}
	if vb.Locality != metadata.MemoryLocalityHostCoherent {
		return fmt.Errorf("cannot map a %s buffer", vb.Locality)
	}
	if uint64(len(data)) > vb.size {
		return fmt.Errorf("upload of %d bytes does not fit a %d byte buffer", len(data), vb.size)
	}

	device := a.context.Device.LogicalDevice
	var pData unsafe.Pointer
	if res := vk.MapMemory(device, vb.Memory, 0, vk.DeviceSize(len(data)), 0, &pData); res != vk.Success {
		return vulkanError(res, "failed to map buffer memory")
	}
	vk.Memcopy(pData, data)
	vk.UnmapMemory(device, vb.Memory)
	return nil
}

func (a *VulkanAllocator) CopyBuffer(src, dst buffers.Buffer, size uint64) error {
	vsrc, ok := src.(*VulkanBuffer)
	vdst, ok2 := dst.(*VulkanBuffer)
	if !ok || !ok2 {
		return fmt.Errorf("%w: copy between non Vulkan buffers", core.ErrUnknown)
	}
	return SingleUse(a.context, func(cb *VulkanCommandBuffer) error {
		region := vk.BufferCopy{
			SrcOffset: 0,
			DstOffset: 0,
			Size:      vk.DeviceSize(size),
		}
		vk.CmdCopyBuffer(cb.Handle, vsrc.Handle, vdst.Handle, 1, []vk.BufferCopy{region})
		return nil
	})
}

// handle returns the Vulkan buffer behind an upload buffer.
func handle(b buffers.UploadBuffer) vk.Buffer {
	if vb, ok := b.Buffer().(*VulkanBuffer); ok && vb != nil {
		return vb.Handle
	}
	return vk.NullBuffer
}
