package vulkan

import (
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/deferred/engine/core"
	"github.com/spaghettifunk/deferred/engine/renderer/frame"
)

type VulkanSemaphore struct {
	Name   string
	Handle vk.Semaphore
}

// VulkanSync creates the per-slot semaphores and fences for the frame
// orchestrator.
type VulkanSync struct {
	context *VulkanContext
}

func NewVulkanSync(context *VulkanContext) *VulkanSync {
	return &VulkanSync{context: context}
}

func (s *VulkanSync) NewSemaphore(name string) (frame.Semaphore, error) {
	info := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}
	var handle vk.Semaphore
	err := lockPool.SafeCall(SynchronizationManagement, func() error {
		if res := vk.CreateSemaphore(s.context.Device.LogicalDevice, &info, s.context.Allocator, &handle); res != vk.Success {
			return vulkanError(res, "failed to create semaphore `%s`", name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	core.LogDebug("Semaphore `%s` created.", name)
	return &VulkanSemaphore{Name: name, Handle: handle}, nil
}

func (s *VulkanSync) NewFence(signaled bool) (frame.Fence, error) {
	var fence *VulkanFence
	err := lockPool.SafeCall(SynchronizationManagement, func() error {
		var err error
		fence, err = NewFence(s.context, signaled)
		return err
	})
	if err != nil {
		return nil, err
	}
	return fence, nil
}

func (s *VulkanSync) DestroySemaphore(sem frame.Semaphore) {
	vs, ok := sem.(*VulkanSemaphore)
	if !ok || vs.Handle == vk.NullSemaphore {
		return
	}
	_ = lockPool.SafeCall(SynchronizationManagement, func() error {
		vk.DestroySemaphore(s.context.Device.LogicalDevice, vs.Handle, s.context.Allocator)
		vs.Handle = vk.NullSemaphore
		return nil
	})
}

func (s *VulkanSync) DestroyFence(f frame.Fence) {
	vf, ok := f.(*VulkanFence)
	if !ok {
		return
	}
	_ = lockPool.SafeCall(SynchronizationManagement, func() error {
		vf.Destroy()
		return nil
	})
}

func semaphoreHandles(list []frame.Semaphore) []vk.Semaphore {
	handles := make([]vk.Semaphore, 0, len(list))
	for _, s := range list {
		if vs, ok := s.(*VulkanSemaphore); ok {
			handles = append(handles, vs.Handle)
		}
	}
	return handles
}
