package vulkan

import (
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/deferred/engine/core"
	"github.com/spaghettifunk/deferred/engine/renderer/frame"
)

// VulkanQueue submits recorded command buffers to one device queue. Access
// is serialized per queue family through the lock pool.
type VulkanQueue struct {
	Handle      vk.Queue
	FamilyIndex uint32
}

func NewGraphicsQueue(context *VulkanContext) *VulkanQueue {
	return &VulkanQueue{
		Handle:      context.Device.GraphicsQueue,
		FamilyIndex: context.Device.GraphicsQueueIndex,
	}
}

func (q *VulkanQueue) Submit(info frame.SubmitInfo) error {
	commandBuffers := make([]vk.CommandBuffer, 0, len(info.CommandBuffers))
	recorded := make([]*VulkanCommandBuffer, 0, len(info.CommandBuffers))
	for _, cb := range info.CommandBuffers {
		if vcb, ok := cb.(*VulkanCommandBuffer); ok {
			commandBuffers = append(commandBuffers, vcb.Handle)
			recorded = append(recorded, vcb)
		}
	}
	waitSemaphores := semaphoreHandles(info.WaitSemaphores)
	signalSemaphores := semaphoreHandles(info.SignalSemaphores)
	waitStages := make([]vk.PipelineStageFlags, len(info.WaitStages))
	for i, stage := range info.WaitStages {
		waitStages[i] = vkPipelineStage(stage)
	}

	submitInfo := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		CommandBufferCount:   uint32(len(commandBuffers)),
		PCommandBuffers:      commandBuffers,
		WaitSemaphoreCount:   uint32(len(waitSemaphores)),
		PWaitSemaphores:      waitSemaphores,
		PWaitDstStageMask:    waitStages,
		SignalSemaphoreCount: uint32(len(signalSemaphores)),
		PSignalSemaphores:    signalSemaphores,
	}

	fence := vk.NullFence
	if vf, ok := info.Fence.(*VulkanFence); ok && vf != nil {
		fence = vf.Handle
	}

	err := lockPool.SafeQueueCall(q.FamilyIndex, func() error {
		if res := vk.QueueSubmit(q.Handle, 1, []vk.SubmitInfo{submitInfo}, fence); res != vk.Success {
			return vulkanError(res, "queue submit of `%s` failed", info.Name)
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, cb := range recorded {
		cb.UpdateSubmitted()
	}
	core.LogDebug("Submitted `%s` with %d command buffers.", info.Name, len(commandBuffers))
	return nil
}

// WaitIdle blocks until the queue has drained. Used by single-use uploads.
func (q *VulkanQueue) WaitIdle() error {
	return lockPool.SafeQueueCall(q.FamilyIndex, func() error {
		if res := vk.QueueWaitIdle(q.Handle); res != vk.Success {
			return vulkanError(res, "queue wait idle failed")
		}
		return nil
	})
}
