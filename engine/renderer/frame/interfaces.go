// Package frame sequences the per-frame work of the renderer: slot fences,
// image acquisition, the submissions of the compiled frame graph and
// presentation, plus the swapchain rebuild when the surface changes.
package frame

import (
	"github.com/spaghettifunk/deferred/engine/renderer/graph"
	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
)

// Semaphore and CommandBuffer are opaque backend handles.
type Semaphore interface{}

type CommandBuffer interface{}

type Fence interface {
	// Wait blocks until the fence is signalled or timeout nanoseconds pass.
	Wait(timeout uint64) error
	Reset() error
}

type SubmitInfo struct {
	Name             string
	CommandBuffers   []CommandBuffer
	WaitSemaphores   []Semaphore
	WaitStages       []metadata.PipelineStage
	SignalSemaphores []Semaphore
	Fence            Fence
}

type Queue interface {
	Submit(info SubmitInfo) error
}

type Device interface {
	WaitIdle() error
}

type Swapchain interface {
	// AcquireNextImage blocks until an image is available and signals the
	// semaphore. An invalid swapchain wraps core.ErrSwapchainOutOfDate.
	AcquireNextImage(signal Semaphore) (uint32, error)
	// Present queues the image once wait is signalled. A stale or suboptimal
	// swapchain wraps core.ErrSwapchainOutOfDate.
	Present(image uint32, wait Semaphore) error
	ImageCount() uint32
}

type SyncFactory interface {
	NewSemaphore(name string) (Semaphore, error)
	NewFence(signaled bool) (Fence, error)
	DestroySemaphore(s Semaphore)
	DestroyFence(f Fence)
}

// Recorder records one submission of the plan into a command buffer owned by
// the frame slot.
type Recorder interface {
	Record(submission graph.Submission, frame *Frame, image uint32) (CommandBuffer, error)
}

// Arena owns every resource sized by the swapchain extent. Rebuild replaces
// all of them at once and wraps core.ErrSwapchainBooting while the surface
// has no area.
type Arena interface {
	Rebuild() error
	Swapchain() Swapchain
}
