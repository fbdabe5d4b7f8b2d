package frame

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/spaghettifunk/deferred/engine/core"
	"github.com/spaghettifunk/deferred/engine/renderer/graph"
	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
)

const (
	MinFramesInFlight     = 1
	MaxFramesInFlight     = 3
	DefaultFramesInFlight = 2
)

// Frame is one slot of the frames in flight ring.
type Frame struct {
	Index          int
	ImageAvailable Semaphore
	RenderFinished Semaphore
	InFlight       Fence
}

// PrepareFunc runs after the slot fence is waited and before recording, the
// place to fill per-slot uniform buffers.
type PrepareFunc func(frame *Frame, image uint32) error

type Options struct {
	FramesInFlight int
	Plan           *graph.Plan
	Device         Device
	Queue          Queue
	Sync           SyncFactory
	Recorder       Recorder
	Arena          Arena
	Prepare        PrepareFunc
}

type Orchestrator struct {
	plan     *graph.Plan
	device   Device
	queue    Queue
	sync     SyncFactory
	recorder Recorder
	arena    Arena
	prepare  PrepareFunc

	frames         []*Frame
	current        int
	imagesInFlight []Fence

	requested atomic.Uint64
	built     uint64
	drawn     uint64
}

func New(opts Options) (*Orchestrator, error) {
	if opts.FramesInFlight == 0 {
		opts.FramesInFlight = DefaultFramesInFlight
	}
	if opts.FramesInFlight < MinFramesInFlight || opts.FramesInFlight > MaxFramesInFlight {
		return nil, fmt.Errorf("%w: frames in flight must be between %d and %d, got %d",
			core.ErrInvalidConfig, MinFramesInFlight, MaxFramesInFlight, opts.FramesInFlight)
	}
	if opts.Plan == nil {
		return nil, errors.New("frame orchestrator requires a compiled plan")
	}
	if _, ok := opts.Plan.PresentSubmission(); !ok {
		return nil, graph.ErrNoPresentPass
	}

	o := &Orchestrator{
		plan:     opts.Plan,
		device:   opts.Device,
		queue:    opts.Queue,
		sync:     opts.Sync,
		recorder: opts.Recorder,
		arena:    opts.Arena,
		prepare:  opts.Prepare,
	}

	for i := 0; i < opts.FramesInFlight; i++ {
		f := &Frame{Index: i}
		o.frames = append(o.frames, f)
		var err error
		if f.ImageAvailable, err = o.sync.NewSemaphore(imageAvailableName(i)); err != nil {
			o.Destroy()
			return nil, err
		}
		if f.RenderFinished, err = o.sync.NewSemaphore(fmt.Sprintf("render_finished[%d]", i)); err != nil {
			o.Destroy()
			return nil, err
		}
		// signalled so the first wait on every slot returns immediately
		if f.InFlight, err = o.sync.NewFence(true); err != nil {
			o.Destroy()
			return nil, err
		}
	}
	o.resetImages()

	core.LogDebug("frame orchestrator ready with %d frames in flight, plan %s", opts.FramesInFlight, opts.Plan.ID)
	return o, nil
}

func (o *Orchestrator) resetImages() {
	count := uint32(0)
	if sc := o.arena.Swapchain(); sc != nil {
		count = sc.ImageCount()
	}
	o.imagesInFlight = make([]Fence, count)
}

// Resize records that the surface changed. It is safe to call from window
// callbacks, the rebuild happens at the start of the next DrawFrame.
func (o *Orchestrator) Resize() {
	o.requested.Add(1)
}

// Bake submits every run-once submission and waits for the device to finish.
func (o *Orchestrator) Bake() error {
	if len(o.plan.OnceSubmissions) == 0 {
		return nil
	}
	frame := o.frames[0]
	for _, sub := range o.plan.OnceSubmissions {
		cmd, err := o.recorder.Record(sub, frame, 0)
		if err != nil {
			return fmt.Errorf("failed to record `%s`: %w", sub.Name, err)
		}
		if err := o.queue.Submit(SubmitInfo{Name: sub.Name, CommandBuffers: []CommandBuffer{cmd}}); err != nil {
			return fmt.Errorf("failed to submit `%s`: %w", sub.Name, err)
		}
	}
	return o.device.WaitIdle()
}

// DrawFrame renders and presents one frame. A frame that hits an invalid
// swapchain is skipped after scheduling a rebuild, it is not an error.
func (o *Orchestrator) DrawFrame() error {
	if generation := o.requested.Load(); generation != o.built {
		rebuilt, err := o.rebuild(generation)
		if err != nil || !rebuilt {
			return err
		}
	}

	frame := o.frames[o.current]
	if err := frame.InFlight.Wait(math.MaxUint64); err != nil {
		return fmt.Errorf("failed waiting for frame %d: %w", frame.Index, err)
	}
	if frame.ImageAvailable == nil {
		sem, err := o.sync.NewSemaphore(imageAvailableName(frame.Index))
		if err != nil {
			return err
		}
		frame.ImageAvailable = sem
	}

	image, err := o.arena.Swapchain().AcquireNextImage(frame.ImageAvailable)
	if err != nil {
		if errors.Is(err, core.ErrSwapchainOutOfDate) {
			o.Resize()
			return nil
		}
		return err
	}

	if waited, err := o.submitFrame(frame, image); err != nil {
		if !waited {
			o.recycleImageAvailable(frame)
		}
		return err
	}

	if err := o.arena.Swapchain().Present(image, frame.RenderFinished); err != nil {
		if !errors.Is(err, core.ErrSwapchainOutOfDate) {
			return err
		}
		o.Resize()
	}

	o.current = (o.current + 1) % len(o.frames)
	o.drawn++
	return nil
}

// submitFrame records and submits the frame submissions. waited reports
// whether the presenting submission, the one consuming ImageAvailable, reached
// the queue.
func (o *Orchestrator) submitFrame(frame *Frame, image uint32) (waited bool, err error) {
	// another slot may still be rendering into this image
	if int(image) < len(o.imagesInFlight) {
		if owner := o.imagesInFlight[image]; owner != nil && owner != frame.InFlight {
			if err := owner.Wait(math.MaxUint64); err != nil {
				return false, fmt.Errorf("failed waiting for image %d: %w", image, err)
			}
		}
		o.imagesInFlight[image] = frame.InFlight
	}

	if o.prepare != nil {
		if err := o.prepare(frame, image); err != nil {
			return false, err
		}
	}

	for _, sub := range o.plan.Submissions {
		cmd, err := o.recorder.Record(sub, frame, image)
		if err != nil {
			return false, fmt.Errorf("failed to record `%s`: %w", sub.Name, err)
		}
		info := SubmitInfo{Name: sub.Name, CommandBuffers: []CommandBuffer{cmd}}
		if sub.Presents {
			info.WaitSemaphores = []Semaphore{frame.ImageAvailable}
			info.WaitStages = []metadata.PipelineStage{metadata.PipelineStageColorAttachmentOutput}
			info.SignalSemaphores = []Semaphore{frame.RenderFinished}
			info.Fence = frame.InFlight
			// reset only when a submission that signals it follows
			if err := frame.InFlight.Reset(); err != nil {
				return false, err
			}
		}
		if err := o.queue.Submit(info); err != nil {
			return false, fmt.Errorf("failed to submit `%s`: %w", sub.Name, err)
		}
		waited = waited || sub.Presents
	}
	return waited, nil
}

// recycleImageAvailable drops a semaphore left signalled by an acquire that no
// submission waited on. A signalled semaphore can't be handed to the next
// acquire, the slot gets a fresh one on its next frame.
func (o *Orchestrator) recycleImageAvailable(frame *Frame) {
	if frame.ImageAvailable == nil {
		return
	}
	if o.device != nil {
		if err := o.device.WaitIdle(); err != nil {
			core.LogWarn("device wait idle failed while recycling %s: %s", imageAvailableName(frame.Index), err)
		}
	}
	o.sync.DestroySemaphore(frame.ImageAvailable)
	frame.ImageAvailable = nil
}

func imageAvailableName(index int) string {
	return fmt.Sprintf("image_available[%d]", index)
}

func (o *Orchestrator) rebuild(generation uint64) (bool, error) {
	if err := o.device.WaitIdle(); err != nil {
		return false, err
	}
	if err := o.arena.Rebuild(); err != nil {
		if errors.Is(err, core.ErrSwapchainBooting) {
			// keep the request pending until the surface has an area again
			return false, nil
		}
		return false, err
	}
	o.built = generation
	o.resetImages()
	core.LogDebug("swapchain rebuilt for generation %d", generation)
	return true, nil
}

// Frames returns the slots of the ring, for per-slot resource setup.
func (o *Orchestrator) Frames() []*Frame {
	return o.frames
}

func (o *Orchestrator) CurrentFrame() int {
	return o.current
}

// FramesDrawn counts the presented frames.
func (o *Orchestrator) FramesDrawn() uint64 {
	return o.drawn
}

// Destroy waits for the device and releases the synchronization objects.
func (o *Orchestrator) Destroy() {
	if o.device != nil {
		if err := o.device.WaitIdle(); err != nil {
			core.LogWarn("device wait idle failed during shutdown: %s", err)
		}
	}
	for _, f := range o.frames {
		if f.ImageAvailable != nil {
			o.sync.DestroySemaphore(f.ImageAvailable)
		}
		if f.RenderFinished != nil {
			o.sync.DestroySemaphore(f.RenderFinished)
		}
		if f.InFlight != nil {
			o.sync.DestroyFence(f.InFlight)
		}
	}
	o.frames = nil
	o.imagesInFlight = nil
}
