package frame

import (
	"errors"
	"fmt"
	"testing"

	"github.com/spaghettifunk/deferred/engine/core"
	"github.com/spaghettifunk/deferred/engine/renderer/graph"
	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventLog struct {
	events []string
}

func (l *eventLog) add(format string, args ...interface{}) {
	l.events = append(l.events, fmt.Sprintf(format, args...))
}

func (l *eventLog) index(event string) int {
	for i, e := range l.events {
		if e == event {
			return i
		}
	}
	return -1
}

func (l *eventLog) count(event string) int {
	n := 0
	for _, e := range l.events {
		if e == event {
			n++
		}
	}
	return n
}

type fakeSemaphore struct {
	name     string
	signaled bool
}

type fakeFence struct {
	id       int
	signaled bool
	log      *eventLog
}

func (f *fakeFence) Wait(timeout uint64) error {
	f.log.add("wait:fence%d", f.id)
	if !f.signaled {
		return errors.New("deadlock: waiting on a fence nobody signals")
	}
	return nil
}

func (f *fakeFence) Reset() error {
	f.log.add("reset:fence%d", f.id)
	f.signaled = false
	return nil
}

type fakeSync struct {
	log       *eventLog
	fences    int
	destroyed int
}

func (s *fakeSync) NewSemaphore(name string) (Semaphore, error) {
	return &fakeSemaphore{name: name}, nil
}

func (s *fakeSync) NewFence(signaled bool) (Fence, error) {
	f := &fakeFence{id: s.fences, signaled: signaled, log: s.log}
	s.fences++
	return f, nil
}

func (s *fakeSync) DestroySemaphore(Semaphore) { s.destroyed++ }
func (s *fakeSync) DestroyFence(Fence)         { s.destroyed++ }

// fakeQueue completes work at submit time, which is the strongest ordering a
// real queue can offer and enough to check the handshake.
type fakeQueue struct {
	log *eventLog
}

func (q *fakeQueue) Submit(info SubmitInfo) error {
	for i, w := range info.WaitSemaphores {
		sem := w.(*fakeSemaphore)
		if !sem.signaled {
			return fmt.Errorf("submit %s waits on unsignaled %s", info.Name, sem.name)
		}
		sem.signaled = false
		q.log.add("wait:%s@%d", sem.name, info.WaitStages[i])
	}
	q.log.add("submit:%s", info.Name)
	for _, s := range info.SignalSemaphores {
		sem := s.(*fakeSemaphore)
		sem.signaled = true
		q.log.add("signal:%s", sem.name)
	}
	if info.Fence != nil {
		info.Fence.(*fakeFence).signaled = true
	}
	return nil
}

type fakeSwapchain struct {
	log        *eventLog
	images     []uint32
	next       int
	count      uint32
	acquireErr error
	presentErr error
}

func (s *fakeSwapchain) AcquireNextImage(signal Semaphore) (uint32, error) {
	if s.acquireErr != nil {
		err := s.acquireErr
		s.acquireErr = nil
		s.log.add("acquire:failed")
		return 0, err
	}
	sem := signal.(*fakeSemaphore)
	sem.signaled = true
	img := s.images[s.next%len(s.images)]
	s.next++
	s.log.add("acquire:%s:%d", sem.name, img)
	return img, nil
}

func (s *fakeSwapchain) Present(image uint32, wait Semaphore) error {
	sem := wait.(*fakeSemaphore)
	if !sem.signaled {
		return fmt.Errorf("present waits on unsignaled %s", sem.name)
	}
	sem.signaled = false
	s.log.add("present:%s:%d", sem.name, image)
	if s.presentErr != nil {
		err := s.presentErr
		s.presentErr = nil
		return err
	}
	return nil
}

func (s *fakeSwapchain) ImageCount() uint32 { return s.count }

type fakeArena struct {
	log       *eventLog
	swapchain *fakeSwapchain
	rebuilds  int
	booting   int
}

func (a *fakeArena) Rebuild() error {
	if a.booting > 0 {
		a.booting--
		a.log.add("rebuild:booting")
		return core.ErrSwapchainBooting
	}
	a.rebuilds++
	a.log.add("rebuild")
	return nil
}

func (a *fakeArena) Swapchain() Swapchain { return a.swapchain }

type fakeRecorder struct {
	log  *eventLog
	fail string
}

func (r *fakeRecorder) Record(sub graph.Submission, frame *Frame, image uint32) (CommandBuffer, error) {
	if sub.Name == r.fail {
		return nil, errors.New("record failed")
	}
	r.log.add("record:%s:%d:%d", sub.Name, frame.Index, image)
	return sub.Name, nil
}

type fakeDevice struct {
	log *eventLog
}

func (d *fakeDevice) WaitIdle() error {
	d.log.add("wait_idle")
	return nil
}

type harness struct {
	log       *eventLog
	sync      *fakeSync
	swapchain *fakeSwapchain
	arena     *fakeArena
	recorder  *fakeRecorder
	prepared  []int
	o         *Orchestrator
}

func newHarness(t *testing.T, framesInFlight int, withSkybox bool) *harness {
	t.Helper()
	g, err := graph.NewDeferredGraph(withSkybox)
	require.NoError(t, err)
	plan, err := g.Compile()
	require.NoError(t, err)

	log := &eventLog{}
	h := &harness{log: log}
	h.sync = &fakeSync{log: log}
	h.swapchain = &fakeSwapchain{log: log, images: []uint32{0, 1, 2}, count: 3}
	h.arena = &fakeArena{log: log, swapchain: h.swapchain}
	h.recorder = &fakeRecorder{log: log}

	h.o, err = New(Options{
		FramesInFlight: framesInFlight,
		Plan:           plan,
		Device:         &fakeDevice{log: log},
		Queue:          &fakeQueue{log: log},
		Sync:           h.sync,
		Recorder:       h.recorder,
		Arena:          h.arena,
		Prepare: func(frame *Frame, image uint32) error {
			h.prepared = append(h.prepared, frame.Index)
			return nil
		},
	})
	require.NoError(t, err)
	return h
}

func TestGeometrySubmittedBeforeLighting(t *testing.T) {
	h := newHarness(t, 2, true)
	require.NoError(t, h.o.DrawFrame())

	geom := h.log.index("submit:" + graph.SubmissionGeometry)
	light := h.log.index("submit:" + graph.SubmissionLighting)
	require.NotEqual(t, -1, geom)
	require.NotEqual(t, -1, light)
	assert.Less(t, geom, light)
	// the geometry submission carries no semaphores
	assert.Equal(t, "record:lighting:0:0", h.log.events[geom+1])
}

func TestRenderFinishedSignalledBeforePresent(t *testing.T) {
	h := newHarness(t, 2, false)
	require.NoError(t, h.o.DrawFrame())

	signal := h.log.index("signal:render_finished[0]")
	present := h.log.index("present:render_finished[0]:0")
	require.NotEqual(t, -1, signal)
	require.NotEqual(t, -1, present)
	assert.Less(t, signal, present)

	// lighting waits on the acquire semaphore at colour attachment output
	wait := h.log.index(fmt.Sprintf("wait:image_available[0]@%d", metadata.PipelineStageColorAttachmentOutput))
	assert.Less(t, h.log.index("acquire:image_available[0]:0"), wait)
	assert.Less(t, wait, h.log.index("submit:lighting"))
}

func TestFrameRingRotates(t *testing.T) {
	h := newHarness(t, 2, false)
	for i := 0; i < 4; i++ {
		require.NoError(t, h.o.DrawFrame())
	}
	assert.Equal(t, []int{0, 1, 0, 1}, h.prepared)
	assert.Equal(t, uint64(4), h.o.FramesDrawn())
	assert.Equal(t, 0, h.o.CurrentFrame())
	assert.Equal(t, 2, h.log.count("present:render_finished[1]:1")+h.log.count("present:render_finished[1]:0"))
}

func TestSingleFrameInFlight(t *testing.T) {
	h := newHarness(t, 1, false)
	require.NoError(t, h.o.DrawFrame())
	require.NoError(t, h.o.DrawFrame())
	assert.Equal(t, []int{0, 0}, h.prepared)
}

func TestImageInFlightWaitsOwningFence(t *testing.T) {
	h := newHarness(t, 2, false)
	// both slots receive image 0
	h.swapchain.images = []uint32{0}

	require.NoError(t, h.o.DrawFrame())
	h.log.events = nil
	require.NoError(t, h.o.DrawFrame())

	// slot 1 waits its own fence, then the fence of slot 0 that owns image 0
	assert.Equal(t, []string{"wait:fence1", "acquire:image_available[1]:0", "wait:fence0"}, h.log.events[:3])
}

func TestFenceResetOnlyBeforePresentingSubmit(t *testing.T) {
	h := newHarness(t, 1, false)
	h.recorder.fail = graph.SubmissionLighting

	assert.Error(t, h.o.DrawFrame())
	assert.Equal(t, -1, h.log.index("reset:fence0"))

	// the slot fence is still signalled, the next frame does not deadlock
	h.recorder.fail = ""
	h.log.events = nil
	require.NoError(t, h.o.DrawFrame())
	reset := h.log.index("reset:fence0")
	assert.Less(t, h.log.index("submit:geometry"), reset)
	assert.Less(t, reset, h.log.index("submit:lighting"))
}

func TestFailedFrameRecyclesAcquireSemaphore(t *testing.T) {
	h := newHarness(t, 1, false)
	slot := h.o.Frames()[0]
	acquired := slot.ImageAvailable.(*fakeSemaphore)
	h.recorder.fail = graph.SubmissionLighting

	assert.Error(t, h.o.DrawFrame())
	// the acquire signalled it and nothing waited, so it can't be reused
	assert.True(t, acquired.signaled)
	assert.Nil(t, slot.ImageAvailable)
	assert.Equal(t, 1, h.sync.destroyed)

	h.recorder.fail = ""
	require.NoError(t, h.o.DrawFrame())
	fresh, ok := slot.ImageAvailable.(*fakeSemaphore)
	require.True(t, ok)
	assert.NotSame(t, acquired, fresh)
	assert.False(t, fresh.signaled)
	assert.Equal(t, uint64(1), h.o.FramesDrawn())
}

func TestFailedPrepareRecyclesAcquireSemaphore(t *testing.T) {
	h := newHarness(t, 2, false)
	h.o.prepare = func(*Frame, uint32) error { return errors.New("uniforms unavailable") }

	assert.Error(t, h.o.DrawFrame())
	assert.Nil(t, h.o.Frames()[0].ImageAvailable)
	assert.Equal(t, -1, h.log.index("submit:geometry"))
}

func TestAcquireOutOfDateRebuildsNextFrame(t *testing.T) {
	h := newHarness(t, 2, false)
	h.swapchain.acquireErr = fmt.Errorf("acquire: %w", core.ErrSwapchainOutOfDate)

	require.NoError(t, h.o.DrawFrame())
	assert.Equal(t, -1, h.log.index("submit:geometry"))
	assert.Zero(t, h.arena.rebuilds)
	assert.Zero(t, h.o.FramesDrawn())

	require.NoError(t, h.o.DrawFrame())
	assert.Equal(t, 1, h.arena.rebuilds)
	assert.Less(t, h.log.index("wait_idle"), h.log.index("rebuild"))
	assert.Less(t, h.log.index("rebuild"), h.log.index("submit:geometry"))
	assert.Equal(t, uint64(1), h.o.FramesDrawn())
}

func TestPresentOutOfDateRebuildsNextFrame(t *testing.T) {
	h := newHarness(t, 2, false)
	h.swapchain.presentErr = core.ErrSwapchainOutOfDate

	require.NoError(t, h.o.DrawFrame())
	assert.Equal(t, uint64(1), h.o.FramesDrawn())
	require.NoError(t, h.o.DrawFrame())
	assert.Equal(t, 1, h.arena.rebuilds)
}

func TestResizeRebuildsOncePerGeneration(t *testing.T) {
	h := newHarness(t, 2, false)
	h.o.Resize()
	h.o.Resize()

	require.NoError(t, h.o.DrawFrame())
	require.NoError(t, h.o.DrawFrame())
	assert.Equal(t, 1, h.arena.rebuilds)
}

func TestBootingSwapchainKeepsRequestPending(t *testing.T) {
	h := newHarness(t, 2, false)
	h.arena.booting = 2
	h.o.Resize()

	require.NoError(t, h.o.DrawFrame())
	require.NoError(t, h.o.DrawFrame())
	assert.Zero(t, h.o.FramesDrawn())
	assert.Equal(t, -1, h.log.index("submit:geometry"))

	require.NoError(t, h.o.DrawFrame())
	assert.Equal(t, 1, h.arena.rebuilds)
	assert.Equal(t, uint64(1), h.o.FramesDrawn())
}

func TestBakeRunsOnceSubmissionsAndWaits(t *testing.T) {
	h := newHarness(t, 2, true)
	require.NoError(t, h.o.Bake())

	bake := h.log.index("submit:" + graph.SubmissionBake)
	require.NotEqual(t, -1, bake)
	assert.Less(t, bake, h.log.index("wait_idle"))

	require.NoError(t, h.o.DrawFrame())
	assert.Equal(t, 1, h.log.count("submit:"+graph.SubmissionBake))
}

func TestNewRejectsInvalidFrameCount(t *testing.T) {
	g, err := graph.NewDeferredGraph(false)
	require.NoError(t, err)
	plan, err := g.Compile()
	require.NoError(t, err)

	_, err = New(Options{FramesInFlight: 4, Plan: plan})
	assert.ErrorIs(t, err, core.ErrInvalidConfig)

	_, err = New(Options{FramesInFlight: 2})
	assert.Error(t, err)
}

func TestDestroyReleasesSyncObjects(t *testing.T) {
	h := newHarness(t, 3, false)
	h.o.Destroy()
	assert.Equal(t, 9, h.sync.destroyed)
	assert.Equal(t, "wait_idle", h.log.events[len(h.log.events)-1])
}
