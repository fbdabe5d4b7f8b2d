package engine

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spaghettifunk/deferred/engine/assets"
	"github.com/spaghettifunk/deferred/engine/core"
	"github.com/spaghettifunk/deferred/engine/renderer"
	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trianglePLY = `ply
format ascii 1.0
element vertex 3
property float x
property float y
property float z
property float nx
property float ny
property float nz
property float s
property float t
element face 1
property list uchar uint vertex_indices
end_header
0 0 0 0 0 1 0 0
1 0 0 0 0 1 1 0
0 1 0 0 0 1 0 1
3 0 1 2
`

type fakeWindow struct {
	pumps    int
	onPump   func(pump int) bool
	started  bool
	closed   bool
	shutdown bool
}

func (w *fakeWindow) Startup(name string, x, y, width, height uint32) error {
	w.started = true
	return nil
}

func (w *fakeWindow) Shutdown() error {
	w.shutdown = true
	return nil
}

func (w *fakeWindow) PumpMessages() bool {
	w.pumps++
	open := w.onPump(w.pumps)
	return open && !w.closed
}

func (w *fakeWindow) WaitMessages() {}

func (w *fakeWindow) Close() {
	w.closed = true
}

func (w *fakeWindow) FramebufferSize() (uint32, uint32) {
	return 1280, 720
}

type fakeBackend struct {
	mu       sync.Mutex
	scene    *metadata.SceneData
	packets  []*metadata.FramePacket
	resizes  [][2]uint32
	reloads  int
	shutdown bool
}

var _ renderer.RendererBackend = (*fakeBackend)(nil)

func (b *fakeBackend) Initialize(appName string, width, height uint32) error { return nil }

func (b *fakeBackend) LoadScene(scene *metadata.SceneData) error {
	b.scene = scene
	return nil
}

func (b *fakeBackend) Resized(width, height uint32) error {
	b.resizes = append(b.resizes, [2]uint32{width, height})
	return nil
}

func (b *fakeBackend) DrawFrame(packet *metadata.FramePacket) error {
	b.packets = append(b.packets, packet)
	return nil
}

func (b *fakeBackend) ReloadShaders() error {
	b.reloads++
	return nil
}

func (b *fakeBackend) FramesDrawn() uint64 {
	return uint64(len(b.packets))
}

func (b *fakeBackend) Shutdown() error {
	b.shutdown = true
	return nil
}

func newTestEngine(t *testing.T, onPump func(pump int) bool) (*Engine, *fakeWindow, *fakeBackend) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "meshes"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "meshes", "tri.ply"), []byte(trianglePLY), 0o644))

	cfg := DefaultConfig()
	cfg.Application.AssetsDir = dir
	cfg.Renderer.Skybox = false
	cfg.Scene.Mesh = "tri"

	window := &fakeWindow{onPump: onPump}
	backend := &fakeBackend{}
	e, err := New(cfg, window, func(rc RendererConfig, am *assets.AssetManager) renderer.RendererBackend {
		return backend
	})
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	t.Cleanup(func() { _ = e.Shutdown() })
	return e, window, backend
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Renderer.FramesInFlight = 7
	e, err := New(cfg, &fakeWindow{}, nil)
	assert.Nil(t, e)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestEngineInitializeLoadsScene(t *testing.T) {
	e, window, backend := newTestEngine(t, func(int) bool { return false })

	assert.Equal(t, EngineStageInitialized, e.Stage())
	assert.True(t, window.started)
	require.NotNil(t, backend.scene)
	require.NotNil(t, backend.scene.Mesh)
	assert.Len(t, backend.scene.Mesh.Vertices, 3)
	assert.Equal(t, []uint32{0, 1, 2}, backend.scene.Mesh.Indices)
	assert.Nil(t, backend.scene.Environment)
}

func TestEngineRunDrawsUntilWindowCloses(t *testing.T) {
	e, window, backend := newTestEngine(t, func(pump int) bool { return pump <= 3 })

	require.NoError(t, e.Run())
	assert.Len(t, backend.packets, 3)
	for _, p := range backend.packets {
		assert.Equal(t, uint32(1), p.Lights.Count)
	}

	require.NoError(t, e.Shutdown())
	assert.Equal(t, EngineStageShutdown, e.Stage())
	assert.True(t, backend.shutdown)
	assert.True(t, window.shutdown)
}

func TestEngineEscapeStopsTheLoop(t *testing.T) {
	e, window, backend := newTestEngine(t, func(pump int) bool {
		if pump == 2 {
			core.EventFire(core.EventContext{
				Type: core.EVENT_CODE_KEY_PRESSED,
				Data: &core.KeyEvent{KeyCode: core.KEY_ESCAPE},
			})
		}
		return true
	})

	require.NoError(t, e.Run())
	assert.True(t, window.closed)
	// the frame that saw the key closes the window before drawing
	assert.Len(t, backend.packets, 1)
}

func TestEngineStopFromAnotherGoroutine(t *testing.T) {
	var e *Engine
	e, _, backend := newTestEngine(t, func(pump int) bool {
		if pump == 4 {
			done := make(chan struct{})
			go func() {
				e.Stop()
				close(done)
			}()
			<-done
		}
		return true
	})

	require.NoError(t, e.Run())
	assert.Len(t, backend.packets, 4)
}

func TestEngineResizeAndMinimise(t *testing.T) {
	e, _, backend := newTestEngine(t, func(pump int) bool {
		switch pump {
		case 1:
			core.EventFire(core.EventContext{Type: core.EVENT_CODE_RESIZED, Data: &core.SystemEvent{WindowWidth: 0, WindowHeight: 0}})
		case 3:
			core.EventFire(core.EventContext{Type: core.EVENT_CODE_RESIZED, Data: &core.SystemEvent{WindowWidth: 800, WindowHeight: 600}})
		}
		return pump <= 4
	})

	require.NoError(t, e.Run())
	// pumps 1 and 2 happen while minimised
	assert.Len(t, backend.packets, 2)
	assert.Equal(t, [][2]uint32{{800, 600}}, backend.resizes)
	w, h := e.GetFramebufferSize()
	assert.Equal(t, uint32(800), w)
	assert.Equal(t, uint32(600), h)
	assert.InDelta(t, 800.0/600.0, e.camera.Aspect, 1e-5)
}

func TestEngineReloadsShadersOnChange(t *testing.T) {
	e, _, backend := newTestEngine(t, func(pump int) bool {
		switch pump {
		case 1:
			core.EventFire(core.EventContext{Type: core.EVENT_CODE_ASSET_CHANGED, Data: core.AssetEvent{Name: "meshes/tri.ply"}})
		case 2:
			core.EventFire(core.EventContext{Type: core.EVENT_CODE_ASSET_CHANGED, Data: core.AssetEvent{Name: "shaders/geom.frag.spv"}})
		}
		return pump <= 3
	})

	require.NoError(t, e.Run())
	assert.Equal(t, 1, backend.reloads)
	assert.Len(t, backend.packets, 3)
}
