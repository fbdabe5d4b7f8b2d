package renderer

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	calls    []string
	initErr  error
	drawErr  error
	drawn    uint64
	lastSize [2]uint32
}

func (f *fakeBackend) Initialize(appName string, appWidth, appHeight uint32) error {
	f.calls = append(f.calls, "initialize")
	return f.initErr
}

func (f *fakeBackend) LoadScene(scene *metadata.SceneData) error {
	f.calls = append(f.calls, "load")
	return nil
}

func (f *fakeBackend) Resized(width, height uint32) error {
	f.calls = append(f.calls, "resized")
	f.lastSize = [2]uint32{width, height}
	return nil
}

func (f *fakeBackend) DrawFrame(packet *metadata.FramePacket) error {
	f.calls = append(f.calls, "draw")
	if f.drawErr != nil {
		return f.drawErr
	}
	f.drawn++
	return nil
}

func (f *fakeBackend) ReloadShaders() error {
	f.calls = append(f.calls, "reload")
	return nil
}

func (f *fakeBackend) FramesDrawn() uint64 {
	return f.drawn
}

func (f *fakeBackend) Shutdown() error {
	f.calls = append(f.calls, "shutdown")
	return nil
}

func TestRendererLifecycle(t *testing.T) {
	backend := &fakeBackend{}
	r := New(backend)

	require.NoError(t, r.Initialize("test", 800, 600))
	require.NoError(t, r.LoadScene(&metadata.SceneData{Mesh: metadata.UnitCube()}))
	require.NoError(t, r.DrawFrame(&metadata.FramePacket{DeltaTime: 0.016}))
	require.NoError(t, r.OnResize(1024, 768))
	require.NoError(t, r.ReloadShaders())
	require.NoError(t, r.Shutdown())

	assert.Equal(t, []string{"initialize", "load", "draw", "resized", "reload", "shutdown"}, backend.calls)
	assert.Equal(t, [2]uint32{1024, 768}, backend.lastSize)
	assert.Equal(t, uint64(1), r.FramesDrawn())
}

func TestRendererRejectsCallsBeforeInitialize(t *testing.T) {
	backend := &fakeBackend{}
	r := New(backend)

	assert.ErrorIs(t, r.DrawFrame(&metadata.FramePacket{}), ErrNotInitialized)
	assert.ErrorIs(t, r.LoadScene(&metadata.SceneData{}), ErrNotInitialized)
	assert.ErrorIs(t, r.ReloadShaders(), ErrNotInitialized)
	assert.NoError(t, r.OnResize(10, 10))
	assert.Empty(t, backend.calls)
}

func TestRendererShutdownAfterFailedInitialize(t *testing.T) {
	backend := &fakeBackend{initErr: errors.New("no suitable device")}
	r := New(backend)

	assert.Error(t, r.Initialize("test", 800, 600))
	require.NoError(t, r.Shutdown())
	require.NoError(t, r.Shutdown())
	// the backend releases whatever it created before failing, exactly once
	assert.Equal(t, []string{"initialize", "shutdown"}, backend.calls)
	assert.ErrorIs(t, r.DrawFrame(&metadata.FramePacket{}), ErrNotInitialized)
}

func TestRendererDrawRequiresScene(t *testing.T) {
	backend := &fakeBackend{}
	r := New(backend)
	require.NoError(t, r.Initialize("test", 800, 600))

	assert.Error(t, r.DrawFrame(&metadata.FramePacket{}))
	require.NoError(t, r.LoadScene(&metadata.SceneData{Mesh: metadata.UnitCube()}))
	assert.Error(t, r.DrawFrame(nil))
	assert.Equal(t, []string{"initialize", "load"}, backend.calls)
}

func TestRendererPropagatesErrors(t *testing.T) {
	initErr := errors.New("no device")
	r := New(&fakeBackend{initErr: initErr})
	assert.ErrorIs(t, r.Initialize("test", 800, 600), initErr)

	drawErr := errors.New("device lost")
	backend := &fakeBackend{drawErr: drawErr}
	r = New(backend)
	require.NoError(t, r.Initialize("test", 800, 600))
	require.NoError(t, r.LoadScene(&metadata.SceneData{Mesh: metadata.UnitCube()}))
	assert.ErrorIs(t, r.DrawFrame(&metadata.FramePacket{}), drawErr)
}
