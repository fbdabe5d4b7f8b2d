package renderer

import (
	"errors"

	"github.com/spaghettifunk/deferred/engine/core"
	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
)

type RendererBackend interface {
	Initialize(appName string, appWidth, appHeight uint32) error
	LoadScene(scene *metadata.SceneData) error
	Resized(width, height uint32) error
	DrawFrame(packet *metadata.FramePacket) error
	ReloadShaders() error
	FramesDrawn() uint64
	Shutdown() error
}

var ErrNotInitialized = errors.New("renderer is not initialized")

// Renderer is the frontend the engine talks to. It guards the backend
// against calls outside its initialized lifetime.
type Renderer struct {
	backend     RendererBackend
	initialized bool
	sceneLoaded bool
	shutdown    bool
}

func New(backend RendererBackend) *Renderer {
	return &Renderer{backend: backend}
}

func (r *Renderer) Initialize(appName string, appWidth, appHeight uint32) error {
	if err := r.backend.Initialize(appName, appWidth, appHeight); err != nil {
		core.LogError("Renderer backend failed to initialize: %s", err)
		return err
	}
	r.initialized = true
	return nil
}

func (r *Renderer) LoadScene(scene *metadata.SceneData) error {
	if !r.initialized {
		return ErrNotInitialized
	}
	if err := r.backend.LoadScene(scene); err != nil {
		return err
	}
	r.sceneLoaded = true
	return nil
}

func (r *Renderer) OnResize(width, height uint32) error {
	if !r.initialized {
		return nil
	}
	return r.backend.Resized(width, height)
}

func (r *Renderer) DrawFrame(packet *metadata.FramePacket) error {
	if !r.initialized {
		return ErrNotInitialized
	}
	if !r.sceneLoaded {
		return errors.New("no scene loaded")
	}
	if packet == nil {
		return errors.New("nil frame packet")
	}
	if err := r.backend.DrawFrame(packet); err != nil {
		core.LogError("RendererDrawFrame failed: %s", err)
		return err
	}
	return nil
}

func (r *Renderer) ReloadShaders() error {
	if !r.initialized {
		return ErrNotInitialized
	}
	return r.backend.ReloadShaders()
}

func (r *Renderer) FramesDrawn() uint64 {
	return r.backend.FramesDrawn()
}

// Shutdown always reaches the backend once, a failed Initialize may still
// have created objects that need releasing.
func (r *Renderer) Shutdown() error {
	if r.shutdown {
		return nil
	}
	r.shutdown = true
	r.initialized = false
	r.sceneLoaded = false
	return r.backend.Shutdown()
}
