package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/deferred/engine/assets"
	"github.com/spaghettifunk/deferred/engine/assets/loaders"
	"github.com/spaghettifunk/deferred/engine/components"
	"github.com/spaghettifunk/deferred/engine/core"
	"github.com/spaghettifunk/deferred/engine/renderer"
	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
	"github.com/spaghettifunk/deferred/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Engine released every subsystem
	EngineStageShutdown
)

// largest side kept when decoding the equirectangular environment
const maxEnvironmentDimension uint32 = 4096

// Window is the platform layer as seen by the main loop.
type Window interface {
	Startup(applicationName string, x, y, width, height uint32) error
	Shutdown() error
	PumpMessages() bool
	WaitMessages()
	Close()
	FramebufferSize() (uint32, uint32)
}

// BackendFactory builds the GPU backend once the asset manager is indexed,
// shaders are resolved through it.
type BackendFactory func(cfg RendererConfig, assets *assets.AssetManager) renderer.RendererBackend

type Engine struct {
	currentStage Stage
	config       *Config
	window       Window
	newBackend   BackendFactory
	assetManager *assets.AssetManager
	renderer     *renderer.Renderer
	jobs         *systems.JobSystem
	camera       *components.FlyCamera
	scene        *Scene
	clock        *core.Clock
	metrics      *core.Metrics
	lastTime     float64
	isSuspended  bool
	width        uint32
	height       uint32

	// written from other goroutines: signal handler and asset watcher
	stopRequested atomic.Bool
	shadersDirty  atomic.Bool
}

func New(cfg *Config, window Window, newBackend BackendFactory) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	am, err := assets.NewAssetManager()
	if err != nil {
		core.LogError("%s", err)
		return nil, err
	}
	scene, err := NewScene(cfg.Scene)
	if err != nil {
		return nil, err
	}

	camera := components.NewFlyCamera(
		mgl32.Vec3{cfg.Camera.Position[0], cfg.Camera.Position[1], cfg.Camera.Position[2]},
		float32(cfg.Application.StartWidth)/float32(cfg.Application.StartHeight),
	)
	camera.Yaw = cfg.Camera.Yaw
	camera.Pitch = cfg.Camera.Pitch
	camera.Speed = cfg.Camera.Speed
	camera.Fov = cfg.Camera.Fov

	return &Engine{
		currentStage: EngineStageUninitialized,
		config:       cfg,
		window:       window,
		newBackend:   newBackend,
		assetManager: am,
		camera:       camera,
		scene:        scene,
		clock:        core.NewClock(),
		metrics:      core.NewMetrics(),
		width:        cfg.Application.StartWidth,
		height:       cfg.Application.StartHeight,
	}, nil
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageUninitialized {
		return fmt.Errorf("engine initialized twice")
	}
	e.currentStage = EngineStageInitializing
	app := e.config.Application

	level, err := core.ParseLogLevel(app.LogLevel)
	if err != nil {
		return err
	}
	if err := core.SetLogLevel(level); err != nil {
		return err
	}

	if err := core.InputInitialize(); err != nil {
		return err
	}
	if !core.EventSystemInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}
	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	core.EventRegister(core.EVENT_CODE_KEY_PRESSED, e, e.onKey)
	core.EventRegister(core.EVENT_CODE_RESIZED, e, e.onResized)
	core.EventRegister(core.EVENT_CODE_ASSET_CHANGED, e, e.onAssetChanged)

	if err := e.window.Startup(app.Name, app.StartPosX, app.StartPosY, app.StartWidth, app.StartHeight); err != nil {
		return err
	}
	// the framebuffer can differ from the requested size on HiDPI screens
	if w, h := e.window.FramebufferSize(); w > 0 && h > 0 {
		e.width, e.height = w, h
		e.camera.SetAspect(w, h)
	}

	assetsDir := app.AssetsDir
	if !filepath.IsAbs(assetsDir) {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		assetsDir = filepath.Join(wd, assetsDir)
	}
	if err := e.assetManager.Initialize(assetsDir); err != nil {
		return err
	}

	jobs, err := systems.NewJobSystem(runtime.NumCPU(), 8)
	if err != nil {
		return err
	}
	e.jobs = jobs

	e.renderer = renderer.New(e.newBackend(e.config.Renderer, e.assetManager))
	if err := e.renderer.Initialize(app.Name, e.width, e.height); err != nil {
		return err
	}

	scene, err := e.loadSceneData()
	if err != nil {
		return err
	}
	if err := e.renderer.LoadScene(scene); err != nil {
		return err
	}

	e.currentStage = EngineStageInitialized
	core.LogInfo("Engine initialized.")
	return nil
}

// loadSceneData decodes the mesh and the environment image in parallel.
func (e *Engine) loadSceneData() (*metadata.SceneData, error) {
	scene := &metadata.SceneData{}
	jobs := []systems.Job{
		{
			Name: "mesh",
			Run: func() error {
				res, err := e.assetManager.LoadAsset(e.config.Scene.Mesh, metadata.ResourceTypeMesh, nil)
				if err != nil {
					return err
				}
				scene.Mesh = res.Data.(*metadata.Mesh)
				return nil
			},
		},
	}
	if e.config.Renderer.Skybox {
		jobs = append(jobs, systems.Job{
			Name: "environment",
			Run: func() error {
				res, err := e.assetManager.LoadAsset(e.config.Renderer.Environment, metadata.ResourceTypeImage, &loaders.ImageParams{
					MaxDimension: maxEnvironmentDimension,
				})
				if err != nil {
					return err
				}
				scene.Environment = res.Data.(*metadata.ImageData)
				return nil
			},
		})
	}
	if err := e.jobs.RunAll(jobs...); err != nil {
		return nil, fmt.Errorf("failed to load the scene: %w", err)
	}
	core.LogInfo("Scene loaded: mesh `%s` with %d vertices and %d indices.", scene.Mesh.Name, len(scene.Mesh.Vertices), len(scene.Mesh.Indices))
	return scene, nil
}

func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine must be initialized before running")
	}
	e.currentStage = EngineStageRunning

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	for !e.stopRequested.Load() {
		if !e.window.PumpMessages() {
			break
		}
		if e.isSuspended {
			// nothing to present to, sleep until the window comes back
			e.window.WaitMessages()
			e.clock.Update()
			e.lastTime = e.clock.Elapsed()
			continue
		}

		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime

		if err := e.update(delta); err != nil {
			return err
		}
		if err := e.renderer.DrawFrame(e.scene.Packet(delta, e.camera)); err != nil {
			core.LogError("Frame failed, shutting down: %s", err)
			return err
		}

		e.clock.Update()
		e.metrics.Update(e.clock.Elapsed() - currentTime)
		if frames, fps, ok := e.metrics.Report(); ok {
			core.LogInfo("Rendered %d frames in 10 seconds. FPS: %.2f", frames, fps)
		}

		// Input state copying must happen after every read of this frame.
		if err := core.InputUpdate(delta); err != nil {
			return err
		}
		e.lastTime = currentTime
	}
	return nil
}

func (e *Engine) update(delta float64) error {
	if e.shadersDirty.CompareAndSwap(true, false) {
		core.LogInfo("Shader binaries changed, reloading pipelines.")
		if err := e.renderer.ReloadShaders(); err != nil {
			// the old pipelines keep drawing
			core.LogWarn("Shader reload failed: %s", err)
		}
	}
	e.camera.Update(float32(delta), cameraInput())
	e.scene.Update(delta)
	return nil
}

func cameraInput() components.CameraInput {
	x, y := core.InputGetMousePosition()
	px, py := core.InputGetPreviousMousePosition()
	return components.CameraInput{
		Forward:  core.InputIsKeyDown(core.KEY_W),
		Backward: core.InputIsKeyDown(core.KEY_S),
		Left:     core.InputIsKeyDown(core.KEY_A),
		Right:    core.InputIsKeyDown(core.KEY_D),
		Up:       core.InputIsKeyDown(core.KEY_SPACE),
		Down:     core.InputIsKeyDown(core.KEY_LSHIFT),
		Look:     core.InputIsButtonDown(core.BUTTON_RIGHT),
		MouseDX:  float32(x - px),
		MouseDY:  float32(y - py),
	}
}

// Stop asks the main loop to exit after the current frame. Safe to call
// from any goroutine.
func (e *Engine) Stop() {
	e.stopRequested.Store(true)
}

func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShutdown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown

	var errs []error
	if e.renderer != nil {
		core.LogInfo("Renderer drew %d frames.", e.renderer.FramesDrawn())
		errs = append(errs, e.renderer.Shutdown())
	}
	if e.jobs != nil {
		errs = append(errs, e.jobs.Shutdown())
	}
	errs = append(errs,
		e.assetManager.Shutdown(),
		e.window.Shutdown(),
		core.EventSystemShutdown(),
		core.InputShutdown(),
	)

	e.currentStage = EngineStageShutdown
	return errors.Join(errs...)
}

// GetFramebufferSize returns the width and height (in this order) of the
// last known framebuffer.
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) onEvent(context core.EventContext) bool {
	if context.Type == core.EVENT_CODE_APPLICATION_QUIT {
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.window.Close()
		e.Stop()
		return true
	}
	return false
}

func (e *Engine) onKey(context core.EventContext) bool {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	if ke.KeyCode == core.KEY_ESCAPE {
		// NOTE: Technically firing an event to itself, but there may be other listeners.
		core.EventFire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
		return true
	}
	return false
}

func (e *Engine) onResized(context core.EventContext) bool {
	se, ok := context.Data.(*core.SystemEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	width, height := se.WindowWidth, se.WindowHeight
	if width == e.width && height == e.height {
		return false
	}
	e.width, e.height = width, height
	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return true
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	e.camera.SetAspect(width, height)
	if e.renderer != nil {
		if err := e.renderer.OnResize(width, height); err != nil {
			core.LogError("%s", err)
		}
	}
	return true
}

func (e *Engine) onAssetChanged(context core.EventContext) bool {
	ae, ok := context.Data.(core.AssetEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	if strings.HasSuffix(ae.Name, ".spv") {
		e.shadersDirty.Store(true)
	}
	return false
}
