package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/deferred/engine"
	"github.com/spaghettifunk/deferred/engine/assets"
	"github.com/spaghettifunk/deferred/engine/core"
	"github.com/spaghettifunk/deferred/engine/platform"
	"github.com/spaghettifunk/deferred/engine/renderer"
	"github.com/spaghettifunk/deferred/engine/renderer/vulkan"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the TOML configuration")
	flag.Parse()

	cfg, err := engine.LoadConfig(*configPath)
	if err != nil {
		core.LogFatal("%s", err)
	}

	p := platform.New()
	e, err := engine.New(cfg, p, func(rc engine.RendererConfig, am *assets.AssetManager) renderer.RendererBackend {
		return vulkan.New(p, am, vulkan.Options{
			FramesInFlight: rc.FramesInFlight,
			Validation:     rc.Validation,
			VSync:          rc.VSync,
			Skybox:         rc.Skybox,
			ClearColor:     rc.ClearColor,
			CubemapSize:    rc.CubemapSize,
		})
	})
	if err != nil {
		core.LogFatal("%s", err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigCh
		core.LogInfo("received %s, stopping", sig)
		e.Stop()
	}()

	if err := e.Initialize(); err != nil {
		_ = e.Shutdown()
		core.LogFatal("%s", err)
	}

	runErr := e.Run()
	if err := e.Shutdown(); err != nil {
		core.LogError("%s", err)
	}
	if runErr != nil {
		core.LogFatal("%s", runErr)
	}
}
