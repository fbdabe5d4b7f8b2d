//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/magefile/mage/mg"
	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
)

const shadersDir = "assets/shaders"

type Build mg.Namespace

// Compiles every GLSL stage under assets/shaders to SPIR-V with glslc.
func (Build) Shaders() error {
	return buildShaders()
}

// Builds the engine binary after compiling the shaders.
func (Build) Engine() error {
	mg.Deps(Build.Shaders)
	// glfw and the Vulkan loader bindings are cgo packages
	_, err := executeCmd("go", withArgs("build", "-o", filepath.Join("bin", "deferred"), "."), withEnv("CGO_ENABLED=1"), withStream())
	return err
}

func buildShaders() error {
	sources, err := shaderSources()
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no shader sources found in %s", shadersDir)
	}
	define := fmt.Sprintf("-DMAX_POINT_LIGHTS=%d", metadata.MaxPointLights)
	for _, src := range sources {
		name := filepath.Base(src)
		// geom.vert -> geom.vert.spv, the asset manager resolves stages by this name
		if _, err := executeCmd("glslc", withArgs(define, name, "-o", name+".spv"), withDir(shadersDir), withStream()); err != nil {
			return err
		}
	}
	return nil
}

func shaderSources() ([]string, error) {
	var sources []string
	for _, pattern := range []string{"*.vert", "*.frag"} {
		matches, err := filepath.Glob(filepath.Join(shadersDir, pattern))
		if err != nil {
			return nil, err
		}
		sources = append(sources, matches...)
	}
	sort.Strings(sources)
	return sources, nil
}

// Removes the compiled SPIR-V binaries and the engine binary.
func (Build) Clean() error {
	binaries, err := filepath.Glob(filepath.Join(shadersDir, "*.spv"))
	if err != nil {
		return err
	}
	for _, b := range binaries {
		if err := os.Remove(b); err != nil {
			return err
		}
	}
	return os.RemoveAll("bin")
}
