package engine

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/deferred/engine/components"
	"github.com/spaghettifunk/deferred/engine/core"
	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSceneCopiesLights(t *testing.T) {
	s, err := NewScene(DefaultConfig().Scene)
	require.NoError(t, err)

	require.Equal(t, uint32(1), s.Lights.Count)
	assert.Equal(t, mgl32.Vec3{-2, 5, 0}, s.Lights.PointLights[0].Position)
	assert.Equal(t, float32(3), s.Lights.PointLights[0].Intensity)
}

func TestNewSceneRejectsTooManyLights(t *testing.T) {
	cfg := DefaultConfig().Scene
	cfg.Lights = make([]LightConfig, metadata.MaxPointLights+1)

	s, err := NewScene(cfg)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, core.ErrTooManyLights)
}

func TestSceneUpdateWrapsRotation(t *testing.T) {
	s := &Scene{RotationSpeed: 90}

	s.Update(1)
	assert.InDelta(t, 90, s.Rotation, 1e-4)

	s.Update(3.5)
	assert.InDelta(t, 45, s.Rotation, 1e-4)

	s.RotationSpeed = -90
	s.Update(1)
	assert.InDelta(t, 315, s.Rotation, 1e-4)
}

func TestSceneModelRotatesAroundY(t *testing.T) {
	s := &Scene{Rotation: 90}
	x := s.Model().Mul4x1(mgl32.Vec4{1, 0, 0, 1})

	assert.InDelta(t, 0, x.X(), 1e-5)
	assert.InDelta(t, 0, x.Y(), 1e-5)
	assert.InDelta(t, -1, x.Z(), 1e-5)
}

func TestScenePacket(t *testing.T) {
	s, err := NewScene(DefaultConfig().Scene)
	require.NoError(t, err)
	camera := components.NewFlyCamera(mgl32.Vec3{0, 5, 3}, 16.0/9.0)

	p := s.Packet(0.016, camera)

	assert.Equal(t, 0.016, p.DeltaTime)
	assert.Equal(t, camera.View(), p.Uniforms.View)
	assert.Equal(t, camera.Projection(), p.Uniforms.Projection)
	assert.Equal(t, s.Model(), p.Uniforms.Model)
	assert.Equal(t, s.Lights, p.Lights)
	// the skybox drops the camera translation
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, p.Skybox.View.Col(3).Vec3())
	assert.Equal(t, camera.Projection(), p.Skybox.Projection)
}
