package engine

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/deferred/engine/components"
	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
)

// Scene is the animated state that changes between frames: the model spin
// and the light set. The mesh itself is uploaded once by the renderer.
type Scene struct {
	// Degrees around +Y, kept in [0, 360).
	Rotation      float32
	RotationSpeed float32
	Lights        metadata.Lights
}

func NewScene(cfg SceneConfig) (*Scene, error) {
	s := &Scene{RotationSpeed: cfg.ModelRotationSpeed}
	for _, l := range cfg.Lights {
		light := metadata.PointLight{
			Position:  mgl32.Vec3{l.Position[0], l.Position[1], l.Position[2]},
			Intensity: l.Intensity,
		}
		if err := s.Lights.Add(light); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Scene) Update(deltaTime float64) {
	angle := math.Mod(float64(s.Rotation)+float64(s.RotationSpeed)*deltaTime, 360)
	if angle < 0 {
		angle += 360
	}
	s.Rotation = float32(angle)
}

func (s *Scene) Model() mgl32.Mat4 {
	return mgl32.HomogRotate3DY(mgl32.DegToRad(s.Rotation))
}

// Packet snapshots the scene as seen from the camera.
func (s *Scene) Packet(deltaTime float64, camera *components.FlyCamera) *metadata.FramePacket {
	view := camera.View()
	projection := camera.Projection()
	return &metadata.FramePacket{
		DeltaTime: deltaTime,
		Uniforms: metadata.GeneralRenderUniforms{
			Model:      s.Model(),
			View:       view,
			Projection: projection,
		},
		Lights: s.Lights,
		Skybox: metadata.NewSkyboxUniforms(view, projection),
	}
}
