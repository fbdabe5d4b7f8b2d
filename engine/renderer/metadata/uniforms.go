package metadata

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/deferred/engine/core"
)

// MaxPointLights is compiled into the lighting shader as MAX_POINT_LIGHTS.
const MaxPointLights = 16

/** @brief Per-frame transforms of the geometry pass, three column-major matrices. */
type GeneralRenderUniforms struct {
	Model      mgl32.Mat4
	View       mgl32.Mat4
	Projection mgl32.Mat4
}

func (u *GeneralRenderUniforms) Bytes() []byte {
	return packLittleEndian(u)
}

/** @brief std140 point light, the intensity fills the vec3 padding slot. */
type PointLight struct {
	Position  mgl32.Vec3
	Intensity float32
}

/** @brief std140 light block read by the lighting pass. */
type Lights struct {
	PointLights [MaxPointLights]PointLight
	Count       uint32
	_           [3]uint32
}

// Add appends a light or fails with core.ErrTooManyLights when the block is full.
func (l *Lights) Add(light PointLight) error {
	if l.Count >= MaxPointLights {
		return fmt.Errorf("%w: at most %d point lights are supported", core.ErrTooManyLights, MaxPointLights)
	}
	l.PointLights[l.Count] = light
	l.Count++
	return nil
}

func (l *Lights) Bytes() []byte {
	return packLittleEndian(l)
}

/** @brief Skybox transforms. View has its translation removed. */
type SkyboxUniforms struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
}

func NewSkyboxUniforms(view, projection mgl32.Mat4) SkyboxUniforms {
	return SkyboxUniforms{
		View:       view.Mat3().Mat4(),
		Projection: projection,
	}
}

func (u *SkyboxUniforms) Bytes() []byte {
	return packLittleEndian(u)
}
