package components

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/deferred/engine/core"
)

const (
	DefaultCameraSpeed float32 = 15
	DefaultCameraFov   float32 = 75
	DefaultCameraNear  float32 = 0.1
	DefaultCameraFar   float32 = 100

	// pitch is kept short of the poles so the view never degenerates
	maxPitch float32 = 89

	yawSensitivity   float32 = 3
	pitchSensitivity float32 = 4
)

var worldUp = mgl32.Vec3{0, 1, 0}

/** @brief Movement requested for one frame, usually sampled from the keyboard and mouse. */
type CameraInput struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Up       bool
	Down     bool
	// Look enables mouse look, MouseDX/MouseDY are the cursor delta in pixels.
	Look    bool
	MouseDX float32
	MouseDY float32
}

/**
 * @brief A free flying camera steered with yaw and pitch in degrees.
 */
type FlyCamera struct {
	Position mgl32.Vec3
	Yaw      float32
	Pitch    float32
	Speed    float32

	Fov    float32
	Near   float32
	Far    float32
	Aspect float32
}

func NewFlyCamera(position mgl32.Vec3, aspect float32) *FlyCamera {
	return &FlyCamera{
		Position: position,
		Speed:    DefaultCameraSpeed,
		Fov:      DefaultCameraFov,
		Near:     DefaultCameraNear,
		Far:      DefaultCameraFar,
		Aspect:   aspect,
	}
}

func (c *FlyCamera) Forward() mgl32.Vec3 {
	yaw := float64(mgl32.DegToRad(c.Yaw))
	pitch := float64(mgl32.DegToRad(c.Pitch))
	return mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
	}.Normalize()
}

func (c *FlyCamera) Right() mgl32.Vec3 {
	return c.Forward().Cross(worldUp).Normalize()
}

func (c *FlyCamera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Forward()), worldUp)
}

// Projection returns the perspective matrix with Y flipped for Vulkan clip space.
func (c *FlyCamera) Projection() mgl32.Mat4 {
	p := mgl32.Perspective(mgl32.DegToRad(c.Fov), c.Aspect, c.Near, c.Far)
	p.Set(1, 1, -p.At(1, 1))
	return p
}

func (c *FlyCamera) SetAspect(width, height uint32) {
	if width == 0 || height == 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

func (c *FlyCamera) Update(deltaTime float32, in CameraInput) {
	step := c.Speed * deltaTime
	forward, right := c.Forward(), c.Right()

	if in.Forward {
		c.Position = c.Position.Add(forward.Mul(step))
	}
	if in.Backward {
		c.Position = c.Position.Sub(forward.Mul(step))
	}
	if in.Left {
		c.Position = c.Position.Sub(right.Mul(step))
	}
	if in.Right {
		c.Position = c.Position.Add(right.Mul(step))
	}
	if in.Up {
		c.Position = c.Position.Add(worldUp.Mul(step))
	}
	if in.Down {
		c.Position = c.Position.Sub(worldUp.Mul(step))
	}

	if in.Look {
		c.Yaw += in.MouseDX / yawSensitivity
		c.Pitch = core.Clamp(c.Pitch-in.MouseDY/pitchSensitivity, -maxPitch, maxPitch)
	}
}
