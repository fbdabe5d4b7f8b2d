package metadata

import "github.com/go-gl/mathgl/mgl32"

const CubemapFaceCount = 6

// Face size of the baked environment cubemap in pixels.
const DefaultCubemapSize uint32 = 512

/** @brief Push constant block of the bake pass: view then projection. */
type CubemapPushConstants struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
}

const CubemapPushConstantSize uint32 = 128

func (c *CubemapPushConstants) Bytes() []byte {
	return packLittleEndian(c)
}

// CubemapProjection is the 90 degree square frustum shared by every face.
func CubemapProjection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(90), 1.0, 0.1, 10.0)
}

// CubemapFaceViews returns the view matrices for the layers +X, -X, +Y, -Y,
// +Z, -Z, looking from the origin.
func CubemapFaceViews() [CubemapFaceCount]mgl32.Mat4 {
	eye := mgl32.Vec3{0, 0, 0}
	targets := [CubemapFaceCount]mgl32.Vec3{
		{1, 0, 0}, {-1, 0, 0},
		{0, 1, 0}, {0, -1, 0},
		{0, 0, 1}, {0, 0, -1},
	}
	ups := [CubemapFaceCount]mgl32.Vec3{
		{0, -1, 0}, {0, -1, 0},
		{0, 0, 1}, {0, 0, -1},
		{0, -1, 0}, {0, -1, 0},
	}
	var views [CubemapFaceCount]mgl32.Mat4
	for i := range targets {
		views[i] = mgl32.LookAtV(eye, targets[i], ups[i])
	}
	return views
}

// CubemapPushConstantsFor builds the push constants of face i.
func CubemapPushConstantsFor(face int) CubemapPushConstants {
	views := CubemapFaceViews()
	return CubemapPushConstants{
		View:       views[face],
		Projection: CubemapProjection(),
	}
}
