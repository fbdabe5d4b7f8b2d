package metadata

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/deferred/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniformBlockSizes(t *testing.T) {
	assert.Equal(t, 192, binary.Size(GeneralRenderUniforms{}))
	assert.Equal(t, 16, binary.Size(PointLight{}))
	assert.Equal(t, 16*MaxPointLights+16, binary.Size(Lights{}))
	assert.Equal(t, 128, binary.Size(SkyboxUniforms{}))
	assert.Equal(t, int(CubemapPushConstantSize), binary.Size(CubemapPushConstants{}))
	assert.Equal(t, int(VertexStride), binary.Size(Vertex{}))
}

func TestLightsStd140Layout(t *testing.T) {
	var lights Lights
	require.NoError(t, lights.Add(PointLight{Position: mgl32.Vec3{-2, 5, 0}, Intensity: 3}))

	b := lights.Bytes()
	require.Len(t, b, 272)
	assert.Equal(t, float32(-2), math.Float32frombits(binary.LittleEndian.Uint32(b[0:])))
	assert.Equal(t, float32(5), math.Float32frombits(binary.LittleEndian.Uint32(b[4:])))
	assert.Equal(t, float32(3), math.Float32frombits(binary.LittleEndian.Uint32(b[12:])))
	// count sits after the array
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(b[16*MaxPointLights:]))
}

func TestLightsAddRejectsOverflow(t *testing.T) {
	var lights Lights
	for i := 0; i < MaxPointLights; i++ {
		require.NoError(t, lights.Add(PointLight{Intensity: 1}))
	}
	assert.ErrorIs(t, lights.Add(PointLight{}), core.ErrTooManyLights)
	assert.Equal(t, uint32(MaxPointLights), lights.Count)
}

func TestGeneralUniformsColumnMajor(t *testing.T) {
	u := GeneralRenderUniforms{
		Model:      mgl32.Translate3D(1, 2, 3),
		View:       mgl32.Ident4(),
		Projection: mgl32.Ident4(),
	}
	b := u.Bytes()
	require.Len(t, b, 192)
	// translation lives in the fourth column
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(b[48:])))
	assert.Equal(t, float32(3), math.Float32frombits(binary.LittleEndian.Uint32(b[56:])))
}

func TestSkyboxUniformsDropTranslation(t *testing.T) {
	view := mgl32.LookAtV(mgl32.Vec3{4, 5, 6}, mgl32.Vec3{4, 5, 5}, mgl32.Vec3{0, 1, 0})
	sky := NewSkyboxUniforms(view, mgl32.Ident4())
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, sky.View.Col(3).Vec3())
	assert.Equal(t, float32(1), sky.View.At(3, 3))
}
