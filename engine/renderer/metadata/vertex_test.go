package metadata

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestMeshVertexLayoutMatchesStruct(t *testing.T) {
	layout := MeshVertexLayout()
	assert.Equal(t, VertexStride, layout.Stride)
	assert.Equal(t, []uint32{0, 12, 24}, []uint32{layout.Attributes[0].Offset, layout.Attributes[1].Offset, layout.Attributes[2].Offset})
}

func TestMeshBytes(t *testing.T) {
	m := &Mesh{
		Vertices: []Vertex{{Position: mgl32.Vec3{1, 2, 3}}, {}},
		Indices:  []uint32{0, 1, 0},
	}
	assert.Len(t, m.VertexBytes(), 64)
	assert.Equal(t, []byte{0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0}, m.IndexBytes())
}

func TestUnitCube(t *testing.T) {
	cube := UnitCube()
	assert.Len(t, cube.Vertices, 24)
	assert.Len(t, cube.Indices, 36)
	for _, v := range cube.Vertices {
		for i := 0; i < 3; i++ {
			assert.InDelta(t, 1.0, mgl32.Abs(v.Position[i]), 1e-6)
		}
		// vertex lies on the face its normal points to
		assert.InDelta(t, 1.0, v.Position.Dot(v.Normal), 1e-6)
	}
}

func TestScreenQuadCoversClipSpace(t *testing.T) {
	quad := ScreenQuad()
	assert.Len(t, quad, 4)
	assert.Equal(t, mgl32.Vec3{-1, -1, 0}, quad[0].Position)
	assert.Equal(t, mgl32.Vec3{1, 1, 0}, quad[3].Position)
}
