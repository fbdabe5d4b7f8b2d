package metadata

import (
	"bytes"
	"encoding/binary"

	"github.com/go-gl/mathgl/mgl32"
)

/** @brief Interleaved vertex shared by the mesh, the screen quad and the unit cube. */
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

const VertexStride uint32 = 32

func MeshVertexLayout() VertexLayout {
	return VertexLayout{
		Stride: VertexStride,
		Attributes: []VertexAttribute{
			{Location: 0, Format: VertexFormatFloat3, Offset: 0},
			{Location: 1, Format: VertexFormatFloat3, Offset: 12},
			{Location: 2, Format: VertexFormatFloat2, Offset: 24},
		},
	}
}

/** @brief Indexed triangle list. */
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
}

func (m *Mesh) VertexBytes() []byte {
	return packLittleEndian(m.Vertices)
}

func (m *Mesh) IndexBytes() []byte {
	return packLittleEndian(m.Indices)
}

// ScreenQuad covers clip space as a four vertex triangle strip.
func ScreenQuad() []Vertex {
	return []Vertex{
		{Position: mgl32.Vec3{-1, -1, 0}, UV: mgl32.Vec2{0, 0}},
		{Position: mgl32.Vec3{1, -1, 0}, UV: mgl32.Vec2{1, 0}},
		{Position: mgl32.Vec3{-1, 1, 0}, UV: mgl32.Vec2{0, 1}},
		{Position: mgl32.Vec3{1, 1, 0}, UV: mgl32.Vec2{1, 1}},
	}
}

func VerticesBytes(vertices []Vertex) []byte {
	return packLittleEndian(vertices)
}

// UnitCube is the cube from -1 to 1 used by the skybox and the cubemap bake.
// Normals point outwards.
func UnitCube() *Mesh {
	faces := []struct {
		normal mgl32.Vec3
		u, v   mgl32.Vec3
	}{
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	}
	mesh := &Mesh{Name: "unit_cube"}
	for _, f := range faces {
		base := uint32(len(mesh.Vertices))
		corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
		for _, c := range corners {
			pos := f.normal.Add(f.u.Mul(c[0])).Add(f.v.Mul(c[1]))
			mesh.Vertices = append(mesh.Vertices, Vertex{
				Position: pos,
				Normal:   f.normal,
				UV:       mgl32.Vec2{(c[0] + 1) / 2, (c[1] + 1) / 2},
			})
		}
		mesh.Indices = append(mesh.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return mesh
}

func packLittleEndian(data any) []byte {
	var buf bytes.Buffer
	// only fixed size values reach here, Write cannot fail on a bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, data)
	return buf.Bytes()
}
