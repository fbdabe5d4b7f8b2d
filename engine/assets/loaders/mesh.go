package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/deferred/engine/core"
	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
)

const (
	// floats per vertex line: position, normal, uv
	plyVertexFields = 8
	// the header count is untrusted, larger meshes grow through append
	maxPreallocVertices = 1 << 16
)

type MeshLoader struct{}

func (ml *MeshLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mesh, err := ParsePLY(f)
	if err != nil {
		err = fmt.Errorf("%s: %w", path, err)
		core.LogError("%s", err)
		return nil, err
	}
	mesh.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	return &metadata.Resource{
		Name:     mesh.Name,
		FullPath: path,
		Type:     metadata.ResourceTypeMesh,
		DataSize: uint64(len(mesh.Vertices))*uint64(metadata.VertexStride) + uint64(len(mesh.Indices))*4,
		Data:     mesh,
	}, nil
}

func (ml *MeshLoader) Unload(r *metadata.Resource) error {
	r.Data = nil
	return nil
}

// ParsePLY reads the ASCII PLY subset written by the asset exporter: a header
// declaring `element vertex N`, N lines of position/normal/uv and triangle faces.
// Any error discards the whole mesh.
func ParsePLY(r io.Reader) (*metadata.Mesh, error) {
	scanner := bufio.NewScanner(r)
	line := 0
	next := func() ([]string, bool) {
		for scanner.Scan() {
			line++
			if tokens := strings.Fields(scanner.Text()); len(tokens) > 0 {
				return tokens, true
			}
		}
		return nil, false
	}

	var vertexCount uint64
	headerDone := false
	for !headerDone {
		tokens, ok := next()
		if !ok {
			break
		}
		switch {
		case tokens[0] == "end_header":
			headerDone = true
		case len(tokens) == 3 && tokens[0] == "element" && tokens[1] == "vertex":
			n, err := strconv.ParseUint(tokens[2], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: bad vertex count `%s`", core.ErrMalformedMesh, line, tokens[2])
			}
			vertexCount = n
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !headerDone {
		return nil, fmt.Errorf("%w: missing end_header", core.ErrMalformedMesh)
	}
	if vertexCount == 0 {
		return nil, fmt.Errorf("%w: header did not contain a vertex count", core.ErrMalformedMesh)
	}

	mesh := &metadata.Mesh{Vertices: make([]metadata.Vertex, 0, min(vertexCount, maxPreallocVertices))}
	for uint64(len(mesh.Vertices)) < vertexCount {
		tokens, ok := next()
		if !ok {
			return nil, fmt.Errorf("%w: expected %d vertices, found %d", core.ErrMalformedMesh, vertexCount, len(mesh.Vertices))
		}
		if len(tokens) < plyVertexFields {
			return nil, fmt.Errorf("%w: line %d: vertex has %d values, need %d", core.ErrMalformedMesh, line, len(tokens), plyVertexFields)
		}
		var v [plyVertexFields]float32
		for i := range v {
			f, err := strconv.ParseFloat(tokens[i], 32)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: bad number `%s`", core.ErrMalformedMesh, line, tokens[i])
			}
			v[i] = float32(f)
		}
		mesh.Vertices = append(mesh.Vertices, metadata.Vertex{
			Position: mgl32.Vec3{v[0], v[1], v[2]},
			Normal:   mgl32.Vec3{v[3], v[4], v[5]},
			UV:       mgl32.Vec2{v[6], v[7]},
		})
	}

	for {
		tokens, ok := next()
		if !ok {
			break
		}
		count, err := strconv.Atoi(tokens[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad face size `%s`", core.ErrMalformedMesh, line, tokens[0])
		}
		if count != 3 {
			return nil, fmt.Errorf("%w: can't load faces with %d vertices", core.ErrMalformedMesh, count)
		}
		if len(tokens) < 4 {
			return nil, fmt.Errorf("%w: line %d: face lists %d indices", core.ErrMalformedMesh, line, len(tokens)-1)
		}
		for _, tok := range tokens[1:4] {
			idx, err := strconv.ParseUint(tok, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: bad index `%s`", core.ErrMalformedMesh, line, tok)
			}
			if idx >= vertexCount {
				return nil, fmt.Errorf("%w: line %d: index %d out of range", core.ErrMalformedMesh, line, idx)
			}
			mesh.Indices = append(mesh.Indices, uint32(idx))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return mesh, nil
}
