package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spaghettifunk/deferred/engine/core"
	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
)

const spirvMagic uint32 = 0x07230203

type ShaderLoader struct{}

// Load reads a compiled SPIR-V module named `<program>.<stage>.spv`.
func (sl *ShaderLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	words, err := DecodeSPIRV(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), ".spv")
	return &metadata.Resource{
		Name:     name,
		FullPath: path,
		Type:     metadata.ResourceTypeShader,
		DataSize: uint64(len(data)),
		Data: &metadata.ShaderData{
			Stage: stageFromName(name),
			Code:  data,
			Words: words,
		},
	}, nil
}

func (sl *ShaderLoader) Unload(r *metadata.Resource) error {
	r.Data = nil
	return nil
}

// DecodeSPIRV checks the module header and returns its words.
func DecodeSPIRV(data []byte) ([]uint32, error) {
	if len(data) < 20 {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the module header", core.ErrInvalidShaderBinary, len(data))
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("%w: size %d is not a multiple of 4", core.ErrInvalidShaderBinary, len(data))
	}
	words := BytesToBytecode(data)
	if words[0] != spirvMagic {
		return nil, fmt.Errorf("%w: bad magic number 0x%08x", core.ErrInvalidShaderBinary, words[0])
	}
	return words, nil
}

func stageFromName(name string) metadata.ShaderStage {
	switch filepath.Ext(name) {
	case ".vert":
		return metadata.ShaderStageVertex
	case ".frag":
		return metadata.ShaderStageFragment
	}
	return 0
}
