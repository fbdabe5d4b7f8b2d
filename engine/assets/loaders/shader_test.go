package loaders

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/deferred/engine/core"
	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spirvModule(words ...uint32) []byte {
	out := make([]byte, 0, 4*(len(words)+5))
	for _, w := range append([]uint32{spirvMagic, 0x00010000, 0, 8, 0}, words...) {
		out = binary.LittleEndian.AppendUint32(out, w)
	}
	return out
}

func TestBytesToBytecode(t *testing.T) {
	words := BytesToBytecode([]byte{0x03, 0x02, 0x23, 0x07, 0xff, 0x00, 0x00, 0x00, 0x01})
	assert.Equal(t, []uint32{spirvMagic, 0xff}, words)
}

func TestDecodeSPIRV(t *testing.T) {
	words, err := DecodeSPIRV(spirvModule(42))
	require.NoError(t, err)
	assert.Len(t, words, 6)
	assert.Equal(t, uint32(42), words[5])

	_, err = DecodeSPIRV([]byte{1, 2, 3})
	assert.ErrorIs(t, err, core.ErrInvalidShaderBinary)

	_, err = DecodeSPIRV(append(spirvModule(), 0))
	assert.ErrorIs(t, err, core.ErrInvalidShaderBinary)

	bad := spirvModule()
	bad[0] = 0
	_, err = DecodeSPIRV(bad)
	assert.ErrorIs(t, err, core.ErrInvalidShaderBinary)
}

func TestShaderLoaderDerivesStage(t *testing.T) {
	dir := t.TempDir()
	for name, stage := range map[string]metadata.ShaderStage{
		"geom.vert.spv":     metadata.ShaderStageVertex,
		"lighting.frag.spv": metadata.ShaderStageFragment,
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, spirvModule(), 0o644))

		res, err := (&ShaderLoader{}).Load(path, metadata.ResourceTypeShader, nil)
		require.NoError(t, err)
		data := res.Data.(*metadata.ShaderData)
		assert.Equal(t, stage, data.Stage, name)
		assert.Len(t, data.Code, 20)
		assert.Len(t, data.Words, 5)
	}
}
