package assets

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spaghettifunk/deferred/engine/core"
	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func spirv() []byte {
	out := []byte{}
	for _, w := range []uint32{0x07230203, 0x00010000, 0, 1, 0} {
		out = binary.LittleEndian.AppendUint32(out, w)
	}
	return out
}

func newManager(t *testing.T) (*AssetManager, string) {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "shaders", "geom.vert.spv"), spirv())
	writeFile(t, filepath.Join(dir, "meshes", "tri.ply"), []byte("element vertex 1\nend_header\n0 0 0 0 1 0 0 0\n"))
	writeFile(t, filepath.Join(dir, "README.md"), []byte("ignored"))

	am, err := NewAssetManager()
	require.NoError(t, err)
	require.NoError(t, am.Initialize(dir))
	t.Cleanup(func() { am.Shutdown() })
	return am, dir
}

func TestInitializeIndexesKnownTypes(t *testing.T) {
	am, _ := newManager(t)

	names := []string{}
	for _, a := range am.Assets() {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"meshes/tri.ply", "shaders/geom.vert.spv"}, names)

	info, ok := am.Asset("shaders/geom.vert.spv")
	require.True(t, ok)
	assert.Equal(t, metadata.ResourceTypeShader, info.Type)
}

func TestLoadAsset(t *testing.T) {
	am, _ := newManager(t)

	res, err := am.LoadAsset("geom.vert", metadata.ResourceTypeShader, nil)
	require.NoError(t, err)
	assert.Equal(t, metadata.ShaderStageVertex, res.Data.(*metadata.ShaderData).Stage)

	res, err = am.LoadAsset("tri", metadata.ResourceTypeMesh, nil)
	require.NoError(t, err)
	assert.Len(t, res.Data.(*metadata.Mesh).Vertices, 1)
	require.NoError(t, am.UnloadAsset(res))

	info, _ := am.Asset("meshes/tri.ply")
	assert.False(t, info.LastLoaded.IsZero())

	_, err = am.LoadAsset("missing", metadata.ResourceTypeMesh, nil)
	assert.ErrorIs(t, err, core.ErrUnknownAsset)

	res, err = am.LoadAsset("meshes/tri.ply", metadata.ResourceTypeBinary, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Data.([]byte))
}

func TestWatcherReportsChanges(t *testing.T) {
	require.True(t, core.EventSystemInitialize())
	t.Cleanup(func() { core.EventSystemShutdown() })

	am, dir := newManager(t)

	var changed atomic.Value
	core.EventRegister(core.EVENT_CODE_ASSET_CHANGED, t, func(ctx core.EventContext) bool {
		changed.Store(ctx.Data.(core.AssetEvent).Name)
		return true
	})

	writeFile(t, filepath.Join(dir, "shaders", "geom.vert.spv"), spirv())
	assert.Eventually(t, func() bool {
		return changed.Load() == "shaders/geom.vert.spv"
	}, 2*time.Second, 10*time.Millisecond)

	writeFile(t, filepath.Join(dir, "shaders", "lighting.frag.spv"), spirv())
	assert.Eventually(t, func() bool {
		_, ok := am.Asset("shaders/lighting.frag.spv")
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.Remove(filepath.Join(dir, "meshes", "tri.ply")))
	assert.Eventually(t, func() bool {
		_, ok := am.Asset("meshes/tri.ply")
		return !ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestShutdownIsIdempotent(t *testing.T) {
	am, err := NewAssetManager()
	require.NoError(t, err)
	require.NoError(t, am.Shutdown())
	require.NoError(t, am.Shutdown())
	assert.ErrorIs(t, am.Initialize(t.TempDir()), ErrManagerClosed)
}
