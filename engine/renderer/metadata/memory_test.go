package metadata

import (
	"testing"

	"github.com/spaghettifunk/deferred/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMemoryTypeFirstMatch(t *testing.T) {
	types := []MemoryType{
		{PropertyFlags: MemoryPropertyHostVisible},
		{PropertyFlags: MemoryPropertyDeviceLocal},
		{PropertyFlags: MemoryPropertyHostVisible | MemoryPropertyHostCoherent},
		{PropertyFlags: MemoryPropertyDeviceLocal | MemoryPropertyHostVisible},
	}

	idx, err := FindMemoryType(types, 0b1111, MemoryPropertyDeviceLocal)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), idx)

	// filter excludes the first device local type
	idx, err = FindMemoryType(types, 0b1000, MemoryPropertyDeviceLocal)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), idx)

	idx, err = FindMemoryType(types, 0b1111, MemoryLocalityHostCoherent.Properties())
	require.NoError(t, err)
	assert.Equal(t, uint32(2), idx)
}

func TestFindMemoryTypeDeterministic(t *testing.T) {
	types := []MemoryType{
		{PropertyFlags: MemoryPropertyDeviceLocal},
		{PropertyFlags: MemoryPropertyDeviceLocal},
	}
	for i := 0; i < 10; i++ {
		idx, err := FindMemoryType(types, 0b11, MemoryPropertyDeviceLocal)
		require.NoError(t, err)
		assert.Equal(t, uint32(0), idx)
	}
}

func TestFindMemoryTypeNoMatch(t *testing.T) {
	types := []MemoryType{{PropertyFlags: MemoryPropertyDeviceLocal}}
	_, err := FindMemoryType(types, 0b1, MemoryPropertyHostVisible)
	assert.ErrorIs(t, err, core.ErrNoSuitableMemoryType)

	_, err = FindMemoryType(types, 0, MemoryPropertyDeviceLocal)
	assert.ErrorIs(t, err, core.ErrNoSuitableMemoryType)
}

func TestMemoryLocalityProperties(t *testing.T) {
	assert.Equal(t, MemoryPropertyDeviceLocal, MemoryLocalityDeviceLocal.Properties())
	assert.Equal(t, MemoryPropertyHostVisible|MemoryPropertyHostCoherent, MemoryLocalityHostCoherent.Properties())
}
