package buffers

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/deferred/engine/core"
	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBuffer struct {
	id       int
	size     uint64
	usage    metadata.BufferUsage
	locality metadata.MemoryLocality
	data     []byte
}

func (b *fakeBuffer) Size() uint64 { return b.size }

type fakeAllocator struct {
	nextID    int
	live      map[int]*fakeBuffer
	created   int
	destroyed int
	uploads   int
	copies    int
	failAfter int
}

func newFakeAllocator() *fakeAllocator {
	return &fakeAllocator{live: map[int]*fakeBuffer{}, failAfter: -1}
}

func (a *fakeAllocator) CreateBuffer(size uint64, usage metadata.BufferUsage, locality metadata.MemoryLocality) (Buffer, error) {
	if a.failAfter == 0 {
		return nil, core.ErrNoSuitableMemoryType
	}
	if a.failAfter > 0 {
		a.failAfter--
	}
	a.nextID++
	a.created++
	b := &fakeBuffer{id: a.nextID, size: size, usage: usage, locality: locality}
	a.live[b.id] = b
	return b, nil
}

func (a *fakeAllocator) DestroyBuffer(b Buffer) {
	a.destroyed++
	delete(a.live, b.(*fakeBuffer).id)
}

func (a *fakeAllocator) Upload(b Buffer, data []byte) error {
	fb := b.(*fakeBuffer)
	if fb.locality != metadata.MemoryLocalityHostCoherent {
		return errors.New("upload to device local memory")
	}
	a.uploads++
	fb.data = append([]byte(nil), data...)
	return nil
}

func (a *fakeAllocator) CopyBuffer(src, dst Buffer, size uint64) error {
	a.copies++
	dst.(*fakeBuffer).data = append([]byte(nil), src.(*fakeBuffer).data[:size]...)
	return nil
}

func TestDeviceLocalFillSameSizeDoesNotReallocate(t *testing.T) {
	alloc := newFakeAllocator()
	b := NewDeviceLocalBuffer(alloc, metadata.BufferUsageVertex)

	require.NoError(t, b.Fill(make([]byte, 64), 64))
	assert.Equal(t, 2, alloc.created)
	first := b.Buffer()

	require.NoError(t, b.Fill(make([]byte, 64), 64))
	assert.Equal(t, 2, alloc.created)
	assert.Same(t, first, b.Buffer())
	assert.Equal(t, 2, alloc.copies)
}

func TestDeviceLocalFillResizesExactly(t *testing.T) {
	alloc := newFakeAllocator()
	b := NewDeviceLocalBuffer(alloc, metadata.BufferUsageIndex)

	require.NoError(t, b.Fill(make([]byte, 64), 64))
	require.NoError(t, b.Fill(make([]byte, 128), 128))
	assert.Equal(t, uint64(128), b.Size())
	assert.Equal(t, uint64(128), b.Buffer().Size())
	assert.Equal(t, 2, alloc.destroyed)
	assert.Len(t, alloc.live, 2)

	// shrinking reallocates too, there is no growth strategy
	require.NoError(t, b.Fill(make([]byte, 32), 32))
	assert.Equal(t, uint64(32), b.Buffer().Size())
	assert.Equal(t, 6, alloc.created)
}

func TestDeviceLocalFillStagesData(t *testing.T) {
	alloc := newFakeAllocator()
	b := NewDeviceLocalBuffer(alloc, metadata.BufferUsageVertex)

	data := []byte{1, 2, 3, 4, 5, 6}
	require.NoError(t, b.Fill(data, 4))

	dst := b.Buffer().(*fakeBuffer)
	assert.Equal(t, []byte{1, 2, 3, 4}, dst.data)
	assert.Equal(t, metadata.MemoryLocalityDeviceLocal, dst.locality)
	assert.Equal(t, metadata.BufferUsageVertex|metadata.BufferUsageTransferDst, dst.usage)
}

func TestHostCoherentFill(t *testing.T) {
	alloc := newFakeAllocator()
	b := NewHostCoherentBuffer(alloc, metadata.BufferUsageUniform)

	require.NoError(t, b.Fill([]byte{9, 9}, 2))
	require.NoError(t, b.Fill([]byte{7, 7}, 2))
	assert.Equal(t, 1, alloc.created)
	assert.Equal(t, 2, alloc.uploads)
	assert.Zero(t, alloc.copies)
	assert.Equal(t, []byte{7, 7}, b.Buffer().(*fakeBuffer).data)

	require.NoError(t, b.Fill(make([]byte, 8), 8))
	assert.Equal(t, 2, alloc.created)
	assert.Equal(t, uint64(8), b.Buffer().Size())
}

func TestFillRejectsBadSizes(t *testing.T) {
	alloc := newFakeAllocator()
	for _, b := range []UploadBuffer{
		NewDeviceLocalBuffer(alloc, metadata.BufferUsageVertex),
		NewHostCoherentBuffer(alloc, metadata.BufferUsageUniform),
	} {
		assert.ErrorIs(t, b.Fill(nil, 0), core.ErrEmptyFill)
		assert.ErrorIs(t, b.Fill([]byte{1}, 2), core.ErrShortFill)
	}
	assert.Zero(t, alloc.created)
}

func TestDestroyReleasesEverything(t *testing.T) {
	alloc := newFakeAllocator()
	b := NewDeviceLocalBuffer(alloc, metadata.BufferUsageVertex)
	require.NoError(t, b.Fill(make([]byte, 16), 16))

	b.Destroy()
	assert.Empty(t, alloc.live)
	assert.Zero(t, b.Size())
	assert.Nil(t, b.Buffer())

	// destroying twice is a no-op
	b.Destroy()
	assert.Equal(t, 2, alloc.destroyed)
}

func TestDeviceLocalCreateFailureLeaksNothing(t *testing.T) {
	alloc := newFakeAllocator()
	alloc.failAfter = 1
	b := NewDeviceLocalBuffer(alloc, metadata.BufferUsageVertex)

	err := b.Fill(make([]byte, 16), 16)
	assert.ErrorIs(t, err, core.ErrNoSuitableMemoryType)
	assert.Empty(t, alloc.live)
	assert.Zero(t, b.Size())
}
