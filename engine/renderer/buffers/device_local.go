package buffers

import (
	"fmt"

	"github.com/spaghettifunk/deferred/engine/core"
	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
)

// DeviceLocalBuffer keeps its data in device local memory and stages every
// fill through a host coherent buffer of the same size.
type DeviceLocalBuffer struct {
	allocator Allocator
	usage     metadata.BufferUsage
	buffer    Buffer
	staging   Buffer
	size      uint64
}

func NewDeviceLocalBuffer(allocator Allocator, usage metadata.BufferUsage) *DeviceLocalBuffer {
	return &DeviceLocalBuffer{
		allocator: allocator,
		usage:     usage,
	}
}

// Fill uploads the first size bytes of data. The buffers are recreated at
// exactly size bytes when the capacity differs, a same size fill reuses them.
func (b *DeviceLocalBuffer) Fill(data []byte, size uint64) error {
	if err := checkFill(data, size); err != nil {
		return err
	}
	if size != b.size {
		if err := b.recreate(size); err != nil {
			return err
		}
	}
	if err := b.allocator.Upload(b.staging, data[:size]); err != nil {
		return fmt.Errorf("failed to write the staging buffer: %w", err)
	}
	if err := b.allocator.CopyBuffer(b.staging, b.buffer, size); err != nil {
		return fmt.Errorf("failed to copy the staging buffer: %w", err)
	}
	return nil
}

func (b *DeviceLocalBuffer) recreate(size uint64) error {
	b.Destroy()

	staging, err := b.allocator.CreateBuffer(size, metadata.BufferUsageTransferSrc, metadata.MemoryLocalityHostCoherent)
	if err != nil {
		return err
	}
	buffer, err := b.allocator.CreateBuffer(size, b.usage|metadata.BufferUsageTransferDst, metadata.MemoryLocalityDeviceLocal)
	if err != nil {
		b.allocator.DestroyBuffer(staging)
		return err
	}
	b.staging = staging
	b.buffer = buffer
	b.size = size
	return nil
}

func (b *DeviceLocalBuffer) Buffer() Buffer {
	return b.buffer
}

func (b *DeviceLocalBuffer) Size() uint64 {
	return b.size
}

func (b *DeviceLocalBuffer) Destroy() {
	if b.buffer != nil {
		b.allocator.DestroyBuffer(b.buffer)
		b.buffer = nil
	}
	if b.staging != nil {
		b.allocator.DestroyBuffer(b.staging)
		b.staging = nil
	}
	b.size = 0
}

func checkFill(data []byte, size uint64) error {
	if size == 0 {
		return core.ErrEmptyFill
	}
	if uint64(len(data)) < size {
		return fmt.Errorf("%w: %d bytes for a %d byte fill", core.ErrShortFill, len(data), size)
	}
	return nil
}
