package buffers

import (
	"fmt"

	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
)

// HostCoherentBuffer is written directly by the host, no staging and no copy.
type HostCoherentBuffer struct {
	allocator Allocator
	usage     metadata.BufferUsage
	buffer    Buffer
	size      uint64
}

func NewHostCoherentBuffer(allocator Allocator, usage metadata.BufferUsage) *HostCoherentBuffer {
	return &HostCoherentBuffer{
		allocator: allocator,
		usage:     usage,
	}
}

func (b *HostCoherentBuffer) Fill(data []byte, size uint64) error {
	if err := checkFill(data, size); err != nil {
		return err
	}
	if size != b.size {
		b.Destroy()
		buffer, err := b.allocator.CreateBuffer(size, b.usage, metadata.MemoryLocalityHostCoherent)
		if err != nil {
			return err
		}
		b.buffer = buffer
		b.size = size
	}
	if err := b.allocator.Upload(b.buffer, data[:size]); err != nil {
		return fmt.Errorf("failed to write the host coherent buffer: %w", err)
	}
	return nil
}

func (b *HostCoherentBuffer) Buffer() Buffer {
	return b.buffer
}

func (b *HostCoherentBuffer) Size() uint64 {
	return b.size
}

func (b *HostCoherentBuffer) Destroy() {
	if b.buffer != nil {
		b.allocator.DestroyBuffer(b.buffer)
		b.buffer = nil
	}
	b.size = 0
}
