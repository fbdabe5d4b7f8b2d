// Package buffers implements the upload buffers used for vertex, index and
// uniform data. GPU work goes through the Allocator so the resize policy is
// independent of the graphics API.
package buffers

import (
	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
)

// Buffer is a handle to GPU memory created by an Allocator.
type Buffer interface {
	Size() uint64
}

type Allocator interface {
	CreateBuffer(size uint64, usage metadata.BufferUsage, locality metadata.MemoryLocality) (Buffer, error)
	DestroyBuffer(b Buffer)
	// Upload maps a host visible buffer, copies data and unmaps it.
	Upload(b Buffer, data []byte) error
	// CopyBuffer records a single-use copy, submits it and waits for completion.
	CopyBuffer(src, dst Buffer, size uint64) error
}

// UploadBuffer is implemented by DeviceLocalBuffer and HostCoherentBuffer.
type UploadBuffer interface {
	Fill(data []byte, size uint64) error
	Buffer() Buffer
	Size() uint64
	Destroy()
}
