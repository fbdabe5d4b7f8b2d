package metadata

import (
	"fmt"

	"github.com/spaghettifunk/deferred/engine/core"
)

/** @brief Memory property bits, values match VkMemoryPropertyFlagBits. */
type MemoryProperty uint32

const (
	MemoryPropertyDeviceLocal  MemoryProperty = 0x1
	MemoryPropertyHostVisible  MemoryProperty = 0x2
	MemoryPropertyHostCoherent MemoryProperty = 0x4
	MemoryPropertyHostCached   MemoryProperty = 0x8
)

/** @brief Where a buffer or image lives. */
type MemoryLocality int

const (
	MemoryLocalityDeviceLocal MemoryLocality = iota
	MemoryLocalityHostCoherent
)

// Properties returns the memory properties required by the locality.
func (l MemoryLocality) Properties() MemoryProperty {
	if l == MemoryLocalityHostCoherent {
		return MemoryPropertyHostVisible | MemoryPropertyHostCoherent
	}
	return MemoryPropertyDeviceLocal
}

func (l MemoryLocality) String() string {
	if l == MemoryLocalityHostCoherent {
		return "host_coherent"
	}
	return "device_local"
}

/** @brief Buffer usage bits, values match VkBufferUsageFlagBits. */
type BufferUsage uint32

const (
	BufferUsageTransferSrc BufferUsage = 0x001
	BufferUsageTransferDst BufferUsage = 0x002
	BufferUsageUniform     BufferUsage = 0x010
	BufferUsageStorage     BufferUsage = 0x020
	BufferUsageIndex       BufferUsage = 0x040
	BufferUsageVertex      BufferUsage = 0x080
)

/** @brief One entry of the device memory type table. */
type MemoryType struct {
	PropertyFlags MemoryProperty
	HeapIndex     uint32
}

// FindMemoryType returns the first memory type, in device order, allowed by
// typeFilter and having every required property.
func FindMemoryType(types []MemoryType, typeFilter uint32, required MemoryProperty) (uint32, error) {
	for i := 0; i < len(types) && i < 32; i++ {
		if typeFilter&(1<<uint(i)) != 0 && types[i].PropertyFlags&required == required {
			return uint32(i), nil
		}
	}
	return 0, fmt.Errorf("%w: filter 0x%x, properties 0x%x", core.ErrNoSuitableMemoryType, typeFilter, uint32(required))
}
