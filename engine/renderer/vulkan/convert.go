package vulkan

import (
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
)

// formatResolver turns metadata formats into Vulkan formats, filling in the
// swapchain and depth placeholders chosen at startup.
type formatResolver struct {
	swapchain vk.Format
	depth     vk.Format
}

func (r formatResolver) resolve(f metadata.Format) vk.Format {
	switch f {
	case metadata.FormatSwapchain:
		return r.swapchain
	case metadata.FormatDepth:
		return r.depth
	}
	return vkFormat(f)
}

func vkFormat(f metadata.Format) vk.Format {
	switch f {
	case metadata.FormatR8G8B8A8Unorm:
		return vk.FormatR8g8b8a8Unorm
	case metadata.FormatR8G8B8A8Srgb:
		return vk.FormatR8g8b8a8Srgb
	case metadata.FormatB8G8R8A8Unorm:
		return vk.FormatB8g8r8a8Unorm
	case metadata.FormatB8G8R8A8Srgb:
		return vk.FormatB8g8r8a8Srgb
	case metadata.FormatR16G16B16A16Sfloat:
		return vk.FormatR16g16b16a16Sfloat
	case metadata.FormatR32G32Sfloat:
		return vk.FormatR32g32Sfloat
	case metadata.FormatR32G32B32Sfloat:
		return vk.FormatR32g32b32Sfloat
	case metadata.FormatD32Sfloat:
		return vk.FormatD32Sfloat
	case metadata.FormatD32SfloatS8Uint:
		return vk.FormatD32SfloatS8Uint
	case metadata.FormatD24UnormS8Uint:
		return vk.FormatD24UnormS8Uint
	}
	return vk.FormatUndefined
}

func metadataFormat(f vk.Format) metadata.Format {
	switch f {
	case vk.FormatR8g8b8a8Unorm:
		return metadata.FormatR8G8B8A8Unorm
	case vk.FormatR8g8b8a8Srgb:
		return metadata.FormatR8G8B8A8Srgb
	case vk.FormatB8g8r8a8Unorm:
		return metadata.FormatB8G8R8A8Unorm
	case vk.FormatB8g8r8a8Srgb:
		return metadata.FormatB8G8R8A8Srgb
	case vk.FormatR16g16b16a16Sfloat:
		return metadata.FormatR16G16B16A16Sfloat
	case vk.FormatD32Sfloat:
		return metadata.FormatD32Sfloat
	case vk.FormatD32SfloatS8Uint:
		return metadata.FormatD32SfloatS8Uint
	case vk.FormatD24UnormS8Uint:
		return metadata.FormatD24UnormS8Uint
	}
	return metadata.FormatUndefined
}

func vkLoadOp(op metadata.LoadOp) vk.AttachmentLoadOp {
	switch op {
	case metadata.LoadOpClear:
		return vk.AttachmentLoadOpClear
	case metadata.LoadOpLoad:
		return vk.AttachmentLoadOpLoad
	}
	return vk.AttachmentLoadOpDontCare
}

func vkStoreOp(op metadata.StoreOp) vk.AttachmentStoreOp {
	if op == metadata.StoreOpStore {
		return vk.AttachmentStoreOpStore
	}
	return vk.AttachmentStoreOpDontCare
}

func vkImageLayout(l metadata.ImageLayout) vk.ImageLayout {
	switch l {
	case metadata.ImageLayoutPreinitialized:
		return vk.ImageLayoutPreinitialized
	case metadata.ImageLayoutGeneral:
		return vk.ImageLayoutGeneral
	case metadata.ImageLayoutColorAttachment:
		return vk.ImageLayoutColorAttachmentOptimal
	case metadata.ImageLayoutDepthStencilAttachment:
		return vk.ImageLayoutDepthStencilAttachmentOptimal
	case metadata.ImageLayoutDepthStencilReadOnly:
		return vk.ImageLayoutDepthStencilReadOnlyOptimal
	case metadata.ImageLayoutShaderReadOnly:
		return vk.ImageLayoutShaderReadOnlyOptimal
	case metadata.ImageLayoutTransferSrc:
		return vk.ImageLayoutTransferSrcOptimal
	case metadata.ImageLayoutTransferDst:
		return vk.ImageLayoutTransferDstOptimal
	case metadata.ImageLayoutPresentSrc:
		return vk.ImageLayoutPresentSrc
	}
	return vk.ImageLayoutUndefined
}

// The stage, access and aspect bits share their values with Vulkan.

func vkPipelineStage(s metadata.PipelineStage) vk.PipelineStageFlags {
	return vk.PipelineStageFlags(s)
}

func vkAccess(a metadata.Access) vk.AccessFlags {
	return vk.AccessFlags(a)
}

func vkAspect(a metadata.ImageAspect) vk.ImageAspectFlags {
	return vk.ImageAspectFlags(a)
}

func vkShaderStage(s metadata.ShaderStage) vk.ShaderStageFlags {
	return vk.ShaderStageFlags(s)
}

func vkTopology(t metadata.Topology) vk.PrimitiveTopology {
	switch t {
	case metadata.TopologyTriangleStrip:
		return vk.PrimitiveTopologyTriangleStrip
	case metadata.TopologyLineList:
		return vk.PrimitiveTopologyLineList
	case metadata.TopologyPointList:
		return vk.PrimitiveTopologyPointList
	}
	return vk.PrimitiveTopologyTriangleList
}

func vkCullMode(c metadata.CullMode) vk.CullModeFlags {
	switch c {
	case metadata.CullModeFront:
		return vk.CullModeFlags(vk.CullModeFrontBit)
	case metadata.CullModeBack:
		return vk.CullModeFlags(vk.CullModeBackBit)
	case metadata.CullModeFrontAndBack:
		return vk.CullModeFlags(vk.CullModeFrontAndBack)
	}
	return vk.CullModeFlags(vk.CullModeNone)
}

func vkFrontFace(f metadata.FrontFace) vk.FrontFace {
	if f == metadata.FrontFaceClockwise {
		return vk.FrontFaceClockwise
	}
	return vk.FrontFaceCounterClockwise
}

func vkPolygonMode(m metadata.PolygonMode) vk.PolygonMode {
	switch m {
	case metadata.PolygonModeLine:
		return vk.PolygonModeLine
	case metadata.PolygonModePoint:
		return vk.PolygonModePoint
	}
	return vk.PolygonModeFill
}

func vkCompareOp(op metadata.CompareOp) vk.CompareOp {
	switch op {
	case metadata.CompareOpLess:
		return vk.CompareOpLess
	case metadata.CompareOpEqual:
		return vk.CompareOpEqual
	case metadata.CompareOpLessOrEqual:
		return vk.CompareOpLessOrEqual
	case metadata.CompareOpGreater:
		return vk.CompareOpGreater
	case metadata.CompareOpNotEqual:
		return vk.CompareOpNotEqual
	case metadata.CompareOpGreaterOrEqual:
		return vk.CompareOpGreaterOrEqual
	case metadata.CompareOpAlways:
		return vk.CompareOpAlways
	}
	return vk.CompareOpNever
}

func vkVertexFormat(f metadata.VertexFormat) vk.Format {
	switch f {
	case metadata.VertexFormatFloat2:
		return vk.FormatR32g32Sfloat
	case metadata.VertexFormatFloat4:
		return vk.FormatR32g32b32a32Sfloat
	}
	return vk.FormatR32g32b32Sfloat
}

func vkDescriptorType(t metadata.DescriptorType) vk.DescriptorType {
	if t == metadata.DescriptorTypeCombinedImageSampler {
		return vk.DescriptorTypeCombinedImageSampler
	}
	return vk.DescriptorTypeUniformBuffer
}

func vkSampleCount(samples uint32) vk.SampleCountFlagBits {
	switch samples {
	case 2:
		return vk.SampleCount2Bit
	case 4:
		return vk.SampleCount4Bit
	case 8:
		return vk.SampleCount8Bit
	}
	return vk.SampleCount1Bit
}
