package metadata

/** @brief Pixel formats understood by the renderer. */
type Format int

const (
	FormatUndefined Format = iota
	/** @brief Resolved by the backend to the surface format of the swapchain. */
	FormatSwapchain
	/** @brief Resolved by the backend to the best depth format of the device. */
	FormatDepth
	FormatR8G8B8A8Unorm
	FormatR8G8B8A8Srgb
	FormatB8G8R8A8Unorm
	FormatB8G8R8A8Srgb
	FormatR16G16B16A16Sfloat
	FormatR32G32Sfloat
	FormatR32G32B32Sfloat
	FormatD32Sfloat
	FormatD32SfloatS8Uint
	FormatD24UnormS8Uint
)

/** @brief Depth formats in order of preference. */
var DepthFormatCandidates = []Format{FormatD32Sfloat, FormatD32SfloatS8Uint, FormatD24UnormS8Uint}

func (f Format) IsDepth() bool {
	switch f {
	case FormatDepth, FormatD32Sfloat, FormatD32SfloatS8Uint, FormatD24UnormS8Uint:
		return true
	}
	return false
}

func (f Format) HasStencil() bool {
	return f == FormatD32SfloatS8Uint || f == FormatD24UnormS8Uint
}

func (f Format) String() string {
	switch f {
	case FormatSwapchain:
		return "swapchain"
	case FormatDepth:
		return "depth"
	case FormatR8G8B8A8Unorm:
		return "R8G8B8A8_UNORM"
	case FormatR8G8B8A8Srgb:
		return "R8G8B8A8_SRGB"
	case FormatB8G8R8A8Unorm:
		return "B8G8R8A8_UNORM"
	case FormatB8G8R8A8Srgb:
		return "B8G8R8A8_SRGB"
	case FormatR16G16B16A16Sfloat:
		return "R16G16B16A16_SFLOAT"
	case FormatR32G32Sfloat:
		return "R32G32_SFLOAT"
	case FormatR32G32B32Sfloat:
		return "R32G32B32_SFLOAT"
	case FormatD32Sfloat:
		return "D32_SFLOAT"
	case FormatD32SfloatS8Uint:
		return "D32_SFLOAT_S8_UINT"
	case FormatD24UnormS8Uint:
		return "D24_UNORM_S8_UINT"
	}
	return "undefined"
}

type LoadOp int

const (
	LoadOpDontCare LoadOp = iota
	LoadOpClear
	LoadOpLoad
)

type StoreOp int

const (
	StoreOpDontCare StoreOp = iota
	StoreOpStore
)

/** @brief Image layouts an attachment or texture can be in. */
type ImageLayout int

const (
	ImageLayoutUndefined ImageLayout = iota
	ImageLayoutPreinitialized
	ImageLayoutGeneral
	ImageLayoutColorAttachment
	ImageLayoutDepthStencilAttachment
	ImageLayoutDepthStencilReadOnly
	ImageLayoutShaderReadOnly
	ImageLayoutTransferSrc
	ImageLayoutTransferDst
	ImageLayoutPresentSrc
)

func (l ImageLayout) String() string {
	switch l {
	case ImageLayoutUndefined:
		return "undefined"
	case ImageLayoutPreinitialized:
		return "preinitialized"
	case ImageLayoutGeneral:
		return "general"
	case ImageLayoutColorAttachment:
		return "color_attachment"
	case ImageLayoutDepthStencilAttachment:
		return "depth_stencil_attachment"
	case ImageLayoutDepthStencilReadOnly:
		return "depth_stencil_read_only"
	case ImageLayoutShaderReadOnly:
		return "shader_read_only"
	case ImageLayoutTransferSrc:
		return "transfer_src"
	case ImageLayoutTransferDst:
		return "transfer_dst"
	case ImageLayoutPresentSrc:
		return "present_src"
	}
	return "unknown"
}

// The bit values below match the Vulkan flag bits so the backend can cast
// them directly.

type PipelineStage uint32

const (
	PipelineStageTopOfPipe             PipelineStage = 0x00000001
	PipelineStageDrawIndirect          PipelineStage = 0x00000002
	PipelineStageVertexInput           PipelineStage = 0x00000004
	PipelineStageVertexShader          PipelineStage = 0x00000008
	PipelineStageFragmentShader        PipelineStage = 0x00000080
	PipelineStageEarlyFragmentTests    PipelineStage = 0x00000100
	PipelineStageLateFragmentTests     PipelineStage = 0x00000200
	PipelineStageColorAttachmentOutput PipelineStage = 0x00000400
	PipelineStageTransfer              PipelineStage = 0x00001000
	PipelineStageBottomOfPipe          PipelineStage = 0x00002000
	PipelineStageHost                  PipelineStage = 0x00004000
)

type Access uint32

const (
	AccessNone                        Access = 0
	AccessUniformRead                 Access = 0x00000008
	AccessInputAttachmentRead         Access = 0x00000010
	AccessShaderRead                  Access = 0x00000020
	AccessShaderWrite                 Access = 0x00000040
	AccessColorAttachmentRead         Access = 0x00000080
	AccessColorAttachmentWrite        Access = 0x00000100
	AccessDepthStencilAttachmentRead  Access = 0x00000200
	AccessDepthStencilAttachmentWrite Access = 0x00000400
	AccessTransferRead                Access = 0x00000800
	AccessTransferWrite               Access = 0x00001000
	AccessHostWrite                   Access = 0x00004000
	AccessMemoryRead                  Access = 0x00008000
)

type ImageAspect uint32

const (
	ImageAspectColor   ImageAspect = 0x1
	ImageAspectDepth   ImageAspect = 0x2
	ImageAspectStencil ImageAspect = 0x4
)
