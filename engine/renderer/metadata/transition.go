package metadata

import (
	"fmt"

	"github.com/spaghettifunk/deferred/engine/core"
)

/** @brief Synchronization parameters of one image layout transition. */
type Barrier struct {
	OldLayout ImageLayout
	NewLayout ImageLayout
	SrcAccess Access
	DstAccess Access
	SrcStage  PipelineStage
	DstStage  PipelineStage
	Aspect    ImageAspect
}

// LayoutTransition returns the barrier for the transitions used by the
// upload paths. Every other pair wraps core.ErrUnsupportedLayoutTransition.
func LayoutTransition(oldLayout, newLayout ImageLayout, format Format) (Barrier, error) {
	b := Barrier{
		OldLayout: oldLayout,
		NewLayout: newLayout,
		Aspect:    ImageAspectColor,
	}
	if newLayout == ImageLayoutDepthStencilAttachment {
		b.Aspect = ImageAspectDepth
		if format.HasStencil() {
			b.Aspect |= ImageAspectStencil
		}
	}

	switch {
	case oldLayout == ImageLayoutUndefined && newLayout == ImageLayoutTransferDst:
		b.SrcAccess = AccessNone
		b.DstAccess = AccessTransferWrite
		b.SrcStage = PipelineStageTopOfPipe
		b.DstStage = PipelineStageTransfer
	case oldLayout == ImageLayoutPreinitialized && newLayout == ImageLayoutTransferDst:
		b.SrcAccess = AccessHostWrite
		b.DstAccess = AccessTransferWrite
		b.SrcStage = PipelineStageHost
		b.DstStage = PipelineStageTransfer
	case oldLayout == ImageLayoutTransferDst && newLayout == ImageLayoutShaderReadOnly:
		b.SrcAccess = AccessTransferWrite
		b.DstAccess = AccessShaderRead
		b.SrcStage = PipelineStageTransfer
		b.DstStage = PipelineStageFragmentShader
	case oldLayout == ImageLayoutUndefined && newLayout == ImageLayoutDepthStencilAttachment:
		b.SrcAccess = AccessNone
		b.DstAccess = AccessDepthStencilAttachmentRead | AccessDepthStencilAttachmentWrite
		b.SrcStage = PipelineStageTopOfPipe
		b.DstStage = PipelineStageEarlyFragmentTests
	default:
		return Barrier{}, fmt.Errorf("%w: %s -> %s", core.ErrUnsupportedLayoutTransition, oldLayout, newLayout)
	}
	return b, nil
}
