package metadata

import (
	"testing"

	"github.com/spaghettifunk/deferred/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutTransitionSupported(t *testing.T) {
	b, err := LayoutTransition(ImageLayoutPreinitialized, ImageLayoutTransferDst, FormatR8G8B8A8Unorm)
	require.NoError(t, err)
	assert.Equal(t, AccessHostWrite, b.SrcAccess)
	assert.Equal(t, AccessTransferWrite, b.DstAccess)
	assert.Equal(t, ImageAspectColor, b.Aspect)

	b, err = LayoutTransition(ImageLayoutTransferDst, ImageLayoutShaderReadOnly, FormatR8G8B8A8Unorm)
	require.NoError(t, err)
	assert.Equal(t, AccessTransferWrite, b.SrcAccess)
	assert.Equal(t, AccessShaderRead, b.DstAccess)
	assert.Equal(t, PipelineStageFragmentShader, b.DstStage)

	b, err = LayoutTransition(ImageLayoutUndefined, ImageLayoutDepthStencilAttachment, FormatD32Sfloat)
	require.NoError(t, err)
	assert.Equal(t, AccessNone, b.SrcAccess)
	assert.Equal(t, AccessDepthStencilAttachmentRead|AccessDepthStencilAttachmentWrite, b.DstAccess)
	assert.Equal(t, ImageAspectDepth, b.Aspect)

	b, err = LayoutTransition(ImageLayoutUndefined, ImageLayoutDepthStencilAttachment, FormatD24UnormS8Uint)
	require.NoError(t, err)
	assert.Equal(t, ImageAspectDepth|ImageAspectStencil, b.Aspect)
}

func TestLayoutTransitionUnsupported(t *testing.T) {
	_, err := LayoutTransition(ImageLayoutShaderReadOnly, ImageLayoutPresentSrc, FormatR8G8B8A8Unorm)
	assert.ErrorIs(t, err, core.ErrUnsupportedLayoutTransition)
	assert.Contains(t, err.Error(), "shader_read_only -> present_src")
}
