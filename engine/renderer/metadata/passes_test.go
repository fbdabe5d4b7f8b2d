package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassPresetsValidate(t *testing.T) {
	for _, pass := range []*RenderPassDescription{
		GeometryPass(),
		LightingPass(true, DefaultClearColor),
		LightingPass(false, DefaultClearColor),
		SkyboxPass(),
		CubemapBakePass(),
	} {
		assert.NoError(t, pass.Validate(), pass.Name)
	}
}

func TestGeometryPassLayouts(t *testing.T) {
	pass := GeometryPass()
	require.Len(t, pass.Attachments, 3)
	for _, name := range []string{AttachmentPosition, AttachmentNormal} {
		a := pass.Attachments[pass.AttachmentIndex(name)]
		assert.Equal(t, GBufferFormat, a.Format)
		assert.Equal(t, LoadOpClear, a.Load)
		assert.Equal(t, StoreOpStore, a.Store)
		assert.Equal(t, ImageLayoutShaderReadOnly, a.FinalLayout)
	}
	depth := pass.Attachments[2]
	assert.True(t, depth.Format.IsDepth())
	assert.Equal(t, float32(1), depth.Clear.Depth)
	assert.Equal(t, ImageLayoutDepthStencilAttachment, pass.SubpassLayout(2))
	assert.Equal(t, ImageLayoutColorAttachment, pass.SubpassLayout(0))

	// the G-buffer writes are made visible to fragment shader reads
	out := pass.Dependencies[1]
	assert.Equal(t, 0, out.Src)
	assert.Equal(t, SubpassExternal, out.Dst)
	assert.NotZero(t, out.DstAccess&AccessShaderRead)
}

func TestLightingPassFinalLayout(t *testing.T) {
	assert.Equal(t, ImageLayoutPresentSrc, LightingPass(true, DefaultClearColor).Attachments[0].FinalLayout)
	withSkybox := LightingPass(false, DefaultClearColor)
	assert.Equal(t, ImageLayoutColorAttachment, withSkybox.Attachments[0].FinalLayout)
	assert.Len(t, withSkybox.Dependencies, 2)
	assert.Equal(t, DefaultClearColor, withSkybox.ClearValues()[0].Color)
}

func TestSkyboxPassLoadsColorAndReadsDepth(t *testing.T) {
	pass := SkyboxPass()
	assert.Equal(t, LoadOpLoad, pass.Attachments[0].Load)
	assert.Equal(t, ImageLayoutPresentSrc, pass.Attachments[0].FinalLayout)
	assert.True(t, pass.Subpass.DepthReadOnly)
	assert.Equal(t, ImageLayoutDepthStencilReadOnly, pass.SubpassLayout(1))
}

func TestRenderPassValidateErrors(t *testing.T) {
	cases := map[string]*RenderPassDescription{
		"empty": {Name: "empty", Subpass: SubpassDescription{Depth: NoAttachment}},
		"colour out of range": {
			Name:        "bad",
			Attachments: []AttachmentDescription{{Format: FormatR8G8B8A8Unorm}},
			Subpass:     SubpassDescription{Color: []int{1}, Depth: NoAttachment},
		},
		"colour is depth": {
			Name:        "bad",
			Attachments: []AttachmentDescription{{Format: FormatD32Sfloat}},
			Subpass:     SubpassDescription{Color: []int{0}, Depth: NoAttachment},
		},
		"depth not depth": {
			Name:        "bad",
			Attachments: []AttachmentDescription{{Format: FormatR8G8B8A8Unorm}},
			Subpass:     SubpassDescription{Depth: 0},
		},
		"unreferenced depth": {
			Name:        "bad",
			Attachments: []AttachmentDescription{{Format: FormatR8G8B8A8Unorm}, {Format: FormatDepth}},
			Subpass:     SubpassDescription{Color: []int{0}, Depth: NoAttachment},
		},
		"load undefined": {
			Name:        "bad",
			Attachments: []AttachmentDescription{{Format: FormatSwapchain, Load: LoadOpLoad}},
			Subpass:     SubpassDescription{Color: []int{0}, Depth: NoAttachment},
		},
	}
	for name, desc := range cases {
		assert.ErrorIs(t, desc.Validate(), ErrInvalidRenderPass, name)
	}
}
