package metadata

type Topology int

const (
	TopologyTriangleList Topology = iota
	TopologyTriangleStrip
	TopologyLineList
	TopologyPointList
)

type CullMode int

const (
	CullModeNone CullMode = iota
	CullModeFront
	CullModeBack
	CullModeFrontAndBack
)

type FrontFace int

const (
	FrontFaceCounterClockwise FrontFace = iota
	FrontFaceClockwise
)

type PolygonMode int

const (
	PolygonModeFill PolygonMode = iota
	PolygonModeLine
	PolygonModePoint
)

type CompareOp int

const (
	CompareOpNever CompareOp = iota
	CompareOpLess
	CompareOpEqual
	CompareOpLessOrEqual
	CompareOpGreater
	CompareOpNotEqual
	CompareOpGreaterOrEqual
	CompareOpAlways
)

/** @brief Shader stage bits, values match the Vulkan flag bits. */
type ShaderStage uint32

const (
	ShaderStageVertex   ShaderStage = 0x00000001
	ShaderStageFragment ShaderStage = 0x00000010
)

func (s ShaderStage) String() string {
	switch s {
	case ShaderStageVertex:
		return "vert"
	case ShaderStageFragment:
		return "frag"
	}
	return "unknown"
}

type ShaderStageDescription struct {
	Stage ShaderStage
	/** @brief Name of the binary under the shader directory, for example `geom.vert`. */
	Name       string
	EntryPoint string
}

type VertexFormat int

const (
	VertexFormatFloat2 VertexFormat = iota
	VertexFormatFloat3
	VertexFormatFloat4
)

type VertexAttribute struct {
	Location uint32
	Format   VertexFormat
	Offset   uint32
}

/** @brief Single interleaved vertex binding. An empty layout means no vertex input. */
type VertexLayout struct {
	Stride     uint32
	Attributes []VertexAttribute
}

type RasterizerState struct {
	CullMode    CullMode
	FrontFace   FrontFace
	PolygonMode PolygonMode
	LineWidth   float32
}

type DepthStencilState struct {
	TestEnable  bool
	WriteEnable bool
	CompareOp   CompareOp
}

type BlendAttachment struct {
	BlendEnable bool
	/** @brief RGBA write mask, bit 0 is red. */
	WriteMask uint32
}

const ColorWriteRGB uint32 = 0x7
const ColorWriteRGBA uint32 = 0xF

type MultisampleState struct {
	Samples uint32
}

/** @brief Either a fixed extent or dynamic viewport and scissor. */
type ViewportState struct {
	Dynamic bool
	Width   uint32
	Height  uint32
}

type PushConstantRange struct {
	Stages ShaderStage
	Offset uint32
	Size   uint32
}

// Vulkan guarantees at least 128 bytes of push constants.
const MaxPushConstantSize uint32 = 128

/**
 * @brief Every state fragment of one graphics pipeline. Built with
 * NewPipelineDescription and the With options, aggregated by the backend.
 */
type PipelineDescription struct {
	Name          string
	RenderPass    string
	Stages        []ShaderStageDescription
	VertexLayout  VertexLayout
	Topology      Topology
	Viewport      ViewportState
	Rasterizer    RasterizerState
	Multisample   MultisampleState
	DepthStencil  DepthStencilState
	Blend         []BlendAttachment
	SetLayouts    []string
	PushConstants []PushConstantRange
}

type PipelineOption func(*PipelineDescription)

func NewPipelineDescription(name, renderPass string, opts ...PipelineOption) *PipelineDescription {
	p := &PipelineDescription{
		Name:       name,
		RenderPass: renderPass,
		Topology:   TopologyTriangleList,
		Viewport:   ViewportState{Dynamic: true},
		Rasterizer: RasterizerState{
			CullMode:    CullModeBack,
			FrontFace:   FrontFaceCounterClockwise,
			PolygonMode: PolygonModeFill,
			LineWidth:   1.0,
		},
		Multisample: MultisampleState{Samples: 1},
		Blend:       []BlendAttachment{{WriteMask: ColorWriteRGBA}},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func WithShaderStages(stages ...ShaderStageDescription) PipelineOption {
	return func(p *PipelineDescription) {
		p.Stages = stages
	}
}

// WithShaderProgram adds a vertex and fragment stage named `<name>.vert` and `<name>.frag`.
func WithShaderProgram(name string) PipelineOption {
	return WithShaderStages(
		ShaderStageDescription{Stage: ShaderStageVertex, Name: name + ".vert", EntryPoint: "main"},
		ShaderStageDescription{Stage: ShaderStageFragment, Name: name + ".frag", EntryPoint: "main"},
	)
}

func WithVertexLayout(layout VertexLayout) PipelineOption {
	return func(p *PipelineDescription) {
		p.VertexLayout = layout
	}
}

func WithTopology(t Topology) PipelineOption {
	return func(p *PipelineDescription) {
		p.Topology = t
	}
}

func WithFixedViewport(width, height uint32) PipelineOption {
	return func(p *PipelineDescription) {
		p.Viewport = ViewportState{Width: width, Height: height}
	}
}

func WithRasterizer(r RasterizerState) PipelineOption {
	return func(p *PipelineDescription) {
		p.Rasterizer = r
	}
}

func WithCullMode(mode CullMode) PipelineOption {
	return func(p *PipelineDescription) {
		p.Rasterizer.CullMode = mode
	}
}

func WithPolygonMode(mode PolygonMode) PipelineOption {
	return func(p *PipelineDescription) {
		p.Rasterizer.PolygonMode = mode
	}
}

func WithMultisample(samples uint32) PipelineOption {
	return func(p *PipelineDescription) {
		p.Multisample.Samples = samples
	}
}

func WithDepthStencil(test, write bool, op CompareOp) PipelineOption {
	return func(p *PipelineDescription) {
		p.DepthStencil = DepthStencilState{TestEnable: test, WriteEnable: write, CompareOp: op}
	}
}

func WithBlendAttachments(attachments ...BlendAttachment) PipelineOption {
	return func(p *PipelineDescription) {
		p.Blend = attachments
	}
}

func WithSetLayouts(names ...string) PipelineOption {
	return func(p *PipelineDescription) {
		p.SetLayouts = names
	}
}

func WithPushConstants(ranges ...PushConstantRange) PipelineOption {
	return func(p *PipelineDescription) {
		p.PushConstants = ranges
	}
}
