package metadata

type DescriptorType int

const (
	DescriptorTypeUniformBuffer DescriptorType = iota
	DescriptorTypeCombinedImageSampler
)

type DescriptorBinding struct {
	Binding uint32
	Type    DescriptorType
	Count   uint32
	Stages  ShaderStage
}

type DescriptorSetLayoutDescription struct {
	Name     string
	Bindings []DescriptorBinding
}

const (
	SetLayoutMVP     = "mvp"
	SetLayoutGBuffer = "gbuffer"
	SetLayoutLights  = "lights"
	SetLayoutSkybox  = "skybox"
	SetLayoutBake    = "bake"
)

// Bindings of the G-buffer set sampled by the lighting pass.
const (
	GBufferBindingPosition uint32 = 0
	GBufferBindingNormal   uint32 = 1
)

// DescriptorSetLayouts lists every set layout used by the deferred pipelines.
func DescriptorSetLayouts() []DescriptorSetLayoutDescription {
	return []DescriptorSetLayoutDescription{
		{
			Name: SetLayoutMVP,
			Bindings: []DescriptorBinding{
				{Binding: 0, Type: DescriptorTypeUniformBuffer, Count: 1, Stages: ShaderStageVertex},
			},
		},
		{
			Name: SetLayoutGBuffer,
			Bindings: []DescriptorBinding{
				{Binding: GBufferBindingPosition, Type: DescriptorTypeCombinedImageSampler, Count: 1, Stages: ShaderStageFragment},
				{Binding: GBufferBindingNormal, Type: DescriptorTypeCombinedImageSampler, Count: 1, Stages: ShaderStageFragment},
			},
		},
		{
			Name: SetLayoutLights,
			Bindings: []DescriptorBinding{
				{Binding: 0, Type: DescriptorTypeUniformBuffer, Count: 1, Stages: ShaderStageFragment},
			},
		},
		{
			Name: SetLayoutSkybox,
			Bindings: []DescriptorBinding{
				{Binding: 0, Type: DescriptorTypeUniformBuffer, Count: 1, Stages: ShaderStageVertex},
				{Binding: 1, Type: DescriptorTypeCombinedImageSampler, Count: 1, Stages: ShaderStageFragment},
			},
		},
		{
			Name: SetLayoutBake,
			Bindings: []DescriptorBinding{
				{Binding: 0, Type: DescriptorTypeCombinedImageSampler, Count: 1, Stages: ShaderStageFragment},
			},
		},
	}
}

/** @brief Sizing of the single descriptor pool. */
type DescriptorPoolDescription struct {
	UniformBuffers uint32
	Samplers       uint32
	MaxSets        uint32
}

// DescriptorPoolFor sizes the pool for per-frame sets across framesInFlight
// slots plus the long lived bake set.
func DescriptorPoolFor(framesInFlight uint32) DescriptorPoolDescription {
	perFrameSets := uint32(4) // mvp, gbuffer, lights, skybox
	return DescriptorPoolDescription{
		UniformBuffers: 16 * framesInFlight,
		Samplers:       16 * framesInFlight,
		MaxSets:        perFrameSets*framesInFlight + 1,
	}
}
