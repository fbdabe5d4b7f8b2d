package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/deferred/engine/core"
	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
)

/**
 * @brief Holds a Vulkan pipeline and its layout.
 */
type VulkanPipeline struct {
	/** @brief The description the pipeline was built from. */
	Description *metadata.PipelineDescription
	/** @brief The internal pipeline handle. */
	Handle vk.Pipeline
	/** @brief The pipeline layout. */
	PipelineLayout vk.PipelineLayout
}

// NewGraphicsPipeline aggregates the state fragments of desc into one
// pipeline layout and one graphics pipeline. Nothing is validated beyond
// what the driver checks.
func NewGraphicsPipeline(
	context *VulkanContext,
	desc *metadata.PipelineDescription,
	renderpass *VulkanRenderPass,
	setLayouts []vk.DescriptorSetLayout,
	stages []*VulkanShaderStage,
) (*VulkanPipeline, error) {
	outPipeline := &VulkanPipeline{Description: desc}

	// Viewport state. Dynamic pipelines still declare one viewport and
	// scissor, the values are set while recording.
	viewport := vk.Viewport{
		X:        0,
		Y:        0,
		Width:    float32(desc.Viewport.Width),
		Height:   float32(desc.Viewport.Height),
		MinDepth: 0.0,
		MaxDepth: 1.0,
	}
	scissor := vk.Rect2D{
		Offset: vk.Offset2D{X: 0, Y: 0},
		Extent: vk.Extent2D{Width: desc.Viewport.Width, Height: desc.Viewport.Height},
	}
	viewportState := vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: 1,
		PViewports:    []vk.Viewport{viewport},
		ScissorCount:  1,
		PScissors:     []vk.Rect2D{scissor},
	}

	rasterizerCreateInfo := vk.PipelineRasterizationStateCreateInfo{
		SType:                   vk.StructureTypePipelineRasterizationStateCreateInfo,
		DepthClampEnable:        vk.False,
		RasterizerDiscardEnable: vk.False,
		PolygonMode:             vkPolygonMode(desc.Rasterizer.PolygonMode),
		LineWidth:               desc.Rasterizer.LineWidth,
		CullMode:                vkCullMode(desc.Rasterizer.CullMode),
		FrontFace:               vkFrontFace(desc.Rasterizer.FrontFace),
		DepthBiasEnable:         vk.False,
	}

	multisamplingCreateInfo := vk.PipelineMultisampleStateCreateInfo{
		SType:                 vk.StructureTypePipelineMultisampleStateCreateInfo,
		SampleShadingEnable:   vk.False,
		RasterizationSamples:  vkSampleCount(desc.Multisample.Samples),
		MinSampleShading:      1.0,
		AlphaToCoverageEnable: vk.False,
		AlphaToOneEnable:      vk.False,
	}

	depthStencil := vk.PipelineDepthStencilStateCreateInfo{
		SType:                 vk.StructureTypePipelineDepthStencilStateCreateInfo,
		DepthTestEnable:       toBool32(desc.DepthStencil.TestEnable),
		DepthWriteEnable:      toBool32(desc.DepthStencil.WriteEnable),
		DepthCompareOp:        vkCompareOp(desc.DepthStencil.CompareOp),
		DepthBoundsTestEnable: vk.False,
		StencilTestEnable:     vk.False,
		MinDepthBounds:        0.0,
		MaxDepthBounds:        1.0,
	}

	blendAttachments := make([]vk.PipelineColorBlendAttachmentState, len(desc.Blend))
	for i, b := range desc.Blend {
		blendAttachments[i] = vk.PipelineColorBlendAttachmentState{
			BlendEnable:         toBool32(b.BlendEnable),
			SrcColorBlendFactor: vk.BlendFactorSrcAlpha,
			DstColorBlendFactor: vk.BlendFactorOneMinusSrcAlpha,
			ColorBlendOp:        vk.BlendOpAdd,
			SrcAlphaBlendFactor: vk.BlendFactorOne,
			DstAlphaBlendFactor: vk.BlendFactorZero,
			AlphaBlendOp:        vk.BlendOpAdd,
			ColorWriteMask:      vk.ColorComponentFlags(b.WriteMask),
		}
	}
	colorBlendStateCreateInfo := vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		LogicOpEnable:   vk.False,
		LogicOp:         vk.LogicOpCopy,
		AttachmentCount: uint32(len(blendAttachments)),
		PAttachments:    blendAttachments,
	}

	var dynamicStates []vk.DynamicState
	if desc.Viewport.Dynamic {
		dynamicStates = append(dynamicStates, vk.DynamicStateViewport, vk.DynamicStateScissor)
	}
	dynamicStateCreateInfo := vk.PipelineDynamicStateCreateInfo{
		SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
		DynamicStateCount: uint32(len(dynamicStates)),
		PDynamicStates:    dynamicStates,
	}

	vertexInputInfo := vk.PipelineVertexInputStateCreateInfo{
		SType: vk.StructureTypePipelineVertexInputStateCreateInfo,
	}
	if desc.VertexLayout.Stride > 0 {
		attributes := make([]vk.VertexInputAttributeDescription, len(desc.VertexLayout.Attributes))
		for i, a := range desc.VertexLayout.Attributes {
			attributes[i] = vk.VertexInputAttributeDescription{
				Location: a.Location,
				Binding:  0,
				Format:   vkVertexFormat(a.Format),
				Offset:   a.Offset,
			}
		}
		vertexInputInfo.VertexBindingDescriptionCount = 1
		vertexInputInfo.PVertexBindingDescriptions = []vk.VertexInputBindingDescription{{
			Binding:   0,
			Stride:    desc.VertexLayout.Stride,
			InputRate: vk.VertexInputRateVertex,
		}}
		vertexInputInfo.VertexAttributeDescriptionCount = uint32(len(attributes))
		vertexInputInfo.PVertexAttributeDescriptions = attributes
	}

	inputAssembly := vk.PipelineInputAssemblyStateCreateInfo{
		SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology:               vkTopology(desc.Topology),
		PrimitiveRestartEnable: vk.False,
	}

	pipelineLayoutCreateInfo := vk.PipelineLayoutCreateInfo{
		SType:          vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount: uint32(len(setLayouts)),
		PSetLayouts:    setLayouts,
	}
	if len(desc.PushConstants) > 0 {
		ranges := make([]vk.PushConstantRange, len(desc.PushConstants))
		for i, r := range desc.PushConstants {
			if r.Offset+r.Size > metadata.MaxPushConstantSize {
				err := fmt.Errorf("pipeline `%s`: push constant range %d ends past %d bytes", desc.Name, i, metadata.MaxPushConstantSize)
				core.LogError("%s", err)
				return nil, err
			}
			ranges[i] = vk.PushConstantRange{
				StageFlags: vkShaderStage(r.Stages),
				Offset:     r.Offset,
				Size:       r.Size,
			}
		}
		pipelineLayoutCreateInfo.PushConstantRangeCount = uint32(len(ranges))
		pipelineLayoutCreateInfo.PPushConstantRanges = ranges
	}

	shaderStages := make([]vk.PipelineShaderStageCreateInfo, len(stages))
	for i, s := range stages {
		shaderStages[i] = s.ShaderStageCreateInfo
	}

	err := lockPool.SafeCall(PipelineManagement, func() error {
		var layout vk.PipelineLayout
		if res := vk.CreatePipelineLayout(context.Device.LogicalDevice, &pipelineLayoutCreateInfo, context.Allocator, &layout); res != vk.Success {
			return vulkanError(res, "vkCreatePipelineLayout failed for `%s`", desc.Name)
		}
		outPipeline.PipelineLayout = layout

		pipelineCreateInfo := vk.GraphicsPipelineCreateInfo{
			SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
			StageCount:          uint32(len(shaderStages)),
			PStages:             shaderStages,
			PVertexInputState:   &vertexInputInfo,
			PInputAssemblyState: &inputAssembly,
			PViewportState:      &viewportState,
			PRasterizationState: &rasterizerCreateInfo,
			PMultisampleState:   &multisamplingCreateInfo,
			PDepthStencilState:  &depthStencil,
			PColorBlendState:    &colorBlendStateCreateInfo,
			Layout:              layout,
			RenderPass:          renderpass.Handle,
			Subpass:             0,
			BasePipelineHandle:  vk.NullPipeline,
			BasePipelineIndex:   -1,
		}
		if len(dynamicStates) > 0 {
			pipelineCreateInfo.PDynamicState = &dynamicStateCreateInfo
		}

		pipelines := make([]vk.Pipeline, 1)
		if res := vk.CreateGraphicsPipelines(context.Device.LogicalDevice, vk.NullPipelineCache, 1,
			[]vk.GraphicsPipelineCreateInfo{pipelineCreateInfo}, context.Allocator, pipelines); res != vk.Success {
			vk.DestroyPipelineLayout(context.Device.LogicalDevice, layout, context.Allocator)
			outPipeline.PipelineLayout = vk.NullPipelineLayout
			return vulkanError(res, "vkCreateGraphicsPipelines failed for `%s`", desc.Name)
		}
		outPipeline.Handle = pipelines[0]
		return nil
	})
	if err != nil {
		return nil, err
	}

	core.LogDebug("Graphics pipeline `%s` created.", desc.Name)
	return outPipeline, nil
}

func (pipeline *VulkanPipeline) Destroy(context *VulkanContext) {
	_ = lockPool.SafeCall(PipelineManagement, func() error {
		if pipeline.Handle != vk.NullPipeline {
			vk.DestroyPipeline(context.Device.LogicalDevice, pipeline.Handle, context.Allocator)
			pipeline.Handle = vk.NullPipeline
		}
		if pipeline.PipelineLayout != vk.NullPipelineLayout {
			vk.DestroyPipelineLayout(context.Device.LogicalDevice, pipeline.PipelineLayout, context.Allocator)
			pipeline.PipelineLayout = vk.NullPipelineLayout
		}
		return nil
	})
}

func (pipeline *VulkanPipeline) Bind(cb *VulkanCommandBuffer) {
	vk.CmdBindPipeline(cb.Handle, vk.PipelineBindPointGraphics, pipeline.Handle)
}

func toBool32(b bool) vk.Bool32 {
	if b {
		return vk.True
	}
	return vk.False
}
