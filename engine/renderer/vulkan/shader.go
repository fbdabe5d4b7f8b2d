package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/deferred/engine/core"
	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
)

/**
 * @brief Represents a single shader stage.
 */
type VulkanShaderStage struct {
	/** @brief The asset name, e.g. `geom.vert`. */
	Name string
	/** @brief The internal shader module Handle. */
	Handle vk.ShaderModule
	/** @brief The pipeline shader stage creation info. */
	ShaderStageCreateInfo vk.PipelineShaderStageCreateInfo
}

// NewShaderStage creates a shader module from decoded SPIR-V words.
func NewShaderStage(context *VulkanContext, desc metadata.ShaderStageDescription, shader *metadata.ShaderData) (*VulkanShaderStage, error) {
	if shader == nil || len(shader.Words) == 0 {
		err := fmt.Errorf("%w: `%s` has no code", core.ErrInvalidShaderBinary, desc.Name)
		core.LogError("%s", err)
		return nil, err
	}

	createInfo := vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint64(len(shader.Words) * 4),
		PCode:    shader.Words,
	}

	stage := &VulkanShaderStage{Name: desc.Name}
	err := lockPool.SafeCall(ShaderManagement, func() error {
		var module vk.ShaderModule
		if res := vk.CreateShaderModule(context.Device.LogicalDevice, &createInfo, context.Allocator, &module); res != vk.Success {
			return vulkanError(res, "failed to create shader module `%s`", desc.Name)
		}
		stage.Handle = module
		return nil
	})
	if err != nil {
		return nil, err
	}

	entry := desc.EntryPoint
	if entry == "" {
		entry = "main"
	}
	stage.ShaderStageCreateInfo = vk.PipelineShaderStageCreateInfo{
		SType:  vk.StructureTypePipelineShaderStageCreateInfo,
		Stage:  vk.ShaderStageFlagBits(desc.Stage),
		Module: stage.Handle,
		PName:  VulkanSafeString(entry),
	}
	return stage, nil
}

func (s *VulkanShaderStage) Destroy(context *VulkanContext) {
	_ = lockPool.SafeCall(ShaderManagement, func() error {
		if s.Handle != vk.NullShaderModule {
			vk.DestroyShaderModule(context.Device.LogicalDevice, s.Handle, context.Allocator)
			s.Handle = vk.NullShaderModule
		}
		return nil
	})
}
