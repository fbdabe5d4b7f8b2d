package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/deferred/engine/core"
	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
)

// nullDescriptorSet is the zero handle, goki has no named constant for it.
var nullDescriptorSet vk.DescriptorSet

// VulkanDescriptors owns the set layouts of the deferred pipelines and the
// single pool every set is allocated from. Sets are long lived, only their
// buffer contents change per frame.
type VulkanDescriptors struct {
	Layouts map[string]vk.DescriptorSetLayout
	Pool    vk.DescriptorPool
}

func NewDescriptors(context *VulkanContext, framesInFlight uint32) (*VulkanDescriptors, error) {
	d := &VulkanDescriptors{
		Layouts: make(map[string]vk.DescriptorSetLayout),
	}
	device := context.Device.LogicalDevice

	err := lockPool.SafeCall(DescriptorManagement, func() error {
		for _, layout := range metadata.DescriptorSetLayouts() {
			bindings := make([]vk.DescriptorSetLayoutBinding, len(layout.Bindings))
			for i, b := range layout.Bindings {
				bindings[i] = vk.DescriptorSetLayoutBinding{
					Binding:         b.Binding,
					DescriptorType:  vkDescriptorType(b.Type),
					DescriptorCount: b.Count,
					StageFlags:      vkShaderStage(b.Stages),
				}
			}
			createInfo := vk.DescriptorSetLayoutCreateInfo{
				SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
				BindingCount: uint32(len(bindings)),
				PBindings:    bindings,
			}
			var handle vk.DescriptorSetLayout
			if res := vk.CreateDescriptorSetLayout(device, &createInfo, context.Allocator, &handle); res != vk.Success {
				return vulkanError(res, "failed to create descriptor set layout `%s`", layout.Name)
			}
			d.Layouts[layout.Name] = handle
		}

		sizes := metadata.DescriptorPoolFor(framesInFlight)
		poolInfo := vk.DescriptorPoolCreateInfo{
			SType:         vk.StructureTypeDescriptorPoolCreateInfo,
			MaxSets:       sizes.MaxSets,
			PoolSizeCount: 2,
			PPoolSizes: []vk.DescriptorPoolSize{
				{Type: vk.DescriptorTypeUniformBuffer, DescriptorCount: sizes.UniformBuffers},
				{Type: vk.DescriptorTypeCombinedImageSampler, DescriptorCount: sizes.Samplers},
			},
		}
		var pool vk.DescriptorPool
		if res := vk.CreateDescriptorPool(device, &poolInfo, context.Allocator, &pool); res != vk.Success {
			return vulkanError(res, "failed to create descriptor pool")
		}
		d.Pool = pool
		return nil
	})
	if err != nil {
		d.Destroy(context)
		return nil, err
	}
	core.LogDebug("Descriptor pool created with %d set layouts.", len(d.Layouts))
	return d, nil
}

// LayoutsFor returns the set layouts in the order a pipeline declares them.
func (d *VulkanDescriptors) LayoutsFor(names []string) ([]vk.DescriptorSetLayout, error) {
	layouts := make([]vk.DescriptorSetLayout, len(names))
	for i, name := range names {
		layout, ok := d.Layouts[name]
		if !ok {
			return nil, fmt.Errorf("unknown descriptor set layout `%s`", name)
		}
		layouts[i] = layout
	}
	return layouts, nil
}

func (d *VulkanDescriptors) Allocate(context *VulkanContext, layout string) (vk.DescriptorSet, error) {
	var set vk.DescriptorSet
	handle, ok := d.Layouts[layout]
	if !ok {
		return set, fmt.Errorf("unknown descriptor set layout `%s`", layout)
	}
	allocateInfo := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     d.Pool,
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{handle},
	}
	err := lockPool.SafeCall(DescriptorManagement, func() error {
		if res := vk.AllocateDescriptorSets(context.Device.LogicalDevice, &allocateInfo, &set); res != vk.Success {
			return vulkanError(res, "failed to allocate descriptor set `%s`", layout)
		}
		return nil
	})
	return set, err
}

func WriteUniformBuffer(context *VulkanContext, set vk.DescriptorSet, binding uint32, buffer vk.Buffer, size uint64) {
	write := vk.WriteDescriptorSet{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          set,
		DstBinding:      binding,
		DstArrayElement: 0,
		DescriptorCount: 1,
		DescriptorType:  vk.DescriptorTypeUniformBuffer,
		PBufferInfo: []vk.DescriptorBufferInfo{{
			Buffer: buffer,
			Offset: 0,
			Range:  vk.DeviceSize(size),
		}},
	}
	vk.UpdateDescriptorSets(context.Device.LogicalDevice, 1, []vk.WriteDescriptorSet{write}, 0, nil)
}

func WriteImageSampler(context *VulkanContext, set vk.DescriptorSet, binding uint32, view vk.ImageView, sampler vk.Sampler) {
	write := vk.WriteDescriptorSet{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          set,
		DstBinding:      binding,
		DstArrayElement: 0,
		DescriptorCount: 1,
		DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
		PImageInfo: []vk.DescriptorImageInfo{{
			Sampler:     sampler,
			ImageView:   view,
			ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal,
		}},
	}
	vk.UpdateDescriptorSets(context.Device.LogicalDevice, 1, []vk.WriteDescriptorSet{write}, 0, nil)
}

func (d *VulkanDescriptors) Destroy(context *VulkanContext) {
	device := context.Device.LogicalDevice
	_ = lockPool.SafeCall(DescriptorManagement, func() error {
		// Destroying the pool frees every set allocated from it.
		if d.Pool != vk.NullDescriptorPool {
			vk.DestroyDescriptorPool(device, d.Pool, context.Allocator)
			d.Pool = vk.NullDescriptorPool
		}
		for name, layout := range d.Layouts {
			vk.DestroyDescriptorSetLayout(device, layout, context.Allocator)
			delete(d.Layouts, name)
		}
		return nil
	})
}
