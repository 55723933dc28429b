package vuid

import (
	"fmt"

	"github.com/wippyai/objtrack/errors"
	"github.com/wippyai/objtrack/handle"
)

// Variant is a target API variant.
type Variant string

const (
	VariantVulkan   Variant = "vulkan"
	VariantVulkanSC Variant = "vulkansc"
)

// ParseVariant validates a variant name.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(s); v {
	case VariantVulkan, VariantVulkanSC:
		return v, nil
	}
	return "", errors.New(errors.PhaseConfig, errors.KindUnsupported).
		Value(s).
		Detail("unknown variant %q", s).
		Build()
}

// AllocKind selects the allocator rule of a destroy call.
type AllocKind string

const (
	// AllocCompat is reported when a custom-allocated object is destroyed
	// without the matching callbacks.
	AllocCompat AllocKind = "compatalloc"
	// AllocNull is reported when a default-allocated object is destroyed
	// with callbacks.
	AllocNull AllocKind = "nullalloc"
)

// Profile is the per-variant identifier and policy table. It is built once
// at startup and never mutated.
type Profile struct {
	Variant             Variant
	UndestroyedInstance string
	UndestroyedDevice   string
	// AllocatorChecks disables every allocator compatibility check when false.
	AllocatorChecks bool
	// Allocator maps "<name>-<kind>" or "<Type>-<name>-<kind>" to an identifier.
	Allocator map[string]string
	// BasePipeline maps "<Struct>-basePipelineHandle" to an identifier.
	BasePipeline map[string]string
	// ParentOverrides maps "<command>-<field>" to the parent identifier used
	// for handles nested in structs that have no common-parent rule.
	ParentOverrides     map[string]string
	ImplicitlyDestroyed []handle.Type
}

// AllocatorVUID returns the allocator rule for a destroyed parameter.
func (p Profile) AllocatorVUID(t handle.Type, name string, kind AllocKind) string {
	if !p.AllocatorChecks {
		return Undefined
	}
	if id, ok := p.Allocator[fmt.Sprintf("%s-%s", name, kind)]; ok {
		return id
	}
	if id, ok := p.Allocator[fmt.Sprintf("%s-%s-%s", t, name, kind)]; ok {
		return id
	}
	return Undefined
}

// BasePipelineVUID returns the derivative-pipeline rule for a create-info struct.
func (p Profile) BasePipelineVUID(structName, field string) string {
	if id, ok := p.BasePipeline[structName+"-"+field]; ok {
		return id
	}
	return Undefined
}

// ParentOverride returns the nested-parent rule for a command field.
func (p Profile) ParentOverride(command, field string) (string, bool) {
	id, ok := p.ParentOverrides[command+"-"+field]
	return id, ok
}

// ProfileFor returns the built-in profile of v.
func ProfileFor(v Variant) (Profile, error) {
	switch v {
	case VariantVulkan:
		return Profile{
			Variant:             v,
			UndestroyedInstance: "VUID-vkDestroyInstance-instance-00629",
			UndestroyedDevice:   "VUID-vkDestroyDevice-device-00378",
			AllocatorChecks:     true,
			Allocator:           allocatorVUIDs,
			BasePipeline:        basePipelineVUIDs,
			ParentOverrides:     parentOverrides,
			ImplicitlyDestroyed: []handle.Type{handle.TypeDisplayKHR, handle.TypeDisplayModeKHR},
		}, nil
	case VariantVulkanSC:
		// Vulkan SC has no allocation callbacks.
		return Profile{
			Variant:             v,
			UndestroyedInstance: "VUID-vkDestroyInstance-instance-00629",
			UndestroyedDevice:   "VUID-vkDestroyDevice-device-00378",
			BasePipeline:        basePipelineVUIDs,
			ParentOverrides:     parentOverrides,
			ImplicitlyDestroyed: []handle.Type{handle.TypeDisplayKHR, handle.TypeDisplayModeKHR},
		}, nil
	}
	_, err := ParseVariant(string(v))
	return Profile{}, err
}

var allocatorVUIDs = map[string]string{
	"fence-compatalloc":                    "VUID-vkDestroyFence-fence-01121",
	"fence-nullalloc":                      "VUID-vkDestroyFence-fence-01122",
	"event-compatalloc":                    "VUID-vkDestroyEvent-event-01146",
	"event-nullalloc":                      "VUID-vkDestroyEvent-event-01147",
	"buffer-compatalloc":                   "VUID-vkDestroyBuffer-buffer-00923",
	"buffer-nullalloc":                     "VUID-vkDestroyBuffer-buffer-00924",
	"image-compatalloc":                    "VUID-vkDestroyImage-image-01001",
	"image-nullalloc":                      "VUID-vkDestroyImage-image-01002",
	"shaderModule-compatalloc":             "VUID-vkDestroyShaderModule-shaderModule-01092",
	"shaderModule-nullalloc":               "VUID-vkDestroyShaderModule-shaderModule-01093",
	"pipeline-compatalloc":                 "VUID-vkDestroyPipeline-pipeline-00766",
	"pipeline-nullalloc":                   "VUID-vkDestroyPipeline-pipeline-00767",
	"sampler-compatalloc":                  "VUID-vkDestroySampler-sampler-01083",
	"sampler-nullalloc":                    "VUID-vkDestroySampler-sampler-01084",
	"renderPass-compatalloc":               "VUID-vkDestroyRenderPass-renderPass-00874",
	"renderPass-nullalloc":                 "VUID-vkDestroyRenderPass-renderPass-00875",
	"descriptorUpdateTemplate-compatalloc": "VUID-vkDestroyDescriptorUpdateTemplate-descriptorSetLayout-00356",
	"descriptorUpdateTemplate-nullalloc":   "VUID-vkDestroyDescriptorUpdateTemplate-descriptorSetLayout-00357",
	"imageView-compatalloc":                "VUID-vkDestroyImageView-imageView-01027",
	"imageView-nullalloc":                  "VUID-vkDestroyImageView-imageView-01028",
	"pipelineCache-compatalloc":            "VUID-vkDestroyPipelineCache-pipelineCache-00771",
	"pipelineCache-nullalloc":              "VUID-vkDestroyPipelineCache-pipelineCache-00772",
	"pipelineLayout-compatalloc":           "VUID-vkDestroyPipelineLayout-pipelineLayout-00299",
	"pipelineLayout-nullalloc":             "VUID-vkDestroyPipelineLayout-pipelineLayout-00300",
	"descriptorSetLayout-compatalloc":      "VUID-vkDestroyDescriptorSetLayout-descriptorSetLayout-00284",
	"descriptorSetLayout-nullalloc":        "VUID-vkDestroyDescriptorSetLayout-descriptorSetLayout-00285",
	"semaphore-compatalloc":                "VUID-vkDestroySemaphore-semaphore-01138",
	"semaphore-nullalloc":                  "VUID-vkDestroySemaphore-semaphore-01139",
	"queryPool-compatalloc":                "VUID-vkDestroyQueryPool-queryPool-00794",
	"queryPool-nullalloc":                  "VUID-vkDestroyQueryPool-queryPool-00795",
	"bufferView-compatalloc":               "VUID-vkDestroyBufferView-bufferView-00937",
	"bufferView-nullalloc":                 "VUID-vkDestroyBufferView-bufferView-00938",
	"surface-compatalloc":                  "VUID-vkDestroySurfaceKHR-surface-01267",
	"surface-nullalloc":                    "VUID-vkDestroySurfaceKHR-surface-01268",
	"framebuffer-compatalloc":              "VUID-vkDestroyFramebuffer-framebuffer-00893",
	"framebuffer-nullalloc":                "VUID-vkDestroyFramebuffer-framebuffer-00894",
	"shader-compatalloc":                   "VUID-vkDestroyShaderEXT-pAllocator-08483",
	"shader-nullalloc":                     "VUID-vkDestroyShaderEXT-pAllocator-08484",

	"VkVideoSessionKHR-videoSession-compatalloc":                     "VUID-vkDestroyVideoSessionKHR-videoSession-07193",
	"VkVideoSessionKHR-videoSession-nullalloc":                       "VUID-vkDestroyVideoSessionKHR-videoSession-07194",
	"VkVideoSessionParametersKHR-videoSessionParameters-compatalloc": "VUID-vkDestroyVideoSessionParametersKHR-videoSessionParameters-07213",
	"VkVideoSessionParametersKHR-videoSessionParameters-nullalloc":   "VUID-vkDestroyVideoSessionParametersKHR-videoSessionParameters-07214",
	"VkAccelerationStructureKHR-accelerationStructure-compatalloc":   "VUID-vkDestroyAccelerationStructureKHR-accelerationStructure-02443",
	"VkAccelerationStructureKHR-accelerationStructure-nullalloc":     "VUID-vkDestroyAccelerationStructureKHR-accelerationStructure-02444",
}

var basePipelineVUIDs = map[string]string{
	"VkGraphicsPipelineCreateInfo-basePipelineHandle":      "VUID-VkGraphicsPipelineCreateInfo-flags-07984",
	"VkComputePipelineCreateInfo-basePipelineHandle":       "VUID-VkComputePipelineCreateInfo-flags-07984",
	"VkRayTracingPipelineCreateInfoNV-basePipelineHandle":  "VUID-VkRayTracingPipelineCreateInfoNV-flags-07984",
	"VkRayTracingPipelineCreateInfoKHR-basePipelineHandle": "VUID-VkRayTracingPipelineCreateInfoKHR-flags-07984",
}

var parentOverrides = map[string]string{
	"vkCreateImageView-image": "VUID-vkCreateImageView-image-09179",
}
