// Package handle defines API handle values and the closed set of handle kinds.
package handle

import "fmt"

// Handle is an opaque API object identifier.
// Handle 0 is the null handle and never refers to a live object.
type Handle uint64

// Null is the null handle.
const Null Handle = 0

// IsNull reports whether h is the null handle.
func (h Handle) IsNull() bool {
	return h == Null
}

func (h Handle) String() string {
	return fmt.Sprintf("0x%x", uint64(h))
}

// Type identifies a handle kind.
type Type uint32

const (
	TypeUnknown Type = iota
	TypeInstance
	TypePhysicalDevice
	TypeDevice
	TypeQueue
	TypeCommandBuffer
	TypeDeviceMemory
	TypeCommandPool
	TypeBuffer
	TypeBufferView
	TypeImage
	TypeImageView
	TypeShaderModule
	TypePipeline
	TypePipelineLayout
	TypeSampler
	TypeDescriptorSet
	TypeDescriptorSetLayout
	TypeDescriptorPool
	TypeFence
	TypeSemaphore
	TypeEvent
	TypeQueryPool
	TypeFramebuffer
	TypeRenderPass
	TypePipelineCache
	TypeDescriptorUpdateTemplate
	TypeSamplerYcbcrConversion
	TypeSurfaceKHR
	TypeSwapchainKHR
	TypeDisplayKHR
	TypeDisplayModeKHR
	TypeDebugReportCallbackEXT
	TypeDebugUtilsMessengerEXT
	TypeAccelerationStructureKHR
	TypeShaderEXT
	TypeVideoSessionKHR
	TypeVideoSessionParametersKHR
	TypePrivateDataSlot
	TypeValidationCacheEXT

	typeCount
)

var typeNames = [typeCount]string{
	TypeUnknown:                   "Unknown",
	TypeInstance:                  "VkInstance",
	TypePhysicalDevice:            "VkPhysicalDevice",
	TypeDevice:                    "VkDevice",
	TypeQueue:                     "VkQueue",
	TypeCommandBuffer:             "VkCommandBuffer",
	TypeDeviceMemory:              "VkDeviceMemory",
	TypeCommandPool:               "VkCommandPool",
	TypeBuffer:                    "VkBuffer",
	TypeBufferView:                "VkBufferView",
	TypeImage:                     "VkImage",
	TypeImageView:                 "VkImageView",
	TypeShaderModule:              "VkShaderModule",
	TypePipeline:                  "VkPipeline",
	TypePipelineLayout:            "VkPipelineLayout",
	TypeSampler:                   "VkSampler",
	TypeDescriptorSet:             "VkDescriptorSet",
	TypeDescriptorSetLayout:       "VkDescriptorSetLayout",
	TypeDescriptorPool:            "VkDescriptorPool",
	TypeFence:                     "VkFence",
	TypeSemaphore:                 "VkSemaphore",
	TypeEvent:                     "VkEvent",
	TypeQueryPool:                 "VkQueryPool",
	TypeFramebuffer:               "VkFramebuffer",
	TypeRenderPass:                "VkRenderPass",
	TypePipelineCache:             "VkPipelineCache",
	TypeDescriptorUpdateTemplate:  "VkDescriptorUpdateTemplate",
	TypeSamplerYcbcrConversion:    "VkSamplerYcbcrConversion",
	TypeSurfaceKHR:                "VkSurfaceKHR",
	TypeSwapchainKHR:              "VkSwapchainKHR",
	TypeDisplayKHR:                "VkDisplayKHR",
	TypeDisplayModeKHR:            "VkDisplayModeKHR",
	TypeDebugReportCallbackEXT:    "VkDebugReportCallbackEXT",
	TypeDebugUtilsMessengerEXT:    "VkDebugUtilsMessengerEXT",
	TypeAccelerationStructureKHR:  "VkAccelerationStructureKHR",
	TypeShaderEXT:                 "VkShaderEXT",
	TypeVideoSessionKHR:           "VkVideoSessionKHR",
	TypeVideoSessionParametersKHR: "VkVideoSessionParametersKHR",
	TypePrivateDataSlot:           "VkPrivateDataSlot",
	TypeValidationCacheEXT:        "VkValidationCacheEXT",
}

var typesByName = func() map[string]Type {
	m := make(map[string]Type, typeCount)
	for t := Type(1); t < typeCount; t++ {
		m[typeNames[t]] = t
	}
	return m
}()

// String returns the API type name, e.g. "VkBuffer".
func (t Type) String() string {
	if t < typeCount {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint32(t))
}

// Valid reports whether t is a known, non-zero handle kind.
func (t Type) Valid() bool {
	return t > TypeUnknown && t < typeCount
}

// ParseType returns the handle kind for an API type name.
func ParseType(name string) (Type, bool) {
	t, ok := typesByName[name]
	return t, ok
}

// Types returns every known handle kind in declaration order.
func Types() []Type {
	out := make([]Type, 0, typeCount-1)
	for t := Type(1); t < typeCount; t++ {
		out = append(out, t)
	}
	return out
}
