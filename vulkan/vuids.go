package vulkan

import "github.com/wippyai/objtrack/vuid"

// KnownVUIDs is the built-in identifier catalog for the declared commands.
// Checks whose identifier is missing here report vuid.Undefined, and parent
// checks without an identifier are not performed.
var KnownVUIDs = []string{
	"VUID-vkDestroyInstance-instance-parameter",
	"VUID-vkEnumeratePhysicalDevices-instance-parameter",
	"VUID-vkEnumeratePhysicalDeviceGroups-instance-parameter",
	"VUID-vkCreateDevice-physicalDevice-parameter",
	"VUID-vkDestroyDevice-device-parameter",
	"VUID-vkGetDeviceQueue-device-parameter",
	"VUID-vkDeviceWaitIdle-device-parameter",

	"VUID-vkQueueSubmit-queue-parameter",
	"VUID-vkQueueSubmit-fence-parameter",
	"VUID-vkQueueSubmit-commonparent",
	"VUID-VkSubmitInfo-pWaitSemaphores-parameter",
	"VUID-VkSubmitInfo-pCommandBuffers-parameter",
	"VUID-VkSubmitInfo-pSignalSemaphores-parameter",
	"VUID-VkSubmitInfo-commonparent",

	"VUID-vkAllocateMemory-device-parameter",
	"VUID-vkFreeMemory-device-parameter",
	"VUID-vkFreeMemory-memory-parameter",
	"VUID-vkFreeMemory-memory-parent",
	"VUID-vkBindBufferMemory-device-parameter",
	"VUID-vkBindBufferMemory-buffer-parameter",
	"VUID-vkBindBufferMemory-buffer-parent",
	"VUID-vkBindBufferMemory-memory-parameter",
	"VUID-vkBindBufferMemory-memory-parent",

	"VUID-vkCreateBuffer-device-parameter",
	"VUID-vkDestroyBuffer-device-parameter",
	"VUID-vkDestroyBuffer-buffer-parameter",
	"VUID-vkDestroyBuffer-buffer-parent",
	"VUID-vkCreateBufferView-device-parameter",
	"VUID-VkBufferViewCreateInfo-buffer-parameter",
	"VUID-vkDestroyBufferView-device-parameter",
	"VUID-vkDestroyBufferView-bufferView-parameter",
	"VUID-vkDestroyBufferView-bufferView-parent",
	"VUID-vkCreateImage-device-parameter",
	"VUID-vkDestroyImage-device-parameter",
	"VUID-vkDestroyImage-image-parameter",
	"VUID-vkDestroyImage-image-parent",
	"VUID-vkCreateImageView-device-parameter",
	"VUID-VkImageViewCreateInfo-image-parameter",
	"VUID-vkCreateImageView-image-09179",
	"VUID-vkDestroyImageView-device-parameter",
	"VUID-vkDestroyImageView-imageView-parameter",
	"VUID-vkDestroyImageView-imageView-parent",
	"VUID-vkCreateSampler-device-parameter",
	"VUID-vkDestroySampler-device-parameter",
	"VUID-vkDestroySampler-sampler-parameter",
	"VUID-vkDestroySampler-sampler-parent",
	"VUID-vkCreateFence-device-parameter",
	"VUID-vkDestroyFence-device-parameter",
	"VUID-vkDestroyFence-fence-parameter",
	"VUID-vkDestroyFence-fence-parent",
	"VUID-vkCreateSemaphore-device-parameter",
	"VUID-vkDestroySemaphore-device-parameter",
	"VUID-vkDestroySemaphore-semaphore-parameter",
	"VUID-vkDestroySemaphore-semaphore-parent",
	"VUID-vkCreateEvent-device-parameter",
	"VUID-vkDestroyEvent-device-parameter",
	"VUID-vkDestroyEvent-event-parameter",
	"VUID-vkDestroyEvent-event-parent",
	"VUID-vkCreateQueryPool-device-parameter",
	"VUID-vkDestroyQueryPool-device-parameter",
	"VUID-vkDestroyQueryPool-queryPool-parameter",
	"VUID-vkDestroyQueryPool-queryPool-parent",
	"VUID-vkCreateShaderModule-device-parameter",
	"VUID-vkDestroyShaderModule-device-parameter",
	"VUID-vkDestroyShaderModule-shaderModule-parameter",
	"VUID-vkDestroyShaderModule-shaderModule-parent",
	"VUID-vkCreatePipelineCache-device-parameter",
	"VUID-vkDestroyPipelineCache-device-parameter",
	"VUID-vkDestroyPipelineCache-pipelineCache-parameter",
	"VUID-vkDestroyPipelineCache-pipelineCache-parent",
	"VUID-vkCreateRenderPass-device-parameter",
	"VUID-vkDestroyRenderPass-device-parameter",
	"VUID-vkDestroyRenderPass-renderPass-parameter",
	"VUID-vkDestroyRenderPass-renderPass-parent",
	"VUID-vkCreatePipelineLayout-device-parameter",
	"VUID-VkPipelineLayoutCreateInfo-pSetLayouts-parameter",
	"VUID-vkDestroyPipelineLayout-device-parameter",
	"VUID-vkDestroyPipelineLayout-pipelineLayout-parameter",
	"VUID-vkDestroyPipelineLayout-pipelineLayout-parent",
	"VUID-vkCreateDescriptorSetLayout-device-parameter",
	"VUID-vkDestroyDescriptorSetLayout-device-parameter",
	"VUID-vkDestroyDescriptorSetLayout-descriptorSetLayout-parameter",
	"VUID-vkDestroyDescriptorSetLayout-descriptorSetLayout-parent",
	"VUID-vkCreateFramebuffer-device-parameter",
	"VUID-VkFramebufferCreateInfo-renderPass-parameter",
	"VUID-VkFramebufferCreateInfo-commonparent",
	"VUID-vkDestroyFramebuffer-device-parameter",
	"VUID-vkDestroyFramebuffer-framebuffer-parameter",
	"VUID-vkDestroyFramebuffer-framebuffer-parent",

	"VUID-vkCreateGraphicsPipelines-device-parameter",
	"VUID-vkCreateGraphicsPipelines-pipelineCache-parameter",
	"VUID-vkCreateGraphicsPipelines-pipelineCache-parent",
	"VUID-VkGraphicsPipelineCreateInfo-layout-parameter",
	"VUID-VkGraphicsPipelineCreateInfo-renderPass-parameter",
	"VUID-VkGraphicsPipelineCreateInfo-commonparent",
	"VUID-VkPipelineShaderStageCreateInfo-module-parameter",
	"VUID-vkCreateComputePipelines-device-parameter",
	"VUID-vkCreateComputePipelines-pipelineCache-parameter",
	"VUID-vkCreateComputePipelines-pipelineCache-parent",
	"VUID-VkComputePipelineCreateInfo-layout-parameter",
	"VUID-VkComputePipelineCreateInfo-commonparent",
	"VUID-vkDestroyPipeline-device-parameter",
	"VUID-vkDestroyPipeline-pipeline-parameter",
	"VUID-vkDestroyPipeline-pipeline-parent",
	"VUID-vkCreateShadersEXT-device-parameter",
	"VUID-VkShaderCreateInfoEXT-pSetLayouts-parameter",
	"VUID-vkDestroyShaderEXT-device-parameter",
	"VUID-vkDestroyShaderEXT-shader-parameter",
	"VUID-vkDestroyShaderEXT-shader-parent",

	"VUID-vkCreateCommandPool-device-parameter",
	"VUID-vkDestroyCommandPool-device-parameter",
	"VUID-vkDestroyCommandPool-commandPool-parameter",
	"VUID-vkDestroyCommandPool-commandPool-parent",
	"VUID-vkAllocateCommandBuffers-device-parameter",
	"VUID-VkCommandBufferAllocateInfo-commandPool-parameter",
	"VUID-vkFreeCommandBuffers-device-parameter",
	"VUID-vkFreeCommandBuffers-commandPool-parameter",
	"VUID-vkFreeCommandBuffers-commandPool-parent",
	"VUID-vkFreeCommandBuffers-pCommandBuffers-parent",
	"VUID-vkBeginCommandBuffer-commandBuffer-parameter",
	"VUID-VkCommandBufferInheritanceInfo-commonparent",
	"VUID-vkCreateDescriptorPool-device-parameter",
	"VUID-vkDestroyDescriptorPool-device-parameter",
	"VUID-vkDestroyDescriptorPool-descriptorPool-parameter",
	"VUID-vkDestroyDescriptorPool-descriptorPool-parent",
	"VUID-vkResetDescriptorPool-device-parameter",
	"VUID-vkResetDescriptorPool-descriptorPool-parameter",
	"VUID-vkResetDescriptorPool-descriptorPool-parent",
	"VUID-vkAllocateDescriptorSets-device-parameter",
	"VUID-VkDescriptorSetAllocateInfo-descriptorPool-parameter",
	"VUID-VkDescriptorSetAllocateInfo-pSetLayouts-parameter",
	"VUID-VkDescriptorSetAllocateInfo-commonparent",
	"VUID-vkFreeDescriptorSets-device-parameter",
	"VUID-vkFreeDescriptorSets-descriptorPool-parameter",
	"VUID-vkFreeDescriptorSets-descriptorPool-parent",
	"VUID-vkFreeDescriptorSets-pDescriptorSets-parent",

	"VUID-vkCmdBindPipeline-commandBuffer-parameter",
	"VUID-vkCmdBindPipeline-pipeline-parameter",
	"VUID-vkCmdBindPipeline-commonparent",
	"VUID-vkCmdCopyBuffer-commandBuffer-parameter",
	"VUID-vkCmdCopyBuffer-srcBuffer-parameter",
	"VUID-vkCmdCopyBuffer-dstBuffer-parameter",
	"VUID-vkCmdCopyBuffer-commonparent",
	"VUID-vkCmdBindDescriptorSets-commandBuffer-parameter",
	"VUID-vkCmdBindDescriptorSets-layout-parameter",
	"VUID-vkCmdBindDescriptorSets-pDescriptorSets-parameter",
	"VUID-vkCmdBindDescriptorSets-commonparent",

	"VUID-vkCreateHeadlessSurfaceEXT-instance-parameter",
	"VUID-vkDestroySurfaceKHR-instance-parameter",
	"VUID-vkDestroySurfaceKHR-surface-parameter",
	"VUID-vkCreateSwapchainKHR-device-parameter",
	"VUID-VkSwapchainCreateInfoKHR-surface-parameter",
	"VUID-VkSwapchainCreateInfoKHR-oldSwapchain-parameter",
	"VUID-VkSwapchainCreateInfoKHR-commonparent",
	"VUID-vkDestroySwapchainKHR-device-parameter",
	"VUID-vkDestroySwapchainKHR-swapchain-parameter",
	"VUID-vkGetSwapchainImagesKHR-device-parameter",
	"VUID-vkGetSwapchainImagesKHR-swapchain-parameter",
	"VUID-vkGetPhysicalDeviceDisplayPropertiesKHR-physicalDevice-parameter",
	"VUID-vkGetDisplayModePropertiesKHR-physicalDevice-parameter",
	"VUID-vkGetDisplayModePropertiesKHR-display-parameter",
	"VUID-vkCreateDisplayModeKHR-physicalDevice-parameter",
	"VUID-vkCreateDisplayModeKHR-display-parameter",
	"VUID-vkCreateDebugUtilsMessengerEXT-instance-parameter",
	"VUID-vkDestroyDebugUtilsMessengerEXT-instance-parameter",
	"VUID-vkDestroyDebugUtilsMessengerEXT-messenger-parameter",
}

// Catalog returns a catalog holding KnownVUIDs.
func Catalog() *vuid.Catalog {
	return vuid.NewCatalog(KnownVUIDs...)
}
