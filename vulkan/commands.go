package vulkan

import (
	"go.uber.org/multierr"

	"github.com/wippyai/objtrack/handle"
	"github.com/wippyai/objtrack/schema"
)

var structs = []schema.Struct{
	{Name: "VkBufferViewCreateInfo", Fields: []schema.Field{
		scalar("sType", "VkStructureType"),
		scalar("flags", "VkBufferViewCreateFlags"),
		h("buffer", handle.TypeBuffer),
		scalar("format", "VkFormat"),
	}},
	{Name: "VkImageViewCreateInfo", Fields: []schema.Field{
		scalar("sType", "VkStructureType"),
		scalar("flags", "VkImageViewCreateFlags"),
		h("image", handle.TypeImage),
		scalar("viewType", "VkImageViewType"),
	}},
	{Name: "VkPipelineLayoutCreateInfo", Fields: []schema.Field{
		scalar("sType", "VkStructureType"),
		count("setLayoutCount"),
		optHArr("pSetLayouts", handle.TypeDescriptorSetLayout, "setLayoutCount"),
	}},
	{Name: "VkDescriptorSetLayoutBinding", Fields: []schema.Field{
		scalar("binding", "uint32_t"),
		scalar("descriptorType", "VkDescriptorType"),
		count("descriptorCount"),
		noAutoHArr("pImmutableSamplers", handle.TypeSampler, "descriptorCount"),
	}},
	{Name: "VkDescriptorSetLayoutCreateInfo", Fields: []schema.Field{
		scalar("sType", "VkStructureType"),
		count("bindingCount"),
		stArr("pBindings", "VkDescriptorSetLayoutBinding", "bindingCount"),
	}},
	{Name: "VkFramebufferCreateInfo", Fields: []schema.Field{
		scalar("sType", "VkStructureType"),
		scalar("flags", "VkFramebufferCreateFlags"),
		h("renderPass", handle.TypeRenderPass),
		count("attachmentCount"),
		optHArr("pAttachments", handle.TypeImageView, "attachmentCount"),
	}},
	{Name: "VkPipelineShaderStageCreateInfo", Fields: []schema.Field{
		scalar("sType", "VkStructureType"),
		scalar("stage", "VkShaderStageFlagBits"),
		optH("module", handle.TypeShaderModule),
		ptr("pName", "char"),
	}},
	{Name: "VkGraphicsPipelineCreateInfo", Fields: []schema.Field{
		scalar("sType", "VkStructureType"),
		scalar("flags", "VkPipelineCreateFlags"),
		count("stageCount"),
		stArr("pStages", "VkPipelineShaderStageCreateInfo", "stageCount"),
		h("layout", handle.TypePipelineLayout),
		optH("renderPass", handle.TypeRenderPass),
		scalar("subpass", "uint32_t"),
		optH("basePipelineHandle", handle.TypePipeline),
		scalar("basePipelineIndex", "int32_t"),
	}},
	{Name: "VkComputePipelineCreateInfo", Fields: []schema.Field{
		scalar("sType", "VkStructureType"),
		scalar("flags", "VkPipelineCreateFlags"),
		inline("stage", "VkPipelineShaderStageCreateInfo"),
		h("layout", handle.TypePipelineLayout),
		optH("basePipelineHandle", handle.TypePipeline),
		scalar("basePipelineIndex", "int32_t"),
	}},
	{Name: "VkShaderCreateInfoEXT", Fields: []schema.Field{
		scalar("sType", "VkStructureType"),
		scalar("stage", "VkShaderStageFlagBits"),
		count("setLayoutCount"),
		optHArr("pSetLayouts", handle.TypeDescriptorSetLayout, "setLayoutCount"),
	}},
	{Name: "VkCommandBufferAllocateInfo", Fields: []schema.Field{
		scalar("sType", "VkStructureType"),
		h("commandPool", handle.TypeCommandPool),
		scalar("level", "VkCommandBufferLevel"),
		count("commandBufferCount"),
	}},
	{Name: "VkCommandBufferInheritanceInfo", Fields: []schema.Field{
		scalar("sType", "VkStructureType"),
		optH("renderPass", handle.TypeRenderPass),
		scalar("subpass", "uint32_t"),
		optH("framebuffer", handle.TypeFramebuffer),
	}},
	{Name: "VkCommandBufferBeginInfo", Fields: []schema.Field{
		scalar("sType", "VkStructureType"),
		scalar("flags", "VkCommandBufferUsageFlags"),
		optSt("pInheritanceInfo", "VkCommandBufferInheritanceInfo"),
	}},
	{Name: "VkDescriptorSetAllocateInfo", Fields: []schema.Field{
		scalar("sType", "VkStructureType"),
		h("descriptorPool", handle.TypeDescriptorPool),
		count("descriptorSetCount"),
		hArr("pSetLayouts", handle.TypeDescriptorSetLayout, "descriptorSetCount"),
	}},
	{Name: "VkSubmitInfo", Fields: []schema.Field{
		scalar("sType", "VkStructureType"),
		count("waitSemaphoreCount"),
		hArr("pWaitSemaphores", handle.TypeSemaphore, "waitSemaphoreCount"),
		count("commandBufferCount"),
		hArr("pCommandBuffers", handle.TypeCommandBuffer, "commandBufferCount"),
		count("signalSemaphoreCount"),
		hArr("pSignalSemaphores", handle.TypeSemaphore, "signalSemaphoreCount"),
	}},
	{Name: "VkSwapchainCreateInfoKHR", Fields: []schema.Field{
		scalar("sType", "VkStructureType"),
		h("surface", handle.TypeSurfaceKHR),
		count("minImageCount"),
		optH("oldSwapchain", handle.TypeSwapchainKHR),
	}},
	{Name: "VkPhysicalDeviceGroupProperties", Fields: []schema.Field{
		scalar("sType", "VkStructureType"),
		count("physicalDeviceCount"),
		hArr("physicalDevices", handle.TypePhysicalDevice, "physicalDeviceCount"),
		scalar("subsetAllocation", "VkBool32"),
	}},
	{Name: "VkDisplayPropertiesKHR", Fields: []schema.Field{
		h("display", handle.TypeDisplayKHR),
		ptr("displayName", "char"),
	}},
	{Name: "VkDisplayModePropertiesKHR", Fields: []schema.Field{
		h("displayMode", handle.TypeDisplayModeKHR),
		scalar("parameters", "VkDisplayModeParametersKHR"),
	}},
}

var groups = []schema.Group{
	{Struct: "VkPhysicalDeviceGroupProperties", Handles: "physicalDevices", Count: "physicalDeviceCount", Command: "vkEnumeratePhysicalDevices"},
	{Struct: "VkDisplayPropertiesKHR", Handles: "display"},
	{Struct: "VkDisplayModePropertiesKHR", Handles: "displayMode"},
}

// createDestroy declares the vkCreateX / vkDestroyX pair of a device object
// whose create info carries no handles.
func createDestroy(name, field string, t handle.Type) []schema.Command {
	return []schema.Command{
		{Name: "vkCreate" + name, ReturnsResult: true, Params: []schema.Field{
			h("device", handle.TypeDevice),
			ptr("pCreateInfo", "Vk"+name+"CreateInfo"),
			allocator(),
			out("p"+name, t),
		}},
		{Name: "vkDestroy" + name, Params: []schema.Field{
			h("device", handle.TypeDevice),
			optH(field, t),
			allocator(),
		}},
	}
}

func commands() []schema.Command {
	cmds := []schema.Command{
		// instance and physical devices
		{Name: "vkCreateInstance", ReturnsResult: true, Params: []schema.Field{
			ptr("pCreateInfo", "VkInstanceCreateInfo"),
			allocator(),
			out("pInstance", handle.TypeInstance),
		}},
		{Name: "vkDestroyInstance", Params: []schema.Field{
			optH("instance", handle.TypeInstance),
			allocator(),
		}},
		{Name: "vkEnumeratePhysicalDevices", ReturnsResult: true, Params: []schema.Field{
			h("instance", handle.TypeInstance),
			countPtr("pPhysicalDeviceCount"),
			optHArr("pPhysicalDevices", handle.TypePhysicalDevice, "pPhysicalDeviceCount"),
		}},
		{Name: "vkEnumeratePhysicalDeviceGroups", ReturnsResult: true, Params: []schema.Field{
			h("instance", handle.TypeInstance),
			countPtr("pPhysicalDeviceGroupCount"),
			stArr("pPhysicalDeviceGroupProperties", "VkPhysicalDeviceGroupProperties", "pPhysicalDeviceGroupCount"),
		}},
		{Name: "vkEnumeratePhysicalDeviceGroupsKHR", Alias: "vkEnumeratePhysicalDeviceGroups", ReturnsResult: true, Params: []schema.Field{
			h("instance", handle.TypeInstance),
			countPtr("pPhysicalDeviceGroupCount"),
			stArr("pPhysicalDeviceGroupProperties", "VkPhysicalDeviceGroupProperties", "pPhysicalDeviceGroupCount"),
		}},

		// devices and queues
		{Name: "vkCreateDevice", ReturnsResult: true, Params: []schema.Field{
			h("physicalDevice", handle.TypePhysicalDevice),
			ptr("pCreateInfo", "VkDeviceCreateInfo"),
			allocator(),
			out("pDevice", handle.TypeDevice),
		}},
		{Name: "vkDestroyDevice", Params: []schema.Field{
			optH("device", handle.TypeDevice),
			allocator(),
		}},
		{Name: "vkGetDeviceQueue", Params: []schema.Field{
			h("device", handle.TypeDevice),
			scalar("queueFamilyIndex", "uint32_t"),
			scalar("queueIndex", "uint32_t"),
			out("pQueue", handle.TypeQueue),
		}},
		{Name: "vkQueueSubmit", ReturnsResult: true, Params: []schema.Field{
			h("queue", handle.TypeQueue),
			count("submitCount"),
			stArr("pSubmits", "VkSubmitInfo", "submitCount"),
			optH("fence", handle.TypeFence),
		}},
		{Name: "vkDeviceWaitIdle", ReturnsResult: true, Params: []schema.Field{
			h("device", handle.TypeDevice),
		}},

		// memory
		{Name: "vkAllocateMemory", ReturnsResult: true, Params: []schema.Field{
			h("device", handle.TypeDevice),
			ptr("pAllocateInfo", "VkMemoryAllocateInfo"),
			allocator(),
			out("pMemory", handle.TypeDeviceMemory),
		}},
		{Name: "vkFreeMemory", Params: []schema.Field{
			h("device", handle.TypeDevice),
			optH("memory", handle.TypeDeviceMemory),
			allocator(),
		}},
		{Name: "vkBindBufferMemory", ReturnsResult: true, Params: []schema.Field{
			h("device", handle.TypeDevice),
			h("buffer", handle.TypeBuffer),
			h("memory", handle.TypeDeviceMemory),
			scalar("memoryOffset", "VkDeviceSize"),
		}},
	}

	cmds = append(cmds, createDestroy("Buffer", "buffer", handle.TypeBuffer)...)
	cmds = append(cmds, createDestroy("Image", "image", handle.TypeImage)...)
	cmds = append(cmds, createDestroy("Sampler", "sampler", handle.TypeSampler)...)
	cmds = append(cmds, createDestroy("Fence", "fence", handle.TypeFence)...)
	cmds = append(cmds, createDestroy("Semaphore", "semaphore", handle.TypeSemaphore)...)
	cmds = append(cmds, createDestroy("Event", "event", handle.TypeEvent)...)
	cmds = append(cmds, createDestroy("QueryPool", "queryPool", handle.TypeQueryPool)...)
	cmds = append(cmds, createDestroy("ShaderModule", "shaderModule", handle.TypeShaderModule)...)
	cmds = append(cmds, createDestroy("PipelineCache", "pipelineCache", handle.TypePipelineCache)...)
	cmds = append(cmds, createDestroy("RenderPass", "renderPass", handle.TypeRenderPass)...)
	cmds = append(cmds, createDestroy("CommandPool", "commandPool", handle.TypeCommandPool)...)
	cmds = append(cmds, createDestroy("DescriptorPool", "descriptorPool", handle.TypeDescriptorPool)...)

	cmds = append(cmds, []schema.Command{
		// device objects whose create info references other handles
		{Name: "vkCreateBufferView", ReturnsResult: true, Params: []schema.Field{
			h("device", handle.TypeDevice),
			st("pCreateInfo", "VkBufferViewCreateInfo"),
			allocator(),
			out("pView", handle.TypeBufferView),
		}},
		{Name: "vkDestroyBufferView", Params: []schema.Field{
			h("device", handle.TypeDevice),
			optH("bufferView", handle.TypeBufferView),
			allocator(),
		}},
		{Name: "vkCreateImageView", ReturnsResult: true, Params: []schema.Field{
			h("device", handle.TypeDevice),
			st("pCreateInfo", "VkImageViewCreateInfo"),
			allocator(),
			out("pView", handle.TypeImageView),
		}},
		{Name: "vkDestroyImageView", Params: []schema.Field{
			h("device", handle.TypeDevice),
			optH("imageView", handle.TypeImageView),
			allocator(),
		}},
		{Name: "vkCreatePipelineLayout", ReturnsResult: true, Params: []schema.Field{
			h("device", handle.TypeDevice),
			st("pCreateInfo", "VkPipelineLayoutCreateInfo"),
			allocator(),
			out("pPipelineLayout", handle.TypePipelineLayout),
		}},
		{Name: "vkDestroyPipelineLayout", Params: []schema.Field{
			h("device", handle.TypeDevice),
			optH("pipelineLayout", handle.TypePipelineLayout),
			allocator(),
		}},
		{Name: "vkCreateDescriptorSetLayout", ReturnsResult: true, Params: []schema.Field{
			h("device", handle.TypeDevice),
			st("pCreateInfo", "VkDescriptorSetLayoutCreateInfo"),
			allocator(),
			out("pSetLayout", handle.TypeDescriptorSetLayout),
		}},
		{Name: "vkDestroyDescriptorSetLayout", Params: []schema.Field{
			h("device", handle.TypeDevice),
			optH("descriptorSetLayout", handle.TypeDescriptorSetLayout),
			allocator(),
		}},
		{Name: "vkCreateFramebuffer", ReturnsResult: true, Params: []schema.Field{
			h("device", handle.TypeDevice),
			st("pCreateInfo", "VkFramebufferCreateInfo"),
			allocator(),
			out("pFramebuffer", handle.TypeFramebuffer),
		}},
		{Name: "vkDestroyFramebuffer", Params: []schema.Field{
			h("device", handle.TypeDevice),
			optH("framebuffer", handle.TypeFramebuffer),
			allocator(),
		}},

		// pipelines and shaders
		{Name: "vkCreateGraphicsPipelines", ReturnsResult: true, Params: []schema.Field{
			h("device", handle.TypeDevice),
			optH("pipelineCache", handle.TypePipelineCache),
			count("createInfoCount"),
			stArr("pCreateInfos", "VkGraphicsPipelineCreateInfo", "createInfoCount"),
			allocator(),
			hArr("pPipelines", handle.TypePipeline, "createInfoCount"),
		}},
		{Name: "vkCreateComputePipelines", ReturnsResult: true, Params: []schema.Field{
			h("device", handle.TypeDevice),
			optH("pipelineCache", handle.TypePipelineCache),
			count("createInfoCount"),
			stArr("pCreateInfos", "VkComputePipelineCreateInfo", "createInfoCount"),
			allocator(),
			hArr("pPipelines", handle.TypePipeline, "createInfoCount"),
		}},
		{Name: "vkDestroyPipeline", Params: []schema.Field{
			h("device", handle.TypeDevice),
			optH("pipeline", handle.TypePipeline),
			allocator(),
		}},
		{Name: "vkCreateShadersEXT", ReturnsResult: true, Params: []schema.Field{
			h("device", handle.TypeDevice),
			count("createInfoCount"),
			stArr("pCreateInfos", "VkShaderCreateInfoEXT", "createInfoCount"),
			allocator(),
			hArr("pShaders", handle.TypeShaderEXT, "createInfoCount"),
		}},
		{Name: "vkDestroyShaderEXT", Params: []schema.Field{
			h("device", handle.TypeDevice),
			optH("shader", handle.TypeShaderEXT),
			allocator(),
		}},

		// pooled objects
		{Name: "vkAllocateCommandBuffers", ReturnsResult: true, Params: []schema.Field{
			h("device", handle.TypeDevice),
			st("pAllocateInfo", "VkCommandBufferAllocateInfo"),
			hArr("pCommandBuffers", handle.TypeCommandBuffer, "pAllocateInfo.commandBufferCount"),
		}},
		{Name: "vkFreeCommandBuffers", Params: []schema.Field{
			h("device", handle.TypeDevice),
			h("commandPool", handle.TypeCommandPool),
			count("commandBufferCount"),
			noAutoHArr("pCommandBuffers", handle.TypeCommandBuffer, "commandBufferCount"),
		}},
		{Name: "vkBeginCommandBuffer", ReturnsResult: true, Params: []schema.Field{
			h("commandBuffer", handle.TypeCommandBuffer),
			st("pBeginInfo", "VkCommandBufferBeginInfo"),
		}},
		{Name: "vkResetDescriptorPool", ReturnsResult: true, Params: []schema.Field{
			h("device", handle.TypeDevice),
			h("descriptorPool", handle.TypeDescriptorPool),
			scalar("flags", "VkDescriptorPoolResetFlags"),
		}},
		{Name: "vkAllocateDescriptorSets", ReturnsResult: true, Params: []schema.Field{
			h("device", handle.TypeDevice),
			st("pAllocateInfo", "VkDescriptorSetAllocateInfo"),
			hArr("pDescriptorSets", handle.TypeDescriptorSet, "pAllocateInfo.descriptorSetCount"),
		}},
		{Name: "vkFreeDescriptorSets", ReturnsResult: true, Params: []schema.Field{
			h("device", handle.TypeDevice),
			h("descriptorPool", handle.TypeDescriptorPool),
			count("descriptorSetCount"),
			noAutoHArr("pDescriptorSets", handle.TypeDescriptorSet, "descriptorSetCount"),
		}},

		// command recording
		{Name: "vkCmdBindPipeline", Params: []schema.Field{
			h("commandBuffer", handle.TypeCommandBuffer),
			scalar("pipelineBindPoint", "VkPipelineBindPoint"),
			h("pipeline", handle.TypePipeline),
		}},
		{Name: "vkCmdCopyBuffer", Params: []schema.Field{
			h("commandBuffer", handle.TypeCommandBuffer),
			h("srcBuffer", handle.TypeBuffer),
			h("dstBuffer", handle.TypeBuffer),
			count("regionCount"),
			ptr("pRegions", "VkBufferCopy"),
		}},
		{Name: "vkCmdBindDescriptorSets", Params: []schema.Field{
			h("commandBuffer", handle.TypeCommandBuffer),
			scalar("pipelineBindPoint", "VkPipelineBindPoint"),
			h("layout", handle.TypePipelineLayout),
			scalar("firstSet", "uint32_t"),
			count("descriptorSetCount"),
			hArr("pDescriptorSets", handle.TypeDescriptorSet, "descriptorSetCount"),
			count("dynamicOffsetCount"),
			ptr("pDynamicOffsets", "uint32_t"),
		}},

		// window system integration
		{Name: "vkCreateHeadlessSurfaceEXT", ReturnsResult: true, Params: []schema.Field{
			h("instance", handle.TypeInstance),
			ptr("pCreateInfo", "VkHeadlessSurfaceCreateInfoEXT"),
			allocator(),
			out("pSurface", handle.TypeSurfaceKHR),
		}},
		{Name: "vkDestroySurfaceKHR", Params: []schema.Field{
			h("instance", handle.TypeInstance),
			optH("surface", handle.TypeSurfaceKHR),
			allocator(),
		}},
		{Name: "vkCreateSwapchainKHR", ReturnsResult: true, Params: []schema.Field{
			h("device", handle.TypeDevice),
			st("pCreateInfo", "VkSwapchainCreateInfoKHR"),
			allocator(),
			out("pSwapchain", handle.TypeSwapchainKHR),
		}},
		{Name: "vkDestroySwapchainKHR", Params: []schema.Field{
			h("device", handle.TypeDevice),
			optH("swapchain", handle.TypeSwapchainKHR),
			allocator(),
		}},
		{Name: "vkGetSwapchainImagesKHR", ReturnsResult: true, Params: []schema.Field{
			h("device", handle.TypeDevice),
			h("swapchain", handle.TypeSwapchainKHR),
			countPtr("pSwapchainImageCount"),
			optHArr("pSwapchainImages", handle.TypeImage, "pSwapchainImageCount"),
		}},
		{Name: "vkGetPhysicalDeviceDisplayPropertiesKHR", ReturnsResult: true, Params: []schema.Field{
			h("physicalDevice", handle.TypePhysicalDevice),
			countPtr("pPropertyCount"),
			stArr("pProperties", "VkDisplayPropertiesKHR", "pPropertyCount"),
		}},
		{Name: "vkGetDisplayModePropertiesKHR", ReturnsResult: true, Params: []schema.Field{
			h("physicalDevice", handle.TypePhysicalDevice),
			h("display", handle.TypeDisplayKHR),
			countPtr("pPropertyCount"),
			stArr("pProperties", "VkDisplayModePropertiesKHR", "pPropertyCount"),
		}},
		{Name: "vkCreateDisplayModeKHR", ReturnsResult: true, Params: []schema.Field{
			h("physicalDevice", handle.TypePhysicalDevice),
			h("display", handle.TypeDisplayKHR),
			ptr("pCreateInfo", "VkDisplayModeCreateInfoKHR"),
			allocator(),
			out("pMode", handle.TypeDisplayModeKHR),
		}},

		// debug
		{Name: "vkCreateDebugUtilsMessengerEXT", ReturnsResult: true, Params: []schema.Field{
			h("instance", handle.TypeInstance),
			ptr("pCreateInfo", "VkDebugUtilsMessengerCreateInfoEXT"),
			allocator(),
			out("pMessenger", handle.TypeDebugUtilsMessengerEXT),
		}},
		{Name: "vkDestroyDebugUtilsMessengerEXT", Params: []schema.Field{
			h("instance", handle.TypeInstance),
			optH("messenger", handle.TypeDebugUtilsMessengerEXT),
			allocator(),
		}},
	}...)
	return cmds
}

// Schema builds the command schema.
func Schema() (*schema.Schema, error) {
	s := schema.New()
	var err error
	for _, def := range structs {
		err = multierr.Append(err, s.AddStruct(def))
	}
	for _, c := range commands() {
		err = multierr.Append(err, s.AddCommand(c))
	}
	for _, g := range groups {
		err = multierr.Append(err, s.AddGroup(g))
	}
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
