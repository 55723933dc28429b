package vulkan

import (
	"github.com/wippyai/objtrack/handle"
	"github.com/wippyai/objtrack/ownership"
	"github.com/wippyai/objtrack/vuid"
)

// Decls is the handle hierarchy. Swapchains are declared under the device
// that owns them.
var Decls = []ownership.Decl{
	{Type: handle.TypeInstance, Dispatchable: true},
	{Type: handle.TypePhysicalDevice, Parent: handle.TypeInstance, Dispatchable: true},
	{Type: handle.TypeDevice, Parent: handle.TypePhysicalDevice, Dispatchable: true},
	{Type: handle.TypeQueue, Parent: handle.TypeDevice, Dispatchable: true},
	{Type: handle.TypeCommandPool, Parent: handle.TypeDevice},
	{Type: handle.TypeCommandBuffer, Parent: handle.TypeCommandPool, Dispatchable: true},
	{Type: handle.TypeDeviceMemory, Parent: handle.TypeDevice},
	{Type: handle.TypeBuffer, Parent: handle.TypeDevice},
	{Type: handle.TypeBufferView, Parent: handle.TypeDevice},
	{Type: handle.TypeImage, Parent: handle.TypeDevice},
	{Type: handle.TypeImageView, Parent: handle.TypeDevice},
	{Type: handle.TypeShaderModule, Parent: handle.TypeDevice},
	{Type: handle.TypePipelineCache, Parent: handle.TypeDevice},
	{Type: handle.TypePipelineLayout, Parent: handle.TypeDevice},
	{Type: handle.TypeRenderPass, Parent: handle.TypeDevice},
	{Type: handle.TypePipeline, Parent: handle.TypeDevice},
	{Type: handle.TypeDescriptorSetLayout, Parent: handle.TypeDevice},
	{Type: handle.TypeSampler, Parent: handle.TypeDevice},
	{Type: handle.TypeDescriptorPool, Parent: handle.TypeDevice},
	{Type: handle.TypeDescriptorSet, Parent: handle.TypeDescriptorPool},
	{Type: handle.TypeFramebuffer, Parent: handle.TypeDevice},
	{Type: handle.TypeFence, Parent: handle.TypeDevice},
	{Type: handle.TypeSemaphore, Parent: handle.TypeDevice},
	{Type: handle.TypeEvent, Parent: handle.TypeDevice},
	{Type: handle.TypeQueryPool, Parent: handle.TypeDevice},
	{Type: handle.TypeDescriptorUpdateTemplate, Parent: handle.TypeDevice},
	{Type: handle.TypeSamplerYcbcrConversion, Parent: handle.TypeDevice},
	{Type: handle.TypePrivateDataSlot, Parent: handle.TypeDevice},
	{Type: handle.TypeValidationCacheEXT, Parent: handle.TypeDevice},
	{Type: handle.TypeShaderEXT, Parent: handle.TypeDevice},
	{Type: handle.TypeAccelerationStructureKHR, Parent: handle.TypeDevice},
	{Type: handle.TypeVideoSessionKHR, Parent: handle.TypeDevice},
	{Type: handle.TypeVideoSessionParametersKHR, Parent: handle.TypeVideoSessionKHR},
	{Type: handle.TypeSurfaceKHR, Parent: handle.TypeInstance},
	{Type: handle.TypeSwapchainKHR, Parent: handle.TypeDevice},
	{Type: handle.TypeDisplayKHR, Parent: handle.TypePhysicalDevice},
	{Type: handle.TypeDisplayModeKHR, Parent: handle.TypeDisplayKHR},
	{Type: handle.TypeDebugReportCallbackEXT, Parent: handle.TypeInstance},
	{Type: handle.TypeDebugUtilsMessengerEXT, Parent: handle.TypeInstance},
}

// Model builds the ownership model for a profile.
func Model(p vuid.Profile) (*ownership.Model, error) {
	return ownership.NewModel(Decls, ownership.WithImplicitlyDestroyed(p.ImplicitlyDestroyed...))
}
