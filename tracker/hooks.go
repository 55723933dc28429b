package tracker

import (
	"fmt"

	"github.com/wippyai/objtrack/diag"
	"github.com/wippyai/objtrack/handle"
	"github.com/wippyai/objtrack/registry"
	"github.com/wippyai/objtrack/schema"
	"github.com/wippyai/objtrack/vulkan"
)

// hooks carry the per-command behavior that the schema walk cannot express.
// validate runs after the generic checks; preRecord and postRecord replace the
// generic recording step. Record hooks run with the tracker write lock held.
type hooks struct {
	validate   func(w *walker, args schema.Record)
	preRecord  func(t *Tracker, args schema.Record)
	postRecord func(t *Tracker, args schema.Record, result vulkan.Result)
}

func defaultHooks() map[string]hooks {
	return map[string]hooks{
		"vkAllocateCommandBuffers": {
			postRecord: allocatePooled("vkAllocateCommandBuffers", "commandPool", "commandBufferCount", "pCommandBuffers", handle.TypeCommandBuffer),
		},
		"vkAllocateDescriptorSets": {
			postRecord: allocatePooled("vkAllocateDescriptorSets", "descriptorPool", "descriptorSetCount", "pDescriptorSets", handle.TypeDescriptorSet),
		},
		"vkFreeCommandBuffers": {
			validate:  validatePoolMembers("vkFreeCommandBuffers", "commandPool", "pCommandBuffers", "commandBufferCount", handle.TypeCommandBuffer),
			preRecord: freePooled("pCommandBuffers", "commandBufferCount", handle.TypeCommandBuffer),
		},
		"vkFreeDescriptorSets": {
			validate:  validatePoolMembers("vkFreeDescriptorSets", "descriptorPool", "pDescriptorSets", "descriptorSetCount", handle.TypeDescriptorSet),
			preRecord: freePooled("pDescriptorSets", "descriptorSetCount", handle.TypeDescriptorSet),
		},
		"vkDestroyCommandPool": {
			preRecord: destroyPool("commandPool", handle.TypeCommandPool, handle.TypeCommandBuffer, true),
		},
		"vkDestroyDescriptorPool": {
			preRecord: destroyPool("descriptorPool", handle.TypeDescriptorPool, handle.TypeDescriptorSet, true),
		},
		"vkResetDescriptorPool": {
			preRecord: destroyPool("descriptorPool", handle.TypeDescriptorPool, handle.TypeDescriptorSet, false),
		},
		"vkGetSwapchainImagesKHR": {
			postRecord: recordSwapchainImages,
		},
		"vkDestroySwapchainKHR": {
			preRecord: destroyPool("swapchain", handle.TypeSwapchainKHR, handle.TypeImage, true),
		},
	}
}

// allocatePooled records handles allocated from the pool named in
// pAllocateInfo, with the pool as their parent.
func allocatePooled(command, poolField, countField, outField string, typ handle.Type) func(*Tracker, schema.Record, vulkan.Result) {
	return func(t *Tracker, args schema.Record, result vulkan.Result) {
		if result != vulkan.Success {
			return
		}
		info, ok := args.Struct("pAllocateInfo")
		if !ok {
			return
		}
		hs, ok := args.Handles(outField)
		if !ok {
			return
		}
		n, _ := info.Count(countField)
		rec := registry.Record{
			Type:   typ,
			Owner:  args.Handle("device"),
			Parent: info.Handle(poolField),
			Alloc:  registry.None,
		}
		for i := 0; i < n && i < len(hs); i++ {
			if hs[i].IsNull() {
				continue
			}
			rec.Handle = hs[i]
			t.recordCreated(command, rec, false)
		}
	}
}

// validatePoolMembers reports pooled handles freed through a pool they were
// not allocated from. Handles owned by another device are already reported
// by the generic parent check.
func validatePoolMembers(command, poolField, arrField, countField string, typ handle.Type) func(*walker, schema.Record) {
	return func(w *walker, args schema.Record) {
		pool := args.Handle(poolField)
		hs, ok := args.Handles(arrField)
		if !ok || pool.IsNull() {
			return
		}
		n, _ := args.Count(countField)
		id := w.t.catalog.Lookup(fmt.Sprintf("VUID-%s-%s-parent", command, arrField))
		loc := diag.NewLocation(command)
		for i := 0; i < n && i < len(hs); i++ {
			rec, ok := w.t.reg.Lookup(hs[i], typ)
			if !ok || rec.Parent == pool || rec.Owner != w.root {
				continue
			}
			w.report(diag.Diagnostic{
				RuleID:   id,
				Location: loc.DotIndex(arrField, i).String(),
				Kind:     diag.KindParentMismatch,
				Object:   typ,
				Handle:   hs[i],
				Message:  fmt.Sprintf("%s %s was not allocated from %s %s.", typ, hs[i], poolField, pool),
			})
		}
	}
}

func freePooled(arrField, countField string, typ handle.Type) func(*Tracker, schema.Record) {
	return func(t *Tracker, args schema.Record) {
		hs, ok := args.Handles(arrField)
		if !ok {
			return
		}
		n, _ := args.Count(countField)
		for i := 0; i < n && i < len(hs); i++ {
			t.reg.Remove(hs[i], typ)
		}
	}
}

// destroyPool removes every child of a pool-like parent and, when self is
// set, the parent itself.
func destroyPool(field string, parentType, childType handle.Type, self bool) func(*Tracker, schema.Record) {
	return func(t *Tracker, args schema.Record) {
		parent := args.Handle(field)
		if parent.IsNull() {
			return
		}
		for _, child := range t.reg.Children(parent, childType) {
			t.reg.Remove(child.Handle, childType)
		}
		if self {
			t.reg.Remove(parent, parentType)
		}
	}
}

// recordSwapchainImages records presentable images as retained children of
// their swapchain.
func recordSwapchainImages(t *Tracker, args schema.Record, result vulkan.Result) {
	if result != vulkan.Success && result != vulkan.Incomplete {
		return
	}
	hs, ok := args.Handles("pSwapchainImages")
	if !ok {
		return
	}
	n, _ := args.Count("pSwapchainImageCount")
	device := args.Handle("device")
	swapchain := args.Handle("swapchain")
	for i := 0; i < n && i < len(hs); i++ {
		if hs[i].IsNull() {
			continue
		}
		rec := registry.Record{
			Handle:   hs[i],
			Type:     handle.TypeImage,
			Owner:    device,
			Parent:   swapchain,
			Retained: true,
		}
		t.recordCreated("vkGetSwapchainImagesKHR", rec, true)
	}
}
