// Package vulkan holds the static target data: the handle hierarchy, a
// representative subset of the command schema, result codes and the built-in
// identifier catalog.
package vulkan
