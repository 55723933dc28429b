package schema

import (
	"strings"

	"github.com/wippyai/objtrack/handle"
)

// Kind is the declared kind of a field.
type Kind uint8

const (
	KindScalar Kind = iota
	KindHandle
	KindStruct
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindHandle:
		return "handle"
	case KindStruct:
		return "struct"
	default:
		return "unknown"
	}
}

// AllocationCallbacksType is the type name of allocator parameters.
const AllocationCallbacksType = "VkAllocationCallbacks"

// Field describes one command parameter or struct member.
type Field struct {
	Name string
	// TypeName is the declared type, e.g. "uint32_t" or "VkAllocationCallbacks".
	// For handles and structs it mirrors Handle and Struct.
	TypeName string
	// Struct names the aggregate for KindStruct fields.
	Struct string
	// Len names the count field of an array. It is a sibling field name or a
	// dotted path from the enclosing parameter list, e.g. "pAllocateInfo.commandBufferCount".
	Len    string
	Kind   Kind
	Handle handle.Type

	Pointer         bool
	Optional        bool
	OptionalPointer bool
	NoAutoValidity  bool
}

// IsArray reports whether the field is sized by a count field.
func (f Field) IsArray() bool {
	return f.Len != ""
}

// NullAllowed returns the nullability policy of a handle field.
func (f Field) NullAllowed() bool {
	switch {
	case f.NoAutoValidity:
		return true
	case f.IsArray():
		return f.OptionalPointer
	default:
		return f.Optional
	}
}

// IsAllocator reports whether the field is an allocation callbacks pointer.
func (f Field) IsAllocator() bool {
	return f.TypeName == AllocationCallbacksType
}

// Struct describes an aggregate type.
type Struct struct {
	Name   string
	Fields []Field
}

// Command describes one API entry point.
type Command struct {
	Name string
	// Alias is the promoted name used for identifier lookups, when set.
	Alias         string
	Params        []Field
	ReturnsResult bool
}

var createMarkers = []string{
	"Create",
	"Allocate",
	"Enumerate",
	"RegisterDeviceEvent",
	"RegisterDisplayEvent",
	"AcquirePerformanceConfigurationINTEL",
}

var destroyMarkers = []string{
	"Destroy",
	"Free",
	"ReleasePerformanceConfigurationINTEL",
}

const releaseMarker = "ReleasePerformanceConfigurationINTEL"

// IsCreate reports whether the last parameter is an output produced by the call.
func (c *Command) IsCreate() bool {
	for _, m := range createMarkers {
		if strings.Contains(c.Name, m) {
			return true
		}
	}
	return strings.Contains(c.Name, "vkGet") && len(c.Params) > 0 && c.Params[len(c.Params)-1].Pointer
}

// IsDestroy reports whether the call retires a handle.
func (c *Command) IsDestroy() bool {
	for _, m := range destroyMarkers {
		if strings.Contains(c.Name, m) {
			return true
		}
	}
	return false
}

// IsRetrieval reports whether the call returns handles that may already be
// tracked, such as enumerations and queries.
func (c *Command) IsRetrieval() bool {
	return strings.HasPrefix(c.Name, "vkEnumerate") || strings.HasPrefix(c.Name, "vkGet")
}

// IsCreatePipelines reports whether the call is a batch pipeline creation.
func (c *Command) IsCreatePipelines() bool {
	return strings.Contains(c.Name, "CreateGraphicsPipelines") ||
		strings.Contains(c.Name, "CreateComputePipelines") ||
		strings.Contains(c.Name, "CreateRayTracingPipelines")
}

// IsCreateShaders reports whether the call is a batch shader creation.
func (c *Command) IsCreateShaders() bool {
	return strings.Contains(c.Name, "CreateShaders")
}

// VUIDName is the name used to build identifiers for this command.
func (c *Command) VUIDName() string {
	if c.Alias != "" {
		return c.Alias
	}
	return c.Name
}

// Output returns the last parameter for create-class commands.
func (c *Command) Output() (Field, bool) {
	if !c.IsCreate() || len(c.Params) == 0 {
		return Field{}, false
	}
	return c.Params[len(c.Params)-1], true
}

// Destroyed returns the handle parameter retired by a destroy-class command.
func (c *Command) Destroyed() (Field, bool) {
	if !c.IsDestroy() || len(c.Params) == 0 {
		return Field{}, false
	}
	idx := len(c.Params) - 2
	if strings.Contains(c.Name, releaseMarker) {
		idx = len(c.Params) - 1
	}
	if idx < 0 || c.Params[idx].Kind != KindHandle {
		return Field{}, false
	}
	return c.Params[idx], true
}

// CreateAllocator returns the allocator parameter that precedes the output of
// a create-class command.
func (c *Command) CreateAllocator() (Field, bool) {
	if len(c.Params) < 2 {
		return Field{}, false
	}
	f := c.Params[len(c.Params)-2]
	return f, f.IsAllocator()
}

// DestroyAllocator returns the allocator parameter of a destroy-class command.
func (c *Command) DestroyAllocator() (Field, bool) {
	if strings.Contains(c.Name, releaseMarker) || len(c.Params) == 0 {
		return Field{}, false
	}
	f := c.Params[len(c.Params)-1]
	return f, f.IsAllocator()
}

// Param returns the parameter with the given name.
func (c *Command) Param(name string) (Field, bool) {
	for _, p := range c.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Field{}, false
}

// Group describes a result struct that carries a set of handles, such as a
// physical device group. When Command is set, each element is recorded as if
// Command had returned Handles with Count entries.
type Group struct {
	Struct  string
	Handles string
	Count   string
	Command string
}
