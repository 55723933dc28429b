package vulkan

import (
	"github.com/wippyai/objtrack/handle"
	"github.com/wippyai/objtrack/schema"
)

func h(name string, t handle.Type) schema.Field {
	return schema.Field{Name: name, Kind: schema.KindHandle, Handle: t, TypeName: t.String()}
}

func optH(name string, t handle.Type) schema.Field {
	f := h(name, t)
	f.Optional = true
	return f
}

func hArr(name string, t handle.Type, count string) schema.Field {
	f := h(name, t)
	f.Pointer = true
	f.Len = count
	return f
}

func optHArr(name string, t handle.Type, count string) schema.Field {
	f := hArr(name, t, count)
	f.Optional = true
	f.OptionalPointer = true
	return f
}

func noAutoHArr(name string, t handle.Type, count string) schema.Field {
	f := hArr(name, t, count)
	f.NoAutoValidity = true
	return f
}

func out(name string, t handle.Type) schema.Field {
	f := h(name, t)
	f.Pointer = true
	return f
}

func st(name, structName string) schema.Field {
	return schema.Field{Name: name, Kind: schema.KindStruct, Struct: structName, TypeName: structName, Pointer: true}
}

func optSt(name, structName string) schema.Field {
	f := st(name, structName)
	f.Optional = true
	return f
}

func stArr(name, structName, count string) schema.Field {
	f := st(name, structName)
	f.Len = count
	return f
}

func inline(name, structName string) schema.Field {
	return schema.Field{Name: name, Kind: schema.KindStruct, Struct: structName, TypeName: structName}
}

func scalar(name, typeName string) schema.Field {
	return schema.Field{Name: name, TypeName: typeName}
}

func ptr(name, typeName string) schema.Field {
	return schema.Field{Name: name, TypeName: typeName, Pointer: true}
}

func count(name string) schema.Field {
	return scalar(name, "uint32_t")
}

func countPtr(name string) schema.Field {
	return ptr(name, "uint32_t")
}

func allocator() schema.Field {
	return schema.Field{Name: "pAllocator", TypeName: schema.AllocationCallbacksType, Pointer: true, Optional: true}
}
