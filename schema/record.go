package schema

import (
	"strings"

	"github.com/wippyai/objtrack/handle"
)

// AllocationCallbacks identifies a custom allocator passed to a call.
// A nil *AllocationCallbacks is the default allocator.
type AllocationCallbacks struct {
	ID uint64
}

// Record holds the runtime arguments of a call or the members of a struct
// value. Missing keys read as zero values.
//
// Value conventions:
//
//	handle field           handle.Handle
//	handle array           []handle.Handle (nil is a null pointer)
//	struct pointer/inline  Record (nil is a null pointer)
//	struct array           []Record (nil is a null pointer)
//	count                  int, uint32, uint64 or a pointer to one
//	allocator              *AllocationCallbacks
type Record map[string]any

// Handle returns the handle stored under name, or Null.
func (r Record) Handle(name string) handle.Handle {
	switch v := r[name].(type) {
	case handle.Handle:
		return v
	case *handle.Handle:
		if v != nil {
			return *v
		}
	case uint64:
		return handle.Handle(v)
	}
	return handle.Null
}

// Handles returns the handle array stored under name. The bool is false for a
// null array.
func (r Record) Handles(name string) ([]handle.Handle, bool) {
	v, ok := r[name].([]handle.Handle)
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Struct returns the nested struct stored under name. The bool is false for a
// null pointer.
func (r Record) Struct(name string) (Record, bool) {
	v, ok := r[name].(Record)
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Structs returns the struct array stored under name.
func (r Record) Structs(name string) ([]Record, bool) {
	v, ok := r[name].([]Record)
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Int returns a scalar integer field.
func (r Record) Int(name string) (int64, bool) {
	return Int(r[name])
}

// Allocator returns the allocation callbacks stored under name.
func (r Record) Allocator(name string) *AllocationCallbacks {
	v, _ := r[name].(*AllocationCallbacks)
	return v
}

// Resolve follows a dotted path through nested records.
func (r Record) Resolve(path string) (any, bool) {
	cur := r
	parts := strings.Split(path, ".")
	for i, p := range parts {
		v, ok := cur[p]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		next, ok := v.(Record)
		if !ok || next == nil {
			return nil, false
		}
		cur = next
	}
	return nil, false
}

// Count resolves a count path and converts it to a length.
func (r Record) Count(path string) (int, bool) {
	v, ok := r.Resolve(path)
	if !ok {
		return 0, false
	}
	n, ok := Int(v)
	if !ok || n < 0 {
		return 0, false
	}
	return int(n), true
}

// Int converts a scalar value, dereferencing pointers.
func Int(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case *int:
		if n != nil {
			return int64(*n), true
		}
	case *uint32:
		if n != nil {
			return int64(*n), true
		}
	case *uint64:
		if n != nil {
			return int64(*n), true
		}
	}
	return 0, false
}
