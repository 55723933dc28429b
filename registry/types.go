package registry

import (
	"fmt"

	"github.com/wippyai/objtrack/handle"
)

// AllocatorKind records which allocation callbacks were used at creation.
type AllocatorKind uint8

const (
	AllocatorNone AllocatorKind = iota
	AllocatorDefault
	AllocatorCustom
)

// Allocator is the allocator fingerprint stored with a record.
// ID identifies the custom callback set and is zero otherwise.
type Allocator struct {
	Kind AllocatorKind
	ID   uint64
}

// Default and None are the fingerprints without custom callbacks.
var (
	None    = Allocator{Kind: AllocatorNone}
	Default = Allocator{Kind: AllocatorDefault}
)

// Custom returns the fingerprint of a custom callback set.
func Custom(id uint64) Allocator {
	return Allocator{Kind: AllocatorCustom, ID: id}
}

func (a Allocator) String() string {
	switch a.Kind {
	case AllocatorDefault:
		return "default"
	case AllocatorCustom:
		return fmt.Sprintf("custom(%d)", a.ID)
	default:
		return "none"
	}
}

// Record is one live object.
type Record struct {
	// Owner is the instance or device bounding the object's lifetime.
	// It is Null for instances.
	Owner handle.Handle
	// Parent is the object the handle was created from: the pool for pooled
	// objects, the swapchain for presentable images, the dispatch object otherwise.
	Parent   handle.Handle
	Handle   handle.Handle
	Alloc    Allocator
	Seq      uint64
	Type     handle.Type
	Retained bool
}

// EventType identifies a registry mutation.
type EventType uint8

const (
	EventInserted EventType = iota
	EventRemoved
	EventEvicted
)

func (e EventType) String() string {
	switch e {
	case EventInserted:
		return "inserted"
	case EventRemoved:
		return "removed"
	case EventEvicted:
		return "evicted"
	default:
		return "unknown"
	}
}

// Event describes a registry mutation.
type Event struct {
	Record Record
	Type   EventType
}

// Observer receives registry events synchronously, after the mutation.
type Observer interface {
	OnRegistryEvent(Event)
}
