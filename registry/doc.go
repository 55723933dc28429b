// Package registry is the live-object store of the tracker.
//
// Records are keyed by (handle, type): the same handle value may be live
// under two different types, and a lookup with the wrong type never matches.
//
//	reg := registry.New()
//	err := reg.Insert(registry.Record{Handle: h, Type: handle.TypeBuffer, Owner: dev})
//	rec, ok := reg.Lookup(h, handle.TypeBuffer)
//	reg.Remove(h, handle.TypeBuffer)
//
// # Scans
//
// AllOfType, Owned and Children return records sorted by creation sequence,
// so leak reports are reproducible.
//
// # Observers
//
// Observers see every insert, remove and eviction:
//
//	reg.Subscribe(collector)
//
// Eviction is the forced removal performed by scope teardown.
package registry
