package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/wippyai/objtrack/errors"
	"github.com/wippyai/objtrack/handle"
)

// Registry stores live records keyed by (type, handle).
type Registry struct {
	byType    map[handle.Type]map[handle.Handle]Record
	observers []Observer
	seq       uint64
	count     int
	mu        sync.RWMutex
	obsMu     sync.RWMutex
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		byType: make(map[handle.Type]map[handle.Handle]Record),
	}
}

// Insert adds a record and assigns its creation sequence number.
// A live record for the same (handle, type) is a duplicate.
func (r *Registry) Insert(rec Record) error {
	if rec.Handle.IsNull() {
		return errors.InvalidInput(errors.PhaseRecord,
			fmt.Sprintf("null %s handle", rec.Type))
	}

	r.mu.Lock()
	set := r.byType[rec.Type]
	if set == nil {
		set = make(map[handle.Handle]Record)
		r.byType[rec.Type] = set
	}
	if _, exists := set[rec.Handle]; exists {
		r.mu.Unlock()
		return errors.Duplicate(errors.PhaseRecord, rec.Type.String(), rec.Handle)
	}
	r.seq++
	rec.Seq = r.seq
	set[rec.Handle] = rec
	r.count++
	r.mu.Unlock()

	r.notify(Event{Type: EventInserted, Record: rec})
	return nil
}

// Lookup returns the live record for (h, t).
func (r *Registry) Lookup(h handle.Handle, t handle.Type) (Record, bool) {
	if h.IsNull() {
		return Record{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byType[t][h]
	return rec, ok
}

// Remove deletes the record for (h, t). Removing an absent record is a no-op.
func (r *Registry) Remove(h handle.Handle, t handle.Type) (Record, bool) {
	return r.drop(h, t, EventRemoved)
}

// Evict force-removes the record for (h, t) during teardown.
func (r *Registry) Evict(h handle.Handle, t handle.Type) (Record, bool) {
	return r.drop(h, t, EventEvicted)
}

func (r *Registry) drop(h handle.Handle, t handle.Type, ev EventType) (Record, bool) {
	if h.IsNull() {
		return Record{}, false
	}

	r.mu.Lock()
	rec, ok := r.byType[t][h]
	if ok {
		delete(r.byType[t], h)
		r.count--
	}
	r.mu.Unlock()

	if !ok {
		return Record{}, false
	}
	r.notify(Event{Type: ev, Record: rec})
	return rec, true
}

// AllOfType returns the records of type t owned by owner in insertion order.
func (r *Registry) AllOfType(t handle.Type, owner handle.Handle) []Record {
	r.mu.RLock()
	var out []Record
	for _, rec := range r.byType[t] {
		if rec.Owner == owner {
			out = append(out, rec)
		}
	}
	r.mu.RUnlock()

	sortBySeq(out)
	return out
}

// Owned returns every record owned by owner, across types, in insertion order.
func (r *Registry) Owned(owner handle.Handle) []Record {
	r.mu.RLock()
	var out []Record
	for _, set := range r.byType {
		for _, rec := range set {
			if rec.Owner == owner {
				out = append(out, rec)
			}
		}
	}
	r.mu.RUnlock()

	sortBySeq(out)
	return out
}

// Children returns the records of type t whose parent is parent.
func (r *Registry) Children(parent handle.Handle, t handle.Type) []Record {
	r.mu.RLock()
	var out []Record
	for _, rec := range r.byType[t] {
		if rec.Parent == parent {
			out = append(out, rec)
		}
	}
	r.mu.RUnlock()

	sortBySeq(out)
	return out
}

// Len returns the number of live records.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// LenOfType returns the number of live records of type t.
func (r *Registry) LenOfType(t handle.Type) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byType[t])
}

// Each calls fn for every live record in insertion order until fn returns false.
func (r *Registry) Each(fn func(Record) bool) {
	r.mu.RLock()
	all := make([]Record, 0, r.count)
	for _, set := range r.byType {
		for _, rec := range set {
			all = append(all, rec)
		}
	}
	r.mu.RUnlock()

	sortBySeq(all)
	for _, rec := range all {
		if !fn(rec) {
			return
		}
	}
}

// Subscribe adds an observer for registry events.
func (r *Registry) Subscribe(o Observer) {
	r.obsMu.Lock()
	defer r.obsMu.Unlock()
	r.observers = append(r.observers, o)
}

// Unsubscribe removes an observer.
func (r *Registry) Unsubscribe(o Observer) {
	r.obsMu.Lock()
	defer r.obsMu.Unlock()
	for i, obs := range r.observers {
		if obs == o {
			r.observers = append(r.observers[:i], r.observers[i+1:]...)
			return
		}
	}
}

func (r *Registry) notify(e Event) {
	r.obsMu.RLock()
	defer r.obsMu.RUnlock()
	for _, o := range r.observers {
		o.OnRegistryEvent(e)
	}
}

func sortBySeq(recs []Record) {
	sort.Slice(recs, func(i, j int) bool { return recs[i].Seq < recs[j].Seq })
}
