package registry

import (
	"sync"
	"testing"

	"github.com/wippyai/objtrack/errors"
	"github.com/wippyai/objtrack/handle"
)

type testObserver struct {
	events []Event
}

func (o *testObserver) OnRegistryEvent(e Event) {
	o.events = append(o.events, e)
}

func TestRegistry_Basic(t *testing.T) {
	reg := New()

	err := reg.Insert(Record{Handle: 0x10, Type: handle.TypeBuffer, Owner: 1, Alloc: Custom(7)})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	rec, ok := reg.Lookup(0x10, handle.TypeBuffer)
	if !ok {
		t.Fatal("Lookup failed")
	}
	if rec.Alloc != Custom(7) || rec.Owner != 1 || rec.Seq != 1 {
		t.Fatalf("unexpected record %+v", rec)
	}

	// wrong type never matches
	if _, ok := reg.Lookup(0x10, handle.TypeImage); ok {
		t.Fatal("Lookup with wrong type should fail")
	}

	if _, ok := reg.Remove(0x10, handle.TypeBuffer); !ok {
		t.Fatal("Remove failed")
	}
	if _, ok := reg.Lookup(0x10, handle.TypeBuffer); ok {
		t.Fatal("Lookup after Remove should fail")
	}
	if reg.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", reg.Len())
	}

	// removing again is a no-op
	if _, ok := reg.Remove(0x10, handle.TypeBuffer); ok {
		t.Fatal("second Remove should report absence")
	}
}

func TestRegistry_Duplicate(t *testing.T) {
	reg := New()
	rec := Record{Handle: 0x20, Type: handle.TypeImage}
	if err := reg.Insert(rec); err != nil {
		t.Fatal(err)
	}

	err := reg.Insert(rec)
	if err == nil {
		t.Fatal("expected duplicate error")
	}
	e, ok := err.(*errors.Error)
	if !ok || e.Kind != errors.KindDuplicate || e.Phase != errors.PhaseRecord {
		t.Fatalf("unexpected error %v", err)
	}

	// same value under another type is a distinct record
	if err := reg.Insert(Record{Handle: 0x20, Type: handle.TypeBuffer}); err != nil {
		t.Fatalf("Insert under other type failed: %v", err)
	}
	if reg.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", reg.Len())
	}

	// destroyed-and-reused values produce a fresh record
	reg.Remove(0x20, handle.TypeImage)
	if err := reg.Insert(rec); err != nil {
		t.Fatalf("reinsert failed: %v", err)
	}
	got, _ := reg.Lookup(0x20, handle.TypeImage)
	if got.Seq != 3 {
		t.Errorf("reinserted Seq = %d, want 3", got.Seq)
	}
}

func TestRegistry_NullHandle(t *testing.T) {
	reg := New()
	err := reg.Insert(Record{Handle: handle.Null, Type: handle.TypeBuffer})
	if !errorsIs(err, errors.PhaseRecord, errors.KindInvalidInput) {
		t.Fatalf("expected invalid_input, got %v", err)
	}
	if _, ok := reg.Lookup(handle.Null, handle.TypeBuffer); ok {
		t.Fatal("null lookup should miss")
	}
}

func TestRegistry_AllOfTypeOrder(t *testing.T) {
	reg := New()
	handles := []handle.Handle{0x50, 0x10, 0x40, 0x20, 0x30}
	for i, h := range handles {
		owner := handle.Handle(1)
		if i == 2 {
			owner = 2
		}
		if err := reg.Insert(Record{Handle: h, Type: handle.TypeFence, Owner: owner}); err != nil {
			t.Fatal(err)
		}
	}

	recs := reg.AllOfType(handle.TypeFence, 1)
	want := []handle.Handle{0x50, 0x10, 0x20, 0x30}
	if len(recs) != len(want) {
		t.Fatalf("got %d records, want %d", len(recs), len(want))
	}
	for i := range want {
		if recs[i].Handle != want[i] {
			t.Errorf("recs[%d] = %v, want %v", i, recs[i].Handle, want[i])
		}
	}
	if n := len(reg.AllOfType(handle.TypeFence, 2)); n != 1 {
		t.Errorf("owner 2 has %d fences, want 1", n)
	}
}

func TestRegistry_OwnedAndChildren(t *testing.T) {
	reg := New()
	const dev, pool = handle.Handle(1), handle.Handle(0x100)
	mustInsert(t, reg, Record{Handle: pool, Type: handle.TypeCommandPool, Owner: dev, Parent: dev})
	mustInsert(t, reg, Record{Handle: 0x200, Type: handle.TypeCommandBuffer, Owner: dev, Parent: pool})
	mustInsert(t, reg, Record{Handle: 0x201, Type: handle.TypeCommandBuffer, Owner: dev, Parent: pool})
	mustInsert(t, reg, Record{Handle: 0x300, Type: handle.TypeBuffer, Owner: 2, Parent: 2})

	if n := len(reg.Owned(dev)); n != 3 {
		t.Errorf("Owned(dev) = %d, want 3", n)
	}
	kids := reg.Children(pool, handle.TypeCommandBuffer)
	if len(kids) != 2 || kids[0].Handle != 0x200 || kids[1].Handle != 0x201 {
		t.Errorf("Children(pool) = %+v", kids)
	}
	if reg.LenOfType(handle.TypeCommandBuffer) != 2 {
		t.Errorf("LenOfType = %d", reg.LenOfType(handle.TypeCommandBuffer))
	}

	var seen []handle.Handle
	reg.Each(func(r Record) bool {
		seen = append(seen, r.Handle)
		return len(seen) < 2
	})
	if len(seen) != 2 || seen[0] != pool {
		t.Errorf("Each visited %v", seen)
	}
}

func TestRegistry_Observer(t *testing.T) {
	reg := New()
	obs := &testObserver{}
	reg.Subscribe(obs)

	mustInsert(t, reg, Record{Handle: 1, Type: handle.TypeEvent})
	mustInsert(t, reg, Record{Handle: 2, Type: handle.TypeEvent})
	reg.Remove(1, handle.TypeEvent)
	reg.Evict(2, handle.TypeEvent)
	reg.Remove(3, handle.TypeEvent)

	want := []EventType{EventInserted, EventInserted, EventRemoved, EventEvicted}
	if len(obs.events) != len(want) {
		t.Fatalf("got %d events, want %d", len(obs.events), len(want))
	}
	for i, w := range want {
		if obs.events[i].Type != w {
			t.Errorf("event %d = %v, want %v", i, obs.events[i].Type, w)
		}
	}

	reg.Unsubscribe(obs)
	mustInsert(t, reg, Record{Handle: 4, Type: handle.TypeEvent})
	if len(obs.events) != len(want) {
		t.Error("unsubscribed observer still notified")
	}
}

func TestRegistry_Concurrent(t *testing.T) {
	reg := New()
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 1; i <= 100; i++ {
				h := handle.Handle(base*1000 + i)
				if err := reg.Insert(Record{Handle: h, Type: handle.TypeSemaphore}); err != nil {
					t.Error(err)
					return
				}
				reg.Lookup(h, handle.TypeSemaphore)
				if i%2 == 0 {
					reg.Remove(h, handle.TypeSemaphore)
				}
			}
		}(w + 1)
	}
	wg.Wait()

	if reg.Len() != 8*50 {
		t.Fatalf("Len() = %d, want %d", reg.Len(), 8*50)
	}
}

func TestAllocatorString(t *testing.T) {
	tests := []struct {
		a    Allocator
		want string
	}{
		{None, "none"},
		{Default, "default"},
		{Custom(3), "custom(3)"},
	}
	for _, tt := range tests {
		if got := tt.a.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func mustInsert(t *testing.T, reg *Registry, rec Record) {
	t.Helper()
	if err := reg.Insert(rec); err != nil {
		t.Fatalf("Insert(%v): %v", rec.Handle, err)
	}
}

func errorsIs(err error, phase errors.Phase, kind errors.Kind) bool {
	e, ok := err.(*errors.Error)
	return ok && e.Phase == phase && e.Kind == kind
}
