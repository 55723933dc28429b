package hostabi

import (
	"context"
	"testing"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/objtrack/diag"
	"github.com/wippyai/objtrack/handle"
	"github.com/wippyai/objtrack/registry"
	"github.com/wippyai/objtrack/tracker"
	"github.com/wippyai/objtrack/vuid"
)

type fixture struct {
	t         *testing.T
	ctx       context.Context
	mod       api.Module
	tracker   *tracker.Tracker
	collector *diag.Collector
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	t.Cleanup(func() { rt.Close(ctx) })

	tr, err := tracker.NewForVariant(vuid.VariantVulkan, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	c := &diag.Collector{}
	mod, err := New(tr, c, nil).Instantiate(ctx, rt)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	if mod.Name() != ModuleName {
		t.Fatalf("module name = %q", mod.Name())
	}
	return &fixture{t: t, ctx: ctx, mod: mod, tracker: tr, collector: c}
}

func (f *fixture) call(name string, params ...uint64) uint64 {
	f.t.Helper()
	fn := f.mod.ExportedFunction(name)
	if fn == nil {
		f.t.Fatalf("export %s missing", name)
	}
	res, err := fn.Call(f.ctx, params...)
	if err != nil {
		f.t.Fatalf("%s: %v", name, err)
	}
	return res[0]
}

func ty(t handle.Type) uint64 {
	return api.EncodeU32(uint32(t))
}

func (f *fixture) create(t handle.Type, h, owner uint64, alloc registry.AllocatorKind, id uint64) uint32 {
	f.t.Helper()
	return api.DecodeU32(f.call("create_object", ty(t), h, owner, owner, api.EncodeU32(uint32(alloc)), id))
}

func TestCreateObjectStatus(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		typ  handle.Type
		h    uint64
		want uint32
	}{
		{"new instance", handle.TypeInstance, 0x1, StatusOK},
		{"duplicate", handle.TypeInstance, 0x1, StatusDuplicate},
		{"same value other type", handle.TypeDevice, 0x1, StatusOK},
		{"invalid type", handle.Type(9999), 0x2, StatusInvalidType},
		{"null handle", handle.TypeBuffer, 0, StatusNullHandle},
	}
	for _, tt := range tests {
		if got := f.create(tt.typ, tt.h, 0, registry.AllocatorDefault, 0); got != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestAllocatorEncoding(t *testing.T) {
	f := newFixture(t)
	f.create(handle.TypeBuffer, 0x10, 0x3, registry.AllocatorCustom, 42)
	f.create(handle.TypeBuffer, 0x11, 0x3, registry.AllocatorNone, 0)

	rec, ok := f.tracker.Registry().Lookup(0x10, handle.TypeBuffer)
	if !ok || rec.Alloc != registry.Custom(42) {
		t.Fatalf("record = %+v", rec)
	}
	rec, _ = f.tracker.Registry().Lookup(0x11, handle.TypeBuffer)
	if rec.Alloc != registry.None {
		t.Errorf("allocator = %v, want none", rec.Alloc)
	}
}

func TestValidateObject(t *testing.T) {
	f := newFixture(t)
	f.create(handle.TypeInstance, 0x1, 0, registry.AllocatorDefault, 0)
	f.create(handle.TypeDevice, 0x3, 0x1, registry.AllocatorDefault, 0)
	f.create(handle.TypeDevice, 0x4, 0x1, registry.AllocatorDefault, 0)
	f.create(handle.TypeBuffer, 0x10, 0x3, registry.AllocatorDefault, 0)

	tests := []struct {
		name        string
		h           uint64
		root        uint64
		nullAllowed uint64
		want        uint32
		rule        string
	}{
		{"live", 0x10, 0x3, 0, 0, ""},
		{"live without root", 0x10, 0, 0, 0, ""},
		{"stale", 0x99, 0x3, 0, 1, vuid.Undefined},
		{"null allowed", 0, 0x3, 1, 0, ""},
		{"null required", 0, 0x3, 0, 1, vuid.Undefined},
		{"wrong device", 0x10, 0x4, 0, 1, ParentRule},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.collector.Diagnostics = nil
			got := api.DecodeU32(f.call("validate_object", ty(handle.TypeBuffer), tt.h, tt.root, tt.nullAllowed))
			if got != tt.want {
				t.Fatalf("diagnostics = %d, want %d", got, tt.want)
			}
			if len(f.collector.Diagnostics) != int(tt.want) {
				t.Fatalf("reported %d", len(f.collector.Diagnostics))
			}
			if tt.rule != "" && f.collector.Diagnostics[0].RuleID != tt.rule {
				t.Errorf("rule = %s, want %s", f.collector.Diagnostics[0].RuleID, tt.rule)
			}
		})
	}
}

func TestDestroyAndCount(t *testing.T) {
	f := newFixture(t)
	f.create(handle.TypeInstance, 0x1, 0, registry.AllocatorDefault, 0)
	f.create(handle.TypeDevice, 0x3, 0x1, registry.AllocatorDefault, 0)
	f.create(handle.TypeBuffer, 0x10, 0x3, registry.AllocatorDefault, 0)
	f.create(handle.TypeBuffer, 0x11, 0x3, registry.AllocatorDefault, 0)

	if n := f.call("object_count", 0); n != 4 {
		t.Fatalf("total = %d, want 4", n)
	}
	if n := f.call("object_count", ty(handle.TypeBuffer)); n != 2 {
		t.Fatalf("buffers = %d, want 2", n)
	}

	if r := api.DecodeU32(f.call("destroy_object", ty(handle.TypeBuffer), 0x10)); r != 1 {
		t.Fatalf("destroy returned %d", r)
	}
	if r := api.DecodeU32(f.call("destroy_object", ty(handle.TypeBuffer), 0x10)); r != 0 {
		t.Fatalf("second destroy returned %d", r)
	}
	if n := f.call("object_count", ty(handle.TypeBuffer)); n != 1 {
		t.Fatalf("buffers = %d, want 1", n)
	}
}

func TestTeardown(t *testing.T) {
	f := newFixture(t)
	f.create(handle.TypeInstance, 0x1, 0, registry.AllocatorDefault, 0)
	f.create(handle.TypeDevice, 0x3, 0x1, registry.AllocatorDefault, 0)
	f.create(handle.TypeBuffer, 0x10, 0x3, registry.AllocatorDefault, 0)
	f.create(handle.TypeFence, 0x11, 0x3, registry.AllocatorDefault, 0)

	if n := api.DecodeU32(f.call("teardown", ty(handle.TypeDevice), 0x3)); n != 2 {
		t.Fatalf("leaks = %d, want 2", n)
	}
	if n := api.DecodeU32(f.call("teardown", ty(handle.TypeDevice), 0x3)); n != 0 {
		t.Fatalf("second teardown leaks = %d", n)
	}
	if n := api.DecodeU32(f.call("teardown", ty(handle.TypeBuffer), 0x3)); n != 0 {
		t.Fatalf("non-root teardown = %d", n)
	}

	// the device itself is reported and evicted with its instance
	if n := api.DecodeU32(f.call("teardown", ty(handle.TypeInstance), 0x1)); n != 1 {
		t.Fatalf("instance leaks = %d, want 1", n)
	}
	if n := f.call("object_count", 0); n != 1 {
		t.Fatalf("live = %d, want only the instance", n)
	}
	for _, d := range f.collector.Diagnostics {
		if d.Kind != diag.KindLeakedObject {
			t.Errorf("unexpected diagnostic %+v", d)
		}
	}
}
