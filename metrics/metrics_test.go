package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/wippyai/objtrack/diag"
	"github.com/wippyai/objtrack/handle"
	"github.com/wippyai/objtrack/registry"
)

func TestRegistryEvents(t *testing.T) {
	c := New()
	reg := registry.New()
	reg.Subscribe(c)

	for _, h := range []handle.Handle{0x10, 0x11, 0x12} {
		if err := reg.Insert(registry.Record{Handle: h, Type: handle.TypeBuffer, Owner: 0x3}); err != nil {
			t.Fatal(err)
		}
	}
	reg.Remove(0x10, handle.TypeBuffer)
	reg.Evict(0x11, handle.TypeBuffer)

	if got := testutil.ToFloat64(c.live.WithLabelValues("VkBuffer")); got != 1 {
		t.Errorf("live = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.created.WithLabelValues("VkBuffer")); got != 3 {
		t.Errorf("created = %v, want 3", got)
	}
	if got := testutil.ToFloat64(c.destroyed.WithLabelValues("VkBuffer", ReasonDestroyed)); got != 1 {
		t.Errorf("destroyed = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.destroyed.WithLabelValues("VkBuffer", ReasonTeardown)); got != 1 {
		t.Errorf("evicted = %v, want 1", got)
	}

	// removing an absent record emits nothing
	reg.Remove(0x10, handle.TypeBuffer)
	if got := testutil.ToFloat64(c.live.WithLabelValues("VkBuffer")); got != 1 {
		t.Errorf("live after no-op remove = %v, want 1", got)
	}
}

func TestReport(t *testing.T) {
	c := New()
	var r diag.Reporter = c
	r.Report(diag.Diagnostic{RuleID: "VUID-vkDestroyBuffer-buffer-parameter", Kind: diag.KindInvalidHandle})
	r.Report(diag.Diagnostic{RuleID: "VUID-vkDestroyBuffer-buffer-parameter", Kind: diag.KindInvalidHandle})
	r.Report(diag.Diagnostic{RuleID: "VUID-vkDestroyDevice-device-00378", Kind: diag.KindLeakedObject})

	got := testutil.ToFloat64(c.diagnostics.WithLabelValues("invalid_handle", "VUID-vkDestroyBuffer-buffer-parameter"))
	if got != 2 {
		t.Errorf("invalid handle count = %v, want 2", got)
	}
	if n := testutil.CollectAndCount(c, "objtrack_diagnostics_total"); n != 2 {
		t.Errorf("diagnostic series = %d, want 2", n)
	}
}

func TestRegister(t *testing.T) {
	c := New()
	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := reg.Register(c); err == nil {
		t.Fatal("expected duplicate registration error")
	}

	c.OnRegistryEvent(registry.Event{Record: registry.Record{Handle: 0x1, Type: handle.TypeInstance}, Type: registry.EventInserted})

	expected := `
# HELP objtrack_live_objects Objects currently tracked, by handle type.
# TYPE objtrack_live_objects gauge
objtrack_live_objects{type="VkInstance"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "objtrack_live_objects"); err != nil {
		t.Fatal(err)
	}
}
