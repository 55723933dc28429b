package layer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/objtrack/config"
	"github.com/wippyai/objtrack/diag"
	"github.com/wippyai/objtrack/handle"
	"github.com/wippyai/objtrack/metrics"
	"github.com/wippyai/objtrack/schema"
	"github.com/wippyai/objtrack/tracker"
	"github.com/wippyai/objtrack/vulkan"
)

const (
	instance = handle.Handle(0x1)
	physical = handle.Handle(0x2)
	device   = handle.Handle(0x3)
)

func returns(r vulkan.Result, called *int) Next {
	return func(context.Context) vulkan.Result {
		*called++
		return r
	}
}

func newLayer(t *testing.T, blocking bool, opts ...Option) *Layer {
	t.Helper()
	cfg := config.Default()
	cfg.Blocking = blocking
	ly, err := New(cfg, append([]Option{WithoutLogReporter()}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return ly
}

func bootstrap(t *testing.T, ly *Layer) {
	t.Helper()
	ctx := context.Background()
	var n int
	calls := []tracker.Call{
		{Command: "vkCreateInstance", Args: schema.Record{"pInstance": instance}},
		{Command: "vkEnumeratePhysicalDevices", Args: schema.Record{
			"instance":             instance,
			"pPhysicalDeviceCount": uint32(1),
			"pPhysicalDevices":     []handle.Handle{physical},
		}},
		{Command: "vkCreateDevice", Args: schema.Record{"physicalDevice": physical, "pDevice": device}},
	}
	for _, c := range calls {
		if _, out := ly.Call(ctx, c, returns(vulkan.Success, &n)); len(out.Diagnostics) != 0 {
			t.Fatalf("%s: %v", c.Command, out.Diagnostics)
		}
	}
}

func TestCallRecordsAroundNext(t *testing.T) {
	ly := newLayer(t, false)
	bootstrap(t, ly)

	var called int
	res, out := ly.Call(context.Background(), tracker.Call{
		Command: "vkCreateBuffer",
		Args:    schema.Record{"device": device, "pBuffer": handle.Handle(0x10)},
	}, returns(vulkan.Success, &called))
	if res != vulkan.Success || called != 1 || len(out.Diagnostics) != 0 {
		t.Fatalf("res=%v called=%d out=%v", res, called, out.Diagnostics)
	}
	if _, ok := ly.Tracker().Registry().Lookup(0x10, handle.TypeBuffer); !ok {
		t.Fatal("buffer not recorded")
	}

	// a failed create is not recorded
	res, _ = ly.Call(context.Background(), tracker.Call{
		Command: "vkCreateBuffer",
		Args:    schema.Record{"device": device, "pBuffer": handle.Handle(0x11)},
	}, returns(vulkan.ErrorOutOfDeviceMemory, &called))
	if res != vulkan.ErrorOutOfDeviceMemory {
		t.Fatalf("result = %v", res)
	}
	if _, ok := ly.Tracker().Registry().Lookup(0x11, handle.TypeBuffer); ok {
		t.Fatal("failed create was recorded")
	}
}

func TestBlockingPolicy(t *testing.T) {
	tests := []struct {
		name       string
		blocking   bool
		wantResult vulkan.Result
		wantCalled int
	}{
		{"blocking", true, vulkan.ErrorValidationFailedEXT, 0},
		{"non-blocking", false, vulkan.Success, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &diag.Collector{}
			ly := newLayer(t, tt.blocking, WithReporter(c))
			bootstrap(t, ly)

			var called int
			res, out := ly.Call(context.Background(), tracker.Call{
				Command: "vkDestroyBuffer",
				Args:    schema.Record{"device": device, "buffer": handle.Handle(0x99)},
			}, returns(vulkan.Success, &called))

			if res != tt.wantResult || called != tt.wantCalled {
				t.Fatalf("result=%v called=%d, want %v/%d", res, called, tt.wantResult, tt.wantCalled)
			}
			if !out.Skip || !out.HasRule("VUID-vkDestroyBuffer-buffer-parameter") {
				t.Fatalf("outcome = %+v", out)
			}
			if len(c.Diagnostics) != 1 {
				t.Fatalf("reported %d diagnostics, want 1", len(c.Diagnostics))
			}
		})
	}
}

func TestBlockedDestroyKeepsObjectLive(t *testing.T) {
	ly := newLayer(t, true)
	bootstrap(t, ly)
	var called int
	ly.Call(context.Background(), tracker.Call{
		Command: "vkCreateBuffer",
		Args: schema.Record{
			"device":     device,
			"pAllocator": &schema.AllocationCallbacks{ID: 7},
			"pBuffer":    handle.Handle(0x10),
		},
	}, returns(vulkan.Success, &called))

	res, out := ly.Call(context.Background(), tracker.Call{
		Command: "vkDestroyBuffer",
		Args:    schema.Record{"device": device, "buffer": handle.Handle(0x10)},
	}, returns(vulkan.Success, &called))
	if res != vulkan.ErrorValidationFailedEXT || !out.HasRule("VUID-vkDestroyBuffer-buffer-00923") {
		t.Fatalf("res=%v out=%v", res, out.Diagnostics)
	}
	if _, ok := ly.Tracker().Registry().Lookup(0x10, handle.TypeBuffer); !ok {
		t.Fatal("blocked destroy removed the buffer")
	}
}

func TestTeardownReportsLeaks(t *testing.T) {
	c := &diag.Collector{}
	ly := newLayer(t, false, WithReporter(c))
	bootstrap(t, ly)
	var called int
	ly.Call(context.Background(), tracker.Call{
		Command: "vkCreateFence",
		Args:    schema.Record{"device": device, "pFence": handle.Handle(0x20)},
	}, returns(vulkan.Success, &called))

	_, out := ly.Call(context.Background(), tracker.Call{
		Command: "vkDestroyDevice",
		Args:    schema.Record{"device": device},
	}, returns(vulkan.Success, &called))
	if len(out.Diagnostics) != 1 || out.Diagnostics[0].Kind != diag.KindLeakedObject {
		t.Fatalf("diagnostics = %v", out.Diagnostics)
	}
	if ly.Tracker().Registry().LenOfType(handle.TypeFence) != 0 {
		t.Fatal("leaked fence not evicted")
	}
	if _, ok := ly.Tracker().Registry().Lookup(device, handle.TypeDevice); ok {
		t.Fatal("device still live")
	}
	if len(c.Diagnostics) != 1 {
		t.Fatalf("reporter got %d diagnostics", len(c.Diagnostics))
	}
}

func TestLogReporter(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cfg := config.Default()
	ly, err := New(cfg, WithLogger(zap.New(core)))
	if err != nil {
		t.Fatal(err)
	}
	ly.Call(context.Background(), tracker.Call{
		Command: "vkDestroyInstance",
		Args:    schema.Record{"instance": handle.Handle(0x42)},
	}, nil)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("logged %d entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["rule"] != "VUID-vkDestroyInstance-instance-parameter" {
		t.Errorf("rule = %v", fields["rule"])
	}
	if fields["kind"] != "invalid_handle" || fields["object"] != "VkInstance" || fields["handle"] != "0x42" {
		t.Errorf("fields = %v", fields)
	}
	if fields["location"] != "vkDestroyInstance(): instance" {
		t.Errorf("location = %v", fields["location"])
	}
}

func TestMetrics(t *testing.T) {
	m := metrics.New()
	ly := newLayer(t, false, WithMetrics(m))
	defer ly.Close()
	bootstrap(t, ly)

	var called int
	ly.Call(context.Background(), tracker.Call{
		Command: "vkDestroyBuffer",
		Args:    schema.Record{"device": device, "buffer": handle.Handle(0x99)},
	}, returns(vulkan.Success, &called))

	if n := testutil.CollectAndCount(m, "objtrack_live_objects"); n != 3 {
		t.Errorf("live object series = %d, want 3", n)
	}
	if n := testutil.CollectAndCount(m, "objtrack_diagnostics_total"); n != 1 {
		t.Errorf("diagnostic series = %d, want 1", n)
	}
}

func TestCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vuids.yaml")
	if err := os.WriteFile(path, []byte("- VUID-vkCmdCopyBuffer-srcBuffer-parent\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.CatalogPath = path
	if _, err := New(cfg, WithoutLogReporter()); err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := os.WriteFile(path, []byte("variant: [\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := New(cfg); err == nil {
		t.Fatal("expected error for malformed catalog")
	}
}

func TestInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Variant = "metal"
	if _, err := New(cfg); err == nil {
		t.Fatal("expected error")
	}
}
