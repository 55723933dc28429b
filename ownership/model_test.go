package ownership

import (
	"testing"

	"go.uber.org/multierr"

	"github.com/wippyai/objtrack/errors"
	"github.com/wippyai/objtrack/handle"
)

func testDecls() []Decl {
	return []Decl{
		{Type: handle.TypeInstance, Dispatchable: true},
		{Type: handle.TypePhysicalDevice, Parent: handle.TypeInstance, Dispatchable: true},
		{Type: handle.TypeDevice, Parent: handle.TypePhysicalDevice, Dispatchable: true},
		{Type: handle.TypeQueue, Parent: handle.TypeDevice, Dispatchable: true},
		{Type: handle.TypeCommandPool, Parent: handle.TypeDevice},
		{Type: handle.TypeCommandBuffer, Parent: handle.TypeCommandPool, Dispatchable: true},
		{Type: handle.TypeBuffer, Parent: handle.TypeDevice},
		{Type: handle.TypeSurfaceKHR, Parent: handle.TypeInstance},
		{Type: handle.TypeDisplayKHR, Parent: handle.TypePhysicalDevice},
		{Type: handle.TypeSwapchainKHR, Parent: handle.TypeDevice},
	}
}

func TestScopeOf(t *testing.T) {
	m, err := NewModel(testDecls())
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	tests := []struct {
		typ  handle.Type
		want Scope
	}{
		{handle.TypeInstance, ScopeInstance},
		{handle.TypePhysicalDevice, ScopeInstance},
		{handle.TypeDevice, ScopeInstance},
		{handle.TypeQueue, ScopeDevice},
		{handle.TypeBuffer, ScopeDevice},
		{handle.TypeCommandBuffer, ScopeCommandBuffer},
		{handle.TypeSurfaceKHR, ScopeInstance},
		{handle.TypeDisplayKHR, ScopeInstance},
		{handle.TypeSwapchainKHR, ScopeDevice},
	}
	for _, tt := range tests {
		if got := m.ScopeOf(tt.typ); got != tt.want {
			t.Errorf("ScopeOf(%v) = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestParentTypeOf(t *testing.T) {
	m, err := NewModel(testDecls())
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	if p, ok := m.ParentTypeOf(handle.TypeBuffer); !ok || p != handle.TypeDevice {
		t.Errorf("ParentTypeOf(Buffer) = %v, %v", p, ok)
	}
	if _, ok := m.ParentTypeOf(handle.TypeInstance); ok {
		t.Error("Instance should have no parent")
	}
	if _, ok := m.ParentTypeOf(handle.TypeSwapchainKHR); ok {
		t.Error("SwapchainKHR is exempt from parent checks")
	}
	if p, ok := m.DeclaredParent(handle.TypeSwapchainKHR); !ok || p != handle.TypeDevice {
		t.Errorf("DeclaredParent(SwapchainKHR) = %v, %v", p, ok)
	}
	if !m.ParentValidated(handle.TypeCommandPool) {
		t.Error("CommandPool parent should be validated")
	}
}

func TestCustomExemptions(t *testing.T) {
	m, err := NewModel(testDecls(), WithParentExempt(handle.TypeBuffer))
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	if m.ParentValidated(handle.TypeBuffer) {
		t.Error("Buffer should be exempt")
	}
	if !m.ParentValidated(handle.TypeSwapchainKHR) {
		t.Error("replacing the exemption list should re-enable SwapchainKHR")
	}
}

func TestLeakScanned(t *testing.T) {
	m, err := NewModel(testDecls(), WithImplicitlyDestroyed(handle.TypeDisplayKHR))
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	dev := m.LeakScanned(ScopeDevice)
	want := []handle.Type{handle.TypeCommandPool, handle.TypeBuffer, handle.TypeSwapchainKHR}
	if len(dev) != len(want) {
		t.Fatalf("LeakScanned(device) = %v, want %v", dev, want)
	}
	for i := range want {
		if dev[i] != want[i] {
			t.Errorf("LeakScanned(device)[%d] = %v, want %v", i, dev[i], want[i])
		}
	}

	inst := m.LeakScanned(ScopeInstance)
	if len(inst) != 2 || inst[0] != handle.TypeSurfaceKHR || inst[1] != handle.TypeDisplayKHR {
		t.Errorf("LeakScanned(instance) = %v", inst)
	}
	if !m.IsImplicitlyDestroyed(handle.TypeDisplayKHR) {
		t.Error("DisplayKHR should be implicitly destroyed")
	}
	if !m.IsDispatchable(handle.TypeQueue) || m.IsDispatchable(handle.TypeBuffer) {
		t.Error("dispatchable flags mismatch")
	}
}

func TestNewModelErrors(t *testing.T) {
	decls := []Decl{
		{Type: handle.TypeDevice, Dispatchable: true},
		{Type: handle.TypeDevice},
		{Type: handle.TypeBuffer, Parent: handle.TypeImage},
	}
	_, err := NewModel(decls)
	if err == nil {
		t.Fatal("expected error")
	}
	errs := multierr.Errors(err)
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), err)
	}
	var e *errors.Error
	if !asError(errs[0], &e) || e.Kind != errors.KindDuplicate {
		t.Errorf("first error = %v, want duplicate", errs[0])
	}
	if !asError(errs[1], &e) || e.Kind != errors.KindNotFound {
		t.Errorf("second error = %v, want not_found", errs[1])
	}
}

func TestNewModelCycle(t *testing.T) {
	decls := []Decl{
		{Type: handle.TypeBuffer, Parent: handle.TypeImage},
		{Type: handle.TypeImage, Parent: handle.TypeBuffer},
	}
	_, err := NewModel(decls)
	if err == nil {
		t.Fatal("expected cycle error")
	}
	var e *errors.Error
	if !asError(multierr.Errors(err)[0], &e) || e.Kind != errors.KindCycle {
		t.Errorf("error = %v, want cycle", err)
	}
}

func asError(err error, target **errors.Error) bool {
	e, ok := err.(*errors.Error)
	if ok {
		*target = e
	}
	return ok
}
