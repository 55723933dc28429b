package tracker

import (
	"fmt"

	"github.com/wippyai/objtrack/diag"
	"github.com/wippyai/objtrack/handle"
	"github.com/wippyai/objtrack/ownership"
	"github.com/wippyai/objtrack/registry"
)

// Teardown reports and force-destroys the leaked children of a device or
// instance destroyed by call. Other calls produce an empty outcome.
func (t *Tracker) Teardown(call Call) diag.Outcome {
	cmd, ok := t.schema.Command(call.Command)
	if !ok {
		return diag.Outcome{}
	}
	f, ok := cmd.Destroyed()
	if !ok {
		return diag.Outcome{}
	}
	h := call.Args.Handle(f.Name)
	if h.IsNull() {
		return diag.Outcome{}
	}

	switch f.Handle {
	case handle.TypeDevice:
		return t.TeardownDevice(h)
	case handle.TypeInstance:
		return t.TeardownInstance(h)
	}
	return diag.Outcome{}
}

// TeardownDevice reports the leaks of device, then evicts everything it owns.
func (t *Tracker) TeardownDevice(device handle.Handle) diag.Outcome {
	out := t.ReportUndestroyedDeviceObjects(device)
	t.DestroyLeakedDeviceObjects(device)
	return out
}

// TeardownInstance reports the leaks of instance, then evicts everything it
// owns, including devices that were never destroyed.
func (t *Tracker) TeardownInstance(instance handle.Handle) diag.Outcome {
	out := t.ReportUndestroyedInstanceObjects(instance)
	t.DestroyLeakedInstanceObjects(instance)
	return out
}

// ReportUndestroyedDeviceObjects reports every command buffer and
// non-dispatchable device-scoped object still owned by device.
func (t *Tracker) ReportUndestroyedDeviceObjects(device handle.Handle) diag.Outcome {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out diag.Outcome
	t.reportDevice(&out, device, diag.NewLocation("vkDestroyDevice").Dot("device"))
	return out
}

func (t *Tracker) reportDevice(out *diag.Outcome, device handle.Handle, loc diag.Location) {
	types := append([]handle.Type{handle.TypeCommandBuffer}, t.model.LeakScanned(ownership.ScopeDevice)...)
	t.reportLeaks(out, handle.TypeDevice, device, types, t.profile.UndestroyedDevice, loc)
}

// ReportUndestroyedInstanceObjects reports devices that were never destroyed,
// their own leaks, and every non-dispatchable instance-scoped object still
// owned by instance.
func (t *Tracker) ReportUndestroyedInstanceObjects(instance handle.Handle) diag.Outcome {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out diag.Outcome
	loc := diag.NewLocation("vkDestroyInstance").Dot("instance")
	for _, dev := range t.reg.AllOfType(handle.TypeDevice, instance) {
		out.Add(leak(t.profile.UndestroyedInstance, loc, handle.TypeInstance, instance, dev))
		t.reportDevice(&out, dev.Handle, loc)
	}
	t.reportLeaks(&out, handle.TypeInstance, instance, t.model.LeakScanned(ownership.ScopeInstance),
		t.profile.UndestroyedInstance, loc)
	return out
}

func (t *Tracker) reportLeaks(out *diag.Outcome, scopeType handle.Type, scope handle.Handle,
	types []handle.Type, id string, loc diag.Location,
) {
	for _, typ := range types {
		if t.model.IsImplicitlyDestroyed(typ) {
			continue
		}
		for _, rec := range t.reg.AllOfType(typ, scope) {
			if rec.Retained {
				continue
			}
			out.Add(leak(id, loc, scopeType, scope, rec))
		}
	}
}

func leak(id string, loc diag.Location, scopeType handle.Type, scope handle.Handle, rec registry.Record) diag.Diagnostic {
	return diag.Diagnostic{
		RuleID:   id,
		Location: loc.String(),
		Kind:     diag.KindLeakedObject,
		Object:   rec.Type,
		Handle:   rec.Handle,
		Message: fmt.Sprintf("OBJ ERROR : For %s %s, %s %s has not been destroyed.",
			scopeType, scope, rec.Type, rec.Handle),
	}
}

// DestroyLeakedDeviceObjects evicts every record owned by device.
func (t *Tracker) DestroyLeakedDeviceObjects(device handle.Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.evictOwned(device)
}

// DestroyLeakedInstanceObjects evicts every record owned by instance, and the
// devices of instance together with their records.
func (t *Tracker) DestroyLeakedInstanceObjects(instance handle.Handle) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, dev := range t.reg.AllOfType(handle.TypeDevice, instance) {
		t.evictOwned(dev.Handle)
	}
	t.evictOwned(instance)
}

func (t *Tracker) evictOwned(owner handle.Handle) {
	if owner.IsNull() {
		return
	}
	for _, rec := range t.reg.Owned(owner) {
		t.reg.Evict(rec.Handle, rec.Type)
	}
}
