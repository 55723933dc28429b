package tracker

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/objtrack/diag"
	"github.com/wippyai/objtrack/errors"
	"github.com/wippyai/objtrack/handle"
	"github.com/wippyai/objtrack/ownership"
	"github.com/wippyai/objtrack/registry"
	"github.com/wippyai/objtrack/schema"
	"github.com/wippyai/objtrack/vuid"
	"github.com/wippyai/objtrack/vulkan"
)

// InsertRule tags internal invariant violations seen while recording.
const InsertRule = "UNASSIGNED-ObjectTracker-Insert"

// Call is one intercepted API call.
type Call struct {
	Args    schema.Record
	Command string
}

// Options configures a Tracker. Schema, Model and Catalog are required.
type Options struct {
	Schema   *schema.Schema
	Model    *ownership.Model
	Catalog  *vuid.Catalog
	Registry *registry.Registry
	Logger   *zap.Logger
	Profile  vuid.Profile
}

// Tracker validates and records object lifetimes for intercepted calls.
type Tracker struct {
	schema  *schema.Schema
	model   *ownership.Model
	catalog *vuid.Catalog
	reg     *registry.Registry
	log     *zap.Logger
	hooks   map[string]hooks
	profile vuid.Profile
	mu      sync.RWMutex
}

// New creates a tracker.
func New(opts Options) (*Tracker, error) {
	switch {
	case opts.Schema == nil:
		return nil, errors.InvalidInput(errors.PhaseConfig, "tracker requires a schema")
	case opts.Model == nil:
		return nil, errors.InvalidInput(errors.PhaseConfig, "tracker requires an ownership model")
	case opts.Catalog == nil:
		return nil, errors.InvalidInput(errors.PhaseConfig, "tracker requires a VUID catalog")
	}

	t := &Tracker{
		schema:  opts.Schema,
		model:   opts.Model,
		catalog: opts.Catalog,
		reg:     opts.Registry,
		log:     opts.Logger,
		profile: opts.Profile,
	}
	if t.reg == nil {
		t.reg = registry.New()
	}
	if t.log == nil {
		t.log = Logger()
	}
	t.hooks = defaultHooks()
	return t, nil
}

// NewForVariant creates a tracker over the built-in Vulkan schema for variant v.
// A nil catalog uses the built-in identifiers.
func NewForVariant(v vuid.Variant, catalog *vuid.Catalog, log *zap.Logger) (*Tracker, error) {
	profile, err := vuid.ProfileFor(v)
	if err != nil {
		return nil, err
	}
	s, err := vulkan.Schema()
	if err != nil {
		return nil, err
	}
	m, err := vulkan.Model(profile)
	if err != nil {
		return nil, err
	}
	if catalog == nil {
		catalog = vulkan.Catalog()
	}
	return New(Options{Schema: s, Model: m, Catalog: catalog, Profile: profile, Logger: log})
}

// Registry returns the live-object registry.
func (t *Tracker) Registry() *registry.Registry {
	return t.reg
}

// Schema returns the command schema.
func (t *Tracker) Schema() *schema.Schema {
	return t.schema
}

// Profile returns the variant profile.
func (t *Tracker) Profile() vuid.Profile {
	return t.profile
}

// ObjectCheck describes one handle validation.
type ObjectCheck struct {
	Location    diag.Location
	InvalidVUID string
	// ParentVUID enables the parent check when it is a cataloged identifier.
	ParentVUID  string
	Handle      handle.Handle
	Root        handle.Handle
	Type        handle.Type
	NullAllowed bool
}

// ValidateObject checks that a handle is live with the expected type and, when
// requested, that it belongs to Root.
func (t *Tracker) ValidateObject(c ObjectCheck) diag.Outcome {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out diag.Outcome
	t.validateObject(&out, c)
	return out
}

func (t *Tracker) validateObject(out *diag.Outcome, c ObjectCheck) {
	if c.Handle.IsNull() {
		if !c.NullAllowed {
			out.Add(diag.Diagnostic{
				RuleID:   c.InvalidVUID,
				Location: c.Location.String(),
				Kind:     diag.KindInvalidHandle,
				Object:   c.Type,
				Message:  fmt.Sprintf("%s is VK_NULL_HANDLE.", c.Type),
			})
		}
		return
	}

	rec, ok := t.reg.Lookup(c.Handle, c.Type)
	if !ok {
		out.Add(diag.Diagnostic{
			RuleID:   c.InvalidVUID,
			Location: c.Location.String(),
			Kind:     diag.KindInvalidHandle,
			Object:   c.Type,
			Handle:   c.Handle,
			Message:  fmt.Sprintf("Invalid %s Object %s.", c.Type, c.Handle),
		})
		return
	}

	if c.ParentVUID == "" || c.ParentVUID == vuid.Undefined {
		return
	}
	if !t.sharesRoot(rec, c.Root) {
		out.Add(diag.Diagnostic{
			RuleID:   c.ParentVUID,
			Location: c.Location.String(),
			Kind:     diag.KindParentMismatch,
			Object:   c.Type,
			Handle:   c.Handle,
			Message: fmt.Sprintf("%s %s was not created, allocated or retrieved from the correct %s.",
				c.Type, c.Handle, rootKind(c.Root, t.reg)),
		})
	}
}

// CreateObject inserts a record. Duplicates are logged as internal invariant
// violations and returned.
func (t *Tracker) CreateObject(rec registry.Record) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.createObject("", rec, false)
}

func (t *Tracker) createObject(command string, rec registry.Record, retrieval bool) error {
	if retrieval {
		if _, ok := t.reg.Lookup(rec.Handle, rec.Type); ok {
			return nil
		}
	}
	err := t.reg.Insert(rec)
	if err != nil {
		t.log.Error("object tracker insert failed",
			zap.String("rule", InsertRule),
			zap.String("command", command),
			zap.Stringer("object", rec.Type),
			zap.Stringer("handle", rec.Handle),
			zap.Error(err))
	}
	return err
}

// ValidateDestroyObject checks allocator compatibility for a destroyed handle.
// A nil alloc means no callbacks were passed.
func (t *Tracker) ValidateDestroyObject(h handle.Handle, typ handle.Type, alloc *schema.AllocationCallbacks,
	compatVUID, nullVUID string, loc diag.Location,
) diag.Outcome {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out diag.Outcome
	t.validateDestroyObject(&out, h, typ, alloc, compatVUID, nullVUID, loc)
	return out
}

func (t *Tracker) validateDestroyObject(out *diag.Outcome, h handle.Handle, typ handle.Type,
	alloc *schema.AllocationCallbacks, compatVUID, nullVUID string, loc diag.Location,
) {
	if !t.profile.AllocatorChecks || h.IsNull() {
		return
	}
	rec, ok := t.reg.Lookup(h, typ)
	if !ok {
		return
	}

	switch rec.Alloc.Kind {
	case registry.AllocatorCustom:
		var msg string
		switch {
		case alloc == nil:
			msg = fmt.Sprintf("Custom allocator not specified while destroying %s obj %s but specified at creation.", typ, h)
		case alloc.ID != rec.Alloc.ID:
			msg = fmt.Sprintf("Allocator %d used to destroy %s obj %s differs from allocator %d used at creation.",
				alloc.ID, typ, h, rec.Alloc.ID)
		default:
			return
		}
		out.Add(diag.Diagnostic{
			RuleID:   compatVUID,
			Location: loc.String(),
			Kind:     diag.KindAllocatorMismatch,
			Object:   typ,
			Handle:   h,
			Message:  msg,
		})
	case registry.AllocatorDefault:
		if alloc == nil {
			return
		}
		out.Add(diag.Diagnostic{
			RuleID:   nullVUID,
			Location: loc.String(),
			Kind:     diag.KindAllocatorMismatch,
			Object:   typ,
			Handle:   h,
			Message:  fmt.Sprintf("Custom allocator specified while destroying %s obj %s but not specified at creation.", typ, h),
		})
	}
}

// RecordDestroyObject removes a record. Removing an absent record is a no-op.
func (t *Tracker) RecordDestroyObject(h handle.Handle, typ handle.Type) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.reg.Remove(h, typ)
	return ok
}

// rootOf returns the instance or device bounding h.
func (t *Tracker) rootOf(h handle.Handle, typ handle.Type) handle.Handle {
	if h.IsNull() {
		return handle.Null
	}
	if typ == handle.TypeInstance || typ == handle.TypeDevice {
		return h
	}
	rec, ok := t.reg.Lookup(h, typ)
	if !ok {
		return handle.Null
	}
	return rec.Owner
}

func recordRoot(rec registry.Record) handle.Handle {
	if rec.Type == handle.TypeInstance || rec.Type == handle.TypeDevice {
		return rec.Handle
	}
	return rec.Owner
}

// sharesRoot reports whether rec belongs to root. Instance-level objects are
// accepted in device-rooted calls when the device belongs to their instance.
func (t *Tracker) sharesRoot(rec registry.Record, root handle.Handle) bool {
	if root.IsNull() {
		return true
	}
	rr := recordRoot(rec)
	if rr == root {
		return true
	}
	dev, ok := t.reg.Lookup(root, handle.TypeDevice)
	return ok && dev.Owner == rr
}

func rootKind(root handle.Handle, reg *registry.Registry) string {
	if _, ok := reg.Lookup(root, handle.TypeDevice); ok {
		return "device"
	}
	return "instance"
}
