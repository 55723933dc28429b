// Package hostabi exposes the object tracker primitives to WebAssembly
// guests as the wazero host module "objtrack".
//
// Exports (handle values are i64, handle types are the handle.Type values):
//
//	create_object(type i32, handle i64, owner i64, parent i64, alloc_kind i32, alloc_id i64) -> status i32
//	validate_object(type i32, handle i64, root i64, null_allowed i32) -> diagnostics i32
//	destroy_object(type i32, handle i64) -> removed i32
//	teardown(type i32, handle i64) -> leaks i32
//	object_count(type i32) -> count i64
//
// A zero type in object_count counts every live object. Diagnostics produced
// by validate_object and teardown go to the host's reporter.
package hostabi

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/objtrack/diag"
	"github.com/wippyai/objtrack/errors"
	"github.com/wippyai/objtrack/handle"
	"github.com/wippyai/objtrack/registry"
	"github.com/wippyai/objtrack/tracker"
	"github.com/wippyai/objtrack/vuid"
)

// ModuleName is the import module name guests use.
const ModuleName = "objtrack"

// ParentRule tags parent mismatches found through validate_object, which
// carries no command context.
const ParentRule = "UNASSIGNED-ObjectTracker-Parent"

// create_object status codes.
const (
	StatusOK          = 0
	StatusDuplicate   = 1
	StatusInvalidType = 2
	StatusNullHandle  = 3
)

// Host binds a tracker to guest calls.
type Host struct {
	tracker  *tracker.Tracker
	reporter diag.Reporter
	log      *zap.Logger
}

// New creates a host over t. A nil reporter drops diagnostics after
// counting them.
func New(t *tracker.Tracker, r diag.Reporter, log *zap.Logger) *Host {
	if r == nil {
		r = diag.Reporters(nil)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Host{tracker: t, reporter: r, log: log}
}

type export struct {
	name    string
	fn      api.GoModuleFunc
	params  []api.ValueType
	results []api.ValueType
}

func (h *Host) exports() []export {
	i32, i64 := api.ValueTypeI32, api.ValueTypeI64
	return []export{
		{"create_object", h.createObject, []api.ValueType{i32, i64, i64, i64, i32, i64}, []api.ValueType{i32}},
		{"validate_object", h.validateObject, []api.ValueType{i32, i64, i64, i32}, []api.ValueType{i32}},
		{"destroy_object", h.destroyObject, []api.ValueType{i32, i64}, []api.ValueType{i32}},
		{"teardown", h.teardown, []api.ValueType{i32, i64}, []api.ValueType{i32}},
		{"object_count", h.objectCount, []api.ValueType{i32}, []api.ValueType{i64}},
	}
}

// Instantiate registers the host module in rt.
func (h *Host) Instantiate(ctx context.Context, rt wazero.Runtime) (api.Module, error) {
	builder := rt.NewHostModuleBuilder(ModuleName)
	for _, e := range h.exports() {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(e.fn, e.params, e.results).
			WithName(e.name).
			Export(e.name)
	}
	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, errors.Registration(errors.PhaseHost, ModuleName, "", err)
	}
	return mod, nil
}

func decodeType(v uint64) handle.Type {
	return handle.Type(api.DecodeU32(v))
}

func (h *Host) createObject(_ context.Context, _ api.Module, stack []uint64) {
	typ := decodeType(stack[0])
	rec := registry.Record{
		Type:   typ,
		Handle: handle.Handle(stack[1]),
		Owner:  handle.Handle(stack[2]),
		Parent: handle.Handle(stack[3]),
	}
	switch registry.AllocatorKind(api.DecodeU32(stack[4])) {
	case registry.AllocatorDefault:
		rec.Alloc = registry.Default
	case registry.AllocatorCustom:
		rec.Alloc = registry.Custom(stack[5])
	default:
		rec.Alloc = registry.None
	}

	var status uint32
	switch {
	case !typ.Valid():
		status = StatusInvalidType
	case rec.Handle.IsNull():
		status = StatusNullHandle
	default:
		if err := h.tracker.CreateObject(rec); err != nil {
			status = StatusDuplicate
		}
	}
	stack[0] = api.EncodeU32(status)
}

func (h *Host) validateObject(_ context.Context, _ api.Module, stack []uint64) {
	check := tracker.ObjectCheck{
		Type:        decodeType(stack[0]),
		Handle:      handle.Handle(stack[1]),
		Root:        handle.Handle(stack[2]),
		NullAllowed: api.DecodeU32(stack[3]) != 0,
		InvalidVUID: vuid.Undefined,
		Location:    diag.NewLocation("validate_object"),
	}
	if !check.Root.IsNull() {
		check.ParentVUID = ParentRule
	}
	stack[0] = api.EncodeU32(h.report(h.tracker.ValidateObject(check)))
}

func (h *Host) destroyObject(_ context.Context, _ api.Module, stack []uint64) {
	var removed uint32
	if h.tracker.RecordDestroyObject(handle.Handle(stack[1]), decodeType(stack[0])) {
		removed = 1
	}
	stack[0] = api.EncodeU32(removed)
}

func (h *Host) teardown(_ context.Context, _ api.Module, stack []uint64) {
	typ, obj := decodeType(stack[0]), handle.Handle(stack[1])
	var out diag.Outcome
	switch typ {
	case handle.TypeDevice:
		out = h.tracker.TeardownDevice(obj)
	case handle.TypeInstance:
		out = h.tracker.TeardownInstance(obj)
	default:
		h.log.Debug("teardown of a non-root type ignored", zap.Stringer("type", typ))
	}
	stack[0] = api.EncodeU32(h.report(out))
}

func (h *Host) objectCount(_ context.Context, _ api.Module, stack []uint64) {
	typ := decodeType(stack[0])
	reg := h.tracker.Registry()
	if typ == handle.TypeUnknown {
		stack[0] = uint64(reg.Len())
		return
	}
	stack[0] = uint64(reg.LenOfType(typ))
}

func (h *Host) report(out diag.Outcome) uint32 {
	for _, d := range out.Diagnostics {
		h.reporter.Report(d)
	}
	return uint32(len(out.Diagnostics))
}
