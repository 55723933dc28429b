package tracker

import (
	"strings"

	"github.com/wippyai/objtrack/diag"
	"github.com/wippyai/objtrack/handle"
	"github.com/wippyai/objtrack/schema"
	"github.com/wippyai/objtrack/vuid"
	"github.com/wippyai/objtrack/vulkan"
)

const basePipelineField = "basePipelineHandle"

// PreCallValidate inspects every handle reachable from the call arguments.
// Unknown commands produce an empty outcome.
func (t *Tracker) PreCallValidate(call Call) diag.Outcome {
	cmd, ok := t.schema.Command(call.Command)
	if !ok {
		t.log.Debug("untracked command", zapCommand(call.Command))
		return diag.Outcome{}
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	w := &walker{t: t, cmd: cmd, root: t.callRoot(cmd, call.Args)}
	loc := diag.NewLocation(cmd.Name)
	w.fields(cmd.VUIDName(), true, cmd.Params, call.Args, loc, cmd.IsCreate())

	if f, ok := cmd.Destroyed(); ok {
		var alloc *schema.AllocationCallbacks
		if af, ok := cmd.DestroyAllocator(); ok {
			alloc = call.Args.Allocator(af.Name)
		}
		t.validateDestroyObject(&w.out, call.Args.Handle(f.Name), f.Handle, alloc,
			t.profile.AllocatorVUID(f.Handle, f.Name, vuid.AllocCompat),
			t.profile.AllocatorVUID(f.Handle, f.Name, vuid.AllocNull),
			loc)
	}

	if h, ok := t.hooks[cmd.Name]; ok && h.validate != nil {
		h.validate(w, call.Args)
	}
	return w.out
}

// callRoot is the instance or device implied by the first argument.
func (t *Tracker) callRoot(cmd *schema.Command, args schema.Record) handle.Handle {
	if len(cmd.Params) == 0 || cmd.Params[0].Kind != schema.KindHandle {
		return handle.Null
	}
	first := cmd.Params[0]
	if root := t.rootOf(args.Handle(first.Name), first.Handle); !root.IsNull() {
		return root
	}
	rest := cmd.Params[1:]
	if cmd.IsCreate() && len(rest) > 0 {
		rest = rest[:len(rest)-1]
	}
	return t.firstLiveRoot(rest, args)
}

// firstLiveRoot is the root of the first live single-handle argument. It is
// the common-parent reference when the dispatch handle is unknown.
func (t *Tracker) firstLiveRoot(params []schema.Field, args schema.Record) handle.Handle {
	for _, f := range params {
		if f.Kind != schema.KindHandle || f.IsArray() {
			continue
		}
		rec, ok := t.reg.Lookup(args.Handle(f.Name), f.Handle)
		if !ok {
			continue
		}
		return recordRoot(rec)
	}
	return handle.Null
}

type walker struct {
	t    *Tracker
	cmd  *schema.Command
	out  diag.Outcome
	root handle.Handle
}

// fields visits one parameter list or struct body in declaration order.
// owner is the command or struct name used to build identifiers.
func (w *walker) fields(owner string, top bool, fields []schema.Field, rec schema.Record, loc diag.Location, skipLast bool) {
	handles := 0
	for _, f := range fields {
		if f.Kind == schema.KindHandle {
			handles++
		}
	}

	for i, f := range fields {
		if skipLast && i == len(fields)-1 {
			continue
		}
		switch f.Kind {
		case schema.KindHandle:
			w.handleField(owner, top, i, f, fields, handles, rec, loc)
		case schema.KindStruct:
			w.structField(f, rec, loc)
		}
	}
}

func (w *walker) handleField(owner string, top bool, i int, f schema.Field, fields []schema.Field,
	handles int, rec schema.Record, loc diag.Location,
) {
	t := w.t
	check := ObjectCheck{
		Type:        f.Handle,
		Root:        w.root,
		NullAllowed: f.NullAllowed(),
		InvalidVUID: t.catalog.Lookup("VUID-" + owner + "-" + f.Name + "-parameter"),
		ParentVUID:  w.parentVUID(owner, top, i, f, fields, handles),
	}

	switch {
	case f.IsArray():
		n, _ := rec.Count(f.Len)
		arr, ok := rec.Handles(f.Name)
		if n == 0 || !ok {
			return
		}
		for j := 0; j < n && j < len(arr); j++ {
			check.Handle = arr[j]
			check.Location = loc.DotIndex(f.Name, j)
			t.validateObject(&w.out, check)
		}
	case strings.Contains(f.Name, basePipelineField):
		flags, _ := rec.Int("flags")
		index, hasIndex := rec.Int("basePipelineIndex")
		if flags&vulkan.PipelineCreateDerivativeBit == 0 || !hasIndex || index != -1 {
			return
		}
		check.Handle = rec.Handle(f.Name)
		check.NullAllowed = false
		check.InvalidVUID = t.profile.BasePipelineVUID(owner, f.Name)
		check.Location = loc.Dot(f.Name)
		t.validateObject(&w.out, check)
	default:
		check.Handle = rec.Handle(f.Name)
		check.Location = loc.Dot(f.Name)
		t.validateObject(&w.out, check)
	}
}

// parentVUID selects the parent identifier for field i. The first field is
// the dispatch handle and is never parent-checked.
func (w *walker) parentVUID(owner string, top bool, i int, f schema.Field, fields []schema.Field, handles int) string {
	t := w.t
	if i == 0 || !t.model.ParentValidated(f.Handle) {
		return vuid.Undefined
	}
	switch {
	case fields[0].Kind == schema.KindHandle && fields[0].Handle == handle.TypeDevice:
		return t.catalog.Lookup("VUID-" + owner + "-" + f.Name + "-parent")
	case handles > 1:
		return t.catalog.Lookup("VUID-" + owner + "-commonparent")
	case !top:
		if id, ok := t.profile.ParentOverride(w.cmd.Name, f.Name); ok {
			return id
		}
	}
	return vuid.Undefined
}

func (w *walker) structField(f schema.Field, rec schema.Record, loc diag.Location) {
	t := w.t
	if !t.schema.ContainsHandles(f.Struct) {
		return
	}
	st, ok := t.schema.Struct(f.Struct)
	if !ok {
		return
	}

	switch {
	case f.IsArray():
		elems, ok := rec.Structs(f.Name)
		if !ok {
			return
		}
		n, _ := rec.Count(f.Len)
		for j := 0; j < n && j < len(elems); j++ {
			w.fields(st.Name, false, st.Fields, elems[j], loc.DotIndex(f.Name, j), false)
		}
	case f.Pointer:
		sub, ok := rec.Struct(f.Name)
		if !ok {
			return
		}
		w.fields(st.Name, false, st.Fields, sub, loc.Dot(f.Name), false)
	default:
		sub, _ := rec.Struct(f.Name)
		w.fields(st.Name, false, st.Fields, sub, loc.Dot(f.Name), false)
	}
}

// report adds a diagnostic produced by a command hook.
func (w *walker) report(d diag.Diagnostic) {
	w.out.Add(d)
}
