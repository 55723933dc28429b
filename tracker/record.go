package tracker

import (
	"go.uber.org/zap"

	"github.com/wippyai/objtrack/handle"
	"github.com/wippyai/objtrack/registry"
	"github.com/wippyai/objtrack/schema"
	"github.com/wippyai/objtrack/vulkan"
)

func zapCommand(name string) zap.Field {
	return zap.String("command", name)
}

// PreCallRecord removes the records retired by a destroy-class call before
// the call proceeds.
func (t *Tracker) PreCallRecord(call Call) {
	cmd, ok := t.schema.Command(call.Command)
	if !ok {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if h, ok := t.hooks[cmd.Name]; ok && h.preRecord != nil {
		h.preRecord(t, call.Args)
		return
	}
	f, ok := cmd.Destroyed()
	if !ok {
		return
	}
	t.reg.Remove(call.Args.Handle(f.Name), f.Handle)
}

// PostCallRecord inserts the handles produced by a create-class call once the
// call reported success.
func (t *Tracker) PostCallRecord(call Call, result vulkan.Result) {
	cmd, ok := t.schema.Command(call.Command)
	if !ok {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if h, ok := t.hooks[cmd.Name]; ok && h.postRecord != nil {
		h.postRecord(t, call.Args, result)
		return
	}
	t.postCallRecord(cmd, call.Args, result)
}

func (t *Tracker) postCallRecord(cmd *schema.Command, args schema.Record, result vulkan.Result) {
	out, ok := cmd.Output()
	if !ok || !succeeded(cmd, result) {
		return
	}

	switch out.Kind {
	case schema.KindHandle:
		parent, owner := t.creationContext(cmd, args, out.Handle)
		rec := registry.Record{Type: out.Handle, Owner: owner, Parent: parent, Alloc: allocatorOf(cmd, args)}
		if !out.IsArray() {
			rec.Handle = args.Handle(out.Name)
			if !rec.Handle.IsNull() {
				t.recordCreated(cmd.Name, rec, cmd.IsRetrieval())
			}
			return
		}
		hs, ok := args.Handles(out.Name)
		if !ok {
			return
		}
		n, _ := args.Count(out.Len)
		for i := 0; i < n && i < len(hs); i++ {
			if hs[i].IsNull() {
				if cmd.IsCreateShaders() {
					break
				}
				continue
			}
			rec.Handle = hs[i]
			t.recordCreated(cmd.Name, rec, cmd.IsRetrieval())
		}
	case schema.KindStruct:
		t.recordGroups(cmd, out, args)
	}
}

// recordGroups records handles returned inside an array of result structs.
func (t *Tracker) recordGroups(cmd *schema.Command, out schema.Field, args schema.Record) {
	g, ok := t.schema.Group(out.Struct)
	if !ok {
		return
	}
	elems, ok := args.Structs(out.Name)
	if !ok {
		return
	}
	n := len(elems)
	if out.IsArray() {
		if c, ok := args.Count(out.Len); ok && c < n {
			n = c
		}
	}

	if g.Command != "" {
		sub, ok := t.schema.Command(g.Command)
		if !ok || len(sub.Params) < 3 {
			return
		}
		dispatch := sub.Params[0].Name
		countName := sub.Params[len(sub.Params)-2].Name
		outName := sub.Params[len(sub.Params)-1].Name
		for _, elem := range elems[:n] {
			subArgs := schema.Record{
				dispatch:  args[cmd.Params[0].Name],
				countName: elem[g.Count],
				outName:   elem[g.Handles],
			}
			t.postCallRecord(sub, subArgs, vulkan.Success)
		}
		return
	}

	st, ok := t.schema.Struct(g.Struct)
	if !ok {
		return
	}
	var typ handle.Type
	for _, f := range st.Fields {
		if f.Name == g.Handles {
			typ = f.Handle
		}
	}
	parent, owner := t.creationContext(cmd, args, typ)
	for _, elem := range elems[:n] {
		rec := registry.Record{Type: typ, Owner: owner, Parent: parent, Alloc: allocatorOf(cmd, args)}
		rec.Handle = elem.Handle(g.Handles)
		if rec.Handle.IsNull() {
			continue
		}
		t.recordCreated(cmd.Name, rec, true)
	}
}

// succeeded applies the per-command success gate.
func succeeded(cmd *schema.Command, result vulkan.Result) bool {
	if !cmd.ReturnsResult {
		return true
	}
	if cmd.IsCreatePipelines() {
		return result != vulkan.ErrorValidationFailedEXT
	}
	switch result {
	case vulkan.Success:
		return true
	case vulkan.Incomplete:
		return cmd.IsRetrieval()
	case vulkan.ErrorIncompatibleShaderBinaryEXT:
		return cmd.IsCreateShaders()
	}
	return false
}

// creationContext returns the parent and owner of objects of type typ
// produced by cmd. The parent is the argument of the declared parent type,
// or the first argument when there is none. The owner is the root of the
// first argument.
func (t *Tracker) creationContext(cmd *schema.Command, args schema.Record, typ handle.Type) (parent, owner handle.Handle) {
	if len(cmd.Params) == 0 || cmd.Params[0].Kind != schema.KindHandle {
		return handle.Null, handle.Null
	}
	first := cmd.Params[0]
	parent = args.Handle(first.Name)
	owner = t.rootOf(parent, first.Handle)

	pt, ok := t.model.DeclaredParent(typ)
	if !ok || pt == first.Handle {
		return parent, owner
	}
	for _, f := range cmd.Params[1:] {
		if f.Kind != schema.KindHandle || f.IsArray() || f.Handle != pt {
			continue
		}
		if h := args.Handle(f.Name); !h.IsNull() {
			parent = h
		}
		break
	}
	return parent, owner
}

// recordCreated inserts a handle produced by a call. Objects whose owner is
// not a live instance or device could never be reached by teardown, so they
// are logged as invariant violations and left out.
func (t *Tracker) recordCreated(command string, rec registry.Record, retrieval bool) {
	if rec.Type != handle.TypeInstance && !t.isLiveRoot(rec.Owner) {
		t.log.Error("object tracker insert skipped",
			zap.String("rule", InsertRule),
			zapCommand(command),
			zap.Stringer("object", rec.Type),
			zap.Stringer("handle", rec.Handle),
			zap.Stringer("owner", rec.Owner))
		return
	}
	t.createObject(command, rec, retrieval)
}

func (t *Tracker) isLiveRoot(h handle.Handle) bool {
	if _, ok := t.reg.Lookup(h, handle.TypeInstance); ok {
		return true
	}
	_, ok := t.reg.Lookup(h, handle.TypeDevice)
	return ok
}

func allocatorOf(cmd *schema.Command, args schema.Record) registry.Allocator {
	f, ok := cmd.CreateAllocator()
	if !ok {
		return registry.None
	}
	if a := args.Allocator(f.Name); a != nil {
		return registry.Custom(a.ID)
	}
	return registry.Default
}
