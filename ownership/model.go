// Package ownership holds the static parent/child relationships between
// handle types and classifies every type into a lifecycle scope.
package ownership

import (
	"go.uber.org/multierr"

	"github.com/wippyai/objtrack/errors"
	"github.com/wippyai/objtrack/handle"
)

// Scope is the lifecycle scope a handle type belongs to.
type Scope uint8

const (
	ScopeInstance Scope = iota
	ScopeDevice
	ScopeCommandBuffer
)

func (s Scope) String() string {
	switch s {
	case ScopeInstance:
		return "instance"
	case ScopeDevice:
		return "device"
	case ScopeCommandBuffer:
		return "commandBuffer"
	default:
		return "unknown"
	}
}

// Decl declares one handle type of the hierarchy.
// Parent is TypeUnknown for root types.
type Decl struct {
	Type         handle.Type
	Parent       handle.Type
	Dispatchable bool
}

// DefaultParentExempt lists the types whose parent linkage is not validated
// through the generic parent check.
var DefaultParentExempt = []handle.Type{
	handle.TypePhysicalDevice,
	handle.TypeSwapchainKHR,
	handle.TypeDisplayKHR,
	handle.TypeSurfaceKHR,
	handle.TypeDisplayModeKHR,
	handle.TypeDebugReportCallbackEXT,
	handle.TypeDebugUtilsMessengerEXT,
}

// Option configures a Model.
type Option func(*Model)

// WithImplicitlyDestroyed marks types retired by their parent without an
// explicit destroy call.
func WithImplicitlyDestroyed(types ...handle.Type) Option {
	return func(m *Model) {
		for _, t := range types {
			m.implicit[t] = true
		}
	}
}

// WithParentExempt replaces the parent-check exemption list.
func WithParentExempt(types ...handle.Type) Option {
	return func(m *Model) {
		m.exempt = make(map[handle.Type]bool, len(types))
		for _, t := range types {
			m.exempt[t] = true
		}
	}
}

// Model is an immutable view of the handle hierarchy.
type Model struct {
	decls    map[handle.Type]Decl
	order    []handle.Type
	scopes   map[handle.Type]Scope
	implicit map[handle.Type]bool
	exempt   map[handle.Type]bool
}

// NewModel builds a model from declarations. Every declared parent must itself
// be declared and the hierarchy must be acyclic.
func NewModel(decls []Decl, opts ...Option) (*Model, error) {
	m := &Model{
		decls:    make(map[handle.Type]Decl, len(decls)),
		order:    make([]handle.Type, 0, len(decls)),
		scopes:   make(map[handle.Type]Scope, len(decls)),
		implicit: make(map[handle.Type]bool),
	}
	WithParentExempt(DefaultParentExempt...)(m)
	for _, opt := range opts {
		opt(m)
	}

	var err error
	for _, d := range decls {
		if !d.Type.Valid() {
			err = multierr.Append(err, errors.UnknownType(errors.PhaseModel, nil, d.Type.String()))
			continue
		}
		if _, dup := m.decls[d.Type]; dup {
			err = multierr.Append(err, errors.Duplicate(errors.PhaseModel, d.Type.String(), d))
			continue
		}
		m.decls[d.Type] = d
		m.order = append(m.order, d.Type)
	}
	for _, t := range m.order {
		p := m.decls[t].Parent
		if p == handle.TypeUnknown {
			continue
		}
		if _, ok := m.decls[p]; !ok {
			err = multierr.Append(err, errors.New(errors.PhaseModel, errors.KindNotFound).
				Object(t.String()).
				Detail("parent type %s is not declared", p).
				Build())
		}
	}
	if err != nil {
		return nil, err
	}
	for _, t := range m.order {
		s, cerr := m.classify(t)
		if cerr != nil {
			err = multierr.Append(err, cerr)
			continue
		}
		m.scopes[t] = s
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// classify walks the parent chain of t. A Device ancestor puts the type in
// device scope; Device itself is instance-scoped.
func (m *Model) classify(t handle.Type) (Scope, error) {
	if t == handle.TypeCommandBuffer {
		return ScopeCommandBuffer, nil
	}
	seen := map[handle.Type]bool{t: true}
	for p := m.decls[t].Parent; p != handle.TypeUnknown; p = m.decls[p].Parent {
		if seen[p] {
			return 0, errors.New(errors.PhaseModel, errors.KindCycle).
				Object(t.String()).
				Detail("parent chain revisits %s", p).
				Build()
		}
		seen[p] = true
		if p == handle.TypeDevice {
			return ScopeDevice, nil
		}
	}
	return ScopeInstance, nil
}

// Declared reports whether t is part of the hierarchy.
func (m *Model) Declared(t handle.Type) bool {
	_, ok := m.decls[t]
	return ok
}

// DeclaredParent returns the declared parent type, ignoring exemptions.
func (m *Model) DeclaredParent(t handle.Type) (handle.Type, bool) {
	d, ok := m.decls[t]
	if !ok || d.Parent == handle.TypeUnknown {
		return handle.TypeUnknown, false
	}
	return d.Parent, true
}

// ParentTypeOf returns the required parent type of t. Root types and
// parent-exempt types have none.
func (m *Model) ParentTypeOf(t handle.Type) (handle.Type, bool) {
	if m.exempt[t] {
		return handle.TypeUnknown, false
	}
	return m.DeclaredParent(t)
}

// ParentValidated reports whether handles of type t take part in parent checks.
func (m *Model) ParentValidated(t handle.Type) bool {
	_, ok := m.ParentTypeOf(t)
	return ok
}

// ScopeOf classifies t. Undeclared types are instance-scoped.
func (m *Model) ScopeOf(t handle.Type) Scope {
	return m.scopes[t]
}

func (m *Model) IsImplicitlyDestroyed(t handle.Type) bool {
	return m.implicit[t]
}

func (m *Model) IsDispatchable(t handle.Type) bool {
	return m.decls[t].Dispatchable
}

// LeakScanned returns the non-dispatchable types of scope s in declaration
// order. Command buffers are scanned with the device explicitly and are not
// part of any result.
func (m *Model) LeakScanned(s Scope) []handle.Type {
	var out []handle.Type
	for _, t := range m.order {
		if m.decls[t].Dispatchable || m.scopes[t] != s {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Types returns every declared type in declaration order.
func (m *Model) Types() []handle.Type {
	out := make([]handle.Type, len(m.order))
	copy(out, m.order)
	return out
}
