package schema

import (
	"strings"

	"go.uber.org/multierr"

	"github.com/wippyai/objtrack/errors"
	"github.com/wippyai/objtrack/handle"
)

// Schema is the declarative description of commands and aggregates. It is
// built once and read concurrently afterwards.
type Schema struct {
	structs  map[string]*Struct
	commands map[string]*Command
	groups   map[string]Group
	order    []string
}

// New creates an empty schema.
func New() *Schema {
	return &Schema{
		structs:  make(map[string]*Struct),
		commands: make(map[string]*Command),
		groups:   make(map[string]Group),
	}
}

// AddStruct declares an aggregate type.
func (s *Schema) AddStruct(st Struct) error {
	if _, dup := s.structs[st.Name]; dup {
		return errors.Duplicate(errors.PhaseSchema, "struct", st.Name)
	}
	s.structs[st.Name] = &st
	return nil
}

// AddCommand declares a command.
func (s *Schema) AddCommand(c Command) error {
	if _, dup := s.commands[c.Name]; dup {
		return errors.Duplicate(errors.PhaseSchema, "command", c.Name)
	}
	s.commands[c.Name] = &c
	s.order = append(s.order, c.Name)
	return nil
}

// AddGroup declares a handle-group result struct.
func (s *Schema) AddGroup(g Group) error {
	if _, dup := s.groups[g.Struct]; dup {
		return errors.Duplicate(errors.PhaseSchema, "group", g.Struct)
	}
	s.groups[g.Struct] = g
	return nil
}

// Struct returns an aggregate by name.
func (s *Schema) Struct(name string) (*Struct, bool) {
	st, ok := s.structs[name]
	return st, ok
}

// Command returns a command by name.
func (s *Schema) Command(name string) (*Command, bool) {
	c, ok := s.commands[name]
	return c, ok
}

// Group returns the handle-group description for a struct.
func (s *Schema) Group(structName string) (Group, bool) {
	g, ok := s.groups[structName]
	return g, ok
}

// Commands returns command names in declaration order.
func (s *Schema) Commands() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// ContainsHandles reports whether the struct transitively contains a handle.
func (s *Schema) ContainsHandles(name string) bool {
	return s.containsHandles(name, map[string]bool{})
}

func (s *Schema) containsHandles(name string, visiting map[string]bool) bool {
	st, ok := s.structs[name]
	if !ok || visiting[name] {
		return false
	}
	visiting[name] = true
	for _, f := range st.Fields {
		switch f.Kind {
		case KindHandle:
			return true
		case KindStruct:
			if f.Struct != name && s.containsHandles(f.Struct, visiting) {
				return true
			}
		}
	}
	return false
}

// Validate checks that every referenced struct, handle type and count field
// is declared.
func (s *Schema) Validate() error {
	var err error
	for _, name := range s.order {
		c := s.commands[name]
		err = multierr.Append(err, s.validateFields(c.Name, c.Params))
	}
	for _, st := range s.structs {
		err = multierr.Append(err, s.validateFields(st.Name, st.Fields))
	}
	for _, g := range s.groups {
		st, ok := s.structs[g.Struct]
		if !ok {
			err = multierr.Append(err, errors.NotFound(errors.PhaseSchema, "group struct", g.Struct))
			continue
		}
		if !hasField(st.Fields, g.Handles) {
			err = multierr.Append(err, errors.NotFound(errors.PhaseSchema, "group field", g.Struct+"."+g.Handles))
		}
		if g.Command != "" {
			if _, ok := s.commands[g.Command]; !ok {
				err = multierr.Append(err, errors.NotFound(errors.PhaseSchema, "group command", g.Command))
			}
		}
	}
	return err
}

func (s *Schema) validateFields(owner string, fields []Field) error {
	var err error
	for _, f := range fields {
		path := []string{owner, f.Name}
		switch f.Kind {
		case KindHandle:
			if !f.Handle.Valid() {
				err = multierr.Append(err, errors.UnknownType(errors.PhaseSchema, path, f.Handle.String()))
			}
		case KindStruct:
			if _, ok := s.structs[f.Struct]; !ok {
				err = multierr.Append(err, errors.UnknownType(errors.PhaseSchema, path, f.Struct))
			}
		}
		if f.Len != "" {
			head, _, _ := strings.Cut(f.Len, ".")
			if !hasField(fields, head) {
				err = multierr.Append(err, errors.InvalidData(errors.PhaseSchema, path,
					"count field "+f.Len+" is not declared"))
			}
		}
	}
	return err
}

func hasField(fields []Field, name string) bool {
	for _, f := range fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Created returns the handle type produced by a create-class command, or
// TypeUnknown when the output is not a handle.
func Created(c *Command) handle.Type {
	out, ok := c.Output()
	if !ok || out.Kind != KindHandle {
		return handle.TypeUnknown
	}
	return out.Handle
}
