// Package trace reads recorded API call sequences and replays them through
// an interception layer.
//
// A trace is a YAML document:
//
//	variant: vulkan
//	calls:
//	  - cmd: vkCreateBuffer
//	    args:
//	      device: 0x3
//	      pAllocator: 7
//	      pBuffer: 0x10
//	    result: VK_SUCCESS
//
// Handles are integers or hex strings. An allocator is the integer identity
// of a custom allocator; an absent or null allocator is the default one.
// Structs are nested maps and arrays are sequences.
package trace

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/objtrack/diag"
	"github.com/wippyai/objtrack/errors"
	"github.com/wippyai/objtrack/handle"
	"github.com/wippyai/objtrack/layer"
	"github.com/wippyai/objtrack/schema"
	"github.com/wippyai/objtrack/tracker"
	"github.com/wippyai/objtrack/vulkan"
)

// File is a decoded trace document.
type File struct {
	Variant string  `yaml:"variant"`
	Calls   []Entry `yaml:"calls"`
}

// Entry is one recorded call before schema decoding.
type Entry struct {
	Args    map[string]any `yaml:"args"`
	Command string         `yaml:"cmd"`
	Result  string         `yaml:"result"`
}

// Step is a call ready for replay with the result the driver returned.
type Step struct {
	Call   tracker.Call
	Result vulkan.Result
}

// Outcome is what replaying one step produced.
type Outcome struct {
	Command string
	Diag    diag.Outcome
	Index   int
	Result  vulkan.Result
}

// Load reads a trace file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseTrace, errors.KindNotFound, err, "read "+path)
	}
	return Parse(data)
}

// Parse decodes a trace document.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, errors.ParseFailed(errors.PhaseTrace, "trace", err)
	}
	return &f, nil
}

// Decode converts every entry to typed call arguments using s. All
// malformed entries are reported together.
func (f *File) Decode(s *schema.Schema) ([]Step, error) {
	steps := make([]Step, 0, len(f.Calls))
	var errs error
	for i, e := range f.Calls {
		step, err := decodeEntry(s, e)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("call %d: %w", i, err))
			continue
		}
		steps = append(steps, step)
	}
	if errs != nil {
		return nil, errs
	}
	return steps, nil
}

func decodeEntry(s *schema.Schema, e Entry) (Step, error) {
	cmd, ok := s.Command(e.Command)
	if !ok {
		return Step{}, errors.NotFound(errors.PhaseTrace, "command", e.Command)
	}

	result := vulkan.Success
	if e.Result != "" {
		r, ok := vulkan.ParseResult(e.Result)
		if !ok {
			return Step{}, errors.New(errors.PhaseTrace, errors.KindInvalidData).
				Command(cmd.Name).
				Path("result").
				Value(e.Result).
				Detail("unknown result code").
				Build()
		}
		result = r
	}

	d := decoder{schema: s, command: cmd.Name}
	args, err := d.fields([]string{}, cmd.Params, e.Args)
	if err != nil {
		return Step{}, err
	}
	return Step{Call: tracker.Call{Command: cmd.Name, Args: args}, Result: result}, nil
}

type decoder struct {
	schema  *schema.Schema
	command string
}

func (d decoder) fail(path []string, format string, args ...any) error {
	return errors.New(errors.PhaseTrace, errors.KindInvalidData).
		Command(d.command).
		Path(path...).
		Detail(format, args...).
		Build()
}

func (d decoder) fields(path []string, fields []schema.Field, raw map[string]any) (schema.Record, error) {
	rec := make(schema.Record, len(raw))
	for name, v := range raw {
		p := append(append([]string{}, path...), name)
		f, ok := findField(fields, name)
		if !ok {
			return nil, d.fail(p, "unknown field")
		}
		val, err := d.value(p, f, v)
		if err != nil {
			return nil, err
		}
		if val != nil {
			rec[name] = val
		}
	}
	return rec, nil
}

func (d decoder) value(path []string, f schema.Field, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch {
	case f.IsAllocator():
		id, err := toUint(v)
		if err != nil {
			return nil, d.fail(path, "allocator: %v", err)
		}
		return &schema.AllocationCallbacks{ID: id}, nil
	case f.Kind == schema.KindHandle && f.IsArray():
		items, ok := v.([]any)
		if !ok {
			return nil, d.fail(path, "expected a handle list, got %T", v)
		}
		hs := make([]handle.Handle, len(items))
		for i, item := range items {
			h, err := toHandle(item)
			if err != nil {
				return nil, d.fail(append(path, strconv.Itoa(i)), "%v", err)
			}
			hs[i] = h
		}
		return hs, nil
	case f.Kind == schema.KindHandle:
		h, err := toHandle(v)
		if err != nil {
			return nil, d.fail(path, "%v", err)
		}
		return h, nil
	case f.Kind == schema.KindStruct:
		return d.structValue(path, f, v)
	default:
		if n, ok := schema.Int(v); ok {
			return n, nil
		}
		return v, nil
	}
}

func (d decoder) structValue(path []string, f schema.Field, v any) (any, error) {
	st, ok := d.schema.Struct(f.Struct)
	if !ok {
		// opaque struct: keep the raw value, it carries no handles
		return v, nil
	}
	if !f.IsArray() {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, d.fail(path, "expected a %s map, got %T", st.Name, v)
		}
		return d.fields(path, st.Fields, m)
	}

	items, ok := v.([]any)
	if !ok {
		return nil, d.fail(path, "expected a %s list, got %T", st.Name, v)
	}
	recs := make([]schema.Record, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, d.fail(append(path, strconv.Itoa(i)), "expected a %s map, got %T", st.Name, item)
		}
		rec, err := d.fields(append(path, strconv.Itoa(i)), st.Fields, m)
		if err != nil {
			return nil, err
		}
		recs[i] = rec
	}
	return recs, nil
}

func findField(fields []schema.Field, name string) (schema.Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return schema.Field{}, false
}

func toHandle(v any) (handle.Handle, error) {
	if v == nil {
		return handle.Null, nil
	}
	n, err := toUint(v)
	return handle.Handle(n), err
}

func toUint(v any) (uint64, error) {
	switch n := v.(type) {
	case int:
		if n < 0 {
			return 0, fmt.Errorf("negative value %d", n)
		}
		return uint64(n), nil
	case uint64:
		return n, nil
	case string:
		return strconv.ParseUint(n, 0, 64)
	}
	return 0, fmt.Errorf("unsupported value %v (%T)", v, v)
}

// Replay runs steps through ly in order. Each call returns its recorded
// result. Replay stops early when ctx is done.
func Replay(ctx context.Context, ly *layer.Layer, steps []Step) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(steps))
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		recorded := step.Result
		res, out := ly.Call(ctx, step.Call, func(context.Context) vulkan.Result {
			return recorded
		})
		outcomes = append(outcomes, Outcome{
			Index:   i,
			Command: step.Call.Command,
			Result:  res,
			Diag:    out,
		})
	}
	return outcomes, nil
}
