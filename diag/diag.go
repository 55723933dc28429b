// Package diag defines the non-fatal diagnostics produced by validation and
// teardown.
package diag

import (
	"fmt"
	"strings"

	"github.com/wippyai/objtrack/handle"
)

// Severity of a diagnostic.
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Kind is the diagnostic taxonomy.
type Kind string

const (
	KindInvalidHandle     Kind = "invalid_handle"
	KindParentMismatch    Kind = "parent_mismatch"
	KindAllocatorMismatch Kind = "allocator_mismatch"
	KindLeakedObject      Kind = "leaked_object"
)

// Location is a field path rooted at a command, e.g.
// "vkCreateGraphicsPipelines(): pCreateInfos[1].layout".
type Location struct {
	Function string
	path     string
}

// NewLocation returns the root location of a command.
func NewLocation(function string) Location {
	return Location{Function: function}
}

// Dot appends a field.
func (l Location) Dot(field string) Location {
	if l.path == "" {
		l.path = field
	} else {
		l.path = l.path + "." + field
	}
	return l
}

// DotIndex appends an indexed array field.
func (l Location) DotIndex(field string, i int) Location {
	return l.Dot(fmt.Sprintf("%s[%d]", field, i))
}

// Field returns the dotted field path without the function.
func (l Location) Field() string {
	return l.path
}

func (l Location) String() string {
	var b strings.Builder
	b.WriteString(l.Function)
	b.WriteString("()")
	if l.path != "" {
		b.WriteString(": ")
		b.WriteString(l.path)
	}
	return b.String()
}

// Diagnostic is one reported rule violation.
type Diagnostic struct {
	RuleID   string
	Location string
	Message  string
	Kind     Kind
	Object   handle.Type
	Handle   handle.Handle
	Severity Severity
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s [%s] %s: %s", d.Severity, d.RuleID, d.Location, d.Message)
}

// Outcome is the result of validating one call.
type Outcome struct {
	Diagnostics []Diagnostic
	// Skip is set when any error-severity diagnostic was produced.
	Skip bool
}

// Add appends a diagnostic and updates Skip.
func (o *Outcome) Add(d Diagnostic) {
	o.Diagnostics = append(o.Diagnostics, d)
	if d.Severity == SeverityError {
		o.Skip = true
	}
}

// Merge folds other into o.
func (o *Outcome) Merge(other Outcome) {
	o.Diagnostics = append(o.Diagnostics, other.Diagnostics...)
	o.Skip = o.Skip || other.Skip
}

// HasRule reports whether a diagnostic with the given rule ID was produced.
func (o Outcome) HasRule(id string) bool {
	for _, d := range o.Diagnostics {
		if d.RuleID == id {
			return true
		}
	}
	return false
}

// OfKind returns the diagnostics of kind k.
func (o Outcome) OfKind(k Kind) []Diagnostic {
	var out []Diagnostic
	for _, d := range o.Diagnostics {
		if d.Kind == k {
			out = append(out, d)
		}
	}
	return out
}

// Reporter receives diagnostics.
type Reporter interface {
	Report(Diagnostic)
}

// Collector is a Reporter that keeps every diagnostic in memory.
type Collector struct {
	Diagnostics []Diagnostic
}

func (c *Collector) Report(d Diagnostic) {
	c.Diagnostics = append(c.Diagnostics, d)
}

// Reporters fans a diagnostic out to several reporters.
type Reporters []Reporter

func (rs Reporters) Report(d Diagnostic) {
	for _, r := range rs {
		r.Report(d)
	}
}
