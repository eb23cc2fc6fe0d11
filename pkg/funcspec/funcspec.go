// Package funcspec reads the YAML description of functions to
// analyze: per-value live ranges, call-site positions and fixed
// physical-register references, plus the class capacity facts (from a
// named target, inline definitions, or both).
//
// This package is the filtering boundary in front of the engine:
// values that are never referenced and values with degenerate ranges
// are dropped here and never reach the catalog.
package funcspec

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/raymyers/regsim/pkg/interval"
	"github.com/raymyers/regsim/pkg/regclass"
	"github.com/raymyers/regsim/pkg/sim"
	"github.com/raymyers/regsim/pkg/target"
)

// File is the top-level document.
type File struct {
	// Target names a built-in architecture table supplying class
	// limits. Inline Classes override or extend it.
	Target    string      `yaml:"target,omitempty"`
	Classes   []ClassSpec `yaml:"classes,omitempty"`
	Functions []Function  `yaml:"functions"`
}

// ClassSpec defines one register class inline.
type ClassSpec struct {
	Name        string `yaml:"name"`
	Allocatable int    `yaml:"allocatable"`
	CalleeSaved int    `yaml:"calleeSaved"`
}

// Function is one function's worth of input.
type Function struct {
	Name      string     `yaml:"name"`
	Values    []Value    `yaml:"values"`
	CallSites []int      `yaml:"callSites,omitempty"`
	FixedRegs []FixedReg `yaml:"fixedRegs,omitempty"`
}

// Value is one virtual value with its live range.
type Value struct {
	ID    string `yaml:"id"`
	Class string `yaml:"class"`
	Begin int    `yaml:"begin"`
	End   int    `yaml:"end"`
	// Uses is the value's reference count. Absent means referenced;
	// an explicit zero marks a dead value to be filtered out.
	Uses *int `yaml:"uses,omitempty"`
}

// FixedReg is one direct physical-register reference. Classes may be
// given inline; otherwise they are resolved through the target's
// containment map.
type FixedReg struct {
	Reg     string   `yaml:"reg"`
	Classes []string `yaml:"classes,omitempty"`
}

// Load parses a function description document.
func Load(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading function spec: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing function spec: %w", err)
	}
	for i, fn := range f.Functions {
		if fn.Name == "" {
			return nil, fmt.Errorf("function %d has no name", i)
		}
	}
	return &f, nil
}

// ResolveLimits builds the class limit lookup from the target table
// and the file's inline classes (inline wins). tgt may be nil when
// the file defines all classes itself.
func (f *File) ResolveLimits(tgt *target.Target) (interval.LimitsFunc, error) {
	lims := make(map[string]regclass.Limits)
	if tgt != nil {
		for _, c := range tgt.Classes {
			lims[c.Name] = c.Limits
		}
	}
	for _, c := range f.Classes {
		if c.CalleeSaved > c.Allocatable {
			return nil, fmt.Errorf("class %s: calleeSaved %d exceeds allocatable %d",
				c.Name, c.CalleeSaved, c.Allocatable)
		}
		lims[c.Name] = regclass.Limits{Allocatable: c.Allocatable, CalleeSaved: c.CalleeSaved}
	}
	return func(class string) regclass.Limits {
		return lims[class]
	}, nil
}

// Intervals returns the function's catalog input: referenced values
// with well-formed ranges, in document order.
func (fn *Function) Intervals() []interval.Value {
	values := make([]interval.Value, 0, len(fn.Values))
	for _, v := range fn.Values {
		if v.Uses != nil && *v.Uses == 0 {
			continue
		}
		if v.Begin >= v.End {
			continue
		}
		values = append(values, interval.Value{
			ID:    v.ID,
			Class: v.Class,
			Begin: interval.Pos(v.Begin),
			End:   interval.Pos(v.End),
		})
	}
	return values
}

// CallPositions returns the call sites as program positions.
func (fn *Function) CallPositions() []interval.Pos {
	calls := make([]interval.Pos, len(fn.CallSites))
	for i, p := range fn.CallSites {
		calls[i] = interval.Pos(p)
	}
	return calls
}

// FixedRefs resolves the function's fixed-register references,
// falling back to the target's class containment map for references
// without inline classes. tgt may be nil.
func (fn *Function) FixedRefs(tgt *target.Target) []sim.FixedRef {
	refs := make([]sim.FixedRef, 0, len(fn.FixedRegs))
	for _, fr := range fn.FixedRegs {
		classes := fr.Classes
		if len(classes) == 0 && tgt != nil {
			classes = tgt.ClassesOf(fr.Reg)
		}
		refs = append(refs, sim.FixedRef{Reg: fr.Reg, Classes: classes})
	}
	return refs
}
