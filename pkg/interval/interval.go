// Package interval defines live ranges for virtual values and the
// catalog that normalizes raw per-value input into a flat, sorted
// collection keyed by register class.
package interval

import (
	"sort"

	"github.com/raymyers/regsim/pkg/regclass"
)

// Pos is a program position. Positions are abstract instruction
// indices supplied by the upstream liveness computation; the engine
// only compares them.
type Pos int

// Interval is one virtual value's live range, half-open [Begin, End).
type Interval struct {
	// ID is an opaque identifier for the value (used in diagnostics).
	ID string
	// Begin and End delimit the range; Begin < End always holds for
	// intervals produced by Build.
	Begin, End Pos
	// Class is the register class the value must be placed in,
	// resolved to a registry id at catalog-build time.
	Class regclass.ID
}

// LiveAt reports whether the value is live at position p, using the
// half-open range semantics: live at Begin, dead at End.
func (iv Interval) LiveAt(p Pos) bool {
	return iv.Begin <= p && p < iv.End
}

// Overlaps reports whether two intervals share at least one position.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Begin < other.End && other.Begin < iv.End
}

// Value is the raw per-value input to the catalog: a class named by
// string and an unvalidated range. Values that are never referenced
// and values with degenerate ranges must be filtered out upstream
// (see funcspec); Build assumes its input satisfies Begin < End.
type Value struct {
	ID    string
	Class string
	Begin Pos
	End   Pos
}

// LimitsFunc supplies the capacity facts for a class the first time
// the catalog encounters it. It is the boundary to the target
// description: the catalog treats the returned limits as opaque.
type LimitsFunc func(class string) regclass.Limits

// Build normalizes raw values into sorted intervals.
//
// Each class is interned into reg on first sight, with limits taken
// from the supplied LimitsFunc. Classes with zero allocatable
// registers are excluded entirely: they are not interned and their
// values are silently dropped from the interval list.
//
// The returned intervals are sorted ascending by Begin; ties keep
// the original discovery order, so two runs over identical input
// produce identical output. The second result lists the ids of all
// classes that contributed at least one interval, ascending.
func Build(values []Value, limits LimitsFunc, reg *regclass.Registry) ([]Interval, []regclass.ID) {
	dropped := make(map[string]bool)
	seen := make(map[regclass.ID]bool)

	intervals := make([]Interval, 0, len(values))
	for _, v := range values {
		if dropped[v.Class] {
			continue
		}
		id, ok := reg.Lookup(v.Class)
		if !ok {
			lim := limits(v.Class)
			if lim.Allocatable == 0 {
				dropped[v.Class] = true
				continue
			}
			id = reg.Intern(v.Class, lim)
		}
		seen[id] = true
		intervals = append(intervals, Interval{
			ID:    v.ID,
			Begin: v.Begin,
			End:   v.End,
			Class: id,
		})
	}

	// Stable sort keeps discovery order for equal begins.
	sort.SliceStable(intervals, func(i, j int) bool {
		return intervals[i].Begin < intervals[j].Begin
	})

	classes := make([]regclass.ID, 0, len(seen))
	for id := range seen {
		classes = append(classes, id)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })

	return intervals, classes
}
