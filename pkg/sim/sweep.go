// Package sim implements the register-pressure and spill simulation:
// a single ascending sweep over sorted live intervals that maintains
// per-class active sets, records peak pressure, and counts spills
// under a pluggable eviction policy. It assigns no registers and
// never mutates its input; it only derives statistics.
package sim

import (
	"github.com/raymyers/regsim/pkg/interval"
	"github.com/raymyers/regsim/pkg/regclass"
)

// ClassStats accumulates the simulation results for one register
// class. Only the sweep mutates it.
type ClassStats struct {
	// MaxPressure is the highest count of simultaneously active
	// intervals observed for the class.
	MaxPressure int
	// SpillCount is the number of sweep steps that forced an
	// eviction. A step where both the capacity and the callee-saved
	// trigger fire still counts once.
	SpillCount int
	// FixedPhysRegs is the number of distinct physical registers of
	// this class referenced directly by the instruction stream
	// (realistic mode only; zero otherwise).
	FixedPhysRegs int
}

// Stats holds per-class results for one function, indexed by the
// small class ids of the registry used during catalog construction.
type Stats struct {
	classes []regclass.ID
	byClass []ClassStats
}

// Classes returns the catalogued class ids in ascending order.
func (s *Stats) Classes() []regclass.ID {
	return s.classes
}

// Class returns the stats for one class. Asking for a class that was
// never catalogued indicates a bug in the composition, so it panics.
func (s *Stats) Class(id regclass.ID) *ClassStats {
	for _, c := range s.classes {
		if c == id {
			return &s.byClass[id]
		}
	}
	panic("sim: stats requested for a class never catalogued")
}

// Options controls the sweep.
type Options struct {
	// TrackCallCrossing enables the ABI-forced spill trigger: values
	// live across a call compete for the class's callee-saved
	// registers.
	TrackCallCrossing bool
	// Policy selects the eviction victim on a spill event. Defaults
	// to LIFO.
	Policy EvictionPolicy
	// FixedRegs carries the per-class distinct fixed-register tally
	// folded into realistic reports (may be nil).
	FixedRegs map[regclass.ID]int
}

// per-class sweep state
type classState struct {
	active      []interval.Interval
	acrossCalls []interval.Interval
}

// Run sweeps the sorted intervals and returns per-class statistics.
//
// intervals must be sorted ascending by Begin (the catalog's output
// order) and classes must list the catalogued class ids; both come
// from interval.Build. For each interval the sweep expires ended
// actives (half-open: end <= begin does not overlap), admits the
// interval, updates peak pressure, and applies the spill decision:
// one eviction event when the active count exceeds the class's
// allocatable registers or the call-crossing count exceeds its
// callee-saved limit.
func Run(intervals []interval.Interval, classes []regclass.ID, callSites []interval.Pos, reg *regclass.Registry, opts Options) *Stats {
	policy := opts.Policy
	if policy == nil {
		policy = LIFO()
	}

	states := make([]classState, reg.Len())
	stats := &Stats{
		classes: classes,
		byClass: make([]ClassStats, reg.Len()),
	}

	for _, cur := range intervals {
		st := &states[cur.Class]
		cs := &stats.byClass[cur.Class]
		lim := reg.Limits(cur.Class)

		st.expire(cur.Begin)

		st.active = append(st.active, cur)
		crossing := opts.TrackCallCrossing && CrossesCall(cur, callSites)
		if crossing {
			st.acrossCalls = append(st.acrossCalls, cur)
		}

		if len(st.active) > cs.MaxPressure {
			cs.MaxPressure = len(st.active)
		}

		overCapacity := len(st.active) > lim.Allocatable
		overCalleeSaved := opts.TrackCallCrossing && len(st.acrossCalls) > lim.CalleeSaved
		if !overCapacity && !overCalleeSaved {
			continue
		}

		// Both triggers firing in one step is still one spill.
		cs.SpillCount++
		st.active = removeAt(st.active, policy.Pick(st.active))
		if overCalleeSaved && len(st.acrossCalls) > 0 {
			st.acrossCalls = removeAt(st.acrossCalls, policy.Pick(st.acrossCalls))
		}
	}

	for id, n := range opts.FixedRegs {
		if int(id) < len(stats.byClass) {
			stats.byClass[id].FixedPhysRegs = n
		}
	}

	return stats
}

// expire drops every active interval that ends at or before pos.
func (st *classState) expire(pos interval.Pos) {
	st.active = filterLive(st.active, pos)
	st.acrossCalls = filterLive(st.acrossCalls, pos)
}

func filterLive(list []interval.Interval, pos interval.Pos) []interval.Interval {
	kept := list[:0]
	for _, iv := range list {
		if iv.End > pos {
			kept = append(kept, iv)
		}
	}
	return kept
}

func removeAt(list []interval.Interval, i int) []interval.Interval {
	return append(list[:i], list[i+1:]...)
}
