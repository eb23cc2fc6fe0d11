// Package report folds final per-class statistics into the
// machine-parseable @SSA_REPORT output consumed by the benchmark
// tooling. Field order and key names are part of the contract;
// downstream parsers read by key, not position.
package report

import (
	"github.com/raymyers/regsim/pkg/regclass"
	"github.com/raymyers/regsim/pkg/sim"
)

// Options selects the output mode.
type Options struct {
	// Realistic folds the fixed physical-register tally into the
	// reported pressure, clamped to the class's allocatable count
	// when the simulation found no spills.
	Realistic bool
	// Aggregate emits one line per function with spills and pressure
	// summed across classes and no class field.
	Aggregate bool
}

// ClassReport is the per-class output record.
type ClassReport struct {
	Class       string
	Allocatable int
	Spills      int
	Pressure    int
}

// FunctionReport is one function's full set of report lines.
type FunctionReport struct {
	Func      string
	Classes   []ClassReport
	Aggregate bool
}

// Build assembles the report for one function from its sweep stats.
// Classes appear in ascending class-id order; classes that never
// contributed an interval are absent.
func Build(fnName string, stats *sim.Stats, reg *regclass.Registry, opts Options) FunctionReport {
	rep := FunctionReport{Func: fnName, Aggregate: opts.Aggregate}

	for _, id := range stats.Classes() {
		cs := stats.Class(id)
		lim := reg.Limits(id)

		pressure := cs.MaxPressure
		if opts.Realistic {
			pressure += cs.FixedPhysRegs
			// A spill-free simulation cannot legitimately use more
			// registers than the hardware has. When spills already
			// happened, the overshoot is real and stays visible.
			if cs.SpillCount == 0 && pressure > lim.Allocatable {
				pressure = lim.Allocatable
			}
		}

		rep.Classes = append(rep.Classes, ClassReport{
			Class:       reg.Name(id),
			Allocatable: lim.Allocatable,
			Spills:      cs.SpillCount,
			Pressure:    pressure,
		})
	}
	return rep
}
