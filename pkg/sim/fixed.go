package sim

import "github.com/raymyers/regsim/pkg/regclass"

// FixedRef is one direct physical-register reference found in the
// instruction stream, tagged with every class containing it.
type FixedRef struct {
	Reg     string
	Classes []string
}

// TallyFixedRegs counts the distinct physical registers referenced
// per class, excluding the designated always-zero register. A
// register contained in several classes is counted once in each, so
// overlapping classes can overcount a single register; the original
// tooling behaves the same way and downstream consumers expect it.
// Classes never interned into reg are ignored.
func TallyFixedRegs(refs []FixedRef, reg *regclass.Registry, zeroReg string) map[regclass.ID]int {
	seen := make(map[regclass.ID]map[string]bool)
	for _, ref := range refs {
		if zeroReg != "" && ref.Reg == zeroReg {
			continue
		}
		for _, class := range ref.Classes {
			id, ok := reg.Lookup(class)
			if !ok {
				continue
			}
			if seen[id] == nil {
				seen[id] = make(map[string]bool)
			}
			seen[id][ref.Reg] = true
		}
	}

	tally := make(map[regclass.ID]int, len(seen))
	for id, regs := range seen {
		tally[id] = len(regs)
	}
	return tally
}
