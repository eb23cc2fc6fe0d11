package sim

import (
	"fmt"

	"github.com/raymyers/regsim/pkg/interval"
)

// EvictionPolicy chooses which active interval to evict when a sweep
// step forces a spill. The sweep only asks for a victim index; it
// owns the removal, so policies stay stateless.
type EvictionPolicy interface {
	Name() string
	// Pick returns the index of the victim in active. active is
	// ordered by admission time (oldest first) and never empty.
	Pick(active []interval.Interval) int
}

type lifoPolicy struct{}

func (lifoPolicy) Name() string { return "lifo" }

func (lifoPolicy) Pick(active []interval.Interval) int {
	return len(active) - 1
}

type farthestEndPolicy struct{}

func (farthestEndPolicy) Name() string { return "farthest-end" }

func (farthestEndPolicy) Pick(active []interval.Interval) int {
	best := 0
	for i, iv := range active[1:] {
		if iv.End > active[best].End {
			best = i + 1
		}
	}
	return best
}

// LIFO evicts the most recently admitted interval. This is a
// deliberate simplification of spill-cost-driven eviction: it keeps
// the active set representative of resident values without modeling
// which value a real allocator would choose.
func LIFO() EvictionPolicy { return lifoPolicy{} }

// FarthestEnd evicts the interval with the farthest remaining end
// point, the classic linear-scan heuristic.
func FarthestEnd() EvictionPolicy { return farthestEndPolicy{} }

// PolicyByName resolves a policy from its CLI name.
func PolicyByName(name string) (EvictionPolicy, error) {
	switch name {
	case "lifo":
		return LIFO(), nil
	case "farthest-end":
		return FarthestEnd(), nil
	default:
		return nil, fmt.Errorf("unknown eviction policy %q (want lifo or farthest-end)", name)
	}
}
