package sim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/raymyers/regsim/pkg/interval"
	"github.com/raymyers/regsim/pkg/regclass"
)

func TestCrossesCall(t *testing.T) {
	iv := interval.Interval{ID: "v", Begin: 10, End: 20}

	testCases := []struct {
		name  string
		calls []interval.Pos
		want  bool
	}{
		{"no calls", nil, false},
		{"call inside range", []interval.Pos{15}, true},
		{"call at begin", []interval.Pos{10}, true},
		{"call at end is already dead", []interval.Pos{20}, false},
		{"call before range", []interval.Pos{5}, false},
		{"one of several calls", []interval.Pos{2, 12, 40}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, CrossesCall(iv, tc.calls))
		})
	}
}

func TestPolicyNames(t *testing.T) {
	require.Equal(t, "lifo", LIFO().Name())
	require.Equal(t, "farthest-end", FarthestEnd().Name())

	_, err := PolicyByName("oracle")
	require.Error(t, err)

	p, err := PolicyByName("farthest-end")
	require.NoError(t, err)
	require.Equal(t, "farthest-end", p.Name())
}

func TestFarthestEndPick(t *testing.T) {
	active := []interval.Interval{
		{ID: "a", Begin: 0, End: 9},
		{ID: "b", Begin: 1, End: 30},
		{ID: "c", Begin: 2, End: 12},
	}
	require.Equal(t, 1, FarthestEnd().Pick(active))
	require.Equal(t, 2, LIFO().Pick(active))
}

func TestTallyFixedRegs(t *testing.T) {
	reg := regclass.NewRegistry()
	gpr := reg.Intern("GPR", regclass.Limits{Allocatable: 27, CalleeSaved: 12})
	fpr := reg.Intern("FPR", regclass.Limits{Allocatable: 32, CalleeSaved: 12})

	refs := []FixedRef{
		{Reg: "a0", Classes: []string{"GPR"}},
		{Reg: "a0", Classes: []string{"GPR"}}, // duplicate reference
		{Reg: "a1", Classes: []string{"GPR"}},
		{Reg: "zero", Classes: []string{"GPR"}},
		{Reg: "fa0", Classes: []string{"FPR"}},
		{Reg: "v8", Classes: []string{"VEC"}}, // class never catalogued
	}
	tally := TallyFixedRegs(refs, reg, "zero")

	require.Equal(t, 2, tally[gpr])
	require.Equal(t, 1, tally[fpr])
	require.Len(t, tally, 2)
}

func TestTallyCountsSharedRegPerClass(t *testing.T) {
	// A register contained in two overlapping classes is tallied in
	// both; the overcount is preserved on purpose.
	reg := regclass.NewRegistry()
	gr32 := reg.Intern("GR32", regclass.Limits{Allocatable: 8, CalleeSaved: 4})
	gr64 := reg.Intern("GR64", regclass.Limits{Allocatable: 14, CalleeSaved: 5})

	refs := []FixedRef{
		{Reg: "rax", Classes: []string{"GR32", "GR64"}},
	}
	tally := TallyFixedRegs(refs, reg, "")

	require.Equal(t, 1, tally[gr32])
	require.Equal(t, 1, tally[gr64])
}
