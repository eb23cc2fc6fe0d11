package report

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/raymyers/regsim/pkg/interval"
	"github.com/raymyers/regsim/pkg/regclass"
	"github.com/raymyers/regsim/pkg/sim"
)

func statsFor(t *testing.T, lim regclass.Limits, ranges [][2]interval.Pos, fixed int) (*sim.Stats, *regclass.Registry) {
	t.Helper()
	reg := regclass.NewRegistry()
	values := make([]interval.Value, 0, len(ranges))
	for i, r := range ranges {
		values = append(values, interval.Value{
			ID:    string(rune('a' + i)),
			Class: "GPR",
			Begin: r[0],
			End:   r[1],
		})
	}
	intervals, classes := interval.Build(values, func(string) regclass.Limits { return lim }, reg)

	opts := sim.Options{}
	if fixed > 0 {
		gpr, _ := reg.Lookup("GPR")
		opts.FixedRegs = map[regclass.ID]int{gpr: fixed}
	}
	return sim.Run(intervals, classes, nil, reg, opts), reg
}

func TestBuildBasic(t *testing.T) {
	stats, reg := statsFor(t,
		regclass.Limits{Allocatable: 2, CalleeSaved: 2},
		[][2]interval.Pos{{0, 10}, {2, 12}, {4, 6}}, 0)

	rep := Build("foo", stats, reg, Options{})
	require.Len(t, rep.Classes, 1)
	require.Equal(t, "GPR", rep.Classes[0].Class)
	require.Equal(t, 1, rep.Classes[0].Spills)
	require.Equal(t, 3, rep.Classes[0].Pressure)
}

func TestBuildRealisticClampsWhenSpillFree(t *testing.T) {
	// Peak 3 plus 2 fixed registers against 4 allocatable and zero
	// spills: report clamps to the hardware count.
	stats, reg := statsFor(t,
		regclass.Limits{Allocatable: 4, CalleeSaved: 2},
		[][2]interval.Pos{{0, 10}, {1, 11}, {2, 12}}, 2)

	rep := Build("foo", stats, reg, Options{Realistic: true})
	require.Equal(t, 0, rep.Classes[0].Spills)
	require.Equal(t, 4, rep.Classes[0].Pressure)
}

func TestBuildRealisticNoClampWithSpills(t *testing.T) {
	// With spills the overshoot is genuine over-subscription and
	// must stay visible.
	stats, reg := statsFor(t,
		regclass.Limits{Allocatable: 2, CalleeSaved: 2},
		[][2]interval.Pos{{0, 10}, {1, 11}, {2, 12}}, 2)

	rep := Build("foo", stats, reg, Options{Realistic: true})
	require.Equal(t, 1, rep.Classes[0].Spills)
	require.Equal(t, 5, rep.Classes[0].Pressure)
}

func TestWriteLineFormat(t *testing.T) {
	stats, reg := statsFor(t,
		regclass.Limits{Allocatable: 2, CalleeSaved: 2},
		[][2]interval.Pos{{0, 10}, {2, 12}, {4, 6}}, 0)
	rep := Build("compute", stats, reg, Options{})

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.Write(rep))
	require.Equal(t, "@SSA_REPORT func=compute class=GPR spills=1 pressure=3\n", buf.String())
}

func TestWriteAggregateOmitsClassField(t *testing.T) {
	reg := regclass.NewRegistry()
	limits := func(class string) regclass.Limits {
		return regclass.Limits{Allocatable: 2, CalleeSaved: 2}
	}
	values := []interval.Value{
		{ID: "g1", Class: "GPR", Begin: 0, End: 10},
		{ID: "g2", Class: "GPR", Begin: 2, End: 12},
		{ID: "g3", Class: "GPR", Begin: 4, End: 6},
		{ID: "f1", Class: "FPR", Begin: 0, End: 8},
	}
	intervals, classes := interval.Build(values, limits, reg)
	stats := sim.Run(intervals, classes, nil, reg, sim.Options{})

	rep := Build("compute", stats, reg, Options{Aggregate: true})
	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).Write(rep))

	line := strings.TrimSpace(buf.String())
	require.NotContains(t, line, "class=")
	require.Equal(t, "@SSA_REPORT func=compute spills=1 pressure=4", line)
}

func TestWriteEmptyFunctionEmitsNothing(t *testing.T) {
	// A function whose classes never produced intervals must not
	// appear in the stream at all.
	reg := regclass.NewRegistry()
	stats := sim.Run(nil, nil, nil, reg, sim.Options{})

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.Write(Build("empty", stats, reg, Options{})))
	require.NoError(t, w.Write(Build("empty", stats, reg, Options{Aggregate: true})))
	require.Empty(t, buf.String())
}

func TestWriterSerializesConcurrentReports(t *testing.T) {
	stats, reg := statsFor(t,
		regclass.Limits{Allocatable: 2, CalleeSaved: 2},
		[][2]interval.Pos{{0, 10}, {2, 12}, {4, 6}}, 0)
	rep := Build("worker", stats, reg, Options{})

	var buf bytes.Buffer
	w := NewWriter(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = w.Write(rep)
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 16)
	for _, line := range lines {
		require.Equal(t, "@SSA_REPORT func=worker class=GPR spills=1 pressure=3", line)
	}
}
