package main

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"github.com/xyproto/env/v2"

	"github.com/raymyers/regsim/pkg/funcspec"
	"github.com/raymyers/regsim/pkg/interval"
	"github.com/raymyers/regsim/pkg/regclass"
	"github.com/raymyers/regsim/pkg/report"
	"github.com/raymyers/regsim/pkg/results"
	"github.com/raymyers/regsim/pkg/sim"
	"github.com/raymyers/regsim/pkg/target"
)

var version = "0.1.0"

// Analysis options
var (
	realistic      bool
	aggregate      bool
	noCallCrossing bool
	dumpStats      bool
	policyName     string
	targetName     string
	jobs           int
	outputPath     string
)

// dumpMu keeps --dump output from interleaving across parallel jobs.
var dumpMu sync.Mutex

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "regsim [file]",
		Short: "regsim estimates register pressure and spill counts per function",
		Long: `regsim is a diagnostic register-allocation simulator. It reads a
YAML description of live ranges and call sites per function, sweeps
each function's intervals once per register class, and reports peak
pressure and a spill estimate as @SSA_REPORT lines. It assigns no
registers and never transforms its input.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				cmd.Help()
				return nil
			}
			return doAnalyze(args[0], out, errOut)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	flags := rootCmd.Flags()
	flags.BoolVar(&realistic, "realistic", false, "Fold fixed physical-register usage into reported pressure")
	flags.BoolVar(&aggregate, "aggregate", false, "Emit one line per function instead of one per class")
	flags.BoolVar(&noCallCrossing, "no-call-crossing", false, "Disable the callee-saved (ABI) spill trigger")
	flags.BoolVar(&dumpStats, "dump", false, "Dump raw per-class stats to stderr")
	flags.StringVar(&policyName, "policy", "lifo", "Eviction policy: lifo or farthest-end")
	flags.StringVar(&targetName, "target", env.Str("REGSIM_TARGET", ""), "Built-in target supplying class limits")
	flags.IntVar(&jobs, "jobs", env.Int("REGSIM_JOBS", 1), "Number of functions to analyze in parallel")
	flags.StringVarP(&outputPath, "output", "o", "", "Write report lines to a file instead of stdout")

	rootCmd.AddCommand(newCSVCmd(out, errOut))
	rootCmd.AddCommand(newChartCmd(out, errOut))
	return rootCmd
}

// doAnalyze runs the simulation for every function in the input file
// and emits the report stream. A malformed function is reported as a
// warning and does not abort the rest of the batch.
func doAnalyze(filename string, out, errOut io.Writer) error {
	in, err := openInput(filename)
	if err != nil {
		return err
	}
	defer in.Close()

	f, err := funcspec.Load(in)
	if err != nil {
		return err
	}

	tgt, err := resolveTarget(f)
	if err != nil {
		return err
	}
	limits, err := f.ResolveLimits(tgt)
	if err != nil {
		return err
	}
	policy, err := sim.PolicyByName(policyName)
	if err != nil {
		return err
	}

	sink := out
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer file.Close()
		sink = file
	}
	writer := report.NewWriter(sink)

	workers := jobs
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	var errMu sync.Mutex
	sem := make(chan struct{}, workers)
	for i := range f.Functions {
		fn := &f.Functions[i]
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			if err := analyzeFunction(fn, limits, tgt, policy, writer, errOut); err != nil {
				errMu.Lock()
				fmt.Fprintf(errOut, "regsim: warning: %s: %v\n", fn.Name, err)
				errMu.Unlock()
			}
		}()
	}
	wg.Wait()
	return nil
}

// analyzeFunction owns all per-function state: registry, catalog and
// stats are fresh per call, so concurrent calls share nothing but
// the serialized report writer.
func analyzeFunction(fn *funcspec.Function, limits interval.LimitsFunc, tgt *target.Target, policy sim.EvictionPolicy, writer *report.Writer, errOut io.Writer) error {
	reg := regclass.NewRegistry()
	intervals, classes := interval.Build(fn.Intervals(), limits, reg)

	opts := sim.Options{
		TrackCallCrossing: !noCallCrossing,
		Policy:            policy,
	}
	if realistic {
		zeroReg := ""
		if tgt != nil {
			zeroReg = tgt.ZeroReg
		}
		opts.FixedRegs = sim.TallyFixedRegs(fn.FixedRefs(tgt), reg, zeroReg)
	}

	stats := sim.Run(intervals, classes, fn.CallPositions(), reg, opts)

	if dumpStats {
		dumpMu.Lock()
		spew.Config.SortKeys = true
		spew.Fdump(errOut, fn.Name, stats)
		dumpMu.Unlock()
	}

	rep := report.Build(fn.Name, stats, reg, report.Options{
		Realistic: realistic,
		Aggregate: aggregate,
	})
	return writer.Write(rep)
}

func resolveTarget(f *funcspec.File) (*target.Target, error) {
	name := targetName
	if name == "" {
		name = f.Target
	}
	if name == "" {
		return nil, nil
	}
	tgt, ok := target.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown target %q (known: %v)", name, target.Names())
	}
	return tgt, nil
}

func newCSVCmd(out, errOut io.Writer) *cobra.Command {
	var csvOut string
	cmd := &cobra.Command{
		Use:   "csv [report-log]",
		Short: "Convert an @SSA_REPORT stream into CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			recs, err := results.ParseStream(in)
			if err != nil {
				return err
			}
			sink := out
			if csvOut != "" {
				file, err := os.Create(csvOut)
				if err != nil {
					return fmt.Errorf("creating csv file: %w", err)
				}
				defer file.Close()
				sink = file
			}
			return results.WriteCSV(sink, recs)
		},
	}
	cmd.Flags().StringVarP(&csvOut, "output", "o", "", "Write CSV to a file instead of stdout")
	return cmd
}

func newChartCmd(out, errOut io.Writer) *cobra.Command {
	var chartOut string
	cmd := &cobra.Command{
		Use:   "chart [csv-file]",
		Short: "Draw the spill/pressure distribution dashboard as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			recs, err := results.ReadCSV(in)
			if err != nil {
				return err
			}
			sink := out
			if chartOut != "" {
				file, err := os.Create(chartOut)
				if err != nil {
					return fmt.Errorf("creating chart file: %w", err)
				}
				defer file.Close()
				sink = file
			}
			results.WriteCDFChart(sink, recs)
			return nil
		},
	}
	cmd.Flags().StringVarP(&chartOut, "output", "o", "chart.svg", "Chart output path ('' for stdout)")
	return cmd
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return f, nil
}
