package main

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/magnum-lang/magnum"
	"github.com/magnum-lang/magnum/object"
)

// benchResult holds benchmark statistics.
type benchResult struct {
	Iterations    int     `json:"iterations"`
	Warmup        int     `json:"warmup"`
	TotalNs       int64   `json:"total_ns"`
	TotalDuration string  `json:"total_duration"`
	OpsPerSec     float64 `json:"ops_per_sec"`
	MinNs         int64   `json:"min_ns"`
	MaxNs         int64   `json:"max_ns"`
	AvgNs         int64   `json:"avg_ns"`
	MedianNs      int64   `json:"median_ns"`
	P95Ns         int64   `json:"p95_ns"`
	P99Ns         int64   `json:"p99_ns"`
}

func newBenchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench [file]",
		Short: "Benchmark a script",
		Long: `Compile a script once and run it repeatedly, reporting timing
statistics. Output from print statements is discarded.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := a.getSource(cmd, args, false)
			if err != nil {
				return err
			}
			iterations, _ := cmd.Flags().GetInt("iterations")
			if iterations <= 0 {
				iterations = 1000
			}
			warmup, _ := cmd.Flags().GetInt("warmup")
			if warmup < 0 {
				warmup = 0
			}

			script, err := magnum.Compile(source)
			if err != nil {
				return &exitError{code: magnum.ExitCompileError, err: err}
			}
			result, err := benchmark(cmd.Context(), script, iterations, warmup)
			if err != nil {
				return &exitError{code: magnum.ExitCode(magnum.ResultOf(err)), err: err}
			}
			if output, _ := cmd.Flags().GetString("output"); output == "json" {
				return a.writeJSON(result)
			}
			a.printBench(result)
			return nil
		},
	}
	addSourceFlags(cmd)
	cmd.Flags().IntP("iterations", "n", 1000, "Number of timed runs")
	cmd.Flags().Int("warmup", 100, "Number of untimed runs before timing")
	cmd.Flags().StringP("output", "o", "table", "Output format (table or json)")
	return cmd
}

func benchmark(ctx context.Context, script *object.Function, iterations, warmup int) (benchResult, error) {
	opts := []magnum.Option{
		magnum.WithStdout(io.Discard),
		magnum.WithStdin(strings.NewReader("")),
	}
	// The first run verifies the script before any timing.
	if err := magnum.Run(ctx, script, opts...); err != nil {
		return benchResult{}, err
	}
	for i := 0; i < warmup; i++ {
		_ = magnum.Run(ctx, script, opts...)
	}
	runtime.GC()

	durations := make([]time.Duration, iterations)
	var total time.Duration
	for i := range durations {
		start := time.Now()
		_ = magnum.Run(ctx, script, opts...)
		durations[i] = time.Since(start)
		total += durations[i]
	}
	slices.Sort(durations)

	return benchResult{
		Iterations:    iterations,
		Warmup:        warmup,
		TotalNs:       total.Nanoseconds(),
		TotalDuration: total.Round(time.Microsecond).String(),
		OpsPerSec:     float64(iterations) / total.Seconds(),
		MinNs:         durations[0].Nanoseconds(),
		MaxNs:         durations[iterations-1].Nanoseconds(),
		AvgNs:         (total / time.Duration(iterations)).Nanoseconds(),
		MedianNs:      durations[iterations/2].Nanoseconds(),
		P95Ns:         durations[int(float64(iterations)*0.95)].Nanoseconds(),
		P99Ns:         durations[int(float64(iterations)*0.99)].Nanoseconds(),
	}, nil
}

func (a *app) printBench(r benchResult) {
	fmt.Fprintln(a.stdout, color.New(color.FgYellow, color.Bold).Sprint("Magnum Benchmark"))

	ns := func(n int64) string {
		return time.Duration(n).Round(time.Microsecond).String()
	}
	t := table.NewWriter()
	t.SetOutputMirror(a.stdout)
	t.SetStyle(table.StyleLight)
	t.AppendRows([]table.Row{
		{"Iterations", r.Iterations},
		{"Warmup", r.Warmup},
		{"Total time", r.TotalDuration},
		{"Ops/sec", fmt.Sprintf("%.2f", r.OpsPerSec)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Min", ns(r.MinNs)},
		{"Max", ns(r.MaxNs)},
		{"Avg", ns(r.AvgNs)},
		{"Median", ns(r.MedianNs)},
		{"p95", ns(r.P95Ns)},
		{"p99", ns(r.P99Ns)},
	})
	t.Render()
}
