package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/memkit/bench"
	"github.com/joshuapare/memkit/cmd/membench/logger"
)

var (
	runPattern    string
	runIterations int
	runOps        int
	runSeed       int64
	runCSVPath    string
)

func init() {
	cmd := newRunCmd()
	cmd.Flags().StringVar(&runPattern, "pattern", "all", "Pattern to run: fixed, variable, realloc, or all")
	cmd.Flags().IntVar(&runIterations, "iterations", bench.DefaultIterations, "Repetitions per pattern")
	cmd.Flags().IntVar(&runOps, "ops", bench.DefaultOps, "Operations per iteration")
	cmd.Flags().Int64Var(&runSeed, "seed", 12345, "Randomness seed")
	cmd.Flags().StringVar(&runCSVPath, "csv", "", "Write raw results to this CSV file")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run allocator benchmark patterns",
		Long: `The run command executes the selected benchmark patterns against a
fresh arena per iteration and prints summary timing statistics.

Example:
  membench run
  membench run --pattern fixed --iterations 10 --ops 50000
  membench run --csv results.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBenchmarks()
		},
	}
}

func selectPatterns(name string) ([]bench.Pattern, error) {
	switch name {
	case "fixed":
		return []bench.Pattern{bench.FixedPattern(64)}, nil
	case "variable":
		return []bench.Pattern{bench.VariablePattern(bench.DefaultMaxVarSize)}, nil
	case "realloc":
		return []bench.Pattern{bench.ReallocPattern(128, 512, 64)}, nil
	case "all":
		return bench.DefaultPatterns(), nil
	}
	return nil, fmt.Errorf("unknown pattern %q (want fixed, variable, realloc, or all)", name)
}

func runBenchmarks() error {
	patterns, err := selectPatterns(runPattern)
	if err != nil {
		return err
	}

	r := &bench.Runner{
		Iterations: runIterations,
		Ops:        runOps,
		Seed:       runSeed,
		Log:        logger.L,
	}
	logger.Info("benchmark starting",
		"patterns", len(patterns), "iterations", runIterations, "ops", runOps)

	results, err := r.RunAll(patterns)
	if err != nil {
		return err
	}

	if err := printResults(results); err != nil {
		return err
	}
	if runCSVPath != "" {
		f, err := os.Create(runCSVPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", runCSVPath, err)
		}
		defer f.Close()
		if err := bench.WriteCSV(f, results); err != nil {
			return fmt.Errorf("write %s: %w", runCSVPath, err)
		}
		printInfo("Wrote %s\n", runCSVPath)
	}
	return nil
}

func printResults(results []bench.Result) error {
	if quiet {
		return nil
	}
	p := message.NewPrinter(language.English)
	tw := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATTERN\tOPS\tMEAN\tSTDDEV\tP95\tNS/OP\tMAPPED")
	for _, res := range results {
		mean, err := res.Mean()
		if err != nil {
			return err
		}
		stddev, err := res.StdDev()
		if err != nil {
			return err
		}
		p95, err := res.Percentile(95)
		if err != nil {
			return err
		}
		perOp, err := res.OpNs()
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%v\t%v\t%v\t%s\t%s\n",
			res.Pattern,
			p.Sprintf("%d", res.Ops),
			mean, stddev, p95,
			p.Sprintf("%.1f", perOp),
			humanize.IBytes(res.Arena.MappedBytes),
		)
	}
	return tw.Flush()
}
