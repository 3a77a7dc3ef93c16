package main

import (
	"fmt"
	"math/rand"
	"os"
	"text/tabwriter"
	"unsafe"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/memkit/arena"
	"github.com/joshuapare/memkit/cmd/membench/logger"
)

var (
	statsOps  int
	statsSeed int64
)

func init() {
	cmd := newStatsCmd()
	cmd.Flags().IntVar(&statsOps, "ops", 10000, "Operations in the mixed workload")
	cmd.Flags().Int64Var(&statsSeed, "seed", 12345, "Randomness seed")
	rootCmd.AddCommand(cmd)
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Run a mixed workload and dump allocator statistics",
		Long: `The stats command runs a mixed allocate/reallocate/release workload
against one arena and prints the final allocator statistics snapshot:
call counters, heap extensions, splits, merges, and live-list shape.

Example:
  membench stats
  membench stats --ops 100000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats()
		},
	}
}

func runStats() error {
	a, err := arena.New(arena.WithLogger(logger.L))
	if err != nil {
		return err
	}
	defer a.Close()

	rng := rand.New(rand.NewSource(statsSeed))
	live := make([]unsafe.Pointer, 0, statsOps/2)
	for i := 0; i < statsOps; i++ {
		switch op := rng.Intn(4); {
		case op <= 1 || len(live) == 0:
			p, err := a.Alloc(uintptr(1 + rng.Intn(1024)))
			if err != nil {
				return err
			}
			live = append(live, p)
		case op == 2:
			idx := rng.Intn(len(live))
			q, err := a.Realloc(live[idx], uintptr(1+rng.Intn(2048)))
			if err != nil {
				return err
			}
			live[idx] = q
		default:
			idx := rng.Intn(len(live))
			if err := a.Free(live[idx]); err != nil {
				return err
			}
			live[idx] = live[len(live)-1]
			live = live[:len(live)-1]
		}
	}

	return printStats(a.Stats(), len(live))
}

func printStats(s arena.Stats, live int) error {
	if quiet {
		return nil
	}
	p := message.NewPrinter(language.English)
	tw := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Alloc calls\t%s\n", p.Sprintf("%d", s.AllocCalls))
	fmt.Fprintf(tw, "Free calls\t%s\n", p.Sprintf("%d", s.FreeCalls))
	fmt.Fprintf(tw, "Realloc calls\t%s\n", p.Sprintf("%d", s.ReallocCalls))
	fmt.Fprintf(tw, "Heap extensions\t%s (%s)\n",
		p.Sprintf("%d", s.GrowCalls), humanize.IBytes(s.GrowBytes))
	fmt.Fprintf(tw, "Splits\t%s\n", p.Sprintf("%d", s.Splits))
	fmt.Fprintf(tw, "Coalesces\t%s next, %s prev\n",
		p.Sprintf("%d", s.CoalesceNext), p.Sprintf("%d", s.CoalescePrev))
	fmt.Fprintf(tw, "Blocks\t%s (%s live allocations)\n",
		p.Sprintf("%d", s.Blocks), p.Sprintf("%d", live))
	fmt.Fprintf(tw, "Mappings\t%d\n", s.Mappings)
	fmt.Fprintf(tw, "In use\t%s\n", humanize.IBytes(s.InUseBytes))
	fmt.Fprintf(tw, "Free\t%s\n", humanize.IBytes(s.FreeBytes))
	fmt.Fprintf(tw, "Mapped\t%s\n", humanize.IBytes(s.MappedBytes))
	return tw.Flush()
}
