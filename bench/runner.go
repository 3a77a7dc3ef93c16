package bench

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/joshuapare/memkit/arena"
)

// Runner executes patterns and collects timing samples.
type Runner struct {
	Iterations int   // repetitions per pattern; DefaultIterations if zero
	Ops        int   // operations per iteration; DefaultOps if zero
	Seed       int64 // randomness seed, fixed so runs are comparable
	Log        *slog.Logger
}

// Run times pattern over the configured iterations. Each iteration gets a
// fresh arena so samples are independent and shutdown cost is excluded from
// the timed window. The stats snapshot of the final iteration rides along
// for fragmentation analysis.
func (r *Runner) Run(p Pattern) (Result, error) {
	iters := r.Iterations
	if iters <= 0 {
		iters = DefaultIterations
	}
	ops := r.Ops
	if ops <= 0 {
		ops = DefaultOps
	}
	log := r.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	res := Result{
		Pattern:    p.Name,
		Iterations: iters,
		Ops:        ops,
		Durations:  make([]time.Duration, 0, iters),
	}
	for i := 0; i < iters; i++ {
		a, err := arena.New()
		if err != nil {
			return Result{}, fmt.Errorf("bench: arena setup: %w", err)
		}
		rng := rand.New(rand.NewSource(r.Seed + int64(i)))

		start := time.Now()
		runErr := p.Run(a, ops, rng)
		elapsed := time.Since(start)

		res.Arena = a.Stats()
		if err := a.Close(); err != nil && runErr == nil {
			runErr = err
		}
		if runErr != nil {
			return Result{}, fmt.Errorf("bench: pattern %s iteration %d: %w", p.Name, i, runErr)
		}
		res.Durations = append(res.Durations, elapsed)
		log.Debug("iteration complete", "pattern", p.Name, "iteration", i, "elapsed", elapsed)
	}
	return res, nil
}

// RunAll runs every pattern in order, stopping at the first failure.
func (r *Runner) RunAll(patterns []Pattern) ([]Result, error) {
	results := make([]Result, 0, len(patterns))
	for _, p := range patterns {
		res, err := r.Run(p)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}
