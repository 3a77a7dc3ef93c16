package bench

import (
	"fmt"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/joshuapare/memkit/arena"
)

// Result holds the timing samples for one pattern plus the allocator stats
// snapshot from the final iteration.
type Result struct {
	Pattern    string
	Iterations int
	Ops        int
	Durations  []time.Duration
	Arena      arena.Stats
}

// toFloats converts the samples to nanoseconds for the stats library.
func (r *Result) toFloats() []float64 {
	fs := make([]float64, len(r.Durations))
	for i, d := range r.Durations {
		fs[i] = float64(d.Nanoseconds())
	}
	return fs
}

// Total is the summed wall time across iterations.
func (r *Result) Total() time.Duration {
	var total time.Duration
	for _, d := range r.Durations {
		total += d
	}
	return total
}

// Mean is the average iteration duration.
func (r *Result) Mean() (time.Duration, error) {
	m, err := stats.Mean(r.toFloats())
	if err != nil {
		return 0, fmt.Errorf("bench: mean of %q samples: %w", r.Pattern, err)
	}
	return time.Duration(int64(m)), nil
}

// StdDev is the standard deviation of iteration durations.
func (r *Result) StdDev() (time.Duration, error) {
	s, err := stats.StandardDeviation(r.toFloats())
	if err != nil {
		return 0, fmt.Errorf("bench: stddev of %q samples: %w", r.Pattern, err)
	}
	return time.Duration(int64(s)), nil
}

// Median is the true median iteration duration. stats.Percentile(50) picks
// a sample below the midpoint for small even-length sets, so the p50 column
// goes through here instead.
func (r *Result) Median() (time.Duration, error) {
	m, err := stats.Median(r.toFloats())
	if err != nil {
		return 0, fmt.Errorf("bench: median of %q samples: %w", r.Pattern, err)
	}
	return time.Duration(int64(m)), nil
}

// Percentile returns the p-th percentile iteration duration, p in (0, 100].
func (r *Result) Percentile(p float64) (time.Duration, error) {
	v, err := stats.Percentile(r.toFloats(), p)
	if err != nil {
		return 0, fmt.Errorf("bench: p%.4g of %q samples: %w", p, r.Pattern, err)
	}
	return time.Duration(int64(v)), nil
}

// OpNs is the mean cost per operation in nanoseconds.
func (r *Result) OpNs() (float64, error) {
	m, err := r.Mean()
	if err != nil {
		return 0, err
	}
	if r.Ops == 0 {
		return 0, nil
	}
	return float64(m.Nanoseconds()) / float64(r.Ops), nil
}
