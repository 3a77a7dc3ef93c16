package bench

import (
	"encoding/csv"
	"io"
	"strconv"
)

// csvHeader is the column layout of exported result files.
var csvHeader = []string{
	"pattern", "iterations", "ops",
	"total_ns", "mean_ns", "stddev_ns", "p50_ns", "p95_ns", "p99_ns",
	"grow_calls", "splits", "coalesces",
}

// WriteCSV renders results as CSV rows for offline analysis.
func WriteCSV(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range results {
		mean, err := r.Mean()
		if err != nil {
			return err
		}
		stddev, err := r.StdDev()
		if err != nil {
			return err
		}
		p50, err := r.Median()
		if err != nil {
			return err
		}
		p95, err := r.Percentile(95)
		if err != nil {
			return err
		}
		p99, err := r.Percentile(99)
		if err != nil {
			return err
		}
		row := []string{
			r.Pattern,
			strconv.Itoa(r.Iterations),
			strconv.Itoa(r.Ops),
			strconv.FormatInt(r.Total().Nanoseconds(), 10),
			strconv.FormatInt(mean.Nanoseconds(), 10),
			strconv.FormatInt(stddev.Nanoseconds(), 10),
			strconv.FormatInt(p50.Nanoseconds(), 10),
			strconv.FormatInt(p95.Nanoseconds(), 10),
			strconv.FormatInt(p99.Nanoseconds(), 10),
			strconv.FormatUint(r.Arena.GrowCalls, 10),
			strconv.FormatUint(r.Arena.Splits, 10),
			strconv.FormatUint(r.Arena.CoalesceNext+r.Arena.CoalescePrev, 10),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
