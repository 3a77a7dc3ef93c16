// Package bench provides a benchmarking harness for the arena allocator.
//
// It times bulk call patterns against a fresh arena per iteration and
// aggregates wall-clock samples into summary statistics. Three built-in
// patterns cover the interesting shapes of allocator traffic:
//
//   - fixed: repeated allocate/release pairs of one size
//   - variable: a batch of randomly sized allocations, then release all
//   - realloc: allocate, grow, shrink, release
//
// Results can be rendered as CSV rows for offline analysis. The harness is
// a consumer of the arena package's public operations only; it never
// reaches into allocator internals beyond the Stats snapshot.
package bench
