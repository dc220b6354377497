/*
Package railyard provides a fan-out / fan-in parallel execution engine for
CPU-bound work, built to demonstrate the difference between partitioning work
and actually running it concurrently.

Work Items (pkg/work):
  - work: immutable work item values with a blocking transform

Engine (pkg/engine):
  - lane: deterministic round-robin lane assignment
  - railpool: execution contexts, either a shared inline context or a bounded
    pool of identity-carrying workers
  - runner: the three run strategies (sequential, rails-only, rails-with-dispatch)
    with an order-preserving re-join
  - observer: per-item execution records and run summaries

Observability (pkg/metrics):
  - metrics: Prometheus instrumentation for runners and pools

Example usage:

	import (
		"github.com/vnykmshr/railyard/pkg/engine/runner"
		"github.com/vnykmshr/railyard/pkg/work"
	)

	r, _ := runner.New(runner.Config{LaneCount: 4, PoolCapacity: 4})
	defer r.Close()

	items := []work.Item{work.NewTestItem(1), work.NewTestItem(2)}
	processed, err := r.RunRailsWithDispatch(context.Background(), items)
*/
package railyard
