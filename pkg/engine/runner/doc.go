/*
Package runner orchestrates fan-out / fan-in pipeline runs over sequences of
work items. It exists to make one lesson concrete: partitioning work into
lanes is not concurrency. Only binding lanes to distinct execution contexts
makes items actually run at the same time.

Three strategies are provided:

  - RunSequential: items execute one by one on the caller context.
    Baseline. Wall-clock time is N times the per-item latency, one context.
  - RunRailsOnly: items are partitioned into lanes and the lanes are walked,
    still on the caller context. Same wall-clock time, same single context.
    The strategy is deliberately its own code path, not a degenerate
    configuration of the dispatch path; its purpose is to prove a negative.
  - RunRailsWithDispatch: each lane is bound to a member of a bounded
    execution context pool and lanes run concurrently. Wall-clock time
    approaches ceil(N / effectiveLanes) times the per-item latency.

All strategies emit outputs in strict input-index order. The dispatch
strategy re-joins through a slot array indexed by original position, so
ordering never depends on completion order.

Basic usage:

	r, err := runner.New(runner.Config{LaneCount: 4})
	if err != nil {
		log.Fatal(err)
	}
	defer r.Close()

	obs := observer.New()
	r2, _ := runner.New(runner.Config{LaneCount: 4, Observer: obs})
	defer r2.Close()

	processed, err := r2.RunRailsWithDispatch(ctx, items)
	if err != nil {
		log.Fatal(err)
	}

	summary := obs.Summary()
	fmt.Printf("contexts used: %v, parallel: %v\n",
		summary.DistinctContexts, summary.Parallel())

Error policy is all-or-nothing. The first failing transform aborts the run
with an ItemError, remaining lanes stop dispatching, and no partial output is
returned. An optional Config.Deadline bounds the whole run; a breach fails
the run with ErrDeadlineExceeded, again with no partial output. External
cancellation stops new dispatches while in-flight items run to completion;
their records keep the identity of the context they actually ran on.

Configuration is validated before any dispatch: lane count and pool capacity
must be positive. When the lane count exceeds the pool capacity, lanes share
pool members and effective concurrency is capped at the capacity.
*/
package runner
