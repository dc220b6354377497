package runner

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	ryctx "github.com/vnykmshr/railyard/pkg/common/context"
	ryerrors "github.com/vnykmshr/railyard/pkg/common/errors"
	"github.com/vnykmshr/railyard/pkg/common/validation"
	"github.com/vnykmshr/railyard/pkg/engine/lane"
	"github.com/vnykmshr/railyard/pkg/engine/observer"
	"github.com/vnykmshr/railyard/pkg/engine/railpool"
	"github.com/vnykmshr/railyard/pkg/metrics"
	"github.com/vnykmshr/railyard/pkg/work"
)

var _ metrics.Instrumentable = (*Runner)(nil)

// Strategy names the run strategies a Runner supports.
type Strategy string

const (
	// StrategySequential processes items one by one on the caller context.
	StrategySequential Strategy = "sequential"

	// StrategyRailsOnly partitions items into lanes but still runs everything
	// on the caller context. Exists to prove that partitioning alone is not
	// concurrency.
	StrategyRailsOnly Strategy = "rails_only"

	// StrategyRailsWithDispatch partitions items into lanes and runs each lane
	// on its own pool member.
	StrategyRailsWithDispatch Strategy = "rails_with_dispatch"
)

// Config holds configuration options for creating a Runner.
type Config struct {
	// LaneCount is the number of lanes items are partitioned into.
	// Must be greater than 0.
	LaneCount int

	// PoolCapacity is the number of pooled execution contexts. Defaults to
	// LaneCount when 0. When smaller than LaneCount, lanes share members and
	// effective concurrency is capped at PoolCapacity.
	PoolCapacity int

	// Deadline is an optional overall run deadline. When exceeded, the whole
	// run fails with ErrDeadlineExceeded and no partial output is returned.
	// Zero means no deadline.
	Deadline time.Duration

	// Transform is the per-item transform. Defaults to work.Transform.
	Transform work.TransformFunc

	// Observer, when set, receives a record for every item completion.
	Observer *observer.Observer

	// OnItemComplete is called after each item's transform finishes.
	OnItemComplete func(observer.Record)

	// OnRunComplete is called once per run with the run's report.
	OnRunComplete func(Report)
}

// DefaultConfig returns a configuration sized to the available parallelism:
// one lane per CPU with a matching pool capacity.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		LaneCount:    n,
		PoolCapacity: n,
	}
}

// Report describes one finished run.
type Report struct {
	// RunID uniquely identifies the run
	RunID string

	// Strategy is the strategy the run used
	Strategy Strategy

	// Summary aggregates the run's execution records
	Summary observer.Summary

	// Duration is the run's wall-clock time as measured by the runner
	Duration time.Duration

	// Err is the run's outcome; nil on success
	Err error
}

// Runner orchestrates the three run strategies over sequences of work items.
// All strategies return outputs in strict input-index order. Error policy is
// all-or-nothing: a failing item aborts the run and no partial results are
// returned.
type Runner struct {
	config    Config
	transform work.TransformFunc
	pool      *railpool.Pool

	mu             sync.RWMutex
	registry       *metrics.Registry
	name           string
	metricsEnabled bool
}

// New creates a Runner and provisions its execution context pool. Fails fast
// with a configuration error before any dispatch can occur.
func New(config Config) (*Runner, error) {
	if err := validation.ValidatePositive("runner", "laneCount", config.LaneCount); err != nil {
		return nil, err
	}
	if config.PoolCapacity == 0 {
		config.PoolCapacity = config.LaneCount
	}
	if err := validation.ValidatePositive("runner", "poolCapacity", config.PoolCapacity); err != nil {
		return nil, err
	}
	if config.Deadline < 0 {
		return nil, ryerrors.NewValidationError("runner", "deadline", config.Deadline, "cannot be negative").
			WithHint("use 0 to disable the deadline")
	}

	transform := config.Transform
	if transform == nil {
		transform = work.Transform
	}

	pool, err := railpool.New(config.PoolCapacity)
	if err != nil {
		return nil, err
	}

	return &Runner{
		config:    config,
		transform: transform,
		pool:      pool,
	}, nil
}

// Close shuts down the runner's pool and blocks until all members exit.
func (r *Runner) Close() {
	<-r.pool.Shutdown()
}

// LaneCount returns the configured number of lanes.
func (r *Runner) LaneCount() int {
	return r.config.LaneCount
}

// PoolCapacity returns the capacity of the underlying pool.
func (r *Runner) PoolCapacity() int {
	return r.pool.Capacity()
}

// RunSequential processes items one by one on the caller context, in input
// order. Wall-clock time is roughly N times the per-item latency and exactly
// one execution context identity is used.
func (r *Runner) RunSequential(ctx context.Context, items []work.Item) ([]work.Item, error) {
	return r.run(ctx, StrategySequential, items)
}

// RunRailsOnly partitions items into lanes and walks the lanes on the caller
// context. Internally items execute in lane-major order, but outputs are
// re-joined into input order. No speedup occurs and exactly one execution
// context identity is used; the strategy demonstrates that partitioning
// without dispatch is not concurrency.
func (r *Runner) RunRailsOnly(ctx context.Context, items []work.Item) ([]work.Item, error) {
	return r.run(ctx, StrategyRailsOnly, items)
}

// RunRailsWithDispatch partitions items into lanes, binds each lane to a pool
// member, and executes lanes concurrently. Outputs are re-joined into input
// order regardless of completion order. With at least two lanes and two
// items, at least two distinct context identities are used.
func (r *Runner) RunRailsWithDispatch(ctx context.Context, items []work.Item) ([]work.Item, error) {
	return r.run(ctx, StrategyRailsWithDispatch, items)
}

// RunLargeDataset generates itemCount synthetic items and processes them with
// rails-with-dispatch.
func (r *Runner) RunLargeDataset(ctx context.Context, itemCount int) ([]work.Item, error) {
	if err := validation.ValidateNonNegative("runner", "itemCount", itemCount); err != nil {
		return nil, err
	}
	return r.RunRailsWithDispatch(ctx, work.NewTestItems(itemCount))
}

// run wraps a strategy execution with deadline handling, record collection,
// error translation and reporting.
func (r *Runner) run(parent context.Context, strategy Strategy, items []work.Item) ([]work.Item, error) {
	runID := uuid.NewString()

	ctx, cancel := ryctx.WithOptionalDeadline(parent, r.config.Deadline)
	defer cancel()

	collector := observer.New()
	start := time.Now()
	r.recordRunStart(strategy)

	var out []work.Item
	var err error
	switch strategy {
	case StrategySequential:
		out, err = r.runSequential(ctx, items, collector)
	case StrategyRailsOnly:
		out, err = r.runRailsOnly(ctx, items, collector)
	case StrategyRailsWithDispatch:
		out, err = r.runRailsWithDispatch(ctx, items, collector)
	default:
		err = fmt.Errorf("runner: unknown strategy %q", strategy)
	}

	err = r.translateError(ctx, err)
	if err != nil {
		// All-or-nothing: discard anything already re-joined.
		out = nil
	}

	duration := time.Since(start)
	summary := collector.Summary()
	r.recordRunEnd(strategy, summary, duration, err)

	if r.config.OnRunComplete != nil {
		r.config.OnRunComplete(Report{
			RunID:    runID,
			Strategy: strategy,
			Summary:  summary,
			Duration: duration,
			Err:      err,
		})
	}

	return out, err
}

// runSequential executes every item inline, in input order.
func (r *Runner) runSequential(ctx context.Context, items []work.Item, collector *observer.Observer) ([]work.Item, error) {
	exec, err := r.pool.AcquireForLane(0, railpool.ModeInline)
	if err != nil {
		return nil, err
	}

	out := make([]work.Item, len(items))
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		processed, err := r.executeOn(ctx, StrategySequential, exec, item, 0, collector)
		if err != nil {
			return nil, err
		}
		out[i] = processed
	}
	return out, nil
}

// runRailsOnly executes lane by lane on the caller context. The internal
// order differs from input order; the slot array restores it.
func (r *Runner) runRailsOnly(ctx context.Context, items []work.Item, collector *observer.Observer) ([]work.Item, error) {
	slots := make([]work.Item, len(items))

	for l := 0; l < r.config.LaneCount; l++ {
		exec, err := r.pool.AcquireForLane(l, railpool.ModeRailsOnly)
		if err != nil {
			return nil, err
		}

		for _, i := range lane.Indexes(l, r.config.LaneCount, len(items)) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			processed, err := r.executeOn(ctx, StrategyRailsOnly, exec, items[i], l, collector)
			if err != nil {
				return nil, err
			}
			slots[i] = processed
		}
	}
	return slots, nil
}

// runRailsWithDispatch runs one feeder per non-empty lane, each bound to its
// pool member. Completions land in the slot array at their original index, so
// the re-join never depends on completion order. The first failure cancels
// the remaining feeders before their next dispatch.
func (r *Runner) runRailsWithDispatch(ctx context.Context, items []work.Item, collector *observer.Observer) ([]work.Item, error) {
	slots := make([]work.Item, len(items))

	g, gctx := errgroup.WithContext(ctx)
	for l := 0; l < r.config.LaneCount && l < len(items); l++ {
		exec, err := r.pool.AcquireForLane(l, railpool.ModePooled)
		if err != nil {
			return nil, err
		}

		l := l
		g.Go(func() error {
			for _, i := range lane.Indexes(l, r.config.LaneCount, len(items)) {
				// Cancellation gate: no new dispatches once the run is
				// canceled; the in-flight item has already run to completion.
				if err := gctx.Err(); err != nil {
					return err
				}
				processed, err := r.executeOn(gctx, StrategyRailsWithDispatch, exec, items[i], l, collector)
				if err != nil {
					return err
				}
				slots[i] = processed
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slots, nil
}

// executeOn runs one item's transform on the given execution context, records
// the execution, and wraps transform failures as item errors. Context
// cancellation inside the transform propagates unwrapped.
func (r *Runner) executeOn(ctx context.Context, strategy Strategy, exec railpool.Context, item work.Item, laneNo int, collector *observer.Observer) (work.Item, error) {
	var processed work.Item
	var terr error

	start := time.Now()
	if err := exec.Execute(func() {
		processed, terr = r.transform(ctx, item)
	}); err != nil {
		return work.Item{}, err
	}
	end := time.Now()

	record := observer.Record{
		ItemID:          item.ID,
		Lane:            laneNo,
		ContextIdentity: exec.Identity(),
		StartTime:       start,
		EndTime:         end,
	}
	collector.Observe(record)
	if r.config.Observer != nil {
		r.config.Observer.Observe(record)
	}
	if r.config.OnItemComplete != nil {
		r.config.OnItemComplete(record)
	}
	r.recordItem(strategy, end.Sub(start))

	if terr != nil {
		if errors.Is(terr, context.Canceled) || errors.Is(terr, context.DeadlineExceeded) {
			return work.Item{}, terr
		}
		return work.Item{}, ryerrors.NewItemError(item.ID, terr)
	}
	return processed, nil
}

// translateError maps a deadline breach of the run context onto the engine's
// error taxonomy. Other errors pass through unchanged.
func (r *Runner) translateError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if r.config.Deadline > 0 && errors.Is(err, context.DeadlineExceeded) && ryctx.IsTimedOut(ctx) {
		return fmt.Errorf("runner: %w after %v", ryerrors.ErrDeadlineExceeded, r.config.Deadline)
	}
	return err
}
