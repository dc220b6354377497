package runner

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vnykmshr/railyard/internal/testutil"
	"github.com/vnykmshr/railyard/pkg/metrics"
)

func TestNewWithMetricsRequiresName(t *testing.T) {
	_, err := NewWithMetrics(Config{LaneCount: 2}, "")
	testutil.AssertError(t, err)
}

func TestMetricsLifecycle(t *testing.T) {
	r, err := NewWithMetrics(Config{LaneCount: 2, Transform: testutil.InstantTransform()}, "lifecycle")
	testutil.AssertNoError(t, err)
	defer r.Close()

	testutil.AssertEqual(t, r.MetricsEnabled(), true)

	r.DisableMetrics()
	testutil.AssertEqual(t, r.MetricsEnabled(), false)
}

func TestMetricsRecordRuns(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	reg := prometheus.NewRegistry()
	r, err := NewWithConfigAndMetrics(
		Config{LaneCount: 2, Transform: testutil.InstantTransform()},
		"test_runner",
		metrics.Config{Enabled: true, Registry: reg},
	)
	testutil.AssertNoError(t, err)
	defer r.Close()

	_, err = r.RunSequential(ctx, testutil.Items(3))
	testutil.AssertNoError(t, err)
	_, err = r.RunRailsWithDispatch(ctx, testutil.Items(4))
	testutil.AssertNoError(t, err)

	seq := string(StrategySequential)
	disp := string(StrategyRailsWithDispatch)

	testutil.AssertEqual(t,
		promtestutil.ToFloat64(r.registry.RunsStarted.WithLabelValues("test_runner", seq)), 1.0)
	testutil.AssertEqual(t,
		promtestutil.ToFloat64(r.registry.RunsCompleted.WithLabelValues("test_runner", seq)), 1.0)
	testutil.AssertEqual(t,
		promtestutil.ToFloat64(r.registry.ItemsProcessed.WithLabelValues("test_runner", seq)), 3.0)
	testutil.AssertEqual(t,
		promtestutil.ToFloat64(r.registry.ItemsProcessed.WithLabelValues("test_runner", disp)), 4.0)
	testutil.AssertEqual(t,
		promtestutil.ToFloat64(r.registry.PoolCapacity.WithLabelValues("test_runner")), 2.0)
}

func TestMetricsRecordFailures(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	reg := prometheus.NewRegistry()
	r, err := NewWithConfigAndMetrics(
		Config{LaneCount: 2, Transform: testutil.FailingTransform("image1.jpg", 0)},
		"failing_runner",
		metrics.Config{Enabled: true, Registry: reg},
	)
	testutil.AssertNoError(t, err)
	defer r.Close()

	_, err = r.RunSequential(ctx, testutil.Items(2))
	testutil.AssertError(t, err)

	seq := string(StrategySequential)
	testutil.AssertEqual(t,
		promtestutil.ToFloat64(r.registry.RunsFailed.WithLabelValues("failing_runner", seq)), 1.0)
	testutil.AssertEqual(t,
		promtestutil.ToFloat64(r.registry.RunsCompleted.WithLabelValues("failing_runner", seq)), 0.0)
}

func TestDisabledMetricsRecordNothing(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	reg := prometheus.NewRegistry()
	r, err := NewWithConfigAndMetrics(
		Config{LaneCount: 2, Transform: testutil.InstantTransform()},
		"disabled_runner",
		metrics.Config{Enabled: true, Registry: reg},
	)
	testutil.AssertNoError(t, err)
	defer r.Close()

	r.DisableMetrics()

	_, err = r.RunSequential(ctx, testutil.Items(2))
	testutil.AssertNoError(t, err)

	seq := string(StrategySequential)
	testutil.AssertEqual(t,
		promtestutil.ToFloat64(r.registry.RunsStarted.WithLabelValues("disabled_runner", seq)), 0.0)
}
