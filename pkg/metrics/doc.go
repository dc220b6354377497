/*
Package metrics provides Prometheus instrumentation for railyard components.

Metric collection is opt-in per component. A runner created with
runner.NewWithMetrics records run counts, failures, item throughput, run and
item durations, and the number of distinct execution contexts the most recent
run touched.

All metrics use the "railyard" namespace with per-component subsystems:

	railyard_runner_runs_started_total{runner_name="demo",strategy="rails_with_dispatch"}
	railyard_runner_run_duration_seconds{...}
	railyard_railpool_capacity{runner_name="demo"}

Expose them with the standard promhttp handler:

	http.Handle("/metrics", promhttp.Handler())
*/
package metrics
