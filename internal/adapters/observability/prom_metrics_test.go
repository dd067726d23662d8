package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPromObsMetrics(t *testing.T) {
	origReg := prometheus.DefaultRegisterer
	origGatherer := prometheus.DefaultGatherer
	t.Cleanup(func() {
		prometheus.DefaultRegisterer = origReg
		prometheus.DefaultGatherer = origGatherer
	})

	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg

	obs := NewPromObs()

	obs.IncCounter("akit_cycles_total", 5)
	if got := testutil.ToFloat64(obs.counters["akit_cycles_total"]); got != 5 {
		t.Fatalf("expected cycle counter 5, got %f", got)
	}

	obs.IncCounter("akit_queue_dropped_total", 2)
	if got := testutil.ToFloat64(obs.counters["akit_queue_dropped_total"]); got != 2 {
		t.Fatalf("expected queue drop counter 2, got %f", got)
	}

	obs.SetGauge("akit_wal_size_bytes", 42)
	if got := testutil.ToFloat64(obs.gauges["akit_wal_size_bytes"]); got != 42 {
		t.Fatalf("expected wal gauge 42, got %f", got)
	}

	obs.SetGauge("akit_replay_active", 1)
	if got := testutil.ToFloat64(obs.gauges["akit_replay_active"]); got != 1 {
		t.Fatalf("expected replay gauge 1, got %f", got)
	}

	obs.ObserveLatency("akit_cycle_duration_seconds", 0.002)
	hCollector := obs.histos["akit_cycle_duration_seconds"].(prometheus.Collector)
	if samples := testutil.CollectAndCount(hCollector); samples != 1 {
		t.Fatalf("expected cycle histogram to record 1 sample, got %d", samples)
	}

	obs.RecordDLQ(1, nil, nil)
	if got := testutil.ToFloat64(obs.counters["akit_mirror_dlq_total"]); got != 1 {
		t.Fatalf("expected dlq counter 1, got %f", got)
	}

	obs.IncCounter("unknown_metric", 1) // unregistered names are ignored
}
