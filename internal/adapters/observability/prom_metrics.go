package observability

import (
	"log"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kevinclark/AdvantageKit/internal/domain"
	"github.com/kevinclark/AdvantageKit/internal/ports"
)

type PromObs struct {
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	histos   map[string]prometheus.Observer
}

func NewPromObs() *PromObs {
	cycles := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "akit_cycles_total",
		Help: "Control cycles processed by the dispatcher.",
	})
	recorded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "akit_records_written_total",
		Help: "Cycle snapshots appended to the durable log.",
	})
	mirrored := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "akit_records_mirrored_total",
		Help: "Cycle snapshots successfully written to the mirror sink.",
	})
	walGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "akit_wal_size_bytes",
		Help: "Size of the cycle log on disk.",
	})
	queueGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "akit_queue_length",
		Help: "Snapshots buffered for the mirror pipeline.",
	})
	replayGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "akit_replay_active",
		Help: "1 when the runtime restores inputs from a recorded log.",
	})
	cycleLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "akit_cycle_duration_seconds",
		Help:    "Wall time spent capturing and persisting one control cycle.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
	})
	mirrorLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "akit_mirror_sink_latency_seconds",
		Help:    "Latency from dequeued snapshot batch to mirror sink commit.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})
	dlq := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "akit_mirror_dlq_total",
		Help: "Snapshots dropped from mirroring due to transform failures.",
	})
	queueDrops := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "akit_queue_dropped_total",
		Help: "Snapshots lost to queue backpressure policies.",
	})

	prometheus.MustRegister(cycles, recorded, mirrored, walGauge, queueGauge,
		replayGauge, cycleLatency, mirrorLatency, dlq, queueDrops)

	return &PromObs{
		counters: map[string]prometheus.Counter{
			"akit_cycles_total":           cycles,
			"akit_records_written_total":  recorded,
			"akit_records_mirrored_total": mirrored,
			"akit_mirror_dlq_total":       dlq,
			"akit_queue_dropped_total":    queueDrops,
		},
		gauges: map[string]prometheus.Gauge{
			"akit_wal_size_bytes": walGauge,
			"akit_queue_length":   queueGauge,
			"akit_replay_active":  replayGauge,
		},
		histos: map[string]prometheus.Observer{
			"akit_cycle_duration_seconds":      cycleLatency,
			"akit_mirror_sink_latency_seconds": mirrorLatency,
		},
	}
}

func (p *PromObs) LogInfo(msg string, fields ...ports.Field) {}

func (p *PromObs) LogError(msg string, err error, fields ...ports.Field) {
	if err != nil {
		log.Printf("ERROR: %s: %v", msg, err)
	}
}

func (p *PromObs) LogCritical(msg string, err error, fields ...ports.Field) {
	if err != nil {
		log.Printf("CRITICAL: %s: %v", msg, err)
	}
}

func (p *PromObs) IncCounter(name string, v float64) {
	if c, ok := p.counters[name]; ok {
		c.Add(v)
	}
}

func (p *PromObs) ObserveLatency(name string, seconds float64) {
	if h, ok := p.histos[name]; ok {
		h.Observe(seconds)
	}
}

func (p *PromObs) SetGauge(name string, v float64) {
	if g, ok := p.gauges[name]; ok {
		g.Set(v)
	}
}

func (p *PromObs) RecordDLQ(id ports.WALEntryID, r *domain.Record, err error) {
	p.IncCounter("akit_mirror_dlq_total", 1)
	if err != nil && r != nil {
		log.Printf("DLQ record cycle=%d prefix=%s err=%v", r.Cycle, r.Prefix, err)
	}
}

var _ ports.Observability = (*PromObs)(nil)
