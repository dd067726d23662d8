package advantagekit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kevinclark/AdvantageKit/internal/adapters/observability"
	"github.com/kevinclark/AdvantageKit/internal/adapters/queue"
	"github.com/kevinclark/AdvantageKit/internal/adapters/wal"
	"github.com/kevinclark/AdvantageKit/internal/app/pipeline"
	"github.com/kevinclark/AdvantageKit/internal/domain"
	"github.com/kevinclark/AdvantageKit/internal/ports"
)

// ErrQueueFull indicates the mirror queue rejected the record per policy.
var ErrQueueFull = errors.New("advantagekit: queue full")

// ErrWALFull indicates the cycle log is at capacity and OnWALFull != "block".
var ErrWALFull = errors.New("advantagekit: wal full")

// ExternalRecorderConfig configures the WAL-backed recorder used by producers
// outside the control loop (vision coprocessors, match scouting bridges).
type ExternalRecorderConfig struct {
	Policy Policy
	WAL    WALConfig

	// Observability overrides the default Prometheus backend; handy when the
	// process already owns a Runtime.
	Observability Observability
}

// applyDefaults fills in the same thresholds the runtime uses so callers only
// override what they need.
func (c *ExternalRecorderConfig) applyDefaults() {
	if c.Policy.MaxWALSizeBytes == 0 {
		c.Policy.MaxWALSizeBytes = 10 << 30
	}
	if c.Policy.MaxQueueLen == 0 {
		c.Policy.MaxQueueLen = 100_000
	}
	if c.Policy.MaxBatchSize == 0 {
		c.Policy.MaxBatchSize = 5_000
	}
	if c.Policy.IdleSleep == 0 {
		c.Policy.IdleSleep = 5 * time.Millisecond
	}
	if c.Policy.OnQueueFull == "" {
		c.Policy.OnQueueFull = "block"
	}
	if c.Policy.OnWALFull == "" {
		c.Policy.OnWALFull = "block"
	}
	if c.WAL.Dir == "" {
		c.WAL.Dir = "./data/external-wal"
	}
}

func (c *ExternalRecorderConfig) validate() error {
	if c.WAL.Dir == "" {
		return fmt.Errorf("wal.dir is required")
	}
	if c.Policy.MaxQueueLen <= 0 {
		return fmt.Errorf("policy MaxQueueLen must be > 0")
	}
	if c.Policy.MaxBatchSize <= 0 {
		return fmt.Errorf("policy MaxBatchSize must be > 0")
	}
	return nil
}

// ExternalRecorder exposes the WAL → queue → sink pipeline to producers that
// do not live on the control thread. Each published table gets a sequence
// number in place of a cycle index; durability and backpressure follow the
// same policies the runtime uses.
type ExternalRecorder struct {
	policy Policy
	wal    ports.WAL
	queue  ports.RecordQueue
	obs    ports.Observability
	seq    uint64
	seqMu  sync.Mutex

	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// NewExternalRecorder wires a WAL plus bounded queue in front of the sink
// callback and starts draining immediately. Records left uncommitted by a
// previous run are requeued first.
func NewExternalRecorder(cfg *ExternalRecorderConfig, sink RecordBatchSink) (*ExternalRecorder, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if sink == nil {
		return nil, fmt.Errorf("sink callback is required")
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	walAdapter, err := wal.NewFileWAL(cfg.WAL.Dir)
	if err != nil {
		return nil, err
	}
	q := queue.NewMemQueue(cfg.Policy.MaxQueueLen)
	obs := cfg.Observability
	if obs == nil {
		obs = observability.NewPromObs()
	}

	if _, err := pipeline.ReplayWALIntoQueue(walAdapter, q, cfg.Policy, obs); err != nil {
		return nil, err
	}

	rec := &ExternalRecorder{
		policy: cfg.Policy,
		wal:    walAdapter,
		queue:  q,
		obs:    obs,
		seq:    uint64(walAdapter.Stats().LatestAppended),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	go func() {
		pipeline.RunMirrorPipeline(walAdapter, q, &noopTransformer{}, NewCallbackSink("external", sink), cfg.Policy, obs, rec.stopCh)
		close(rec.doneCh)
	}()
	return rec, nil
}

// Publish appends the table to the WAL under prefix and enqueues it for the
// sink according to policy. The table must not be mutated afterwards.
func (p *ExternalRecorder) Publish(prefix string, table *Table) error {
	if table == nil {
		return fmt.Errorf("table is required")
	}

	p.seqMu.Lock()
	p.seq++
	rec := &domain.Record{
		Cycle:     p.seq,
		Prefix:    prefix,
		Timestamp: time.Now(),
		Table:     table,
	}
	p.seqMu.Unlock()

	if !waitForExternalWALCapacity(p.wal, p.policy, p.obs) {
		return ErrWALFull
	}

	id, err := p.wal.Append(rec)
	if err != nil {
		return err
	}

	if !enqueueWithExternalPolicy(p.queue, id, rec, p.policy, p.obs) {
		return ErrQueueFull
	}
	return nil
}

// Close stops the drain loop and waits for it to exit, respecting ctx.
func (p *ExternalRecorder) Close(ctx context.Context) error {
	p.stopOnce.Do(func() {
		close(p.stopCh)
	})

	select {
	case <-p.doneCh:
	case <-ctx.Done():
		return ctx.Err()
	}

	if closer, ok := p.wal.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

func waitForExternalWALCapacity(w ports.WAL, pol ports.Policy, obs ports.Observability) bool {
	if pol.MaxWALSizeBytes <= 0 {
		return true
	}
	sleep := pol.IdleSleep
	if sleep <= 0 {
		sleep = 5 * time.Millisecond
	}

	for {
		stats := w.Stats()
		if stats.SizeBytes < pol.MaxWALSizeBytes {
			return true
		}

		switch pol.OnWALFull {
		case "block":
			time.Sleep(sleep)
		case "drop":
			obs.LogError("wal_full_drop", fmt.Errorf("size=%d limit=%d", stats.SizeBytes, pol.MaxWALSizeBytes))
			return false
		default:
			obs.LogError("wal_policy_invalid", fmt.Errorf("policy=%s", pol.OnWALFull))
			return false
		}
	}
}

func enqueueWithExternalPolicy(q ports.RecordQueue, id ports.WALEntryID, rec *domain.Record, pol ports.Policy, obs ports.Observability) bool {
	sleep := pol.IdleSleep
	if sleep <= 0 {
		sleep = 5 * time.Millisecond
	}

	for {
		if ok := q.Enqueue(id, rec); ok {
			return true
		}

		switch pol.OnQueueFull {
		case "block":
			time.Sleep(sleep)
		case "drop", "reject":
			obs.LogError("queue_full_drop", fmt.Errorf("queue length exceeded capacity %d", pol.MaxQueueLen))
			return false
		default:
			obs.LogError("queue_policy_invalid", fmt.Errorf("policy=%s", pol.OnQueueFull))
			return false
		}
	}
}
