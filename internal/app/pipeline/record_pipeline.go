package pipeline

import (
	"fmt"
	"time"

	"github.com/kevinclark/AdvantageKit/internal/domain"
	"github.com/kevinclark/AdvantageKit/internal/ports"
)

// AppendRecord pushes one captured snapshot through the durable path: wait
// for WAL capacity per policy, append, then hand the entry to the mirror
// queue. A false return means the snapshot was not persisted; the control
// cycle itself still continues.
func AppendRecord(wal ports.WAL, q ports.RecordQueue, rec *domain.Record, pol ports.Policy, obs ports.Observability) bool {
	if !waitForWALCapacity(wal, pol, obs) {
		return false
	}

	id, err := wal.Append(rec)
	if err != nil {
		obs.LogCritical("wal_append_failed", err)
		return false
	}

	if !enqueueWithPolicy(q, id, rec, pol, obs) {
		obs.IncCounter("akit_queue_dropped_total", 1)
	}
	return true
}

func waitForWALCapacity(wal ports.WAL, pol ports.Policy, obs ports.Observability) bool {
	if pol.MaxWALSizeBytes <= 0 {
		return true
	}
	sleep := pol.IdleSleep
	if sleep <= 0 {
		sleep = 5 * time.Millisecond
	}

	for {
		stats := wal.Stats()
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

func enqueueWithPolicy(q ports.RecordQueue, id ports.WALEntryID, rec *domain.Record, pol ports.Policy, obs ports.Observability) bool {
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
