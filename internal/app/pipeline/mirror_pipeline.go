package pipeline

import (
	"errors"
	"time"

	"github.com/kevinclark/AdvantageKit/internal/domain"
	"github.com/kevinclark/AdvantageKit/internal/ports"
)

var errQueueFullDuringReplay = errors.New("queue full during WAL replay")

// RunMirrorPipeline drains the record queue into the mirror sink until stop
// is closed. Sink failures keep the batch uncommitted in the WAL so a later
// restart replays it into the queue; transform failures go to the DLQ.
func RunMirrorPipeline(wal ports.WAL, q ports.RecordQueue, tr ports.Transformer, sink ports.Sink, pol ports.Policy, obs ports.Observability, stop <-chan struct{}) {
	idle := pol.IdleSleep
	if idle <= 0 {
		idle = 5 * time.Millisecond
	}

	for {
		select {
		case <-stop:
			return
		default:
		}

		batch := q.DequeueBatch(pol.MaxBatchSize)
		if len(batch) == 0 {
			time.Sleep(idle)
			continue
		}

		var (
			out   = make([]*domain.Record, 0, len(batch))
			maxID ports.WALEntryID
		)

		for _, item := range batch {
			r, err := tr.Transform(item.Record)
			if err != nil {
				obs.RecordDLQ(item.ID, item.Record, err)
				continue
			}
			out = append(out, r)
			if item.ID > maxID {
				maxID = item.ID
			}
		}

		if len(out) == 0 {
			_ = wal.Commit(maxID)
			continue
		}

		start := time.Now()
		if err := sink.WriteBatch(out); err != nil {
			obs.LogError("mirror_sink_failed", err)
			// keep WAL uncommitted; replays into the queue on restart
			time.Sleep(idle)
			continue
		}
		obs.ObserveLatency("akit_mirror_sink_latency_seconds", time.Since(start).Seconds())
		obs.IncCounter("akit_records_mirrored_total", float64(len(out)))

		if err := wal.Commit(maxID); err != nil {
			obs.LogError("wal_commit_failed", err)
		}
	}
}

// ReplayWALIntoQueue refills the mirror queue with every uncommitted entry so
// snapshots recorded before a crash still reach the mirror sink.
func ReplayWALIntoQueue(wal ports.WAL, q ports.RecordQueue, pol ports.Policy, obs ports.Observability) (int, error) {
	stats := wal.Stats()
	if stats.LatestAppended == 0 {
		return 0, nil
	}
	start := stats.OldestUncommitted
	if start == 0 || start > stats.LatestAppended {
		return 0, nil
	}

	sleep := pol.IdleSleep
	if sleep <= 0 {
		sleep = 5 * time.Millisecond
	}

	var replayed int
	err := wal.Iterate(start, func(id ports.WALEntryID, rec *domain.Record) error {
		for {
			if q.Enqueue(id, rec) {
				replayed++
				return nil
			}
			switch pol.OnQueueFull {
			case "drop", "reject":
				return errQueueFullDuringReplay
			default:
				time.Sleep(sleep)
			}
		}
	})
	if err != nil {
		return replayed, err
	}
	if replayed > 0 {
		obs.LogInfo("wal_replay_complete",
			ports.Field{Key: "records", Value: replayed},
			ports.Field{Key: "from_id", Value: start})
	}
	return replayed, nil
}
