package ports

import "github.com/kevinclark/AdvantageKit/internal/domain"

type QueuedRecord struct {
	ID     WALEntryID
	Record *domain.Record
}

// RecordQueue buffers recorded snapshots between the control loop and the
// mirror pipeline so sink latency never stalls a cycle.
type RecordQueue interface {
	Enqueue(id WALEntryID, r *domain.Record) bool
	DequeueBatch(max int) []QueuedRecord
	Len() int
}
