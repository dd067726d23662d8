package ports

import "github.com/kevinclark/AdvantageKit/internal/domain"

// Sink consumes batches of recorded cycle snapshots for offline analysis.
// The WAL, not the sink, is the source of truth for replay; a sink write
// failure only delays mirroring.
type Sink interface {
	WriteBatch(records []*domain.Record) error
	Name() string
}
