package ports

import "github.com/kevinclark/AdvantageKit/internal/domain"

type WALEntryID uint64

// WAL is the durable cycle log. In record mode every (prefix, table) snapshot
// is appended here before anything else sees it; a recorded WAL file is also
// what the replay source reads back.
type WAL interface {
	Append(r *domain.Record) (WALEntryID, error)
	Iterate(from WALEntryID, fn func(id WALEntryID, r *domain.Record) error) error
	Commit(upto WALEntryID) error
	TruncateCommitted() error
	Stats() WALStats
}

type WALStats struct {
	OldestUncommitted WALEntryID
	LatestAppended    WALEntryID
	SizeBytes         int64
}
