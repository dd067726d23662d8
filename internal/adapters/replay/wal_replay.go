package replay

import (
	"fmt"

	"github.com/kevinclark/AdvantageKit/internal/domain"
	"github.com/kevinclark/AdvantageKit/internal/ports"
)

type address struct {
	prefix string
	cycle  uint64
}

// WALReplaySource serves previously recorded tables out of a finished WAL
// file. The whole log is indexed up front so every fetch is addressed purely
// by (prefix, cycle index) and repeated fetches for one address always return
// the same table. Addresses with no record yield an empty table, which drives
// the default-fallback restore path in the components.
type WALReplaySource struct {
	tables map[address]*domain.Table
	cycles uint64
}

// NewFromWAL indexes an already opened WAL.
func NewFromWAL(w ports.WAL) (*WALReplaySource, error) {
	src := &WALReplaySource{tables: make(map[address]*domain.Table)}
	err := w.Iterate(1, func(id ports.WALEntryID, r *domain.Record) error {
		if r.Table == nil {
			return fmt.Errorf("replay: entry %d has no table", id)
		}
		src.tables[address{prefix: r.Prefix, cycle: r.Cycle}] = r.Table
		if r.Cycle > src.cycles {
			src.cycles = r.Cycle
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return src, nil
}

func (s *WALReplaySource) Fetch(prefix string, cycle uint64) *domain.Table {
	if t, ok := s.tables[address{prefix: prefix, cycle: cycle}]; ok {
		return t
	}
	return domain.NewTable()
}

func (s *WALReplaySource) Cycles() uint64 { return s.cycles }

var _ ports.ReplaySource = (*WALReplaySource)(nil)
