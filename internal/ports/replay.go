package ports

import "github.com/kevinclark/AdvantageKit/internal/domain"

// ReplaySource supplies previously recorded tables, addressed purely by
// (prefix, cycle index). Repeated fetches for the same address must return
// equal tables; an address with no record yields an empty table so restores
// degrade to the component's current values.
type ReplaySource interface {
	Fetch(prefix string, cycle uint64) *domain.Table

	// Cycles reports the highest cycle index present in the source.
	Cycles() uint64
}
