package ports

import "github.com/kevinclark/AdvantageKit/internal/domain"

// Transformer lets callers rewrite records (key renames, redaction,
// enrichment) before they reach the mirror sink. It never touches the WAL,
// so replay still sees the captured bytes.
type Transformer interface {
	Transform(*domain.Record) (*domain.Record, error)
	Version() uint16
}
