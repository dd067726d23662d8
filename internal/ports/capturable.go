package ports

import "github.com/kevinclark/AdvantageKit/internal/domain"

// Capturable is the contract every input bundle implements so the dispatcher
// can snapshot it in record mode and refill it in replay mode.
//
// Capture writes every field into the table under a stable key; the key
// strings are part of the persisted format and must never change once chosen.
// Restore reads every field back, passing the field's current value as the
// default so a missing key is a safe partial update rather than an error.
// Capture followed by Restore on the same table must be the identity on
// every field.
type Capturable interface {
	Capture(t *domain.Table)
	Restore(t *domain.Table)
}
