package domain

import "time"

// Record is the canonical persisted unit: one component's table snapshot for
// one control cycle, addressed by (Prefix, Cycle).
type Record struct {
	Cycle     uint64    `json:"cycle"`
	Prefix    string    `json:"prefix"`
	Timestamp time.Time `json:"ts"`
	Table     *Table    `json:"table"`
}
