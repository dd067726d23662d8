package sink

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kevinclark/AdvantageKit/internal/domain"
	"github.com/kevinclark/AdvantageKit/internal/ports"
)

// TimescaleSink mirrors recorded cycle snapshots into TimescaleDB for offline
// analysis. The WAL stays authoritative for replay; rows here are advisory,
// so conflicting re-inserts after a mirror retry are silently skipped.
type TimescaleSink struct {
	db        *sql.DB
	tableName string
}

func NewTimescaleSink(db *sql.DB, table string) *TimescaleSink {
	return &TimescaleSink{db: db, tableName: table}
}

func (t *TimescaleSink) Name() string { return "timescaledb" }

func (t *TimescaleSink) WriteBatch(records []*domain.Record) error {
	if len(records) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(t.tableName)
	b.WriteString(" (cycle, prefix, ts, fields) VALUES ")

	args := make([]any, 0, len(records)*4)
	for i, r := range records {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(fmt.Sprintf("($%d,$%d,$%d,$%d)",
			len(args)+1, len(args)+2, len(args)+3, len(args)+4))
		fields, err := json.Marshal(r.Table)
		if err != nil {
			return fmt.Errorf("marshal table: %w", err)
		}

		args = append(args,
			r.Cycle,
			r.Prefix,
			r.Timestamp,
			fields,
		)
	}

	b.WriteString(" ON CONFLICT (cycle, prefix) DO NOTHING")

	_, err := t.db.Exec(b.String(), args...)
	return err
}

var _ ports.Sink = (*TimescaleSink)(nil)
