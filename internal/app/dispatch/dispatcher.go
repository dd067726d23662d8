package dispatch

import (
	"time"

	"github.com/kevinclark/AdvantageKit/internal/app/pipeline"
	"github.com/kevinclark/AdvantageKit/internal/domain"
	"github.com/kevinclark/AdvantageKit/internal/ports"
)

// Dispatcher decides, once per cycle and per component, whether inputs are
// captured from hardware and persisted or restored from a recorded log. It is
// the single authority over the mode flag and the cycle index; construct one
// and inject it into every subsystem instead of reaching for a global.
//
// The mode is fixed at construction. Swapping a Dispatcher mid-run is out of
// contract and leaves the downstream log in an undefined state.
//
// All methods run on the single control thread; one cycle completes before
// the next begins.
type Dispatcher struct {
	replayActive bool
	cycle        uint64

	wal    ports.WAL
	queue  ports.RecordQueue
	policy ports.Policy
	replay ports.ReplaySource
	obs    ports.Observability

	now func() time.Time
}

// NewRecording builds a dispatcher that captures live inputs and persists
// them through the WAL and mirror queue.
func NewRecording(wal ports.WAL, queue ports.RecordQueue, pol ports.Policy, obs ports.Observability) *Dispatcher {
	obs.SetGauge("akit_replay_active", 0)
	return &Dispatcher{
		wal:    wal,
		queue:  queue,
		policy: pol,
		obs:    obs,
		now:    time.Now,
	}
}

// NewReplaying builds a dispatcher that restores inputs from a recorded
// session instead of touching hardware.
func NewReplaying(src ports.ReplaySource, obs ports.Observability) *Dispatcher {
	obs.SetGauge("akit_replay_active", 1)
	return &Dispatcher{
		replayActive: true,
		replay:       src,
		obs:          obs,
		now:          time.Now,
	}
}

// ReplayActive reports the mode chosen at construction.
func (d *Dispatcher) ReplayActive() bool { return d.replayActive }

// Cycle returns the current cycle index.
func (d *Dispatcher) Cycle() uint64 { return d.cycle }

// ProcessInputs runs the per-component mode switch. In record mode the
// component's fields are serialized into a fresh table and handed to the
// durable path under prefix; in replay mode the table recorded for
// (prefix, cycle) is fetched and restored into the component. The table is
// scoped to this call either way.
func (d *Dispatcher) ProcessInputs(prefix string, c ports.Capturable) {
	if d.replayActive {
		c.Restore(d.replay.Fetch(prefix, d.cycle))
		return
	}

	table := domain.NewTable()
	c.Capture(table)
	rec := &domain.Record{
		Cycle:     d.cycle,
		Prefix:    prefix,
		Timestamp: d.now(),
		Table:     table,
	}
	if pipeline.AppendRecord(d.wal, d.queue, rec, d.policy, d.obs) {
		d.obs.IncCounter("akit_records_written_total", 1)
	}
}

// AdvanceCycle moves to the next cycle index. Call exactly once per control
// loop iteration, after every subsystem has been processed.
func (d *Dispatcher) AdvanceCycle() {
	d.cycle++
	d.obs.IncCounter("akit_cycles_total", 1)
}

// Done reports whether a replaying dispatcher has consumed the whole
// recorded session. Always false in record mode.
func (d *Dispatcher) Done() bool {
	return d.replayActive && d.cycle > d.replay.Cycles()
}
