package advantagekit

import (
	"github.com/kevinclark/AdvantageKit/internal/app/dispatch"
	"github.com/kevinclark/AdvantageKit/internal/domain"
	"github.com/kevinclark/AdvantageKit/internal/inputs"
	"github.com/kevinclark/AdvantageKit/internal/ports"
	"github.com/kevinclark/AdvantageKit/internal/sysid"
)

// Table is the typed key-value snapshot a component serializes itself into
// each cycle. It mirrors internal/domain.Table but is exported so custom
// components can implement Capturable.
type Table = domain.Table

// Record is one component's table snapshot for one cycle, the unit persisted
// in the WAL and mirrored to sinks.
type Record = domain.Record

// NewTable creates an empty snapshot table.
func NewTable() *Table { return domain.NewTable() }

// Capturable is the contract a component implements to participate in
// record/replay: Capture writes its fields into a table, Restore reads them
// back with the symmetric key list.
type Capturable = ports.Capturable

// Conduit is the hardware bridge serving live driver-station state.
type Conduit = ports.Conduit

// NumJoysticks is the number of joystick slots the driver station exposes.
const NumJoysticks = ports.NumJoysticks

// Dispatcher owns the record/replay mode flag and the cycle index.
type Dispatcher = dispatch.Dispatcher

// QueuedRecord represents an item buffered inside the bounded mirror queue.
type QueuedRecord = ports.QueuedRecord

// RecordQueue is the bounded, in-memory queue between the control loop and
// the mirror sink.
type RecordQueue = ports.RecordQueue

// Transformer rewrites records (key renames, redaction, enrichment) before
// they reach the mirror sink. Replay always sees the captured bytes.
type Transformer = ports.Transformer

// Sink consumes batches of recorded snapshots for offline analysis.
type Sink = ports.Sink

// ReplaySource supplies previously recorded tables by (prefix, cycle).
type ReplaySource = ports.ReplaySource

// Observability emits metrics/logs about cycles, throughput, and DLQ
// conditions.
type Observability = ports.Observability

// Field is a structured log/metric field used by Observability implementations.
type Field = ports.Field

// WAL abstracts the durable cycle log used for replay and crash recovery.
type WAL = ports.WAL

// WALStats exposes WAL metadata for observability.
type WALStats = ports.WALStats

// WALEntryID uniquely identifies a WAL entry.
type WALEntryID = ports.WALEntryID

// StreamSink owns the ad hoc instrumentation streams used by RoutineLog.
type StreamSink = ports.StreamSink

// DriverStation bundles the logged driver-station and joystick inputs.
type DriverStation = inputs.LoggedDriverStation

// DriverStationState is the per-cycle driver-station snapshot.
type DriverStationState = inputs.DriverStationInputs

// JoystickState is the per-cycle snapshot for one joystick slot.
type JoystickState = inputs.JoystickInputs

// RoutineLog collects characterization data outside the per-cycle path.
type RoutineLog = sysid.RoutineLog

// MotorLog is the chainable per-motor handle returned by RoutineLog.Motor.
type MotorLog = sysid.MotorLog

// RoutineState is the phase of a characterization routine.
type RoutineState = sysid.State

// NewRoutineLog creates a characterization log writing to sink. Runtime
// callers usually go through Runtime.NewRoutineLog instead.
func NewRoutineLog(sink StreamSink, routine string) *RoutineLog {
	return sysid.NewRoutineLog(sink, routine)
}

const (
	QuasistaticForward = sysid.StateQuasistaticForward
	QuasistaticReverse = sysid.StateQuasistaticReverse
	DynamicForward     = sysid.StateDynamicForward
	DynamicReverse     = sysid.StateDynamicReverse
	RoutineDone        = sysid.StateNone
)
