package sysid

import (
	"fmt"

	"github.com/kevinclark/AdvantageKit/internal/ports"
)

// State is the phase of a characterization routine.
type State int

const (
	StateQuasistaticForward State = iota
	StateQuasistaticReverse
	StateDynamicForward
	StateDynamicReverse
	StateNone
)

func (s State) String() string {
	switch s {
	case StateQuasistaticForward:
		return "quasistatic-forward"
	case StateQuasistaticReverse:
		return "quasistatic-reverse"
	case StateDynamicForward:
		return "dynamic-forward"
	case StateDynamicReverse:
		return "dynamic-reverse"
	default:
		return "none"
	}
}

// RoutineLog collects ad hoc instrumentation for one characterization
// routine, outside the per-cycle snapshot path. Each (field, motor) pair maps
// to one scalar stream named "<field>-<motor>-<routine>", opened lazily on
// first write and cached for the rest of the process. One string stream,
// "sysid-test-state-<routine>", carries the routine's state transitions.
type RoutineLog struct {
	sink    ports.StreamSink
	routine string

	entries map[string]map[string]ports.Float64Stream
	state   ports.StringStream
}

// NewRoutineLog creates the log for one complete routine. The routine name
// must be unique between routines since it is baked into every stream name.
func NewRoutineLog(sink ports.StreamSink, routine string) *RoutineLog {
	return &RoutineLog{
		sink:    sink,
		routine: routine,
		entries: make(map[string]map[string]ports.Float64Stream),
	}
}

// Record appends value to the stream for (field, motor), opening it with the
// given unit label on first use. Opening is idempotent per pair; the unit of
// later calls is ignored.
func (l *RoutineLog) Record(motor, field string, value float64, unit string) error {
	motorEntries, ok := l.entries[motor]
	if !ok {
		motorEntries = make(map[string]ports.Float64Stream)
		l.entries[motor] = motorEntries
	}

	stream, ok := motorEntries[field]
	if !ok {
		var err error
		stream, err = l.sink.OpenFloat64(fmt.Sprintf("%s-%s-%s", field, motor, l.routine), unit)
		if err != nil {
			return err
		}
		motorEntries[field] = stream
	}

	return stream.Append(value)
}

// RecordState appends the string form of state to the routine's single state
// stream, opening it on first call. Log each test phase once per iteration
// and StateNone once at test end.
func (l *RoutineLog) RecordState(state State) error {
	if l.state == nil {
		stream, err := l.sink.OpenString("sysid-test-state-" + l.routine)
		if err != nil {
			return err
		}
		l.state = stream
	}
	return l.state.Append(state.String())
}

// MotorLog is a chainable handle for logging one motor's data.
type MotorLog struct {
	log   *RoutineLog
	motor string
	err   error
}

// Motor returns a handle for logging data from one motor.
func (l *RoutineLog) Motor(name string) *MotorLog {
	return &MotorLog{log: l, motor: name}
}

// Err returns the first error encountered by the chained calls.
func (m *MotorLog) Err() error { return m.err }

// Value logs a generic data field with an explicit unit.
func (m *MotorLog) Value(field string, value float64, unit string) *MotorLog {
	if m.err == nil {
		m.err = m.log.Record(m.motor, field, value, unit)
	}
	return m
}

// Voltage logs the voltage applied to the motor, in volts.
func (m *MotorLog) Voltage(volts float64) *MotorLog {
	return m.Value("voltage", volts, "Volt")
}

// Current logs the current through the motor, in amps.
func (m *MotorLog) Current(amps float64) *MotorLog {
	return m.Value("current", amps, "Amp")
}

// LinearPosition logs the linear position of the mechanism, in meters.
func (m *MotorLog) LinearPosition(meters float64) *MotorLog {
	return m.Value("position", meters, "Meter")
}

// AngularPosition logs the angular position of the mechanism, in rotations.
func (m *MotorLog) AngularPosition(rotations float64) *MotorLog {
	return m.Value("position", rotations, "Rotation")
}

// LinearVelocity logs the linear velocity, in meters per second.
func (m *MotorLog) LinearVelocity(metersPerSecond float64) *MotorLog {
	return m.Value("velocity", metersPerSecond, "Meter per Second")
}

// AngularVelocity logs the angular velocity, in rotations per second.
func (m *MotorLog) AngularVelocity(rotationsPerSecond float64) *MotorLog {
	return m.Value("velocity", rotationsPerSecond, "Rotation per Second")
}
