package sysid

import (
	"reflect"
	"testing"

	"github.com/kevinclark/AdvantageKit/internal/adapters/datalog"
	"github.com/kevinclark/AdvantageKit/internal/ports"
)

type memSink struct {
	opened []string
	units  map[string]string
	floats map[string]*memFloatStream
	strs   map[string]*memStringStream
}

func newMemSink() *memSink {
	return &memSink{
		units:  make(map[string]string),
		floats: make(map[string]*memFloatStream),
		strs:   make(map[string]*memStringStream),
	}
}

func (s *memSink) OpenFloat64(name, unit string) (ports.Float64Stream, error) {
	s.opened = append(s.opened, name)
	s.units[name] = unit
	st := &memFloatStream{}
	s.floats[name] = st
	return st, nil
}

func (s *memSink) OpenString(name string) (ports.StringStream, error) {
	s.opened = append(s.opened, name)
	st := &memStringStream{}
	s.strs[name] = st
	return st, nil
}

type memFloatStream struct{ values []float64 }

func (s *memFloatStream) Append(v float64) error {
	s.values = append(s.values, v)
	return nil
}

type memStringStream struct{ values []string }

func (s *memStringStream) Append(v string) error {
	s.values = append(s.values, v)
	return nil
}

func TestRoutineLogStreamNamesAndValues(t *testing.T) {
	sink := newMemSink()
	log := NewRoutineLog(sink, "shooter")

	m := log.Motor("flywheel").Voltage(11.5).AngularVelocity(42)
	if err := m.Err(); err != nil {
		t.Fatalf("motor log: %v", err)
	}

	want := []string{"voltage-flywheel-shooter", "velocity-flywheel-shooter"}
	if !reflect.DeepEqual(sink.opened, want) {
		t.Fatalf("opened streams %v, want %v", sink.opened, want)
	}
	if u := sink.units["velocity-flywheel-shooter"]; u != "Rotation per Second" {
		t.Fatalf("unexpected velocity unit %q", u)
	}
	if got := sink.floats["voltage-flywheel-shooter"].values; !reflect.DeepEqual(got, []float64{11.5}) {
		t.Fatalf("unexpected voltage values %v", got)
	}
}

func TestRoutineLogOpensEachStreamOnce(t *testing.T) {
	sink := newMemSink()
	log := NewRoutineLog(sink, "drive")

	for i := 0; i < 5; i++ {
		log.Motor("left").Voltage(float64(i)).LinearPosition(float64(i) * 0.1)
		if err := log.RecordState(StateQuasistaticForward); err != nil {
			t.Fatalf("record state: %v", err)
		}
	}

	if len(sink.opened) != 3 {
		t.Fatalf("expected 3 opens for 3 streams, got %d: %v", len(sink.opened), sink.opened)
	}
	if got := len(sink.floats["voltage-left-drive"].values); got != 5 {
		t.Fatalf("expected 5 appends, got %d", got)
	}
}

func TestRoutineLogSameFieldDifferentMotors(t *testing.T) {
	sink := newMemSink()
	log := NewRoutineLog(sink, "drive")

	log.Motor("left").Voltage(1)
	log.Motor("right").Voltage(2)

	if len(sink.floats) != 2 {
		t.Fatalf("expected a stream per motor, got %v", sink.opened)
	}
	if got := sink.floats["voltage-right-drive"].values; !reflect.DeepEqual(got, []float64{2}) {
		t.Fatalf("motors must not share streams: %v", got)
	}
}

func TestRoutineLogStateStream(t *testing.T) {
	sink := newMemSink()
	log := NewRoutineLog(sink, "arm")

	states := []State{
		StateQuasistaticForward,
		StateQuasistaticReverse,
		StateDynamicForward,
		StateDynamicReverse,
		StateNone,
	}
	for _, st := range states {
		if err := log.RecordState(st); err != nil {
			t.Fatalf("record state: %v", err)
		}
	}

	got := sink.strs["sysid-test-state-arm"].values
	want := []string{
		"quasistatic-forward",
		"quasistatic-reverse",
		"dynamic-forward",
		"dynamic-reverse",
		"none",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("state stream %v, want %v", got, want)
	}
}

func TestRoutineLogOverFileSink(t *testing.T) {
	sink, err := datalog.NewFileStreamSink(t.TempDir())
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	defer sink.Close()

	log := NewRoutineLog(sink, "drive")
	for i := 0; i < 10; i++ {
		if err := log.Motor("left").Current(float64(i)).Err(); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	log.RecordState(StateDynamicForward)

	if sink.OpenCount() != 2 {
		t.Fatalf("expected one file per stream, got %d", sink.OpenCount())
	}
}
