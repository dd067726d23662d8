package advantagekit

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kevinclark/AdvantageKit/internal/domain"
)

// ErrChannelSinkClosed is returned when a channel sink is written to after
// being closed.
var ErrChannelSinkClosed = errors.New("advantagekit: channel sink closed")

// CycleRecord is the exported view of one recorded snapshot, with the table
// flattened into plain Go values. It is safe to retain and mutate.
type CycleRecord struct {
	Cycle     uint64
	Prefix    string
	Timestamp time.Time
	Values    map[string]any
}

// RecordBatchSink is invoked with ordered batches dequeued from the mirror
// pipeline.
type RecordBatchSink func([]CycleRecord) error

// NewCallbackSink adapts a RecordBatchSink into a full Sink implementation so
// callers can plug arbitrary functions without defining structs.
func NewCallbackSink(name string, fn RecordBatchSink) Sink {
	if name == "" {
		name = "callback"
	}
	return &callbackSink{name: name, fn: fn}
}

// NewChannelSink exposes batches via a channel; it returns the sink, the
// read-only channel, and a close function the caller should invoke during
// shutdown.
func NewChannelSink(name string, buffer int) (Sink, <-chan []CycleRecord, func()) {
	if name == "" {
		name = "channel"
	}
	if buffer < 0 {
		buffer = 0
	}
	ch := make(chan []CycleRecord, buffer)
	s := &channelSink{
		name:   name,
		ch:     ch,
		closed: make(chan struct{}),
	}
	return s, ch, func() { s.close() }
}

type callbackSink struct {
	name string
	fn   RecordBatchSink
}

func (s *callbackSink) WriteBatch(records []*domain.Record) error {
	if s.fn == nil {
		return fmt.Errorf("callback sink %q: nil handler", s.name)
	}
	if len(records) == 0 {
		return nil
	}
	return s.fn(convertDomainBatch(records))
}

func (s *callbackSink) Name() string { return s.name }

type channelSink struct {
	name   string
	ch     chan []CycleRecord
	closed chan struct{}
	once   sync.Once
}

func (s *channelSink) WriteBatch(records []*domain.Record) error {
	select {
	case <-s.closed:
		return ErrChannelSinkClosed
	default:
	}

	if len(records) == 0 {
		return nil
	}

	batch := convertDomainBatch(records)

	select {
	case <-s.closed:
		return ErrChannelSinkClosed
	case s.ch <- batch:
		return nil
	}
}

func (s *channelSink) Name() string { return s.name }

func (s *channelSink) close() {
	s.once.Do(func() {
		close(s.closed)
		close(s.ch)
	})
}

func convertDomainBatch(records []*domain.Record) []CycleRecord {
	if len(records) == 0 {
		return nil
	}
	out := make([]CycleRecord, len(records))
	for i, rec := range records {
		out[i] = recordView(rec)
	}
	return out
}

func recordView(rec *domain.Record) CycleRecord {
	view := CycleRecord{
		Cycle:     rec.Cycle,
		Prefix:    rec.Prefix,
		Timestamp: rec.Timestamp,
	}
	if rec.Table == nil {
		return view
	}
	keys := rec.Table.Keys()
	view.Values = make(map[string]any, len(keys))
	for _, k := range keys {
		if v, ok := rec.Table.Value(k); ok {
			view.Values[k] = v.Any()
		}
	}
	return view
}
