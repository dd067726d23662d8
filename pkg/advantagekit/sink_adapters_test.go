package advantagekit

import (
	"errors"
	"testing"
	"time"
)

func sampleRecord(cycle uint64, prefix string) *Record {
	table := NewTable()
	table.PutFloat("MatchTime", 12.5)
	table.PutBool("Enabled", true)
	table.PutBoolArray("Buttons", []bool{true, false})
	return &Record{
		Cycle:     cycle,
		Prefix:    prefix,
		Timestamp: time.Unix(1, 0),
		Table:     table,
	}
}

func TestNewCallbackSink(t *testing.T) {
	var received []CycleRecord
	sink := NewCallbackSink("cb", func(batch []CycleRecord) error {
		received = append(received, batch...)
		return nil
	})

	if err := sink.WriteBatch([]*Record{sampleRecord(42, "DriverStation")}); err != nil {
		t.Fatalf("WriteBatch returned error: %v", err)
	}
	if len(received) != 1 {
		t.Fatalf("expected 1 batch entry, got %d", len(received))
	}
	got := received[0]
	if got.Cycle != 42 || got.Prefix != "DriverStation" {
		t.Fatalf("mismatched record identity: %+v", got)
	}
	if got.Values["MatchTime"] != 12.5 {
		t.Fatalf("expected float to be flattened, got %v", got.Values["MatchTime"])
	}
	if got.Values["Enabled"] != true {
		t.Fatalf("expected bool to be flattened, got %v", got.Values["Enabled"])
	}
	buttons, ok := got.Values["Buttons"].([]bool)
	if !ok || len(buttons) != 2 || !buttons[0] {
		t.Fatalf("expected bool array to be flattened, got %v", got.Values["Buttons"])
	}
}

func TestNewCallbackSinkNilHandler(t *testing.T) {
	sink := NewCallbackSink("", nil)
	if err := sink.WriteBatch([]*Record{sampleRecord(1, "x")}); err == nil {
		t.Fatalf("expected error when callback is nil")
	}
}

func TestNewChannelSink(t *testing.T) {
	sink, ch, closeFn := NewChannelSink("chan", 1)
	defer closeFn()

	errCh := make(chan error, 1)
	go func() {
		errCh <- sink.WriteBatch([]*Record{sampleRecord(7, "Vision")})
	}()

	var batch []CycleRecord
	select {
	case batch = <-ch:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel batch")
	}

	if err := <-errCh; err != nil {
		t.Fatalf("WriteBatch returned error: %v", err)
	}
	if len(batch) != 1 || batch[0].Prefix != "Vision" || batch[0].Cycle != 7 {
		t.Fatalf("unexpected batch data: %+v", batch)
	}

	closeFn()
	if err := sink.WriteBatch([]*Record{sampleRecord(8, "Vision")}); !errors.Is(err, ErrChannelSinkClosed) {
		t.Fatalf("expected ErrChannelSinkClosed, got %v", err)
	}
}
