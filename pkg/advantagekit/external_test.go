package advantagekit

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestExternalRecorderPublishReachesSink(t *testing.T) {
	var (
		mu       sync.Mutex
		received []CycleRecord
	)

	cfg := &ExternalRecorderConfig{
		Policy: Policy{
			MaxQueueLen:  16,
			MaxBatchSize: 4,
			IdleSleep:    time.Millisecond,
		},
		WAL:           WALConfig{Dir: t.TempDir()},
		Observability: &stubObservability{},
	}

	rec, err := NewExternalRecorder(cfg, func(batch []CycleRecord) error {
		mu.Lock()
		received = append(received, batch...)
		mu.Unlock()
		return nil
	})
	if err != nil {
		t.Fatalf("NewExternalRecorder returned error: %v", err)
	}

	for i := 0; i < 3; i++ {
		table := NewTable()
		table.PutInt("TargetCount", int64(i))
		if err := rec.Publish("Vision", table); err != nil {
			t.Fatalf("Publish returned error: %v", err)
		}
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		mu.Lock()
		n := len(received)
		mu.Unlock()
		if n == 3 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("sink received %d of 3 records", n)
		}
		time.Sleep(time.Millisecond)
	}

	mu.Lock()
	first := received[0]
	mu.Unlock()
	if first.Prefix != "Vision" || first.Cycle != 1 {
		t.Fatalf("unexpected first record: %+v", first)
	}
	if first.Values["TargetCount"] != int64(0) {
		t.Fatalf("expected table values to survive, got %v", first.Values["TargetCount"])
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rec.Close(ctx); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
}

func TestExternalRecorderRequiresSink(t *testing.T) {
	cfg := &ExternalRecorderConfig{WAL: WALConfig{Dir: t.TempDir()}, Observability: &stubObservability{}}
	if _, err := NewExternalRecorder(cfg, nil); err == nil {
		t.Fatalf("expected error for nil sink callback")
	}
}
