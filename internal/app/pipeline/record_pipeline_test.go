package pipeline

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/kevinclark/AdvantageKit/internal/domain"
	"github.com/kevinclark/AdvantageKit/internal/ports"
)

func TestWaitForWALCapacityBlockThenSucceed(t *testing.T) {
	wal := &mockWAL{
		sizes: []int64{150, 50},
	}
	pol := ports.Policy{
		MaxWALSizeBytes: 100,
		OnWALFull:       "block",
		IdleSleep:       time.Millisecond,
	}
	obs := &mockObs{}

	if ok := waitForWALCapacity(wal, pol, obs); !ok {
		t.Fatalf("expected waitForWALCapacity to eventually succeed")
	}
	if wal.statsCalls < 2 {
		t.Fatalf("expected multiple stats calls, got %d", wal.statsCalls)
	}
}

func TestWaitForWALCapacityDrop(t *testing.T) {
	wal := &mockWAL{
		sizes: []int64{200, 200},
	}
	pol := ports.Policy{
		MaxWALSizeBytes: 100,
		OnWALFull:       "drop",
	}
	obs := &mockObs{}

	if ok := waitForWALCapacity(wal, pol, obs); ok {
		t.Fatalf("expected waitForWALCapacity to drop and return false")
	}
	if len(obs.errors) == 0 {
		t.Fatalf("expected error to be logged")
	}
}

func TestEnqueueWithPolicyBlock(t *testing.T) {
	queue := &mockQueue{}
	queue.failures = 1

	pol := ports.Policy{
		OnQueueFull: "block",
		IdleSleep:   time.Millisecond,
	}
	obs := &mockObs{}

	if ok := enqueueWithPolicy(queue, 1, &domain.Record{}, pol, obs); !ok {
		t.Fatalf("expected enqueue to eventually succeed")
	}
	if queue.calls != 2 {
		t.Fatalf("expected two enqueue attempts, got %d", queue.calls)
	}
}

func TestEnqueueWithPolicyDrop(t *testing.T) {
	queue := &mockQueue{failAlways: true}
	pol := ports.Policy{
		OnQueueFull: "drop",
	}
	obs := &mockObs{}

	if ok := enqueueWithPolicy(queue, 1, &domain.Record{}, pol, obs); ok {
		t.Fatalf("expected enqueueWithPolicy to fail")
	}
	if len(obs.errors) == 0 {
		t.Fatalf("expected drop to log an error")
	}
}

func TestAppendRecordWritesWALAndQueue(t *testing.T) {
	wal := &mockWAL{}
	queue := &mockQueue{}
	obs := &mockObs{}
	pol := ports.Policy{OnQueueFull: "drop", OnWALFull: "drop"}

	rec := &domain.Record{Cycle: 1, Prefix: "DriverStation", Table: domain.NewTable()}
	if ok := AppendRecord(wal, queue, rec, pol, obs); !ok {
		t.Fatalf("expected append to succeed")
	}
	if wal.appends != 1 {
		t.Fatalf("expected one WAL append, got %d", wal.appends)
	}
	if queue.calls != 1 {
		t.Fatalf("expected one enqueue, got %d", queue.calls)
	}
}

type mockWAL struct {
	ports.WAL
	sizes      []int64
	statsCalls int
	appends    int
}

func (m *mockWAL) Stats() ports.WALStats {
	if len(m.sizes) == 0 {
		m.statsCalls++
		return ports.WALStats{}
	}
	idx := m.statsCalls
	if idx >= len(m.sizes) {
		idx = len(m.sizes) - 1
	}
	m.statsCalls++
	return ports.WALStats{
		SizeBytes: m.sizes[idx],
	}
}

func (m *mockWAL) Append(*domain.Record) (ports.WALEntryID, error) {
	m.appends++
	return ports.WALEntryID(m.appends), nil
}

type mockQueue struct {
	failures   int32
	failAlways bool
	calls      int
}

func (m *mockQueue) Enqueue(id ports.WALEntryID, r *domain.Record) bool {
	m.calls++
	if m.failAlways {
		return false
	}
	if atomic.LoadInt32(&m.failures) > 0 {
		atomic.AddInt32(&m.failures, -1)
		return false
	}
	return true
}

func (m *mockQueue) DequeueBatch(int) []ports.QueuedRecord { return nil }
func (m *mockQueue) Len() int                              { return 0 }

type mockObs struct {
	errors []error
}

func (m *mockObs) LogInfo(string, ...ports.Field)                    {}
func (m *mockObs) LogError(_ string, err error, _ ...ports.Field)    { m.errors = append(m.errors, err) }
func (m *mockObs) LogCritical(string, error, ...ports.Field)         {}
func (m *mockObs) IncCounter(string, float64)                        {}
func (m *mockObs) ObserveLatency(string, float64)                    {}
func (m *mockObs) SetGauge(string, float64)                          {}
func (m *mockObs) RecordDLQ(ports.WALEntryID, *domain.Record, error) {}
