package advantagekit

import (
	"context"
	"testing"
	"time"
)

func TestConfFromConfigAndStreamBuilder(t *testing.T) {
	cfg := recordingConfig(t)

	flow, err := ConfFromConfig(cfg)
	if err != nil {
		t.Fatalf("ConfFromConfig returned error: %v", err)
	}
	if flow.Config() != cfg {
		t.Fatalf("expected Config to be returned verbatim")
	}

	conduit := &stubConduit{}
	mirror := &stubSink{}

	rt, err := flow.
		StreamIN(
			StreamInConduit(conduit),
			StreamInObservability(&stubObservability{}),
		).
		StreamOUT(
			StreamOutSink(mirror),
			StreamOutTransformer(&stubTransformer{}),
			StreamOutObservability(&stubObservability{}),
		)
	if err != nil {
		t.Fatalf("StreamOUT returned error: %v", err)
	}
	if rt.conduit != conduit {
		t.Fatalf("expected custom conduit to be wired")
	}
	if rt.mirrorSink != mirror {
		t.Fatalf("expected custom mirror sink to be wired")
	}
}

func TestFlowRunStopsOnCancelledContext(t *testing.T) {
	cfg := recordingConfig(t)

	flow, err := ConfFromConfig(cfg)
	if err != nil {
		t.Fatalf("ConfFromConfig returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() {
		done <- flow.StreamIN(
			StreamInConduit(&stubConduit{}),
			StreamInObservability(&stubObservability{}),
		).Run(ctx,
			StreamOutSink(&stubSink{}),
			StreamOutObservability(&stubObservability{}),
		)
	}()

	select {
	case err := <-done:
		if err != nil && err != context.Canceled {
			t.Fatalf("Run returned unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}
}
