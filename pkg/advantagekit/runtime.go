package advantagekit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kevinclark/AdvantageKit/internal/adapters/datalog"
	"github.com/kevinclark/AdvantageKit/internal/adapters/observability"
	"github.com/kevinclark/AdvantageKit/internal/adapters/opcua"
	"github.com/kevinclark/AdvantageKit/internal/adapters/queue"
	"github.com/kevinclark/AdvantageKit/internal/adapters/replay"
	"github.com/kevinclark/AdvantageKit/internal/adapters/sink"
	"github.com/kevinclark/AdvantageKit/internal/adapters/wal"
	"github.com/kevinclark/AdvantageKit/internal/app/dispatch"
	"github.com/kevinclark/AdvantageKit/internal/app/pipeline"
	"github.com/kevinclark/AdvantageKit/internal/inputs"
	"github.com/kevinclark/AdvantageKit/internal/ports"
)

// RuntimeOption customizes the dependencies used by Runtime.
type RuntimeOption func(*runtimeOverrides)

type runtimeOverrides struct {
	conduit       Conduit
	mirrorSink    Sink
	transformer   Transformer
	wal           WAL
	queue         RecordQueue
	replaySource  ReplaySource
	observability Observability
	streams       StreamSink
}

// WithConduit injects a custom hardware bridge (CAN, simulators, test rigs).
func WithConduit(c Conduit) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.conduit = c
	}
}

// WithMirrorSink injects a custom mirror sink so recorded cycles can be sent
// to any database or API.
func WithMirrorSink(s Sink) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.mirrorSink = s
	}
}

// WithTransformer overrides the default no-op transformer on the mirror path.
func WithTransformer(t Transformer) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.transformer = t
	}
}

// WithWAL lets callers bring their own cycle log implementation.
func WithWAL(w WAL) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.wal = w
	}
}

// WithRecordQueue injects a custom mirror queue implementation.
func WithRecordQueue(q RecordQueue) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.queue = q
	}
}

// WithReplaySource overrides where a replaying runtime reads its tables from.
func WithReplaySource(src ReplaySource) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.replaySource = src
	}
}

// WithObservability plugs in a custom observability backend.
func WithObservability(obs Observability) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.observability = obs
	}
}

// WithStreamSink overrides the file-backed instrumentation stream store.
func WithStreamSink(s StreamSink) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.streams = s
	}
}

// Runtime wires the capture → WAL → queue → mirror pipeline around a
// dispatcher and exposes lifecycle hooks for embedding the framework inside
// any robot program. In replay mode it wires the WAL of a previous session
// into the dispatcher instead and leaves hardware untouched.
type Runtime struct {
	cfg        *Config
	policy     ports.Policy
	obs        ports.Observability
	dispatcher *dispatch.Dispatcher
	station    *inputs.LoggedDriverStation

	wal         ports.WAL
	queue       ports.RecordQueue
	conduit     ports.Conduit
	transformer ports.Transformer
	mirrorSink  ports.Sink
	db          *sql.DB

	streamsMu sync.Mutex
	streams   ports.StreamSink

	metricsSrv   *http.Server
	gaugeStopCh  chan struct{}
	mirrorStopCh chan struct{}
	mirrorDoneCh chan struct{}
}

// NewRuntime bootstraps the default adapters (OPC UA conduit, file WAL,
// in-memory queue, Timescale mirror sink, Prometheus observability) around a
// recording dispatcher, or a WAL-backed replay source around a replaying one
// when cfg.Replay.Enabled is set. RuntimeOption values override any
// dependency.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	var overrides runtimeOverrides
	for _, opt := range opts {
		if opt != nil {
			opt(&overrides)
		}
	}

	obs := overrides.observability
	if obs == nil {
		obs = observability.NewPromObs()
	}

	r := &Runtime{
		cfg:     cfg,
		policy:  cfg.Policy,
		obs:     obs,
		streams: overrides.streams,
	}

	if cfg.Replay.Enabled {
		if err := r.initReplay(&overrides); err != nil {
			return nil, err
		}
	} else if err := r.initRecording(&overrides); err != nil {
		return nil, err
	}

	r.station = inputs.NewLoggedDriverStation(r.dispatcher, r.conduit)
	return r, nil
}

func (r *Runtime) initReplay(overrides *runtimeOverrides) error {
	src := overrides.replaySource
	if src == nil {
		recorded, err := wal.NewFileWAL(r.cfg.Replay.Source)
		if err != nil {
			return fmt.Errorf("open recorded session: %w", err)
		}
		src, err = replay.NewFromWAL(recorded)
		if err != nil {
			recorded.Close()
			return fmt.Errorf("index recorded session: %w", err)
		}
		r.wal = recorded
	}

	r.dispatcher = dispatch.NewReplaying(src, r.obs)
	r.conduit = overrides.conduit
	if r.conduit == nil {
		r.conduit = disconnectedConduit{}
	}
	return nil
}

func (r *Runtime) initRecording(overrides *runtimeOverrides) error {
	var err error

	if overrides.wal != nil {
		r.wal = overrides.wal
	} else {
		r.wal, err = wal.NewFileWAL(r.cfg.WAL.Dir)
		if err != nil {
			return err
		}
	}
	if r.wal == nil {
		return fmt.Errorf("wal adapter is nil")
	}

	r.queue = overrides.queue
	if r.queue == nil {
		r.queue = queue.NewMemQueue(r.cfg.Policy.MaxQueueLen)
	}
	if r.queue == nil {
		return fmt.Errorf("record queue is nil")
	}

	if _, err := pipeline.ReplayWALIntoQueue(r.wal, r.queue, r.policy, r.obs); err != nil {
		return err
	}

	r.conduit = overrides.conduit
	if r.conduit == nil {
		r.conduit, err = opcua.NewConduit(r.cfg.Conduit)
		if err != nil {
			return err
		}
	}

	if overrides.mirrorSink != nil {
		r.mirrorSink = overrides.mirrorSink
	} else if r.cfg.Timescale.ConnString != "" {
		r.db, err = sql.Open("postgres", r.cfg.Timescale.ConnString)
		if err != nil {
			return err
		}
		r.mirrorSink = sink.NewTimescaleSink(r.db, r.cfg.Timescale.Table)
	}

	r.transformer = overrides.transformer
	if r.transformer == nil {
		r.transformer = &noopTransformer{}
	}

	r.dispatcher = dispatch.NewRecording(r.wal, r.queue, r.policy, r.obs)
	return nil
}

// Dispatcher returns the dispatcher so custom components can be processed
// alongside the driver station.
func (r *Runtime) Dispatcher() *Dispatcher { return r.dispatcher }

// DriverStation returns the logged driver-station bundle.
func (r *Runtime) DriverStation() *DriverStation { return r.station }

// NewRoutineLog opens a characterization log over the runtime's stream store.
func (r *Runtime) NewRoutineLog(routine string) (*RoutineLog, error) {
	r.streamsMu.Lock()
	defer r.streamsMu.Unlock()
	if r.streams == nil {
		dir := r.cfg.Streams.Dir
		if dir == "" {
			dir = "./data/streams"
		}
		fs, err := datalog.NewFileStreamSink(dir)
		if err != nil {
			return nil, err
		}
		r.streams = fs
	}
	return NewRoutineLog(r.streams, routine), nil
}

// Start connects the conduit, launches the mirror pipeline, and brings up the
// observability stack. It returns immediately; call Run to drive the control
// loop instead.
func (r *Runtime) Start() error {
	if r == nil {
		return fmt.Errorf("runtime is nil")
	}

	if starter, ok := r.conduit.(interface{ Start() error }); ok {
		if err := starter.Start(); err != nil {
			return err
		}
	}

	if r.mirrorSink != nil {
		r.mirrorStopCh = make(chan struct{})
		r.mirrorDoneCh = make(chan struct{})
		go func() {
			pipeline.RunMirrorPipeline(r.wal, r.queue, r.transformer, r.mirrorSink, r.policy, r.obs, r.mirrorStopCh)
			close(r.mirrorDoneCh)
		}()
	}

	r.startMetrics()
	return nil
}

// Run starts the runtime and drives the control loop until ctx is cancelled,
// cycle returns an error, or a replaying runtime exhausts the recorded
// session. cycle runs once per period after the driver-station bundle has
// been processed; pass nil when the driver station is all you need.
func (r *Runtime) Run(ctx context.Context, cycle func() error) error {
	if err := r.Start(); err != nil {
		return err
	}

	loopErr := dispatch.RunLoop(ctx, r.dispatcher, r.obs, r.cfg.Loop.Period, func() error {
		r.station.Periodic()
		if cycle != nil {
			return cycle()
		}
		return nil
	})
	if errors.Is(loopErr, context.Canceled) {
		loopErr = nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return errors.Join(loopErr, r.Shutdown(shutdownCtx))
}

// Shutdown stops the conduit, mirror pipeline, metrics server, and closes
// every owned resource.
func (r *Runtime) Shutdown(ctx context.Context) error {
	var errs []error

	if r.gaugeStopCh != nil {
		close(r.gaugeStopCh)
		r.gaugeStopCh = nil
	}

	if r.metricsSrv != nil {
		if err := r.metricsSrv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, err)
		}
		r.metricsSrv = nil
	}

	if r.mirrorStopCh != nil {
		close(r.mirrorStopCh)
		select {
		case <-r.mirrorDoneCh:
		case <-ctx.Done():
			errs = append(errs, ctx.Err())
		}
		r.mirrorStopCh = nil
	}

	if stopper, ok := r.conduit.(interface{ Stop() error }); ok {
		if err := stopper.Stop(); err != nil {
			errs = append(errs, err)
		}
	}

	if r.db != nil {
		if err := r.db.Close(); err != nil {
			errs = append(errs, err)
		}
		r.db = nil
	}

	if closer, ok := r.wal.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	r.streamsMu.Lock()
	if closer, ok := r.streams.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.streamsMu.Unlock()

	return errors.Join(errs...)
}

func (r *Runtime) startMetrics() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:    r.cfg.Metrics.Addr,
		Handler: mux,
	}
	r.metricsSrv = srv

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("metrics server exited: %v", err)
		}
	}()

	r.gaugeStopCh = make(chan struct{})
	go r.recordResourceGauges(r.gaugeStopCh, time.Second)
}

func (r *Runtime) recordResourceGauges(stop <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if r.wal != nil {
				r.obs.SetGauge("akit_wal_size_bytes", float64(r.wal.Stats().SizeBytes))
			}
			if r.queue != nil {
				r.obs.SetGauge("akit_queue_length", float64(r.queue.Len()))
			}
		}
	}
}

// disconnectedConduit serves default values only. A replaying runtime uses it
// so nothing ever touches hardware.
type disconnectedConduit struct{}

func (disconnectedConduit) AllianceStation() int64 { return 0 }
func (disconnectedConduit) EventName() string { return "" }
func (disconnectedConduit) GameSpecificMessage() string { return "" }
func (disconnectedConduit) MatchNumber() int64 { return 0 }
func (disconnectedConduit) ReplayNumber() int64 { return 0 }
func (disconnectedConduit) MatchType() int64 { return 0 }
func (disconnectedConduit) MatchTime() float64 { return 0 }
func (disconnectedConduit) ControlWord() int64 { return 0 }
func (disconnectedConduit) JoystickName(int) string { return "" }
func (disconnectedConduit) JoystickType(int) int64 { return 0 }
func (disconnectedConduit) IsXbox(int) bool { return false }
func (disconnectedConduit) ButtonCount(int) int { return 0 }
func (disconnectedConduit) ButtonValues(int) uint32 { return 0 }
func (disconnectedConduit) AxisValues(int) []float32 { return nil }
func (disconnectedConduit) AxisTypes(int) []int64 { return nil }
func (disconnectedConduit) POVs(int) []int64 { return nil }

type noopTransformer struct{}

func (n *noopTransformer) Transform(r *Record) (*Record, error) { return r, nil }
func (n *noopTransformer) Version() uint16                      { return 1 }
