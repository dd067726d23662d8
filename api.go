package advantagekit

import (
	base "github.com/kevinclark/AdvantageKit/pkg/advantagekit"
)

// Re-exported errors for convenience.
var (
	ErrQueueFull         = base.ErrQueueFull
	ErrWALFull           = base.ErrWALFull
	ErrChannelSinkClosed = base.ErrChannelSinkClosed
)

// Type aliases so consumers can import github.com/kevinclark/AdvantageKit
// directly.
type (
	Config                 = base.Config
	Policy                 = base.Policy
	ConduitConfig          = base.ConduitConfig
	StationConfig          = base.StationConfig
	JoystickConfig         = base.JoystickConfig
	TimescaleConfig        = base.TimescaleConfig
	MetricsConfig          = base.MetricsConfig
	WALConfig              = base.WALConfig
	ReplayConfig           = base.ReplayConfig
	LoopConfig             = base.LoopConfig
	StreamsConfig          = base.StreamsConfig
	Flow                   = base.Flow
	FlowOption             = base.FlowOption
	StreamInOption         = base.StreamInOption
	StreamOutOption        = base.StreamOutOption
	Runtime                = base.Runtime
	RuntimeOption          = base.RuntimeOption
	Table                  = base.Table
	Record                 = base.Record
	CycleRecord            = base.CycleRecord
	RecordBatchSink        = base.RecordBatchSink
	Capturable             = base.Capturable
	Conduit                = base.Conduit
	Dispatcher             = base.Dispatcher
	DriverStation          = base.DriverStation
	DriverStationState     = base.DriverStationState
	JoystickState          = base.JoystickState
	RoutineLog             = base.RoutineLog
	MotorLog               = base.MotorLog
	RoutineState           = base.RoutineState
	StreamSink             = base.StreamSink
	Sink                   = base.Sink
	Transformer            = base.Transformer
	RecordQueue            = base.RecordQueue
	QueuedRecord           = base.QueuedRecord
	ReplaySource           = base.ReplaySource
	WAL                    = base.WAL
	Observability          = base.Observability
	Field                  = base.Field
	WALEntryID             = base.WALEntryID
	WALStats               = base.WALStats
	ExternalRecorder       = base.ExternalRecorder
	ExternalRecorderConfig = base.ExternalRecorderConfig
)

// Characterization routine phases.
const (
	QuasistaticForward = base.QuasistaticForward
	QuasistaticReverse = base.QuasistaticReverse
	DynamicForward     = base.DynamicForward
	DynamicReverse     = base.DynamicReverse
	RoutineDone        = base.RoutineDone
)

// NumJoysticks is the number of joystick slots the driver station exposes.
const NumJoysticks = base.NumJoysticks

// Config helpers.
func LoadConfig(path string) (*Config, error) {
	return base.LoadConfig(path)
}

// NewTable creates an empty snapshot table.
func NewTable() *Table {
	return base.NewTable()
}

// Flow builder helpers.
func Conf(path string, opts ...FlowOption) (*Flow, error) {
	return base.Conf(path, opts...)
}

func ConfFromConfig(cfg *Config, opts ...FlowOption) (*Flow, error) {
	return base.ConfFromConfig(cfg, opts...)
}

func WithFlowOptions(opts ...RuntimeOption) FlowOption {
	return base.WithFlowOptions(opts...)
}

func StreamInConduit(c Conduit) StreamInOption {
	return base.StreamInConduit(c)
}

func StreamInQueue(q RecordQueue) StreamInOption {
	return base.StreamInQueue(q)
}

func StreamInWAL(w WAL) StreamInOption {
	return base.StreamInWAL(w)
}

func StreamInReplaySource(src ReplaySource) StreamInOption {
	return base.StreamInReplaySource(src)
}

func StreamInObservability(obs Observability) StreamInOption {
	return base.StreamInObservability(obs)
}

func StreamOutSink(s Sink) StreamOutOption {
	return base.StreamOutSink(s)
}

func StreamOutTransformer(tr Transformer) StreamOutOption {
	return base.StreamOutTransformer(tr)
}

func StreamOutObservability(obs Observability) StreamOutOption {
	return base.StreamOutObservability(obs)
}

func StreamOutCallback(name string, fn RecordBatchSink) StreamOutOption {
	return base.StreamOutCallback(name, fn)
}

// Runtime and options.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	return base.NewRuntime(cfg, opts...)
}

func WithConduit(c Conduit) RuntimeOption {
	return base.WithConduit(c)
}

func WithMirrorSink(s Sink) RuntimeOption {
	return base.WithMirrorSink(s)
}

func WithTransformer(tr Transformer) RuntimeOption {
	return base.WithTransformer(tr)
}

func WithWAL(w WAL) RuntimeOption {
	return base.WithWAL(w)
}

func WithRecordQueue(q RecordQueue) RuntimeOption {
	return base.WithRecordQueue(q)
}

func WithReplaySource(src ReplaySource) RuntimeOption {
	return base.WithReplaySource(src)
}

func WithObservability(obs Observability) RuntimeOption {
	return base.WithObservability(obs)
}

func WithStreamSink(s StreamSink) RuntimeOption {
	return base.WithStreamSink(s)
}

// Sink adapters.
func NewCallbackSink(name string, fn RecordBatchSink) Sink {
	return base.NewCallbackSink(name, fn)
}

func NewChannelSink(name string, buffer int) (Sink, <-chan []CycleRecord, func()) {
	return base.NewChannelSink(name, buffer)
}

// Characterization logging.
func NewRoutineLog(sink StreamSink, routine string) *RoutineLog {
	return base.NewRoutineLog(sink, routine)
}

// External recorder.
func NewExternalRecorder(cfg *ExternalRecorderConfig, sink RecordBatchSink) (*ExternalRecorder, error) {
	return base.NewExternalRecorder(cfg, sink)
}
