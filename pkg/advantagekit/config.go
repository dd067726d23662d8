package advantagekit

import (
	"github.com/kevinclark/AdvantageKit/internal/adapters/opcua"
	"github.com/kevinclark/AdvantageKit/internal/app/config"
	"github.com/kevinclark/AdvantageKit/internal/ports"
)

// Config re-exports the root configuration struct so downstream projects can
// construct or modify it programmatically.
type Config = config.Config

type (
	// Policy controls WAL/queue thresholds and backpressure behavior.
	Policy = ports.Policy
	// ConduitConfig holds the OPC UA session plus node mapping for the rig.
	ConduitConfig = opcua.Config
	// StationConfig maps driver-station fields onto monitored nodes.
	StationConfig = opcua.StationConfig
	// JoystickConfig describes one joystick slot on the rig.
	JoystickConfig = opcua.JoystickConfig
	// TimescaleConfig configures the mirror sink.
	TimescaleConfig = config.TimescaleConfig
	// MetricsConfig configures the metrics HTTP server.
	MetricsConfig = config.MetricsConfig
	// WALConfig configures the on-disk cycle log.
	WALConfig = config.WALConfig
	// ReplayConfig points the runtime at a recorded session.
	ReplayConfig = config.ReplayConfig
	// LoopConfig sets the control loop period.
	LoopConfig = config.LoopConfig
	// StreamsConfig locates the instrumentation stream files.
	StreamsConfig = config.StreamsConfig
)

// LoadConfig loads YAML from disk using the internal config reader.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}
