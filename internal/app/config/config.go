package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kevinclark/AdvantageKit/internal/adapters/opcua"
	"github.com/kevinclark/AdvantageKit/internal/ports"
)

type Config struct {
	Policy    ports.Policy    `yaml:"policy"`
	Conduit   opcua.Config    `yaml:"conduit"`
	Timescale TimescaleConfig `yaml:"timescale"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	WAL       WALConfig       `yaml:"wal"`
	Replay    ReplayConfig    `yaml:"replay"`
	Loop      LoopConfig      `yaml:"loop"`
	Streams   StreamsConfig   `yaml:"streams"`
}

// TimescaleConfig points the mirror pipeline at its database. An empty
// ConnString disables mirroring entirely; records then live only in the WAL.
type TimescaleConfig struct {
	ConnString string `yaml:"conn_string"`
	Table      string `yaml:"table"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type WALConfig struct {
	Dir string `yaml:"dir"`
}

// ReplayConfig switches the process into replay mode. Source is the WAL
// directory of a previous recording session; the live conduit is never
// consulted while Enabled is set.
type ReplayConfig struct {
	Enabled bool   `yaml:"enabled"`
	Source  string `yaml:"source"`
}

type LoopConfig struct {
	Period time.Duration `yaml:"period"`
}

// StreamsConfig locates the ad hoc instrumentation streams written outside
// the per-cycle path.
type StreamsConfig struct {
	Dir string `yaml:"dir"`
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Policy.MaxWALSizeBytes == 0 {
		c.Policy.MaxWALSizeBytes = 10 << 30
	}
	if c.Policy.MaxQueueLen == 0 {
		c.Policy.MaxQueueLen = 100_000
	}
	if c.Policy.MaxBatchSize == 0 {
		c.Policy.MaxBatchSize = 5_000
	}
	if c.Policy.IdleSleep == 0 {
		c.Policy.IdleSleep = 5 * time.Millisecond
	}
	if c.Policy.OnQueueFull == "" {
		c.Policy.OnQueueFull = "block"
	}
	if c.Policy.OnWALFull == "" {
		c.Policy.OnWALFull = "block"
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9100"
	}
	if c.Timescale.Table == "" {
		c.Timescale.Table = "cycle_records"
	}
	if c.WAL.Dir == "" {
		c.WAL.Dir = "./data/wal"
	}
	if c.Loop.Period == 0 {
		c.Loop.Period = 20 * time.Millisecond
	}
	if c.Streams.Dir == "" {
		c.Streams.Dir = "./data/streams"
	}

	if !c.Replay.Enabled {
		c.Conduit.ApplyDefaults()
	}
}

func (c *Config) validate() error {
	if c.Replay.Enabled {
		if c.Replay.Source == "" {
			return fmt.Errorf("replay.source is required when replay is enabled")
		}
	} else if err := c.Conduit.Validate(); err != nil {
		return fmt.Errorf("conduit config: %w", err)
	}
	if c.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr is required")
	}
	if c.WAL.Dir == "" {
		return fmt.Errorf("wal.dir is required")
	}
	if c.Loop.Period <= 0 {
		return fmt.Errorf("loop.period must be positive")
	}
	return nil
}
