package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/reactorsim/internal/reactor"
)

const (
	DefaultDataDir     = ".reactorsim"
	DefaultSlotBackend = "file"
	DefaultSlotFile    = "savefile.dat"
	DefaultLogLevel    = "info"
	DefaultDt          = 0.1
	DefaultTFinal      = 5.0
	DefaultVolume      = 10.0
)

type Config struct {
	DataDir     string        `yaml:"data_dir"`
	SlotBackend string        `yaml:"slot_backend"`
	SlotPath    string        `yaml:"slot_path"`
	LogLevel    string        `yaml:"log_level"`
	Network     NetworkConfig `yaml:"network"`
}

type NetworkConfig struct {
	Volumes VolumeConfig `yaml:"volumes"`
	Flows   FlowConfig   `yaml:"flows"`
	Inputs  InputConfig  `yaml:"inputs"`
	Initial InitConfig   `yaml:"initial"`
	Dt      float64      `yaml:"dt"`
	TFinal  float64      `yaml:"t_final"`
}

type VolumeConfig struct {
	V1 float64 `yaml:"v1"`
	V2 float64 `yaml:"v2"`
	V3 float64 `yaml:"v3"`
}

type FlowConfig struct {
	Q01 float64 `yaml:"q01"`
	Q03 float64 `yaml:"q03"`
	Q12 float64 `yaml:"q12"`
	Q23 float64 `yaml:"q23"`
	Q31 float64 `yaml:"q31"`
	Q33 float64 `yaml:"q33"`
}

type InputConfig struct {
	Put1 float64 `yaml:"put1"`
	Put2 float64 `yaml:"put2"`
}

type InitConfig struct {
	C1 float64 `yaml:"c1"`
	C2 float64 `yaml:"c2"`
	C3 float64 `yaml:"c3"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir:     DefaultDataDir,
		SlotBackend: DefaultSlotBackend,
		SlotPath:    DefaultSlotFile,
		LogLevel:    DefaultLogLevel,
		Network:     *GetPreset("balanced"),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params converts the YAML network description into core parameters. It
// does not validate them.
func (n *NetworkConfig) Params() reactor.Params {
	return reactor.Params{
		Volumes: reactor.Volumes{V1: n.Volumes.V1, V2: n.Volumes.V2, V3: n.Volumes.V3},
		Flows: reactor.Flows{
			Q01: n.Flows.Q01, Q03: n.Flows.Q03, Q12: n.Flows.Q12,
			Q23: n.Flows.Q23, Q31: n.Flows.Q31, Q33: n.Flows.Q33,
		},
		Inputs:  reactor.Inputs{Put1: n.Inputs.Put1, Put2: n.Inputs.Put2},
		Initial: reactor.Initial{C1: n.Initial.C1, C2: n.Initial.C2, C3: n.Initial.C3},
		DeltaT:  n.Dt,
		TFinal:  n.TFinal,
	}
}

func FromParams(p reactor.Params) NetworkConfig {
	return NetworkConfig{
		Volumes: VolumeConfig{V1: p.Volumes.V1, V2: p.Volumes.V2, V3: p.Volumes.V3},
		Flows: FlowConfig{
			Q01: p.Flows.Q01, Q03: p.Flows.Q03, Q12: p.Flows.Q12,
			Q23: p.Flows.Q23, Q31: p.Flows.Q31, Q33: p.Flows.Q33,
		},
		Inputs:  InputConfig{Put1: p.Inputs.Put1, Put2: p.Inputs.Put2},
		Initial: InitConfig{C1: p.Initial.C1, C2: p.Initial.C2, C3: p.Initial.C3},
		Dt:      p.DeltaT,
		TFinal:  p.TFinal,
	}
}
