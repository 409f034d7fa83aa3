package config

import "sort"

// Presets are named networks that satisfy every flow balance.
var Presets = map[string]*NetworkConfig{
	"balanced": {
		Volumes: VolumeConfig{V1: DefaultVolume, V2: DefaultVolume, V3: DefaultVolume},
		Flows:   FlowConfig{Q01: 2, Q03: 2, Q12: 6, Q23: 6, Q31: 4, Q33: 4},
		Inputs:  InputConfig{Put1: 1.0, Put2: 0.5},
		Dt:      DefaultDt, TFinal: DefaultTFinal,
	},
	"cascade": {
		Volumes: VolumeConfig{V1: 5, V2: 20, V3: 50},
		Flows:   FlowConfig{Q01: 3, Q03: 3, Q12: 8, Q23: 8, Q31: 5, Q33: 6},
		Inputs:  InputConfig{Put1: 2.0, Put2: 0.2},
		Dt:      0.2, TFinal: 20.0,
	},
	"flushed": {
		Volumes: VolumeConfig{V1: 8, V2: 8, V3: 8},
		Flows:   FlowConfig{Q01: 1.5, Q03: 1.5, Q12: 4, Q23: 4, Q31: 2.5, Q33: 3},
		Inputs:  InputConfig{Put1: 0.1, Put2: 0.1},
		Initial: InitConfig{C1: 5, C2: 3, C3: 1},
		Dt:      0.1, TFinal: 10.0,
	},
}

func GetPreset(name string) *NetworkConfig {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
