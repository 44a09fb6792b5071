package production

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/latticefsm/statecore/internal/primitives"
)

// LoadYAML parses a machine configuration document. States, transitions,
// and targets come through with document order preserved since StateConfig
// keys its children and per-event transition lists with ordered maps.
// Guards, transition actions, entry/exit actions, activities, invocations,
// and delayed (after) transitions are not read from YAML at all; a host
// attaches them to the resulting config before building the tree.
func LoadYAML(data []byte) (*primitives.MachineConfig, error) {
	var cfg primitives.MachineConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse machine configuration: %w", err)
	}
	return &cfg, nil
}

// DumpYAML serializes a machine configuration back to YAML.
func DumpYAML(cfg *primitives.MachineConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}
