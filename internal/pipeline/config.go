package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config selects which post-pass sanity checks cmd/lumenc runs after SSA
// construction. Parsed from a YAML file given via -pipeline, matching the
// teacher's preference for explicit config structs over ad hoc flags for
// anything beyond a single on/off switch.
type Config struct {
	VerifyDominance bool `yaml:"verifyDominance"`
}

// DefaultConfig is used when the CLI is given no -pipeline flag.
func DefaultConfig() *Config {
	return &Config{VerifyDominance: true}
}

// LoadConfig reads and parses a pipeline YAML config from path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pipeline: failed to read config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("pipeline: failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}
