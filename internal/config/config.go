package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/splitbook-dev/splitbook/internal/model"
)

// Config represents the top-level group.yaml configuration.
type Config struct {
	Group        GroupConfig         `yaml:"group"`
	Participants []ParticipantConfig `yaml:"participants"`
}

// GroupConfig identifies the group and its settlement policy.
type GroupConfig struct {
	Name       string `yaml:"name"`
	Settlement string `yaml:"settlement"` // "direct" or "min-transfers"
}

// ParticipantConfig names one group member. Names double as keys in the
// expenses CSV, so they must be unique within a group.
type ParticipantConfig struct {
	Name string `yaml:"name"`
}

// Load reads a group.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config for a new group with the direct settlement policy.
func Default(groupName string, participantNames ...string) *Config {
	parts := make([]ParticipantConfig, len(participantNames))
	for i, name := range participantNames {
		parts[i] = ParticipantConfig{Name: name}
	}
	return &Config{
		Group: GroupConfig{
			Name:       groupName,
			Settlement: string(model.SettleDirect),
		},
		Participants: parts,
	}
}

// Settlement returns the configured settlement algo, defaulting to direct
// when the field is empty.
func (c *Config) Settlement() model.SettlementAlgo {
	if c.Group.Settlement == "" {
		return model.SettleDirect
	}
	return model.SettlementAlgo(c.Group.Settlement)
}
