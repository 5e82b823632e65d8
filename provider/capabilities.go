package provider

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed capabilities.yaml
var capabilitiesYAML []byte

// Capability describes a backend independently of its implementation: the
// configuration table the UI and CLI present is keyed by these entries.
type Capability struct {
	ID          string   `yaml:"id"`
	BaseURL     string   `yaml:"base_url"`
	RequiresKey bool     `yaml:"requires_key"`
	Models      []string `yaml:"models"`
}

// Capabilities returns the shipped capability table.
func Capabilities() ([]Capability, error) {
	var out []Capability
	if err := yaml.Unmarshal(capabilitiesYAML, &out); err != nil {
		return nil, fmt.Errorf("parse capability table: %w", err)
	}
	return out, nil
}
