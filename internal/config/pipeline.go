package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ComponentSpec names one pipeline component. In YAML it is either a bare
// name or a mapping with a name key plus string options.
type ComponentSpec struct {
	Name    string
	Options map[string]string
}

func (c *ComponentSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		c.Name = strings.TrimSpace(node.Value)
		return nil
	case yaml.MappingNode:
		raw := map[string]string{}
		if err := node.Decode(&raw); err != nil {
			return fmt.Errorf("line %d: component options must be strings: %w", node.Line, err)
		}
		c.Name = strings.TrimSpace(raw["name"])
		delete(raw, "name")
		if len(raw) > 0 {
			c.Options = raw
		}
		return nil
	default:
		return fmt.Errorf("line %d: component must be a name or a mapping", node.Line)
	}
}

func (c ComponentSpec) Option(key, val string) string {
	if v, ok := c.Options[key]; ok && v != "" {
		return v
	}
	return val
}

type PipelineConfig struct {
	Components []ComponentSpec `yaml:"components"`
}

func DefaultPipeline() PipelineConfig {
	return PipelineConfig{Components: []ComponentSpec{
		{Name: "nlu.public_transport_cs"},
		{Name: "dst.rule"},
	}}
}

// LoadPipeline reads a pipeline file; an empty path selects DefaultPipeline.
func LoadPipeline(path string) (PipelineConfig, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultPipeline(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return PipelineConfig{}, fmt.Errorf("read pipeline config: %w", err)
	}
	return ParsePipeline(data)
}

func ParsePipeline(data []byte) (PipelineConfig, error) {
	var cfg PipelineConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return PipelineConfig{}, fmt.Errorf("decode pipeline config: %w", err)
	}
	if len(cfg.Components) == 0 {
		return PipelineConfig{}, fmt.Errorf("pipeline config lists no components")
	}
	for i, c := range cfg.Components {
		if c.Name == "" {
			return PipelineConfig{}, fmt.Errorf("pipeline component %d has no name", i)
		}
	}
	return cfg, nil
}
