// Package config handles configuration loading and shared data structures.
package config

import (
	"fmt"
	"os"

	"github.com/woozymasta/gcoord/internal/geo"

	"gopkg.in/yaml.v3"
)

// Config represents the root configuration file structure.
type Config struct {
	Attribution string    `yaml:"attribution,omitempty" json:"attribution,omitempty"`
	Target      geo.Datum `yaml:"target,omitempty" json:"target"`
	Layers      []Layer   `yaml:"layers" json:"layers"`
}

// Layer represents a single GeoJSON layer to fetch and convert.
type Layer struct {
	Index *int `yaml:"index,omitempty" json:"index,omitempty"`

	// defining GeoJSON directly in config.yaml
	Inline *geo.GeoJSONFeatureCollection `yaml:"geojson,omitempty" json:"-"`

	Name        string    `yaml:"name" json:"name"`
	Source      string    `yaml:"source,omitempty" json:"-"`
	Attribution string    `yaml:"attribution,omitempty" json:"attribution,omitempty"`
	Aliases     []string  `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Datum       geo.Datum `yaml:"datum" json:"source_datum"`
	Target      geo.Datum `yaml:"target,omitempty" json:"datum"`
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse decodes YAML configuration, fills layer defaults and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Target == "" {
		cfg.Target = geo.GCJ02
	}

	seen := make(map[string]bool)
	for i := range cfg.Layers {
		layer := &cfg.Layers[i]

		if layer.Name == "" {
			return nil, fmt.Errorf("layer %d: name is required", i)
		}
		if seen[layer.Name] {
			return nil, fmt.Errorf("layer %q: duplicate name", layer.Name)
		}
		seen[layer.Name] = true

		if layer.Datum == "" {
			layer.Datum = geo.WGS84
		}
		if layer.Target == "" {
			layer.Target = cfg.Target
		}
		if layer.Attribution == "" {
			layer.Attribution = cfg.Attribution
		}
	}

	return &cfg, nil
}
