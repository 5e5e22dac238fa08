// Package config loads the run configuration for the land-use
// preprocessor. JSON and YAML files are both accepted, selected by file
// extension.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/terrafold/landprep/internal/regionpolicy"
)

// RunConfig describes one preprocessing run: the input files and the
// domain parameters both normalizers need. Fields omitted from the file
// keep their zero values and are caught by Validate where required.
type RunConfig struct {
	// Scenario is the projection scenario label attached to every row.
	Scenario string `json:"scenario" yaml:"scenario"`
	// StartYear and EndYear bound the projection time steps, inclusive.
	StartYear int `json:"start_year" yaml:"start_year"`
	EndYear   int `json:"end_year" yaml:"end_year"`
	// AggregationLevel is 1 for sub-region scale, 2 for region+sub-region.
	AggregationLevel int `json:"aggregation_level" yaml:"aggregation_level"`
	// Metric is the sub-region kind, e.g. "basin" or "aez".
	Metric string `json:"metric" yaml:"metric"`
	// PrimaryKey is the base layer's grid-id column name.
	PrimaryKey string `json:"primary_key" yaml:"primary_key"`
	// Model is the land-use model name, e.g. "gcam".
	Model string `json:"model" yaml:"model"`
	// Resolution is the base layer cell size in degrees.
	Resolution float64 `json:"resolution" yaml:"resolution"`
	// AreaFactor scales projection areas; zero selects the default
	// thousand-km²-to-km² factor.
	AreaFactor float64 `json:"area_factor,omitempty" yaml:"area_factor,omitempty"`

	// Input files.
	ProjectionFile        string `json:"projection_file" yaml:"projection_file"`
	BaseLayerFile         string `json:"base_layer_file" yaml:"base_layer_file"`
	AllocationFile        string `json:"allocation_file" yaml:"allocation_file"`
	SpatialAllocationFile string `json:"spatial_allocation_file" yaml:"spatial_allocation_file"`
	// TargetColumn is the target land-class column of both allocation files.
	TargetColumn string `json:"target_column" yaml:"target_column"`
	// RegionNamesFile maps region name to region number.
	RegionNamesFile string `json:"region_names_file" yaml:"region_names_file"`
	// RegionNamesHeader marks whether the region names file carries a
	// header row to skip.
	RegionNamesHeader bool `json:"region_names_header,omitempty" yaml:"region_names_header,omitempty"`
}

// Load reads and validates a RunConfig from a .json, .yaml, or .yml file.
func Load(path string) (*RunConfig, error) {
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &RunConfig{}
	switch ext := strings.ToLower(filepath.Ext(cleanPath)); ext {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("config file must have .json, .yaml, or .yml extension, got %q", ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *RunConfig) Validate() error {
	if c.StartYear > c.EndYear {
		return fmt.Errorf("start_year %d is after end_year %d", c.StartYear, c.EndYear)
	}
	if c.AggregationLevel != regionpolicy.LevelSubRegion && c.AggregationLevel != regionpolicy.LevelRegionSubRegion {
		return fmt.Errorf("aggregation_level must be 1 or 2, got %d", c.AggregationLevel)
	}
	if c.Resolution <= 0 {
		return fmt.Errorf("resolution must be positive, got %g", c.Resolution)
	}
	if c.Metric == "" {
		return fmt.Errorf("metric must be set")
	}
	if c.PrimaryKey == "" {
		return fmt.Errorf("primary_key must be set")
	}
	if c.TargetColumn == "" {
		return fmt.Errorf("target_column must be set")
	}
	return nil
}
