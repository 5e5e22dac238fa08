package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

const validJSON = `{
	"scenario": "ssp2",
	"start_year": 2005,
	"end_year": 2100,
	"aggregation_level": 2,
	"metric": "basin",
	"primary_key": "fid",
	"model": "gcam",
	"resolution": 0.5,
	"target_column": "landclass",
	"projection_file": "proj.csv",
	"base_layer_file": "base.csv",
	"allocation_file": "alloc.csv",
	"spatial_allocation_file": "spat_alloc.csv",
	"region_names_file": "regions.csv"
}`

const validYAML = `scenario: ssp2
start_year: 2005
end_year: 2100
aggregation_level: 1
metric: aez
primary_key: fid
model: gcam
resolution: 0.25
target_column: landclass
projection_file: proj.csv
base_layer_file: base.csv
allocation_file: alloc.csv
spatial_allocation_file: spat_alloc.csv
region_names_file: regions.csv
region_names_header: true
`

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "run.json", validJSON)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Scenario != "ssp2" || cfg.AggregationLevel != 2 || cfg.Resolution != 0.5 {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "run.yaml", validYAML)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Metric != "aez" || cfg.AggregationLevel != 1 || !cfg.RegionNamesHeader {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadUnknownExtension(t *testing.T) {
	path := writeConfig(t, "run.toml", "scenario = 'x'")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	base := func() RunConfig {
		return RunConfig{
			Scenario:         "ssp2",
			StartYear:        2005,
			EndYear:          2100,
			AggregationLevel: 2,
			Metric:           "basin",
			PrimaryKey:       "fid",
			Resolution:       0.5,
			TargetColumn:     "landclass",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*RunConfig)
		wantErr string
	}{
		{"valid", func(c *RunConfig) {}, ""},
		{"years reversed", func(c *RunConfig) { c.StartYear = 2100; c.EndYear = 2005 }, "start_year"},
		{"bad aggregation level", func(c *RunConfig) { c.AggregationLevel = 5 }, "aggregation_level"},
		{"zero resolution", func(c *RunConfig) { c.Resolution = 0 }, "resolution"},
		{"empty metric", func(c *RunConfig) { c.Metric = "" }, "metric"},
		{"empty primary key", func(c *RunConfig) { c.PrimaryKey = "" }, "primary_key"},
		{"empty target column", func(c *RunConfig) { c.TargetColumn = "" }, "target_column"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate returned unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate = %v, want error mentioning %q", err, tt.wantErr)
			}
		})
	}
}
