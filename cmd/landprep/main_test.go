package main

import (
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrafold/landprep/internal/config"
	"github.com/terrafold/landprep/internal/monitoring"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunEndToEnd(t *testing.T) {
	monitoring.SetLogger(nil)
	t.Cleanup(func() { monitoring.SetLogger(log.Printf) })

	dir := t.TempDir()

	cfg := &config.RunConfig{
		Scenario:         "ssp2",
		StartYear:        2005,
		EndYear:          2100,
		AggregationLevel: 2,
		Metric:           "basin",
		PrimaryKey:       "fid",
		Model:            "gcam",
		Resolution:       0.5,
		TargetColumn:     "landclass",
		AllocationFile: writeFixture(t, dir, "alloc.csv",
			"landclass,crops,forest\nCrops,1,0\nForest,0,1\n"),
		SpatialAllocationFile: writeFixture(t, dir, "spat_alloc.csv",
			"landclass,crops,forest\nCrops,1,0\nForest,0,1\n"),
		RegionNamesFile: writeFixture(t, dir, "regions.csv",
			"USA,1\nCanada,2\n"),
		ProjectionFile: writeFixture(t, dir, "proj.csv",
			"region,landclass,metric_id,2005,2050\nUSA,Crops,3,1,2\nUSA,Forest,7,3,4\nCanada,Crops,3,5,6\n"),
		BaseLayerFile: writeFixture(t, dir, "base.csv",
			"fid,latcoord,loncoord,crops,forest,water,region_id,basin_id\n"+
				"1,30,-100,0.1,0.1,0.02,1,3\n"+
				"2,50,-80,0.2,0.05,0.01,2,7\n"+
				"3,23,121,0.1,0.1,0,30,3\n"),
	}
	require.NoError(t, cfg.Validate())

	snapshotDB := filepath.Join(dir, "snapshot.db")
	reportPath := filepath.Join(dir, "report.html")
	plotPath := filepath.Join(dir, "fractions.png")

	require.NoError(t, run(cfg, snapshotDB, reportPath, plotPath))

	for _, out := range []string{snapshotDB, reportPath, plotPath} {
		info, err := os.Stat(out)
		require.NoError(t, err, "expected %s to be written", out)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestRunMissingInput(t *testing.T) {
	monitoring.SetLogger(nil)
	t.Cleanup(func() { monitoring.SetLogger(log.Printf) })

	dir := t.TempDir()
	cfg := &config.RunConfig{
		Scenario:         "ssp2",
		StartYear:        2005,
		EndYear:          2100,
		AggregationLevel: 2,
		Metric:           "basin",
		PrimaryKey:       "fid",
		Model:            "gcam",
		Resolution:       0.5,
		TargetColumn:     "landclass",
		AllocationFile:   filepath.Join(dir, "does-not-exist.csv"),
	}

	require.Error(t, run(cfg, "", "", ""))
}
