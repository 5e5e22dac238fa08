// Command landprep reconciles a coarse land-allocation projection and a
// fine-resolution spatial base layer into one coordinate system, then
// optionally records a run snapshot and writes diagnostics.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/terrafold/landprep/internal/baselayer"
	"github.com/terrafold/landprep/internal/config"
	"github.com/terrafold/landprep/internal/diag"
	"github.com/terrafold/landprep/internal/monitoring"
	"github.com/terrafold/landprep/internal/projection"
	"github.com/terrafold/landprep/internal/snapshot"
	"github.com/terrafold/landprep/internal/tabfile"
)

func main() {
	configPath := flag.String("config", "", "path to run configuration (.json or .yaml)")
	snapshotDB := flag.String("snapshot-db", "", "optional sqlite file recording run summaries")
	reportPath := flag.String("report", "", "optional HTML report of projected area by class")
	fractionPlot := flag.String("fraction-plot", "", "optional PNG histogram of cell coverage fractions")
	quiet := flag.Bool("quiet", false, "suppress informational and warning logs")
	flag.Parse()

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "landprep: -config is required")
		flag.Usage()
		os.Exit(2)
	}
	if *quiet {
		monitoring.SetLogger(nil)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("landprep: %v", err)
	}

	if err := run(cfg, *snapshotDB, *reportPath, *fractionPlot); err != nil {
		log.Fatalf("landprep: %v", err)
	}
}

func run(cfg *config.RunConfig, snapshotDB, reportPath, fractionPlot string) error {
	alloc, err := tabfile.ReadAllocation(cfg.AllocationFile, cfg.TargetColumn, ',')
	if err != nil {
		return fmt.Errorf("allocation file: %w", err)
	}
	spatialAlloc, err := tabfile.ReadAllocation(cfg.SpatialAllocationFile, cfg.TargetColumn, ',')
	if err != nil {
		return fmt.Errorf("spatial allocation file: %w", err)
	}
	regionRef, err := tabfile.ReadKeyValue(cfg.RegionNamesFile, cfg.RegionNamesHeader, ',', false)
	if err != nil {
		return fmt.Errorf("region names file: %w", err)
	}

	projTable, err := tabfile.ReadTable(cfg.ProjectionFile, ',')
	if err != nil {
		return fmt.Errorf("projection file: %w", err)
	}
	proj, err := projection.Normalize(projTable, alloc.TargetClasses, projection.Options{
		StartYear:        cfg.StartYear,
		EndYear:          cfg.EndYear,
		Scenario:         cfg.Scenario,
		RegionNumbers:    regionRef,
		AggregationLevel: cfg.AggregationLevel,
		AreaFactor:       cfg.AreaFactor,
	})
	if err != nil {
		return fmt.Errorf("projection normalization: %w", err)
	}

	baseTable, err := tabfile.ReadTable(cfg.BaseLayerFile, ',')
	if err != nil {
		return fmt.Errorf("base layer file: %w", err)
	}
	base, err := baselayer.Normalize(baseTable, spatialAlloc.TargetClasses, baselayer.Config{
		Resolution:       cfg.Resolution,
		AggregationLevel: cfg.AggregationLevel,
		MetricName:       cfg.Metric,
		PrimaryKey:       cfg.PrimaryKey,
		Model:            cfg.Model,
	})
	if err != nil {
		return fmt.Errorf("base layer normalization: %w", err)
	}

	monitoring.Infof("normalized %d projection rows and %d grid cells", len(proj.RegionNumber), base.NGrids)

	if snapshotDB != "" {
		store, err := snapshot.Open(snapshotDB)
		if err != nil {
			return err
		}
		defer store.Close()

		runID, err := store.BeginRun(cfg.Scenario, cfg.Model, cfg.AggregationLevel)
		if err != nil {
			return err
		}
		if err := store.RecordProjection(runID, proj); err != nil {
			return err
		}
		if err := store.RecordCells(runID, base); err != nil {
			return err
		}
		monitoring.Infof("recorded run %s in %s", runID, snapshotDB)
	}

	if reportPath != "" {
		if err := diag.WriteAreaReport(reportPath, proj); err != nil {
			return fmt.Errorf("area report: %w", err)
		}
	}
	if fractionPlot != "" {
		if err := diag.PlotCellFractionHist(fractionPlot, base.CellFraction); err != nil {
			return fmt.Errorf("fraction plot: %w", err)
		}
	}

	return nil
}
