// Package snapshot records normalization runs in a SQLite file so the
// derived coordinate system can be inspected after the fact. The store
// is purely observational; the normalizers never read from it.
package snapshot

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	_ "modernc.org/sqlite"

	"github.com/terrafold/landprep/internal/baselayer"
	"github.com/terrafold/landprep/internal/projection"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Store wraps the snapshot database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the snapshot database at path and applies any
// pending migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot db: %w", err)
	}

	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load embedded migrations: %w", err)
	}
	drv, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", drv)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare migrations: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		db.Close()
		return nil, fmt.Errorf("migration up failed: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// BeginRun records a new run and returns its id.
func (s *Store) BeginRun(scenario, model string, aggregationLevel int) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO runs (run_id, scenario, model, aggregation_level) VALUES (?, ?, ?, ?)`,
		id, scenario, model, aggregationLevel,
	)
	if err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}
	return id, nil
}

// RecordProjection stores per-time-step total areas and per-region
// metric counts for a run.
func (s *Store) RecordProjection(runID string, r *projection.Result) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for j, step := range r.TimeSteps {
		var total float64
		if r.Area != nil {
			rows, _ := r.Area.Dims()
			col := make([]float64, rows)
			mat.Col(col, j, r.Area)
			total = floats.Sum(col)
		}
		if _, err := tx.Exec(
			`INSERT INTO projection_steps (run_id, step, total_area_km2) VALUES (?, ?, ?)`,
			runID, step, total,
		); err != nil {
			return fmt.Errorf("failed to record step %d: %w", step, err)
		}
	}

	for i, number := range r.RegionNumbers {
		count := 0
		if i < len(r.RegionMetrics) {
			count = len(r.RegionMetrics[i])
		}
		if _, err := tx.Exec(
			`INSERT INTO region_metrics (run_id, region_number, metric_count) VALUES (?, ?, ?)`,
			runID, number, count,
		); err != nil {
			return fmt.Errorf("failed to record region %d: %w", number, err)
		}
	}

	return tx.Commit()
}

// RecordCells stores the base-layer summary for a run.
func (s *Store) RecordCells(runID string, r *baselayer.Result) error {
	var meanFraction float64
	if len(r.CellFraction) > 0 {
		meanFraction = floats.Sum(r.CellFraction) / float64(len(r.CellFraction))
	}
	var totalLand float64
	if r.LandCover != nil {
		totalLand = mat.Sum(r.LandCover)
	}

	_, err := s.db.Exec(
		`INSERT INTO cell_summary (run_id, ngrids, mean_cell_fraction, total_land_km2) VALUES (?, ?, ?, ?)`,
		runID, r.NGrids, meanFraction, totalLand,
	)
	if err != nil {
		return fmt.Errorf("failed to record cell summary: %w", err)
	}
	return nil
}

// StepTotals returns the recorded per-step totals for a run, keyed by step.
func (s *Store) StepTotals(runID string) (map[int]float64, error) {
	rows, err := s.db.Query(
		`SELECT step, total_area_km2 FROM projection_steps WHERE run_id = ?`, runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int]float64)
	for rows.Next() {
		var step int
		var total float64
		if err := rows.Scan(&step, &total); err != nil {
			return nil, err
		}
		out[step] = total
	}
	return out, rows.Err()
}
