package snapshot

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/terrafold/landprep/internal/baselayer"
	"github.com/terrafold/landprep/internal/projection"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "snapshot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenAppliesMigrations(t *testing.T) {
	store := openTestStore(t)

	// The runs table must exist after Open.
	id, err := store.BeginRun("ssp2", "gcam", 2)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening an already-migrated file must not fail.
	store, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestRecordProjectionRoundTrip(t *testing.T) {
	store := openTestStore(t)

	runID, err := store.BeginRun("ssp2", "gcam", 2)
	require.NoError(t, err)

	r := &projection.Result{
		TimeSteps:     []int{2005, 2010},
		Area:          mat.NewDense(2, 2, []float64{100, 200, 300, 400}),
		RegionNumbers: []int{1, 2, 30},
		RegionMetrics: [][]int{{}, {1, 3}, {1, 2}},
		Scenario:      "ssp2",
	}
	require.NoError(t, store.RecordProjection(runID, r))

	totals, err := store.StepTotals(runID)
	require.NoError(t, err)
	assert.Equal(t, map[int]float64{2005: 400, 2010: 600}, totals)
}

func TestRecordCells(t *testing.T) {
	store := openTestStore(t)

	runID, err := store.BeginRun("ssp2", "gcam", 1)
	require.NoError(t, err)

	r := &baselayer.Result{
		NGrids:       3,
		CellFraction: []float64{1.0, 0.8, 1.2},
		LandCover:    mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6}),
	}
	require.NoError(t, store.RecordCells(runID, r))
}

func TestRecordProjectionNilArea(t *testing.T) {
	store := openTestStore(t)

	runID, err := store.BeginRun("ssp2", "gcam", 1)
	require.NoError(t, err)

	// No selected steps, no area matrix.
	r := &projection.Result{Scenario: "ssp2"}
	require.NoError(t, store.RecordProjection(runID, r))

	totals, err := store.StepTotals(runID)
	require.NoError(t, err)
	assert.Empty(t, totals)
}
