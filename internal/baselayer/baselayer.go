// Package baselayer normalizes the fine-resolution spatial base layer:
// it resolves the table's column schema, derives each cell's geodetic
// area from latitude, computes the fraction of each cell actually
// covered by data, and rescales land-cover values into km².
package baselayer

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/terrafold/landprep/internal/monitoring"
	"github.com/terrafold/landprep/internal/regionpolicy"
	"github.com/terrafold/landprep/internal/tabfile"
)

// Kilometres per degree at the equator, used by the equirectangular
// cell-area approximation. Longitude degrees shrink with cos(latitude);
// latitude degrees are treated as constant.
const (
	kmPerLonDegree = 111.32
	kmPerLatDegree = 110.57
)

// Optional and convention-dependent column names, matched case-insensitively.
const (
	waterColumn        = "water"
	regionMetricColumn = "regaez" // legacy combined region+metric field
	regionIDColumn     = "region_id"
)

// Coordinate naming conventions, tried in priority order.
var coordinateConventions = [][2]string{
	{"latcoord", "loncoord"},
	{"latitude", "longitude"},
}

// Config carries the caller-fixed parameters of one normalization call.
type Config struct {
	// Resolution is the cell size in degrees.
	Resolution float64
	// AggregationLevel selects sub-region (1) or region+sub-region (2)
	// organization of the spatial units.
	AggregationLevel int
	// MetricName is the sub-region kind, e.g. "basin" or "aez"; the
	// metric column is named {MetricName}_id.
	MetricName string
	// PrimaryKey is the grid-id column name.
	PrimaryKey string
	// Model is the land-use model name; the administrative-merge fold
	// applies only to the designated model.
	Model string
}

// Result carries the normalized base layer. All slices have one entry
// per grid cell.
type Result struct {
	// LandCover holds one row per cell and one column per requested land
	// class, area-corrected to km².
	LandCover *mat.Dense
	// Water is the water area per cell, in resolution-cell fraction
	// units; all zero when the source has no water column.
	Water []float64
	Lat   []float64
	Lon   []float64
	// RegionMetric is the legacy combined region+metric value per cell,
	// or nil when the source does not carry the column. It is never
	// derived from the separate region and metric columns.
	RegionMetric []float64
	GridID       []float64
	Metric       []int
	Region       []int
	NGrids       int
	// CellArea is the geodetic area of each cell in km².
	CellArea []float64
	// CellFraction is the fraction of the cell's nominal area accounted
	// for by land cover plus water. It may exceed 1 due to data noise
	// and is not clamped.
	CellFraction []float64
}

// Normalize reads the base layer table into a Result. landClasses names
// the land-cover columns to extract; every one of them must be present.
func Normalize(t *tabfile.Table, landClasses []string, cfg Config) (*Result, error) {
	if cfg.Resolution <= 0 {
		return nil, fmt.Errorf("resolution must be positive, got %g", cfg.Resolution)
	}

	cover, err := landCoverMatrix(t, landClasses)
	if err != nil {
		return nil, err
	}

	lat, lon, err := resolveCoordinates(t)
	if err != nil {
		return nil, err
	}

	var regionMetric []float64
	if t.Has(regionMetricColumn) {
		regionMetric, err = t.Floats(regionMetricColumn)
		if err != nil {
			return nil, err
		}
	} else {
		monitoring.Warnf("combined region+metric field not represented in base layer; leaving it unset")
	}

	gridID, err := t.Floats(cfg.PrimaryKey)
	if err != nil {
		return nil, err
	}

	var water []float64
	if t.Has(waterColumn) {
		water, err = t.Floats(waterColumn)
		if err != nil {
			return nil, err
		}
	} else {
		monitoring.Warnf("water not represented in base layer; representing water as 0 percent of grid")
		water = make([]float64, len(gridID))
	}

	region, metric, err := resolveRegionMetric(t, cfg)
	if err != nil {
		return nil, err
	}

	ngrids := t.Len()

	policy := regionpolicy.TaiwanChina
	if policy.AppliesTo(cfg.Model, cfg.AggregationLevel) {
		policy.FoldCells(region)
	}

	res2 := cfg.Resolution * cfg.Resolution
	cellArea := make([]float64, ngrids)
	cellFraction := make([]float64, ngrids)
	for i := 0; i < ngrids; i++ {
		cellArea[i] = math.Cos(lat[i]*math.Pi/180) * (kmPerLonDegree * kmPerLatDegree) * res2
		cellFraction[i] = (floats.Sum(cover.RawRowView(i)) + water[i]) / res2
	}

	// Convert land cover from fraction-of-resolution-cell units to km²,
	// latitude-corrected. Must happen after the coverage fraction is
	// taken from the raw values.
	for i := 0; i < ngrids; i++ {
		floats.Scale(cellArea[i]/res2, cover.RawRowView(i))
	}

	return &Result{
		LandCover:    cover,
		Water:        water,
		Lat:          lat,
		Lon:          lon,
		RegionMetric: regionMetric,
		GridID:       gridID,
		Metric:       metric,
		Region:       region,
		NGrids:       ngrids,
		CellArea:     cellArea,
		CellFraction: cellFraction,
	}, nil
}

// landCoverMatrix extracts the requested land-cover columns into a
// cells×classes matrix. All missing columns are reported together.
func landCoverMatrix(t *tabfile.Table, landClasses []string) (*mat.Dense, error) {
	var missing []string
	for _, c := range landClasses {
		if !t.Has(c) {
			missing = append(missing, strings.ToLower(c))
		}
	}
	if len(missing) > 0 {
		return nil, &tabfile.MissingFieldError{Path: t.Path(), Fields: missing}
	}
	if len(landClasses) == 0 || t.Len() == 0 {
		return nil, fmt.Errorf("%s: no land-cover data to extract", t.Path())
	}

	cover := mat.NewDense(t.Len(), len(landClasses), nil)
	for j, c := range landClasses {
		col, err := t.Floats(c)
		if err != nil {
			return nil, err
		}
		for i, v := range col {
			cover.Set(i, j, v)
		}
	}
	return cover, nil
}

// resolveCoordinates tries each coordinate naming convention in priority
// order and returns the first pair present.
func resolveCoordinates(t *tabfile.Table) (lat, lon []float64, err error) {
	for _, conv := range coordinateConventions {
		if !t.Has(conv[0]) || !t.Has(conv[1]) {
			continue
		}
		lat, err = t.Floats(conv[0])
		if err != nil {
			return nil, nil, err
		}
		lon, err = t.Floats(conv[1])
		if err != nil {
			return nil, nil, err
		}
		return lat, lon, nil
	}
	return nil, nil, &tabfile.MissingFieldError{
		Path:   t.Path(),
		Fields: []string{"latcoord/loncoord", "latitude/longitude"},
	}
}

// resolveRegionMetric derives the per-cell region and metric arrays for
// the configured aggregation level. At sub-region scale every cell
// belongs to a single synthetic region numbered 1.
func resolveRegionMetric(t *tabfile.Table, cfg Config) (region, metric []int, err error) {
	metricColumn := strings.ToLower(cfg.MetricName) + "_id"

	switch cfg.AggregationLevel {
	case regionpolicy.LevelRegionSubRegion:
		region, err = t.Ints(regionIDColumn)
		if err != nil {
			return nil, nil, err
		}
		metric, err = t.Ints(metricColumn)
		if err != nil {
			return nil, nil, err
		}
	case regionpolicy.LevelSubRegion:
		metric, err = t.Ints(metricColumn)
		if err != nil {
			return nil, nil, err
		}
		region = make([]int, t.Len())
		for i := range region {
			region[i] = 1
		}
	default:
		return nil, nil, fmt.Errorf("unsupported aggregation level %d (want 1 or 2)", cfg.AggregationLevel)
	}
	return region, metric, nil
}
