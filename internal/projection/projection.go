// Package projection normalizes the coarse land-allocation projection
// table into index-aligned arrays: sequential 1-based metric indices,
// reference-derived region numbers, lower-cased land classes, and
// per-time-step areas in km².
package projection

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/terrafold/landprep/internal/landclass"
	"github.com/terrafold/landprep/internal/monitoring"
	"github.com/terrafold/landprep/internal/regionpolicy"
	"github.com/terrafold/landprep/internal/tabfile"
	"github.com/terrafold/landprep/internal/timestep"
)

// Column names the projection table must carry, matched case-insensitively.
const (
	landClassColumn = "landclass"
	metricIDColumn  = "metric_id"
	regionColumn    = "region"
)

// defaultAreaFactor converts the source's thousand-km² units to km².
const defaultAreaFactor = 1000

// RegionLookupError reports a projection region name absent from the
// region-number reference.
type RegionLookupError struct {
	Region string
}

func (e *RegionLookupError) Error() string {
	return fmt.Sprintf("region %q has no entry in the region number reference", e.Region)
}

// Options configures one normalization call.
type Options struct {
	StartYear int
	EndYear   int
	// Scenario is attached uniformly to every row of the result.
	Scenario string
	// RegionNumbers maps region name to region number, as read from the
	// reference file. It is never consulted when the table holds exactly
	// one distinct region valued "1".
	RegionNumbers map[string]string
	// AggregationLevel selects sub-region (1) or region+sub-region (2)
	// organization; level 2 adds the administrative-merge placeholder.
	AggregationLevel int
	// AreaFactor multiplies every area value; zero selects the default
	// thousand-km²-to-km² factor of 1000.
	AreaFactor float64
}

// Result carries the normalized projection. Every slice is row-aligned
// with the source table unless stated otherwise.
type Result struct {
	// TimeSteps are the selected year columns in header order.
	TimeSteps []int
	// Area holds one row per table row and one column per selected time
	// step, in km².
	Area *mat.Dense
	// MetricIndex is the sequential 1-based metric index per row.
	MetricIndex []int
	// MetricID is the raw, possibly non-sequential metric identifier per row.
	MetricID []int
	// LandClass is the lower-cased land-class name per row.
	LandClass []string
	// RegionNumber is the region number per row.
	RegionNumber []int
	// Regions are the sorted unique region names, including the merge
	// placeholder under region+sub-region aggregation.
	Regions []string
	// RegionNumbers are the sorted unique region numbers present,
	// including the placeholder's number under region+sub-region
	// aggregation.
	RegionNumbers []int
	// RegionMetrics holds, per region in RegionNumbers order, the sorted
	// unique metric indices observed for that region. The merge
	// placeholder contributes an empty list.
	RegionMetrics [][]int
	// Metrics are the sorted unique sequential metric indices present.
	Metrics []int
	// Scenario is the caller-supplied scenario label.
	Scenario string
}

// Normalize reads the projection table into a Result. The land-class
// vocabulary is checked against allocationClasses first; mismatches are
// logged, never fatal.
func Normalize(t *tabfile.Table, allocationClasses []string, opts Options) (*Result, error) {
	landRaw, err := t.Strings(landClassColumn)
	if err != nil {
		return nil, err
	}
	metricIDs, err := t.Ints(metricIDColumn)
	if err != nil {
		return nil, err
	}
	regions, err := t.Strings(regionColumn)
	if err != nil {
		return nil, err
	}

	landclass.CheckConstraints(allocationClasses, landRaw)

	steps := timeSteps(t, opts.StartYear, opts.EndYear)
	area, err := areaMatrix(t, steps, opts.AreaFactor)
	if err != nil {
		return nil, err
	}

	landNames := make([]string, len(landRaw))
	for i, c := range landRaw {
		landNames[i] = strings.ToLower(c)
	}

	metricIndex, metrics := sequentialMetrics(metricIDs)

	regionNumbers, err := deriveRegionNumbers(regions, opts.RegionNumbers)
	if err != nil {
		return nil, err
	}

	allRegions := sortedUniqueStrings(regions)
	allRegionNumbers := sortedUniqueInts(regionNumbers)

	policy := regionpolicy.TaiwanChina
	placeholder := policy.PlaceholderApplies(opts.AggregationLevel)
	if placeholder {
		allRegions = append(allRegions, policy.Region)
		allRegionNumbers = append(allRegionNumbers, policy.Number)
		sort.Strings(allRegions)
		sort.Ints(allRegionNumbers)
	}

	regionMetrics := groupMetricsByRegion(regionNumbers, metricIndex)

	monitoring.Infof("number of regions from projected file: %d", len(allRegionNumbers))
	monitoring.Infof("number of basins or AEZs from projected file: %d", len(metrics))

	if placeholder {
		regionMetrics = insertPlaceholder(regionMetrics, allRegions, policy.Region)
	}

	return &Result{
		TimeSteps:     steps,
		Area:          area,
		MetricIndex:   metricIndex,
		MetricID:      metricIDs,
		LandClass:     landNames,
		RegionNumber:  regionNumbers,
		Regions:       allRegions,
		RegionNumbers: allRegionNumbers,
		RegionMetrics: regionMetrics,
		Metrics:       metrics,
		Scenario:      opts.Scenario,
	}, nil
}

func timeSteps(t *tabfile.Table, start, end int) []int {
	labels := make([]string, 0, len(t.Columns()))
	for _, c := range t.Columns() {
		labels = append(labels, strings.TrimSpace(c))
	}
	return timestep.Select(labels, start, end)
}

func areaMatrix(t *tabfile.Table, steps []int, factor float64) (*mat.Dense, error) {
	if factor == 0 {
		factor = defaultAreaFactor
	}
	if len(steps) == 0 || t.Len() == 0 {
		return nil, nil
	}
	area := mat.NewDense(t.Len(), len(steps), nil)
	for j, step := range steps {
		col, err := t.Floats(strconv.Itoa(step))
		if err != nil {
			return nil, err
		}
		for i, v := range col {
			area.Set(i, j, v*factor)
		}
	}
	return area, nil
}

// sequentialMetrics maps the raw metric identifiers onto dense 1-based
// indices assigned in ascending identifier order. Downstream allocation
// uses the indices as array offsets, so they must cover 1..N with no
// gaps regardless of how sparse the raw codes are.
func sequentialMetrics(ids []int) (perRow []int, present []int) {
	distinct := sortedUniqueInts(ids)
	lookup := make(map[int]int, len(distinct))
	for i, id := range distinct {
		lookup[id] = i + 1
	}

	perRow = make([]int, len(ids))
	seen := make(map[int]struct{}, len(distinct))
	for i, id := range ids {
		ix := lookup[id]
		perRow[i] = ix
		seen[ix] = struct{}{}
	}
	for ix := range seen {
		present = append(present, ix)
	}
	sort.Ints(present)
	return perRow, present
}

// deriveRegionNumbers maps per-row region names to numbers. A table
// holding exactly one distinct region valued "1" is a single-region
// projection; every row gets region number 1 and the reference is not
// consulted at all.
func deriveRegionNumbers(regions []string, ref map[string]string) ([]int, error) {
	out := make([]int, len(regions))

	distinct := sortedUniqueStrings(regions)
	if len(distinct) == 1 && distinct[0] == "1" {
		for i := range out {
			out[i] = 1
		}
		return out, nil
	}

	cache := make(map[string]int, len(distinct))
	for i, name := range regions {
		if n, ok := cache[name]; ok {
			out[i] = n
			continue
		}
		raw, ok := ref[name]
		if !ok {
			return nil, &RegionLookupError{Region: name}
		}
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("region number reference: region %q maps to non-integer %q", name, raw)
		}
		cache[name] = n
		out[i] = n
	}
	return out, nil
}

// groupMetricsByRegion returns the sorted unique metric indices per
// region number, ordered by ascending region number.
func groupMetricsByRegion(regionNumbers, metricIndex []int) [][]int {
	byRegion := make(map[int]map[int]struct{})
	for i, r := range regionNumbers {
		set, ok := byRegion[r]
		if !ok {
			set = make(map[int]struct{})
			byRegion[r] = set
		}
		set[metricIndex[i]] = struct{}{}
	}

	numbers := make([]int, 0, len(byRegion))
	for r := range byRegion {
		numbers = append(numbers, r)
	}
	sort.Ints(numbers)

	out := make([][]int, 0, len(numbers))
	for _, r := range numbers {
		metrics := make([]int, 0, len(byRegion[r]))
		for m := range byRegion[r] {
			metrics = append(metrics, m)
		}
		sort.Ints(metrics)
		out = append(out, metrics)
	}
	return out
}

// insertPlaceholder reserves an empty metric list for the merged region
// immediately before its parent's first entry. The position is derived
// from the merged region's place in the sorted region-name list.
func insertPlaceholder(regionMetrics [][]int, allRegions []string, region string) [][]int {
	pos := -1
	for i, name := range allRegions {
		if name == region {
			pos = i - 1
			break
		}
	}
	if pos < 0 {
		pos = 0
	}
	if pos > len(regionMetrics) {
		pos = len(regionMetrics)
	}

	out := make([][]int, 0, len(regionMetrics)+1)
	out = append(out, regionMetrics[:pos]...)
	out = append(out, []int{})
	out = append(out, regionMetrics[pos:]...)
	return out
}

func sortedUniqueStrings(values []string) []string {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func sortedUniqueInts(values []int) []int {
	set := make(map[int]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}
