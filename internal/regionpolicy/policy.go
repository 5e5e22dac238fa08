// Package regionpolicy names the administrative-merge convention shared
// by the projection and base-layer normalizers. The upstream accounting
// assigns a dependent territory its own region number while downstream
// allocation folds it into a parent region; both normalizers consult the
// same policy so the two remaps cannot drift apart.
package regionpolicy

import "strings"

// Aggregation levels for spatial units.
const (
	// LevelSubRegion organizes spatial units by sub-region (basin or
	// AEZ) alone, under a single synthetic region.
	LevelSubRegion = 1
	// LevelRegionSubRegion organizes spatial units by region and
	// sub-region jointly.
	LevelRegionSubRegion = 2
)

// MergePolicy describes one sub-region folded into a parent region for
// computation. The merged region appears in aggregate outputs as a
// placeholder with no allocation targets of its own, and its grid cells
// are re-labelled with the parent's region number.
type MergePolicy struct {
	Region       string // region name as it appears in reference data
	Number       int    // region number the upstream source assigns
	ParentNumber int    // region number the cells are folded into
	Model        string // land-use model the fold applies to
}

// TaiwanChina is the one merge currently in effect: GCAM books Taiwan as
// region 30 but its land is allocated as part of China (region 11).
var TaiwanChina = MergePolicy{
	Region:       "Taiwan",
	Number:       30,
	ParentNumber: 11,
	Model:        "gcam",
}

// PlaceholderApplies reports whether aggregate region lists should carry
// the merged region as an empty placeholder. The placeholder is a
// property of the region+sub-region aggregation, independent of model.
func (p MergePolicy) PlaceholderApplies(aggLevel int) bool {
	return aggLevel == LevelRegionSubRegion
}

// AppliesTo reports whether grid-cell region numbers should be folded
// into the parent. The fold is specific to the designated model's
// allocation procedure and to region+sub-region aggregation.
func (p MergePolicy) AppliesTo(model string, aggLevel int) bool {
	return strings.EqualFold(model, p.Model) && aggLevel == LevelRegionSubRegion
}

// FoldCells rewrites every occurrence of the merged region number with
// the parent region number, returning the count of cells changed. The
// slice is a derived array owned by the caller; it is modified in place.
func (p MergePolicy) FoldCells(regions []int) int {
	n := 0
	for i, r := range regions {
		if r == p.Number {
			regions[i] = p.ParentNumber
			n++
		}
	}
	return n
}
