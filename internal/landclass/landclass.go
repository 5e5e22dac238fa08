// Package landclass compares the land-class vocabularies of the
// allocation and projection inputs. Comparison is case-insensitive and
// purely observational: disagreements are logged, never raised, and the
// caller keeps indexing by whichever set it actually uses.
package landclass

import (
	"sort"
	"strings"

	"github.com/terrafold/landprep/internal/monitoring"
)

// CheckConstraints lower-cases both class lists and reports their set
// differences. allocationOnly holds classes present in the allocation
// file but absent from the projection data; projectionOnly holds the
// reverse. Each non-empty difference is logged as one warning. Both
// returned slices are sorted.
func CheckConstraints(allocation, projection []string) (allocationOnly, projectionOnly []string) {
	alloc := toSet(allocation)
	proj := toSet(projection)

	allocationOnly = diff(alloc, proj)
	projectionOnly = diff(proj, alloc)

	if len(allocationOnly) > 0 {
		monitoring.Warnf("land classes in allocation file but not in projected model data: %v", allocationOnly)
	}
	if len(projectionOnly) > 0 {
		monitoring.Warnf("land classes in projected model but not in allocation file: %v", projectionOnly)
	}
	return allocationOnly, projectionOnly
}

func toSet(classes []string) map[string]struct{} {
	s := make(map[string]struct{}, len(classes))
	for _, c := range classes {
		s[strings.ToLower(c)] = struct{}{}
	}
	return s
}

func diff(a, b map[string]struct{}) []string {
	var out []string
	for c := range a {
		if _, ok := b[c]; !ok {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}
