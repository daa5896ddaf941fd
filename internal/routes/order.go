package routes

import (
	"sort"
	"strings"
)

// Specificity classes, most specific first.
const (
	rankIndex = iota
	rankStatic
	rankDynamic
	rankCatchAll
)

// SortSiblings orders records that share the parent path: index records,
// then static segments, then dynamic parameters, then catch-alls. The sort is
// stable so ties keep the traversal order.
func SortSiblings(parent string, records []*Record) {
	parent = CleanPath(parent)
	sort.SliceStable(records, func(i, j int) bool {
		return specificity(parent, records[i]) < specificity(parent, records[j])
	})
}

// Sort applies SortSiblings to every level of the table.
func Sort(records []*Record, base string) {
	base = CleanPath(base)
	SortSiblings(base, records)
	for _, r := range records {
		at := base
		if r.Path != "" {
			at = r.Path
		}
		Sort(r.Children, at)
	}
}

// specificity classifies a record by the first segment it adds below parent.
func specificity(parent string, r *Record) int {
	if r.Index || r.Path == "" {
		return rankIndex
	}
	rel := strings.TrimPrefix(strings.TrimPrefix(r.Path, parent), "/")
	seg, _, _ := strings.Cut(rel, "/")
	switch {
	case seg == "*":
		return rankCatchAll
	case strings.HasPrefix(seg, ":"):
		return rankDynamic
	default:
		return rankStatic
	}
}
