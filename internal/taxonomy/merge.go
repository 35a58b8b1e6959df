package taxonomy

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Policy selects how freshly built data is combined with the existing data file.
type Policy string

const (
	// PolicyReplace discards the existing file content.
	PolicyReplace Policy = "replace"
	// PolicyMerge keeps years that are absent from the new data.
	PolicyMerge Policy = "merge"
)

// ParsePolicy normalizes a policy name. An empty value selects PolicyReplace.
func ParsePolicy(raw string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(raw))); p {
	case "":
		return PolicyReplace, nil
	case PolicyReplace, PolicyMerge:
		return p, nil
	default:
		return "", fmt.Errorf("unknown output policy %q (want replace or merge)", raw)
	}
}

// NeedsExisting reports whether Apply reads the old taxonomy.
func (p Policy) NeedsExisting() bool {
	return p == PolicyMerge
}

// Apply combines old and fresh according to the policy.
func (p Policy) Apply(old, fresh Taxonomy) Taxonomy {
	if p == PolicyMerge {
		return Merge(old, fresh)
	}
	return Replace(old, fresh)
}

// Replace returns fresh unchanged; old is ignored.
func Replace(_, fresh Taxonomy) Taxonomy {
	return fresh
}

// Merge unions old and fresh by year. A year present in fresh replaces the old
// year wholesale, months included. Years only present in old are kept. The
// result is sorted by year, newest first. Neither input is modified.
func Merge(old, fresh Taxonomy) Taxonomy {
	byYear := make(map[string]TaxonomyNode, len(old)+len(fresh))
	for _, node := range old {
		byYear[node.Taxonomy] = node
	}
	for _, node := range fresh {
		byYear[node.Taxonomy] = node
	}

	merged := make(Taxonomy, 0, len(byYear))
	for _, node := range byYear {
		merged = append(merged, cloneNode(node))
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Taxonomy > merged[j].Taxonomy
	})
	return merged
}

func cloneNode(n TaxonomyNode) TaxonomyNode {
	out := n
	if n.List == nil {
		return out
	}
	out.List = make([]MonthNode, len(n.List))
	for i, m := range n.List {
		out.List[i] = MonthNode{Term: m.Term, Links: slices.Clone(m.Links)}
	}
	return out
}
