package taxonomy

import (
	"fmt"
	"sort"
	"strconv"

	"git.home.luguber.info/inful/weeklysync/internal/issues"
)

// Buckets maps year key -> month key -> entries in arrival order.
// Year keys are four-digit years, month keys are zero-padded ("01".."13").
type Buckets map[string]map[string][]issues.Entry

// YearKey formats the grouping key for issue n.
func YearKey(n int) string {
	return strconv.Itoa(YearOf(n))
}

// MonthKey formats the zero-padded grouping key for issue n.
func MonthKey(n int) string {
	return fmt.Sprintf("%02d", MonthIndexOf(n))
}

// Group partitions entries into year/month buckets. Entries need not be sorted;
// each bucket keeps the order the entries were received in.
func Group(entries []issues.Entry) Buckets {
	grouped := make(Buckets)
	for _, e := range entries {
		y, m := YearKey(e.Number), MonthKey(e.Number)
		months, ok := grouped[y]
		if !ok {
			months = make(map[string][]issues.Entry)
			grouped[y] = months
		}
		months[m] = append(months[m], e)
	}
	return grouped
}

// Build shapes buckets into the published tree: years descending, months
// descending, links in bucket order. Months without entries are not emitted.
func Build(buckets Buckets) Taxonomy {
	years := sortedKeysDesc(buckets)
	result := make(Taxonomy, 0, len(years))
	for _, year := range years {
		months := buckets[year]
		node := TaxonomyNode{
			Taxonomy: year,
			Icon:     DefaultIcon,
			List:     make([]MonthNode, 0, len(months)),
		}
		for _, month := range sortedKeysDesc(months) {
			node.List = append(node.List, MonthNode{
				Term:  monthTerm(month),
				Links: project(months[month]),
			})
		}
		result = append(result, node)
	}
	return result
}

// FromEntries groups and builds in one step.
func FromEntries(entries []issues.Entry) Taxonomy {
	return Build(Group(entries))
}

func monthTerm(key string) string {
	idx, err := strconv.Atoi(key)
	if err != nil {
		return key + "月"
	}
	return strconv.Itoa(idx) + "月"
}

func project(entries []issues.Entry) []LinkEntry {
	links := make([]LinkEntry, 0, len(entries))
	for _, e := range entries {
		links = append(links, LinkEntry{
			Title:       e.Title,
			Logo:        e.Logo,
			URL:         e.URL,
			Description: e.Description,
		})
	}
	return links
}

// sortedKeysDesc orders fixed-width numeric keys; string order equals numeric order.
func sortedKeysDesc[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys
}
