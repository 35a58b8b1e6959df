// Package taxonomy buckets weekly issues into the year/month tree rendered by
// the site's link directory.
//
// The calendar is synthetic: every block of 52 issues is one year starting at
// 2018, and every run of 4 issues inside a year is one "month". That gives 13
// months per year. The layout of the published data file depends on this
// scheme, so it is kept exactly as is.
package taxonomy

const (
	BaseYear        = 2018
	EntriesPerYear  = 52
	EntriesPerMonth = 4

	// DefaultIcon is the Font Awesome class shown next to each year.
	DefaultIcon = "fa-lightbulb-o"
)

// LinkEntry is one rendered issue link. Field order is the key order of the data file.
type LinkEntry struct {
	Title       string `yaml:"title"`
	Logo        string `yaml:"logo"`
	URL         string `yaml:"url"`
	Description string `yaml:"description"`
}

// MonthNode groups the links of one synthetic month.
type MonthNode struct {
	Term  string      `yaml:"term"`
	Links []LinkEntry `yaml:"links"`
}

// TaxonomyNode is one year of the tree.
type TaxonomyNode struct {
	Taxonomy string      `yaml:"taxonomy"`
	Icon     string      `yaml:"icon"`
	List     []MonthNode `yaml:"list"`
}

// Taxonomy is the top-level value of the data file, newest year first.
type Taxonomy []TaxonomyNode

// Links counts the links across every year and month.
func (t Taxonomy) Links() int {
	n := 0
	for _, year := range t {
		for _, month := range year.List {
			n += len(month.Links)
		}
	}
	return n
}

// Months counts the month nodes across every year.
func (t Taxonomy) Months() int {
	n := 0
	for _, year := range t {
		n += len(year.List)
	}
	return n
}

// YearOf returns the synthetic year of issue n (n >= 1).
func YearOf(n int) int {
	return BaseYear + (n-1)/EntriesPerYear
}

// MonthIndexOf returns the synthetic month (1..13) of issue n (n >= 1).
func MonthIndexOf(n int) int {
	return ((n-1)%EntriesPerYear)/EntriesPerMonth + 1
}
