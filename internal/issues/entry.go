// Package issues extracts weekly issue entries from the ruanyf/weekly README.
//
// An entry line has the form
//
//	- [第 <N> 期](docs/issue-<M>.md) <description>
//
// where N and M are decimal integers captured independently. N drives the
// title and the sequence number, M builds the canonical GitHub URL. Lines
// that do not match are ignored.
package issues

const (
	// IssueURLPrefix is joined with the matched docs/issue-<M>.md path.
	IssueURLPrefix = "https://github.com/ruanyf/weekly/blob/master/"

	// DefaultLogo is the logo path rendered next to every issue link.
	DefaultLogo = "/assets/images/logos/github.svg"
)

// Entry is one parsed issue line.
type Entry struct {
	Title       string
	URL         string
	Description string
	Logo        string
	Number      int
}
