package issues

import (
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	ferrors "git.home.luguber.info/inful/weeklysync/internal/foundation/errors"
)

// entryPattern matches one entry per line. Groups: label, N, docs path, M, trailing text.
var entryPattern = regexp.MustCompile(`- \[(第 (\d+) 期)\]\((docs/issue-(\d+)\.md)\) ?(.*)`)

// Parse scans r for entry lines and returns them in document order.
// A document without entry lines yields an empty, non-nil slice.
func Parse(r io.Reader) ([]Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return parseBytes(data), nil
}

// ExtractFile reads the cached README at path and parses it.
func ExtractFile(path string) ([]Entry, error) {
	// #nosec G304 -- path comes from configuration, not from the fetched content.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read cached document").
			Fatal().
			WithContext("path", path).
			Build()
	}
	return parseBytes(data), nil
}

func parseBytes(data []byte) []Entry {
	entries := make([]Entry, 0)
	for _, m := range entryPattern.FindAllSubmatch(data, -1) {
		n, err := strconv.Atoi(string(m[2]))
		if err != nil || n < 1 {
			continue
		}
		entries = append(entries, Entry{
			Title:       string(m[1]),
			URL:         IssueURLPrefix + string(m[3]),
			Description: strings.TrimSpace(string(m[5])),
			Logo:        DefaultLogo,
			Number:      n,
		})
	}
	return entries
}
