// Package sheets mirrors report tables into spreadsheet tabs.
package sheets

import (
	"context"
	"strings"
	"unicode/utf8"

	"obras/internal/report"
)

// MaxTitleLength is the longest tab title a spreadsheet accepts.
const MaxTitleLength = 100

// TableWriter replaces the content of the tab titled title with t, creating
// the tab when missing. It returns a reference to the written range.
type TableWriter interface {
	WriteTable(ctx context.Context, title string, t report.Table) (ref string, err error)
}

// TabTitle derives a tab title from a report file name: the extension is
// dropped, prefix is prepended and the result is cut to MaxTitleLength runes.
func TabTitle(prefix, fileName string) string {
	title := strings.TrimSuffix(fileName, ".csv")
	if prefix = strings.TrimSpace(prefix); prefix != "" {
		title = prefix + " " + title
	}
	if utf8.RuneCountInString(title) <= MaxTitleLength {
		return title
	}
	runes := []rune(title)
	return string(runes[:MaxTitleLength])
}
