package notecontent

import (
	"regexp"
	"strings"
)

// SummaryHeader separates the note body from its generated summary.
const SummaryHeader = "\n\n## Summary\n"

// The section runs from the first header to the end of the content.
var summaryPattern = regexp.MustCompile(`\n\n## Summary\n([\s\S]*)$`)

// HasSummary reports whether content already carries a summary section.
func HasSummary(content string) bool {
	return strings.Contains(content, SummaryHeader)
}

// ApplySummary stores summary at the end of content, replacing the existing
// section if there is one.
func ApplySummary(content, summary string) string {
	if loc := summaryPattern.FindStringIndex(content); loc != nil {
		return content[:loc[0]] + SummaryHeader + summary
	}
	return content + SummaryHeader + summary
}

// SplitSummary separates the main content from the summary section.
func SplitSummary(content string) (main string, summary string, ok bool) {
	loc := summaryPattern.FindStringSubmatchIndex(content)
	if loc == nil {
		return content, "", false
	}
	return content[:loc[0]], content[loc[2]:loc[3]], true
}

// StripSummary returns content without its summary section.
func StripSummary(content string) string {
	main, _, _ := SplitSummary(content)
	return main
}
