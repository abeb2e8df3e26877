// Package format renders finished reports for human consumption.
package format

import (
	"fmt"
	"strings"

	"report-agent/report"

	"github.com/gomarkdown/markdown"
)

// ToMarkdown renders a report as a markdown document: title-less outline
// order, one second-level heading per section. Sections missing content are
// skipped rather than rendered empty.
func ToMarkdown(rep *report.Report) string {
	var b strings.Builder
	for _, title := range rep.Outline {
		content, ok := rep.Sections[title]
		if !ok || strings.TrimSpace(content) == "" {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", title, strings.TrimSpace(content))
	}
	if rep.ChartArtifact != "" {
		fmt.Fprintf(&b, "![chart](%s)\n", rep.ChartArtifact)
	}
	return strings.TrimSpace(b.String())
}

// ToHTML renders the markdown form of a report as a standalone HTML fragment.
func ToHTML(rep *report.Report) string {
	md := []byte(ToMarkdown(rep))
	return string(markdown.ToHTML(md, nil, nil))
}
