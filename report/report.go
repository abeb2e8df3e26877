// Package report turns raw workflow output into a strictly-typed, validated
// final artifact.
package report

import (
	"fmt"
	"regexp"
	"strings"
)

// Report is the outbound artifact: an ordered outline, section content keyed
// by title, and an optional chart as a data URI.
type Report struct {
	ID            string            `json:"id,omitempty"`
	Outline       []string          `json:"reportOutline"`
	Sections      map[string]string `json:"sectionContent"`
	ChartArtifact string            `json:"chartArtifact,omitempty"`
	Validated     bool              `json:"validated"`
	Warnings      []string          `json:"warnings,omitempty"`
}

// ValidationError means the validator could not parse or confirm the output
// shape. Raw retains the offending text for diagnostics; it is never
// silently replaced with an empty report.
type ValidationError struct {
	Raw string
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("report validation failed: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

var outlinePrefix = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)]|#+)\s*`)

// ParseOutline splits free-text outline output into ordered section titles,
// stripping bullets, numbering, and markdown heading markers.
func ParseOutline(text string) []string {
	var titles []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(text, "\n") {
		title := strings.TrimSpace(outlinePrefix.ReplaceAllString(line, ""))
		title = strings.Trim(title, "\"*")
		if title == "" || seen[title] {
			continue
		}
		seen[title] = true
		titles = append(titles, title)
	}
	return titles
}

var headingLine = regexp.MustCompile(`^#{1,3}\s+(.+?)\s*$`)

// SplitDraft cuts a markdown draft into sections by heading lines. A draft
// without headings lands whole under the first outline title, or under
// "Report" when no outline exists.
func SplitDraft(draft string, outline []string) map[string]string {
	sections := make(map[string]string)
	current := ""
	var buf []string

	flush := func() {
		if current == "" {
			return
		}
		content := strings.TrimSpace(strings.Join(buf, "\n"))
		if content != "" {
			sections[current] = content
		}
		buf = nil
	}

	var preamble []string
	for _, line := range strings.Split(draft, "\n") {
		if m := headingLine.FindStringSubmatch(line); m != nil {
			flush()
			current = strings.TrimSpace(m[1])
			continue
		}
		if current == "" {
			preamble = append(preamble, line)
			continue
		}
		buf = append(buf, line)
	}
	flush()

	if len(sections) == 0 {
		title := "Report"
		if len(outline) > 0 {
			title = outline[0]
		}
		if text := strings.TrimSpace(draft); text != "" {
			sections[title] = text
		}
		return sections
	}

	// Headless text before the first heading belongs to the first outline
	// section when one exists and is otherwise empty.
	if lead := strings.TrimSpace(strings.Join(preamble, "\n")); lead != "" && len(outline) > 0 {
		if _, taken := sections[outline[0]]; !taken {
			sections[outline[0]] = lead
		}
	}
	return sections
}
