package report

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"report-agent/workflow"
)

type structuredPayload struct {
	ReportOutline  []string          `json:"reportOutline"`
	SectionContent map[string]string `json:"sectionContent"`
}

// DecodeStructured parses the strict JSON shape
// {"reportOutline": [...], "sectionContent": {...}}. Code fences are
// stripped first since models wrap JSON in them despite instructions.
func DecodeStructured(raw string) ([]string, map[string]string, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var payload structuredPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, nil, &ValidationError{Raw: raw, Err: err}
	}
	if len(payload.ReportOutline) == 0 && len(payload.SectionContent) == 0 {
		return nil, nil, &ValidationError{Raw: raw, Err: errors.New("decoded report has no outline and no sections")}
	}
	if payload.SectionContent == nil {
		payload.SectionContent = make(map[string]string)
	}
	return payload.ReportOutline, payload.SectionContent, nil
}

// RepairOutline returns the outline with any section titles present in
// content but missing from the outline appended to the tail. This is the one
// tolerated repair; appended titles are sorted for determinism.
func RepairOutline(outline []string, sections map[string]string) []string {
	known := make(map[string]bool, len(outline))
	for _, title := range outline {
		known[title] = true
	}
	var missing []string
	for title := range sections {
		if !known[title] {
			missing = append(missing, title)
		}
	}
	sort.Strings(missing)
	repaired := make([]string, 0, len(outline)+len(missing))
	repaired = append(repaired, outline...)
	repaired = append(repaired, missing...)
	return repaired
}

// FromState runs the output-validation pass over a finished traversal and
// emits the canonical artifact. Both terminal shapes are supported: the
// structured outline plus section map the finalize agent produces, and the
// unstructured outline text plus draft of the linear topology. After this
// pass every section key appears in the outline.
func FromState(st *workflow.State) (*Report, error) {
	outline := append([]string(nil), st.ReportOutline...)
	sections := make(map[string]string, len(st.SectionContent))
	for title, content := range st.SectionContent {
		sections[title] = content
	}

	if len(sections) == 0 {
		draft := strings.TrimSpace(st.Draft)
		if draft == "" {
			return nil, &ValidationError{Raw: st.Draft, Err: errors.New("traversal produced no report content")}
		}
		if o, s, err := DecodeStructured(draft); err == nil {
			outline, sections = o, s
		} else {
			sections = SplitDraft(draft, outline)
			if len(outline) == 0 {
				for title := range sections {
					outline = append(outline, title)
				}
				sort.Strings(outline)
			}
		}
	}

	if len(outline) == 0 && len(sections) == 0 {
		return nil, &ValidationError{Raw: st.Draft, Err: errors.New("traversal produced no report content")}
	}

	return &Report{
		Outline:       RepairOutline(outline, sections),
		Sections:      sections,
		ChartArtifact: st.ChartArtifact,
		Validated:     !st.BestEffort,
		Warnings:      st.Warnings,
	}, nil
}
