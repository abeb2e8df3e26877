// Package agents wires the named workflow stages: each agent binds an
// embedded prompt to a state-read selector and a state-write applier.
package agents

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"report-agent/prompts"
	"report-agent/report"
	"report-agent/workflow"
)

// BuildRegistry registers every agent used by the linear and supervised
// topologies. The registry is immutable afterwards.
func BuildRegistry() *workflow.Registry {
	reg := workflow.NewRegistry()
	reg.MustRegister(outlineNode())
	reg.MustRegister(contentNode())
	reg.MustRegister(processNode())
	reg.MustRegister(visualizationNode())
	reg.MustRegister(searcherNode())
	reg.MustRegister(codeNode())
	reg.MustRegister(reportNode())
	reg.MustRegister(reviewNode())
	reg.MustRegister(noteNode())
	reg.MustRegister(finalizeNode())
	return reg
}

func outlineNode() *workflow.Node {
	return &workflow.Node{
		ID:     workflow.AgentOutline,
		System: prompts.OutlineAgent(),
		Select: func(s *workflow.State) map[string]string {
			return map[string]string{
				"protocol": s.Sources.Protocol,
				"prompt":   s.UserPrompt,
			}
		},
		Prompt: func(in map[string]string) string {
			return fmt.Sprintf("Protocol Excerpts:\n%s\n\nUser Prompt:\n%s\n\nCreate a report outline based on this information.",
				in["protocol"], in["prompt"])
		},
		Apply: func(s *workflow.State, raw string) error {
			titles := report.ParseOutline(raw)
			if len(titles) == 0 {
				return fmt.Errorf("outline agent returned no section titles")
			}
			s.ReportOutline = titles
			return nil
		},
	}
}

func contentNode() *workflow.Node {
	return &workflow.Node{
		ID:     workflow.AgentContent,
		System: prompts.ContentAgent(),
		Select: func(s *workflow.State) map[string]string {
			return map[string]string{
				"outline":   strings.Join(s.ReportOutline, "\n"),
				"protocol":  s.Sources.Protocol,
				"papers":    strings.Join(s.Sources.Papers, "\n\n"),
				"dataFiles": strings.Join(s.Sources.DataFiles, "\n\n"),
			}
		},
		Prompt: func(in map[string]string) string {
			return fmt.Sprintf("Report Outline:\n%s\n\nProtocol Excerpts:\n%s\n\nPaper Excerpts:\n%s\n\nData File Summaries:\n%s\n\nWrite the full report following the outline.",
				in["outline"], in["protocol"], in["papers"], in["dataFiles"])
		},
		Apply: func(s *workflow.State, raw string) error {
			// Backends occasionally return the final structured shape
			// directly; take it verbatim when they do.
			if outline, sections, err := report.DecodeStructured(raw); err == nil {
				s.ReportOutline = outline
				s.SectionContent = sections
				return nil
			}
			s.Draft = raw
			s.SectionContent = report.SplitDraft(raw, s.ReportOutline)
			return nil
		},
	}
}

func processNode() *workflow.Node {
	return &workflow.Node{
		ID:     workflow.AgentProcess,
		System: prompts.ProcessAgent(),
		Select: func(s *workflow.State) map[string]string {
			return map[string]string{
				"protocol": s.Sources.Protocol,
				"prompt":   s.UserPrompt,
				"notes":    s.ProcessNotes,
				"review":   s.QualityReview,
			}
		},
		Prompt: func(in map[string]string) string {
			return fmt.Sprintf("Protocol Excerpts:\n%s\n\nUser Prompt:\n%s\n\nProcess Notes:\n%s\n\nLatest Review:\n%s\n\nDecide the next step.",
				in["protocol"], in["prompt"], in["notes"], in["review"])
		},
		Apply: func(s *workflow.State, raw string) error {
			s.Decision = workflow.ClassifyDecision(raw)
			s.Sender = workflow.AgentProcess
			return nil
		},
	}
}

var dataURIPattern = regexp.MustCompile(`data:image/[a-zA-Z0-9.+-]+;base64,[A-Za-z0-9+/=]+`)

func visualizationNode() *workflow.Node {
	return &workflow.Node{
		ID:     workflow.AgentVisualization,
		System: prompts.VisualizationAgent(),
		Select: func(s *workflow.State) map[string]string {
			return map[string]string{
				"dataFiles": strings.Join(s.Sources.DataFiles, "\n\n"),
			}
		},
		Prompt: func(in map[string]string) string {
			return fmt.Sprintf("Data File Excerpts:\n%s\n\nCreate visualizations based on these data files.", in["dataFiles"])
		},
		Apply: func(s *workflow.State, raw string) error {
			s.ChartSpec = raw
			if uri := dataURIPattern.FindString(raw); uri != "" {
				s.ChartArtifact = uri
			}
			s.Sender = workflow.AgentVisualization
			return nil
		},
	}
}

func searcherNode() *workflow.Node {
	return &workflow.Node{
		ID:     workflow.AgentSearcher,
		System: prompts.SearcherAgent(),
		Select: func(s *workflow.State) map[string]string {
			return map[string]string{
				"papers":  strings.Join(s.Sources.Papers, "\n\n"),
				"outline": strings.Join(s.ReportOutline, "\n"),
			}
		},
		Prompt: func(in map[string]string) string {
			return fmt.Sprintf("Paper Excerpts:\n%s\n\nCurrent Report Outline:\n%s\n\nIncorporate relevant information from the papers into the report.",
				in["papers"], in["outline"])
		},
		Apply: func(s *workflow.State, raw string) error {
			s.SearchNotes = raw
			s.Sender = workflow.AgentSearcher
			return nil
		},
	}
}

func codeNode() *workflow.Node {
	return &workflow.Node{
		ID:     workflow.AgentCode,
		System: prompts.CodeAgent(),
		Select: func(s *workflow.State) map[string]string {
			return map[string]string{
				"dataFiles": strings.Join(s.Sources.DataFiles, "\n\n"),
				"prompt":    s.UserPrompt,
			}
		},
		Prompt: func(in map[string]string) string {
			return fmt.Sprintf("Data File Excerpts:\n%s\n\nResearch Question:\n%s\n\nWrite the analysis code.",
				in["dataFiles"], in["prompt"])
		},
		Apply: func(s *workflow.State, raw string) error {
			s.AnalysisCode = raw
			s.Sender = workflow.AgentCode
			return nil
		},
	}
}

func reportNode() *workflow.Node {
	return &workflow.Node{
		ID:     workflow.AgentReport,
		System: prompts.ReportAgent(),
		Select: func(s *workflow.State) map[string]string {
			return map[string]string{
				"outline":  strings.Join(s.ReportOutline, "\n"),
				"protocol": s.Sources.Protocol,
				"chart":    s.ChartSpec,
				"search":   s.SearchNotes,
				"code":     s.AnalysisCode,
				"review":   s.QualityReview,
				"prompt":   s.UserPrompt,
			}
		},
		Prompt: func(in map[string]string) string {
			return fmt.Sprintf("Report Outline:\n%s\n\nProtocol Excerpts:\n%s\n\nVisualization Notes:\n%s\n\nLiterature Findings:\n%s\n\nAnalysis Code:\n%s\n\nReviewer Feedback:\n%s\n\nResearch Question:\n%s\n\nWrite the research report.",
				in["outline"], in["protocol"], in["chart"], in["search"], in["code"], in["review"], in["prompt"])
		},
		Apply: func(s *workflow.State, raw string) error {
			s.Draft = raw
			s.SectionContent = report.SplitDraft(raw, s.ReportOutline)
			if len(s.ReportOutline) == 0 {
				titles := make([]string, 0, len(s.SectionContent))
				for title := range s.SectionContent {
					titles = append(titles, title)
				}
				sort.Strings(titles)
				s.ReportOutline = titles
			}
			s.Sender = workflow.AgentReport
			return nil
		},
	}
}

func reviewNode() *workflow.Node {
	return &workflow.Node{
		ID:     workflow.AgentReview,
		System: prompts.ReviewAgent(),
		Select: func(s *workflow.State) map[string]string {
			return map[string]string{
				"draft":    renderDraft(s),
				"protocol": s.Sources.Protocol,
			}
		},
		Prompt: func(in map[string]string) string {
			return fmt.Sprintf("Draft Report:\n%s\n\nProtocol Excerpts:\n%s\n\nReview the draft.", in["draft"], in["protocol"])
		},
		Apply: func(s *workflow.State, raw string) error {
			s.QualityReview = raw
			s.NeedsRevision = workflow.ClassifyRevision(raw)
			return nil
		},
	}
}

func noteNode() *workflow.Node {
	return &workflow.Node{
		ID:     workflow.AgentNote,
		System: prompts.NoteAgent(),
		Select: func(s *workflow.State) map[string]string {
			return map[string]string{
				"review": s.QualityReview,
				"notes":  s.ProcessNotes,
				"chart":  s.ChartSpec,
				"search": s.SearchNotes,
				"code":   s.AnalysisCode,
			}
		},
		Prompt: func(in map[string]string) string {
			return fmt.Sprintf("Latest Review:\n%s\n\nPrevious Notes:\n%s\n\nVisualization Work:\n%s\n\nLiterature Work:\n%s\n\nAnalysis Work:\n%s\n\nSummarize the process so far.",
				in["review"], in["notes"], in["chart"], in["search"], in["code"])
		},
		Apply: func(s *workflow.State, raw string) error {
			s.ProcessNotes = raw
			return nil
		},
	}
}

func finalizeNode() *workflow.Node {
	return &workflow.Node{
		ID:       workflow.AgentFinalize,
		System:   prompts.FinalizeAgent(),
		JSONMode: true,
		Select: func(s *workflow.State) map[string]string {
			return map[string]string{
				"draft":    renderDraft(s),
				"outline":  strings.Join(s.ReportOutline, "\n"),
				"protocol": s.Sources.Protocol,
			}
		},
		Prompt: func(in map[string]string) string {
			return fmt.Sprintf("Report Outline:\n%s\n\nDraft Report:\n%s\n\nProtocol Excerpts:\n%s\n\nConvert the draft to the required JSON shape.",
				in["outline"], in["draft"], in["protocol"])
		},
		Apply: func(s *workflow.State, raw string) error {
			outline, sections, err := report.DecodeStructured(raw)
			if err != nil {
				return err
			}
			s.ReportOutline = report.RepairOutline(outline, sections)
			s.SectionContent = sections
			return nil
		},
	}
}

// renderDraft yields the review/finalize view of the work so far: the latest
// full draft when one exists, otherwise the sections rendered in outline
// order.
func renderDraft(s *workflow.State) string {
	if strings.TrimSpace(s.Draft) != "" {
		return s.Draft
	}
	var b strings.Builder
	for _, title := range report.RepairOutline(s.ReportOutline, s.SectionContent) {
		content, ok := s.SectionContent[title]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "## %s\n%s\n\n", title, content)
	}
	return strings.TrimSpace(b.String())
}
