package workflow

import "strings"

// Routing decisions are derived from free-text keyword matching, which is
// inherently fragile. The fragility is isolated here so it can later be
// replaced with a constrained-enum response from the backend without touching
// the graph engine.

// decisionPriority is the fixed priority order for dispatch keywords. When
// several keywords appear in one response, the first entry here wins.
var decisionPriority = []struct {
	keyword string
	target  AgentID
}{
	{"visualization", AgentVisualization},
	{"code", AgentCode},
	{"searcher", AgentSearcher},
	{"report", AgentReport},
}

// ClassifyDecision maps the process agent's free-text output to the next
// worker. No match falls back to the review agent.
func ClassifyDecision(content string) AgentID {
	lower := strings.ToLower(content)
	for _, d := range decisionPriority {
		if strings.Contains(lower, d.keyword) {
			return d.target
		}
	}
	return AgentReview
}

// revisionKeywords mark a critique as requesting rework.
var revisionKeywords = []string{"revision", "revise", "rework"}

// ClassifyRevision reports whether a review critique asks for another pass.
func ClassifyRevision(critique string) bool {
	lower := strings.ToLower(critique)
	for _, kw := range revisionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
