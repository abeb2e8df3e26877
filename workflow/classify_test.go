package workflow

import "testing"

func TestClassifyDecision(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    AgentID
	}{
		{
			name:    "visualization",
			content: "The next step is visualization of the outcome data.",
			want:    AgentVisualization,
		},
		{
			name:    "code",
			content: "We should write code to compute the statistics.",
			want:    AgentCode,
		},
		{
			name:    "searcher",
			content: "A searcher pass over the papers is needed.",
			want:    AgentSearcher,
		},
		{
			name:    "report",
			content: "Time to draft the report.",
			want:    AgentReport,
		},
		{
			name:    "case_insensitive",
			content: "Next: VISUALIZATION.",
			want:    AgentVisualization,
		},
		{
			name:    "priority_order_wins_on_ambiguity",
			content: "Write code to prepare the visualization for the report.",
			want:    AgentVisualization,
		},
		{
			name:    "code_beats_searcher",
			content: "The searcher found papers; now run analysis code.",
			want:    AgentCode,
		},
		{
			name:    "no_match_falls_back_to_review",
			content: "Everything looks complete to me.",
			want:    AgentReview,
		},
		{
			name:    "empty",
			content: "",
			want:    AgentReview,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyDecision(tt.content); got != tt.want {
				t.Errorf("ClassifyDecision(%q) = %s, want %s", tt.content, got, tt.want)
			}
		})
	}
}

func TestClassifyRevision(t *testing.T) {
	tests := []struct {
		name     string
		critique string
		want     bool
	}{
		{name: "explicit_revision", critique: "This draft needs revision: section 2 is thin.", want: true},
		{name: "revise", critique: "Please revise the methods section.", want: true},
		{name: "rework", critique: "The discussion requires rework.", want: true},
		{name: "uppercase", critique: "REVISION REQUIRED", want: true},
		{name: "approved", critique: "Approved. The report flows logically.", want: false},
		{name: "empty", critique: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyRevision(tt.critique); got != tt.want {
				t.Errorf("ClassifyRevision(%q) = %v, want %v", tt.critique, got, tt.want)
			}
		})
	}
}
