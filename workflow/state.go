package workflow

// AgentID names one stage of the generation workflow. The zero value is the
// terminal marker.
type AgentID string

// Terminal is the absorbing state signaling traversal completion.
const Terminal AgentID = ""

// Agent identifiers for the two supported topologies.
const (
	AgentOutline       AgentID = "outline_agent"
	AgentContent       AgentID = "content_agent"
	AgentProcess       AgentID = "process_agent"
	AgentVisualization AgentID = "visualization_agent"
	AgentSearcher      AgentID = "searcher_agent"
	AgentCode          AgentID = "code_agent"
	AgentReport        AgentID = "report_agent"
	AgentReview        AgentID = "quality_review_agent"
	AgentNote          AgentID = "note_agent"
	AgentFinalize      AgentID = "finalize_agent"
)

// Sources holds the role-keyed document content for one request. Roles are
// fixed: exactly one protocol, zero or more papers, zero or more data files.
type Sources struct {
	Protocol  string
	Papers    []string
	DataFiles []string
}

// Message is one entry of the traversal's audit log: the formatted user
// prompt an agent was invoked with and its normalized response.
type Message struct {
	Agent    AgentID
	Prompt   string
	Response string
}

// State is the single mutable record threaded through the graph. It is
// created fresh per request, exclusively owned by one traversal, and
// discarded (or persisted as an opaque artifact) once Terminal is reached.
type State struct {
	UserPrompt string
	Sources    Sources

	// History is append-only, one entry per agent invocation, in causal
	// order. Input pruning is the budgeter's job and never touches it.
	History []Message

	ReportOutline  []string
	SectionContent map[string]string
	Draft          string

	QualityReview string
	NeedsRevision bool

	// Decision is where the process agent wants to go next; Sender is the
	// node the review agent returns to when revision is needed.
	Decision AgentID
	Current  AgentID
	Sender   AgentID

	ChartSpec     string
	ChartArtifact string
	SearchNotes   string
	AnalysisCode  string
	ProcessNotes  string

	Revisions int

	// BestEffort marks a traversal that stopped at the revision cap or the
	// iteration guard instead of a validated finish.
	BestEffort bool
	Warnings   []string
}

// NewState builds the initial state for one traversal.
func NewState(userPrompt string, sources Sources) *State {
	return &State{
		UserPrompt:     userPrompt,
		Sources:        sources,
		SectionContent: make(map[string]string),
	}
}

// AddWarning records a non-fatal condition for the final result.
func (s *State) AddWarning(w string) {
	s.Warnings = append(s.Warnings, w)
}

// SetSection stores content under a section title.
func (s *State) SetSection(title, content string) {
	if s.SectionContent == nil {
		s.SectionContent = make(map[string]string)
	}
	s.SectionContent[title] = content
}
