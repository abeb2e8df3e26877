package prompts

import _ "embed"

// Embedded prompt files

//go:embed outline_agent.txt
var outlineAgent string

//go:embed content_agent.txt
var contentAgent string

//go:embed process_agent.txt
var processAgent string

//go:embed visualization_agent.txt
var visualizationAgent string

//go:embed searcher_agent.txt
var searcherAgent string

//go:embed code_agent.txt
var codeAgent string

//go:embed report_agent.txt
var reportAgent string

//go:embed review_agent.txt
var reviewAgent string

//go:embed note_agent.txt
var noteAgent string

//go:embed finalize_agent.txt
var finalizeAgent string

//go:embed summarize_input.txt
var summarizeInput string

func OutlineAgent() string       { return outlineAgent }
func ContentAgent() string       { return contentAgent }
func ProcessAgent() string       { return processAgent }
func VisualizationAgent() string { return visualizationAgent }
func SearcherAgent() string      { return searcherAgent }
func CodeAgent() string          { return codeAgent }
func ReportAgent() string        { return reportAgent }
func ReviewAgent() string        { return reviewAgent }
func NoteAgent() string          { return noteAgent }
func FinalizeAgent() string      { return finalizeAgent }
func SummarizeInput() string     { return summarizeInput }
