// Package types holds the wire shapes of the report API.
package types

// GenerateRequest is the inbound body of POST /api/report. UserPrompt and
// Protocol are mandatory; papers and data files are optional source material.
// Each source field accepts either inline text or the UUID of a previously
// ingested document, resolved by retrieval under that field's role.
type GenerateRequest struct {
	UserPrompt string   `json:"userPrompt"`
	Protocol   string   `json:"protocol"`
	Papers     []string `json:"papers,omitempty"`
	DataFiles  []string `json:"dataFiles,omitempty"`
}

// GenerateResponse is the outbound success body: the validated artifact.
type GenerateResponse struct {
	ID             string            `json:"id"`
	ReportOutline  []string          `json:"reportOutline"`
	SectionContent map[string]string `json:"sectionContent"`
	ChartArtifact  string            `json:"chartArtifact,omitempty"`
	Validated      bool              `json:"validated"`
	Warnings       []string          `json:"warnings,omitempty"`
}

// ErrorResponse is the outbound failure body.
type ErrorResponse struct {
	ErrorKind string `json:"errorKind"`
	Message   string `json:"message"`
}

// Error kinds surfaced to clients.
const (
	ErrorKindInput      = "input_error"
	ErrorKindKey        = "api_key_error"
	ErrorKindContext    = "context_length_error"
	ErrorKindValidation = "validation_error"
	ErrorKindGeneration = "generation_error"
	ErrorKindNotFound   = "not_found"
	ErrorKindInternal   = "internal_error"
)

// IngestResponse acknowledges a document upload.
type IngestResponse struct {
	DocumentID string `json:"documentId"`
	Role       string `json:"role"`
	Chunks     int    `json:"chunks,omitempty"`
}
