// Package retrieval supplies source excerpts to the generation workflow:
// documents are chunked, embedded, and stored; queries come back as scored
// chunks. A missing document is a gap, not an error.
package retrieval

import (
	"context"

	"github.com/google/uuid"
)

// Chunk is one retrieved slice of a source document.
type Chunk struct {
	DocumentID uuid.UUID `json:"documentId"`
	Content    string    `json:"content"`
	Score      float64   `json:"score"`
}

// Retriever answers similarity queries over ingested documents. Unknown
// document ids yield empty results, never errors; only infrastructure
// failures (database, embedding backend) surface as errors.
type Retriever interface {
	Retrieve(ctx context.Context, query string, documentIDs []uuid.UUID, topK int) ([]Chunk, error)
}
