package retrieval

import (
	"context"
	"fmt"

	"report-agent/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Embedder turns text into a vector. llmclient.Client satisfies it.
type Embedder interface {
	Embed(ctx context.Context, doc string) ([]float32, error)
}

// VectorStore is the pgvector-backed Retriever: ingest chunks documents along
// sentence boundaries and embeds each chunk; Retrieve embeds the query and
// runs a cosine nearest-neighbor search.
type VectorStore struct {
	store      *database.PostgresStore
	embedder   Embedder
	logger     *zap.Logger
	chunkChars int
}

func NewVectorStore(store *database.PostgresStore, embedder Embedder, logger *zap.Logger) *VectorStore {
	return &VectorStore{
		store:      store,
		embedder:   embedder,
		logger:     logger,
		chunkChars: defaultChunkChars,
	}
}

// Ingest stores a document and its embedded chunks, replacing any previous
// chunks for the same ID. Chunks whose embedding fails are skipped with a
// warning so one bad chunk never loses the document.
func (v *VectorStore) Ingest(ctx context.Context, documentID uuid.UUID, role, name, content string) error {
	if err := v.store.InsertDocument(ctx, documentID, role, name, content); err != nil {
		return err
	}
	if err := v.store.DeleteChunks(ctx, documentID); err != nil {
		return err
	}

	chunks := ChunkText(content, v.chunkChars)
	stored := 0
	for seq, chunk := range chunks {
		embedding, err := v.embedder.Embed(ctx, chunk)
		if err != nil {
			if v.logger != nil {
				v.logger.Warn("Failed to embed document chunk, skipping",
					zap.String("document_id", documentID.String()),
					zap.Int("seq", seq),
					zap.Error(err))
			}
			continue
		}
		if err := v.store.InsertChunk(ctx, documentID, seq, chunk, embedding); err != nil {
			return err
		}
		stored++
	}

	if v.logger != nil {
		v.logger.Info("Document ingested",
			zap.String("document_id", documentID.String()),
			zap.String("role", role),
			zap.Int("chunks", stored))
	}
	if stored == 0 && len(chunks) > 0 {
		return fmt.Errorf("no chunks of document %s could be embedded", documentID)
	}
	return nil
}

// Retrieve implements Retriever. Unknown ids match nothing and come back as
// an empty slice.
func (v *VectorStore) Retrieve(ctx context.Context, query string, documentIDs []uuid.UUID, topK int) ([]Chunk, error) {
	embedding, err := v.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed retrieval query: %w", err)
	}

	rows, err := v.store.SearchChunks(ctx, embedding, documentIDs, topK)
	if err != nil {
		return nil, err
	}

	chunks := make([]Chunk, 0, len(rows))
	for _, row := range rows {
		chunks = append(chunks, Chunk{
			DocumentID: row.DocumentID,
			Content:    row.Content,
			Score:      row.Score,
		})
	}
	return chunks, nil
}
