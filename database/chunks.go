package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// ChunkRow is one retrievable slice of an ingested document together with its
// cosine similarity to the query embedding.
type ChunkRow struct {
	ID         uuid.UUID
	DocumentID uuid.UUID
	Content    string
	Score      float64
}

// InsertDocument stores the full document text once; chunks reference it.
func (s *PostgresStore) InsertDocument(ctx context.Context, documentID uuid.UUID, role, name, content string) error {
	const query = `
        INSERT INTO documents (id, role, name, content, created_at)
        VALUES ($1, $2, $3, $4, NOW())
        ON CONFLICT (id)
        DO UPDATE SET role = EXCLUDED.role, name = EXCLUDED.name, content = EXCLUDED.content
    `
	if _, err := s.DB.ExecContext(ctx, query, documentID, role, name, content); err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}
	return nil
}

// InsertChunk stores one embedded slice of a document.
func (s *PostgresStore) InsertChunk(ctx context.Context, documentID uuid.UUID, seq int, content string, embedding []float32) error {
	const query = `
        INSERT INTO document_chunks (id, document_id, seq, content, embedding, created_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
    `
	if _, err := s.DB.ExecContext(ctx, query, uuid.New(), documentID, seq, content, pgvector.NewVector(embedding)); err != nil {
		return fmt.Errorf("failed to insert document chunk: %w", err)
	}
	return nil
}

// DeleteChunks removes all chunks of a document, used before re-ingest.
func (s *PostgresStore) DeleteChunks(ctx context.Context, documentID uuid.UUID) error {
	const query = `DELETE FROM document_chunks WHERE document_id = $1`
	if _, err := s.DB.ExecContext(ctx, query, documentID); err != nil {
		return fmt.Errorf("failed to delete document chunks: %w", err)
	}
	return nil
}

// SearchChunks returns the topK chunks nearest to the query embedding by
// cosine distance, restricted to the given documents when any are named.
// Unknown document ids simply match nothing.
func (s *PostgresStore) SearchChunks(ctx context.Context, embedding []float32, documentIDs []uuid.UUID, topK int) ([]ChunkRow, error) {
	if topK <= 0 {
		return nil, nil
	}

	query := `
        SELECT id, document_id, content, 1 - (embedding <=> $1) AS score
        FROM document_chunks
        WHERE embedding IS NOT NULL
    `
	args := []any{pgvector.NewVector(embedding)}
	if len(documentIDs) > 0 {
		query += ` AND document_id = ANY($2)`
		ids := make([]string, len(documentIDs))
		for i, id := range documentIDs {
			ids[i] = id.String()
		}
		args = append(args, pq.Array(ids))
	}
	query += fmt.Sprintf(` ORDER BY embedding <=> $1 LIMIT %d`, topK)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search document chunks: %w", err)
	}
	defer rows.Close()

	var results []ChunkRow
	for rows.Next() {
		var row ChunkRow
		if err := rows.Scan(&row.ID, &row.DocumentID, &row.Content, &row.Score); err != nil {
			return nil, fmt.Errorf("failed to scan chunk row: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetDocumentContent returns the stored full text for a document ID.
func (s *PostgresStore) GetDocumentContent(ctx context.Context, documentID uuid.UUID) (string, error) {
	const query = `SELECT content FROM documents WHERE id = $1`

	var content string
	err := s.DB.QueryRowContext(ctx, query, documentID).Scan(&content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", sql.ErrNoRows
		}
		return "", fmt.Errorf("failed to fetch document content: %w", err)
	}
	return content, nil
}
