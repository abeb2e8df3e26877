package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

type PostgresStore struct {
	DB     *sql.DB
	logger *zap.Logger
}

func NewPostgresStore(connStr string, logger *zap.Logger) (*PostgresStore, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Info("Successfully connected to the database")
	}
	return &PostgresStore{DB: db, logger: logger}, nil
}

// EnsureSchema creates the required tables if they do not already exist.
// Embeddings use pgvector; the extension must be installable by the connected
// role.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS documents (
            id UUID PRIMARY KEY,
            role TEXT NOT NULL,
            name TEXT NOT NULL DEFAULT '',
            content TEXT NOT NULL,
            created_at TIMESTAMPTZ DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS document_chunks (
            id UUID PRIMARY KEY,
            document_id UUID REFERENCES documents(id) ON DELETE CASCADE,
            seq INT NOT NULL,
            content TEXT NOT NULL,
            embedding vector(768),
            created_at TIMESTAMPTZ DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_document_chunks_document_id ON document_chunks(document_id)`,
		`CREATE TABLE IF NOT EXISTS reports (
            id UUID PRIMARY KEY,
            user_prompt TEXT NOT NULL,
            outline TEXT[] NOT NULL DEFAULT '{}'::TEXT[],
            sections JSONB NOT NULL DEFAULT '{}'::jsonb,
            chart_artifact TEXT DEFAULT '',
            validated BOOLEAN NOT NULL DEFAULT FALSE,
            warnings TEXT[] DEFAULT '{}'::TEXT[],
            created_at TIMESTAMPTZ DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at DESC)`,
	}

	for _, stmt := range stmts {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.DB.Close()
}
