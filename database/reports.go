package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"report-agent/report"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// SaveReport persists one finished artifact. The caller assigns the ID.
func (s *PostgresStore) SaveReport(ctx context.Context, reportID uuid.UUID, userPrompt string, rep *report.Report) error {
	sectionsJSON, err := json.Marshal(rep.Sections)
	if err != nil {
		return fmt.Errorf("failed to marshal report sections: %w", err)
	}

	const query = `
        INSERT INTO reports (id, user_prompt, outline, sections, chart_artifact, validated, warnings, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
    `
	_, err = s.DB.ExecContext(ctx, query,
		reportID,
		userPrompt,
		pq.Array(rep.Outline),
		string(sectionsJSON),
		rep.ChartArtifact,
		rep.Validated,
		pq.Array(rep.Warnings),
	)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

// GetReport loads a stored artifact by ID. Returns sql.ErrNoRows when the
// report does not exist.
func (s *PostgresStore) GetReport(ctx context.Context, reportID uuid.UUID) (*report.Report, error) {
	const query = `
        SELECT id, outline, sections, chart_artifact, validated, warnings
        FROM reports WHERE id = $1
    `

	var (
		id           uuid.UUID
		outline      []string
		sectionsJSON []byte
		chart        string
		validated    bool
		warnings     []string
	)
	err := s.DB.QueryRowContext(ctx, query, reportID).Scan(
		&id, pq.Array(&outline), &sectionsJSON, &chart, &validated, pq.Array(&warnings))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to fetch report %s: %w", reportID, err)
	}

	sections := make(map[string]string)
	if len(sectionsJSON) > 0 {
		if err := json.Unmarshal(sectionsJSON, &sections); err != nil {
			return nil, fmt.Errorf("failed to decode report sections: %w", err)
		}
	}

	return &report.Report{
		ID:            id.String(),
		Outline:       outline,
		Sections:      sections,
		ChartArtifact: chart,
		Validated:     validated,
		Warnings:      warnings,
	}, nil
}

// ListReports returns recent report IDs and prompts, newest first.
func (s *PostgresStore) ListReports(ctx context.Context, limit int) ([]ReportSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
        SELECT id, user_prompt, validated, created_at::TEXT
        FROM reports ORDER BY created_at DESC LIMIT $1
    `
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var summaries []ReportSummary
	for rows.Next() {
		var sum ReportSummary
		if err := rows.Scan(&sum.ID, &sum.UserPrompt, &sum.Validated, &sum.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report summary: %w", err)
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// ReportSummary is the list view of a stored report.
type ReportSummary struct {
	ID         uuid.UUID `json:"id"`
	UserPrompt string    `json:"userPrompt"`
	Validated  bool      `json:"validated"`
	CreatedAt  string    `json:"createdAt"`
}
