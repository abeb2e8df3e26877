// Package services holds the request-scoped orchestration between the web
// surface and the generation workflow.
package services

import (
	"context"
	"fmt"
	"strings"

	"report-agent/config"
	"report-agent/database"
	apperrors "report-agent/errors"
	"report-agent/report"
	"report-agent/retrieval"
	"report-agent/web/types"
	"report-agent/workflow"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReportService validates requests, enriches them with retrieved context,
// drives one workflow traversal, and persists the artifact.
type ReportService struct {
	cfg       *config.Config
	engine    *workflow.Engine
	store     *database.PostgresStore
	retriever retrieval.Retriever
	ingester  *retrieval.VectorStore
	logger    *zap.Logger
}

func NewReportService(cfg *config.Config, engine *workflow.Engine, store *database.PostgresStore, retriever retrieval.Retriever, ingester *retrieval.VectorStore, logger *zap.Logger) *ReportService {
	return &ReportService{
		cfg:       cfg,
		engine:    engine,
		store:     store,
		retriever: retriever,
		ingester:  ingester,
		logger:    logger,
	}
}

// Generate runs the full pipeline for one request. Invalid input fails before
// any agent is invoked.
func (rs *ReportService) Generate(ctx context.Context, req types.GenerateRequest) (*report.Report, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	st := workflow.NewState(req.UserPrompt, workflow.Sources{})
	rs.buildSources(ctx, req, st)

	st, err := rs.engine.Run(ctx, st)
	if err != nil {
		return nil, err
	}

	rep, err := report.FromState(st)
	if err != nil {
		return nil, err
	}
	rep.ID = uuid.New().String()

	rs.persist(ctx, rep, req.UserPrompt)
	return rep, nil
}

// GetReport loads a persisted artifact.
func (rs *ReportService) GetReport(ctx context.Context, reportID uuid.UUID) (*report.Report, error) {
	return rs.store.GetReport(ctx, reportID)
}

// ListReports returns recent artifacts, newest first.
func (rs *ReportService) ListReports(ctx context.Context, limit int) ([]database.ReportSummary, error) {
	return rs.store.ListReports(ctx, limit)
}

// IngestDocument chunks, embeds, and stores one source document for later
// retrieval. Role must be one of protocol, paper, or data_file.
func (rs *ReportService) IngestDocument(ctx context.Context, role, name, content string) (uuid.UUID, error) {
	switch role {
	case "protocol", "paper", "data_file":
	default:
		return uuid.Nil, apperrors.WrapErrorf(apperrors.ErrInvalidInput, "unknown document role %q", role)
	}
	if strings.TrimSpace(content) == "" {
		return uuid.Nil, apperrors.WrapError(apperrors.ErrInvalidInput, "document content is empty")
	}
	if rs.ingester == nil {
		return uuid.Nil, fmt.Errorf("document ingestion is not configured")
	}

	documentID := uuid.New()
	if err := rs.ingester.Ingest(ctx, documentID, role, name, content); err != nil {
		return uuid.Nil, err
	}
	return documentID, nil
}

func validateRequest(req types.GenerateRequest) error {
	if strings.TrimSpace(req.UserPrompt) == "" {
		return apperrors.WrapError(apperrors.ErrInvalidInput, "userPrompt is required")
	}
	if strings.TrimSpace(req.Protocol) == "" {
		return apperrors.WrapError(apperrors.ErrInvalidInput, "protocol is required")
	}
	return nil
}

// buildSources fills the state's sources from the request. Each field is
// taken as inline text unless it parses as a document UUID, in which case
// retrieval resolves it under that field's role. Resolution failures are
// soft: the traversal proceeds on whatever resolved, with a warning.
func (rs *ReportService) buildSources(ctx context.Context, req types.GenerateRequest, st *workflow.State) {
	st.Sources.Protocol = rs.resolveSource(ctx, st, req.Protocol)
	for _, paper := range req.Papers {
		if text := rs.resolveSource(ctx, st, paper); text != "" {
			st.Sources.Papers = append(st.Sources.Papers, text)
		}
	}
	for _, dataFile := range req.DataFiles {
		if text := rs.resolveSource(ctx, st, dataFile); text != "" {
			st.Sources.DataFiles = append(st.Sources.DataFiles, text)
		}
	}
}

// resolveSource returns the value itself for inline text, or the topK chunks
// of the referenced document relevant to the user prompt for a UUID.
func (rs *ReportService) resolveSource(ctx context.Context, st *workflow.State, value string) string {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return value
	}

	if rs.retriever == nil {
		st.AddWarning(fmt.Sprintf("document %s could not be resolved, retrieval is not configured", id))
		return ""
	}

	chunks, err := rs.retriever.Retrieve(ctx, st.UserPrompt, []uuid.UUID{id}, rs.cfg.RetrievalTopK)
	if err != nil {
		if rs.logger != nil {
			rs.logger.Warn("Document retrieval failed, continuing without it",
				zap.String("document_id", id.String()),
				zap.Error(err))
		}
		st.AddWarning(fmt.Sprintf("retrieval of document %s failed, report generated without it", id))
		return ""
	}
	if len(chunks) == 0 {
		st.AddWarning(fmt.Sprintf("document %s matched no ingested content", id))
		return ""
	}

	excerpts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		excerpts = append(excerpts, chunk.Content)
	}
	return strings.Join(excerpts, "\n\n")
}

// persist stores the artifact; storage failure downgrades to a warning since
// the caller already holds the full report.
func (rs *ReportService) persist(ctx context.Context, rep *report.Report, userPrompt string) {
	if rs.store == nil {
		return
	}
	id, err := uuid.Parse(rep.ID)
	if err != nil {
		id = uuid.New()
		rep.ID = id.String()
	}
	if err := rs.store.SaveReport(ctx, id, userPrompt, rep); err != nil {
		if rs.logger != nil {
			rs.logger.Warn("Failed to persist report", zap.String("report_id", rep.ID), zap.Error(err))
		}
		rep.Warnings = append(rep.Warnings, "report could not be persisted")
	}
}
