// Package handlers binds the report API routes to the service layer.
package handlers

import (
	"database/sql"
	"errors"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	apperrors "report-agent/errors"
	"report-agent/retrieval"
	"report-agent/web/format"
	"report-agent/web/services"
	"report-agent/web/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReportHandler struct {
	service *services.ReportService
	logger  *zap.Logger
}

func NewReportHandler(service *services.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{service: service, logger: logger}
}

// Generate handles POST /api/report.
func (h *ReportHandler) Generate(c *gin.Context) {
	var req types.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithClientError(c, http.StatusBadRequest, types.ErrorKindInput, "request body must be valid JSON")
		return
	}

	rep, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		respondForGenerationError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, types.GenerateResponse{
		ID:             rep.ID,
		ReportOutline:  rep.Outline,
		SectionContent: rep.Sections,
		ChartArtifact:  rep.ChartArtifact,
		Validated:      rep.Validated,
		Warnings:       rep.Warnings,
	})
}

// Get handles GET /api/report/:id.
func (h *ReportHandler) Get(c *gin.Context) {
	id, ok := h.reportID(c)
	if !ok {
		return
	}

	rep, err := h.service.GetReport(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondWithClientError(c, http.StatusNotFound, types.ErrorKindNotFound, "no report with that id")
			return
		}
		respondWithError(c, http.StatusInternalServerError, err, types.ErrorKindInternal,
			"Failed to load the report.", h.logger, zap.String("report_id", id.String()))
		return
	}

	c.JSON(http.StatusOK, types.GenerateResponse{
		ID:             rep.ID,
		ReportOutline:  rep.Outline,
		SectionContent: rep.Sections,
		ChartArtifact:  rep.ChartArtifact,
		Validated:      rep.Validated,
		Warnings:       rep.Warnings,
	})
}

// Preview handles GET /api/report/:id/html, the rendered read-only view.
func (h *ReportHandler) Preview(c *gin.Context) {
	id, ok := h.reportID(c)
	if !ok {
		return
	}

	rep, err := h.service.GetReport(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondWithClientError(c, http.StatusNotFound, types.ErrorKindNotFound, "no report with that id")
			return
		}
		respondWithError(c, http.StatusInternalServerError, err, types.ErrorKindInternal,
			"Failed to load the report.", h.logger, zap.String("report_id", id.String()))
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(format.ToHTML(rep)))
}

// List handles GET /api/reports.
func (h *ReportHandler) List(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	summaries, err := h.service.ListReports(c.Request.Context(), limit)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, err, types.ErrorKindInternal,
			"Failed to list reports.", h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": summaries})
}

// Ingest handles POST /api/documents: either a JSON body with inline content
// or a multipart PDF upload under the "file" field.
func (h *ReportHandler) Ingest(c *gin.Context) {
	role := c.DefaultPostForm("role", c.Query("role"))

	if header, err := c.FormFile("file"); err == nil {
		h.ingestPDF(c, role, header)
		return
	}

	var body struct {
		Role    string `json:"role"`
		Name    string `json:"name"`
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondWithClientError(c, http.StatusBadRequest, types.ErrorKindInput,
			"provide either a multipart file upload or a JSON body with role and content")
		return
	}

	documentID, err := h.service.IngestDocument(c.Request.Context(), body.Role, body.Name, body.Content)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidInput) {
			respondWithClientError(c, http.StatusBadRequest, types.ErrorKindInput, err.Error())
			return
		}
		respondWithError(c, http.StatusInternalServerError, err, types.ErrorKindInternal,
			"Failed to ingest the document.", h.logger)
		return
	}

	c.JSON(http.StatusOK, types.IngestResponse{DocumentID: documentID.String(), Role: body.Role})
}

func (h *ReportHandler) ingestPDF(c *gin.Context, role string, header *multipart.FileHeader) {
	tmpPath := filepath.Join(os.TempDir(), uuid.New().String()+".pdf")
	if err := c.SaveUploadedFile(header, tmpPath); err != nil {
		respondWithError(c, http.StatusInternalServerError, err, types.ErrorKindInternal,
			"Failed to store the uploaded file.", h.logger)
		return
	}
	defer os.Remove(tmpPath)

	text, err := retrieval.ExtractPDFText(tmpPath, h.logger)
	if err != nil {
		respondWithClientError(c, http.StatusBadRequest, types.ErrorKindInput,
			"the uploaded PDF contains no extractable text")
		return
	}

	documentID, err := h.service.IngestDocument(c.Request.Context(), role, header.Filename, text)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidInput) {
			respondWithClientError(c, http.StatusBadRequest, types.ErrorKindInput, err.Error())
			return
		}
		respondWithError(c, http.StatusInternalServerError, err, types.ErrorKindInternal,
			"Failed to ingest the document.", h.logger)
		return
	}

	c.JSON(http.StatusOK, types.IngestResponse{DocumentID: documentID.String(), Role: role})
}

func (h *ReportHandler) reportID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondWithClientError(c, http.StatusBadRequest, types.ErrorKindInput, "report id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}
