package handlers

import (
	"errors"
	"net/http"

	apperrors "report-agent/errors"
	"report-agent/llmclient"
	"report-agent/report"
	"report-agent/web/types"
	"report-agent/workflow"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondWithError logs the technical error and returns a user-friendly body.
func respondWithError(c *gin.Context, statusCode int, technicalError error, kind, userMessage string, logger *zap.Logger, fields ...zap.Field) {
	if logger != nil {
		fields = append(fields, zap.Error(technicalError))
		logger.Error("Request failed", fields...)
	}
	c.JSON(statusCode, types.ErrorResponse{ErrorKind: kind, Message: userMessage})
}

// respondWithClientError returns a client error without logging; validation
// failures are expected traffic.
func respondWithClientError(c *gin.Context, statusCode int, kind, userMessage string) {
	c.JSON(statusCode, types.ErrorResponse{ErrorKind: kind, Message: userMessage})
}

// respondForGenerationError maps workflow failures onto actionable client
// messages. Key problems and context overflow are configuration issues the
// caller can fix; everything else is a server fault.
func respondForGenerationError(c *gin.Context, err error, logger *zap.Logger) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		respondWithClientError(c, http.StatusBadRequest, types.ErrorKindInput, err.Error())

	case errors.Is(err, apperrors.ErrKeyNotFound):
		respondWithError(c, http.StatusUnauthorized, err, types.ErrorKindKey,
			"No API key is configured for the generation backend. Set LLM_API_KEY and retry.", logger)

	case errors.Is(err, apperrors.ErrKeyInvalid):
		respondWithError(c, http.StatusUnauthorized, err, types.ErrorKindKey,
			"The configured generation API key was rejected. Check LLM_API_KEY and retry.", logger)

	case errors.Is(err, llmclient.ErrContextWindowExceeded):
		respondWithError(c, http.StatusRequestEntityTooLarge, err, types.ErrorKindContext,
			"The combined source material exceeds the model's context window. Remove some papers or data files, or raise TOKEN_CEILING on a larger model.", logger)

	default:
		var valErr *report.ValidationError
		if errors.As(err, &valErr) {
			respondWithError(c, http.StatusBadGateway, err, types.ErrorKindValidation,
				"The model produced output that could not be validated into a report. Retry the request.", logger)
			return
		}
		var genErr *workflow.GenerationFailure
		if errors.As(err, &genErr) {
			respondWithError(c, http.StatusInternalServerError, err, types.ErrorKindGeneration,
				"Report generation failed at stage "+string(genErr.Stage)+". Retry the request.", logger,
				zap.String("stage", string(genErr.Stage)))
			return
		}
		respondWithError(c, http.StatusInternalServerError, err, types.ErrorKindInternal,
			"An unexpected error occurred while generating the report.", logger)
	}
}
