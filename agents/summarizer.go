package agents

import (
	"context"
	"fmt"
	"strings"

	"report-agent/config"
	"report-agent/llmclient"
	"report-agent/prompts"

	"go.uber.org/zap"
)

// LLMSummarizer condenses oversized inputs through the summarization model.
// The budgeter caps what it is fed, so the call itself cannot blow the
// context window.
type LLMSummarizer struct {
	client *llmclient.Client
	cfg    *config.Config
	logger *zap.Logger
}

func NewSummarizer(client *llmclient.Client, cfg *config.Config, logger *zap.Logger) *LLMSummarizer {
	return &LLMSummarizer{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// Summarize implements budget.Summarizer.
func (s *LLMSummarizer) Summarize(ctx context.Context, text string, targetTokens int) (string, error) {
	messages := []llmclient.Message{
		{Role: "system", Content: prompts.SummarizeInput()},
		{Role: "user", Content: fmt.Sprintf("Please summarize the following text in about %d tokens:\n\n%s", targetTokens, text)},
	}
	summary, err := s.client.ChatHost(ctx, s.cfg.SummarizationLLMHost, messages, llmclient.ChatOptions{})
	if err != nil {
		return "", fmt.Errorf("summarization call failed: %w", err)
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return "", fmt.Errorf("summarization model returned an empty summary")
	}
	if s.logger != nil {
		s.logger.Debug("Summarized oversized input",
			zap.Int("target_tokens", targetTokens),
			zap.Int("summary_chars", len(summary)))
	}
	return summary, nil
}
