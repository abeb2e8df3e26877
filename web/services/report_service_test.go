package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"report-agent/agents"
	"report-agent/budget"
	"report-agent/config"
	"report-agent/llmclient"
	"report-agent/prompts"
	"report-agent/retrieval"
	"report-agent/web/services"
	"report-agent/web/types"
	"report-agent/workflow"

	"github.com/google/uuid"
)

// recordingBackend answers scripted responses and keeps each user prompt,
// keyed by the system prompt, for assertions on what each agent saw.
type recordingBackend struct {
	responses map[string]string
	prompts   map[string]string
}

func (r *recordingBackend) Chat(_ context.Context, messages []llmclient.Message, _ llmclient.ChatOptions) (string, error) {
	var system, user string
	for _, m := range messages {
		switch m.Role {
		case "system":
			system = m.Content
		case "user":
			user = m.Content
		}
	}
	if r.prompts == nil {
		r.prompts = make(map[string]string)
	}
	r.prompts[system] = user
	if resp, ok := r.responses[system]; ok {
		return resp, nil
	}
	return "unscripted", nil
}

// roleRetriever serves canned chunks per document id and records the id sets
// it was asked for.
type roleRetriever struct {
	chunks map[uuid.UUID]string
	asked  [][]uuid.UUID
	err    error
}

func (r *roleRetriever) Retrieve(_ context.Context, _ string, documentIDs []uuid.UUID, _ int) ([]retrieval.Chunk, error) {
	r.asked = append(r.asked, append([]uuid.UUID(nil), documentIDs...))
	if r.err != nil {
		return nil, r.err
	}
	var out []retrieval.Chunk
	for _, id := range documentIDs {
		if content, ok := r.chunks[id]; ok {
			out = append(out, retrieval.Chunk{DocumentID: id, Content: content, Score: 0.9})
		}
	}
	return out, nil
}

func newService(backend workflow.Completer, retriever retrieval.Retriever) *services.ReportService {
	cfg := &config.Config{
		Topology:      config.TopologyLinear,
		TokenCeiling:  100000,
		RevisionCap:   5,
		RetrievalTopK: 3,
		StageTimeout:  time.Minute,
		Model:         "test-model",
	}
	graph := workflow.LinearGraph(agents.BuildRegistry())
	engine := workflow.NewEngine(graph, backend, budget.New(nil, nil), cfg, nil)
	return services.NewReportService(cfg, engine, nil, retriever, nil, nil)
}

func TestGenerateResolvesDocumentIDsUnderTheirRole(t *testing.T) {
	protocolID, dataFileID := uuid.New(), uuid.New()
	retriever := &roleRetriever{chunks: map[uuid.UUID]string{
		protocolID: "Protocol excerpt about randomization.",
		dataFileID: "patients.csv summary: N=120.",
	}}
	backend := &recordingBackend{responses: map[string]string{
		prompts.OutlineAgent(): "Introduction\nResults",
		prompts.ContentAgent(): "## Introduction\nIntro.\n\n## Results\nNumbers.",
	}}
	service := newService(backend, retriever)

	rep, err := service.Generate(context.Background(), types.GenerateRequest{
		UserPrompt: "What is X?",
		Protocol:   protocolID.String(),
		Papers:     []string{"Inline paper text."},
		DataFiles:  []string{dataFileID.String()},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(rep.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", rep.Warnings)
	}

	outlinePrompt := backend.prompts[prompts.OutlineAgent()]
	if !strings.Contains(outlinePrompt, "Protocol excerpt about randomization.") {
		t.Errorf("protocol id was not resolved into the protocol source:\n%s", outlinePrompt)
	}

	contentPrompt := backend.prompts[prompts.ContentAgent()]
	dataIdx := strings.Index(contentPrompt, "Data File Summaries:")
	if dataIdx < 0 {
		t.Fatalf("content prompt missing data file section:\n%s", contentPrompt)
	}
	if !strings.Contains(contentPrompt[dataIdx:], "patients.csv summary: N=120.") {
		t.Errorf("data file id resolved outside its role:\n%s", contentPrompt)
	}
	if !strings.Contains(contentPrompt, "Inline paper text.") {
		t.Errorf("inline paper text lost:\n%s", contentPrompt)
	}

	// Each id resolves through its own single-document query.
	if len(retriever.asked) != 2 {
		t.Fatalf("retriever asked %d times, want 2: %v", len(retriever.asked), retriever.asked)
	}
	for _, ids := range retriever.asked {
		if len(ids) != 1 {
			t.Errorf("retrieval query spanned %d documents, want 1", len(ids))
		}
	}
}

func TestGenerateUnknownDocumentIDIsSoftGap(t *testing.T) {
	retriever := &roleRetriever{chunks: map[uuid.UUID]string{}}
	backend := &recordingBackend{responses: map[string]string{
		prompts.OutlineAgent(): "Overview",
		prompts.ContentAgent(): "## Overview\nText.",
	}}
	service := newService(backend, retriever)

	unknown := uuid.New()
	rep, err := service.Generate(context.Background(), types.GenerateRequest{
		UserPrompt: "What is X?",
		Protocol:   "Inline protocol.",
		Papers:     []string{unknown.String()},
	})
	if err != nil {
		t.Fatalf("unknown document id must not fail the request: %v", err)
	}
	found := false
	for _, w := range rep.Warnings {
		if strings.Contains(w, unknown.String()) {
			found = true
		}
	}
	if !found {
		t.Errorf("missing gap warning for unknown id, warnings = %v", rep.Warnings)
	}
}

func TestGenerateRetrievalFailureIsSoftGap(t *testing.T) {
	retriever := &roleRetriever{err: errors.New("vector store down")}
	backend := &recordingBackend{responses: map[string]string{
		prompts.OutlineAgent(): "Overview",
		prompts.ContentAgent(): "## Overview\nText.",
	}}
	service := newService(backend, retriever)

	rep, err := service.Generate(context.Background(), types.GenerateRequest{
		UserPrompt: "What is X?",
		Protocol:   "Inline protocol.",
		DataFiles:  []string{uuid.New().String()},
	})
	if err != nil {
		t.Fatalf("retrieval failure must not fail the request: %v", err)
	}
	if len(rep.Warnings) == 0 {
		t.Error("expected a warning for the failed retrieval")
	}
}
