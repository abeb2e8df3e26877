package retrieval

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestChunkTextEmpty(t *testing.T) {
	if got := ChunkText("   \n ", 100); got != nil {
		t.Errorf("whitespace input produced chunks: %v", got)
	}
}

func TestChunkTextShortInputSingleChunk(t *testing.T) {
	text := "One sentence. Another sentence."
	chunks := ChunkText(text, 1000)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1: %v", len(chunks), chunks)
	}
	if !strings.Contains(chunks[0], "One sentence") || !strings.Contains(chunks[0], "Another sentence") {
		t.Errorf("chunk lost content: %q", chunks[0])
	}
}

func TestChunkTextPacksToLimit(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("This is a filler sentence with a fixed number of words in it. ")
	}
	chunks := ChunkText(b.String(), 200)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		// A chunk may exceed the limit only when a single sentence does.
		if len(chunk) > 200 && strings.Count(chunk, ".") > 1 {
			t.Errorf("chunk %d overpacked at %d chars", i, len(chunk))
		}
		if strings.TrimSpace(chunk) == "" {
			t.Errorf("chunk %d is blank", i)
		}
	}
}

func TestChunkTextPreservesAllText(t *testing.T) {
	text := "Alpha beta gamma. Delta epsilon zeta. Eta theta iota."
	chunks := ChunkText(text, 25)
	joined := strings.Join(chunks, " ")
	for _, word := range strings.Fields(text) {
		if !strings.Contains(joined, strings.Trim(word, ".")) {
			t.Errorf("word %q lost during chunking", word)
		}
	}
}

type countingRetriever struct {
	calls  int
	result []Chunk
	err    error
}

func (c *countingRetriever) Retrieve(_ context.Context, _ string, _ []uuid.UUID, _ int) ([]Chunk, error) {
	c.calls++
	return c.result, c.err
}

func TestCachedRetrieverMemoizes(t *testing.T) {
	docID := uuid.New()
	inner := &countingRetriever{result: []Chunk{{DocumentID: docID, Content: "hit", Score: 0.9}}}
	cached, err := NewCachedRetriever(inner, 8, nil)
	if err != nil {
		t.Fatalf("NewCachedRetriever: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		chunks, err := cached.Retrieve(ctx, "query", []uuid.UUID{docID}, 3)
		if err != nil {
			t.Fatalf("Retrieve: %v", err)
		}
		if len(chunks) != 1 || chunks[0].Content != "hit" {
			t.Fatalf("chunks = %v", chunks)
		}
	}
	if inner.calls != 1 {
		t.Errorf("inner called %d times, want 1", inner.calls)
	}

	// Different topK is a different key.
	if _, err := cached.Retrieve(ctx, "query", []uuid.UUID{docID}, 5); err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("inner called %d times after topK change, want 2", inner.calls)
	}
}

func TestCachedRetrieverIgnoresDocumentOrder(t *testing.T) {
	idA, idB := uuid.New(), uuid.New()
	inner := &countingRetriever{result: []Chunk{{Content: "hit"}}}
	cached, err := NewCachedRetriever(inner, 8, nil)
	if err != nil {
		t.Fatalf("NewCachedRetriever: %v", err)
	}

	ctx := context.Background()
	if _, err := cached.Retrieve(ctx, "q", []uuid.UUID{idA, idB}, 3); err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if _, err := cached.Retrieve(ctx, "q", []uuid.UUID{idB, idA}, 3); err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("inner called %d times for the same document set, want 1", inner.calls)
	}
}

func TestCachedRetrieverSkipsFailures(t *testing.T) {
	inner := &countingRetriever{err: context.DeadlineExceeded}
	cached, err := NewCachedRetriever(inner, 8, nil)
	if err != nil {
		t.Fatalf("NewCachedRetriever: %v", err)
	}

	ctx := context.Background()
	if _, err := cached.Retrieve(ctx, "q", nil, 3); err == nil {
		t.Fatal("expected error from inner retriever")
	}
	inner.err = nil
	inner.result = []Chunk{{Content: "recovered"}}
	chunks, err := cached.Retrieve(ctx, "q", nil, 3)
	if err != nil {
		t.Fatalf("Retrieve after recovery: %v", err)
	}
	if len(chunks) != 1 || chunks[0].Content != "recovered" {
		t.Errorf("failure was cached: %v", chunks)
	}
}
