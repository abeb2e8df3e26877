package retrieval

import (
	"strings"

	"github.com/jdkato/prose/v2"
)

const (
	// Embedding models in this stack handle about 512 tokens; chunks stay
	// well under that with a margin for tokenizer drift.
	defaultChunkChars = 1000
)

// ChunkText splits a document into embedding-sized pieces along sentence
// boundaries. Sentences are packed greedily up to maxChars; a single
// over-long sentence becomes its own chunk rather than being split
// mid-sentence.
func ChunkText(text string, maxChars int) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if maxChars <= 0 {
		maxChars = defaultChunkChars
	}

	sentences := splitSentences(trimmed)

	var chunks []string
	var builder strings.Builder
	flush := func() {
		if chunk := strings.TrimSpace(builder.String()); chunk != "" {
			chunks = append(chunks, chunk)
		}
		builder.Reset()
	}

	for _, sentence := range sentences {
		if builder.Len() > 0 && builder.Len()+len(sentence)+1 > maxChars {
			flush()
		}
		if builder.Len() > 0 {
			builder.WriteByte(' ')
		}
		builder.WriteString(sentence)
	}
	flush()

	return chunks
}

// splitSentences segments text with prose; on failure the whole text is one
// sentence and greedy packing still bounds chunk size at the paragraph level.
func splitSentences(text string) []string {
	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithExtraction(false))
	if err != nil {
		return strings.Split(text, "\n\n")
	}

	var sentences []string
	for _, sent := range doc.Sentences() {
		if s := strings.TrimSpace(sent.Text); s != "" {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) == 0 {
		return []string{text}
	}
	return sentences
}
