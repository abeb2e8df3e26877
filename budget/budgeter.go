package budget

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Summarizer condenses text to roughly targetTokens tokens. Implementations
// are typically another generation call; the budgeter caps what it feeds
// them, so they never see unbounded input.
type Summarizer interface {
	Summarize(ctx context.Context, text string, targetTokens int) (string, error)
}

// Budgeter guarantees the aggregate size of all text fed to a single
// generation call stays under a token ceiling, preserving as much signal as
// possible. Summarization is best-effort: when the summarizer is absent or
// fails, inputs are hard-truncated at token boundaries instead.
type Budgeter struct {
	summarizer Summarizer
	logger     *zap.Logger
}

func New(summarizer Summarizer, logger *zap.Logger) *Budgeter {
	return &Budgeter{
		summarizer: summarizer,
		logger:     logger,
	}
}

// Fit reduces inputs so their combined token count does not exceed ceiling.
// Each oversized input is cut to its proportional share of the ceiling,
// floored to an integer. The caller's map is never mutated. The second
// return value lists inputs that were reduced to nothing.
func (b *Budgeter) Fit(ctx context.Context, inputs map[string]string, ceiling int) (map[string]string, []string) {
	counts := make(map[string]int, len(inputs))
	total := 0
	for name, text := range inputs {
		c := Measure(text)
		counts[name] = c
		total += c
	}

	out := make(map[string]string, len(inputs))
	if total <= ceiling {
		for name, text := range inputs {
			out[name] = text
		}
		return out, nil
	}

	var exhausted []string
	// Deterministic iteration keeps summarizer call order stable across runs.
	names := make([]string, 0, len(inputs))
	for name := range inputs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		text := inputs[name]
		count := counts[name]
		if count == 0 {
			// Zero-token inputs stay untouched and never join the
			// redistribution denominator.
			out[name] = text
			continue
		}

		share := 0
		if ceiling > 0 {
			share = ceiling * count / total
		}
		if share <= 0 {
			out[name] = ""
			exhausted = append(exhausted, name)
			continue
		}
		if count <= share {
			out[name] = text
			continue
		}
		out[name] = b.reduce(ctx, name, text, share)
	}
	return out, exhausted
}

// reduce shrinks text to at most target tokens, trying semantic
// summarization first and falling back to hard truncation.
func (b *Budgeter) reduce(ctx context.Context, name, text string, target int) string {
	if b.summarizer != nil {
		// Cap summarizer input at twice the target so a runaway document
		// cannot blow up the summarization call itself.
		capped := Truncate(text, 2*target)
		summary, err := b.summarizer.Summarize(ctx, capped, target)
		if err == nil && summary != "" {
			if Measure(summary) <= target {
				return summary
			}
			return Truncate(summary, target)
		}
		if err != nil && b.logger != nil {
			b.logger.Warn("Summarization failed, falling back to truncation",
				zap.String("input", name),
				zap.Error(err))
		}
	}
	return Truncate(text, target)
}

// Describe reports per-input token counts, useful for debug logging at the
// request boundary.
func Describe(inputs map[string]string) string {
	names := make([]string, 0, len(inputs))
	for name := range inputs {
		names = append(names, name)
	}
	sort.Strings(names)
	desc := ""
	for i, name := range names {
		if i > 0 {
			desc += ", "
		}
		desc += fmt.Sprintf("%s=%d", name, Measure(inputs[name]))
	}
	return desc
}
