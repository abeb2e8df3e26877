package budget

import "strings"

// tokenRunes is the fixed chunk width of the approximating tokenizer. One
// token is a whitespace-delimited word, with words longer than tokenRunes
// counted as multiple tokens. The same scheme drives both Measure and
// Truncate so budgeting and truncation can never disagree.
const tokenRunes = 4

// Measure returns the deterministic token count for text.
func Measure(text string) int {
	total := 0
	for _, field := range strings.Fields(text) {
		runes := len([]rune(field))
		total += (runes + tokenRunes - 1) / tokenRunes
	}
	return total
}

// Truncate cuts text to at most n tokens. Cuts land on token boundaries and
// operate on runes, so a multibyte codepoint is never split. The result is
// normalized to single spaces between fields, which keeps
// Measure(Truncate(text, n)) <= n.
func Truncate(text string, n int) string {
	if n <= 0 {
		return ""
	}

	var out []string
	remaining := n
	for _, field := range strings.Fields(text) {
		runes := []rune(field)
		tokens := (len(runes) + tokenRunes - 1) / tokenRunes
		if tokens <= remaining {
			out = append(out, field)
			remaining -= tokens
			if remaining == 0 {
				break
			}
			continue
		}
		// Partial field: keep whole chunks only.
		keep := remaining * tokenRunes
		if keep > len(runes) {
			keep = len(runes)
		}
		out = append(out, string(runes[:keep]))
		remaining = 0
		break
	}
	return strings.Join(out, " ")
}
