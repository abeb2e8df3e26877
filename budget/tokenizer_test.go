package budget

import (
	"strings"
	"testing"
)

func TestMeasure(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty", text: "", want: 0},
		{name: "whitespace_only", text: "  \n\t ", want: 0},
		{name: "short_words", text: "one two", want: 2},
		{name: "long_word_splits", text: "abcdefgh", want: 2},
		{name: "partial_chunk_rounds_up", text: "abcdefghij", want: 3},
		{name: "mixed", text: "a abcdefgh xyz", want: 4},
		{name: "multibyte_counts_runes", text: "日本語テスト", want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Measure(tt.text); got != tt.want {
				t.Errorf("Measure(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestMeasureDeterministic(t *testing.T) {
	text := strings.Repeat("lorem ipsum dolor sit amet ", 100)
	first := Measure(text)
	for i := 0; i < 5; i++ {
		if got := Measure(text); got != first {
			t.Fatalf("Measure unstable: %d then %d", first, got)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		text string
		n    int
		want string
	}{
		{name: "zero_budget", text: "hello world", n: 0, want: ""},
		{name: "negative_budget", text: "hello", n: -1, want: ""},
		{name: "fits", text: "one two", n: 5, want: "one two"},
		{name: "cuts_whole_words", text: "one two three", n: 2, want: "one two"},
		{name: "cuts_inside_long_word", text: "abcdefghij", n: 2, want: "abcdefgh"},
		{name: "normalizes_whitespace", text: "a   b\n\nc", n: 3, want: "a b c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.text, tt.n); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.text, tt.n, got, tt.want)
			}
		})
	}
}

func TestTruncateRespectsBudget(t *testing.T) {
	texts := []string{
		strings.Repeat("word ", 500),
		strings.Repeat("abcdefghijklmnop ", 200),
		strings.Repeat("日本語のとても長い単語 ", 100),
	}
	budgets := []int{1, 3, 10, 100, 1000}
	for _, text := range texts {
		for _, n := range budgets {
			got := Truncate(text, n)
			if m := Measure(got); m > n {
				t.Errorf("Measure(Truncate(text, %d)) = %d, exceeds budget", n, m)
			}
		}
	}
}

func TestTruncateNeverSplitsRunes(t *testing.T) {
	text := strings.Repeat("héllo wörld 日本語テキスト ", 50)
	for n := 1; n < 40; n++ {
		got := Truncate(text, n)
		if !utf8Valid(got) {
			t.Fatalf("Truncate produced invalid UTF-8 at n=%d", n)
		}
	}
}

func utf8Valid(s string) bool {
	for _, r := range s {
		if r == '�' {
			return false
		}
	}
	return true
}
