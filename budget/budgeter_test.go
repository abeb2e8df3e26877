package budget

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubSummarizer struct {
	result string
	err    error
	calls  int
	inputs []string
}

func (s *stubSummarizer) Summarize(_ context.Context, text string, _ int) (string, error) {
	s.calls++
	s.inputs = append(s.inputs, text)
	return s.result, s.err
}

func totalTokens(inputs map[string]string) int {
	total := 0
	for _, v := range inputs {
		total += Measure(v)
	}
	return total
}

func TestFitUnderCeilingUnchanged(t *testing.T) {
	b := New(nil, nil)
	inputs := map[string]string{
		"protocol": "study design and methods",
		"prompt":   "what is the effect",
	}
	got, exhausted := b.Fit(context.Background(), inputs, 1000)
	if len(exhausted) != 0 {
		t.Fatalf("unexpected exhausted inputs: %v", exhausted)
	}
	for name, want := range inputs {
		if got[name] != want {
			t.Errorf("input %q changed: %q", name, got[name])
		}
	}
}

func TestFitDoesNotMutateCaller(t *testing.T) {
	b := New(nil, nil)
	original := strings.Repeat("data ", 200)
	inputs := map[string]string{"papers": original}
	b.Fit(context.Background(), inputs, 10)
	if inputs["papers"] != original {
		t.Fatal("Fit mutated the caller's map")
	}
}

func TestFitBudgetInvariant(t *testing.T) {
	b := New(nil, nil)
	cases := []struct {
		name    string
		inputs  map[string]string
		ceiling int
	}{
		{
			name: "two_oversized",
			inputs: map[string]string{
				"protocol": strings.Repeat("alpha ", 400),
				"papers":   strings.Repeat("beta ", 600),
			},
			ceiling: 100,
		},
		{
			name: "one_huge_one_tiny",
			inputs: map[string]string{
				"protocol": strings.Repeat("word ", 10000),
				"prompt":   "short question",
			},
			ceiling: 500,
		},
		{
			name:    "ceiling_one",
			inputs:  map[string]string{"a": "x y z", "b": "p q r"},
			ceiling: 1,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, _ := b.Fit(context.Background(), tc.inputs, tc.ceiling)
			if total := totalTokens(got); total > tc.ceiling {
				t.Errorf("total tokens %d exceeds ceiling %d", total, tc.ceiling)
			}
		})
	}
}

func TestFitIdempotent(t *testing.T) {
	b := New(nil, nil)
	inputs := map[string]string{
		"protocol":  strings.Repeat("alpha beta gamma ", 300),
		"papers":    strings.Repeat("delta epsilon ", 500),
		"dataFiles": strings.Repeat("zeta ", 100),
	}
	first, _ := b.Fit(context.Background(), inputs, 250)
	second, _ := b.Fit(context.Background(), first, 250)
	for name := range first {
		if first[name] != second[name] {
			t.Errorf("Fit not idempotent for %q", name)
		}
	}
}

func TestFitZeroCeiling(t *testing.T) {
	b := New(nil, nil)
	inputs := map[string]string{
		"protocol": "some content",
		"empty":    "",
	}
	got, exhausted := b.Fit(context.Background(), inputs, 0)
	if got["protocol"] != "" {
		t.Errorf("expected empty string for zero ceiling, got %q", got["protocol"])
	}
	if got["empty"] != "" {
		t.Errorf("zero-token input should stay untouched, got %q", got["empty"])
	}
	if len(exhausted) != 1 || exhausted[0] != "protocol" {
		t.Errorf("expected protocol flagged as exhausted, got %v", exhausted)
	}
}

func TestFitZeroTokenInputExcluded(t *testing.T) {
	b := New(nil, nil)
	inputs := map[string]string{
		"blank":    "   ",
		"protocol": strings.Repeat("word ", 100),
	}
	got, _ := b.Fit(context.Background(), inputs, 50)
	if got["blank"] != "   " {
		t.Errorf("zero-token input modified: %q", got["blank"])
	}
	if m := Measure(got["protocol"]); m > 50 {
		t.Errorf("protocol got %d tokens, full ceiling was 50", m)
	}
}

func TestFitHugeInputScenario(t *testing.T) {
	// A document of ~500k tokens against a ceiling of 1000 must come back
	// measured within the ceiling without erroring.
	b := New(nil, nil)
	inputs := map[string]string{"doc": strings.Repeat("word ", 500000)}
	got, _ := b.Fit(context.Background(), inputs, 1000)
	if m := Measure(got["doc"]); m > 1000 {
		t.Errorf("doc measured %d tokens, want <= 1000", m)
	}
}

func TestFitSummarizerPreferred(t *testing.T) {
	sum := &stubSummarizer{result: "short summary"}
	b := New(sum, nil)
	inputs := map[string]string{"papers": strings.Repeat("finding ", 1000)}
	got, _ := b.Fit(context.Background(), inputs, 100)
	if sum.calls != 1 {
		t.Fatalf("summarizer calls = %d, want 1", sum.calls)
	}
	if got["papers"] != "short summary" {
		t.Errorf("expected summarizer output, got %q", got["papers"])
	}
}

func TestFitSummarizerInputCapped(t *testing.T) {
	sum := &stubSummarizer{result: "s"}
	b := New(sum, nil)
	inputs := map[string]string{"papers": strings.Repeat("finding ", 10000)}
	b.Fit(context.Background(), inputs, 100)
	if len(sum.inputs) != 1 {
		t.Fatalf("summarizer calls = %d, want 1", len(sum.inputs))
	}
	// Input share is the full ceiling here; the summarizer must see at most
	// twice that.
	if m := Measure(sum.inputs[0]); m > 200 {
		t.Errorf("summarizer saw %d tokens, want <= 200", m)
	}
}

func TestFitSummarizerFailureFallsBack(t *testing.T) {
	sum := &stubSummarizer{err: errors.New("model offline")}
	b := New(sum, nil)
	inputs := map[string]string{"papers": strings.Repeat("finding ", 1000)}
	got, _ := b.Fit(context.Background(), inputs, 100)
	if m := Measure(got["papers"]); m > 100 {
		t.Errorf("fallback truncation produced %d tokens, want <= 100", m)
	}
	if got["papers"] == "" {
		t.Error("fallback truncation produced empty string")
	}
}

func TestFitOverlongSummaryTruncated(t *testing.T) {
	sum := &stubSummarizer{result: strings.Repeat("verbose ", 500)}
	b := New(sum, nil)
	inputs := map[string]string{"papers": strings.Repeat("finding ", 1000)}
	got, _ := b.Fit(context.Background(), inputs, 100)
	if m := Measure(got["papers"]); m > 100 {
		t.Errorf("overlong summary not re-truncated: %d tokens", m)
	}
}
