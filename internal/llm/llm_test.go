package llm

import (
	"context"
	"strings"
	"testing"
)

func TestSanitizeKeywords(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"humanoid robot, factory floor", "humanoid robot, factory floor"},
		{"• robots\n• factories", "robots, factories"},
		{"\"quoted phrase\"", "quoted phrase"},
		{"one; two; three", "one, two"},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := SanitizeKeywords(tt.in); got != tt.want {
			t.Errorf("SanitizeKeywords(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

const sampleSummary = "Anthropic released a new model today. The model is faster than before. " +
	"Pricing stays the same for existing customers. Analysts expect wide adoption. " +
	"Competitors responded within hours. Several startups announced integrations. " +
	"More details are expected next week."

func TestExtractiveBullets(t *testing.T) {
	e := NewExtractive()
	got, err := e.BulletPoints(context.Background(), sampleSummary)
	if err != nil {
		t.Fatalf("BulletPoints failed: %v", err)
	}

	lines := strings.Split(got, "\n")
	if len(lines) != e.MaxBullets {
		t.Errorf("expected %d bullet lines, got %d", e.MaxBullets, len(lines))
	}
	if lines[0] != "Anthropic released a new model today" {
		t.Errorf("unexpected first bullet: %q", lines[0])
	}
	for _, l := range lines {
		if strings.ContainsAny(l, ".!?") {
			t.Errorf("bullet should not keep terminal punctuation: %q", l)
		}
	}
}

func TestExtractiveBulletsEmptySummary(t *testing.T) {
	e := NewExtractive()
	if _, err := e.BulletPoints(context.Background(), ""); err == nil {
		t.Error("empty summary should fail")
	}
}

func TestExtractiveScriptRespectsWordBudget(t *testing.T) {
	e := NewExtractive()
	e.ScriptWords = 12

	got, err := e.Script(context.Background(), sampleSummary, "")
	if err != nil {
		t.Fatalf("Script failed: %v", err)
	}
	words := len(strings.Fields(got))
	// budget may be exceeded only by the first sentence
	if words > 20 {
		t.Errorf("script too long: %d words: %q", words, got)
	}
	if !strings.HasPrefix(got, "Anthropic released") {
		t.Errorf("script should start with the first sentence: %q", got)
	}
}

func TestExtractiveImageKeywords(t *testing.T) {
	e := NewExtractive()
	got, err := e.ImageKeywords(context.Background(), sampleSummary)
	if err != nil {
		t.Fatalf("ImageKeywords failed: %v", err)
	}
	if got != "Anthropic, released" {
		t.Errorf("unexpected keywords: %q", got)
	}
}

func TestExtractiveIntroOutro(t *testing.T) {
	e := NewExtractive()

	intro, err := e.IntroText(context.Background(), "September 20, 2025", []string{"Anthropic", "OpenAI"})
	if err != nil {
		t.Fatalf("IntroText failed: %v", err)
	}
	if !strings.Contains(intro, "September 20, 2025") || !strings.Contains(intro, "Anthropic, OpenAI") {
		t.Errorf("intro missing date or topics: %q", intro)
	}

	empty, err := e.IntroText(context.Background(), "September 20, 2025", nil)
	if err != nil {
		t.Fatalf("IntroText failed: %v", err)
	}
	if strings.Contains(empty, "Today we cover") {
		t.Errorf("zero-topic intro should not list topics: %q", empty)
	}

	outro, err := e.OutroText(context.Background())
	if err != nil {
		t.Fatalf("OutroText failed: %v", err)
	}
	if outro == "" {
		t.Error("outro should not be empty")
	}
}
