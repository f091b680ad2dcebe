// Package llm generates the narration text for a roundup run: bullet
// points, per-topic scripts, image keywords, and the intro/outro copy.
// The primary implementation talks to Groq's OpenAI-compatible API; an
// extractive fallback keeps the pipeline usable without an API key.
package llm

import (
	"context"
	"regexp"
	"strings"
)

// TextGenerator produces plain-text narration material. Implementations
// may fail or return empty output; callers treat both as a per-topic
// failure.
type TextGenerator interface {
	BulletPoints(ctx context.Context, summary string) (string, error)
	Script(ctx context.Context, summary, bullets string) (string, error)
	ImageKeywords(ctx context.Context, summary string) (string, error)
	IntroText(ctx context.Context, date string, topics []string) (string, error)
	OutroText(ctx context.Context) (string, error)
}

var keywordSplitRe = regexp.MustCompile(`[,\n;/]+`)

// SanitizeKeywords normalizes generated keyword text into a short
// comma-separated string suitable for an image search: at most two
// phrases, stripped of bullet glyphs and quoting.
func SanitizeKeywords(text string) string {
	parts := keywordSplitRe.Split(text, -1)
	cleaned := make([]string, 0, 2)
	for _, p := range parts {
		p = strings.Trim(p, "•-–— \t\"'`")
		if p == "" {
			continue
		}
		cleaned = append(cleaned, p)
		if len(cleaned) == 2 {
			break
		}
	}
	return strings.Join(cleaned, ", ")
}
