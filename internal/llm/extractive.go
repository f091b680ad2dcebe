package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Extractive is the no-API fallback generator: instead of calling a
// model it lifts sentences straight out of the collected summary. Output
// quality is rough but the pipeline stays runnable offline.
type Extractive struct {
	MaxBullets  int
	ScriptWords int
}

// NewExtractive creates the fallback generator with sane limits.
func NewExtractive() *Extractive {
	return &Extractive{
		MaxBullets:  6,
		ScriptWords: 300,
	}
}

var sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]`)

func sentences(text string) []string {
	matches := sentenceRe.FindAllString(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		m = strings.TrimSpace(m)
		if m != "" {
			out = append(out, m)
		}
	}
	return out
}

// BulletPoints returns the leading sentences, one per line.
func (e *Extractive) BulletPoints(_ context.Context, summary string) (string, error) {
	sents := sentences(summary)
	if len(sents) == 0 {
		return "", fmt.Errorf("extractive bullets: no sentences in summary")
	}
	if len(sents) > e.MaxBullets {
		sents = sents[:e.MaxBullets]
	}
	lines := make([]string, len(sents))
	for i, s := range sents {
		lines[i] = strings.TrimRight(s, ".!?")
	}
	return strings.Join(lines, "\n"), nil
}

// Script returns the summary's leading sentences up to the word budget.
func (e *Extractive) Script(_ context.Context, summary, _ string) (string, error) {
	sents := sentences(summary)
	if len(sents) == 0 {
		return "", fmt.Errorf("extractive script: no sentences in summary")
	}

	var b strings.Builder
	words := 0
	for _, s := range sents {
		n := len(strings.Fields(s))
		if words > 0 && words+n > e.ScriptWords {
			break
		}
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(s)
		words += n
	}
	return b.String(), nil
}

// ImageKeywords picks the two longest words of the summary's first
// sentence as a crude keyword phrase.
func (e *Extractive) ImageKeywords(_ context.Context, summary string) (string, error) {
	sents := sentences(summary)
	if len(sents) == 0 {
		return "", fmt.Errorf("extractive keywords: no sentences in summary")
	}

	fields := strings.Fields(sents[0])
	best := make([]string, 0, 2)
	for _, f := range fields {
		f = strings.Trim(f, ".,;:!?\"'")
		if len(f) < 5 {
			continue
		}
		best = append(best, f)
		if len(best) == 2 {
			break
		}
	}
	if len(best) == 0 {
		return SanitizeKeywords(sents[0]), nil
	}
	return SanitizeKeywords(strings.Join(best, ", ")), nil
}

// IntroText returns a static greeting naming the covered topics.
func (e *Extractive) IntroText(_ context.Context, date string, topics []string) (string, error) {
	if len(topics) == 0 {
		return fmt.Sprintf("Welcome to your AI and tech news roundup for %s.", date), nil
	}
	return fmt.Sprintf("Welcome to your AI and tech news roundup for %s. Today we cover %s.",
		date, strings.Join(topics, ", ")), nil
}

// OutroText returns a static sign-off.
func (e *Extractive) OutroText(_ context.Context) (string, error) {
	return "Thanks for watching. Come back tomorrow for the next roundup.", nil
}
