package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/rs/zerolog"
)

// The model is a formatter, not a conversationalist: every prompt asks
// for bare output so the result can be dropped straight into a slide or
// a TTS call.
const systemPrompt = "You are a precise formatter. Respond in the exact format requested. " +
	"Do NOT include explanations, headings, labels, prefaces, or markdown fences. " +
	"Output ONLY the content asked for."

// GroqClient generates text through Groq's OpenAI-compatible
// chat-completions endpoint.
type GroqClient struct {
	logger      zerolog.Logger
	client      *openai.Client
	model       string
	temperature float64
}

// NewGroqClient creates a Groq-backed generator. baseURL points at the
// OpenAI-compatible root (https://api.groq.com/openai/v1).
func NewGroqClient(logger zerolog.Logger, apiKey, baseURL, model string, temperature float64) *GroqClient {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)
	return &GroqClient{
		logger:      logger.With().Str("component", "llm").Logger(),
		client:      &client,
		model:       model,
		temperature: temperature,
	}
}

func (g *GroqClient) generate(ctx context.Context, prompt string, maxTokens int64) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature:         openai.Float(g.temperature),
		MaxCompletionTokens: openai.Int(maxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("groq call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("groq call: empty response")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("groq call: blank completion")
	}
	return text, nil
}

// BulletPoints turns a raw summary into 5-7 concise bullet lines.
func (g *GroqClient) BulletPoints(ctx context.Context, summary string) (string, error) {
	prompt := "Turn the following news summary into 5-7 concise bullet points.\n" +
		"Formatting requirements:\n" +
		"- Output ONLY the bullet lines, one per line.\n" +
		"- No numbering, no dashes or bullet symbols, no intro/outro text, no headings.\n" +
		"- Keep each line under 18 words if possible.\n\n" +
		summary
	return g.generate(ctx, prompt, 300)
}

// Script writes a short conversational narration from the summary and bullets.
func (g *GroqClient) Script(ctx context.Context, summary, bullets string) (string, error) {
	prompt := "Write a natural, conversational narration covering the topic using the material below.\n" +
		"Length target: ~220-350 words.\n" +
		"Formatting requirements:\n" +
		"- Output ONLY the narration text (plain paragraphs). No titles, labels, or extra commentary.\n" +
		"- Do not restate requirements.\n\n" +
		"SUMMARY:\n" + summary + "\n\n" +
		"BULLETS:\n" + bullets
	return g.generate(ctx, prompt, 600)
}

// ImageKeywords suggests 1-2 short keyword phrases for an image search.
func (g *GroqClient) ImageKeywords(ctx context.Context, summary string) (string, error) {
	prompt := "From the summary below, output 1-2 short keyword phrases for an image search.\n" +
		"Formatting requirements:\n" +
		"- Output ONLY the keywords, separated by a comma if there are two.\n" +
		"- No quotes, no labels, no extra text.\n\n" +
		summary
	text, err := g.generate(ctx, prompt, 30)
	if err != nil {
		return "", err
	}
	return SanitizeKeywords(text), nil
}

// IntroText writes the roundup's opening narration.
func (g *GroqClient) IntroText(ctx context.Context, date string, topics []string) (string, error) {
	prompt := fmt.Sprintf(
		"Write a concise intro (2-3 sentences, ~15-25 seconds) for an AI & tech news roundup dated %s. "+
			"Casually mention the topics: %s. "+
			"Formatting requirements:\n- Output ONLY the intro narration (plain text). No title, no labels.",
		date, strings.Join(topics, ", "))
	return g.generate(ctx, prompt, 160)
}

// OutroText writes the closing narration.
func (g *GroqClient) OutroText(ctx context.Context) (string, error) {
	prompt := "Write a concise outro (1-2 sentences, ~10-20 seconds) that thanks the audience and invites them back tomorrow. " +
		"Formatting requirements:\n- Output ONLY the outro narration (plain text). No title, no labels."
	return g.generate(ctx, prompt, 120)
}
