package search

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Snippet is one short search result: a headline and its body text.
type Snippet struct {
	Title string
	Body  string
}

// Text renders the snippet the way upstream summarization consumes it.
func (s Snippet) Text() string {
	return strings.Trim(s.Title+": "+s.Body, ": ")
}

// Client queries the DuckDuckGo HTML and image endpoints. No API key is
// required; results are best-effort and may be empty.
type Client struct {
	logger     zerolog.Logger
	httpClient *http.Client
	htmlURL    string
	queryURL   string
	imageURL   string
}

// NewClient creates a DuckDuckGo search client
func NewClient(logger zerolog.Logger) *Client {
	return &Client{
		logger:     logger.With().Str("component", "search").Logger(),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		htmlURL:    "https://html.duckduckgo.com/html/",
		queryURL:   "https://duckduckgo.com/",
		imageURL:   "https://duckduckgo.com/i.js",
	}
}

var (
	resultTitleRe   = regexp.MustCompile(`(?s)<a[^>]+class="result__a"[^>]*>(.*?)</a>`)
	resultSnippetRe = regexp.MustCompile(`(?s)<a[^>]+class="result__snippet"[^>]*>(.*?)</a>`)
	tagRe           = regexp.MustCompile(`<[^>]+>`)
	vqdRe           = regexp.MustCompile(`vqd=["']?([\d-]+)["']?`)
)

// Search returns up to max ordered snippets for the query. An empty
// result list is not an error.
func (c *Client) Search(ctx context.Context, query string, max int) ([]Snippet, error) {
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}

	u := c.htmlURL + "?q=" + url.QueryEscape(query)
	body, err := c.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo search: %w", err)
	}

	titles := resultTitleRe.FindAllStringSubmatch(body, -1)
	snippets := resultSnippetRe.FindAllStringSubmatch(body, -1)

	n := len(titles)
	if len(snippets) < n {
		n = len(snippets)
	}
	if max > 0 && n > max {
		n = max
	}

	results := make([]Snippet, 0, n)
	for i := 0; i < n; i++ {
		s := Snippet{
			Title: cleanHTML(titles[i][1]),
			Body:  cleanHTML(snippets[i][1]),
		}
		if s.Title != "" || s.Body != "" {
			results = append(results, s)
		}
	}

	c.logger.Debug().Str("query", query).Int("results", len(results)).Msg("text search complete")
	return results, nil
}

// SearchImages returns up to max candidate image URLs for the keywords.
// DuckDuckGo's image endpoint requires a per-query vqd token scraped from
// the regular search page.
func (c *Client) SearchImages(ctx context.Context, keywords string, max int) ([]string, error) {
	if keywords == "" {
		return nil, fmt.Errorf("keywords are required")
	}

	page, err := c.get(ctx, c.queryURL+"?q="+url.QueryEscape(keywords)+"&iax=images&ia=images")
	if err != nil {
		return nil, fmt.Errorf("duckduckgo image token: %w", err)
	}

	m := vqdRe.FindStringSubmatch(page)
	if m == nil {
		return nil, fmt.Errorf("duckduckgo image token not found for %q", keywords)
	}

	u := c.imageURL + "?l=us-en&o=json&q=" + url.QueryEscape(keywords) + "&vqd=" + m[1]
	body, err := c.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo image search: %w", err)
	}

	var parsed struct {
		Results []struct {
			Image     string `json:"image"`
			Thumbnail string `json:"thumbnail"`
		} `json:"results"`
	}
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return nil, fmt.Errorf("duckduckgo image decode: %w", err)
	}

	urls := make([]string, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		candidate := r.Image
		if candidate == "" {
			candidate = r.Thumbnail
		}
		if candidate == "" {
			continue
		}
		urls = append(urls, candidate)
		if max > 0 && len(urls) >= max {
			break
		}
	}

	c.logger.Debug().Str("keywords", keywords).Int("candidates", len(urls)).Msg("image search complete")
	return urls, nil
}

func (c *Client) get(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; newsroundup/1.0)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func cleanHTML(s string) string {
	s = tagRe.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return strings.TrimSpace(s)
}
