// Package images downloads and validates topic illustrations. Candidates
// come from an image search; each is fetched, decoded, and checked for
// minimum dimensions before it is accepted. Exhausting the candidate list
// is an explicit not-found outcome, not an error swallow.
package images

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/rs/zerolog"
)

// ErrNoImageFound reports that every candidate was tried and none
// validated.
var ErrNoImageFound = errors.New("no valid image found")

// CandidateSource lists candidate image URLs for a keyword phrase.
type CandidateSource interface {
	SearchImages(ctx context.Context, keywords string, max int) ([]string, error)
}

// Fetcher downloads the first candidate that decodes and meets the
// minimum dimensions.
type Fetcher struct {
	logger        zerolog.Logger
	source        CandidateSource
	httpClient    *http.Client
	minSize       int
	maxCandidates int
}

// NewFetcher creates an image fetcher
func NewFetcher(logger zerolog.Logger, source CandidateSource, minSize, maxCandidates int, timeout time.Duration) *Fetcher {
	if minSize <= 0 {
		minSize = 100
	}
	if maxCandidates <= 0 {
		maxCandidates = 5
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		logger:        logger.With().Str("component", "images").Logger(),
		source:        source,
		httpClient:    &http.Client{Timeout: timeout},
		minSize:       minSize,
		maxCandidates: maxCandidates,
	}
}

// Fetch tries candidates in order and writes the first valid image to
// dest. Returns ErrNoImageFound when the bounded candidate list is
// exhausted.
func (f *Fetcher) Fetch(ctx context.Context, keywords, dest string) error {
	if keywords == "" {
		return ErrNoImageFound
	}

	candidates, err := f.source.SearchImages(ctx, keywords, f.maxCandidates)
	if err != nil {
		return fmt.Errorf("image candidates for %q: %w", keywords, err)
	}

	for _, url := range candidates {
		if err := f.download(ctx, url, dest); err != nil {
			f.logger.Debug().Str("url", url).Err(err).Msg("candidate rejected")
			continue
		}
		if err := ValidateFile(dest, f.minSize); err != nil {
			f.logger.Debug().Str("url", url).Err(err).Msg("candidate failed validation")
			os.Remove(dest)
			continue
		}
		f.logger.Info().Str("keywords", keywords).Str("image", dest).Msg("image fetched")
		return nil
	}

	return ErrNoImageFound
}

func (f *Fetcher) download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	if ctype := resp.Header.Get("Content-Type"); !strings.Contains(strings.ToLower(ctype), "image") {
		return fmt.Errorf("content type %q is not an image", ctype)
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(dest)
		return err
	}
	return nil
}

// ValidateFile checks that path is a decodable image with both
// dimensions at or above minSize.
func ValidateFile(path string, minSize int) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return fmt.Errorf("not a decodable image: %w", err)
	}
	if cfg.Width < minSize || cfg.Height < minSize {
		return fmt.Errorf("image %dx%d below minimum %d", cfg.Width, cfg.Height, minSize)
	}
	return nil
}
