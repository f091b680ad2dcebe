package deck

import (
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/RasPiBuilder/AI-News-Roundup/pkg/util"
)

// ErrTooFewSlides reports a deck missing its intro or outro slide.
var ErrTooFewSlides = errors.New("deck has fewer than 2 slides")

// ExportResult maps exported raster files to their deck positions.
// Topics preserves the deck's interior order; len(Topics) equals the
// deck's topic count on success.
type ExportResult struct {
	Intro  string
	Topics []string
	Outro  string
}

// All returns every exported path in deck order.
func (r *ExportResult) All() []string {
	out := make([]string, 0, len(r.Topics)+2)
	out = append(out, r.Intro)
	out = append(out, r.Topics...)
	out = append(out, r.Outro)
	return out
}

// Exporter rasterizes a deck into deterministically named slide images.
type Exporter struct {
	logger   zerolog.Logger
	renderer *renderer
}

// NewExporter creates a slide exporter rendering at the given frame size.
func NewExporter(logger zerolog.Logger, width, height int) (*Exporter, error) {
	r, err := newRenderer(width, height)
	if err != nil {
		return nil, fmt.Errorf("slide renderer: %w", err)
	}
	return &Exporter{
		logger:   logger.With().Str("component", "slides").Logger(),
		renderer: r,
	}, nil
}

// SlideFileName returns the positional name for an exported slide.
// Topics are numbered from 1 in deck order; intro and outro carry fixed
// names so no run ever depends on a host tool's auto-numbering.
func SlideFileName(kind SlideKind, topicIndex int) string {
	switch kind {
	case KindIntro:
		return "intro_slide.png"
	case KindOutro:
		return "outro_slide.png"
	default:
		return fmt.Sprintf("topic_%02d_slide.png", topicIndex)
	}
}

// Export writes one PNG per slide into dir, clearing stale slide files
// from previous runs first. Any slide that fails to produce its expected
// file is a hard error: downstream clip rendering has no fallback image.
func (e *Exporter) Export(d *Deck, dir string) (*ExportResult, error) {
	if d == nil || len(d.Slides) < 2 {
		return nil, ErrTooFewSlides
	}
	if d.Slides[0].Kind != KindIntro {
		return nil, fmt.Errorf("deck does not start with an intro slide")
	}
	if d.Slides[len(d.Slides)-1].Kind != KindOutro {
		return nil, fmt.Errorf("deck does not end with an outro slide")
	}

	if err := util.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("slide dir: %w", err)
	}

	// Stale numbered files from a previous run with a different topic
	// count would otherwise survive and corrupt positional pairing.
	removed, err := util.RemoveMatching(dir, "topic_*_slide.png")
	if err != nil {
		return nil, fmt.Errorf("stale slide cleanup: %w", err)
	}
	util.CleanupFiles(filepath.Join(dir, "intro_slide.png"), filepath.Join(dir, "outro_slide.png"))
	if removed > 0 {
		e.logger.Debug().Int("removed", removed).Msg("cleared stale topic slides")
	}

	result := &ExportResult{}
	topicIndex := 0
	for _, slide := range d.Slides {
		if slide.Kind == KindTopic {
			topicIndex++
		}
		path := filepath.Join(dir, SlideFileName(slide.Kind, topicIndex))

		if err := e.writeSlide(slide, path); err != nil {
			return nil, fmt.Errorf("export slide %q: %w", slide.Title, err)
		}
		if !util.FileExists(path) {
			return nil, fmt.Errorf("export slide %q: expected file %s missing after export", slide.Title, path)
		}

		switch slide.Kind {
		case KindIntro:
			result.Intro = path
		case KindOutro:
			result.Outro = path
		default:
			result.Topics = append(result.Topics, path)
		}
	}

	e.logger.Info().
		Int("slides", len(d.Slides)).
		Int("topics", len(result.Topics)).
		Str("dir", dir).
		Msg("deck exported")

	return result, nil
}

func (e *Exporter) writeSlide(s Slide, path string) error {
	img := e.renderer.render(s)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		os.Remove(path)
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
