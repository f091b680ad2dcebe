package pipeline

import (
	"context"

	"github.com/RasPiBuilder/AI-News-Roundup/internal/deck"
	"github.com/RasPiBuilder/AI-News-Roundup/internal/ffmpeg"
	"github.com/RasPiBuilder/AI-News-Roundup/internal/search"
)

// State identifies the orchestrator's position in the run. Failures
// before RENDERING_CLIPS skip or degrade; failures from RENDERING_CLIPS
// onward are fatal.
type State string

const (
	StateCollectingTopics State = "COLLECTING_TOPICS"
	StateExportingSlides  State = "EXPORTING_SLIDES"
	StateRenderingClips   State = "RENDERING_CLIPS"
	StateConcatenating    State = "CONCATENATING"
	StateExtractingAudio  State = "EXTRACTING_AUDIO"
	StateDone             State = "DONE"
	StateFailed           State = "FAILED"
)

// Segment is one topic's produced content bundle. It is appended to the
// run's segment list only after its narration audio has been durably
// written; a topic whose audio step failed never reaches downstream
// stages.
type Segment struct {
	Topic     string
	Bullets   string
	Script    string
	AudioPath string
	ImagePath string // empty when no valid image was found
}

// Result describes a completed run.
type Result struct {
	Segments   []Segment
	DeckFile   string
	FinalVideo string
	FinalAudio string
	Warnings   []string
}

// Searcher returns ordered text snippets for a query; an empty list is a
// valid outcome.
type Searcher interface {
	Search(ctx context.Context, query string, max int) ([]search.Snippet, error)
}

// ImageFetcher writes a validated image to dest or reports
// images.ErrNoImageFound.
type ImageFetcher interface {
	Fetch(ctx context.Context, keywords, dest string) error
}

// Synthesizer produces a playable audio file synchronously or fails.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, output string) error
	Ext() string
}

// SlideExporter rasterizes a finished deck into positional slide files.
type SlideExporter interface {
	Export(d *deck.Deck, dir string) (*deck.ExportResult, error)
}

// Media covers the assembly operations: probing narration length,
// rendering per-section clips, concatenating them, and extracting the
// final audio track.
type Media interface {
	AudioDuration(ctx context.Context, path string) (float64, error)
	RenderSlideClip(ctx context.Context, opts ffmpeg.SlideClipOptions) error
	Concat(ctx context.Context, opts ffmpeg.ConcatOptions) error
	ExtractAudio(ctx context.Context, input, output string, format ffmpeg.AudioFormat, progress ffmpeg.ProgressFunc) error
}

// Deps bundles the collaborators the orchestrator drives.
type Deps struct {
	Search Searcher
	Text   TextGenerator
	Images ImageFetcher
	TTS    Synthesizer
	Slides SlideExporter
	Media  Media
}

// TextGenerator mirrors llm.TextGenerator at the point of consumption.
type TextGenerator interface {
	BulletPoints(ctx context.Context, summary string) (string, error)
	Script(ctx context.Context, summary, bullets string) (string, error)
	ImageKeywords(ctx context.Context, summary string) (string, error)
	IntroText(ctx context.Context, date string, topics []string) (string, error)
	OutroText(ctx context.Context) (string, error)
}
