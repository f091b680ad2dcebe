// Package pipeline orchestrates a roundup run: topic collection through
// slide export, clip rendering, concatenation, and final audio
// extraction. Execution is strictly sequential; every stage preserves
// the topic order established during collection, which is what makes
// positional slide/segment pairing correct.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/RasPiBuilder/AI-News-Roundup/internal/config"
	"github.com/RasPiBuilder/AI-News-Roundup/internal/deck"
	"github.com/RasPiBuilder/AI-News-Roundup/internal/ffmpeg"
	"github.com/RasPiBuilder/AI-News-Roundup/internal/images"
	"github.com/RasPiBuilder/AI-News-Roundup/pkg/util"
)

const (
	introTitle    = "AI & Tech News Roundup"
	outroTitle    = "Thanks for Watching"
	outroSubtitle = "Stay tuned for tomorrow's update!"
)

// Pipeline drives one run to completion.
type Pipeline struct {
	logger   zerolog.Logger
	cfg      *config.Config
	deps     Deps
	rng      *rand.Rand
	state    State
	warnings []string
	now      func() time.Time
}

// New creates a pipeline instance. Configuration is explicit; nothing is
// read from process-wide state during the run.
func New(logger zerolog.Logger, cfg *config.Config, deps Deps) *Pipeline {
	return &Pipeline{
		logger: logger.With().Str("component", "pipeline").Logger(),
		cfg:    cfg,
		deps:   deps,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		state:  StateCollectingTopics,
		now:    time.Now,
	}
}

// State returns the orchestrator's current (or terminal) state.
func (p *Pipeline) State() State { return p.state }

// Warnings returns the degraded-condition reports recorded during the run.
func (p *Pipeline) Warnings() []string { return p.warnings }

func (p *Pipeline) setState(s State) {
	p.logger.Info().Str("from", string(p.state)).Str("to", string(s)).Msg("stage transition")
	p.state = s
}

func (p *Pipeline) warn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	p.warnings = append(p.warnings, msg)
	p.logger.Warn().Msg(msg)
}

func (p *Pipeline) fail(err error) error {
	p.state = StateFailed
	p.logger.Error().Err(err).Msg("pipeline failed")
	return err
}

// Run executes the full pipeline and returns the final artifacts.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	for _, dir := range []string{p.cfg.Output.Root, p.cfg.AudioDir(), p.cfg.ImageDir(), p.cfg.SlideDir(), p.cfg.ClipDir()} {
		if err := util.EnsureDir(dir); err != nil {
			return nil, p.fail(fmt.Errorf("create output dir %s: %w", dir, err))
		}
	}
	p.sweepStaleArtifacts()

	// COLLECTING_TOPICS: per-topic failures skip the topic, never the run.
	segments := p.collectTopics(ctx)

	introAudio, outroAudio, err := p.synthesizeBookends(ctx, segments)
	if err != nil {
		return nil, p.fail(err)
	}

	p.setState(StateExportingSlides)
	d := p.buildDeck(segments)
	if err := d.Save(p.cfg.DeckFile()); err != nil {
		return nil, p.fail(fmt.Errorf("persist deck: %w", err))
	}
	exported, err := p.deps.Slides.Export(d, p.cfg.SlideDir())
	if err != nil {
		return nil, p.fail(fmt.Errorf("slide export: %w", err))
	}

	pairs := len(segments)
	if len(exported.Topics) != len(segments) {
		p.warn("topic slide count %d does not match segment count %d; pairing by the shorter length",
			len(exported.Topics), len(segments))
		if len(exported.Topics) < pairs {
			pairs = len(exported.Topics)
		}
	}

	p.setState(StateRenderingClips)
	clipPaths, err := p.renderClips(ctx, segments[:pairs], exported, introAudio, outroAudio)
	if err != nil {
		return nil, p.fail(err)
	}

	p.setState(StateConcatenating)
	if err := p.deps.Media.Concat(ctx, ffmpeg.ConcatOptions{
		Inputs: clipPaths,
		Output: p.cfg.FinalVideo(),
	}); err != nil {
		return nil, p.fail(fmt.Errorf("concatenate clips: %w", err))
	}

	p.setState(StateExtractingAudio)
	if err := p.deps.Media.ExtractAudio(ctx, p.cfg.FinalVideo(), p.cfg.FinalAudio(), ffmpeg.DefaultExtractFormat(), nil); err != nil {
		return nil, p.fail(fmt.Errorf("extract final audio: %w", err))
	}

	p.setState(StateDone)
	if !p.cfg.Output.KeepIntermediate {
		util.CleanupFiles(clipPaths...)
		p.logger.Debug().Int("clips", len(clipPaths)).Msg("intermediate clips removed")
	}

	p.logger.Info().
		Int("topics", len(segments)).
		Str("video", p.cfg.FinalVideo()).
		Str("audio", p.cfg.FinalAudio()).
		Msg("roundup complete")

	return &Result{
		Segments:   segments,
		DeckFile:   p.cfg.DeckFile(),
		FinalVideo: p.cfg.FinalVideo(),
		FinalAudio: p.cfg.FinalAudio(),
		Warnings:   p.warnings,
	}, nil
}

// sweepStaleArtifacts clears numbered files left by a previous run on
// the same output root. A 4-topic run followed by a 2-topic run would
// otherwise leave topic_03/topic_04 audio, images, and clips behind,
// and a stale intro_audio with a different extension survives an engine
// change. Slide rasters are swept by the exporter itself.
func (p *Pipeline) sweepStaleArtifacts() {
	sweeps := []struct {
		dir     string
		pattern string
	}{
		{p.cfg.AudioDir(), "topic_*_audio.*"},
		{p.cfg.AudioDir(), "intro_audio.*"},
		{p.cfg.AudioDir(), "outro_audio.*"},
		{p.cfg.ImageDir(), "topic_*_image.*"},
		{p.cfg.ClipDir(), "*_clip.mp4"},
	}
	removed := 0
	for _, s := range sweeps {
		n, err := util.RemoveMatching(s.dir, s.pattern)
		if err != nil {
			p.logger.Warn().Str("pattern", s.pattern).Err(err).Msg("stale artifact sweep failed")
			continue
		}
		removed += n
	}
	if removed > 0 {
		p.logger.Debug().Int("removed", removed).Msg("cleared artifacts from previous run")
	}
}

// collectTopics walks the configured topics in order and returns the
// segments whose full content chain succeeded. Topic order in the result
// matches configuration order with failures removed.
func (p *Pipeline) collectTopics(ctx context.Context) []Segment {
	p.setState(StateCollectingTopics)

	var segments []Segment
	for _, topic := range p.cfg.Topics {
		seg, err := p.collectTopic(ctx, topic, len(segments)+1)
		if err != nil {
			p.logger.Warn().Str("topic", topic.Name).Err(err).Msg("topic skipped")
			continue
		}
		segments = append(segments, *seg)
		p.logger.Info().Str("topic", topic.Name).Int("position", len(segments)).Msg("topic collected")
	}
	return segments
}

func (p *Pipeline) collectTopic(ctx context.Context, topic config.Topic, position int) (*Segment, error) {
	if len(topic.Queries) == 0 {
		return nil, fmt.Errorf("no search phrases configured")
	}
	base := topic.Queries[p.rng.Intn(len(topic.Queries))]

	summary := p.collectSummary(ctx, topic.Name, base)
	if summary == "" {
		return nil, fmt.Errorf("no search results")
	}

	bullets, err := p.deps.Text.BulletPoints(ctx, summary)
	if err != nil {
		return nil, fmt.Errorf("bullet points: %w", err)
	}
	script, err := p.deps.Text.Script(ctx, summary, bullets)
	if err != nil {
		return nil, fmt.Errorf("narration script: %w", err)
	}

	imagePath := p.fetchTopicImage(ctx, summary, position)

	// Audio last: the segment only exists once its narration is on disk.
	audioPath := filepath.Join(p.cfg.AudioDir(), fmt.Sprintf("topic_%02d_audio%s", position, p.deps.TTS.Ext()))
	if err := p.deps.TTS.Synthesize(ctx, script, audioPath); err != nil {
		return nil, fmt.Errorf("narration audio: %w", err)
	}

	return &Segment{
		Topic:     topic.Name,
		Bullets:   bullets,
		Script:    script,
		AudioPath: audioPath,
		ImagePath: imagePath,
	}, nil
}

// collectSummary runs the site-scoped searches for one topic and merges
// the snippet text into a single raw summary string.
func (p *Pipeline) collectSummary(ctx context.Context, topicName, base string) string {
	var siteSummaries []string
	for _, site := range p.sampleSites() {
		query := base
		if len(p.cfg.Modifiers) > 0 {
			query += " " + p.cfg.Modifiers[p.rng.Intn(len(p.cfg.Modifiers))]
		}
		query += " site:" + site

		p.logger.Debug().Str("topic", topicName).Str("query", query).Msg("searching")

		snippets, err := p.deps.Search.Search(ctx, query, p.cfg.Search.SnippetsPerQuery)
		if err != nil {
			p.logger.Warn().Str("query", query).Err(err).Msg("search failed")
			continue
		}
		if len(snippets) == 0 {
			continue
		}

		parts := make([]string, 0, len(snippets))
		for _, s := range snippets {
			parts = append(parts, s.Text())
		}
		combined := strings.Join(parts, " ")
		if max := p.cfg.Search.SummaryMaxChars; max > 0 {
			combined = truncateRunes(combined, max)
		}
		siteSummaries = append(siteSummaries, site+": "+combined)
	}
	return strings.Join(siteSummaries, " ")
}

// truncateRunes shortens s to at most max bytes without splitting a
// multi-byte rune. Snippets routinely carry non-ASCII text, and a byte
// cut could feed invalid UTF-8 into prompts and TTS input.
func truncateRunes(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// fetchTopicImage resolves keywords and downloads an illustration. The
// image is optional: every failure path returns an empty path and the
// topic proceeds without one.
func (p *Pipeline) fetchTopicImage(ctx context.Context, summary string, position int) string {
	keywords, err := p.deps.Text.ImageKeywords(ctx, summary)
	if err != nil || keywords == "" {
		p.logger.Debug().Err(err).Msg("no image keywords")
		return ""
	}

	dest := filepath.Join(p.cfg.ImageDir(), fmt.Sprintf("topic_%02d_image.jpg", position))
	if err := p.deps.Images.Fetch(ctx, keywords, dest); err != nil {
		if errors.Is(err, images.ErrNoImageFound) {
			p.logger.Info().Str("keywords", keywords).Msg("no valid image found")
		} else {
			p.logger.Warn().Str("keywords", keywords).Err(err).Msg("image fetch failed")
		}
		return ""
	}
	return dest
}

// synthesizeBookends writes the intro and outro narration audio. The
// generated copy falls back to static text so intro and outro always
// render, even on a zero-topic run or with the LLM down.
func (p *Pipeline) synthesizeBookends(ctx context.Context, segments []Segment) (string, string, error) {
	date := p.now().Format("January 2, 2006")
	covered := make([]string, len(segments))
	for i, s := range segments {
		covered[i] = s.Topic
	}

	introText, err := p.deps.Text.IntroText(ctx, date, covered)
	if err != nil || strings.TrimSpace(introText) == "" {
		p.logger.Warn().Err(err).Msg("intro generation failed, using fallback text")
		introText = fmt.Sprintf("Welcome to your AI and tech news roundup for %s.", date)
	}
	outroText, err := p.deps.Text.OutroText(ctx)
	if err != nil || strings.TrimSpace(outroText) == "" {
		p.logger.Warn().Err(err).Msg("outro generation failed, using fallback text")
		outroText = "Thanks for watching. Come back tomorrow for the next roundup."
	}

	introAudio := filepath.Join(p.cfg.AudioDir(), "intro_audio"+p.deps.TTS.Ext())
	if err := p.deps.TTS.Synthesize(ctx, introText, introAudio); err != nil {
		return "", "", fmt.Errorf("intro narration audio: %w", err)
	}
	outroAudio := filepath.Join(p.cfg.AudioDir(), "outro_audio"+p.deps.TTS.Ext())
	if err := p.deps.TTS.Synthesize(ctx, outroText, outroAudio); err != nil {
		return "", "", fmt.Errorf("outro narration audio: %w", err)
	}
	return introAudio, outroAudio, nil
}

func (p *Pipeline) buildDeck(segments []Segment) *deck.Deck {
	d := deck.New(introTitle, p.now().Format("January 2, 2006"))
	for _, seg := range segments {
		var bullets []string
		for _, line := range strings.Split(seg.Bullets, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				bullets = append(bullets, line)
			}
		}
		d.AddTopic(seg.Topic, bullets, seg.ImagePath)
	}
	d.AddOutro(outroTitle, outroSubtitle)
	return d
}

// renderClips renders intro, paired topic clips, and outro, in that
// order. Any failure here is fatal for the run: an incomplete render is
// not recoverable without redoing the content stage.
func (p *Pipeline) renderClips(ctx context.Context, segments []Segment, exported *deck.ExportResult, introAudio, outroAudio string) ([]string, error) {
	type section struct {
		name  string
		image string
		audio string
		clip  string
	}

	sections := make([]section, 0, len(segments)+2)
	sections = append(sections, section{
		name:  "intro",
		image: exported.Intro,
		audio: introAudio,
		clip:  filepath.Join(p.cfg.ClipDir(), "intro_clip.mp4"),
	})
	for i, seg := range segments {
		sections = append(sections, section{
			name:  fmt.Sprintf("topic_%d", i+1),
			image: exported.Topics[i],
			audio: seg.AudioPath,
			clip:  filepath.Join(p.cfg.ClipDir(), fmt.Sprintf("topic_%02d_clip.mp4", i+1)),
		})
	}
	sections = append(sections, section{
		name:  "outro",
		image: exported.Outro,
		audio: outroAudio,
		clip:  filepath.Join(p.cfg.ClipDir(), "outro_clip.mp4"),
	})

	clipPaths := make([]string, 0, len(sections))
	for _, s := range sections {
		dur, err := p.deps.Media.AudioDuration(ctx, s.audio)
		if err != nil {
			return nil, fmt.Errorf("probe %s audio %s: %w", s.name, s.audio, err)
		}

		opts := ffmpeg.SlideClipOptions{
			Section:       s.name,
			Image:         s.image,
			Audio:         s.audio,
			Output:        s.clip,
			PreRoll:       p.cfg.Timing.PreRoll,
			Fade:          p.cfg.Timing.Fade,
			TailPad:       p.cfg.Timing.TailPad,
			AudioDuration: dur,
			FPS:           p.cfg.Timing.FPS,
		}
		if err := p.deps.Media.RenderSlideClip(ctx, opts); err != nil {
			return nil, err
		}
		clipPaths = append(clipPaths, s.clip)
	}
	return clipPaths, nil
}

func (p *Pipeline) sampleSites() []string {
	k := p.cfg.Search.SitesPerTopic
	if k <= 0 || k > len(p.cfg.Sites) {
		k = len(p.cfg.Sites)
	}
	perm := p.rng.Perm(len(p.cfg.Sites))
	out := make([]string, 0, k)
	for _, idx := range perm[:k] {
		out = append(out, p.cfg.Sites[idx])
	}
	return out
}
