package ffmpeg

import (
	"context"
	"fmt"
	"math"
	"os"
)

// ClipDuration returns the total clip length in seconds:
// pre-roll silence, then the narration, then the tail pad.
func ClipDuration(preRoll, audioDuration, tailPad float64) float64 {
	return preRoll + audioDuration + tailPad
}

// AudioFadeOut returns the audio fade-out duration: the configured fade,
// clamped so it never extends past the tail silence window. The floor of
// 0.1s keeps the fade from degenerating when the tail pad is tiny.
func AudioFadeOut(fade, tailPad float64) float64 {
	if fade <= 0 {
		return 0
	}
	return math.Min(fade, math.Max(0.1, tailPad))
}

// RenderSlideClip renders one still image plus one narration track into a
// timed, faded, constant-frame-rate clip. Errors identify both the failing
// asset and the section so assembly failures are attributable.
func (e *Executor) RenderSlideClip(ctx context.Context, opts SlideClipOptions) error {
	if err := validateSlideClipOptions(opts); err != nil {
		return fmt.Errorf("render %s clip: %w", opts.Section, err)
	}

	total := ClipDuration(opts.PreRoll, opts.AudioDuration, opts.TailPad)

	e.logger.Info().
		Str("section", opts.Section).
		Str("image", opts.Image).
		Str("audio", opts.Audio).
		Float64("duration", total).
		Msg("rendering slide clip")

	args := buildSlideClipArgs(opts)

	runOpts := RunOptions{
		Args:            args,
		ProgressHandler: opts.ProgressFunc,
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("slide clip render")
		},
	}

	if err := e.Run(ctx, runOpts); err != nil {
		return fmt.Errorf("render %s clip: %w", opts.Section, err)
	}

	e.logger.Info().Str("section", opts.Section).Str("output", opts.Output).Msg("slide clip complete")
	return nil
}

func validateSlideClipOptions(opts SlideClipOptions) error {
	if opts.Output == "" {
		return fmt.Errorf("output path is required")
	}
	if opts.PreRoll < 0 || opts.Fade < 0 || opts.TailPad < 0 {
		return fmt.Errorf("timing parameters must be non-negative")
	}
	if opts.AudioDuration <= 0 {
		return fmt.Errorf("audio duration must be positive")
	}
	if opts.Image == "" {
		return fmt.Errorf("image asset is required")
	}
	if _, err := os.Stat(opts.Image); err != nil {
		return fmt.Errorf("image asset unreadable: %s: %w", opts.Image, err)
	}
	if opts.Audio == "" {
		return fmt.Errorf("audio asset is required")
	}
	if _, err := os.Stat(opts.Audio); err != nil {
		return fmt.Errorf("audio asset unreadable: %s: %w", opts.Audio, err)
	}
	return nil
}

// buildSlideClipArgs assembles the full ffmpeg argument list for a slide
// clip. Split out from RenderSlideClip so the timing arithmetic is
// testable without invoking ffmpeg.
func buildSlideClipArgs(opts SlideClipOptions) []string {
	fps := opts.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	width, height := opts.Width, opts.Height
	if width <= 0 || height <= 0 {
		width, height = DefaultWidth, DefaultHeight
	}
	crf := opts.CRF
	if crf == 0 {
		crf = DefaultCRF
	}
	preset := opts.Preset
	if preset == "" {
		preset = DefaultPreset
	}

	total := ClipDuration(opts.PreRoll, opts.AudioDuration, opts.TailPad)
	audioOut := AudioFadeOut(opts.Fade, opts.TailPad)

	video := NewFilterBuilder().
		Scale(width, height).
		Format("yuv420p").
		FPS(fps).
		FadeIn(0, opts.Fade).
		FadeOut(total-opts.Fade, opts.Fade).
		Build()

	// Audio timeline: delay by the pre-roll, pad out to the full clip
	// length, fade in after the pre-roll and fade out into the tail pad.
	audio := NewFilterBuilder().
		ADelay(opts.PreRoll).
		APad(total).
		AFadeIn(opts.PreRoll, opts.Fade).
		AFadeOut(total-audioOut, audioOut).
		Build()

	filterComplex := fmt.Sprintf("[0:v]%s[v];[1:a]%s[a]", video, audio)

	return []string{
		"-loop", "1",
		"-framerate", fmt.Sprintf("%d", fps),
		"-i", opts.Image,
		"-i", opts.Audio,
		"-filter_complex", filterComplex,
		"-map", "[v]",
		"-map", "[a]",
		"-c:v", DefaultVideoCodec,
		"-preset", preset,
		"-crf", fmt.Sprintf("%d", crf),
		"-r", fmt.Sprintf("%d", fps),
		"-fps_mode", "cfr",
		"-c:a", DefaultAudioCodec,
		"-b:a", DefaultBitrate,
		"-ar", fmt.Sprintf("%d", DefaultAudioRate),
		"-ac", fmt.Sprintf("%d", DefaultChannels),
		"-t", fmt.Sprintf("%.3f", total),
		opts.Output,
	}
}
