// Package tts synthesizes narration audio by shelling out to a local
// speech engine. The engine is picked at startup: an explicit
// TTS_COMMAND override, else edge-tts, else espeak-ng.
package tts

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

// Options carries the voice parameters applied to every synthesis call.
type Options struct {
	Voice  string  // engine-specific voice identifier
	Rate   int     // words per minute, 175 is the neutral rate
	Volume float64 // 0.0-1.0
}

type engineKind int

const (
	engineCustom engineKind = iota
	engineEdgeTTS
	engineEspeak
)

// Engine converts text to an audio file through an external command.
type Engine struct {
	logger  zerolog.Logger
	kind    engineKind
	command string
	opts    Options
}

// NewEngine resolves an available speech engine or fails with install
// guidance.
func NewEngine(logger zerolog.Logger, opts Options) (*Engine, error) {
	e := &Engine{
		logger: logger.With().Str("component", "tts").Logger(),
		opts:   opts,
	}

	// A blank override would leave the custom engine with no command
	// word to execute.
	if cmd := strings.TrimSpace(os.Getenv("TTS_COMMAND")); cmd != "" {
		e.kind = engineCustom
		e.command = cmd
		e.logger.Info().Str("command", cmd).Msg("using custom TTS command")
		return e, nil
	}
	if path, err := exec.LookPath("edge-tts"); err == nil {
		e.kind = engineEdgeTTS
		e.command = path
		e.logger.Info().Msg("using edge-tts engine")
		return e, nil
	}
	if path, err := exec.LookPath("espeak-ng"); err == nil {
		e.kind = engineEspeak
		e.command = path
		e.logger.Info().Msg("using espeak-ng engine")
		return e, nil
	}

	return nil, fmt.Errorf("no TTS engine found: set TTS_COMMAND, or install edge-tts (pip install edge-tts) or espeak-ng")
}

// Ext returns the audio file extension the engine writes.
func (e *Engine) Ext() string {
	if e.kind == engineEdgeTTS {
		return ".mp3"
	}
	return ".wav"
}

// Name returns the resolved engine's display name.
func (e *Engine) Name() string {
	switch e.kind {
	case engineEdgeTTS:
		return "edge-tts"
	case engineEspeak:
		return "espeak-ng"
	default:
		return "custom"
	}
}

// Synthesize converts text to speech and writes it to output. The call
// blocks until the file is durably written; a missing or empty output
// file is an error even when the engine exits zero.
func (e *Engine) Synthesize(ctx context.Context, text, output string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("tts: empty narration text")
	}
	if output == "" {
		return fmt.Errorf("tts: output path is required")
	}

	name, args := buildArgs(e.kind, e.command, e.opts, text, output)

	e.logger.Debug().Str("engine", e.Name()).Str("output", output).Msg("synthesizing audio")

	cmd := exec.CommandContext(ctx, name, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("tts %s failed: %w: %s", e.Name(), err, strings.TrimSpace(string(out)))
	}

	info, err := os.Stat(output)
	if err != nil {
		return fmt.Errorf("tts %s produced no output file %s: %w", e.Name(), output, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("tts %s produced empty output file %s", e.Name(), output)
	}

	e.logger.Info().Str("output", output).Int64("bytes", info.Size()).Msg("audio written")
	return nil
}

// buildArgs maps the shared Options onto each engine's flag dialect.
func buildArgs(kind engineKind, command string, opts Options, text, output string) (string, []string) {
	switch kind {
	case engineEdgeTTS:
		args := []string{}
		if opts.Voice != "" {
			args = append(args, "--voice", opts.Voice)
		}
		if opts.Rate != 0 && opts.Rate != 175 {
			// edge-tts takes a percentage offset from its neutral rate
			pct := int(math.Round(float64(opts.Rate-175) / 175 * 100))
			args = append(args, fmt.Sprintf("--rate=%+d%%", pct))
		}
		if opts.Volume > 0 && opts.Volume < 1 {
			pct := int(math.Round((opts.Volume - 1) * 100))
			args = append(args, fmt.Sprintf("--volume=%+d%%", pct))
		}
		args = append(args, "--text", text, "--write-media", output)
		return command, args

	case engineEspeak:
		args := []string{}
		if opts.Voice != "" {
			args = append(args, "-v", opts.Voice)
		}
		if opts.Rate > 0 {
			args = append(args, "-s", fmt.Sprintf("%d", opts.Rate))
		}
		if opts.Volume > 0 {
			// espeak amplitude: 0-200, 100 is nominal
			args = append(args, "-a", fmt.Sprintf("%d", int(math.Round(opts.Volume*100))))
		}
		args = append(args, "-w", output, text)
		return command, args

	default:
		// Custom commands accept --text and --output, extra tokens in
		// TTS_COMMAND are preserved as leading args.
		fields := strings.Fields(command)
		name := fields[0]
		args := append(fields[1:], "--text", text, "--output", output)
		return name, args
	}
}
