package tts

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestBuildArgsEdgeTTS(t *testing.T) {
	opts := Options{Voice: "en-US-AriaNeural", Rate: 175, Volume: 0.9}
	name, args := buildArgs(engineEdgeTTS, "/usr/bin/edge-tts", opts, "hello world", "out.mp3")

	if name != "/usr/bin/edge-tts" {
		t.Errorf("unexpected command %q", name)
	}
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "--voice en-US-AriaNeural") {
		t.Errorf("voice flag missing: %s", joined)
	}
	if strings.Contains(joined, "--rate") {
		t.Errorf("neutral rate should not emit a rate flag: %s", joined)
	}
	if !strings.Contains(joined, "--volume=-10%") {
		t.Errorf("expected volume offset -10%%: %s", joined)
	}
	if !strings.Contains(joined, "--write-media out.mp3") {
		t.Errorf("output flag missing: %s", joined)
	}
}

func TestBuildArgsEspeak(t *testing.T) {
	opts := Options{Voice: "en-us", Rate: 160, Volume: 0.9}
	name, args := buildArgs(engineEspeak, "/usr/bin/espeak-ng", opts, "hello", "out.wav")

	if name != "/usr/bin/espeak-ng" {
		t.Errorf("unexpected command %q", name)
	}
	joined := strings.Join(args, " ")
	for _, want := range []string{"-v en-us", "-s 160", "-a 90", "-w out.wav"} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing %q in %s", want, joined)
		}
	}
	if args[len(args)-1] != "hello" {
		t.Errorf("text should be the final argument: %v", args)
	}
}

func TestBuildArgsCustomCommand(t *testing.T) {
	name, args := buildArgs(engineCustom, "mytts --preset fast", Options{}, "hi", "out.wav")

	if name != "mytts" {
		t.Errorf("unexpected command %q", name)
	}
	joined := strings.Join(args, " ")
	if !strings.HasPrefix(joined, "--preset fast") {
		t.Errorf("leading custom args lost: %s", joined)
	}
	if !strings.Contains(joined, "--text hi") || !strings.Contains(joined, "--output out.wav") {
		t.Errorf("text/output flags missing: %s", joined)
	}
}

func TestNewEngineIgnoresBlankCustomCommand(t *testing.T) {
	t.Setenv("TTS_COMMAND", "   ")
	e, err := NewEngine(zerolog.New(os.Stderr), Options{})
	if err != nil {
		// no local engine installed; the blank override still must not win
		return
	}
	if e.kind == engineCustom {
		t.Error("whitespace-only TTS_COMMAND should not select the custom engine")
	}
}

func TestSynthesizeRejectsEmptyText(t *testing.T) {
	e := &Engine{logger: zerolog.New(os.Stderr), kind: engineCustom, command: "true"}
	if err := e.Synthesize(context.Background(), "   ", "out.wav"); err == nil {
		t.Error("empty text should be rejected")
	}
}

func TestSynthesizeVerifiesOutputFile(t *testing.T) {
	// a command that exits zero but writes nothing
	e := &Engine{logger: zerolog.New(os.Stderr), kind: engineCustom, command: "true"}
	out := filepath.Join(t.TempDir(), "missing.wav")
	err := e.Synthesize(context.Background(), "hello", out)
	if err == nil {
		t.Fatal("missing output file should be an error")
	}
	if !strings.Contains(err.Error(), "no output file") {
		t.Errorf("error should mention missing output: %v", err)
	}
}
