package ffmpeg

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestClipDuration(t *testing.T) {
	tests := []struct {
		preRoll, audio, tailPad float64
		want                    float64
	}{
		{0.6, 30, 0.2, 30.8},
		{0.6, 45, 0.2, 45.8},
		{0, 10, 0, 10},
		{1.5, 0.5, 2.5, 4.5},
	}

	for _, tt := range tests {
		got := ClipDuration(tt.preRoll, tt.audio, tt.tailPad)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ClipDuration(%v, %v, %v) = %v, want %v",
				tt.preRoll, tt.audio, tt.tailPad, got, tt.want)
		}
	}
}

func TestAudioFadeOutClamp(t *testing.T) {
	tests := []struct {
		name          string
		fade, tailPad float64
		want          float64
	}{
		{"fade fits in tail", 0.2, 0.5, 0.2},
		{"fade exceeds tail", 0.4, 0.2, 0.2},
		{"tiny tail uses floor", 0.4, 0.05, 0.1},
		{"zero tail uses floor", 0.4, 0, 0.1},
		{"short fade under floor", 0.05, 0, 0.05},
		{"zero fade", 0, 0.2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AudioFadeOut(tt.fade, tt.tailPad)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("AudioFadeOut(%v, %v) = %v, want %v", tt.fade, tt.tailPad, got, tt.want)
			}
		})
	}
}

func writeTempAssets(t *testing.T) (image, audio string) {
	t.Helper()
	dir := t.TempDir()
	image = filepath.Join(dir, "slide.png")
	audio = filepath.Join(dir, "narration.wav")
	for _, p := range []string{image, audio} {
		if err := os.WriteFile(p, []byte("stub"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return image, audio
}

func TestBuildSlideClipArgs(t *testing.T) {
	image, audio := writeTempAssets(t)

	opts := SlideClipOptions{
		Section:       "topic_1",
		Image:         image,
		Audio:         audio,
		Output:        "out.mp4",
		PreRoll:       0.6,
		Fade:          0.4,
		TailPad:       0.2,
		AudioDuration: 30,
		FPS:           24,
	}

	args := buildSlideClipArgs(opts)
	joined := strings.Join(args, " ")

	var filterComplex string
	for i, a := range args {
		if a == "-filter_complex" {
			filterComplex = args[i+1]
		}
	}
	if filterComplex == "" {
		t.Fatal("no -filter_complex in args")
	}

	wantVideo := "[0:v]scale=1280:720:force_original_aspect_ratio=decrease," +
		"pad=1280:720:(ow-iw)/2:(oh-ih)/2,format=yuv420p,fps=24," +
		"fade=t=in:st=0.000:d=0.400,fade=t=out:st=30.400:d=0.400[v]"
	wantAudio := "[1:a]adelay=600:all=1,apad=whole_dur=30.800," +
		"afade=t=in:st=0.600:d=0.400,afade=t=out:st=30.600:d=0.200[a]"

	if filterComplex != wantVideo+";"+wantAudio {
		t.Errorf("filter_complex mismatch:\n got %s\nwant %s", filterComplex, wantVideo+";"+wantAudio)
	}

	// Total duration is preRoll + audioDuration + tailPad exactly
	if !strings.Contains(joined, "-t 30.800") {
		t.Errorf("expected -t 30.800 in args: %s", joined)
	}
	// Constant frame rate is required for clean concatenation
	if !strings.Contains(joined, "-fps_mode cfr") || !strings.Contains(joined, "-r 24") {
		t.Errorf("expected constant frame rate flags: %s", joined)
	}
	if !strings.Contains(joined, "-ar 44100") || !strings.Contains(joined, "-ac 2") {
		t.Errorf("expected fixed audio layout: %s", joined)
	}
}

func TestBuildSlideClipArgsNoPreRollNoFade(t *testing.T) {
	image, audio := writeTempAssets(t)

	opts := SlideClipOptions{
		Section:       "intro",
		Image:         image,
		Audio:         audio,
		Output:        "out.mp4",
		AudioDuration: 10,
	}

	args := buildSlideClipArgs(opts)
	joined := strings.Join(args, " ")

	if strings.Contains(joined, "adelay") {
		t.Error("zero pre-roll should not add adelay")
	}
	if strings.Contains(joined, "fade=") {
		t.Error("zero fade should not add fade filters")
	}
	if !strings.Contains(joined, "-t 10.000") {
		t.Errorf("expected -t 10.000: %s", joined)
	}
}

func TestValidateSlideClipOptions(t *testing.T) {
	image, audio := writeTempAssets(t)

	base := SlideClipOptions{
		Section:       "topic_2",
		Image:         image,
		Audio:         audio,
		Output:        "out.mp4",
		AudioDuration: 5,
	}

	if err := validateSlideClipOptions(base); err != nil {
		t.Errorf("valid options rejected: %v", err)
	}

	missing := base
	missing.Audio = filepath.Join(t.TempDir(), "absent.wav")
	err := validateSlideClipOptions(missing)
	if err == nil {
		t.Fatal("missing audio asset should be rejected")
	}
	if !strings.Contains(err.Error(), "audio asset unreadable") {
		t.Errorf("error should identify the asset: %v", err)
	}

	negative := base
	negative.TailPad = -1
	if err := validateSlideClipOptions(negative); err == nil {
		t.Error("negative tail pad should be rejected")
	}
}

func TestFilterBuilder(t *testing.T) {
	got := NewFilterBuilder().Scale(1920, 1080).FPS(30).Build()
	want := "scale=1920:1080:force_original_aspect_ratio=decrease,pad=1920:1080:(ow-iw)/2:(oh-ih)/2,fps=30"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFilterBuilderEmpty(t *testing.T) {
	if got := NewFilterBuilder().Build(); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestFilterBuilderSkipsNoOps(t *testing.T) {
	got := NewFilterBuilder().
		Scale(0, 0).
		FPS(0).
		FadeIn(0, 0).
		ADelay(0).
		AFadeOut(10, 0).
		Build()
	if got != "" {
		t.Errorf("no-op filters should produce nothing, got %q", got)
	}
}

func TestFilterBuilderADelayRounds(t *testing.T) {
	got := NewFilterBuilder().ADelay(0.6).Build()
	if got != "adelay=600:all=1" {
		t.Errorf("expected adelay=600:all=1, got %q", got)
	}
}
