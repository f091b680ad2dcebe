package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if len(cfg.Topics) == 0 {
		t.Fatal("default config has no topics")
	}
	if cfg.Timing.FPS != 24 {
		t.Errorf("expected default fps 24, got %d", cfg.Timing.FPS)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Output.Root != "output" {
		t.Errorf("expected default output root, got %q", cfg.Output.Root)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
topics:
  - name: Robotics
    queries: ["robot news"]
timing:
  pre_roll: 1.0
  fade: 0.5
  tail_pad: 0.25
  fps: 30
output:
  root: /tmp/roundup
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.Topics) != 1 || cfg.Topics[0].Name != "Robotics" {
		t.Errorf("topics not overridden: %+v", cfg.Topics)
	}
	if cfg.Timing.PreRoll != 1.0 || cfg.Timing.FPS != 30 {
		t.Errorf("timing not overridden: %+v", cfg.Timing)
	}
	if got := cfg.FinalVideo(); got != filepath.Join("/tmp/roundup", "news_roundup.mp4") {
		t.Errorf("unexpected final video path %q", got)
	}
}

func TestValidateRejectsBadTiming(t *testing.T) {
	cfg := Default()
	cfg.Timing.TailPad = -0.1
	if err := cfg.Validate(); err == nil {
		t.Error("negative tail_pad should not validate")
	}

	cfg = Default()
	cfg.Timing.FPS = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero fps should not validate")
	}
}

func TestValidateRejectsDuplicateTopics(t *testing.T) {
	cfg := Default()
	cfg.Topics = append(cfg.Topics, Topic{Name: "Anthropic", Queries: []string{"x"}})
	if err := cfg.Validate(); err == nil {
		t.Error("duplicate topic should not validate")
	}
}
