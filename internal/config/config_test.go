package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Tracker.BaseURL != "http://localhost:8181" {
		t.Errorf("expected default tracker base_url 'http://localhost:8181', got %q", cfg.Tracker.BaseURL)
	}

	if cfg.Tracker.Timeout != 30*time.Second {
		t.Errorf("expected default tracker timeout 30s, got %v", cfg.Tracker.Timeout)
	}

	if cfg.Tracker.Assignee != "GenesisFeatureAgent" {
		t.Errorf("expected default assignee 'GenesisFeatureAgent', got %q", cfg.Tracker.Assignee)
	}

	if cfg.Defaults.MaxParallel != 3 {
		t.Errorf("expected default max_parallel 3, got %d", cfg.Defaults.MaxParallel)
	}

	if !cfg.Defaults.GitInit {
		t.Error("expected defaults.git_init to be true")
	}

	if !cfg.Defaults.OfflineFallback {
		t.Error("expected defaults.offline_fallback to be true")
	}

	if cfg.Workspace.Root != "." {
		t.Errorf("expected default workspace root '.', got %q", cfg.Workspace.Root)
	}

	if cfg.TUI.RefreshRate != 100*time.Millisecond {
		t.Errorf("expected refresh rate 100ms, got %v", cfg.TUI.RefreshRate)
	}
}

func TestLoadFromPath(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
tracker:
  base_url: http://tracker.internal:9090
  timeout: 10s
  assignee: ReleaseBot
anthropic:
  api_key: test-key
  model: claude-sonnet-4-20250514
  use_bedrock: true
  aws_region: us-west-2
defaults:
  max_parallel: 5
  git_init: false
workspace:
  root: /srv/projects
  patterns_file: patterns.yaml
tui:
  refresh_rate: 200ms
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Tracker.BaseURL != "http://tracker.internal:9090" {
		t.Errorf("expected base_url 'http://tracker.internal:9090', got %q", cfg.Tracker.BaseURL)
	}

	if cfg.Tracker.Timeout != 10*time.Second {
		t.Errorf("expected tracker timeout 10s, got %v", cfg.Tracker.Timeout)
	}

	if cfg.Tracker.Assignee != "ReleaseBot" {
		t.Errorf("expected assignee 'ReleaseBot', got %q", cfg.Tracker.Assignee)
	}

	if cfg.Anthropic.APIKey != "test-key" {
		t.Errorf("expected api_key 'test-key', got %q", cfg.Anthropic.APIKey)
	}

	if cfg.Anthropic.Model != "claude-sonnet-4-20250514" {
		t.Errorf("expected model 'claude-sonnet-4-20250514', got %q", cfg.Anthropic.Model)
	}

	if !cfg.Anthropic.UseBedrock {
		t.Error("expected anthropic.use_bedrock to be true")
	}

	if cfg.Anthropic.AWSRegion != "us-west-2" {
		t.Errorf("expected aws_region 'us-west-2', got %q", cfg.Anthropic.AWSRegion)
	}

	if cfg.Defaults.MaxParallel != 5 {
		t.Errorf("expected max_parallel 5, got %d", cfg.Defaults.MaxParallel)
	}

	if cfg.Defaults.GitInit {
		t.Error("expected defaults.git_init to be false")
	}

	// Keys absent from the file keep their defaults.
	if !cfg.Defaults.OfflineFallback {
		t.Error("expected defaults.offline_fallback to keep its default true")
	}

	if cfg.Workspace.Root != "/srv/projects" {
		t.Errorf("expected workspace root '/srv/projects', got %q", cfg.Workspace.Root)
	}

	if cfg.Workspace.PatternsFile != "patterns.yaml" {
		t.Errorf("expected patterns_file 'patterns.yaml', got %q", cfg.Workspace.PatternsFile)
	}

	if cfg.TUI.RefreshRate != 200*time.Millisecond {
		t.Errorf("expected refresh rate 200ms, got %v", cfg.TUI.RefreshRate)
	}
}

func TestLoadFromPathMissingFile(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	cfg.Tracker.BaseURL = "http://tracker.internal:9191"
	cfg.Anthropic.Model = "claude-haiku-4-5-20251001"
	cfg.Defaults.MaxParallel = 2

	if err := Save(cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadFromPath(GetUserConfigPath())
	if err != nil {
		t.Fatalf("LoadFromPath after Save failed: %v", err)
	}

	if loaded.Tracker.BaseURL != "http://tracker.internal:9191" {
		t.Errorf("expected saved base_url to round-trip, got %q", loaded.Tracker.BaseURL)
	}

	if loaded.Anthropic.Model != "claude-haiku-4-5-20251001" {
		t.Errorf("expected saved model to round-trip, got %q", loaded.Anthropic.Model)
	}

	if loaded.Defaults.MaxParallel != 2 {
		t.Errorf("expected saved max_parallel 2, got %d", loaded.Defaults.MaxParallel)
	}

	if loaded.TUI.RefreshRate != 100*time.Millisecond {
		t.Errorf("expected refresh rate to survive round-trip, got %v", loaded.TUI.RefreshRate)
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("TEST_VAR", "expanded-value")

	result := expandEnv("${TEST_VAR}")
	if result != "expanded-value" {
		t.Errorf("expected 'expanded-value', got %q", result)
	}

	result = expandEnv("prefix-${TEST_VAR}-suffix")
	if result != "prefix-expanded-value-suffix" {
		t.Errorf("expected 'prefix-expanded-value-suffix', got %q", result)
	}
}

func TestGetUserConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	dir := getUserConfigDir()
	expected := "/custom/config/genesis"
	if dir != expected {
		t.Errorf("expected %q, got %q", expected, dir)
	}
}

func TestFindProjectConfig(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, ".genesis.yaml"), []byte("defaults:\n  max_parallel: 4\n"), 0644); err != nil {
		t.Fatalf("failed to write project config: %v", err)
	}

	nested := filepath.Join(tmpDir, "apps", "web")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("failed to create nested dir: %v", err)
	}
	t.Chdir(nested)

	got := findProjectConfig()
	if got == "" {
		t.Fatal("expected to find .genesis.yaml in a parent directory")
	}
	if filepath.Base(got) != ".genesis.yaml" {
		t.Errorf("expected a .genesis.yaml path, got %q", got)
	}
}
