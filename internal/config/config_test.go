package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test graphics defaults
	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}

	// Test LOD defaults
	if !cfg.LOD.Enabled {
		t.Error("expected LOD to be enabled by default")
	}
	if cfg.LOD.Levels != 4 {
		t.Errorf("expected 4 LOD levels, got %d", cfg.LOD.Levels)
	}
	if cfg.LOD.ReductionFactor != 0.5 {
		t.Errorf("expected reduction factor 0.5, got %f", cfg.LOD.ReductionFactor)
	}
	if cfg.LOD.Mode != "screen_size" {
		t.Errorf("expected mode 'screen_size', got %s", cfg.LOD.Mode)
	}
	if cfg.LOD.Bias != 1.0 {
		t.Errorf("expected bias 1.0, got %f", cfg.LOD.Bias)
	}
	if cfg.LOD.Adaptive {
		t.Error("expected adaptive quality to be off by default")
	}
	if cfg.LOD.TargetFPS != 60 {
		t.Errorf("expected target fps 60, got %d", cfg.LOD.TargetFPS)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false
  fov_degrees: 75

lod:
  enabled: true
  levels: 6
  reduction_factor: 0.4
  mode: "triangle_budget"
  bias: 1.5
  triangle_budget: 250000
  unload_enabled: true
  unload_distance: 500
  adaptive: true
  target_fps: 120

logging:
  level: "debug"
  log_file: "viewer.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 1080 {
		t.Errorf("expected height 1080, got %d", cfg.Graphics.Height)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.FOVDegrees != 75 {
		t.Errorf("expected fov 75, got %f", cfg.Graphics.FOVDegrees)
	}

	if cfg.LOD.Levels != 6 {
		t.Errorf("expected 6 LOD levels, got %d", cfg.LOD.Levels)
	}
	if cfg.LOD.ReductionFactor != 0.4 {
		t.Errorf("expected reduction factor 0.4, got %f", cfg.LOD.ReductionFactor)
	}
	if cfg.LOD.Mode != "triangle_budget" {
		t.Errorf("expected mode 'triangle_budget', got %s", cfg.LOD.Mode)
	}
	if cfg.LOD.Bias != 1.5 {
		t.Errorf("expected bias 1.5, got %f", cfg.LOD.Bias)
	}
	if cfg.LOD.TriangleBudget != 250000 {
		t.Errorf("expected budget 250000, got %d", cfg.LOD.TriangleBudget)
	}
	if !cfg.LOD.UnloadEnabled {
		t.Error("expected unload to be enabled")
	}
	if cfg.LOD.UnloadDistance != 500 {
		t.Errorf("expected unload distance 500, got %f", cfg.LOD.UnloadDistance)
	}
	if !cfg.LOD.Adaptive {
		t.Error("expected adaptive to be enabled")
	}
	if cfg.LOD.TargetFPS != 120 {
		t.Errorf("expected target fps 120, got %d", cfg.LOD.TargetFPS)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "viewer.log" {
		t.Errorf("expected log file 'viewer.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFilePartial(t *testing.T) {
	// Values absent from the file keep their defaults
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
lod:
  levels: 8
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.LOD.Levels != 8 {
		t.Errorf("expected 8 LOD levels, got %d", cfg.LOD.Levels)
	}
	if cfg.Graphics.Width != 1280 {
		t.Errorf("width should keep its default 1280, got %d", cfg.Graphics.Width)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("{not yaml:::"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("invalid yaml should fail to load")
	}
}

func TestSaveTo(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := Default()
	cfg.LOD.Levels = 7
	cfg.LOD.Mode = "screen_error"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, configPath); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if loaded.LOD.Levels != 7 {
		t.Errorf("expected 7 LOD levels after round trip, got %d", loaded.LOD.Levels)
	}
	if loaded.LOD.Mode != "screen_error" {
		t.Errorf("expected mode 'screen_error' after round trip, got %s", loaded.LOD.Mode)
	}
}
