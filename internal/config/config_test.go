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
	if cfg.Graphics.VSync {
		t.Error("expected vsync to be false by default")
	}

	if cfg.Window.Title != "Prism" {
		t.Errorf("expected title Prism, got %s", cfg.Window.Title)
	}
	if cfg.Scene.Path != "" {
		t.Errorf("expected built-in scene, got %s", cfg.Scene.Path)
	}
	if cfg.Camera.MoveSpeed != 0.5 {
		t.Errorf("expected move speed 0.5, got %f", cfg.Camera.MoveSpeed)
	}
	if cfg.Camera.MouseSensitivity != 0.2 {
		t.Errorf("expected mouse sensitivity 0.2, got %f", cfg.Camera.MouseSensitivity)
	}
	if cfg.Debug.ValidateBindings {
		t.Error("expected binding validation off by default")
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
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
  vsync: true

window:
  title: "Demo"
  show_stats: false

scene:
  path: "scenes/city.yaml"
  asset_root: "/data/assets"

camera:
  move_speed: 2.5
  mouse_sensitivity: 0.1

shadow:
  resolution: 2048

debug:
  validate_bindings: true
  screenshot_dir: "shots"

logging:
  level: "debug"
  log_file: "prism.log"
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
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true")
	}

	if cfg.Window.Title != "Demo" || cfg.Window.ShowStats {
		t.Errorf("unexpected window config %+v", cfg.Window)
	}
	if cfg.Scene.Path != "scenes/city.yaml" {
		t.Errorf("expected scene path, got %s", cfg.Scene.Path)
	}
	if cfg.Scene.AssetRoot != "/data/assets" {
		t.Errorf("expected asset root, got %s", cfg.Scene.AssetRoot)
	}
	if cfg.Camera.MoveSpeed != 2.5 {
		t.Errorf("expected move speed 2.5, got %f", cfg.Camera.MoveSpeed)
	}
	if cfg.Shadow.Resolution != 2048 {
		t.Errorf("expected shadow resolution 2048, got %d", cfg.Shadow.Resolution)
	}
	if !cfg.Debug.ValidateBindings {
		t.Error("expected validate_bindings to be true")
	}
	if cfg.Debug.ScreenshotDir != "shots" {
		t.Errorf("expected screenshot dir 'shots', got %s", cfg.Debug.ScreenshotDir)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "prism.log" {
		t.Errorf("expected log file 'prism.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFilePartial(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("camera:\n  move_speed: 3\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Camera.MoveSpeed != 3 {
		t.Errorf("expected move speed 3, got %f", cfg.Camera.MoveSpeed)
	}
	// untouched sections keep their defaults
	if cfg.Camera.MouseSensitivity != 0.2 {
		t.Errorf("expected default sensitivity, got %f", cfg.Camera.MouseSensitivity)
	}
	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected default width, got %d", cfg.Graphics.Width)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileRejectsBadValues(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("shadow:\n  resolution: -1\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected negative shadow resolution to be rejected")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Graphics.Width = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected zero width to be rejected")
	}

	cfg = Default()
	cfg.Camera.MoveSpeed = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected negative move speed to be rejected")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	// Save current directory
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	// Create temp directory and change to it
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create config.yaml in current directory
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				if !cfg.Debug.ValidateBindings {
					t.Error("expected binding validation with debug flag")
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "windowed flag",
			setup: func() {
				*flagWindowed = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() {
				*flagWindowed = false
			},
		},
		{
			name: "fullscreen flag",
			setup: func() {
				*flagFullscreen = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() {
				*flagFullscreen = false
			},
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Graphics.Width)
				}
				if cfg.Graphics.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name: "vsync flag",
			setup: func() {
				*flagVSync = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.VSync {
					t.Error("expected vsync with vsync flag")
				}
			},
			teardown: func() {
				*flagVSync = false
			},
		},
		{
			name: "novsync wins over vsync",
			setup: func() {
				*flagVSync = true
				*flagNoVSync = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.VSync {
					t.Error("expected novsync to disable vsync")
				}
			},
			teardown: func() {
				*flagVSync = false
				*flagNoVSync = false
			},
		},
		{
			name: "scene flag",
			setup: func() {
				*flagScene = "night.yaml"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Scene.Path != "night.yaml" {
					t.Errorf("expected scene night.yaml, got %s", cfg.Scene.Path)
				}
			},
			teardown: func() {
				*flagScene = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			tt.setup()
			defer tt.teardown()

			// Apply flags to default config
			cfg := Default()
			applyFlags(cfg)

			// Verify
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	// Load config
	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}

	// Height should be from file (900) since no flag override
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Scene.Path = "saved.yaml"
	cfg.Shadow.Resolution = 512

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Scene.Path != "saved.yaml" || loaded.Shadow.Resolution != 512 {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}
