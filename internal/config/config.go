// Package config handles application configuration loading and management.
package config

// Config holds all settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Window   WindowConfig   `yaml:"window"`
	Scene    SceneConfig    `yaml:"scene"`
	Camera   CameraConfig   `yaml:"camera"`
	Shadow   ShadowConfig   `yaml:"shadow"`
	Debug    DebugConfig    `yaml:"debug"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// WindowConfig holds window decoration settings.
type WindowConfig struct {
	Title     string `yaml:"title"`
	ShowStats bool   `yaml:"show_stats"` // FPS and frame time in the title
}

// SceneConfig selects the scene description and where its files live.
type SceneConfig struct {
	Path      string `yaml:"path"`       // empty = built-in scene
	AssetRoot string `yaml:"asset_root"` // textures and shader overrides
}

// CameraConfig holds fly camera settings.
type CameraConfig struct {
	MoveSpeed        float32 `yaml:"move_speed"`
	MouseSensitivity float32 `yaml:"mouse_sensitivity"`
}

// ShadowConfig holds shadow map settings.
type ShadowConfig struct {
	Resolution int `yaml:"resolution"` // 0 = default
}

// DebugConfig holds developer settings.
type DebugConfig struct {
	ValidateBindings bool   `yaml:"validate_bindings"`
	ScreenshotDir    string `yaml:"screenshot_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      false,
		},
		Window: WindowConfig{
			Title:     "Prism",
			ShowStats: true,
		},
		Scene: SceneConfig{
			Path:      "",
			AssetRoot: "assets",
		},
		Camera: CameraConfig{
			MoveSpeed:        0.5,
			MouseSensitivity: 0.2,
		},
		Shadow: ShadowConfig{
			Resolution: 0,
		},
		Debug: DebugConfig{
			ValidateBindings: false,
			ScreenshotDir:    "screenshots",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
