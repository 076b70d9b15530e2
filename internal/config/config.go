// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Graphics   GraphicsConfig   `yaml:"graphics"`
	Model      ModelConfig      `yaml:"model"`
	Viewer     ViewerConfig     `yaml:"viewer"`
	Screenshot ScreenshotConfig `yaml:"screenshot"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Fullscreen bool    `yaml:"fullscreen"`
	VSync      bool    `yaml:"vsync"`
	PixelRatio float64 `yaml:"pixel_ratio"` // upper bound on drawable/window ratio
}

// ModelConfig says where the base64 model payload comes from.
// Payload wins over PayloadFile; the MODEL_BASE64 environment variable wins over both.
type ModelConfig struct {
	Payload     string `yaml:"payload"`
	PayloadFile string `yaml:"payload_file"`
}

// ViewerConfig holds the initial control values.
type ViewerConfig struct {
	Brightness float64    `yaml:"brightness"`
	Saturation float64    `yaml:"saturation"`
	Background [3]float32 `yaml:"background"`
	Preset     string     `yaml:"preset"` // optional preset applied at startup
}

// ScreenshotConfig holds screenshot output settings.
type ScreenshotConfig struct {
	Dir         string `yaml:"dir"`
	Filename    string `yaml:"filename"`
	Timestamped bool   `yaml:"timestamped"`
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
			VSync:      true,
			PixelRatio: 2,
		},
		Viewer: ViewerConfig{
			Brightness: 1,
			Saturation: 0.5,
			Background: [3]float32{0x07 / 255.0, 0x10 / 255.0, 0x18 / 255.0},
		},
		Screenshot: ScreenshotConfig{
			Filename: "screenshot.png",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
