package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Video     VideoConfig     `yaml:"video"`
	Audio     AudioConfig     `yaml:"audio"`
	Subtitles SubtitlesConfig `yaml:"subtitles"`
	Music     MusicConfig     `yaml:"music"`
	Paths     PathsConfig     `yaml:"paths"`
}

type VideoConfig struct {
	AspectRatio   string `yaml:"aspect_ratio"` // 9:16 | 16:9 | 1:1
	FPS           int    `yaml:"fps"`
	RenderWorkers int    `yaml:"render_workers"`
}

type AudioConfig struct {
	// SpeedFactor is the uniform narration tempo multiplier. Always > 1:
	// a pacing choice, not a mismatch correction.
	SpeedFactor float64 `yaml:"speed_factor"`
	VolumeBoost float64 `yaml:"volume_boost"`
}

type SubtitlesConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Font     string `yaml:"font"`
	FontFile string `yaml:"font_file"`
	FontSize int    `yaml:"font_size"`
}

type MusicConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Volume     float64 `yaml:"volume"`
	LibraryDir string  `yaml:"library_dir"`
}

type PathsConfig struct {
	Output string `yaml:"output"`
	Assets string `yaml:"assets"`
}

// Load reads a YAML config file and applies defaults. Unmarshal runs
// over a defaulted struct, so absent fields keep their defaults while an
// explicit `enabled: false` still wins.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when no config file is given.
// Subtitles and background music are on by default; both are core to the
// output format, not extras.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.Subtitles.Enabled = true
	cfg.Music.Enabled = true
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Video.AspectRatio == "" {
		c.Video.AspectRatio = "9:16"
	}
	if c.Video.FPS == 0 {
		c.Video.FPS = 30
	}
	if c.Video.RenderWorkers == 0 {
		c.Video.RenderWorkers = 2
	}
	if c.Audio.SpeedFactor == 0 {
		c.Audio.SpeedFactor = 1.2
	}
	if c.Audio.VolumeBoost == 0 {
		c.Audio.VolumeBoost = 1.5
	}
	if c.Subtitles.Font == "" {
		c.Subtitles.Font = "NanumSquare"
	}
	if c.Subtitles.FontFile == "" {
		c.Subtitles.FontFile = "fonts/NanumSquareB.ttf"
	}
	if c.Subtitles.FontSize == 0 {
		c.Subtitles.FontSize = 130
	}
	if c.Music.Volume == 0 {
		c.Music.Volume = 0.06
	}
	if c.Music.LibraryDir == "" {
		c.Music.LibraryDir = "background_music"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "output"
	}
	if c.Paths.Assets == "" {
		c.Paths.Assets = "assets"
	}
}

// Validate rejects settings the composition engine cannot honor.
func (c *Config) Validate() error {
	if _, _, err := c.Resolution(); err != nil {
		return err
	}
	if c.Video.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.Video.FPS)
	}
	if c.Video.RenderWorkers <= 0 {
		return fmt.Errorf("render_workers must be positive, got %d", c.Video.RenderWorkers)
	}
	if c.Audio.SpeedFactor <= 0 {
		return fmt.Errorf("speed_factor must be positive, got %.3f", c.Audio.SpeedFactor)
	}
	if c.Music.Volume < 0 || c.Music.Volume > 1 {
		return fmt.Errorf("music volume must be between 0 and 1, got %.3f", c.Music.Volume)
	}
	return nil
}

// Resolution maps the configured aspect ratio to output pixel dimensions.
func (c *Config) Resolution() (width, height int, err error) {
	switch c.Video.AspectRatio {
	case "9:16":
		return 1080, 1920, nil
	case "16:9":
		return 1920, 1080, nil
	case "1:1":
		return 1080, 1080, nil
	default:
		return 0, 0, fmt.Errorf("unsupported aspect ratio %q", c.Video.AspectRatio)
	}
}
