package config

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// Config holds all application configuration
type Config struct {
	// Core settings
	WorkDir    string `yaml:"work_dir"`
	ProjectDir string `yaml:"project_dir"`

	Editor    EditorConfig    `yaml:"editor"`
	Subtitles SubtitleConfig  `yaml:"subtitles"`
	Gateway   GatewayConfig   `yaml:"gateway"`
	FFmpeg    FFmpegConfig    `yaml:"ffmpeg"`
	Detection DetectionConfig `yaml:"detection"`

	// Music maps catalog names to audio file paths or URLs
	Music map[string]string `yaml:"music"`
}

// EditorConfig tunes the editing session
type EditorConfig struct {
	HistoryDepth int           `yaml:"history_depth"`
	MinTrimGap   time.Duration `yaml:"min_trim_gap"`
	SeekStep     time.Duration `yaml:"seek_step"`
	FrameRate    float64       `yaml:"frame_rate"`
}

type SubtitleConfig struct {
	FontSize     float64 `yaml:"font_size"`
	FontFile     string  `yaml:"font_file"`
	FontColor    string  `yaml:"font_color"`
	OutlineWidth int     `yaml:"outline_width"`
	BottomMargin int     `yaml:"bottom_margin"`
}

// GatewayConfig points at the hosted inference endpoint
type GatewayConfig struct {
	BaseURL  string        `yaml:"base_url" env:"CLIPFORGE_GATEWAY_URL"`
	APIKey   string        `yaml:"api_key" env:"CLIPFORGE_GATEWAY_KEY"`
	Timeout  time.Duration `yaml:"timeout"`
	Language string        `yaml:"language"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
	Threads    int    `yaml:"threads"`
	Preset     string `yaml:"preset"`
	CRF        int    `yaml:"crf"`
}

// DetectionConfig tunes local moment detection when no gateway is configured
type DetectionConfig struct {
	SceneThreshold     float64 `yaml:"scene_threshold"`
	SilenceThreshold   float64 `yaml:"silence_threshold"`
	MinSilenceDuration float64 `yaml:"min_silence_duration"`
}

// Load reads configuration from file or returns defaults
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = findConfigFile()
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if url := os.Getenv("CLIPFORGE_GATEWAY_URL"); url != "" {
		cfg.Gateway.BaseURL = url
	}
	if key := os.Getenv("CLIPFORGE_GATEWAY_KEY"); key != "" {
		cfg.Gateway.APIKey = key
	}

	return cfg, nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func defaultConfig() *Config {
	return &Config{
		WorkDir:    "./work",
		ProjectDir: "./projects",
		Editor: EditorConfig{
			HistoryDepth: 50,
			MinTrimGap:   500 * time.Millisecond,
			SeekStep:     5 * time.Second,
			FrameRate:    30,
		},
		Subtitles: SubtitleConfig{
			FontSize:     24,
			FontColor:    "#FFFFFF",
			OutlineWidth: 2,
			BottomMargin: 40,
		},
		Gateway: GatewayConfig{
			Timeout:  30 * time.Second,
			Language: "en",
		},
		FFmpeg: FFmpegConfig{
			BinaryPath: "ffmpeg",
			Threads:    0,
			Preset:     "medium",
			CRF:        23,
		},
		Detection: DetectionConfig{
			SceneThreshold:     0.4,
			SilenceThreshold:   -30.0,
			MinSilenceDuration: 1.0,
		},
	}
}

func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		"./config.yml",
		filepath.Join(os.Getenv("HOME"), ".clipforge", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return defaultConfig()
}
