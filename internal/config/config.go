package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultWatchPath  = "/share"
	DefaultExtension  = ".webm"
	DefaultListenAddr = ":5000"

	// DefaultSettleDelay gives a copy in progress time to write its first bytes
	DefaultSettleDelay = 500 * time.Millisecond
	DefaultCRF         = 23
)

// Transcription providers
const (
	ProviderWhisperCpp = "whisper.cpp"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
)

type Config struct {
	Watch         WatchConfig         `yaml:"watch" toml:"watch"`
	Server        ServerConfig        `yaml:"server" toml:"server"`
	FFmpeg        FFmpegConfig        `yaml:"ffmpeg" toml:"ffmpeg"`
	Transcription TranscriptionConfig `yaml:"transcription" toml:"transcription"`
	Paths         PathsConfig         `yaml:"paths" toml:"paths"`
	Logging       LoggingConfig       `yaml:"logging" toml:"logging"`
	Performance   PerformanceConfig   `yaml:"performance" toml:"performance"`
}

type WatchConfig struct {
	Path        string        `yaml:"path" toml:"path"`
	Extension   string        `yaml:"extension" toml:"extension"`
	SettleDelay time.Duration `yaml:"settle_delay" toml:"settle_delay"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" toml:"addr"`
}

type FFmpegConfig struct {
	BinaryPath   string `yaml:"binary_path" toml:"binary_path"`
	ProbePath    string `yaml:"probe_path" toml:"probe_path"`
	VideoCodec   string `yaml:"video_codec" toml:"video_codec"`
	AudioCodec   string `yaml:"audio_codec" toml:"audio_codec"`
	AudioBitrate string `yaml:"audio_bitrate" toml:"audio_bitrate"`
	Preset       string `yaml:"preset" toml:"preset"`
	// nil means DefaultCRF; 0 is lossless
	CRF          *int   `yaml:"crf" toml:"crf"`
	OutputExt    string `yaml:"output_ext" toml:"output_ext"`
}

type TranscriptionConfig struct {
	Provider string        `yaml:"provider" toml:"provider"`
	Language string        `yaml:"language" toml:"language"`
	Whisper  WhisperConfig `yaml:"whisper" toml:"whisper"`
	OpenAI   OpenAIConfig  `yaml:"openai" toml:"openai"`
	Gemini   GeminiConfig  `yaml:"gemini" toml:"gemini"`
}

type WhisperConfig struct {
	ModelPath  string `yaml:"model_path" toml:"model_path"`
	BinaryPath string `yaml:"binary_path" toml:"binary_path"`
	Prompt     string `yaml:"prompt" toml:"prompt"`
	Threads    int    `yaml:"threads" toml:"threads"`
}

type OpenAIConfig struct {
	APIKey  string `yaml:"api_key" toml:"api_key"`
	Model   string `yaml:"model" toml:"model"`
	BaseURL string `yaml:"base_url" toml:"base_url"`
}

type GeminiConfig struct {
	APIKeys []string `yaml:"api_keys" toml:"api_keys"`
	Model   string   `yaml:"model" toml:"model"`
}

type PathsConfig struct {
	Temp string `yaml:"temp" toml:"temp"`
}

type LoggingConfig struct {
	Level      string `yaml:"level" toml:"level"`
	File       string `yaml:"file" toml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" toml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" toml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" toml:"max_age_days"`
	Compress   bool   `yaml:"compress" toml:"compress"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" toml:"max_concurrent"`
}

// Default returns the configuration the service runs with when no config file is given
func Default() *Config {
	cfg := &Config{}
	cfg.Watch.Path = DefaultWatchPath
	cfg.Watch.Extension = DefaultExtension
	cfg.Server.Addr = DefaultListenAddr
	cfg.Watch.SettleDelay = DefaultSettleDelay
	cfg.Transcription.Whisper.ModelPath = "models/ggml-base.bin"
	cfg.applyDefaults()
	return cfg
}

func (c *Config) Validate() error {
	if c.Watch.Path == "" {
		return fmt.Errorf("watch.path is required")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Watch.SettleDelay < 0 {
		return fmt.Errorf("watch.settle_delay must not be negative")
	}
	if c.FFmpeg.CRF != nil && (*c.FFmpeg.CRF < 0 || *c.FFmpeg.CRF > 51) {
		return fmt.Errorf("ffmpeg.crf must be between 0 and 51")
	}
	if c.Performance.MaxConcurrent < 0 {
		return fmt.Errorf("performance.max_concurrent must not be negative")
	}

	c.applyDefaults()

	switch c.Transcription.Provider {
	case ProviderWhisperCpp:
		if c.Transcription.Whisper.ModelPath == "" {
			return fmt.Errorf("transcription.whisper.model_path is required")
		}
	case ProviderOpenAI:
		if c.Transcription.OpenAI.APIKey == "" {
			return fmt.Errorf("transcription.openai.api_key is required (or set OPENAI_API_KEY)")
		}
	case ProviderGemini:
		if len(c.Transcription.Gemini.APIKeys) == 0 {
			return fmt.Errorf("transcription.gemini.api_keys is required (or set GEMINI_API_KEY)")
		}
	default:
		return fmt.Errorf("unsupported transcription.provider: %s", c.Transcription.Provider)
	}

	return nil
}

func (c *Config) applyDefaults() {
	ext := strings.ToLower(strings.TrimSpace(c.Watch.Extension))
	if ext == "" {
		ext = DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	c.Watch.Extension = ext

	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.ProbePath == "" {
		c.FFmpeg.ProbePath = "ffprobe"
	}
	if c.FFmpeg.VideoCodec == "" {
		c.FFmpeg.VideoCodec = "libx264"
	}
	if c.FFmpeg.AudioCodec == "" {
		c.FFmpeg.AudioCodec = "aac"
	}
	if c.FFmpeg.AudioBitrate == "" {
		c.FFmpeg.AudioBitrate = "128k"
	}
	if c.FFmpeg.Preset == "" {
		c.FFmpeg.Preset = "medium"
	}
	if c.FFmpeg.CRF == nil {
		crf := DefaultCRF
		c.FFmpeg.CRF = &crf
	}
	if c.FFmpeg.OutputExt == "" {
		c.FFmpeg.OutputExt = ".mp4"
	}

	if c.Transcription.Provider == "" {
		c.Transcription.Provider = ProviderWhisperCpp
	}
	if c.Transcription.Language == "" {
		c.Transcription.Language = "auto"
	}
	if c.Transcription.Whisper.BinaryPath == "" {
		c.Transcription.Whisper.BinaryPath = "whisper-cli"
	}
	if c.Transcription.Whisper.Threads == 0 {
		c.Transcription.Whisper.Threads = 4
	}
	if c.Transcription.OpenAI.Model == "" {
		c.Transcription.OpenAI.Model = "whisper-1"
	}
	if c.Transcription.Gemini.Model == "" {
		c.Transcription.Gemini.Model = "gemini-2.5-flash"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = 100
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = 5
	}
	if c.Logging.MaxAgeDays == 0 {
		c.Logging.MaxAgeDays = 30
	}

	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}
}
