package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML or TOML config file (chosen by extension) on top of Default,
// applies environment fallbacks for API keys and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parse toml config %s: %w", path, err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse yaml config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", path)
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv fills API keys from the environment when the config leaves them empty
func (c *Config) ApplyEnv() {
	if c.Transcription.OpenAI.APIKey == "" {
		c.Transcription.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if len(c.Transcription.Gemini.APIKeys) == 0 {
		for _, k := range strings.Split(os.Getenv("GEMINI_API_KEY"), ",") {
			if k = strings.TrimSpace(k); k != "" {
				c.Transcription.Gemini.APIKeys = append(c.Transcription.Gemini.APIKeys, k)
			}
		}
	}
}
