package configs

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Named presets for the remote detection backend. The deployed service is the
// default; the local preset targets a backend running on port 8000.
const (
	DetectorPresetProduction = "production"
	DetectorPresetLocal      = "local"

	ProductionBackendURL = "http://leaf-diseases-detect.vercel.app"
	LocalBackendURL      = "http://localhost:8000"
)

// Config is the main configuration tree loaded from YAML.
type Config struct {
	Server struct {
		IP   string `yaml:"ip"`
		Port int    `yaml:"port"`
		Auth struct {
			Enabled bool   `yaml:"enabled"`
			Token   string `yaml:"token"`
		} `yaml:"auth"`
	} `yaml:"server"`

	Log struct {
		LogFormat string `yaml:"log_format"`
		LogLevel  string `yaml:"log_level"`
		LogDir    string `yaml:"log_dir"`
		LogFile   string `yaml:"log_file"`
	} `yaml:"log"`

	Web struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"web"`

	Upload   UploadConfig   `yaml:"upload"`
	Detector DetectorConfig `yaml:"detector"`

	SelectedModule map[string]string `yaml:"selected_module"`

	LLM   map[string]LLMConfig  `yaml:"LLM"`
	VLLLM map[string]VLLMConfig `yaml:"VLLLM"`
}

// UploadConfig bounds what the upload validator accepts.
type UploadConfig struct {
	MaxFileSize  int64    `yaml:"max_file_size"` // bytes
	AllowedTypes []string `yaml:"allowed_types"` // declared content types
	MaxWidth     int      `yaml:"max_width"`
	MaxHeight    int      `yaml:"max_height"`
	MaxPixels    int64    `yaml:"max_pixels"`
}

// DetectorConfig selects the remote detection backend.
type DetectorConfig struct {
	Endpoint    string `yaml:"endpoint"`     // production | local
	OverrideURL string `yaml:"override_url"` // wins over the preset when set
	Timeout     int    `yaml:"timeout"`      // seconds
}

// ResolveBaseURL maps the configured preset (or override) to a base URL.
func (d *DetectorConfig) ResolveBaseURL() string {
	if d.OverrideURL != "" {
		return d.OverrideURL
	}
	if d.Endpoint == DetectorPresetLocal {
		return LocalBackendURL
	}
	return ProductionBackendURL
}

// TimeoutDuration returns the backend call timeout, defaulting to 90s.
func (d *DetectorConfig) TimeoutDuration() time.Duration {
	if d.Timeout <= 0 {
		return 90 * time.Second
	}
	return time.Duration(d.Timeout) * time.Second
}

// LLMConfig configures a plain text-completion model.
type LLMConfig struct {
	Type        string  `yaml:"type"`
	ModelName   string  `yaml:"model_name"`
	BaseURL     string  `yaml:"url"`
	APIKey      string  `yaml:"api_key"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TopP        float64 `yaml:"top_p"`
}

// VLLMConfig configures a multimodal (vision) model.
type VLLMConfig struct {
	Type        string  `yaml:"type"`
	ModelName   string  `yaml:"model_name"`
	BaseURL     string  `yaml:"url"`
	APIKey      string  `yaml:"api_key"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TopP        float64 `yaml:"top_p"`
}

// LoadConfig loads from .config.yaml, falling back to config.yaml.
func LoadConfig() (*Config, string, error) {
	path := ".config.yaml"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		path = "config.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, err
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, path, err
	}
	config.ApplyDefaults()
	config.applyEnv()

	return config, path, nil
}

// ApplyDefaults fills the zero-value fields with the documented defaults.
func (c *Config) ApplyDefaults() {
	if c.Upload.MaxFileSize <= 0 {
		c.Upload.MaxFileSize = 10 * 1024 * 1024
	}
	if len(c.Upload.AllowedTypes) == 0 {
		c.Upload.AllowedTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/webp"}
	}
	if c.Upload.MaxWidth <= 0 {
		c.Upload.MaxWidth = 8192
	}
	if c.Upload.MaxHeight <= 0 {
		c.Upload.MaxHeight = 8192
	}
	if c.Upload.MaxPixels <= 0 {
		c.Upload.MaxPixels = 40_000_000
	}
	if c.Detector.Endpoint == "" {
		c.Detector.Endpoint = DetectorPresetProduction
	}
}

// applyEnv fills credentials and operational overrides from the environment.
// API keys are expected to come from .env rather than be committed in
// config.yaml, so an empty api_key in YAML is not an error here.
func (c *Config) applyEnv() {
	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		for name, cfg := range c.VLLLM {
			if cfg.APIKey == "" {
				cfg.APIKey = key
				c.VLLLM[name] = cfg
			}
		}
		for name, cfg := range c.LLM {
			if cfg.APIKey == "" {
				cfg.APIKey = key
				c.LLM[name] = cfg
			}
		}
	}
	if url := os.Getenv("LEAF_API_URL"); url != "" {
		c.Detector.OverrideURL = url
	}
	if raw := os.Getenv("MAX_UPLOAD_BYTES"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil && v > 0 {
			c.Upload.MaxFileSize = v
		}
	}
}

// SelectedVLLM returns the vision model config chosen by selected_module.
func (c *Config) SelectedVLLM() (string, *VLLMConfig, error) {
	name := c.SelectedModule["VLLLM"]
	if name == "" {
		return "", nil, fmt.Errorf("selected_module.VLLLM is not set")
	}
	cfg, ok := c.VLLLM[name]
	if !ok {
		return "", nil, fmt.Errorf("VLLLM config %q not found", name)
	}
	return name, &cfg, nil
}

// SelectedLLM returns the text model config chosen by selected_module, or nil
// when none is configured (the explanation fallback is then skipped).
func (c *Config) SelectedLLM() (string, *LLMConfig) {
	name := c.SelectedModule["LLM"]
	if name == "" {
		return "", nil
	}
	cfg, ok := c.LLM[name]
	if !ok {
		return "", nil
	}
	return name, &cfg
}
