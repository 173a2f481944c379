package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. YTD_CHUNK_SIZE
const EnvPrefix = "YTD"

// Config is the runtime configuration shared by the GUI and the CLI
type Config struct {
	YtDlpBinary     string        `yaml:"ytdlp_binary" envconfig:"YTDLP_BINARY"`
	UseLibraryList  bool          `yaml:"use_library_list" envconfig:"USE_LIBRARY_LIST"`
	ProbeTimeout    time.Duration `yaml:"probe_timeout" envconfig:"PROBE_TIMEOUT"`
	ChunkSize       int           `yaml:"chunk_size" envconfig:"CHUNK_SIZE"`
	ResponseTimeout time.Duration `yaml:"response_timeout" envconfig:"RESPONSE_TIMEOUT"`
	UserAgent       string        `yaml:"user_agent" envconfig:"USER_AGENT"`
	SuccessDelay    time.Duration `yaml:"success_delay" envconfig:"SUCCESS_DELAY"`
	FailureDelay    time.Duration `yaml:"failure_delay" envconfig:"FAILURE_DELAY"`
	DownloadDir     string        `yaml:"download_dir" envconfig:"DOWNLOAD_DIR"`
	ThumbnailDir    string        `yaml:"thumbnail_dir" envconfig:"THUMBNAIL_DIR"`
	DataDir         string        `yaml:"data_dir" envconfig:"DATA_DIR"`
	LogFile         string        `yaml:"log_file" envconfig:"LOG_FILE"`
	LogLevel        string        `yaml:"log_level" envconfig:"LOG_LEVEL"`
	LogMaxSizeKB    int           `yaml:"log_max_size_kb" envconfig:"LOG_MAX_SIZE_KB"` // rotation works in whole MB, rounded up
	LogMaxBackups   int           `yaml:"log_max_backups" envconfig:"LOG_MAX_BACKUPS"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		YtDlpBinary:     "yt-dlp",
		UseLibraryList:  true,
		ProbeTimeout:    60 * time.Second,
		ChunkSize:       64 * 1024,
		ResponseTimeout: 30 * time.Second,
		UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		SuccessDelay:    3 * time.Second,
		FailureDelay:    2 * time.Second,
		DownloadDir:     DefaultDownloadDirectory(),
		ThumbnailDir:    ".thumbnail",
		DataDir:         defaultDataDir(),
		LogFile:         "ytd.log",
		LogLevel:        "info",
		LogMaxSizeKB:    512,
		LogMaxBackups:   3,
	}
}

// Load reads configuration from file and environment variables.
// Built-in defaults come first, then the YAML file, then the environment.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Validate checks that values are usable
func (c *Config) Validate() error {
	if strings.TrimSpace(c.YtDlpBinary) == "" {
		return fmt.Errorf("YTDLP_BINARY is required")
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.SuccessDelay < 0 || c.FailureDelay < 0 {
		return fmt.Errorf("status delays must not be negative")
	}
	if c.ThumbnailDir == "" {
		return fmt.Errorf("THUMBNAIL_DIR is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	if c.LogMaxSizeKB <= 0 {
		return fmt.Errorf("LOG_MAX_SIZE_KB must be positive, got %d", c.LogMaxSizeKB)
	}
	if c.LogMaxBackups < 0 {
		return fmt.Errorf("LOG_MAX_BACKUPS must not be negative")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error; got %q", c.LogLevel)
	}
	return nil
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".ytd"
	}
	return filepath.Join(dir, "ytd")
}

// InDataDir resolves a relative path against DataDir; absolute paths are returned as is
func (c *Config) InDataDir(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.DataDir, path)
}
