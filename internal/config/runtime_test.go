package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.ChunkSize != 64*1024 {
		t.Errorf("ChunkSize = %d", cfg.ChunkSize)
	}
	if cfg.SuccessDelay != 3*time.Second || cfg.FailureDelay != 2*time.Second {
		t.Errorf("delays = %v/%v", cfg.SuccessDelay, cfg.FailureDelay)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing binary", func(c *Config) { c.YtDlpBinary = " " }},
		{"zero chunk", func(c *Config) { c.ChunkSize = 0 }},
		{"negative delay", func(c *Config) { c.FailureDelay = -time.Second }},
		{"missing thumbnail dir", func(c *Config) { c.ThumbnailDir = "" }},
		{"missing data dir", func(c *Config) { c.DataDir = "" }},
		{"zero log size", func(c *Config) { c.LogMaxSizeKB = 0 }},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestLoad_FromYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ytd.yaml")
	content := `
ytdlp_binary: /opt/bin/yt-dlp
chunk_size: 32768
success_delay: 5s
thumbnail_dir: /tmp/thumbs
log_level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.YtDlpBinary != "/opt/bin/yt-dlp" || cfg.ChunkSize != 32768 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.SuccessDelay != 5*time.Second {
		t.Errorf("SuccessDelay = %v", cfg.SuccessDelay)
	}
	// untouched keys keep their defaults
	if cfg.FailureDelay != 2*time.Second || cfg.LogMaxBackups != 3 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ytd.yaml")
	if err := os.WriteFile(path, []byte("chunk_size: 1024\nlog_file: file.log\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("YTD_CHUNK_SIZE", "2048")
	t.Setenv("YTD_FAILURE_DELAY", "250ms")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ChunkSize != 2048 {
		t.Errorf("ChunkSize = %d, want env value", cfg.ChunkSize)
	}
	if cfg.FailureDelay != 250*time.Millisecond {
		t.Errorf("FailureDelay = %v", cfg.FailureDelay)
	}
	if cfg.LogFile != "file.log" {
		t.Errorf("LogFile = %q, want YAML value", cfg.LogFile)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("chunk_size: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() should fail for invalid YAML")
	}
}

func TestLoad_NonexistentFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() should fail for a missing file")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	t.Setenv("YTD_CHUNK_SIZE", "-1")
	if _, err := Load(""); err == nil {
		t.Error("Load() should fail validation")
	}
}

func TestConfig_InDataDir(t *testing.T) {
	cfg := Default()
	cfg.DataDir = filepath.Join("base", "ytd")
	abs, _ := filepath.Abs("ytd.log")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"relative", "ytd.log", filepath.Join("base", "ytd", "ytd.log")},
		{"hidden dir", ".thumbnail", filepath.Join("base", "ytd", ".thumbnail")},
		{"absolute", abs, abs},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.InDataDir(tt.in); got != tt.want {
				t.Errorf("InDataDir(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
