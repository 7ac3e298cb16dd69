package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Pipeline.MergeTolerance != 1e-4 {
		t.Errorf("expected merge tolerance 1e-4, got %g", cfg.Pipeline.MergeTolerance)
	}
	if cfg.Pipeline.MinTriangleArea != 1e-10 {
		t.Errorf("expected min triangle area 1e-10, got %g", cfg.Pipeline.MinTriangleArea)
	}
	if cfg.Pipeline.StaticTolerance != 1e-6 {
		t.Errorf("expected static tolerance 1e-6, got %g", cfg.Pipeline.StaticTolerance)
	}

	if cfg.Compressor.Tier != "balanced" {
		t.Errorf("expected tier 'balanced', got %s", cfg.Compressor.Tier)
	}
	if cfg.Compressor.BinaryPath != "gltfpack" {
		t.Errorf("expected binary 'gltfpack', got %s", cfg.Compressor.BinaryPath)
	}
	if cfg.Compressor.Timeout != 60*time.Second {
		t.Errorf("expected timeout 60s, got %v", cfg.Compressor.Timeout)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "meshforge.yaml")

	yamlContent := `
pipeline:
  merge_tolerance: 0.001
  min_triangle_area: 1e-8
  static_tolerance: 1e-5

compressor:
  tier: "extreme"
  binary_path: "/opt/tools/gltfpack"
  timeout: 30s

logging:
  level: "debug"
  log_file: "optimize.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Pipeline.MergeTolerance != 0.001 {
		t.Errorf("expected merge tolerance 0.001, got %g", cfg.Pipeline.MergeTolerance)
	}
	if cfg.Pipeline.MinTriangleArea != 1e-8 {
		t.Errorf("expected min triangle area 1e-8, got %g", cfg.Pipeline.MinTriangleArea)
	}
	if cfg.Pipeline.StaticTolerance != 1e-5 {
		t.Errorf("expected static tolerance 1e-5, got %g", cfg.Pipeline.StaticTolerance)
	}

	if cfg.Compressor.Tier != "extreme" {
		t.Errorf("expected tier 'extreme', got %s", cfg.Compressor.Tier)
	}
	if cfg.Compressor.BinaryPath != "/opt/tools/gltfpack" {
		t.Errorf("expected binary '/opt/tools/gltfpack', got %s", cfg.Compressor.BinaryPath)
	}
	if cfg.Compressor.Timeout != 30*time.Second {
		t.Errorf("expected timeout 30s, got %v", cfg.Compressor.Timeout)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "optimize.log" {
		t.Errorf("expected log file 'optimize.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
pipeline:
  merge_tolerance: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/meshforge.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "tier flag",
			setup: func() {
				*flagTier = "high"
			},
			verify: func(cfg *Config) {
				if cfg.Compressor.Tier != "high" {
					t.Errorf("expected tier 'high', got %s", cfg.Compressor.Tier)
				}
			},
			teardown: func() {
				*flagTier = ""
			},
		},
		{
			name: "compressor flag",
			setup: func() {
				*flagCompressor = "/usr/local/bin/gltfpack"
			},
			verify: func(cfg *Config) {
				if cfg.Compressor.BinaryPath != "/usr/local/bin/gltfpack" {
					t.Errorf("expected compressor override, got %s", cfg.Compressor.BinaryPath)
				}
			},
			teardown: func() {
				*flagCompressor = ""
			},
		},
		{
			name: "timeout flag",
			setup: func() {
				*flagTimeout = 15 * time.Second
			},
			verify: func(cfg *Config) {
				if cfg.Compressor.Timeout != 15*time.Second {
					t.Errorf("expected timeout 15s, got %v", cfg.Compressor.Timeout)
				}
			},
			teardown: func() {
				*flagTimeout = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(cfg)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "meshforge.yaml")

	cfg := Default()
	cfg.Compressor.Tier = "fast"
	cfg.Pipeline.MergeTolerance = 0.01

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}

	if loaded.Compressor.Tier != "fast" {
		t.Errorf("expected tier 'fast' after round trip, got %s", loaded.Compressor.Tier)
	}
	if loaded.Pipeline.MergeTolerance != 0.01 {
		t.Errorf("expected merge tolerance 0.01 after round trip, got %g", loaded.Pipeline.MergeTolerance)
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "meshforge.yaml")

	yamlContent := `
compressor:
  tier: "high"
  timeout: 10s
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagTier = "extreme"
	defer func() {
		*flagConfig = ""
		*flagTier = ""
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Tier should come from the flag, not the file.
	if cfg.Compressor.Tier != "extreme" {
		t.Errorf("expected tier 'extreme' from flag, got %s", cfg.Compressor.Tier)
	}

	// Timeout should come from the file since no flag override.
	if cfg.Compressor.Timeout != 10*time.Second {
		t.Errorf("expected timeout 10s from file, got %v", cfg.Compressor.Timeout)
	}
}
