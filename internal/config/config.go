// Package config handles optimizer configuration loading and management.
package config

import "time"

// Config holds all optimizer settings.
type Config struct {
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Compressor CompressorConfig `yaml:"compressor"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// PipelineConfig holds transform tolerances.
type PipelineConfig struct {
	// MergeTolerance is the spatial epsilon for vertex merging. Vertices
	// whose positions quantize to the same cell are collapsed.
	MergeTolerance float32 `yaml:"merge_tolerance"`
	// MinTriangleArea is the area threshold below which triangles are
	// considered degenerate.
	MinTriangleArea float32 `yaml:"min_triangle_area"`
	// StaticTolerance is the per-component tolerance for the static
	// animation track consensus test.
	StaticTolerance float32 `yaml:"static_tolerance"`
}

// CompressorConfig holds final-compression settings.
type CompressorConfig struct {
	Tier       string        `yaml:"tier"`        // fast, balanced, high, extreme
	BinaryPath string        `yaml:"binary_path"` // external compressor executable
	Timeout    time.Duration `yaml:"timeout"`     // wall-clock limit for the external process
	WorkDir    string        `yaml:"work_dir"`    // temp dir root, empty = system default
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			MergeTolerance:  1e-4,
			MinTriangleArea: 1e-10,
			StaticTolerance: 1e-6,
		},
		Compressor: CompressorConfig{
			Tier:       "balanced",
			BinaryPath: "gltfpack",
			Timeout:    60 * time.Second,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
