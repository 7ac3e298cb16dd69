package config

import (
	"flag"
	"time"
)

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagTier       = flag.String("tier", "", "Compression tier (fast, balanced, high, extreme)")
	flagCompressor = flag.String("compressor", "", "Path to external compressor binary")
	flagTimeout    = flag.Duration("timeout", 0, "External compressor timeout")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagTier != "" {
		cfg.Compressor.Tier = *flagTier
	}
	if *flagCompressor != "" {
		cfg.Compressor.BinaryPath = *flagCompressor
	}
	if *flagTimeout > time.Duration(0) {
		cfg.Compressor.Timeout = *flagTimeout
	}
}
