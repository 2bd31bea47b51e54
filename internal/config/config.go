// Package config loads the process-wide, read-once engine configuration
// described in spec.md §6.1. Grounded on the teacher's viper usage
// (internal/labelmutex/policy.go reads validation.labels.mutex from
// config.yaml via a scoped viper.New() instance) and its environment-override
// convention for local config (internal/config/local_config.go's
// BEADS_SYNC_BRANCH precedence).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// EnvPrefix is the environment variable prefix for overriding any key below,
// e.g. RSQLDB_PAGE_CAPACITY=200.
const EnvPrefix = "RSQLDB"

// Config is the immutable process configuration of spec.md §6.1, read once
// at startup. There is no hot reload: a running engine's Config is fixed for
// its lifetime.
type Config struct {
	// PageFetchMS is the simulated latency (milliseconds) charged per buffer
	// admission (spec.md §4.2).
	PageFetchMS float64
	// PageCapacity is the max records per page (spec.md §4.1's PAGE_CAP).
	PageCapacity int
	// BufferCapacity is the max resident pages in the LRU buffer.
	BufferCapacity int
	// BlockJoinSize is the outer block width for block nested-loop join
	// (spec.md §4.4's BLOCK).
	BlockJoinSize int
	// Scales is the per-benchmark scale list (percentages).
	Scales []int
	// Runs is the number of runs per scale; the first run of each scale is
	// discarded (warm-up) by the benchmark driver.
	Runs int
}

// Default returns spec.md §6.1's documented defaults.
func Default() Config {
	return Config{
		PageFetchMS:    0.1,
		PageCapacity:   100,
		BufferCapacity: 50,
		BlockJoinSize:  100,
		Scales:         []int{10, 25, 50, 100},
		Runs:           5,
	}
}

// Load builds a Config from, in increasing precedence: the documented
// defaults, a "config.yaml" in dir (if present), and RSQLDB_*-prefixed
// environment variables. dir may be empty, in which case only env vars and
// defaults apply.
func Load(dir string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("page_fetch_ms", d.PageFetchMS)
	v.SetDefault("page_capacity", d.PageCapacity)
	v.SetDefault("buffer_capacity", d.BufferCapacity)
	v.SetDefault("block_join_size", d.BlockJoinSize)
	v.SetDefault("scales", d.Scales)
	v.SetDefault("runs", d.Runs)

	if dir != "" {
		configPath := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("reading %s: %w", configPath, err)
			}
		}
	}

	cfg := Config{
		PageFetchMS:    v.GetFloat64("page_fetch_ms"),
		PageCapacity:   v.GetInt("page_capacity"),
		BufferCapacity: v.GetInt("buffer_capacity"),
		BlockJoinSize:  v.GetInt("block_join_size"),
		Scales:         v.GetIntSlice("scales"),
		Runs:           v.GetInt("runs"),
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.PageCapacity <= 0 {
		return fmt.Errorf("page_capacity must be positive, got %d", c.PageCapacity)
	}
	if c.BufferCapacity <= 0 {
		return fmt.Errorf("buffer_capacity must be positive, got %d", c.BufferCapacity)
	}
	if c.BlockJoinSize <= 0 {
		return fmt.Errorf("block_join_size must be positive, got %d", c.BlockJoinSize)
	}
	if c.PageFetchMS < 0 {
		return fmt.Errorf("page_fetch_ms must be non-negative, got %f", c.PageFetchMS)
	}
	return nil
}
