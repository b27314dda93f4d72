// Package config loads the YAML configuration for the asyncrtd driver:
// a plain yaml-tagged struct loaded with gopkg.in/yaml.v3, with
// defaults filled in before Unmarshal rather than via struct tags.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level asyncrtd configuration document.
type Config struct {
	Runtime struct {
		Workers int `yaml:"workers"`
	} `yaml:"runtime"`

	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Addr    string `yaml:"addr"`
	} `yaml:"metrics"`

	Demo struct {
		// SleepJobs spawns this many computations that each Sleep for
		// JobDuration and then complete, for exercising the timer
		// reactor end-to-end from the CLI.
		SleepJobs   int           `yaml:"sleep_jobs"`
		JobDuration time.Duration `yaml:"job_duration"`
	} `yaml:"demo"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	var cfg Config
	cfg.Runtime.Workers = 4
	cfg.Metrics.Enabled = false
	cfg.Metrics.Addr = ":9090"
	cfg.Demo.SleepJobs = 0
	cfg.Demo.JobDuration = 200 * time.Millisecond
	return cfg
}

// Load reads and parses a YAML config file at path, keeping the
// defaults for any field the file omits; a field the file sets
// explicitly, even to its zero value, takes the file's value. An empty
// path returns Default() unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	loaded := Default()
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return loaded, nil
}
