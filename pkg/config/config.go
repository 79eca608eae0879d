// Package config loads sitrepc's YAML configuration: system infrastructure
// settings, gazetteer reference-data paths, candidate scoring weights, the
// queue worker pool, and pipeline-wide defaults.
package config

import "github.com/nuclearfall/sitrepc2-core/pkg/candidates"

// Config is the umbrella configuration object returned by Initialize and
// used throughout the application.
type Config struct {
	configDir string

	System    *SystemYAMLConfig
	Gazetteer *GazetteerYAMLConfig
	Weights   candidates.Weights
	Queue     *QueueConfig
	Retention *RetentionConfig
	Defaults  *Defaults
}

// ConfigDir returns the directory configuration was loaded from.
func (c *Config) ConfigDir() string {
	return c.configDir
}
