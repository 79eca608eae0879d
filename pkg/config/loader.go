package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// Initialize loads, validates, and returns ready-to-use configuration.
//
// Steps:
//  1. Read sitrepc.yaml from configDir
//  2. Expand environment variables
//  3. Parse YAML
//  4. Apply defaults for anything unset
//  5. Validate
func Initialize(_ context.Context, configDir string) (*Config, error) {
	log := slog.With("config_dir", configDir)
	log.Info("initializing configuration")

	yc, err := load(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	queueCfg := DefaultQueueConfig()
	if yc.Queue != nil {
		if err := mergo.Merge(queueCfg, yc.Queue, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge queue config: %w", err)
		}
	}

	defaultsCfg := DefaultDefaults()
	if yc.Defaults != nil {
		if err := mergo.Merge(defaultsCfg, yc.Defaults, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge pipeline defaults: %w", err)
		}
	}

	retentionCfg := DefaultRetentionConfig()
	if yc.Retention != nil {
		if err := mergo.Merge(retentionCfg, yc.Retention, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge retention config: %w", err)
		}
	}

	cfg := &Config{
		configDir: configDir,
		System:    yc.System,
		Gazetteer: yc.Gazetteer,
		Weights:   ResolveWeights(yc.Candidates),
		Queue:     queueCfg,
		Retention: retentionCfg,
		Defaults:  defaultsCfg,
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	log.Info("configuration initialized", "min_similarity", cfg.Defaults.MinSimilarity,
		"worker_count", cfg.Queue.WorkerCount)

	return cfg, nil
}

func load(configDir string) (*SitrepYAMLConfig, error) {
	path := filepath.Join(configDir, "sitrepc.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewLoadError(path, ErrConfigNotFound)
		}
		return nil, NewLoadError(path, err)
	}

	data = ExpandEnv(data)

	var yc SitrepYAMLConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return nil, NewLoadError(path, fmt.Errorf("%w: %v", ErrInvalidYAML, err))
	}

	return &yc, nil
}

func applyDefaults(cfg *Config) {
	if cfg.System == nil {
		cfg.System = DefaultSystem()
	}
	if cfg.Gazetteer == nil {
		cfg.Gazetteer = &GazetteerYAMLConfig{}
	}
}
