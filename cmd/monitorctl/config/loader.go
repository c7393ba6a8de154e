// Copyright (C) 2025 Authstack Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// FileName is the optional per-deployment config file, looked up in the
// working directory (next to the compose manifests).
const FileName = "monitorctl.yaml"

var (
	// Global is the loaded singleton. Valid after Load returns nil.
	Global DeployConfig
	once   sync.Once
)

// Load populates Global exactly once: built-in defaults overlaid with
// monitorctl.yaml when present. A missing file is not an error; a file
// that exists but does not parse is.
func Load() error {
	var err error
	once.Do(func() {
		Global, err = LoadFrom(FileName)
	})
	return err
}

// LoadFrom reads a config file over the defaults. Used directly by tests;
// production code goes through Load.
func LoadFrom(path string) (DeployConfig, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c DeployConfig) validate() error {
	if c.Compose.Binary == "" {
		return fmt.Errorf("compose.binary must not be empty")
	}
	if c.Compose.BaseFile == "" || c.Compose.MonitoringFile == "" {
		return fmt.Errorf("compose base_file and monitoring_file must not be empty")
	}
	if c.Health.MaxRetries < 1 {
		return fmt.Errorf("health.max_retries must be >= 1, got %d", c.Health.MaxRetries)
	}
	if c.Health.RetryIntervalSeconds < 0 || c.Health.RequestTimeoutSeconds < 1 {
		return fmt.Errorf("health intervals must be positive")
	}
	return nil
}
