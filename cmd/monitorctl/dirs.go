// Copyright (C) 2025 Authstack Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/authstack/monitorctl/cmd/monitorctl/config"
)

// dataDirs returns the fixed data/log directory set: one data directory
// per monitoring tool that persists state, plus the top-level log dir.
func dataDirs(cfg config.DeployConfig) []string {
	return []string{
		filepath.Join(cfg.Paths.MonitoringDir, "prometheus", "data"),
		filepath.Join(cfg.Paths.MonitoringDir, "grafana", "data"),
		filepath.Join(cfg.Paths.MonitoringDir, "alertmanager", "data"),
		cfg.Paths.LogDir,
	}
}

// provisionDirs idempotently creates the data/log directories. An
// already-existing directory is a no-op, never an error. Returns the
// directories that were actually created.
func provisionDirs(workDir string, cfg config.DeployConfig) ([]string, error) {
	var created []string
	for _, rel := range dataDirs(cfg) {
		path := filepath.Join(workDir, rel)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.MkdirAll(path, 0755); err != nil {
			return created, fmt.Errorf("failed to create directory %s: %w", rel, err)
		}
		created = append(created, rel)
	}
	return created, nil
}
