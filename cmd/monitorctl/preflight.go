// Copyright (C) 2025 Authstack Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/authstack/monitorctl/cmd/monitorctl/config"
)

// requiredFiles returns the fixed set of files that must exist before any
// container command is issued: the two compose manifests and the three
// monitoring tool configs.
func requiredFiles(cfg config.DeployConfig) []string {
	return []string{
		cfg.Compose.BaseFile,
		cfg.Compose.MonitoringFile,
		filepath.Join(cfg.Paths.MonitoringDir, "prometheus.yml"),
		filepath.Join(cfg.Paths.MonitoringDir, "alertmanager.yml"),
		filepath.Join(cfg.Paths.MonitoringDir, "alert_rules.yml"),
	}
}

// checkRequiredFiles verifies every required file exists under workDir,
// naming the first missing file in the error.
func checkRequiredFiles(workDir string, cfg config.DeployConfig) error {
	for _, rel := range requiredFiles(cfg) {
		if _, err := os.Stat(filepath.Join(workDir, rel)); err != nil {
			return fmt.Errorf("%w: %s", ErrComposeFileMissing, rel)
		}
	}
	return nil
}

// preflight verifies the container daemon is reachable and the required
// files exist. Both failures are fatal, each with a distinct message.
func (p *Pipeline) preflight(ctx context.Context) error {
	if err := p.compose.DaemonReachable(ctx); err != nil {
		return err
	}
	p.log.Info("container daemon reachable", "binary", p.cfg.Compose.Binary)

	if err := checkRequiredFiles(p.workDir, p.cfg); err != nil {
		return err
	}
	p.log.Info("required files present", "count", len(requiredFiles(p.cfg)))
	return nil
}
