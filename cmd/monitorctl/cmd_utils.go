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
	"time"

	"github.com/authstack/monitorctl/cmd/monitorctl/config"
	"github.com/authstack/monitorctl/pkg/logging"
	"github.com/authstack/monitorctl/pkg/ux"
)

// appRuntime bundles the collaborators every command needs: loaded config,
// logger, compose runner, health checker, and the resolved environment.
type appRuntime struct {
	cfg     config.DeployConfig
	logger  *logging.Logger
	compose *ComposeRunner
	checker HealthChecker
	workDir string
	env     Environment
}

// buildRuntime assembles the runtime from the global flags. Errors here are
// operator mistakes (bad env name, malformed config), reported before any
// container command runs.
func buildRuntime() (*appRuntime, error) {
	env, err := ParseEnvironment(environment)
	if err != nil {
		return nil, err
	}

	var cfg config.DeployConfig
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		err = config.Load()
		cfg = config.Global
	}
	if err != nil {
		return nil, err
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("cannot determine working directory: %w", err)
	}

	logDir := ""
	if cfg.Logging.ToFile {
		logDir = cfg.Paths.LogDir
	}
	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(cfg.Logging.Level),
		LogDir:  logDir,
		Service: "monitorctl",
	})

	checker := NewDefaultHealthChecker(HealthCheckerConfig{
		DefaultTimeout: time.Duration(cfg.Health.RequestTimeoutSeconds) * time.Second,
	})

	return &appRuntime{
		cfg:     cfg,
		logger:  logger,
		compose: NewComposeRunner(NewDefaultProcessManager(), cfg.Compose, workDir),
		checker: checker,
		workDir: workDir,
		env:     env,
	}, nil
}

// fatal reports an error and exits 1. Used by command handlers for
// failures that must stop the process.
func fatal(err error) {
	ux.Error(err.Error())
	os.Exit(1)
}
