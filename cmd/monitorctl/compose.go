// Copyright (C) 2025 Authstack Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/authstack/monitorctl/cmd/monitorctl/config"
	"github.com/authstack/monitorctl/pkg/ux"
)

var (
	// ErrDaemonUnreachable is returned when the container daemon does not
	// answer the status probe.
	ErrDaemonUnreachable = errors.New("container daemon unreachable")

	// ErrComposeFileMissing is returned when a required compose file or
	// monitoring config file does not exist.
	ErrComposeFileMissing = errors.New("required file not found")
)

// ComposeRunner wraps the container orchestration CLI (docker compose by
// default) for the deployment pipeline.
//
// The compose file set is fixed per environment: base + monitoring always,
// plus the development overlay only for development deploys, plus any
// configured extension files that exist on disk.
type ComposeRunner struct {
	proc    ProcessManager
	cfg     config.ComposeConfig
	workDir string
}

// NewComposeRunner creates a runner rooted at workDir.
func NewComposeRunner(proc ProcessManager, cfg config.ComposeConfig, workDir string) *ComposeRunner {
	return &ComposeRunner{proc: proc, cfg: cfg, workDir: workDir}
}

// DaemonReachable probes the container daemon with a single status call.
func (c *ComposeRunner) DaemonReachable(ctx context.Context) error {
	_, stderr, _, err := c.proc.Run(ctx, c.workDir, nil, c.cfg.Binary, "info")
	if err != nil {
		detail := strings.TrimSpace(stderr)
		if detail == "" {
			detail = err.Error()
		}
		return fmt.Errorf("%w: %s", ErrDaemonUnreachable, detail)
	}
	return nil
}

// FileSet returns the compose files for the environment, in layering order.
// The dev overlay and extensions are included only when present on disk.
func (c *ComposeRunner) FileSet(env Environment) []string {
	files := []string{c.cfg.BaseFile, c.cfg.MonitoringFile}
	if env == EnvDevelopment && c.cfg.DevFile != "" {
		if _, err := os.Stat(filepath.Join(c.workDir, c.cfg.DevFile)); err == nil {
			files = append(files, c.cfg.DevFile)
		}
	}
	for _, ext := range c.cfg.Extensions {
		if _, err := os.Stat(filepath.Join(c.workDir, ext)); err == nil {
			files = append(files, ext)
		} else {
			ux.Warning(fmt.Sprintf("Extension compose file not found, skipping: %s", ext))
		}
	}
	return files
}

// args assembles the full CLI argument list for one compose operation.
func (c *ComposeRunner) args(env Environment, op ...string) []string {
	args := append([]string{}, c.cfg.ComposeArgs...)
	if c.cfg.Project != "" {
		args = append(args, "-p", c.cfg.Project)
	}
	for _, f := range c.FileSet(env) {
		args = append(args, "-f", f)
	}
	return append(args, op...)
}

// Build builds the application images for the environment. Output streams
// to the terminal; a non-zero exit surfaces as an error carrying the
// command line for the failure message.
func (c *ComposeRunner) Build(ctx context.Context, env Environment) error {
	args := c.args(env, "build")
	ux.Muted(fmt.Sprintf("Executing: %s %s", c.cfg.Binary, strings.Join(args, " ")))
	if err := c.proc.Stream(ctx, c.workDir, nil, c.cfg.Binary, args...); err != nil {
		return fmt.Errorf("image build failed: %w", err)
	}
	return nil
}

// Up starts the named services detached. An empty service list starts
// everything in the file set.
func (c *ComposeRunner) Up(ctx context.Context, env Environment, services ...string) error {
	op := append([]string{"up", "-d"}, services...)
	args := c.args(env, op...)
	ux.Muted(fmt.Sprintf("Executing: %s %s", c.cfg.Binary, strings.Join(args, " ")))
	if err := c.proc.Stream(ctx, c.workDir, nil, c.cfg.Binary, args...); err != nil {
		return fmt.Errorf("failed to start %s: %w", strings.Join(services, ", "), err)
	}
	return nil
}

// Down stops and removes all services in the file set, optionally
// removing volumes as well (clean start).
func (c *ComposeRunner) Down(ctx context.Context, env Environment, removeVolumes bool) error {
	op := []string{"down", "--remove-orphans"}
	if removeVolumes {
		op = append(op, "-v")
	}
	args := c.args(env, op...)
	ux.Muted(fmt.Sprintf("Executing: %s %s", c.cfg.Binary, strings.Join(args, " ")))
	if err := c.proc.Stream(ctx, c.workDir, nil, c.cfg.Binary, args...); err != nil {
		return fmt.Errorf("teardown failed: %w", err)
	}
	return nil
}

// Logs streams logs for the named services (or all) until interrupted.
func (c *ComposeRunner) Logs(ctx context.Context, env Environment, services ...string) error {
	op := append([]string{"logs", "-f"}, services...)
	return c.proc.Stream(ctx, c.workDir, nil, c.cfg.Binary, c.args(env, op...)...)
}
