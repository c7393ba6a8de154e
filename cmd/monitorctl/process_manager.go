// Copyright (C) 2025 Authstack Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"sync"
)

// ProcessManager handles external process operations.
//
// All docker/compose invocations in the pipeline go through this interface
// so unit tests can record invocations and simulate failures without a
// container daemon.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use.
type ProcessManager interface {
	// Run executes a command and returns captured stdout, stderr, and the
	// exit code. A non-zero exit is reported through err as well, so
	// callers that only care about success can check err alone.
	Run(ctx context.Context, dir string, env []string, name string, args ...string) (stdout, stderr string, exitCode int, err error)

	// Stream executes a command with stdout/stderr attached to the
	// terminal. Used for long operations whose progress the operator
	// should see live (build, up, logs).
	Stream(ctx context.Context, dir string, env []string, name string, args ...string) error
}

// DefaultProcessManager is the production implementation over os/exec.
type DefaultProcessManager struct{}

// NewDefaultProcessManager creates a production process manager.
func NewDefaultProcessManager() *DefaultProcessManager {
	return &DefaultProcessManager{}
}

func (p *DefaultProcessManager) Run(ctx context.Context, dir string, env []string, name string, args ...string) (string, string, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if env != nil {
		cmd.Env = append(os.Environ(), env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		exitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
	}
	return stdout.String(), stderr.String(), exitCode, err
}

func (p *DefaultProcessManager) Stream(ctx context.Context, dir string, env []string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if env != nil {
		cmd.Env = append(os.Environ(), env...)
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// ProcessCall records one invocation against a MockProcessManager.
type ProcessCall struct {
	Dir  string
	Env  []string
	Name string
	Args []string
}

// MockProcessManager is a configurable mock for unit tests.
//
// Function fields override behavior; unset fields report success with
// empty output. Every invocation is recorded in Calls.
type MockProcessManager struct {
	RunFunc    func(ctx context.Context, dir string, env []string, name string, args ...string) (string, string, int, error)
	StreamFunc func(ctx context.Context, dir string, env []string, name string, args ...string) error

	mu    sync.Mutex
	Calls []ProcessCall
}

func (m *MockProcessManager) record(dir string, env []string, name string, args []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, ProcessCall{Dir: dir, Env: env, Name: name, Args: args})
}

func (m *MockProcessManager) Run(ctx context.Context, dir string, env []string, name string, args ...string) (string, string, int, error) {
	m.record(dir, env, name, args)
	if m.RunFunc != nil {
		return m.RunFunc(ctx, dir, env, name, args...)
	}
	return "", "", 0, nil
}

func (m *MockProcessManager) Stream(ctx context.Context, dir string, env []string, name string, args ...string) error {
	m.record(dir, env, name, args)
	if m.StreamFunc != nil {
		return m.StreamFunc(ctx, dir, env, name, args...)
	}
	return nil
}

// CallsFor returns the recorded calls whose joined command line contains
// the given subcommand, e.g. "up" or "down".
func (m *MockProcessManager) CallsFor(sub string) []ProcessCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ProcessCall
	for _, c := range m.Calls {
		for _, a := range c.Args {
			if a == sub {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

var _ ProcessManager = (*DefaultProcessManager)(nil)
var _ ProcessManager = (*MockProcessManager)(nil)
