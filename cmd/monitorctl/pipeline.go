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
	"strings"

	"github.com/authstack/monitorctl/cmd/monitorctl/config"
	"github.com/authstack/monitorctl/pkg/logging"
	"github.com/authstack/monitorctl/pkg/ux"
)

// Environment selects the compose file layering for a deployment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// ParseEnvironment accepts the canonical names and common short forms.
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "development", "dev":
		return EnvDevelopment, nil
	case "production", "prod":
		return EnvProduction, nil
	default:
		return "", fmt.Errorf("unknown environment %q (want development or production)", s)
	}
}

// DeploymentContext carries the per-invocation flags into the pipeline.
type DeploymentContext struct {
	// Environment selects dev or prod compose layering.
	Environment Environment

	// SkipBuild skips the image build stage.
	SkipBuild bool

	// CleanStart tears the stack down (including volumes) before deploying.
	CleanStart bool

	// Strict makes unhealthy services fail the process exit code even
	// though the deployment itself completed.
	Strict bool
}

// Stage identifies one step of the deployment pipeline, used in error
// reporting so the operator knows exactly where a deploy stopped.
type Stage string

const (
	StagePreflight   Stage = "preflight"
	StageCleanup     Stage = "cleanup"
	StageMaterialize Stage = "materialize"
	StageProvision   Stage = "provision"
	StageBuild       Stage = "build"
	StageStart       Stage = "start"
	StageVerify      Stage = "verify"
)

// StageError wraps a fatal pipeline error with the stage it occurred in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ErrUnhealthyServices is returned by Run in strict mode when the
// deployment completed but one or more services failed verification.
var ErrUnhealthyServices = errors.New("one or more services unhealthy")

// Pipeline executes one deployment end to end.
//
// # Description
//
// The stage sequence is linear and fixed: preflight, optional cleanup,
// env file materialization, directory provisioning, optional build,
// ordered startup, health verification, report. A stage failure before
// startup aborts the run; failures during health verification are
// accumulated per service and reported, never aborting the remaining
// checks.
//
// # Thread Safety
//
// Not safe for concurrent use. Each invocation constructs its own
// Pipeline and discards it after Run returns.
type Pipeline struct {
	deploy  DeploymentContext
	cfg     config.DeployConfig
	compose *ComposeRunner
	checker HealthChecker
	log     *logging.Logger
	workDir string
	checks  []ServiceCheck
}

// NewPipeline assembles a pipeline from its collaborators. The check list
// defaults to the fixed service set when nil.
func NewPipeline(deploy DeploymentContext, cfg config.DeployConfig, compose *ComposeRunner, checker HealthChecker, log *logging.Logger, workDir string) *Pipeline {
	return &Pipeline{
		deploy:  deploy,
		cfg:     cfg,
		compose: compose,
		checker: checker,
		log:     log,
		workDir: workDir,
		checks:  defaultServiceChecks(cfg.Health),
	}
}

// Run executes the deployment. The returned error is a *StageError for
// fatal stage failures, ErrUnhealthyServices for strict-mode health
// failures, or nil.
func (p *Pipeline) Run(ctx context.Context) error {
	ux.Title("Deploying authstack monitoring stack")
	ux.Info(fmt.Sprintf("Environment: %s", p.deploy.Environment))
	p.log.Info("deployment started",
		"environment", string(p.deploy.Environment),
		"skip_build", p.deploy.SkipBuild,
		"clean_start", p.deploy.CleanStart)

	if err := p.preflight(ctx); err != nil {
		ux.Error(err.Error())
		return &StageError{Stage: StagePreflight, Err: err}
	}
	ux.Success("Preflight checks passed")

	if p.deploy.CleanStart {
		ux.Info("Clean start requested, removing existing stack and volumes")
		// Best effort: there may be nothing to tear down on a fresh host.
		if err := p.compose.Down(ctx, p.deploy.Environment, true); err != nil {
			if ctx.Err() != nil {
				return &StageError{Stage: StageCleanup, Err: ctx.Err()}
			}
			ux.Warning(fmt.Sprintf("Cleanup did not complete, continuing: %v", err))
			p.log.Warn("cleanup failed", "error", err.Error())
		} else {
			ux.Success("Previous stack removed")
		}
	}

	if err := p.materialize(); err != nil {
		ux.Error(err.Error())
		return &StageError{Stage: StageMaterialize, Err: err}
	}

	if err := p.provision(); err != nil {
		ux.Error(err.Error())
		return &StageError{Stage: StageProvision, Err: err}
	}

	if p.deploy.SkipBuild {
		ux.Info("Skipping image build (--skip-build)")
	} else {
		ux.Title("Building images")
		if err := p.compose.Build(ctx, p.deploy.Environment); err != nil {
			ux.Error(err.Error())
			return &StageError{Stage: StageBuild, Err: err}
		}
		ux.Success("Images built")
	}

	if err := p.start(ctx); err != nil {
		ux.Error(err.Error())
		return &StageError{Stage: StageStart, Err: err}
	}

	ux.Title("Verifying service health")
	report := p.checker.VerifyAll(ctx, p.checks)
	if ctx.Err() != nil {
		return &StageError{Stage: StageVerify, Err: ctx.Err()}
	}
	p.log.Info("health verification finished",
		"healthy", report.AllHealthy(),
		"duration", report.Duration.String())

	renderReport(report)

	if !report.AllHealthy() && p.deploy.Strict {
		return fmt.Errorf("%w: %s", ErrUnhealthyServices, strings.Join(report.FailedNames(), ", "))
	}
	return nil
}

// materialize seeds the env file from its template. A missing template is
// a warning: compose may still succeed with inline defaults.
func (p *Pipeline) materialize() error {
	copied, err := materializeEnvFile(p.workDir, p.cfg.Paths.EnvFile, p.cfg.Paths.EnvTemplate)
	if err != nil {
		return err
	}
	if copied {
		ux.Success(fmt.Sprintf("Created %s from %s", p.cfg.Paths.EnvFile, p.cfg.Paths.EnvTemplate))
		ux.Warning("Review the generated env file and replace placeholder secrets")
		p.log.Info("env file materialized", "file", p.cfg.Paths.EnvFile)
		return nil
	}
	if exists := fileExists(p.workDir, p.cfg.Paths.EnvFile); exists {
		ux.Info(fmt.Sprintf("Using existing %s", p.cfg.Paths.EnvFile))
		return nil
	}
	ux.Warning(fmt.Sprintf("Neither %s nor %s found, containers will use built-in defaults",
		p.cfg.Paths.EnvFile, p.cfg.Paths.EnvTemplate))
	return nil
}

// provision creates the data and log directories.
func (p *Pipeline) provision() error {
	created, err := provisionDirs(p.workDir, p.cfg)
	if err != nil {
		return err
	}
	for _, dir := range created {
		ux.Info(fmt.Sprintf("Created %s", dir))
	}
	p.log.Debug("directories provisioned", "created", len(created))
	return nil
}

// start brings the stack up in dependency order: datastore, monitoring,
// application. Between groups it polls readiness with a bounded retry
// budget; an exhausted poll is a warning because the final verification
// phase re-checks every service with the full retry budget.
func (p *Pipeline) start(ctx context.Context) error {
	ux.Title("Starting services")

	if err := p.compose.Up(ctx, p.deploy.Environment, datastoreServices...); err != nil {
		return err
	}
	p.waitReady(ctx, datastoreReadinessCheck(p.cfg.Health))

	if err := p.compose.Up(ctx, p.deploy.Environment, monitoringServices...); err != nil {
		return err
	}
	p.waitReady(ctx, monitoringReadinessCheck(p.cfg.Health))

	if err := p.compose.Up(ctx, p.deploy.Environment, appServices...); err != nil {
		return err
	}

	ux.Success("All services started")
	return nil
}

// waitReady runs one inter-stage readiness poll. Exhaustion is logged and
// warned but never fatal; cancellation propagates via ctx to the caller.
func (p *Pipeline) waitReady(ctx context.Context, check ServiceCheck) {
	if err := p.checker.WaitForReady(ctx, check); err != nil {
		if ctx.Err() != nil {
			return
		}
		ux.Warning(fmt.Sprintf("%s not ready yet, continuing: %v", check.Name, err))
		p.log.Warn("readiness poll exhausted", "service", check.Name, "error", err.Error())
		return
	}
	p.log.Debug("service ready", "service", check.Name)
}
