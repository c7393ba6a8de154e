// Copyright (C) 2025 Authstack Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

// runDeploy executes the full deployment pipeline.
//
// Exit policy: a fatal stage failure exits 1. Reaching the report exits 0
// even with unhealthy services, unless --strict (or health.strict in the
// config file) is set, in which case any unhealthy service exits 1.
func runDeploy(cmd *cobra.Command, args []string) {
	rt, err := buildRuntime()
	if err != nil {
		fatal(err)
	}
	defer rt.logger.Close()

	deploy := DeploymentContext{
		Environment: rt.env,
		SkipBuild:   skipBuild,
		CleanStart:  cleanStart,
		Strict:      strictHealth || rt.cfg.Health.Strict,
	}

	pipeline := NewPipeline(deploy, rt.cfg, rt.compose, rt.checker, rt.logger, rt.workDir)
	if err := pipeline.Run(cmd.Context()); err != nil {
		var stageErr *StageError
		if errors.As(err, &stageErr) {
			rt.logger.Error("deployment aborted", "stage", string(stageErr.Stage), "error", stageErr.Err.Error())
		} else if errors.Is(err, ErrUnhealthyServices) {
			rt.logger.Error("deployment unhealthy in strict mode", "error", err.Error())
		}
		rt.logger.Close()
		os.Exit(1)
	}
	rt.logger.Info("deployment completed")
}
