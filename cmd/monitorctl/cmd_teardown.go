// Copyright (C) 2025 Authstack Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/authstack/monitorctl/pkg/ux"
	"github.com/spf13/cobra"
)

// runTeardown stops and removes the stack. With --volumes the data
// volumes go too, which loses Prometheus history and Grafana state.
func runTeardown(cmd *cobra.Command, args []string) {
	rt, err := buildRuntime()
	if err != nil {
		fatal(err)
	}
	defer rt.logger.Close()

	if teardownVolumes {
		ux.Warning("Removing data volumes: Prometheus history and Grafana state will be lost")
	}
	ux.Title("Tearing down stack")
	if err := rt.compose.Down(cmd.Context(), rt.env, teardownVolumes); err != nil {
		rt.logger.Error("teardown failed", "error", err.Error())
		rt.logger.Close()
		fatal(err)
	}
	rt.logger.Info("teardown completed", "volumes_removed", teardownVolumes)
	ux.Success("Stack removed")
}
