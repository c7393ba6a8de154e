// Copyright (C) 2025 Authstack Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// statusEntry is one service in the --json status output.
type statusEntry struct {
	Name       string `json:"name"`
	Healthy    bool   `json:"healthy"`
	Endpoint   string `json:"endpoint"`
	Attempts   int    `json:"attempts"`
	HTTPStatus int    `json:"http_status,omitempty"`
	LatencyMS  int64  `json:"latency_ms"`
	Message    string `json:"message,omitempty"`
}

// runStatus runs health verification against a (presumed) running stack
// without deploying anything. A single probe per service keeps it fast;
// exit code 1 when any service is unhealthy.
func runStatus(cmd *cobra.Command, args []string) {
	rt, err := buildRuntime()
	if err != nil {
		fatal(err)
	}
	defer rt.logger.Close()

	checks := defaultServiceChecks(rt.cfg.Health)
	for i := range checks {
		checks[i].MaxRetries = 1
	}

	report := rt.checker.VerifyAll(cmd.Context(), checks)

	if statusJSON {
		entries := make([]statusEntry, 0, len(report.Services))
		for _, svc := range report.Services {
			entries = append(entries, statusEntry{
				Name:       svc.Name,
				Healthy:    svc.Healthy(),
				Endpoint:   svc.Endpoint,
				Attempts:   svc.Attempts,
				HTTPStatus: svc.HTTPStatus,
				LatencyMS:  svc.Latency.Milliseconds(),
				Message:    svc.Message,
			})
		}
		out, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			fatal(fmt.Errorf("failed to encode status: %w", err))
		}
		fmt.Println(string(out))
	} else {
		renderReport(report)
	}

	rt.logger.Info("status check finished",
		"healthy", report.AllHealthy(),
		"duration", report.Duration.Round(time.Millisecond).String())
	if !report.AllHealthy() {
		rt.logger.Close()
		os.Exit(1)
	}
}
