// Copyright (C) 2025 Authstack Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/authstack/monitorctl/pkg/ux"
)

// renderReport prints the final deployment report: one status line per
// service in check order, then the endpoint box and a summary line.
func renderReport(report *CheckReport) {
	ux.Title("Deployment report")

	for _, svc := range report.Services {
		detail := ""
		if svc.Healthy() {
			detail = fmt.Sprintf("%d attempt(s), %s", svc.Attempts, svc.Latency.Round(time.Millisecond))
		} else if svc.Message != "" {
			detail = fmt.Sprintf("%d attempt(s): %s", svc.Attempts, svc.Message)
		}
		ux.ServiceStatus(svc.Name, svc.Healthy(), svc.Endpoint, detail)
	}

	var endpoints []string
	for _, svc := range report.Services {
		endpoints = append(endpoints, fmt.Sprintf("%-14s %s", svc.Name, svc.Endpoint))
	}
	ux.Box("Service endpoints", strings.Join(endpoints, "\n"))

	if report.AllHealthy() {
		ux.Success(fmt.Sprintf("All %d services healthy (%s)",
			len(report.Services), report.Duration.Round(time.Millisecond)))
		return
	}
	failed := report.FailedNames()
	ux.Warning(fmt.Sprintf("%d of %d services unhealthy: %s",
		len(failed), len(report.Services), strings.Join(failed, ", ")))
	ux.Muted("Inspect container logs with: monitorctl logs <service>")
}
