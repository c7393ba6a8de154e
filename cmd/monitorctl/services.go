// Copyright (C) 2025 Authstack Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"time"

	"github.com/authstack/monitorctl/cmd/monitorctl/config"
)

// Compose service groups, started in this fixed order: the datastore the
// auth service depends on, then the monitoring stack, then the application.
// The ordering is a static dependency assumption, not a computed sort.
var (
	datastoreServices  = []string{"redis"}
	monitoringServices = []string{"prometheus", "grafana", "jaeger", "alertmanager"}
	appServices        = []string{"auth-service"}
)

// defaultServiceChecks returns the fixed health verification list: the four
// monitoring services plus the auth service itself. Ports match the compose
// manifests; all endpoints expect HTTP 200.
func defaultServiceChecks(hc config.HealthConfig) []ServiceCheck {
	retryInterval := time.Duration(hc.RetryIntervalSeconds) * time.Second
	timeout := time.Duration(hc.RequestTimeoutSeconds) * time.Second

	mk := func(name, healthURL, endpoint string) ServiceCheck {
		return ServiceCheck{
			ID:             GenerateID(),
			Name:           name,
			CheckType:      HealthCheckHTTP,
			URL:            healthURL,
			ExpectedStatus: 200,
			MaxRetries:     hc.MaxRetries,
			RetryInterval:  retryInterval,
			Timeout:        timeout,
			Endpoint:       endpoint,
		}
	}

	return []ServiceCheck{
		mk("Prometheus", "http://localhost:9090/-/healthy", "http://localhost:9090"),
		mk("Grafana", "http://localhost:3000/api/health", "http://localhost:3000"),
		mk("Jaeger", "http://localhost:16686/", "http://localhost:16686"),
		mk("Alertmanager", "http://localhost:9093/-/healthy", "http://localhost:9093"),
		mk("Auth Service", "http://localhost:8000/health", "http://localhost:8000"),
	}
}

// datastoreReadinessCheck polls the redis port between the datastore and
// monitoring startup stages. TCP connect is enough: redis has no HTTP
// health endpoint and an accepted connection means the listener is up.
func datastoreReadinessCheck(hc config.HealthConfig) ServiceCheck {
	return ServiceCheck{
		ID:            GenerateID(),
		Name:          "redis",
		CheckType:     HealthCheckTCP,
		Address:       "localhost:6379",
		MaxRetries:    hc.ReadinessRetries,
		RetryInterval: time.Duration(hc.ReadinessIntervalSecs) * time.Second,
		Timeout:       time.Duration(hc.RequestTimeoutSeconds) * time.Second,
	}
}

// monitoringReadinessCheck polls Prometheus between the monitoring and
// application startup stages. Prometheus is the anchor of the group; the
// final verification phase covers the rest.
func monitoringReadinessCheck(hc config.HealthConfig) ServiceCheck {
	return ServiceCheck{
		ID:            GenerateID(),
		Name:          "prometheus",
		CheckType:     HealthCheckHTTP,
		URL:           "http://localhost:9090/-/healthy",
		MaxRetries:    hc.ReadinessRetries,
		RetryInterval: time.Duration(hc.ReadinessIntervalSecs) * time.Second,
		Timeout:       time.Duration(hc.RequestTimeoutSeconds) * time.Second,
	}
}
