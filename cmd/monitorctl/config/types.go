// Copyright (C) 2025 Authstack Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

// DeployConfig is the root configuration for monitorctl.
//
// Every field has a working default; a monitorctl.yaml next to the compose
// files overrides individual values. The loaded value is immutable for the
// duration of a run - stages receive it by value and never write back.
type DeployConfig struct {
	// Compose: how to reach the container orchestration CLI
	Compose ComposeConfig `yaml:"compose"`

	// Health: retry budget and timeouts for health verification
	Health HealthConfig `yaml:"health"`

	// Paths: filesystem contract (monitoring dir, env file, log dir)
	Paths PathsConfig `yaml:"paths"`

	// Logging: structured log destination and level
	Logging LoggingConfig `yaml:"logging"`
}

type ComposeConfig struct {
	// Binary is the container CLI, e.g. "docker" or "podman".
	Binary string `yaml:"binary"`

	// ComposeArgs are prepended before compose operations. For docker this
	// is ["compose"]; for a standalone docker-compose binary it is empty.
	ComposeArgs []string `yaml:"compose_args"`

	// Project is the compose project name (-p).
	Project string `yaml:"project"`

	// BaseFile is the application manifest.
	BaseFile string `yaml:"base_file"`

	// MonitoringFile is the monitoring stack manifest.
	MonitoringFile string `yaml:"monitoring_file"`

	// DevFile is the development overlay, applied only when
	// deploying the development environment.
	DevFile string `yaml:"dev_file"`

	// Extensions are extra compose files appended after the fixed set.
	Extensions []string `yaml:"extensions"`
}

type HealthConfig struct {
	MaxRetries             int  `yaml:"max_retries"`              // attempts per service
	RetryIntervalSeconds   int  `yaml:"retry_interval_seconds"`   // delay between attempts
	RequestTimeoutSeconds  int  `yaml:"request_timeout_seconds"`  // per-probe timeout
	ReadinessRetries       int  `yaml:"readiness_retries"`        // attempts for inter-stage readiness waits
	ReadinessIntervalSecs  int  `yaml:"readiness_interval_seconds"`
	Strict                 bool `yaml:"strict"` // unhealthy services fail the exit code
}

type PathsConfig struct {
	MonitoringDir string `yaml:"monitoring_dir"`
	LogDir        string `yaml:"log_dir"`
	EnvFile       string `yaml:"env_file"`
	EnvTemplate   string `yaml:"env_template"`
}

type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// ToFile mirrors the structured log into Paths.LogDir.
	ToFile bool `yaml:"to_file"`
}

// DefaultConfig returns the built-in configuration: docker compose v2,
// a 10x5s health retry budget with 3s probes, and the fixed filesystem
// contract under monitoring/.
func DefaultConfig() DeployConfig {
	return DeployConfig{
		Compose: ComposeConfig{
			Binary:         "docker",
			ComposeArgs:    []string{"compose"},
			Project:        "authstack",
			BaseFile:       "docker-compose.yml",
			MonitoringFile: "docker-compose.monitoring.yml",
			DevFile:        "docker-compose.dev.yml",
			Extensions:     []string{},
		},
		Health: HealthConfig{
			MaxRetries:            10,
			RetryIntervalSeconds:  5,
			RequestTimeoutSeconds: 3,
			ReadinessRetries:      6,
			ReadinessIntervalSecs: 2,
			Strict:                false,
		},
		Paths: PathsConfig{
			MonitoringDir: "monitoring",
			LogDir:        "logs",
			EnvFile:       ".env",
			EnvTemplate:   ".env.example",
		},
		Logging: LoggingConfig{
			Level:  "info",
			ToFile: true,
		},
	}
}
