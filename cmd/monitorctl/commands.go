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

// --- Global Command Variables ---
var (
	environment     string
	skipBuild       bool
	cleanStart      bool
	strictHealth    bool
	noColor         bool
	configPath      string
	teardownVolumes bool
	statusJSON      bool

	rootCmd = &cobra.Command{
		Use:   "monitorctl",
		Short: "Deploy and manage the authstack monitoring stack",
		Long: `monitorctl deploys the authstack service together with its
monitoring stack (Prometheus, Grafana, Jaeger, Alertmanager) via
docker compose, then verifies every service is healthy.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				ux.SetPlain(true)
			}
		},
	}

	deployCmd = &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the full stack and verify service health",
		Run:   runDeploy, // Defined in cmd_deploy.go
	}

	teardownCmd = &cobra.Command{
		Use:   "teardown",
		Short: "Stop and remove all stack containers",
		Run:   runTeardown, // Defined in cmd_teardown.go
	}

	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Check the health of all services without deploying",
		Run:   runStatus, // Defined in cmd_status.go
	}

	logsCmd = &cobra.Command{
		Use:   "logs [service...]",
		Short: "Stream logs from stack containers",
		Run:   runLogs, // Defined in cmd_logs.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to monitorctl.yaml (default: ./monitorctl.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVarP(&environment, "env", "e", "development", "target environment (development|production)")

	deployCmd.Flags().BoolVar(&skipBuild, "skip-build", false, "skip building images before startup")
	deployCmd.Flags().BoolVar(&cleanStart, "clean", false, "remove existing containers and volumes first")
	deployCmd.Flags().BoolVar(&strictHealth, "strict", false, "exit non-zero if any service is unhealthy")

	teardownCmd.Flags().BoolVar(&teardownVolumes, "volumes", false, "also remove data volumes")

	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "emit the health report as JSON")

	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(teardownCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(logsCmd)
}
