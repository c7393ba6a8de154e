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

	"github.com/spf13/cobra"
)

// runLogs streams container logs until interrupted. With no arguments it
// follows every service in the file set.
func runLogs(cmd *cobra.Command, args []string) {
	rt, err := buildRuntime()
	if err != nil {
		fatal(err)
	}
	defer rt.logger.Close()

	err = rt.compose.Logs(cmd.Context(), rt.env, args...)
	if err != nil && !errors.Is(err, context.Canceled) {
		rt.logger.Close()
		fatal(err)
	}
}
