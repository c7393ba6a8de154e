// Copyright (C) 2025 Authstack Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// materializeEnvFile seeds the live env file from its template.
//
// Three outcomes, none fatal:
//   - env file already exists: no-op, returns (false, nil)
//   - env file missing, template present: copy, returns (true, nil)
//   - both missing: returns (false, nil); the caller warns and continues
//
// The copy is written 0600 since the env file typically carries secrets.
func materializeEnvFile(workDir, envFile, template string) (bool, error) {
	envPath := filepath.Join(workDir, envFile)
	if _, err := os.Stat(envPath); err == nil {
		return false, nil
	}

	templatePath := filepath.Join(workDir, template)
	data, err := os.ReadFile(templatePath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read env template %s: %w", template, err)
	}

	if err := os.WriteFile(envPath, data, 0600); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", envFile, err)
	}
	return true, nil
}

func fileExists(workDir, rel string) bool {
	_, err := os.Stat(filepath.Join(workDir, rel))
	return err == nil
}
