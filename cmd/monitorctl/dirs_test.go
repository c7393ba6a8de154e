package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/authstack/monitorctl/cmd/monitorctl/config"
)

func TestProvisionDirs(t *testing.T) {
	cfg := config.DefaultConfig()

	t.Run("creates full set", func(t *testing.T) {
		dir := t.TempDir()

		created, err := provisionDirs(dir, cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(created) != 4 {
			t.Errorf("expected 4 created dirs, got %d: %v", len(created), created)
		}

		for _, rel := range []string{
			"monitoring/prometheus/data",
			"monitoring/grafana/data",
			"monitoring/alertmanager/data",
			"logs",
		} {
			info, err := os.Stat(filepath.Join(dir, rel))
			if err != nil {
				t.Errorf("expected %s to exist: %v", rel, err)
				continue
			}
			if !info.IsDir() {
				t.Errorf("expected %s to be a directory", rel)
			}
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		dir := t.TempDir()

		if _, err := provisionDirs(dir, cfg); err != nil {
			t.Fatalf("first run: %v", err)
		}
		created, err := provisionDirs(dir, cfg)
		if err != nil {
			t.Fatalf("second run: %v", err)
		}
		if len(created) != 0 {
			t.Errorf("expected no new dirs on second run, got %v", created)
		}
	})

	t.Run("partial set filled in", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.MkdirAll(filepath.Join(dir, "monitoring", "grafana", "data"), 0755); err != nil {
			t.Fatal(err)
		}

		created, err := provisionDirs(dir, cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(created) != 3 {
			t.Errorf("expected 3 created dirs, got %v", created)
		}
	})
}
