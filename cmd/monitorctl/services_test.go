package main

import (
	"testing"
	"time"

	"github.com/authstack/monitorctl/cmd/monitorctl/config"
)

// TestDefaultServiceChecks pins the verification list: exactly the four
// monitoring services plus the auth service, on their compose ports.
func TestDefaultServiceChecks(t *testing.T) {
	hc := config.DefaultConfig().Health
	checks := defaultServiceChecks(hc)

	wantURLs := map[string]string{
		"Prometheus":   "http://localhost:9090/-/healthy",
		"Grafana":      "http://localhost:3000/api/health",
		"Jaeger":       "http://localhost:16686/",
		"Alertmanager": "http://localhost:9093/-/healthy",
		"Auth Service": "http://localhost:8000/health",
	}
	if len(checks) != len(wantURLs) {
		t.Fatalf("expected %d checks, got %d", len(wantURLs), len(checks))
	}
	for _, c := range checks {
		want, ok := wantURLs[c.Name]
		if !ok {
			t.Errorf("unexpected service %q", c.Name)
			continue
		}
		if c.URL != want {
			t.Errorf("%s: expected URL %s, got %s", c.Name, want, c.URL)
		}
		if c.CheckType != HealthCheckHTTP {
			t.Errorf("%s: expected HTTP check", c.Name)
		}
		if c.MaxRetries != hc.MaxRetries {
			t.Errorf("%s: expected retry budget %d, got %d", c.Name, hc.MaxRetries, c.MaxRetries)
		}
		if c.RetryInterval != time.Duration(hc.RetryIntervalSeconds)*time.Second {
			t.Errorf("%s: wrong retry interval %v", c.Name, c.RetryInterval)
		}
	}
}

func TestReadinessChecks(t *testing.T) {
	hc := config.DefaultConfig().Health

	redis := datastoreReadinessCheck(hc)
	if redis.CheckType != HealthCheckTCP || redis.Address != "localhost:6379" {
		t.Errorf("unexpected redis readiness check: %+v", redis)
	}
	if redis.MaxRetries != hc.ReadinessRetries {
		t.Errorf("expected readiness budget %d, got %d", hc.ReadinessRetries, redis.MaxRetries)
	}

	prom := monitoringReadinessCheck(hc)
	if prom.CheckType != HealthCheckHTTP || prom.URL != "http://localhost:9090/-/healthy" {
		t.Errorf("unexpected prometheus readiness check: %+v", prom)
	}
}
