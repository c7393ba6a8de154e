package main

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// HealthCheckType specifies the method used to probe a service.
type HealthCheckType string

const (
	// HealthCheckHTTP probes via HTTP GET and compares the status code.
	HealthCheckHTTP HealthCheckType = "http"

	// HealthCheckTCP probes via TCP connect. Only verifies the port is
	// accepting connections; used for the datastore readiness wait where
	// no HTTP endpoint exists.
	HealthCheckTCP HealthCheckType = "tcp"
)

// HealthState is the outcome of a check, a point-in-time snapshot.
type HealthState string

const (
	// HealthStateHealthy indicates the probe succeeded.
	HealthStateHealthy HealthState = "healthy"

	// HealthStateUnhealthy indicates the service responded incorrectly
	// or never responded within the retry budget.
	HealthStateUnhealthy HealthState = "unhealthy"

	// HealthStateSkipped indicates the check was intentionally not run.
	HealthStateSkipped HealthState = "skipped"
)

// ServiceCheck describes one service to verify after startup.
//
// The list of checks is fixed at startup and immutable; each run constructs
// it once and discards it at exit. MaxRetries bounds the number of probe
// attempts, so the worst-case wait per service is
// MaxRetries * RetryInterval plus per-probe timeouts.
type ServiceCheck struct {
	// ID is a unique identifier for tracking and log correlation.
	ID string

	// Name is the human-readable service name.
	Name string

	// CheckType selects HTTP or TCP probing.
	CheckType HealthCheckType

	// URL is the health endpoint for HTTP checks.
	URL string

	// Address is the host:port for TCP checks.
	Address string

	// ExpectedStatus is the HTTP status treated as healthy (default 200).
	ExpectedStatus int

	// MaxRetries is the probe attempt budget (>= 1).
	MaxRetries int

	// RetryInterval is the fixed delay between attempts.
	RetryInterval time.Duration

	// Timeout overrides the per-probe timeout. Zero means checker default.
	Timeout time.Duration

	// Endpoint is the user-facing connection URL printed in the report.
	// Falls back to URL when empty.
	Endpoint string
}

// ConnectionEndpoint returns the address shown to the operator in the
// final report.
func (s ServiceCheck) ConnectionEndpoint() string {
	if s.Endpoint != "" {
		return s.Endpoint
	}
	if s.URL != "" {
		return s.URL
	}
	return s.Address
}

// HealthStatus is the result of verifying a single service.
type HealthStatus struct {
	// ID is a unique identifier for this check result.
	ID string

	// Name is the service name from the ServiceCheck.
	Name string

	// State is the final outcome after retries.
	State HealthState

	// Attempts is how many probes were issued (1..MaxRetries).
	Attempts int

	// HTTPStatus is the last observed status code, zero when no
	// response was ever received.
	HTTPStatus int

	// Latency is the duration of the last probe.
	Latency time.Duration

	// Message carries diagnostic detail for unhealthy services.
	Message string

	// Endpoint is the connection endpoint for the report.
	Endpoint string

	// LastChecked is when the final probe completed.
	LastChecked time.Time
}

// Healthy reports whether the service passed.
func (h HealthStatus) Healthy() bool {
	return h.State == HealthStateHealthy
}

// CheckReport aggregates the outcome of the health verification phase.
//
// Services keeps the input list order regardless of check concurrency, and
// failures are accumulated rather than short-circuiting: a slow-starting
// dashboard must not prevent reporting on the other services.
type CheckReport struct {
	ID        string
	Services  []HealthStatus
	StartedAt time.Time
	Duration  time.Duration
}

// AllHealthy reports whether every service passed.
func (r CheckReport) AllHealthy() bool {
	for _, s := range r.Services {
		if !s.Healthy() {
			return false
		}
	}
	return true
}

// FailedNames returns the names of unhealthy services, in list order.
func (r CheckReport) FailedNames() []string {
	var failed []string
	for _, s := range r.Services {
		if !s.Healthy() {
			failed = append(failed, s.Name)
		}
	}
	return failed
}

// GenerateID returns a random 16-character hex identifier for result
// tracking and log correlation.
func GenerateID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "0000000000000000"
	}
	return hex.EncodeToString(b)
}
