package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

// ErrNotReady is returned by WaitForReady when the retry budget is
// exhausted without a successful probe.
var ErrNotReady = fmt.Errorf("service not ready within retry budget")

// HealthHTTPClient abstracts HTTP probing so tests can inject responses.
type HealthHTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Dialer abstracts TCP probing for the datastore readiness check.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// HealthChecker verifies service availability after startup.
//
// # Description
//
// Two uses in the pipeline: WaitForReady replaces the original fixed
// sleeps between startup stages with explicit bounded-retry readiness
// polls, and VerifyAll runs the final health verification over the fixed
// ServiceCheck list. Both treat a single successful probe as healthy and
// never retry past MaxRetries.
//
// # Outputs
//
// VerifyAll accumulates per-service results independently - one failing
// service never aborts the remaining checks.
type HealthChecker interface {
	// VerifyService polls one service up to its MaxRetries budget with a
	// fixed inter-retry delay. The returned status is always non-nil;
	// the error mirrors the unhealthy outcome for callers that want it.
	VerifyService(ctx context.Context, check ServiceCheck) (*HealthStatus, error)

	// VerifyAll verifies every service and accumulates results in input
	// order. Checks run concurrently; reporting stays per-service with
	// no short-circuit.
	VerifyAll(ctx context.Context, checks []ServiceCheck) *CheckReport

	// WaitForReady blocks until one probe of the check succeeds or the
	// budget is exhausted, returning ErrNotReady in the latter case.
	WaitForReady(ctx context.Context, check ServiceCheck) error
}

// HealthCheckerConfig carries checker-wide defaults.
type HealthCheckerConfig struct {
	// DefaultTimeout bounds a single probe when the check has none.
	DefaultTimeout time.Duration
}

// DefaultHealthCheckerConfig returns a 3 second per-probe timeout.
func DefaultHealthCheckerConfig() HealthCheckerConfig {
	return HealthCheckerConfig{DefaultTimeout: 3 * time.Second}
}

// DefaultHealthChecker implements HealthChecker over net/http and net.
//
// # Thread Safety
//
// Safe for concurrent use; the checker holds no mutable state.
type DefaultHealthChecker struct {
	httpClient HealthHTTPClient
	dialer     Dialer
	config     HealthCheckerConfig
}

// NewDefaultHealthChecker creates a production health checker. Keep-alives
// are disabled so each probe observes a fresh connection attempt.
func NewDefaultHealthChecker(config HealthCheckerConfig) *DefaultHealthChecker {
	return &DefaultHealthChecker{
		httpClient: &http.Client{
			Timeout: config.DefaultTimeout,
			Transport: &http.Transport{
				DisableKeepAlives: true,
			},
		},
		dialer: &net.Dialer{},
		config: config,
	}
}

// NewHealthCheckerWithClient creates a checker with injected probing
// dependencies. Used by tests.
func NewHealthCheckerWithClient(config HealthCheckerConfig, httpClient HealthHTTPClient, dialer Dialer) *DefaultHealthChecker {
	if dialer == nil {
		dialer = &net.Dialer{}
	}
	return &DefaultHealthChecker{httpClient: httpClient, dialer: dialer, config: config}
}

func (h *DefaultHealthChecker) VerifyService(ctx context.Context, check ServiceCheck) (*HealthStatus, error) {
	status := &HealthStatus{
		ID:       GenerateID(),
		Name:     check.Name,
		State:    HealthStateUnhealthy,
		Endpoint: check.ConnectionEndpoint(),
	}

	retries := check.MaxRetries
	if retries < 1 {
		retries = 1
	}

	for attempt := 1; attempt <= retries; attempt++ {
		status.Attempts = attempt

		probeStart := time.Now()
		httpStatus, err := h.probeOnce(ctx, check)
		status.Latency = time.Since(probeStart)
		status.HTTPStatus = httpStatus
		status.LastChecked = time.Now()

		if err == nil {
			status.State = HealthStateHealthy
			status.Message = ""
			return status, nil
		}
		status.Message = err.Error()

		if ctx.Err() != nil {
			status.Message = fmt.Sprintf("cancelled: %v", ctx.Err())
			return status, ctx.Err()
		}
		if attempt < retries {
			if err := sleepWithContext(ctx, check.RetryInterval); err != nil {
				status.Message = fmt.Sprintf("cancelled: %v", err)
				return status, err
			}
		}
	}

	return status, fmt.Errorf("%s unhealthy after %d attempts: %s", check.Name, status.Attempts, status.Message)
}

func (h *DefaultHealthChecker) VerifyAll(ctx context.Context, checks []ServiceCheck) *CheckReport {
	report := &CheckReport{
		ID:        GenerateID(),
		StartedAt: time.Now(),
		Services:  make([]HealthStatus, len(checks)),
	}

	var wg sync.WaitGroup
	for i, check := range checks {
		wg.Add(1)
		go func(idx int, c ServiceCheck) {
			defer wg.Done()
			status, _ := h.VerifyService(ctx, c)
			report.Services[idx] = *status
		}(i, check)
	}
	wg.Wait()

	report.Duration = time.Since(report.StartedAt)
	return report
}

func (h *DefaultHealthChecker) WaitForReady(ctx context.Context, check ServiceCheck) error {
	status, err := h.VerifyService(ctx, check)
	if err == nil && status.Healthy() {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("%w: %s after %d attempts", ErrNotReady, check.Name, status.Attempts)
}

// probeOnce issues a single probe. A nil error means healthy.
func (h *DefaultHealthChecker) probeOnce(ctx context.Context, check ServiceCheck) (int, error) {
	timeout := check.Timeout
	if timeout <= 0 {
		timeout = h.config.DefaultTimeout
	}
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	switch check.CheckType {
	case HealthCheckTCP:
		return 0, h.probeTCP(probeCtx, check)
	case HealthCheckHTTP, "":
		return h.probeHTTP(probeCtx, check)
	default:
		return 0, fmt.Errorf("unknown check type: %s", check.CheckType)
	}
}

func (h *DefaultHealthChecker) probeHTTP(ctx context.Context, check ServiceCheck) (int, error) {
	if check.URL == "" {
		return 0, fmt.Errorf("no URL configured for HTTP check")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, check.URL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("connection failed: %w", err)
	}
	defer resp.Body.Close()

	expected := check.ExpectedStatus
	if expected == 0 {
		expected = http.StatusOK
	}
	if resp.StatusCode != expected {
		return resp.StatusCode, fmt.Errorf("unexpected status %d (want %d)", resp.StatusCode, expected)
	}
	return resp.StatusCode, nil
}

func (h *DefaultHealthChecker) probeTCP(ctx context.Context, check ServiceCheck) error {
	if check.Address == "" {
		return fmt.Errorf("no address configured for TCP check")
	}
	conn, err := h.dialer.DialContext(ctx, "tcp", check.Address)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	return conn.Close()
}

// sleepWithContext sleeps for d unless the context is cancelled first.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var _ HealthChecker = (*DefaultHealthChecker)(nil)
