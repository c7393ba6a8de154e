package main

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/authstack/monitorctl/cmd/monitorctl/config"
	"github.com/authstack/monitorctl/pkg/logging"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// mockChecker implements HealthChecker with scriptable outcomes.
type mockChecker struct {
	// UnhealthyNames marks these service names as failing verification.
	UnhealthyNames []string

	// NotReadyNames marks these names as exhausting readiness polls.
	NotReadyNames []string

	mu         sync.Mutex
	ReadyWaits []string
}

func (m *mockChecker) isListed(list []string, name string) bool {
	for _, n := range list {
		if n == name {
			return true
		}
	}
	return false
}

func (m *mockChecker) VerifyService(ctx context.Context, check ServiceCheck) (*HealthStatus, error) {
	status := &HealthStatus{
		ID:       GenerateID(),
		Name:     check.Name,
		State:    HealthStateHealthy,
		Attempts: 1,
		Endpoint: check.ConnectionEndpoint(),
	}
	if m.isListed(m.UnhealthyNames, check.Name) {
		status.State = HealthStateUnhealthy
		status.Attempts = check.MaxRetries
		status.Message = "connection refused"
		return status, errors.New(check.Name + " unhealthy")
	}
	return status, nil
}

func (m *mockChecker) VerifyAll(ctx context.Context, checks []ServiceCheck) *CheckReport {
	report := &CheckReport{ID: GenerateID(), Services: make([]HealthStatus, len(checks))}
	for i, c := range checks {
		status, _ := m.VerifyService(ctx, c)
		report.Services[i] = *status
	}
	return report
}

func (m *mockChecker) WaitForReady(ctx context.Context, check ServiceCheck) error {
	m.mu.Lock()
	m.ReadyWaits = append(m.ReadyWaits, check.Name)
	m.mu.Unlock()
	if m.isListed(m.NotReadyNames, check.Name) {
		return ErrNotReady
	}
	return nil
}

// testPipeline builds a pipeline over a temp dir with every required file
// present, a mock process manager, and a mock checker.
func testPipeline(t *testing.T, deploy DeploymentContext) (*Pipeline, *MockProcessManager, *mockChecker, string) {
	t.Helper()

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	for _, rel := range requiredFiles(cfg) {
		touch(t, dir, rel)
	}

	proc := &MockProcessManager{}
	checker := &mockChecker{}
	logger := logging.New(logging.Config{Level: logging.LevelError, Stderr: io.Discard})
	compose := NewComposeRunner(proc, cfg.Compose, dir)

	return NewPipeline(deploy, cfg, compose, checker, logger, dir), proc, checker, dir
}

// silenceStdout redirects stdout for the duration of fn.
func silenceStdout(t *testing.T, fn func()) {
	t.Helper()
	old := os.Stdout
	devnull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = devnull
	defer func() {
		os.Stdout = old
		devnull.Close()
	}()
	fn()
}

// upCallServices extracts the service arguments of each recorded `up` call.
func upCallServices(proc *MockProcessManager) [][]string {
	var out [][]string
	for _, call := range proc.CallsFor("up") {
		args := call.Args
		for i, a := range args {
			if a == "-d" {
				out = append(out, args[i+1:])
				break
			}
		}
	}
	return out
}

// =============================================================================
// UNIT TESTS: Pipeline.Run
// =============================================================================

// TestPipelineRun_HappyPath verifies the full stage sequence: build, three
// ordered up calls with readiness waits between groups, and a nil error.
func TestPipelineRun_HappyPath(t *testing.T) {
	p, proc, checker, _ := testPipeline(t, DeploymentContext{Environment: EnvProduction})

	var err error
	silenceStdout(t, func() { err = p.Run(context.Background()) })
	if err != nil {
		t.Fatalf("expected success, got: %v", err)
	}

	if n := len(proc.CallsFor("build")); n != 1 {
		t.Errorf("expected 1 build call, got %d", n)
	}

	ups := upCallServices(proc)
	if len(ups) != 3 {
		t.Fatalf("expected 3 up calls, got %d", len(ups))
	}
	if ups[0][0] != "redis" {
		t.Errorf("expected redis first, got %v", ups[0])
	}
	if len(ups[1]) != 4 || ups[1][0] != "prometheus" {
		t.Errorf("expected monitoring group second, got %v", ups[1])
	}
	if ups[2][0] != "auth-service" {
		t.Errorf("expected auth-service last, got %v", ups[2])
	}

	if len(checker.ReadyWaits) != 2 || checker.ReadyWaits[0] != "redis" || checker.ReadyWaits[1] != "prometheus" {
		t.Errorf("expected readiness waits [redis prometheus], got %v", checker.ReadyWaits)
	}

	if n := len(proc.CallsFor("down")); n != 0 {
		t.Errorf("expected no down calls without --clean, got %d", n)
	}
}

// TestPipelineRun_SkipBuild verifies --skip-build issues no build command
// but still starts everything.
func TestPipelineRun_SkipBuild(t *testing.T) {
	p, proc, _, _ := testPipeline(t, DeploymentContext{Environment: EnvProduction, SkipBuild: true})

	var err error
	silenceStdout(t, func() { err = p.Run(context.Background()) })
	if err != nil {
		t.Fatalf("expected success, got: %v", err)
	}
	if n := len(proc.CallsFor("build")); n != 0 {
		t.Errorf("expected no build calls, got %d", n)
	}
	if n := len(upCallServices(proc)); n != 3 {
		t.Errorf("expected 3 up calls, got %d", n)
	}
}

// TestPipelineRun_CleanStart verifies --clean runs down -v before any up.
func TestPipelineRun_CleanStart(t *testing.T) {
	p, proc, _, _ := testPipeline(t, DeploymentContext{Environment: EnvProduction, CleanStart: true})

	var err error
	silenceStdout(t, func() { err = p.Run(context.Background()) })
	if err != nil {
		t.Fatalf("expected success, got: %v", err)
	}

	downs := proc.CallsFor("down")
	if len(downs) != 1 {
		t.Fatalf("expected 1 down call, got %d", len(downs))
	}
	if got := strings.Join(downs[0].Args, " "); !strings.Contains(got, "-v") {
		t.Errorf("expected clean start to remove volumes, got %q", got)
	}

	// down must come before the first up
	downIdx, upIdx := -1, -1
	for i, call := range proc.Calls {
		joined := strings.Join(call.Args, " ")
		if downIdx == -1 && strings.Contains(joined, "down") {
			downIdx = i
		}
		if upIdx == -1 && strings.Contains(joined, "up -d") {
			upIdx = i
		}
	}
	if downIdx == -1 || upIdx == -1 || downIdx > upIdx {
		t.Errorf("expected down (call %d) before up (call %d)", downIdx, upIdx)
	}
}

// TestPipelineRun_CleanupFailureIsNotFatal verifies a failing down during
// --clean only warns; a fresh host has nothing to tear down.
func TestPipelineRun_CleanupFailureIsNotFatal(t *testing.T) {
	p, proc, _, _ := testPipeline(t, DeploymentContext{Environment: EnvProduction, SkipBuild: true, CleanStart: true})
	proc.StreamFunc = func(ctx context.Context, dir string, env []string, name string, args ...string) error {
		for _, a := range args {
			if a == "down" {
				return errors.New("exit status 1")
			}
		}
		return nil
	}

	var err error
	silenceStdout(t, func() { err = p.Run(context.Background()) })
	if err != nil {
		t.Fatalf("expected cleanup failure to be non-fatal, got: %v", err)
	}
	if n := len(upCallServices(proc)); n != 3 {
		t.Errorf("expected deployment to continue with 3 up calls, got %d", n)
	}
}

// TestPipelineRun_MissingFileAborts verifies a missing required file stops
// the pipeline in preflight with no container mutation commands issued.
func TestPipelineRun_MissingFileAborts(t *testing.T) {
	p, proc, _, dir := testPipeline(t, DeploymentContext{Environment: EnvProduction})
	if err := os.Remove(dir + "/monitoring/prometheus.yml"); err != nil {
		t.Fatal(err)
	}

	var err error
	silenceStdout(t, func() { err = p.Run(context.Background()) })

	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != StagePreflight {
		t.Fatalf("expected preflight StageError, got: %v", err)
	}
	if !errors.Is(err, ErrComposeFileMissing) {
		t.Errorf("expected ErrComposeFileMissing, got: %v", err)
	}
	if !strings.Contains(err.Error(), "prometheus.yml") {
		t.Errorf("expected missing file named in error, got: %v", err)
	}
	if n := len(upCallServices(proc)); n != 0 {
		t.Errorf("expected no up calls after failed preflight, got %d", n)
	}
	if n := len(proc.CallsFor("build")); n != 0 {
		t.Errorf("expected no build calls after failed preflight, got %d", n)
	}
}

// TestPipelineRun_DaemonUnreachableAborts verifies an unreachable daemon is
// fatal in preflight.
func TestPipelineRun_DaemonUnreachableAborts(t *testing.T) {
	p, proc, _, _ := testPipeline(t, DeploymentContext{Environment: EnvProduction})
	proc.RunFunc = func(ctx context.Context, dir string, env []string, name string, args ...string) (string, string, int, error) {
		return "", "daemon not running", 1, errors.New("exit status 1")
	}

	var err error
	silenceStdout(t, func() { err = p.Run(context.Background()) })

	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != StagePreflight {
		t.Fatalf("expected preflight StageError, got: %v", err)
	}
	if !errors.Is(err, ErrDaemonUnreachable) {
		t.Errorf("expected ErrDaemonUnreachable, got: %v", err)
	}
}

// TestPipelineRun_StartFailureAborts verifies a failing up command stops
// the pipeline in the start stage.
func TestPipelineRun_StartFailureAborts(t *testing.T) {
	p, proc, _, _ := testPipeline(t, DeploymentContext{Environment: EnvProduction, SkipBuild: true})
	proc.StreamFunc = func(ctx context.Context, dir string, env []string, name string, args ...string) error {
		for _, a := range args {
			if a == "up" {
				return errors.New("exit status 1")
			}
		}
		return nil
	}

	var err error
	silenceStdout(t, func() { err = p.Run(context.Background()) })

	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != StageStart {
		t.Fatalf("expected start StageError, got: %v", err)
	}
}

// TestPipelineRun_ReadinessExhaustionIsNotFatal verifies an exhausted
// inter-stage readiness poll only warns; the deployment continues.
func TestPipelineRun_ReadinessExhaustionIsNotFatal(t *testing.T) {
	p, proc, checker, _ := testPipeline(t, DeploymentContext{Environment: EnvProduction, SkipBuild: true})
	checker.NotReadyNames = []string{"redis"}

	var err error
	silenceStdout(t, func() { err = p.Run(context.Background()) })
	if err != nil {
		t.Fatalf("expected success despite slow redis, got: %v", err)
	}
	if n := len(upCallServices(proc)); n != 3 {
		t.Errorf("expected all 3 up calls, got %d", n)
	}
}

// =============================================================================
// UNIT TESTS: exit policy
// =============================================================================

// TestPipelineRun_UnhealthyServicesDefaultPolicy verifies unhealthy
// services do not fail the run unless strict mode is on.
func TestPipelineRun_UnhealthyServicesDefaultPolicy(t *testing.T) {
	p, _, checker, _ := testPipeline(t, DeploymentContext{Environment: EnvProduction, SkipBuild: true})
	checker.UnhealthyNames = []string{"Grafana"}

	var err error
	silenceStdout(t, func() { err = p.Run(context.Background()) })
	if err != nil {
		t.Fatalf("expected nil error without strict mode, got: %v", err)
	}
}

// TestPipelineRun_UnhealthyServicesStrict verifies strict mode turns any
// unhealthy service into ErrUnhealthyServices naming the failures.
func TestPipelineRun_UnhealthyServicesStrict(t *testing.T) {
	p, _, checker, _ := testPipeline(t, DeploymentContext{Environment: EnvProduction, SkipBuild: true, Strict: true})
	checker.UnhealthyNames = []string{"Grafana", "Jaeger"}

	var err error
	silenceStdout(t, func() { err = p.Run(context.Background()) })
	if !errors.Is(err, ErrUnhealthyServices) {
		t.Fatalf("expected ErrUnhealthyServices, got: %v", err)
	}
	if !strings.Contains(err.Error(), "Grafana") || !strings.Contains(err.Error(), "Jaeger") {
		t.Errorf("expected failed names in error, got: %v", err)
	}
}

var _ HealthChecker = (*mockChecker)(nil)
