// Package health reports whether a running skyflag scene is alive and
// stepping sanely. The checks back the liveness and readiness endpoints of
// the headless runner.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/chewxy/math32"

	"github.com/opd-ai/go-skyflag/pkg/engine"
	"github.com/opd-ai/go-skyflag/pkg/physics"
)

// Status values reported by the checker.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// HealthCheck defines the interface for individual health checks.
type HealthCheck interface {
	// Name returns the unique name of this health check
	Name() string
	// Check returns an error if the component is unhealthy
	Check(ctx context.Context) error
}

// HealthStatus is the aggregated result of all checks.
type HealthStatus struct {
	Status string                     `json:"status"`
	Checks map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth is the result of one check.
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthChecker runs the registered checks.
type HealthChecker struct {
	checks map[string]HealthCheck
	mu     sync.RWMutex
}

// NewHealthChecker creates a new health checker instance.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		checks: make(map[string]HealthCheck),
	}
}

// AddCheck registers a check, replacing one with the same name.
func (hc *HealthChecker) AddCheck(check HealthCheck) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[check.Name()] = check
}

// RemoveCheck removes a health check by name.
func (hc *HealthChecker) RemoveCheck(name string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	delete(hc.checks, name)
}

// CheckHealth runs every check. The result is healthy only if all pass.
func (hc *HealthChecker) CheckHealth(ctx context.Context) HealthStatus {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	status := HealthStatus{
		Status: StatusHealthy,
		Checks: make(map[string]ComponentHealth, len(hc.checks)),
	}
	for name, check := range hc.checks {
		if err := check.Check(ctx); err != nil {
			status.Status = StatusUnhealthy
			status.Checks[name] = ComponentHealth{Status: StatusUnhealthy, Message: err.Error()}
			continue
		}
		status.Checks[name] = ComponentHealth{Status: StatusHealthy}
	}
	return status
}

// LivenessHandler answers 200 while the process can serve requests.
func (hc *HealthChecker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
}

// ReadinessHandler runs all checks and answers 200 when they pass and 503
// otherwise.
func (hc *HealthChecker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := hc.CheckHealth(ctx)

	w.Header().Set("Content-Type", "application/json")
	if health.Status == StatusHealthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(health)
}

// Handler returns a mux serving /health and /ready.
func (hc *HealthChecker) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", hc.LivenessHandler)
	mux.HandleFunc("/ready", hc.ReadinessHandler)
	return mux
}

// SceneHealthCheck fails when the scene is stopped or has not stepped for
// longer than maxStall.
type SceneHealthCheck struct {
	running    func() bool
	lastUpdate func() time.Time
	maxStall   time.Duration
	now        func() time.Time
}

// NewSceneHealthCheck creates a scene liveness check. A zero maxStall
// disables the stall test.
func NewSceneHealthCheck(running func() bool, lastUpdate func() time.Time, maxStall time.Duration) *SceneHealthCheck {
	return &SceneHealthCheck{
		running:    running,
		lastUpdate: lastUpdate,
		maxStall:   maxStall,
		now:        time.Now,
	}
}

// Name returns the name of this health check.
func (s *SceneHealthCheck) Name() string {
	return "scene"
}

// Check verifies that the scene is running and stepping.
func (s *SceneHealthCheck) Check(ctx context.Context) error {
	if !s.running() {
		return fmt.Errorf("scene is not running")
	}
	if s.maxStall <= 0 {
		return nil
	}
	if since := s.now().Sub(s.lastUpdate()); since > s.maxStall {
		return fmt.Errorf("scene has not stepped for %v", since.Round(time.Millisecond))
	}
	return nil
}

// envelopeSlack is the tolerance for float rounding at the envelope bounds.
const envelopeSlack = 1e-3

// TelemetryHealthCheck fails when the flight state left its envelope or
// stopped being finite.
type TelemetryHealthCheck struct {
	snapshot func() (engine.Snapshot, bool)
	limits   physics.FlightLimits
}

// NewTelemetryHealthCheck creates a telemetry check. snapshot reports false
// until the first step was taken.
func NewTelemetryHealthCheck(snapshot func() (engine.Snapshot, bool), limits physics.FlightLimits) *TelemetryHealthCheck {
	return &TelemetryHealthCheck{snapshot: snapshot, limits: limits}
}

// Name returns the name of this health check.
func (t *TelemetryHealthCheck) Name() string {
	return "telemetry"
}

// Check verifies the latest snapshot.
func (t *TelemetryHealthCheck) Check(ctx context.Context) error {
	s, ok := t.snapshot()
	if !ok {
		return fmt.Errorf("no telemetry yet")
	}
	for name, v := range map[string]float32{
		"speed":      s.Speed,
		"altitude":   s.Altitude,
		"yaw":        s.Yaw,
		"pitch":      s.Pitch,
		"roll":       s.Roll,
		"accum_time": s.AccumTime,
	} {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return fmt.Errorf("%s is not finite", name)
		}
	}
	if s.Speed < t.limits.MinSpeed-envelopeSlack || s.Speed > t.limits.MaxSpeed+envelopeSlack {
		return fmt.Errorf("speed %.2f outside [%v, %v]", s.Speed, t.limits.MinSpeed, t.limits.MaxSpeed)
	}
	if s.Altitude < t.limits.MinHeight-envelopeSlack || s.Altitude > t.limits.MaxHeight+envelopeSlack {
		return fmt.Errorf("altitude %.2f outside [%v, %v]", s.Altitude, t.limits.MinHeight, t.limits.MaxHeight)
	}
	return nil
}

// MemoryHealthCheck implements HealthCheck for memory usage monitoring.
type MemoryHealthCheck struct {
	maxMemoryMB    int64
	getMemoryUsage func() int64
}

// NewMemoryHealthCheck creates a health check for memory usage. A nil
// getMemoryUsage reads the Go heap.
func NewMemoryHealthCheck(maxMemoryMB int64, getMemoryUsage func() int64) *MemoryHealthCheck {
	if getMemoryUsage == nil {
		getMemoryUsage = heapMB
	}
	return &MemoryHealthCheck{
		maxMemoryMB:    maxMemoryMB,
		getMemoryUsage: getMemoryUsage,
	}
}

// Name returns the name of this health check.
func (m *MemoryHealthCheck) Name() string {
	return "memory"
}

// Check verifies that memory usage is within acceptable limits.
func (m *MemoryHealthCheck) Check(ctx context.Context) error {
	currentMB := m.getMemoryUsage()
	if currentMB > m.maxMemoryMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", currentMB, m.maxMemoryMB)
	}
	return nil
}

func heapMB() int64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return int64(ms.Alloc / 1024 / 1024)
}
