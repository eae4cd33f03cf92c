// cmd/headless/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/opd-ai/go-skyflag/pkg/config"
	"github.com/opd-ai/go-skyflag/pkg/engine"
	"github.com/opd-ai/go-skyflag/pkg/event"
	"github.com/opd-ai/go-skyflag/pkg/health"
	"github.com/opd-ai/go-skyflag/pkg/logging"
	"github.com/opd-ai/go-skyflag/pkg/render"
)

// maxHeapMB is the heap size above which the runner reports unhealthy.
const maxHeapMB = 512

// progress is the state shared with the health endpoints.
type progress struct {
	running    atomic.Bool
	lastUpdate atomic.Int64 // unix nanoseconds
	snapshot   atomic.Pointer[engine.Snapshot]
}

func (p *progress) publish(s engine.Snapshot) {
	p.snapshot.Store(&s)
	p.lastUpdate.Store(time.Now().UnixNano())
}

func (p *progress) latest() (engine.Snapshot, bool) {
	s := p.snapshot.Load()
	if s == nil {
		return engine.Snapshot{}, false
	}
	return *s, true
}

func main() {
	logger := logging.NewLogger()
	ctx := logging.WithSessionID(context.Background(), logging.NewSessionID())

	configPath := flag.String("config", "config.json", "Path to configuration file")
	ticks := flag.Uint64("ticks", 0, "Number of steps to run, 0 runs until interrupted")
	dt := flag.Float64("dt", 1.0/60, "Step length in seconds")
	every := flag.Uint64("every", 60, "Log the flight state every N steps")
	healthAddr := flag.String("health", "", "Serve /health and /ready on this address")
	realtime := flag.Bool("realtime", false, "Pace the steps to wall-clock time")
	flag.Parse()

	cfg, err := loadConfig(ctx, logger, *configPath)
	if err != nil {
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error(ctx, "Invalid configuration", err, "config_path", *configPath)
		os.Exit(1)
	}
	if *dt <= 0 {
		logger.Error(ctx, "Invalid step length", errors.New("dt must be positive"), "dt", *dt)
		os.Exit(1)
	}

	bus := event.NewEventBus()
	bus.Subscribe(event.FlightLimitHit, func(e event.Event) {
		if le, ok := e.(*event.LimitEvent); ok {
			logger.Info(ctx, "Flight limit reached", "limit", le.Limit, "value", le.Value)
		}
	})

	scene, err := engine.BuildScene(ctx, cfg, bus)
	if err != nil {
		logger.Error(ctx, "Failed to build scene", err)
		os.Exit(1)
	}
	scene.Autopilot = engine.DefaultAutopilot()

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	state := &progress{}
	if *healthAddr != "" {
		server := startHealthServer(runCtx, logger, *healthAddr, cfg, state, time.Duration(*dt*float64(time.Second))*60+time.Second)
		defer server.Shutdown(context.Background())
	}

	logger.Info(ctx, "Starting headless run",
		"ticks", *ticks,
		"dt", *dt,
		"realtime", *realtime,
	)
	run(runCtx, logger, scene, state, *ticks, float32(*dt), *every, *realtime)
}

// run steps the scene until ticks steps were taken or ctx is cancelled.
func run(ctx context.Context, logger *logging.Logger, scene *engine.Scene, state *progress, ticks uint64, dt float32, every uint64, realtime bool) {
	renderer := render.NewNullRenderer()

	scene.Start()
	state.running.Store(true)
	defer func() {
		state.running.Store(false)
		scene.Stop()
		logger.Info(ctx, "Headless run finished", "state", scene.Snapshot(), "frames", renderer.Frames())
	}()

	var pace <-chan time.Time
	if realtime {
		ticker := time.NewTicker(time.Duration(float64(dt) * float64(time.Second)))
		defer ticker.Stop()
		pace = ticker.C
	}

	for step := uint64(1); ticks == 0 || step <= ticks; step++ {
		if pace != nil {
			select {
			case <-ctx.Done():
				return
			case <-pace:
			}
		} else if ctx.Err() != nil {
			return
		}

		scene.Update(dt)
		scene.Render(renderer)
		state.publish(scene.Snapshot())

		if every > 0 && step%every == 0 {
			logger.Info(ctx, "Flight state", "state", scene.Snapshot())
		}
	}
}

func startHealthServer(ctx context.Context, logger *logging.Logger, addr string, cfg *config.Config, state *progress, maxStall time.Duration) *http.Server {
	hc := health.NewHealthChecker()
	hc.AddCheck(health.NewSceneHealthCheck(
		state.running.Load,
		func() time.Time { return time.Unix(0, state.lastUpdate.Load()) },
		maxStall,
	))
	hc.AddCheck(health.NewTelemetryHealthCheck(state.latest, cfg.Plane.Limits()))
	hc.AddCheck(health.NewMemoryHealthCheck(maxHeapMB, nil))

	server := &http.Server{
		Addr:              addr,
		Handler:           hc.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info(ctx, "Serving health endpoints", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "Health server failed", err, "addr", addr)
		}
	}()
	return server
}

// loadConfig reads the configuration file, falling back to the defaults when
// it does not exist, and applies the environment overrides.
func loadConfig(ctx context.Context, logger *logging.Logger, path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using defaults and environment",
			"config_path", path,
		)
		cfg, err := config.LoadConfigFromEnv()
		if err != nil {
			logger.Error(ctx, "Failed to load configuration from environment", err)
			return nil, err
		}
		return cfg, nil
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err,
			"config_path", path,
		)
		return nil, err
	}
	if err := config.ApplyEnvironmentOverrides(cfg); err != nil {
		logger.Error(ctx, "Failed to apply environment configuration", err)
		return nil, err
	}
	return cfg, nil
}
