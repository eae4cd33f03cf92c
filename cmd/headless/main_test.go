package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/opd-ai/go-skyflag/pkg/config"
	"github.com/opd-ai/go-skyflag/pkg/engine"
	"github.com/opd-ai/go-skyflag/pkg/logging"
)

func TestRun_StepsAndPublishes(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultConfig()
	scene, err := engine.BuildScene(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("BuildScene: %v", err)
	}
	scene.Autopilot = engine.DefaultAutopilot()

	state := &progress{}
	if _, ok := state.latest(); ok {
		t.Fatal("expected no snapshot before the first step")
	}

	run(ctx, logging.NewLogger(), scene, state, 120, 1.0/60, 0, false)

	snap, ok := state.latest()
	if !ok {
		t.Fatal("expected a published snapshot")
	}
	if snap.Tick != 120 {
		t.Errorf("expected 120 ticks, got %d", snap.Tick)
	}
	if state.running.Load() || scene.Running {
		t.Error("scene should be stopped after the run")
	}
	if state.lastUpdate.Load() == 0 {
		t.Error("expected the last update time to be set")
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	scene, err := engine.BuildScene(ctx, config.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("BuildScene: %v", err)
	}
	state := &progress{}
	run(ctx, logging.NewLogger(), scene, state, 0, 1.0/60, 0, false)

	if _, ok := state.latest(); ok {
		t.Error("a cancelled run should not step")
	}
}

func TestLoadConfig_MissingFileUsesEnvironment(t *testing.T) {
	t.Setenv(config.EnvWidth, "1024")
	t.Setenv(config.EnvRenderer, "Terminal")
	path := filepath.Join(t.TempDir(), "missing.json")

	cfg, err := loadConfig(context.Background(), logging.NewLogger(), path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Window.Width != 1024 {
		t.Errorf("expected width 1024 from the environment, got %d", cfg.Window.Width)
	}
	if cfg.Window.Renderer != "terminal" {
		t.Errorf("expected renderer terminal, got %q", cfg.Window.Renderer)
	}
	if cfg.Plane.StartSpeed != config.DefaultConfig().Plane.StartSpeed {
		t.Errorf("expected default start speed, got %v", cfg.Plane.StartSpeed)
	}
}

func TestLoadConfig_MissingFileBadEnvironment(t *testing.T) {
	t.Setenv(config.EnvWidth, "wide")
	path := filepath.Join(t.TempDir(), "missing.json")

	if _, err := loadConfig(context.Background(), logging.NewLogger(), path); err == nil {
		t.Error("expected an error for a malformed width")
	}
}

func TestLoadConfig_FileWithEnvironmentOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skyflag.json")
	cfg := config.DefaultConfig()
	cfg.Window.Width = 640
	cfg.Window.Height = 480
	if err := config.SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	t.Setenv(config.EnvHeight, "360")

	got, err := loadConfig(context.Background(), logging.NewLogger(), path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if got.Window.Width != 640 || got.Window.Height != 360 {
		t.Errorf("expected 640x360, got %dx%d", got.Window.Width, got.Window.Height)
	}
}
