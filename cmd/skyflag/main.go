// cmd/skyflag/main.go
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/opd-ai/go-skyflag/pkg/config"
	"github.com/opd-ai/go-skyflag/pkg/engine"
	"github.com/opd-ai/go-skyflag/pkg/event"
	"github.com/opd-ai/go-skyflag/pkg/logging"
	"github.com/opd-ai/go-skyflag/pkg/render"
	engorender "github.com/opd-ai/go-skyflag/pkg/render/engo"
	"github.com/opd-ai/go-skyflag/pkg/render/opengl"
)

// terminalFrameTime is the frame interval of the terminal renderer.
const terminalFrameTime = 50 * time.Millisecond

func main() {
	logger := logging.NewLogger()
	ctx := logging.WithSessionID(context.Background(), logging.NewSessionID())

	configPath := flag.String("config", "config.json", "Path to configuration file")
	createDefault := flag.Bool("default", false, "Create default configuration file")
	renderer := flag.String("renderer", "", "Renderer type: 'gl', 'engo' or 'terminal' (overrides config)")
	fullscreen := flag.Bool("fullscreen", false, "Run in fullscreen mode")
	width := flag.Int("width", 0, "Window width (overrides config)")
	height := flag.Int("height", 0, "Window height (overrides config)")
	flag.Parse()

	// Create default configuration file if requested
	if *createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", *configPath,
		)
		return
	}

	cfg, err := loadConfig(ctx, logger, *configPath)
	if err != nil {
		os.Exit(1)
	}

	// Command line flags win over file and environment
	if *renderer != "" {
		cfg.Window.Renderer = *renderer
	}
	if *width > 0 {
		cfg.Window.Width = *width
	}
	if *height > 0 {
		cfg.Window.Height = *height
	}
	if *fullscreen {
		cfg.Window.Fullscreen = true
	}

	if err := cfg.Validate(); err != nil {
		logger.Error(ctx, "Invalid configuration", err, "config_path", *configPath)
		os.Exit(1)
	}

	bus := event.NewEventBus()
	bus.Subscribe(event.FlightLimitHit, func(e event.Event) {
		if le, ok := e.(*event.LimitEvent); ok {
			logger.Debug(ctx, "Flight limit reached", "limit", le.Limit, "value", le.Value)
		}
	})

	scene, err := engine.BuildScene(ctx, cfg, bus)
	if err != nil {
		logger.Error(ctx, "Failed to build scene", err)
		os.Exit(1)
	}

	logger.Info(ctx, "Starting skyflag",
		"renderer", cfg.Window.Renderer,
		"width", cfg.Window.Width,
		"height", cfg.Window.Height,
	)

	switch cfg.Window.Renderer {
	case "engo":
		engorender.Run(scene, engorender.Options{
			Title:      cfg.Window.Title,
			Width:      cfg.Window.Width,
			Height:     cfg.Window.Height,
			Fullscreen: cfg.Window.Fullscreen,
			VSync:      cfg.Window.VSync,
		})
	case "terminal":
		runTerminal(scene)
	default:
		err := opengl.Run(scene, opengl.Options{
			Title:      cfg.Window.Title,
			Width:      cfg.Window.Width,
			Height:     cfg.Window.Height,
			Fullscreen: cfg.Window.Fullscreen,
		})
		if err != nil {
			logger.Error(ctx, "OpenGL renderer failed", err)
			os.Exit(1)
		}
	}
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

// runTerminal draws the scene as text until interrupted. The terminal has
// no key events, so the autopilot flies the plane.
func runTerminal(scene *engine.Scene) {
	ctx, stop := signal.NotifyContext(scene.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scene.Autopilot = engine.DefaultAutopilot()
	term := render.NewTerminalRenderer(80, 24, 4)

	scene.Start()
	defer scene.Stop()

	ticker := time.NewTicker(terminalFrameTime)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			scene.Tick()
			p := scene.Plane.Flight.Position
			term.SetCenter(mgl32.Vec2{p.X(), p.Z()})
			scene.Render(term)
		}
	}
}
