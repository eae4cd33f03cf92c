// pkg/config/env.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variables that override a loaded configuration.
const (
	EnvWidth      = "SKYFLAG_WIDTH"
	EnvHeight     = "SKYFLAG_HEIGHT"
	EnvFullscreen = "SKYFLAG_FULLSCREEN"
	EnvRenderer   = "SKYFLAG_RENDERER"
	EnvPlaneOBJ   = "SKYFLAG_PLANE_OBJ"
	EnvFlagOBJ    = "SKYFLAG_FLAG_OBJ"
	EnvPlanetOBJ  = "SKYFLAG_PLANET_OBJ"
)

// ApplyEnvironmentOverrides replaces configuration values with the ones set
// in the environment. Unset variables leave the configuration untouched.
func ApplyEnvironmentOverrides(config *Config) error {
	var err error
	if config.Window.Width, err = getEnvInt(EnvWidth, config.Window.Width); err != nil {
		return err
	}
	if config.Window.Height, err = getEnvInt(EnvHeight, config.Window.Height); err != nil {
		return err
	}
	if config.Window.Fullscreen, err = getEnvBool(EnvFullscreen, config.Window.Fullscreen); err != nil {
		return err
	}
	config.Window.Renderer = strings.ToLower(getEnvOrDefault(EnvRenderer, config.Window.Renderer))
	config.Assets.PlaneOBJ = getEnvOrDefault(EnvPlaneOBJ, config.Assets.PlaneOBJ)
	config.Assets.FlagOBJ = getEnvOrDefault(EnvFlagOBJ, config.Assets.FlagOBJ)
	config.Assets.PlanetOBJ = getEnvOrDefault(EnvPlanetOBJ, config.Assets.PlanetOBJ)
	return nil
}

// LoadConfigFromEnv returns the default configuration with environment
// overrides applied and validated.
func LoadConfigFromEnv() (*Config, error) {
	config := DefaultConfig()
	if err := ApplyEnvironmentOverrides(config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
}
