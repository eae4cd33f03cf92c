// pkg/config/validate.go
package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/opd-ai/go-skyflag/pkg/physics"
)

// ValidationError describes one invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config field %s: %s", e.Field, e.Message)
}

// Validate checks every section and returns all violations joined, or nil.
func (c *Config) Validate() error {
	var errs []error
	add := func(field, format string, args ...any) {
		errs = append(errs, &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		add("window.size", "width and height must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if !slices.Contains(Renderers, c.Window.Renderer) {
		add("window.renderer", "unknown renderer %q, want one of %v", c.Window.Renderer, Renderers)
	}

	if err := c.Plane.Limits().Validate(); err != nil {
		add("plane.limits", "%v", err)
	}
	if c.Plane.PropellerMinSpeed < 0 || c.Plane.PropellerMaxSpeed < c.Plane.PropellerMinSpeed {
		add("plane.propeller", "speed range [%v, %v] is invalid", c.Plane.PropellerMinSpeed, c.Plane.PropellerMaxSpeed)
	}

	if len(c.Flag.Waves) != physics.WaveCount {
		add("flag.waves", "need %d waves, got %d", physics.WaveCount, len(c.Flag.Waves))
	}
	for i, w := range c.Flag.Waves {
		if mgl32.Vec2(w.Direction).Len() == 0 {
			add(fmt.Sprintf("flag.waves[%d].direction", i), "must not be zero")
		}
	}
	if c.Flag.MinDtFactor < 0 || c.Flag.MaxDtFactor < c.Flag.MinDtFactor {
		add("flag.dtFactor", "range [%v, %v] is invalid", c.Flag.MinDtFactor, c.Flag.MaxDtFactor)
	}
	if c.Flag.Mount == c.Flag.Free {
		add("flag.span", "mount and free edge coincide at %v", c.Flag.Mount)
	}
	if c.Flag.Columns <= 0 || c.Flag.Rows <= 0 || c.Flag.Width <= 0 {
		add("flag.mesh", "columns, rows and width must be positive")
	}

	if c.Planet.Radius <= 0 {
		add("planet.radius", "must be positive, got %v", c.Planet.Radius)
	}
	if c.Planet.RotationDivisor <= 0 {
		add("planet.rotationDivisor", "must be positive, got %v", c.Planet.RotationDivisor)
	}

	if c.Camera.Fov <= 0 || c.Camera.Fov >= 180 {
		add("camera.fov", "must be in (0, 180) degrees, got %v", c.Camera.Fov)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		add("camera.clip", "need 0 < near < far, got near %v far %v", c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.ZoomMultiplier <= 0 {
		add("camera.zoomMultiplier", "must be positive, got %v", c.Camera.ZoomMultiplier)
	}
	if !slices.Contains(FollowModes, c.Camera.FollowMode) {
		add("camera.followMode", "unknown mode %q, want one of %v", c.Camera.FollowMode, FollowModes)
	}

	return errors.Join(errs...)
}
