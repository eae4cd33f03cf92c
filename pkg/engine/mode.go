// pkg/engine/mode.go
package engine

import "fmt"

// FollowMode selects what the camera tracks. The numeric values match the
// number keys that select them.
type FollowMode int

const (
	FollowNone FollowMode = iota
	FollowPlane
	FollowPlanet
	FollowPlanetLookAtPlane

	followModeCount
)

var followModeNames = [followModeCount]string{
	"none",
	"plane",
	"planet",
	"planet-look-at-plane",
}

// String returns the configuration name of the mode.
func (m FollowMode) String() string {
	if m < 0 || m >= followModeCount {
		return fmt.Sprintf("FollowMode(%d)", int(m))
	}
	return followModeNames[m]
}

// Valid reports whether m is a known mode.
func (m FollowMode) Valid() bool {
	return m >= 0 && m < followModeCount
}

// ParseFollowMode returns the mode with the given configuration name.
func ParseFollowMode(name string) (FollowMode, error) {
	for i, n := range followModeNames {
		if n == name {
			return FollowMode(i), nil
		}
	}
	return FollowNone, fmt.Errorf("unknown camera follow mode %q", name)
}

// RenderMode selects the shading of the 3D renderer.
type RenderMode int

const (
	RenderColor RenderMode = iota
	RenderNormal

	renderModeCount
)

func (m RenderMode) String() string {
	switch m {
	case RenderColor:
		return "color"
	case RenderNormal:
		return "normal"
	default:
		return fmt.Sprintf("RenderMode(%d)", int(m))
	}
}

// Next returns the mode that follows m, wrapping around.
func (m RenderMode) Next() RenderMode {
	return (m + 1) % renderModeCount
}
