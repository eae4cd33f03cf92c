// pkg/render/renderer.go
package render

import (
	"context"
	"io"

	"github.com/opd-ai/go-skyflag/pkg/entity"
	"github.com/opd-ai/go-skyflag/pkg/logging"
)

// NullRenderer is a simple implementation of entity.Renderer that only
// logs what it is asked to draw.
type NullRenderer struct {
	logger *logging.Logger
	ctx    context.Context
	frames uint64
}

// NewNullRenderer creates a new NullRenderer with structured logging.
func NewNullRenderer() *NullRenderer {
	return &NullRenderer{
		logger: logging.NewLogger(),
		ctx:    logging.Background(),
	}
}

// NewNullRendererTo creates a NullRenderer logging to w.
func NewNullRendererTo(w io.Writer) *NullRenderer {
	return &NullRenderer{
		logger: logging.NewLoggerTo(w),
		ctx:    logging.Background(),
	}
}

// Frames returns the number of presented frames.
func (d *NullRenderer) Frames() uint64 { return d.frames }

// Clear implements entity.Renderer.
func (d *NullRenderer) Clear() {
	d.logger.Debug(d.ctx, "Clear called")
}

// Present implements entity.Renderer.
func (d *NullRenderer) Present() {
	d.frames++
	d.logger.Debug(d.ctx, "Present called", "frame", d.frames)
}

// RenderPlanet implements entity.Renderer.
func (d *NullRenderer) RenderPlanet(planet *entity.Planet) {
	if planet == nil {
		d.logger.Debug(d.ctx, "RenderPlanet called with nil planet")
		return
	}
	d.logger.Debug(d.ctx, "RenderPlanet called",
		"planet_id", planet.ID,
		"models", len(planet.Models),
		"emission", planet.Emission(),
	)
}

// RenderPlane implements entity.Renderer.
func (d *NullRenderer) RenderPlane(plane *entity.Plane) {
	if plane == nil {
		d.logger.Debug(d.ctx, "RenderPlane called with nil plane")
		return
	}
	d.logger.Debug(d.ctx, "RenderPlane called",
		"plane_id", plane.ID,
		"speed", plane.Flight.Speed,
		"altitude", plane.Flight.Position.Y(),
		"propeller", plane.PropellerAngle,
	)
}

// RenderFlag implements entity.Renderer.
func (d *NullRenderer) RenderFlag(flag *entity.Flag) {
	if flag == nil {
		d.logger.Debug(d.ctx, "RenderFlag called with nil flag")
		return
	}
	d.logger.Debug(d.ctx, "RenderFlag called",
		"flag_id", flag.ID,
		"vertices", len(flag.Vertices),
		"accum_time", flag.Sim.AccumTime(),
	)
}

// NullRendererInstance is a global instance of NullRenderer for convenience.
var NullRendererInstance entity.Renderer = NewNullRenderer()
