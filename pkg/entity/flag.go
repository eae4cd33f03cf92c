// pkg/entity/flag.go
package entity

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/opd-ai/go-skyflag/pkg/asset"
	"github.com/opd-ai/go-skyflag/pkg/config"
	"github.com/opd-ai/go-skyflag/pkg/physics"
)

// ErrFlagModelCount is returned when a flag asset holds other than one model.
var ErrFlagModelCount = errors.New("flag needs exactly one model")

// Flag is the cloth towed by the plane. Its shape is a function of the
// simulator's time and the rest positions of its vertices; Animate evaluates
// it on the CPU for renderers without a wave shader.
type Flag struct {
	BaseEntity

	Model asset.Model
	Sim   *physics.ClothWaveSimulator
	Span  physics.Span

	// Vertices is the animated copy of Model.Vertices after Animate.
	Vertices []asset.Vertex

	rest      []mgl32.Vec3
	displaced []mgl32.Vec3
}

// NewFlag creates a flag from a single model and the animation settings.
func NewFlag(id ID, models []asset.Model, cfg config.FlagConfig) (*Flag, error) {
	if len(models) != 1 {
		return nil, fmt.Errorf("%w: got %d", ErrFlagModelCount, len(models))
	}
	sim, err := cfg.Simulator()
	if err != nil {
		return nil, err
	}

	m := models[0]
	f := &Flag{
		BaseEntity: newBaseEntity(id),
		Model:      m,
		Sim:        sim,
		Span:       cfg.Span(),
		Vertices:   append([]asset.Vertex(nil), m.Vertices...),
		rest:       m.Positions(),
		displaced:  make([]mgl32.Vec3, len(m.Vertices)),
	}
	return f, nil
}

// RestPositions returns the undisplaced vertex positions.
func (f *Flag) RestPositions() []mgl32.Vec3 {
	return f.rest
}

// Animate writes the current displacement into Vertices.
func (f *Flag) Animate() {
	f.Sim.DisplaceMesh(f.displaced, f.rest, f.Span)
	for i, p := range f.displaced {
		f.Vertices[i].Position = p
	}
}

// Displacement returns the displacement at a rest point of the cloth.
func (f *Flag) Displacement(y, z float32) float32 {
	return f.Sim.DisplacementAt(mgl32.Vec2{y, z}, f.Span)
}
