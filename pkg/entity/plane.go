// pkg/entity/plane.go
package entity

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/opd-ai/go-skyflag/pkg/asset"
	"github.com/opd-ai/go-skyflag/pkg/config"
	"github.com/opd-ai/go-skyflag/pkg/physics"
)

// Plane construction errors.
var (
	ErrPartCount   = errors.New("plane part count mismatch")
	ErrUnknownPart = errors.New("unknown plane part")
)

// Plane is the player-controlled aircraft: fifteen part models driven by a
// flight model, a spinning propeller and a flag mounted on the tail.
type Plane struct {
	BaseEntity

	Flight *physics.FlightModel
	Flag   *Flag

	// Models and PartTransforms are indexed by Part.
	Models         [PartCount]asset.Model
	PartTransforms [PartCount]mgl32.Mat4

	// PropellerAngle is the current propeller rotation in [0, 2π).
	PropellerAngle float32

	// BasePosition is where the plane started; follow cameras are placed
	// relative to it.
	BasePosition mgl32.Vec3
	FlagMount    mgl32.Mat4

	propellerMin float32
	propellerMax float32
	emission     *EmissionTable[Part]
}

// NewPlane assembles a plane from its part models. Every part must appear
// exactly once under its OBJ object name.
func NewPlane(id ID, models []asset.Model, flag *Flag, cfg config.PlaneConfig) (*Plane, error) {
	if len(models) != int(PartCount) {
		return nil, fmt.Errorf("%w: got %d models, want %d", ErrPartCount, len(models), PartCount)
	}

	flight, err := physics.NewFlightModel(cfg.Limits(), cfg.Start(), cfg.StartSpeed)
	if err != nil {
		return nil, err
	}

	p := &Plane{
		BaseEntity:   newBaseEntity(id),
		Flight:       flight,
		Flag:         flag,
		BasePosition: flight.Position,
		FlagMount:    mgl32.Translate3D(cfg.FlagMount[0], cfg.FlagMount[1], cfg.FlagMount[2]),
		propellerMin: cfg.PropellerMinSpeed,
		propellerMax: cfg.PropellerMaxSpeed,
		emission:     NewEmissionTable[Part](),
	}

	var seen [PartCount]bool
	for _, m := range models {
		part, ok := ParsePart(m.Name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPart, m.Name)
		}
		if seen[part] {
			return nil, fmt.Errorf("%w: %s appears twice", ErrPartCount, part)
		}
		seen[part] = true
		m.Materials = append([]asset.Material(nil), m.Materials...)
		p.Models[part] = m

		// Each light is a single material.
		if part.IsLight() && len(m.Materials) > 0 {
			p.emission.Record(part, m.Materials[0].Emission)
		}
	}

	for i := range p.PartTransforms {
		p.PartTransforms[i] = mgl32.Ident4()
	}
	p.Transformation = flight.Transformation
	p.updateFlag()
	return p, nil
}

// Move advances the plane by dt seconds under the given controls.
func (p *Plane) Move(c physics.Controls, dt float32) {
	p.Flight.Tick(c, dt)
	p.Transformation = p.Flight.Transformation

	speedFactor := p.Flight.SpeedFactor()
	p.PropellerAngle = wrapTurn(p.PropellerAngle + dt*physics.Lerp(p.propellerMin, p.propellerMax, speedFactor))
	p.PartTransforms[Propeller] = mgl32.HomogRotate3DZ(p.PropellerAngle)

	if p.Flag != nil {
		p.Flag.Sim.AdvanceTime(speedFactor, dt)
	}
	p.updateFlag()
}

// PartTransformation returns the model matrix of one part.
func (p *Plane) PartTransformation(part Part) mgl32.Mat4 {
	return p.Transformation.Mul4(p.PartTransforms[part])
}

// FlagModelMatrix returns the model matrix of the flag: mounted on the tail
// and partly counter-rotated against the plane's bank and yaw.
func (p *Plane) FlagModelMatrix() mgl32.Mat4 {
	return p.Transformation.Mul4(p.FlagMount).Mul4(p.Flight.FlagCounterRotation)
}

// SetEmission switches the plane's lights on or off.
func (p *Plane) SetEmission(on bool) {
	p.emission.SetEnabled(on, func(part Part, color mgl32.Vec3) {
		p.Models[part].Materials[0].Emission = color
	})
}

// Emission reports whether the lights are on.
func (p *Plane) Emission() bool { return p.emission.Enabled() }

// LightColor returns the original color of a light part.
func (p *Plane) LightColor(part Part) (mgl32.Vec3, bool) {
	return p.emission.Color(part)
}

func (p *Plane) updateFlag() {
	if p.Flag != nil {
		p.Flag.Transformation = p.FlagModelMatrix()
	}
}

// wrapTurn maps an angle into [0, 2π).
func wrapTurn(a float32) float32 {
	a = math32.Mod(a, 2*math32.Pi)
	if a < 0 {
		a += 2 * math32.Pi
	}
	if a >= 2*math32.Pi {
		a = 0
	}
	return a
}
