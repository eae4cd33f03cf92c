// pkg/entity/planet.go
package entity

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/opd-ai/go-skyflag/pkg/asset"
	"github.com/opd-ai/go-skyflag/pkg/config"
)

// ErrNoPlanetParts is returned when a planet has no models.
var ErrNoPlanetParts = errors.New("planet needs at least one model")

// MaterialRef addresses one material of one planet model.
type MaterialRef struct {
	Model    int
	Material int
}

// Planet is the world the plane circles. The plane never moves forward;
// the planet turns underneath it instead.
type Planet struct {
	BaseEntity

	Models      []asset.Model
	Position    mgl32.Vec3
	Orientation mgl32.Quat
	Rotation    mgl32.Mat4

	rotationDivisor float32
	emission        *EmissionTable[MaterialRef]
}

// NewPlanet creates a planet at the origin and records every emissive
// material.
func NewPlanet(id ID, models []asset.Model, cfg config.PlanetConfig) (*Planet, error) {
	if len(models) == 0 {
		return nil, ErrNoPlanetParts
	}
	if cfg.RotationDivisor <= 0 {
		return nil, fmt.Errorf("planet rotation divisor %v must be positive", cfg.RotationDivisor)
	}

	owned := make([]asset.Model, len(models))
	for i, m := range models {
		m.Materials = append([]asset.Material(nil), m.Materials...)
		owned[i] = m
	}

	p := &Planet{
		BaseEntity:      newBaseEntity(id),
		Models:          owned,
		Orientation:     mgl32.QuatIdent(),
		Rotation:        mgl32.Ident4(),
		rotationDivisor: cfg.RotationDivisor,
		emission:        NewEmissionTable[MaterialRef](),
	}
	for mi, m := range owned {
		for ti, mat := range m.Materials {
			if mat.Emissive() {
				p.emission.Record(MaterialRef{Model: mi, Material: ti}, mat.Emission)
			}
		}
	}
	return p, nil
}

// Rotate turns the planet about axis by an angle proportional to the
// plane's speed. The new rotation is applied on top of the current one.
func (p *Planet) Rotate(axis mgl32.Vec3, planeSpeed, dt float32) {
	angle := dt * planeSpeed / p.rotationDivisor
	if angle == 0 || axis.Len() == 0 {
		return
	}
	delta := mgl32.QuatRotate(angle, axis.Normalize())
	p.Orientation = delta.Mul(p.Orientation).Normalize()
	p.Rotation = p.Orientation.Mat4()
	p.Transformation = mgl32.Translate3D(p.Position.X(), p.Position.Y(), p.Position.Z()).Mul4(p.Rotation)
}

// SetEmission switches all emissive planet materials on or off.
func (p *Planet) SetEmission(on bool) {
	p.emission.SetEnabled(on, func(ref MaterialRef, color mgl32.Vec3) {
		p.Models[ref.Model].Materials[ref.Material].Emission = color
	})
}

// Emission reports whether the planet's lights are on.
func (p *Planet) Emission() bool { return p.emission.Enabled() }

// EmissiveMaterials returns the materials whose emission can be toggled.
func (p *Planet) EmissiveMaterials() []MaterialRef {
	return p.emission.Keys()
}
