// pkg/entity/entity.go
package entity

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ID is a unique identifier for an entity
type ID uint64

// Entity is the base interface for all scene objects
type Entity interface {
	GetID() ID
	GetPosition() mgl32.Vec3
	ModelMatrix() mgl32.Mat4
	Render(r Renderer)
}

// BaseEntity contains common functionality for all entities
type BaseEntity struct {
	ID             ID
	Transformation mgl32.Mat4
	Active         bool
}

func newBaseEntity(id ID) BaseEntity {
	return BaseEntity{ID: id, Transformation: mgl32.Ident4(), Active: true}
}

// GetID returns the entity's unique identifier
func (e *BaseEntity) GetID() ID {
	return e.ID
}

// GetPosition returns the translation of the entity's transformation.
func (e *BaseEntity) GetPosition() mgl32.Vec3 {
	return e.Transformation.Col(3).Vec3()
}

// ModelMatrix returns the entity's model-to-world transformation.
func (e *BaseEntity) ModelMatrix() mgl32.Mat4 {
	return e.Transformation
}

// Render does nothing for the base entity.
func (e *BaseEntity) Render(r Renderer) {}

func (p *Plane) Render(r Renderer) {
	r.RenderPlane(p)
	if p.Flag != nil {
		r.RenderFlag(p.Flag)
	}
}

func (p *Planet) Render(r Renderer) {
	r.RenderPlanet(p)
}

func (f *Flag) Render(r Renderer) {
	r.RenderFlag(f)
}
