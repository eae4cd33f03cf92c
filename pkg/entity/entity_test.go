// pkg/entity/entity_test.go
package entity

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/opd-ai/go-skyflag/pkg/asset"
	"github.com/opd-ai/go-skyflag/pkg/config"
)

func newTestFlag(t *testing.T) *Flag {
	t.Helper()
	cfg := config.DefaultConfig().Flag
	flag, err := NewFlag(2, []asset.Model{asset.FlagGrid(4, 8, 5, cfg.Length())}, cfg)
	if err != nil {
		t.Fatalf("NewFlag() failed: %v", err)
	}
	return flag
}

func newTestPlane(t *testing.T) *Plane {
	t.Helper()
	plane, err := NewPlane(1, asset.PlaneModels(), newTestFlag(t), config.DefaultConfig().Plane)
	if err != nil {
		t.Fatalf("NewPlane() failed: %v", err)
	}
	return plane
}

func newTestPlanet(t *testing.T) *Planet {
	t.Helper()
	planet, err := NewPlanet(3, asset.PlanetModels(asset.DefaultPlanetRadius), config.DefaultConfig().Planet)
	if err != nil {
		t.Fatalf("NewPlanet() failed: %v", err)
	}
	return planet
}

func TestBaseEntity_GetID(t *testing.T) {
	tests := []struct {
		name     string
		entityID ID
	}{
		{"zero_id", 0},
		{"positive_id", 42},
		{"large_id", 18446744073709551615},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entity := newBaseEntity(tt.entityID)
			if result := entity.GetID(); result != tt.entityID {
				t.Errorf("GetID() = %v, want %v", result, tt.entityID)
			}
		})
	}
}

func TestBaseEntity_GetPosition(t *testing.T) {
	tests := []struct {
		name      string
		transform mgl32.Mat4
		expected  mgl32.Vec3
	}{
		{"identity", mgl32.Ident4(), mgl32.Vec3{}},
		{"translated", mgl32.Translate3D(1, 2, 3), mgl32.Vec3{1, 2, 3}},
		{"rotated and translated", mgl32.Translate3D(-4, 0, 9).Mul4(mgl32.HomogRotate3DY(1)), mgl32.Vec3{-4, 0, 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entity := &BaseEntity{Transformation: tt.transform}
			if result := entity.GetPosition(); !result.ApproxEqual(tt.expected) {
				t.Errorf("GetPosition() = %v, want %v", result, tt.expected)
			}
			if entity.ModelMatrix() != tt.transform {
				t.Errorf("ModelMatrix() = %v, want %v", entity.ModelMatrix(), tt.transform)
			}
		})
	}
}

func TestEntityInterfaceCompliance(t *testing.T) {
	var _ Entity = newTestPlane(t)
	var _ Entity = newTestPlanet(t)
	var _ Entity = newTestFlag(t)
}
