package entity

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-skyflag/pkg/asset"
	"github.com/opd-ai/go-skyflag/pkg/config"
	"github.com/opd-ai/go-skyflag/pkg/physics"
)

func TestNewPlane(t *testing.T) {
	plane := newTestPlane(t)

	for part := Part(0); part < PartCount; part++ {
		assert.Equal(t, part.String(), plane.Models[part].Name)
		assert.Equal(t, mgl32.Ident4(), plane.PartTransforms[part])
	}
	assert.Equal(t, mgl32.Vec3{0, 45, -5}, plane.BasePosition)
	assert.Equal(t, mgl32.Vec3{0, 45, -5}, plane.GetPosition())
	assert.Equal(t, mgl32.Translate3D(0, 0, -8.5), plane.FlagMount)
	assert.True(t, plane.Emission())

	for part := Part(0); part < PartCount; part++ {
		_, ok := plane.LightColor(part)
		assert.Equal(t, part.IsLight(), ok, part.String())
	}
	red, _ := plane.LightColor(LightLeftWing)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, red)
}

func TestNewPlaneErrors(t *testing.T) {
	cfg := config.DefaultConfig().Plane

	t.Run("too few parts", func(t *testing.T) {
		_, err := NewPlane(1, asset.PlaneModels()[:14], nil, cfg)
		assert.True(t, errors.Is(err, ErrPartCount), "got %v", err)
	})

	t.Run("unknown part", func(t *testing.T) {
		models := asset.PlaneModels()
		models[3].Name = "Cockpit"
		_, err := NewPlane(1, models, nil, cfg)
		assert.True(t, errors.Is(err, ErrUnknownPart), "got %v", err)
		assert.Contains(t, err.Error(), "Cockpit")
	})

	t.Run("duplicate part", func(t *testing.T) {
		models := asset.PlaneModels()
		models[3].Name = "Hull"
		_, err := NewPlane(1, models, nil, cfg)
		assert.True(t, errors.Is(err, ErrPartCount), "got %v", err)
	})

	t.Run("invalid limits", func(t *testing.T) {
		bad := cfg
		bad.MaxSpeed = 0
		_, err := NewPlane(1, asset.PlaneModels(), nil, bad)
		assert.True(t, errors.Is(err, physics.ErrInvalidLimits), "got %v", err)
	})
}

func TestPlaneModelsInAnyOrder(t *testing.T) {
	models := asset.PlaneModels()
	models[0], models[14] = models[14], models[0]

	plane, err := NewPlane(1, models, nil, config.DefaultConfig().Plane)
	require.NoError(t, err)
	assert.Equal(t, "Propeller", plane.Models[Propeller].Name)
	assert.Equal(t, "FlagConnector", plane.Models[FlagConnector].Name)
}

func TestPlaneMove(t *testing.T) {
	plane := newTestPlane(t)
	plane.Move(physics.Controls{Throttle: physics.Positive, Turn: physics.Positive}, 0.1)

	assert.InDelta(t, 21, plane.Flight.Speed, 1e-5)
	assert.Equal(t, plane.Flight.Transformation, plane.Transformation)
	assert.Equal(t, mgl32.HomogRotate3DZ(plane.PropellerAngle), plane.PartTransforms[Propeller])
	assert.Greater(t, plane.Flag.Sim.AccumTime(), float32(0))
	assert.Equal(t, plane.FlagModelMatrix(), plane.Flag.Transformation)

	want := plane.Transformation.Mul4(mgl32.Translate3D(0, 0, -8.5)).Mul4(plane.Flight.FlagCounterRotation)
	assert.True(t, plane.FlagModelMatrix().ApproxEqualThreshold(want, 1e-6))
	assert.Equal(t, plane.Transformation.Mul4(plane.PartTransforms[Hull]), plane.PartTransformation(Hull))
}

func TestPropellerSpinsWithSpeed(t *testing.T) {
	slow := newTestPlane(t)
	slow.Move(physics.Controls{}, 0.01)
	assert.InDelta(t, 0.01*8*math32.Pi, slow.PropellerAngle, 1e-5)

	fast := newTestPlane(t)
	fast.Flight.Speed = fast.Flight.Limits.MaxSpeed
	fast.Move(physics.Controls{}, 0.01)
	assert.InDelta(t, 0.01*16*math32.Pi, fast.PropellerAngle, 1e-5)
}

func TestPropellerAngleStaysWrapped(t *testing.T) {
	plane := newTestPlane(t)
	for i := 0; i < 1000; i++ {
		plane.Move(physics.Controls{Throttle: physics.Positive}, 0.05)
		assert.GreaterOrEqual(t, plane.PropellerAngle, float32(0))
		assert.Less(t, plane.PropellerAngle, float32(2*math32.Pi))
	}
}

func TestWrapTurn(t *testing.T) {
	assert.InDelta(t, 1, wrapTurn(1+2*math32.Pi), 1e-5)
	assert.InDelta(t, 2*math32.Pi-1, wrapTurn(-1), 1e-5)
	assert.Equal(t, float32(0), wrapTurn(0))
}

func TestPlaneSetEmission(t *testing.T) {
	plane := newTestPlane(t)

	plane.SetEmission(false)
	assert.False(t, plane.Emission())
	for part := Part(0); part < PartCount; part++ {
		assert.Equal(t, mgl32.Vec3{}, plane.Models[part].Materials[0].Emission, part.String())
	}

	plane.SetEmission(true)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, plane.Models[LightRightWing].Materials[0].Emission)
	assert.Equal(t, mgl32.Vec3{}, plane.Models[Hull].Materials[0].Emission)
}

func TestPlaneDoesNotShareMaterials(t *testing.T) {
	models := asset.PlaneModels()
	plane, err := NewPlane(1, models, nil, config.DefaultConfig().Plane)
	require.NoError(t, err)

	plane.SetEmission(false)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, models[LightLeftWing].Materials[0].Emission)
}
