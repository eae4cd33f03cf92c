// pkg/engine/assets.go
package engine

import (
	"context"
	"fmt"

	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-skyflag/pkg/asset"
	"github.com/opd-ai/go-skyflag/pkg/config"
	"github.com/opd-ai/go-skyflag/pkg/entity"
	"github.com/opd-ai/go-skyflag/pkg/event"
	"github.com/opd-ai/go-skyflag/pkg/logging"
)

// Models holds the meshes a scene is built from.
type Models struct {
	Plane  []asset.Model
	Flag   []asset.Model
	Planet []asset.Model
}

// LoadModels reads the configured OBJ files. Any asset without a path is
// generated procedurally instead.
func LoadModels(ctx context.Context, cfg *config.Config) (*Models, error) {
	logger := logging.NewLogger()
	models := &Models{}

	load := func(kind, path string, fallback func() []asset.Model) ([]asset.Model, error) {
		if path == "" {
			logger.Debug(ctx, "using procedural model", "asset", kind)
			return fallback(), nil
		}
		m, err := asset.LoadOBJ(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s model: %w", kind, err)
		}
		logger.Info(ctx, "loaded model", "asset", kind, "path", path, "objects", len(m))
		return m, nil
	}

	var err error
	if models.Plane, err = load("plane", cfg.Assets.PlaneOBJ, asset.PlaneModels); err != nil {
		return nil, err
	}
	flag := cfg.Flag
	if models.Flag, err = load("flag", cfg.Assets.FlagOBJ, func() []asset.Model {
		return []asset.Model{asset.FlagGrid(flag.Columns, flag.Rows, flag.Width, flag.Length())}
	}); err != nil {
		return nil, err
	}
	if models.Planet, err = load("planet", cfg.Assets.PlanetOBJ, func() []asset.Model {
		return asset.PlanetModels(cfg.Planet.Radius)
	}); err != nil {
		return nil, err
	}
	return models, nil
}

// BuildScene loads the models of cfg and assembles a scene from them.
func BuildScene(ctx context.Context, cfg *config.Config, bus *event.Bus) (*Scene, error) {
	models, err := LoadModels(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewSceneFromModels(ctx, cfg, models, bus)
}

// NewSceneFromModels creates the entities for models and a scene around
// them. Entity IDs are drawn from the ecs ID sequence.
func NewSceneFromModels(ctx context.Context, cfg *config.Config, models *Models, bus *event.Bus) (*Scene, error) {
	flag, err := entity.NewFlag(newID(), models.Flag, cfg.Flag)
	if err != nil {
		return nil, logging.WrapError(err, "failed to create flag")
	}
	plane, err := entity.NewPlane(newID(), models.Plane, flag, cfg.Plane)
	if err != nil {
		return nil, logging.WrapError(err, "failed to create plane")
	}
	planet, err := entity.NewPlanet(newID(), models.Planet, cfg.Planet)
	if err != nil {
		return nil, logging.WrapError(err, "failed to create planet")
	}
	return NewScene(ctx, cfg, plane, planet, bus)
}

func newID() entity.ID {
	basic := ecs.NewBasic()
	return entity.ID(basic.ID())
}
