// pkg/engine/snapshot.go
package engine

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
)

// Snapshot is the telemetry of one scene step.
type Snapshot struct {
	Tick        uint64
	Time        float32
	Speed       float32
	SpeedFactor float32
	Altitude    float32
	// Yaw, Pitch and Roll are in radians.
	Yaw   float32
	Pitch float32
	Roll  float32
	// Fov is the camera field of view in degrees.
	Fov            float32
	AccumTime      float32
	PropellerAngle float32
	FollowMode     string
	RenderMode     string
	Emission       bool
}

// Snapshot captures the current scene state.
func (s *Scene) Snapshot() Snapshot {
	f := s.Plane.Flight
	snap := Snapshot{
		Tick:           s.CurrentTick,
		Time:           s.ElapsedTime,
		Speed:          f.Speed,
		SpeedFactor:    f.SpeedFactor(),
		Altitude:       f.Position.Y(),
		Yaw:            f.Attitude.Yaw,
		Pitch:          f.Attitude.Pitch,
		Roll:           f.Attitude.Roll,
		Fov:            mgl32.RadToDeg(s.Camera.Fov),
		PropellerAngle: s.Plane.PropellerAngle,
		FollowMode:     s.follow.String(),
		RenderMode:     s.render.String(),
		Emission:       s.Plane.Emission(),
	}
	if s.Plane.Flag != nil {
		snap.AccumTime = s.Plane.Flag.Sim.AccumTime()
	}
	return snap
}

// LogValue implements slog.LogValuer.
func (s Snapshot) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("tick", s.Tick),
		slog.Float64("time", float64(s.Time)),
		slog.Float64("speed", float64(s.Speed)),
		slog.Float64("speed_factor", float64(s.SpeedFactor)),
		slog.Float64("altitude", float64(s.Altitude)),
		slog.Float64("yaw", float64(s.Yaw)),
		slog.Float64("pitch", float64(s.Pitch)),
		slog.Float64("roll", float64(s.Roll)),
		slog.Float64("fov", float64(s.Fov)),
		slog.Float64("accum_time", float64(s.AccumTime)),
		slog.String("follow_mode", s.FollowMode),
		slog.Bool("emission", s.Emission),
	)
}
