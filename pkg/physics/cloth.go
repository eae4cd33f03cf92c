// pkg/physics/cloth.go
package physics

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// WaveCount is the number of superposed waves in the flag animation.
const WaveCount = 3

// Default tuning of the flag animation.
const (
	DefaultMinDtFactor float32 = 0.8
	DefaultMaxDtFactor float32 = 4.0
)

// ErrInvalidWave is returned for wave parameters that cannot be animated.
var ErrInvalidWave = errors.New("invalid wave parameters")

// WaveParams describes one sinusoidal wave travelling across the cloth.
type WaveParams struct {
	Amplitude float32
	Phi       float32 // temporal frequency
	Omega     float32 // spatial frequency
	Direction mgl32.Vec2
}

// DefaultWaves returns a slow large wave, a medium ripple and a fast
// diagonal flutter.
func DefaultWaves() [WaveCount]WaveParams {
	return [WaveCount]WaveParams{
		{Amplitude: 1.0, Phi: 1.0, Omega: 0.25, Direction: mgl32.Vec2{0, 1}},
		{Amplitude: 0.2, Phi: 1.5, Omega: 0.75, Direction: mgl32.Vec2{0, 1}},
		{Amplitude: 0.1, Phi: 5.0, Omega: 2.0, Direction: mgl32.Vec2{-1.0 / 3.0, 1}.Normalize()},
	}
}

// Span gives the rest coordinates of the cloth's attached edge and its free
// edge along the axis the waves fade out on.
type Span struct {
	Mount float32
	Free  float32
}

// DefaultSpan is the span of an eight unit long flag attached at the origin.
func DefaultSpan() Span {
	return Span{Mount: 0, Free: -8}
}

// Taper returns the linear weight of the displacement at y: 0 on the mount
// edge and 1 on the free edge.
func (s Span) Taper(y float32) float32 {
	return (y - s.Mount) / (s.Free - s.Mount)
}

// ClothWaveSimulator animates a flag as a sum of sine waves. The displacement
// of every point is a pure function of its rest position and the accumulated
// time, so the same evaluation can run on the CPU or in a vertex shader.
type ClothWaveSimulator struct {
	accumTime   float32
	waves       [WaveCount]WaveParams
	minDtFactor float32
	maxDtFactor float32
	span        Span
}

// WaveUniforms is the flat parameter block a shader needs to evaluate the
// displacement itself.
type WaveUniforms struct {
	AccumTime  float32
	Params     [WaveCount]mgl32.Vec4 // amplitude, phi, omega, unused
	Directions [WaveCount]mgl32.Vec2
	Span       mgl32.Vec2 // mount, free
}

// NewClothWaveSimulator validates the waves and normalizes their directions.
func NewClothWaveSimulator(waves [WaveCount]WaveParams, minDtFactor, maxDtFactor float32, span Span) (*ClothWaveSimulator, error) {
	for i := range waves {
		l := waves[i].Direction.Len()
		if l == 0 || math32.IsNaN(l) || math32.IsInf(l, 0) {
			return nil, fmt.Errorf("%w: wave %d has direction %v", ErrInvalidWave, i, waves[i].Direction)
		}
		waves[i].Direction = waves[i].Direction.Mul(1 / l)
	}
	if minDtFactor < 0 || maxDtFactor < minDtFactor {
		return nil, fmt.Errorf("%w: dt factors [%v, %v]", ErrInvalidWave, minDtFactor, maxDtFactor)
	}
	if span.Free == span.Mount {
		return nil, fmt.Errorf("%w: empty span at %v", ErrInvalidWave, span.Mount)
	}

	return &ClothWaveSimulator{
		waves:       waves,
		minDtFactor: minDtFactor,
		maxDtFactor: maxDtFactor,
		span:        span,
	}, nil
}

// NewDefaultClothWaveSimulator returns a simulator with the default tuning.
func NewDefaultClothWaveSimulator() *ClothWaveSimulator {
	s, err := NewClothWaveSimulator(DefaultWaves(), DefaultMinDtFactor, DefaultMaxDtFactor, DefaultSpan())
	if err != nil {
		panic(err)
	}
	return s
}

// AccumTime returns the animation time accumulated so far.
func (s *ClothWaveSimulator) AccumTime() float32 { return s.accumTime }

// Waves returns a copy of the wave parameters with normalized directions.
func (s *ClothWaveSimulator) Waves() [WaveCount]WaveParams { return s.waves }

// Span returns the span the simulator was built with.
func (s *ClothWaveSimulator) Span() Span { return s.span }

// DtFactors returns the time scale at rest and at full speed.
func (s *ClothWaveSimulator) DtFactors() (minFactor, maxFactor float32) {
	return s.minDtFactor, s.maxDtFactor
}

// AdvanceTime moves the animation forward. A faster plane makes the flag
// flutter faster; speedFactor is clamped into [0, 1]. Non-positive dt is
// ignored.
func (s *ClothWaveSimulator) AdvanceTime(speedFactor, dt float32) {
	if !(dt > 0) {
		return
	}
	s.accumTime += dt * Lerp(s.minDtFactor, s.maxDtFactor, Clamp01(speedFactor))
}

// DisplacementAt returns the displacement normal to the cloth at point,
// given in the cloth's rest plane.
func (s *ClothWaveSimulator) DisplacementAt(point mgl32.Vec2, span Span) float32 {
	var sum float32
	for _, w := range s.waves {
		sum += w.Amplitude * math32.Sin(w.Direction.Dot(point)*w.Omega+s.accumTime*w.Phi)
	}
	return sum * span.Taper(point.Y())
}

// DisplaceMesh writes the displaced positions of rest into dst. The rest
// plane is YZ; X of every output vertex is replaced by the displacement. It
// returns the number of vertices written, which is the minimum of
// len(dst) and len(rest).
func (s *ClothWaveSimulator) DisplaceMesh(dst, rest []mgl32.Vec3, span Span) int {
	n := min(len(dst), len(rest))
	for i := 0; i < n; i++ {
		p := rest[i]
		dst[i] = mgl32.Vec3{s.DisplacementAt(mgl32.Vec2{p.Y(), p.Z()}, span), p.Y(), p.Z()}
	}
	return n
}

// Uniforms returns the state a flag shader needs for the current frame.
func (s *ClothWaveSimulator) Uniforms() WaveUniforms {
	u := WaveUniforms{
		AccumTime: s.accumTime,
		Span:      mgl32.Vec2{s.span.Mount, s.span.Free},
	}
	for i, w := range s.waves {
		u.Params[i] = mgl32.Vec4{w.Amplitude, w.Phi, w.Omega, 0}
		u.Directions[i] = w.Direction
	}
	return u
}
